// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Fetcher tests

package fetcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/tw-scaffold/internal/fetcher"
)

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"github https", "https://github.com/user/repo", fetcher.SourceTypeGitHub},
		{"github https with .git", "https://github.com/user/repo.git", fetcher.SourceTypeGitHub},
		{"github ssh", "git@github.com:user/repo.git", fetcher.SourceTypeGitHub},
		{"gitlab https", "https://gitlab.com/user/repo", fetcher.SourceTypeGitLab},
		{"gitlab ssh", "git@gitlab.com:user/repo.git", fetcher.SourceTypeGitLab},
		{"self-hosted https", "https://git.example.com/web/template.git", fetcher.SourceTypeGit},
		{"self-hosted scp", "deploy@git.example.com:web/template.git", fetcher.SourceTypeGit},
		{"file url", "file:///srv/templates/site", fetcher.SourceTypeGit},
		{"current dir", ".", fetcher.SourceTypeLocal},
		{"relative path", "./templates/site", fetcher.SourceTypeLocal},
		{"absolute path", "/srv/templates/site", fetcher.SourceTypeLocal},
		{"empty", "", fetcher.SourceTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fetcher.DetectSourceType(tt.source))
		})
	}
}

func TestParseGitURL(t *testing.T) {
	info, err := fetcher.ParseGitURL("git@github.com:h5bp/html5-boilerplate.git")
	require.NoError(t, err)
	assert.Equal(t, "h5bp", info.Owner)
	assert.Equal(t, "html5-boilerplate", info.Repo)
	assert.Equal(t, fetcher.SourceTypeGitHub, info.Platform)

	_, err = fetcher.ParseGitURL("https://bitbucket.org/user/repo")
	assert.Error(t, err)
}

func TestNormalizeGitURL(t *testing.T) {
	tests := map[string]string{
		"git@github.com:user/repo.git":   "https://github.com/user/repo.git",
		"https://github.com/user/repo/":  "https://github.com/user/repo.git",
		"git@gitlab.com:group/site":      "https://gitlab.com/group/site.git",
		"https://git.example.com/x.git":  "https://git.example.com/x.git",
		"deploy@git.example.com:web.git": "deploy@git.example.com:web.git",
	}

	for in, want := range tests {
		assert.Equal(t, want, fetcher.NormalizeGitURL(in), in)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFetch_LocalTemplate(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(src, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(src, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(src, "node_modules", "x", "index.js"), "")
	writeFile(t, filepath.Join(src, ".gitignore"), "# build output\ndist/\n*.log\n")
	writeFile(t, filepath.Join(src, "dist", "out.css"), "")
	writeFile(t, filepath.Join(src, "debug.log"), "")

	dst := filepath.Join(t.TempDir(), "site")

	result, err := fetcher.Fetch(context.Background(), &fetcher.FetchConfig{Source: src, Destination: dst})
	require.NoError(t, err)

	assert.Equal(t, fetcher.SourceTypeLocal, result.SourceType)
	assert.False(t, result.IsGitRepo)
	assert.Equal(t, 3, result.FilesCopied) // index.html, css/site.css, .gitignore

	assert.FileExists(t, filepath.Join(dst, "index.html"))
	assert.FileExists(t, filepath.Join(dst, "css", "site.css"))
	assert.NoDirExists(t, filepath.Join(dst, ".git"))
	assert.NoDirExists(t, filepath.Join(dst, "node_modules"))
	assert.NoDirExists(t, filepath.Join(dst, "dist"))
	assert.NoFileExists(t, filepath.Join(dst, "debug.log"))
}

func TestFetch_DestinationExists(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "")

	dst := t.TempDir()
	writeFile(t, filepath.Join(dst, "keep.txt"), "first run")

	_, err := fetcher.Fetch(context.Background(), &fetcher.FetchConfig{Source: src, Destination: dst})
	require.Error(t, err)
	assert.ErrorIs(t, err, fetcher.ErrDestinationExists)

	data, readErr := os.ReadFile(filepath.Join(dst, "keep.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "first run", string(data))
}

func TestFetch_CloneFailureLeavesNoDestination(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "site")

	_, err := fetcher.Fetch(context.Background(), &fetcher.FetchConfig{
		Source:       "https://127.0.0.1:1/unreachable/template.git",
		Destination:  dst,
		ShallowClone: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clone template")
	assert.NoDirExists(t, dst)
}

func TestFetch_MissingLocalTemplate(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "site")

	_, err := fetcher.Fetch(context.Background(), &fetcher.FetchConfig{
		Source:      filepath.Join(t.TempDir(), "nope"),
		Destination: dst,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.NoDirExists(t, dst)
}

func TestFetch_InvalidConfig(t *testing.T) {
	_, err := fetcher.Fetch(context.Background(), nil)
	assert.Error(t, err)

	_, err = fetcher.Fetch(context.Background(), &fetcher.FetchConfig{Destination: "x"})
	assert.Error(t, err)

	_, err = fetcher.Fetch(context.Background(), &fetcher.FetchConfig{Source: "."})
	assert.Error(t, err)
}
