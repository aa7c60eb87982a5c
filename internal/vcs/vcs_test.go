// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Repository operation tests

package vcs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/tw-scaffold/internal/vcs"
)

var testAuthor = vcs.Author{Name: "Test", Email: "test@example.com"}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStripHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))
	require.True(t, vcs.IsRepository(dir))

	require.NoError(t, vcs.StripHistory(dir))
	assert.NoDirExists(t, filepath.Join(dir, ".git"))
	assert.False(t, vcs.IsRepository(dir))

	// already gone
	assert.NoError(t, vcs.StripHistory(dir))
}

func TestInit_FailsOnExistingRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))

	err := vcs.Init(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRepositoryAlreadyExists)
}

func TestCommitAll_HonoursGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))

	writeFile(t, filepath.Join(dir, ".gitignore"), "node_modules/\n")
	writeFile(t, filepath.Join(dir, "package.json"), "{}\n")
	writeFile(t, filepath.Join(dir, "src", "input.css"), "@tailwind base;\n")
	writeFile(t, filepath.Join(dir, "node_modules", "tailwindcss", "package.json"), "{}\n")

	hash, err := vcs.CommitAll(dir, "Initial commit", testAuthor)
	require.NoError(t, err)
	require.False(t, hash.IsZero())

	r, err := git.PlainOpen(dir)
	require.NoError(t, err)
	commit, err := r.CommitObject(hash)
	require.NoError(t, err)

	assert.Equal(t, "Initial commit", commit.Message)
	assert.Equal(t, "Test", commit.Author.Name)
	assert.Equal(t, "test@example.com", commit.Author.Email)

	tree, err := commit.Tree()
	require.NoError(t, err)

	for _, name := range []string{".gitignore", "package.json", "src/input.css"} {
		_, err := tree.File(name)
		assert.NoError(t, err, name)
	}
	_, err = tree.File("node_modules/tailwindcss/package.json")
	assert.ErrorIs(t, err, object.ErrFileNotFound)
}

func TestCommitAll_NotARepository(t *testing.T) {
	_, err := vcs.CommitAll(t.TempDir(), "msg", testAuthor)
	assert.Error(t, err)
}

func TestRenameBranch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))
	writeFile(t, filepath.Join(dir, "index.html"), "<html></html>")

	hash, err := vcs.CommitAll(dir, "Initial commit", testAuthor)
	require.NoError(t, err)

	before, err := vcs.HeadBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "master", before)

	require.NoError(t, vcs.RenameBranch(dir, "main"))

	after, err := vcs.HeadBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "main", after)

	r, err := git.PlainOpen(dir)
	require.NoError(t, err)

	ref, err := r.Reference(plumbing.NewBranchReferenceName("main"), false)
	require.NoError(t, err)
	assert.Equal(t, hash, ref.Hash())

	_, err = r.Reference(plumbing.NewBranchReferenceName("master"), false)
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)

	// renaming onto itself is a no-op
	assert.NoError(t, vcs.RenameBranch(dir, "main"))
}

func TestRenameBranch_UnbornBranch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))

	require.NoError(t, vcs.RenameBranch(dir, "trunk"))

	branch, err := vcs.HeadBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}

func TestRenameBranch_EmptyName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, vcs.Init(dir))
	assert.Error(t, vcs.RenameBranch(dir, " "))
}

func TestResolveAuthor_FromEnvironment(t *testing.T) {
	t.Setenv("GIT_AUTHOR_NAME", "Ada")
	t.Setenv("GIT_AUTHOR_EMAIL", "ada@example.com")

	author := vcs.ResolveAuthor()
	assert.Equal(t, "Ada", author.Name)
	assert.Equal(t, "ada@example.com", author.Email)
	assert.Equal(t, "Ada <ada@example.com>", author.String())
}

func TestResolveAuthor_Fallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_AUTHOR_NAME", "")
	t.Setenv("GIT_AUTHOR_EMAIL", "")

	author := vcs.ResolveAuthor()
	assert.Equal(t, vcs.DefaultAuthorName, author.Name)
	assert.Equal(t, vcs.DefaultAuthorEmail, author.Email)
}
