// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Configuration tests

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/tw-scaffold/internal/workspace"
)

// isolate points every config search location at empty temp dirs
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, env := range []string{EnvName, EnvTemplate, EnvPackageManager, EnvBranch, EnvCommitMessage, EnvTimeout} {
		t.Setenv(env, "")
	}
	wd := t.TempDir()
	t.Chdir(wd)
	return wd
}

func TestResolve_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Resolve(Flags{})
	require.NoError(t, err)

	assert.Equal(t, workspace.DefaultProjectName, cfg.ProjectName)
	assert.Equal(t, DefaultTemplateURL, cfg.TemplateURL)
	assert.Equal(t, DefaultPackages, cfg.Packages)
	assert.Len(t, cfg.ContentGlobs, 3)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "Initial commit", cfg.CommitMessage)
	assert.Equal(t, 5*time.Minute, cfg.StepTimeout)
	assert.Empty(t, cfg.PackageManager)
	assert.Empty(t, cfg.Source)
}

func TestResolve_Precedence(t *testing.T) {
	wd := isolate(t)

	yamlCfg := `
name: from-file
template: https://example.com/file.git
package_manager: yarn
branch: trunk
timeout: 2m
packages:
  - tailwindcss@3
`
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".tw-scaffold.yaml"), []byte(yamlCfg), 0o644))
	t.Setenv(EnvTemplate, "https://example.com/env.git")
	t.Setenv(EnvTimeout, "3m")

	cfg, err := Resolve(Flags{Name: "from-flag", Verbose: true})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.ProjectName)                  // CLI
	assert.Equal(t, "https://example.com/env.git", cfg.TemplateURL) // ENV over file
	assert.Equal(t, "yarn", cfg.PackageManager)                     // file
	assert.Equal(t, "trunk", cfg.Branch)                            // file
	assert.Equal(t, 3*time.Minute, cfg.StepTimeout)                 // ENV over file
	assert.Equal(t, []string{"tailwindcss@3"}, cfg.Packages)
	assert.Equal(t, ".tw-scaffold.yaml", cfg.Source)
	assert.True(t, cfg.Verbose)
}

func TestResolve_TOMLAndJSON(t *testing.T) {
	wd := isolate(t)

	tomlPath := filepath.Join(wd, "scaffold.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("name = \"toml-site\"\ncommit_message = \"chore: scaffold\"\n"), 0o644))

	cfg, err := Resolve(Flags{ConfigPath: tomlPath})
	require.NoError(t, err)
	assert.Equal(t, "toml-site", cfg.ProjectName)
	assert.Equal(t, "chore: scaffold", cfg.CommitMessage)

	jsonPath := filepath.Join(wd, "scaffold.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":"json-site","content_globs":["./src/**/*.html"]}`), 0o644))

	cfg, err = Resolve(Flags{ConfigPath: jsonPath})
	require.NoError(t, err)
	assert.Equal(t, "json-site", cfg.ProjectName)
	assert.Equal(t, []string{"./src/**/*.html"}, cfg.ContentGlobs)
}

func TestResolve_Errors(t *testing.T) {
	wd := isolate(t)

	_, err := Resolve(Flags{ConfigPath: filepath.Join(wd, "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Resolve(Flags{Name: "a/b"})
	assert.ErrorIs(t, err, workspace.ErrInvalidName)

	_, err = Resolve(Flags{PackageManager: "cargo"})
	assert.Error(t, err)

	t.Setenv(EnvTimeout, "soon")
	_, err = Resolve(Flags{})
	assert.Error(t, err)
}

func TestResolve_BrokenFile(t *testing.T) {
	wd := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".tw-scaffold.json"), []byte("{broken"), 0o644))

	_, err := Resolve(Flags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".tw-scaffold.json")
}

func TestConfigPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	paths := ConfigPaths()
	assert.Equal(t, ".tw-scaffold.yaml", paths[0])
	assert.Contains(t, paths, filepath.Join("/xdg", "tw-scaffold", "config.toml"))
	assert.Contains(t, paths, filepath.Join(home, ".config", "tw-scaffold", "config.yml"))
}
