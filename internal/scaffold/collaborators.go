// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Collaborator interfaces and their go-git / package manager implementations

package scaffold

import (
	"context"
	"fmt"
	"io"

	"github.com/sony-level/tw-scaffold/internal/exec"
	"github.com/sony-level/tw-scaffold/internal/fetcher"
	"github.com/sony-level/tw-scaffold/internal/pkgmgr"
	"github.com/sony-level/tw-scaffold/internal/prereq"
	"github.com/sony-level/tw-scaffold/internal/vcs"
)

// Repository is the version-control client
type Repository interface {
	Clone(ctx context.Context, source, dest string) error
	StripHistory(dir string) error
	Init(dir string) error
	EnsureIgnored(dir string, entries ...string) ([]string, error)
	CommitAll(dir, message string) (string, error)
	RenameBranch(dir, branch string) error
}

// PackageManager installs dependencies and runs project tooling
type PackageManager interface {
	InitManifest(ctx context.Context) error
	InstallDev(ctx context.Context, packages []string) error
	Exec(ctx context.Context, tool string, args ...string) error
	RunScript(ctx context.Context, name string) error
}

// PackageManagerFactory binds a package manager to a project directory
type PackageManagerFactory func(kind pkgmgr.Kind, dir string) PackageManager

// ToolChecker verifies the named executables are usable
type ToolChecker func(tools []string) error

// GitRepository implements Repository with go-git
type GitRepository struct {
	Author   vcs.Author
	Verbose  bool
	Progress io.Writer
}

// Clone fetches the template into dest with a shallow clone
func (g *GitRepository) Clone(ctx context.Context, source, dest string) error {
	result, err := fetcher.Fetch(ctx, &fetcher.FetchConfig{
		Source:       source,
		Destination:  dest,
		Verbose:      g.Verbose,
		Progress:     g.Progress,
		ShallowClone: true,
	})
	if err != nil {
		return err
	}
	if g.Verbose && g.Progress != nil {
		fmt.Fprintf(g.Progress, "  → %d files (%d bytes) from %s source\n",
			result.FilesCopied, result.BytesCopied, result.SourceType)
	}
	return nil
}

// StripHistory removes the template's .git directory and checks
// that no repository is left at dir
func (g *GitRepository) StripHistory(dir string) error {
	if err := vcs.StripHistory(dir); err != nil {
		return err
	}
	if vcs.IsRepository(dir) {
		return fmt.Errorf("template history still present in %s", dir)
	}
	return nil
}

// Init creates the project's own repository
func (g *GitRepository) Init(dir string) error { return vcs.Init(dir) }

// EnsureIgnored adds missing .gitignore entries
func (g *GitRepository) EnsureIgnored(dir string, entries ...string) ([]string, error) {
	return vcs.EnsureIgnored(dir, entries...)
}

// CommitAll stages everything and commits as g.Author
func (g *GitRepository) CommitAll(dir, message string) (string, error) {
	hash, err := vcs.CommitAll(dir, message, g.Author)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// RenameBranch moves HEAD's branch to branch
func (g *GitRepository) RenameBranch(dir, branch string) error { return vcs.RenameBranch(dir, branch) }

// CommandPackageManagers returns a factory running real package manager commands
func CommandPackageManagers(runner pkgmgr.CommandRunner) PackageManagerFactory {
	return func(kind pkgmgr.Kind, dir string) PackageManager {
		return pkgmgr.New(kind, dir, runner)
	}
}

// PrereqChecker adapts prereq.Checker to ToolChecker. Install guides for
// missing or outdated tools are written to guides when it is non-nil.
func PrereqChecker(c *prereq.Checker, guides io.Writer) ToolChecker {
	return func(tools []string) error {
		summary := c.CheckAll(tools)
		if guides != nil {
			failed := make([]string, 0, len(summary.MissingTools)+len(summary.Outdated))
			failed = append(failed, summary.MissingTools...)
			failed = append(failed, summary.Outdated...)
			for _, name := range failed {
				fmt.Fprintf(guides, "\n%s\n", c.GetInstallGuide(name))
			}
		}
		return summary.Err()
	}
}

var _ pkgmgr.CommandRunner = (*exec.Runner)(nil)
