// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Repository operations for the generated project

package vcs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Fallback identity used when neither the environment nor git config provides one
const (
	DefaultAuthorName  = "tw-scaffold"
	DefaultAuthorEmail = "tw-scaffold@localhost"
)

// ErrDetachedHead is returned when HEAD does not point at a branch
var ErrDetachedHead = errors.New("HEAD is detached")

// Author identifies who the initial commit is attributed to
type Author struct {
	Name  string
	Email string
}

// String renders the author as "Name <email>"
func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// StripHistory removes the .git directory left behind by the template clone.
// A missing .git directory is not an error.
func StripHistory(dir string) error {
	gitDir := filepath.Join(dir, git.GitDirName)
	if err := os.RemoveAll(gitDir); err != nil {
		return fmt.Errorf("removing template history %s: %w", gitDir, err)
	}
	return nil
}

// IsRepository reports whether dir holds a git repository
func IsRepository(dir string) bool {
	_, err := git.PlainOpen(dir)
	return err == nil
}

// Init creates a fresh, non-bare repository at dir
func Init(dir string) error {
	if _, err := git.PlainInit(dir, false); err != nil {
		return fmt.Errorf("initializing repository at %s: %w", dir, err)
	}
	return nil
}

// HeadBranch returns the short name of the branch HEAD points at.
// Works before the first commit.
func HeadBranch(dir string) (string, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("opening repository %s: %w", dir, err)
	}
	head, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", ErrDetachedHead
	}
	return head.Target().Short(), nil
}

// CommitAll stages every non-ignored file in dir and records a commit
func CommitAll(dir, message string, author Author) (plumbing.Hash, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("opening repository %s: %w", dir, err)
	}
	w, err := r.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("opening worktree: %w", err)
	}

	patterns, err := gitignore.ReadPatterns(w.Filesystem, nil)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("reading .gitignore: %w", err)
	}
	w.Excludes = append(w.Excludes, patterns...)

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("staging files: %w", err)
	}

	sig := &object.Signature{Name: author.Name, Email: author.Email, When: time.Now()}
	hash, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("committing: %w", err)
	}
	return hash, nil
}

// RenameBranch moves the branch HEAD points at to the given name,
// like `git branch -M <branch>`. An existing branch of that name is overwritten.
func RenameBranch(dir, branch string) error {
	if strings.TrimSpace(branch) == "" {
		return fmt.Errorf("branch name is empty")
	}

	r, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("opening repository %s: %w", dir, err)
	}

	head, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return ErrDetachedHead
	}

	current := head.Target()
	target := plumbing.NewBranchReferenceName(branch)
	if current == target {
		return nil
	}

	ref, err := r.Reference(current, false)
	switch {
	case err == nil:
		if err := r.Storer.SetReference(plumbing.NewHashReference(target, ref.Hash())); err != nil {
			return fmt.Errorf("creating branch %s: %w", branch, err)
		}
		if err := r.Storer.RemoveReference(current); err != nil {
			return fmt.Errorf("removing branch %s: %w", current.Short(), err)
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch, only HEAD needs to move
	default:
		return fmt.Errorf("reading branch %s: %w", current.Short(), err)
	}

	if err := r.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, target)); err != nil {
		return fmt.Errorf("pointing HEAD at %s: %w", branch, err)
	}
	return nil
}

// ResolveAuthor picks the commit identity: GIT_AUTHOR_* environment first,
// then the user's global git config, then the built-in fallback.
func ResolveAuthor() Author {
	author := Author{
		Name:  os.Getenv("GIT_AUTHOR_NAME"),
		Email: os.Getenv("GIT_AUTHOR_EMAIL"),
	}

	if author.Name == "" || author.Email == "" {
		if cfg, err := config.LoadConfig(config.GlobalScope); err == nil {
			if author.Name == "" {
				author.Name = cfg.User.Name
			}
			if author.Email == "" {
				author.Email = cfg.User.Email
			}
		}
	}

	if author.Name == "" {
		author.Name = DefaultAuthorName
	}
	if author.Email == "" {
		author.Email = DefaultAuthorEmail
	}
	return author
}
