// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Package manager detection and command mapping

package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sony-level/tw-scaffold/internal/exec"
)

// Kind identifies a JavaScript package manager
type Kind string

const (
	NPM  Kind = "npm"
	Yarn Kind = "yarn"
	PNPM Kind = "pnpm"
	Bun  Kind = "bun"
)

// lockFiles maps lock files to the package manager that writes them.
// Order matters when a template ships several.
var lockFiles = []struct {
	file string
	kind Kind
}{
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"package-lock.json", NPM},
}

// Parse converts a user supplied name into a Kind
func Parse(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case NPM:
		return NPM, nil
	case Yarn:
		return Yarn, nil
	case PNPM:
		return PNPM, nil
	case Bun:
		return Bun, nil
	default:
		return "", fmt.Errorf("unsupported package manager %q (want npm, yarn, pnpm or bun)", name)
	}
}

// Detect picks the package manager from lock files in dir.
// npm is assumed when no lock file is present.
func Detect(dir string) (Kind, string) {
	for _, lf := range lockFiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.kind, fmt.Sprintf("%s found", lf.file)
		}
	}
	return NPM, "npm assumed (no lock file)"
}

// Tools lists the executables this package manager needs on PATH
func (k Kind) Tools() []string {
	switch k {
	case Bun:
		return []string{"bun"}
	case Yarn, PNPM:
		return []string{"node", string(k)}
	default:
		return []string{"node", "npm"}
	}
}

// CommandRunner runs a single external command
type CommandRunner interface {
	Run(ctx context.Context, cmd exec.Command) *exec.StepResult
}

// Manager issues package manager commands inside a project directory
type Manager struct {
	kind   Kind
	dir    string
	runner CommandRunner
}

// New creates a manager for the project at dir
func New(kind Kind, dir string, runner CommandRunner) *Manager {
	return &Manager{kind: kind, dir: dir, runner: runner}
}

// InitManifestCommand creates a default package.json
func (m *Manager) InitManifestCommand() exec.Command {
	args := []string{"init", "-y"}
	if m.kind == PNPM {
		args = []string{"init"}
	}
	return m.command("init-manifest", string(m.kind), args...)
}

// InstallDevCommand adds packages as development dependencies
func (m *Manager) InstallDevCommand(packages []string) exec.Command {
	var args []string
	switch m.kind {
	case Yarn:
		args = []string{"add", "--dev"}
	case PNPM:
		args = []string{"add", "--save-dev"}
	case Bun:
		args = []string{"add", "--dev"}
	default:
		args = []string{"install", "--save-dev"}
	}
	return m.command("install", string(m.kind), append(args, packages...)...)
}

// ExecCommand runs a binary from the project's installed dependencies
func (m *Manager) ExecCommand(tool string, args ...string) exec.Command {
	switch m.kind {
	case Yarn:
		return m.command("exec", "yarn", append([]string{tool}, args...)...)
	case PNPM:
		return m.command("exec", "pnpm", append([]string{"exec", tool}, args...)...)
	case Bun:
		return m.command("exec", "bunx", append([]string{tool}, args...)...)
	default:
		return m.command("exec", "npx", append([]string{tool}, args...)...)
	}
}

// RunScriptCommand runs a named manifest script
func (m *Manager) RunScriptCommand(name string) exec.Command {
	return m.command("run-"+name, string(m.kind), "run", name)
}

// InitManifest runs InitManifestCommand
func (m *Manager) InitManifest(ctx context.Context) error {
	return m.run(ctx, m.InitManifestCommand())
}

// InstallDev runs InstallDevCommand
func (m *Manager) InstallDev(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	return m.run(ctx, m.InstallDevCommand(packages))
}

// Exec runs ExecCommand
func (m *Manager) Exec(ctx context.Context, tool string, args ...string) error {
	return m.run(ctx, m.ExecCommand(tool, args...))
}

// RunScript runs RunScriptCommand
func (m *Manager) RunScript(ctx context.Context, name string) error {
	return m.run(ctx, m.RunScriptCommand(name))
}

func (m *Manager) command(id, name string, args ...string) exec.Command {
	return exec.Command{ID: id, Name: name, Args: args, Dir: m.dir}
}

func (m *Manager) run(ctx context.Context, cmd exec.Command) error {
	result := m.runner.Run(ctx, cmd)
	if result.Success {
		return nil
	}
	return &CommandError{Command: cmd, Result: result}
}

// CommandError carries the failed command and its captured output
type CommandError struct {
	Command exec.Command
	Result  *exec.StepResult
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command.String(), e.Result.Error)
	if tail := lastLine(e.Result.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Result.Error }

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
