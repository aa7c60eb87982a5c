// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// In-memory collaborators for sequencer tests

package scaffold_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/sony-level/tw-scaffold/internal/manifest"
	"github.com/sony-level/tw-scaffold/internal/pkgmgr"
	"github.com/sony-level/tw-scaffold/internal/scaffold"
	"github.com/sony-level/tw-scaffold/internal/tailwind"
)

const generatedTailwindConfig = `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: [],
  theme: {
    extend: {},
  },
  plugins: [],
}
`

var errInjected = errors.New("injected failure")

// fakeRepo clones by writing a tiny template with its own history
type fakeRepo struct {
	mu        sync.Mutex
	fail      map[string]bool
	manifest  bool // template ships a package.json
	lockFile  string
	calls     []string
	message   string
	branch    string
	cloneHook func(dest string)
}

func (f *fakeRepo) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errInjected
	}
	return nil
}

func (f *fakeRepo) Clone(ctx context.Context, source, dest string) error {
	if err := f.record("clone"); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dest, ".git"), 0o755); err != nil {
		return err
	}
	files := map[string]string{
		".git/HEAD":  "ref: refs/heads/template\n",
		"index.html": "<!doctype html>\n",
	}
	if f.manifest {
		files["package.json"] = `{"name": "template", "version": "1.0.0"}`
	}
	if f.lockFile != "" {
		files[f.lockFile] = ""
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dest, name), []byte(body), 0o644); err != nil {
			return err
		}
	}
	if f.cloneHook != nil {
		f.cloneHook(dest)
	}
	return nil
}

func (f *fakeRepo) StripHistory(dir string) error {
	if err := f.record("strip"); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(dir, ".git"))
}

func (f *fakeRepo) Init(dir string) error {
	if err := f.record("init"); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/master\n"), 0o644)
}

func (f *fakeRepo) EnsureIgnored(dir string, entries ...string) ([]string, error) {
	if err := f.record("ignore"); err != nil {
		return nil, err
	}
	return entries, nil
}

func (f *fakeRepo) CommitAll(dir, message string) (string, error) {
	if err := f.record("commit"); err != nil {
		return "", err
	}
	f.message = message
	return "0123456789abcdef0123456789abcdef01234567", nil
}

func (f *fakeRepo) RenameBranch(dir, branch string) error {
	if err := f.record("rename"); err != nil {
		return err
	}
	f.branch = branch
	return nil
}

// fakePM mimics the files real package manager commands leave behind
type fakePM struct {
	mu        sync.Mutex
	kind      pkgmgr.Kind
	dir       string
	fail      map[string]bool
	calls     []string
	installed []string
	block     chan struct{} // when set, InstallDev waits for ctx
	config    string        // overrides the generated tailwind config
}

func (p *fakePM) record(op string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
	if p.fail[op] {
		return errInjected
	}
	return nil
}

func (p *fakePM) InitManifest(ctx context.Context) error {
	if err := p.record("init-manifest"); err != nil {
		return err
	}
	data, _ := json.Marshal(map[string]any{"name": filepath.Base(p.dir), "version": "1.0.0"})
	return os.WriteFile(manifest.Path(p.dir), data, 0o644)
}

func (p *fakePM) InstallDev(ctx context.Context, packages []string) error {
	if err := p.record("install"); err != nil {
		return err
	}
	if p.block != nil {
		close(p.block)
		<-ctx.Done()
		return ctx.Err()
	}
	p.installed = append(p.installed, packages...)
	pkgDir := filepath.Join(p.dir, "node_modules", "tailwindcss")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(pkgDir, "index.js"), []byte("module.exports = {}\n"), 0o644)
}

func (p *fakePM) Exec(ctx context.Context, tool string, args ...string) error {
	if err := p.record("exec"); err != nil {
		return err
	}
	body := generatedTailwindConfig
	if p.config != "" {
		body = p.config
	}
	return os.WriteFile(filepath.Join(p.dir, tailwind.ConfigFile), []byte(body), 0o644)
}

func (p *fakePM) RunScript(ctx context.Context, name string) error {
	if err := p.record("run-" + name); err != nil {
		return err
	}
	m, err := manifest.Load(p.dir)
	if err != nil {
		return err
	}
	scripts, err := m.Scripts()
	if err != nil {
		return err
	}
	if _, ok := scripts[name]; !ok {
		return errors.New("missing script: " + name)
	}
	return os.WriteFile(filepath.Join(p.dir, tailwind.OutputCSS), []byte("/* built */"), 0o644)
}

// pmFactory hands out one fakePM and remembers it
type pmFactory struct {
	fail map[string]bool
	pm   *fakePM
	hook func(*fakePM)
}

func (f *pmFactory) factory() scaffold.PackageManagerFactory {
	return func(kind pkgmgr.Kind, dir string) scaffold.PackageManager {
		f.pm = &fakePM{kind: kind, dir: dir, fail: f.fail}
		if f.hook != nil {
			f.hook(f.pm)
		}
		return f.pm
	}
}
