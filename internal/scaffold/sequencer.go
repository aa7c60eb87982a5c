// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Setup sequencer

package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/sony-level/tw-scaffold/internal/config"
	"github.com/sony-level/tw-scaffold/internal/exec"
	"github.com/sony-level/tw-scaffold/internal/manifest"
	"github.com/sony-level/tw-scaffold/internal/pkgmgr"
	"github.com/sony-level/tw-scaffold/internal/tailwind"
	"github.com/sony-level/tw-scaffold/internal/workspace"
)

// Step identifiers, in execution order
const (
	StepCheckPrerequisites = "check-prerequisites"
	StepCloneTemplate      = "clone-template"
	StepStripHistory       = "strip-history"
	StepInitRepository     = "init-repository"
	StepDetectManager      = "detect-package-manager"
	StepEnsureManifest     = "ensure-manifest"
	StepInstall            = "install-dependencies"
	StepInitTailwind       = "init-tailwind"
	StepWriteAssets        = "write-assets"
	StepPatchConfig        = "patch-tailwind-config"
	StepAddScripts         = "add-scripts"
	StepBuild              = "build"
	StepEnsureGitignore    = "ensure-gitignore"
	StepCommit             = "commit"
	StepRenameBranch       = "rename-branch"
)

// IgnoredDependencies is the .gitignore entry every project gets
const IgnoredDependencies = "node_modules/"

// Deps are the collaborators a Sequencer drives
type Deps struct {
	Repo            Repository
	PackageManagers PackageManagerFactory
	CheckTools      ToolChecker  // nil skips prerequisite checks
	Out             io.Writer    // progress lines, io.Discard when nil
	Logger          *slog.Logger // slog.Default() when nil
}

// Sequencer runs the setup steps against one target directory
type Sequencer struct {
	cfg    *config.Config
	target *workspace.Target
	deps   Deps
	log    *slog.Logger

	kind   pkgmgr.Kind
	pm     PackageManager
	commit string
}

type step struct {
	id  string
	run func(ctx context.Context) (skipReason string, err error)
}

// New creates a sequencer. Nothing happens on disk until Run.
func New(cfg *config.Config, target *workspace.Target, deps Deps) *Sequencer {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Sequencer{
		cfg:    cfg,
		target: target,
		deps:   deps,
		log:    deps.Logger.With("run", target.RunID, "dir", target.Path),
	}
}

// Steps returns the step identifiers in execution order
func (s *Sequencer) Steps() []string {
	steps := s.steps()
	ids := make([]string, len(steps))
	for i, st := range steps {
		ids[i] = st.id
	}
	return ids
}

// PackageManager reports the package manager the run used
func (s *Sequencer) PackageManager() pkgmgr.Kind { return s.kind }

// Commit returns the hash of the initial commit once the commit step ran
func (s *Sequencer) Commit() string { return s.commit }

func (s *Sequencer) steps() []step {
	return []step{
		{StepCheckPrerequisites, s.checkPrerequisites},
		{StepCloneTemplate, s.cloneTemplate},
		{StepStripHistory, s.stripHistory},
		{StepInitRepository, s.initRepository},
		{StepDetectManager, s.detectManager},
		{StepEnsureManifest, s.ensureManifest},
		{StepInstall, s.install},
		{StepInitTailwind, s.initTailwind},
		{StepWriteAssets, s.writeAssets},
		{StepPatchConfig, s.patchConfig},
		{StepAddScripts, s.addScripts},
		{StepBuild, s.build},
		{StepEnsureGitignore, s.ensureGitignore},
		{StepCommit, s.commitAll},
		{StepRenameBranch, s.renameBranch},
	}
}

// Run executes every step in order. The first failure stops the run,
// removes the target if this run created it and returns a *StepError.
func (s *Sequencer) Run(ctx context.Context) (*exec.ExecutionResult, error) {
	result := exec.NewExecutionResult()
	started := time.Now()
	defer func() { result.TotalTime = time.Since(started) }()

	steps := s.steps()
	s.log.Info("starting setup", "template", s.cfg.TemplateURL, "steps", len(steps))

	for i, st := range steps {
		s.progress(i+1, len(steps), st.id)

		sr := &exec.StepResult{StepID: st.id}
		stepStart := time.Now()

		var err error
		if err = ctx.Err(); err == nil {
			sr.SkipReason, err = st.run(ctx)
		}
		sr.Duration = time.Since(stepStart)

		if err != nil {
			sr.Error = err
			sr.ExitCode = -1
			var cmdErr *pkgmgr.CommandError
			if errors.As(err, &cmdErr) {
				if cmdErr.Result.ExitCode != 0 {
					sr.ExitCode = cmdErr.Result.ExitCode
				}
				sr.Stdout = cmdErr.Result.Stdout
				sr.Stderr = cmdErr.Result.Stderr
			}
			result.AddStepResult(sr)
			if ctx.Err() != nil {
				result.Canceled = true
			}
			s.report(sr)
			return result, s.fail(st.id, err)
		}

		sr.Success = true
		sr.Skipped = sr.SkipReason != ""
		result.AddStepResult(sr)
		s.report(sr)
		s.log.Debug("step finished", "step", st.id, "duration", sr.Duration)
	}

	s.log.Info("setup complete", "commit", s.commit, "branch", s.cfg.Branch)
	return result, nil
}

func (s *Sequencer) fail(id string, err error) error {
	s.log.Error("setup step failed", "step", id, "error", err)

	created := s.target.Created()
	if rbErr := s.target.Rollback(); rbErr != nil {
		s.log.Error("rollback failed", "error", rbErr)
		err = errors.Join(err, rbErr)
	} else if created {
		s.log.Info("removed partially created project")
	}
	return &StepError{Step: id, Err: err}
}

var (
	counterColor = color.New(color.FgCyan)
	stepColor    = color.New(color.Bold)
	okColor      = color.New(color.FgGreen)
	skipColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed, color.Bold)
)

func (s *Sequencer) progress(n, total int, id string) {
	counterColor.Fprintf(s.deps.Out, "[%d/%d] ", n, total)
	stepColor.Fprintln(s.deps.Out, id)
}

func (s *Sequencer) report(sr *exec.StepResult) {
	line := "  " + exec.FormatStepResult(sr)
	switch {
	case sr.Skipped:
		skipColor.Fprintln(s.deps.Out, line)
	case sr.Success:
		okColor.Fprintln(s.deps.Out, line)
	default:
		failColor.Fprintln(s.deps.Out, line)
	}
}

func (s *Sequencer) dir() string { return s.target.Path }

func (s *Sequencer) checkPrerequisites(context.Context) (string, error) {
	if s.deps.CheckTools == nil {
		return "prerequisite checks disabled", nil
	}
	tools := []string{"node"}
	if s.cfg.PackageManager != "" {
		kind, err := pkgmgr.Parse(s.cfg.PackageManager)
		if err != nil {
			return "", err
		}
		tools = kind.Tools()
	}
	return "", s.deps.CheckTools(tools)
}

func (s *Sequencer) cloneTemplate(ctx context.Context) (string, error) {
	if err := s.target.EnsureAbsent(); err != nil {
		return "", err
	}
	s.target.MarkCreated()
	if err := s.deps.Repo.Clone(ctx, s.cfg.TemplateURL, s.dir()); err != nil {
		return "", err
	}
	return "", nil
}

func (s *Sequencer) stripHistory(context.Context) (string, error) {
	return "", s.deps.Repo.StripHistory(s.dir())
}

func (s *Sequencer) initRepository(context.Context) (string, error) {
	return "", s.deps.Repo.Init(s.dir())
}

func (s *Sequencer) detectManager(context.Context) (string, error) {
	if s.cfg.PackageManager != "" {
		kind, err := pkgmgr.Parse(s.cfg.PackageManager)
		if err != nil {
			return "", err
		}
		s.kind = kind
		s.log.Debug("package manager configured", "manager", kind)
	} else {
		kind, reason := pkgmgr.Detect(s.dir())
		s.kind = kind
		s.log.Debug("package manager detected", "manager", kind, "reason", reason)
		// Only node was checked up front; the detected tool is new information.
		if s.deps.CheckTools != nil && kind != pkgmgr.NPM {
			if err := s.deps.CheckTools(kind.Tools()); err != nil {
				return "", err
			}
		}
	}
	s.pm = s.deps.PackageManagers(s.kind, s.dir())
	return "", nil
}

func (s *Sequencer) ensureManifest(ctx context.Context) (string, error) {
	if manifest.Exists(s.dir()) {
		return manifest.FileName + " provided by template", nil
	}
	return "", s.pm.InitManifest(ctx)
}

func (s *Sequencer) install(ctx context.Context) (string, error) {
	if len(s.cfg.Packages) == 0 {
		return "no packages configured", nil
	}
	return "", s.pm.InstallDev(ctx, s.cfg.Packages)
}

func (s *Sequencer) initTailwind(ctx context.Context) (string, error) {
	return "", s.pm.Exec(ctx, "tailwindcss", "init")
}

func (s *Sequencer) writeAssets(context.Context) (string, error) {
	buildCommand := fmt.Sprintf("%s run build", s.kind)
	return "", tailwind.WriteAssets(s.dir(), s.target.Name, buildCommand)
}

func (s *Sequencer) patchConfig(context.Context) (string, error) {
	return "", tailwind.PatchConfig(s.dir(), s.cfg.ContentGlobs)
}

func (s *Sequencer) addScripts(context.Context) (string, error) {
	m, err := manifest.Load(s.dir())
	if err != nil {
		return "", err
	}
	s.log.Debug("adding scripts", "package", m.Name())
	if err := m.SetScript("build", tailwind.BuildScript()); err != nil {
		return "", err
	}
	if err := m.SetScript("watch", tailwind.WatchScript()); err != nil {
		return "", err
	}
	return "", m.Save()
}

func (s *Sequencer) build(ctx context.Context) (string, error) {
	return "", s.pm.RunScript(ctx, "build")
}

func (s *Sequencer) ensureGitignore(context.Context) (string, error) {
	added, err := s.deps.Repo.EnsureIgnored(s.dir(), IgnoredDependencies)
	if err != nil {
		return "", err
	}
	if len(added) == 0 {
		return IgnoredDependencies + " already ignored", nil
	}
	return "", nil
}

func (s *Sequencer) commitAll(context.Context) (string, error) {
	hash, err := s.deps.Repo.CommitAll(s.dir(), s.cfg.CommitMessage)
	if err != nil {
		return "", err
	}
	s.commit = hash
	return "", nil
}

func (s *Sequencer) renameBranch(context.Context) (string, error) {
	return "", s.deps.Repo.RenameBranch(s.dir(), s.cfg.Branch)
}
