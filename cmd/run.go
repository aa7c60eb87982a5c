/*
Copyright © 2026 ソニーレベル <c7kali3@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sony-level/tw-scaffold/internal/config"
	"github.com/sony-level/tw-scaffold/internal/exec"
	"github.com/sony-level/tw-scaffold/internal/fetcher"
	"github.com/sony-level/tw-scaffold/internal/logging"
	"github.com/sony-level/tw-scaffold/internal/prereq"
	"github.com/sony-level/tw-scaffold/internal/scaffold"
	"github.com/sony-level/tw-scaffold/internal/vcs"
	"github.com/sony-level/tw-scaffold/internal/workspace"
)

func executeRun(ctx context.Context, flags config.Flags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	cfg, err := config.Resolve(flags)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.Verbose)

	target, err := workspace.New(&workspace.TargetConfig{Name: cfg.ProjectName})
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	fmt.Printf("Run ID: %s\n", target.RunID)
	fmt.Printf("Project: %s\n", target.Path)
	fmt.Printf("Template: %s (%s)\n", cfg.TemplateURL, fetcher.DetectSourceType(cfg.TemplateURL))
	if cfg.Verbose {
		if cfg.Source != "" {
			fmt.Printf("Config: %s\n", cfg.Source)
		}
		fmt.Printf("Packages: %v\n", cfg.Packages)
		fmt.Printf("Step timeout: %v\n", cfg.StepTimeout)
	}
	fmt.Println()

	runner := exec.NewRunner(&exec.RunnerConfig{
		Verbose:     cfg.Verbose,
		StepTimeout: cfg.StepTimeout,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})

	seq := scaffold.New(cfg, target, scaffold.Deps{
		Repo: &scaffold.GitRepository{
			Author:   vcs.ResolveAuthor(),
			Verbose:  cfg.Verbose,
			Progress: os.Stdout,
		},
		PackageManagers: scaffold.CommandPackageManagers(runner),
		CheckTools:      scaffold.PrereqChecker(prereq.NewChecker(), os.Stderr),
		Out:             os.Stdout,
		Logger:          logger,
	})

	result, err := seq.Run(ctx)
	fmt.Print(exec.FormatExecutionResult(result))
	if err != nil {
		return err
	}

	fmt.Printf("\nProject ready at %s\n", target.Path)
	if branch, err := vcs.HeadBranch(target.Path); err == nil {
		fmt.Printf("  branch %s at %.7s\n", branch, seq.Commit())
	}
	fmt.Printf("  cd %s && %s run watch\n", target.Name, seq.PackageManager())
	return nil
}
