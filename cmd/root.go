/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sony-level/tw-scaffold/internal/config"
	"github.com/sony-level/tw-scaffold/internal/workspace"
)

var (
	// Project flags
	projectName    string
	templateURL    string
	packageManager string

	// Run flags
	stepTimeout time.Duration
	configPath  string
	verbose     bool
)

// rootCmd represents the base command - runs directly without subcommand
var rootCmd = &cobra.Command{
	Use:   "tw-scaffold",
	Short: "Scaffold a Tailwind CSS project from a template repository",
	Long: `tw-scaffold creates a new web project directory from a template
repository, installs Tailwind CSS with the typography plugin, wires the
Tailwind configuration, writes a starter page and stylesheet, builds it
once and commits the result to a fresh git repository.

If any step fails, the partially created directory is removed.

Examples:
  tw-scaffold
  tw-scaffold -n blog
  tw-scaffold -n docs --template https://github.com/user/starter.git
  tw-scaffold -n site --package-manager pnpm --timeout 10m -v`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeRun(cmd.Context(), flagsFrom(cmd))
	},
}

// flagsFrom collects the flags the user actually set, so that
// environment and config file values are not shadowed by flag defaults.
func flagsFrom(cmd *cobra.Command) config.Flags {
	flags := config.Flags{
		Template:       templateURL,
		PackageManager: packageManager,
		ConfigPath:     configPath,
		Verbose:        verbose,
	}
	if cmd.Flags().Changed("name") {
		flags.Name = projectName
	}
	if cmd.Flags().Changed("timeout") {
		flags.Timeout = stepTimeout
	}
	return flags
}

// Execute runs the root command; Ctrl-C or SIGTERM cancels the run.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&projectName, "name", "n", workspace.DefaultProjectName, "Project directory name (env: TWS_NAME)")
	rootCmd.Flags().StringVar(&templateURL, "template", "", "Template repository URL or local directory (default: "+config.DefaultTemplateURL+")")
	rootCmd.Flags().StringVar(&packageManager, "package-manager", "", "npm, yarn, pnpm or bun (default: detected from the template's lock file)")

	rootCmd.PersistentFlags().DurationVar(&stepTimeout, "timeout", 0, "Timeout per external command (default: 5m)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .tw-scaffold.{yaml,yml,json,toml}, then ~/.config/tw-scaffold/config.*)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Stream command output and enable debug logs")
}
