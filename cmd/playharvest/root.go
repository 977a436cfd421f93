package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"playharvest/pkg/config"
	"playharvest/pkg/logger"
	"playharvest/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "playharvest",
	Short: "Harvest recently updated apps from a Play catalog gateway",
	Long: `playharvest walks a Play Store catalog gateway country by country and
category by category, keeps the apps updated inside a time window and
below an install ceiling, and writes them to a spreadsheet.

Features:
  - Search mode: page through every category within a date range
  - Collections mode: read the top lists for a single day
  - Checkpoint after every page, resume after interruption
  - Retry with backoff and client-side rate limiting
  - Export to xlsx, csv or sqlite`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Version = version

		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintBanner(version)
		}
	},
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportFailure(err)
		stop()
		os.Exit(1)
	}
}

// reportFailure logs a fatal error and prints it to the error stream
func reportFailure(err error) {
	logger.GetLogger().WithError(err).Error("command failed")
	ui.PrintError("Error", err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.playharvest.yaml or ~/.config/playharvest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`playharvest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration with the given command line overrides
// and initializes the global logger from it
func loadConfig(cmd *cobra.Command, flags map[string]interface{}) (*config.Config, error) {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	switch {
	case cmd.Flags().Changed("log-level"):
		flags["log-level"] = logLevel
	case quiet:
		flags["log-level"] = "error"
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
