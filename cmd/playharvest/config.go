package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"playharvest/pkg/auth"
	"playharvest/pkg/config"
	"playharvest/pkg/export"
	"playharvest/pkg/ui"
)

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage playharvest configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (PLAYHARVEST_*)
  - .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with every option set to its default.

The file is written to the --config path, or to
~/.config/playharvest/config.yaml when no path is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source.

The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Set catalog.base_url to your gateway")
	fmt.Println("2. Run 'playharvest auth set' if the gateway needs an API key")
	fmt.Println("3. Run 'playharvest config validate'")
	fmt.Println("4. Start with 'playharvest harvest'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	display := *cfg
	if display.Catalog.APIKey != "" {
		display.Catalog.APIKey = auth.MaskKey(display.Catalog.APIKey)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (PLAYHARVEST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	if !export.Supported(cfg.Output.File) {
		return fmt.Errorf("unsupported output format: %s (use .xlsx, .csv or .db)", cfg.Output.File)
	}

	var warnings []string
	if cfg.Harvest.PageDelay == 0 {
		warnings = append(warnings, "page_delay is 0, pages are requested back to back")
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		warnings = append(warnings, "rate limiting is disabled")
	}
	if cfg.Harvest.Mode == config.ModeSearch && cfg.Harvest.TargetDate != "" {
		warnings = append(warnings, "target_date is ignored in search mode")
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Gateway: %s\n", cfg.Catalog.BaseURL)
	fmt.Printf("  Mode: %s\n", cfg.Harvest.Mode)
	fmt.Printf("  Countries: %v\n", cfg.Harvest.Countries)
	fmt.Printf("  Batch size: %d\n", cfg.Harvest.BatchSize)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Max attempts: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("  Output: %s\n", cfg.Output.File)
	fmt.Printf("  Checkpoint: %s\n", cfg.Output.Checkpoint)
	return nil
}
