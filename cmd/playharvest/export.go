package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"playharvest/pkg/checkpoint"
	"playharvest/pkg/export"
	"playharvest/pkg/logger"
	"playharvest/pkg/models"
	"playharvest/pkg/ui"
)

var (
	exportOutput     string
	exportCheckpoint string
	exportSheet      string
)

// exportCmd re-exports the records held in a checkpoint
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the records of a checkpoint without fetching",
	Long: `Write the records collected so far to an export file.

Useful after an interrupted run, or to produce another format from the
same checkpoint. The format follows the output extension: .xlsx, .csv,
or .db/.sqlite/.sqlite3.`,
	Example: `  # Export the configured checkpoint to the configured output
  playharvest export

  # Same records as csv
  playharvest export --output apps.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "export file (default from config)")
	exportCmd.Flags().StringVar(&exportCheckpoint, "checkpoint", "", "checkpoint file (default from config)")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", export.DefaultSheet, "sheet name for xlsx, table name for sqlite")
}

func runExport(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if exportOutput != "" {
		flags["output"] = exportOutput
	}
	if exportCheckpoint != "" {
		flags["checkpoint"] = exportCheckpoint
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	store := checkpoint.NewManager(cfg.Output.Checkpoint, checkpoint.FormatPaged, log)
	if !store.Exists() {
		return fmt.Errorf("no checkpoint at %s", store.Path())
	}
	state := store.Load()

	exporter, err := export.New(cfg.Output.File, exportSheet)
	if err != nil {
		return err
	}
	if err := exporter.Export(cmd.Context(), models.Rows(state.Apps())); err != nil {
		return fmt.Errorf("failed to export %d records to %s: %w", state.Len(), cfg.Output.File, err)
	}

	log.InfoWithFields("exported records", map[string]interface{}{
		"path":  cfg.Output.File,
		"total": state.Len(),
	})
	ui.PrintSuccess(fmt.Sprintf("Exported %d apps to %s", state.Len(), cfg.Output.File))
	return nil
}
