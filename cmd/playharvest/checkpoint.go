package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"playharvest/pkg/checkpoint"
	"playharvest/pkg/logger"
	"playharvest/pkg/ui"
)

var (
	checkpointPath string
	assumeYes      bool
)

// checkpointCmd represents the checkpoint command
var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or reset the harvest checkpoint",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the records and page cursors held in the checkpoint",
	Args:  cobra.NoArgs,
	RunE:  runCheckpointShow,
}

var checkpointResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the checkpoint so the next harvest starts fresh",
	Args:  cobra.NoArgs,
	RunE:  runCheckpointReset,
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointResetCmd)

	checkpointCmd.PersistentFlags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint file (default from config)")
	checkpointResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

func checkpointManager(cmd *cobra.Command) (*checkpoint.Manager, error) {
	flags := make(map[string]interface{})
	if checkpointPath != "" {
		flags["checkpoint"] = checkpointPath
	}
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return checkpoint.NewManager(cfg.Output.Checkpoint, checkpoint.FormatPaged, logger.GetLogger()), nil
}

func runCheckpointShow(cmd *cobra.Command, args []string) error {
	store, err := checkpointManager(cmd)
	if err != nil {
		return err
	}

	info := store.Info()
	ui.PrintInfo("Checkpoint", info.Path)
	if !info.Exists {
		ui.PrintWarning("No checkpoint found")
		return nil
	}
	ui.PrintInfo("Updated", info.UpdatedAt.Format("2006-01-02 15:04:05"))
	ui.PrintInfo("Records", fmt.Sprint(info.Records))

	if len(info.Units) == 0 {
		return nil
	}
	keys := make([]string, 0, len(info.Units))
	for k := range info.Units {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\nPage cursors:")
	for _, k := range keys {
		fmt.Printf("  %-32s %d\n", k, info.Units[k])
	}
	return nil
}

func runCheckpointReset(cmd *cobra.Command, args []string) error {
	store, err := checkpointManager(cmd)
	if err != nil {
		return err
	}
	if !store.Exists() {
		ui.PrintInfo("Nothing to reset", store.Path())
		return nil
	}

	if !assumeYes {
		fmt.Printf("Delete %s? Collected records will be lost. (y/N): ", store.Path())
		input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	if err := store.Delete(); err != nil {
		return err
	}
	ui.PrintSuccess("Checkpoint deleted: " + store.Path())
	return nil
}
