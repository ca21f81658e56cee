package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "clinic-scheduling",
		Short:        "SMC clinic scheduling service: recurring schedules, slots and appointments",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to TOML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newGenerateCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return root
}
