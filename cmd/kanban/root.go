package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/kanban/internal/config"
	"github.com/aretw0/kanban/internal/logging"
	"github.com/spf13/cobra"
)

// Resolved by the root command before any subcommand runs.
var (
	cfg    config.Config
	logger = logging.NewNop()
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kanban",
		Short: "Kanban is a board state engine with pluggable storage",
		Long: `Kanban keeps projects, lanes and cards in a single board document.
Every change is an action applied by a pure engine, and the whole board is
persisted to the configured store (file, redis, sqlite, postgres or a remote server).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().String("store", "", "Store backend: memory, file, redis, sqlite, postgres or remote")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newShowCmd(),
		newCardCmd(),
		newLaneCmd(),
		newProjectCmd(),
		newExportCmd(),
		newImportCmd(),
		newServeCmd(),
		newMCPCmd(),
	)
	return root
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("store") {
		loaded.Store.Backend, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	level, _ := logging.ParseLevel(loaded.LogLevel)
	cfg = loaded
	logger = logging.New(level)
	slog.SetDefault(logger)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
