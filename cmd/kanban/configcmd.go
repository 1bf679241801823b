package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aretw0/kanban/internal/config"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Write(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(masked(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func masked(c config.Config) config.Config {
	mask := func(s string) string {
		if s == "" {
			return s
		}
		return middleware.Mask
	}
	c.Store.Redis.Password = mask(c.Store.Redis.Password)
	c.Store.Redis.URL = mask(c.Store.Redis.URL)
	c.Store.Postgres.DSN = mask(c.Store.Postgres.DSN)
	c.Security.EncryptionKey = mask(c.Security.EncryptionKey)
	keys := make([]string, len(c.Security.FallbackKeys))
	for i := range keys {
		keys[i] = middleware.Mask
	}
	if len(keys) > 0 {
		c.Security.FallbackKeys = keys
	}
	return c
}
