package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kanban",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kanban version %s\n", strings.TrimSpace(kanban.Version))
		},
	}
}
