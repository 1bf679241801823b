package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/pkg/adapters/file"
	"github.com/aretw0/kanban/pkg/normalize"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/aretw0/kanban/pkg/ports"
	"github.com/spf13/cobra"
)

// defaultRedactPatterns mask the free-text and personal fields of cards.
var defaultRedactPatterns = []string{"(?i)^assignee$", "(?i)^description$"}

func newExportCmd() *cobra.Command {
	var (
		output   string
		redact   bool
		patterns []string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the normalized board as JSON",
		Long: `Exports the whole board. With --redact, values of keys matching the
redaction patterns (security.redact in the config, or assignee and
description by default) are replaced with "***".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(patterns) == 0 {
				patterns = cfg.Security.Redact
			}
			if len(patterns) == 0 {
				patterns = defaultRedactPatterns
			}
			return withBoard(cmd, func(board *kanban.Board) error {
				data, err := json.MarshalIndent(board.State(), "", "  ")
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					if redact {
						if data, err = middleware.Redact(data, patterns); err != nil {
							return err
						}
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}

				var dest ports.BoardStore = file.New(output)
				if redact {
					mw, err := middleware.NewRedactionMiddleware(patterns)
					if err != nil {
						return err
					}
					dest = middleware.Chain(dest, mw)
				}
				if err := dest.Save(cmd.Context(), data); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				logger.Info("Board exported", "path", output, "redacted", redact)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Destination file (default: stdout)")
	f.BoolVar(&redact, "redact", false, "Mask sensitive fields")
	f.StringSliceVar(&patterns, "pattern", nil, "Key pattern to redact (repeatable, regular expression)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the stored board with a JSON document",
		Long: `Reads a board document of any supported shape, normalizes it and saves it
to the configured store. An existing board is only replaced with --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			state, err := normalize.Decode(data)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			if len(state.Projects) == 0 {
				return errors.New("import: document has no projects")
			}
			normalized, err := json.Marshal(state)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			be, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer be.close()

			sessions := be.sessions(logger)
			_, _, err = sessions.Update(ctx, func(current []byte) ([]byte, error) {
				if len(current) > 0 && !force {
					return nil, errors.New("a board already exists (use --force to replace it)")
				}
				return normalized, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects, %d cards\n", len(state.Projects), len(state.Cards))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing board")
	return cmd
}
