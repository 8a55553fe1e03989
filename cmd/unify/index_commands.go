package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/index"
	"unify/internal/logging"
	"unify/internal/scanner"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the persistent identifier index",
	}

	indexCmd.AddCommand(newIndexAddCommand(ctx))
	indexCmd.AddCommand(newIndexScanCommand(ctx))
	indexCmd.AddCommand(newIndexListCommand(ctx))
	indexCmd.AddCommand(newIndexRemoveCommand(ctx))
	indexCmd.AddCommand(newIndexClearCommand(ctx))

	return indexCmd
}

func newIndexAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <identifier>...",
		Short: "Store identifiers under their UIDs (last write wins on collisions)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriteBatch(cmd, func(runCtx context.Context, store *index.Store, logger *slog.Logger) error {
				runID, _ := logging.RunIDFromContext(runCtx)
				out := cmd.OutOrStdout()
				replacedCount := 0
				for _, id := range args {
					entry, replaced, err := store.Add(runCtx, id, runID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%s\n", entry.UID, entry.Original)
					if replaced != nil {
						replacedCount++
						fmt.Fprintf(cmd.ErrOrStderr(), "replaced %s (was %s)\n", entry.UID, replaced.Original)
					}
				}
				logger.Info("index add finished",
					logging.Int("added", len(args)),
					logging.Int("replaced", replacedCount))
				return nil
			})
		},
	}
}

func newIndexScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Index every file below a directory as ./<relative path>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withWriteBatch(cmd, func(runCtx context.Context, store *index.Store, logger *slog.Logger) error {
				opts := scanner.OptionsFromConfig(cfg, logger)
				opts.RunID, _ = logging.RunIDFromContext(runCtx)
				summary, err := scanner.Scan(runCtx, args[0], store, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, summary)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s: %d indexed, %d replaced, %d skipped (%d files visited, run %s)\n",
					summary.Root, summary.Indexed, summary.Replaced, summary.Skipped, summary.Visited, summary.RunID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the scan summary as JSON")
	return cmd
}

func newIndexListCommand(ctx *commandContext) *cobra.Command {
	var (
		tag    string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed entries ordered by UID",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, err := ctx.openIndex(index.IgnoreProfile())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(commandCtx(cmd), index.ListOptions{Tag: tag, Limit: limit})
			if err != nil {
				return err
			}
			if asJSON {
				if entries == nil {
					entries = []index.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Index is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.UID.String(),
					e.Original,
					strings.Join(e.Tags, " "),
					shortRunID(e.RunID),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"UID", "Original", "Tags", "Run"}, rows, nil))
			fmt.Fprintf(out, "%d entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only list entries carrying this tag (e.g. win32 or #win32)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit entries as JSON")
	return cmd
}

func newIndexRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>...",
		Short: "Remove the entries matching the given keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriteBatch(cmd, func(runCtx context.Context, store *index.Store, logger *slog.Logger) error {
				out := cmd.OutOrStdout()
				removed := 0
				for _, key := range args {
					ok, err := store.Remove(runCtx, key)
					if err != nil {
						return err
					}
					if ok {
						removed++
						fmt.Fprintf(out, "Removed %s\n", store.Normalizer().Normalize(key, nil))
					} else {
						fmt.Fprintf(out, "No entry for %s\n", key)
					}
				}
				logger.Info("index remove finished", logging.Int("removed", removed))
				return nil
			})
		},
	}
}

func newIndexClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry and adopt the configured normalize profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriteBatch(cmd, func(runCtx context.Context, store *index.Store, logger *slog.Logger) error {
				removed, err := store.Clear(runCtx)
				if err != nil {
					return err
				}
				logger.Info("index cleared", logging.Int64("removed", removed))
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries (profile %s)\n", removed, store.Normalizer().Profile())
				return nil
			}, index.IgnoreProfile())
		},
	}
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
