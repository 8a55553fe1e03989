package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"unify/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, the index database, and the index lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			results := preflight.RunAll(commandCtx(cmd), cfg)
			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("unify check", colorize) {
					fmt.Fprintln(out, line)
				}
				configLine := ctx.configPath
				if !ctx.configSeen {
					configLine += " (not found, using defaults)"
				}
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, configLine, colorize))
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit check results as JSON")
	return cmd
}
