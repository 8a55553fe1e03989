package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/config"
	"unify/internal/unify"
)

type normalizeResult struct {
	Input string   `json:"input"`
	UID   string   `json:"uid"`
	Tags  []string `json:"tags,omitempty"`
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var (
		showTags     bool
		asJSON       bool
		asTable      bool
		noDiacritics bool
		separator    string
	)

	cmd := &cobra.Command{
		Use:   "normalize [identifier...]",
		Short: "Print the UID of each identifier (reads stdin lines when no arguments are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asTable {
				return errors.New("--json and --table are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			normalizer, err := normalizerFromFlags(cfg, cmd, separator, noDiacritics)
			if err != nil {
				return err
			}

			inputs := args
			if len(inputs) == 0 {
				if inputs, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			results := make([]normalizeResult, 0, len(inputs))
			for _, input := range inputs {
				var tags []string
				uid := normalizer.Normalize(input, &tags)
				results = append(results, normalizeResult{Input: input, UID: uid, Tags: tags})
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(cmd, results)
			case asTable:
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{r.Input, r.UID, strings.Join(r.Tags, " ")})
				}
				fmt.Fprintln(out, renderTable([]string{"Input", "UID", "Tags"}, rows, nil))
			default:
				for _, r := range results {
					if showTags && len(r.Tags) > 0 {
						fmt.Fprintf(out, "%s\t%s\n", r.UID, strings.Join(r.Tags, " "))
						continue
					}
					fmt.Fprintln(out, r.UID)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTags, "tags", false, "Print extracted #tags after each UID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&asTable, "table", false, "Render results as a table")
	cmd.Flags().BoolVar(&noDiacritics, "no-diacritics", false, "Disable folding of accented Latin letters")
	cmd.Flags().StringVar(&separator, "separator", "", "Token separator: - or _ (defaults to normalize.separator)")
	return cmd
}

// normalizerFromFlags applies command-line overrides on top of the configured profile.
func normalizerFromFlags(cfg *config.Config, cmd *cobra.Command, separator string, noDiacritics bool) (*unify.Normalizer, error) {
	override := *cfg
	if cmd.Flags().Changed("separator") {
		switch separator {
		case "-", "_":
			override.Normalize.Separator = separator
		default:
			return nil, fmt.Errorf("--separator must be \"-\" or \"_\" (got %q)", separator)
		}
	}
	if noDiacritics {
		override.Normalize.FoldDiacritics = false
	}
	return override.Normalizer(), nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
