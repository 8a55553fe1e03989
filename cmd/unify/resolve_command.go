package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/catalog"
)

type resolveResult struct {
	Key      string   `json:"key"`
	UID      string   `json:"uid"`
	Original string   `json:"original,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Found    bool     `json:"found"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		manifest string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve --manifest <file> <key>...",
		Short: "Resolve keys against a manifest of identifiers without touching the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(manifest) == "" {
				return errors.New("--manifest is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			file, err := os.Open(manifest)
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer file.Close()

			cat := catalog.New(cfg.Normalizer(), logger)
			if _, err := cat.Load(file); err != nil {
				return err
			}

			results := make([]resolveResult, 0, len(args))
			missing := 0
			for _, key := range args {
				entry, ok := cat.Get(key)
				if !ok {
					missing++
				}
				results = append(results, resolveResult{
					Key:      key,
					UID:      cfg.Normalizer().Normalize(key, nil),
					Original: entry.Original,
					Tags:     entry.Tags,
					Found:    ok,
				})
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if !r.Found {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: not found (uid %q)\n", r.Key, r.UID)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), r.Original)
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d key(s) not found in %s (%d entries)", missing, len(args), manifest, cat.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "File listing one identifier per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
