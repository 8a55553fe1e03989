package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unify/internal/index"
)

type lookupResult struct {
	Key   string       `json:"key"`
	UID   string       `json:"uid"`
	Entry *index.Entry `json:"entry,omitempty"`
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <key>...",
		Short: "Resolve keys to the original identifiers stored in the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, err := ctx.openIndex()
			if err != nil {
				return err
			}
			defer store.Close()

			results := make([]lookupResult, 0, len(args))
			missing := 0
			for _, key := range args {
				entry, err := store.Lookup(commandCtx(cmd), key)
				if err != nil {
					return err
				}
				if entry == nil {
					missing++
				}
				results = append(results, lookupResult{
					Key:   key,
					UID:   store.Normalizer().Normalize(key, nil),
					Entry: entry,
				})
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, r := range results {
					if r.Entry == nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: not found (uid %q)\n", r.Key, r.UID)
						continue
					}
					fmt.Fprintln(out, r.Entry.Original)
				}
			}

			if missing > 0 {
				return fmt.Errorf("%d of %d key(s) not found", missing, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	return cmd
}
