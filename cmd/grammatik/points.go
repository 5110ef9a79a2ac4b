package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	"github.com/spf13/cobra"
)

func (a *app) pointsCmd() *cobra.Command {
	var level, category string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "points",
		Short: "List the grammar points of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}
			points, err := filterPoints(c, taxonomy.Level(level), taxonomy.Category(category))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(points), "write points")
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLEVEL\tCATEGORY\tNAME")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Level, p.Category, p.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "only points of this CEFR level (A1..C2)")
	cmd.Flags().StringVar(&category, "category", "", "only points of this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the descriptors as JSON")
	return cmd
}

// filterPoints returns the catalog points matching the non-empty filters in
// catalog order.
func filterPoints(c *taxonomy.Catalog, level taxonomy.Level, category taxonomy.Category) ([]taxonomy.GrammarPoint, error) {
	if level != "" && !level.Valid() {
		return nil, errors.WithHint(errors.Newf("unknown level %q", level), "use one of A1, A2, B1, B2, C1, C2")
	}
	if category != "" && !category.Known() {
		return nil, errors.Newf("unknown category %q", category)
	}
	var out []taxonomy.GrammarPoint
	for _, p := range c.All() {
		if level != "" && p.Level != level {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
