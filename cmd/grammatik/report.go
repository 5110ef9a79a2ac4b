package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/db"
	"github.com/japaniel/grammatik/pkg/taxonomy"
	"github.com/spf13/cobra"
)

type sourceReport struct {
	Source     int64                     `json:"source"`
	Title      string                    `json:"title"`
	URL        string                    `json:"url,omitempty"`
	Sentences  int                       `json:"sentences"`
	Levels     map[taxonomy.Level]int    `json:"levels"`
	Categories map[taxonomy.Category]int `json:"categories"`
}

func (a *app) reportCmd() *cobra.Command {
	var sourceID int64
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show grammar point counts of a stored source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sourceID <= 0 {
				return errors.WithHint(errors.New("--source is required"), "ids are printed by grammatik ingest")
			}
			conn, err := db.Open(a.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer conn.Close()

			src, err := db.GetSource(conn, sourceID)
			if err != nil {
				return err
			}
			levels, err := db.LevelCounts(conn, sourceID)
			if err != nil {
				return err
			}
			categories, err := db.CategoryCounts(conn, sourceID)
			if err != nil {
				return err
			}
			rep := sourceReport{
				Source:     src.ID,
				Title:      src.Title,
				URL:        src.URL,
				Sentences:  src.LastProcessed + 1,
				Levels:     levels,
				Categories: categories,
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(rep), "write report")
			}

			fmt.Fprintf(out, "Source %d: %s\n", rep.Source, rep.Title)
			fmt.Fprintf(out, "Sentences analyzed: %d\n\n", rep.Sentences)
			fmt.Fprintln(out, "By level:")
			for _, l := range taxonomy.Levels {
				fmt.Fprintf(out, "  %-3s %d\n", l, rep.Levels[l])
			}
			cats := make([]taxonomy.Category, 0, len(rep.Categories))
			for c := range rep.Categories {
				cats = append(cats, c)
			}
			sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
			fmt.Fprintln(out, "By category:")
			for _, c := range cats {
				fmt.Fprintf(out, "  %-15s %d\n", c, rep.Categories[c])
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&sourceID, "source", 0, "source id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
