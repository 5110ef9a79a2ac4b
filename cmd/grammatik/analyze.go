package main

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/grammar"
	"github.com/spf13/cobra"
)

func (a *app) analyzeCmd() *cobra.Command {
	var input, text string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze sentences and print the grammar points as JSON",
		Long: `Analyze annotated sentences and print one analysis per sentence as a JSON array.

Sentences are read from --input (a JSON file of annotated sentences, "-" for
stdin) or sent to the annotator service with --text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			sentences, err := a.sentences(cmd.Context(), cmd.InOrStdin(), input, text)
			if err != nil {
				return err
			}

			results := make([]grammar.GrammarAnalysisResult, 0, len(sentences))
			for i, s := range sentences {
				if err := s.Validate(); err != nil {
					return errors.Wrapf(err, "sentence %d", i)
				}
				results = append(results, engine.AnalyzeWithFallback(cmd.Context(), s))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return errors.Wrap(enc.Encode(results), "write results")
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with annotated sentences (- for stdin)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "raw German text to annotate and analyze")
	return cmd
}
