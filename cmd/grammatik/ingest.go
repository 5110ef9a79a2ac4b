package main

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/db"
	"github.com/japaniel/grammatik/pkg/ingest"
	"github.com/japaniel/grammatik/pkg/logging"
	"github.com/spf13/cobra"
)

func (a *app) ingestCmd() *cobra.Command {
	var rawURL, input, title string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Analyze a whole document and store its grammar points",
		Long: `Analyze every sentence of a document and store the results in the database.

With --url the page is fetched, its readable text extracted and sent to the
annotator service in pieces of at most annotator.max_chars characters. With --input a JSON file of annotated sentences is used.
Interrupted runs resume where they stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (rawURL == "") == (input == "") {
				return errors.WithHint(errors.New("exactly one of --url or --input is required"),
					"grammatik ingest --url https://... or grammatik ingest --input sentences.json")
			}
			ctx := cmd.Context()
			log := logging.Named("ingest")

			engine, err := a.engine()
			if err != nil {
				return err
			}

			conn, err := db.Open(a.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer conn.Close()

			var (
				sentences []annotation.Sentence
				sourceID  int64
			)
			if rawURL != "" {
				art, err := fetchArticle(ctx, rawURL, a.cfg.Annotator.Timeout)
				if err != nil {
					return err
				}
				log.Infow("article extracted", "title", art.Title, "chars", len(art.Text))
				if title == "" {
					title = art.Title
				}
				sourceID, err = db.CreateOrGetSource(conn, "website_article", title, art.Byline, art.SiteName, rawURL, "")
				if err != nil {
					return err
				}
				sentences, err = a.annotateDocument(ctx, art.Text)
				if err != nil {
					return err
				}
			} else {
				sentences, err = a.sentences(ctx, cmd.InOrStdin(), input, "")
				if err != nil {
					return err
				}
				if title == "" {
					title = filepath.Base(input)
				}
				sourceID, err = db.CreateOrGetSource(conn, "file", title, "", "", input, "")
				if err != nil {
					return err
				}
			}

			ing := ingest.NewIngester(conn, engine)
			ing.Workers = a.cfg.Ingest.Workers
			ing.BatchSize = a.cfg.Ingest.BatchSize
			ing.Logger = log

			stats, err := ing.Ingest(ctx, sourceID, sentences)
			if err != nil {
				return errors.Wrapf(err, "ingest source %d", sourceID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Source %d: stored %d sentences with %d grammar points (%d already stored).\n",
				sourceID, stats.Sentences, stats.Points, stats.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&rawURL, "url", "", "article URL to fetch and analyze")
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with annotated sentences")
	cmd.Flags().StringVar(&title, "title", "", "source title (default: article title or file name)")
	return cmd
}
