// Command grammatik annotates German sentences with the grammar points they
// exercise.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/config"
	"github.com/japaniel/grammatik/pkg/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	jsonLogs   bool
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "grammatik",
		Short: "Detect German grammar points in annotated text",
		Long: `grammatik finds the grammar points a German sentence exercises (cases,
tenses, passive, modal verbs, word order, ...) and rates them by CEFR level.

Sentences come pre-annotated as JSON or are sent to the annotator service.

Examples:
  grammatik analyze --input sentence.json      # Analyze annotated sentences
  grammatik analyze --text "Das Buch wird gelesen."
  grammatik ingest --url https://example.de/artikel
  grammatik points --level B1                  # List B1 grammar points
  grammatik report --source 1                  # Per-level counts of a source`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default grammatik.toml or grammatik.yaml in the working directory)")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "log as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.analyzeCmd(), a.ingestCmd(), a.pointsCmd(), a.reportCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Log.JSON = a.jsonLogs
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logging.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}
