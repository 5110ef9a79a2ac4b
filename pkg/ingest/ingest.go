// Package ingest analyzes annotated documents concurrently and stores the
// grammar points of every sentence.
package ingest

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/db"
	"github.com/japaniel/grammatik/pkg/grammar"
	"go.uber.org/zap"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Analyzer turns one annotated sentence into a grammar analysis.
// *grammar.Engine satisfies it.
type Analyzer interface {
	AnalyzeWithFallback(ctx context.Context, s annotation.Sentence) grammar.GrammarAnalysisResult
}

// Ingester analyzes the sentences of a source and stores the results.
type Ingester struct {
	DB       *sql.DB
	Analyzer Analyzer
	// BatchSize is the number of sentences committed per transaction.
	BatchSize int
	Workers   int
	// FlushInterval bounds how long a partial batch waits before committing.
	FlushInterval time.Duration
	// Logger is used for progress and resume messages. nil means no logging.
	Logger *zap.SugaredLogger
	// OnProgress is called with the number of handed-off sentences and the total.
	OnProgress func(current, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// Stats summarizes one Ingest call.
type Stats struct {
	// Skipped counts sentences stored by an earlier run.
	Skipped   int
	Sentences int
	Points    int
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, a Analyzer) *Ingester {
	return &Ingester{
		DB:            conn,
		Analyzer:      a,
		BatchSize:     50,
		Workers:       4,
		FlushInterval: 100 * time.Millisecond,
	}
}

type processedSentence struct {
	Index  int
	Result grammar.GrammarAnalysisResult
	Error  error
}

type counters struct {
	sentences atomic.Int64
	points    atomic.Int64
}

// Ingest analyzes sentences on the worker pool and stores each analysis in
// sentence order together with a progress checkpoint. A later call for the
// same source resumes after the last checkpoint.
func (ig *Ingester) Ingest(ctx context.Context, sourceID int64, sentences []annotation.Sentence) (Stats, error) {
	log := ig.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if ig.Analyzer == nil {
		return Stats{}, errors.New("ingester has no analyzer")
	}

	lastProcessed, err := db.GetSourceProgress(ig.DB, sourceID)
	if err != nil {
		return Stats{}, err
	}

	total := len(sentences)
	startIdx := lastProcessed + 1
	stats := Stats{Skipped: min(startIdx, total)}
	if startIdx >= total {
		return stats, nil
	}
	if startIdx > 0 {
		log.Infow("resuming ingestion", "source", sourceID, "from", startIdx, "total", total)
	}

	workers := max(ig.Workers, 1)
	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan processedSentence, workers*2)

	bw := NewBatchWriter(ig.DB, ig.BatchSize, ig.FlushInterval)
	bw.Logger = log

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var c counters
	doneCh := make(chan error, 1)
	go func() {
		doneCh <- ig.consume(ctx, cancel, resultCh, bw, sourceID, startIdx, total, &c)
	}()

	wp.Start(ctx)

	var submitErr error
Loop:
	for i := startIdx; i < total; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx, sent := i, sentences[i]
		job := func(ctx context.Context) error {
			res := ig.process(ctx, idx, sent)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrPoolClosed) {
				break Loop
			}
			submitErr = errors.Wrapf(err, "submit sentence %d", idx)
			cancel()
			break Loop
		}
	}

	// No worker sends after Close returns, so the result channel can be closed.
	wp.Close()
	close(resultCh)
	consumerErr := <-doneCh

	closeErr := bw.Close()

	stats.Sentences = int(c.sentences.Load())
	stats.Points = int(c.points.Load())

	switch {
	case submitErr != nil:
		return stats, submitErr
	case consumerErr != nil:
		return stats, consumerErr
	case closeErr != nil:
		return stats, closeErr
	}
	log.Infow("ingestion finished", "source", sourceID, "sentences", stats.Sentences, "points", stats.Points)
	return stats, nil
}

// consume reorders analyses by sentence index and hands them to the batch
// writer. It returns when the results channel closes or ctx ends.
func (ig *Ingester) consume(ctx context.Context, cancel context.CancelFunc, in <-chan processedSentence,
	bw *BatchWriter, sourceID int64, next, total int, c *counters) error {
	buffer := make(map[int]processedSentence)
	for {
		var res processedSentence
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok = <-in:
		}
		if !ok {
			if next < total {
				// The producer stopped early; report why.
				return ctx.Err()
			}
			ig.progress(total, total)
			return nil
		}

		if res.Error != nil {
			cancel()
			return errors.Wrapf(res.Error, "sentence %d", res.Index)
		}
		buffer[res.Index] = res

		for {
			item, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)

			if err := bw.Submit(ig.store(sourceID, item, c)); err != nil {
				cancel()
				return err
			}
			next++
			if ig.BatchSize > 0 && next%ig.BatchSize == 0 && next < total {
				ig.progress(next, total)
			}
		}
	}
}

func (ig *Ingester) progress(current, total int) {
	if ig.Logger != nil {
		ig.Logger.Infow("ingest progress", "current", current, "total", total)
	}
	if ig.OnProgress != nil {
		ig.OnProgress(current, total)
	}
}

func (ig *Ingester) process(ctx context.Context, index int, s annotation.Sentence) processedSentence {
	if strings.TrimSpace(s.Text) == "" {
		return processedSentence{Index: index, Error: errors.New("empty sentence")}
	}
	if err := s.Validate(); err != nil {
		return processedSentence{Index: index, Error: err}
	}
	return processedSentence{Index: index, Result: ig.Analyzer.AnalyzeWithFallback(ctx, s)}
}

// store writes one analysis and its checkpoint in the batch transaction.
func (ig *Ingester) store(sourceID int64, item processedSentence, c *counters) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		if _, err := db.SaveAnalysis(tx, sourceID, item.Index, item.Result); err != nil {
			return errors.Wrapf(err, "store sentence %d", item.Index)
		}
		if err := db.UpdateSourceProgress(tx, sourceID, item.Index); err != nil {
			return errors.Wrapf(err, "checkpoint sentence %d", item.Index)
		}
		c.sentences.Add(1)
		c.points.Add(int64(len(item.Result.GrammarPoints)))
		return nil
	}
}
