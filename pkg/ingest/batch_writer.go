package ingest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers write operations and commits each batch in one
// transaction. Batches are committed in submission order by a single
// goroutine.
type BatchWriter struct {
	mu          sync.Mutex
	buf         []WriteFunc
	cap         int
	flushTicker *time.Ticker
	closed      bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	commitCh chan []WriteFunc
	db       *sql.DB

	// OnError is called for every failed or dropped batch.
	OnError func(error)
	// Logger receives batch failures. nil means no logging.
	Logger *zap.SugaredLogger

	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter creates a new BatchWriter. A batch is flushed when it
// reaches bufferSize entries or, when flushInterval is positive, on every
// tick. A nil db runs callbacks with a nil transaction.
func NewBatchWriter(db *sql.DB, bufferSize int, flushInterval time.Duration) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	bw := &BatchWriter{
		buf:      make([]WriteFunc, 0, bufferSize),
		cap:      bufferSize,
		ctx:      ctx,
		cancel:   cancel,
		commitCh: make(chan []WriteFunc, 2),
		db:       db,
	}

	bw.wg.Add(1)
	go bw.committer()

	if flushInterval > 0 {
		bw.flushTicker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.loop()
	}
	return bw
}

// Submit enqueues a write function. It blocks while the committer is behind.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.cap {
		bw.flushLocked()
	}
	return nil
}

// Err returns the first asynchronous error seen so far.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}

// flushLocked assumes bw.mu is held.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.cap)

	select {
	case bw.commitCh <- batch:
	case <-bw.ctx.Done():
		bw.fail(errors.Newf("batch writer: dropping batch of %d items due to context cancellation", len(batch)))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	if bw.lastErr == nil {
		bw.lastErr = err
	}
	bw.errMu.Unlock()
	if bw.Logger != nil {
		bw.Logger.Errorw("batch write failed", "error", err)
	}
	if bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if err := bw.executeBatch(batch); err != nil {
			bw.fail(err)
		}
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	if bw.db == nil {
		for _, w := range batch {
			if err := w(bw.ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	// Batches still queued at Close must commit even though bw.ctx is canceled.
	ctx := context.Background()

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin batch tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit batch (%d items)", len(batch))
	}
	return nil
}

func (bw *BatchWriter) loop() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.flushTicker.C:
			bw.mu.Lock()
			bw.flushLocked()
			bw.mu.Unlock()
		}
	}
}

// Close stops accepting submissions, commits what is buffered and returns
// the first error seen during the writer's lifetime.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.flushTicker != nil {
		bw.flushTicker.Stop()
	}
	bw.flushLocked()
	bw.mu.Unlock()

	bw.cancel()
	close(bw.commitCh)
	bw.wg.Wait()

	return bw.Err()
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
