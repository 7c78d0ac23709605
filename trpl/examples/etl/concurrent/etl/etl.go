/*
Package etl holds the row model and the Postgres write path for the
concurrent food inspection loader. The loader in the parent directory runs
row conversion on a worker pool and funnels every batch write through one
Writer, so a single transaction covers the whole load.
*/
package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Writer serializes batch writes from concurrent block workers onto one
// transaction.
type Writer struct {
	mu sync.Mutex
	tx pgx.Tx
}

// NewWriter wraps tx for use by concurrent workers. Committing or rolling
// back tx stays the caller's job.
func NewWriter(tx pgx.Tx) *Writer {
	return &Writer{tx: tx}
}

// WriteBlock turns rows into a single batch insert and sends it on the
// transaction. Concurrent callers are serialized. Transient Postgres errors
// are retried with exponential backoff; permanent ones come back as errors.
func (w *Writer) WriteBlock(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		q, a := row.InsertQuery()
		batch.Queue(q, a...)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exec(ctx, batch)
}

// exec writes batch b to the transaction. It uses a basic exponential
// backoff when receiving error codes that a retry might fix.
func (w *Writer) exec(ctx context.Context, b *pgx.Batch) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 1*time.Minute)
		defer cancel()
	}

	op := func() error {
		results := w.tx.SendBatch(ctx, b)
		defer results.Close()

		_, err := results.Exec()
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				if pgErr.Severity == "FATAL" {
					return backoff.Permanent(err)
				}
				// Error codes a retry cannot fix.
				switch pgErr.Code {
				case "25P02", "42703", "22P04", "22021", "42601", "42P01":
					return backoff.Permanent(err)
				}
			}
			log.Println("batch send non-permanent error: ", err)
			return err
		}
		return nil
	}

	err := backoff.Retry(
		op,
		backoff.WithContext(
			backoff.NewExponentialBackOff(),
			ctx,
		),
	)
	if err != nil {
		return fmt.Errorf("error sending batch: %w", err)
	}
	return nil
}
