package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
)

// sinkQueueDepth bounds each sink's queue to 16 row chunks (~80000 rows in
// flight per table at BatchSize 5000). Workers block on send once a sink's
// queue is full, the pipeline's only backpressure mechanism.
const sinkQueueDepth = 16

// Sink is the single cooperative task per target table: it owns one
// long-lived transaction on one connection, issues the store's COPY FROM
// STDIN once, and streams framed row chunks from its bounded queue into
// the copy protocol unchanged until the queue is closed.
type Sink struct {
	Table   string
	Columns []string
	queue   chan []byte
}

// NewSink allocates a sink for table with the given column order (the
// five reserved columns followed by tc's dynamic fields).
func NewSink(table string, tc config.TableConfig) *Sink {
	return &Sink{
		Table:   table,
		Columns: ColumnsFor(tc.DynamicFields()),
		queue:   make(chan []byte, sinkQueueDepth),
	}
}

// Send enqueues one row chunk, blocking when the queue is full. Callers
// must stop sending once the owning archive worker pool has finished and
// Close has been called.
func (s *Sink) Send(chunk []byte) {
	s.queue <- chunk
}

// Close signals that no more chunks will be sent, letting Run finalize the
// copy once the queue drains.
func (s *Sink) Close() { close(s.queue) }

// Run acquires a connection, opens the copy protocol, and streams queued
// chunks into it until Close is called, then commits. It returns the total
// row count copied. A copy error or a connection failure fails the sink
// with context identifying the table; the queue keeps draining in the
// background (chunks still enqueued are discarded) until Close, so senders
// never block on a failed sink.
func (s *Sink) Run(ctx context.Context, store *Store) (int64, error) {
	conn, err := store.Pool.Acquire(ctx)
	if err != nil {
		go func() {
			for range s.queue {
			}
		}()
		return 0, fmt.Errorf("sink %s: acquiring connection: %w", s.Table, err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		go func() {
			for range s.queue {
			}
		}()
		return 0, fmt.Errorf("sink %s: opening transaction: %w", s.Table, err)
	}
	defer tx.Rollback(ctx)

	pr, pw := io.Pipe()
	go func() {
		var werr error
		for chunk := range s.queue {
			if werr != nil {
				continue // drain remaining chunks so senders never block forever on a dead sink
			}
			if _, werr = pw.Write(chunk); werr != nil {
				continue
			}
		}
		pw.CloseWithError(werr)
	}()

	copySQL := store.CopySQL(s.Table, s.Columns)
	tag, err := conn.Conn().PgConn().CopyFrom(ctx, pr, copySQL)
	if err != nil {
		// Unblock the drain goroutine: with the read end closed its writes
		// fail immediately, so it keeps consuming the queue and workers
		// never wedge on a dead sink.
		pr.CloseWithError(err)
		return 0, fmt.Errorf("sink %s: copy failed: %w", s.Table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("sink %s: commit failed: %w", s.Table, err)
	}
	return tag.RowsAffected(), nil
}
