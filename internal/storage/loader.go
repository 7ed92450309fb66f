// This file implements the batched full-reload loader. The destination table
// is truncated, then finalized rows are written in fixed-size chunks through
// the backend's bulk-insert primitive (Postgres COPY, SQLite transactional
// INSERT).
//
// Logging: on every successful chunk, a concise progress line is emitted with
// running totals and instantaneous rows/sec since the previous chunk.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"flightetl/pkg/records"
)

// Load truncates the destination table and writes recs in chunks of
// batchSize. Row values are taken from each record in columns order; missing
// keys load as NULL. It returns the total number of rows reported by the
// backend and the first error encountered.
func Load(ctx context.Context, repo Repository, columns []string, recs []records.Record, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("columns must not be empty")
	}

	if err := repo.Truncate(ctx); err != nil {
		return 0, fmt.Errorf("truncate: %w", err)
	}

	var (
		total       int64
		chunks      int64
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	for offset := 0; offset < len(recs); offset += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		end := offset + batchSize
		if end > len(recs) {
			end = len(recs)
		}
		rows := toRows(columns, recs[offset:end])

		n, err := repo.CopyFrom(ctx, columns, rows)
		total += n
		if err != nil {
			log.Printf("loader: copy failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}

		chunks++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		insertedSinceLast := total - lastTotal
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(insertedSinceLast) / sinceLast.Seconds()
		}
		log.Printf(
			"loader: chunk #%d rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			chunks,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
	}

	log.Printf("loader: done chunks=%d total_inserted=%d", chunks, total)
	return total, nil
}

// toRows projects records onto the column order expected by CopyFrom.
func toRows(columns []string, recs []records.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		rows = append(rows, row)
	}
	return rows
}
