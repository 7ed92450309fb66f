// Package export writes the finalized rows to flat files: a date-stamped CSV
// for ad-hoc inspection and a snappy-compressed parquet file for downstream
// analytics. Both files are written concurrently; the export succeeds only if
// both writers do.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"flightetl/internal/finalize"
	"flightetl/pkg/records"
)

// Config controls where and how the flat files are written.
type Config struct {
	// Dir is the output directory, created if missing.
	Dir string

	// Prefix is the CSV filename prefix; Date is appended.
	Prefix string

	// Date is the run date stamp used in the CSV filename, YYYY-MM-DD.
	Date string

	// Comma is the CSV field delimiter. Zero means ','.
	Comma rune
}

// ParquetName is the fixed parquet filename; each run overwrites the previous
// one so consumers always read the newest data from a stable path.
const ParquetName = "latest.parquet"

// CSVPath returns the date-stamped CSV path for cfg.
func CSVPath(cfg Config) string {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "flights"
	}
	return filepath.Join(cfg.Dir, fmt.Sprintf("%s-%s.csv", prefix, cfg.Date))
}

// ParquetPath returns the parquet path for cfg.
func ParquetPath(cfg Config) string {
	return filepath.Join(cfg.Dir, ParquetName)
}

// Write writes recs to both the CSV and the parquet file concurrently.
// Column order follows the row schema. Nil values become empty CSV fields and
// parquet nulls.
func Write(ctx context.Context, cfg Config, recs []records.Record) error {
	if cfg.Dir == "" {
		cfg.Dir = "output"
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}

	columns := finalize.ColumnNames()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeCSV(ctx, CSVPath(cfg), cfg.Comma, columns, recs)
	})
	g.Go(func() error {
		return writeParquet(ctx, ParquetPath(cfg), columns, recs)
	})
	return g.Wait()
}

// writeCSV writes a header row followed by one row per record.
func writeCSV(ctx context.Context, path string, comma rune, columns []string, recs []records.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if comma != 0 {
		w.Comma = comma
	}

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, c := range columns {
			row[i] = toString(rec[c])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: csv flush: %w", err)
	}
	return nil
}

// toString renders a record value for CSV. Nil renders as the empty string.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
