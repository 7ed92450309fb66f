package export

import (
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"flightetl/pkg/records"
)

// parquetWriterParallelism bounds the writer's internal goroutines; export
// volume is modest so a small value keeps memory predictable.
const parquetWriterParallelism = 2

// writeParquet writes recs as a snappy-compressed parquet file. Every column
// is an optional UTF8 string; nil record values are written as parquet nulls
// so the NULL padding survives the round trip.
func writeParquet(ctx context.Context, path string, columns []string, recs []records.Record) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("export: create parquet: %w", err)
	}

	md := make([]string, len(columns))
	for i, c := range columns {
		md[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY", c)
	}

	pw, err := writer.NewCSVWriter(md, fw, parquetWriterParallelism)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("export: parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
		row := make([]*string, len(columns))
		for i, c := range columns {
			if v := rec[c]; v != nil {
				s := toString(v)
				row[i] = &s
			}
		}
		if err := pw.WriteString(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("export: parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("export: parquet finish: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("export: close parquet: %w", err)
	}
	return nil
}
