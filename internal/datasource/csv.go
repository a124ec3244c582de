package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
)

// csvSource reads a comma-separated dataset with a header row.
type csvSource struct {
	path string
}

func (s *csvSource) Name() string { return "csv" }

func (s *csvSource) Load(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows are validated per-cell, not per-width
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var records []model.Record
	dropped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				dropped++
				continue
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		rec, ok := recordFromRow(cols, row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		debug.Log("csv %s: dropped %d malformed rows", s.path, dropped)
	}
	return records, nil
}
