package datasource

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
)

// xlsxSource reads the first sheet of an Excel workbook. Row one is the
// header and resolves against the same aliases as CSV.
type xlsxSource struct {
	path string
}

func (s *xlsxSource) Name() string { return "xlsx" }

func (s *xlsxSource) Load(ctx context.Context) ([]model.Record, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx %s: no sheets", s.path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet %q: %w", sheets[0], ErrNoHeader)
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx header: %w", err)
	}

	var records []model.Record
	dropped := 0
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, ok := recordFromRow(cols, row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		debug.Log("xlsx %s: dropped %d malformed rows", s.path, dropped)
	}
	return records, nil
}
