package datasource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
)

// jsonSource reads either a JSON array (.json) or line-delimited objects
// (.jsonl). Both spellings of the coordinate keys are accepted.
type jsonSource struct {
	path string
}

// jsonRecord is the permissive wire shape for one record.
type jsonRecord struct {
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Region    string   `json:"region"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Lat       *float64 `json:"lat"`
	Latitude  *float64 `json:"latitude"`
	Lng       *float64 `json:"lng"`
	Longitude *float64 `json:"longitude"`
}

func (j jsonRecord) toRecord() model.Record {
	r := model.Record{
		Name:    j.Name,
		City:    j.City,
		Region:  j.Region,
		Country: j.Country,
	}
	if r.Region == "" {
		r.Region = j.State
	}
	if j.Lat != nil {
		r.Lat = *j.Lat
	} else if j.Latitude != nil {
		r.Lat = *j.Latitude
	}
	if j.Lng != nil {
		r.Lng = *j.Lng
	} else if j.Longitude != nil {
		r.Lng = *j.Longitude
	}
	return r
}

func (j jsonRecord) empty() bool {
	return j.Name == "" && j.City == "" && j.Region == "" && j.State == "" &&
		j.Country == "" && j.Lat == nil && j.Latitude == nil &&
		j.Lng == nil && j.Longitude == nil
}

func (s *jsonSource) Name() string { return "json" }

func (s *jsonSource) Load(ctx context.Context) ([]model.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return s.loadArray(trimmed)
	}
	return s.loadLines(ctx, data)
}

func (s *jsonSource) loadArray(data []byte) ([]model.Record, error) {
	var rows []jsonRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode json array: %w", err)
	}

	var records []model.Record
	dropped := 0
	for _, row := range rows {
		if row.empty() {
			dropped++
			continue
		}
		records = append(records, row.toRecord())
	}
	if dropped > 0 {
		debug.Log("json %s: dropped %d empty rows", s.path, dropped)
	}
	return records, nil
}

func (s *jsonSource) loadLines(ctx context.Context, data []byte) ([]model.Record, error) {
	var records []model.Record
	dropped := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var row jsonRecord
		if err := json.Unmarshal(line, &row); err != nil || row.empty() {
			dropped++
			continue
		}
		records = append(records, row.toRecord())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl: %w", err)
	}

	if dropped > 0 {
		debug.Log("jsonl %s: dropped %d malformed lines", s.path, dropped)
	}
	return records, nil
}
