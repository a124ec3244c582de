// Package datasource turns raw tabular payloads into records. It supports
// CSV (canonical), JSON/JSONL, XLSX and SQLite sources, selected by file
// extension. Individual malformed rows are dropped, never fatal; a source
// that cannot be opened or whose header is unrecognizable fails as a whole.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

// ErrUnsupportedFormat is returned by ForPath for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// ErrNoHeader is returned when a tabular source has no recognizable columns.
var ErrNoHeader = errors.New("no recognizable columns in header")

// Source loads records from one dataset file.
type Source interface {
	// Name identifies the source kind, e.g. "csv".
	Name() string
	// Load reads and converts all rows. The returned slice preserves source
	// order. Dropped-row counts are reported through the debug log.
	Load(ctx context.Context) ([]model.Record, error)
}

// ForPath selects a source implementation by file extension.
func ForPath(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &csvSource{path: path}, nil
	case ".json", ".jsonl":
		return &jsonSource{path: path}, nil
	case ".xlsx":
		return &xlsxSource{path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &sqliteSource{path: path}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// columns maps logical record fields to header positions, -1 when absent.
type columns struct {
	name    int
	city    int
	region  int
	country int
	lat     int
	lng     int
}

// resolveColumns matches a header row against known column aliases,
// case-insensitively. At least one alias must match or ErrNoHeader applies.
func resolveColumns(header []string) (columns, error) {
	cols := columns{name: -1, city: -1, region: -1, country: -1, lat: -1, lng: -1}
	matched := false

	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch h {
		case "name", "display_name", "title":
			cols.name = i
		case "city", "town":
			cols.city = i
		case "region", "state", "province":
			cols.region = i
		case "country":
			cols.country = i
		case "lat", "latitude":
			cols.lat = i
		case "lng", "lon", "long", "longitude":
			cols.lng = i
		default:
			continue
		}
		matched = true
	}

	if !matched {
		return cols, ErrNoHeader
	}
	return cols, nil
}

// cell returns the trimmed field at idx, or "" when the row is too short or
// the column absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCoord converts a coordinate cell. Missing or non-numeric values map
// to 0: the record stays loadable, it just is not mappable.
func parseCoord(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// recordFromRow builds a record from one tabular row. A row with no usable
// cells at all is malformed and reported as not ok.
func recordFromRow(cols columns, row []string) (model.Record, bool) {
	r := model.Record{
		Name:    cell(row, cols.name),
		City:    cell(row, cols.city),
		Region:  cell(row, cols.region),
		Country: cell(row, cols.country),
		Lat:     parseCoord(cell(row, cols.lat)),
		Lng:     parseCoord(cell(row, cols.lng)),
	}
	if r.Name == "" && r.City == "" && r.Region == "" && r.Country == "" && r.Lat == 0 && r.Lng == 0 {
		return model.Record{}, false
	}
	return r, true
}
