// Package loader orchestrates the one-shot dataset load: source selection,
// row conversion, and sanitization. It is the only writer of the store's raw
// set. A failed load leaves the store untouched so the caller can surface a
// single fatal message without any partial state.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mvdleeuw/geoscope/internal/datasource"
	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
)

// DataPathEnvVar names the environment variable for the dataset path.
const DataPathEnvVar = "GEOSCOPE_DATA"

// DefaultDataName is the dataset file looked up in the working directory
// when no explicit path is given.
const DefaultDataName = "records.csv"

// ErrEmptyDataset is returned when a source parses but yields no usable rows.
var ErrEmptyDataset = errors.New("dataset contains no usable records")

// ResolvePath picks the dataset path: explicit argument, then the
// GEOSCOPE_DATA environment variable, then ./records.csv.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(DataPathEnvVar); env != "" {
		return env
	}
	return DefaultDataName
}

// Load reads all records from the dataset at path. Success yields a
// non-empty, sanitized, ordered record slice; any failure yields an error
// and no records.
func Load(ctx context.Context, path string) ([]model.Record, error) {
	defer debug.LogEnterExit("loader.Load")()
	start := time.Now()

	src, err := datasource.ForPath(path)
	if err != nil {
		return nil, err
	}

	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s dataset: %w", src.Name(), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}

	records = Sanitize(records)
	debug.Log("loaded %d records from %s in %v", len(records), path, time.Since(start))
	return records, nil
}

// Sanitize normalizes loaded records in place: trims whitespace and
// synthesizes a deterministic placeholder name for records that arrived
// without one. The placeholder derives from the record's ordinal position,
// so repeated loads of an identical source produce identical names.
func Sanitize(records []model.Record) []model.Record {
	for i := range records {
		r := &records[i]
		r.Name = strings.TrimSpace(r.Name)
		r.City = strings.TrimSpace(r.City)
		r.Region = strings.TrimSpace(r.Region)
		r.Country = strings.TrimSpace(r.Country)
		if r.Name == "" {
			r.Name = model.PlaceholderName(i)
		}
	}
	return records
}
