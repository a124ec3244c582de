package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
)

// sqliteSource reads records from a SQLite database. The database must carry
// a "records" table; nullable columns map to the usual defaults.
type sqliteSource struct {
	path string
}

func (s *sqliteSource) Name() string { return "sqlite" }

func (s *sqliteSource) Load(ctx context.Context) ([]model.Record, error) {
	// Read-only: geoscope never writes dataset files.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", s.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT name, city, region, country, lat, lng
		FROM records
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	dropped := 0
	for rows.Next() {
		var name, city, region, country sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&name, &city, &region, &country, &lat, &lng); err != nil {
			dropped++
			continue
		}
		rec := model.Record{
			Name:    name.String,
			City:    city.String,
			Region:  region.String,
			Country: country.String,
			Lat:     lat.Float64,
			Lng:     lng.Float64,
		}
		if rec.Name == "" && rec.City == "" && rec.Region == "" && rec.Country == "" && rec.Lat == 0 && rec.Lng == 0 {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	if dropped > 0 {
		debug.Log("sqlite %s: dropped %d malformed rows", s.path, dropped)
	}
	return records, nil
}
