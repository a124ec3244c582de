//go:build ignore

// generate_testdata.go creates sample datasets for manual testing.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/sample-small.csv    (25 records)
//	testdata/sample-medium.csv   (500 records)
//	testdata/sample-large.jsonl  (10000 records)
//
// Roughly 10% of records get no coordinate and 5% no region, matching the
// gaps real exports tend to have.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

type city struct {
	name    string
	region  string
	country string
	lat     float64
	lng     float64
}

var cities = []city{
	{"Los Angeles", "CA", "USA", 34.05, -118.24},
	{"San Francisco", "CA", "USA", 37.77, -122.42},
	{"New York", "NY", "USA", 40.71, -74.00},
	{"Austin", "TX", "USA", 30.27, -97.74},
	{"Seattle", "WA", "USA", 47.61, -122.33},
	{"Amsterdam", "NH", "NL", 52.37, 4.90},
	{"Utrecht", "UT", "NL", 52.09, 5.12},
	{"Berlin", "BE", "DE", 52.52, 13.40},
	{"Tokyo", "13", "JP", 35.68, 139.69},
	{"Auckland", "AUK", "NZ", -36.85, 174.76},
	{"Suva", "C", "FJ", -18.14, 178.44}, // keeps the antimeridian path honest
}

var firstNames = []string{
	"Alice", "Bob", "Cara", "Dan", "Eva", "Frank", "Grace", "Hugo",
	"Iris", "Jan", "Kim", "Lars", "Mara", "Nils", "Olga", "Piet",
}

func record(rng *rand.Rand, i int) (name string, c city, mappable, hasRegion bool) {
	name = fmt.Sprintf("%s %c.", firstNames[rng.Intn(len(firstNames))], 'A'+rng.Intn(26))
	c = cities[rng.Intn(len(cities))]
	// Jitter within the metro area so points don't stack.
	c.lat += (rng.Float64() - 0.5) * 0.2
	c.lng += (rng.Float64() - 0.5) * 0.2
	return name, c, rng.Float64() >= 0.10, rng.Float64() >= 0.05
}

func writeCSV(path string, n int, rng *rand.Rand) error {
	var b strings.Builder
	b.WriteString("name,city,region,country,lat,lng\n")
	for i := 0; i < n; i++ {
		name, c, mappable, hasRegion := record(rng, i)
		region := c.region
		if !hasRegion {
			region = ""
		}
		if mappable {
			fmt.Fprintf(&b, "%s,%s,%s,%s,%.4f,%.4f\n", name, c.name, region, c.country, c.lat, c.lng)
		} else {
			fmt.Fprintf(&b, "%s,%s,%s,%s,,\n", name, c.name, region, c.country)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeJSONL(path string, n int, rng *rand.Rand) error {
	var b strings.Builder
	for i := 0; i < n; i++ {
		name, c, mappable, hasRegion := record(rng, i)
		region := c.region
		if !hasRegion {
			region = ""
		}
		lat, lng := c.lat, c.lng
		if !mappable {
			lat, lng = 0, 0
		}
		fmt.Fprintf(&b, `{"name":%q,"city":%q,"region":%q,"country":%q,"lat":%.4f,"lng":%.4f}`+"\n",
			name, c.name, region, c.country, lat, lng)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func main() {
	rng := rand.New(rand.NewSource(42))
	dir := "testdata"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	steps := []struct {
		path string
		run  func() error
	}{
		{filepath.Join(dir, "sample-small.csv"), func() error { return writeCSV(filepath.Join(dir, "sample-small.csv"), 25, rng) }},
		{filepath.Join(dir, "sample-medium.csv"), func() error { return writeCSV(filepath.Join(dir, "sample-medium.csv"), 500, rng) }},
		{filepath.Join(dir, "sample-large.jsonl"), func() error { return writeJSONL(filepath.Join(dir, "sample-large.jsonl"), 10000, rng) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", s.path)
	}
}
