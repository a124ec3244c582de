package geo

import (
	"testing"

	"github.com/TomiHiltunen/geohash-golang"
)

func TestFrame_Empty(t *testing.T) {
	if _, ok := Frame(nil); ok {
		t.Error("empty point set must not produce a viewport")
	}
}

func TestFrame_SinglePoint(t *testing.T) {
	p := Point{Lat: 40.71, Lng: -74.01}
	v, ok := Frame([]Point{p})
	if !ok {
		t.Fatal("expected viewport")
	}
	if !v.Contains(p) {
		t.Error("viewport must contain its own point")
	}
	// Padding gives a single point a non-degenerate neighborhood.
	latSpan, lngSpan := v.Span()
	if latSpan <= 0 || lngSpan <= 0 {
		t.Errorf("expected padded span, got %f x %f", latSpan, lngSpan)
	}
	c := v.Center()
	if c.Lat < 40 || c.Lat > 41.5 || c.Lng < -75 || c.Lng > -73 {
		t.Errorf("center %+v far from the framed point", c)
	}
}

func TestFrame_ContainsAllAndExcludesDistant(t *testing.T) {
	pts := []Point{
		{34.05, -118.24}, // Los Angeles
		{37.77, -122.42}, // San Francisco
	}
	v, ok := Frame(pts)
	if !ok {
		t.Fatal("expected viewport")
	}
	for _, p := range pts {
		if !v.Contains(p) {
			t.Errorf("viewport must contain %+v", p)
		}
	}
	if v.Contains(Point{40.71, -74.01}) {
		t.Error("a California frame must not include New York")
	}
}

func TestProject_WithinGrid(t *testing.T) {
	pts := []Point{
		{34.05, -118.24},
		{37.77, -122.42},
		{40.71, -74.01},
	}
	v, _ := Frame(pts)

	const w, h = 80, 24
	for _, p := range pts {
		x, y, ok := v.Project(p, w, h)
		if !ok {
			t.Fatalf("point %+v should project", p)
		}
		if x < 0 || x >= w || y < 0 || y >= h {
			t.Errorf("projection (%d,%d) out of %dx%d grid", x, y, w, h)
		}
	}

	// North is up: the northernmost point gets the smallest row.
	_, yNY, _ := v.Project(Point{40.71, -74.01}, w, h)
	_, yLA, _ := v.Project(Point{34.05, -118.24}, w, h)
	if yNY >= yLA {
		t.Errorf("north-up violated: NY row %d, LA row %d", yNY, yLA)
	}

	// West is left.
	xSF, _, _ := v.Project(Point{37.77, -122.42}, w, h)
	xNY, _, _ := v.Project(Point{40.71, -74.01}, w, h)
	if xSF >= xNY {
		t.Errorf("west-left violated: SF col %d, NY col %d", xSF, xNY)
	}
}

func TestProject_OutsideViewport(t *testing.T) {
	v, _ := Frame([]Point{{34.05, -118.24}, {37.77, -122.42}})
	if _, _, ok := v.Project(Point{40.71, -74.01}, 80, 24); ok {
		t.Error("out-of-frame point must not project")
	}
	if _, _, ok := v.Project(Point{34.05, -118.24}, 0, 0); ok {
		t.Error("degenerate grid must not project")
	}
}

func TestWorld_ContainsEverything(t *testing.T) {
	v := World()
	for _, p := range []Point{{90, 0}, {-90, 0}, {0, 180}, {51.5, -0.12}} {
		if !v.Contains(p) {
			t.Errorf("world viewport must contain %+v", p)
		}
	}
}

func TestGeohash_KnownCell(t *testing.T) {
	// Canonical geohash test vector.
	got := geohash.EncodeWithPrecision(42.605, -5.603, 5)
	if got != "ezs42" {
		t.Fatalf("geohash library sanity: got %q, want ezs42", got)
	}
	if g := Geohash(Point{42.605, -5.603}); len(g) != GeohashPrecision {
		t.Errorf("Geohash precision = %d, want %d", len(g), GeohashPrecision)
	}
	if g := Geohash(Point{42.605, -5.603}); g[:5] != "ezs42" {
		t.Errorf("Geohash prefix = %q, want ezs42", g[:5])
	}
}
