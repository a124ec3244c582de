// Package geo computes map viewports: the bounding frame for a set of
// coordinates and the projection of coordinates into a character grid.
// Framing is built on s2 rectangles so latitude clamping and antimeridian
// wrapping behave correctly without special cases here.
package geo

import (
	"math"

	"github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s2"
)

// GeohashPrecision is the number of geohash characters shown for a record.
// Eight characters is roughly a 38m x 19m cell.
const GeohashPrecision = 8

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Viewport frames a set of points. The zero value is unusable; build one
// with Frame.
type Viewport struct {
	rect s2.Rect
}

// Frame returns the viewport enclosing all given points, padded so points
// never sit exactly on the frame edge. Returns false when pts is empty.
func Frame(pts []Point) (Viewport, bool) {
	if len(pts) == 0 {
		return Viewport{}, false
	}

	rect := s2.EmptyRect()
	for _, p := range pts {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lng))
	}

	// Pad by 5% of the span with a floor of half a degree, so a single
	// point still gets a visible neighborhood.
	latPad := math.Max(rect.Lat.Length()*0.05, 0.5*math.Pi/180)
	lngPad := math.Max(rect.Lng.Length()*0.05, 0.5*math.Pi/180)
	// s2.Rect's expanded method is unexported; expand the underlying
	// intervals the same way, clamping latitude to the valid range.
	rect = s2.Rect{
		Lat: rect.Lat.Expanded(latPad).Intersection(r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}),
		Lng: rect.Lng.Expanded(lngPad),
	}

	return Viewport{rect: rect}, true
}

// World returns a viewport covering the whole globe.
func World() Viewport {
	return Viewport{rect: s2.FullRect()}
}

// Contains reports whether the point lies inside the viewport.
func (v Viewport) Contains(p Point) bool {
	return v.rect.ContainsLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
}

// Center returns the viewport's center point in degrees.
func (v Viewport) Center() Point {
	c := v.rect.Center()
	return Point{Lat: c.Lat.Degrees(), Lng: c.Lng.Degrees()}
}

// Span returns the latitude and longitude span in degrees.
func (v Viewport) Span() (latSpan, lngSpan float64) {
	return v.rect.Lat.Length() * 180 / math.Pi, v.rect.Lng.Length() * 180 / math.Pi
}

// Project maps a point to cell coordinates on a w x h grid using an
// equirectangular projection of the viewport, north up. Returns false when
// the point falls outside the viewport or the grid is degenerate.
func (v Viewport) Project(p Point, w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 || !v.Contains(p) {
		return 0, 0, false
	}

	ll := s2.LatLngFromDegrees(p.Lat, p.Lng)

	latLo := v.rect.Lat.Lo
	latSpan := v.rect.Lat.Length()
	if latSpan <= 0 {
		return 0, 0, false
	}
	fy := (float64(ll.Lat.Radians()) - latLo) / latSpan

	lngSpan := v.rect.Lng.Length()
	if lngSpan <= 0 {
		return 0, 0, false
	}
	// Normalize the offset from the western edge into [0, 2pi) so frames
	// crossing the antimeridian project continuously.
	offset := math.Mod(ll.Lng.Radians()-v.rect.Lng.Lo+2*math.Pi, 2*math.Pi)
	fx := offset / lngSpan

	x = int(fx * float64(w-1))
	y = int((1 - fy) * float64(h-1)) // grid row 0 is north
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

// Geohash returns the geohash cell identifier for a point.
func Geohash(p Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, GeohashPrecision)
}
