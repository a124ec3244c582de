// Package model defines the core record type shared by every geoscope
// component. Records are immutable once loaded; all derived state (filtered
// subsets, category facets) lives in pkg/store.
package model

import (
	"fmt"
	"math"
	"strings"
)

// UnknownPlace is the display sentinel for absent location fields.
const UnknownPlace = "Unknown"

// Record is one entity of the dataset: a named point with free-text location
// fields and a geographic coordinate. Identity is the display name. Names are
// not guaranteed unique; lookups resolve to the first match in load order.
type Record struct {
	Name    string
	City    string
	Region  string
	Country string
	Lat     float64
	Lng     float64
}

// Mappable reports whether the record can be plotted: both coordinates must
// be finite and the pair must not be exactly (0,0), which is what most
// exports emit for "no coordinate". Non-mappable records remain filterable
// and countable.
func (r Record) Mappable() bool {
	if math.IsNaN(r.Lat) || math.IsNaN(r.Lng) {
		return false
	}
	if math.IsInf(r.Lat, 0) || math.IsInf(r.Lng, 0) {
		return false
	}
	return r.Lat != 0 || r.Lng != 0
}

// DisplayCity returns the city or the unknown sentinel.
func (r Record) DisplayCity() string {
	if strings.TrimSpace(r.City) == "" {
		return UnknownPlace
	}
	return r.City
}

// DisplayRegion returns the region or the unknown sentinel.
func (r Record) DisplayRegion() string {
	if strings.TrimSpace(r.Region) == "" {
		return UnknownPlace
	}
	return r.Region
}

// DisplayCountry returns the country or the unknown sentinel.
func (r Record) DisplayCountry() string {
	if strings.TrimSpace(r.Country) == "" {
		return UnknownPlace
	}
	return r.Country
}

// Location returns a compact "city, region, country" line using the display
// sentinels for absent fields.
func (r Record) Location() string {
	return fmt.Sprintf("%s, %s, %s", r.DisplayCity(), r.DisplayRegion(), r.DisplayCountry())
}

// PlaceholderName synthesizes a display name for a record that arrived
// without one. It is derived from the record's ordinal position in the load,
// so it is distinct from every other synthesized name in the same load and
// stable across repeated loads of an identical source.
func PlaceholderName(ordinal int) string {
	return fmt.Sprintf("Record %d", ordinal+1)
}

// FindByName returns the first record with the given display name. Duplicate
// names are tolerated; the earliest match in load order wins.
func FindByName(records []Record, name string) (Record, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
