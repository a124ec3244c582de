package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

func TestGroupByRegion_SortedDescending(t *testing.T) {
	records := []model.Record{
		{Name: "a", Region: "NY"},
		{Name: "b", Region: "CA"},
		{Name: "c", Region: "CA"},
		{Name: "d", Region: "CA"},
		{Name: "e", Region: "NY"},
		{Name: "f", Region: "TX"},
	}
	got := GroupByRegion(records)
	want := []RegionCount{
		{Region: "CA", Count: 3},
		{Region: "NY", Count: 2},
		{Region: "TX", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByRegion = %v, want %v", got, want)
	}
}

func TestGroupByRegion_ZeroCountRegionsOmitted(t *testing.T) {
	// After filtering to CA, NY simply does not appear; it is not listed
	// with count 0.
	filtered := []model.Record{
		{Name: "Alice", Region: "CA"},
		{Name: "Bob", Region: "CA"},
	}
	got := GroupByRegion(filtered)
	if len(got) != 1 {
		t.Fatalf("got %d groups, want 1", len(got))
	}
	if got[0].Region != "CA" || got[0].Count != 2 {
		t.Errorf("group = %+v, want CA:2", got[0])
	}
}

func TestGroupByRegion_UnknownBucket(t *testing.T) {
	records := []model.Record{
		{Name: "a", Region: ""},
		{Name: "b", Region: "  "},
		{Name: "c", Region: "CA"},
	}
	got := GroupByRegion(records)
	want := []RegionCount{
		{Region: model.UnknownPlace, Count: 2},
		{Region: "CA", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupByRegion = %v, want %v", got, want)
	}
}

func TestGroupByRegion_TiesAlphabetical(t *testing.T) {
	records := []model.Record{
		{Name: "a", Region: "NY"},
		{Name: "b", Region: "CA"},
	}
	got := GroupByRegion(records)
	if got[0].Region != "CA" || got[1].Region != "NY" {
		t.Errorf("tie break not alphabetical: %v", got)
	}
}

func TestGroupByRegion_Empty(t *testing.T) {
	if got := GroupByRegion(nil); len(got) != 0 {
		t.Errorf("expected no groups, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	groups := []RegionCount{
		{Region: "CA", Count: 3},
		{Region: "NY", Count: 1},
	}
	s := Summarize(groups)
	if s.Groups != 2 || s.Total != 4 {
		t.Errorf("stats = %+v", s)
	}
	if s.Mean != 2 {
		t.Errorf("mean = %f, want 2", s.Mean)
	}
	if math.IsNaN(s.StdDev) || s.StdDev <= 0 {
		t.Errorf("stddev = %f", s.StdDev)
	}

	single := Summarize([]RegionCount{{Region: "CA", Count: 5}})
	if single.StdDev != 0 {
		t.Errorf("single-group stddev = %f, want 0", single.StdDev)
	}

	empty := Summarize(nil)
	if empty.Groups != 0 || empty.Total != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
