// Package analysis derives aggregate views of a record set. The categorical
// view and the image exporter both render from these groupings, so the
// "what counts as a group" decision lives in one place.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

// RegionCount is one bar of the categorical view.
type RegionCount struct {
	Region string
	Count  int
}

// GroupByRegion groups records by display region and counts each group.
// Records without a region fall under the unknown sentinel. Only regions
// present in the input appear: a region filtered down to zero records is
// omitted rather than listed with count 0.
//
// Groups are sorted by count descending, ties broken alphabetically.
func GroupByRegion(records []model.Record) []RegionCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.DisplayRegion()]++
	}

	groups := make([]RegionCount, 0, len(counts))
	for region, count := range counts {
		groups = append(groups, RegionCount{Region: region, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Region < groups[j].Region
	})
	return groups
}

// GroupStats summarizes the group size distribution.
type GroupStats struct {
	Groups int
	Total  int
	Mean   float64
	StdDev float64
}

// Summarize computes distribution statistics over the group counts.
func Summarize(groups []RegionCount) GroupStats {
	if len(groups) == 0 {
		return GroupStats{}
	}

	counts := make([]float64, len(groups))
	total := 0
	for i, g := range groups {
		counts[i] = float64(g.Count)
		total += g.Count
	}

	mean, std := stat.MeanStdDev(counts, nil)
	if len(groups) == 1 {
		std = 0 // MeanStdDev yields NaN for a single sample
	}
	return GroupStats{
		Groups: len(groups),
		Total:  total,
		Mean:   mean,
		StdDev: std,
	}
}
