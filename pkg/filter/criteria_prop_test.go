package filter

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

// Property: for every record set and criteria, Evaluate returns an ordered
// subsequence of the input where each element satisfies the criteria and each
// excluded element violates it.
func TestEvaluate_Properties(t *testing.T) {
	regions := []string{"", "CA", "NY", "TX", "Drenthe"}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		records := make([]model.Record, n)
		for i := range records {
			records[i] = model.Record{
				Name:   rapid.StringMatching(`[A-Za-z ]{0,10}`).Draw(t, "name"),
				Region: rapid.SampledFrom(regions).Draw(t, "region"),
			}
		}

		crit := Criteria{
			Name:   rapid.StringMatching(`[A-Za-z]{0,4}`).Draw(t, "critName"),
			Region: rapid.SampledFrom(regions).Draw(t, "critRegion"),
		}

		got, err := crit.Evaluate(records)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}

		satisfies := func(r model.Record) bool {
			if crit.Region != AllRegions && r.Region != crit.Region {
				return false
			}
			needle := strings.ToLower(strings.TrimSpace(crit.Name))
			return strings.Contains(strings.ToLower(r.Name), needle)
		}

		// Every element of the result satisfies the criteria.
		for _, r := range got {
			if !satisfies(r) {
				t.Fatalf("record %+v in result violates criteria %+v", r, crit)
			}
		}

		// The result is the full satisfying subsequence, in original order.
		want := make([]model.Record, 0, n)
		for _, r := range records {
			if satisfies(r) {
				want = append(want, r)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("result size %d, want %d", len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("order not preserved at %d: %+v vs %+v", i, got[i], want[i])
			}
		}
	})
}

// Property: match-all criteria returns the input unchanged.
func TestEvaluate_MatchAllIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		records := make([]model.Record, n)
		for i := range records {
			records[i] = model.Record{Name: rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "name")}
		}
		got, err := Criteria{}.Evaluate(records)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if len(got) != len(records) {
			t.Fatalf("match-all dropped records: %d vs %d", len(got), len(records))
		}
		for i := range got {
			if got[i] != records[i] {
				t.Fatalf("match-all reordered records at %d", i)
			}
		}
	})
}
