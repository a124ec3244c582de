// Package filter implements predicate evaluation over the raw record set.
// Evaluation is pure and runs off the update loop; staleness is handled by
// the store's generation token, so no locking is needed beyond the commit
// check.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

// AllRegions is the region criterion sentinel meaning "match every region".
const AllRegions = ""

// RegexpPrefix marks a name criterion that should be compiled as a regular
// expression instead of a plain substring, e.g. "re:^A.*e$".
const RegexpPrefix = "re:"

// Criteria describes one filter request. It is ephemeral: reconstructed from
// current UI state on every request, never stored.
//
// Name matches case-insensitively as a substring (empty matches all), or as a
// regular expression when prefixed with RegexpPrefix. Region matches exactly
// (AllRegions matches all). Both predicates are ANDed.
type Criteria struct {
	Name   string
	Region string
}

// MatchAll reports whether the criteria would pass every record.
func (c Criteria) MatchAll() bool {
	return strings.TrimSpace(c.Name) == "" && c.Region == AllRegions
}

// predicate compiles the criteria into a single match function. A malformed
// regular expression is the one way compilation can fail.
func (c Criteria) predicate() (func(model.Record) bool, error) {
	name := strings.TrimSpace(c.Name)
	region := c.Region

	var matchName func(model.Record) bool
	switch {
	case name == "":
		matchName = func(model.Record) bool { return true }
	case strings.HasPrefix(name, RegexpPrefix):
		re, err := regexp.Compile("(?i)" + strings.TrimPrefix(name, RegexpPrefix))
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern: %w", err)
		}
		matchName = func(r model.Record) bool { return re.MatchString(r.Name) }
	default:
		needle := strings.ToLower(name)
		matchName = func(r model.Record) bool {
			return strings.Contains(strings.ToLower(r.Name), needle)
		}
	}

	return func(r model.Record) bool {
		if region != AllRegions && r.Region != region {
			return false
		}
		return matchName(r)
	}, nil
}

// Evaluate applies the criteria to every record in order and returns the
// matching subsequence. Exposed for synchronous callers (exports, tests);
// interactive filtering goes through Engine.Apply.
func (c Criteria) Evaluate(records []model.Record) ([]model.Record, error) {
	pred, err := c.predicate()
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
