// Package store holds the single process-wide dashboard state: the raw record
// set, the current filtered view, derived category facets, the active view
// identifier, and the filter generation counter.
//
// The store is the only mutable shared resource in geoscope. The raw set is
// written exactly once per load through SetRaw; the filtered view is written
// only through the BeginFilter/CommitFilter token pair, which guarantees that
// under overlapping filter requests only the most recently issued result ever
// becomes visible, regardless of completion order.
package store

import (
	"sort"
	"sync"

	"github.com/mvdleeuw/geoscope/pkg/model"
)

// ViewID identifies one of the three visualizations.
type ViewID int

const (
	ViewMap ViewID = iota
	ViewCategorical
	ViewRelationship
	numViews // keep last, used for cycling
)

// NumViews is the number of selectable views.
const NumViews = int(numViews)

// String returns a human-readable label for the view.
func (v ViewID) String() string {
	switch v {
	case ViewMap:
		return "Map"
	case ViewCategorical:
		return "Regions"
	case ViewRelationship:
		return "Relations"
	default:
		return "Unknown"
	}
}

// Next returns the view after v, wrapping around.
func (v ViewID) Next() ViewID {
	return ViewID((int(v) + 1) % NumViews)
}

// Prev returns the view before v, wrapping around.
func (v ViewID) Prev() ViewID {
	return ViewID((int(v) + NumViews - 1) % NumViews)
}

// Snapshot is an immutable view of the store taken under the lock. The slices
// are shared with the store and must not be mutated by readers; records
// themselves are immutable after load.
type Snapshot struct {
	Raw        []model.Record
	Filtered   []model.Record
	Categories []string
	ActiveView ViewID
	Busy       bool
	Generation uint64
}

// Store is the session-lifetime state holder. Create exactly one with New and
// pass it by reference; all mutation goes through its methods.
type Store struct {
	mu         sync.RWMutex
	raw        []model.Record
	filtered   []model.Record
	categories []string
	activeView ViewID
	busy       bool
	generation uint64
}

// New returns an empty store with the map view active.
func New() *Store {
	return &Store{activeView: ViewMap}
}

// SetRaw replaces the raw record set. This is the only mutation path for raw:
// it resets the filtered view to a copy of raw, recomputes the category
// facets, and clears any stale busy state left by an in-flight filter. The
// generation counter advances so every outstanding filter token is
// invalidated: a filter evaluated against the previous raw set can never
// commit over the fresh one.
func (s *Store) SetRaw(records []model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = records
	s.filtered = make([]model.Record, len(records))
	copy(s.filtered, records)
	s.categories = distinctRegions(records)
	s.generation++
	s.busy = false
}

// BeginFilter marks the issuance of a new filter operation. It increments the
// generation counter and returns the new value as the caller's commit token.
func (s *Store) BeginFilter() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.busy = true
	return s.generation
}

// CommitFilter installs a completed filter result. The commit is applied only
// when token still matches the current generation; a completed-but-superseded
// operation is silently discarded and the method reports false.
func (s *Store) CommitFilter(token uint64, filtered []model.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return false
	}
	s.filtered = filtered
	s.busy = false
	return true
}

// AbortFilter clears the busy flag for a filter operation that failed before
// producing a result. The previous filtered view is left intact. Like
// CommitFilter it is a no-op for superseded tokens.
func (s *Store) AbortFilter(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == s.generation {
		s.busy = false
	}
}

// SetActiveView records which view is currently live.
func (s *Store) SetActiveView(v ViewID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeView = v
}

// ActiveView returns the currently live view identifier.
func (s *Store) ActiveView() ViewID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeView
}

// Generation returns the token of the most recently issued filter operation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Busy reports whether a filter or load operation is in flight.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// Loaded reports whether SetRaw has populated the store.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw != nil
}

// Raw returns the full record set in load order.
func (s *Store) Raw() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}

// Snapshot returns a consistent read of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Raw:        s.raw,
		Filtered:   s.filtered,
		Categories: s.categories,
		ActiveView: s.activeView,
		Busy:       s.busy,
		Generation: s.generation,
	}
}

// distinctRegions computes the sorted set of distinct non-empty region values.
func distinctRegions(records []model.Record) []string {
	seen := make(map[string]bool, len(records))
	var regions []string
	for _, r := range records {
		if r.Region == "" || seen[r.Region] {
			continue
		}
		seen[r.Region] = true
		regions = append(regions, r.Region)
	}
	sort.Strings(regions)
	return regions
}
