package filter

import (
	"context"
	"time"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/model"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// Engine evaluates filter criteria against the store's raw set without
// blocking the caller. Each Apply issues a new generation token before
// returning, so issuance order is fixed even when completions interleave; a
// superseded evaluation still runs to completion but its commit is discarded
// by the store.
type Engine struct {
	store *store.Store

	// beforeEval, when set, runs on the worker goroutine before evaluation
	// starts. Test seam for pinning down commit interleavings.
	beforeEval func()
}

// NewEngine returns an engine bound to the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Task tracks one asynchronous filter operation.
type Task struct {
	// Token is the generation assigned at issue time.
	Token uint64

	done      chan struct{}
	err       error
	committed bool
}

// Done is closed when the operation has finished, whether committed,
// superseded, or failed.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the operation finishes and returns its error, if any.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the operation's error once Done is closed.
func (t *Task) Err() error { return t.err }

// Committed reports whether the result was installed in the store. False
// means the operation was superseded by a later one, cancelled, or failed.
func (t *Task) Committed() bool { return t.committed }

// Apply issues a filter operation. The generation token is claimed
// synchronously; predicate evaluation runs on a worker goroutine and commits
// through the store's token check. A malformed criteria aborts without
// mutating the filtered view and surfaces through Task.Err.
func (e *Engine) Apply(ctx context.Context, c Criteria) *Task {
	token := e.store.BeginFilter()
	t := &Task{Token: token, done: make(chan struct{})}

	raw := e.store.Raw()

	go func() {
		defer close(t.done)
		start := time.Now()
		if e.beforeEval != nil {
			e.beforeEval()
		}

		pred, err := c.predicate()
		if err != nil {
			e.store.AbortFilter(token)
			t.err = err
			return
		}

		matched := make([]model.Record, 0, len(raw))
		for i, r := range raw {
			// Evaluation is pure; the only cooperation point is an
			// occasional context check for very large sets.
			if i&1023 == 0 && ctx.Err() != nil {
				e.store.AbortFilter(token)
				t.err = ctx.Err()
				return
			}
			if pred(r) {
				matched = append(matched, r)
			}
		}

		t.committed = e.store.CommitFilter(token, matched)
		debug.LogTiming("filter.Apply", time.Since(start))
		if !t.committed {
			debug.Log("filter generation %d superseded (now %d)", token, e.store.Generation())
		}
	}()

	return t
}
