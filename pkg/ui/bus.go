package ui

import (
	"context"
	"errors"

	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/filter"
	"github.com/mvdleeuw/geoscope/pkg/store"
)

// FocusRequest asks the dashboard to narrow onto a region or a single record
// and land on the map showing the result. Exactly one of the two fields is
// set; Record wins when both are.
type FocusRequest struct {
	Region string
	Record string
}

// PendingFocus is an in-flight focus request: the filter has been issued but
// the map has not been framed yet. Complete finishes it once the task is
// done.
type PendingFocus struct {
	Request FocusRequest
	Task    *filter.Task
}

// FocusOutcome is the result of completing a focus request.
type FocusOutcome int

const (
	// FocusFailed means the filter errored; nothing changed.
	FocusFailed FocusOutcome = iota
	// FocusSuperseded means a later filter overtook this one; the framing
	// step was dropped silently.
	FocusSuperseded
	// FocusApplied means the map is live and framed on the focus target.
	FocusApplied
)

// FocusBus carries focus requests between views. Publishing mutates the
// shared filter criteria and issues the filter; Complete runs the remaining
// steps in their fixed order once the filter task has finished: switch the
// map in, then frame the focus subset. The framing step re-checks the
// generation token so a filter issued mid-flight wins.
type FocusBus struct {
	store    *store.Store
	engine   *filter.Engine
	ctrl     *Controller
	criteria func() filter.Criteria
	update   func(filter.Criteria)
}

// NewFocusBus wires the bus. The criteria accessors bind it to whoever owns
// the authoritative criteria (the root model), keeping the bus free of any
// widget knowledge.
func NewFocusBus(s *store.Store, e *filter.Engine, ctrl *Controller, criteria func() filter.Criteria, update func(filter.Criteria)) *FocusBus {
	return &FocusBus{store: s, engine: e, ctrl: ctrl, criteria: criteria, update: update}
}

// Publish mutates the filter criteria per the request and issues the filter.
// It returns immediately; the caller awaits Task completion and then calls
// Complete. The generation token inside the returned task is already claimed,
// so any filter issued after this call supersedes the focus.
func (b *FocusBus) Publish(req FocusRequest) *PendingFocus {
	crit := b.criteria()
	if req.Record != "" {
		crit.Name = req.Record
	} else {
		crit.Region = req.Region
	}
	b.update(crit)

	debug.Log("focus published: region=%q record=%q", req.Region, req.Record)
	return &PendingFocus{
		Request: req,
		Task:    b.engine.Apply(context.Background(), crit),
	}
}

// Complete finishes a focus request whose filter task is done. The map is
// switched in only for a committed filter; the viewport framing additionally
// re-checks that no later filter was issued in between, aborting silently
// when one was.
func (b *FocusBus) Complete(p *PendingFocus) (FocusOutcome, error) {
	if err := p.Task.Wait(); err != nil {
		return FocusFailed, err
	}
	if !p.Task.Committed() {
		return FocusSuperseded, nil
	}

	b.ctrl.SwitchTo(store.ViewMap)

	if b.store.Generation() != p.Task.Token {
		debug.Log("focus framing superseded (token %d, now %d)", p.Task.Token, b.store.Generation())
		return FocusSuperseded, nil
	}

	ma, ok := b.ctrl.MapAdapter()
	if !ok {
		return FocusFailed, errors.New("map view unavailable")
	}

	snap := b.store.Snapshot()
	if p.Request.Record != "" {
		ma.FocusRecord(p.Request.Record, snap)
	} else {
		ma.FocusRegion(p.Request.Region, snap)
	}
	return FocusApplied, nil
}
