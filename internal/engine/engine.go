// Package engine derives the per-panel views of the hazard dashboard from a
// selection state and the dataset registry. Every derivation is a pure
// function of its inputs and returns a freshly allocated result.
package engine

import (
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Observer is notified after each panel derivation. errKind is empty on success.
type Observer interface {
	ObserveDerivation(panel string, seconds float64, errKind string)
}

// Options tunes derivations that have more than one defensible behavior.
type Options struct {
	// FilterSeriesByCategory additionally restricts the monthly series to the
	// selected hazard category.
	FilterSeriesByCategory bool
}

// Engine evaluates every panel against one registry.
type Engine struct {
	reg      *domain.Registry
	opts     Options
	observer Observer
}

// New creates an Engine. A nil observer disables derivation callbacks.
func New(reg *domain.Registry, opts Options, observer Observer) *Engine {
	return &Engine{reg: reg, opts: opts, observer: observer}
}

// Registry returns the datasets the engine reads.
func (e *Engine) Registry() *domain.Registry { return e.reg }

// ResolveHazardTypes implements the selection package's resolver contract.
func (e *Engine) ResolveHazardTypes(category domain.HazardCategory) []domain.HazardType {
	return ResolveHazardTypes(e.reg, category)
}

// Choropleth derives the map panel.
func (e *Engine) Choropleth(state domain.SelectionState) (ChoroplethResult, error) {
	return DeriveChoropleth(state, e.reg)
}

// Score derives the adaptability gauge or indicator panel.
func (e *Engine) Score(state domain.SelectionState) (ScoreResult, error) {
	return DeriveScore(state, e.reg)
}

// HazardTypes derives the hazard-type ranking panel.
func (e *Engine) HazardTypes(state domain.SelectionState) (HazardTypeBarResult, error) {
	return DeriveHazardTypeBar(state, e.reg)
}

// Beneficiaries derives the beneficiary breakdown panel.
func (e *Engine) Beneficiaries(state domain.SelectionState) (BeneficiaryResult, error) {
	return DeriveBeneficiaries(state, e.reg)
}

// MonthlySeries derives the monthly hazard time-series panel.
func (e *Engine) MonthlySeries(state domain.SelectionState) (MonthlySeriesResult, error) {
	return monthlySeries(state, e.reg, e.opts.FilterSeriesByCategory), nil
}

// Derive evaluates all panels concurrently. The state must already be
// settled: a hazard type outside the category's options is not cleared here.
// A failing panel is reported in Dashboard.Errors without affecting the others.
func (e *Engine) Derive(state domain.SelectionState) Dashboard {
	var (
		dash Dashboard
		errs [5]error
		g    errgroup.Group
	)

	g.Go(func() error {
		r, err := observe(e, PanelChoropleth, func() (ChoroplethResult, error) { return e.Choropleth(state) })
		if err == nil {
			dash.Choropleth = &r
		}
		errs[0] = err
		return nil
	})
	g.Go(func() error {
		r, err := observe(e, PanelScore, func() (ScoreResult, error) { return e.Score(state) })
		if err == nil {
			dash.Score = r
		}
		errs[1] = err
		return nil
	})
	g.Go(func() error {
		r, err := observe(e, PanelHazardTypes, func() (HazardTypeBarResult, error) { return e.HazardTypes(state) })
		if err == nil {
			dash.HazardTypes = &r
		}
		errs[2] = err
		return nil
	})
	g.Go(func() error {
		r, err := observe(e, PanelBeneficiaries, func() (BeneficiaryResult, error) { return e.Beneficiaries(state) })
		if err == nil {
			dash.Beneficiaries = &r
		}
		errs[3] = err
		return nil
	})
	g.Go(func() error {
		r, err := observe(e, PanelMonthlySeries, func() (MonthlySeriesResult, error) { return e.MonthlySeries(state) })
		if err == nil {
			dash.MonthlySeries = &r
		}
		errs[4] = err
		return nil
	})
	_ = g.Wait() // panels report failures through errs

	for i, err := range errs {
		if err == nil {
			continue
		}
		if dash.Errors == nil {
			dash.Errors = make(map[Panel]*PanelError)
		}
		dash.Errors[Panels[i]] = newPanelError(Panels[i], err)
	}
	return dash
}

func observe[T any](e *Engine, panel Panel, derive func() (T, error)) (T, error) {
	start := clock.Now()
	r, err := derive()
	if e.observer != nil {
		kind := ""
		if err != nil {
			kind = ErrorKind(err)
		}
		e.observer.ObserveDerivation(string(panel), clock.Since(start).Seconds(), kind)
	}
	return r, err
}
