package engine

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/paulmach/orb"
)

// Panel names a dashboard chart panel.
type Panel string

const (
	PanelChoropleth    Panel = "choropleth"
	PanelScore         Panel = "score"
	PanelHazardTypes   Panel = "hazard_types"
	PanelBeneficiaries Panel = "beneficiaries"
	PanelMonthlySeries Panel = "monthly_series"
)

// Panels lists every panel in render order.
var Panels = []Panel{PanelChoropleth, PanelScore, PanelHazardTypes, PanelBeneficiaries, PanelMonthlySeries}

// Color scales for the two choropleth modes.
const (
	ColorScaleDisasters         = "Blues"
	ColorScalePopulationDensity = "Oranges"
)

// ValueRange summarizes the mapped values for the color scale domain.
type ValueRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// ChoroplethResult maps each region to the value of the resolved metric.
type ChoroplethResult struct {
	Values      map[domain.Region]float64 `json:"values"`
	MetricLabel string                    `json:"metric_label"`
	ColorScale  string                    `json:"color_scale"`
	Range       *ValueRange               `json:"range,omitempty"`
	// Bounds covers the geometry of every mapped region.
	Bounds *orb.Bound `json:"bounds,omitempty"`
	// Unmapped lists regions with a value but no boundary geometry.
	Unmapped []domain.Region `json:"unmapped,omitempty"`
}

// ScoreKind discriminates the two ScoreResult variants.
type ScoreKind string

const (
	ScoreKindGauge         ScoreKind = "gauge"
	ScoreKindIndicatorBars ScoreKind = "indicatorBars"
)

// ScoreResult is either a *GaugeResult or an *IndicatorBarsResult.
type ScoreResult interface {
	Kind() ScoreKind
	clone() ScoreResult
}

// GaugeResult is the adaptability score of the effective region.
type GaugeResult struct {
	Region domain.Region `json:"region"`
	Value  float64       `json:"value"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
}

// Kind implements ScoreResult.
func (*GaugeResult) Kind() ScoreKind { return ScoreKindGauge }

func (g *GaugeResult) clone() ScoreResult {
	c := *g
	return &c
}

// MarshalJSON adds the kind discriminator.
func (g *GaugeResult) MarshalJSON() ([]byte, error) {
	type alias GaugeResult
	return json.Marshal(struct {
		Kind ScoreKind `json:"kind"`
		*alias
	}{ScoreKindGauge, (*alias)(g)})
}

// IndicatorBar is one indicator score.
type IndicatorBar struct {
	ScoreType string  `json:"score_type"`
	Score     float64 `json:"score"`
}

// IndicatorBarsResult lists the effective region's indicators, ascending by score.
type IndicatorBarsResult struct {
	Region domain.Region  `json:"region"`
	Rows   []IndicatorBar `json:"rows"`
}

// Kind implements ScoreResult.
func (*IndicatorBarsResult) Kind() ScoreKind { return ScoreKindIndicatorBars }

func (r *IndicatorBarsResult) clone() ScoreResult {
	return &IndicatorBarsResult{Region: r.Region, Rows: slices.Clone(r.Rows)}
}

// MarshalJSON adds the kind discriminator.
func (r *IndicatorBarsResult) MarshalJSON() ([]byte, error) {
	type alias IndicatorBarsResult
	return json.Marshal(struct {
		Kind ScoreKind `json:"kind"`
		*alias
	}{ScoreKindIndicatorBars, (*alias)(r)})
}

// GroupField is the category axis of a bar panel.
type GroupField string

const (
	GroupByRegion               GroupField = "Region"
	GroupByHazardType           GroupField = "HazardType"
	GroupByIncomeClassification GroupField = "IncomeClassification"
)

// HazardTypeBarResult ranks disaster counts by region or by hazard type.
type HazardTypeBarResult struct {
	GroupBy GroupField               `json:"group_by"`
	Rows    []domain.HazTypeCountRow `json:"rows"`
}

// BeneficiaryResult breaks beneficiaries down by region or income class.
type BeneficiaryResult struct {
	GroupBy GroupField              `json:"group_by"`
	Rows    []domain.BeneficiaryRow `json:"rows"`
}

// MonthlyPoint is the number of events of one hazard type starting in a month.
type MonthlyPoint struct {
	Month      string            `json:"month"`
	HazardType domain.HazardType `json:"hazard_type"`
	Count      int               `json:"count"`
}

// MonthlySeriesResult is sparse: month and hazard type pairs without events
// are absent, not zero.
type MonthlySeriesResult struct {
	Points []MonthlyPoint `json:"points"`
}

// PanelError is a failed derivation, reported in place of the panel result.
type PanelError struct {
	Panel   Panel  `json:"panel"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	err     error
}

func (e *PanelError) Error() string { return string(e.Panel) + ": " + e.Message }

func (e *PanelError) Unwrap() error { return e.err }

// Error kinds carried by PanelError.
const (
	ErrKindDataShape        = "data_shape"
	ErrKindLookupNotFound   = "lookup_not_found"
	ErrKindDataIntegrity    = "data_integrity"
	ErrKindInvalidSelection = "invalid_selection"
	ErrKindInternal         = "internal"
)

// ErrorKind classifies a derivation error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrDataShape):
		return ErrKindDataShape
	case errors.Is(err, domain.ErrLookupNotFound):
		return ErrKindLookupNotFound
	case errors.Is(err, domain.ErrDataIntegrity):
		return ErrKindDataIntegrity
	case errors.Is(err, domain.ErrInvalidSelection):
		return ErrKindInvalidSelection
	default:
		return ErrKindInternal
	}
}

func newPanelError(panel Panel, err error) *PanelError {
	return &PanelError{Panel: panel, Kind: ErrorKind(err), Message: err.Error(), err: err}
}

// Dashboard holds one result per panel. A failed panel has a nil result and
// an entry in Errors; the other panels are unaffected.
type Dashboard struct {
	Choropleth    *ChoroplethResult    `json:"choropleth,omitempty"`
	Score         ScoreResult          `json:"score,omitempty"`
	HazardTypes   *HazardTypeBarResult `json:"hazard_types,omitempty"`
	Beneficiaries *BeneficiaryResult   `json:"beneficiaries,omitempty"`
	MonthlySeries *MonthlySeriesResult `json:"monthly_series,omitempty"`

	Errors map[Panel]*PanelError `json:"errors,omitempty"`
}

// Err returns the failure of a panel, or nil.
func (d Dashboard) Err(panel Panel) error {
	if e, ok := d.Errors[panel]; ok {
		return e
	}
	return nil
}

// Clone returns a deep copy so callers never share mutable results.
func (d Dashboard) Clone() Dashboard {
	out := Dashboard{}
	if d.Choropleth != nil {
		c := *d.Choropleth
		c.Values = maps.Clone(d.Choropleth.Values)
		c.Unmapped = slices.Clone(d.Choropleth.Unmapped)
		if d.Choropleth.Range != nil {
			r := *d.Choropleth.Range
			c.Range = &r
		}
		if d.Choropleth.Bounds != nil {
			b := *d.Choropleth.Bounds
			c.Bounds = &b
		}
		out.Choropleth = &c
	}
	if d.Score != nil {
		out.Score = d.Score.clone()
	}
	if d.HazardTypes != nil {
		out.HazardTypes = &HazardTypeBarResult{GroupBy: d.HazardTypes.GroupBy, Rows: slices.Clone(d.HazardTypes.Rows)}
	}
	if d.Beneficiaries != nil {
		out.Beneficiaries = &BeneficiaryResult{GroupBy: d.Beneficiaries.GroupBy, Rows: slices.Clone(d.Beneficiaries.Rows)}
	}
	if d.MonthlySeries != nil {
		out.MonthlySeries = &MonthlySeriesResult{Points: slices.Clone(d.MonthlySeries.Points)}
	}
	if d.Errors != nil {
		out.Errors = make(map[Panel]*PanelError, len(d.Errors))
		for k, v := range d.Errors {
			e := *v
			out.Errors[k] = &e
		}
	}
	return out
}
