package domain

import (
	"fmt"
	"strings"
	"time"
)

// Region is a first-level administrative area name, the join key shared by
// every dataset and the boundary geometry. The empty Region means "no region
// selected".
type Region string

// IsSet reports whether a region was selected.
func (r Region) IsSet() bool { return r != "" }

// HazardCategory is a coarse grouping of hazard types, e.g. "Hydrometeorological".
type HazardCategory string

// IsSet reports whether a category was selected.
func (c HazardCategory) IsSet() bool { return c != "" }

// HazardType is a specific hazard, e.g. "Flood", nested under one category.
type HazardType string

// IsSet reports whether a hazard type was selected.
func (t HazardType) IsSet() bool { return t != "" }

// Column and value names used by the source datasets.
const (
	ColRegion               = "Region"
	ColHazardCategory       = "Hazard Category"
	ColHazardType           = "Hazard Type"
	ColScoreType            = "Score Type"
	ColScore                = "Score"
	ColCount                = "Count"
	ColPercentage           = "Percentage"
	ColIncomeClassification = "Income Classification"
	ColEventStart           = "Date of Event (start)"
	ColRegionCode           = "adm1 code"

	MetricTotalDisasters    = "Total Disasters"
	MetricPopulationDensity = "Population Density"

	// AdaptabilityScoreType is the composite 0–5 score; every other score
	// type in the scores table is an indicator.
	AdaptabilityScoreType = "Adaptability Score"

	MinAdaptabilityScore = 0.0
	MaxAdaptabilityScore = 5.0

	// DefaultCountryRegion is the reserved region code of the whole-country
	// aggregate row in the scores table.
	DefaultCountryRegion Region = "PH"
)

// MetricRow is one region's numeric metrics keyed by column name. A metric
// with no recorded value is absent from Values.
type MetricRow struct {
	Region Region             `json:"region"`
	Values map[string]float64 `json:"values"`
}

// MetricTable is a region-by-metric table such as the disasters or the
// population-density dataset. Columns lists the numeric metric columns in
// header order.
type MetricTable struct {
	Columns []string    `json:"columns"`
	Rows    []MetricRow `json:"rows"`
}

// HasColumn reports whether name is one of the table's metric columns.
func (t MetricTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ScoreRow is an adaptability score or indicator value for one region.
type ScoreRow struct {
	Region    Region  `json:"region"`
	ScoreType string  `json:"score_type"`
	Score     float64 `json:"score"`
}

// IsAdaptability reports whether the row holds the composite adaptability score.
func (r ScoreRow) IsAdaptability() bool { return r.ScoreType == AdaptabilityScoreType }

// HazTypeCountRow counts disaster events of one hazard type in a region.
type HazTypeCountRow struct {
	Region     Region     `json:"region"`
	HazardType HazardType `json:"hazard_type"`
	Count      int        `json:"count"`
}

// BeneficiaryRow is the share of beneficiaries in one income class of a region.
type BeneficiaryRow struct {
	Region               Region  `json:"region"`
	IncomeClassification string  `json:"income_classification"`
	Percentage           float64 `json:"percentage"`
}

// TimeSeriesEvent is a single disaster event. RegionCode is the adm1 code,
// not the region name.
type TimeSeriesEvent struct {
	RegionCode     string         `json:"region_code"`
	EventStart     time.Time      `json:"event_start"`
	HazardType     HazardType     `json:"hazard_type"`
	HazardCategory HazardCategory `json:"hazard_category"`
}

// ChoroplethMode selects the dataset driving the map.
type ChoroplethMode string

const (
	ChoroplethDisasters         ChoroplethMode = "Disasters"
	ChoroplethPopulationDensity ChoroplethMode = "PopulationDensity"
)

// ParseChoroplethMode accepts the mode names and their radio-button labels.
// An empty string yields the default Disasters mode.
func ParseChoroplethMode(s string) (ChoroplethMode, error) {
	switch strings.ReplaceAll(strings.TrimSpace(s), " ", "") {
	case "", string(ChoroplethDisasters):
		return ChoroplethDisasters, nil
	case string(ChoroplethPopulationDensity):
		return ChoroplethPopulationDensity, nil
	default:
		return "", fmt.Errorf("%w: unknown choropleth mode %q", ErrInvalidSelection, s)
	}
}

// ScoreMode selects between the adaptability gauge and the indicator bars.
type ScoreMode string

const (
	ScoreAdaptability ScoreMode = "AdaptabilityScore"
	ScoreIndicators   ScoreMode = "Indicators"
)

// ParseScoreMode accepts the mode names and their spaced labels. An empty
// string yields the default AdaptabilityScore mode.
func ParseScoreMode(s string) (ScoreMode, error) {
	switch strings.ReplaceAll(strings.TrimSpace(s), " ", "") {
	case "", string(ScoreAdaptability):
		return ScoreAdaptability, nil
	case string(ScoreIndicators):
		return ScoreIndicators, nil
	default:
		return "", fmt.Errorf("%w: unknown score mode %q", ErrInvalidSelection, s)
	}
}

// SelectionState is the current value of every dashboard selector. Zero
// values mean "unset"; unset modes fall back to their defaults.
type SelectionState struct {
	Region         Region         `json:"region,omitempty"`
	HazardCategory HazardCategory `json:"hazard_category,omitempty"`
	HazardType     HazardType     `json:"hazard_type,omitempty"`
	ChoroplethMode ChoroplethMode `json:"choropleth_mode,omitempty"`
	ScoreMode      ScoreMode      `json:"score_mode,omitempty"`
}

// Normalized returns a copy with unset modes replaced by their defaults.
func (s SelectionState) Normalized() SelectionState {
	if s.ChoroplethMode == "" {
		s.ChoroplethMode = ChoroplethDisasters
	}
	if s.ScoreMode == "" {
		s.ScoreMode = ScoreAdaptability
	}
	return s
}

// Key is a stable identity for a settled state, used for view caching.
func (s SelectionState) Key() string {
	n := s.Normalized()
	return strings.Join([]string{
		string(n.Region), string(n.HazardCategory), string(n.HazardType),
		string(n.ChoroplethMode), string(n.ScoreMode),
	}, "\x1f")
}
