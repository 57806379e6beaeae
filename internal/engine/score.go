package engine

import (
	"fmt"
	"sort"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
)

// DeriveScore returns the adaptability gauge or the indicator bars of the
// selected region, or of the whole-country row when no region is selected.
func DeriveScore(state domain.SelectionState, reg *domain.Registry) (ScoreResult, error) {
	state = state.Normalized()

	region := state.Region
	if !region.IsSet() {
		region = reg.CountryRegion()
	}

	switch state.ScoreMode {
	case domain.ScoreAdaptability:
		return adaptabilityGauge(region, reg)
	case domain.ScoreIndicators:
		return indicatorBars(region, reg), nil
	default:
		return nil, fmt.Errorf("%w: unknown score mode %q", domain.ErrInvalidSelection, state.ScoreMode)
	}
}

func adaptabilityGauge(region domain.Region, reg *domain.Registry) (*GaugeResult, error) {
	var matches []domain.ScoreRow
	for _, row := range reg.Scores() {
		if row.Region == region && row.IsAdaptability() {
			matches = append(matches, row)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no %q row for region %q", domain.ErrLookupNotFound, domain.AdaptabilityScoreType, region)
	case 1:
		return &GaugeResult{
			Region: region,
			Value:  matches[0].Score,
			Min:    domain.MinAdaptabilityScore,
			Max:    domain.MaxAdaptabilityScore,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d %q rows for region %q", domain.ErrDataIntegrity, len(matches), domain.AdaptabilityScoreType, region)
	}
}

func indicatorBars(region domain.Region, reg *domain.Registry) *IndicatorBarsResult {
	rows := []IndicatorBar{}
	for _, row := range reg.Scores() {
		if row.Region == region && !row.IsAdaptability() {
			rows = append(rows, IndicatorBar{ScoreType: row.ScoreType, Score: row.Score})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score < rows[j].Score })
	return &IndicatorBarsResult{Region: region, Rows: rows}
}
