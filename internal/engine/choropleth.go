package engine

import (
	"fmt"
	"sort"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
)

// DeriveChoropleth resolves the map metric for the selection and returns the
// value of that metric for each region in scope.
//
// The metric name is resolved with later rules winning: the mode's base
// metric, then the hazard category (Disasters mode, no hazard type), then the
// hazard type (Disasters mode, regardless of category). Population density
// has no per-hazard breakdown, so hazard selectors never change it.
func DeriveChoropleth(state domain.SelectionState, reg *domain.Registry) (ChoroplethResult, error) {
	state = state.Normalized()

	var (
		table  domain.MetricTable
		metric string
		scale  string
	)
	switch state.ChoroplethMode {
	case domain.ChoroplethDisasters:
		table, metric, scale = reg.Disasters(), domain.MetricTotalDisasters, ColorScaleDisasters
		if state.HazardCategory.IsSet() && !state.HazardType.IsSet() {
			metric = string(state.HazardCategory)
		}
		if state.HazardType.IsSet() {
			metric = string(state.HazardType)
		}
	case domain.ChoroplethPopulationDensity:
		table, metric, scale = reg.PopulationDensity(), domain.MetricPopulationDensity, ColorScalePopulationDensity
	default:
		return ChoroplethResult{}, fmt.Errorf("%w: unknown choropleth mode %q", domain.ErrInvalidSelection, state.ChoroplethMode)
	}

	if !table.HasColumn(metric) {
		return ChoroplethResult{}, fmt.Errorf("%w: metric %q is not a column of the %s table",
			domain.ErrDataShape, metric, state.ChoroplethMode)
	}

	result := ChoroplethResult{
		Values:      make(map[domain.Region]float64),
		MetricLabel: metric,
		ColorScale:  scale,
	}
	for _, row := range table.Rows {
		if state.Region.IsSet() && row.Region != state.Region {
			continue
		}
		// Regions without a recorded value stay off the map.
		if v, ok := row.Values[metric]; ok {
			result.Values[row.Region] = v
		}
	}

	result.Range = valueRange(result.Values)
	result.Bounds, result.Unmapped = regionBounds(result.Values, reg)
	return result, nil
}

func valueRange(values map[domain.Region]float64) *ValueRange {
	if len(values) == 0 {
		return nil
	}
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		data = append(data, v)
	}
	lo, _ := data.Min()
	hi, _ := data.Max()
	mean, _ := data.Mean()
	return &ValueRange{Min: lo, Max: hi, Mean: mean}
}

// regionBounds unions the boundary boxes of the mapped regions and lists the
// regions that have no geometry.
func regionBounds(values map[domain.Region]float64, reg *domain.Registry) (*orb.Bound, []domain.Region) {
	var (
		bound    orb.Bound
		found    bool
		unmapped []domain.Region
	)
	for region := range values {
		b, ok := reg.Boundary(region)
		if !ok || b.Geometry == nil {
			unmapped = append(unmapped, region)
			continue
		}
		if !found {
			bound, found = b.Bound(), true
			continue
		}
		bound = bound.Union(b.Bound())
	}
	sort.Slice(unmapped, func(i, j int) bool { return unmapped[i] < unmapped[j] })
	if !found {
		return nil, unmapped
	}
	return &bound, unmapped
}
