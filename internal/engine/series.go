package engine

import (
	"sort"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
)

// monthNames maps a calendar month index (1–12) to its display name.
var monthNames = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DeriveMonthlySeries counts events per (start month, hazard type) for the
// selected region and hazard type. The hazard category is not a filter here:
// the series follows the narrower region/type selection while the
// choropleth follows the category. Use an Engine with
// Options.FilterSeriesByCategory to apply it.
func DeriveMonthlySeries(state domain.SelectionState, reg *domain.Registry) (MonthlySeriesResult, error) {
	return monthlySeries(state, reg, false), nil
}

type monthKey struct {
	month      time.Month
	hazardType domain.HazardType
}

func monthlySeries(state domain.SelectionState, reg *domain.Registry, byCategory bool) MonthlySeriesResult {
	var code string
	if state.Region.IsSet() {
		code = reg.RegionCode(state.Region)
	}

	counts := make(map[monthKey]int)
	for _, ev := range reg.TimeSeries() {
		if state.Region.IsSet() && ev.RegionCode != code {
			continue
		}
		if state.HazardType.IsSet() && ev.HazardType != state.HazardType {
			continue
		}
		if byCategory && state.HazardCategory.IsSet() && ev.HazardCategory != state.HazardCategory {
			continue
		}
		counts[monthKey{month: ev.EventStart.Month(), hazardType: ev.HazardType}]++
	}

	keys := make([]monthKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	// Sort on the numeric month; names are projected only afterwards.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].hazardType < keys[j].hazardType
	})

	points := make([]MonthlyPoint, len(keys))
	for i, k := range keys {
		points[i] = MonthlyPoint{Month: monthNames[k.month], HazardType: k.hazardType, Count: counts[k]}
	}
	return MonthlySeriesResult{Points: points}
}
