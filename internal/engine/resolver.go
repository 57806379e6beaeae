package engine

import (
	"sort"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
)

// ResolveHazardTypes returns the hazard types selectable under a category,
// in first-seen order of the time series. An unset or unknown category
// yields an empty, non-nil slice.
func ResolveHazardTypes(reg *domain.Registry, category domain.HazardCategory) []domain.HazardType {
	if !category.IsSet() {
		return []domain.HazardType{}
	}
	return reg.HazardTypesOf(category)
}

// RegionOptions returns the sorted distinct regions of the disasters table.
func RegionOptions(reg *domain.Registry) []domain.Region {
	seen := make(map[domain.Region]bool)
	out := []domain.Region{}
	for _, row := range reg.Disasters().Rows {
		if seen[row.Region] {
			continue
		}
		seen[row.Region] = true
		out = append(out, row.Region)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HazardCategoryOptions returns the sorted distinct categories of the time series.
func HazardCategoryOptions(reg *domain.Registry) []domain.HazardCategory {
	out := reg.HazardCategories()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
