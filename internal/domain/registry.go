package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/paulmach/orb"
)

// RegionBoundary is the map geometry of one region. Code is the adm1 code
// used by the time-series dataset, when the geometry carries one.
type RegionBoundary struct {
	Region   Region
	Code     string
	Geometry orb.Geometry
}

// Bound returns the bounding box of the boundary geometry.
func (b RegionBoundary) Bound() orb.Bound {
	if b.Geometry == nil {
		return orb.Bound{}
	}
	return b.Geometry.Bound()
}

// Datasets is the raw input to NewRegistry, as produced by a loader.
type Datasets struct {
	Disasters         MetricTable
	PopulationDensity MetricTable
	Scores            []ScoreRow
	TimeSeries        []TimeSeriesEvent
	Beneficiaries     []BeneficiaryRow
	HazardTypeCounts  []HazTypeCountRow
	Boundaries        []RegionBoundary
}

// RegistryOptions tunes registry construction.
type RegistryOptions struct {
	// CountryRegion is the reserved region of the whole-country score row.
	// Defaults to DefaultCountryRegion.
	CountryRegion Region
}

// Registry holds the immutable, validated datasets shared by every
// derivation. All accessors return data that callers must treat as
// read-only; derivations copy what they return.
type Registry struct {
	disasters         MetricTable
	populationDensity MetricTable
	scores            []ScoreRow
	timeSeries        []TimeSeriesEvent
	beneficiaries     []BeneficiaryRow
	hazardTypeCounts  []HazTypeCountRow

	boundaries    map[Region]RegionBoundary
	regionCodes   map[Region]string
	categories    []HazardCategory
	typesByCat    map[HazardCategory][]HazardType
	countryRegion Region
}

// NewRegistry copies and validates ds. Any missing column, metric or
// reserved row is reported as ErrDataShape.
func NewRegistry(ds Datasets, opts RegistryOptions) (*Registry, error) {
	country := opts.CountryRegion
	if !country.IsSet() {
		country = DefaultCountryRegion
	}

	r := &Registry{
		disasters:         cloneMetricTable(ds.Disasters),
		populationDensity: cloneMetricTable(ds.PopulationDensity),
		scores:            slices.Clone(ds.Scores),
		timeSeries:        slices.Clone(ds.TimeSeries),
		beneficiaries:     slices.Clone(ds.Beneficiaries),
		hazardTypeCounts:  slices.Clone(ds.HazardTypeCounts),
		boundaries:        make(map[Region]RegionBoundary, len(ds.Boundaries)),
		regionCodes:       make(map[Region]string, len(ds.Boundaries)),
		typesByCat:        make(map[HazardCategory][]HazardType),
		countryRegion:     country,
	}

	for _, b := range ds.Boundaries {
		if _, dup := r.boundaries[b.Region]; dup {
			return nil, fmt.Errorf("%w: duplicate boundary for region %q", ErrDataShape, b.Region)
		}
		r.boundaries[b.Region] = b
		if b.Code != "" {
			r.regionCodes[b.Region] = b.Code
		}
	}

	r.indexHazards()

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// indexHazards records every category's hazard types in first-seen order.
func (r *Registry) indexHazards() {
	seen := make(map[HazardCategory]map[HazardType]bool)
	for _, ev := range r.timeSeries {
		types, ok := seen[ev.HazardCategory]
		if !ok {
			types = make(map[HazardType]bool)
			seen[ev.HazardCategory] = types
			r.categories = append(r.categories, ev.HazardCategory)
		}
		if types[ev.HazardType] {
			continue
		}
		types[ev.HazardType] = true
		r.typesByCat[ev.HazardCategory] = append(r.typesByCat[ev.HazardCategory], ev.HazardType)
	}
}

func (r *Registry) validate() error {
	if !r.disasters.HasColumn(MetricTotalDisasters) {
		return fmt.Errorf("%w: disasters dataset has no %q column", ErrDataShape, MetricTotalDisasters)
	}
	if !r.populationDensity.HasColumn(MetricPopulationDensity) {
		return fmt.Errorf("%w: population density dataset has no %q column", ErrDataShape, MetricPopulationDensity)
	}

	// Every category and type the selectors can offer must be a disasters metric.
	var missing []string
	for _, cat := range r.categories {
		if !r.disasters.HasColumn(string(cat)) {
			missing = append(missing, string(cat))
		}
		for _, typ := range r.typesByCat[cat] {
			if !r.disasters.HasColumn(string(typ)) && !slices.Contains(missing, string(typ)) {
				missing = append(missing, string(typ))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: disasters dataset is missing hazard metric columns: %s",
			ErrDataShape, strings.Join(missing, ", "))
	}

	countryRows := 0
	for _, s := range r.scores {
		if !s.IsAdaptability() {
			continue
		}
		if s.Score < MinAdaptabilityScore || s.Score > MaxAdaptabilityScore {
			return fmt.Errorf("%w: adaptability score %.3f for region %q outside [%g, %g]",
				ErrDataShape, s.Score, s.Region, MinAdaptabilityScore, MaxAdaptabilityScore)
		}
		if s.Region == r.countryRegion {
			countryRows++
		}
	}
	if countryRows == 0 {
		return fmt.Errorf("%w: scores dataset has no %q row for country region %q",
			ErrDataShape, AdaptabilityScoreType, r.countryRegion)
	}
	return nil
}

// Disasters returns the per-region disaster metrics table.
func (r *Registry) Disasters() MetricTable { return r.disasters }

// PopulationDensity returns the per-region population-density table.
func (r *Registry) PopulationDensity() MetricTable { return r.populationDensity }

// Scores returns adaptability score and indicator rows.
func (r *Registry) Scores() []ScoreRow { return r.scores }

// TimeSeries returns one row per disaster event.
func (r *Registry) TimeSeries() []TimeSeriesEvent { return r.timeSeries }

// Beneficiaries returns the beneficiary breakdown rows.
func (r *Registry) Beneficiaries() []BeneficiaryRow { return r.beneficiaries }

// HazardTypeCounts returns event counts per region and hazard type.
func (r *Registry) HazardTypeCounts() []HazTypeCountRow { return r.hazardTypeCounts }

// CountryRegion is the reserved whole-country region code.
func (r *Registry) CountryRegion() Region { return r.countryRegion }

// Boundary returns the geometry of a region.
func (r *Registry) Boundary(region Region) (RegionBoundary, bool) {
	b, ok := r.boundaries[region]
	return b, ok
}

// RegionCode maps a region name to the adm1 code of the time-series
// dataset. Regions without a code in the geometry map to their own name.
func (r *Registry) RegionCode(region Region) string {
	if code, ok := r.regionCodes[region]; ok {
		return code
	}
	return string(region)
}

// HazardCategories returns the categories present in the time series, in
// first-seen order.
func (r *Registry) HazardCategories() []HazardCategory {
	return slices.Clone(r.categories)
}

// HazardTypesOf returns the types of a category in first-seen order. The
// result is a fresh, non-nil slice.
func (r *Registry) HazardTypesOf(cat HazardCategory) []HazardType {
	types := r.typesByCat[cat]
	out := make([]HazardType, len(types))
	copy(out, types)
	return out
}

// RowCounts reports the number of rows per dataset, keyed by dataset name.
func (r *Registry) RowCounts() map[string]int {
	return map[string]int{
		"disasters":          len(r.disasters.Rows),
		"population_density": len(r.populationDensity.Rows),
		"scores":             len(r.scores),
		"time_series":        len(r.timeSeries),
		"beneficiaries":      len(r.beneficiaries),
		"hazard_type_counts": len(r.hazardTypeCounts),
		"boundaries":         len(r.boundaries),
	}
}

// Regions returns the sorted distinct regions of the boundary geometry.
func (r *Registry) Regions() []Region {
	return slices.Sorted(maps.Keys(r.boundaries))
}

func cloneMetricTable(t MetricTable) MetricTable {
	out := MetricTable{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]MetricRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = MetricRow{Region: row.Region, Values: maps.Clone(row.Values)}
	}
	return out
}
