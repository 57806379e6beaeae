package engine_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

const (
	hydro      domain.HazardCategory = "Hydrometeorological"
	geo        domain.HazardCategory = "Geophysical"
	flood      domain.HazardType     = "Flood"
	typhoon    domain.HazardType     = "Typhoon"
	earthquake domain.HazardType     = "Earthquake"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func square(lon, lat float64) orb.Polygon {
	return orb.Polygon{{{lon, lat}, {lon + 1, lat}, {lon + 1, lat + 1}, {lon, lat + 1}, {lon, lat}}}
}

func testDatasets() domain.Datasets {
	cols := []string{domain.MetricTotalDisasters, string(hydro), string(geo), string(flood), string(typhoon), string(earthquake)}
	return domain.Datasets{
		Disasters: domain.MetricTable{
			Columns: cols,
			Rows: []domain.MetricRow{
				{Region: "NCR", Values: map[string]float64{domain.MetricTotalDisasters: 7, string(hydro): 7, string(geo): 0, string(flood): 5, string(typhoon): 2, string(earthquake): 0}},
				{Region: "CAR", Values: map[string]float64{domain.MetricTotalDisasters: 3, string(hydro): 2, string(geo): 1, string(flood): 1, string(typhoon): 1, string(earthquake): 1}},
				{Region: "Atlantis", Values: map[string]float64{domain.MetricTotalDisasters: 1, string(hydro): 1, string(geo): 0, string(flood): 1, string(typhoon): 0, string(earthquake): 0}},
			},
		},
		PopulationDensity: domain.MetricTable{
			Columns: []string{domain.MetricPopulationDensity},
			Rows: []domain.MetricRow{
				{Region: "NCR", Values: map[string]float64{domain.MetricPopulationDensity: 21765}},
				{Region: "CAR", Values: map[string]float64{domain.MetricPopulationDensity: 90}},
			},
		},
		Scores: []domain.ScoreRow{
			{Region: "PH", ScoreType: domain.AdaptabilityScoreType, Score: 3.2},
			{Region: "NCR", ScoreType: domain.AdaptabilityScoreType, Score: 2.5},
			{Region: "NCR", ScoreType: "Income", Score: 1.9},
			{Region: "NCR", ScoreType: "Health", Score: 0.7},
			{Region: "NCR", ScoreType: "Education", Score: 1.2},
			{Region: "PH", ScoreType: "Income", Score: 2.1},
			{Region: "DUP", ScoreType: domain.AdaptabilityScoreType, Score: 1},
			{Region: "DUP", ScoreType: domain.AdaptabilityScoreType, Score: 2},
		},
		TimeSeries: []domain.TimeSeriesEvent{
			{RegionCode: "PH13", EventStart: date(2020, time.October, 5), HazardType: typhoon, HazardCategory: hydro},
			{RegionCode: "PH13", EventStart: date(2021, time.January, 12), HazardType: flood, HazardCategory: hydro},
			{RegionCode: "PH13", EventStart: date(2019, time.January, 30), HazardType: flood, HazardCategory: hydro},
			{RegionCode: "PH14", EventStart: date(2020, time.February, 3), HazardType: earthquake, HazardCategory: geo},
			{RegionCode: "PH13", EventStart: date(2022, time.December, 25), HazardType: typhoon, HazardCategory: hydro},
			{RegionCode: "PH14", EventStart: date(2021, time.October, 20), HazardType: typhoon, HazardCategory: hydro},
		},
		Beneficiaries: []domain.BeneficiaryRow{
			{Region: "NCR", IncomeClassification: "Low", Percentage: 40},
			{Region: "NCR", IncomeClassification: "High", Percentage: 60},
			{Region: "CAR", IncomeClassification: "Low", Percentage: 70},
		},
		HazardTypeCounts: []domain.HazTypeCountRow{
			{Region: "NCR", HazardType: flood, Count: 5},
			{Region: "NCR", HazardType: typhoon, Count: 2},
			{Region: "CAR", HazardType: flood, Count: 1},
		},
		Boundaries: []domain.RegionBoundary{
			{Region: "NCR", Code: "PH13", Geometry: square(120, 14)},
			{Region: "CAR", Code: "PH14", Geometry: square(120, 16)},
		},
	}
}

func testRegistry(t *testing.T) *domain.Registry {
	t.Helper()
	reg, err := domain.NewRegistry(testDatasets(), domain.RegistryOptions{})
	require.NoError(t, err)
	return reg
}
