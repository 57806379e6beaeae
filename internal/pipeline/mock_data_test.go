package pipeline_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/couchcryptid/hazard-dashboard/internal/pipeline"
	"github.com/couchcryptid/hazard-dashboard/internal/selection"
	"github.com/stretchr/testify/require"
)

// mockDatasets is a two-region slice of the dashboard data.
func mockDatasets() domain.Datasets {
	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	row := func(region domain.Region, total, hydro, geo, flood, typhoon, quake float64) domain.MetricRow {
		return domain.MetricRow{Region: region, Values: map[string]float64{
			domain.MetricTotalDisasters: total,
			"Hydrometeorological":       hydro,
			"Geophysical":               geo,
			"Flood":                     flood,
			"Typhoon":                   typhoon,
			"Earthquake":                quake,
		}}
	}

	return domain.Datasets{
		Disasters: domain.MetricTable{
			Columns: []string{domain.MetricTotalDisasters, "Hydrometeorological", "Geophysical", "Flood", "Typhoon", "Earthquake"},
			Rows: []domain.MetricRow{
				row("NCR", 9, 8, 1, 5, 3, 1),
				row("CAR", 4, 2, 2, 1, 1, 2),
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
			{Region: "PH", ScoreType: domain.AdaptabilityScoreType, Score: 3.1},
			{Region: "NCR", ScoreType: domain.AdaptabilityScoreType, Score: 2.4},
			{Region: "NCR", ScoreType: "Income", Score: 1.5},
		},
		TimeSeries: []domain.TimeSeriesEvent{
			{RegionCode: "PH13", EventStart: at(2020, time.July, 1), HazardType: "Flood", HazardCategory: "Hydrometeorological"},
			{RegionCode: "PH13", EventStart: at(2021, time.July, 9), HazardType: "Typhoon", HazardCategory: "Hydrometeorological"},
			{RegionCode: "PH14", EventStart: at(2019, time.March, 4), HazardType: "Earthquake", HazardCategory: "Geophysical"},
		},
		Beneficiaries: []domain.BeneficiaryRow{
			{Region: "NCR", IncomeClassification: "Low", Percentage: 35},
			{Region: "NCR", IncomeClassification: "High", Percentage: 65},
		},
		HazardTypeCounts: []domain.HazTypeCountRow{
			{Region: "NCR", HazardType: "Flood", Count: 5},
			{Region: "CAR", HazardType: "Earthquake", Count: 2},
		},
	}
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	reg, err := domain.NewRegistry(mockDatasets(), domain.RegistryOptions{})
	require.NoError(t, err)
	return engine.New(reg, engine.Options{}, nil)
}

func newTestTransformer(t *testing.T) *pipeline.SelectionTransformer {
	t.Helper()
	eng := newTestEngine(t)
	cached, err := engine.NewCachedDeriver(eng, 16, nil)
	require.NoError(t, err)
	return pipeline.NewTransformer(selection.NewSessions(eng), cached, newTestMetrics(), discardLogger())
}

func makeMessage(t *testing.T, offset int64, u selection.Update) pipeline.Message {
	t.Helper()
	data, err := json.Marshal(u)
	require.NoError(t, err)
	return pipeline.Message{
		Key:    []byte(u.SessionID),
		Value:  data,
		Topic:  "dashboard-selections",
		Offset: offset,
	}
}
