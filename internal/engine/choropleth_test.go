package engine_test

import (
	"testing"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveChoropleth_MetricPrecedence(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name   string
		state  domain.SelectionState
		metric string
		scale  string
	}{
		{"no hazard selected", domain.SelectionState{}, domain.MetricTotalDisasters, engine.ColorScaleDisasters},
		{"category only", domain.SelectionState{HazardCategory: hydro}, string(hydro), engine.ColorScaleDisasters},
		{"type overrides category", domain.SelectionState{HazardCategory: hydro, HazardType: flood}, string(flood), engine.ColorScaleDisasters},
		{"type without category", domain.SelectionState{HazardType: typhoon}, string(typhoon), engine.ColorScaleDisasters},
		{
			"population density ignores hazards",
			domain.SelectionState{ChoroplethMode: domain.ChoroplethPopulationDensity, HazardCategory: hydro, HazardType: flood},
			domain.MetricPopulationDensity, engine.ColorScalePopulationDensity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.DeriveChoropleth(tt.state, reg)
			require.NoError(t, err)
			assert.Equal(t, tt.metric, result.MetricLabel)
			assert.Equal(t, tt.scale, result.ColorScale)
		})
	}
}

func TestDeriveChoropleth_AllRegions(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveChoropleth(domain.SelectionState{HazardType: flood}, reg)
	require.NoError(t, err)

	assert.Equal(t, map[domain.Region]float64{"NCR": 5, "CAR": 1, "Atlantis": 1}, result.Values)
	require.NotNil(t, result.Range)
	assert.InDelta(t, 1.0, result.Range.Min, 1e-9)
	assert.InDelta(t, 5.0, result.Range.Max, 1e-9)
	assert.InDelta(t, 7.0/3.0, result.Range.Mean, 1e-9)

	// NCR and CAR squares span lon 120–121, lat 14–17.
	require.NotNil(t, result.Bounds)
	assert.InDelta(t, 120.0, result.Bounds.Min.Lon(), 1e-9)
	assert.InDelta(t, 14.0, result.Bounds.Min.Lat(), 1e-9)
	assert.InDelta(t, 17.0, result.Bounds.Max.Lat(), 1e-9)
	assert.Equal(t, []domain.Region{"Atlantis"}, result.Unmapped)
}

func TestDeriveChoropleth_RegionFilter(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveChoropleth(domain.SelectionState{Region: "NCR", ChoroplethMode: domain.ChoroplethPopulationDensity}, reg)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Region]float64{"NCR": 21765}, result.Values)
	assert.Empty(t, result.Unmapped)
}

func TestDeriveChoropleth_UnknownRegionIsEmpty(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveChoropleth(domain.SelectionState{Region: "XYZ"}, reg)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	assert.NotNil(t, result.Values)
	assert.Nil(t, result.Range)
	assert.Nil(t, result.Bounds)
}

func TestDeriveChoropleth_MissingMetricIsDataShapeError(t *testing.T) {
	reg := testRegistry(t)

	_, err := engine.DeriveChoropleth(domain.SelectionState{HazardType: "Volcano"}, reg)
	require.ErrorIs(t, err, domain.ErrDataShape)
	assert.Contains(t, err.Error(), "Volcano")

	_, err = engine.DeriveChoropleth(domain.SelectionState{HazardCategory: "Biological"}, reg)
	require.ErrorIs(t, err, domain.ErrDataShape)
}

func TestDeriveChoropleth_RegionWithoutValueIsOmitted(t *testing.T) {
	ds := testDatasets()
	delete(ds.Disasters.Rows[1].Values, string(typhoon)) // CAR has no recorded typhoon value
	reg, err := domain.NewRegistry(ds, domain.RegistryOptions{})
	require.NoError(t, err)

	result, err := engine.DeriveChoropleth(domain.SelectionState{HazardType: typhoon}, reg)
	require.NoError(t, err)
	assert.NotContains(t, result.Values, domain.Region("CAR"), "no zero is filled in")
	assert.Equal(t, map[domain.Region]float64{"NCR": 2, "Atlantis": 0}, result.Values)

	result, err = engine.DeriveChoropleth(domain.SelectionState{Region: "CAR", HazardType: typhoon}, reg)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	assert.Nil(t, result.Range)
}

func TestDeriveChoropleth_UnknownMode(t *testing.T) {
	reg := testRegistry(t)

	_, err := engine.DeriveChoropleth(domain.SelectionState{ChoroplethMode: "Rainfall"}, reg)
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
}
