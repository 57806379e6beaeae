package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveScore_CountryGauge(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveScore(domain.SelectionState{ScoreMode: domain.ScoreAdaptability}, reg)
	require.NoError(t, err)

	gauge, ok := result.(*engine.GaugeResult)
	require.True(t, ok, "expected gauge, got %T", result)
	assert.Equal(t, engine.ScoreKindGauge, result.Kind())
	assert.Equal(t, domain.Region("PH"), gauge.Region)
	assert.InDelta(t, 3.2, gauge.Value, 1e-9)
	assert.InDelta(t, 5.0, gauge.Max, 1e-9)
}

func TestDeriveScore_DefaultModeIsGauge(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveScore(domain.SelectionState{Region: "NCR"}, reg)
	require.NoError(t, err)
	require.IsType(t, &engine.GaugeResult{}, result)
	assert.InDelta(t, 2.5, result.(*engine.GaugeResult).Value, 1e-9)
}

func TestDeriveScore_LookupNotFound(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveScore(domain.SelectionState{Region: "XYZ", ScoreMode: domain.ScoreAdaptability}, reg)
	require.ErrorIs(t, err, domain.ErrLookupNotFound)
	assert.Nil(t, result, "a missing score must not default to zero")
}

func TestDeriveScore_DuplicateRowsAreIntegrityError(t *testing.T) {
	reg := testRegistry(t)

	_, err := engine.DeriveScore(domain.SelectionState{Region: "DUP"}, reg)
	require.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestDeriveScore_IndicatorsAscending(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveScore(domain.SelectionState{Region: "NCR", ScoreMode: domain.ScoreIndicators}, reg)
	require.NoError(t, err)

	bars, ok := result.(*engine.IndicatorBarsResult)
	require.True(t, ok)
	want := []engine.IndicatorBar{
		{ScoreType: "Health", Score: 0.7},
		{ScoreType: "Education", Score: 1.2},
		{ScoreType: "Income", Score: 1.9},
	}
	if diff := cmp.Diff(want, bars.Rows); diff != "" {
		t.Fatalf("indicator mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveScore_IndicatorsEmptyIsNotAnError(t *testing.T) {
	reg := testRegistry(t)

	result, err := engine.DeriveScore(domain.SelectionState{Region: "XYZ", ScoreMode: domain.ScoreIndicators}, reg)
	require.NoError(t, err)
	bars := result.(*engine.IndicatorBarsResult)
	assert.NotNil(t, bars.Rows)
	assert.Empty(t, bars.Rows)
}

func TestDeriveScore_UnknownMode(t *testing.T) {
	reg := testRegistry(t)

	_, err := engine.DeriveScore(domain.SelectionState{ScoreMode: "Radar"}, reg)
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestScoreResult_JSONCarriesKind(t *testing.T) {
	reg := testRegistry(t)

	gauge, err := engine.DeriveScore(domain.SelectionState{}, reg)
	require.NoError(t, err)
	data, err := json.Marshal(gauge)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"gauge","region":"PH","value":3.2,"min":0,"max":5}`, string(data))

	bars, err := engine.DeriveScore(domain.SelectionState{ScoreMode: domain.ScoreIndicators}, reg)
	require.NoError(t, err)
	data, err = json.Marshal(bars)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"indicatorBars","region":"PH","rows":[{"score_type":"Income","score":2.1}]}`, string(data))
}
