package engine_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]string
}

func (o *recordingObserver) ObserveDerivation(panel string, _ float64, errKind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[string]string)
	}
	o.calls[panel] = errKind
}

func TestEngine_Derive_AllPanels(t *testing.T) {
	obs := &recordingObserver{}
	eng := engine.New(testRegistry(t), engine.Options{}, obs)

	dash := eng.Derive(domain.SelectionState{Region: "NCR", HazardCategory: hydro, HazardType: flood})

	assert.Empty(t, dash.Errors)
	require.NotNil(t, dash.Choropleth)
	assert.Equal(t, string(flood), dash.Choropleth.MetricLabel)
	assert.Equal(t, map[domain.Region]float64{"NCR": 5}, dash.Choropleth.Values)
	require.NotNil(t, dash.Score)
	assert.Equal(t, engine.ScoreKindGauge, dash.Score.Kind())
	require.NotNil(t, dash.HazardTypes)
	assert.Len(t, dash.HazardTypes.Rows, 1)
	require.NotNil(t, dash.Beneficiaries)
	assert.Len(t, dash.Beneficiaries.Rows, 2)
	require.NotNil(t, dash.MonthlySeries)
	assert.Equal(t, []engine.MonthlyPoint{{Month: "January", HazardType: flood, Count: 2}}, dash.MonthlySeries.Points)

	assert.Len(t, obs.calls, len(engine.Panels))
	for _, p := range engine.Panels {
		assert.Empty(t, obs.calls[string(p)], "panel %s", p)
	}
}

func TestEngine_Derive_FailuresAreIsolated(t *testing.T) {
	obs := &recordingObserver{}
	eng := engine.New(testRegistry(t), engine.Options{}, obs)

	dash := eng.Derive(domain.SelectionState{Region: "XYZ"})

	require.Len(t, dash.Errors, 1)
	err := dash.Err(engine.PanelScore)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLookupNotFound)

	var panelErr *engine.PanelError
	require.True(t, errors.As(err, &panelErr))
	assert.Equal(t, engine.ErrKindLookupNotFound, panelErr.Kind)
	assert.Equal(t, engine.ErrKindLookupNotFound, obs.calls[string(engine.PanelScore)])

	assert.Nil(t, dash.Score)
	require.NotNil(t, dash.Choropleth)
	assert.Empty(t, dash.Choropleth.Values)
	require.NotNil(t, dash.HazardTypes)
	assert.Empty(t, dash.HazardTypes.Rows)
	require.NotNil(t, dash.MonthlySeries)
	assert.Empty(t, dash.MonthlySeries.Points)
	assert.NoError(t, dash.Err(engine.PanelChoropleth))
}

func TestEngine_Derive_DataShapeErrorOnChoroplethOnly(t *testing.T) {
	eng := engine.New(testRegistry(t), engine.Options{}, nil)

	dash := eng.Derive(domain.SelectionState{HazardType: "Volcano"})

	require.Len(t, dash.Errors, 1)
	assert.Equal(t, engine.ErrKindDataShape, dash.Errors[engine.PanelChoropleth].Kind)
	assert.Nil(t, dash.Choropleth)
	assert.NotNil(t, dash.Score)
}

func TestEngine_Derive_RegionFilterMonotonic(t *testing.T) {
	reg := testRegistry(t)
	eng := engine.New(reg, engine.Options{}, nil)

	sizes := func(d engine.Dashboard) []int {
		return []int{
			len(d.Choropleth.Values),
			len(d.HazardTypes.Rows),
			len(d.Beneficiaries.Rows),
			len(d.MonthlySeries.Points),
		}
	}

	for _, base := range []domain.SelectionState{
		{},
		{HazardType: flood},
		{HazardCategory: hydro, ChoroplethMode: domain.ChoroplethPopulationDensity},
	} {
		unfiltered := sizes(eng.Derive(base))
		for _, region := range append(engine.RegionOptions(reg), "XYZ") {
			state := base
			state.Region = region
			filtered := sizes(eng.Derive(state))
			for i := range filtered {
				assert.LessOrEqual(t, filtered[i], unfiltered[i], "region %s, base %+v, panel %d", region, base, i)
			}
		}
	}
}

func TestDashboard_JSON(t *testing.T) {
	eng := engine.New(testRegistry(t), engine.Options{}, nil)

	data, err := json.Marshal(eng.Derive(domain.SelectionState{Region: "XYZ"}))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "score")
	assert.Contains(t, decoded, "choropleth")
	assert.Contains(t, string(decoded["errors"]), `"kind":"lookup_not_found"`)
}

func TestDashboard_CloneIsDeep(t *testing.T) {
	eng := engine.New(testRegistry(t), engine.Options{}, nil)
	dash := eng.Derive(domain.SelectionState{ScoreMode: domain.ScoreIndicators})

	clone := dash.Clone()
	clone.Choropleth.Values["NCR"] = -1
	clone.HazardTypes.Rows[0].Count = -1
	clone.MonthlySeries.Points[0].Count = -1

	assert.InDelta(t, 7.0, dash.Choropleth.Values["NCR"], 1e-9)
	assert.Equal(t, 5, dash.HazardTypes.Rows[0].Count)
	assert.Equal(t, 2, dash.MonthlySeries.Points[0].Count)
}

func TestNewView(t *testing.T) {
	fixed := time.Date(2024, time.June, 1, 8, 30, 0, 0, time.UTC)
	engine.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { engine.SetClock(nil) })

	view := engine.NewView("session-1", domain.SelectionState{HazardCategory: hydro}, nil, true, engine.Dashboard{})

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "session-1", view.SessionID)
	assert.Equal(t, fixed, view.GeneratedAt)
	assert.Equal(t, domain.ChoroplethDisasters, view.State.ChoroplethMode)
	assert.NotNil(t, view.HazardTypeOptions)
	assert.True(t, view.HazardTypeReset)

	other := engine.NewView("session-1", domain.SelectionState{}, nil, false, engine.Dashboard{})
	assert.NotEqual(t, view.ID, other.ID)
}
