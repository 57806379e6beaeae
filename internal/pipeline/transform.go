package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/couchcryptid/hazard-dashboard/internal/observability"
	"github.com/couchcryptid/hazard-dashboard/internal/selection"
)

// SelectionTransformer implements Transformer: it applies the update to its
// session, then derives the dashboard for the settled state.
type SelectionTransformer struct {
	sessions *selection.Sessions
	deriver  engine.Deriver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a SelectionTransformer.
func NewTransformer(sessions *selection.Sessions, deriver engine.Deriver, metrics *observability.Metrics, logger *slog.Logger) *SelectionTransformer {
	return &SelectionTransformer{
		sessions: sessions,
		deriver:  deriver,
		metrics:  metrics,
		logger:   logger,
	}
}

func (t *SelectionTransformer) Transform(_ context.Context, msg Message) (engine.View, error) {
	u, err := selection.ParseUpdate(msg.Value)
	if err != nil {
		return engine.View{}, err
	}
	// Producers may key by session instead of embedding it.
	if u.SessionID == "" {
		u.SessionID = string(msg.Key)
	}

	settled, err := t.sessions.Apply(u)
	if err != nil {
		return engine.View{}, err
	}
	t.metrics.ActiveSessions.Set(float64(t.sessions.Len()))
	if settled.HazardTypeReset {
		t.metrics.HazardTypeResets.Inc()
		t.logger.Debug("hazard type cleared after category change",
			"session_id", u.SessionID, "hazard_category", settled.State.HazardCategory)
	}

	dash := t.deriver.Derive(settled.State)
	for panel, perr := range dash.Errors {
		t.logger.Debug("panel unavailable", "session_id", u.SessionID, "panel", panel, "kind", perr.Kind, "error", perr.Message)
	}
	return engine.NewView(u.SessionID, settled.State, settled.HazardTypeOptions, settled.HazardTypeReset, dash), nil
}
