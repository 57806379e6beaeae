package engine

import (
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/google/uuid"
)

// View is everything the rendering shell needs to redraw one session after a
// selection change.
type View struct {
	ID        string                `json:"id"`
	SessionID string                `json:"session_id"`
	State     domain.SelectionState `json:"state"`
	// HazardTypeOptions are the selectable types under the state's category.
	HazardTypeOptions []domain.HazardType `json:"hazard_type_options"`
	// HazardTypeReset is true when the last update cleared a stale hazard type.
	HazardTypeReset bool      `json:"hazard_type_reset,omitempty"`
	Dashboard       Dashboard `json:"dashboard"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// NewView stamps a dashboard with a fresh ID and the engine clock.
func NewView(sessionID string, state domain.SelectionState, options []domain.HazardType, reset bool, dash Dashboard) View {
	if options == nil {
		options = []domain.HazardType{}
	}
	return View{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		State:             state.Normalized(),
		HazardTypeOptions: options,
		HazardTypeReset:   reset,
		Dashboard:         dash,
		GeneratedAt:       clock.Now().UTC(),
	}
}
