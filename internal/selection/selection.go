// Package selection owns dashboard selection state. Every field write is
// followed by hazard-type resolution, so a state handed to the engine never
// carries a hazard type outside its category.
package selection

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
)

// Resolver lists the hazard types selectable under a category.
type Resolver interface {
	ResolveHazardTypes(category domain.HazardCategory) []domain.HazardType
}

// Field names a selector.
type Field string

const (
	FieldRegion         Field = "region"
	FieldHazardCategory Field = "hazard_category"
	FieldHazardType     Field = "hazard_type"
	FieldChoroplethMode Field = "choropleth_mode"
	FieldScoreMode      Field = "score_mode"
)

// Update is a single selector change. An empty Value clears the field.
type Update struct {
	SessionID string `json:"session_id"`
	Field     Field  `json:"field"`
	Value     string `json:"value"`
}

// ParseUpdate decodes a JSON selection update and checks its field name.
func ParseUpdate(data []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return Update{}, fmt.Errorf("parse selection update: %w", err)
	}
	u.Field = Field(strings.TrimSpace(string(u.Field)))
	switch u.Field {
	case FieldRegion, FieldHazardCategory, FieldHazardType, FieldChoroplethMode, FieldScoreMode:
	default:
		return Update{}, fmt.Errorf("%w: unknown selection field %q", domain.ErrInvalidSelection, u.Field)
	}
	return u, nil
}

// Settled is a selection state after hazard-type resolution.
type Settled struct {
	State             domain.SelectionState
	HazardTypeOptions []domain.HazardType
	// HazardTypeReset reports that resolution cleared a stale hazard type.
	HazardTypeReset bool
}

// Settle resolves the hazard-type options of state's category and clears a
// hazard type that is not among them.
func Settle(state domain.SelectionState, resolver Resolver) Settled {
	state = state.Normalized()
	options := resolver.ResolveHazardTypes(state.HazardCategory)

	reset := false
	if state.HazardType.IsSet() && !slices.Contains(options, state.HazardType) {
		state.HazardType = ""
		reset = true
	}
	return Settled{State: state, HazardTypeOptions: options, HazardTypeReset: reset}
}

// Controller serializes updates to one selection state. Concurrent writes are
// last-write-wins per field; resolution re-runs after each write.
type Controller struct {
	mu       sync.Mutex
	resolver Resolver
	current  Settled
}

// NewController starts from an all-unset state.
func NewController(resolver Resolver) *Controller {
	return &Controller{
		resolver: resolver,
		current:  Settle(domain.SelectionState{}, resolver),
	}
}

// Current returns the settled state.
func (c *Controller) Current() Settled {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Apply writes one field and settles the result. An invalid mode value is
// rejected and leaves the state untouched.
func (c *Controller) Apply(u Update) (Settled, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.State
	value := strings.TrimSpace(u.Value)
	switch u.Field {
	case FieldRegion:
		next.Region = domain.Region(value)
	case FieldHazardCategory:
		next.HazardCategory = domain.HazardCategory(value)
	case FieldHazardType:
		next.HazardType = domain.HazardType(value)
	case FieldChoroplethMode:
		mode, err := domain.ParseChoroplethMode(value)
		if err != nil {
			return c.current, err
		}
		next.ChoroplethMode = mode
	case FieldScoreMode:
		mode, err := domain.ParseScoreMode(value)
		if err != nil {
			return c.current, err
		}
		next.ScoreMode = mode
	default:
		return c.current, fmt.Errorf("%w: unknown selection field %q", domain.ErrInvalidSelection, u.Field)
	}

	c.current = Settle(next, c.resolver)
	return c.current, nil
}

// Sessions keeps one Controller per session ID.
type Sessions struct {
	mu          sync.Mutex
	resolver    Resolver
	controllers map[string]*Controller
}

// NewSessions creates an empty session set.
func NewSessions(resolver Resolver) *Sessions {
	return &Sessions{resolver: resolver, controllers: make(map[string]*Controller)}
}

// Apply routes an update to its session's controller, creating it on first use.
func (s *Sessions) Apply(u Update) (Settled, error) {
	return s.controller(u.SessionID).Apply(u)
}

// Current returns a session's settled state; unknown sessions are all-unset.
func (s *Sessions) Current(sessionID string) Settled {
	return s.controller(sessionID).Current()
}

// Len returns the number of known sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}

func (s *Sessions) controller(id string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controllers[id]
	if !ok {
		c = NewController(s.resolver)
		s.controllers[id] = c
	}
	return c
}
