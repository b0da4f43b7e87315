package encounter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// ContextKeyMutation is the event context key holding the applied mutation
const ContextKeyMutation = "mutation"

// EntityTypeEncounter is the rpg-toolkit entity type of the encounter itself
const EntityTypeEncounter = "encounter"

// Config holds the dependencies for the store
type Config struct {
	EncounterID string
	EventBus    events.EventBus
	// State seeds the store; a new empty state is used when nil
	State *State
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("EncounterID", c.EncounterID, vb)
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Store serializes mutations against one encounter and publishes every
// applied mutation on the event bus. Events are published after the lock is
// released, so handlers may read the store but publication order across
// concurrent dispatchers is not guaranteed.
type Store struct {
	mu     sync.Mutex
	state  *State
	bus    events.EventBus
	source core.Entity
}

// NewStore creates a store with the provided dependencies
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	state := cfg.State
	if state == nil {
		state = NewState()
	} else {
		state = state.Clone()
	}

	return &Store{
		state:  state,
		bus:    cfg.EventBus,
		source: &encounterEntity{id: cfg.EncounterID},
	}, nil
}

// Dispatch applies a mutation and publishes it. Store implements mutation.Sink.
func (s *Store) Dispatch(ctx context.Context, m mutation.Mutation) error {
	s.mu.Lock()
	err := Apply(s.state, m)
	var target core.Entity
	if err == nil {
		target = s.targetOf(m)
	}
	s.mu.Unlock()

	if err != nil {
		slog.Debug("Mutation rejected",
			"encounter_id", s.source.GetID(),
			"type", m.Type,
			"error", err,
		)
		return err
	}

	evt := events.NewGameEvent(string(m.Type), s.source, target)
	evt.Context().Set(ContextKeyMutation, m)

	if err := s.bus.Publish(ctx, evt); err != nil {
		slog.Warn("Failed to publish mutation event",
			"encounter_id", s.source.GetID(),
			"type", m.Type,
			"error", err,
		)
	}

	return nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// EncounterID returns the identity of the encounter
func (s *Store) EncounterID() string {
	return s.source.GetID()
}

func (s *Store) targetOf(m mutation.Mutation) core.Entity {
	switch {
	case m.Actor != nil:
		if a := s.state.Combatant(m.Actor.ID); a != nil {
			return a.Clone()
		}
	case m.Member != nil:
		if p := s.state.Member(m.Member.ID); p != nil {
			return p.Clone()
		}
	case m.ActorID != "":
		if a := s.state.Combatant(m.ActorID); a != nil {
			return a.Clone()
		}
		if p := s.state.Member(m.ActorID); p != nil {
			return p.Clone()
		}
	}
	return nil
}

// MutationFrom extracts the applied mutation from a published event
func MutationFrom(evt events.Event) (mutation.Mutation, bool) {
	if evt == nil || evt.Context() == nil {
		return mutation.Mutation{}, false
	}
	raw, ok := evt.Context().Get(ContextKeyMutation)
	if !ok {
		return mutation.Mutation{}, false
	}
	m, ok := raw.(mutation.Mutation)
	return m, ok
}

type encounterEntity struct {
	id string
}

func (e *encounterEntity) GetID() string   { return e.id }
func (e *encounterEntity) GetType() string { return EntityTypeEncounter }
