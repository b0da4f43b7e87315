package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-combat/internal/encounter"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// SyncerConfig holds the dependencies for a Syncer
type SyncerConfig struct {
	EventBus   events.EventBus
	Repository Repository
}

// Validate ensures all required dependencies are provided
func (c *SyncerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}

	return vb.Build()
}

// Syncer keeps the registry in step with encounter events. New hostiles
// announced by ADD_NPC are saved, and registry NPCs that die in combat are
// marked Dead so they are never staged again.
type Syncer struct {
	bus  events.EventBus
	repo Repository

	mu   sync.Mutex
	subs []string
}

// NewSyncer creates a syncer with the provided dependencies
func NewSyncer(cfg *SyncerConfig) (*Syncer, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Syncer{bus: cfg.EventBus, repo: cfg.Repository}, nil
}

// Start subscribes to the bus. Calling Start twice is a no-op.
func (s *Syncer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) > 0 {
		return
	}
	s.subs = append(s.subs,
		s.bus.SubscribeFunc(string(mutation.TypeAddNPC), 0, s.onAddNPC),
		s.bus.SubscribeFunc(string(mutation.TypeUpdateCombatEnemy), 0, s.onUpdateEnemy),
	)
}

// Stop removes the subscriptions
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.subs {
		if err := s.bus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe registry syncer", "subscription_id", id, "error", err)
		}
	}
	s.subs = nil
}

func (s *Syncer) onAddNPC(ctx context.Context, evt events.Event) error {
	m, ok := encounter.MutationFrom(evt)
	if !ok || m.NPC == nil {
		return nil
	}

	if _, err := s.repo.Save(ctx, &SaveInput{Entry: m.NPC}); err != nil {
		slog.Warn("Failed to persist registry entry", "npc_id", m.NPC.ID, "error", err)
		return errors.Wrapf(err, "failed to persist npc %s", m.NPC.ID)
	}

	slog.Info("Registry entry persisted", "npc_id", m.NPC.ID, "name", m.NPC.Name)
	return nil
}

func (s *Syncer) onUpdateEnemy(ctx context.Context, evt events.Event) error {
	m, ok := encounter.MutationFrom(evt)
	if !ok || m.Actor == nil || !m.Actor.IsDead() {
		return nil
	}

	got, err := s.repo.Get(ctx, &GetInput{ID: m.Actor.ID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to load npc %s", m.Actor.ID)
	}
	if got.Entry.IsDead() {
		return nil
	}

	got.Entry.Status = combat.StatusDead
	if _, err := s.repo.Save(ctx, &SaveInput{Entry: got.Entry}); err != nil {
		return errors.Wrapf(err, "failed to mark npc %s dead", m.Actor.ID)
	}

	slog.Info("Registry entry marked dead", "npc_id", m.Actor.ID)
	return nil
}
