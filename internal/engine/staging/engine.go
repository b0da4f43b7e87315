// Package staging turns narrative actor suggestions into combatants,
// guarding against duplicate or dead identities and keeping the world
// registry in sync with newly staged hostiles.
package staging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// ShipMultiplier scales ship hit points and attack count
const ShipMultiplier = 2

// ShipArchetype is used for ships that do not name an archetype
const ShipArchetype = "Vessel"

// SkipReason explains why a suggestion produced no actor
type SkipReason string

// Skip reasons
const (
	SkipAlreadyPresent SkipReason = "already_present"
	SkipDead           SkipReason = "dead"
)

// Skipped records a suggestion that was not staged
type Skipped struct {
	Index  int
	ID     string
	Name   string
	Reason SkipReason
}

// Config holds the dependencies for the staging engine
type Config struct {
	Resolver *blueprint.Resolver
	Sink     mutation.Sink
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Sink == nil {
		vb.RequiredField("Sink")
	}

	return vb.Build()
}

// Engine stages suggestions into combatants
type Engine struct {
	resolver *blueprint.Resolver
	catalog  *catalog.Catalog
	sink     mutation.Sink
}

// NewEngine creates a staging engine with the provided dependencies
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{
		resolver: cfg.Resolver,
		catalog:  cfg.Resolver.Catalog(),
		sink:     cfg.Sink,
	}, nil
}

// StageInput holds the suggestions and the encounter they are staged into
type StageInput struct {
	Suggestions     []combat.ActorSuggestion
	ExistingEnemies []*combat.CombatActor
	Registry        []*combat.RegistryEntry
	PlayerLevel     int
}

// StageOutput holds the staged actors in suggestion order and the
// suggestions that were skipped
type StageOutput struct {
	Actors    []*combat.CombatActor
	Skipped   []Skipped
	Mutations []mutation.Mutation
}

// Stage converts suggestions into combatants. Each staged actor is
// dispatched as ADD_COMBAT_ENEMY; genuinely new hostiles are also
// dispatched as ADD_NPC.
func (e *Engine) Stage(ctx context.Context, input *StageInput) (*StageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	registry := newRegistryIndex(input.Registry)
	names := newNameBook(input.ExistingEnemies)
	present := make(map[string]bool, len(input.ExistingEnemies))
	for _, a := range input.ExistingEnemies {
		if a != nil && a.ID != "" {
			present[a.ID] = true
		}
	}

	output := &StageOutput{}

	for i := range input.Suggestions {
		s := &input.Suggestions[i]
		ref := registry.find(s)

		id := strings.TrimSpace(combat.Value(s.ID))
		if id == "" && ref != nil {
			id = ref.ID
		}

		if id != "" && present[id] {
			output.Skipped = append(output.Skipped, e.skip(i, id, s, SkipAlreadyPresent))
			continue
		}
		if ref != nil && ref.IsDead() {
			output.Skipped = append(output.Skipped, e.skip(i, id, s, SkipDead))
			continue
		}

		actor, err := e.build(s, ref, id, names, input.PlayerLevel)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stage suggestion %d", i)
		}
		present[actor.ID] = true

		staged := []mutation.Mutation{mutation.AddCombatEnemy(actor)}
		if ref == nil && actor.Alignment == combat.AlignmentEnemy {
			staged = append(staged, mutation.AddNPC(combat.RegistryEntryFromActor(actor)))
		}
		if err := mutation.DispatchAll(ctx, e.sink, staged); err != nil {
			return nil, errors.Wrapf(err, "failed to dispatch staged actor %s", actor.ID)
		}

		output.Actors = append(output.Actors, actor)
		output.Mutations = append(output.Mutations, staged...)
	}

	slog.Info("Encounter staged",
		"suggestion_count", len(input.Suggestions),
		"staged_count", len(output.Actors),
		"skipped_count", len(output.Skipped),
		"player_level", input.PlayerLevel,
	)

	return output, nil
}

// SanitizeTemplate keeps a known template key, otherwise picks a random
// non-Custom template
func (e *Engine) SanitizeTemplate(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key != "" && !strings.EqualFold(key, catalog.CustomTemplate) {
		if tmpl, ok := e.catalog.Template(key); ok {
			return tmpl.Key, nil
		}
	}
	return e.resolver.RandomTemplateKey()
}

func (e *Engine) build(s *combat.ActorSuggestion, ref *combat.RegistryEntry, id string, names *nameBook, level int) (*combat.CombatActor, error) {
	var profile combat.CombatProfile
	if ref != nil {
		profile = ref.Profile
	}

	size := SanitizeSize(e.catalog, firstNonEmpty(combat.Value(s.Size), string(profile.Size)))

	templateKey, err := e.SanitizeTemplate(firstNonEmpty(combat.Value(s.Template), profile.TemplateKey))
	if err != nil {
		return nil, err
	}

	cr, rank := ResolveDifficulty(s.Difficulty, s.ChallengeRating, level)
	if ref != nil && s.Difficulty == nil && s.ChallengeRating == nil && profile.Rank.IsValid() {
		cr, rank = profile.ChallengeRating, profile.Rank
	}

	archetype := firstNonEmpty(combat.Value(s.Archetype), profile.Archetype)
	if archetype == "" && s.IsShip {
		archetype = ShipArchetype
	}

	var (
		name      string
		essential bool
	)
	if ref != nil {
		name = ref.Name
		names.reserve(name)
		essential = ref.IsEssential
	} else {
		name = SanitizeName(combat.Value(s.Name))
		essential = name != ""
		if name == "" {
			name = templateKey
		}
		name = names.claim(name)
		essential = essential && !combat.HasNumericSuffix(name)
	}

	actor, err := e.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey:     templateKey,
		ChallengeRating: cr,
		Rank:            rank,
		Size:            size,
		Archetype:       archetype,
		Name:            name,
		ID:              id,
	})
	if err != nil {
		return nil, err
	}

	actor.Description = firstNonEmpty(strings.TrimSpace(combat.Value(s.Description)), descriptionOf(ref))
	actor.IsEssential = essential
	actor.IsSentient = true
	actor.Alignment = resolveStance(s, profile.Alignment)

	if ref != nil {
		// Registry edits win over the template; unset scores fall back to the base score
		if profile.Abilities != (combat.AbilityScores{}) {
			actor.Abilities = profile.Abilities
		}
		actor.ArmorBonus = profile.ArmorBonus
		actor.Affinity = profile.Affinity
		if err := e.resolver.RecalculateStats(actor, blueprint.BaseAbilityScore); err != nil {
			return nil, err
		}
	}

	if s.IsShip {
		actor.IsShip = true
		actor.MaxHitPoints *= ShipMultiplier
		actor.CurrentHitPoints = actor.MaxHitPoints
		actor.AttackCount *= ShipMultiplier
		actor.IsSentient = false
	}

	if affinity := strings.TrimSpace(combat.Value(s.Affinity)); affinity != "" {
		e.resolver.ApplyAffinity(actor, affinity)
	}

	slog.Debug("Actor staged",
		"actor_id", actor.ID,
		"name", actor.Name,
		"template", actor.TemplateKey,
		"rank", actor.Rank,
		"challenge_rating", actor.ChallengeRating,
		"alignment", actor.Alignment,
		"registry_reference", ref != nil,
	)

	return actor, nil
}

func (e *Engine) skip(index int, id string, s *combat.ActorSuggestion, reason SkipReason) Skipped {
	name := strings.TrimSpace(combat.Value(s.Name))
	slog.Debug("Suggestion skipped",
		"index", index,
		"actor_id", id,
		"name", name,
		"reason", reason,
	)
	return Skipped{Index: index, ID: id, Name: name, Reason: reason}
}

// resolveStance applies an explicit alignment first, then the legacy ally
// flag, then the registry profile. Anything else is an enemy.
func resolveStance(s *combat.ActorSuggestion, fallback combat.Alignment) combat.Alignment {
	if s.Alignment != nil {
		if a, ok := combat.ParseAlignment(string(*s.Alignment)); ok {
			return a
		}
	}
	if s.IsAlly != nil {
		if *s.IsAlly {
			return combat.AlignmentAlly
		}
		return combat.AlignmentEnemy
	}
	if fallback != combat.AlignmentUnset {
		return fallback
	}
	return combat.AlignmentEnemy
}

func descriptionOf(ref *combat.RegistryEntry) string {
	if ref == nil {
		return ""
	}
	return ref.Description
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// registryIndex resolves suggestions to registry entries by explicit id or
// by exact (case-insensitive) name. Names with a numeric suffix are generic
// and never match.
type registryIndex struct {
	byID   map[string]*combat.RegistryEntry
	byName map[string]*combat.RegistryEntry
}

func newRegistryIndex(entries []*combat.RegistryEntry) *registryIndex {
	idx := &registryIndex{
		byID:   make(map[string]*combat.RegistryEntry, len(entries)),
		byName: make(map[string]*combat.RegistryEntry, len(entries)),
	}
	for _, e := range entries {
		if e == nil || e.ID == "" {
			continue
		}
		idx.byID[e.ID] = e
		if key := strings.ToLower(strings.TrimSpace(e.Name)); key != "" {
			if _, dup := idx.byName[key]; !dup {
				idx.byName[key] = e
			}
		}
	}
	return idx
}

func (r *registryIndex) find(s *combat.ActorSuggestion) *combat.RegistryEntry {
	if id := strings.TrimSpace(combat.Value(s.ID)); id != "" {
		return r.byID[id]
	}
	name := strings.TrimSpace(combat.Value(s.Name))
	if name == "" || combat.HasNumericSuffix(name) {
		return nil
	}
	return r.byName[strings.ToLower(name)]
}
