// Package initiation runs the combat initiation pipeline: alignment
// resolution, emptiness recovery, slot enrichment, staging and the narrative
// bridge, followed by the move into active combat.
//
// Every step may fail on its own. A failed step is logged and counted, and
// the pipeline carries on with whatever it has; only invalid input or a
// failure to start combat is returned to the caller. Preventing two
// concurrent initiations of the same encounter is the caller's job.
package initiation

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative"
	"github.com/KirkDiggler/rpg-combat/internal/encounter"
	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/engine/turnorder"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-combat/internal/repositories/registry"
)

// Defaults applied when the config leaves a setting at zero
const (
	DefaultStepTimeout = 20 * time.Second
	DefaultPacingDelay = 750 * time.Millisecond
)

// Service defines the interface for combat initiation
type Service interface {
	// InitiateCombat runs the pipeline and starts combat
	InitiateCombat(ctx context.Context, input *InitiateCombatInput) (*InitiateCombatOutput, error)

	// ConcludeCombat ends combat and returns the settlement
	ConcludeCombat(ctx context.Context, input *ConcludeCombatInput) (*ConcludeCombatOutput, error)
}

// Config holds the dependencies for the orchestrator
type Config struct {
	Narrative   narrative.Service
	Staging     *staging.Engine
	Store       *encounter.Store
	Roller      dice.Roller
	IDGenerator idgen.Generator

	// Registry supplies world NPCs; when nil only the encounter's own NPCs
	// are consulted
	Registry      registry.Repository
	Clock         clock.Clock
	MeterProvider metric.MeterProvider
	StepTimeout   time.Duration
	PacingDelay   time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Narrative == nil {
		vb.RequiredField("Narrative")
	}
	if c.Staging == nil {
		vb.RequiredField("Staging")
	}
	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.StepTimeout < 0 {
		vb.InvalidField("StepTimeout", "must not be negative")
	}
	if c.PacingDelay < 0 {
		vb.InvalidField("PacingDelay", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	narrative   narrative.Service
	staging     *staging.Engine
	store       *encounter.Store
	roller      dice.Roller
	idGen       idgen.Generator
	registry    registry.Repository
	clock       clock.Clock
	metrics     *metrics
	stepTimeout time.Duration
	pacing      time.Duration
}

// NewOrchestrator creates a new initiation orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	met, err := newMetrics(mp)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "failed to create metrics")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	stepTimeout := cfg.StepTimeout
	if stepTimeout == 0 {
		stepTimeout = DefaultStepTimeout
	}
	pacing := cfg.PacingDelay
	if pacing == 0 {
		pacing = DefaultPacingDelay
	}

	return &orchestrator{
		narrative:   cfg.Narrative,
		staging:     cfg.Staging,
		store:       cfg.Store,
		roller:      cfg.Roller,
		idGen:       cfg.IDGenerator,
		registry:    cfg.Registry,
		clock:       clk,
		metrics:     met,
		stepTimeout: stepTimeout,
		pacing:      pacing,
	}, nil
}

// run carries the working state of one initiation
type run struct {
	input       *InitiateCombatInput
	suggestions []combat.ActorSuggestion
	output      *InitiateCombatOutput
}

func (o *orchestrator) InitiateCombat(ctx context.Context, input *InitiateCombatInput) (*InitiateCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	trigger := input.Trigger
	switch trigger {
	case TriggerManual, TriggerNarrative:
	case "":
		trigger = TriggerNarrative
	default:
		return nil, errors.InvalidArgumentf("unknown trigger %q", trigger)
	}
	if phase := o.store.Snapshot().TurnOrder.Phase; phase == turnorder.PhaseActive {
		return nil, errors.FailedPreconditionf("combat is already active in encounter %s", o.store.EncounterID())
	}

	r := &run{
		input:       input,
		suggestions: append([]combat.ActorSuggestion(nil), input.Suggestions...),
		output:      &InitiateCombatOutput{},
	}

	slog.Info("Combat initiation started",
		"encounter_id", o.store.EncounterID(),
		"trigger", trigger,
		"suggestion_count", len(input.Suggestions),
	)

	// The status must never outlive the run, whatever happens below
	defer o.clearStatus(context.WithoutCancel(ctx))

	o.runStep(ctx, r, StepAlignment, LabelAlignment, ProgressAlignment, true, o.resolveAlignments)
	o.runStep(ctx, r, StepRecovery, LabelRecovery, ProgressRecovery, o.needsRecovery(r), o.recoverHostiles)
	o.runStep(ctx, r, StepEnrichment, LabelEnrichment, ProgressEnrichment, hasAnonymous(r.suggestions), o.enrichSlots)
	o.runStep(ctx, r, StepStaging, LabelStaging, ProgressStaging, true, o.stageActors)
	o.runStep(ctx, r, StepBridge, LabelBridge, ProgressBridge, trigger == TriggerManual, o.bridgeNarrative)

	if err := o.startCombat(ctx, r); err != nil {
		return nil, err
	}

	slog.Info("Combat initiated",
		"encounter_id", o.store.EncounterID(),
		"staged_count", len(r.output.Staged),
		"turn_order", r.output.TurnOrder,
	)

	return r.output, nil
}

func (o *orchestrator) ConcludeCombat(ctx context.Context, _ *ConcludeCombatInput) (*ConcludeCombatOutput, error) {
	rounds := o.store.Snapshot().TurnOrder.Round

	if err := o.store.Dispatch(ctx, mutation.EndCombat()); err != nil {
		return nil, errors.Wrap(err, "failed to end combat")
	}

	output := &ConcludeCombatOutput{Rounds: rounds}
	for _, a := range o.store.Snapshot().Combatants {
		if a.Alignment != combat.AlignmentEnemy {
			continue
		}
		if a.IsDead() {
			output.Defeated = append(output.Defeated, a)
		} else {
			output.Surviving = append(output.Surviving, a)
		}
	}

	slog.Info("Combat concluded",
		"encounter_id", o.store.EncounterID(),
		"rounds", rounds,
		"defeated_count", len(output.Defeated),
		"surviving_count", len(output.Surviving),
	)

	return output, nil
}

type stepFunc func(ctx context.Context, r *run) (Outcome, error)

// runStep reports progress, runs fn under its own timeout and folds the
// result into the output. Step errors stop here.
func (o *orchestrator) runStep(ctx context.Context, r *run, name, label string, progress int, when bool, fn stepFunc) {
	if !when {
		r.output.Steps = append(r.output.Steps, StepResult{Name: name, Outcome: OutcomeSkipped, Progress: progress})
		o.metrics.record(ctx, name, OutcomeSkipped, 0)
		return
	}

	o.setStatus(ctx, label, progress, r.output.Transition)

	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	start := time.Now()
	outcome, err := fn(stepCtx, r)
	elapsed := time.Since(start)
	if err != nil {
		outcome = OutcomeFailed
		slog.Warn("Initiation step failed",
			"encounter_id", o.store.EncounterID(),
			"step", name,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
	} else {
		slog.Debug("Initiation step finished",
			"step", name,
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	o.metrics.record(ctx, name, outcome, elapsed)
	r.output.Steps = append(r.output.Steps, StepResult{Name: name, Outcome: outcome, Progress: progress, Err: err})
}

// resolveAlignments asks the narrator about living staged actors that have
// not picked a side
func (o *orchestrator) resolveAlignments(ctx context.Context, r *run) (Outcome, error) {
	state := o.store.Snapshot()

	var candidates []narrative.AlignmentCandidate
	for _, a := range state.Combatants {
		if a.IsDead() || (a.Alignment != combat.AlignmentUnset && a.Alignment != combat.AlignmentNeutral) {
			continue
		}
		c := narrative.AlignmentCandidate{ID: a.ID, Name: a.Name, Description: a.Description}
		if npc, ok := state.NPCs[a.ID]; ok {
			c.Relationship = npc.Relationship
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return OutcomeSkipped, nil
	}

	out, err := o.narrative.ResolveAlignments(ctx, &narrative.ResolveAlignmentsInput{
		Narrative:  r.input.Narrative,
		Candidates: candidates,
	})
	if err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to resolve alignments")
	}

	for _, c := range candidates {
		alignment, ok := out.Alignments[c.ID]
		if !ok {
			continue
		}
		actor := state.Combatant(c.ID).Clone()
		actor.Alignment = alignment
		if err := o.store.Dispatch(ctx, mutation.UpdateCombatEnemy(actor)); err != nil {
			return OutcomeFailed, errors.Wrapf(err, "failed to update alignment of %s", c.ID)
		}
	}

	return OutcomeOK, nil
}

func (o *orchestrator) needsRecovery(r *run) bool {
	return len(r.suggestions) == 0 && len(o.store.Snapshot().Hostiles()) == 0
}

// recoverHostiles re-derives a hostile list from the recent conversation
func (o *orchestrator) recoverHostiles(ctx context.Context, r *run) (Outcome, error) {
	out, err := o.narrative.ReassessHostiles(ctx, &narrative.ReassessHostilesInput{
		Narrative:     r.input.Narrative,
		RecentContext: r.input.RecentContext,
	})
	if err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to reassess hostiles")
	}

	r.suggestions = out.Suggestions
	return OutcomeOK, nil
}

// enrichSlots names anonymous suggestions, avoiding every known name
func (o *orchestrator) enrichSlots(ctx context.Context, r *run) (Outcome, error) {
	var (
		indexes []int
		slots   []combat.ActorSuggestion
	)
	for i, s := range r.suggestions {
		if needsName(s) {
			s.Name = nil
			indexes = append(indexes, i)
			slots = append(slots, s)
		}
	}

	excluded := o.store.Snapshot().KnownNames()
	for _, e := range o.registryEntries(ctx) {
		excluded = append(excluded, e.Name)
	}

	out, err := o.narrative.EnrichActorSuggestions(ctx, &narrative.EnrichActorSuggestionsInput{
		Narrative:     r.input.Narrative,
		Suggestions:   slots,
		ExcludedNames: excluded,
	})
	if err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to enrich suggestions")
	}

	for i, idx := range indexes {
		if i >= len(out.Suggestions) {
			break
		}
		r.suggestions[idx] = out.Suggestions[i]
	}

	return OutcomeOK, nil
}

func (o *orchestrator) stageActors(ctx context.Context, r *run) (Outcome, error) {
	if len(r.suggestions) == 0 {
		return OutcomeSkipped, nil
	}

	state := o.store.Snapshot()
	out, err := o.staging.Stage(ctx, &staging.StageInput{
		Suggestions:     r.suggestions,
		ExistingEnemies: state.Combatants,
		Registry:        mergeRegistry(o.registryEntries(ctx), state.RegistryEntries()),
		PlayerLevel:     r.input.PlayerLevel,
	})
	if err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to stage actors")
	}

	r.output.Staged = out.Actors
	r.output.Skipped = out.Skipped
	return OutcomeOK, nil
}

// bridgeNarrative posts a system line carrying the scene into combat
func (o *orchestrator) bridgeNarrative(ctx context.Context, r *run) (Outcome, error) {
	state := o.store.Snapshot()
	names := make([]string, 0, len(state.Party)+len(state.Combatants))
	for _, m := range state.Party {
		names = append(names, m.Name)
	}
	for _, a := range state.Combatants {
		if !a.IsDead() {
			names = append(names, a.Name)
		}
	}

	out, err := o.narrative.SynthesizeTransitionNarrative(ctx, &narrative.SynthesizeTransitionInput{
		Narrative: r.input.Narrative,
		Names:     names,
	})
	if err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to synthesize transition")
	}

	msg := combat.Message{ID: o.idGen.Generate(), Author: combat.AuthorSystem, Text: out.Text}
	if err := o.store.Dispatch(ctx, mutation.AddMessage(msg)); err != nil {
		return OutcomeFailed, errors.Wrap(err, "failed to post transition")
	}

	r.output.Transition = out.Text
	return OutcomeOK, nil
}

// startCombat is the terminal sequence: roll initiative, start, pause, engage
func (o *orchestrator) startCombat(ctx context.Context, r *run) error {
	o.setStatus(ctx, LabelInitiative, ProgressInitiative, r.output.Transition)

	state := o.store.Snapshot()
	var participants []turnorder.Participant
	for _, a := range state.Combatants {
		if !a.IsDead() {
			participants = append(participants, turnorder.Participant{
				ActorID:  a.ID,
				Modifier: combat.AbilityModifier(a.Abilities.Dexterity),
			})
		}
	}
	for _, m := range state.Party {
		if !m.IsDead() {
			participants = append(participants, turnorder.Participant{ActorID: m.ID, Modifier: m.DexterityModifier})
		}
	}

	entries, err := turnorder.RollInitiative(o.roller, participants)
	if err != nil {
		return errors.Wrap(err, "failed to roll initiative")
	}
	if err := o.store.Dispatch(ctx, mutation.StartCombat(entries)); err != nil {
		return errors.Wrap(err, "failed to start combat")
	}

	if err := o.clock.Sleep(ctx, o.pacing); err != nil {
		slog.Debug("Pacing pause cut short", "error", err)
	}

	o.setStatus(ctx, LabelEngage, ProgressEngage, r.output.Transition)

	started := o.store.Snapshot()
	r.output.TurnOrder = append([]string(nil), started.TurnOrder.Order...)
	r.output.Round = started.TurnOrder.Round
	return nil
}

func (o *orchestrator) setStatus(ctx context.Context, label string, progress int, text string) {
	status := combat.InitiationStatus{Active: true, Step: label, Progress: progress, Narrative: text}
	if err := o.store.Dispatch(ctx, mutation.SetInitiationStatus(status)); err != nil {
		slog.Warn("Failed to report initiation status", "step", label, "error", err)
	}
}

func (o *orchestrator) clearStatus(ctx context.Context) {
	if err := o.store.Dispatch(ctx, mutation.ClearInitiationStatus()); err != nil {
		slog.Warn("Failed to clear initiation status", "error", err)
	}
}

// registryEntries lists world NPCs, or nothing when the registry is absent
// or unreachable
func (o *orchestrator) registryEntries(ctx context.Context) []*combat.RegistryEntry {
	if o.registry == nil {
		return nil
	}
	out, err := o.registry.List(ctx, &registry.ListInput{})
	if err != nil {
		slog.Warn("Failed to list registry", "error", err)
		return nil
	}
	return out.Entries
}

// mergeRegistry combines world entries with the encounter's own; the world
// copy wins on conflict
func mergeRegistry(world, local []*combat.RegistryEntry) []*combat.RegistryEntry {
	seen := make(map[string]bool, len(world))
	out := make([]*combat.RegistryEntry, 0, len(world)+len(local))
	for _, e := range world {
		seen[e.ID] = true
		out = append(out, e)
	}
	for _, e := range local {
		if !seen[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func hasAnonymous(suggestions []combat.ActorSuggestion) bool {
	for _, s := range suggestions {
		if needsName(s) {
			return true
		}
	}
	return false
}

// needsName reports whether staging would discard the suggested name
func needsName(s combat.ActorSuggestion) bool {
	return staging.SanitizeName(combat.Value(s.Name)) == ""
}
