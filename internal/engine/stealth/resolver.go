// Package stealth resolves party-wide hiding as two majority-rule phases
// rolled through the dice pipeline: a Deception ruse against the sharpest
// Insight, then Stealth movement against the sharpest Perception.
package stealth

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	"github.com/KirkDiggler/rpg-combat/internal/engine/dice"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// Check names
const (
	CheckDeception = "Deception"
	CheckStealth   = "Stealth"
)

// UnobservedHideDC is the hidden DC when nobody is watching the party hide
const UnobservedHideDC = 10

// PassiveBase is the flat base of every passive score
const PassiveBase = 10

// StatusSource tags status effects applied by this package
const StatusSource = "stealth"

// Observer is a creature the party must slip past
type Observer struct {
	ID                string
	Name              string
	PassiveInsight    int
	PassivePerception int
}

// ObserverFromActor derives passive scores from a combatant's wisdom.
// Perception adds proficiency; Insight does not.
func ObserverFromActor(a *combat.CombatActor) Observer {
	wis := combat.AbilityModifier(a.Abilities.Wisdom)
	return Observer{
		ID:                a.ID,
		Name:              a.Name,
		PassiveInsight:    PassiveBase + wis,
		PassivePerception: PassiveBase + wis + blueprint.Proficiency(a.ChallengeRating),
	}
}

// ObserversFrom returns an observer for every living hostile
func ObserversFrom(actors []*combat.CombatActor) []Observer {
	var out []Observer
	for _, a := range actors {
		if a == nil || a.IsDead() || a.Alignment != combat.AlignmentEnemy {
			continue
		}
		out = append(out, ObserverFromActor(a))
	}
	return out
}

// Config holds the dependencies for the resolver
type Config struct {
	Pipeline *dice.Pipeline
	Sink     mutation.Sink
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Pipeline == nil {
		vb.RequiredField("Pipeline")
	}
	if c.Sink == nil {
		vb.RequiredField("Sink")
	}

	return vb.Build()
}

// Resolver runs hide attempts
type Resolver struct {
	pipeline *dice.Pipeline
	sink     mutation.Sink
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{pipeline: cfg.Pipeline, sink: cfg.Sink}, nil
}

// HideInput describes one hide attempt
type HideInput struct {
	Party     []*combat.PartyMember
	Observers []Observer
	// Duration is how long the Invisible status lasts
	Duration int
}

// PhaseResult is the outcome of one phase
type PhaseResult struct {
	CheckName string
	DC        int
	Rolls     []dice.Roll
	Outcome   dice.GroupOutcome
}

// HideOutput reports the attempt. Ruse and Movement are nil when the phase
// was not rolled.
type HideOutput struct {
	Success    bool
	Unobserved bool
	HiddenDC   int
	Ruse       *PhaseResult
	Movement   *PhaseResult
	Mutations  []mutation.Mutation
}

// AttemptHide rolls the ruse and, if it holds, the movement. With no
// observers the party hides immediately.
func (r *Resolver) AttemptHide(ctx context.Context, input *HideInput) (*HideOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	hiders := hideable(input.Party)
	if len(hiders) == 0 {
		return nil, errors.FailedPrecondition("no party member can hide")
	}

	output := &HideOutput{}

	if len(input.Observers) == 0 {
		output.Success = true
		output.Unobserved = true
		output.HiddenDC = UnobservedHideDC
		return r.conceal(ctx, output, hiders, input.Duration)
	}

	insight, perception := highestPassives(input.Observers)

	ruse, err := r.rollPhase(ctx, hiders, CheckDeception, insight)
	if err != nil {
		return nil, err
	}
	output.Ruse = ruse

	if !ruse.Outcome.IsGroupSuccess {
		r.logAttempt(output, len(hiders), len(input.Observers))
		return output, nil
	}

	movement, err := r.rollPhase(ctx, hiders, CheckStealth, perception)
	if err != nil {
		return nil, err
	}
	output.Movement = movement

	if !movement.Outcome.IsGroupSuccess {
		r.logAttempt(output, len(hiders), len(input.Observers))
		return output, nil
	}

	output.Success = true
	output.HiddenDC = averageTotal(movement.Rolls)
	r.logAttempt(output, len(hiders), len(input.Observers))

	return r.conceal(ctx, output, hiders, input.Duration)
}

// RevealOutput holds the mutations dispatched by Reveal
type RevealOutput struct {
	Mutations []mutation.Mutation
}

// Reveal drops the Invisible status from every member carrying it and
// clears the party hidden flag
func (r *Resolver) Reveal(ctx context.Context, party []*combat.PartyMember) (*RevealOutput, error) {
	var ms []mutation.Mutation
	for _, p := range party {
		if p != nil && p.HasStatus(combat.StatusInvisible) {
			ms = append(ms, mutation.RemoveStatusEffect(p.ID, combat.StatusInvisible))
		}
	}
	ms = append(ms, mutation.SetPartyHidden(false, 0))

	if err := mutation.DispatchAll(ctx, r.sink, ms); err != nil {
		return nil, errors.Wrap(err, "failed to dispatch reveal")
	}

	slog.Info("Party revealed", "member_count", len(ms)-1)

	return &RevealOutput{Mutations: ms}, nil
}

func (r *Resolver) rollPhase(ctx context.Context, hiders []*combat.PartyMember, check string, dc int) (*PhaseResult, error) {
	requests := make([]dice.RollRequest, 0, len(hiders))
	for _, p := range hiders {
		threshold := dc
		requests = append(requests, dice.RollRequest{
			RollerID:   p.ID,
			RollerName: p.Name,
			Type:       dice.RollTypeSkillCheck,
			CheckName:  check,
			DC:         &threshold,
			Bonus:      p.SkillBonus(check),
			Reason:     "party hide attempt",
		})
	}

	out, err := r.pipeline.Resolve(ctx, &dice.ResolveInput{Requests: requests})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s", check)
	}

	result := &PhaseResult{CheckName: check, DC: dc, Rolls: out.Rolls}
	for _, g := range out.GroupOutcomes {
		if g.CheckName == check {
			result.Outcome = g
		}
	}
	return result, nil
}

func (r *Resolver) conceal(ctx context.Context, output *HideOutput, hiders []*combat.PartyMember, duration int) (*HideOutput, error) {
	for _, p := range hiders {
		output.Mutations = append(output.Mutations, mutation.ApplyStatusEffect(p.ID, combat.StatusEffect{
			Name:     combat.StatusInvisible,
			Duration: duration,
			Source:   StatusSource,
		}))
	}
	output.Mutations = append(output.Mutations, mutation.SetPartyHidden(true, output.HiddenDC))

	if err := mutation.DispatchAll(ctx, r.sink, output.Mutations); err != nil {
		return nil, errors.Wrap(err, "failed to dispatch hide result")
	}
	return output, nil
}

func (r *Resolver) logAttempt(output *HideOutput, hiders, observers int) {
	attrs := []any{
		"success", output.Success,
		"hider_count", hiders,
		"observer_count", observers,
	}
	if output.Ruse != nil {
		attrs = append(attrs, "ruse_successes", output.Ruse.Outcome.Successes, "ruse_dc", output.Ruse.DC)
	}
	if output.Movement != nil {
		attrs = append(attrs, "movement_successes", output.Movement.Outcome.Successes, "movement_dc", output.Movement.DC)
	}
	slog.Info("Hide attempted", attrs...)
}

func hideable(party []*combat.PartyMember) []*combat.PartyMember {
	var out []*combat.PartyMember
	for _, p := range party {
		if p != nil && p.CanHide && !p.IsDead() {
			out = append(out, p)
		}
	}
	return out
}

func highestPassives(observers []Observer) (insight, perception int) {
	for i, o := range observers {
		if i == 0 || o.PassiveInsight > insight {
			insight = o.PassiveInsight
		}
		if i == 0 || o.PassivePerception > perception {
			perception = o.PassivePerception
		}
	}
	return insight, perception
}

// averageTotal floors the mean of the roll totals
func averageTotal(rolls []dice.Roll) int {
	if len(rolls) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rolls {
		sum += r.Total
	}
	return sum / len(rolls)
}
