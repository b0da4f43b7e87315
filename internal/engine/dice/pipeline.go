// Package dice resolves roll requests into classified rolls, hit point
// changes and majority-based group verdicts.
package dice

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// Config holds the dependencies for the pipeline
type Config struct {
	Roller dice.Roller
	// Sink receives hit point updates. Optional; mutations are always
	// returned in the output as well.
	Sink mutation.Sink
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Pipeline resolves roll requests
type Pipeline struct {
	roller dice.Roller
	sink   mutation.Sink
}

// NewPipeline creates a pipeline with the provided dependencies
func NewPipeline(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	sink := cfg.Sink
	if sink == nil {
		sink = mutation.Discard
	}

	return &Pipeline{roller: cfg.Roller, sink: sink}, nil
}

// ResolveInput holds the requests and the combatants they may target
type ResolveInput struct {
	Requests   []RollRequest
	Combatants []*combat.CombatActor
}

// ResolveOutput holds one roll per request, the group verdicts and the
// hit point mutations that were dispatched
type ResolveOutput struct {
	Rolls         []Roll
	GroupOutcomes []GroupOutcome
	Mutations     []mutation.Mutation
}

// Resolve rolls every request in order. Damage against the same target
// accumulates across requests; each affected target yields one
// UPDATE_COMBAT_ENEMY mutation with its final hit points.
func (p *Pipeline) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	targets := newTargetIndex(input.Combatants)
	rolls := make([]Roll, 0, len(input.Requests))

	for i, req := range input.Requests {
		var (
			roll Roll
			err  error
		)
		if req.Type.IsEffect() {
			roll, err = p.resolveEffect(req, targets)
		} else {
			roll, err = p.resolveCheck(req, targets)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve request %d (%s)", i, req.Type)
		}
		rolls = append(rolls, roll)
	}

	output := &ResolveOutput{
		Rolls:         rolls,
		GroupOutcomes: GroupOutcomes(rolls),
	}

	for _, actor := range targets.changed() {
		m := mutation.UpdateCombatEnemy(actor)
		if err := p.sink.Dispatch(ctx, m); err != nil {
			return nil, errors.Wrapf(err, "failed to dispatch hit point update for %s", actor.ID)
		}
		output.Mutations = append(output.Mutations, m)
	}

	slog.Debug("Dice resolved",
		"request_count", len(input.Requests),
		"group_count", len(output.GroupOutcomes),
		"mutation_count", len(output.Mutations),
	)

	return output, nil
}

// resolveCheck rolls a d20 for checks, saves and attacks
func (p *Pipeline) resolveCheck(req RollRequest, targets *targetIndex) (Roll, error) {
	mode := normalizeMode(req.Mode)

	die, err := p.rollD20(mode)
	if err != nil {
		return Roll{}, err
	}

	total := die + req.Bonus
	roll := Roll{
		Request:      req,
		Die:          die,
		Mode:         mode,
		Bonus:        req.Bonus,
		Total:        total,
		Outcome:      Classify(req, die, total, targets.armorClass(req)),
		Presentation: PresentationStandard,
		Duration:     req.Duration,
	}

	if req.Heroic {
		applyHeroic(&roll)
	}

	return roll, nil
}

// resolveEffect rolls damage or healing and applies it to a known target
func (p *Pipeline) resolveEffect(req RollRequest, targets *targetIndex) (Roll, error) {
	notation, err := ParseNotation(req.Notation)
	if err != nil {
		return Roll{}, err
	}

	var faces []int
	if notation.Count > 0 {
		faces, err = p.roller.RollN(notation.Count, notation.Size)
		if err != nil {
			return Roll{}, errors.Wrap(err, "failed to roll effect dice")
		}
	}

	amount := notation.Modifier + req.Bonus
	for _, f := range faces {
		amount += f
	}

	roll := Roll{
		Request: req,
		Dice:    faces,
		// Advantage does not apply to effect dice
		Mode:         ModeNormal,
		Bonus:        notation.Modifier + req.Bonus,
		Total:        max(amount, 0),
		Presentation: PresentationStandard,
		Duration:     req.Duration,
	}

	if req.Heroic {
		applyHeroic(&roll)
	}

	target := targets.find(req)
	if target == nil {
		return roll, nil
	}

	previous := target.CurrentHitPoints
	if req.Type == RollTypeHealingRoll {
		target.SetHitPoints(previous + roll.Total)
	} else {
		adjusted, notes, err := AdjustDamage(roll.Total, req.DamageType, target.Defenses)
		if err != nil {
			return Roll{}, err
		}
		roll.Total = adjusted
		roll.Notes = append(roll.Notes, notes...)
		target.SetHitPoints(previous - adjusted)
	}

	roll.HPChange = &HPChange{
		TargetID: target.ID,
		Previous: previous,
		New:      target.CurrentHitPoints,
	}
	targets.touch(target.ID)

	return roll, nil
}

func (p *Pipeline) rollD20(mode Mode) (int, error) {
	first, err := p.roller.Roll(20)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll d20")
	}
	if mode == ModeNormal {
		return first, nil
	}

	second, err := p.roller.Roll(20)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll d20")
	}
	if mode == ModeAdvantage {
		return max(first, second), nil
	}
	return min(first, second), nil
}

// Classify assigns an outcome to a d20 roll. A DC always wins. Attacks
// without a DC use armorClass. Checks with no threshold are Unresolved
// unless the die is a natural 20 or 1.
func Classify(req RollRequest, die, total, armorClass int) Outcome {
	if req.Type.IsEffect() {
		return OutcomeNone
	}

	if req.DC != nil {
		switch {
		case die == 20:
			return OutcomeCriticalSuccess
		case die == 1:
			return OutcomeCriticalFail
		case total >= *req.DC:
			return OutcomeSuccess
		default:
			return OutcomeFail
		}
	}

	if req.Type == RollTypeAttackRoll {
		switch {
		case die == 20:
			return OutcomeCriticalHit
		case die == 1:
			return OutcomeMiss
		case total >= armorClass:
			return OutcomeHit
		default:
			return OutcomeMiss
		}
	}

	switch die {
	case 20:
		return OutcomeCriticalSuccess
	case 1:
		return OutcomeCriticalFail
	default:
		return OutcomeUnresolved
	}
}

// applyHeroic doubles the numeric effect and duration and fixes the presentation
func applyHeroic(roll *Roll) {
	if roll.Request.Type.IsEffect() {
		roll.Total *= 2
	}
	roll.Duration *= 2
	roll.Presentation = PresentationHeroic
	roll.Notes = append(roll.Notes, NoteHeroicDoubled)
}

func normalizeMode(m Mode) Mode {
	switch Mode(strings.ToLower(string(m))) {
	case ModeAdvantage:
		return ModeAdvantage
	case ModeDisadvantage:
		return ModeDisadvantage
	default:
		return ModeNormal
	}
}

// targetIndex holds working copies of combatants so damage accumulates
// without touching the caller's actors
type targetIndex struct {
	byID    map[string]*combat.CombatActor
	order   []string
	touched map[string]bool
}

func newTargetIndex(actors []*combat.CombatActor) *targetIndex {
	idx := &targetIndex{
		byID:    make(map[string]*combat.CombatActor, len(actors)),
		touched: make(map[string]bool),
	}
	for _, a := range actors {
		if a == nil || a.ID == "" {
			continue
		}
		if _, ok := idx.byID[a.ID]; ok {
			continue
		}
		idx.byID[a.ID] = a.Clone()
		idx.order = append(idx.order, a.ID)
	}
	return idx
}

func (t *targetIndex) find(req RollRequest) *combat.CombatActor {
	if req.TargetID != "" {
		if a, ok := t.byID[req.TargetID]; ok {
			return a
		}
	}
	name := strings.TrimSpace(req.TargetName)
	if name == "" {
		return nil
	}
	for _, id := range t.order {
		if strings.EqualFold(t.byID[id].Name, name) {
			return t.byID[id]
		}
	}
	return nil
}

func (t *targetIndex) armorClass(req RollRequest) int {
	if req.TargetAC != nil {
		return *req.TargetAC
	}
	if a := t.find(req); a != nil {
		return a.ArmorClass
	}
	return BaselineArmorClass
}

func (t *targetIndex) touch(id string) {
	t.touched[id] = true
}

func (t *targetIndex) changed() []*combat.CombatActor {
	var out []*combat.CombatActor
	for _, id := range t.order {
		if t.touched[id] {
			out = append(out, t.byID[id])
		}
	}
	return out
}
