// Package blueprint turns a template key, challenge rating, rank and size
// into a fully populated combatant stat block.
package blueprint

import (
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
)

// BaseAbilityScore is the score every ability starts from before biases
const BaseAbilityScore = 10

// rankScaling holds the multipliers a rank applies on top of a Normal actor
type rankScaling struct {
	hitPoints int
	attacks   int
	armor     int
}

var rankTable = map[combat.Rank]rankScaling{
	combat.RankNormal: {hitPoints: 1, attacks: 1, armor: 0},
	combat.RankElite:  {hitPoints: 2, attacks: 2, armor: 1},
	combat.RankBoss:   {hitPoints: 4, attacks: 3, armor: 2},
}

// Config holds the dependencies for the resolver
type Config struct {
	Catalog     *catalog.Catalog
	Roller      dice.Roller
	IDGenerator idgen.KeyedGenerator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Resolver builds combatants from reference data
type Resolver struct {
	catalog *catalog.Catalog
	roller  dice.Roller
	idGen   idgen.KeyedGenerator
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		catalog: cfg.Catalog,
		roller:  cfg.Roller,
		idGen:   cfg.IDGenerator,
	}, nil
}

// ResolveInput describes the combatant to build
type ResolveInput struct {
	TemplateKey     string
	ChallengeRating int
	Rank            combat.Rank
	Size            combat.SizeClass
	Archetype       string
	// Name overrides the template name when set
	Name string
	// ID is kept when set, otherwise one is generated from the template key
	ID string
}

// Resolve builds a combatant. Unknown or Custom templates are replaced with
// a random template; unknown sizes, ranks and archetypes fall back to
// Medium, Normal and Bipedal.
func (r *Resolver) Resolve(input *ResolveInput) (*combat.CombatActor, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	tmpl, err := r.template(input.TemplateKey)
	if err != nil {
		return nil, err
	}

	size := r.size(input.Size)
	rank := input.Rank
	if !rank.IsValid() {
		rank = combat.RankNormal
	}
	cr := max(input.ChallengeRating, 0)

	archetype, found := r.catalog.Archetype(input.Archetype)
	if !found && input.Archetype != "" {
		slog.Debug("Unknown archetype, using default",
			"archetype", input.Archetype,
			"default", archetype.Key,
		)
	}

	abilities := combat.AbilityScores{
		Strength:     BaseAbilityScore,
		Dexterity:    BaseAbilityScore,
		Constitution: BaseAbilityScore,
		Intelligence: BaseAbilityScore,
		Wisdom:       BaseAbilityScore,
		Charisma:     BaseAbilityScore,
	}.Add(tmpl.AbilityBias).Add(combat.AbilityScores{
		Strength:     size.Strength,
		Dexterity:    size.Dexterity,
		Constitution: size.Constitution,
	}).Floor(1)

	scaling := rankTable[rank]
	hp := hitPoints(cr, size.HitDie, combat.AbilityModifier(abilities.Constitution)) * scaling.hitPoints
	attackMod := combat.AbilityModifier(abilities.Get(attackAbility(tmpl)))

	actor := &combat.CombatActor{
		ID:               input.ID,
		Name:             strings.TrimSpace(input.Name),
		TemplateKey:      tmpl.Key,
		Size:             size.Size,
		Rank:             rank,
		ChallengeRating:  cr,
		Archetype:        archetype.Key,
		Abilities:        abilities,
		SavingThrows:     append([]combat.Ability(nil), tmpl.SavingThrows...),
		CurrentHitPoints: hp,
		MaxHitPoints:     hp,
		ArmorClass:       max(tmpl.BaseArmorClass+size.ArmorClass+scaling.armor, 0),
		AttackBonus:      Proficiency(cr) + attackMod,
		AttackCount:      max(tmpl.BaseAttacks+cr/5, 1) * scaling.attacks,
		Damage: combat.DamageDice{
			Count: max(tmpl.DamageDice, 1) + cr/4,
			Size:  tmpl.DamageDieSize,
			Bonus: attackMod,
		},
		Speeds: nonNegative(archetype.Speeds),
	}

	if actor.Name == "" {
		actor.Name = tmpl.Key
	}
	if actor.ID == "" {
		actor.ID = r.idGen.GenerateFor(tmpl.Key)
	}

	return actor, nil
}

// RecalculateStats re-derives armor class, attack bonus, damage bonus and
// affinity defenses. Identity, hit points and narrative fields are left
// alone. Zero ability scores are filled with baseScore first.
func (r *Resolver) RecalculateStats(actor *combat.CombatActor, baseScore int) error {
	if actor == nil {
		return errors.InvalidArgument("actor is required")
	}

	tmpl, ok := r.catalog.Template(actor.TemplateKey)
	if !ok {
		tmpl, _ = r.catalog.Template(catalog.CustomTemplate)
	}
	size := r.size(actor.Size)
	rank := actor.Rank
	if !rank.IsValid() {
		rank = combat.RankNormal
		actor.Rank = rank
	}
	scaling := rankTable[rank]

	actor.Abilities = actor.Abilities.FillZero(baseScore)
	attackMod := combat.AbilityModifier(actor.Abilities.Get(attackAbility(tmpl)))

	actor.ArmorClass = max(tmpl.BaseArmorClass+size.ArmorClass+scaling.armor+actor.ArmorBonus, 0)
	actor.AttackBonus = Proficiency(actor.ChallengeRating) + attackMod
	actor.Damage.Bonus = attackMod
	if actor.Damage.Count <= 0 || actor.Damage.Size <= 0 {
		actor.Damage.Count = max(tmpl.DamageDice, 1) + actor.ChallengeRating/4
		actor.Damage.Size = tmpl.DamageDieSize
	}
	if actor.AttackCount <= 0 {
		actor.AttackCount = max(tmpl.BaseAttacks+actor.ChallengeRating/5, 1) * scaling.attacks
	}

	if actor.Affinity != "" {
		r.ApplyAffinity(actor, actor.Affinity)
	}

	return nil
}

// ApplyAffinity merges an affinity's damage type sets into the actor.
// It reports whether the affinity was known.
func (r *Resolver) ApplyAffinity(actor *combat.CombatActor, key string) bool {
	affinity, ok := r.catalog.Affinity(key)
	if !ok {
		slog.Debug("Unknown affinity ignored", "affinity", key, "actor_id", actor.ID)
		return false
	}

	d := affinity.Defenses()
	actor.Affinity = affinity.Key
	actor.Resistances = combat.MergeDamageTypes(actor.Resistances, d.Resistances)
	actor.Immunities = combat.MergeDamageTypes(actor.Immunities, d.Immunities)
	actor.Vulnerabilities = combat.MergeDamageTypes(actor.Vulnerabilities, d.Vulnerabilities)
	return true
}

// RandomTemplateKey picks a uniformly random non-Custom template key
func (r *Resolver) RandomTemplateKey() (string, error) {
	keys := r.catalog.TemplateKeys()
	if len(keys) == 0 {
		return "", errors.Configuration("catalog has no templates to choose from")
	}

	n, err := r.roller.Roll(len(keys))
	if err != nil {
		return "", errors.Wrap(err, "failed to roll random template")
	}
	n = min(max(n, 1), len(keys))
	return keys[n-1], nil
}

// Catalog returns the reference data the resolver builds from
func (r *Resolver) Catalog() *catalog.Catalog {
	return r.catalog
}

// Proficiency returns the proficiency bonus for a challenge rating
func Proficiency(cr int) int {
	return 2 + max(cr-1, 0)/4
}

func (r *Resolver) template(key string) (catalog.EnemyTemplate, error) {
	if !strings.EqualFold(strings.TrimSpace(key), catalog.CustomTemplate) {
		if tmpl, ok := r.catalog.Template(key); ok {
			return tmpl, nil
		}
	}

	randomKey, err := r.RandomTemplateKey()
	if err != nil {
		return catalog.EnemyTemplate{}, err
	}
	if key != "" {
		slog.Debug("Template replaced with random choice",
			"requested", key,
			"template", randomKey,
		)
	}

	tmpl, _ := r.catalog.Template(randomKey)
	return tmpl, nil
}

func (r *Resolver) size(size combat.SizeClass) catalog.SizeModifier {
	if s, ok := r.catalog.Size(size); ok {
		return s
	}
	if s, ok := r.catalog.Size(combat.SizeMedium); ok {
		return s
	}
	return catalog.SizeModifier{Size: combat.SizeMedium, HitDie: 8}
}

// hitPoints uses the average roll of each hit die plus the constitution
// modifier, with at least one hit die and one hit point.
func hitPoints(cr, hitDie, conMod int) int {
	if hitDie <= 0 {
		hitDie = 8
	}
	count := max(cr, 1)
	return max(count*(hitDie/2+1+conMod), 1)
}

func attackAbility(tmpl catalog.EnemyTemplate) combat.Ability {
	if tmpl.AttackAbility == "" {
		return combat.AbilityStrength
	}
	return tmpl.AttackAbility
}

func nonNegative(s combat.Speeds) combat.Speeds {
	return combat.Speeds{
		Ground: max(s.Ground, 0),
		Climb:  max(s.Climb, 0),
		Swim:   max(s.Swim, 0),
		Fly:    max(s.Fly, 0),
	}
}
