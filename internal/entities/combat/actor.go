package combat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// AbilityScores holds the six ability scores
type AbilityScores struct {
	Strength     int `json:"str" yaml:"str"`
	Dexterity    int `json:"dex" yaml:"dex"`
	Constitution int `json:"con" yaml:"con"`
	Intelligence int `json:"int" yaml:"int"`
	Wisdom       int `json:"wis" yaml:"wis"`
	Charisma     int `json:"cha" yaml:"cha"`
}

// Get returns the score for an ability
func (s AbilityScores) Get(a Ability) int {
	switch a {
	case AbilityStrength:
		return s.Strength
	case AbilityDexterity:
		return s.Dexterity
	case AbilityConstitution:
		return s.Constitution
	case AbilityIntelligence:
		return s.Intelligence
	case AbilityWisdom:
		return s.Wisdom
	case AbilityCharisma:
		return s.Charisma
	default:
		return 0
	}
}

// Add returns s with every score increased by the matching score in o
func (s AbilityScores) Add(o AbilityScores) AbilityScores {
	return AbilityScores{
		Strength:     s.Strength + o.Strength,
		Dexterity:    s.Dexterity + o.Dexterity,
		Constitution: s.Constitution + o.Constitution,
		Intelligence: s.Intelligence + o.Intelligence,
		Wisdom:       s.Wisdom + o.Wisdom,
		Charisma:     s.Charisma + o.Charisma,
	}
}

// FillZero replaces any zero score with base
func (s AbilityScores) FillZero(base int) AbilityScores {
	fill := func(v int) int {
		if v == 0 {
			return base
		}
		return v
	}
	return AbilityScores{
		Strength:     fill(s.Strength),
		Dexterity:    fill(s.Dexterity),
		Constitution: fill(s.Constitution),
		Intelligence: fill(s.Intelligence),
		Wisdom:       fill(s.Wisdom),
		Charisma:     fill(s.Charisma),
	}
}

// Floor raises every score to at least minimum
func (s AbilityScores) Floor(minimum int) AbilityScores {
	return AbilityScores{
		Strength:     max(s.Strength, minimum),
		Dexterity:    max(s.Dexterity, minimum),
		Constitution: max(s.Constitution, minimum),
		Intelligence: max(s.Intelligence, minimum),
		Wisdom:       max(s.Wisdom, minimum),
		Charisma:     max(s.Charisma, minimum),
	}
}

// AbilityModifier computes floor((score - 10) / 2)
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Speeds holds movement speed in feet per medium
type Speeds struct {
	Ground int `json:"ground" yaml:"ground"`
	Climb  int `json:"climb" yaml:"climb"`
	Swim   int `json:"swim" yaml:"swim"`
	Fly    int `json:"fly" yaml:"fly"`
}

// DamageDice describes an attack's damage roll
type DamageDice struct {
	Count int `json:"count"`
	Size  int `json:"size"`
	Bonus int `json:"bonus"`
}

// Notation renders the dice as NdS+M
func (d DamageDice) Notation() string {
	switch {
	case d.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", d.Count, d.Size, d.Bonus)
	case d.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", d.Count, d.Size, d.Bonus)
	default:
		return fmt.Sprintf("%dd%d", d.Count, d.Size)
	}
}

// Defenses groups the damage type sets of an actor
type Defenses struct {
	Resistances     []DamageType `json:"resistances,omitempty"`
	Immunities      []DamageType `json:"immunities,omitempty"`
	Vulnerabilities []DamageType `json:"vulnerabilities,omitempty"`
}

// CombatActor is a staged combatant
type CombatActor struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	TemplateKey     string        `json:"template"`
	Size            SizeClass     `json:"size"`
	Rank            Rank          `json:"rank"`
	ChallengeRating int           `json:"challenge_rating"`
	Archetype       string        `json:"archetype"`
	Affinity        string        `json:"affinity,omitempty"`
	Alignment       Alignment     `json:"alignment"`
	Abilities       AbilityScores `json:"abilities"`
	SavingThrows    []Ability     `json:"saving_throws,omitempty"`

	CurrentHitPoints int `json:"current_hp"`
	MaxHitPoints     int `json:"max_hp"`
	ArmorClass       int `json:"ac"`
	// ArmorBonus is AC granted by equipment or spells, kept separate so
	// recalculation does not lose it.
	ArmorBonus  int        `json:"armor_bonus,omitempty"`
	AttackBonus int        `json:"attack_bonus"`
	AttackCount int        `json:"attack_count"`
	Damage      DamageDice `json:"damage"`
	Speeds      Speeds     `json:"speeds"`

	Defenses

	IsShip      bool `json:"is_ship,omitempty"`
	IsMount     bool `json:"is_mount,omitempty"`
	IsSentient  bool `json:"is_sentient,omitempty"`
	IsEssential bool `json:"is_essential,omitempty"`
}

// GetID returns the actor identity
func (a *CombatActor) GetID() string {
	return a.ID
}

// GetType returns the entity type for rpg-toolkit
func (a *CombatActor) GetType() string {
	return EntityTypeCombatant
}

// IsDead reports whether the actor is at or below zero hit points
func (a *CombatActor) IsDead() bool {
	return a.CurrentHitPoints <= 0
}

// Clone returns a deep copy of the actor
func (a *CombatActor) Clone() *CombatActor {
	if a == nil {
		return nil
	}
	out := *a
	out.SavingThrows = append([]Ability(nil), a.SavingThrows...)
	out.Resistances = append([]DamageType(nil), a.Resistances...)
	out.Immunities = append([]DamageType(nil), a.Immunities...)
	out.Vulnerabilities = append([]DamageType(nil), a.Vulnerabilities...)
	return &out
}

// SetHitPoints clamps hp to [0, MaxHitPoints] and stores it
func (a *CombatActor) SetHitPoints(hp int) {
	a.CurrentHitPoints = min(max(hp, 0), a.MaxHitPoints)
}

var numericSuffix = regexp.MustCompile(`\s(\d+)$`)

// HasNumericSuffix reports whether a display name carries the " N" suffix used
// for generic, disposable actors ("Goblin 2").
func HasNumericSuffix(name string) bool {
	return numericSuffix.MatchString(strings.TrimSpace(name))
}

// BaseName strips a numeric disambiguation suffix from a display name
func BaseName(name string) string {
	return strings.TrimSpace(numericSuffix.ReplaceAllString(strings.TrimSpace(name), ""))
}

// Compile-time check that CombatActor implements core.Entity
var _ core.Entity = (*CombatActor)(nil)
