// Package combat contains the data model shared by the encounter core:
// combatants, suggestions, registry entries and party members.
package combat

import "strings"

// Rank is the power tier of a combatant
type Rank string

// Ranks
const (
	RankNormal Rank = "Normal"
	RankElite  Rank = "Elite"
	RankBoss   Rank = "Boss"
)

// IsValid reports whether r is a known rank
func (r Rank) IsValid() bool {
	switch r {
	case RankNormal, RankElite, RankBoss:
		return true
	default:
		return false
	}
}

// SizeClass is a creature size category
type SizeClass string

// Size classes, smallest first
const (
	SizeSmall      SizeClass = "Small"
	SizeMedium     SizeClass = "Medium"
	SizeLarge      SizeClass = "Large"
	SizeHuge       SizeClass = "Huge"
	SizeGargantuan SizeClass = "Gargantuan"
	SizeColossal   SizeClass = "Colossal"
)

// AllSizes lists every size class, smallest first
var AllSizes = []SizeClass{SizeSmall, SizeMedium, SizeLarge, SizeHuge, SizeGargantuan, SizeColossal}

// Alignment is the stance a combatant takes toward the party
type Alignment string

// Alignments. AlignmentUnset means nobody has classified the actor yet.
const (
	AlignmentUnset   Alignment = ""
	AlignmentEnemy   Alignment = "enemy"
	AlignmentAlly    Alignment = "ally"
	AlignmentNeutral Alignment = "neutral"
)

// ParseAlignment normalizes free text ("Ally", " enemy ") into an Alignment.
// Unknown values return AlignmentUnset and false.
func ParseAlignment(raw string) (Alignment, bool) {
	switch Alignment(strings.ToLower(strings.TrimSpace(raw))) {
	case AlignmentEnemy:
		return AlignmentEnemy, true
	case AlignmentAlly:
		return AlignmentAlly, true
	case AlignmentNeutral:
		return AlignmentNeutral, true
	default:
		return AlignmentUnset, false
	}
}

// IsUndecided reports whether the alignment still needs classification
func (a Alignment) IsUndecided() bool {
	return a == AlignmentUnset || a == AlignmentNeutral
}

// Ability is one of the six ability scores
type Ability string

// Abilities
const (
	AbilityStrength     Ability = "STR"
	AbilityDexterity    Ability = "DEX"
	AbilityConstitution Ability = "CON"
	AbilityIntelligence Ability = "INT"
	AbilityWisdom       Ability = "WIS"
	AbilityCharisma     Ability = "CHA"
)

// DamageType tags a kind of damage for resistance checks
type DamageType string

// Damage types
const (
	DamageAcid        DamageType = "acid"
	DamageBludgeoning DamageType = "bludgeoning"
	DamageCold        DamageType = "cold"
	DamageFire        DamageType = "fire"
	DamageForce       DamageType = "force"
	DamageLightning   DamageType = "lightning"
	DamageNecrotic    DamageType = "necrotic"
	DamagePiercing    DamageType = "piercing"
	DamagePoison      DamageType = "poison"
	DamagePsychic     DamageType = "psychic"
	DamageRadiant     DamageType = "radiant"
	DamageSlashing    DamageType = "slashing"
	DamageThunder     DamageType = "thunder"
)

// ContainsDamageType reports whether list holds t, ignoring case
func ContainsDamageType(list []DamageType, t DamageType) bool {
	for _, d := range list {
		if strings.EqualFold(string(d), string(t)) {
			return true
		}
	}
	return false
}

// MergeDamageTypes returns the union of a and b, keeping first-seen order
func MergeDamageTypes(a, b []DamageType) []DamageType {
	out := make([]DamageType, 0, len(a)+len(b))
	for _, list := range [][]DamageType{a, b} {
		for _, d := range list {
			if !ContainsDamageType(out, d) {
				out = append(out, d)
			}
		}
	}
	return out
}

// LifeStatus is the life state of a registry entry
type LifeStatus string

// Life statuses
const (
	StatusAlive LifeStatus = "Alive"
	StatusDead  LifeStatus = "Dead"
)

// Entity types reported through core.Entity
const (
	EntityTypeCombatant   = "combatant"
	EntityTypePartyMember = "party_member"
)
