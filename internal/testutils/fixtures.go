package testutils

import (
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// Default party used across fixtures
const (
	TestPlayerLevel = 5
	TestPartyLyra   = "pc_lyra"
	TestPartyBram   = "pc_bram"
	TestPartyTess   = "pc_tess"
)

// NewCombatActor creates a medium Normal enemy at full health with a plain stat block
func NewCombatActor(id, name string, hp int) *combat.CombatActor {
	return &combat.CombatActor{
		ID:               id,
		Name:             name,
		TemplateKey:      "Brute",
		Size:             combat.SizeMedium,
		Rank:             combat.RankNormal,
		ChallengeRating:  1,
		Archetype:        "Bipedal",
		Alignment:        combat.AlignmentEnemy,
		Abilities:        CreateTestAbilityScores(),
		CurrentHitPoints: hp,
		MaxHitPoints:     hp,
		ArmorClass:       12,
		AttackBonus:      4,
		AttackCount:      1,
		Damage:           combat.DamageDice{Count: 1, Size: 8, Bonus: 2},
		Speeds:           combat.Speeds{Ground: 30, Climb: 15, Swim: 15},
	}
}

// NewPartyMember creates a hideable party member with the given skill bonuses
func NewPartyMember(id, name string, skills map[string]int) *combat.PartyMember {
	return &combat.PartyMember{
		ID:                id,
		Name:              name,
		Level:             TestPlayerLevel,
		CurrentHitPoints:  30,
		MaxHitPoints:      30,
		DexterityModifier: 2,
		Skills:            skills,
		CanHide:           true,
	}
}

// CreateTestParty creates three hideable party members with no skill bonuses
func CreateTestParty() []*combat.PartyMember {
	return []*combat.PartyMember{
		NewPartyMember(TestPartyLyra, "Lyra", nil),
		NewPartyMember(TestPartyBram, "Bram", nil),
		NewPartyMember(TestPartyTess, "Tess", nil),
	}
}

// NewRegistryEntry creates a living registry entry with a Skirmisher profile
func NewRegistryEntry(id, name string, relationship int) *combat.RegistryEntry {
	return &combat.RegistryEntry{
		ID:           id,
		Name:         name,
		Relationship: relationship,
		Status:       combat.StatusAlive,
		IsEssential:  true,
		Profile: combat.CombatProfile{
			TemplateKey:     "Skirmisher",
			Size:            combat.SizeMedium,
			ChallengeRating: 3,
			Rank:            combat.RankNormal,
			Archetype:       "Bipedal",
		},
	}
}

// CreateTestAbilityScores creates standard array ability scores
func CreateTestAbilityScores() combat.AbilityScores {
	return combat.AbilityScores{
		Strength:     15,
		Dexterity:    14,
		Constitution: 13,
		Intelligence: 12,
		Wisdom:       10,
		Charisma:     8,
	}
}
