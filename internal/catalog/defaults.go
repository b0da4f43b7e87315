package catalog

import "github.com/KirkDiggler/rpg-combat/internal/entities/combat"

// Default returns the built-in reference data
func Default() *Catalog {
	return New(DefaultTemplates(), DefaultSizes(), DefaultArchetypes(), DefaultAffinities())
}

// DefaultTemplates returns the built-in enemy templates
func DefaultTemplates() []EnemyTemplate {
	return []EnemyTemplate{
		{
			Key:            "Brute",
			Description:    "Heavy hitter that soaks damage",
			AbilityBias:    combat.AbilityScores{Strength: 4, Dexterity: -1, Constitution: 3, Intelligence: -2, Charisma: -1},
			BaseArmorClass: 11,
			AttackAbility:  combat.AbilityStrength,
			BaseAttacks:    1,
			DamageDice:     1,
			DamageDieSize:  12,
			DamageType:     combat.DamageBludgeoning,
			SavingThrows:   []combat.Ability{combat.AbilityStrength, combat.AbilityConstitution},
		},
		{
			Key:            "Skirmisher",
			Description:    "Fast melee fighter that strikes often",
			AbilityBias:    combat.AbilityScores{Strength: 1, Dexterity: 4, Constitution: 1},
			BaseArmorClass: 13,
			AttackAbility:  combat.AbilityDexterity,
			BaseAttacks:    2,
			DamageDice:     1,
			DamageDieSize:  6,
			DamageType:     combat.DamageSlashing,
			SavingThrows:   []combat.Ability{combat.AbilityDexterity},
		},
		{
			Key:            "Archer",
			Description:    "Ranged attacker",
			AbilityBias:    combat.AbilityScores{Dexterity: 4, Wisdom: 2},
			BaseArmorClass: 12,
			AttackAbility:  combat.AbilityDexterity,
			BaseAttacks:    2,
			DamageDice:     1,
			DamageDieSize:  8,
			DamageType:     combat.DamagePiercing,
			SavingThrows:   []combat.Ability{combat.AbilityDexterity, combat.AbilityWisdom},
		},
		{
			Key:            "Caster",
			Description:    "Fragile spellcaster with strong burst damage",
			AbilityBias:    combat.AbilityScores{Strength: -2, Constitution: -1, Intelligence: 4, Wisdom: 2},
			BaseArmorClass: 10,
			AttackAbility:  combat.AbilityIntelligence,
			BaseAttacks:    1,
			DamageDice:     2,
			DamageDieSize:  6,
			DamageType:     combat.DamageForce,
			SavingThrows:   []combat.Ability{combat.AbilityIntelligence, combat.AbilityWisdom},
		},
		{
			Key:            "Defender",
			Description:    "Armored guardian",
			AbilityBias:    combat.AbilityScores{Strength: 2, Constitution: 4, Wisdom: 1},
			BaseArmorClass: 16,
			AttackAbility:  combat.AbilityStrength,
			BaseAttacks:    1,
			DamageDice:     1,
			DamageDieSize:  8,
			DamageType:     combat.DamageBludgeoning,
			SavingThrows:   []combat.Ability{combat.AbilityConstitution},
		},
		{
			Key:            CustomTemplate,
			Description:    "Placeholder resolved to a random template",
			BaseArmorClass: 10,
			AttackAbility:  combat.AbilityStrength,
			BaseAttacks:    1,
			DamageDice:     1,
			DamageDieSize:  6,
			DamageType:     combat.DamageBludgeoning,
		},
	}
}

// DefaultSizes returns the built-in size modifiers, smallest first
func DefaultSizes() []SizeModifier {
	return []SizeModifier{
		{Size: combat.SizeSmall, Strength: -2, Dexterity: 2, Constitution: -1, ArmorClass: 1, HitDie: 6},
		{Size: combat.SizeMedium, HitDie: 8},
		{Size: combat.SizeLarge, Strength: 2, Dexterity: -1, Constitution: 2, ArmorClass: -1, HitDie: 10},
		{Size: combat.SizeHuge, Strength: 4, Dexterity: -2, Constitution: 4, ArmorClass: -1, HitDie: 12},
		{Size: combat.SizeGargantuan, Strength: 6, Dexterity: -3, Constitution: 6, ArmorClass: -2, HitDie: 20},
		{Size: combat.SizeColossal, Strength: 8, Dexterity: -4, Constitution: 8, ArmorClass: -2, HitDie: 20},
	}
}

// DefaultArchetypes returns the built-in body plans
func DefaultArchetypes() []ArchetypeDefinition {
	return []ArchetypeDefinition{
		{Key: "Bipedal", Speeds: combat.Speeds{Ground: 30, Climb: 15, Swim: 15}},
		{Key: "Quadruped", Speeds: combat.Speeds{Ground: 40, Climb: 10, Swim: 20}},
		{Key: "Avian", Speeds: combat.Speeds{Ground: 20, Fly: 60}},
		{Key: "Aquatic", Speeds: combat.Speeds{Ground: 10, Swim: 40}},
		{Key: "Serpentine", Speeds: combat.Speeds{Ground: 30, Climb: 30, Swim: 30}},
		{Key: "Arachnid", Speeds: combat.Speeds{Ground: 30, Climb: 30}},
		{Key: "Amorphous", Speeds: combat.Speeds{Ground: 20, Climb: 20, Swim: 20}},
		{Key: "Vessel", Speeds: combat.Speeds{Swim: 40}},
	}
}

// DefaultAffinities returns the built-in damage affinities
func DefaultAffinities() []AffinityDefinition {
	return []AffinityDefinition{
		{
			Key:             "Infernal",
			Resistances:     []combat.DamageType{combat.DamageCold},
			Immunities:      []combat.DamageType{combat.DamageFire},
			Vulnerabilities: []combat.DamageType{combat.DamageRadiant},
		},
		{
			Key:             "Frost",
			Immunities:      []combat.DamageType{combat.DamageCold},
			Vulnerabilities: []combat.DamageType{combat.DamageFire},
		},
		{
			Key:             "Undead",
			Resistances:     []combat.DamageType{combat.DamageNecrotic},
			Immunities:      []combat.DamageType{combat.DamagePoison},
			Vulnerabilities: []combat.DamageType{combat.DamageRadiant},
		},
		{
			Key:         "Construct",
			Resistances: []combat.DamageType{combat.DamagePiercing, combat.DamageSlashing},
			Immunities:  []combat.DamageType{combat.DamagePoison, combat.DamagePsychic},
		},
		{
			Key:         "Storm",
			Resistances: []combat.DamageType{combat.DamageThunder},
			Immunities:  []combat.DamageType{combat.DamageLightning},
		},
		{
			Key:             "Celestial",
			Resistances:     []combat.DamageType{combat.DamageRadiant},
			Vulnerabilities: []combat.DamageType{combat.DamageNecrotic},
		},
		{
			Key:             "Plant",
			Resistances:     []combat.DamageType{combat.DamageBludgeoning, combat.DamagePiercing},
			Vulnerabilities: []combat.DamageType{combat.DamageFire},
		},
	}
}
