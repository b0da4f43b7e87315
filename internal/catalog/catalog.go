// Package catalog holds the reference data combatants are built from:
// enemy templates, size modifiers, archetypes and affinities.
package catalog

import (
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// CustomTemplate is the placeholder key that always triggers a random template
const CustomTemplate = "Custom"

// DefaultArchetype is used when no archetype is given or the given one is unknown
const DefaultArchetype = "Bipedal"

// EnemyTemplate is a named stat archetype applied before size and rank scaling
type EnemyTemplate struct {
	Key            string               `yaml:"key"`
	Description    string               `yaml:"description"`
	AbilityBias    combat.AbilityScores `yaml:"ability_bias"`
	BaseArmorClass int                  `yaml:"base_ac"`
	AttackAbility  combat.Ability       `yaml:"attack_ability"`
	BaseAttacks    int                  `yaml:"base_attacks"`
	DamageDice     int                  `yaml:"damage_dice"`
	DamageDieSize  int                  `yaml:"damage_die"`
	DamageType     combat.DamageType    `yaml:"damage_type"`
	SavingThrows   []combat.Ability     `yaml:"saving_throws"`
}

// SizeModifier holds the additive modifiers for one size class
type SizeModifier struct {
	Size         combat.SizeClass `yaml:"size"`
	Strength     int              `yaml:"str"`
	Dexterity    int              `yaml:"dex"`
	Constitution int              `yaml:"con"`
	ArmorClass   int              `yaml:"ac"`
	HitDie       int              `yaml:"hit_die"`
}

// ArchetypeDefinition supplies base movement speeds for a body plan
type ArchetypeDefinition struct {
	Key    string        `yaml:"key"`
	Speeds combat.Speeds `yaml:"speeds"`
}

// AffinityDefinition supplies the damage type sets an actor inherits
type AffinityDefinition struct {
	Key             string              `yaml:"key"`
	Resistances     []combat.DamageType `yaml:"resistances"`
	Immunities      []combat.DamageType `yaml:"immunities"`
	Vulnerabilities []combat.DamageType `yaml:"vulnerabilities"`
}

// Defenses converts the affinity into actor defenses
func (a AffinityDefinition) Defenses() combat.Defenses {
	return combat.Defenses{
		Resistances:     append([]combat.DamageType(nil), a.Resistances...),
		Immunities:      append([]combat.DamageType(nil), a.Immunities...),
		Vulnerabilities: append([]combat.DamageType(nil), a.Vulnerabilities...),
	}
}

// Catalog is the immutable reference data for one world
type Catalog struct {
	templates  map[string]EnemyTemplate
	sizes      map[combat.SizeClass]SizeModifier
	archetypes map[string]ArchetypeDefinition
	affinities map[string]AffinityDefinition

	templateKeys []string
}

// New builds a catalog from explicit definitions
func New(templates []EnemyTemplate, sizes []SizeModifier, archetypes []ArchetypeDefinition, affinities []AffinityDefinition) *Catalog {
	c := &Catalog{
		templates:  make(map[string]EnemyTemplate, len(templates)),
		sizes:      make(map[combat.SizeClass]SizeModifier, len(sizes)),
		archetypes: make(map[string]ArchetypeDefinition, len(archetypes)),
		affinities: make(map[string]AffinityDefinition, len(affinities)),
	}

	for _, t := range templates {
		c.templates[normalize(t.Key)] = t
		if !strings.EqualFold(t.Key, CustomTemplate) {
			c.templateKeys = append(c.templateKeys, t.Key)
		}
	}
	sort.Strings(c.templateKeys)

	for _, s := range sizes {
		c.sizes[s.Size] = s
	}
	for _, a := range archetypes {
		c.archetypes[normalize(a.Key)] = a
	}
	for _, a := range affinities {
		c.affinities[normalize(a.Key)] = a
	}

	return c
}

// Template looks up a template by key, ignoring case
func (c *Catalog) Template(key string) (EnemyTemplate, bool) {
	t, ok := c.templates[normalize(key)]
	return t, ok
}

// TemplateKeys returns the sorted keys of every non-Custom template
func (c *Catalog) TemplateKeys() []string {
	return append([]string(nil), c.templateKeys...)
}

// Size returns the modifier for a size class
func (c *Catalog) Size(size combat.SizeClass) (SizeModifier, bool) {
	s, ok := c.sizes[size]
	return s, ok
}

// ParseSize title-cases raw and accepts it only if it names a known size
func (c *Catalog) ParseSize(raw string) (combat.SizeClass, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	titled := combat.SizeClass(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
	if _, ok := c.sizes[titled]; !ok {
		return "", false
	}
	return titled, true
}

// Archetype looks up an archetype, falling back to Bipedal. The boolean
// reports whether the requested key was found.
func (c *Catalog) Archetype(key string) (ArchetypeDefinition, bool) {
	if a, ok := c.archetypes[normalize(key)]; ok {
		return a, true
	}
	return c.archetypes[normalize(DefaultArchetype)], false
}

// Affinity looks up an affinity by key, ignoring case
func (c *Catalog) Affinity(key string) (AffinityDefinition, bool) {
	a, ok := c.affinities[normalize(key)]
	return a, ok
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
