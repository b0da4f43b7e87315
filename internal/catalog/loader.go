package catalog

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// File is the on-disk shape of a world catalog. Sections left empty keep
// the built-in defaults.
type File struct {
	Templates  []EnemyTemplate       `yaml:"templates"`
	Sizes      []SizeModifier        `yaml:"sizes"`
	Archetypes []ArchetypeDefinition `yaml:"archetypes"`
	Affinities []AffinityDefinition  `yaml:"affinities"`
}

// Validate checks the catalog sections for unusable entries
func (f *File) Validate() error {
	vb := errors.NewValidationBuilder()

	for i, t := range f.Templates {
		if strings.TrimSpace(t.Key) == "" {
			vb.Fieldf("templates", "entry %d: key is required", i)
		}
		if t.DamageDieSize <= 0 {
			vb.Fieldf("templates", "%s: damage_die must be positive", t.Key)
		}
		if t.BaseAttacks < 0 {
			vb.Fieldf("templates", "%s: base_attacks must not be negative", t.Key)
		}
	}

	for _, s := range f.Sizes {
		if !isKnownSize(s.Size) {
			vb.Fieldf("sizes", "unknown size %q", s.Size)
		}
		if s.HitDie <= 0 {
			vb.Fieldf("sizes", "%s: hit_die must be positive", s.Size)
		}
	}

	for i, a := range f.Archetypes {
		if strings.TrimSpace(a.Key) == "" {
			vb.Fieldf("archetypes", "entry %d: key is required", i)
		}
	}

	for i, a := range f.Affinities {
		if strings.TrimSpace(a.Key) == "" {
			vb.Fieldf("affinities", "entry %d: key is required", i)
			continue
		}
		for _, d := range a.Resistances {
			if combat.ContainsDamageType(a.Immunities, d) && combat.ContainsDamageType(a.Vulnerabilities, d) {
				vb.Fieldf("affinities", "%s: %s is resisted, immune and vulnerable", a.Key, d)
			}
		}
	}

	return vb.Build()
}

// Load decodes a catalog from r, rejecting unknown fields
func Load(r io.Reader) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "failed to decode catalog")
	}

	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid catalog")
	}

	if len(f.Templates) == 0 {
		f.Templates = DefaultTemplates()
	}
	if !hasCustom(f.Templates) {
		f.Templates = append(f.Templates, customTemplate())
	}
	if len(f.Sizes) == 0 {
		f.Sizes = DefaultSizes()
	}
	if len(f.Archetypes) == 0 {
		f.Archetypes = DefaultArchetypes()
	}
	if !hasKey(f.Archetypes, DefaultArchetype) {
		f.Archetypes = append(f.Archetypes, DefaultArchetypes()[0])
	}
	if len(f.Affinities) == 0 {
		f.Affinities = DefaultAffinities()
	}

	return New(f.Templates, f.Sizes, f.Archetypes, f.Affinities), nil
}

// LoadFile reads a catalog from a YAML file. An empty path returns the defaults.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "failed to open catalog file")
	}
	defer func() {
		_ = file.Close()
	}()

	return Load(file)
}

func isKnownSize(size combat.SizeClass) bool {
	for _, s := range combat.AllSizes {
		if s == size {
			return true
		}
	}
	return false
}

func hasCustom(templates []EnemyTemplate) bool {
	for _, t := range templates {
		if strings.EqualFold(t.Key, CustomTemplate) {
			return true
		}
	}
	return false
}

func hasKey(archetypes []ArchetypeDefinition, key string) bool {
	for _, a := range archetypes {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func customTemplate() EnemyTemplate {
	for _, t := range DefaultTemplates() {
		if t.Key == CustomTemplate {
			return t
		}
	}
	return EnemyTemplate{Key: CustomTemplate, BaseArmorClass: 10, BaseAttacks: 1, DamageDice: 1, DamageDieSize: 6}
}
