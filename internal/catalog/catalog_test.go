package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
}

func (s *CatalogTestSuite) SetupTest() {
	s.catalog = catalog.Default()
}

func (s *CatalogTestSuite) TestTemplateKeys_ExcludeCustomAndAreSorted() {
	keys := s.catalog.TemplateKeys()

	s.Equal([]string{"Archer", "Brute", "Caster", "Defender", "Skirmisher"}, keys)
}

func (s *CatalogTestSuite) TestTemplate_IgnoresCase() {
	tmpl, ok := s.catalog.Template("brute")
	s.Require().True(ok)
	s.Equal("Brute", tmpl.Key)

	_, ok = s.catalog.Template("Dragon")
	s.False(ok)
}

func (s *CatalogTestSuite) TestParseSize() {
	size, ok := s.catalog.ParseSize("lARGE")
	s.True(ok)
	s.Equal(combat.SizeLarge, size)

	_, ok = s.catalog.ParseSize("Enormous")
	s.False(ok)

	_, ok = s.catalog.ParseSize("  ")
	s.False(ok)
}

func (s *CatalogTestSuite) TestArchetype_FallsBackToBipedal() {
	a, ok := s.catalog.Archetype("Avian")
	s.True(ok)
	s.Equal(60, a.Speeds.Fly)

	a, ok = s.catalog.Archetype("Tentacled")
	s.False(ok)
	s.Equal(catalog.DefaultArchetype, a.Key)
	s.Equal(30, a.Speeds.Ground)
}

func (s *CatalogTestSuite) TestAffinity_Defenses() {
	a, ok := s.catalog.Affinity("infernal")
	s.Require().True(ok)

	d := a.Defenses()
	s.Equal([]combat.DamageType{combat.DamageFire}, d.Immunities)
	s.Equal([]combat.DamageType{combat.DamageCold}, d.Resistances)
}

func (s *CatalogTestSuite) TestLoad_OverridesSectionAndKeepsDefaults() {
	doc := `
templates:
  - key: Swarm
    ability_bias: {dex: 3, con: -1}
    base_ac: 12
    attack_ability: DEX
    base_attacks: 3
    damage_dice: 1
    damage_die: 4
    damage_type: piercing
`
	c, err := catalog.Load(strings.NewReader(doc))
	s.Require().NoError(err)

	s.Equal([]string{"Swarm"}, c.TemplateKeys())

	_, ok := c.Template(catalog.CustomTemplate)
	s.True(ok, "custom placeholder is always present")

	_, ok = c.Size(combat.SizeHuge)
	s.True(ok, "sizes fall back to defaults")
}

func (s *CatalogTestSuite) TestLoad_RejectsUnknownFields() {
	doc := `
templates:
  - key: Swarm
    damage_die: 4
    hit_points: 12
`
	_, err := catalog.Load(strings.NewReader(doc))
	s.Require().Error(err)
	s.True(errors.IsConfiguration(err))
}

func (s *CatalogTestSuite) TestLoad_ValidatesEntries() {
	doc := `
sizes:
  - size: Tiny
    hit_die: 4
affinities:
  - key: Paradox
    resistances: [fire]
    immunities: [fire]
    vulnerabilities: [fire]
`
	_, err := catalog.Load(strings.NewReader(doc))
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "unknown size")
	s.Contains(err.Error(), "Paradox")
}

func (s *CatalogTestSuite) TestLoad_EmptyDocumentIsDefault() {
	c, err := catalog.Load(strings.NewReader(""))
	s.Require().NoError(err)
	s.Equal(s.catalog.TemplateKeys(), c.TemplateKeys())
}

func (s *CatalogTestSuite) TestLoadFile_EmptyPath() {
	c, err := catalog.LoadFile("")
	s.Require().NoError(err)
	s.NotEmpty(c.TemplateKeys())
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
