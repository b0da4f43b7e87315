package blueprint_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-combat/internal/testutils"
)

type ResolverTestSuite struct {
	suite.Suite
	roller   *testutils.ScriptedRoller
	resolver *blueprint.Resolver
}

func (s *ResolverTestSuite) SetupTest() {
	s.roller = testutils.NewScriptedRoller()

	var err error
	s.resolver, err = blueprint.NewResolver(&blueprint.Config{
		Catalog:     catalog.Default(),
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TestNewResolver_ValidatesConfig() {
	_, err := blueprint.NewResolver(&blueprint.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Catalog")
	s.Contains(err.Error(), "Roller")
	s.Contains(err.Error(), "IDGenerator")
}

func (s *ResolverTestSuite) TestResolve_NormalBrute() {
	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey:     "Brute",
		ChallengeRating: 5,
		Rank:            combat.RankNormal,
		Size:            combat.SizeMedium,
	})
	s.Require().NoError(err)

	s.Equal("brute_1", actor.ID)
	s.Equal("Brute", actor.Name)
	s.Equal(combat.AbilityScores{
		Strength: 14, Dexterity: 9, Constitution: 13,
		Intelligence: 8, Wisdom: 10, Charisma: 9,
	}, actor.Abilities)
	s.Equal(30, actor.MaxHitPoints)
	s.Equal(actor.MaxHitPoints, actor.CurrentHitPoints)
	s.Equal(11, actor.ArmorClass)
	s.Equal(5, actor.AttackBonus)
	s.Equal(2, actor.AttackCount)
	s.Equal(combat.DamageDice{Count: 2, Size: 12, Bonus: 2}, actor.Damage)
	s.Equal("2d12+2", actor.Damage.Notation())
	s.Equal(combat.Speeds{Ground: 30, Climb: 15, Swim: 15}, actor.Speeds)
	s.Equal(catalog.DefaultArchetype, actor.Archetype)
	s.Zero(s.roller.Remaining())
}

func (s *ResolverTestSuite) TestResolve_LargeBossBrute() {
	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey:     "Brute",
		ChallengeRating: 9,
		Rank:            combat.RankBoss,
		Size:            combat.SizeLarge,
	})
	s.Require().NoError(err)

	s.Equal(288, actor.MaxHitPoints)
	s.Equal(6, actor.AttackCount)
	s.Equal(12, actor.ArmorClass)
}

func (s *ResolverTestSuite) TestResolve_BossOutscalesNormalAtEveryRating() {
	for cr := 0; cr <= 30; cr++ {
		for _, size := range combat.AllSizes {
			normal, err := s.resolver.Resolve(&blueprint.ResolveInput{
				TemplateKey: "Caster", ChallengeRating: cr, Rank: combat.RankNormal, Size: size,
			})
			s.Require().NoError(err)

			boss, err := s.resolver.Resolve(&blueprint.ResolveInput{
				TemplateKey: "Caster", ChallengeRating: cr, Rank: combat.RankBoss, Size: size,
			})
			s.Require().NoError(err)

			s.Greater(boss.MaxHitPoints, normal.MaxHitPoints, "cr %d size %s", cr, size)
			s.Greater(boss.AttackCount, normal.AttackCount, "cr %d size %s", cr, size)
		}
	}
}

func (s *ResolverTestSuite) TestResolve_AlwaysPopulated() {
	for _, key := range catalog.Default().TemplateKeys() {
		for _, size := range combat.AllSizes {
			actor, err := s.resolver.Resolve(&blueprint.ResolveInput{
				TemplateKey: key, ChallengeRating: 0, Size: size, Archetype: "Vessel",
			})
			s.Require().NoError(err)

			s.Positive(actor.MaxHitPoints)
			s.Equal(actor.MaxHitPoints, actor.CurrentHitPoints)
			s.GreaterOrEqual(actor.ArmorClass, 0)
			s.GreaterOrEqual(actor.Speeds.Ground, 0)
			s.GreaterOrEqual(actor.Speeds.Climb, 0)
			s.GreaterOrEqual(actor.Speeds.Swim, 0)
			s.GreaterOrEqual(actor.Speeds.Fly, 0)
			s.Positive(actor.AttackCount)
			s.Positive(actor.Damage.Count)
			s.Positive(actor.Damage.Size)
			s.Equal(combat.RankNormal, actor.Rank)
		}
	}
}

func (s *ResolverTestSuite) TestResolve_CustomTemplateRollsRandomTemplate() {
	// Sorted keys: Archer, Brute, Caster, Defender, Skirmisher
	s.roller.Push(3)

	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{TemplateKey: "Custom", ChallengeRating: 1})
	s.Require().NoError(err)

	s.Equal("Caster", actor.TemplateKey)
	s.Equal([]int{5}, s.roller.Sizes())
}

func (s *ResolverTestSuite) TestResolve_UnknownTemplateRollsRandomTemplate() {
	s.roller.Push(5)

	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{TemplateKey: "Beholder"})
	s.Require().NoError(err)

	s.Equal("Skirmisher", actor.TemplateKey)
}

func (s *ResolverTestSuite) TestResolve_RollerFailureSurfaces() {
	_, err := s.resolver.Resolve(&blueprint.ResolveInput{TemplateKey: ""})
	s.Error(err)
}

func (s *ResolverTestSuite) TestResolve_KeepsSuppliedIdentity() {
	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey: "Archer",
		Name:        "  Captain Vex ",
		ID:          "npc_vex",
		Archetype:   "avian",
	})
	s.Require().NoError(err)

	s.Equal("npc_vex", actor.ID)
	s.Equal("Captain Vex", actor.Name)
	s.Equal("Avian", actor.Archetype)
	s.Equal(60, actor.Speeds.Fly)
}

func (s *ResolverTestSuite) TestResolve_UnknownSizeAndRankFallBack() {
	actor, err := s.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey: "Defender",
		Size:        "Planetary",
		Rank:        "Legendary",
	})
	s.Require().NoError(err)

	s.Equal(combat.SizeMedium, actor.Size)
	s.Equal(combat.RankNormal, actor.Rank)
}

func (s *ResolverTestSuite) TestRecalculateStats_KeepsIdentityAndHitPoints() {
	actor := &combat.CombatActor{
		ID:               "npc_mara",
		Name:             "Mara",
		Description:      "Harbor smuggler",
		TemplateKey:      "Skirmisher",
		Size:             combat.SizeMedium,
		Rank:             combat.RankElite,
		ChallengeRating:  4,
		Affinity:         "Frost",
		Abilities:        combat.AbilityScores{Dexterity: 18},
		CurrentHitPoints: 7,
		MaxHitPoints:     40,
		ArmorBonus:       2,
	}

	err := s.resolver.RecalculateStats(actor, 10)
	s.Require().NoError(err)

	s.Equal("npc_mara", actor.ID)
	s.Equal("Mara", actor.Name)
	s.Equal("Harbor smuggler", actor.Description)
	s.Equal(7, actor.CurrentHitPoints)
	s.Equal(40, actor.MaxHitPoints)

	s.Equal(10, actor.Abilities.Strength)
	s.Equal(18, actor.Abilities.Dexterity)
	// 13 base + 1 elite + 2 armor
	s.Equal(16, actor.ArmorClass)
	// proficiency 2 + dex 4
	s.Equal(6, actor.AttackBonus)
	s.Equal(4, actor.Damage.Bonus)
	s.Equal(4, actor.AttackCount)
	s.Equal([]combat.DamageType{combat.DamageCold}, actor.Immunities)
	s.Equal([]combat.DamageType{combat.DamageFire}, actor.Vulnerabilities)
}

func (s *ResolverTestSuite) TestRecalculateStats_NilActor() {
	err := s.resolver.RecalculateStats(nil, 10)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestApplyAffinity_Unknown() {
	actor := &combat.CombatActor{ID: "x"}

	s.False(s.resolver.ApplyAffinity(actor, "Chronal"))
	s.Empty(actor.Affinity)
	s.Empty(actor.Resistances)
}

func (s *ResolverTestSuite) TestProficiency() {
	s.Equal(2, blueprint.Proficiency(0))
	s.Equal(2, blueprint.Proficiency(4))
	s.Equal(3, blueprint.Proficiency(5))
	s.Equal(4, blueprint.Proficiency(9))
	s.Equal(9, blueprint.Proficiency(30))
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
