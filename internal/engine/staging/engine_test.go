package staging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-combat/internal/testutils"
	"github.com/KirkDiggler/rpg-combat/internal/testutils/builders"
)

type EngineTestSuite struct {
	suite.Suite
	ctx      context.Context
	roller   *testutils.ScriptedRoller
	recorder *mutation.Recorder
	resolver *blueprint.Resolver
	engine   *staging.Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = testutils.NewScriptedRoller()
	s.recorder = mutation.NewRecorder()

	var err error
	s.resolver, err = blueprint.NewResolver(&blueprint.Config{
		Catalog:     catalog.Default(),
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)

	s.engine, err = staging.NewEngine(&staging.Config{
		Resolver: s.resolver,
		Sink:     s.recorder,
	})
	s.Require().NoError(err)
}

func (s *EngineTestSuite) stage(input *staging.StageInput) *staging.StageOutput {
	if input.PlayerLevel == 0 {
		input.PlayerLevel = testutils.TestPlayerLevel
	}
	out, err := s.engine.Stage(s.ctx, input)
	s.Require().NoError(err)
	return out
}

func (s *EngineTestSuite) TestNewEngine_ValidatesConfig() {
	_, err := staging.NewEngine(&staging.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Resolver")
	s.Contains(err.Error(), "Sink")
}

func (s *EngineTestSuite) TestStage_BossBruteAgainstLevelFiveParty() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().
				WithTemplate("Brute").
				WithDifficulty("Boss").
				WithSize("Large").
				Build(),
		},
	})

	s.Require().Len(out.Actors, 1)
	boss := out.Actors[0]
	s.Equal(combat.RankBoss, boss.Rank)
	s.Equal(9, boss.ChallengeRating)
	s.Equal(combat.SizeLarge, boss.Size)

	normal, err := s.resolver.Resolve(&blueprint.ResolveInput{
		TemplateKey:     "Brute",
		ChallengeRating: 5,
		Rank:            combat.RankNormal,
		Size:            combat.SizeLarge,
	})
	s.Require().NoError(err)
	s.Greater(boss.MaxHitPoints, normal.MaxHitPoints)
	s.Greater(boss.AttackCount, normal.AttackCount)

	s.Equal([]mutation.Type{mutation.TypeAddCombatEnemy, mutation.TypeAddNPC}, s.recorder.Types())
	s.Equal(out.Mutations, s.recorder.Mutations())
}

func (s *EngineTestSuite) TestStage_SameIdentityTwiceInOneCall() {
	suggestion := builders.NewSuggestionBuilder().WithID("ogre_chief").WithTemplate("Brute").Build()

	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{suggestion, suggestion},
	})

	s.Require().Len(out.Actors, 1)
	s.Equal("ogre_chief", out.Actors[0].ID)
	s.Require().Len(out.Skipped, 1)
	s.Equal(staging.Skipped{Index: 1, ID: "ogre_chief", Reason: staging.SkipAlreadyPresent}, out.Skipped[0])
}

func (s *EngineTestSuite) TestStage_SkipsIdentityAlreadyPresent() {
	existing := testutils.NewCombatActor("goblin_boss", "Grik", 12)

	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithID("goblin_boss").WithName("Grik").Build(),
		},
		ExistingEnemies: []*combat.CombatActor{existing},
	})

	s.Empty(out.Actors)
	s.Empty(s.recorder.Mutations())
}

func (s *EngineTestSuite) TestStage_SkipsDeadRegistryEntry() {
	dead := testutils.NewRegistryEntry("npc_vex", "Vex", -60)
	dead.Status = combat.StatusDead

	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("vex").WithDifficulty("Boss").Build(),
			builders.NewSuggestionBuilder().WithID("npc_vex").Build(),
		},
		Registry: []*combat.RegistryEntry{dead},
	})

	s.Empty(out.Actors)
	s.Require().Len(out.Skipped, 2)
	s.Equal(staging.SkipDead, out.Skipped[0].Reason)
	s.Equal(staging.SkipDead, out.Skipped[1].Reason)
	s.Empty(s.recorder.Mutations())
}

func (s *EngineTestSuite) TestStage_RegistryReferenceKeepsIdentity() {
	entry := testutils.NewRegistryEntry("npc_vex", "Vex", -40)
	entry.Description = "A smuggler with a grudge"
	entry.Profile.ArmorBonus = 2
	entry.Profile.Affinity = "Frost"

	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("VEX").Build(),
		},
		Registry: []*combat.RegistryEntry{entry},
	})

	s.Require().Len(out.Actors, 1)
	actor := out.Actors[0]
	s.Equal("npc_vex", actor.ID)
	s.Equal("Vex", actor.Name)
	s.Equal("A smuggler with a grudge", actor.Description)
	s.Equal("Skirmisher", actor.TemplateKey)
	s.Equal(3, actor.ChallengeRating)
	s.True(actor.IsEssential)
	// Skirmisher base 13 plus the registry armor bonus
	s.Equal(15, actor.ArmorClass)
	s.Contains(actor.Immunities, combat.DamageCold)

	s.Equal([]mutation.Type{mutation.TypeAddCombatEnemy}, s.recorder.Types())
}

func (s *EngineTestSuite) TestStage_SanitizesSize() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Brute").WithSize("large").Build(),
			builders.NewSuggestionBuilder().WithTemplate("Brute").WithSize("titanic").Build(),
			builders.NewSuggestionBuilder().WithTemplate("Brute").Build(),
		},
	})

	s.Require().Len(out.Actors, 3)
	s.Equal(combat.SizeLarge, out.Actors[0].Size)
	s.Equal(combat.SizeMedium, out.Actors[1].Size)
	s.Equal(combat.SizeMedium, out.Actors[2].Size)
}

func (s *EngineTestSuite) TestStage_CustomTemplatePicksRandomTemplate() {
	// Sorted keys: Archer, Brute, Caster, Defender, Skirmisher
	s.roller.Push(3)

	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Custom").WithName("Hedge Witch").Build(),
		},
	})

	s.Require().Len(out.Actors, 1)
	s.Equal("Caster", out.Actors[0].TemplateKey)
	s.Equal([]int{5}, s.roller.Sizes())
}

func (s *EngineTestSuite) TestStage_PlaceholderNameFallsBackToTemplate() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Archer").WithName("[REPLACE WITH NAME]").Build(),
		},
	})

	s.Require().Len(out.Actors, 1)
	s.Equal("Archer", out.Actors[0].Name)
	s.False(out.Actors[0].IsEssential)
}

func (s *EngineTestSuite) TestStage_DisambiguatesNames() {
	existing := testutils.NewCombatActor("goblin_1", "Goblin", 7)
	goblin := builders.NewSuggestionBuilder().WithTemplate("Skirmisher").WithName("Goblin").Build()

	out := s.stage(&staging.StageInput{
		Suggestions:     []combat.ActorSuggestion{goblin, goblin, goblin},
		ExistingEnemies: []*combat.CombatActor{existing},
	})

	s.Require().Len(out.Actors, 3)
	s.Equal("Goblin 2", out.Actors[0].Name)
	s.Equal("Goblin 3", out.Actors[1].Name)
	s.Equal("Goblin 4", out.Actors[2].Name)
	for _, a := range out.Actors {
		s.False(a.IsEssential, a.Name)
	}
}

func (s *EngineTestSuite) TestStage_FirstOfANameIsEssential() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Brute").WithName("Ogre").Build(),
			builders.NewSuggestionBuilder().WithTemplate("Brute").WithName("Ogre").Build(),
		},
	})

	s.Require().Len(out.Actors, 2)
	s.Equal("Ogre", out.Actors[0].Name)
	s.True(out.Actors[0].IsEssential)
	s.Equal("Ogre 2", out.Actors[1].Name)
	s.False(out.Actors[1].IsEssential)
}

func (s *EngineTestSuite) TestStage_Stance() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Defender").WithAlignment("Ally").WithIsAlly(false).Build(),
			builders.NewSuggestionBuilder().WithTemplate("Defender").WithIsAlly(true).Build(),
			builders.NewSuggestionBuilder().WithTemplate("Defender").WithIsAlly(false).Build(),
			builders.NewSuggestionBuilder().WithTemplate("Defender").Build(),
			builders.NewSuggestionBuilder().WithTemplate("Defender").WithAlignment(combat.AlignmentNeutral).Build(),
		},
	})

	s.Require().Len(out.Actors, 5)
	s.Equal(combat.AlignmentAlly, out.Actors[0].Alignment)
	s.Equal(combat.AlignmentAlly, out.Actors[1].Alignment)
	s.Equal(combat.AlignmentEnemy, out.Actors[2].Alignment)
	s.Equal(combat.AlignmentEnemy, out.Actors[3].Alignment)
	s.Equal(combat.AlignmentNeutral, out.Actors[4].Alignment)

	// Only hostiles are registered
	s.Len(s.recorder.OfType(mutation.TypeAddNPC), 2)
	s.Len(s.recorder.OfType(mutation.TypeAddCombatEnemy), 5)
}

func (s *EngineTestSuite) TestStage_ShipsDoubleHitPointsAndAttacks() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Brute").Build(),
			builders.NewSuggestionBuilder().WithTemplate("Brute").AsShip().Build(),
		},
	})

	s.Require().Len(out.Actors, 2)
	plain, ship := out.Actors[0], out.Actors[1]
	s.True(ship.IsShip)
	s.Equal(plain.MaxHitPoints*2, ship.MaxHitPoints)
	s.Equal(ship.MaxHitPoints, ship.CurrentHitPoints)
	s.Equal(plain.AttackCount*2, ship.AttackCount)
	s.Equal(staging.ShipArchetype, ship.Archetype)
}

func (s *EngineTestSuite) TestStage_AppliesAffinity() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Caster").WithAffinity("infernal").Build(),
		},
	})

	s.Require().Len(out.Actors, 1)
	actor := out.Actors[0]
	s.Equal("Infernal", actor.Affinity)
	s.Equal([]combat.DamageType{combat.DamageFire}, actor.Immunities)
	s.Equal([]combat.DamageType{combat.DamageCold}, actor.Resistances)
	s.Equal([]combat.DamageType{combat.DamageRadiant}, actor.Vulnerabilities)
}

func (s *EngineTestSuite) TestStage_ExplicitChallengeRatingWins() {
	out := s.stage(&staging.StageInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithTemplate("Brute").WithDifficulty("Elite").WithChallengeRating(2).Build(),
		},
	})

	s.Require().Len(out.Actors, 1)
	s.Equal(2, out.Actors[0].ChallengeRating)
	s.Equal(combat.RankElite, out.Actors[0].Rank)
}

func (s *EngineTestSuite) TestStage_SinkFailure() {
	engine, err := staging.NewEngine(&staging.Config{
		Resolver: s.resolver,
		Sink: mutation.SinkFunc(func(context.Context, mutation.Mutation) error {
			return errors.Unavailable("store offline")
		}),
	})
	s.Require().NoError(err)

	_, err = engine.Stage(s.ctx, &staging.StageInput{
		Suggestions: []combat.ActorSuggestion{builders.NewSuggestionBuilder().WithTemplate("Brute").Build()},
	})
	s.True(errors.IsUnavailable(err))
}

func (s *EngineTestSuite) TestStage_NilInput() {
	_, err := s.engine.Stage(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
