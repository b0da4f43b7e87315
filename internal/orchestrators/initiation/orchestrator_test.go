package initiation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative"
	narrativemock "github.com/KirkDiggler/rpg-combat/internal/clients/narrative/mock"
	"github.com/KirkDiggler/rpg-combat/internal/encounter"
	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/engine/turnorder"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
	"github.com/KirkDiggler/rpg-combat/internal/orchestrators/initiation"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-combat/internal/repositories/registry"
	"github.com/KirkDiggler/rpg-combat/internal/testutils"
	"github.com/KirkDiggler/rpg-combat/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-combat/internal/testutils/mocks"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	narrator  *narrativemock.MockService
	roller    *testutils.ScriptedRoller
	clock     *clock.Fixed
	reader    *sdkmetric.ManualReader
	bus       events.EventBus
	store     *encounter.Store
	engine    *staging.Engine
	registry  *registry.InMemoryRepository
	orch      initiation.Service
	mu        sync.Mutex
	published []mutation.Mutation
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.narrator = narrativemock.NewMockService(s.ctrl)
	s.roller = testutils.NewScriptedRoller()
	s.clock = clock.NewFixed(epoch)
	s.registry = registry.NewInMemory()
	s.published = nil

	s.reader = sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(s.reader))
	s.T().Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	s.bus = events.NewBus()
	for _, t := range mutation.AllTypes {
		s.bus.SubscribeFunc(string(t), 0, func(_ context.Context, evt events.Event) error {
			if m, ok := encounter.MutationFrom(evt); ok {
				s.mu.Lock()
				s.published = append(s.published, m)
				s.mu.Unlock()
			}
			return nil
		})
	}

	var err error
	s.store, err = encounter.NewStore(&encounter.Config{EncounterID: "enc_1", EventBus: s.bus})
	s.Require().NoError(err)

	resolver, err := blueprint.NewResolver(&blueprint.Config{
		Catalog:     catalog.Default(),
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)

	s.engine, err = staging.NewEngine(&staging.Config{Resolver: resolver, Sink: s.store})
	s.Require().NoError(err)

	s.orch, err = initiation.NewOrchestrator(&initiation.Config{
		Narrative:     s.narrator,
		Staging:       s.engine,
		Store:         s.store,
		Roller:        s.roller,
		IDGenerator:   idgen.NewSequential("msg"),
		Registry:      s.registry,
		Clock:         s.clock,
		MeterProvider: mp,
	})
	s.Require().NoError(err)

	s.dispatch(mutation.AddPartyMember(testutils.NewPartyMember(testutils.TestPartyLyra, "Lyra", nil)))
}

func (s *OrchestratorTestSuite) dispatch(m mutation.Mutation) {
	s.Require().NoError(s.store.Dispatch(s.ctx, m))
}

// seedMira stages a neutral registry NPC that must pick a side
func (s *OrchestratorTestSuite) seedMira() {
	mira := testutils.NewCombatActor("npc_mira", "Mira", 18)
	mira.Alignment = combat.AlignmentNeutral
	s.dispatch(mutation.AddCombatEnemy(mira))
	s.dispatch(mutation.AddNPC(testutils.NewRegistryEntry("npc_mira", "Mira", 60)))
}

func (s *OrchestratorTestSuite) statusProgress() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, m := range s.published {
		if m.Type == mutation.TypeSetInitiationStatus {
			out = append(out, m.Initiation.Progress)
		}
	}
	return out
}

func (s *OrchestratorTestSuite) lastPublished() mutation.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published[len(s.published)-1].Type
}

func (s *OrchestratorTestSuite) stepCount(step string, outcome initiation.Outcome) int64 {
	var rm metricdata.ResourceMetrics
	s.Require().NoError(s.reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != initiation.MetricSteps {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			s.Require().True(ok)
			for _, dp := range sum.DataPoints {
				gotStep, _ := dp.Attributes.Value(attribute.Key("step"))
				gotOutcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				if gotStep.AsString() == step && gotOutcome.AsString() == string(outcome) {
					return dp.Value
				}
			}
		}
	}
	return 0
}

func (s *OrchestratorTestSuite) outcomes(out *initiation.InitiateCombatOutput) map[string]initiation.Outcome {
	got := make(map[string]initiation.Outcome, len(out.Steps))
	for _, st := range out.Steps {
		got[st.Name] = st.Outcome
	}
	return got
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_ValidatesConfig() {
	_, err := initiation.NewOrchestrator(&initiation.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	for _, field := range []string{"Narrative", "Staging", "Store", "Roller", "IDGenerator"} {
		s.Contains(err.Error(), field)
	}

	_, err = initiation.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestInitiateCombat_FullManualRun() {
	s.seedMira()

	suggestions := []combat.ActorSuggestion{
		builders.NewSuggestionBuilder().WithName("Vex").WithTemplate("Brute").WithDifficulty("Elite").Build(),
		builders.NewSuggestionBuilder().WithTemplate("Archer").Build(),
	}

	gomock.InOrder(
		s.narrator.EXPECT().
			ResolveAlignments(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *narrative.ResolveAlignmentsInput) (*narrative.ResolveAlignmentsOutput, error) {
				s.Equal("The smugglers turn on you.", in.Narrative)
				s.Equal([]narrative.AlignmentCandidate{{ID: "npc_mira", Name: "Mira", Relationship: 60}}, in.Candidates)
				return &narrative.ResolveAlignmentsOutput{
					Alignments: map[string]combat.Alignment{"npc_mira": combat.AlignmentAlly},
				}, nil
			}),
		s.narrator.EXPECT().
			EnrichActorSuggestions(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *narrative.EnrichActorSuggestionsInput) (*narrative.EnrichActorSuggestionsOutput, error) {
				s.Require().Len(in.Suggestions, 1)
				s.Equal("Archer", combat.Value(in.Suggestions[0].Template))
				s.Contains(in.ExcludedNames, "Lyra")
				s.Contains(in.ExcludedNames, "Mira")
				named := in.Suggestions[0]
				named.Name = combat.Ptr("Harrow")
				return &narrative.EnrichActorSuggestionsOutput{Suggestions: []combat.ActorSuggestion{named}}, nil
			}),
		s.narrator.EXPECT().
			SynthesizeTransitionNarrative(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *narrative.SynthesizeTransitionInput) (*narrative.SynthesizeTransitionOutput, error) {
				s.ElementsMatch([]string{"Lyra", "Mira", "Vex", "Harrow"}, in.Names)
				return &narrative.SynthesizeTransitionOutput{Text: "Steel rings across the dock."}, nil
			}),
	)

	// Initiative: Mira, Vex, Harrow, then Lyra
	s.roller.Push(3, 6, 4, 19)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Narrative:   "The smugglers turn on you.",
		Suggestions: suggestions,
		Trigger:     initiation.TriggerManual,
		PlayerLevel: testutils.TestPlayerLevel,
	})
	s.Require().NoError(err)

	s.Equal(map[string]initiation.Outcome{
		initiation.StepAlignment:  initiation.OutcomeOK,
		initiation.StepRecovery:   initiation.OutcomeSkipped,
		initiation.StepEnrichment: initiation.OutcomeOK,
		initiation.StepStaging:    initiation.OutcomeOK,
		initiation.StepBridge:     initiation.OutcomeOK,
	}, s.outcomes(out))

	s.Require().Len(out.Staged, 2)
	s.Equal("Vex", out.Staged[0].Name)
	s.Equal("Harrow", out.Staged[1].Name)
	s.Equal("Steel rings across the dock.", out.Transition)
	s.Require().Len(out.TurnOrder, 4)
	s.Equal(testutils.TestPartyLyra, out.TurnOrder[0])
	s.Equal(1, out.Round)

	state := s.store.Snapshot()
	s.Equal(combat.AlignmentAlly, state.Combatant("npc_mira").Alignment)
	s.Equal(turnorder.PhaseActive, state.TurnOrder.Phase)
	s.Nil(state.Initiation)
	s.Require().Len(state.Messages, 1)
	s.Equal(combat.AuthorSystem, state.Messages[0].Author)
	s.Equal("msg_1", state.Messages[0].ID)
	s.Contains(state.NPCs, out.Staged[0].ID)

	s.Equal([]int{30, 50, 70, 80, 90, 100}, s.statusProgress())
	s.Equal(mutation.TypeClearInitiationStatus, s.lastPublished())
	s.Equal(epoch.Add(initiation.DefaultPacingDelay), s.clock.Now())

	s.Equal(int64(1), s.stepCount(initiation.StepAlignment, initiation.OutcomeOK))
	s.Equal(int64(1), s.stepCount(initiation.StepRecovery, initiation.OutcomeSkipped))
}

func (s *OrchestratorTestSuite) TestInitiateCombat_EmptyAndRecoveryFails() {
	s.narrator.EXPECT().
		ReassessHostiles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *narrative.ReassessHostilesInput) (*narrative.ReassessHostilesOutput, error) {
			s.Equal([]string{"Someone draws a blade."}, in.RecentContext)
			return nil, errors.Unavailable("narrative service is offline")
		})
	s.roller.Push(11)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Narrative:     "A fight breaks out.",
		RecentContext: []string{"Someone draws a blade."},
		PlayerLevel:   testutils.TestPlayerLevel,
	})
	s.Require().NoError(err)

	s.Equal(map[string]initiation.Outcome{
		initiation.StepAlignment:  initiation.OutcomeSkipped,
		initiation.StepRecovery:   initiation.OutcomeFailed,
		initiation.StepEnrichment: initiation.OutcomeSkipped,
		initiation.StepStaging:    initiation.OutcomeSkipped,
		initiation.StepBridge:     initiation.OutcomeSkipped,
	}, s.outcomes(out))

	recovery, ok := out.Step(initiation.StepRecovery)
	s.Require().True(ok)
	s.True(errors.IsUnavailable(recovery.Err))

	state := s.store.Snapshot()
	s.Equal(turnorder.PhaseActive, state.TurnOrder.Phase)
	s.Equal([]string{testutils.TestPartyLyra}, state.TurnOrder.Order)
	s.Nil(state.Initiation)
	s.Equal(int64(1), s.stepCount(initiation.StepRecovery, initiation.OutcomeFailed))
}

func (s *OrchestratorTestSuite) TestInitiateCombat_RecoveredHostilesAreStaged() {
	mocks.ExpectRecoveredHostiles(s.narrator,
		builders.NewSuggestionBuilder().WithName("Dock Thug").WithTemplate("Brute").WithAlignment(combat.AlignmentEnemy).Build(),
	)
	s.roller.Push(10, 10)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Trigger:     initiation.TriggerNarrative,
		PlayerLevel: testutils.TestPlayerLevel,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Staged, 1)
	s.Equal("Dock Thug", out.Staged[0].Name)
	s.Len(out.TurnOrder, 2)
	s.Len(s.store.Snapshot().Hostiles(), 1)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_AlignmentFailureKeepsStance() {
	s.seedMira()
	mocks.ExpectAlignmentFailure(s.narrator, errors.Unavailable("timeout"))
	s.roller.Push(10, 10, 10)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("Vex").WithTemplate("Brute").Build(),
		},
		PlayerLevel: testutils.TestPlayerLevel,
	})
	s.Require().NoError(err)

	s.Equal(initiation.OutcomeFailed, s.outcomes(out)[initiation.StepAlignment])
	s.Equal(initiation.OutcomeOK, s.outcomes(out)[initiation.StepStaging])
	s.Equal(combat.AlignmentNeutral, s.store.Snapshot().Combatant("npc_mira").Alignment)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_StepTimeout() {
	orch, err := initiation.NewOrchestrator(&initiation.Config{
		Narrative:   s.narrator,
		Staging:     s.engine,
		Store:       s.store,
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("msg"),
		Clock:       s.clock,
		StepTimeout: 10 * time.Millisecond,
	})
	s.Require().NoError(err)

	s.seedMira()
	s.narrator.EXPECT().
		ResolveAlignments(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *narrative.ResolveAlignmentsInput) (*narrative.ResolveAlignmentsOutput, error) {
			<-ctx.Done()
			return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "too slow")
		})
	s.roller.Push(10, 10, 10)

	out, err := orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("Vex").WithTemplate("Brute").Build(),
		},
	})
	s.Require().NoError(err)

	step, ok := out.Step(initiation.StepAlignment)
	s.Require().True(ok)
	s.Equal(initiation.OutcomeFailed, step.Outcome)
	s.True(errors.IsDeadlineExceeded(step.Err))
	s.Equal(initiation.OutcomeOK, s.outcomes(out)[initiation.StepStaging])
	s.Len(out.TurnOrder, 3)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_DeadRegistryNPCIsNotStaged() {
	dead := testutils.NewRegistryEntry("npc_vex", "Vex", -80)
	dead.Status = combat.StatusDead
	_, err := s.registry.Save(s.ctx, &registry.SaveInput{Entry: dead})
	s.Require().NoError(err)

	s.roller.Push(10)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("Vex").WithTemplate("Brute").Build(),
		},
	})
	s.Require().NoError(err)

	s.Empty(out.Staged)
	s.Require().Len(out.Skipped, 1)
	s.Equal(staging.SkipDead, out.Skipped[0].Reason)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_StartFailureStillClearsStatus() {
	mocks.ExpectRecoveredHostiles(s.narrator)

	// No initiative rolls queued
	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{},
	})
	s.Require().Error(err)
	s.Nil(out)

	state := s.store.Snapshot()
	s.Nil(state.Initiation)
	s.NotEqual(turnorder.PhaseActive, state.TurnOrder.Phase)
	s.Equal(mutation.TypeClearInitiationStatus, s.lastPublished())
}

func (s *OrchestratorTestSuite) TestInitiateCombat_RejectsUnknownTrigger() {
	_, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{Trigger: "telepathy"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orch.InitiateCombat(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestInitiateCombat_PlaceholderNameIsEnriched() {
	s.narrator.EXPECT().
		EnrichActorSuggestions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *narrative.EnrichActorSuggestionsInput) (*narrative.EnrichActorSuggestionsOutput, error) {
			s.Require().Len(in.Suggestions, 2)
			s.Nil(in.Suggestions[0].Name)
			s.Nil(in.Suggestions[1].Name)
			first, second := in.Suggestions[0], in.Suggestions[1]
			first.Name = combat.Ptr("Grell")
			second.Name = combat.Ptr("Sable")
			return &narrative.EnrichActorSuggestionsOutput{Suggestions: []combat.ActorSuggestion{first, second}}, nil
		})
	s.roller.Push(10, 9, 8)

	out, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("[Enemy Name]").WithTemplate("Brute").Build(),
			builders.NewSuggestionBuilder().WithName("Unknown Bandit").WithTemplate("Brute").Build(),
		},
		PlayerLevel: testutils.TestPlayerLevel,
	})
	s.Require().NoError(err)

	s.Equal(initiation.OutcomeOK, s.outcomes(out)[initiation.StepEnrichment])
	s.Require().Len(out.Staged, 2)
	s.Equal("Grell", out.Staged[0].Name)
	s.Equal("Sable", out.Staged[1].Name)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_LeavesCallerInputUntouched() {
	mocks.ExpectRecoveredHostiles(s.narrator)
	s.roller.Push(10)

	input := &initiation.InitiateCombatInput{}
	_, err := s.orch.InitiateCombat(s.ctx, input)
	s.Require().NoError(err)

	s.Equal(initiation.Trigger(""), input.Trigger)
}

func (s *OrchestratorTestSuite) TestInitiateCombat_AlreadyActiveRejectedBeforeAnyStep() {
	s.dispatch(mutation.AddCombatEnemy(testutils.NewCombatActor("ogre_1", "Ogre", 40)))
	s.roller.Push(10, 9)
	_, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{Suggestions: []combat.ActorSuggestion{}})
	s.Require().NoError(err)

	before := s.store.Snapshot()
	s.mu.Lock()
	publishedBefore := len(s.published)
	s.mu.Unlock()

	_, err = s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{
		Suggestions: []combat.ActorSuggestion{
			builders.NewSuggestionBuilder().WithName("Vex").WithTemplate("Brute").Build(),
		},
		PlayerLevel: testutils.TestPlayerLevel,
	})
	s.True(errors.IsFailedPrecondition(err), "got %v", err)

	after := s.store.Snapshot()
	s.Equal(before.Combatants, after.Combatants)
	s.Equal(before.TurnOrder, after.TurnOrder)
	for _, id := range after.TurnOrder.Order {
		s.True(after.Knows(id))
	}
	s.mu.Lock()
	s.Len(s.published, publishedBefore)
	s.mu.Unlock()
	s.Zero(s.roller.Remaining())
}

func (s *OrchestratorTestSuite) TestConcludeCombat_Settlement() {
	s.dispatch(mutation.AddCombatEnemy(testutils.NewCombatActor("ogre_1", "Ogre", 40)))
	s.dispatch(mutation.AddCombatEnemy(testutils.NewCombatActor("ogre_2", "Ogre 2", 40)))
	s.roller.Push(10, 9, 8)

	_, err := s.orch.InitiateCombat(s.ctx, &initiation.InitiateCombatInput{Suggestions: []combat.ActorSuggestion{}})
	s.Require().NoError(err)

	fallen := s.store.Snapshot().Combatant("ogre_1")
	fallen.SetHitPoints(0)
	s.dispatch(mutation.UpdateCombatEnemy(fallen))

	out, err := s.orch.ConcludeCombat(s.ctx, &initiation.ConcludeCombatInput{})
	s.Require().NoError(err)

	s.Require().Len(out.Defeated, 1)
	s.Equal("ogre_1", out.Defeated[0].ID)
	s.Require().Len(out.Surviving, 1)
	s.Equal("ogre_2", out.Surviving[0].ID)
	s.Equal(1, out.Rounds)
	s.Equal(turnorder.PhaseConcluded, s.store.Snapshot().TurnOrder.Phase)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
