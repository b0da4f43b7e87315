package encounter_test

import (
	"context"
	"sync"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-combat/internal/encounter"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
	"github.com/KirkDiggler/rpg-combat/internal/testutils"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	bus   events.EventBus
	store *encounter.Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = events.NewBus()

	var err error
	s.store, err = encounter.NewStore(&encounter.Config{
		EncounterID: "enc_1",
		EventBus:    s.bus,
	})
	s.Require().NoError(err)
}

func (s *StoreTestSuite) TestNewStore_ValidatesConfig() {
	_, err := encounter.NewStore(&encounter.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "EncounterID")
	s.Contains(err.Error(), "EventBus")
}

func (s *StoreTestSuite) TestDispatch_PublishesAppliedMutation() {
	var (
		received []mutation.Mutation
		targets  []string
	)
	s.bus.SubscribeFunc(string(mutation.TypeAddCombatEnemy), 0, func(_ context.Context, evt events.Event) error {
		m, ok := encounter.MutationFrom(evt)
		s.Require().True(ok)
		received = append(received, m)
		if evt.Target() != nil {
			targets = append(targets, evt.Target().GetID())
		}
		return nil
	})

	s.Require().NoError(s.store.Dispatch(s.ctx, mutation.AddCombatEnemy(testutils.NewCombatActor("ogre_1", "Ogre", 40))))

	s.Require().Len(received, 1)
	s.Equal("ogre_1", received[0].Actor.ID)
	s.Equal([]string{"ogre_1"}, targets)
	s.NotNil(s.store.Snapshot().Combatant("ogre_1"))
}

func (s *StoreTestSuite) TestDispatch_RejectedMutationIsNotPublished() {
	published := 0
	s.bus.SubscribeFunc(string(mutation.TypeRemoveCombatEnemy), 0, func(context.Context, events.Event) error {
		published++
		return nil
	})

	err := s.store.Dispatch(s.ctx, mutation.RemoveCombatEnemy("ghost"))
	s.True(errors.IsNotFound(err))
	s.Zero(published)
}

func (s *StoreTestSuite) TestSnapshot_IsACopy() {
	s.Require().NoError(s.store.Dispatch(s.ctx, mutation.AddCombatEnemy(testutils.NewCombatActor("ogre_1", "Ogre", 40))))

	snap := s.store.Snapshot()
	snap.Combatant("ogre_1").SetHitPoints(0)

	s.Equal(40, s.store.Snapshot().Combatant("ogre_1").CurrentHitPoints)
}

func (s *StoreTestSuite) TestNewStore_SeedsFromState() {
	seed := encounter.NewState()
	s.Require().NoError(encounter.Apply(seed, mutation.AddPartyMember(testutils.NewPartyMember(testutils.TestPartyBram, "Bram", nil))))

	store, err := encounter.NewStore(&encounter.Config{
		EncounterID: "enc_2",
		EventBus:    s.bus,
		State:       seed,
	})
	s.Require().NoError(err)

	s.NotNil(store.Snapshot().Member(testutils.TestPartyBram))
	s.Equal("enc_2", store.EncounterID())
}

func (s *StoreTestSuite) TestDispatch_ConcurrentDispatchersAreSerialized() {
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := combat.Message{ID: string(rune('a' + i)), Author: combat.AuthorSystem, Text: "tick"}
			s.NoError(s.store.Dispatch(s.ctx, mutation.AddMessage(msg)))
		}()
	}
	wg.Wait()

	s.Len(s.store.Snapshot().Messages, 20)
}

func (s *StoreTestSuite) TestStore_IsASink() {
	var sink mutation.Sink = s.store
	s.Require().NoError(mutation.DispatchAll(s.ctx, sink, []mutation.Mutation{
		mutation.SetPartyHidden(true, 12),
		mutation.SetPartyHidden(false, 0),
	}))
	s.False(s.store.Snapshot().PartyHidden)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
