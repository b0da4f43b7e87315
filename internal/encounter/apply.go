package encounter

import (
	"github.com/KirkDiggler/rpg-combat/internal/engine/turnorder"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
)

// Apply is the only place encounter state changes. The mutation is applied
// to a copy which replaces state only on success, so a failed mutation
// leaves state untouched and a removal clears the actor from the
// collections and the turn order together.
func Apply(state *State, m mutation.Mutation) error {
	if state == nil {
		return errors.InvalidArgument("state is required")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s mutation", m.Type)
	}

	next := state.Clone()
	if err := apply(next, m); err != nil {
		return err
	}

	*state = *next
	return nil
}

func apply(s *State, m mutation.Mutation) error {
	switch m.Type {
	case mutation.TypeAddCombatEnemy:
		if s.Knows(m.Actor.ID) {
			return errors.AlreadyExistsf("actor %s already exists", m.Actor.ID)
		}
		s.Combatants = append(s.Combatants, m.Actor.Clone())
		if s.TurnOrder.Phase == turnorder.PhaseInactive || s.TurnOrder.Phase == turnorder.PhaseConcluded || s.TurnOrder.Phase == "" {
			return s.TurnOrder.Stage()
		}

	case mutation.TypeUpdateCombatEnemy:
		for i, a := range s.Combatants {
			if a.ID == m.Actor.ID {
				s.Combatants[i] = m.Actor.Clone()
				s.TurnOrder.Repair(s.IsAlive)
				return nil
			}
		}
		return errors.NotFoundf("combatant %s not found", m.Actor.ID)

	case mutation.TypeRemoveCombatEnemy:
		idx := -1
		for i, a := range s.Combatants {
			if a.ID == m.ActorID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.NotFoundf("combatant %s not found", m.ActorID)
		}
		s.Combatants = append(s.Combatants[:idx], s.Combatants[idx+1:]...)
		if s.TurnOrder.Contains(m.ActorID) {
			return s.TurnOrder.Remove(m.ActorID, s.IsAlive)
		}

	case mutation.TypeAddPartyMember:
		if s.Combatant(m.Member.ID) != nil {
			return errors.AlreadyExistsf("actor %s already exists", m.Member.ID)
		}
		for i, p := range s.Party {
			if p.ID == m.Member.ID {
				s.Party[i] = m.Member.Clone()
				return nil
			}
		}
		s.Party = append(s.Party, m.Member.Clone())

	case mutation.TypeStartCombat:
		for _, e := range m.Initiative {
			if !s.Knows(e.ActorID) {
				return errors.InvalidArgumentf("initiative names unknown actor %s", e.ActorID)
			}
		}
		return s.TurnOrder.Start(m.Initiative, s.IsAlive)

	case mutation.TypeAdvanceTurn:
		_, err := s.TurnOrder.Advance(s.IsAlive)
		return err

	case mutation.TypeAddToTurnOrder:
		entry := m.Initiative[0]
		if !s.Knows(entry.ActorID) {
			return errors.InvalidArgumentf("cannot queue unknown actor %s", entry.ActorID)
		}
		return s.TurnOrder.Add(entry)

	case mutation.TypeRemoveFromTurnOrder:
		return s.TurnOrder.Remove(m.ActorID, s.IsAlive)

	case mutation.TypeMoveInTurnOrder:
		return s.TurnOrder.Move(m.ActorID, m.Position)

	case mutation.TypeEndCombat:
		return s.TurnOrder.Conclude()

	case mutation.TypeAddNPC:
		if s.NPCs == nil {
			s.NPCs = make(map[string]*combat.RegistryEntry)
		}
		entry := *m.NPC
		entry.Relationship = combat.ClampRelationship(entry.Relationship)
		s.NPCs[entry.ID] = &entry

	case mutation.TypeSetPartyHidden:
		s.PartyHidden = m.Hidden.Hidden
		s.HiddenDC = 0
		if m.Hidden.Hidden {
			s.HiddenDC = m.Hidden.DC
		}

	case mutation.TypeApplyStatusEffect:
		member := s.Member(m.ActorID)
		if member == nil {
			return errors.NotFoundf("party member %s not found", m.ActorID)
		}
		member.StatusEffects = member.WithStatus(*m.Status)

	case mutation.TypeRemoveStatusEffect:
		member := s.Member(m.ActorID)
		if member == nil {
			return errors.NotFoundf("party member %s not found", m.ActorID)
		}
		member.StatusEffects = member.WithoutStatus(m.Status.Name)

	case mutation.TypeAddMessage:
		s.Messages = append(s.Messages, *m.Message)

	case mutation.TypeSetInitiationStatus:
		status := *m.Initiation
		s.Initiation = &status

	case mutation.TypeClearInitiationStatus:
		s.Initiation = nil
	}

	return nil
}
