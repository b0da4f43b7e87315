// Package mutation defines the closed set of state changes the combat core
// can request. Engines never write shared state; they emit mutations to a Sink.
package mutation

import (
	"github.com/KirkDiggler/rpg-combat/internal/engine/turnorder"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Type names a mutation
type Type string

// Mutation types
const (
	TypeAddCombatEnemy        Type = "ADD_COMBAT_ENEMY"
	TypeUpdateCombatEnemy     Type = "UPDATE_COMBAT_ENEMY"
	TypeRemoveCombatEnemy     Type = "REMOVE_COMBAT_ENEMY"
	TypeAddPartyMember        Type = "ADD_PARTY_MEMBER"
	TypeStartCombat           Type = "START_COMBAT"
	TypeAdvanceTurn           Type = "ADVANCE_TURN"
	TypeAddToTurnOrder        Type = "ADD_TO_TURN_ORDER"
	TypeRemoveFromTurnOrder   Type = "REMOVE_FROM_TURN_ORDER"
	TypeMoveInTurnOrder       Type = "MOVE_IN_TURN_ORDER"
	TypeEndCombat             Type = "END_COMBAT"
	TypeAddNPC                Type = "ADD_NPC"
	TypeSetPartyHidden        Type = "SET_PARTY_HIDDEN"
	TypeApplyStatusEffect     Type = "APPLY_STATUS_EFFECT"
	TypeRemoveStatusEffect    Type = "REMOVE_STATUS_EFFECT"
	TypeAddMessage            Type = "ADD_MESSAGE"
	TypeSetInitiationStatus   Type = "SET_INITIATION_STATUS"
	TypeClearInitiationStatus Type = "CLEAR_INITIATION_STATUS"
)

// AllTypes lists every mutation type
var AllTypes = []Type{
	TypeAddCombatEnemy,
	TypeUpdateCombatEnemy,
	TypeRemoveCombatEnemy,
	TypeAddPartyMember,
	TypeStartCombat,
	TypeAdvanceTurn,
	TypeAddToTurnOrder,
	TypeRemoveFromTurnOrder,
	TypeMoveInTurnOrder,
	TypeEndCombat,
	TypeAddNPC,
	TypeSetPartyHidden,
	TypeApplyStatusEffect,
	TypeRemoveStatusEffect,
	TypeAddMessage,
	TypeSetInitiationStatus,
	TypeClearInitiationStatus,
}

// IsValid reports whether t is a known mutation type
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Hidden is the party-wide hidden flag
type Hidden struct {
	Hidden bool `json:"hidden"`
	DC     int  `json:"dc"`
}

// Mutation is one self-contained state change. Only the payload fields
// relevant to Type are set, so a mutation can be logged and replayed as is.
type Mutation struct {
	Type Type `json:"type"`

	Actor      *combat.CombatActor      `json:"actor,omitempty"`
	ActorID    string                   `json:"actor_id,omitempty"`
	Member     *combat.PartyMember      `json:"member,omitempty"`
	Initiative []turnorder.Entry        `json:"initiative,omitempty"`
	Position   int                      `json:"position,omitempty"`
	NPC        *combat.RegistryEntry    `json:"npc,omitempty"`
	Hidden     *Hidden                  `json:"hidden,omitempty"`
	Status     *combat.StatusEffect     `json:"status,omitempty"`
	Message    *combat.Message          `json:"message,omitempty"`
	Initiation *combat.InitiationStatus `json:"initiation,omitempty"`
}

// Validate checks that the payload required by Type is present
func (m *Mutation) Validate() error {
	vb := errors.NewValidationBuilder()

	if !m.Type.IsValid() {
		vb.InvalidField("Type", string(m.Type))
		return vb.Build()
	}

	switch m.Type {
	case TypeAddCombatEnemy, TypeUpdateCombatEnemy:
		if m.Actor == nil {
			vb.RequiredField("Actor")
		} else if m.Actor.ID == "" {
			vb.RequiredField("Actor.ID")
		}
	case TypeRemoveCombatEnemy, TypeRemoveFromTurnOrder, TypeMoveInTurnOrder:
		errors.ValidateRequired("ActorID", m.ActorID, vb)
	case TypeAddPartyMember:
		if m.Member == nil {
			vb.RequiredField("Member")
		} else if m.Member.ID == "" {
			vb.RequiredField("Member.ID")
		}
	case TypeAddToTurnOrder:
		if len(m.Initiative) != 1 {
			vb.Field("Initiative", "must hold exactly one entry")
		}
	case TypeAddNPC:
		if m.NPC == nil {
			vb.RequiredField("NPC")
		} else if m.NPC.ID == "" {
			vb.RequiredField("NPC.ID")
		}
	case TypeSetPartyHidden:
		if m.Hidden == nil {
			vb.RequiredField("Hidden")
		}
	case TypeApplyStatusEffect:
		errors.ValidateRequired("ActorID", m.ActorID, vb)
		if m.Status == nil {
			vb.RequiredField("Status")
		}
	case TypeRemoveStatusEffect:
		errors.ValidateRequired("ActorID", m.ActorID, vb)
		if m.Status == nil || m.Status.Name == "" {
			vb.RequiredField("Status.Name")
		}
	case TypeAddMessage:
		if m.Message == nil {
			vb.RequiredField("Message")
		}
	case TypeSetInitiationStatus:
		if m.Initiation == nil {
			vb.RequiredField("Initiation")
		}
	}

	return vb.Build()
}

// AddCombatEnemy stages a new combatant
func AddCombatEnemy(actor *combat.CombatActor) Mutation {
	return Mutation{Type: TypeAddCombatEnemy, Actor: actor.Clone()}
}

// UpdateCombatEnemy replaces a staged combatant
func UpdateCombatEnemy(actor *combat.CombatActor) Mutation {
	return Mutation{Type: TypeUpdateCombatEnemy, Actor: actor.Clone()}
}

// RemoveCombatEnemy removes a combatant from the encounter and the turn order
func RemoveCombatEnemy(actorID string) Mutation {
	return Mutation{Type: TypeRemoveCombatEnemy, ActorID: actorID}
}

// AddPartyMember adds or replaces a party member
func AddPartyMember(member *combat.PartyMember) Mutation {
	return Mutation{Type: TypeAddPartyMember, Member: member.Clone()}
}

// StartCombat activates combat with rolled initiative
func StartCombat(entries []turnorder.Entry) Mutation {
	return Mutation{Type: TypeStartCombat, Initiative: append([]turnorder.Entry(nil), entries...)}
}

// AdvanceTurn passes the turn to the next live actor
func AdvanceTurn() Mutation {
	return Mutation{Type: TypeAdvanceTurn}
}

// AddToTurnOrder inserts a reinforcement by initiative
func AddToTurnOrder(entry turnorder.Entry) Mutation {
	return Mutation{Type: TypeAddToTurnOrder, ActorID: entry.ActorID, Initiative: []turnorder.Entry{entry}}
}

// RemoveFromTurnOrder drops an actor from the order only
func RemoveFromTurnOrder(actorID string) Mutation {
	return Mutation{Type: TypeRemoveFromTurnOrder, ActorID: actorID}
}

// MoveInTurnOrder moves an actor to a new position
func MoveInTurnOrder(actorID string, position int) Mutation {
	return Mutation{Type: TypeMoveInTurnOrder, ActorID: actorID, Position: position}
}

// EndCombat concludes the encounter
func EndCombat() Mutation {
	return Mutation{Type: TypeEndCombat}
}

// AddNPC registers a world NPC
func AddNPC(entry *combat.RegistryEntry) Mutation {
	e := *entry
	return Mutation{Type: TypeAddNPC, ActorID: entry.ID, NPC: &e}
}

// SetPartyHidden toggles the party hidden flag
func SetPartyHidden(hidden bool, dc int) Mutation {
	return Mutation{Type: TypeSetPartyHidden, Hidden: &Hidden{Hidden: hidden, DC: dc}}
}

// ApplyStatusEffect adds a status to a party member
func ApplyStatusEffect(memberID string, status combat.StatusEffect) Mutation {
	return Mutation{Type: TypeApplyStatusEffect, ActorID: memberID, Status: &status}
}

// RemoveStatusEffect removes a named status from a party member
func RemoveStatusEffect(memberID, name string) Mutation {
	return Mutation{Type: TypeRemoveStatusEffect, ActorID: memberID, Status: &combat.StatusEffect{Name: name}}
}

// AddMessage appends a line to the encounter log
func AddMessage(msg combat.Message) Mutation {
	return Mutation{Type: TypeAddMessage, Message: &msg}
}

// SetInitiationStatus publishes initiation progress
func SetInitiationStatus(status combat.InitiationStatus) Mutation {
	return Mutation{Type: TypeSetInitiationStatus, Initiation: &status}
}

// ClearInitiationStatus discards initiation progress
func ClearInitiationStatus() Mutation {
	return Mutation{Type: TypeClearInitiationStatus}
}
