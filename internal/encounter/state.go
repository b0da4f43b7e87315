// Package encounter holds the encounter state and the single apply
// function every mutation goes through.
package encounter

import (
	"sort"

	"github.com/KirkDiggler/rpg-combat/internal/engine/turnorder"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// State is the reducer-managed encounter state
type State struct {
	// Combatants holds every non-party actor, hostile or not, in staging order
	Combatants []*combat.CombatActor            `json:"combatants"`
	Party      []*combat.PartyMember            `json:"party"`
	TurnOrder  turnorder.Tracker                `json:"turn_order"`
	NPCs       map[string]*combat.RegistryEntry `json:"npcs,omitempty"`

	PartyHidden bool `json:"party_hidden"`
	HiddenDC    int  `json:"hidden_dc,omitempty"`

	Messages   []combat.Message         `json:"messages,omitempty"`
	Initiation *combat.InitiationStatus `json:"initiation,omitempty"`
}

// NewState returns an empty, inactive encounter
func NewState() *State {
	return &State{
		TurnOrder: turnorder.Tracker{Phase: turnorder.PhaseInactive},
		NPCs:      make(map[string]*combat.RegistryEntry),
	}
}

// Combatant returns the combatant with the given id, or nil
func (s *State) Combatant(id string) *combat.CombatActor {
	for _, a := range s.Combatants {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Member returns the party member with the given id, or nil
func (s *State) Member(id string) *combat.PartyMember {
	for _, m := range s.Party {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Knows reports whether id names a combatant or a party member
func (s *State) Knows(id string) bool {
	return s.Combatant(id) != nil || s.Member(id) != nil
}

// IsAlive reports whether the actor with id is known and above zero hit points
func (s *State) IsAlive(id string) bool {
	if a := s.Combatant(id); a != nil {
		return !a.IsDead()
	}
	if m := s.Member(id); m != nil {
		return !m.IsDead()
	}
	return false
}

// Hostiles returns the living combatants aligned against the party
func (s *State) Hostiles() []*combat.CombatActor {
	var out []*combat.CombatActor
	for _, a := range s.Combatants {
		if a.Alignment == combat.AlignmentEnemy && !a.IsDead() {
			out = append(out, a)
		}
	}
	return out
}

// KnownNames returns the names of every party member, combatant and NPC
func (s *State) KnownNames() []string {
	names := make([]string, 0, len(s.Party)+len(s.Combatants)+len(s.NPCs))
	for _, m := range s.Party {
		names = append(names, m.Name)
	}
	for _, a := range s.Combatants {
		names = append(names, a.Name)
	}
	for _, n := range s.NPCs {
		names = append(names, n.Name)
	}
	return names
}

// RegistryEntries returns the NPC entries known to the encounter, sorted by ID
func (s *State) RegistryEntries() []*combat.RegistryEntry {
	out := make([]*combat.RegistryEntry, 0, len(s.NPCs))
	for _, n := range s.NPCs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Clone returns a deep copy of the state. Nil collections stay nil.
func (s *State) Clone() *State {
	out := &State{
		TurnOrder:   s.TurnOrder.Clone(),
		PartyHidden: s.PartyHidden,
		HiddenDC:    s.HiddenDC,
		Messages:    append([]combat.Message(nil), s.Messages...),
	}
	if s.Combatants != nil {
		out.Combatants = make([]*combat.CombatActor, len(s.Combatants))
		for i, a := range s.Combatants {
			out.Combatants[i] = a.Clone()
		}
	}
	if s.Party != nil {
		out.Party = make([]*combat.PartyMember, len(s.Party))
		for i, m := range s.Party {
			out.Party[i] = m.Clone()
		}
	}
	if s.NPCs != nil {
		out.NPCs = make(map[string]*combat.RegistryEntry, len(s.NPCs))
		for id, n := range s.NPCs {
			entry := *n
			out.NPCs[id] = &entry
		}
	}
	if s.Initiation != nil {
		status := *s.Initiation
		out.Initiation = &status
	}
	return out
}
