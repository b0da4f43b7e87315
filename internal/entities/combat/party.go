package combat

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// StatusInvisible is applied to party members that hid successfully
const StatusInvisible = "Invisible"

// StatusEffect is a time-bound condition on a party member
type StatusEffect struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Source   string `json:"source,omitempty"`
}

// PartyMember is a player-side character as seen by the combat core
type PartyMember struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Level             int            `json:"level"`
	CurrentHitPoints  int            `json:"current_hp"`
	MaxHitPoints      int            `json:"max_hp"`
	DexterityModifier int            `json:"dex_modifier"`
	Skills            map[string]int `json:"skills,omitempty"`
	CanHide           bool           `json:"can_hide"`
	StatusEffects     []StatusEffect `json:"status_effects,omitempty"`
}

// GetID returns the member identity
func (p *PartyMember) GetID() string {
	return p.ID
}

// GetType returns the entity type for rpg-toolkit
func (p *PartyMember) GetType() string {
	return EntityTypePartyMember
}

// IsDead reports whether the member is down
func (p *PartyMember) IsDead() bool {
	return p.CurrentHitPoints <= 0
}

// SkillBonus returns the bonus for a skill, ignoring case. Unknown skills are +0.
func (p *PartyMember) SkillBonus(skill string) int {
	for name, bonus := range p.Skills {
		if strings.EqualFold(name, skill) {
			return bonus
		}
	}
	return 0
}

// HasStatus reports whether the member carries the named status
func (p *PartyMember) HasStatus(name string) bool {
	for _, s := range p.StatusEffects {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// WithStatus returns the effects with s added, replacing an effect of the same name
func (p *PartyMember) WithStatus(s StatusEffect) []StatusEffect {
	out := p.WithoutStatus(s.Name)
	return append(out, s)
}

// WithoutStatus returns the effects minus any with the given name
func (p *PartyMember) WithoutStatus(name string) []StatusEffect {
	out := make([]StatusEffect, 0, len(p.StatusEffects))
	for _, s := range p.StatusEffects {
		if !strings.EqualFold(s.Name, name) {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy of the member
func (p *PartyMember) Clone() *PartyMember {
	if p == nil {
		return nil
	}
	out := *p
	if p.Skills != nil {
		out.Skills = make(map[string]int, len(p.Skills))
		for k, v := range p.Skills {
			out.Skills[k] = v
		}
	}
	out.StatusEffects = append([]StatusEffect(nil), p.StatusEffects...)
	return &out
}

var _ core.Entity = (*PartyMember)(nil)
