package dice

import "github.com/KirkDiggler/rpg-combat/internal/entities/combat"

// RollType is the category of a roll request
type RollType string

// Roll types
const (
	RollTypeSkillCheck     RollType = "Skill Check"
	RollTypeAbilityCheck   RollType = "Ability Check"
	RollTypeSavingThrow    RollType = "Saving Throw"
	RollTypeAttackRoll     RollType = "Attack Roll"
	RollTypeDamageRoll     RollType = "Damage Roll"
	RollTypeHealingRoll    RollType = "Healing Roll"
	RollTypeEncounterCheck RollType = "Encounter Check"
)

// IsEffect reports whether the roll changes hit points instead of passing or failing
func (t RollType) IsEffect() bool {
	return t == RollTypeDamageRoll || t == RollTypeHealingRoll
}

// Mode is the advantage state of a d20 roll
type Mode string

// Modes
const (
	ModeNormal       Mode = "normal"
	ModeAdvantage    Mode = "advantage"
	ModeDisadvantage Mode = "disadvantage"
)

// Outcome classifies a resolved roll
type Outcome string

// Outcomes. Damage and healing rolls carry OutcomeNone.
const (
	OutcomeNone            Outcome = ""
	OutcomeSuccess         Outcome = "Success"
	OutcomeFail            Outcome = "Fail"
	OutcomeCriticalSuccess Outcome = "Critical Success"
	OutcomeCriticalFail    Outcome = "Critical Fail"
	OutcomeHit             Outcome = "Hit"
	OutcomeMiss            Outcome = "Miss"
	OutcomeCriticalHit     Outcome = "Critical Hit"
	// OutcomeUnresolved marks a check rolled without any threshold
	OutcomeUnresolved Outcome = "Unresolved"
)

// IsSuccess reports whether the outcome counts toward a group majority
func (o Outcome) IsSuccess() bool {
	switch o {
	case OutcomeSuccess, OutcomeCriticalSuccess, OutcomeHit, OutcomeCriticalHit:
		return true
	default:
		return false
	}
}

// IsPassFail reports whether the outcome is a pass or a fail verdict
func (o Outcome) IsPassFail() bool {
	switch o {
	case OutcomeSuccess, OutcomeFail, OutcomeCriticalSuccess, OutcomeCriticalFail,
		OutcomeHit, OutcomeMiss, OutcomeCriticalHit:
		return true
	default:
		return false
	}
}

// Note annotates how a roll's effect was modified
type Note string

// Notes
const (
	NoteResisted      Note = "resisted"
	NoteVulnerable    Note = "vulnerable"
	NoteImmune        Note = "immune"
	NoteHeroicDoubled Note = "heroic-doubled"
)

// Presentation is how the UI should color a roll
type Presentation string

// Presentations
const (
	PresentationStandard Presentation = "standard"
	PresentationHeroic   Presentation = "heroic"
)

// BaselineArmorClass is used for attacks with no DC and no known target AC
const BaselineArmorClass = 10

// RollRequest is an intent to roll. Bonus is the final modifier computed by
// the caller; the pipeline never derives bonuses itself.
type RollRequest struct {
	RollerID   string            `json:"roller_id,omitempty"`
	RollerName string            `json:"roller_name"`
	Type       RollType          `json:"type"`
	CheckName  string            `json:"check_name,omitempty"`
	DC         *int              `json:"dc,omitempty"`
	TargetID   string            `json:"target_id,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	TargetAC   *int              `json:"target_ac,omitempty"`
	Mode       Mode              `json:"mode,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Bonus      int               `json:"bonus"`
	Notation   string            `json:"notation,omitempty"`
	DamageType combat.DamageType `json:"damage_type,omitempty"`
	Heroic     bool              `json:"heroic,omitempty"`
	Duration   int               `json:"duration,omitempty"`
}

// groupKey is the name rolls are grouped under
func (r RollRequest) groupKey() string {
	if r.CheckName != "" {
		return r.CheckName
	}
	return string(r.Type)
}

// HPChange records a hit point change on a known target
type HPChange struct {
	TargetID string `json:"target_id"`
	Previous int    `json:"previous"`
	New      int    `json:"new"`
}

// Roll is a resolved request
type Roll struct {
	Request RollRequest `json:"request"`

	// Die is the kept d20 face; zero for damage and healing
	Die int `json:"die,omitempty"`
	// Dice are the faces rolled for damage and healing
	Dice         []int        `json:"dice,omitempty"`
	Mode         Mode         `json:"mode"`
	Bonus        int          `json:"bonus"`
	Total        int          `json:"total"`
	Outcome      Outcome      `json:"outcome,omitempty"`
	HPChange     *HPChange    `json:"hp_change,omitempty"`
	Notes        []Note       `json:"notes,omitempty"`
	Presentation Presentation `json:"presentation"`
	Duration     int          `json:"duration,omitempty"`
}

// GroupOutcome is the majority verdict for rolls sharing a check name
type GroupOutcome struct {
	CheckName      string `json:"check_name"`
	Total          int    `json:"total"`
	Successes      int    `json:"successes"`
	Required       int    `json:"required"`
	IsGroupSuccess bool   `json:"is_group_success"`
}
