package initiation

import (
	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// Trigger says what started combat
type Trigger string

// Triggers
const (
	// TriggerManual is the "combat sequence initiated" button; it earns a
	// bridging line of narrative
	TriggerManual    Trigger = "manual"
	TriggerNarrative Trigger = "narrative"
)

// Outcome is how a pipeline step ended
type Outcome string

// Outcomes
const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Step names, used as log and metric attributes
const (
	StepAlignment  = "alignment"
	StepRecovery   = "recovery"
	StepEnrichment = "enrichment"
	StepStaging    = "staging"
	StepBridge     = "bridge"
)

// Status labels and progress reported through SET_INITIATION_STATUS
const (
	LabelAlignment  = "Reading the Room"
	LabelRecovery   = "Spotting Hostiles"
	LabelEnrichment = "Naming Foes"
	LabelStaging    = "Staging Combatants"
	LabelBridge     = "Setting the Scene"
	LabelInitiative = "Rolling Initiative"
	LabelEngage     = "Engage!"

	ProgressAlignment  = 30
	ProgressRecovery   = 40
	ProgressEnrichment = 50
	ProgressStaging    = 70
	ProgressBridge     = 80
	ProgressInitiative = 90
	ProgressEngage     = 100
)

// InitiateCombatInput defines the request for starting combat
type InitiateCombatInput struct {
	Narrative   string
	Suggestions []combat.ActorSuggestion
	Trigger     Trigger
	PlayerLevel int
	// RecentContext is the recent conversation, used when no hostiles were
	// suggested and none are staged
	RecentContext []string
}

// StepResult records one pipeline step
type StepResult struct {
	Name     string
	Outcome  Outcome
	Progress int
	Err      error
}

// InitiateCombatOutput reports what the pipeline did
type InitiateCombatOutput struct {
	Steps      []StepResult
	Staged     []*combat.CombatActor
	Skipped    []staging.Skipped
	Transition string
	TurnOrder  []string
	Round      int
}

// Step returns the result for a named step
func (o *InitiateCombatOutput) Step(name string) (StepResult, bool) {
	for _, s := range o.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// ConcludeCombatInput defines the request for ending combat
type ConcludeCombatInput struct{}

// ConcludeCombatOutput is the settlement handed to the loot and XP collaborator
type ConcludeCombatOutput struct {
	Defeated  []*combat.CombatActor
	Surviving []*combat.CombatActor
	Rounds    int
}
