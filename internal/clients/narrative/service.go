// Package narrative defines the contract of the narrative generation
// collaborator: alignment hints, hostile reassessment, name enrichment and
// transition text. The combat core treats every call as optional.
package narrative

//go:generate mockgen -destination=mock/mock_service.go -package=narrativemock github.com/KirkDiggler/rpg-combat/internal/clients/narrative Service

import (
	"context"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// Service is the narrative generation collaborator
type Service interface {
	// ResolveAlignments classifies undecided actors as ally, enemy or neutral
	ResolveAlignments(ctx context.Context, input *ResolveAlignmentsInput) (*ResolveAlignmentsOutput, error)

	// ReassessHostiles re-derives a hostile list from recent conversation
	ReassessHostiles(ctx context.Context, input *ReassessHostilesInput) (*ReassessHostilesOutput, error)

	// EnrichActorSuggestions invents names and descriptions for anonymous slots
	EnrichActorSuggestions(ctx context.Context, input *EnrichActorSuggestionsInput) (*EnrichActorSuggestionsOutput, error)

	// SynthesizeTransitionNarrative writes a short line bridging into combat
	SynthesizeTransitionNarrative(ctx context.Context, input *SynthesizeTransitionInput) (*SynthesizeTransitionOutput, error)
}

// AlignmentCandidate is an actor whose stance is still undecided
type AlignmentCandidate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Relationship int    `json:"relationship"`
}

// ResolveAlignmentsInput holds the triggering narrative and the candidates
type ResolveAlignmentsInput struct {
	Narrative  string
	Candidates []AlignmentCandidate
}

// ResolveAlignmentsOutput maps candidate ids to alignments. Candidates the
// service could not classify are absent.
type ResolveAlignmentsOutput struct {
	Alignments map[string]combat.Alignment
}

// ReassessHostilesInput holds the recent conversation to mine for hostiles
type ReassessHostilesInput struct {
	Narrative     string
	RecentContext []string
}

// ReassessHostilesOutput holds the recovered hostile suggestions
type ReassessHostilesOutput struct {
	Suggestions []combat.ActorSuggestion
}

// EnrichActorSuggestionsInput holds the anonymous slots to fill
type EnrichActorSuggestionsInput struct {
	Narrative   string
	Suggestions []combat.ActorSuggestion
	// ExcludedNames must not be reused
	ExcludedNames []string
}

// EnrichActorSuggestionsOutput holds the enriched slots, index-aligned with the input
type EnrichActorSuggestionsOutput struct {
	Suggestions []combat.ActorSuggestion
}

// SynthesizeTransitionInput holds the participants to mention
type SynthesizeTransitionInput struct {
	Narrative string
	Names     []string
}

// SynthesizeTransitionOutput holds the bridging line
type SynthesizeTransitionOutput struct {
	Text string
}
