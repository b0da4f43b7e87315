package narrative

import (
	"context"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Offline is the Service used when no narrative backend is configured.
// Every call fails with Unavailable so callers take their degraded path.
type Offline struct{}

// NewOffline creates an offline narrator
func NewOffline() *Offline {
	return &Offline{}
}

// ResolveAlignments always fails
func (o *Offline) ResolveAlignments(_ context.Context, _ *ResolveAlignmentsInput) (*ResolveAlignmentsOutput, error) {
	return nil, errors.Unavailable("narrative service is offline")
}

// ReassessHostiles always fails
func (o *Offline) ReassessHostiles(_ context.Context, _ *ReassessHostilesInput) (*ReassessHostilesOutput, error) {
	return nil, errors.Unavailable("narrative service is offline")
}

// EnrichActorSuggestions always fails
func (o *Offline) EnrichActorSuggestions(_ context.Context, _ *EnrichActorSuggestionsInput) (*EnrichActorSuggestionsOutput, error) {
	return nil, errors.Unavailable("narrative service is offline")
}

// SynthesizeTransitionNarrative always fails
func (o *Offline) SynthesizeTransitionNarrative(_ context.Context, _ *SynthesizeTransitionInput) (*SynthesizeTransitionOutput, error) {
	return nil, errors.Unavailable("narrative service is offline")
}

var _ Service = (*Offline)(nil)
