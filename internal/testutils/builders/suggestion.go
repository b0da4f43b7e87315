// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// SuggestionBuilder provides a fluent interface for building test ActorSuggestion instances
type SuggestionBuilder struct {
	suggestion combat.ActorSuggestion
}

// NewSuggestionBuilder creates a builder with no fields set
func NewSuggestionBuilder() *SuggestionBuilder {
	return &SuggestionBuilder{}
}

// WithID sets the suggested identity
func (b *SuggestionBuilder) WithID(id string) *SuggestionBuilder {
	b.suggestion.ID = combat.Ptr(id)
	return b
}

// WithName sets the display name
func (b *SuggestionBuilder) WithName(name string) *SuggestionBuilder {
	b.suggestion.Name = combat.Ptr(name)
	return b
}

// WithDescription sets the description
func (b *SuggestionBuilder) WithDescription(description string) *SuggestionBuilder {
	b.suggestion.Description = combat.Ptr(description)
	return b
}

// WithTemplate sets the template key
func (b *SuggestionBuilder) WithTemplate(template string) *SuggestionBuilder {
	b.suggestion.Template = combat.Ptr(template)
	return b
}

// WithSize sets the raw size text
func (b *SuggestionBuilder) WithSize(size string) *SuggestionBuilder {
	b.suggestion.Size = combat.Ptr(size)
	return b
}

// WithChallengeRating sets an explicit challenge rating
func (b *SuggestionBuilder) WithChallengeRating(cr int) *SuggestionBuilder {
	b.suggestion.ChallengeRating = combat.Ptr(cr)
	return b
}

// WithDifficulty sets a difficulty label such as "Boss"
func (b *SuggestionBuilder) WithDifficulty(label string) *SuggestionBuilder {
	b.suggestion.Difficulty = combat.Ptr(combat.LabelDifficulty(label))
	return b
}

// WithNumericDifficulty sets a numeric difficulty
func (b *SuggestionBuilder) WithNumericDifficulty(cr int) *SuggestionBuilder {
	b.suggestion.Difficulty = combat.Ptr(combat.NumericDifficulty(cr))
	return b
}

// WithArchetype sets the archetype
func (b *SuggestionBuilder) WithArchetype(archetype string) *SuggestionBuilder {
	b.suggestion.Archetype = combat.Ptr(archetype)
	return b
}

// WithAffinity sets the affinity key
func (b *SuggestionBuilder) WithAffinity(affinity string) *SuggestionBuilder {
	b.suggestion.Affinity = combat.Ptr(affinity)
	return b
}

// WithAlignment sets the explicit alignment
func (b *SuggestionBuilder) WithAlignment(alignment combat.Alignment) *SuggestionBuilder {
	b.suggestion.Alignment = combat.Ptr(alignment)
	return b
}

// WithIsAlly sets the legacy ally flag
func (b *SuggestionBuilder) WithIsAlly(isAlly bool) *SuggestionBuilder {
	b.suggestion.IsAlly = combat.Ptr(isAlly)
	return b
}

// AsShip marks the suggestion as a ship
func (b *SuggestionBuilder) AsShip() *SuggestionBuilder {
	b.suggestion.IsShip = true
	return b
}

// Build returns a copy of the built suggestion
func (b *SuggestionBuilder) Build() combat.ActorSuggestion {
	return b.suggestion
}
