// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative"
	narrativemock "github.com/KirkDiggler/rpg-combat/internal/clients/narrative/mock"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// ExpectRecoveredHostiles makes the next ReassessHostiles call return suggestions
func ExpectRecoveredHostiles(m *narrativemock.MockService, suggestions ...combat.ActorSuggestion) *gomock.Call {
	return m.EXPECT().
		ReassessHostiles(gomock.Any(), gomock.Any()).
		Return(&narrative.ReassessHostilesOutput{Suggestions: suggestions}, nil)
}

// ExpectAlignmentFailure makes the next ResolveAlignments call fail with err
func ExpectAlignmentFailure(m *narrativemock.MockService, err error) *gomock.Call {
	return m.EXPECT().
		ResolveAlignments(gomock.Any(), gomock.Any()).
		Return(nil, err)
}
