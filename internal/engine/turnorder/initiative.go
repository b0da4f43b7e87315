package turnorder

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Participant is an actor about to roll initiative
type Participant struct {
	ActorID  string
	Modifier int
}

// RollInitiative rolls a d20 plus modifier for every participant, keeping
// the participant order so ties resolve by insertion.
func RollInitiative(roller dice.Roller, participants []Participant) ([]Entry, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}

	entries := make([]Entry, 0, len(participants))
	for _, p := range participants {
		roll, err := roller.Roll(20)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll initiative for %s", p.ActorID)
		}
		entries = append(entries, Entry{
			ActorID:  p.ActorID,
			Roll:     roll,
			Modifier: p.Modifier,
			Total:    roll + p.Modifier,
		})
	}

	return entries, nil
}
