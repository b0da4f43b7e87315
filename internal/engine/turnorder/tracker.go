// Package turnorder tracks whose turn it is during an encounter.
//
// The tracker is a plain value: it holds no references to actors, only their
// identities. Liveness is supplied by the caller on each transition so the
// tracker never needs to know how hit points are stored.
package turnorder

import (
	"sort"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Phase is the lifecycle state of an encounter
type Phase string

// Phases
const (
	PhaseInactive  Phase = "inactive"
	PhaseStaging   Phase = "staging"
	PhaseActive    Phase = "active"
	PhaseConcluded Phase = "concluded"
)

// Entry is one rolled initiative
type Entry struct {
	ActorID  string `json:"actor_id"`
	Roll     int    `json:"roll"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
}

// Liveness reports whether an actor can take a turn
type Liveness func(actorID string) bool

// Tracker is the turn-order state machine
type Tracker struct {
	Phase      Phase          `json:"phase"`
	Order      []string       `json:"order"`
	Initiative map[string]int `json:"initiative,omitempty"`
	Index      int            `json:"index"`
	Round      int            `json:"round"`
}

// Current returns the actor whose turn it is, or "" when nobody is queued
func (t *Tracker) Current() string {
	if len(t.Order) == 0 || t.Index < 0 || t.Index >= len(t.Order) {
		return ""
	}
	return t.Order[t.Index]
}

// Contains reports whether an actor is in the order
func (t *Tracker) Contains(actorID string) bool {
	return t.indexOf(actorID) >= 0
}

// Stage moves an inactive or concluded encounter into staging
func (t *Tracker) Stage() error {
	switch t.Phase {
	case PhaseInactive, PhaseConcluded, "":
		*t = Tracker{Phase: PhaseStaging}
		return nil
	case PhaseStaging:
		return nil
	default:
		return errors.FailedPreconditionf("cannot stage from phase %s", t.Phase)
	}
}

// Start builds the order from rolled initiative and activates combat.
// Entries are sorted by total descending; ties keep insertion order.
func (t *Tracker) Start(entries []Entry, alive Liveness) error {
	switch t.Phase {
	case PhaseInactive, PhaseStaging, PhaseConcluded, "":
	default:
		return errors.FailedPreconditionf("cannot start combat from phase %s", t.Phase)
	}

	sorted := make([]Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ActorID == "" || seen[e.ActorID] {
			continue
		}
		seen[e.ActorID] = true
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total > sorted[j].Total
	})

	t.Phase = PhaseActive
	t.Round = 1
	t.Index = 0
	t.Order = make([]string, len(sorted))
	t.Initiative = make(map[string]int, len(sorted))
	for i, e := range sorted {
		t.Order[i] = e.ActorID
		t.Initiative[e.ActorID] = e.Total
	}

	t.repair(alive)
	return nil
}

// Advance moves the cursor to the next live actor, wrapping to the top of
// the order and incrementing the round. It returns the new current actor.
func (t *Tracker) Advance(alive Liveness) (string, error) {
	if t.Phase != PhaseActive {
		return "", errors.FailedPreconditionf("cannot advance turn in phase %s", t.Phase)
	}
	if len(t.Order) == 0 {
		return "", nil
	}

	idx, round := t.Index, t.Round
	for range t.Order {
		idx++
		if idx >= len(t.Order) {
			idx = 0
			t.Round++
		}
		if isAlive(alive, t.Order[idx]) {
			t.Index = idx
			return t.Order[idx], nil
		}
	}

	// Nobody left standing; the cursor and round stay where they were.
	t.Round = round
	return "", nil
}

// Add inserts an actor by initiative total, after any actor with an equal
// or higher total. The current actor keeps the turn.
func (t *Tracker) Add(entry Entry) error {
	if entry.ActorID == "" {
		return errors.InvalidArgument("actor ID is required")
	}
	if t.Contains(entry.ActorID) {
		return errors.AlreadyExistsf("actor %s is already in the turn order", entry.ActorID)
	}
	if t.Initiative == nil {
		t.Initiative = make(map[string]int)
	}

	pos := len(t.Order)
	for i, id := range t.Order {
		if t.Initiative[id] < entry.Total {
			pos = i
			break
		}
	}

	t.Order = append(t.Order, "")
	copy(t.Order[pos+1:], t.Order[pos:])
	t.Order[pos] = entry.ActorID
	t.Initiative[entry.ActorID] = entry.Total

	if t.Phase == PhaseActive && len(t.Order) > 1 && pos <= t.Index {
		t.Index++
	}
	return nil
}

// Remove drops an actor from the order. If it held the turn, the turn
// passes to the next live actor without starting a new round.
func (t *Tracker) Remove(actorID string, alive Liveness) error {
	pos := t.indexOf(actorID)
	if pos < 0 {
		return errors.NotFoundf("actor %s is not in the turn order", actorID)
	}

	t.Order = append(t.Order[:pos], t.Order[pos+1:]...)
	delete(t.Initiative, actorID)

	switch {
	case len(t.Order) == 0:
		t.Index = 0
	case pos < t.Index:
		t.Index--
	case t.Index >= len(t.Order):
		t.Index = 0
	}

	t.repair(alive)
	return nil
}

// Move places an actor at a new position. The current actor keeps the turn.
func (t *Tracker) Move(actorID string, to int) error {
	from := t.indexOf(actorID)
	if from < 0 {
		return errors.NotFoundf("actor %s is not in the turn order", actorID)
	}
	to = min(max(to, 0), len(t.Order)-1)
	if from == to {
		return nil
	}

	current := t.Current()

	t.Order = append(t.Order[:from], t.Order[from+1:]...)
	t.Order = append(t.Order, "")
	copy(t.Order[to+1:], t.Order[to:])
	t.Order[to] = actorID

	if current != "" {
		t.Index = t.indexOf(current)
	}
	return nil
}

// Conclude ends active combat
func (t *Tracker) Conclude() error {
	if t.Phase != PhaseActive {
		return errors.FailedPreconditionf("cannot conclude combat in phase %s", t.Phase)
	}
	t.Phase = PhaseConcluded
	return nil
}

// Clone returns a deep copy of the tracker
func (t Tracker) Clone() Tracker {
	out := t
	out.Order = append([]string(nil), t.Order...)
	if t.Initiative != nil {
		out.Initiative = make(map[string]int, len(t.Initiative))
		for k, v := range t.Initiative {
			out.Initiative[k] = v
		}
	}
	return out
}

// Repair passes the turn to the next live actor when the current one is
// down. It only acts while combat is active and never starts a new round.
func (t *Tracker) Repair(alive Liveness) {
	if t.Phase != PhaseActive {
		return
	}
	t.repair(alive)
}

// repair moves the cursor forward to a live actor without touching the round
func (t *Tracker) repair(alive Liveness) {
	if len(t.Order) == 0 {
		t.Index = 0
		return
	}
	for i := 0; i < len(t.Order); i++ {
		idx := (t.Index + i) % len(t.Order)
		if isAlive(alive, t.Order[idx]) {
			t.Index = idx
			return
		}
	}
}

func (t *Tracker) indexOf(actorID string) int {
	for i, id := range t.Order {
		if id == actorID {
			return i
		}
	}
	return -1
}

func isAlive(alive Liveness, actorID string) bool {
	if alive == nil {
		return true
	}
	return alive(actorID)
}
