package combat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type difficultyKind int

const (
	difficultyNone difficultyKind = iota
	difficultyLabel
	difficultyNumeric
)

// Difficulty is either a label ("Boss", "Weak") or a numeric challenge rating.
// It is decoded once at the JSON boundary; numeric strings become Numeric.
type Difficulty struct {
	kind  difficultyKind
	label string
	value int
}

// LabelDifficulty creates a label difficulty
func LabelDifficulty(label string) Difficulty {
	return Difficulty{kind: difficultyLabel, label: strings.TrimSpace(label)}
}

// NumericDifficulty creates a numeric difficulty
func NumericDifficulty(cr int) Difficulty {
	return Difficulty{kind: difficultyNumeric, value: cr}
}

// Label returns the label and true when d is a label difficulty
func (d Difficulty) Label() (string, bool) {
	return d.label, d.kind == difficultyLabel
}

// Numeric returns the challenge rating and true when d is numeric
func (d Difficulty) Numeric() (int, bool) {
	return d.value, d.kind == difficultyNumeric
}

// IsZero reports whether no difficulty was given
func (d Difficulty) IsZero() bool {
	return d.kind == difficultyNone
}

func (d Difficulty) String() string {
	switch d.kind {
	case difficultyLabel:
		return d.label
	case difficultyNumeric:
		return strconv.Itoa(d.value)
	default:
		return ""
	}
}

// UnmarshalJSON accepts a JSON number, a numeric string or a label string
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Difficulty{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ParseDifficulty(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("difficulty must be a number or a string: %w", err)
	}
	*d = NumericDifficulty(int(f))
	return nil
}

// MarshalJSON writes a number for numeric difficulties and a string otherwise
func (d Difficulty) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case difficultyNumeric:
		return json.Marshal(d.value)
	case difficultyLabel:
		return json.Marshal(d.label)
	default:
		return []byte("null"), nil
	}
}

// ParseDifficulty turns free text into a Difficulty. Blank text is the zero value.
func ParseDifficulty(raw string) Difficulty {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Difficulty{}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return NumericDifficulty(n)
	}
	return LabelDifficulty(raw)
}

// ActorSuggestion is a narrative hint for staging. Every field is optional.
type ActorSuggestion struct {
	ID              *string     `json:"id,omitempty"`
	Name            *string     `json:"name,omitempty"`
	Description     *string     `json:"description,omitempty"`
	Template        *string     `json:"template,omitempty"`
	Size            *string     `json:"size,omitempty"`
	ChallengeRating *int        `json:"challenge_rating,omitempty"`
	Difficulty      *Difficulty `json:"difficulty,omitempty"`
	Archetype       *string     `json:"archetype,omitempty"`
	Affinity        *string     `json:"affinity,omitempty"`
	Alignment       *Alignment  `json:"alignment,omitempty"`
	// IsAlly is the legacy stance flag. Alignment wins when both are set.
	IsAlly *bool `json:"is_ally,omitempty"`
	IsShip bool  `json:"is_ship,omitempty"`
}

// HasName reports whether the suggestion carries a non-blank name
func (s *ActorSuggestion) HasName() bool {
	return strings.TrimSpace(Value(s.Name)) != ""
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
