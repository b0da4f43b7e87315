package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// MaxDiceCount bounds a single notation so malformed input cannot stall a roll
const MaxDiceCount = 100

var notationPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Notation is a parsed NdS+M expression
type Notation struct {
	Count    int
	Size     int
	Modifier int
}

func (n Notation) String() string {
	switch {
	case n.Count == 0:
		return strconv.Itoa(n.Modifier)
	case n.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Size, n.Modifier)
	case n.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Size, n.Modifier)
	default:
		return fmt.Sprintf("%dd%d", n.Count, n.Size)
	}
}

// ParseNotation parses "2d6+3", "d8", "1d10 - 1" or a flat number like "4"
func ParseNotation(raw string) (Notation, error) {
	s := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if s == "" {
		return Notation{}, errors.InvalidArgument("dice notation is required")
	}

	if flat, err := strconv.Atoi(s); err == nil {
		return Notation{Modifier: flat}, nil
	}

	m := notationPattern.FindStringSubmatch(s)
	if m == nil {
		return Notation{}, errors.InvalidArgumentf("invalid dice notation %q", raw)
	}

	n := Notation{Count: 1}
	if m[1] != "" {
		n.Count, _ = strconv.Atoi(m[1])
	}
	n.Size, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		n.Modifier, _ = strconv.Atoi(m[3])
	}

	if n.Count < 1 || n.Count > MaxDiceCount {
		return Notation{}, errors.InvalidArgumentf("dice count in %q must be between 1 and %d", raw, MaxDiceCount)
	}
	if n.Size < 1 {
		return Notation{}, errors.InvalidArgumentf("die size in %q must be positive", raw)
	}

	return n, nil
}
