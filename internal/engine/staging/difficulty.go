package staging

import (
	"strings"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// Difficulty labels understood by ResolveDifficulty. Unknown labels count as normal.
const (
	LabelWeak   = "weak"
	LabelNormal = "normal"
	LabelElite  = "elite"
	LabelTough  = "tough"
	LabelBoss   = "boss"
)

// ResolveDifficulty maps a difficulty and the player level into a challenge
// rating and rank:
//
//	Weak       -> max(1, level/2), Normal
//	Normal     -> level,           Normal
//	Elite      -> level+2,         Elite
//	Boss/Tough -> level+4,         Boss
//
// A numeric difficulty is used as the challenge rating directly. An explicit
// challenge rating always wins for the rating; the rank still follows the label.
func ResolveDifficulty(difficulty *combat.Difficulty, challengeRating *int, playerLevel int) (int, combat.Rank) {
	level := max(playerLevel, 1)
	cr, rank := level, combat.RankNormal

	if difficulty != nil {
		if n, ok := difficulty.Numeric(); ok {
			cr = n
		} else if label, ok := difficulty.Label(); ok {
			switch strings.ToLower(label) {
			case LabelWeak:
				cr = max(1, level/2)
			case LabelElite:
				cr, rank = level+2, combat.RankElite
			case LabelBoss, LabelTough:
				cr, rank = level+4, combat.RankBoss
			}
		}
	}

	if challengeRating != nil {
		cr = *challengeRating
	}

	return max(cr, 0), rank
}
