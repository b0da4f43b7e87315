package dice

import (
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// AdjustDamage applies a target's defenses to an amount of typed damage.
// Immunity zeroes the damage and wins over resistance. Resistance halves
// (rounding down) and vulnerability doubles; both together apply in that
// order. A type that is resisted, immune and vulnerable at once is a
// configuration error.
func AdjustDamage(amount int, damageType combat.DamageType, defenses combat.Defenses) (int, []Note, error) {
	if damageType == "" || amount <= 0 {
		return max(amount, 0), nil, nil
	}

	resisted := combat.ContainsDamageType(defenses.Resistances, damageType)
	immune := combat.ContainsDamageType(defenses.Immunities, damageType)
	vulnerable := combat.ContainsDamageType(defenses.Vulnerabilities, damageType)

	if resisted && immune && vulnerable {
		return 0, nil, errors.Configurationf("damage type %s is resisted, immune and vulnerable at once", damageType).
			WithMeta("damage_type", string(damageType))
	}

	if immune {
		return 0, []Note{NoteImmune}, nil
	}

	var notes []Note
	if resisted {
		amount /= 2
		notes = append(notes, NoteResisted)
	}
	if vulnerable {
		amount *= 2
		notes = append(notes, NoteVulnerable)
	}

	return amount, notes, nil
}
