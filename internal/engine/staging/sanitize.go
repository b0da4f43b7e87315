package staging

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

var placeholderMarkers = []string{"replace", "unknown"}

const bracketChars = "[]{}<>"

// SanitizeSize title-cases raw and keeps it only when it names a known size.
// Anything else becomes Medium.
func SanitizeSize(cat *catalog.Catalog, raw string) combat.SizeClass {
	if size, ok := cat.ParseSize(raw); ok {
		return size
	}
	return combat.SizeMedium
}

// SanitizeName clears placeholder names so a real name can be supplied later.
// Names containing "replace", "unknown" or bracket characters are placeholders.
func SanitizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return ""
		}
	}
	if strings.ContainsAny(name, bracketChars) {
		return ""
	}

	return name
}

// nameBook hands out display names that are unique across the encounter
type nameBook struct {
	taken map[string]bool
}

func newNameBook(existing []*combat.CombatActor) *nameBook {
	b := &nameBook{taken: make(map[string]bool, len(existing))}
	for _, a := range existing {
		if a != nil {
			b.reserve(a.Name)
		}
	}
	return b
}

func (b *nameBook) reserve(name string) {
	b.taken[strings.ToLower(strings.TrimSpace(name))] = true
}

// claim returns name, or name with the first free " N" suffix starting at 2
func (b *nameBook) claim(name string) string {
	candidate := name
	for n := 2; b.taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s %d", name, n)
	}
	b.reserve(candidate)
	return candidate
}
