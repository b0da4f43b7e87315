package combat

// Relationship bounds for registry entries
const (
	MinRelationship = -100
	MaxRelationship = 100
)

// CombatProfile is the mechanical part of a registry entry, used to rebuild
// the entry as a live combatant.
type CombatProfile struct {
	TemplateKey     string        `json:"template,omitempty"`
	Size            SizeClass     `json:"size,omitempty"`
	ChallengeRating int           `json:"challenge_rating,omitempty"`
	Rank            Rank          `json:"rank,omitempty"`
	Archetype       string        `json:"archetype,omitempty"`
	Affinity        string        `json:"affinity,omitempty"`
	Alignment       Alignment     `json:"alignment,omitempty"`
	Abilities       AbilityScores `json:"abilities"`
	ArmorBonus      int           `json:"armor_bonus,omitempty"`
}

// RegistryEntry is a persistent world NPC
type RegistryEntry struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Relationship int           `json:"relationship"`
	Status       LifeStatus    `json:"status"`
	IsEssential  bool          `json:"is_essential"`
	Profile      CombatProfile `json:"profile"`
}

// IsDead reports whether the entry has died
func (e *RegistryEntry) IsDead() bool {
	return e.Status == StatusDead
}

// ClampRelationship keeps a relationship score within [-100, 100]
func ClampRelationship(score int) int {
	return min(max(score, MinRelationship), MaxRelationship)
}

// RegistryEntryFromActor builds the registry entry for a newly staged hostile
func RegistryEntryFromActor(a *CombatActor) *RegistryEntry {
	return &RegistryEntry{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Relationship: 0,
		Status:       StatusAlive,
		IsEssential:  a.IsEssential,
		Profile: CombatProfile{
			TemplateKey:     a.TemplateKey,
			Size:            a.Size,
			ChallengeRating: a.ChallengeRating,
			Rank:            a.Rank,
			Archetype:       a.Archetype,
			Affinity:        a.Affinity,
			Alignment:       a.Alignment,
			Abilities:       a.Abilities,
			ArmorBonus:      a.ArmorBonus,
		},
	}
}
