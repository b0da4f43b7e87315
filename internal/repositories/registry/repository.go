// Package registry defines persistence for world NPC entries
package registry

//go:generate mockgen -destination=mock/mock_repository.go -package=registrymock github.com/KirkDiggler/rpg-combat/internal/repositories/registry Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Repository defines the storage interface for world NPC entries
type Repository interface {
	// Get retrieves an entry by ID
	// Returns errors.InvalidArgument for an empty ID
	// Returns errors.NotFound if the entry doesn't exist
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns every entry ordered by ID
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Save creates or replaces an entry
	// Returns errors.InvalidArgument for a nil entry or empty ID
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Delete removes an entry
	// Returns errors.NotFound if the entry doesn't exist
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for getting an entry
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an entry
type GetOutput struct {
	Entry *combat.RegistryEntry
}

// ListInput defines the input for listing entries
type ListInput struct {
	// AliveOnly drops entries whose status is Dead
	AliveOnly bool
}

// ListOutput defines the output for listing entries
type ListOutput struct {
	Entries []*combat.RegistryEntry
}

// SaveInput defines the input for saving an entry
type SaveInput struct {
	Entry *combat.RegistryEntry
}

// SaveOutput defines the output for saving an entry
type SaveOutput struct{}

// DeleteInput defines the input for deleting an entry
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting an entry
type DeleteOutput struct{}

const (
	errInputNil   = "input is required"
	errEntryNil   = "entry cannot be nil"
	errEntryIDNil = "entry ID cannot be empty"
)

func validateSave(input *SaveInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputNil)
	}
	if input.Entry == nil {
		return errors.InvalidArgument(errEntryNil)
	}
	if input.Entry.ID == "" {
		return errors.InvalidArgument(errEntryIDNil)
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return errors.InvalidArgument(errEntryIDNil)
	}
	return nil
}

// clamped returns a copy of the entry with its relationship inside bounds
func clamped(e *combat.RegistryEntry) *combat.RegistryEntry {
	cp := *e
	cp.Relationship = combat.ClampRelationship(cp.Relationship)
	if cp.Status == "" {
		cp.Status = combat.StatusAlive
	}
	return &cp
}
