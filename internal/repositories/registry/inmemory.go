package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*combat.RegistryEntry
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*combat.RegistryEntry),
	}
}

// Get retrieves an entry by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("registry entry %s not found", input.ID)
	}

	// Return a copy to prevent external modification
	cp := *entry
	return &GetOutput{Entry: &cp}, nil
}

// List returns every entry ordered by ID
func (r *InMemoryRepository) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		input = &ListInput{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*combat.RegistryEntry, 0, len(r.store))
	for _, e := range r.store {
		if input.AliveOnly && e.IsDead() {
			continue
		}
		cp := *e
		entries = append(entries, &cp)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return &ListOutput{Entries: entries}, nil
}

// Save creates or replaces an entry
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Entry.ID] = clamped(input.Entry)

	return &SaveOutput{}, nil
}

// Delete removes an entry
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, errors.NotFoundf("registry entry %s not found", input.ID)
	}
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

var _ Repository = (*InMemoryRepository)(nil)
