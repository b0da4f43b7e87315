// Package idgen provides ID generation utilities
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/KirkDiggler/rpg-combat/internal/pkg/clock"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/rpg-combat/internal/pkg/idgen Generator,KeyedGenerator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// KeyedGenerator generates identifiers derived from a key, such as a template name
type KeyedGenerator interface {
	GenerateFor(key string) string
}

var keyCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// ActorGenerator generates actor IDs with the format: key_unixmillis_suffix.
// The millisecond timestamp plus a 3 byte random suffix keeps IDs unique when a
// batch of actors is staged within the same millisecond.
type ActorGenerator struct {
	clock clock.Clock
}

// NewActor creates an actor ID generator reading time from the given clock
func NewActor(c clock.Clock) *ActorGenerator {
	if c == nil {
		c = clock.New()
	}
	return &ActorGenerator{clock: c}
}

// GenerateFor creates a new actor ID for the given key
func (g *ActorGenerator) GenerateFor(key string) string {
	randomBytes := make([]byte, 3)
	_, err := rand.Read(randomBytes)
	if err != nil {
		// crypto/rand.Read should never fail on a properly configured system
		panic(fmt.Sprintf("crypto/rand.Read failed: %v", err))
	}

	return fmt.Sprintf("%s_%d_%s", cleanKey(key), g.clock.Now().UnixMilli(), hex.EncodeToString(randomBytes))
}

func cleanKey(key string) string {
	slug := keyCleaner.ReplaceAllString(strings.ToLower(key), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "actor"
	}
	return slug
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// GenerateFor creates a new sequential ID scoped to key
func (g *SequentialGenerator) GenerateFor(key string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s_%d", cleanKey(key), n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}
