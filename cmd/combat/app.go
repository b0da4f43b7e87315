package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-combat/internal/catalog"
	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative"
	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative/openai"
	"github.com/KirkDiggler/rpg-combat/internal/config"
	"github.com/KirkDiggler/rpg-combat/internal/encounter"
	"github.com/KirkDiggler/rpg-combat/internal/engine/blueprint"
	dicepipeline "github.com/KirkDiggler/rpg-combat/internal/engine/dice"
	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/engine/stealth"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
	"github.com/KirkDiggler/rpg-combat/internal/orchestrators/initiation"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-combat/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-combat/internal/redis"
	"github.com/KirkDiggler/rpg-combat/internal/repositories/registry"
)

// app wires one encounter's worth of components
type app struct {
	store      *encounter.Store
	staging    *staging.Engine
	pipeline   *dicepipeline.Pipeline
	stealth    *stealth.Resolver
	initiation initiation.Service
	registry   registry.Repository

	closers []func()
}

func newApp(ctx context.Context, s *config.Settings) (*app, error) {
	a := &app{}

	cat, err := catalog.LoadFile(s.CatalogPath)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	roller := dice.DefaultRoller
	bus := events.NewBus()

	a.store, err = encounter.NewStore(&encounter.Config{
		EncounterID: idgen.NewUUID("enc").Generate(),
		EventBus:    bus,
	})
	if err != nil {
		return nil, err
	}

	a.registry, err = newRegistry(ctx, a, s)
	if err != nil {
		return nil, err
	}

	syncer, err := registry.NewSyncer(&registry.SyncerConfig{EventBus: bus, Repository: a.registry})
	if err != nil {
		return nil, err
	}
	syncer.Start()
	a.closers = append(a.closers, syncer.Stop)

	resolver, err := blueprint.NewResolver(&blueprint.Config{
		Catalog:     cat,
		Roller:      roller,
		IDGenerator: idgen.NewActor(clk),
	})
	if err != nil {
		return nil, err
	}

	a.staging, err = staging.NewEngine(&staging.Config{Resolver: resolver, Sink: a.store})
	if err != nil {
		return nil, err
	}

	a.pipeline, err = dicepipeline.NewPipeline(&dicepipeline.Config{Roller: roller, Sink: a.store})
	if err != nil {
		return nil, err
	}

	a.stealth, err = stealth.NewResolver(&stealth.Config{Pipeline: a.pipeline, Sink: a.store})
	if err != nil {
		return nil, err
	}

	narrator, err := newNarrator(s)
	if err != nil {
		return nil, err
	}

	a.initiation, err = initiation.NewOrchestrator(&initiation.Config{
		Narrative:   narrator,
		Staging:     a.staging,
		Store:       a.store,
		Roller:      roller,
		IDGenerator: idgen.NewUUID("msg"),
		Registry:    a.registry,
		Clock:       clk,
		StepTimeout: s.StepTimeout,
		PacingDelay: s.PacingDelay,
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newRegistry(ctx context.Context, a *app, s *config.Settings) (registry.Repository, error) {
	if !s.UseRedis() {
		slog.Debug("Using in-memory registry")
		return registry.NewInMemory(), nil
	}

	client, err := redisclient.NewClient(s.RedisEndpoint, &redisclient.Options{UseTLS: s.RedisUseTLS})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	if err := redisclient.Ping(ctx, client); err != nil {
		return nil, err
	}

	slog.Debug("Using redis registry", "endpoint", s.RedisEndpoint)
	return registry.NewRedisRepository(client), nil
}

func newNarrator(s *config.Settings) (narrative.Service, error) {
	if !s.UseOpenAI() {
		slog.Debug("No OpenAI key configured, narrator is offline")
		return narrative.NewOffline(), nil
	}

	client, err := openai.NewClient(&openai.Config{
		APIKey:      s.OpenAIAPIKey,
		Model:       s.OpenAIModel,
		BaseURL:     s.OpenAIBaseURL,
		Timeout:     s.OpenAITimeout,
		Temperature: s.OpenAITemperature,
		MaxRetries:  s.OpenAIMaxRetries,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// readJSON decodes a file, or stdin when path is "-"
func readJSON(path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to open input")
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode input")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
