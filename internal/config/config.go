// Package config loads runtime settings from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// Prefix is prepended to every environment variable name
const Prefix = "RPG_COMBAT_"

// Settings are the runtime settings of the combat core
type Settings struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisEndpoint selects the Redis registry; empty keeps it in memory
	RedisEndpoint string `env:"REDIS_ENDPOINT"`
	RedisUseTLS   bool   `env:"REDIS_TLS"`

	// OpenAIAPIKey enables the OpenAI narrator; empty runs offline
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIModel       string        `env:"OPENAI_MODEL"       envDefault:"gpt-4o-mini"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	OpenAITimeout     time.Duration `env:"OPENAI_TIMEOUT"     envDefault:"30s"`
	OpenAITemperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	OpenAIMaxRetries  int           `env:"OPENAI_MAX_RETRIES" envDefault:"2"`

	StepTimeout time.Duration `env:"STEP_TIMEOUT" envDefault:"20s"`
	PacingDelay time.Duration `env:"PACING_DELAY" envDefault:"750ms"`

	// CatalogPath points at a YAML catalog; empty uses the built-in one
	CatalogPath string `env:"CATALOG_PATH"`
	PlayerLevel int    `env:"PLAYER_LEVEL" envDefault:"1"`
}

// Load reads settings from the process environment
func Load() (*Settings, error) {
	return load(env.Options{Prefix: Prefix})
}

// LoadFrom reads settings from the given variables instead of the process
// environment
func LoadFrom(vars map[string]string) (*Settings, error) {
	return load(env.Options{Prefix: Prefix, Environment: vars})
}

func load(opts env.Options) (*Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "failed to parse environment")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "invalid settings")
	}
	return &s, nil
}

// Validate checks the settings are usable
func (s *Settings) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("LogLevel", strings.ToLower(s.LogLevel), []string{"debug", "info", "warn", "error"}, vb)
	if s.OpenAITemperature < 0 || s.OpenAITemperature > 2 {
		vb.InvalidField("OpenAITemperature", "must be between 0 and 2")
	}
	if s.OpenAIMaxRetries < 0 {
		vb.InvalidField("OpenAIMaxRetries", "must not be negative")
	}
	if s.StepTimeout < 0 {
		vb.InvalidField("StepTimeout", "must not be negative")
	}
	if s.PacingDelay < 0 {
		vb.InvalidField("PacingDelay", "must not be negative")
	}
	errors.ValidateRange("PlayerLevel", s.PlayerLevel, 1, 20, vb)

	return vb.Build()
}

// Level returns the slog level named by LogLevel
func (s *Settings) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// UseRedis reports whether the registry should live in Redis
func (s *Settings) UseRedis() bool {
	return s.RedisEndpoint != ""
}

// UseOpenAI reports whether the OpenAI narrator is configured
func (s *Settings) UseOpenAI() bool {
	return s.OpenAIAPIKey != ""
}
