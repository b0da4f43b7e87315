// Package openai implements the narrative service over OpenAI chat completions.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/KirkDiggler/rpg-combat/internal/clients/narrative"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are the game master's assistant for a tabletop combat engine. " +
	"Answer only with the JSON or text requested, never with commentary."

// Config holds the settings for the client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds each HTTP request; zero leaves it to the context
	Timeout     time.Duration
	Temperature float64
	MaxRetries  int
}

// Validate ensures all required settings are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("APIKey", c.APIKey, vb)
	if c.Temperature < 0 || c.Temperature > 2 {
		vb.InvalidField("Temperature", "must be between 0 and 2")
	}
	if c.MaxRetries < 0 {
		vb.InvalidField("MaxRetries", "must not be negative")
	}

	return vb.Build()
}

// Client is a narrative.Service backed by the OpenAI API
type Client struct {
	client      oai.Client
	model       string
	temperature float64
}

// NewClient creates a client with the provided settings
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.Timeout,
		}))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client:      oai.NewClient(reqOpts...),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// ResolveAlignments asks the model to classify each candidate
func (c *Client) ResolveAlignments(ctx context.Context, input *narrative.ResolveAlignmentsInput) (*narrative.ResolveAlignmentsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	candidates, err := json.Marshal(input.Candidates)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode candidates")
	}

	prompt := fmt.Sprintf(`Combat is starting. Narrative:
%s

Classify each candidate as "ally", "enemy" or "neutral" toward the party.
Relationship runs from -100 (sworn foe) to 100 (devoted friend).
Candidates: %s

Reply with JSON: {"alignments": {"<id>": "<ally|enemy|neutral>"}}`, input.Narrative, candidates)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	alignments, err := parseAlignments(content)
	if err != nil {
		return nil, err
	}

	return &narrative.ResolveAlignmentsOutput{Alignments: alignments}, nil
}

// ReassessHostiles asks the model which hostiles the recent conversation implies
func (c *Client) ReassessHostiles(ctx context.Context, input *narrative.ReassessHostilesInput) (*narrative.ReassessHostilesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	prompt := fmt.Sprintf(`Combat was declared but no opponents were named. Narrative:
%s

Recent conversation:
%s

List the hostile creatures the party is most likely fighting.
Reply with JSON: {"suggestions": [{"name": "...", "description": "...", "template": "...", "size": "...", "difficulty": "Weak|Normal|Elite|Boss"}]}`,
		input.Narrative, strings.Join(input.RecentContext, "\n"))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(content)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		if suggestions[i].Alignment == nil && suggestions[i].IsAlly == nil {
			suggestions[i].Alignment = combat.Ptr(combat.AlignmentEnemy)
		}
	}

	return &narrative.ReassessHostilesOutput{Suggestions: suggestions}, nil
}

// EnrichActorSuggestions asks the model to name anonymous slots
func (c *Client) EnrichActorSuggestions(ctx context.Context, input *narrative.EnrichActorSuggestionsInput) (*narrative.EnrichActorSuggestionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	slots, err := json.Marshal(input.Suggestions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode suggestions")
	}

	prompt := fmt.Sprintf(`Narrative:
%s

These combatants have no names yet: %s
Give each one a fitting name and a one sentence description.
Do not use any of these names: %s

Reply with JSON holding one entry per combatant, in the same order:
{"suggestions": [{"name": "...", "description": "..."}]}`,
		input.Narrative, slots, strings.Join(input.ExcludedNames, ", "))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	named, err := parseSuggestions(content)
	if err != nil {
		return nil, err
	}

	return &narrative.EnrichActorSuggestionsOutput{
		Suggestions: mergeNames(input.Suggestions, named),
	}, nil
}

// SynthesizeTransitionNarrative asks the model for a short bridging line
func (c *Client) SynthesizeTransitionNarrative(ctx context.Context, input *narrative.SynthesizeTransitionInput) (*narrative.SynthesizeTransitionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	prompt := fmt.Sprintf(`Narrative so far:
%s

Write two sentences that carry the scene into combat and mention every one of: %s.
Reply with the text only.`, input.Narrative, strings.Join(input.Names, ", "))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(stripFence(content))
	if text == "" {
		return nil, errors.Internal("model returned an empty transition")
	}

	return &narrative.SynthesizeTransitionOutput{Text: text}, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(prompt),
		},
	}
	if c.temperature != 0 {
		params.Temperature = param.NewOpt(c.temperature)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		switch ctx.Err() {
		case context.Canceled:
			return "", errors.WrapWithCode(err, errors.CodeCanceled, "chat completion canceled")
		case context.DeadlineExceeded:
			return "", errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "chat completion timed out")
		}
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.Unavailable("chat completion returned no choices")
	}

	slog.Debug("Chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)

	return resp.Choices[0].Message.Content, nil
}

// parseAlignments reads {"alignments": {...}}, dropping values that are not
// a known alignment
func parseAlignments(content string) (map[string]combat.Alignment, error) {
	var payload struct {
		Alignments map[string]string `json:"alignments"`
	}
	if err := json.Unmarshal([]byte(stripFence(content)), &payload); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to parse alignments")
	}

	out := make(map[string]combat.Alignment, len(payload.Alignments))
	for id, raw := range payload.Alignments {
		if a, ok := combat.ParseAlignment(raw); ok {
			out[id] = a
		}
	}
	return out, nil
}

// parseSuggestions reads {"suggestions": [...]} or a bare array
func parseSuggestions(content string) ([]combat.ActorSuggestion, error) {
	body := []byte(stripFence(content))

	var payload struct {
		Suggestions []combat.ActorSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return payload.Suggestions, nil
	}

	var bare []combat.ActorSuggestion
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to parse suggestions")
	}
	return bare, nil
}

// mergeNames copies names and descriptions from named onto slots by index.
// Slots without a counterpart stay anonymous.
func mergeNames(slots, named []combat.ActorSuggestion) []combat.ActorSuggestion {
	out := make([]combat.ActorSuggestion, len(slots))
	copy(out, slots)
	for i := range out {
		if i >= len(named) {
			break
		}
		if named[i].HasName() {
			out[i].Name = named[i].Name
		}
		if d := strings.TrimSpace(combat.Value(named[i].Description)); d != "" {
			out[i].Description = combat.Ptr(d)
		}
	}
	return out
}

// stripFence removes a surrounding markdown code fence
func stripFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ narrative.Service = (*Client)(nil)
