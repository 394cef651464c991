// Package llm provides the classification and generation capabilities as a
// per-batch session over a chat-completion model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Factory produces one Session per batch run. Sessions accumulate
// conversation state and must never be shared across concurrent batches.
type Factory struct {
	client chatCompleter
	model  string
	log    zerolog.Logger
}

// NewFactory creates a session factory over an OpenAI-compatible client.
// An empty model selects the default.
func NewFactory(client chatCompleter, model string, log zerolog.Logger) *Factory {
	if model == "" {
		model = defaultModel
	}
	return &Factory{
		client: client,
		model:  model,
		log:    log.With().Str("component", "llm").Logger(),
	}
}

// NewSession starts a fresh conversation for one batch.
func (f *Factory) NewSession() *Session {
	return &Session{
		client: f.client,
		model:  f.model,
		log:    f.log,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: draftSystemPrompt},
		},
	}
}

// Session holds the growing conversation context of one batch run. Generate
// appends each request and the model's reply before returning, so later
// drafts in the same batch see earlier ones and keep a consistent voice.
// Sessions are single-threaded by contract.
type Session struct {
	client  chatCompleter
	model   string
	log     zerolog.Logger
	history []openai.ChatCompletionMessage
}

// Classify judges which of the batch messages need a human reply. One round
// trip for the whole batch, outside the drafting conversation. The model's
// output is filtered to ids actually present in summaries; anything
// malformed or unknown is dropped, never an error, and the result keeps
// batch order.
func (s *Session) Classify(ctx context.Context, summaries []Summary) ([]string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: classifyPrompt(summaries)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	returned := parseIDList(resp.Choices[0].Message.Content)

	selected := make([]string, 0, len(returned))
	for _, sum := range summaries {
		if returned[sum.ID] {
			selected = append(selected, sum.ID)
		}
	}

	s.log.Debug().Int("batch", len(summaries)).Int("selected", len(selected)).Msg("batch classified")

	return selected, nil
}

// Generate produces a reply draft for one message within the session
// conversation. Both the request and the model's reply join the history.
func (s *Session) Generate(ctx context.Context, sum Summary) (string, error) {
	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: generatePrompt(sum),
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: s.history,
	})
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices for message %s", sum.ID)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: text,
	})

	return text, nil
}

// parseIDList tolerantly extracts message ids from model output: a JSON
// array, a Python-style list, or bare whitespace/comma separated ids all
// work. Returns a set; the caller re-orders against the batch.
func parseIDList(raw string) map[string]bool {
	out := map[string]bool{}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`")

	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ' ' || r == '\t' || r == '[' || r == ']'
	}) {
		tok = strings.Trim(tok, `"'`)
		if tok != "" {
			out[tok] = true
		}
	}

	return out
}
