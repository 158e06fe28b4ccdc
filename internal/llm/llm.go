// Package llm is the remote classifier adapter: it asks an OpenAI-compatible
// completion endpoint to score and explain relationship roles, and absorbs
// every failure so callers can always fall back to the deterministic
// heuristic path.
package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/roles"
)

// ErrDisabled is returned by the disabled client's explanation path.
var ErrDisabled = errors.New("remote classification disabled")

// ErrEmptyReply is returned when the completion response carries no choices.
var ErrEmptyReply = errors.New("empty completion reply")

type Client interface {
	// ScoreRoles asks the remote service for role counters. ok is false on
	// any transport or parsing failure, telling the caller to use the
	// heuristic fallback. It never returns an error past this boundary.
	ScoreRoles(ctx context.Context, messages []chatlog.Message, you, them string) (counters roles.Counters, ok bool)

	// ExplainRole asks for a one-line explanation of a role given sample
	// messages. Callers substitute the static description on error.
	ExplainRole(ctx context.Context, role string, samples []string) (string, error)
}

// New returns the OpenAI-backed client, or a disabled client when no API key
// is configured so the binary runs fully offline on the heuristic path.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if cfg.LLMAPIKey == "" || cfg.LLMAPIKey == "mock" {
		return &disabledClient{}
	}

	return newOpenAI(cfg, logger)
}

type disabledClient struct{}

func (disabledClient) ScoreRoles(context.Context, []chatlog.Message, string, string) (roles.Counters, bool) {
	return nil, false
}

func (disabledClient) ExplainRole(context.Context, string, []string) (string, error) {
	return "", ErrDisabled
}
