// Package analyzer wires the parsing, classification, and aggregation steps
// into the pipeline both front-ends call. It holds no per-request state and
// is safe to invoke concurrently.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/llm"
	"github.com/betweenlines/betweenlines/internal/observability"
	"github.com/betweenlines/betweenlines/internal/roles"
)

// maxExplanationSamples caps how many matching messages are sent per role
// when asking for an explanation.
const maxExplanationSamples = 3

type Analyzer struct {
	cfg    *config.Config
	client llm.Client
	logger *zerolog.Logger
}

func New(cfg *config.Config, client llm.Client, logger *zerolog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Analyze runs the full pipeline over already parsed messages: classify
// (remote first, heuristic fallback), fetch explanations, build the report.
func (a *Analyzer) Analyze(ctx context.Context, messages []chatlog.Message, you, them string) (*roles.Report, error) {
	if you == them {
		return nil, fmt.Errorf("participants must differ, both are %q", you)
	}

	timer := prometheus.NewTimer(observability.AnalysisDuration)
	defer timer.ObserveDuration()

	counters := a.Classify(ctx, messages, you, them)
	explanations := a.Explain(ctx, messages)

	return roles.BuildReport(counters, you, them, explanations), nil
}

// Classify tries remote classification first and falls back to the
// deterministic heuristic pass. It never fails.
func (a *Analyzer) Classify(ctx context.Context, messages []chatlog.Message, you, them string) roles.Counters {
	counters, ok := a.client.ScoreRoles(ctx, messages, you, them)
	if ok {
		observability.ClassifierPath.WithLabelValues(observability.PathRemote).Inc()

		if allZero(counters, you, them) {
			// Indistinguishable from a genuine zero score; kept as-is.
			a.logger.Debug().Msg("remote classification returned all-zero counters")
		}

		return counters
	}

	observability.ClassifierPath.WithLabelValues(observability.PathHeuristic).Inc()

	return roles.Score(messages)
}

// Explain returns one explanation per role, remote when available and the
// static role description otherwise.
func (a *Analyzer) Explain(ctx context.Context, messages []chatlog.Message) map[string]string {
	explanations := make(map[string]string, len(roles.DisplayOrder))

	for _, role := range roles.DisplayOrder {
		text, err := a.client.ExplainRole(ctx, role, roleSamples(messages, role))
		if err != nil || text == "" {
			text = roles.Description(role)
		}

		explanations[role] = text
	}

	return explanations
}

func allZero(counters roles.Counters, you, them string) bool {
	for _, participant := range []string{you, them} {
		for _, role := range roles.DisplayOrder {
			if counters.Get(participant, role) != 0 {
				return false
			}
		}
	}

	return true
}

// roleSamples picks up to maxExplanationSamples messages that lexically match
// the role, so the explanation request has concrete material to work from.
func roleSamples(messages []chatlog.Message, role string) []string {
	var samples []string

	for _, msg := range messages {
		if !sampleMatches(msg.Body, role) {
			continue
		}

		samples = append(samples, msg.Body)
		if len(samples) == maxExplanationSamples {
			break
		}
	}

	return samples
}

func sampleMatches(body, role string) bool {
	lower := strings.ToLower(body)

	switch role {
	case roles.Starter, roles.Snubber:
		// Timing-based roles have no lexical signature; any message serves.
		return true
	case roles.Romantic:
		return strings.Contains(lower, "love") || strings.Contains(body, "❤️")
	case roles.Trouble:
		return strings.Contains(lower, "sure")
	case roles.Fault:
		return strings.Contains(lower, "you always") || strings.Contains(lower, "you never")
	case roles.Listener:
		return strings.Contains(body, "?")
	case roles.Joker:
		return strings.Contains(lower, "lol") || strings.Contains(lower, "haha")
	default:
		return false
	}
}
