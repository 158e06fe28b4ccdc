package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/betweenlines/betweenlines/internal/chatlog"
	"github.com/betweenlines/betweenlines/internal/config"
	"github.com/betweenlines/betweenlines/internal/observability"
	"github.com/betweenlines/betweenlines/internal/roles"
)

const (
	// maxPromptMessages caps how much of the log is embedded in the prompt.
	maxPromptMessages = 100

	scoreTokenBudget   = 500
	explainTokenBudget = 100

	rateLimitBurst = 5
)

type openaiClient struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

func newOpenAI(cfg *config.Config, logger *zerolog.Logger) Client {
	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		clientCfg.BaseURL = cfg.LLMBaseURL
	}

	return &openaiClient{
		cfg:         cfg,
		client:      openai.NewClientWithConfig(clientCfg),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPS)), rateLimitBurst),
	}
}

func (c *openaiClient) ScoreRoles(ctx context.Context, messages []chatlog.Message, you, them string) (roles.Counters, bool) {
	reply, err := c.complete(ctx, "score", scorePrompt(messages, you, them), scoreTokenBudget)
	if err != nil {
		c.logger.Warn().Err(err).Msg("remote scoring failed, falling back to heuristics")
		return nil, false
	}

	return parseScoreReply(reply, you, them), true
}

func (c *openaiClient) ExplainRole(ctx context.Context, role string, samples []string) (string, error) {
	reply, err := c.complete(ctx, "explain", explainPrompt(role, samples), explainTokenBudget)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

func (c *openaiClient) complete(ctx context.Context, op, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.LLMTimeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	timer := observability.StartLLMTimer(op)
	defer timer.ObserveDuration()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.cfg.LLMModel,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
