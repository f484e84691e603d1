// Package llm wraps the OpenAI chat-completion API behind the small surface
// the generation pipeline needs: one prompt in, one sanitizable reply out,
// with retries, token budgeting, and optional completion logging.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"campaignsmith/internal/prompt"
	"campaignsmith/internal/tokens"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

var (
	// ErrTruncated reports a reply cut off by the token limit; callers
	// retry rather than accept a half-finished entity.
	ErrTruncated = errors.New("completion truncated by token limit")
	// ErrEmptyReply reports a response with no choices or no content.
	ErrEmptyReply = errors.New("empty reply from completion API")
)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	// LogCompletions writes each raw API response to CompletionLogDir.
	LogCompletions   bool
	CompletionLogDir string
}

type Client struct {
	api            *openai.Client
	model          string
	temperature    float32
	timeout        time.Duration
	maxRetries     int
	counter        *tokens.Counter
	logCompletions bool
	logDir         string
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiConfig),
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		counter:        tokens.NewCounter(),
		logCompletions: cfg.LogCompletions,
		logDir:         cfg.CompletionLogDir,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat request and returns the reply text. Transport
// errors and empty replies are retried with linear backoff; truncation is
// returned to the caller, whose own retry loop decides whether to ask again.
func (c *Client) Complete(ctx context.Context, messages []prompt.Message, maxReplyTokens int) (string, error) {
	if err := c.counter.EnsureBudget(c.model, messages, maxReplyTokens); err != nil {
		if errors.Is(err, tokens.ErrBudgetExceeded) {
			return "", err
		}
		// The encoding tables may be unavailable offline; the API will
		// enforce the window either way.
		log.Warn().Err(err).Msg("skipping token budget check")
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: c.temperature,
		MaxTokens:   maxReplyTokens,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			log.Error().Err(err).Int("attempt", attempt).Str("model", c.model).Msg("chat completion failed")
			if attempt < c.maxRetries {
				sleepBackoff(ctx, attempt)
			}
			continue
		}

		if c.logCompletions {
			c.logCompletion(resp)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			lastErr = ErrEmptyReply
			log.Warn().Int("attempt", attempt).Str("model", c.model).Msg("empty reply")
			if attempt < c.maxRetries {
				sleepBackoff(ctx, attempt)
			}
			continue
		}

		choice := resp.Choices[0]
		log.Debug().
			Str("model", c.model).
			Int("prompt_tokens", resp.Usage.PromptTokens).
			Int("completion_tokens", resp.Usage.CompletionTokens).
			Str("finish_reason", string(choice.FinishReason)).
			Msg("completion received")

		if choice.FinishReason == openai.FinishReasonLength {
			return "", ErrTruncated
		}

		return choice.Message.Content, nil
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries, lastErr)
}

func toOpenAIMessages(messages []prompt.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == prompt.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}

func sleepBackoff(ctx context.Context, attempt int) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(attempt) * time.Second):
	}
}
