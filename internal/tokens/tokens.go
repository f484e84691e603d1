// Package tokens estimates prompt sizes and API cost using the tiktoken
// encodings, so generation can be budgeted against a model's context window
// before any network call is made.
package tokens

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"campaignsmith/internal/prompt"
)

const fallbackEncoding = "cl100k_base"

// Rough chat overhead per message: role and separators.
const tokensPerMessage = 4

// USD per 1000 tokens. Prices are the flat per-model rates the cost
// estimate has always used; completion and prompt tokens are priced the
// same.
var modelCosts = map[string]float64{
	"gpt-3.5-turbo":     0.002,
	"gpt-3.5-turbo-16k": 0.004,
	"gpt-4o-mini":       0.0006,
}

var contextWindows = map[string]int{
	"gpt-3.5-turbo":     4096,
	"gpt-3.5-turbo-16k": 16385,
	"gpt-4":             8192,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
}

const defaultContextWindow = 4096

// ErrBudgetExceeded reports a prompt that cannot fit the context window
// alongside its reply budget.
var ErrBudgetExceeded = errors.New("context window exceeded")

type Counter struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

func NewCounter() *Counter {
	return &Counter{encodings: make(map[string]*tiktoken.Tiktoken)}
}

func (c *Counter) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encodings[model]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("loading encoding for %s: %w", model, err)
		}
	}
	c.encodings[model] = enc
	return enc, nil
}

// Count returns the number of tokens in text under the model's encoding.
func (c *Counter) Count(model, text string) (int, error) {
	enc, err := c.encodingFor(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountMessages estimates the prompt size of a chat request, including the
// per-message overhead.
func (c *Counter) CountMessages(model string, messages []prompt.Message) (int, error) {
	total := 0
	for _, msg := range messages {
		n, err := c.Count(model, msg.Content)
		if err != nil {
			return 0, err
		}
		total += n + tokensPerMessage
	}
	return total, nil
}

// EnsureBudget verifies that the prompt plus the reply budget fits the
// model's context window.
func (c *Counter) EnsureBudget(model string, messages []prompt.Message, maxReplyTokens int) error {
	promptTokens, err := c.CountMessages(model, messages)
	if err != nil {
		return err
	}
	window := ContextWindow(model)
	if promptTokens+maxReplyTokens > window {
		return fmt.Errorf("%w: prompt (%d tokens) plus reply budget (%d) exceeds %s window (%d)",
			ErrBudgetExceeded, promptTokens, maxReplyTokens, model, window)
	}
	return nil
}

// ContextWindow returns the model's context size, defaulting conservatively
// for unknown models.
func ContextWindow(model string) int {
	if window, ok := contextWindows[model]; ok {
		return window
	}
	return defaultContextWindow
}

// EstimateCost converts a token count into USD. The second return is false
// when the model has no known price.
func EstimateCost(model string, numTokens int) (float64, bool) {
	rate, ok := modelCosts[model]
	if !ok {
		return 0, false
	}
	return float64(numTokens) / 1000 * rate, true
}
