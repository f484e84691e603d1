package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"campaignsmith/internal/prompt"
)

func TestNew(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		if _, err := New(Config{Model: "gpt-3.5-turbo"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("requires model", func(t *testing.T) {
		if _, err := New(Config{APIKey: "sk-test"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		client, err := New(Config{APIKey: "sk-test", Model: "gpt-3.5-turbo"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.maxRetries != 3 {
			t.Fatalf("expected default retries, got %d", client.maxRetries)
		}
		if client.timeout <= 0 {
			t.Fatalf("expected default timeout, got %v", client.timeout)
		}
	})
}

func TestToOpenAIMessages(t *testing.T) {
	messages := toOpenAIMessages([]prompt.Message{
		{Role: prompt.RoleSystem, Content: "context"},
		{Role: prompt.RoleUser, Content: "request"},
	})
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system role, got %q", messages[0].Role)
	}
	if messages[1].Role != openai.ChatMessageRoleUser {
		t.Fatalf("expected user role, got %q", messages[1].Role)
	}
}

// fakeAPI serves a canned chat-completion response on an OpenAI-compatible
// endpoint, so Complete can be exercised without the real API.
func fakeAPI(t *testing.T, content, finishReason string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: openai.FinishReason(finishReason),
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encoding fake response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := New(Config{
		APIKey:     "sk-test",
		Model:      "gpt-3.5-turbo",
		BaseURL:    server.URL,
		MaxRetries: 1,
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return client
}

func TestComplete(t *testing.T) {
	messages := []prompt.Message{{Role: prompt.RoleUser, Content: "Generate a world for a 5e campaign."}}

	t.Run("returns reply content", func(t *testing.T) {
		client := fakeAPI(t, "Eldoria|A realm of drowned cities.", "stop")
		got, err := client.Complete(context.Background(), messages, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Eldoria|A realm of drowned cities." {
			t.Fatalf("unexpected reply: %q", got)
		}
	})

	t.Run("truncated reply", func(t *testing.T) {
		client := fakeAPI(t, "Eldoria|A realm of", "length")
		if _, err := client.Complete(context.Background(), messages, 500); !errors.Is(err, ErrTruncated) {
			t.Fatalf("expected ErrTruncated, got %v", err)
		}
	})

	t.Run("empty reply", func(t *testing.T) {
		client := fakeAPI(t, "", "stop")
		if _, err := client.Complete(context.Background(), messages, 500); !errors.Is(err, ErrEmptyReply) {
			t.Fatalf("expected ErrEmptyReply, got %v", err)
		}
	})
}
