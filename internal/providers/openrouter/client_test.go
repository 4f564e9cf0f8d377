package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/models"
)

func TestCompleteWithoutAPIKey(t *testing.T) {
	c := NewClient(config.OpenRouterConfig{BaseURL: "http://localhost:1"}, time.Second)

	if c.HasCredentials() {
		t.Error("HasCredentials() = true without a key")
	}

	_, err := c.Complete(context.Background(), &providers.CompletionRequest{AgentRole: models.AgentSearch})
	if providers.KindOf(err) != providers.FailureCredential {
		t.Fatalf("failure kind = %s, want credential", providers.KindOf(err))
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestCompleteSuccess(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "meta-llama/llama-4-maverick:free",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Hello from the model  "}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(config.OpenRouterConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		DefaultModel: "meta-llama/llama-4-maverick:free",
		Models:       map[string]string{"scheduling": "scheduling-model"},
	}, time.Second)

	completion, err := c.Complete(context.Background(), &providers.CompletionRequest{
		AgentRole: models.AgentScheduling,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completion.Text != "Hello from the model" {
		t.Errorf("text = %q, want trimmed content", completion.Text)
	}
	if got.Model != "scheduling-model" {
		t.Errorf("request model = %q, want per-role model", got.Model)
	}
	if got.MaxTokens != 256 {
		t.Errorf("max tokens = %d, want 256", got.MaxTokens)
	}
}

func TestCompleteRelaxedDoublesTokenBudget(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "longer answer"}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(config.OpenRouterConfig{BaseURL: server.URL, APIKey: "test-key", DefaultModel: "m"}, time.Second)

	if _, err := c.Complete(context.Background(), &providers.CompletionRequest{MaxTokens: 256, Relaxed: true}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got.MaxTokens != 512 {
		t.Errorf("max tokens = %d, want 512", got.MaxTokens)
	}
}

func TestCompleteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   providers.FailureKind
	}{
		{"unauthorized", http.StatusUnauthorized, providers.FailureCredential},
		{"forbidden", http.StatusForbidden, providers.FailureCredential},
		{"timeout", http.StatusRequestTimeout, providers.FailureTimeout},
		{"server error", http.StatusInternalServerError, providers.FailureNetwork},
		{"rate limited", http.StatusTooManyRequests, providers.FailureNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]interface{}{"message": "upstream says no"},
				})
			}))
			defer server.Close()

			c := NewClient(config.OpenRouterConfig{BaseURL: server.URL, APIKey: "test-key", DefaultModel: "m"}, time.Second)
			_, err := c.Complete(context.Background(), &providers.CompletionRequest{MaxTokens: 64})
			if providers.KindOf(err) != tt.want {
				t.Errorf("failure kind = %s, want %s", providers.KindOf(err), tt.want)
			}
		})
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	c := NewClient(config.OpenRouterConfig{BaseURL: server.URL, APIKey: "test-key", DefaultModel: "m"}, time.Second)
	_, err := c.Complete(context.Background(), &providers.CompletionRequest{MaxTokens: 64})
	if providers.KindOf(err) != providers.FailureMalformed {
		t.Errorf("failure kind = %s, want malformed", providers.KindOf(err))
	}
}
