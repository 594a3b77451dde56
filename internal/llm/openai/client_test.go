package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestCompleteSendsTemperatureZero(t *testing.T) {
	var bodyMu sync.Mutex
	var lastBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		bodyMu.Lock()
		lastBody = payload
		bodyMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"생성된 자기소개서"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gpt-4o", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.chatURL = server.URL

	got, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "생성된 자기소개서" {
		t.Fatalf("unexpected content: %q", got)
	}

	bodyMu.Lock()
	defer bodyMu.Unlock()
	temp, ok := lastBody["temperature"]
	if !ok {
		t.Fatalf("expected temperature in request body")
	}
	if temp != float64(0) {
		t.Fatalf("expected temperature 0, got %v", temp)
	}
	if lastBody["model"] != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %v", lastBody["model"])
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gpt-4o", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.chatURL = server.URL

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error from API failure")
	}
}

func TestEmbedReturnsVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["model"] != "text-embedding-3-small" {
			t.Errorf("expected embedding model, got %v", payload["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gpt-4o", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.embeddingsURL = server.URL

	vec, err := client.Embed(context.Background(), "query text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient("", "gpt-4o", "text-embedding-3-small"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("key", "", "text-embedding-3-small"); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
