package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPineconeQueryParsesMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("expected /query, got %s", r.URL.Path)
		}
		if r.Header.Get("Api-Key") != "test-key" {
			t.Errorf("missing Api-Key header")
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["topK"] != float64(3) {
			t.Errorf("expected topK 3, got %v", payload["topK"])
		}
		if payload["includeMetadata"] != true {
			t.Errorf("expected includeMetadata true")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [
				{"id":"a","score":0.91,"metadata":{"question":"지원 동기","answer":"저는..."}},
				{"id":"b","score":0.82,"metadata":{"question":"직무 역량","answer":"제가..."}}
			]
		}`))
	}))
	defer server.Close()

	idx, err := NewPineconeIndex("test-key", server.URL, "self-intro-index")
	if err != nil {
		t.Fatalf("NewPineconeIndex: %v", err)
	}

	matches, err := idx.Query(context.Background(), []float32{0.1, 0.2}, 3, true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "a" || matches[0].Score != 0.91 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[0].Metadata["question"] != "지원 동기" {
		t.Fatalf("unexpected metadata: %+v", matches[0].Metadata)
	}
}

func TestPineconeQuerySurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"index unavailable"}`))
	}))
	defer server.Close()

	idx, err := NewPineconeIndex("test-key", server.URL, "self-intro-index")
	if err != nil {
		t.Fatalf("NewPineconeIndex: %v", err)
	}

	_, err = idx.Query(context.Background(), []float32{0.1}, 3, true)
	if err == nil {
		t.Fatalf("expected error from unavailable index")
	}
	// failures name the configured index
	if !strings.Contains(err.Error(), "self-intro-index") {
		t.Fatalf("expected index name in error, got %q", err.Error())
	}
}

func TestPineconeQueryRejectsEmptyVector(t *testing.T) {
	idx, err := NewPineconeIndex("test-key", "https://example.pinecone.io", "")
	if err != nil {
		t.Fatalf("NewPineconeIndex: %v", err)
	}
	if _, err := idx.Query(context.Background(), nil, 3, true); err == nil {
		t.Fatalf("expected error for empty vector")
	}
}
