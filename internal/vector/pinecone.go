package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// PineconeIndex implements Index against the Pinecone data-plane query API.
type PineconeIndex struct {
	apiKey     string
	indexName  string
	queryURL   string
	httpClient *http.Client
}

// NewPineconeIndex constructs a client for one Pinecone index host.
// host is the index endpoint, e.g. "https://<index>-<project>.svc.<env>.pinecone.io".
// indexName labels errors; the data plane itself is addressed by host alone.
func NewPineconeIndex(apiKey, host, indexName string) (*PineconeIndex, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY is required")
	}
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, fmt.Errorf("PINECONE_INDEX_HOST is required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	timeout := 15 * time.Second
	if raw := strings.TrimSpace(os.Getenv("PINECONE_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	indexName = strings.TrimSpace(indexName)
	if indexName == "" {
		indexName = host
	}
	return &PineconeIndex{
		apiKey:    apiKey,
		indexName: indexName,
		queryURL:  host + "/query",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (p *PineconeIndex) errf(format string, args ...any) error {
	return fmt.Errorf("pinecone index %s: %w", p.indexName, fmt.Errorf(format, args...))
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float64           `json:"score"`
		Metadata map[string]string `json:"metadata,omitempty"`
	} `json:"matches"`
	Message string `json:"message,omitempty"`
}

// Query runs a top-K nearest-neighbor lookup and returns ranked matches.
func (p *PineconeIndex) Query(ctx context.Context, vec []float32, topK int, includeMetadata bool) ([]Match, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}
	if topK <= 0 {
		topK = 3
	}

	payload, err := json.Marshal(queryRequest{
		Vector:          vec,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.queryURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, p.errf("request timeout: %w", err)
		}
		return nil, p.errf("%w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return nil, p.errf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, p.errf("response parse: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := parsed.Message
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, p.errf("http status %d: %s", resp.StatusCode, msg)
	}

	out := make([]Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		out = append(out, Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		})
	}
	return out, nil
}

var _ Index = (*PineconeIndex)(nil)
