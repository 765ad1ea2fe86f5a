package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// httpProvider talks to a local or remote embedding service over HTTP,
// following the teacher's embed/client/local.go request/response shape
// (a small JSON POST endpoint rather than a loaded-in-process model).
type httpProvider struct {
	endpoint string
	dims     int
	client   *http.Client
}

// NewHTTPProvider creates a Provider backed by an HTTP embedding endpoint
// expecting {"texts": [...], "mode": "query"|"passage"} and responding
// with {"embeddings": [[...]]}.
func NewHTTPProvider(endpoint string, dims int) Provider {
	if dims <= 0 {
		dims = Dimensions
	}
	return &httpProvider{
		endpoint: endpoint,
		dims:     dims,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (p *httpProvider) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(embedRequest{Texts: texts, Mode: string(mode)})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed endpoint returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed response count mismatch: got %d, want %d", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}

func (p *httpProvider) EmbedDimensions() int { return p.dims }

func (p *httpProvider) Close() error { return nil }
