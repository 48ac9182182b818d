package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coordination-layer/pkg/cache"
)

// embedCacheTTL bounds how long a text->vector mapping is trusted: long
// enough to cover one dream run re-embedding the same entries across
// its index-then-query passes, short enough that a model swap on the
// Ollama side is noticed within a session.
const embedCacheTTL = 10 * time.Minute

// OllamaEmbedder calls a local or remote Ollama server's /api/embeddings
// endpoint. Grounded on backend_ollama.py's _ollama_embed: a plain HTTP
// POST with a model+prompt body. Stdlib net/http is appropriate here — no
// pack example ships an Ollama client, and the wire contract is a single
// JSON request/response pair not worth a dependency for.
type OllamaEmbedder struct {
	BaseURL string
	Model   string
	Client  *http.Client

	cache *cache.LRU[string, []float32]
}

// NewOllamaEmbedder returns an embedder against baseURL (defaulting to
// http://localhost:11434) using model (defaulting to "nomic-embed-text",
// the original's default). Repeated Embed calls for the same text are
// served from an in-process LRU cache instead of re-hitting Ollama —
// internal/dream's semantic pass embeds every entry once to index it and
// again to query its neighbors, so every entry is embedded twice per run.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaEmbedder{
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New[string, []float32](&cache.Config{MaxEntries: 2000, TTL: embedCacheTTL}),
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := o.Model + "\x00" + text
	if v, ok := o.cache.Get(key); ok {
		return v, nil
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: o.Model, Prompt: text})
	if err != nil {
		return nil, err
	}
	url := strings.TrimSuffix(o.BaseURL, "/") + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed request: status %d", resp.StatusCode)
	}

	var out ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama embed response: %w", err)
	}
	o.cache.Set(key, out.Embedding)
	return out.Embedding, nil
}
