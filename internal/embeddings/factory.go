package embeddings

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NewFromEnv selects a Backend from BMAD_QDRANT_URL/BMAD_CHROMEM_PATH/
// BMAD_OLLAMA_URL/BMAD_QDRANT_API_KEY, falling back to LocalBackend rooted
// at <root>/_bmad-output/embeddings.json when none is set. Mirrors the
// teacher's storage.NewStorageFromEnv factory-from-env idiom and spec.md
// §6's Environment list. Qdrant takes priority over chromem when both are
// configured, since only Qdrant composes with a remote Ollama embedder.
func NewFromEnv(ctx context.Context, root string) (Backend, error) {
	qdrantURL := os.Getenv("BMAD_QDRANT_URL")
	ollamaURL := os.Getenv("BMAD_OLLAMA_URL")
	chromemPath := os.Getenv("BMAD_CHROMEM_PATH")

	if qdrantURL == "" && chromemPath != "" {
		return NewChromemBackend(chromemPath, "bmad-memory")
	}
	if qdrantURL == "" {
		return NewLocalBackend(filepath.Join(root, "_bmad-output", "embeddings.json"))
	}

	host, port, useTLS := splitQdrantURL(qdrantURL)
	cfg := QdrantConfig{
		Host:   host,
		Port:   port,
		UseTLS: useTLS,
		APIKey: os.Getenv("BMAD_QDRANT_API_KEY"),
	}
	store, err := NewQdrantBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if ollamaURL == "" {
		return store, nil
	}
	return NewOllamaQdrantBackend(NewOllamaEmbedder(ollamaURL, ""), store), nil
}

// splitQdrantURL extracts host/port/tls from a "scheme://host:port" URL,
// defaulting to Qdrant's gRPC port 6334 when none is given.
func splitQdrantURL(raw string) (host string, port int, useTLS bool) {
	useTLS = strings.HasPrefix(raw, "https://")
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")

	host, portStr, found := strings.Cut(s, ":")
	port = 6334
	if found {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}
	return host, port, useTLS
}
