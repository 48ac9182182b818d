package embeddings

import (
	"context"
	"fmt"
)

// OllamaQdrantBackend generates vectors via Ollama and stores/searches them
// in Qdrant — the combination backend_ollama.py describes as avoiding a
// heavy local ML dependency (inference happens on the Ollama server) while
// still getting Qdrant's vector search.
type OllamaQdrantBackend struct {
	embedder *OllamaEmbedder
	store    *QdrantBackend
}

// NewOllamaQdrantBackend wires an OllamaEmbedder to a QdrantBackend.
func NewOllamaQdrantBackend(embedder *OllamaEmbedder, store *QdrantBackend) *OllamaQdrantBackend {
	return &OllamaQdrantBackend{embedder: embedder, store: store}
}

func (b *OllamaQdrantBackend) Add(ctx context.Context, id, text string, _ []float32, meta map[string]string) error {
	vector, err := b.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("ollama embed: %w", err)
	}
	return b.store.Add(ctx, id, text, vector, meta)
}

func (b *OllamaQdrantBackend) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	return b.store.Search(ctx, queryVector, topK)
}

// SearchText embeds query via Ollama before delegating to the Qdrant
// search — the entry point callers without a pre-computed vector use.
func (b *OllamaQdrantBackend) SearchText(ctx context.Context, query string, topK int) ([]Match, error) {
	vector, err := b.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	return b.store.Search(ctx, vector, topK)
}

func (b *OllamaQdrantBackend) GetAll(ctx context.Context) ([]Record, error) { return b.store.GetAll(ctx) }
func (b *OllamaQdrantBackend) Count(ctx context.Context) (int, error)       { return b.store.Count(ctx) }
func (b *OllamaQdrantBackend) Status(ctx context.Context) (BackendStatus, error) {
	status, err := b.store.Status(ctx)
	if err != nil {
		return status, err
	}
	status.Backend = "ollama+qdrant"
	return status, nil
}
