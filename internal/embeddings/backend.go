// Package embeddings implements the pluggable semantic-memory backend
// spec.md §6 and §9 describe as an optional enhancement over the lexical
// internal/similarity kernel: dream consults a Backend only when one is
// configured, and falls back to jaccard-only behavior otherwise; memory-lint
// does not use this package.
//
// Grounded on original_source/framework/memory/backends/ (backend_local.py,
// backend_ollama.py, backend_qdrant_server.py, backend_qdrant_local.py) —
// the four concrete backends behind one factory the distilled spec.md
// collapsed into "pluggable". Re-expressed in Go as one Backend interface
// with four implementations (Local, Qdrant, Chromem, OllamaQdrant) and an
// env-driven factory, matching the
// teacher's own storage.NewStorageFromEnv idiom.
package embeddings

import "context"

// Match is one semantic search hit.
type Match struct {
	ID    string
	Text  string
	Score float32
	Meta  map[string]string
}

// Record is one stored memory entry, as returned by GetAll.
type Record struct {
	ID   string
	Text string
	Meta map[string]string
}

// BackendStatus reports a backend's identity and size for diagnostics.
type BackendStatus struct {
	Backend string
	Detail  string
	Entries int
	Search  string // free-form search-mode description, e.g. "semantic (local cosine)"
}

// Backend is the contract every embeddings store implements. Vectors are
// supplied by the caller (an Embedder, declared below; OllamaEmbedder in
// ollama.go) rather than
// computed inside the backend, so storage and embedding generation vary
// independently.
type Backend interface {
	Add(ctx context.Context, id, text string, vector []float32, meta map[string]string) error
	Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error)
	GetAll(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Status(ctx context.Context) (BackendStatus, error)
}

// Embedder turns text into a vector. Backends that embed server-side
// (Qdrant's remote inference) may not need one; backends that store raw
// vectors (Local, the Ollama-fed Qdrant backend) require one supplied by
// the caller.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
