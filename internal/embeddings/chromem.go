package embeddings

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemBackend is an embedded, optionally persistent vector store backed
// by chromem-go. It is the local alternative to QdrantBackend: no network
// hop, one collection per project, persisted to a directory when configured
// with one. Grounded on the teacher's internal/knowledge.VectorStore
// (CreateCollection/AddDocument/SearchSimilar over a chromem.DB), adapted
// from the teacher's per-entity knowledge-graph collections to one flat
// collection of memory-entry embeddings.
//
// GetAll/Count are served from a local index rather than a chromem bulk-dump
// call, since this backend only ever reads back what Add wrote in-process.
type ChromemBackend struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string

	mu      sync.Mutex
	records []Record
}

// NewChromemBackend opens (or creates) db at persistPath, or an in-memory
// store when persistPath is empty, and gets or creates collection.
func NewChromemBackend(persistPath, collection string) (*ChromemBackend, error) {
	var db *chromem.DB
	var err error
	if persistPath != "" {
		db, err = chromem.NewPersistentDB(persistPath, false)
	} else {
		db = chromem.NewDB()
	}
	if err != nil {
		return nil, fmt.Errorf("opening chromem db: %w", err)
	}

	col := db.GetCollection(collection, nil)
	if col == nil {
		col, err = db.CreateCollection(collection, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("creating chromem collection %s: %w", collection, err)
		}
	}
	return &ChromemBackend{db: db, collection: col, name: collection}, nil
}

func (c *ChromemBackend) Add(ctx context.Context, id, text string, vector []float32, meta map[string]string) error {
	if err := c.collection.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   text,
		Metadata:  meta,
		Embedding: vector,
	}); err != nil {
		return fmt.Errorf("chromem add: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, Record{ID: id, Text: text, Meta: meta})
	return nil
}

func (c *ChromemBackend) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}
	c.mu.Lock()
	n := len(c.records)
	c.mu.Unlock()
	if n == 0 {
		return nil, nil
	}
	if topK > n {
		topK = n
	}
	results, err := c.collection.QueryEmbedding(ctx, queryVector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{ID: r.ID, Text: r.Content, Score: r.Similarity, Meta: r.Metadata})
	}
	return matches, nil
}

func (c *ChromemBackend) GetAll(ctx context.Context) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *ChromemBackend) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records), nil
}

func (c *ChromemBackend) Status(ctx context.Context) (BackendStatus, error) {
	n, _ := c.Count(ctx)
	return BackendStatus{Backend: "chromem", Detail: c.name, Entries: n, Search: "cosine (in-process)"}, nil
}
