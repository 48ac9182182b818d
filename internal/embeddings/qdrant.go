package embeddings

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantBackend stores and searches vectors in a Qdrant collection, serving
// both backend_qdrant_server.py (remote URL) and backend_qdrant_local.py
// (embedded/local instance reached the same way over gRPC) — the original
// distinguishes them by connection target only, so one Go type covers both.
type QdrantBackend struct {
	client     *qdrant.Client
	collection string
	vectorSize uint64
}

// QdrantConfig configures a QdrantBackend connection.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	VectorSize uint64
}

// NewQdrantBackend connects to Qdrant and ensures cfg.Collection exists,
// creating it with cosine distance if it doesn't — mirroring
// backend_qdrant_server.py's get_collections/create_collection sequence.
func NewQdrantBackend(ctx context.Context, cfg QdrantConfig) (*QdrantBackend, error) {
	if cfg.Collection == "" {
		cfg.Collection = "bmad"
	}
	if cfg.VectorSize == 0 {
		cfg.VectorSize = 768 // nomic-embed-text, the original's default Ollama model
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect: %w", err)
	}

	exists, err := client.CollectionExists(ctx, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("qdrant: check collection: %w", err)
	}
	if !exists {
		err := client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: cfg.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     cfg.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant: create collection: %w", err)
		}
	}

	return &QdrantBackend{client: client, collection: cfg.Collection, vectorSize: cfg.VectorSize}, nil
}

func (b *QdrantBackend) Add(ctx context.Context, id, text string, vector []float32, meta map[string]string) error {
	payload := map[string]any{"memory": text}
	for k, v := range meta {
		payload[k] = v
	}
	_, err := b.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: b.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

func (b *QdrantBackend) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	limit := uint64(topK)
	points, err := b.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: b.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	matches := make([]Match, 0, len(points))
	for _, p := range points {
		text, meta := splitPayload(p.GetPayload())
		matches = append(matches, Match{ID: idString(p.GetId()), Text: text, Score: p.GetScore(), Meta: meta})
	}
	return matches, nil
}

func (b *QdrantBackend) GetAll(ctx context.Context) ([]Record, error) {
	points, err := b.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: b.collection,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: scroll: %w", err)
	}

	out := make([]Record, 0, len(points))
	for _, p := range points {
		text, meta := splitPayload(p.GetPayload())
		out = append(out, Record{ID: idString(p.GetId()), Text: text, Meta: meta})
	}
	return out, nil
}

func (b *QdrantBackend) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := b.client.Count(ctx, &qdrant.CountPoints{CollectionName: b.collection, Exact: &exact})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(resp), nil
}

func (b *QdrantBackend) Status(ctx context.Context) (BackendStatus, error) {
	count, err := b.Count(ctx)
	if err != nil {
		return BackendStatus{}, err
	}
	return BackendStatus{Backend: "qdrant", Detail: b.collection, Entries: count, Search: "semantic (qdrant)"}, nil
}

func splitPayload(payload map[string]*qdrant.Value) (string, map[string]string) {
	meta := make(map[string]string, len(payload))
	text := ""
	for k, v := range payload {
		s := v.GetStringValue()
		if k == "memory" {
			text = s
			continue
		}
		meta[k] = s
	}
	return text, meta
}

func idString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return fmt.Sprintf("%d", id.GetNum())
}
