package embeddings

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLocalBackendAddAndSearch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	b, err := NewLocalBackend(path)
	if err != nil {
		t.Fatalf("NewLocalBackend() failed: %v", err)
	}

	if err := b.Add(ctx, "a", "retry budget exhausted", []float32{1, 0, 0}, nil); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := b.Add(ctx, "b", "unrelated entry", []float32{0, 1, 0}, nil); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	matches, err := b.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "a" {
		t.Fatalf("expected entry 'a' to rank first, got %+v", matches)
	}

	count, err := b.Count(ctx)
	if err != nil || count != 2 {
		t.Fatalf("expected count=2, got %d (err=%v)", count, err)
	}
}

func TestLocalBackendPersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.json")

	b1, err := NewLocalBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b1.Add(ctx, "a", "persisted entry", []float32{1, 1}, map[string]string{"agent": "dev"}); err != nil {
		t.Fatal(err)
	}

	b2, err := NewLocalBackend(path)
	if err != nil {
		t.Fatalf("reloading backend failed: %v", err)
	}
	records, err := b2.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Meta["agent"] != "dev" {
		t.Fatalf("expected reloaded entry with metadata, got %+v", records)
	}
}

func TestLocalBackendMissingFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocalBackend(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("NewLocalBackend() failed for a missing file: %v", err)
	}
	count, err := b.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected an empty store, got count=%d (err=%v)", count, err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("expected identical vectors to score 1, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("expected orthogonal vectors to score 0, got %v", got)
	}
	if got := cosineSimilarity(nil, []float32{1}); got != 0 {
		t.Errorf("expected empty vector to score 0, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("expected mismatched lengths to score 0, got %v", got)
	}
}
