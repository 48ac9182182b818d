package dream

import (
	"context"
	"path/filepath"
	"testing"

	"coordination-layer/internal/embeddings"
	"coordination-layer/internal/types"
)

// hashEmbedder is a deterministic, dependency-free stand-in for a real
// embedder: identical text always yields an identical vector, and the
// fixture texts below are chosen to be near-duplicates of each other so the
// hash-bucket vector still clears SemanticThreshold.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	var buckets [8]float32
	for _, r := range text {
		buckets[int(r)%8]++
	}
	return buckets[:], nil
}

func TestFindSemanticConnectionsAcrossKinds(t *testing.T) {
	ctx := context.Background()
	backend, err := embeddings.NewLocalBackend(filepath.Join(t.TempDir(), "embeddings.json"))
	if err != nil {
		t.Fatal(err)
	}

	sources := []types.MemorySource{
		{
			Name: "agent-learnings/dev.md",
			Kind: types.SourceLearnings,
			Entries: []types.MemEntry{
				{Text: "timeout budget was too aggressive for cold starts"},
			},
		},
		{
			Name: "failure-museum.md",
			Kind: types.SourceFailureMuseum,
			Entries: []types.MemEntry{
				{Text: "timeout budget was too aggressive for cold starts indeed"},
			},
		},
	}

	insights, err := FindSemanticConnections(ctx, backend, hashEmbedder{}, sources)
	if err != nil {
		t.Fatalf("FindSemanticConnections() failed: %v", err)
	}
	if len(insights) == 0 {
		t.Fatal("expected at least one cross-kind semantic connection")
	}
	for _, ins := range insights {
		if ins.Category != types.InsightConnection {
			t.Errorf("expected InsightConnection category, got %v", ins.Category)
		}
	}
}

func TestFindSemanticConnectionsSkipsSameKind(t *testing.T) {
	ctx := context.Background()
	backend, err := embeddings.NewLocalBackend(filepath.Join(t.TempDir(), "embeddings.json"))
	if err != nil {
		t.Fatal(err)
	}

	sources := []types.MemorySource{
		{
			Name:    "agent-learnings/dev.md",
			Kind:    types.SourceLearnings,
			Entries: []types.MemEntry{{Text: "alpha"}, {Text: "alpha"}},
		},
	}

	insights, err := FindSemanticConnections(ctx, backend, hashEmbedder{}, sources)
	if err != nil {
		t.Fatalf("FindSemanticConnections() failed: %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("expected same-kind matches to be excluded, got %+v", insights)
	}
}
