package dream

import (
	"context"
	"fmt"

	"coordination-layer/internal/embeddings"
	"coordination-layer/internal/types"
)

// SemanticThreshold is the cosine-similarity bar a cross-source pair must
// clear to be reported as a semantic connection.
const SemanticThreshold = 0.75

// FindSemanticConnections indexes every collected entry into backend via
// embedder, then searches each entry's nearest neighbors, reporting a
// connection insight for any cross-source, cross-kind pair that clears
// SemanticThreshold. This is the optional "may read semantic memory" path:
// callers without a configured backend never call this function and fall
// back to findCrossConnections' lexical pass alone.
func FindSemanticConnections(ctx context.Context, backend embeddings.Backend, embedder embeddings.Embedder, sources []types.MemorySource) ([]types.DreamInsight, error) {
	type indexed struct {
		id     string
		source types.MemorySource
		text   string
	}
	var entries []indexed

	for si, src := range sources {
		for ei, e := range src.Entries {
			id := fmt.Sprintf("%d-%d", si, ei)
			vector, err := embedder.Embed(ctx, e.Text)
			if err != nil {
				return nil, fmt.Errorf("embed entry %s: %w", id, err)
			}
			if err := backend.Add(ctx, id, e.Text, vector, map[string]string{"source": src.Name, "kind": string(src.Kind)}); err != nil {
				return nil, fmt.Errorf("index entry %s: %w", id, err)
			}
			entries = append(entries, indexed{id: id, source: src, text: e.Text})
		}
	}

	seen := make(map[string]bool)
	var insights []types.DreamInsight
	for _, e := range entries {
		vector, err := embedder.Embed(ctx, e.text)
		if err != nil {
			return nil, fmt.Errorf("embed query for %s: %w", e.id, err)
		}
		matches, err := backend.Search(ctx, vector, 5)
		if err != nil {
			return nil, fmt.Errorf("search for %s: %w", e.id, err)
		}
		for _, m := range matches {
			if m.ID == e.id || m.Score < SemanticThreshold {
				continue
			}
			if m.Meta["kind"] == string(e.source.Kind) {
				continue // same-kind matches are handled by duplicate detection, not connections
			}
			key := pairKey(e.id, m.ID)
			if seen[key] {
				continue
			}
			seen[key] = true

			insights = append(insights, types.DreamInsight{
				Title: fmt.Sprintf("Semantic connection %s <-> %s", e.source.Kind, m.Meta["kind"]),
				Description: fmt.Sprintf(
					"Semantically related across [%s] and [%s]:\n  - %s\n  - %s",
					e.source.Name, m.Meta["source"], truncate(e.text, 120), truncate(m.Text, 120),
				),
				Sources:    []string{e.source.Name, m.Meta["source"]},
				Category:   types.InsightConnection,
				Confidence: round2(float64(m.Score)),
			})
		}
	}
	return insights, nil
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}
