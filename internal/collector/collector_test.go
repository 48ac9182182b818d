package collector

import (
	"os"
	"path/filepath"
	"testing"

	"coordination-layer/internal/memstore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}
}

func TestCollectSourcesMissingFilesAreEmpty(t *testing.T) {
	root := t.TempDir()
	sources := CollectSources(root, Filter{})
	if len(sources) != 0 {
		t.Fatalf("expected no sources for empty project, got %d", len(sources))
	}
}

func TestCollectLearnings(t *testing.T) {
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.AgentLearnings("dev"), "- [2026-01-01] always cache invalidation before commit\n- untagged learning\n")

	sources := CollectSources(root, Filter{})
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if len(sources[0].Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sources[0].Entries))
	}
}

func TestCollectLearningsSinceFilter(t *testing.T) {
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.AgentLearnings("dev"), "- [2025-01-01] old learning\n- [2026-06-01] new learning\n- undated learning\n")

	sources := CollectSources(root, Filter{Since: "2026-01-01"})
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if len(sources[0].Entries) != 2 {
		t.Fatalf("expected 2 entries (new + undated always passes), got %d", len(sources[0].Entries))
	}
}

func TestCollectFailureMuseum(t *testing.T) {
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.FailureMuseum(), "### [2026-01-01] CC-FAIL — aggressive cache caused stale data\n- Leçon : avoid aggressive cache invalidation\n- Règle instaurée : always verify cache TTL\n")

	sources := CollectSources(root, Filter{})
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	if len(sources[0].Entries) != 1 {
		t.Fatalf("expected 1 section entry, got %d", len(sources[0].Entries))
	}
}

func TestCollectTraceFiltersByLevel(t *testing.T) {
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.Trace(), "## 2026-01-01 | dev | story-1\n"+
		"[2026-01-01 10:00] [DECISION] [dev] chose postgres over sqlite\n"+
		"[2026-01-01 10:05] [GIT-COMMIT] [dev] wip\n")

	sources := CollectSources(root, Filter{})
	if len(sources) != 1 {
		t.Fatalf("expected 1 trace source, got %d", len(sources))
	}
	if len(sources[0].Entries) != 1 {
		t.Fatalf("expected only the DECISION line to survive, got %d", len(sources[0].Entries))
	}
}

func TestCollectMalformedFileDegradesToEmpty(t *testing.T) {
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.DecisionsLog(), "not a bullet line at all, just prose\n")

	sources := CollectSources(root, Filter{})
	if len(sources) != 0 {
		t.Fatalf("expected malformed file to yield no entries, got %d sources", len(sources))
	}
}
