package reasonstream

import (
	"path/filepath"
	"testing"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

func TestLogAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reasoning-stream.jsonl")
	if err := Log(path, types.ReasoningEntry{Agent: "dev", Type: types.ReasoningHypothesis, Text: "maybe the cache is stale"}); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Status != types.RStatusOpen {
		t.Fatalf("expected default status open, got %s", entries[0].Status)
	}
	if entries[0].Timestamp == "" {
		t.Fatal("expected timestamp to be stamped")
	}
}

func TestUpdateStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reasoning-stream.jsonl")
	if err := Log(path, types.ReasoningEntry{Agent: "dev", Type: types.ReasoningDoubt, Text: "is this right?", Timestamp: "t1"}); err != nil {
		t.Fatal(err)
	}
	found, err := UpdateStatus(path, "t1", types.RStatusValidated)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	entries, _ := ReadAll(path)
	if entries[0].Status != types.RStatusValidated {
		t.Fatalf("expected status validated, got %s", entries[0].Status)
	}

	found, err = UpdateStatus(path, "unknown", types.RStatusValidated)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected no match for unknown timestamp")
	}
}

func TestChainFollowsRelatedTo(t *testing.T) {
	entries := []types.ReasoningEntry{
		{Timestamp: "t1", Text: "root hypothesis"},
		{Timestamp: "t2", Text: "doubt about t1", RelatedTo: "t1"},
		{Timestamp: "t3", Text: "alternative to t2", RelatedTo: "t2"},
		{Timestamp: "t4", Text: "unrelated"},
	}
	chain := Chain(entries, "t1")
	if len(chain) != 3 {
		t.Fatalf("expected chain of 3 (t1,t2,t3), got %d: %+v", len(chain), chain)
	}
	for _, e := range chain {
		if e.Timestamp == "t4" {
			t.Fatal("unrelated entry must not be in the chain")
		}
	}
}

func TestMalformedLineSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reasoning-stream.jsonl")
	if err := Log(path, types.ReasoningEntry{Agent: "dev", Type: types.ReasoningAssumption, Text: "ok"}); err != nil {
		t.Fatal(err)
	}
	// Append a malformed line directly.
	if err := memstore.AppendLine(path, "not json"); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected malformed line skipped, got %d entries", len(entries))
	}
}
