package lint

import (
	"fmt"
	"testing"

	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

func TestContradictionDetected(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "a", Kind: types.SourceLearnings, Entries: []types.MemEntry{{Text: "always cache invalidation review required"}}},
		{Name: "b", Kind: types.SourceFailureMuseum, Entries: []types.MemEntry{{Text: "avoid cache invalidation review, broken"}}},
	}
	issues := Run(sources)
	found := false
	for _, i := range issues {
		if i.Category == types.CategoryContradiction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a contradiction issue, got %+v", issues)
	}
}

func TestErrorsSortedFirst(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "a", Kind: types.SourceLearnings, Entries: []types.MemEntry{
			{Text: "always cache invalidation review required"},
			{Date: "2026-01-01", Text: "d1"}, {Date: "2026-01-03", Text: "d2"}, {Date: "2026-01-02", Text: "d3"},
		}},
		{Name: "b", Kind: types.SourceFailureMuseum, Entries: []types.MemEntry{{Text: "avoid cache invalidation review, broken"}}},
	}
	issues := Run(sources)
	if len(issues) < 2 {
		t.Fatalf("expected multiple issues, got %d", len(issues))
	}
	sawWarnOrInfo := false
	for _, i := range issues {
		if i.Severity != types.SeverityError {
			sawWarnOrInfo = true
		} else if sawWarnOrInfo {
			t.Fatal("expected all errors sorted before warnings/info")
		}
	}
}

func TestIssueIDsSequential(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "a", Kind: types.SourceLearnings, Entries: []types.MemEntry{{Text: "always cache invalidation review required"}}},
		{Name: "b", Kind: types.SourceFailureMuseum, Entries: []types.MemEntry{{Text: "avoid cache invalidation review, broken"}}},
	}
	issues := Run(sources)
	for i, issue := range issues {
		want := fmt.Sprintf("ML-%03d", i+1)
		if issue.ID != want {
			t.Fatalf("expected id %s at position %d, got %s", want, i, issue.ID)
		}
	}
}

func TestExitCodeAndEmit(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "a", Kind: types.SourceLearnings, Entries: []types.MemEntry{{Text: "always cache invalidation review required"}}},
		{Name: "b", Kind: types.SourceFailureMuseum, Entries: []types.MemEntry{{Text: "avoid cache invalidation review, broken"}}},
	}
	issues := Run(sources)
	if ExitCode(issues) != 1 {
		t.Fatal("expected non-zero exit code with an error issue present")
	}
	if ExitCode(nil) != 0 {
		t.Fatal("expected zero exit code with no issues")
	}

	board := stigmergy.NewBoard()
	n := Emit(board, issues)
	if n == 0 {
		t.Fatal("expected at least one pheromone emitted for an ERROR issue")
	}
	n2 := Emit(board, issues)
	if n2 != 0 {
		t.Fatal("expected dedup to suppress re-emitting the same alert text")
	}
}

func TestOrphanDecisionDetected(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "trace", Kind: types.SourceTrace, Entries: []types.MemEntry{
			{Text: "chose postgres over sqlite for durability", Tags: []string{"DECISION"}},
		}},
	}
	issues := Run(sources)
	found := false
	for _, i := range issues {
		if i.Category == types.CategoryOrphan {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an orphan-decision issue when decisions-log has no matching entry")
	}
}
