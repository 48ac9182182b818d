package dream

import (
	"testing"
	"time"

	"coordination-layer/internal/types"
)

func src(name string, kind types.SourceKind, entries ...types.MemEntry) types.MemorySource {
	return types.MemorySource{Name: name, Kind: kind, Entries: entries}
}

func TestCrossConnectionConfidenceOne(t *testing.T) {
	sources := []types.MemorySource{
		src("agent-learnings/dev", types.SourceLearnings,
			types.MemEntry{Text: "database connection pooling timeout issue"}),
		src("decisions-log", types.SourceDecisions,
			types.MemEntry{Text: "database connection pooling timeout issue"}),
	}
	insights := RunOver(sources, Options{Validate: true})
	found := false
	for _, ins := range insights {
		if ins.Category == types.InsightConnection && ins.Confidence >= 0.99 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a confidence~1.0 connection insight, got %+v", insights)
	}
}

func TestRecurringPatternRequiresMinSourcesAndCount(t *testing.T) {
	sources := []types.MemorySource{
		src("agent-learnings/dev", types.SourceLearnings,
			types.MemEntry{Text: "cache invalidation bug found again"}),
		src("decisions-log", types.SourceDecisions,
			types.MemEntry{Text: "cache invalidation strategy revisited"}),
		src("failure-museum", types.SourceFailureMuseum,
			types.MemEntry{Text: "cache invalidation caused stale reads"}),
	}
	insights := findRecurringPatterns(sources)
	if len(insights) == 0 {
		t.Fatal("expected at least one recurring pattern insight for 'cache'/'invalidation'")
	}
}

func TestTensionCrossesSourcesOnly(t *testing.T) {
	sources := []types.MemorySource{
		src("agent-learnings/dev", types.SourceLearnings,
			types.MemEntry{Text: "never skip cache invalidation review"}),
		src("failure-museum", types.SourceFailureMuseum,
			types.MemEntry{Text: "avoid cache invalidation review, broken"}),
	}
	insights := findTensions(sources)
	if len(insights) == 0 {
		t.Fatal("expected a tension insight across the two sources")
	}
	for _, ins := range insights {
		if ins.Sources[0] == ins.Sources[1] {
			t.Fatal("tension must not pair an entry with itself from the same source")
		}
	}
}

func TestOpportunityMarksActionable(t *testing.T) {
	sources := []types.MemorySource{
		src("agent-learnings/dev", types.SourceLearnings,
			types.MemEntry{Text: "TODO: automate the release checklist"}),
	}
	insights := findOpportunities(sources)
	if len(insights) != 1 || !insights[0].Actionable {
		t.Fatalf("expected 1 actionable opportunity insight, got %+v", insights)
	}
}

func TestValidateRejectsUnknownSourceAndLowConfidence(t *testing.T) {
	names := map[string]bool{"a": true}
	ok := validate(types.DreamInsight{Sources: []string{"a"}, Confidence: 0.5, Description: "long enough description"}, names)
	if !ok {
		t.Fatal("expected valid insight to pass")
	}
	if validate(types.DreamInsight{Sources: []string{"unknown"}, Confidence: 0.5, Description: "long enough description"}, names) {
		t.Fatal("expected unknown source to fail validation")
	}
	if validate(types.DreamInsight{Sources: []string{"a"}, Confidence: 0, Description: "long enough description"}, names) {
		t.Fatal("expected zero confidence to fail validation")
	}
	if validate(types.DreamInsight{Sources: []string{"a"}, Confidence: 0.5, Description: "short"}, names) {
		t.Fatal("expected too-short description to fail validation")
	}
}

func TestTemporalDecayFloorsAtPointThree(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sources := []types.MemorySource{
		src("old", types.SourceLearnings, types.MemEntry{Date: "2025-01-01", Text: "x"}),
	}
	insights := []types.DreamInsight{{Sources: []string{"old"}, Confidence: 1.0}}
	applyTemporalDecayAt(insights, sources, now)
	if insights[0].Confidence < 0.3 {
		t.Fatalf("expected weight floored at 0.3, got %v", insights[0].Confidence)
	}
}

func TestTemporalDecayNoPenaltyForUndatedEntries(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sources := []types.MemorySource{
		src("undated", types.SourceLearnings, types.MemEntry{Text: "x"}),
	}
	insights := []types.DreamInsight{{Sources: []string{"undated"}, Confidence: 0.8}}
	applyTemporalDecayAt(insights, sources, now)
	if insights[0].Confidence != 0.8 {
		t.Fatalf("expected no decay applied when no dated entries, got %v", insights[0].Confidence)
	}
}

func TestDreamMemoryDiffAcrossThreeRuns(t *testing.T) {
	mem := &types.DreamMemory{Entries: map[string]*types.DreamMemoryEntry{}}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ins := types.DreamInsight{Title: "Recurring pattern: cache", Category: types.InsightPattern, Confidence: 0.6}

	diff1 := updateMemoryAt([]types.DreamInsight{ins}, mem, t0)
	if len(diff1.New) != 1 || len(diff1.Persistent) != 0 {
		t.Fatalf("run 1: expected 1 new insight, got %+v", diff1)
	}

	t1 := t0.Add(24 * time.Hour)
	diff2 := updateMemoryAt([]types.DreamInsight{ins}, mem, t1)
	if len(diff2.Persistent) != 1 {
		t.Fatalf("run 2: expected the insight to be persistent, got %+v", diff2)
	}
	if diff2.Persistent[0].Confidence <= ins.Confidence {
		t.Fatalf("run 2: expected persistence boost to raise confidence, got %v", diff2.Persistent[0].Confidence)
	}

	t2 := t1.Add(24 * time.Hour)
	diff3 := updateMemoryAt(nil, mem, t2)
	if len(diff3.Resolved) != 1 {
		t.Fatalf("run 3: expected the now-missing insight to be reported resolved, got %+v", diff3)
	}
}

func TestDeduplicateKeepsHigherConfidence(t *testing.T) {
	insights := []types.DreamInsight{
		{Title: "a", Description: "database connection pooling timeout issue happened again", Confidence: 0.4},
		{Title: "b", Description: "database connection pooling timeout issue happened again today", Confidence: 0.8},
	}
	out := deduplicate(insights)
	if len(out) != 1 {
		t.Fatalf("expected near-duplicate descriptions merged into 1, got %d", len(out))
	}
	if out[0].Confidence != 0.8 {
		t.Fatalf("expected the higher-confidence insight kept, got %v", out[0].Confidence)
	}
}
