package antifragile

import (
	"path/filepath"
	"testing"

	"coordination-layer/internal/types"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightRecovery + WeightLearning + WeightContradiction + WeightSignalTrend + WeightDecision + WeightPattern
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected weights to sum to 1.0, got %v", sum)
	}
}

func TestScoreNoEvidenceYieldsMidBaseline(t *testing.T) {
	result := Score(nil)
	if result.Composite <= 0 {
		t.Fatalf("expected a positive baseline composite with no evidence, got %v", result.Composite)
	}
	if result.Level != types.AFRobust {
		t.Fatalf("expected baseline 0.5-ish dimensions to land in ROBUST, got %v (%v)", result.Level, result.Composite)
	}
}

func TestScoreRecoveryRewardsRulesAndLessons(t *testing.T) {
	sources := []types.MemorySource{
		{Name: "failure-museum", Kind: types.SourceFailureMuseum, Entries: []types.MemEntry{
			{Text: "CC-FAIL — cache bug | Leçon: check TTL | Règle instaurée: always verify TTL", Tags: []string{"CC-FAIL"}},
		}},
	}
	result := Score(sources)
	var recovery types.DimensionScore
	for _, d := range result.Dimensions {
		if d.Name == "recovery" {
			recovery = d
		}
	}
	if recovery.Score < 0.9 {
		t.Fatalf("expected recovery score near 1.0 when every failure has a rule+lesson, got %v", recovery.Score)
	}
}

func TestLevelThresholds(t *testing.T) {
	if level(10) != types.AFFragile {
		t.Fatal("expected <30 to be FRAGILE")
	}
	if level(45) != types.AFRobust {
		t.Fatal("expected <60 to be ROBUST")
	}
	if level(75) != types.AFAntifragile {
		t.Fatal("expected >=60 to be ANTIFRAGILE")
	}
}

func TestHistoryAppendAndTrend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "antifragile-history.json")
	r1 := types.AntifragileResult{Composite: 40, Level: types.AFRobust}
	r2 := types.AntifragileResult{Composite: 65, Level: types.AFAntifragile}

	if _, err := Append(path, r1); err != nil {
		t.Fatal(err)
	}
	h, err := Append(path, r2)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(h.Runs))
	}
	trend := RenderTrend(h)
	if trend == "" {
		t.Fatal("expected non-empty trend output")
	}
}
