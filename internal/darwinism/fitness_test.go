package darwinism

import (
	"path/filepath"
	"testing"

	"coordination-layer/internal/types"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightReliability + WeightProductivity + WeightLearning + WeightAdaptability + WeightResilience + WeightInfluence
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected weights to sum to 1.0, got %v", sum)
	}
}

func TestReliabilityBaselineWithNoACData(t *testing.T) {
	score := reliability(AgentActivity{})
	if score < 30 || score > 80 {
		t.Fatalf("expected baseline reliability in [30,80], got %v", score)
	}
}

func TestResilienceZeroFailuresBaseline(t *testing.T) {
	if r := resilience(AgentActivity{Failures: 0}); r != 80 {
		t.Fatalf("expected 80 baseline with zero failures, got %v", r)
	}
}

func TestLevelThresholds(t *testing.T) {
	cases := map[float64]types.FitnessLevel{
		80: types.LevelElite, 75: types.LevelElite,
		50: types.LevelViable, 40: types.LevelViable,
		25: types.LevelFragile, 20: types.LevelFragile,
		10: types.LevelObsolete,
	}
	for composite, want := range cases {
		if got := level(composite); got != want {
			t.Fatalf("level(%v) = %v, want %v", composite, got, want)
		}
	}
}

func TestProposeActionsAssignsExpectedKinds(t *testing.T) {
	scores := []types.FitnessScore{
		{AgentID: "elite1", Composite: 80, Dimensions: types.FitnessDimensions{Reliability: 90, Productivity: 80, Learning: 80, Adaptability: 80, Resilience: 80, Influence: 80}, Level: types.LevelElite},
		{AgentID: "viable1", Composite: 50, Dimensions: types.FitnessDimensions{Reliability: 50, Productivity: 50, Learning: 30, Adaptability: 50, Resilience: 50, Influence: 50}, Level: types.LevelViable},
		{AgentID: "fragile1", Composite: 25, Dimensions: types.FitnessDimensions{Reliability: 25, Productivity: 25, Learning: 10, Adaptability: 25, Resilience: 25, Influence: 25}, Level: types.LevelFragile},
		{AgentID: "obsolete1", Composite: 10, Level: types.LevelObsolete},
	}
	actions := ProposeActions(scores, nil)
	byAgent := map[string]types.EvolutionActionKind{}
	for _, a := range actions {
		byAgent[a.AgentID] = a.Action
	}
	if byAgent["elite1"] != types.ActionPromote {
		t.Fatal("expected elite to be promoted")
	}
	if byAgent["viable1"] != types.ActionObserve {
		t.Fatal("expected viable to be observed")
	}
	if byAgent["obsolete1"] != types.ActionDeprecate {
		t.Fatal("expected obsolete to be deprecated")
	}
	if byAgent["fragile1"] != types.ActionHybridize && byAgent["fragile1"] != types.ActionImprove {
		t.Fatalf("expected fragile to hybridize or improve, got %v", byAgent["fragile1"])
	}
}

func TestGenerationNumbersMonotonic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darwinism-history.json")
	scores := []types.FitnessScore{{AgentID: "a", Composite: 50}}

	r1, err := AppendGeneration(path, scores, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", r1.Generation)
	}
	r2, err := AppendGeneration(path, scores, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if r2.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", r2.Generation)
	}
}

func TestDryRunSkipsPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darwinism-history.json")
	scores := []types.FitnessScore{{AgentID: "a", Composite: 50}}
	if _, err := AppendGeneration(path, scores, nil, true); err != nil {
		t.Fatal(err)
	}
	h := LoadHistory(path)
	if len(h.Records) != 0 {
		t.Fatalf("expected dry-run to skip persistence, got %d records", len(h.Records))
	}
}

func TestMeanCompositeTrend(t *testing.T) {
	h := &History{Records: []types.GenerationRecord{
		{Generation: 1, Scores: []*types.FitnessScore{{AgentID: "a", Composite: 40}}},
		{Generation: 2, Scores: []*types.FitnessScore{{AgentID: "a", Composite: 55}}},
	}}
	if d := MeanCompositeTrend(h); d != 15 {
		t.Fatalf("expected mean trend delta 15, got %v", d)
	}
}
