package stigmergy

import (
	"math"
	"testing"
	"time"

	"coordination-layer/internal/types"
)

func TestPheromoneLifecycle(t *testing.T) {
	b := NewBoard()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p := b.Emit(types.PheromoneNeed, "src/auth", "review security required", "dev", nil, 1.0)
	p.Timestamp = t0 // pin for deterministic decay math

	at72 := t0.Add(72 * time.Hour)
	cur := CurrentIntensity(p, b.HalfLifeHours, at72)
	if math.Abs(cur-0.5) > 1e-9 {
		t.Fatalf("expected current intensity 0.5 at one half-life, got %v", cur)
	}

	amplified := b.Amplify(p.ID, "qa", at72)
	if amplified == nil {
		t.Fatal("expected amplify to find the pheromone")
	}
	// current at T0+72h is 0.5; boosted by 0.2 -> new base 0.7
	if math.Abs(amplified.Intensity-0.7) > 1e-9 {
		t.Fatalf("expected new base intensity 0.7, got %v", amplified.Intensity)
	}
	if amplified.Reinforcements != 1 {
		t.Fatalf("expected 1 reinforcement, got %d", amplified.Reinforcements)
	}
	if len(amplified.ReinforcedBy) != 1 || amplified.ReinforcedBy[0] != "qa" {
		t.Fatalf("expected reinforced_by=[qa], got %v", amplified.ReinforcedBy)
	}

	at720 := t0.Add(10 * 72 * time.Hour)
	curAt720 := CurrentIntensity(amplified, b.HalfLifeHours, at720)
	if math.Abs(curAt720-0.7/1024.0) > 1e-6 {
		t.Fatalf("expected current ~0.00068 at T0+10 half-lives, got %v", curAt720)
	}
	evaporated := b.Evaporate(at720)
	if evaporated != 1 {
		t.Fatalf("expected 1 pheromone evaporated, got %d", evaporated)
	}
	if b.TotalEvaporated != 1 {
		t.Fatalf("expected total_evaporated=1, got %d", b.TotalEvaporated)
	}
	if len(b.Pheromones) != 0 {
		t.Fatalf("expected board to be empty after evaporation, got %d", len(b.Pheromones))
	}
}

func TestAmplifyClampAndUnion(t *testing.T) {
	b := NewBoard()
	now := time.Now()
	p := b.Emit(types.PheromoneNeed, "loc", "text", "dev", nil, 0.7)
	p.Timestamp = now // pin so CurrentIntensity(now) == base (no decay elapsed)

	b.Amplify(p.ID, "a", now)
	if math.Abs(p.Intensity-0.9) > 1e-9 {
		t.Fatalf("expected 0.9 after one boost, got %v", p.Intensity)
	}
	b.Amplify(p.ID, "a", now) // same agent again: reinforcements increments, set stays deduped
	if p.Reinforcements != 2 {
		t.Fatalf("expected 2 reinforcements, got %d", p.Reinforcements)
	}
	if len(p.ReinforcedBy) != 1 {
		t.Fatalf("expected reinforced_by deduplicated to 1 entry, got %v", p.ReinforcedBy)
	}
	if p.Intensity != MaxIntensity {
		t.Fatalf("expected intensity capped at 1.0, got %v", p.Intensity)
	}
}

func TestEvaporateIdempotent(t *testing.T) {
	b := NewBoard()
	p := b.Emit(types.PheromoneNeed, "loc", "text", "dev", nil, 0.1)
	p.Timestamp = time.Now().Add(-1000 * time.Hour)

	now := time.Now()
	n1 := b.Evaporate(now)
	n2 := b.Evaporate(now)
	if n1 != 1 {
		t.Fatalf("expected first evaporate to drop 1, got %d", n1)
	}
	if n2 != 0 {
		t.Fatalf("expected second evaporate (same now) to be a no-op, got %d", n2)
	}
}

func TestFutureTimestampReturnsBaseIntensity(t *testing.T) {
	b := NewBoard()
	p := b.Emit(types.PheromoneNeed, "loc", "text", "dev", nil, 0.42)
	p.Timestamp = time.Now().Add(1 * time.Hour)

	cur := CurrentIntensity(p, b.HalfLifeHours, time.Now())
	if cur != 0.42 {
		t.Fatalf("expected future-timestamped pheromone to return base intensity, got %v", cur)
	}
}

func TestResolvedExcludedFromDefaultSense(t *testing.T) {
	b := NewBoard()
	p := b.Emit(types.PheromoneNeed, "loc", "text", "dev", nil, 0.9)
	b.Resolve(p.ID, "dev")

	now := time.Now()
	if sensed := b.Sense(SenseFilter{}, now); len(sensed) != 0 {
		t.Fatalf("expected resolved pheromone excluded by default, got %d", len(sensed))
	}
	if sensed := b.Sense(SenseFilter{IncludeResolved: true}, now); len(sensed) != 1 {
		t.Fatalf("expected resolved pheromone included when opted in, got %d", len(sensed))
	}
}

func TestDeterministicID(t *testing.T) {
	ts := "2026-01-01T00:00:00Z"
	id1 := GenerateID(types.PheromoneNeed, "src/auth", "text", ts)
	id2 := GenerateID(types.PheromoneNeed, "src/auth", "text", ts)
	if id1 != id2 {
		t.Fatalf("expected deterministic id, got %s vs %s", id1, id2)
	}
	id3 := GenerateID(types.PheromoneAlert, "src/auth", "text", ts)
	if id1 == id3 {
		t.Fatal("expected different type to yield different id")
	}
}

func TestTrailDetection(t *testing.T) {
	b := NewBoard()
	now := time.Now()
	b.Emit(types.PheromoneNeed, "src/db", "a", "agentA", nil, 0.8)
	b.Emit(types.PheromoneProgress, "src/db", "b", "agentB", nil, 0.8)
	b.Emit(types.PheromoneOpportunity, "src/db", "c", "agentC", nil, 0.8)
	b.Emit(types.PheromoneBlock, "src/api", "d", "agentA", nil, 0.8)
	b.Emit(types.PheromoneBlock, "src/api", "e", "agentB", nil, 0.8)

	patterns := AnalyzeTrails(b, now)

	var hasHotZone, hasConvergenceDB, hasBottleneck, hasConvergenceAPI bool
	for _, p := range patterns {
		switch {
		case p.Kind == types.TrailHotZone && p.Location == "src/db":
			hasHotZone = true
		case p.Kind == types.TrailConvergence && p.Location == "src/db":
			hasConvergenceDB = true
		case p.Kind == types.TrailBottleneck && p.Location == "src/api":
			hasBottleneck = true
		case p.Kind == types.TrailConvergence && p.Location == "src/api":
			hasConvergenceAPI = true
		}
	}
	if !hasHotZone || !hasConvergenceDB || !hasBottleneck || !hasConvergenceAPI {
		t.Fatalf("missing expected patterns: %+v", patterns)
	}

	// Dedup: no duplicate (kind, location) pairs.
	seen := map[string]bool{}
	for _, p := range patterns {
		key := string(p.Kind) + ":" + p.Location
		if seen[key] {
			t.Fatalf("duplicate pattern %s", key)
		}
		seen[key] = true
	}
}
