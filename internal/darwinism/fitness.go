// Package darwinism scores each agent's fitness across six dimensions per
// generation and proposes evolutionary actions (promote/observe/hybridize/
// improve/deprecate), grounded on the teacher's internal/reinforcement
// package for the score-then-propose-action idiom, generalized from a
// single reward signal to six weighted fitness dimensions with
// generation-over-generation trend comparisons (via gonum for the trend
// delta).
package darwinism

import (
	"coordination-layer/internal/types"
)

const (
	WeightReliability  = 0.25
	WeightProductivity = 0.20
	WeightLearning     = 0.20
	WeightAdaptability = 0.15
	WeightResilience   = 0.10
	WeightInfluence    = 0.10
)

const (
	levelEliteMin   = 75.0
	levelViableMin  = 40.0
	levelFragileMin = 20.0
)

// AgentActivity is the raw per-agent evidence the fitness formulas consume.
type AgentActivity struct {
	AgentID            string
	ACPassed           int
	ACTotal            int
	Failures           int
	Commits            int
	Decisions          int
	InTraceLearnings   int
	ExternalLearnings  int
	StoriesTouched     int
	RecurringFailures  int
	Checkpoints        int
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func reliability(a AgentActivity) float64 {
	if a.ACTotal == 0 {
		return 55 // midpoint of the documented 30-80 baseline when no AC data exists
	}
	passRate := float64(a.ACPassed) / float64(a.ACTotal)
	score := 0.6*passRate*100 - 5*float64(a.Failures)
	return clamp(score, 0, 100)
}

func productivity(a AgentActivity) float64 {
	return minf(50, 10*float64(a.Commits)) + minf(50, 8*float64(a.Decisions))
}

func learning(a AgentActivity) float64 {
	return minf(100, 10*float64(a.InTraceLearnings+a.ExternalLearnings))
}

func adaptability(a AgentActivity) float64 {
	return minf(100, 15*float64(a.StoriesTouched))
}

func resilience(a AgentActivity) float64 {
	if a.Failures == 0 {
		return 80
	}
	score := 60 - 40*(float64(a.RecurringFailures)/float64(a.Failures))
	if a.Failures > 5 {
		score -= 5 * float64(a.Failures-5)
	}
	return clamp(score, 0, 100)
}

func influence(a AgentActivity) float64 {
	return minf(50, 15*float64(a.Checkpoints)) + minf(50, 10*float64(a.Decisions))
}

// Evaluate computes the FitnessScore for one agent in the given generation.
func Evaluate(a AgentActivity, generation int) types.FitnessScore {
	dims := types.FitnessDimensions{
		Reliability:  reliability(a),
		Productivity: productivity(a),
		Learning:     learning(a),
		Adaptability: adaptability(a),
		Resilience:   resilience(a),
		Influence:    influence(a),
	}
	composite := WeightReliability*dims.Reliability +
		WeightProductivity*dims.Productivity +
		WeightLearning*dims.Learning +
		WeightAdaptability*dims.Adaptability +
		WeightResilience*dims.Resilience +
		WeightInfluence*dims.Influence

	return types.FitnessScore{
		AgentID:    a.AgentID,
		Dimensions: dims,
		Composite:  composite,
		Level:      level(composite),
		Generation: generation,
	}
}

func level(composite float64) types.FitnessLevel {
	switch {
	case composite >= levelEliteMin:
		return types.LevelElite
	case composite >= levelViableMin:
		return types.LevelViable
	case composite >= levelFragileMin:
		return types.LevelFragile
	default:
		return types.LevelObsolete
	}
}

// weakestDimension returns the (name, value) of the lowest-scoring
// dimension, used by OBSERVE/HYBRIDIZE action reasons.
func weakestDimension(d types.FitnessDimensions) (string, float64) {
	vals := map[string]float64{
		"reliability": d.Reliability, "productivity": d.Productivity,
		"learning": d.Learning, "adaptability": d.Adaptability,
		"resilience": d.Resilience, "influence": d.Influence,
	}
	name, best := "", 101.0
	for k, v := range vals {
		if v < best || (v == best && k < name) {
			name, best = k, v
		}
	}
	return name, best
}
