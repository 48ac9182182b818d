// Package antifragile scores a project's resilience from six weighted
// evidence dimensions computed over the collected memory sources, producing
// a 0-100 composite and a FRAGILE/ROBUST/ANTIFRAGILE level.
//
// Grounded on the teacher's internal/metrics package for the
// collect-evidence-then-weight-dimensions idiom, generalized from session
// metrics to cross-file evidence counts.
package antifragile

import (
	"strconv"
	"strings"

	"coordination-layer/internal/types"
)

// Weights, fixed, summing to 1.0.
const (
	WeightRecovery     = 0.25
	WeightLearning     = 0.20
	WeightContradiction = 0.15
	WeightSignalTrend  = 0.15
	WeightDecision     = 0.10
	WeightPattern      = 0.15
)

const (
	levelFragileMax = 30.0
	levelRobustMax  = 60.0
)

// silMarkers are the Signal-In-the-Loop keyword groups scanned across
// decisions-log and learnings.
var silMarkers = map[string][]string{
	"cc_fail":         {"cc_fail", "cc-fail"},
	"incomplete":      {"incomplete", "partial", "unfinished"},
	"contradiction":   {"contradiction", "contradicts", "conflict"},
	"guardrail_miss":  {"guardrail_miss", "guardrail miss", "guardrail-miss"},
	"expertise_gap":   {"expertise_gap", "expertise gap", "knowledge gap"},
}

// Evidence is the set of raw counts the six dimension formulas consume,
// extracted from the collected memory sources by Collect.
type Evidence struct {
	Failures           int
	FailuresWithRule    int
	FailuresWithLesson  int
	LearningEntries     int
	DistinctAgents      int
	ContradictionsTotal int
	ContradictionsResolved int
	SILCounts          map[string]int
	CCFailCount        int
	GuardrailMissCount int
	DecisionsTotal     int
	DecisionReversals  int
	CategoryCounts     map[string]int // failure-museum category -> count
}

// Collect derives Evidence from the collected memory sources.
func Collect(sources []types.MemorySource) Evidence {
	ev := Evidence{
		SILCounts:      map[string]int{},
		CategoryCounts: map[string]int{},
	}
	agents := map[string]bool{}

	for _, src := range sources {
		switch src.Kind {
		case types.SourceFailureMuseum:
			for _, e := range src.Entries {
				ev.Failures++
				lower := strings.ToLower(e.Text)
				if strings.Contains(lower, "règle instaurée") || strings.Contains(lower, "regle instauree") || strings.Contains(lower, "rule") {
					ev.FailuresWithRule++
				}
				if strings.Contains(lower, "leçon") || strings.Contains(lower, "lecon") || strings.Contains(lower, "lesson") {
					ev.FailuresWithLesson++
				}
				if len(e.Tags) > 0 {
					ev.CategoryCounts[e.Tags[0]]++
				}
			}
		case types.SourceLearnings:
			ev.LearningEntries += len(src.Entries)
			for _, e := range src.Entries {
				if e.Agent != "" {
					agents[e.Agent] = true
				}
			}
		case types.SourceContradictions:
			for _, e := range src.Entries {
				ev.ContradictionsTotal++
				if strings.Contains(strings.ToLower(e.Text), "resolved") || strings.Contains(strings.ToLower(e.Text), "résolu") || strings.Contains(strings.ToLower(e.Text), "resolu") {
					ev.ContradictionsResolved++
				}
			}
		case types.SourceDecisions:
			ev.DecisionsTotal += len(src.Entries)
			for _, e := range src.Entries {
				if strings.Contains(strings.ToLower(e.Text), "revert") || strings.Contains(strings.ToLower(e.Text), "reversal") {
					ev.DecisionReversals++
				}
			}
		}
	}

	for _, src := range sources {
		if src.Kind != types.SourceDecisions && src.Kind != types.SourceLearnings {
			continue
		}
		for _, e := range src.Entries {
			lower := strings.ToLower(e.Text)
			for marker, variants := range silMarkers {
				for _, v := range variants {
					if strings.Contains(lower, v) {
						ev.SILCounts[marker]++
						break
					}
				}
			}
			if strings.Contains(lower, "cc_fail") || strings.Contains(lower, "cc-fail") {
				ev.CCFailCount++
			}
			if strings.Contains(lower, "guardrail_miss") || strings.Contains(lower, "guardrail miss") {
				ev.GuardrailMissCount++
			}
		}
	}

	ev.DistinctAgents = len(agents)
	return ev
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

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func scoreRecovery(ev Evidence) types.DimensionScore {
	var score float64
	var recs []string
	if ev.Failures == 0 {
		score = 0.5
	} else {
		ruleRate := float64(ev.FailuresWithRule) / float64(ev.Failures)
		lessonRate := float64(ev.FailuresWithLesson) / float64(ev.Failures)
		score = 0.6*ruleRate + 0.4*lessonRate
		if score < 0.5 {
			recs = append(recs, "codify more failures into explicit rules and lessons in the failure museum")
		}
	}
	return types.DimensionScore{Name: "recovery", Score: score, EvidenceCount: ev.Failures, Recommendations: recs}
}

func scoreLearning(ev Evidence) types.DimensionScore {
	var score float64
	var recs []string
	if ev.LearningEntries == 0 && ev.DistinctAgents == 0 {
		score = 0
	} else {
		score = 0.6*minf(1, float64(ev.LearningEntries)/50) + 0.4*minf(1, float64(ev.DistinctAgents)/5)
		if score < 0.4 {
			recs = append(recs, "encourage more agents to record learnings")
		}
	}
	return types.DimensionScore{Name: "learning-velocity", Score: score, EvidenceCount: ev.LearningEntries, Recommendations: recs}
}

func scoreContradiction(ev Evidence) types.DimensionScore {
	var score float64
	var recs []string
	if ev.ContradictionsTotal == 0 {
		score = 0.5
	} else {
		score = float64(ev.ContradictionsResolved) / float64(ev.ContradictionsTotal)
		if score < 0.5 {
			recs = append(recs, "resolve open contradictions in the contradiction log")
		}
	}
	return types.DimensionScore{Name: "contradiction-resolution", Score: score, EvidenceCount: ev.ContradictionsTotal, Recommendations: recs}
}

func scoreSignalTrend(ev Evidence) types.DimensionScore {
	totalSIL := 0
	for _, c := range ev.SILCounts {
		totalSIL += c
	}
	var score float64
	var recs []string
	if totalSIL == 0 && ev.CCFailCount == 0 && ev.GuardrailMissCount == 0 {
		score = 0.7
	} else {
		score = maxf(0.1, 1-float64(totalSIL)/25)
		if ev.CCFailCount+ev.GuardrailMissCount > 3 {
			score *= 0.7
			recs = append(recs, "repeated CC_FAIL/guardrail-miss signals indicate an unstable loop")
		}
		if score < 0.5 {
			recs = append(recs, "reduce SIL marker frequency in decisions and learnings")
		}
	}
	return types.DimensionScore{Name: "signal-trend", Score: score, EvidenceCount: totalSIL, Recommendations: recs}
}

func scoreDecisionQuality(ev Evidence) types.DimensionScore {
	var score float64
	var recs []string
	if ev.DecisionsTotal == 0 {
		score = 0.5
	} else {
		score = maxf(0.1, 1-3*float64(ev.DecisionReversals)/float64(ev.DecisionsTotal))
		if score < 0.5 {
			recs = append(recs, "decision reversal rate is high; revisit the decision process")
		}
	}
	return types.DimensionScore{Name: "decision-quality", Score: score, EvidenceCount: ev.DecisionsTotal, Recommendations: recs}
}

func scorePatternRecurrence(ev Evidence) types.DimensionScore {
	total := 0
	maxCat := 0
	for _, c := range ev.CategoryCounts {
		total += c
		if c > maxCat {
			maxCat = c
		}
	}
	var score float64
	var recs []string
	if total == 0 {
		score = 0.5
	} else {
		concentration := float64(maxCat) / float64(total)
		diversity := float64(len(ev.CategoryCounts)) / 6
		if diversity > 1 {
			diversity = 1
		}
		score = 0.6*(1-concentration) + 0.4*diversity
		if concentration > 0.6 {
			recs = append(recs, "failures concentrate heavily in one category; address the root cause")
		}
	}
	return types.DimensionScore{Name: "pattern-recurrence", Score: score, EvidenceCount: total, Recommendations: recs}
}

// Score computes the full antifragile result from collected sources. The
// caller stamps Timestamp before persisting to history.
func Score(sources []types.MemorySource) types.AntifragileResult {
	ev := Collect(sources)
	dims := []types.DimensionScore{
		scoreRecovery(ev),
		scoreLearning(ev),
		scoreContradiction(ev),
		scoreSignalTrend(ev),
		scoreDecisionQuality(ev),
		scorePatternRecurrence(ev),
	}
	weights := map[string]float64{
		"recovery":                  WeightRecovery,
		"learning-velocity":         WeightLearning,
		"contradiction-resolution":  WeightContradiction,
		"signal-trend":              WeightSignalTrend,
		"decision-quality":          WeightDecision,
		"pattern-recurrence":        WeightPattern,
	}
	weighted := 0.0
	totalEvidence := 0
	for _, d := range dims {
		weighted += weights[d.Name] * clamp(d.Score, 0, 1)
		totalEvidence += d.EvidenceCount
	}
	composite := weighted * 100
	result := types.AntifragileResult{
		Composite:     composite,
		Level:         level(composite),
		Dimensions:    dims,
		TotalEvidence: totalEvidence,
		Summary:       summarize(composite, dims),
	}
	return result
}

func level(composite float64) types.AntifragileLevel {
	switch {
	case composite < levelFragileMax:
		return types.AFFragile
	case composite < levelRobustMax:
		return types.AFRobust
	default:
		return types.AFAntifragile
	}
}

func summarize(composite float64, dims []types.DimensionScore) string {
	weakest := dims[0]
	for _, d := range dims[1:] {
		if d.Score < weakest.Score {
			weakest = d
		}
	}
	return strings.TrimSpace(
		"composite " + trimFloat(composite) + "/100; weakest dimension: " + weakest.Name,
	)
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return s
}
