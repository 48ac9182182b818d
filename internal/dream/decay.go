package dream

import (
	"math"
	"time"

	"coordination-layer/internal/types"
)

// DecayHalfLifeDays is the half-life used for temporal-weighting insight
// confidence by the age of its contributing entries.
const DecayHalfLifeDays = 14.0

// temporalWeight returns 1.0 for an empty/malformed date (no penalty,
// matches dream.py's _temporal_weight), otherwise an exponential decay
// floored at 0.3 so an old entry is never fully discounted.
func temporalWeight(dateStr string, now time.Time) float64 {
	if len(dateStr) < 10 {
		return 1.0
	}
	entryDate, err := time.Parse("2006-01-02", dateStr[:10])
	if err != nil {
		return 1.0
	}
	ageDays := now.Sub(entryDate).Hours() / 24
	if ageDays <= 0 {
		return 1.0
	}
	weight := math.Pow(2.0, -ageDays/DecayHalfLifeDays)
	weight = round3(weight)
	if weight < 0.3 {
		return 0.3
	}
	return weight
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// applyTemporalDecayAt multiplies each insight's confidence in place by the
// average temporal weight of the dated entries in its contributing sources,
// as of now.
func applyTemporalDecayAt(insights []types.DreamInsight, sources []types.MemorySource, now time.Time) {
	datesBySource := make(map[string][]string, len(sources))
	for _, s := range sources {
		var dates []string
		for _, e := range s.Entries {
			if e.Date != "" {
				dates = append(dates, e.Date)
			}
		}
		datesBySource[s.Name] = dates
	}

	for i := range insights {
		var weights []float64
		for _, srcName := range insights[i].Sources {
			dates := datesBySource[srcName]
			if len(dates) == 0 {
				continue
			}
			sum := 0.0
			for _, d := range dates {
				sum += temporalWeight(d, now)
			}
			weights = append(weights, sum/float64(len(dates)))
		}
		if len(weights) == 0 {
			continue
		}
		avg := 0.0
		for _, w := range weights {
			avg += w
		}
		avg /= float64(len(weights))
		insights[i].Confidence = round3(insights[i].Confidence * avg)
	}
}
