package dream

import (
	"fmt"

	"coordination-layer/internal/similarity"
	"coordination-layer/internal/types"
)

// findCrossConnections compares every pair of entries across sources of
// different kinds and reports a connection insight wherever their keyword
// similarity clears ConnectionThreshold.
func findCrossConnections(sources []types.MemorySource) []types.DreamInsight {
	var insights []types.DreamInsight
	for i := range sources {
		for j := range sources {
			if j <= i || sources[i].Kind == sources[j].Kind {
				continue
			}
			a, b := sources[i], sources[j]
			for _, ea := range a.Entries {
				for _, eb := range b.Entries {
					sim := similarity.Jaccard(ea.Text, eb.Text)
					if sim < ConnectionThreshold {
						continue
					}
					insights = append(insights, types.DreamInsight{
						Title: fmt.Sprintf("Connection %s <-> %s", a.Kind, b.Kind),
						Description: fmt.Sprintf(
							"Shared pattern between [%s] and [%s]:\n  - %s\n  - %s",
							a.Name, b.Name, truncate(ea.Text, 120), truncate(eb.Text, 120),
						),
						Sources:    []string{a.Name, b.Name},
						Category:   types.InsightConnection,
						Confidence: round2(sim),
					})
				}
			}
		}
	}
	return insights
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
