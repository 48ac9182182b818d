package dream

import (
	"fmt"
	"strings"

	"coordination-layer/internal/types"
)

var opportunityMarkers = []string{
	"todo", "à améliorer", "a ameliorer", "could be better", "improvement", "optimiser",
	"refactorer", "simplifier", "automatiser", "manque", "missing",
	"pas encore", "not yet", "futur", "future", "éventuellement", "eventuellement",
}

// findOpportunities flags entries that name an unexploited improvement —
// one insight per entry, first matching marker wins.
func findOpportunities(sources []types.MemorySource) []types.DreamInsight {
	var insights []types.DreamInsight
	for _, src := range sources {
		for _, e := range src.Entries {
			lower := strings.ToLower(e.Text)
			for _, marker := range opportunityMarkers {
				if !strings.Contains(lower, marker) {
					continue
				}
				insights = append(insights, types.DreamInsight{
					Title:       fmt.Sprintf("Opportunity in %s", src.Name),
					Description: fmt.Sprintf("Improvement signal: %s", truncate(e.Text, 150)),
					Sources:     []string{src.Name},
					Category:    types.InsightOpportunity,
					Confidence:  0.5,
					Actionable:  true,
				})
				break
			}
		}
	}
	return insights
}
