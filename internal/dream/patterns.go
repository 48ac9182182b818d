package dream

import (
	"fmt"
	"sort"
	"strings"

	"coordination-layer/internal/similarity"
	"coordination-layer/internal/types"
)

// findRecurringPatterns indexes every entry's keywords globally and reports
// one insight per keyword that shows up in at least MinSources distinct
// sources and at least 3 total occurrences.
func findRecurringPatterns(sources []types.MemorySource) []types.DreamInsight {
	type occurrence struct {
		source string
		entry  string
	}
	occurrences := map[string][]occurrence{}

	for _, src := range sources {
		for _, e := range src.Entries {
			for kw := range similarity.Keywords(e.Text) {
				occurrences[kw] = append(occurrences[kw], occurrence{source: src.Name, entry: e.Text})
			}
		}
	}

	// Deterministic iteration order for reproducible insight ordering before
	// the confidence sort in Run.
	keywords := make([]string, 0, len(occurrences))
	for kw := range occurrences {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	var insights []types.DreamInsight
	for _, kw := range keywords {
		occs := occurrences[kw]
		if len(occs) < 3 {
			continue
		}
		uniqueSources := map[string]bool{}
		for _, o := range occs {
			uniqueSources[o.source] = true
		}
		if len(uniqueSources) < MinSources {
			continue
		}
		srcNames := make([]string, 0, len(uniqueSources))
		for s := range uniqueSources {
			srcNames = append(srcNames, s)
		}
		sort.Strings(srcNames)

		sampleN := len(occs)
		if sampleN > 3 {
			sampleN = 3
		}
		var samples []string
		for _, o := range occs[:sampleN] {
			samples = append(samples, "  - "+truncate(o.entry, 100))
		}

		confidence := 0.3 + 0.1*float64(len(uniqueSources))
		if confidence > 0.9 {
			confidence = 0.9
		}

		insights = append(insights, types.DreamInsight{
			Title: fmt.Sprintf("Recurring pattern: %q", kw),
			Description: fmt.Sprintf(
				"The term %q appears in %d sources (%d occurrences):\n%s",
				kw, len(uniqueSources), len(occs), strings.Join(samples, "\n"),
			),
			Sources:    srcNames,
			Category:   types.InsightPattern,
			Confidence: round2(confidence),
		})
	}
	return insights
}
