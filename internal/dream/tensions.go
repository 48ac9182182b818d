package dream

import (
	"fmt"
	"strings"

	"coordination-layer/internal/similarity"
	"coordination-layer/internal/types"
)

// tensionMarkers flags entries that assert a strong rule ("positive") versus
// entries that warn against something ("negative"). A handful of words
// ("never"/"jamais") appear on both sides on purpose: "never skip review" is
// an obligation, "never succeeds, avoid it" is a warning, and only the
// cross-entry similarity check below decides whether the pairing is a real
// tension.
var tensionMarkers = map[string][]string{
	"positive": {"toujours", "always", "must", "doit", "jamais", "never",
		"obligatoire", "required", "important", "critical"},
	"negative": {"eviter", "éviter", "avoid", "ne pas", "never", "jamais", "danger",
		"risque", "problème", "probleme", "echec", "échec", "fail", "broken", "cassé", "casse"},
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// findTensions crosses entries flagged as assertive ("always do X") against
// entries flagged as cautionary ("avoid X") from different sources and
// reports a tension wherever they're about the same subject.
func findTensions(sources []types.MemorySource) []types.DreamInsight {
	type flagged struct {
		source string
		text   string
	}
	var positives, negatives []flagged

	for _, src := range sources {
		for _, e := range src.Entries {
			lower := strings.ToLower(e.Text)
			if containsAny(lower, tensionMarkers["positive"]) {
				positives = append(positives, flagged{src.Name, e.Text})
			}
			if containsAny(lower, tensionMarkers["negative"]) {
				negatives = append(negatives, flagged{src.Name, e.Text})
			}
		}
	}

	var insights []types.DreamInsight
	for _, pos := range positives {
		for _, neg := range negatives {
			if pos.source == neg.source {
				continue
			}
			sim := similarity.Jaccard(pos.text, neg.text)
			if sim < TensionThreshold {
				continue
			}
			insights = append(insights, types.DreamInsight{
				Title: fmt.Sprintf("Tension detected between %s and %s", pos.source, neg.source),
				Description: fmt.Sprintf(
					"Possible contradiction on the same topic:\n  + [%s] %s\n  - [%s] %s",
					pos.source, truncate(pos.text, 120), neg.source, truncate(neg.text, 120),
				),
				Sources:    []string{pos.source, neg.source},
				Category:   types.InsightTension,
				Confidence: round2(sim + 0.1),
			})
		}
	}
	return insights
}
