// Package dream implements off-session consolidation: it re-reads every
// memory source the collector exposes and produces cross-source insights
// (connections, recurring patterns, tensions, opportunities) that no single
// source reveals on its own.
//
// Grounded on _examples/original_source/framework/tools/dream.py: the pass
// structure, thresholds, temporal decay, dream-memory persistence and
// journal rendering are all carried over as package-level functions (Run
// over a project root, RunOver over already-collected sources) plus
// explicit load/save helpers for the dream memory and journal.
package dream

import (
	"sort"
	"time"

	"coordination-layer/internal/collector"
	"coordination-layer/internal/obs"
	"coordination-layer/internal/similarity"
	"coordination-layer/internal/types"
)

var log = obs.Component("dream")

const (
	// MaxInsights caps a full dream run.
	MaxInsights = 12
	// QuickMaxInsights caps a quick dream run.
	QuickMaxInsights = 5
	// MinSources is the minimum distinct-source count for a recurring-pattern insight.
	MinSources = 2
	// DuplicateThreshold is the description-similarity above which two insights are merged.
	DuplicateThreshold = 0.7
	// ConnectionThreshold is the entry-similarity required to report a cross-source connection.
	ConnectionThreshold = 0.6
	// TensionThreshold is the lower similarity bar used when crossing positive/negative markers.
	TensionThreshold = 0.3
)

// Options controls one dream run.
type Options struct {
	Since       string
	AgentFilter string
	Quick       bool // skip O(n^2) cross-connections and tensions
	Validate    bool
}

// Run collects sources under root and returns the ranked, deduplicated,
// capped insight list for one dream cycle.
func Run(root string, opt Options) []types.DreamInsight {
	sources := collector.CollectSources(root, collector.Filter{Since: opt.Since, AgentFilter: opt.AgentFilter})
	return RunOver(sources, opt)
}

// RunOver runs the dream passes over pre-collected sources, avoiding a
// second filesystem walk when the caller already has them (mirrors
// dream.py's _sources pass-through used by the CLI).
func RunOver(sources []types.MemorySource, opt Options) []types.DreamInsight {
	return runOverAt(sources, opt, time.Now())
}

func runOverAt(sources []types.MemorySource, opt Options, now time.Time) []types.DreamInsight {
	if len(sources) == 0 {
		return nil
	}

	var insights []types.DreamInsight
	if !opt.Quick {
		insights = append(insights, findCrossConnections(sources)...)
	}
	insights = append(insights, findRecurringPatterns(sources)...)
	if !opt.Quick {
		insights = append(insights, findTensions(sources)...)
	}
	insights = append(insights, findOpportunities(sources)...)

	if opt.Validate {
		insights = filterValid(insights, sources)
	}

	applyTemporalDecayAt(insights, sources, now)
	insights = deduplicate(insights)

	sort.SliceStable(insights, func(i, j int) bool { return insights[i].Confidence > insights[j].Confidence })

	cap := MaxInsights
	if opt.Quick {
		cap = QuickMaxInsights
	}
	if len(insights) > cap {
		log.Debugw("dream insights truncated", "total", len(insights), "cap", cap)
		insights = insights[:cap]
	}
	return insights
}

func filterValid(insights []types.DreamInsight, sources []types.MemorySource) []types.DreamInsight {
	names := make(map[string]bool, len(sources))
	for _, s := range sources {
		names[s.Name] = true
	}
	var out []types.DreamInsight
	for _, ins := range insights {
		if validate(ins, names) {
			out = append(out, ins)
		}
	}
	return out
}

// validate rejects insights that aren't anchored in the collected sources:
// no sources, an unknown source name, non-positive confidence, or a
// too-short description.
func validate(ins types.DreamInsight, sourceNames map[string]bool) bool {
	if len(ins.Sources) == 0 {
		return false
	}
	for _, s := range ins.Sources {
		if !sourceNames[s] {
			return false
		}
	}
	if ins.Confidence <= 0 {
		return false
	}
	if len(ins.Description) < 10 {
		return false
	}
	return true
}

// deduplicate drops insights whose description is too similar to one
// already kept, preferring the higher-confidence one (mirrors
// deduplicate_insights in dream.py).
func deduplicate(insights []types.DreamInsight) []types.DreamInsight {
	var unique []types.DreamInsight
	for _, ins := range insights {
		dupeAt := -1
		for i, existing := range unique {
			if similarity.Jaccard(ins.Description, existing.Description) > DuplicateThreshold {
				dupeAt = i
				break
			}
		}
		if dupeAt == -1 {
			unique = append(unique, ins)
			continue
		}
		if ins.Confidence > unique[dupeAt].Confidence {
			unique[dupeAt] = ins
		}
	}
	return unique
}
