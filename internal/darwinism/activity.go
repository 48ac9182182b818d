package darwinism

import "coordination-layer/internal/types"

// BuildActivity aggregates per-agent AgentActivity from collected memory
// sources. Agent attribution follows MemEntry.Agent (filename or tagged
// section author); entries with no agent are skipped since fitness is
// defined per-agent. AC pass/fail counts aren't observable from memory
// text alone, so ACTotal stays 0 and reliability falls back to its
// documented no-data baseline for every agent built this way.
func BuildActivity(sources []types.MemorySource) map[string]*AgentActivity {
	out := map[string]*AgentActivity{}
	get := func(agent string) *AgentActivity {
		a, ok := out[agent]
		if !ok {
			a = &AgentActivity{AgentID: agent}
			out[agent] = a
		}
		return a
	}

	for _, src := range sources {
		for _, e := range src.Entries {
			if e.Agent == "" {
				continue
			}
			a := get(e.Agent)
			switch src.Kind {
			case types.SourceLearnings:
				a.ExternalLearnings++
			case types.SourceDecisions:
				a.Decisions++
			case types.SourceFailureMuseum:
				a.Failures++
				if hasTag(e.Tags, "RECURRING") {
					a.RecurringFailures++
				}
			case types.SourceTrace:
				if hasTag(e.Tags, "LEARNING") {
					a.InTraceLearnings++
				}
				if hasTag(e.Tags, "DECISION") {
					a.Decisions++
				}
				if hasTag(e.Tags, "CHECKPOINT") {
					a.Checkpoints++
				}
				if hasTag(e.Tags, "STORY") {
					a.StoriesTouched++
				}
			}
		}
	}
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
