package stigmergy

import (
	"fmt"
	"strings"
	"time"

	"coordination-layer/internal/types"
)

// AnalyzeTrails detects the five emergent coordination patterns over the
// board's *current* intensities, deduplicated by (kind, location).
func AnalyzeTrails(b *Board, now time.Time) []types.TrailPattern {
	type item struct {
		p   *types.Pheromone
		cur float64
	}
	byLocation := map[string][]item{}
	for _, p := range b.Pheromones {
		if p.Resolved {
			continue
		}
		cur := CurrentIntensity(p, b.HalfLifeHours, now)
		if cur >= DetectionThreshold {
			byLocation[p.Location] = append(byLocation[p.Location], item{p, cur})
		}
	}

	var patterns []types.TrailPattern

	for loc, items := range byLocation {
		agentSet := map[string]bool{}
		sum := 0.0
		for _, it := range items {
			agentSet[it.p.Emitter] = true
			sum += it.cur
		}
		avg := 0.0
		if len(items) > 0 {
			avg = sum / float64(len(items))
		}
		agents := make([]string, 0, len(agentSet))
		for a := range agentSet {
			agents = append(agents, a)
		}

		if len(items) >= 3 {
			patterns = append(patterns, types.TrailPattern{
				Kind:             types.TrailHotZone,
				Location:         loc,
				Description:      fmt.Sprintf("%d active signals — intense activity zone", len(items)),
				Agents:           agents,
				Count:            len(items),
				AverageIntensity: avg,
			})
		}

		if len(agentSet) >= 2 {
			patterns = append(patterns, types.TrailPattern{
				Kind:             types.TrailConvergence,
				Location:         loc,
				Description:      fmt.Sprintf("%d distinct agents converging on this zone", len(agentSet)),
				Agents:           agents,
				Count:            len(items),
				AverageIntensity: avg,
			})
		}

		var blocks []item
		for _, it := range items {
			if it.p.Type == types.PheromoneBlock {
				blocks = append(blocks, it)
			}
		}
		if len(blocks) >= 2 {
			blockAgents := make([]string, 0, len(blocks))
			for _, b := range blocks {
				blockAgents = append(blockAgents, b.p.Emitter)
			}
			patterns = append(patterns, types.TrailPattern{
				Kind:             types.TrailBottleneck,
				Location:         loc,
				Description:      fmt.Sprintf("%d blocks in this zone — potential bottleneck", len(blocks)),
				Agents:           blockAgents,
				Count:            len(blocks),
				AverageIntensity: avg,
			})
		}
	}

	// Cold zones: locations with >=1 resolved pheromone and 0 active.
	resolvedLocs := map[string]bool{}
	for _, p := range b.Pheromones {
		if p.Resolved {
			resolvedLocs[p.Location] = true
		}
	}
	for loc := range resolvedLocs {
		if _, active := byLocation[loc]; !active {
			patterns = append(patterns, types.TrailPattern{
				Kind:        types.TrailColdZone,
				Location:    loc,
				Description: "Previously active zone, now silent",
			})
		}
	}

	// Relay: a (possibly resolved) COMPLETE co-occurs with an active
	// NEED/PROGRESS by a different emitter at the same location.
	completes := b.Sense(SenseFilter{Type: types.PheromoneComplete, IncludeResolved: true}, now)
	for _, cs := range completes {
		cp := cs.Pheromone
		for _, p := range b.Pheromones {
			if p.ID == cp.ID || p.Location != cp.Location || p.Emitter == cp.Emitter || p.Resolved {
				continue
			}
			if p.Type != types.PheromoneNeed && p.Type != types.PheromoneProgress {
				continue
			}
			cur := CurrentIntensity(p, b.HalfLifeHours, now)
			if cur < DetectionThreshold {
				continue
			}
			patterns = append(patterns, types.TrailPattern{
				Kind:             types.TrailRelay,
				Location:         cp.Location,
				Description:      fmt.Sprintf("Relay: %s -> %s (complete -> %s)", cp.Emitter, p.Emitter, strings.ToLower(string(p.Type))),
				Agents:           []string{cp.Emitter, p.Emitter},
				Count:            2,
				AverageIntensity: cur,
			})
		}
	}

	// Dedup by (kind, location).
	seen := map[string]bool{}
	var unique []types.TrailPattern
	for _, pat := range patterns {
		key := string(pat.Kind) + ":" + pat.Location
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, pat)
	}
	return unique
}
