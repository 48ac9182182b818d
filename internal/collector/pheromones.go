package collector

import (
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

// ParsePheromoneEntries reads the pheromone board and keeps only active
// (unresolved) pheromones, skipping those emitted by "dream-mode" unless
// they were ever reinforced — this breaks the dream -> stigmergy ->
// collector -> dream self-loop.
func ParsePheromoneEntries(layout memstore.Layout, f Filter) []types.MemEntry {
	board, err := stigmergy.Load(layout.PheromoneBoard())
	if err != nil {
		return nil
	}
	var out []types.MemEntry
	for _, p := range board.Pheromones {
		if p.Resolved {
			continue
		}
		if p.Emitter == "dream-mode" && len(p.ReinforcedBy) == 0 {
			continue
		}
		if !passesAgentFilter(p.Emitter, p.Tags, f.AgentFilter) {
			continue
		}
		date := p.Timestamp.Format("2006-01-02")
		if !passesSince(date, f.Since) {
			continue
		}
		out = append(out, types.MemEntry{
			Date:  date,
			Text:  p.Text,
			Agent: p.Emitter,
			Tags:  p.Tags,
		})
	}
	return out
}
