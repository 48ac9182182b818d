package dream

import (
	"fmt"
	"time"

	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

// insightToPheromone maps a dream insight category to the pheromone type
// emitted for it on the board.
var insightToPheromone = map[types.InsightCategory]types.PheromoneType{
	types.InsightTension:     types.PheromoneAlert,
	types.InsightOpportunity: types.PheromoneOpportunity,
	types.InsightConnection:  types.PheromoneProgress,
	types.InsightPattern:     types.PheromoneNeed,
}

// EmitToStigmergy converts insights into pheromones on b, deduplicating
// against already-active pheromone text, and returns the number emitted.
// The caller is responsible for persisting b afterward.
func EmitToStigmergy(b *stigmergy.Board, insights []types.DreamInsight) int {
	return emitToStigmergyAt(b, insights, time.Now())
}

func emitToStigmergyAt(b *stigmergy.Board, insights []types.DreamInsight, now time.Time) int {
	emitted := 0
	for _, ins := range insights {
		ptype, ok := insightToPheromone[ins.Category]
		if !ok {
			ptype = types.PheromoneNeed
		}
		location := "system/dream"
		if len(ins.Sources) > 0 {
			location = ins.Sources[0]
		}
		text := fmt.Sprintf("[dream] %s: %s", ins.Title, truncate(ins.Description, 200))

		intensity := ins.Confidence
		if intensity > 0.9 {
			intensity = 0.9
		}
		_, emittedOne := stigmergy.EmitDeduped(b, ptype, location, text, "dream-mode",
			[]string{"auto-dream", string(ins.Category)}, intensity, now)
		if emittedOne {
			emitted++
		}
	}
	return emitted
}
