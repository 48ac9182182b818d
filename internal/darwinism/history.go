package darwinism

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

// History is the persisted sequence of generation records, newest last.
type History struct {
	Records []types.GenerationRecord `json:"records"`
}

// LoadHistory reads path, defaulting to an empty history when missing or
// malformed.
func LoadHistory(path string) *History {
	h := &History{}
	found, err := memstore.ReadJSON(path, h)
	if err != nil || !found {
		return &History{}
	}
	return h
}

// NextGeneration returns the next monotonic generation number given the
// history so far.
func (h *History) NextGeneration() int {
	if len(h.Records) == 0 {
		return 1
	}
	return h.Records[len(h.Records)-1].Generation + 1
}

// AppendGeneration builds and appends a GenerationRecord for one evaluation
// pass, persisting it unless dryRun is set.
func AppendGeneration(path string, scores []types.FitnessScore, actions []*types.EvolutionAction, dryRun bool) (*types.GenerationRecord, error) {
	h := LoadHistory(path)
	gen := h.NextGeneration()

	scorePtrs := make([]*types.FitnessScore, len(scores))
	for i := range scores {
		scores[i].Generation = gen
		scores[i].EvaluatedAt = time.Now().UTC()
		scorePtrs[i] = &scores[i]
	}

	record := types.GenerationRecord{
		Generation: gen,
		Timestamp:  time.Now().UTC(),
		Scores:     scorePtrs,
		Actions:    actions,
		Summary:    summarizeGeneration(scores, actions),
	}

	if dryRun {
		return &record, nil
	}
	h.Records = append(h.Records, record)
	if err := memstore.WriteJSONAtomic(path, h); err != nil {
		return nil, err
	}
	return &record, nil
}

func summarizeGeneration(scores []types.FitnessScore, actions []*types.EvolutionAction) string {
	counts := map[types.EvolutionActionKind]int{}
	for _, a := range actions {
		counts[a.Action]++
	}
	return fmt.Sprintf("generation over %d agents: %d promote, %d observe, %d hybridize, %d improve, %d deprecate",
		len(scores), counts[types.ActionPromote], counts[types.ActionObserve],
		counts[types.ActionHybridize], counts[types.ActionImprove], counts[types.ActionDeprecate])
}

// TrendDelta reports, per agent, the composite fitness delta between this
// generation and the previous one recorded in the history (0 if the agent
// is new or there's no prior generation). MeanCompositeTrend gives the
// mean-of-deltas summary across all agents.
func TrendDelta(h *History, agentID string) float64 {
	if len(h.Records) < 2 {
		return 0
	}
	prev := h.Records[len(h.Records)-2]
	cur := h.Records[len(h.Records)-1]
	var prevScore, curScore float64
	foundPrev, foundCur := false, false
	for _, s := range prev.Scores {
		if s.AgentID == agentID {
			prevScore = s.Composite
			foundPrev = true
		}
	}
	for _, s := range cur.Scores {
		if s.AgentID == agentID {
			curScore = s.Composite
			foundCur = true
		}
	}
	if !foundPrev || !foundCur {
		return 0
	}
	return curScore - prevScore
}

// previousComposite returns agentID's composite score in the most recent
// generation recorded (the one before the generation being evaluated, since
// ProposeActions runs before AppendGeneration), or -1 if there isn't one.
func previousComposite(h *History, agentID string) float64 {
	if len(h.Records) < 1 {
		return -1
	}
	prev := h.Records[len(h.Records)-1]
	for _, s := range prev.Scores {
		if s.AgentID == agentID {
			return s.Composite
		}
	}
	return -1
}

// MeanCompositeTrend returns the mean composite-fitness delta across all
// agents present in both the last two generations.
func MeanCompositeTrend(h *History) float64 {
	if len(h.Records) < 2 {
		return 0
	}
	prev := h.Records[len(h.Records)-2]
	cur := h.Records[len(h.Records)-1]
	prevByAgent := map[string]float64{}
	for _, s := range prev.Scores {
		prevByAgent[s.AgentID] = s.Composite
	}
	var deltas []float64
	for _, s := range cur.Scores {
		if p, ok := prevByAgent[s.AgentID]; ok {
			deltas = append(deltas, s.Composite-p)
		}
	}
	if len(deltas) == 0 {
		return 0
	}
	return stat.Mean(deltas, nil)
}
