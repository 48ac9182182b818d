package darwinism

import (
	"fmt"

	"coordination-layer/internal/types"
)

// ProposeActions computes one EvolutionAction per agent score in the
// current generation, cross-referencing the ELITE agents to pick
// HYBRIDIZE partners for FRAGILE agents. hist is optional (nil is fine) and,
// when present, is used to tell an agent that declined into OBSOLETE from a
// prior composite above 20 apart from one that has simply always been low.
func ProposeActions(scores []types.FitnessScore, hist *History) []*types.EvolutionAction {
	// elites indexes, per dimension, the elite agent strongest in it — the
	// hybridize pairing candidate for a fragile agent weak in that dimension.
	elites := map[string]types.FitnessScore{}
	for _, s := range scores {
		if s.Level != types.LevelElite {
			continue
		}
		best := bestDimension(s.Dimensions)
		elites[best] = s
	}

	var actions []*types.EvolutionAction
	for _, s := range scores {
		switch s.Level {
		case types.LevelElite:
			actions = append(actions, &types.EvolutionAction{
				AgentID: s.AgentID,
				Action:  types.ActionPromote,
				Reason:  "composite fitness elite tier",
				Detail:  fmt.Sprintf("composite %.1f; replicate this agent's patterns", s.Composite),
			})
		case types.LevelViable:
			weak, weakScore := weakestDimension(s.Dimensions)
			actions = append(actions, &types.EvolutionAction{
				AgentID: s.AgentID,
				Action:  types.ActionObserve,
				Reason:  fmt.Sprintf("viable; weakest dimension %s (%.1f)", weak, weakScore),
				Detail:  "continue observing before any structural change",
			})
		case types.LevelFragile:
			weak, _ := weakestDimension(s.Dimensions)
			if partner, ok := elites[weak]; ok {
				actions = append(actions, &types.EvolutionAction{
					AgentID:      s.AgentID,
					Action:       types.ActionHybridize,
					Reason:       fmt.Sprintf("fragile in %s; elite %s is strong there", weak, partner.AgentID),
					Detail:       fmt.Sprintf("hybridize with %s to shore up %s", partner.AgentID, weak),
					SourceAgents: []string{partner.AgentID},
				})
			} else {
				actions = append(actions, &types.EvolutionAction{
					AgentID: s.AgentID,
					Action:  types.ActionImprove,
					Reason:  fmt.Sprintf("fragile in %s; no elite available to hybridize with", weak),
					Detail:  "targeted improvement on the weakest dimension",
				})
			}
		default: // Obsolete
			reason := "composite below viable threshold"
			if hist != nil {
				if prev := previousComposite(hist, s.AgentID); prev > 20 {
					reason = fmt.Sprintf("declining from %.1f into obsolete territory", prev)
				}
			}
			actions = append(actions, &types.EvolutionAction{
				AgentID: s.AgentID,
				Action:  types.ActionDeprecate,
				Reason:  reason,
				Detail:  fmt.Sprintf("composite %.1f", s.Composite),
			})
		}
	}
	return actions
}

func bestDimension(d types.FitnessDimensions) string {
	vals := map[string]float64{
		"reliability": d.Reliability, "productivity": d.Productivity,
		"learning": d.Learning, "adaptability": d.Adaptability,
		"resilience": d.Resilience, "influence": d.Influence,
	}
	name, best := "", -1.0
	for k, v := range vals {
		if v > best {
			name, best = k, v
		}
	}
	return name
}
