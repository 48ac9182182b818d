// Package stigmergy implements the pheromone board: typed, decaying,
// amplifiable coordination signals agents drop in the environment and
// sense from each other, plus the trail analyzer that detects emergent
// coordination patterns over the board.
//
// Grounded on the teacher's internal/storage.MemoryStorage idiom (load the
// whole container, mutate, persist the whole container back) generalized
// from an in-memory map to a JSON-file-backed board via internal/memstore.
package stigmergy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

const (
	Version = "1.0.0"

	// DefaultHalfLifeHours is the board's default signal half-life (3 days).
	DefaultHalfLifeHours = 72.0
	// DetectionThreshold is the intensity below which a pheromone is
	// considered evaporated / invisible to sense.
	DetectionThreshold = 0.05
	// ReinforcementBoost is the intensity added per amplification.
	ReinforcementBoost = 0.2
	// MaxIntensity is the clamp ceiling for intensity.
	MaxIntensity = 1.0
	// DefaultIntensity is used by emit callers that don't specify one.
	DefaultIntensity = 0.7
)

// Board wraps a types.PheromoneBoard loaded from (and persisted to) one
// project's pheromone-board.json.
type Board struct {
	*types.PheromoneBoard
}

// NewBoard returns an empty board at the default half-life.
func NewBoard() *Board {
	return &Board{&types.PheromoneBoard{
		Version:       Version,
		HalfLifeHours: DefaultHalfLifeHours,
	}}
}

// Load reads the board at path, defaulting to a fresh board when the file
// is missing or malformed — pheromone board corruption is never fatal.
func Load(path string) (*Board, error) {
	b := NewBoard()
	found, err := memstore.ReadJSON(path, b.PheromoneBoard)
	if err != nil {
		// Malformed JSON degrades to an empty board per the "never fatal"
		// collector/loader contract.
		return NewBoard(), nil
	}
	if !found {
		return b, nil
	}
	if b.HalfLifeHours <= 0 {
		b.HalfLifeHours = DefaultHalfLifeHours
	}
	return b, nil
}

// Save persists the board to path atomically.
func (b *Board) Save(path string) error {
	return memstore.WriteJSONAtomic(path, b.PheromoneBoard)
}

// GenerateID computes the deterministic pheromone id: sha256 of
// type+location+text+timestamp, first 8 hex chars, prefixed "PH-".
func GenerateID(ptype types.PheromoneType, location, text, timestamp string) string {
	raw := fmt.Sprintf("%s:%s:%s:%s", ptype, location, text, timestamp)
	sum := sha256.Sum256([]byte(raw))
	return "PH-" + hex.EncodeToString(sum[:])[:8]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// Emit deposits a new pheromone on the board and returns it.
func (b *Board) Emit(ptype types.PheromoneType, location, text, emitter string, tags []string, intensity float64) *types.Pheromone {
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339Nano)
	p := &types.Pheromone{
		ID:        GenerateID(ptype, location, text, ts),
		Type:      ptype,
		Location:  location,
		Text:      text,
		Emitter:   emitter,
		Timestamp: now,
		Intensity: clamp01(intensity),
		Tags:      append([]string(nil), tags...),
	}
	b.Pheromones = append(b.Pheromones, p)
	b.TotalEmitted++
	return p
}

// Amplify reinforces an existing pheromone at the given reference time: the
// pheromone's *current* intensity at now (i.e. after whatever decay has
// already happened since it was emitted) is boosted by ReinforcementBoost
// and clamped to 1.0; that boosted value becomes the new base intensity,
// while the original emission timestamp is left untouched so later decay
// continues along the same half-life curve from that timestamp. This keeps
// the invariant that only Amplify — never evaporation — mutates the base
// intensity, while still letting reinforcement reflect what the signal
// actually looks like right now rather than re-boosting a stale base.
// Reinforcement count is incremented and agent unioned into ReinforcedBy
// (deduplicated). Returns nil if the id is unknown.
func (b *Board) Amplify(id, agent string, now time.Time) *types.Pheromone {
	for _, p := range b.Pheromones {
		if p.ID != id {
			continue
		}
		current := CurrentIntensity(p, b.HalfLifeHours, now)
		p.Intensity = clamp01(current + ReinforcementBoost)
		p.Reinforcements++
		found := false
		for _, a := range p.ReinforcedBy {
			if a == agent {
				found = true
				break
			}
		}
		if !found {
			p.ReinforcedBy = append(p.ReinforcedBy, agent)
		}
		return p
	}
	return nil
}

// Resolve marks a pheromone resolved without removing it. Returns nil if
// the id is unknown.
func (b *Board) Resolve(id, agent string) *types.Pheromone {
	for _, p := range b.Pheromones {
		if p.ID != id {
			continue
		}
		p.Resolved = true
		p.ResolvedBy = agent
		now := time.Now().UTC()
		p.ResolvedAt = &now
		return p
	}
	return nil
}

// CurrentIntensity computes current = base × 0.5^(age_hours/half_life), with
// age_hours = max(0, now - timestamp). Invalid or future timestamps return
// the base intensity unchanged.
func CurrentIntensity(p *types.Pheromone, halfLifeHours float64, now time.Time) float64 {
	if p.Timestamp.IsZero() {
		return p.Intensity
	}
	ageHours := now.Sub(p.Timestamp).Hours()
	if ageHours <= 0 {
		return p.Intensity
	}
	if halfLifeHours <= 0 {
		halfLifeHours = DefaultHalfLifeHours
	}
	decay := math.Pow(0.5, ageHours/halfLifeHours)
	return p.Intensity * decay
}

// SenseFilter narrows the result of Sense.
type SenseFilter struct {
	Type            types.PheromoneType
	Location        string
	Tag             string
	Emitter         string
	IncludeResolved bool
}

// Sensed pairs a pheromone with its current intensity at sense time.
type Sensed struct {
	Pheromone *types.Pheromone
	Intensity float64
}

// Sense returns active pheromones (current intensity >= threshold),
// optionally including resolved ones, filtered by type/location/tag/emitter
// (location and tag matches are case-insensitive substring), sorted by
// current intensity descending.
func (b *Board) Sense(f SenseFilter, now time.Time) []Sensed {
	var out []Sensed
	for _, p := range b.Pheromones {
		if !f.IncludeResolved && p.Resolved {
			continue
		}
		current := CurrentIntensity(p, b.HalfLifeHours, now)
		if current < DetectionThreshold {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.Tag != "" {
			matched := false
			for _, t := range p.Tags {
				if strings.EqualFold(t, f.Tag) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if f.Emitter != "" && !strings.EqualFold(p.Emitter, f.Emitter) {
			continue
		}
		out = append(out, Sensed{Pheromone: p, Intensity: current})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Intensity > out[j].Intensity })
	return out
}

// Evaporate drops every pheromone whose current intensity is below the
// detection threshold or that is resolved, incrementing TotalEvaporated by
// the number dropped. Calling Evaporate twice with the same now is a no-op
// after the first call.
func (b *Board) Evaporate(now time.Time) int {
	var surviving []*types.Pheromone
	evaporated := 0
	for _, p := range b.Pheromones {
		current := CurrentIntensity(p, b.HalfLifeHours, now)
		if current >= DetectionThreshold && !p.Resolved {
			surviving = append(surviving, p)
		} else {
			evaporated++
		}
	}
	b.Pheromones = surviving
	b.TotalEvaporated += evaporated
	return evaporated
}

// HasActiveText reports whether an active (unresolved, above-threshold)
// pheromone with exactly this text already exists — used by EmitDeduped to
// implement cross-session dedup for the dream/lint stigmergy bridges.
func (b *Board) HasActiveText(text string, now time.Time) bool {
	for _, s := range b.Sense(SenseFilter{}, now) {
		if s.Pheromone.Text == text {
			return true
		}
	}
	return false
}

// EmitDeduped is the single shared entry point the dream engine and the
// memory linter both call to push a pheromone, implementing spec.md §9's
// "explicit import with identical contracts" design note: one function, no
// per-caller reimplementation of the dedup check.
func EmitDeduped(b *Board, ptype types.PheromoneType, location, text, emitter string, tags []string, intensity float64, now time.Time) (*types.Pheromone, bool) {
	if b.HasActiveText(text, now) {
		return nil, false
	}
	return b.Emit(ptype, location, text, emitter, tags, intensity), true
}
