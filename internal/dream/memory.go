package dream

import (
	"regexp"
	"strings"
	"time"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

// PersistenceBoost is the confidence bonus applied to an insight seen again
// across consecutive dream runs.
const PersistenceBoost = 0.15

var sigNonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// signature returns a stable cross-session key for an insight: category
// plus normalized title. Minor description wording changes don't change it.
func signature(ins types.DreamInsight) string {
	norm := sigNonAlnum.ReplaceAllString(strings.ToLower(ins.Title), "")
	return string(ins.Category) + ":" + norm
}

// LoadMemory reads the dream-memory registry, defaulting to an empty one
// when missing or malformed.
func LoadMemory(path string) *types.DreamMemory {
	mem := &types.DreamMemory{Entries: map[string]*types.DreamMemoryEntry{}}
	found, err := memstore.ReadJSON(path, mem)
	if err != nil || !found {
		return &types.DreamMemory{Entries: map[string]*types.DreamMemoryEntry{}}
	}
	if mem.Entries == nil {
		mem.Entries = map[string]*types.DreamMemoryEntry{}
	}
	return mem
}

// SaveMemory persists the dream-memory registry atomically.
func SaveMemory(path string, mem *types.DreamMemory) error {
	return memstore.WriteJSONAtomic(path, mem)
}

// Diff classifies this run's insights against the dream-memory registry into
// new, persistent (seen before, confidence-boosted in place) and resolved
// (previously persistent, absent from this run). It mutates mem in place
// and boosts persistent insights' Confidence in place.
type Diff struct {
	New        []types.DreamInsight
	Persistent []types.DreamInsight
	Resolved   []string
}

// UpdateMemory applies one dream run's insights to mem and returns the diff.
func UpdateMemory(insights []types.DreamInsight, mem *types.DreamMemory) Diff {
	return updateMemoryAt(insights, mem, time.Now())
}

func updateMemoryAt(insights []types.DreamInsight, mem *types.DreamMemory, now time.Time) Diff {
	nowStr := now.Format("2006-01-02")
	seen := map[string]bool{}
	var diff Diff

	for i := range insights {
		ins := &insights[i]
		sig := signature(*ins)
		seen[sig] = true

		entry, known := mem.Entries[sig]
		if known {
			entry.SeenCount++
			entry.LastSeen = nowStr
			entry.LastConfidence = ins.Confidence
			entry.Stale = false
			ins.Confidence = round3(ins.Confidence + PersistenceBoost)
			if ins.Confidence > 1.0 {
				ins.Confidence = 1.0
			}
			diff.Persistent = append(diff.Persistent, *ins)
			continue
		}
		mem.Entries[sig] = &types.DreamMemoryEntry{
			Signature:      sig,
			Title:          ins.Title,
			Category:       ins.Category,
			FirstSeen:      nowStr,
			LastSeen:       nowStr,
			SeenCount:      1,
			LastConfidence: ins.Confidence,
		}
		diff.New = append(diff.New, *ins)
	}

	for sig, entry := range mem.Entries {
		if seen[sig] {
			continue
		}
		if entry.SeenCount >= 2 {
			diff.Resolved = append(diff.Resolved, sig)
		}
		entry.Stale = true
	}

	return diff
}
