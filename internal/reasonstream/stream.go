// Package reasonstream implements the append-only reasoning stream: a
// JSONL log of typed inference steps (hypothesis/doubt/reasoning/
// assumption/alternative) that agents append to as they work, with a status
// lifecycle and chain tracking via related_to.
//
// Deliberately a new package rather than an addition to internal/reasoning:
// that package holds the teacher's abductive/analogical/case-based/causal/
// probabilistic reasoning ENGINES (a different concept — computing new
// inferences), whereas this is a plain audit log of inference steps already
// made. Grounded on internal/memstore's JSONL append/read idiom (itself
// generalized from the teacher's storage.Storage read/mutate/persist
// pattern) rather than on internal/reasoning.
package reasonstream

import (
	"encoding/json"
	"time"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/obs"
	"coordination-layer/internal/types"
)

var log = obs.Component("reasonstream")

// Log appends one reasoning entry to path, stamping Timestamp (RFC3339Nano,
// unique enough to serve as the entry's identity for UpdateStatus) and
// Status (RStatusOpen) when unset.
func Log(path string, entry types.ReasoningEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if entry.Status == "" {
		entry.Status = types.RStatusOpen
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return memstore.AppendLine(path, string(raw))
}

// ReadAll parses every line of the stream into entries, skipping (and
// logging) any malformed line rather than failing the whole read.
func ReadAll(path string) ([]types.ReasoningEntry, error) {
	lines, err := memstore.ReadLines(path)
	if err != nil {
		return nil, err
	}
	entries := make([]types.ReasoningEntry, 0, len(lines))
	for i, line := range lines {
		var e types.ReasoningEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			log.Debugw("skipping malformed reasoning-stream line", "line", i, "err", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// UpdateStatus rewrites the stream, setting status on the entry whose
// Timestamp matches ts. Returns whether a match was found.
func UpdateStatus(path, ts string, status types.ReasoningStatus) (bool, error) {
	entries, err := ReadAll(path)
	if err != nil {
		return false, err
	}
	found := false
	for i := range entries {
		if entries[i].Timestamp == ts {
			entries[i].Status = status
			found = true
		}
	}
	if !found {
		return false, nil
	}
	return true, rewrite(path, entries)
}

func rewrite(path string, entries []types.ReasoningEntry) error {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		lines = append(lines, string(raw))
	}
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	return memstore.WriteFileAtomic(path, []byte(content))
}

// Chain returns the entry at ts plus every entry reachable by following
// RelatedTo links forward (entries that name ts as their related_to) and
// backward (the entry ts's related_to points to, recursively), in
// chronological order.
func Chain(entries []types.ReasoningEntry, ts string) []types.ReasoningEntry {
	byTs := make(map[string]types.ReasoningEntry, len(entries))
	for _, e := range entries {
		byTs[e.Timestamp] = e
	}
	include := map[string]bool{}

	var walkBack func(string)
	walkBack = func(t string) {
		if include[t] {
			return
		}
		e, ok := byTs[t]
		if !ok {
			return
		}
		include[t] = true
		if e.RelatedTo != "" {
			walkBack(e.RelatedTo)
		}
	}
	walkBack(ts)

	changed := true
	for changed {
		changed = false
		for _, e := range entries {
			if e.RelatedTo != "" && include[e.RelatedTo] && !include[e.Timestamp] {
				include[e.Timestamp] = true
				changed = true
			}
		}
	}

	var out []types.ReasoningEntry
	for _, e := range entries {
		if include[e.Timestamp] {
			out = append(out, e)
		}
	}
	return out
}
