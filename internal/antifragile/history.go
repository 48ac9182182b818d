package antifragile

import (
	"fmt"
	"strings"
	"time"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

// History is the persisted list of past antifragile runs, newest last.
type History struct {
	Runs []types.AntifragileResult `json:"runs"`
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

// Append appends result (with Timestamp stamped to now) to the history and
// persists it atomically.
func Append(path string, result types.AntifragileResult) (*History, error) {
	result.Timestamp = time.Now().UTC()
	h := LoadHistory(path)
	h.Runs = append(h.Runs, result)
	if err := memstore.WriteJSONAtomic(path, h); err != nil {
		return nil, err
	}
	return h, nil
}

// RenderTrend renders a Markdown table of composite score and level across
// runs, with deltas between adjacent runs.
func RenderTrend(h *History) string {
	if len(h.Runs) == 0 {
		return "no antifragile history yet\n"
	}
	var b strings.Builder
	b.WriteString("| Timestamp | Composite | Level | Delta |\n")
	b.WriteString("|---|---|---|---|\n")
	var prev *types.AntifragileResult
	for i := range h.Runs {
		r := h.Runs[i]
		delta := "-"
		if prev != nil {
			d := r.Composite - prev.Composite
			delta = fmt.Sprintf("%+.1f", d)
		}
		fmt.Fprintf(&b, "| %s | %.1f | %s | %s |\n", r.Timestamp.Format("2006-01-02 15:04"), r.Composite, r.Level, delta)
		prev = &h.Runs[i]
	}
	return b.String()
}
