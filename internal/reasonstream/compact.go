package reasonstream

import (
	"fmt"
	"sort"
	"strings"

	"coordination-layer/internal/types"
)

// Stats summarizes a stream by type and status, the analyze-mode output.
type Stats struct {
	Total      int
	ByType     map[types.ReasoningType]int
	ByStatus   map[types.ReasoningStatus]int
	OpenCount  int
	ChainCount int // entries that are part of a related_to chain
}

// Analyze computes summary statistics over a reasoning stream.
func Analyze(entries []types.ReasoningEntry) Stats {
	s := Stats{
		ByType:   map[types.ReasoningType]int{},
		ByStatus: map[types.ReasoningStatus]int{},
	}
	for _, e := range entries {
		s.Total++
		s.ByType[e.Type]++
		s.ByStatus[e.Status]++
		if e.Status == types.RStatusOpen {
			s.OpenCount++
		}
		if e.RelatedTo != "" {
			s.ChainCount++
		}
	}
	return s
}

// Compact renders a Markdown summary grouping entries by status, newest
// first within each group — the compacted view written to
// reasoning-stream-compacted.md so an agent can skim a long stream quickly.
func Compact(entries []types.ReasoningEntry) string {
	order := []types.ReasoningStatus{types.RStatusOpen, types.RStatusValidated, types.RStatusInvalid, types.RStatusAbandoned}
	byStatus := map[types.ReasoningStatus][]types.ReasoningEntry{}
	for _, e := range entries {
		byStatus[e.Status] = append(byStatus[e.Status], e)
	}

	var b strings.Builder
	b.WriteString("# Reasoning Stream (compacted)\n\n")
	for _, status := range order {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].Timestamp > group[j].Timestamp })
		fmt.Fprintf(&b, "## %s (%d)\n\n", status, len(group))
		for _, e := range group {
			fmt.Fprintf(&b, "- [%s] **%s** (%s, confidence %.2f): %s\n", e.Timestamp, e.Type, e.Agent, e.Confidence, e.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}
