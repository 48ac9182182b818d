// Package collector turns a project's on-disk memory tree into typed
// MemorySource streams: one source per known file, entries filtered by an
// optional since-date and agent/tag substring filter. Missing files yield
// empty streams; malformed lines are silently skipped — the collector never
// errors on corruption, per spec.md §4.1 and §7.
//
// Grounded on the teacher's internal/storage package for the
// read-then-typed-view idiom, generalized from an MCP thought store to a
// Markdown/JSON memory-tree reader.
package collector

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/obs"
	"coordination-layer/internal/types"
)

var log = obs.Component("collector")

// bulletRe matches "- [YYYY-MM-DD] text" or "- text" bullet lines, with or
// without a leading date.
var bulletRe = regexp.MustCompile(`^[-*]\s*(?:\[(\d{4}-\d{2}-\d{2})\]\s*)?(.+)$`)

// failureHeaderRe matches "### [YYYY-MM-DD] CATEGORY — headline".
var failureHeaderRe = regexp.MustCompile(`^###\s*\[(\d{4}-\d{2}-\d{2})\]\s*([A-Z-]+)\s*[—-]\s*(.+)$`)

// traceHeaderRe matches "## date | agent | story" section headers.
var traceHeaderRe = regexp.MustCompile(`^##\s*(\d{4}-\d{2}-\d{2})(?:\s+\d{2}:\d{2})?\s*\|\s*([^|]+)\|\s*(.+)$`)

// traceEventRe matches "[timestamp] [LEVEL] [agent] payload".
var traceEventRe = regexp.MustCompile(`^\[([^\]]+)\]\s*\[([^\]]+)\]\s*\[([^\]]+)\]\s*(.*)$`)

// Filter narrows which entries CollectSources returns.
type Filter struct {
	Since       string // ISO-8601 date; entries with an earlier date are dropped. Empty = no filter.
	AgentFilter string // substring match on agent filename/tag
}

// passesSince reports whether date (possibly empty) passes the since
// filter. Undated entries always pass.
func passesSince(date, since string) bool {
	if since == "" || date == "" {
		return true
	}
	return date >= since
}

func passesAgentFilter(name string, tags []string, filter string) bool {
	if filter == "" {
		return true
	}
	f := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(name), f) {
		return true
	}
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), f) {
			return true
		}
	}
	return false
}

// CollectSources parses every known memory file under root, applying the
// since-date and agent filters, and returns only sources containing at
// least one entry.
func CollectSources(root string, f Filter) []types.MemorySource {
	layout := memstore.NewLayout(root)
	var out []types.MemorySource

	if src := collectLearnings(layout, f); len(src) > 0 {
		out = append(out, src...)
	}
	if src, ok := collectBulletFile(layout.DecisionsLog(), "decisions-log", types.SourceDecisions, f); ok {
		out = append(out, src)
	}
	if src, ok := collectFailureMuseum(layout.FailureMuseum(), f); ok {
		out = append(out, src)
	}
	if src, ok := collectContradictionLog(layout.ContradictionLog(), f); ok {
		out = append(out, src)
	}
	if src, ok := collectSharedContext(layout.SharedContext(), f); ok {
		out = append(out, src)
	}
	if src, ok := collectTrace(layout.Trace(), f); ok {
		out = append(out, src)
	}
	if src, ok := collectStigmergy(layout, f); ok {
		out = append(out, src)
	}

	return out
}

func collectLearnings(layout memstore.Layout, f Filter) []types.MemorySource {
	dir := layout.AgentLearningsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []types.MemorySource
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		agent := strings.TrimSuffix(de.Name(), ".md")
		if !passesAgentFilter(agent, nil, f.AgentFilter) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		lines, err := memstore.ReadLines(path)
		if err != nil {
			log.Debugw("degraded reading agent learnings", "path", path, "err", err)
			continue
		}
		var mentries []types.MemEntry
		for _, line := range lines {
			m := bulletRe.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			date, text := m[1], strings.TrimSpace(m[2])
			if text == "" || !passesSince(date, f.Since) {
				continue
			}
			mentries = append(mentries, types.MemEntry{Date: date, Text: text, Agent: agent})
		}
		if len(mentries) > 0 {
			out = append(out, types.MemorySource{
				Name:    "agent-learnings/" + agent,
				Kind:    types.SourceLearnings,
				Entries: mentries,
			})
		}
	}
	return out
}

func collectBulletFile(path, name string, kind types.SourceKind, f Filter) (types.MemorySource, bool) {
	lines, err := memstore.ReadLines(path)
	if err != nil || len(lines) == 0 {
		return types.MemorySource{}, false
	}
	if !passesAgentFilter(name, nil, f.AgentFilter) {
		return types.MemorySource{}, false
	}
	var mentries []types.MemEntry
	for _, line := range lines {
		m := bulletRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		date, text := m[1], strings.TrimSpace(m[2])
		if text == "" || !passesSince(date, f.Since) {
			continue
		}
		mentries = append(mentries, types.MemEntry{Date: date, Text: text})
	}
	if len(mentries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: name, Kind: kind, Entries: mentries}, true
}

func collectFailureMuseum(path string, f Filter) (types.MemorySource, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.MemorySource{}, false
	}
	if !passesAgentFilter("failure-museum", nil, f.AgentFilter) {
		return types.MemorySource{}, false
	}

	var mentries []types.MemEntry
	lines := strings.Split(string(raw), "\n")
	var curDate, curCategory, curHeadline string
	inSection := false
	flush := func() {
		if !inSection || curHeadline == "" {
			return
		}
		if !passesSince(curDate, f.Since) {
			return
		}
		text := curCategory + " — " + curHeadline
		mentries = append(mentries, types.MemEntry{Date: curDate, Text: text, Tags: []string{curCategory}})
	}
	for _, line := range lines {
		if m := failureHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			curDate, curCategory, curHeadline = m[1], m[2], strings.TrimSpace(m[3])
			inSection = true
			continue
		}
		trimmed := strings.TrimSpace(line)
		if inSection && (strings.HasPrefix(trimmed, "- Leçon") || strings.HasPrefix(trimmed, "- Leçon :") ||
			strings.HasPrefix(trimmed, "- Règle instaurée")) {
			// Lesson/rule lines are kept as part of the section text for
			// similarity/linting purposes.
			if idx := strings.Index(trimmed, ":"); idx >= 0 {
				curHeadline += " | " + strings.TrimSpace(trimmed[idx+1:])
			}
		}
	}
	flush()
	if len(mentries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: "failure-museum", Kind: types.SourceFailureMuseum, Entries: mentries}, true
}

func collectContradictionLog(path string, f Filter) (types.MemorySource, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.MemorySource{}, false
	}
	if !passesAgentFilter("contradiction-log", nil, f.AgentFilter) {
		return types.MemorySource{}, false
	}
	var mentries []types.MemEntry
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || strings.HasPrefix(trimmed, "|---") || strings.HasPrefix(trimmed, "| ---") {
			continue
		}
		cols := strings.Split(strings.Trim(trimmed, "|"), "|")
		if len(cols) == 0 {
			continue
		}
		text := strings.TrimSpace(strings.Join(cols, " "))
		if text == "" || strings.EqualFold(text, "date") {
			continue
		}
		date := ""
		if len(cols) > 0 {
			candidate := strings.TrimSpace(cols[0])
			if len(candidate) == 10 && candidate[4] == '-' {
				date = candidate
			}
		}
		if !passesSince(date, f.Since) {
			continue
		}
		mentries = append(mentries, types.MemEntry{Date: date, Text: text})
	}
	if len(mentries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: "contradiction-log", Kind: types.SourceContradictions, Entries: mentries}, true
}

func collectSharedContext(path string, f Filter) (types.MemorySource, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.MemorySource{}, false
	}
	if !passesAgentFilter("shared-context", nil, f.AgentFilter) {
		return types.MemorySource{}, false
	}
	var mentries []types.MemEntry
	var section string
	var buf strings.Builder
	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		mentries = append(mentries, types.MemEntry{Text: text, Tags: []string{section}})
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "## ") {
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "## "))
			continue
		}
		if strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString(" ")
		}
	}
	flush()
	if len(mentries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: "shared-context", Kind: types.SourceSharedContext, Entries: mentries}, true
}

// keptTraceLevels are the trace levels collect_sources retains.
var keptTraceLevels = map[string]bool{
	"DECISION":   true,
	"CHECKPOINT": true,
	"FAILURE":    true,
	"REMEMBER":   true,
}

func collectTrace(path string, f Filter) (types.MemorySource, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.MemorySource{}, false
	}
	var mentries []types.MemEntry
	var sectionDate, sectionAgent string
	for _, line := range strings.Split(string(raw), "\n") {
		if m := traceHeaderRe.FindStringSubmatch(line); m != nil {
			sectionDate = m[1]
			sectionAgent = strings.TrimSpace(m[2])
			continue
		}
		m := traceEventRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		ts, level, agent, payload := m[1], strings.ToUpper(m[2]), m[3], m[4]
		if !keptTraceLevels[level] {
			continue
		}
		if !passesAgentFilter(agent, nil, f.AgentFilter) && !passesAgentFilter(sectionAgent, nil, f.AgentFilter) {
			continue
		}
		date := sectionDate
		if len(ts) >= 10 {
			date = ts[:10]
		}
		if !passesSince(date, f.Since) {
			continue
		}
		mentries = append(mentries, types.MemEntry{
			Date:  date,
			Text:  payload,
			Agent: agent,
			Tags:  []string{level},
		})
	}
	if len(mentries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: "trace", Kind: types.SourceTrace, Entries: mentries}, true
}

func collectStigmergy(layout memstore.Layout, f Filter) (types.MemorySource, bool) {
	entries := ParsePheromoneEntries(layout, f)
	if len(entries) == 0 {
		return types.MemorySource{}, false
	}
	return types.MemorySource{Name: "stigmergy", Kind: types.SourceStigmergy, Entries: entries}, true
}
