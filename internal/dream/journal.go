package dream

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"coordination-layer/internal/types"
)

var categoryIcons = map[types.InsightCategory]string{
	types.InsightConnection:  "[link]",
	types.InsightPattern:     "[pattern]",
	types.InsightTension:     "[tension]",
	types.InsightOpportunity: "[idea]",
}

func icon(c types.InsightCategory) string {
	if s, ok := categoryIcons[c]; ok {
		return s
	}
	return "[?]"
}

// RenderJournal produces the dream-journal.md Markdown body for one run.
func RenderJournal(insights []types.DreamInsight, sources []types.MemorySource, since string, diff *Diff) string {
	return renderJournalAt(insights, sources, since, diff, time.Now())
}

func renderJournalAt(insights []types.DreamInsight, sources []types.MemorySource, since string, diff *Diff, now time.Time) string {
	totalEntries := 0
	for _, s := range sources {
		totalEntries += len(s.Entries)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Dream Journal - %s\n\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "> Off-session consolidation - %d sources, %d entries analyzed\n", len(sources), totalEntries)
	if since != "" {
		fmt.Fprintf(&b, "> Period: since %s\n", since)
	}
	b.WriteString("\n---\n\n")

	if diff != nil && (len(diff.New) > 0 || len(diff.Persistent) > 0 || len(diff.Resolved) > 0) {
		b.WriteString("## Dream Diff\n\n")
		if len(diff.Persistent) > 0 {
			fmt.Fprintf(&b, "**Persistent** (%d) - insights confirmed across sessions:\n", len(diff.Persistent))
			for _, ins := range diff.Persistent {
				fmt.Fprintf(&b, "- %s (%.0f%%)\n", ins.Title, ins.Confidence*100)
			}
			b.WriteString("\n")
		}
		if len(diff.New) > 0 {
			fmt.Fprintf(&b, "**New** (%d):\n", len(diff.New))
			for _, ins := range diff.New {
				fmt.Fprintf(&b, "- %s\n", ins.Title)
			}
			b.WriteString("\n")
		}
		if len(diff.Resolved) > 0 {
			fmt.Fprintf(&b, "**Resolved** (%d) - no longer observed:\n", len(diff.Resolved))
			for _, sig := range diff.Resolved {
				fmt.Fprintf(&b, "- ~~%s~~\n", sig)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}

	byCat := map[types.InsightCategory][]types.DreamInsight{}
	for _, ins := range insights {
		byCat[ins.Category] = append(byCat[ins.Category], ins)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Category | Count | Avg confidence |\n")
	b.WriteString("|----------|-------|----------------|\n")
	for _, c := range cats {
		group := byCat[types.InsightCategory(c)]
		sum := 0.0
		for _, ins := range group {
			sum += ins.Confidence
		}
		avg := sum / float64(len(group))
		fmt.Fprintf(&b, "| %s %s | %d | %.0f%% |\n", icon(types.InsightCategory(c)), c, len(group), avg*100)
	}
	b.WriteString("\n---\n\n## Insights\n\n")

	for idx, ins := range insights {
		filled := int(ins.Confidence * 10)
		if filled > 10 {
			filled = 10
		}
		if filled < 0 {
			filled = 0
		}
		bar := strings.Repeat("#", filled) + strings.Repeat(".", 10-filled)
		fmt.Fprintf(&b, "### %s %d. %s\n\n", icon(ins.Category), idx+1, ins.Title)
		fmt.Fprintf(&b, "**Confidence**: `%s` %.0f%%\n", bar, ins.Confidence*100)
		fmt.Fprintf(&b, "**Sources**: %s\n", strings.Join(ins.Sources, ", "))
		if ins.Actionable {
			b.WriteString("**Actionable**\n")
		}
		b.WriteString("\n")
		b.WriteString(ins.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n## Sources analyzed\n\n")
	for _, s := range sources {
		fmt.Fprintf(&b, "- **%s** (%s) - %d entries\n", s.Name, s.Kind, len(s.Entries))
	}
	b.WriteString("\n")

	return b.String()
}

// WriteJournal writes content to journalPath, archiving any previous
// journal to archiveDir/dream-journal-<timestamp>.md first. dryRun skips
// both the archive rotation and the write.
func WriteJournal(content, journalPath, archiveDir string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o750); err != nil {
		return err
	}
	if _, err := os.Stat(journalPath); err == nil {
		if err := os.MkdirAll(archiveDir, 0o750); err != nil {
			return err
		}
		ts := time.Now().Format("20060102-1504")
		archivePath := filepath.Join(archiveDir, fmt.Sprintf("dream-journal-%s.md", ts))
		if err := os.Rename(journalPath, archivePath); err != nil {
			return err
		}
	}
	return os.WriteFile(journalPath, []byte(content), 0o640)
}
