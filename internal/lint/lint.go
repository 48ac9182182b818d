// Package lint implements the memory linter: cross-file consistency checks
// (contradiction, duplicate, orphan decision, failure-without-lesson,
// chronology) over the collected memory sources, grounded on the teacher's
// internal/validation package for the issue-id/severity/sorted-report idiom.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"coordination-layer/internal/similarity"
	"coordination-layer/internal/types"
)

const (
	contradictionThreshold = 0.30
	duplicateThreshold     = 0.75
	orphanThreshold        = 0.30
	lessonThreshold        = 0.25
	chronoMinDated         = 3
	chronoDirectionalPct   = 0.70
)

var positiveMarkers = []string{"toujours", "always", "must", "doit", "obligatoire", "required", "important", "critical"}
var negativeMarkers = []string{"eviter", "éviter", "avoid", "ne pas", "danger", "risque", "problème", "probleme", "echec", "échec", "fail", "broken", "cassé", "casse"}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

type entryRef struct {
	source string
	entry  types.MemEntry
}

// Run executes all five checks over sources and returns issues sorted
// error-first, then warning, then info, with sequential ML-NNN ids.
func Run(sources []types.MemorySource) []types.LintIssue {
	var issues []types.LintIssue
	issues = append(issues, checkContradictions(sources)...)
	issues = append(issues, checkDuplicates(sources)...)
	issues = append(issues, checkOrphanDecisions(sources)...)
	issues = append(issues, checkFailuresWithoutLessons(sources)...)
	issues = append(issues, checkChronology(sources)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return severityRank(issues[i].Severity) < severityRank(issues[j].Severity)
	})
	for i := range issues {
		issues[i].ID = fmt.Sprintf("ML-%03d", i+1)
	}
	return issues
}

func severityRank(s types.LintSeverity) int {
	switch s {
	case types.SeverityError:
		return 0
	case types.SeverityWarning:
		return 1
	default:
		return 2
	}
}

func checkContradictions(sources []types.MemorySource) []types.LintIssue {
	var positives, negatives []entryRef
	for _, src := range sources {
		for _, e := range src.Entries {
			lower := strings.ToLower(e.Text)
			if containsAny(lower, positiveMarkers) {
				positives = append(positives, entryRef{src.Name, e})
			}
			if containsAny(lower, negativeMarkers) {
				negatives = append(negatives, entryRef{src.Name, e})
			}
		}
	}
	var issues []types.LintIssue
	for _, pos := range positives {
		for _, neg := range negatives {
			if pos.source == neg.source {
				continue
			}
			if similarity.Jaccard(pos.entry.Text, neg.entry.Text) < contradictionThreshold {
				continue
			}
			issues = append(issues, types.LintIssue{
				Severity:    types.SeverityError,
				Category:    types.CategoryContradiction,
				Title:       fmt.Sprintf("contradiction between %s and %s", pos.source, neg.source),
				Description: fmt.Sprintf("%q (%s) conflicts with %q (%s)", pos.entry.Text, pos.source, neg.entry.Text, neg.source),
				Files:       []string{pos.source, neg.source},
				Entries:     []string{pos.entry.Text, neg.entry.Text},
			})
		}
	}
	return issues
}

func checkDuplicates(sources []types.MemorySource) []types.LintIssue {
	var all []entryRef
	for _, src := range sources {
		for _, e := range src.Entries {
			all = append(all, entryRef{src.Name, e})
		}
	}
	var issues []types.LintIssue
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].source == all[j].source {
				continue
			}
			if similarity.Jaccard(all[i].entry.Text, all[j].entry.Text) < duplicateThreshold {
				continue
			}
			issues = append(issues, types.LintIssue{
				Severity:      types.SeverityWarning,
				Category:      types.CategoryDuplicate,
				Title:         fmt.Sprintf("duplicate entry across %s and %s", all[i].source, all[j].source),
				Description:   fmt.Sprintf("%q closely duplicates %q", all[i].entry.Text, all[j].entry.Text),
				Files:         []string{all[i].source, all[j].source},
				Entries:       []string{all[i].entry.Text, all[j].entry.Text},
				FixSuggestion: "keep one copy and cross-reference the other",
			})
		}
	}
	return issues
}

func checkOrphanDecisions(sources []types.MemorySource) []types.LintIssue {
	var traceDecisions, decisionLog []entryRef
	for _, src := range sources {
		if src.Kind == types.SourceTrace {
			for _, e := range src.Entries {
				for _, tag := range e.Tags {
					if tag == "DECISION" {
						traceDecisions = append(traceDecisions, entryRef{src.Name, e})
					}
				}
			}
		}
		if src.Kind == types.SourceDecisions {
			for _, e := range src.Entries {
				decisionLog = append(decisionLog, entryRef{src.Name, e})
			}
		}
	}
	var issues []types.LintIssue
	for _, td := range traceDecisions {
		matched := false
		for _, dl := range decisionLog {
			if similarity.Jaccard(td.entry.Text, dl.entry.Text) >= orphanThreshold {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		issues = append(issues, types.LintIssue{
			Severity:      types.SeverityWarning,
			Category:      types.CategoryOrphan,
			Title:         "decision in trace has no matching decisions-log entry",
			Description:   fmt.Sprintf("trace decision %q has no decisions-log counterpart", td.entry.Text),
			Files:         []string{td.source},
			Entries:       []string{td.entry.Text},
			FixSuggestion: "record this decision in decisions-log.md",
		})
	}
	return issues
}

func checkFailuresWithoutLessons(sources []types.MemorySource) []types.LintIssue {
	var failures, learnings []entryRef
	for _, src := range sources {
		if src.Kind == types.SourceFailureMuseum {
			for _, e := range src.Entries {
				failures = append(failures, entryRef{src.Name, e})
			}
		}
		if src.Kind == types.SourceLearnings {
			for _, e := range src.Entries {
				learnings = append(learnings, entryRef{src.Name, e})
			}
		}
	}
	var issues []types.LintIssue
	for _, f := range failures {
		matched := false
		for _, l := range learnings {
			if similarity.Jaccard(f.entry.Text, l.entry.Text) >= lessonThreshold {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		issues = append(issues, types.LintIssue{
			Severity:    types.SeverityInfo,
			Category:    types.CategoryBrokenRef,
			Title:       "failure without a matching learning",
			Description: fmt.Sprintf("failure-museum entry %q has no corresponding learnings entry", f.entry.Text),
			Files:       []string{f.source},
			Entries:     []string{f.entry.Text},
		})
	}
	return issues
}

func checkChronology(sources []types.MemorySource) []types.LintIssue {
	var issues []types.LintIssue
	for _, src := range sources {
		var dates []string
		for _, e := range src.Entries {
			if e.Date != "" {
				dates = append(dates, e.Date)
			}
		}
		if len(dates) < chronoMinDated {
			continue
		}
		ascending, descending := 0, 0
		for i := 1; i < len(dates); i++ {
			switch {
			case dates[i] >= dates[i-1]:
				ascending++
			case dates[i] <= dates[i-1]:
				descending++
			}
		}
		total := len(dates) - 1
		if total == 0 {
			continue
		}
		dominant := ascending
		if descending > dominant {
			dominant = descending
		}
		if float64(dominant)/float64(total) >= chronoDirectionalPct {
			continue
		}
		issues = append(issues, types.LintIssue{
			Severity:    types.SeverityInfo,
			Category:    types.CategoryChrono,
			Title:       fmt.Sprintf("%s entries are not chronologically consistent", src.Name),
			Description: fmt.Sprintf("fewer than %.0f%% of dated entries follow a single direction", chronoDirectionalPct*100),
			Files:       []string{src.Name},
		})
	}
	return issues
}
