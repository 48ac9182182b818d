package lint

import (
	"fmt"
	"time"

	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

// Emit publishes one ALERT pheromone per ERROR issue to b, deduplicating
// against already-active board text, and returns the number emitted.
func Emit(b *stigmergy.Board, issues []types.LintIssue) int {
	return emitAt(b, issues, time.Now())
}

func emitAt(b *stigmergy.Board, issues []types.LintIssue, now time.Time) int {
	emitted := 0
	for _, issue := range issues {
		if issue.Severity != types.SeverityError {
			continue
		}
		location := "memory-lint"
		if len(issue.Files) > 0 {
			location = issue.Files[0]
		}
		text := fmt.Sprintf("[lint %s] %s", issue.ID, issue.Title)
		_, ok := stigmergy.EmitDeduped(b, types.PheromoneAlert, location, text, "memory-lint",
			[]string{"lint", string(issue.Category)}, 0.8, now)
		if ok {
			emitted++
		}
	}
	return emitted
}

// ExitCode returns 1 if any issue is an ERROR, else 0.
func ExitCode(issues []types.LintIssue) int {
	for _, i := range issues {
		if i.Severity == types.SeverityError {
			return 1
		}
	}
	return 0
}
