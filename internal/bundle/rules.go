package bundle

import (
	"os"
	"regexp"
	"strings"

	"coordination-layer/internal/types"
)

// failureHeaderRe matches "### [YYYY-MM-DD] CATEGORY — headline", the same
// grammar internal/collector parses failure-museum sections with — kept as
// its own copy here since rule extraction needs the raw Lesson/Rule lines
// collector deliberately folds into one similarity-ready text blob.
var failureHeaderRe = regexp.MustCompile(`^###\s*\[(\d{4}-\d{2}-\d{2})\]\s*([A-Z-]+)\s*[—-]\s*(.+)$`)

// ExtractRules scans a failure-museum file and returns one ExportedRule per
// section that has at least one "Leçon:" or "Règle instaurée:" line.
func ExtractRules(path string) ([]types.ExportedRule, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rules []types.ExportedRule
	var date, category string
	var lesson, rule strings.Builder
	has := false

	flush := func() {
		if !has {
			return
		}
		rules = append(rules, types.ExportedRule{
			Category: category,
			Date:     date,
			Lesson:   strings.TrimSpace(lesson.String()),
			Rule:     strings.TrimSpace(rule.String()),
		})
		lesson.Reset()
		rule.Reset()
		has = false
	}

	for _, line := range strings.Split(string(raw), "\n") {
		if m := failureHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			date, category = m[1], m[2]
			continue
		}
		trimmed := strings.TrimSpace(line)
		if text, ok := matchLabel(trimmed, "Leçon"); ok {
			lesson.WriteString(text)
			has = true
		} else if text, ok := matchLabel(trimmed, "Règle instaurée"); ok {
			rule.WriteString(text)
			has = true
		}
	}
	flush()
	return rules, nil
}

// matchLabel reports whether trimmed is a bullet line "- <label>: <text>"
// (possibly "- <label> : <text>") and returns the trimmed text.
func matchLabel(trimmed, label string) (string, bool) {
	if !strings.HasPrefix(trimmed, "-") {
		return "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
	if !strings.HasPrefix(body, label) {
		return "", false
	}
	rest := strings.TrimSpace(body[len(label):])
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest), true
}
