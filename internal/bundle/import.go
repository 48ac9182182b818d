package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"coordination-layer/internal/antifragile"
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

// Load reads and unmarshals a bundle JSON file, rejecting anything missing
// the exact magic string.
func Load(path string) (*types.Bundle, error) {
	var b types.Bundle
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	if b.Manifest.Magic != types.BundleMagic {
		return nil, fmt.Errorf("not a migration bundle: missing magic string %q", types.BundleMagic)
	}
	return &b, nil
}

// Import applies b to root's memory tree per spec.md §4.10's per-kind
// semantics. When dryRun is set, every counter in the returned report is
// still computed but nothing on disk changes.
func Import(root string, b *types.Bundle, dryRun bool) (*types.ImportReport, error) {
	layout := memstore.NewLayout(root)
	report := &types.ImportReport{DryRun: dryRun}

	if err := importLearnings(layout, b.Learnings, dryRun, report); err != nil {
		return nil, err
	}
	if err := importRules(layout, b.Rules, dryRun, report); err != nil {
		return nil, err
	}
	if err := importDropInFiles(layout.DNAProposalsDir(), b.DNAPatches, dryRun, report, "dna", &report.DNAPatches); err != nil {
		return nil, err
	}
	if err := importDropInFiles(layout.ForgeProposalsDir(), b.AgentProposals, dryRun, report, "agent", &report.AgentProposals); err != nil {
		return nil, err
	}
	if err := importConsensus(layout, b.Consensus, dryRun, report); err != nil {
		return nil, err
	}
	if err := importAntifragile(layout, b.AntifragileHistory, dryRun, report); err != nil {
		return nil, err
	}
	return report, nil
}

// importLearnings appends "- [<date>] [migré] <text>" to
// agent-learnings/<agent>.md, skipping lines already present (case-insensitive).
func importLearnings(layout memstore.Layout, learnings []types.ExportedLearning, dryRun bool, report *types.ImportReport) error {
	byAgent := map[string][]types.ExportedLearning{}
	for _, l := range learnings {
		agent := l.Agent
		if agent == "" {
			agent = "migrated"
		}
		byAgent[agent] = append(byAgent[agent], l)
	}
	for agent, entries := range byAgent {
		path := layout.AgentLearnings(agent)
		existing, err := memstore.ReadLines(path)
		if err != nil {
			return err
		}
		existingSet := make(map[string]bool, len(existing))
		for _, l := range existing {
			existingSet[strings.ToLower(strings.TrimSpace(l))] = true
		}
		for _, l := range entries {
			line := fmt.Sprintf("- [%s] [migré] %s", l.Date, l.Text)
			if existingSet[strings.ToLower(line)] {
				report.LearningsSkipped++
				continue
			}
			if !dryRun {
				if err := memstore.AppendLine(path, line); err != nil {
					return err
				}
			}
			existingSet[strings.ToLower(line)] = true
			report.Learnings++
		}
	}
	return nil
}

const migratedRulesHeader = "# Migrated rules\n\nRules imported from other projects via the bundle codec.\n"

// importRules writes to migrated-rules.md, creating a header on first
// write and deduping against existing content.
func importRules(layout memstore.Layout, rules []types.ExportedRule, dryRun bool, report *types.ImportReport) error {
	if len(rules) == 0 {
		return nil
	}
	path := layout.MigratedRules()
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		existing = []byte(migratedRulesHeader)
	} else if err != nil {
		return err
	}
	content := string(existing)
	if !strings.Contains(content, migratedRulesHeader) {
		content = migratedRulesHeader + content
	}

	for _, r := range rules {
		line := fmt.Sprintf("- [%s] %s: rule=%q lesson=%q\n", r.Date, r.Category, r.Rule, r.Lesson)
		if strings.Contains(content, strings.TrimSuffix(line, "\n")) {
			report.RulesSkipped++
			continue
		}
		content += line
		report.Rules++
	}
	if !dryRun && report.Rules > 0 {
		if err := memstore.WriteFileAtomic(path, []byte(content)); err != nil {
			return err
		}
	}
	return nil
}

// importDropInFiles writes each item as its own JSON file under dir,
// refusing to overwrite an existing file (recorded as a conflict).
func importDropInFiles(dir string, items []map[string]any, dryRun bool, report *types.ImportReport, kind string, counter *int) error {
	if len(items) == 0 {
		return nil
	}
	migratedDir := filepath.Join(dir, "migrated")
	for i, item := range items {
		name := itemFileName(item, kind, i)
		path := filepath.Join(migratedDir, name)
		if _, err := os.Stat(path); err == nil {
			report.Conflicts = append(report.Conflicts, path)
			continue
		}
		if !dryRun {
			raw, err := json.MarshalIndent(item, "", "  ")
			if err != nil {
				return err
			}
			if err := os.MkdirAll(migratedDir, 0o750); err != nil {
				return err
			}
			if err := memstore.WriteFileAtomic(path, raw); err != nil {
				return err
			}
		}
		*counter++
	}
	return nil
}

func itemFileName(item map[string]any, kind string, index int) string {
	if id, ok := item["id"].(string); ok && id != "" {
		return sanitizeFileName(id) + ".json"
	}
	if name, ok := item["name"].(string); ok && name != "" {
		return sanitizeFileName(name) + ".json"
	}
	return kind + "-" + strconv.Itoa(index) + ".json"
}

func sanitizeFileName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}

// importConsensus merges b's consensus entries into the existing history,
// deduping on timestamp.
func importConsensus(layout memstore.Layout, entries []types.ConsensusEntry, dryRun bool, report *types.ImportReport) error {
	if len(entries) == 0 {
		return nil
	}
	var existing []types.ConsensusEntry
	if _, err := memstore.ReadJSON(layout.ConsensusHistory(), &existing); err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Timestamp] = true
	}
	for _, e := range entries {
		if seen[e.Timestamp] {
			continue
		}
		existing = append(existing, e)
		seen[e.Timestamp] = true
		report.Consensus++
	}
	if !dryRun && report.Consensus > 0 {
		if err := memstore.WriteJSONAtomic(layout.ConsensusHistory(), existing); err != nil {
			return err
		}
	}
	return nil
}

// importAntifragile merges b's antifragile runs into the existing history,
// deduping on timestamp.
func importAntifragile(layout memstore.Layout, runs []types.AntifragileResult, dryRun bool, report *types.ImportReport) error {
	if len(runs) == 0 {
		return nil
	}
	hist := antifragile.LoadHistory(layout.AntifragileHistory())
	seen := make(map[int64]bool, len(hist.Runs))
	for _, r := range hist.Runs {
		seen[r.Timestamp.Unix()] = true
	}
	for _, r := range runs {
		key := r.Timestamp.Unix()
		if seen[key] {
			continue
		}
		hist.Runs = append(hist.Runs, r)
		seen[key] = true
		report.Antifragile++
	}
	if !dryRun && report.Antifragile > 0 {
		if err := memstore.WriteJSONAtomic(layout.AntifragileHistory(), hist); err != nil {
			return err
		}
	}
	return nil
}
