// Package bundle implements the cross-project migration bundle codec:
// export walks one project's memory tree into a versioned, magic-stamped
// JSON payload; import replays that payload into another project's memory
// tree with per-kind dedup/conflict rules. Grounded on the teacher's
// internal/claudecode/session package (SessionExport/Importer/MergeOptions,
// the validate-then-apply-with-counts idiom, gzip+base64 optional transport)
// generalized from one reasoning session to the memory-tree artifact kinds
// spec.md §4.10 defines.
package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"coordination-layer/internal/antifragile"
	"coordination-layer/internal/collector"
	"coordination-layer/internal/config"
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

// Kind is one exportable artifact type.
type Kind string

const (
	KindLearnings  Kind = "learnings"
	KindRules      Kind = "rules"
	KindDNAPatches Kind = "dna_patches"
	KindAgents     Kind = "agents"
	KindConsensus  Kind = "consensus"
	KindAntifragile Kind = "antifragile"
)

// AllKinds is the full set, in manifest display order.
var AllKinds = []Kind{KindLearnings, KindRules, KindDNAPatches, KindAgents, KindConsensus, KindAntifragile}

// ExportOptions selects what Export includes.
type ExportOptions struct {
	Kinds []Kind
	Since string
}

func wants(kinds []Kind, k Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Export walks root's memory tree and returns a Bundle containing only the
// requested kinds (all kinds if opt.Kinds is empty). The manifest's Kinds
// list only ever names artifact types that actually produced items.
func Export(root string, opt ExportOptions) (*types.Bundle, error) {
	layout := memstore.NewLayout(root)
	cfg, err := config.LoadFromProjectRoot(root)
	if err != nil {
		return nil, err
	}

	b := &types.Bundle{}
	var kindsPresent []string
	total := 0

	if wants(opt.Kinds, KindLearnings) {
		learnings := exportLearnings(root, opt.Since)
		if len(learnings) > 0 {
			b.Learnings = learnings
			kindsPresent = append(kindsPresent, string(KindLearnings))
			total += len(learnings)
		}
	}
	if wants(opt.Kinds, KindRules) {
		rules, err := ExtractRules(layout.FailureMuseum())
		if err != nil {
			return nil, err
		}
		if len(rules) > 0 {
			b.Rules = rules
			kindsPresent = append(kindsPresent, string(KindRules))
			total += len(rules)
		}
	}
	if wants(opt.Kinds, KindDNAPatches) {
		patches, err := readJSONDir(layout.DNAProposalsDir())
		if err != nil {
			return nil, err
		}
		if len(patches) > 0 {
			b.DNAPatches = patches
			kindsPresent = append(kindsPresent, string(KindDNAPatches))
			total += len(patches)
		}
	}
	if wants(opt.Kinds, KindAgents) {
		agents, err := readJSONDir(layout.ForgeProposalsDir())
		if err != nil {
			return nil, err
		}
		if len(agents) > 0 {
			b.AgentProposals = agents
			kindsPresent = append(kindsPresent, string(KindAgents))
			total += len(agents)
		}
	}
	if wants(opt.Kinds, KindConsensus) {
		var entries []types.ConsensusEntry
		if _, err := memstore.ReadJSON(layout.ConsensusHistory(), &entries); err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			b.Consensus = entries
			kindsPresent = append(kindsPresent, string(KindConsensus))
			total += len(entries)
		}
	}
	if wants(opt.Kinds, KindAntifragile) {
		hist := antifragile.LoadHistory(layout.AntifragileHistory())
		if len(hist.Runs) > 0 {
			b.AntifragileHistory = hist.Runs
			kindsPresent = append(kindsPresent, string(KindAntifragile))
			total += len(hist.Runs)
		}
	}

	b.Manifest = types.BundleManifest{
		Magic:         types.BundleMagic,
		Version:       "1.0",
		SourceProject: cfg.ProjectNameOrDir(root),
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
		Kinds:         kindsPresent,
		TotalItems:    total,
		Since:         opt.Since,
	}
	return b, nil
}

func exportLearnings(root, since string) []types.ExportedLearning {
	sources := collector.CollectSources(root, collector.Filter{Since: since})
	var out []types.ExportedLearning
	for _, src := range sources {
		if src.Kind != types.SourceLearnings {
			continue
		}
		for _, e := range src.Entries {
			agent := e.Agent
			if agent == "" {
				agent = strings.TrimPrefix(src.Name, "agent-learnings/")
			}
			out = append(out, types.ExportedLearning{Agent: agent, Date: e.Date, Text: e.Text})
		}
	}
	return out
}

// readJSONDir reads every *.json file directly under dir (non-recursive,
// missing dir yields no items) into a map, sorted by filename for
// deterministic manifests.
func readJSONDir(dir string) ([]map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []map[string]any
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		if m["_source_file"] == nil {
			m["_source_file"] = name
		}
		out = append(out, m)
	}
	return out, nil
}
