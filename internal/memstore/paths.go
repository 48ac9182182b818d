// Package memstore knows the fixed on-disk layout of a project's memory
// tree and provides atomic JSON persistence. It is the single source of
// truth every other package reads and writes through — nothing in this
// repo opens _bmad/_memory or _bmad-output files directly.
package memstore

import "path/filepath"

// Layout resolves every fixed path under a project root.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout { return Layout{Root: root} }

func (l Layout) AgentLearningsDir() string   { return filepath.Join(l.Root, "_bmad", "_memory", "agent-learnings") }
func (l Layout) AgentLearnings(agent string) string {
	return filepath.Join(l.AgentLearningsDir(), agent+".md")
}
func (l Layout) DecisionsLog() string       { return filepath.Join(l.Root, "_bmad", "_memory", "decisions-log.md") }
func (l Layout) FailureMuseum() string      { return filepath.Join(l.Root, "_bmad", "_memory", "failure-museum.md") }
func (l Layout) ContradictionLog() string   { return filepath.Join(l.Root, "_bmad", "_memory", "contradiction-log.md") }
func (l Layout) SharedContext() string      { return filepath.Join(l.Root, "_bmad", "_memory", "shared-context.md") }
func (l Layout) DreamLastRun() string       { return filepath.Join(l.Root, "_bmad", "_memory", "dream-last-run") }
func (l Layout) ProjectContext() string     { return filepath.Join(l.Root, "project-context.yaml") }

func (l Layout) OutputDir() string          { return filepath.Join(l.Root, "_bmad-output") }
func (l Layout) Trace() string              { return filepath.Join(l.OutputDir(), "BMAD_TRACE.md") }
func (l Layout) PheromoneBoard() string     { return filepath.Join(l.OutputDir(), "pheromone-board.json") }
func (l Layout) DreamJournal() string       { return filepath.Join(l.OutputDir(), "dream-journal.md") }
func (l Layout) DreamMemory() string        { return filepath.Join(l.OutputDir(), "dream-memory.json") }
func (l Layout) DreamArchivesDir() string   { return filepath.Join(l.OutputDir(), "dream-archives") }
func (l Layout) ReasoningStream() string    { return filepath.Join(l.OutputDir(), "reasoning-stream.jsonl") }
func (l Layout) ReasoningCompacted() string { return filepath.Join(l.OutputDir(), "reasoning-stream-compacted.md") }
func (l Layout) AntifragileHistory() string { return filepath.Join(l.OutputDir(), "antifragile-history.json") }
func (l Layout) DarwinismHistory() string   { return filepath.Join(l.OutputDir(), "darwinism-history.json") }
func (l Layout) ConsensusHistory() string   { return filepath.Join(l.OutputDir(), "consensus-history.json") }
func (l Layout) DNAProposalsDir() string    { return filepath.Join(l.OutputDir(), "dna-proposals") }
func (l Layout) ForgeProposalsDir() string  { return filepath.Join(l.OutputDir(), "forge-proposals") }
func (l Layout) MigrationBundle() string    { return filepath.Join(l.OutputDir(), "migration-bundle.json") }
func (l Layout) MigratedRules() string      { return filepath.Join(l.Root, "_bmad", "_memory", "migrated-rules.md") }
