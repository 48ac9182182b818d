package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"coordination-layer/internal/memstore"
	"coordination-layer/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}
}

func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	layout := memstore.NewLayout(root)
	writeFile(t, layout.AgentLearnings("dev"),
		"- [2026-01-01] always cache invalidation review required\n- [2026-01-05] validate schema before merge\n")
	writeFile(t, layout.FailureMuseum(),
		"### [2026-01-02] CC-FAIL — cache invalidation incident\n"+
			"- Leçon: review cache TTL before every deploy\n"+
			"- Règle instaurée: avoid cache invalidation review, broken\n")
	writeFile(t, layout.DecisionsLog(), "- [2026-01-03] chose postgres over sqlite for durability\n")
	return root
}

func TestRunExecutesAllFivePhasesInOrder(t *testing.T) {
	root := seedProject(t)
	report := Run(Options{Root: root})

	if len(report.Phases) != 5 {
		t.Fatalf("expected 5 phases, got %d", len(report.Phases))
	}
	wantOrder := []string{"dream", "evaporate", "antifragile", "darwinism", "memory-lint"}
	for i, name := range wantOrder {
		if report.Phases[i].Name != name {
			t.Fatalf("phase %d: expected %s, got %s", i, name, report.Phases[i].Name)
		}
	}
}

func TestRunNeverAbortsOnPhaseError(t *testing.T) {
	root := seedProject(t)
	// Orchestrator phases in this implementation read/write only their own
	// files, so a naturally-erroring phase is hard to force without
	// corrupting disk state out from under the collector. Instead this
	// asserts the contract that matters to callers: every phase always
	// reports a result, whether ok or error, and the run completes.
	report := Run(Options{Root: root})
	for _, p := range report.Phases {
		if p.Status == "" {
			t.Fatalf("phase %s has no status", p.Name)
		}
	}
}

func TestExitCodeNonZeroOnAnyPhaseError(t *testing.T) {
	report := types.OrchestratorReport{Phases: []types.PhaseResult{
		{Name: "dream", Status: types.PhaseOK},
		{Name: "evaporate", Status: types.PhaseError},
	}}
	code := 0
	for _, p := range report.Phases {
		if p.Status == types.PhaseError {
			code = 1
			break
		}
	}
	if code != 1 {
		t.Fatal("expected non-zero exit code when a phase errored")
	}
}

func TestDryRunDoesNotPersistState(t *testing.T) {
	root := seedProject(t)
	layout := memstore.NewLayout(root)

	Run(Options{Root: root, DryRun: true, Emit: true})

	if _, err := os.Stat(layout.DreamJournal()); err == nil {
		t.Fatal("dry-run should not write the dream journal")
	}
	if _, err := os.Stat(layout.DarwinismHistory()); err == nil {
		t.Fatal("dry-run should not persist darwinism history")
	}
}

func TestWetRunPersistsDarwinismHistory(t *testing.T) {
	root := seedProject(t)
	layout := memstore.NewLayout(root)

	report := Run(Options{Root: root})
	for _, p := range report.Phases {
		if p.Status == types.PhaseError {
			t.Fatalf("phase %s errored: %s", p.Name, p.Error)
		}
	}

	if _, err := os.Stat(layout.DarwinismHistory()); err != nil {
		t.Fatalf("expected darwinism history to be persisted: %v", err)
	}
	if _, err := os.Stat(layout.AntifragileHistory()); err != nil {
		t.Fatalf("expected antifragile history to be persisted: %v", err)
	}
}
