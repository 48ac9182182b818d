// Package orchestrator drives the fixed five-phase consolidation run: dream,
// board evaporation, anti-fragility scoring, agent darwinism, and memory
// linting, in that load-bearing order. Grounded on the teacher's
// internal/orchestration sequential-step loop (per-step result capture,
// never aborting the whole run on one step's error) but stripped down to a
// fixed phase list instead of a generic dependency-graph tool executor —
// this system has no tool registry to dispatch against, just five concrete
// subsystems that always run in the same order.
package orchestrator

import (
	"strconv"
	"time"

	"coordination-layer/internal/antifragile"
	"coordination-layer/internal/collector"
	"coordination-layer/internal/darwinism"
	"coordination-layer/internal/dream"
	"coordination-layer/internal/lint"
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/obs"
	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

var log = obs.Component("orchestrator")

// Options controls one orchestrator run.
type Options struct {
	Root        string
	Quick       bool // dream quick mode
	Emit        bool // dream + lint stigmergy emission
	DryRun      bool // don't persist darwinism generation, don't write dream journal/board
	AgentFilter string
}

// Run executes the five phases in fixed order and returns the unified
// report. It never aborts on a phase error — each phase records its own
// PhaseResult and the run continues to the next phase.
func Run(opt Options) types.OrchestratorReport {
	started := time.Now()
	report := types.OrchestratorReport{StartedAt: started}

	layout := memstore.NewLayout(opt.Root)

	report.Phases = append(report.Phases, runDream(layout, opt))
	report.Phases = append(report.Phases, runEvaporate(layout, opt))
	report.Phases = append(report.Phases, runAntifragile(layout, opt))
	report.Phases = append(report.Phases, runDarwinism(layout, opt))
	report.Phases = append(report.Phases, runLint(layout, opt))

	for _, p := range report.Phases {
		if p.Status == types.PhaseError {
			report.ExitCode = 1
			break
		}
	}
	return report
}

func timed(name string, fn func() (string, any, error)) types.PhaseResult {
	start := time.Now()
	summary, data, err := fn()
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		log.Errorw("phase failed", "phase", name, "error", err)
		return types.PhaseResult{Name: name, Status: types.PhaseError, DurationMS: elapsed, Error: err.Error()}
	}
	return types.PhaseResult{Name: name, Status: types.PhaseOK, DurationMS: elapsed, Summary: summary, Data: data}
}

func runDream(layout memstore.Layout, opt Options) types.PhaseResult {
	return timed("dream", func() (string, any, error) {
		since := dream.ReadLastRun(layout.DreamLastRun())
		sources := collector.CollectSources(opt.Root, collector.Filter{Since: since, AgentFilter: opt.AgentFilter})
		if len(sources) == 0 {
			return "no sources collected since last run", nil, nil
		}

		insights := dream.RunOver(sources, dream.Options{Since: since, AgentFilter: opt.AgentFilter, Quick: opt.Quick, Validate: true})

		mem := dream.LoadMemory(layout.DreamMemory())
		diff := dream.UpdateMemory(insights, mem)

		if len(insights) > 0 && !opt.DryRun {
			content := dream.RenderJournal(insights, sources, since, &diff)
			if err := dream.WriteJournal(content, layout.DreamJournal(), layout.DreamArchivesDir(), opt.DryRun); err != nil {
				return "", nil, err
			}
			if err := dream.SaveMemory(layout.DreamMemory(), mem); err != nil {
				return "", nil, err
			}
			if err := dream.SaveLastRun(layout.DreamLastRun()); err != nil {
				return "", nil, err
			}
		}

		emitted := 0
		if opt.Emit && len(insights) > 0 {
			board, err := stigmergy.Load(layout.PheromoneBoard())
			if err != nil {
				return "", nil, err
			}
			emitted = dream.EmitToStigmergy(board, insights)
			if emitted > 0 && !opt.DryRun {
				if err := board.Save(layout.PheromoneBoard()); err != nil {
					return "", nil, err
				}
			}
		}

		return summarizeDream(insights, emitted), insights, nil
	})
}

func summarizeDream(insights []types.DreamInsight, emitted int) string {
	if len(insights) == 0 {
		return "no insights surfaced"
	}
	return formatCount(len(insights), "insight") + ", " + formatCount(emitted, "pheromone emitted")
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func runEvaporate(layout memstore.Layout, opt Options) types.PhaseResult {
	return timed("evaporate", func() (string, any, error) {
		board, err := stigmergy.Load(layout.PheromoneBoard())
		if err != nil {
			return "", nil, err
		}
		n := board.Evaporate(time.Now())
		if n > 0 && !opt.DryRun {
			if err := board.Save(layout.PheromoneBoard()); err != nil {
				return "", nil, err
			}
		}
		return formatCount(n, "pheromone evaporated"), n, nil
	})
}

func runAntifragile(layout memstore.Layout, opt Options) types.PhaseResult {
	return timed("antifragile", func() (string, any, error) {
		sources := collector.CollectSources(opt.Root, collector.Filter{})
		result := antifragile.Score(sources)
		if !opt.DryRun {
			if _, err := antifragile.Append(layout.AntifragileHistory(), result); err != nil {
				return "", nil, err
			}
		}
		return result.Summary, result, nil
	})
}

func runDarwinism(layout memstore.Layout, opt Options) types.PhaseResult {
	return timed("darwinism", func() (string, any, error) {
		sources := collector.CollectSources(opt.Root, collector.Filter{})
		hist := darwinism.LoadHistory(layout.DarwinismHistory())
		gen := hist.NextGeneration()

		activity := darwinism.BuildActivity(sources)
		scores := make([]types.FitnessScore, 0, len(activity))
		for _, a := range activity {
			scores = append(scores, darwinism.Evaluate(*a, gen))
		}
		actions := darwinism.ProposeActions(scores, hist)

		record, err := darwinism.AppendGeneration(layout.DarwinismHistory(), scores, actions, opt.DryRun)
		if err != nil {
			return "", nil, err
		}
		return record.Summary, record, nil
	})
}

func runLint(layout memstore.Layout, opt Options) types.PhaseResult {
	return timed("memory-lint", func() (string, any, error) {
		sources := collector.CollectSources(opt.Root, collector.Filter{})
		issues := lint.Run(sources)
		if opt.Emit && len(issues) > 0 && !opt.DryRun {
			board, err := stigmergy.Load(layout.PheromoneBoard())
			if err != nil {
				return "", nil, err
			}
			if n := lint.Emit(board, issues); n > 0 {
				if err := board.Save(layout.PheromoneBoard()); err != nil {
					return "", nil, err
				}
			}
		}
		errCount, warnCount := 0, 0
		for _, i := range issues {
			switch i.Severity {
			case types.SeverityError:
				errCount++
			case types.SeverityWarning:
				warnCount++
			}
		}
		summary := formatCount(errCount, "error") + ", " + formatCount(warnCount, "warning") + ", " + formatCount(len(issues), "issue total")
		return summary, issues, nil
	})
}
