// Command darwinism evaluates per-agent fitness for one generation from
// collected memory sources, proposes evolutionary actions, and appends the
// generation to the project's darwinism history.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/collector"
	"coordination-layer/internal/darwinism"
	"coordination-layer/internal/types"
)

func main() {
	root, rt := cli.NewRoot("darwinism", "Score agent fitness and propose evolutionary actions", "darwinism")

	var (
		since       string
		agentFilter string
		dryRun      bool
	)
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Evaluate fitness for the next generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := collector.CollectSources(rt.Root, collector.Filter{Since: since, AgentFilter: agentFilter})
			activity := darwinism.BuildActivity(sources)

			hist := darwinism.LoadHistory(rt.Layout.DarwinismHistory())
			gen := hist.NextGeneration()

			agentIDs := make([]string, 0, len(activity))
			for id := range activity {
				agentIDs = append(agentIDs, id)
			}
			sort.Strings(agentIDs)

			var scores []types.FitnessScore
			for _, id := range agentIDs {
				scores = append(scores, darwinism.Evaluate(*activity[id], gen))
			}
			actions := darwinism.ProposeActions(scores, hist)

			record, err := darwinism.AppendGeneration(rt.Layout.DarwinismHistory(), scores, actions, dryRun)
			if err != nil {
				return err
			}

			var lines []string
			lines = append(lines, fmt.Sprintf("generation %d: %s", record.Generation, record.Summary))
			for _, a := range actions {
				lines = append(lines, fmt.Sprintf("  %s: %s", a.AgentID, a.Action))
			}
			return rt.Emit(strings.Join(lines, "\n"), record)
		},
	}
	scoreCmd.Flags().StringVar(&since, "since", "", "only consider entries on or after this ISO-8601 date")
	scoreCmd.Flags().StringVar(&agentFilter, "agent", "", "restrict to sources matching this agent/tag substring")
	scoreCmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate without persisting the generation")

	var agentID string
	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Report one agent's composite-score trend across generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist := darwinism.LoadHistory(rt.Layout.DarwinismHistory())
			delta := darwinism.TrendDelta(hist, agentID)
			mean := darwinism.MeanCompositeTrend(hist)
			human := fmt.Sprintf("%s trend: %+.2f (population mean trend: %+.2f)", agentID, delta, mean)
			return rt.Emit(human, map[string]float64{"agent_delta": delta, "population_mean_trend": mean})
		},
	}
	trendCmd.Flags().StringVar(&agentID, "agent", "", "agent id to report the trend for")
	trendCmd.MarkFlagRequired("agent")

	root.AddCommand(scoreCmd, trendCmd)
	cli.Execute(root)
}
