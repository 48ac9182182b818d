// Command antifragile scores one project's anti-fragility across six
// dimensions from its collected memory sources, appends the result to the
// project's history, and renders the trend across past runs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coordination-layer/internal/antifragile"
	"coordination-layer/internal/cli"
	"coordination-layer/internal/collector"
)

func main() {
	root, rt := cli.NewRoot("antifragile", "Score anti-fragility from collected memory sources", "antifragile")

	var (
		since       string
		agentFilter string
		dryRun      bool
	)
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Compute and persist one anti-fragility score",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := collector.CollectSources(rt.Root, collector.Filter{Since: since, AgentFilter: agentFilter})
			result := antifragile.Score(sources)
			if !dryRun {
				if _, err := antifragile.Append(rt.Layout.AntifragileHistory(), result); err != nil {
					return err
				}
			}
			human := fmt.Sprintf("%s composite=%.1f (%s)", result.Summary, result.Composite, result.Level)
			return rt.Emit(human, result)
		},
	}
	scoreCmd.Flags().StringVar(&since, "since", "", "only consider entries on or after this ISO-8601 date")
	scoreCmd.Flags().StringVar(&agentFilter, "agent", "", "restrict to sources matching this agent/tag substring")
	scoreCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the score without appending to history")

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Render the anti-fragility trend across past runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist := antifragile.LoadHistory(rt.Layout.AntifragileHistory())
			return rt.Emit(antifragile.RenderTrend(hist), hist)
		},
	}

	root.AddCommand(scoreCmd, trendCmd)
	cli.Execute(root)
}
