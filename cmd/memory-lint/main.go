// Command memory-lint runs the cross-file memory consistency checks
// (contradiction, duplicate, orphan decision, failure-without-lesson,
// chronology) and optionally publishes an ALERT pheromone per error-level
// issue.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/collector"
	"coordination-layer/internal/lint"
	"coordination-layer/internal/stigmergy"
)

func main() {
	root, rt := cli.NewRoot("memory-lint", "Lint the memory tree for cross-file consistency issues", "lint")

	var (
		since       string
		agentFilter string
		emit        bool
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run all lint checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := collector.CollectSources(rt.Root, collector.Filter{Since: since, AgentFilter: agentFilter})
			issues := lint.Run(sources)

			if emit && len(issues) > 0 {
				board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
				if err != nil {
					return err
				}
				n := lint.Emit(board, issues)
				if n > 0 {
					if err := board.Save(rt.Layout.PheromoneBoard()); err != nil {
						return err
					}
				}
				rt.Log.Infow("emitted lint alerts", "count", n)
			}

			var lines []string
			for _, issue := range issues {
				lines = append(lines, fmt.Sprintf("[%s] %s %s: %s", issue.Severity, issue.ID, issue.Category, issue.Title))
			}
			human := strings.Join(lines, "\n")
			if human == "" {
				human = "no issues found"
			}
			if err := rt.Emit(human, issues); err != nil {
				return err
			}
			os.Exit(lint.ExitCode(issues))
			return nil
		},
	}
	runCmd.Flags().StringVar(&since, "since", "", "only consider entries on or after this ISO-8601 date")
	runCmd.Flags().StringVar(&agentFilter, "agent", "", "restrict to sources matching this agent/tag substring")
	runCmd.Flags().BoolVar(&emit, "emit", false, "publish an ALERT pheromone per error-level issue")

	root.AddCommand(runCmd)
	cli.Execute(root)
}
