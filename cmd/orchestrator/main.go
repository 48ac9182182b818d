// Command orchestrator runs the fixed five-phase consolidation pass: dream,
// board evaporation, anti-fragility scoring, agent darwinism, and memory
// linting, in that order.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/orchestrator"
)

func main() {
	root, rt := cli.NewRoot("orchestrator", "Run the fixed five-phase consolidation pass", "orchestrator")

	var (
		quick       bool
		emit        bool
		dryRun      bool
		agentFilter string
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run dream, evaporate, antifragile, darwinism and lint in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := orchestrator.Run(orchestrator.Options{
				Root:        rt.Root,
				Quick:       quick,
				Emit:        emit,
				DryRun:      dryRun,
				AgentFilter: agentFilter,
			})

			var lines []string
			for _, p := range report.Phases {
				line := fmt.Sprintf("[%s] %-12s %s", p.Status, p.Name, p.Summary)
				if p.Error != "" {
					line += " (" + p.Error + ")"
				}
				lines = append(lines, line)
			}
			if err := rt.Emit(strings.Join(lines, "\n"), report); err != nil {
				return err
			}
			os.Exit(report.ExitCode)
			return nil
		},
	}
	runCmd.Flags().BoolVar(&quick, "quick", false, "run dream in quick mode")
	runCmd.Flags().BoolVar(&emit, "emit", false, "publish dream and lint findings as pheromones")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "skip every phase's persistence step")
	runCmd.Flags().StringVar(&agentFilter, "agent", "", "restrict collection to sources matching this agent/tag substring")

	root.AddCommand(runCmd)
	cli.Execute(root)
}
