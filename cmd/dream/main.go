// Command dream runs off-session consolidation over one project's memory
// tree: cross-source connections, recurring patterns, tensions and
// opportunities, persisted as a dated journal entry and a dream-memory
// registry that tracks which insights persist across runs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/collector"
	"coordination-layer/internal/dream"
	"coordination-layer/internal/embeddings"
)

func main() {
	root, rt := cli.NewRoot("dream", "Run off-session memory consolidation", "dream")

	var (
		since       string
		agentFilter string
		quick       bool
		validate    bool
		dryRun      bool
		semantic    bool
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one dream cycle and write the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := collector.CollectSources(rt.Root, collector.Filter{Since: since, AgentFilter: agentFilter})
			opt := dream.Options{Since: since, AgentFilter: agentFilter, Quick: quick, Validate: validate}
			insights := dream.RunOver(sources, opt)

			if semantic && !quick {
				if ollamaURL := os.Getenv("BMAD_OLLAMA_URL"); ollamaURL != "" {
					ctx := context.Background()
					backend, err := embeddings.NewFromEnv(ctx, rt.Root)
					if err != nil {
						return fmt.Errorf("configuring semantic backend: %w", err)
					}
					embedder := embeddings.NewOllamaEmbedder(ollamaURL, "")
					extra, err := dream.FindSemanticConnections(ctx, backend, embedder, sources)
					if err != nil {
						rt.Log.Warnw("semantic pass failed, continuing with lexical insights only", "error", err)
					} else {
						insights = append(insights, extra...)
					}
				} else {
					rt.Log.Infow("no embedder configured (set BMAD_OLLAMA_URL), skipping semantic pass")
				}
			}

			mem := dream.LoadMemory(rt.Layout.DreamMemory())
			diff := dream.UpdateMemory(insights, mem)
			if !dryRun {
				if err := dream.SaveMemory(rt.Layout.DreamMemory(), mem); err != nil {
					return err
				}
			}

			journal := dream.RenderJournal(insights, sources, since, &diff)
			if err := dream.WriteJournal(journal, rt.Layout.DreamJournal(), rt.Layout.DreamArchivesDir(), dryRun); err != nil {
				return err
			}
			if !dryRun {
				if err := dream.SaveLastRun(rt.Layout.DreamLastRun()); err != nil {
					return err
				}
			}

			human := fmt.Sprintf("dream run complete: %d insight(s) across %d source(s)", len(insights), len(sources))
			return rt.Emit(human, insights)
		},
	}
	runCmd.Flags().StringVar(&since, "since", "", "only consider entries on or after this ISO-8601 date")
	runCmd.Flags().StringVar(&agentFilter, "agent", "", "restrict to sources matching this agent/tag substring")
	runCmd.Flags().BoolVar(&quick, "quick", false, "skip the O(n^2) connection and tension passes")
	runCmd.Flags().BoolVar(&validate, "validate", false, "drop insights whose cited sources no longer exist")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute insights without writing the journal or memory")
	runCmd.Flags().BoolVar(&semantic, "semantic", false, "also run the embeddings-backed semantic connection pass")

	lastRunCmd := &cobra.Command{
		Use:   "last-run",
		Short: "Print the timestamp of the most recent dream run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := dream.ReadLastRun(rt.Layout.DreamLastRun())
			if ts == "" {
				ts = "(never run)"
			}
			return rt.Emit(ts, map[string]string{"last_run": ts})
		},
	}

	root.AddCommand(runCmd, lastRunCmd)
	cli.Execute(root)
}
