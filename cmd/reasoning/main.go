// Command reasoning appends to, reads, updates and compacts one project's
// reasoning stream: the append-only JSONL log of typed inference steps
// (hypothesis/doubt/reasoning/assumption/alternative).
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/reasonstream"
	"coordination-layer/internal/types"
)

func main() {
	root, rt := cli.NewRoot("reasoning", "Append to and inspect the reasoning stream", "reasoning")

	var (
		agent      string
		text       string
		reasonCtx  string
		confidence float64
		relatedTo  string
		tags       []string
	)
	logCmd := &cobra.Command{
		Use:   "log <type>",
		Short: "Append one typed inference step (hypothesis, doubt, reasoning, assumption, alternative)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := types.ReasoningEntry{
				Agent:      agent,
				Type:       types.ReasoningType(strings.ToUpper(args[0])),
				Text:       text,
				Context:    reasonCtx,
				Confidence: confidence,
				RelatedTo:  relatedTo,
				Tags:       tags,
			}
			if err := reasonstream.Log(rt.Layout.ReasoningStream(), entry); err != nil {
				return err
			}
			return rt.Emit(fmt.Sprintf("logged %s entry for %s", entry.Type, entry.Agent), entry)
		},
	}
	logCmd.Flags().StringVar(&agent, "agent", "", "agent making the inference")
	logCmd.Flags().StringVar(&text, "text", "", "inference text")
	logCmd.Flags().StringVar(&reasonCtx, "context", "", "surrounding context")
	logCmd.Flags().Float64Var(&confidence, "confidence", 0.5, "confidence in [0,1]")
	logCmd.Flags().StringVar(&relatedTo, "related-to", "", "timestamp of the entry this one follows from")
	logCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	logCmd.MarkFlagRequired("agent")
	logCmd.MarkFlagRequired("text")

	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Print the full reasoning stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := reasonstream.ReadAll(rt.Layout.ReasoningStream())
			if err != nil {
				return err
			}
			var lines []string
			for _, e := range entries {
				lines = append(lines, fmt.Sprintf("[%s] %-10s %-8s %s (%s)", e.Timestamp, e.Type, e.Status, e.Text, e.Agent))
			}
			human := strings.Join(lines, "\n")
			if human == "" {
				human = "(empty stream)"
			}
			return rt.Emit(human, entries)
		},
	}

	var newStatus string
	statusCmd := &cobra.Command{
		Use:   "status <timestamp>",
		Short: "Update one entry's lifecycle status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := reasonstream.UpdateStatus(rt.Layout.ReasoningStream(), args[0], types.ReasoningStatus(newStatus))
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no entry with timestamp %s", args[0])
			}
			return rt.Emit(fmt.Sprintf("updated %s to %s", args[0], newStatus), map[string]string{"timestamp": args[0], "status": newStatus})
		},
	}
	statusCmd.Flags().StringVar(&newStatus, "status", "", "validated, invalidated, or abandoned")
	statusCmd.MarkFlagRequired("status")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the stream by type and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := reasonstream.ReadAll(rt.Layout.ReasoningStream())
			if err != nil {
				return err
			}
			stats := reasonstream.Analyze(entries)
			human := fmt.Sprintf("total=%d open=%d chained=%d", stats.Total, stats.OpenCount, stats.ChainCount)
			return rt.Emit(human, stats)
		},
	}

	compactCmd := &cobra.Command{
		Use:   "compact",
		Short: "Write a status-grouped Markdown summary of the stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := reasonstream.ReadAll(rt.Layout.ReasoningStream())
			if err != nil {
				return err
			}
			summary := reasonstream.Compact(entries)
			if err := memstore.WriteFileAtomic(rt.Layout.ReasoningCompacted(), []byte(summary)); err != nil {
				return err
			}
			return rt.Emit(fmt.Sprintf("compacted %d entries to %s", len(entries), rt.Layout.ReasoningCompacted()), map[string]int{"entries": len(entries)})
		},
	}

	root.AddCommand(logCmd, readCmd, statusCmd, analyzeCmd, compactCmd)
	cli.Execute(root)
}
