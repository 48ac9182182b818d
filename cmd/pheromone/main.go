// Command pheromone emits, senses, amplifies, resolves and evaporates
// signals on one project's pheromone board, and reports the emergent trail
// patterns stigmergy.AnalyzeTrails detects over it.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coordination-layer/internal/cli"
	"coordination-layer/internal/stigmergy"
	"coordination-layer/internal/types"
)

func main() {
	root, rt := cli.NewRoot("pheromone", "Emit and sense coordination signals on the pheromone board", "pheromone")

	var (
		location  string
		text      string
		emitter   string
		tags      []string
		intensity float64
	)
	emitCmd := &cobra.Command{
		Use:   "emit",
		Short: "Deposit a new pheromone",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			ptype := types.PheromoneType(strings.ToUpper(args[0]))
			p, deduped := stigmergy.EmitDeduped(board, ptype, location, text, emitter, tags, intensity, time.Now())
			if err := board.Save(rt.Layout.PheromoneBoard()); err != nil {
				return err
			}
			human := fmt.Sprintf("emitted %s (intensity %.2f)", p.ID, p.Intensity)
			if deduped {
				human = fmt.Sprintf("amplified existing %s (intensity %.2f)", p.ID, p.Intensity)
			}
			return rt.Emit(human, p)
		},
	}
	emitCmd.Flags().StringVar(&location, "location", "", "zone the signal is posted to")
	emitCmd.Flags().StringVar(&text, "text", "", "signal text")
	emitCmd.Flags().StringVar(&emitter, "emitter", "", "agent depositing the signal")
	emitCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	emitCmd.Flags().Float64Var(&intensity, "intensity", stigmergy.DefaultIntensity, "base intensity")
	emitCmd.MarkFlagRequired("location")
	emitCmd.MarkFlagRequired("text")
	emitCmd.MarkFlagRequired("emitter")

	var (
		senseType     string
		senseLocation string
		senseTag      string
		senseEmitter  string
		includeResolved bool
	)
	senseCmd := &cobra.Command{
		Use:   "sense",
		Short: "List active signals, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			filter := stigmergy.SenseFilter{
				Type:            types.PheromoneType(strings.ToUpper(senseType)),
				Location:        senseLocation,
				Tag:             senseTag,
				Emitter:         senseEmitter,
				IncludeResolved: includeResolved,
			}
			sensed := board.Sense(filter, time.Now())
			var lines []string
			for _, s := range sensed {
				lines = append(lines, fmt.Sprintf("%-11s %-20s %.2f  %s (%s)", s.Pheromone.Type, s.Pheromone.Location, s.Intensity, s.Pheromone.Text, s.Pheromone.Emitter))
			}
			human := strings.Join(lines, "\n")
			if human == "" {
				human = "(no active signals)"
			}
			return rt.Emit(human, sensed)
		},
	}
	senseCmd.Flags().StringVar(&senseType, "type", "", "filter by pheromone type")
	senseCmd.Flags().StringVar(&senseLocation, "location", "", "filter by location substring")
	senseCmd.Flags().StringVar(&senseTag, "tag", "", "filter by tag")
	senseCmd.Flags().StringVar(&senseEmitter, "emitter", "", "filter by emitter")
	senseCmd.Flags().BoolVar(&includeResolved, "include-resolved", false, "include resolved signals")

	amplifyCmd := &cobra.Command{
		Use:   "amplify <pheromone-id>",
		Short: "Reinforce an existing signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			p := board.Amplify(args[0], emitter, time.Now())
			if p == nil {
				return fmt.Errorf("no such pheromone: %s", args[0])
			}
			if err := board.Save(rt.Layout.PheromoneBoard()); err != nil {
				return err
			}
			return rt.Emit(fmt.Sprintf("amplified %s (intensity %.2f)", p.ID, p.Intensity), p)
		},
	}
	amplifyCmd.Flags().StringVar(&emitter, "emitter", "", "agent reinforcing the signal")

	resolveCmd := &cobra.Command{
		Use:   "resolve <pheromone-id>",
		Short: "Mark a signal resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			p := board.Resolve(args[0], emitter)
			if p == nil {
				return fmt.Errorf("no such pheromone: %s", args[0])
			}
			if err := board.Save(rt.Layout.PheromoneBoard()); err != nil {
				return err
			}
			return rt.Emit(fmt.Sprintf("resolved %s", p.ID), p)
		},
	}
	resolveCmd.Flags().StringVar(&emitter, "emitter", "", "agent resolving the signal")

	evaporateCmd := &cobra.Command{
		Use:   "evaporate",
		Short: "Drop decayed and resolved signals from the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			n := board.Evaporate(time.Now())
			if err := board.Save(rt.Layout.PheromoneBoard()); err != nil {
				return err
			}
			return rt.Emit(fmt.Sprintf("evaporated %d signal(s)", n), map[string]int{"evaporated": n})
		},
	}

	trailsCmd := &cobra.Command{
		Use:   "trails",
		Short: "Report emergent coordination patterns over the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := stigmergy.Load(rt.Layout.PheromoneBoard())
			if err != nil {
				return err
			}
			patterns := stigmergy.AnalyzeTrails(board, time.Now())
			var lines []string
			for _, p := range patterns {
				lines = append(lines, fmt.Sprintf("[%s] %s: %s", p.Kind, p.Location, p.Description))
			}
			human := strings.Join(lines, "\n")
			if human == "" {
				human = "(no trail patterns detected)"
			}
			return rt.Emit(human, patterns)
		},
	}

	root.AddCommand(emitCmd, senseCmd, amplifyCmd, resolveCmd, evaporateCmd, trailsCmd)
	cli.Execute(root)
}
