// Command cross-migrate exports one project's migratable memory artifacts
// (learnings, rules, DNA patches, agent proposals, consensus, antifragile
// history) to a portable bundle, and imports such a bundle into another
// project with per-kind dedup and conflict handling.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coordination-layer/internal/bundle"
	"coordination-layer/internal/cli"
	"coordination-layer/internal/memstore"
)

func main() {
	root, rt := cli.NewRoot("cross-migrate", "Export and import migration bundles between projects", "cross-migrate")

	var (
		kinds  []string
		since  string
		output string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export this project's migratable artifacts to a bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			var kk []bundle.Kind
			for _, k := range kinds {
				kk = append(kk, bundle.Kind(k))
			}
			b, err := bundle.Export(rt.Root, bundle.ExportOptions{Kinds: kk, Since: since})
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = rt.Layout.MigrationBundle()
			}
			raw, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}
			if err := memstore.WriteFileAtomic(path, raw); err != nil {
				return err
			}
			human := fmt.Sprintf("exported %d item(s) across %s to %s", b.Manifest.TotalItems, strings.Join(b.Manifest.Kinds, ","), path)
			return rt.Emit(human, b.Manifest)
		},
	}
	exportCmd.Flags().StringSliceVar(&kinds, "kind", nil, "kind to export (repeatable; default: all)")
	exportCmd.Flags().StringVar(&since, "since", "", "only export learnings on or after this ISO-8601 date")
	exportCmd.Flags().StringVar(&output, "output", "", "bundle path (default: <project-root>/_bmad-output/migration-bundle.json)")

	var (
		input  string
		dryRun bool
	)
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a bundle into this project",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := input
			if path == "" {
				path = rt.Layout.MigrationBundle()
			}
			b, err := bundle.Load(path)
			if err != nil {
				return err
			}
			report, err := bundle.Import(rt.Root, b, dryRun)
			if err != nil {
				return err
			}

			human := fmt.Sprintf(
				"imported: %d learning(s), %d rule(s), %d dna patch(es), %d agent proposal(s), %d consensus entr(y/ies), %d antifragile run(s)",
				report.Learnings, report.Rules, report.DNAPatches, report.AgentProposals, report.Consensus, report.Antifragile,
			)
			if len(report.Conflicts) > 0 {
				human += fmt.Sprintf(" (%d conflict(s))", len(report.Conflicts))
			}
			if dryRun {
				human = "[dry-run] " + human
			}
			return rt.Emit(human, report)
		},
	}
	importCmd.Flags().StringVar(&input, "input", "", "bundle path (default: <project-root>/_bmad-output/migration-bundle.json)")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without writing anything")

	root.AddCommand(exportCmd, importCmd)
	cli.Execute(root)
}
