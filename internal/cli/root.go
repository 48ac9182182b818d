// Package cli provides the shared Cobra scaffolding every cmd/<tool> binary
// builds on: a root command with the persistent flags common to all eight
// tools (project root, config path, log level, JSON output) and a small
// Runtime that resolves them once in PersistentPreRunE. Grounded on
// theRebelliousNerd-codenerd/cmd/nerd/main.go's root-command-with-
// PersistentFlags idiom and o9nn-echo.go/cmd/echo.go's command-group
// pattern for the per-tool subcommands built on top of it.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coordination-layer/internal/config"
	"coordination-layer/internal/memstore"
	"coordination-layer/internal/obs"
)

// Runtime carries the resolved, shared state every subcommand's RunE reads:
// the project root, its loaded config, a component logger, and whether
// output should be rendered as JSON instead of the tool's human format.
type Runtime struct {
	Root   string
	Layout memstore.Layout
	Config *config.Config
	Log    *zap.SugaredLogger
	JSON   bool
}

// NewRoot builds the root command for one CLI tool, registering the
// persistent flags shared by all eight binaries and a PersistentPreRunE
// that resolves Runtime before any subcommand runs. component names the
// logger field (e.g. "pheromone", "dream") the way obs.Component tags
// every subsystem logger in this repo.
func NewRoot(use, short, component string) (*cobra.Command, *Runtime) {
	rt := &Runtime{}
	var (
		root     string
		logLevel string
		cfgPath  string
	)

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				root = wd
			}
			logger := obs.New(logLevel)
			obs.Set(logger)

			cfg, err := config.Load(configPathOrDefault(cfgPath, root))
			if err != nil {
				return err
			}

			rt.Root = root
			rt.Layout = memstore.NewLayout(root)
			rt.Config = cfg
			rt.Log = logger.With("component", component)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&root, "project-root", "", "project root (default: current directory)")
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to project-context.yaml (default: <project-root>/project-context.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&rt.JSON, "json", false, "emit machine-readable JSON instead of a human-readable report")

	return cmd, rt
}

func configPathOrDefault(explicit, root string) string {
	if explicit != "" {
		return explicit
	}
	return memstore.NewLayout(root).ProjectContext()
}

// Emit renders data as JSON when rt.JSON is set, otherwise writes human
// verbatim to stdout. Every subcommand's success path funnels through this
// so --json behaves identically across all eight tools.
func (rt *Runtime) Emit(human string, data any) error {
	if !rt.JSON {
		fmt.Println(human)
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Execute runs cmd and translates a returned error into a logged failure
// plus exit code 1, the terminal pattern every cmd/<tool>/main.go shares.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
