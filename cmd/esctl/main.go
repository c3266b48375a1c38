// esctl runs simulated extremum-seeking personalisation sessions.
// It drives a personaliser against a quadratic performance map and exports the
// trajectory as CSV, SQLite and PNG.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Rigaro/goesc"
)

var version = "dev"

type options struct {
	configPath string
	verbosity  int
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "esctl",
		Short: "Simulate extremum-seeking parameter personalisation",
		Long: `esctl runs a personaliser (dithered parameter, gradient or Newton-like update)
against a simulated quadratic performance map.

Commands:
  simulate     Run one session and export its trajectory
  montecarlo   Run noisy sessions and export the spread of θ
  config       Print the effective configuration`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "session configuration (.yaml or .yml), defaults when empty")
	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "log verbosity (repeat for more)")

	root.AddCommand(
		simulateCmd(opts),
		monteCarloCmd(opts),
		configCmd(opts),
	)
	return root
}

// load returns the session configuration and a logger honouring the verbosity.
func (o *options) load() (*goesc.Config, logr.Logger, error) {
	log, err := newLogger(o.verbosity)
	if err != nil {
		return nil, logr.Discard(), err
	}
	cfg := goesc.DefaultConfig()
	if o.configPath != "" {
		if cfg, err = goesc.LoadConfig(o.configPath); err != nil {
			return nil, log, err
		}
		log.V(1).Info("loaded configuration", "path", o.configPath)
	}
	return cfg, log, nil
}

func configCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
