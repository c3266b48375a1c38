package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Rigaro/goesc"
	"github.com/Rigaro/goesc/internal/plotting"
)

func monteCarloCmd(opts *options) *cobra.Command {
	var (
		runs         int
		noise        float64
		outDir, plot string
	)
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run noisy personalisation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("noise") {
				cfg.NoiseStdDev = noise
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log.Info("starting Monte Carlo", "runs", runs, "iterations", cfg.Iterations, "noise", cfg.NoiseStdDev)
			mc, err := goesc.NewMonteCarloRuns(runs, cfg.Iterations, cfg.NewPersonaliser, cfg.PerformanceMap(), cfg.Noise)
			if err != nil {
				return err
			}

			if outDir != "" {
				kind, err := goesc.ParseEstimatorType(cfg.Estimator.Type)
				if err != nil {
					return err
				}
				headers := append([]string{"theta"}, kind.EstimateNames()...)
				for i, csv := range mc.AsCSV(headers) {
					path := filepath.Join(outDir, fmt.Sprintf("mc_%s.csv", headers[i]))
					if err := os.WriteFile(path, []byte(csv+"\n"), 0o644); err != nil {
						return err
					}
					log.V(1).Info("exported CSV", "path", path)
				}
			}
			if plot != "" {
				file, err := plotting.SaveSpread(mc, cfg.Iterations, plot, "session")
				if err != nil {
					return err
				}
				log.Info("saved plot", "file", file)
			}

			final := cfg.Iterations - 1
			lo, hi := mc.FinalSpread()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "θ mean=%.6f stddev=%.6f range=[%.6f, %.6f] θ*=%g\n",
				mc.Mean(final)[0], mc.StdDev(final)[0], lo, hi, cfg.Map.Optimum)
			return err
		},
	}
	cmd.Flags().IntVarP(&runs, "runs", "n", 20, "number of sessions")
	cmd.Flags().Float64Var(&noise, "noise", 0, "measurement noise standard deviation (overrides the configuration)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory of the CSV exports (one file per channel)")
	cmd.Flags().StringVar(&plot, "plot", "", "directory of the PNG plot")
	return cmd
}
