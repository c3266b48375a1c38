package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rigaro/goesc"
	"github.com/Rigaro/goesc/internal/plotting"
	"github.com/Rigaro/goesc/internal/sessionlog"
)

func simulateCmd(opts *options) *cobra.Command {
	var (
		csvDir, dbPath, plotDir, notes string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one personalisation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			p, err := cfg.NewPersonaliser()
			if err != nil {
				return err
			}
			p.SetLogger(log.WithName("personaliser"))
			noise, err := cfg.Noise(0)
			if err != nil {
				return err
			}
			log.Info("starting session", "estimator", cfg.Estimator.Type, "iterations", cfg.Iterations, "map", cfg.PerformanceMap().String(), "noise", noise.String())
			records := goesc.RunSession(p, cfg.PerformanceMap(), noise, cfg.Iterations)
			names := p.Estimator().Type().EstimateNames()

			if csvDir != "" {
				e, err := goesc.NewCSVExporter(names, csvDir, "session.csv")
				if err != nil {
					return err
				}
				if err := e.WriteAll(records); err != nil {
					e.Close()
					return err
				}
				if err := e.Close(); err != nil {
					return err
				}
				log.Info("exported CSV", "path", e.Name())
			}
			if dbPath != "" {
				db, err := sessionlog.Open(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				id, err := db.StartSession(cfg, notes)
				if err != nil {
					return err
				}
				if err := db.Append(id, records); err != nil {
					return err
				}
				if err := db.EndSession(id); err != nil {
					return err
				}
				log.Info("stored session", "id", id, "path", dbPath)
			}
			if plotDir != "" {
				files, err := plotting.SaveTrajectory(records, cfg.Map.Optimum, names, plotDir, "session")
				if err != nil {
					return err
				}
				log.Info("saved plots", "files", files)
			}

			last := records[len(records)-1]
			log.Info("session done", "parameter", last.Parameter, "optimum", cfg.Map.Optimum, "fallbacks", p.Fallbacks())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "θ=%.6f θ*=%g fallbacks=%d\n", last.Parameter, cfg.Map.Optimum, p.Fallbacks())
			return err
		},
	}
	cmd.Flags().StringVar(&csvDir, "csv", "", "directory of the CSV export")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite session log")
	cmd.Flags().StringVar(&plotDir, "plot", "", "directory of the PNG plots")
	cmd.Flags().StringVar(&notes, "notes", "", "notes stored with the session")
	return cmd
}
