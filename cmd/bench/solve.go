package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobSched/internal/config"
	"jobSched/internal/metrics"
	"jobSched/internal/report"
)

func newSolveCmd(g *globalFlags) *cobra.Command {
	var (
		file        string
		out         string
		metricsFile string
		solver      solverFlags
	)
	cmd := &cobra.Command{
		Use:     "solve",
		Short:   "Solve the instances of a YAML file with both solvers",
		Example: `  bench solve -f instances.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			ins, err := config.LoadInstances(file)
			if err != nil {
				return err
			}
			cfg.Instances = ins
			solver.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			probs, err := cfg.Problems()
			if err != nil {
				return err
			}

			reg, m := metrics.NewRegistry()
			ev := newEvaluator(cfg, logger, m)
			w := cmd.OutOrStdout()

			for i, p := range probs {
				title := fmt.Sprintf("Instance %d", i+1)
				if ins[i].Name != "" {
					title += " (" + ins[i].Name + ")"
				}
				report.Problem(w, title, p)
			}
			rep, runErr := ev.CompareBatch(cmd.Context(), probs)
			if runErr != nil && len(rep.Comparisons) == 0 {
				return runErr
			}
			if err := printBatch(w, probs, rep, cfg.Mode, true); err != nil {
				return err
			}
			if err := writeArtifacts(logger, rep, reg, out, metricsFile); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML-файл со списком instances")
	cmd.Flags().StringVar(&out, "out", "", "путь к выходному CSV-файлу")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "файл для метрик Prometheus в текстовом формате")
	solver.register(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
