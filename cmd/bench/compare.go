package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"jobSched/internal/bench"
	"jobSched/internal/config"
	"jobSched/internal/metrics"
	"jobSched/internal/report"
	"jobSched/internal/sched"
)

type compareFlags struct {
	instances     int
	jobs          int
	resources     int
	instanceSeed  int64
	seed          int64
	concurrent    bool
	perRunTimeout time.Duration
	out           string
	metricsFile   string
	verbose       bool
	solver        solverFlags
}

func newCompareCmd(g *globalFlags) *cobra.Command {
	f := &compareFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both solvers on a batch of random instances",
		Example: `  bench compare
  bench compare --instances 20 --jobs 6 --resources 3 --out artifacts/results.csv
  bench compare --ga-pop 100 --ga-gen 200 --bt-workers 4
  bench compare --config bench.yaml --mode precedence --metrics-file artifacts/metrics.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			applyCompareFlags(cmd, f, cfg)
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
			if f.verbose {
				for i, p := range probs {
					report.Problem(w, fmt.Sprintf("Instance %d", i+1), p)
				}
			}

			rep, runErr := ev.CompareBatch(cmd.Context(), probs)
			if runErr != nil && len(rep.Comparisons) == 0 {
				return runErr
			}
			if err := printBatch(w, probs, rep, cfg.Mode, f.verbose); err != nil {
				return err
			}
			if err := writeArtifacts(logger, rep, reg, f.out, f.metricsFile); err != nil {
				return err
			}
			return runErr
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.instances, "instances", 0, "количество случайных экземпляров")
	fl.IntVar(&f.jobs, "jobs", 0, "количество работ в экземпляре")
	fl.IntVar(&f.resources, "resources", 0, "количество ресурсов в экземпляре")
	fl.Int64Var(&f.instanceSeed, "instance-seed", 0, "базовый сид для генерации экземпляров")
	fl.Int64Var(&f.seed, "seed", 0, "базовый сид для запусков генетического алгоритма")
	fl.BoolVar(&f.concurrent, "concurrent", false, "запускать оба солвера одновременно")
	fl.DurationVar(&f.perRunTimeout, "per-run-timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	fl.StringVar(&f.out, "out", "", "путь к выходному CSV-файлу")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "файл для метрик Prometheus в текстовом формате")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "печатать экземпляры и расписания")
	f.solver.register(cmd)
	return cmd
}

// Флаги перекрывают конфигурацию только если заданы явно.
func applyCompareFlags(cmd *cobra.Command, f *compareFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("instances") {
		cfg.Batch.Instances = f.instances
	}
	if fl.Changed("jobs") {
		cfg.Batch.Generator.Jobs = f.jobs
	}
	if fl.Changed("resources") {
		cfg.Batch.Generator.Resources = f.resources
	}
	if fl.Changed("instance-seed") {
		cfg.Batch.InstanceSeed = f.instanceSeed
	}
	if fl.Changed("seed") {
		cfg.Batch.Seed = f.seed
	}
	if fl.Changed("concurrent") {
		cfg.Batch.Concurrent = f.concurrent
	}
	if fl.Changed("per-run-timeout") {
		cfg.Batch.PerRunTimeout = f.perRunTimeout
	}
	f.solver.apply(cmd, cfg)
}

func newEvaluator(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *bench.Evaluator {
	return &bench.Evaluator{
		Backtracking:  bench.BacktrackingAlgorithm(cfg.Backtracking),
		Genetic:       bench.GeneticAlgorithm(cfg.Genetic),
		BaseSeed:      cfg.Batch.Seed,
		Concurrent:    cfg.Batch.Concurrent,
		PerRunTimeout: cfg.Batch.PerRunTimeout,
		Logger:        logger,
		Metrics:       m,
	}
}

// printBatch печатает итог; при прерванном пакете rep содержит только
// уже сравнённые экземпляры.
func printBatch(w io.Writer, probs []*sched.Problem, rep bench.BatchReport, mode sched.Mode, timelines bool) error {
	if timelines {
		for i, c := range rep.Comparisons {
			if err := report.Timeline(w, probs[i], c.Backtracking, mode); err != nil {
				return err
			}
			if err := report.Timeline(w, probs[i], c.Genetic, mode); err != nil {
				return err
			}
		}
	}
	report.Batch(w, rep)
	return nil
}

func writeArtifacts(logger *slog.Logger, rep bench.BatchReport, g prometheus.Gatherer, out, metricsFile string) error {
	if out != "" {
		if err := bench.WriteCSV(out, rep); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		logger.Info("results saved", "path", out)
	}
	if metricsFile != "" {
		if err := metrics.WriteFile(metricsFile, g); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("metrics saved", "path", metricsFile)
	}
	return nil
}
