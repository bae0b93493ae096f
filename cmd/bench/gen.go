package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobSched/internal/config"
	"jobSched/internal/sched"
)

func newGenCmd(g *globalFlags) *cobra.Command {
	var (
		count        int
		jobs         int
		resources    int
		depProb      float64
		instanceSeed int64
		out          string
	)
	cmd := &cobra.Command{
		Use:     "gen",
		Short:   "Write random instances to a YAML file",
		Example: `  bench gen --count 3 --jobs 6 -o instances.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			gen := cfg.Batch.Generator
			fl := cmd.Flags()
			if fl.Changed("jobs") {
				gen.Jobs = jobs
			}
			if fl.Changed("resources") {
				gen.Resources = resources
			}
			if fl.Changed("dep-prob") {
				gen.DepProb = depProb
			}
			seed := cfg.Batch.InstanceSeed
			if fl.Changed("instance-seed") {
				seed = instanceSeed
			}
			if count <= 0 {
				return fmt.Errorf("count must be > 0 (got %d)", count)
			}

			probs, err := sched.RandomBatch(gen, count, seed)
			if err != nil {
				return err
			}
			ins := make([]config.Instance, len(probs))
			for i, p := range probs {
				ins[i] = config.FromProblem(fmt.Sprintf("random-%d", i+1), p)
			}
			if err := config.WriteInstances(out, ins); err != nil {
				return err
			}
			logger.Info("instances generated", "count", count, "jobs", gen.Jobs, "resources", gen.Resources, "seed", seed, "path", out)
			fmt.Fprintln(cmd.OutOrStdout(), "Saved:", out)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&count, "count", 5, "количество экземпляров")
	fl.IntVar(&jobs, "jobs", 0, "количество работ в экземпляре")
	fl.IntVar(&resources, "resources", 0, "количество ресурсов в экземпляре")
	fl.Float64Var(&depProb, "dep-prob", 0, "вероятность зависимости от предыдущей работы")
	fl.Int64Var(&instanceSeed, "instance-seed", 0, "базовый сид для генерации экземпляров")
	fl.StringVarP(&out, "output", "o", "instances.yaml", "путь к выходному YAML-файлу")
	return cmd
}
