package main

import (
	"github.com/spf13/cobra"

	"jobSched/internal/config"
)

// solverFlags — параметры солверов, перекрывающие секции genetic и backtracking.
type solverFlags struct {
	gaPop     int
	gaGen     int
	gaCx      float64
	gaMut     float64
	gaParents float64
	gaWorkers int

	btNodeLimit int64
	btWorkers   int
}

func (f *solverFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()

	// --- Генетический алгоритм ---
	fl.IntVar(&f.gaPop, "ga-pop", 0, "размер популяции")
	fl.IntVar(&f.gaGen, "ga-gen", 0, "количество поколений")
	fl.Float64Var(&f.gaCx, "ga-cx", 0, "вероятность применения кроссовера")
	fl.Float64Var(&f.gaMut, "ga-mut", 0, "вероятность мутации")
	fl.Float64Var(&f.gaParents, "ga-parents", 0, "доля лучших особей, переходящих в следующее поколение")
	fl.IntVar(&f.gaWorkers, "ga-workers", 0, "число воркеров для оценки приспособленности")

	// --- Перебор с возвратом ---
	fl.Int64Var(&f.btNodeLimit, "bt-node-limit", 0, "предел числа узлов дерева поиска (0 — без ограничения)")
	fl.IntVar(&f.btWorkers, "bt-workers", 0, "число горутин для параллельного перебора")
}

func (f *solverFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("ga-pop") {
		cfg.Genetic.Population = f.gaPop
	}
	if fl.Changed("ga-gen") {
		cfg.Genetic.Generations = f.gaGen
	}
	if fl.Changed("ga-cx") {
		cfg.Genetic.CrossoverRate = f.gaCx
	}
	if fl.Changed("ga-mut") {
		cfg.Genetic.MutationRate = f.gaMut
	}
	if fl.Changed("ga-parents") {
		cfg.Genetic.ParentFraction = f.gaParents
	}
	if fl.Changed("ga-workers") {
		cfg.Genetic.Workers = f.gaWorkers
	}
	if fl.Changed("bt-node-limit") {
		cfg.Backtracking.NodeLimit = f.btNodeLimit
	}
	if fl.Changed("bt-workers") {
		cfg.Backtracking.Workers = f.btWorkers
	}
}
