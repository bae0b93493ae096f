package bench

import (
	"math/rand"

	"jobSched/internal/bt"
	"jobSched/internal/ga"
	"jobSched/internal/opt"
)

// Фабрики

func BacktrackingAlgorithm(cfg bt.Config) Algorithm {
	return Algorithm{
		Name: bt.Name,
		Factory: func(int64) (opt.Optimizer, error) {
			return bt.New(cfg)
		},
	}
}

func GeneticAlgorithm(cfg ga.Config) Algorithm {
	return Algorithm{
		Name: ga.Name,
		Factory: func(seed int64) (opt.Optimizer, error) {
			return ga.New(cfg, rand.New(rand.NewSource(seed)))
		},
	}
}
