package sched

import (
	"fmt"
	"math/rand"
)

// GenConfig — границы случайного генератора экземпляров.
type GenConfig struct {
	Jobs      int     `yaml:"jobs"`
	Resources int     `yaml:"resources"`
	MinProc   int     `yaml:"min_proc"`
	MaxProc   int     `yaml:"max_proc"`
	MinCap    int     `yaml:"min_capacity"`
	MaxCap    int     `yaml:"max_capacity"`
	DepProb   float64 `yaml:"dependency_prob"`
}

func DefaultGenConfig() GenConfig {
	return GenConfig{
		Jobs:      5,
		Resources: 3,
		MinProc:   1,
		MaxProc:   10,
		MinCap:    3,
		MaxCap:    20,
		DepProb:   0.5,
	}
}

func (c GenConfig) Validate() error {
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0 (got %d)", c.Jobs)
	}
	if c.Resources <= 0 {
		return fmt.Errorf("resources must be > 0 (got %d)", c.Resources)
	}
	if c.MinProc <= 0 || c.MaxProc < c.MinProc {
		return fmt.Errorf("invalid processing time bounds [%d, %d]", c.MinProc, c.MaxProc)
	}
	if c.MinCap <= 0 || c.MaxCap < c.MinCap {
		return fmt.Errorf("invalid capacity bounds [%d, %d]", c.MinCap, c.MaxCap)
	}
	if c.DepProb < 0 || c.DepProb > 1 {
		return fmt.Errorf("dependency probability must be in [0,1] (got %f)", c.DepProb)
	}
	return nil
}

// RandomProblem генерирует экземпляр с id работ и ресурсов 1..n.
// Работа k (k > 1) с вероятностью DepProb зависит от работы k-1,
// поэтому циклов не бывает.
func RandomProblem(cfg GenConfig, rng *rand.Rand) (*Problem, error) {
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	between := func(lo, hi int) int {
		return lo + rng.Intn(hi-lo+1)
	}

	jobs := make([]Job, cfg.Jobs)
	for i := range jobs {
		id := i + 1
		proc := between(cfg.MinProc, cfg.MaxProc)
		var (
			j   Job
			err error
		)
		if id > 1 && rng.Float64() < cfg.DepProb {
			j, err = NewDependentJob(id, proc, id-1)
		} else {
			j, err = NewJob(id, proc)
		}
		if err != nil {
			return nil, err
		}
		jobs[i] = j
	}

	resources := make([]Resource, cfg.Resources)
	for i := range resources {
		r, err := NewResource(i+1, between(cfg.MinCap, cfg.MaxCap))
		if err != nil {
			return nil, err
		}
		resources[i] = r
	}
	return NewProblem(jobs, resources)
}

// RandomBatch генерирует n экземпляров; экземпляр i получает сид baseSeed+i.
func RandomBatch(cfg GenConfig, n int, baseSeed int64) ([]*Problem, error) {
	out := make([]*Problem, 0, n)
	for i := 0; i < n; i++ {
		p, err := RandomProblem(cfg, rand.New(rand.NewSource(baseSeed+int64(i))))
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
