package ga

import (
	"fmt"

	"jobSched/internal/sched"
)

type Config struct {
	Population    int     `yaml:"population"`
	Generations   int     `yaml:"generations"`
	CrossoverRate float64 `yaml:"crossover_rate"`
	MutationRate  float64 `yaml:"mutation_rate"`
	// ParentFraction — доля лучших особей, переходящих в следующее поколение
	// и служащих родителями (усечённый отбор).
	ParentFraction float64 `yaml:"parent_fraction"`
	// Workers — число горутин для оценки приспособленности потомков.
	Workers int        `yaml:"workers"`
	Mode    sched.Mode `yaml:"mode"`
}

func (c Config) Validate() error {
	if c.Population <= 0 {
		return fmt.Errorf(
			"размер популяции должен быть > 0 (получено %d)",
			c.Population,
		)
	}
	if c.Generations <= 0 {
		return fmt.Errorf(
			"количество поколений должно быть > 0 (получено %d)",
			c.Generations,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationRate,
		)
	}
	if c.ParentFraction <= 0 || c.ParentFraction > 1 {
		return fmt.Errorf(
			"доля родителей должна быть в диапазоне (0,1] (получено %f)",
			c.ParentFraction,
		)
	}
	if c.Workers <= 0 {
		return fmt.Errorf(
			"число воркеров должно быть > 0 (получено %d)",
			c.Workers,
		)
	}
	if err := c.Mode.Validate(); err != nil {
		return err
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Population:     50,
		Generations:    100,
		CrossoverRate:  0.8,
		MutationRate:   0.2,
		ParentFraction: 0.2,
		Workers:        1,
		Mode:           sched.ModePresence,
	}
}
