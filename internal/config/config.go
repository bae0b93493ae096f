package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jobSched/internal/bt"
	"jobSched/internal/ga"
	"jobSched/internal/logging"
	"jobSched/internal/sched"
)

// Config holds everything a comparison run needs.
type Config struct {
	// Mode applies to both solvers and overrides their own mode fields.
	Mode         sched.Mode `yaml:"mode"`
	Genetic      ga.Config  `yaml:"genetic"`
	Backtracking bt.Config  `yaml:"backtracking"`
	Batch        Batch      `yaml:"batch"`
	Log          Log        `yaml:"log"`
	// Instances are literal problems; when empty, Batch generates random ones.
	Instances []Instance `yaml:"instances,omitempty"`
}

// Batch describes randomly generated instances.
type Batch struct {
	Instances     int             `yaml:"instances"`
	InstanceSeed  int64           `yaml:"instance_seed"`
	Seed          int64           `yaml:"seed"`
	Concurrent    bool            `yaml:"concurrent"`
	PerRunTimeout time.Duration   `yaml:"per_run_timeout"`
	Generator     sched.GenConfig `yaml:"generator"`
}

type Log struct {
	Level  string         `yaml:"level"`
	Format logging.Format `yaml:"format"`
}

// Default mirrors the solver defaults and the original five random
// instances of five jobs on three resources.
func Default() Config {
	return Config{
		Mode:         sched.ModePresence,
		Genetic:      ga.DefaultConfig(),
		Backtracking: bt.DefaultConfig(),
		Batch: Batch{
			Instances:    5,
			InstanceSeed: 777,
			Seed:         1000,
			Generator:    sched.DefaultGenConfig(),
		},
		Log: Log{Level: "info", Format: logging.FormatText},
	}
}

// Load reads a YAML config file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.ApplyMode()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyMode copies the top-level dependency mode into both solver configs.
func (c *Config) ApplyMode() {
	if c.Mode == "" {
		c.Mode = sched.ModePresence
	}
	c.Genetic.Mode = c.Mode
	c.Backtracking.Mode = c.Mode
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Mode.Validate(); err != nil {
		return err
	}
	if err := c.Genetic.Validate(); err != nil {
		return fmt.Errorf("genetic: %w", err)
	}
	if err := c.Backtracking.Validate(); err != nil {
		return fmt.Errorf("backtracking: %w", err)
	}
	if len(c.Instances) == 0 {
		if c.Batch.Instances <= 0 {
			return fmt.Errorf("batch: instances must be > 0 (got %d)", c.Batch.Instances)
		}
		if err := c.Batch.Generator.Validate(); err != nil {
			return fmt.Errorf("batch: %w", err)
		}
	}
	if c.Batch.PerRunTimeout < 0 {
		return fmt.Errorf("batch: per_run_timeout must be >= 0 (got %s)", c.Batch.PerRunTimeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	for i, in := range c.Instances {
		if _, err := in.Problem(); err != nil {
			return fmt.Errorf("instances[%d]: %w", i, err)
		}
	}
	return nil
}

// Problems returns the literal instances or generates the random batch.
func (c *Config) Problems() ([]*sched.Problem, error) {
	if len(c.Instances) > 0 {
		out := make([]*sched.Problem, 0, len(c.Instances))
		for i, in := range c.Instances {
			p, err := in.Problem()
			if err != nil {
				return nil, fmt.Errorf("instances[%d]: %w", i, err)
			}
			out = append(out, p)
		}
		return out, nil
	}
	return sched.RandomBatch(c.Batch.Generator, c.Batch.Instances, c.Batch.InstanceSeed)
}
