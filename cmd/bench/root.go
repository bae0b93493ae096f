package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"jobSched/internal/config"
	"jobSched/internal/logging"
	"jobSched/internal/sched"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	mode       string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "bench",
		Short: "Compare backtracking and genetic job assignment solvers",
		Long: `bench assigns jobs with processing times and optional dependencies to
capacity-bounded resources. It runs an exhaustive backtracking solver and a
genetic solver on the same instances and reports which one found the
shorter makespan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML-файл конфигурации")
	pf.StringVar(&g.logLevel, "log-level", "", "уровень логирования: debug | info | warn | error")
	pf.StringVar(&g.logFormat, "log-format", "", "формат логов: text | json")
	pf.StringVar(&g.mode, "mode", "", "режим зависимостей: presence | precedence")

	root.AddCommand(newCompareCmd(g), newSolveCmd(g), newGenCmd(g))
	return root
}

// load собирает конфигурацию: значения по умолчанию, затем файл, затем флаги.
func (g *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}
	if g.mode != "" {
		cfg.Mode = sched.Mode(g.mode)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = logging.Format(g.logFormat)
	}
	cfg.ApplyMode()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	return &cfg, logger, nil
}
