package bt

import (
	"fmt"

	"jobSched/internal/sched"
)

type Config struct {
	// NodeLimit — предел числа посещённых узлов дерева поиска (0 — без ограничения).
	// При превышении возвращается лучшее найденное расписание.
	NodeLimit int64 `yaml:"node_limit"`
	// Workers — число горутин для параллельного обхода поддеревьев первой работы.
	Workers int        `yaml:"workers"`
	Mode    sched.Mode `yaml:"mode"`
}

func (c Config) Validate() error {
	if c.NodeLimit < 0 {
		return fmt.Errorf(
			"предел узлов должен быть >= 0 (получено %d)",
			c.NodeLimit,
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
		NodeLimit: 0,
		Workers:   1,
		Mode:      sched.ModePresence,
	}
}
