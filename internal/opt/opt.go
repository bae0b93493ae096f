package opt

import (
	"context"
	"time"

	"jobSched/internal/sched"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *sched.Problem) (Result, error)
}

// Result — результат любого солвера. Недопустимость (Feasible == false)
// является обычным исходом, а не ошибкой.
type Result struct {
	Algorithm string
	Feasible  bool
	Schedule  sched.Schedule
	Makespan  int

	Evaluations int
	Iterations  int
	// Пространство поиска пройдено полностью
	// (для эвристик всегда false).
	Exhausted bool
	Duration  time.Duration
	Meta      map[string]any
}

// Better сообщает, что r строго лучше other: допустимое лучше недопустимого,
// среди допустимых — меньший makespan.
func (r Result) Better(other Result) bool {
	if r.Feasible != other.Feasible {
		return r.Feasible
	}
	return r.Feasible && r.Makespan < other.Makespan
}
