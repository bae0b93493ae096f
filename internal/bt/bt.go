package bt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

const Name = "backtracking"

// Ветка проверяет отмену контекста раз в ctxCheckEvery узлов.
const ctxCheckEvery = 1024

// Solver — точный перебор назначений работ на ресурсы с отсечениями.
// Худший случай экспоненциален: |resources|^|jobs| узлов. Отсечение по
// ёмкости помогает только на плотных экземплярах; для остальных
// используйте NodeLimit или таймаут контекста.
type Solver struct {
	Cfg Config
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Cfg: cfg}, nil
}

// shared общий для параллельных веток одного вызова Solve.
type shared struct {
	limit  int64
	nodes  atomic.Int64
	leaves atomic.Int64
	// лучший makespan среди всех веток
	bound atomic.Int64
}

func (sh *shared) offer(ms int) {
	v := int64(ms)
	for {
		cur := sh.bound.Load()
		if v >= cur || sh.bound.CompareAndSwap(cur, v) {
			return
		}
	}
}

// branch ищет в одном поддереве и принадлежит одной горутине.
type branch struct {
	ctx  context.Context
	inst *sched.Problem
	eval *sched.Evaluator
	sh   *shared

	// order[k] — работа на позиции k; assign[k] — её ресурс.
	order  []int
	assign []int
	load   []int

	best         []int
	bestMakespan int
	found        bool

	local   int
	stopped string
}

func newBranch(ctx context.Context, inst *sched.Problem, mode sched.Mode, sh *shared) (*branch, error) {
	eval, err := sched.NewEvaluator(inst, mode)
	if err != nil {
		return nil, err
	}
	return &branch{
		ctx:    ctx,
		inst:   inst,
		eval:   eval,
		sh:     sh,
		order:  eval.Order(),
		assign: make([]int, inst.NumJobs()),
		load:   make([]int, inst.NumResources()),
		best:   make([]int, inst.NumJobs()),
	}, nil
}

// visit учитывает узел и сообщает, можно ли продолжать.
func (b *branch) visit() bool {
	if b.stopped != "" {
		return false
	}
	if n := b.sh.nodes.Add(1); b.sh.limit > 0 && n > b.sh.limit {
		b.stopped = "node_limit"
		return false
	}
	b.local++
	if b.local%ctxCheckEvery == 0 && b.ctx.Err() != nil {
		b.stopped = "context"
		return false
	}
	return true
}

// place пытается поставить работу с позиции k на ресурс r с учётом отсечений.
func (b *branch) place(k, r int) bool {
	nl := b.load[r] + b.inst.Job(b.order[k]).ProcessingTime()
	if nl > b.inst.Resource(r).Capacity() {
		return false
	}
	// Загрузка ресурса — нижняя оценка makespan: ветка не может
	// стать строго лучше уже найденного.
	if b.found && nl >= b.bestMakespan {
		return false
	}
	if int64(nl) > b.sh.bound.Load() {
		return false
	}
	b.assign[k] = r
	b.load[r] = nl
	return true
}

func (b *branch) dfs(k int) {
	if k == len(b.order) {
		b.leaf()
		return
	}
	proc := b.inst.Job(b.order[k]).ProcessingTime()
	for r := 0; r < b.inst.NumResources(); r++ {
		if !b.visit() {
			return
		}
		if !b.place(k, r) {
			continue
		}
		b.dfs(k + 1)
		b.load[r] -= proc
		if b.stopped != "" {
			return
		}
	}
}

// leaf обрабатывает полное назначение. Зависимости проверяются только здесь,
// т.к. зависимость может быть назначена позже зависимой работы.
func (b *branch) leaf() {
	b.sh.leaves.Add(1)
	ms, err := b.eval.Makespan(b.order, b.assign)
	if err != nil {
		return
	}
	// При равенстве побеждает найденное первым.
	if !b.found || ms < b.bestMakespan {
		b.found = true
		b.bestMakespan = ms
		copy(b.best, b.assign)
		b.sh.offer(ms)
	}
}

func (s *Solver) Solve(ctx context.Context, inst *sched.Problem) (opt.Result, error) {
	start := time.Now()

	if inst == nil {
		return opt.Result{}, fmt.Errorf("%w: problem is nil", sched.ErrInvalidInput)
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return opt.Result{Algorithm: Name}, err
	}

	sh := &shared{limit: s.Cfg.NodeLimit}
	sh.bound.Store(int64(sched.Infeasible))

	// Цикл в зависимостях делает любое расписание недопустимым.
	if inst.HasCycle() {
		res := opt.Result{
			Algorithm: Name,
			Exhausted: true,
			Meta:      map[string]any{"stopped": "dependency_cycle"},
		}
		res.Duration = time.Since(start)
		return res, nil
	}

	var (
		winner *branch
		err    error
	)
	if s.Cfg.Workers > 1 && inst.NumResources() > 1 {
		winner, err = s.parallel(ctx, inst, sh)
	} else {
		winner, err = s.sequential(ctx, inst, sh)
	}
	if err != nil {
		return opt.Result{}, err
	}

	res := opt.Result{
		Algorithm:   Name,
		Evaluations: int(sh.leaves.Load()),
		Iterations:  int(sh.nodes.Load()),
		Exhausted:   winner.stopped == "",
		Meta: map[string]any{
			"workers":    s.Cfg.Workers,
			"node_limit": s.Cfg.NodeLimit,
			"mode":       string(s.Cfg.Mode),
		},
	}
	if winner.stopped != "" {
		res.Meta["stopped"] = winner.stopped
	}
	if winner.found {
		res.Feasible = true
		res.Makespan = winner.bestMakespan
		res.Schedule = inst.ScheduleOf(winner.order, winner.best)
	}
	res.Duration = time.Since(start)

	if winner.stopped == "context" {
		return res, ctx.Err()
	}
	return res, nil
}

func (s *Solver) sequential(ctx context.Context, inst *sched.Problem, sh *shared) (*branch, error) {
	b, err := newBranch(ctx, inst, s.Cfg.Mode, sh)
	if err != nil {
		return nil, err
	}
	b.dfs(0)
	return b, nil
}

// parallel разбивает дерево по ресурсу первой работы. Ветки делятся
// границей через sh.bound и отсекают только строго худшие узлы, поэтому
// слияние по (makespan, номер ветки) даёт тот же результат, что и
// последовательный обход (если не сработал NodeLimit).
func (s *Solver) parallel(ctx context.Context, inst *sched.Problem, sh *shared) (*branch, error) {
	m := inst.NumResources()
	branches := make([]*branch, m)
	for r := range branches {
		b, err := newBranch(ctx, inst, s.Cfg.Mode, sh)
		if err != nil {
			return nil, err
		}
		branches[r] = b
	}

	g := new(errgroup.Group)
	g.SetLimit(s.Cfg.Workers)
	for r, b := range branches {
		g.Go(func() error {
			if !b.visit() || !b.place(0, r) {
				return nil
			}
			b.dfs(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	winner := branches[0]
	stopped := ""
	for _, b := range branches {
		if stopped == "" {
			stopped = b.stopped
		}
		if b.found && (!winner.found || b.bestMakespan < winner.bestMakespan) {
			winner = b
		}
	}
	winner.stopped = stopped
	return winner, nil
}
