package sched

import "fmt"

// Infeasible используется как бесконечность для приспособленности
// недопустимых расписаний. Только для сравнения, не для арифметики.
const Infeasible = int(^uint(0) >> 1)

// Evaluator проверяет и симулирует расписания в индексной форме:
// order[k] — индекс работы на позиции k, assign[k] — индекс её ресурса.
// Буферы переиспользуются, поэтому Evaluator не безопасен для
// конкурентного использования: по одному на горутину.
type Evaluator struct {
	inst *Problem
	mode Mode

	order    []int
	load     []int
	free     []int
	end      []int
	pos      []int
	visiting []bool
}

func NewEvaluator(inst *Problem, mode Mode) (*Evaluator, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: problem is nil", ErrInvalidInput)
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	n, m := inst.NumJobs(), inst.NumResources()
	e := &Evaluator{
		inst:     inst,
		mode:     mode,
		order:    inst.executionOrder(mode),
		load:     make([]int, m),
		free:     make([]int, m),
		end:      make([]int, n),
		pos:      make([]int, n),
		visiting: make([]bool, n),
	}
	return e, nil
}

// Order возвращает порядок работ, общий для обоих солверов: порядок задачи,
// а в ModePrecedence зависимости переставлены перед зависимыми работами.
func (e *Evaluator) Order() []int { return e.order }

// Check возвращает nil для допустимого расписания или *InfeasibleError.
func (e *Evaluator) Check(order, assign []int) error {
	inst := e.inst
	if len(order) != len(assign) {
		return fmt.Errorf("%w: order and assignment lengths differ (%d vs %d)", ErrInvalidInput, len(order), len(assign))
	}

	for i := range e.pos {
		e.pos[i] = -1
	}
	for k, j := range order {
		if j < 0 || j >= inst.NumJobs() {
			return infeasible(ReasonUnknownJob, j)
		}
		if e.pos[j] >= 0 {
			return infeasible(ReasonDuplicateJob, inst.jobs[j].id)
		}
		e.pos[j] = k
		if r := assign[k]; r < 0 || r >= inst.NumResources() {
			return infeasible(ReasonUnknownResource, r)
		}
	}
	for j, k := range e.pos {
		if k < 0 {
			return infeasible(ReasonMissingJob, inst.jobs[j].id)
		}
	}

	for r := range e.load {
		e.load[r] = 0
	}
	for k, j := range order {
		r := assign[k]
		job := inst.jobs[j]
		if e.load[r]+job.proc > inst.resources[r].capacity {
			return infeasible(ReasonCapacity, inst.resources[r].id)
		}
		e.load[r] += job.proc

		d := inst.depIdx[j]
		if d < 0 {
			continue
		}
		if inst.cyclic[j] {
			return infeasible(ReasonDependencyCycled, job.id)
		}
		if e.mode == ModePrecedence && e.pos[d] > k {
			return infeasible(ReasonDependencyOrder, job.id)
		}
	}
	return nil
}

// Makespan проверяет расписание и возвращает время завершения последней работы.
func (e *Evaluator) Makespan(order, assign []int) (int, error) {
	if err := e.Check(order, assign); err != nil {
		return 0, err
	}
	return e.walk(order, assign, nil)
}

// Fitness оценивает геном: ресурс для каждой позиции Order.
func (e *Evaluator) Fitness(genome []int) int {
	ms, err := e.Makespan(e.order, genome)
	if err != nil {
		return Infeasible
	}
	return ms
}

// Timeline строит временную диаграмму допустимого расписания.
func (e *Evaluator) Timeline(order, assign []int) (Timeline, error) {
	if err := e.Check(order, assign); err != nil {
		return Timeline{}, err
	}
	entries := make([]Entry, 0, len(order))
	ms, err := e.walk(order, assign, &entries)
	if err != nil {
		return Timeline{}, err
	}
	return Timeline{Entries: entries, Makespan: ms}, nil
}

// walk симулирует расписание слева направо. e.pos должен быть заполнен Check.
func (e *Evaluator) walk(order, assign []int, entries *[]Entry) (int, error) {
	inst := e.inst
	for r := range e.free {
		e.free[r] = 0
	}
	for j := range e.end {
		e.end[j] = -1
		e.visiting[j] = false
	}

	for k, j := range order {
		r := assign[k]
		e.visiting[j] = true
		ready, err := e.ready(j, assign)
		e.visiting[j] = false
		if err != nil {
			return 0, err
		}
		start := max(e.free[r], ready)
		end := start + inst.jobs[j].proc
		e.free[r] = end
		e.end[j] = end
		if entries != nil {
			*entries = append(*entries, Entry{
				JobID:      inst.jobs[j].id,
				ResourceID: inst.resources[r].id,
				Start:      start,
				End:        end,
			})
		}
	}

	makespan := 0
	for _, f := range e.free {
		if f > makespan {
			makespan = f
		}
	}
	return makespan, nil
}

// ready возвращает момент готовности зависимости работы j.
// Если зависимость ещё не пройдена, её окончание оценивается по текущей
// занятости её ресурса, рекурсивно по цепочке.
func (e *Evaluator) ready(j int, assign []int) (int, error) {
	d := e.inst.depIdx[j]
	if d < 0 {
		return 0, nil
	}
	if e.end[d] >= 0 {
		return e.end[d], nil
	}
	if e.visiting[d] {
		return 0, infeasible(ReasonDependencyCycled, e.inst.jobs[d].id)
	}
	e.visiting[d] = true
	defer func() { e.visiting[d] = false }()

	depReady, err := e.ready(d, assign)
	if err != nil {
		return 0, err
	}
	r := assign[e.pos[d]]
	return max(e.free[r], depReady) + e.inst.jobs[d].proc, nil
}
