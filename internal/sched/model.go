package sched

import (
	"errors"
	"fmt"
)

// ErrInvalidInput оборачивает все ошибки построения Job, Resource и Problem.
var ErrInvalidInput = errors.New("invalid input")

type Job struct {
	id      int
	proc    int
	dep     int
	hasDep  bool
	checked bool
}

func NewJob(id, processingTime int) (Job, error) {
	j := Job{id: id, proc: processingTime, checked: true}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

func NewDependentJob(id, processingTime, dependency int) (Job, error) {
	j := Job{id: id, proc: processingTime, dep: dependency, hasDep: true, checked: true}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (j Job) ID() int             { return j.id }
func (j Job) ProcessingTime() int { return j.proc }

// Dependency возвращает id работы, от которой зависит j, если она задана.
func (j Job) Dependency() (int, bool) { return j.dep, j.hasDep }

func (j Job) Validate() error {
	if !j.checked {
		return fmt.Errorf("%w: job was not built with NewJob", ErrInvalidInput)
	}
	if j.proc <= 0 {
		return fmt.Errorf("%w: job %d: processing time must be > 0 (got %d)", ErrInvalidInput, j.id, j.proc)
	}
	if j.hasDep && j.dep == j.id {
		return fmt.Errorf("%w: job %d depends on itself", ErrInvalidInput, j.id)
	}
	return nil
}

func (j Job) String() string {
	if j.hasDep {
		return fmt.Sprintf("Job %d (proc=%d, dep=%d)", j.id, j.proc, j.dep)
	}
	return fmt.Sprintf("Job %d (proc=%d)", j.id, j.proc)
}

type Resource struct {
	id       int
	capacity int
	checked  bool
}

func NewResource(id, capacity int) (Resource, error) {
	r := Resource{id: id, capacity: capacity, checked: true}
	if err := r.Validate(); err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (r Resource) ID() int       { return r.id }
func (r Resource) Capacity() int { return r.capacity }

func (r Resource) Validate() error {
	if !r.checked {
		return fmt.Errorf("%w: resource was not built with NewResource", ErrInvalidInput)
	}
	if r.capacity <= 0 {
		return fmt.Errorf("%w: resource %d: capacity must be > 0 (got %d)", ErrInvalidInput, r.id, r.capacity)
	}
	return nil
}

func (r Resource) String() string {
	return fmt.Sprintf("Resource %d (cap=%d)", r.id, r.capacity)
}

// Problem неизменяем после NewProblem и может разделяться между горутинами.
type Problem struct {
	jobs      []Job
	resources []Resource

	jobIdx map[int]int
	resIdx map[int]int
	// индекс работы-зависимости или -1
	depIdx []int
	// цепочка зависимостей работы i приводит в цикл
	cyclic   []bool
	hasCycle bool
}

func NewProblem(jobs []Job, resources []Resource) (*Problem, error) {
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: jobs must be > 0 (got 0)", ErrInvalidInput)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("%w: resources must be > 0 (got 0)", ErrInvalidInput)
	}

	p := &Problem{
		jobs:      append([]Job(nil), jobs...),
		resources: append([]Resource(nil), resources...),
		jobIdx:    make(map[int]int, len(jobs)),
		resIdx:    make(map[int]int, len(resources)),
		depIdx:    make([]int, len(jobs)),
		cyclic:    make([]bool, len(jobs)),
	}

	for i, j := range p.jobs {
		if err := j.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.jobIdx[j.id]; dup {
			return nil, fmt.Errorf("%w: duplicate job id %d", ErrInvalidInput, j.id)
		}
		p.jobIdx[j.id] = i
	}
	for i, r := range p.resources {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.resIdx[r.id]; dup {
			return nil, fmt.Errorf("%w: duplicate resource id %d", ErrInvalidInput, r.id)
		}
		p.resIdx[r.id] = i
	}
	for i, j := range p.jobs {
		p.depIdx[i] = -1
		if !j.hasDep {
			continue
		}
		d, ok := p.jobIdx[j.dep]
		if !ok {
			return nil, fmt.Errorf("%w: job %d depends on unknown job %d", ErrInvalidInput, j.id, j.dep)
		}
		p.depIdx[i] = d
	}
	p.markCycles()
	return p, nil
}

// markCycles помечает работы, чья цепочка зависимостей замыкается.
// У каждой работы не больше одной зависимости, поэтому достаточно
// пройти по цепочке с раскраской.
func (p *Problem) markCycles() {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(p.jobs))
	path := make([]int, 0, len(p.jobs))
	for start := range p.jobs {
		if color[start] != white {
			continue
		}
		path = path[:0]
		cur := start
		for cur >= 0 && color[cur] == white {
			color[cur] = grey
			path = append(path, cur)
			cur = p.depIdx[cur]
		}
		// Цепочка упёрлась в серую вершину — это цикл на текущем пути,
		// либо в уже обработанную: тогда наследуем её признак.
		bad := cur >= 0 && (color[cur] == grey || p.cyclic[cur])
		for _, v := range path {
			p.cyclic[v] = bad
			color[v] = black
		}
		if bad {
			p.hasCycle = true
		}
	}
}

func (p *Problem) NumJobs() int      { return len(p.jobs) }
func (p *Problem) NumResources() int { return len(p.resources) }

func (p *Problem) Job(i int) Job           { return p.jobs[i] }
func (p *Problem) Resource(i int) Resource { return p.resources[i] }

// Jobs возвращает копию списка работ в порядке задачи.
func (p *Problem) Jobs() []Job { return append([]Job(nil), p.jobs...) }

// Resources возвращает копию списка ресурсов в порядке задачи.
func (p *Problem) Resources() []Resource { return append([]Resource(nil), p.resources...) }

func (p *Problem) JobIndex(id int) (int, bool) {
	i, ok := p.jobIdx[id]
	return i, ok
}

func (p *Problem) ResourceIndex(id int) (int, bool) {
	i, ok := p.resIdx[id]
	return i, ok
}

// HasCycle сообщает, что хотя бы одна цепочка зависимостей замкнута;
// такая задача не имеет допустимых расписаний.
func (p *Problem) HasCycle() bool { return p.hasCycle }

func (p *Problem) InCycle(i int) bool { return p.cyclic[i] }

// executionOrder возвращает порядок работ, в котором солверы строят расписание.
// В ModePrecedence это устойчивая топологическая сортировка: из готовых работ
// всегда берётся первая по порядку задачи. Без зависимостей вперёд порядок
// совпадает с порядком задачи. Работы на цикле идут в конце.
func (p *Problem) executionOrder(mode Mode) []int {
	n := len(p.jobs)
	order := make([]int, 0, n)
	if mode != ModePrecedence {
		for i := range n {
			order = append(order, i)
		}
		return order
	}

	placed := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := range n {
			if placed[i] {
				continue
			}
			if d := p.depIdx[i]; d >= 0 && !placed[d] {
				continue
			}
			next = i
			break
		}
		if next < 0 {
			break
		}
		placed[next] = true
		order = append(order, next)
	}
	for i := range n {
		if !placed[i] {
			order = append(order, i)
		}
	}
	return order
}
