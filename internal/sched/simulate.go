package sched

// Validate сообщает, допустимо ли расписание в режиме ModePresence.
func Validate(p *Problem, s Schedule) bool {
	return Check(p, s, ModePresence) == nil
}

// Check проверяет расписание и возвращает причину недопустимости.
func Check(p *Problem, s Schedule, mode Mode) error {
	e, err := NewEvaluator(p, mode)
	if err != nil {
		return err
	}
	order, assign, err := p.indices(s)
	if err != nil {
		return err
	}
	return e.Check(order, assign)
}

// Simulate строит временную диаграмму в режиме ModePresence.
// Функция чистая: одинаковые входы дают одинаковый результат.
func Simulate(p *Problem, s Schedule) (Timeline, error) {
	return SimulateMode(p, s, ModePresence)
}

func SimulateMode(p *Problem, s Schedule, mode Mode) (Timeline, error) {
	e, err := NewEvaluator(p, mode)
	if err != nil {
		return Timeline{}, err
	}
	order, assign, err := p.indices(s)
	if err != nil {
		return Timeline{}, err
	}
	return e.Timeline(order, assign)
}

// ScheduleOf переводит индексную форму обратно в идентификаторы.
func (p *Problem) ScheduleOf(order, assign []int) Schedule {
	s := make(Schedule, len(order))
	for k, j := range order {
		s[k] = Assignment{JobID: p.jobs[j].id, ResourceID: p.resources[assign[k]].id}
	}
	return s
}

func (p *Problem) indices(s Schedule) (order, assign []int, err error) {
	order = make([]int, len(s))
	assign = make([]int, len(s))
	for k, a := range s {
		j, ok := p.jobIdx[a.JobID]
		if !ok {
			return nil, nil, infeasible(ReasonUnknownJob, a.JobID)
		}
		r, ok := p.resIdx[a.ResourceID]
		if !ok {
			return nil, nil, infeasible(ReasonUnknownResource, a.ResourceID)
		}
		order[k], assign[k] = j, r
	}
	return order, assign, nil
}
