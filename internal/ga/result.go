package ga

import (
	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

// ToOptResult переводит лучшую особь в расписание; order — порядок работ,
// которому соответствуют позиции генома.
func ToOptResult(inst *sched.Problem, order, bestGenome []int, bestFitness, evals, gens int, meta map[string]any) opt.Result {
	res := opt.Result{
		Algorithm:   Name,
		Evaluations: evals,
		Iterations:  gens,
		Meta:        meta,
	}
	if bestFitness == sched.Infeasible {
		return res
	}
	res.Feasible = true
	res.Makespan = bestFitness
	res.Schedule = inst.ScheduleOf(order, bestGenome)
	return res
}
