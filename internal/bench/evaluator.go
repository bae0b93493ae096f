package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobSched/internal/logging"
	"jobSched/internal/metrics"
	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) (opt.Optimizer, error)
}

type Winner string

const (
	WinnerTie          Winner = "tie"
	WinnerBacktracking Winner = "backtracking"
	WinnerGenetic      Winner = "genetic"
)

// Classify сравнивает результаты двух солверов на одном экземпляре.
// Недопустимый результат хуже любого допустимого.
func Classify(backtracking, genetic opt.Result) Winner {
	switch {
	case backtracking.Better(genetic):
		return WinnerBacktracking
	case genetic.Better(backtracking):
		return WinnerGenetic
	default:
		return WinnerTie
	}
}

type Comparison struct {
	ID        string
	Instance  int
	Jobs      int
	Resources int
	Winner    Winner

	Backtracking         opt.Result
	Genetic              opt.Result
	BacktrackingDuration time.Duration
	GeneticDuration      time.Duration
}

type BatchReport struct {
	Comparisons []Comparison

	BacktrackingWins int
	GeneticWins      int
	Ties             int

	AvgBacktracking time.Duration
	AvgGenetic      time.Duration
	// Статистика времени в миллисекундах.
	BacktrackingTime Stats
	GeneticTime      Stats

	Verdict Winner
}

// Evaluator запускает оба солвера на одних и тех же экземплярах.
// Солверы создаются заново на каждый запуск и не делят изменяемого состояния.
type Evaluator struct {
	Backtracking Algorithm
	Genetic      Algorithm
	// Экземпляр i запускается с сидом BaseSeed+i.
	BaseSeed int64
	// Concurrent запускает оба солвера одновременно.
	Concurrent bool
	// PerRunTimeout — таймаут одного запуска; 0 — без ограничения.
	// По таймауту солвер возвращает лучшее найденное расписание.
	PerRunTimeout time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}

func (e *Evaluator) Compare(ctx context.Context, inst *sched.Problem) (Comparison, error) {
	return e.compareAt(ctx, inst, 0)
}

func (e *Evaluator) compareAt(ctx context.Context, inst *sched.Problem, i int) (Comparison, error) {
	if inst == nil {
		return Comparison{}, fmt.Errorf("%w: problem is nil", sched.ErrInvalidInput)
	}
	seed := e.BaseSeed + int64(i)
	c := Comparison{
		ID:        uuid.NewString(),
		Instance:  i,
		Jobs:      inst.NumJobs(),
		Resources: inst.NumResources(),
	}

	runBT := func() error {
		res, dur, err := e.run(ctx, e.Backtracking, seed, inst)
		c.Backtracking, c.BacktrackingDuration = res, dur
		return err
	}
	runGA := func() error {
		res, dur, err := e.run(ctx, e.Genetic, seed, inst)
		c.Genetic, c.GeneticDuration = res, dur
		return err
	}

	if e.Concurrent {
		g := new(errgroup.Group)
		g.Go(runBT)
		g.Go(runGA)
		if err := g.Wait(); err != nil {
			return Comparison{}, err
		}
	} else {
		if err := runBT(); err != nil {
			return Comparison{}, err
		}
		if err := runGA(); err != nil {
			return Comparison{}, err
		}
	}

	c.Winner = Classify(c.Backtracking, c.Genetic)
	e.Metrics.ObserveComparison(string(c.Winner))
	e.logger().Debug("instance compared",
		"id", c.ID,
		"instance", i,
		"winner", string(c.Winner),
		"backtracking_makespan", makespanAttr(c.Backtracking),
		"genetic_makespan", makespanAttr(c.Genetic),
		"backtracking_ms", ms(c.BacktrackingDuration),
		"genetic_ms", ms(c.GeneticDuration),
	)
	return c, nil
}

func (e *Evaluator) run(ctx context.Context, algo Algorithm, seed int64, inst *sched.Problem) (opt.Result, time.Duration, error) {
	if algo.Factory == nil {
		return opt.Result{}, 0, fmt.Errorf("algorithm %q: factory is nil", algo.Name)
	}
	op, err := algo.Factory(seed)
	if err != nil {
		return opt.Result{}, 0, fmt.Errorf("algorithm %q: %w", algo.Name, err)
	}

	runCtx := ctx
	cancel := func() {}
	if e.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.PerRunTimeout)
	}
	start := time.Now()
	res, err := op.Solve(runCtx, inst)
	dur := time.Since(start)
	cancel()

	// Таймаут одного запуска не ошибка: берём лучшее найденное.
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		e.logger().Warn("solver run timed out", "algorithm", algo.Name, "timeout", e.PerRunTimeout)
		err = nil
	}
	if err != nil {
		e.Metrics.ObserveRun(algo.Name, "error", dur.Seconds(), 0, 0)
		return opt.Result{}, dur, fmt.Errorf("algorithm %q: %w", algo.Name, err)
	}
	if res.Algorithm == "" {
		res.Algorithm = algo.Name
	}

	outcome := "infeasible"
	if res.Feasible {
		outcome = "feasible"
		if len(res.Schedule) != inst.NumJobs() {
			return opt.Result{}, dur, fmt.Errorf("algorithm %q: invalid schedule length %d (want %d)", algo.Name, len(res.Schedule), inst.NumJobs())
		}
	}
	e.Metrics.ObserveRun(algo.Name, outcome, dur.Seconds(), res.Makespan, res.Evaluations)
	return res, dur, nil
}

// CompareBatch сравнивает солверы на каждом экземпляре и подводит итог:
// побеждает солвер со строго большим числом побед, иначе ничья.
// При отмене ctx возвращает итог по уже сравнённым экземплярам вместе с ошибкой.
func (e *Evaluator) CompareBatch(ctx context.Context, insts []*sched.Problem) (BatchReport, error) {
	if len(insts) == 0 {
		return BatchReport{}, errors.New("empty batch")
	}

	rep := BatchReport{Comparisons: make([]Comparison, 0, len(insts))}
	for i, inst := range insts {
		c, err := e.compareAt(ctx, inst, i)
		if err != nil {
			err = fmt.Errorf("instance %d: %w", i, err)
			if ctx.Err() != nil && len(rep.Comparisons) > 0 {
				e.summarize(&rep)
				e.logger().Warn("batch interrupted",
					"compared", len(rep.Comparisons),
					"instances", len(insts),
				)
				return rep, err
			}
			return BatchReport{}, err
		}
		rep.Comparisons = append(rep.Comparisons, c)
	}

	e.summarize(&rep)
	e.logger().Info("batch compared",
		"instances", len(insts),
		"backtracking_wins", rep.BacktrackingWins,
		"genetic_wins", rep.GeneticWins,
		"ties", rep.Ties,
		"verdict", string(rep.Verdict),
	)
	return rep, nil
}

// summarize считает победы, время и вердикт по rep.Comparisons.
func (e *Evaluator) summarize(rep *BatchReport) {
	n := len(rep.Comparisons)
	btMs := make([]float64, 0, n)
	gaMs := make([]float64, 0, n)
	var btTotal, gaTotal time.Duration

	for _, c := range rep.Comparisons {
		switch c.Winner {
		case WinnerBacktracking:
			rep.BacktrackingWins++
		case WinnerGenetic:
			rep.GeneticWins++
		default:
			rep.Ties++
		}
		btTotal += c.BacktrackingDuration
		gaTotal += c.GeneticDuration
		btMs = append(btMs, ms(c.BacktrackingDuration))
		gaMs = append(gaMs, ms(c.GeneticDuration))
	}

	rep.AvgBacktracking = btTotal / time.Duration(n)
	rep.AvgGenetic = gaTotal / time.Duration(n)
	rep.BacktrackingTime = CalcStats(btMs)
	rep.GeneticTime = CalcStats(gaMs)

	switch {
	case rep.BacktrackingWins > rep.GeneticWins:
		rep.Verdict = WinnerBacktracking
	case rep.GeneticWins > rep.BacktrackingWins:
		rep.Verdict = WinnerGenetic
	default:
		rep.Verdict = WinnerTie
	}
}

func makespanAttr(r opt.Result) any {
	if !r.Feasible {
		return "infeasible"
	}
	return r.Makespan
}
