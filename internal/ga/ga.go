package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

const Name = "genetic"

// Solver — реализация генетического алгоритма для задачи назначения работ.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — реализация эвристики. Особь — ресурс для каждой работы
// в порядке оценщика (порядок задачи, в строгом режиме зависимости идут
// раньше); лучшая особь отслеживается по всем поколениям.
func (s *Solver) Solve(ctx context.Context, inst *sched.Problem) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
	if inst == nil {
		return opt.Result{}, fmt.Errorf("%w: problem is nil", sched.ErrInvalidInput)
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// По одному оценщику на воркер: у оценщика внутренние буферы
	evals := make([]*sched.Evaluator, s.Cfg.Workers)
	for w := range evals {
		e, err := sched.NewEvaluator(inst, s.Cfg.Mode)
		if err != nil {
			return opt.Result{}, err
		}
		evals[w] = e
	}

	// Позиции генома соответствуют порядку оценщика
	order := evals[0].Order()
	jobs := inst.NumJobs()
	resources := inst.NumResources()
	popSize := s.Cfg.Population
	nParents := parentCount(popSize, s.Cfg.ParentFraction)

	// Вспомогательная анонимная функция для создания двумерного массива особей
	makePop := func() [][]int {
		backing := make([]int, popSize*jobs)
		pop := make([][]int, popSize)
		for i := 0; i < popSize; i++ {
			pop[i] = backing[i*jobs : (i+1)*jobs]
		}
		return pop
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makePop()
	popB := makePop()
	scoresA := make([]int, popSize)
	scoresB := make([]int, popSize)

	// Инициализация начальной популяции
	for i := 0; i < popSize; i++ {
		randomAssignment(popA[i], resources, s.Rng)
	}
	if err := s.evaluate(ctx, evals, popA, scoresA, 0); err != nil {
		return opt.Result{}, err
	}
	evaluations := popSize

	// Поиск лучшего решения в начальной популяции
	bestGenome := make([]int, jobs)
	bestFitness := sched.Infeasible
	for i := 0; i < popSize; i++ {
		if scoresA[i] < bestFitness {
			bestFitness = scoresA[i]
			copy(bestGenome, popA[i])
		}
	}

	history := make([]int, 0, s.Cfg.Generations)
	meta := func() map[string]any {
		return map[string]any{
			"population":  s.Cfg.Population,
			"generations": s.Cfg.Generations,
			"parents":     nParents,
			"mode":        string(s.Cfg.Mode),
			"history":     append([]int(nil), history...),
		}
	}

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make([]int, jobs)

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)

	for gen := 0; gen < s.Cfg.Generations; gen++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			m := meta()
			m["stopped"] = "context"
			res := ToOptResult(inst, order, bestGenome, bestFitness, evaluations, gen, m)
			res.Duration = time.Since(start)
			return res, err
		}

		// Сортировка по возрастанию значения целевой функции; при равенстве
		// сохраняется порядок особей в популяции
		for i := range idxs {
			idxs[i] = i
		}
		sort.SliceStable(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Усечённый отбор: лучшие особи переходят без изменений и становятся родителями
		for e := 0; e < nParents; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}
		offspringFrom := write

		// Генерация остальных особей нового поколения
		for write < popSize {
			a, b := pickParents(nParents, s.Rng)
			p1, p2 := popA[idxs[a]], popA[idxs[b]]

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				onePointCrossover(p1, p2, child1, child2, s.Rng)
			} else {
				copy(child1, p1)
				copy(child2, p2)
			}

			// Мутация
			if s.Rng.Float64() < s.Cfg.MutationRate {
				mutateReassign(child1, resources, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < s.Cfg.MutationRate {
				mutateReassign(child2, resources, s.Rng)
			}

			write++
			if hasSecond {
				write++
			}
		}

		// Оценка потомков; барьер перед следующим отбором
		if err := s.evaluate(ctx, evals, popB, scoresB, offspringFrom); err != nil {
			return opt.Result{}, err
		}
		evaluations += popSize - offspringFrom

		for i := offspringFrom; i < popSize; i++ {
			if scoresB[i] < bestFitness {
				bestFitness = scoresB[i]
				copy(bestGenome, popB[i])
			}
		}
		history = append(history, bestFitness)

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA
	}

	res := ToOptResult(inst, order, bestGenome, bestFitness, evaluations, s.Cfg.Generations, meta())
	res.Duration = time.Since(start)
	return res, nil
}

// evaluate считает приспособленность особей pop[from:]. Приспособленность —
// чистая функция особи, поэтому при нескольких воркерах особи делятся
// по индексу и каждый воркер использует свой оценщик.
func (s *Solver) evaluate(ctx context.Context, evals []*sched.Evaluator, pop [][]int, scores []int, from int) error {
	if len(evals) == 1 {
		for i := from; i < len(pop); i++ {
			scores[i] = evals[0].Fitness(pop[i])
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	for w, e := range evals {
		g.Go(func() error {
			for i := from + w; i < len(pop); i += len(evals) {
				scores[i] = e.Fitness(pop[i])
			}
			return nil
		})
	}
	return g.Wait()
}
