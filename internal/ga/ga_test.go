package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

func problem(t *testing.T, jobs [][3]int, caps []int) *sched.Problem {
	t.Helper()
	js := make([]sched.Job, len(jobs))
	for i, j := range jobs {
		var err error
		if j[2] > 0 {
			js[i], err = sched.NewDependentJob(j[0], j[1], j[2])
		} else {
			js[i], err = sched.NewJob(j[0], j[1])
		}
		require.NoError(t, err)
	}
	rs := make([]sched.Resource, len(caps))
	for i, c := range caps {
		var err error
		rs[i], err = sched.NewResource(i+1, c)
		require.NoError(t, err)
	}
	p, err := sched.NewProblem(js, rs)
	require.NoError(t, err)
	return p
}

func scenarioA(t *testing.T) *sched.Problem {
	return problem(t, [][3]int{{1, 3, 0}, {2, 1, 1}, {3, 4, 0}}, []int{6, 4})
}

func solve(t *testing.T, cfg Config, seed int64, p *sched.Problem) (opt.Result, error) {
	t.Helper()
	s, err := New(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return s.Solve(context.Background(), p)
}

func TestScenarioA(t *testing.T) {
	p := scenarioA(t)
	res, err := solve(t, DefaultConfig(), 1, p)
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.Equal(t, Name, res.Algorithm)
	assert.Equal(t, 4, res.Makespan)
	assert.False(t, res.Exhausted)

	tl, err := sched.Simulate(p, res.Schedule)
	require.NoError(t, err)
	assert.Equal(t, res.Makespan, tl.Makespan)
}

func TestScenarioBInfeasible(t *testing.T) {
	res, err := solve(t, DefaultConfig(), 1, problem(t, [][3]int{{1, 10, 0}}, []int{5}))
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.Nil(t, res.Schedule)
	// 50 начальных особей + по 40 потомков за каждое из 100 поколений.
	assert.Equal(t, 50+100*40, res.Evaluations)
}

func TestDeterministicWithSeed(t *testing.T) {
	gen := sched.DefaultGenConfig()
	gen.Jobs = 8
	p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	a, err := solve(t, DefaultConfig(), 99, p)
	require.NoError(t, err)
	b, err := solve(t, DefaultConfig(), 99, p)
	require.NoError(t, err)
	assert.Equal(t, a.Schedule, b.Schedule)
	assert.Equal(t, a.Makespan, b.Makespan)
	assert.Equal(t, a.Meta["history"], b.Meta["history"])

	// Число воркеров не влияет на результат.
	cfg := DefaultConfig()
	cfg.Workers = 4
	c, err := solve(t, cfg, 99, p)
	require.NoError(t, err)
	assert.Equal(t, a.Schedule, c.Schedule)
	assert.Equal(t, a.Meta["history"], c.Meta["history"])
}

func TestGlobalBestNonIncreasing(t *testing.T) {
	gen := sched.DefaultGenConfig()
	gen.Jobs = 10
	gen.Resources = 4
	for seed := int64(1); seed <= 5; seed++ {
		p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		res, err := solve(t, DefaultConfig(), seed, p)
		require.NoError(t, err)

		history, ok := res.Meta["history"].([]int)
		require.True(t, ok)
		require.Len(t, history, DefaultConfig().Generations)
		for i := 1; i < len(history); i++ {
			assert.LessOrEqual(t, history[i], history[i-1], "seed %d gen %d", seed, i)
		}
		if res.Feasible {
			assert.Equal(t, history[len(history)-1], res.Makespan)
		}
	}
}

func TestReturnedScheduleInvariants(t *testing.T) {
	gen := sched.DefaultGenConfig()
	gen.Jobs = 7
	for seed := int64(10); seed < 20; seed++ {
		p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		res, err := solve(t, DefaultConfig(), seed, p)
		require.NoError(t, err)
		if !res.Feasible {
			continue
		}
		require.Len(t, res.Schedule, p.NumJobs())
		for i, a := range res.Schedule {
			assert.Equal(t, p.Job(i).ID(), a.JobID)
		}
		assert.True(t, sched.Validate(p, res.Schedule))
	}
}

func TestSmallPopulations(t *testing.T) {
	p := scenarioA(t)
	for _, pop := range []int{1, 2, 3} {
		cfg := DefaultConfig()
		cfg.Population = pop
		cfg.Generations = 5
		_, err := solve(t, cfg, 7, p)
		require.NoError(t, err, "population %d", pop)
	}

	single := problem(t, [][3]int{{1, 2, 0}}, []int{5, 5})
	res, err := solve(t, DefaultConfig(), 1, single)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, 2, res.Makespan)
}

func TestPrecedenceModeReordersForwardDependency(t *testing.T) {
	// J1 зависит от J2, но стоит в задаче раньше.
	p := problem(t, [][3]int{{1, 2, 2}, {2, 2, 0}}, []int{10})
	cfg := DefaultConfig()
	cfg.Mode = sched.ModePrecedence

	res, err := solve(t, cfg, 1, p)
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.Equal(t, 4, res.Makespan)
	assert.Equal(t, sched.Schedule{{JobID: 2, ResourceID: 1}, {JobID: 1, ResourceID: 1}}, res.Schedule)
	assert.NoError(t, sched.Check(p, res.Schedule, sched.ModePrecedence))
}

func TestCancelledContextKeepsBest(t *testing.T) {
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Solve(ctx, scenarioA(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
	assert.Equal(t, 0, res.Iterations)
}

func TestOperators(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	p1 := []int{0, 0, 0, 0}
	p2 := []int{1, 1, 1, 1}
	c1 := make([]int, 4)
	c2 := make([]int, 4)
	for i := 0; i < 20; i++ {
		onePointCrossover(p1, p2, c1, c2, rng)
		k := 0
		for k < 4 && c1[k] == 0 {
			k++
		}
		assert.GreaterOrEqual(t, k, 1)
		assert.LessOrEqual(t, k, 3)
		for j := 0; j < 4; j++ {
			assert.Equal(t, 1-c1[j], c2[j])
		}
	}

	one1, one2 := []int{0}, []int{1}
	o1, o2 := make([]int, 1), make([]int, 1)
	onePointCrossover(one1, one2, o1, o2, rng)
	assert.Equal(t, []int{0}, o1)
	assert.Equal(t, []int{1}, o2)

	g := []int{2, 2, 2, 2, 2}
	mutateReassign(g, 2, rng)
	changed := 0
	for _, v := range g {
		if v != 2 {
			changed++
			assert.Less(t, v, 2)
		}
	}
	assert.Equal(t, 1, changed)

	assert.Equal(t, 10, parentCount(50, 0.2))
	assert.Equal(t, 1, parentCount(3, 0.2))
	assert.Equal(t, 3, parentCount(11, 0.2))

	for i := 0; i < 50; i++ {
		a, b := pickParents(3, rng)
		assert.NotEqual(t, a, b)
	}
	a, b := pickParents(1, rng)
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero population", func(c *Config) { c.Population = 0 }},
		{"zero generations", func(c *Config) { c.Generations = 0 }},
		{"crossover above one", func(c *Config) { c.CrossoverRate = 1.5 }},
		{"negative mutation", func(c *Config) { c.MutationRate = -0.1 }},
		{"zero parent fraction", func(c *Config) { c.ParentFraction = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"unknown mode", func(c *Config) { c.Mode = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cfg, rand.New(rand.NewSource(1)))
			assert.Error(t, err)
		})
	}

	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}
