package bt

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// bruteForce перебирает все |R|^|J| назначений.
func bruteForce(t *testing.T, p *sched.Problem, mode sched.Mode) (int, bool) {
	t.Helper()
	e, err := sched.NewEvaluator(p, mode)
	require.NoError(t, err)

	n, m := p.NumJobs(), p.NumResources()
	assign := make([]int, n)
	best, found := 0, false
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			if ms, err := e.Makespan(e.Order(), assign); err == nil && (!found || ms < best) {
				best, found = ms, true
			}
			return
		}
		for r := 0; r < m; r++ {
			assign[i] = r
			rec(i + 1)
		}
	}
	rec(0)
	return best, found
}

func TestScenarioA(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), scenarioA(t))
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.Equal(t, Name, res.Algorithm)
	assert.Equal(t, 4, res.Makespan)
	assert.True(t, res.Exhausted)
	assert.Equal(t, sched.Schedule{{JobID: 1, ResourceID: 1}, {JobID: 2, ResourceID: 1}, {JobID: 3, ResourceID: 2}}, res.Schedule)

	tl, err := sched.Simulate(scenarioA(t), res.Schedule)
	require.NoError(t, err)
	assert.Equal(t, res.Makespan, tl.Makespan)
}

func TestScenarioBInfeasible(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), problem(t, [][3]int{{1, 10, 0}}, []int{5}))
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.Nil(t, res.Schedule)
	assert.True(t, res.Exhausted)
}

func TestOptimalAgainstBruteForce(t *testing.T) {
	gen := sched.DefaultGenConfig()
	for seed := int64(1); seed <= 40; seed++ {
		gen.Jobs = 1 + int(seed%5)
		gen.Resources = 1 + int(seed%3)
		p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		for _, mode := range []sched.Mode{sched.ModePresence, sched.ModePrecedence} {
			cfg := DefaultConfig()
			cfg.Mode = mode
			s, err := New(cfg)
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), p)
			require.NoError(t, err)

			want, ok := bruteForce(t, p, mode)
			require.Equal(t, ok, res.Feasible, "seed %d", seed)
			if !ok {
				continue
			}
			assert.Equal(t, want, res.Makespan, "seed %d", seed)
			require.NoError(t, sched.Check(p, res.Schedule, mode))
		}
	}
}

func TestReturnedScheduleInvariants(t *testing.T) {
	gen := sched.DefaultGenConfig()
	gen.Jobs = 6
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	for seed := int64(100); seed < 110; seed++ {
		p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		res, err := s.Solve(context.Background(), p)
		require.NoError(t, err)
		if !res.Feasible {
			continue
		}

		require.Len(t, res.Schedule, p.NumJobs())
		seen := map[int]bool{}
		load := map[int]int{}
		for _, a := range res.Schedule {
			assert.False(t, seen[a.JobID])
			seen[a.JobID] = true
			ji, _ := p.JobIndex(a.JobID)
			ri, _ := p.ResourceIndex(a.ResourceID)
			load[a.ResourceID] += p.Job(ji).ProcessingTime()
			assert.LessOrEqual(t, load[a.ResourceID], p.Resource(ri).Capacity())
		}
		for _, j := range p.Jobs() {
			if dep, ok := j.Dependency(); ok {
				assert.True(t, seen[dep])
			}
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	gen := sched.DefaultGenConfig()
	gen.Jobs = 7
	gen.Resources = 3
	seq, err := New(DefaultConfig())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Workers = 4
	par, err := New(cfg)
	require.NoError(t, err)

	for seed := int64(1); seed <= 15; seed++ {
		p, err := sched.RandomProblem(gen, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		a, err := seq.Solve(context.Background(), p)
		require.NoError(t, err)
		b, err := par.Solve(context.Background(), p)
		require.NoError(t, err)

		assert.Equal(t, a.Feasible, b.Feasible, "seed %d", seed)
		assert.Equal(t, a.Makespan, b.Makespan, "seed %d", seed)
		assert.Equal(t, a.Schedule, b.Schedule, "seed %d", seed)
		assert.True(t, b.Exhausted)
	}
}

func TestNodeLimitReturnsBestSoFar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NodeLimit = 1
	s, err := New(cfg)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), scenarioA(t))
	require.NoError(t, err)
	assert.False(t, res.Exhausted)
	assert.Equal(t, "node_limit", res.Meta["stopped"])
	assert.False(t, res.Feasible)

	// С запасом хватает на первый лист: результат допустим, но поиск не завершён.
	cfg.NodeLimit = 5
	s, err = New(cfg)
	require.NoError(t, err)
	res, err = s.Solve(context.Background(), problem(t, [][3]int{{1, 1, 0}, {2, 1, 0}, {3, 1, 0}}, []int{9, 9}))
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.False(t, res.Exhausted)
}

func TestCancelledContext(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Solve(ctx, scenarioA(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeadlineMidSearchKeepsBestSoFar(t *testing.T) {
	// 24 работы на трёх просторных ресурсах: первый лист находится сразу,
	// полный перебор за отведённое время не успевает.
	jobs := make([][3]int, 24)
	for i := range jobs {
		jobs[i] = [3]int{i + 1, i + 1, 0}
	}
	p := problem(t, jobs, []int{1000, 1000, 1000})

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := s.Solve(ctx, p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.True(t, res.Feasible)
	assert.False(t, res.Exhausted)
	assert.Equal(t, "context", res.Meta["stopped"])
	assert.True(t, sched.Validate(p, res.Schedule))
	assert.GreaterOrEqual(t, res.Makespan, 100)
}

func TestCycleIsInfeasible(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), problem(t, [][3]int{{1, 1, 2}, {2, 1, 1}}, []int{10}))
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.Equal(t, "dependency_cycle", res.Meta["stopped"])
}

func TestPrecedenceModeReordersForwardDependency(t *testing.T) {
	// J1 зависит от J2, но стоит в задаче раньше.
	p := problem(t, [][3]int{{1, 2, 2}, {2, 2, 0}}, []int{10})

	s, err := New(DefaultConfig())
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, sched.Schedule{{JobID: 1, ResourceID: 1}, {JobID: 2, ResourceID: 1}}, res.Schedule)

	// В строгом режиме зависимость ставится первой.
	cfg := DefaultConfig()
	cfg.Mode = sched.ModePrecedence
	s, err = New(cfg)
	require.NoError(t, err)
	res, err = s.Solve(context.Background(), p)
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.True(t, res.Exhausted)
	assert.Equal(t, 4, res.Makespan)
	assert.Equal(t, sched.Schedule{{JobID: 2, ResourceID: 1}, {JobID: 1, ResourceID: 1}}, res.Schedule)
	assert.NoError(t, sched.Check(p, res.Schedule, sched.ModePrecedence))

	cfg.Workers = 2
	s, err = New(cfg)
	require.NoError(t, err)
	par, err := s.Solve(context.Background(), problem(t, [][3]int{{1, 2, 2}, {2, 2, 0}}, []int{10, 10}))
	require.NoError(t, err)
	require.True(t, par.Feasible)
	assert.Equal(t, 4, par.Makespan)
	assert.Equal(t, 2, par.Schedule[0].JobID)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"negative node limit", func(c *Config) { c.NodeLimit = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"unknown mode", func(c *Config) { c.Mode = "strictest" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}
