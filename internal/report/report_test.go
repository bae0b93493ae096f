package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobSched/internal/bench"
	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

func scenarioA(t *testing.T) *sched.Problem {
	t.Helper()
	j1, _ := sched.NewJob(1, 3)
	j2, _ := sched.NewDependentJob(2, 1, 1)
	j3, _ := sched.NewJob(3, 4)
	r1, _ := sched.NewResource(1, 6)
	r2, _ := sched.NewResource(2, 4)
	p, err := sched.NewProblem([]sched.Job{j1, j2, j3}, []sched.Resource{r1, r2})
	require.NoError(t, err)
	return p
}

func TestProblem(t *testing.T) {
	var buf bytes.Buffer
	Problem(&buf, "Instance 1", scenarioA(t))
	out := buf.String()
	assert.Contains(t, out, "Job 2: processing time 1, dependency Job 1")
	assert.Contains(t, out, "Job 1: processing time 3, dependency none")
	assert.Contains(t, out, "Resource 2: capacity 4")
}

func TestTimeline(t *testing.T) {
	p := scenarioA(t)
	res := opt.Result{
		Algorithm: "backtracking",
		Feasible:  true,
		Makespan:  4,
		Schedule:  sched.Schedule{{JobID: 1, ResourceID: 1}, {JobID: 2, ResourceID: 1}, {JobID: 3, ResourceID: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, Timeline(&buf, p, res, sched.ModePresence))
	out := buf.String()
	assert.Contains(t, out, "Job 2 on Resource 1  start 3  end 4")
	assert.Contains(t, out, "Makespan: 4")

	buf.Reset()
	require.NoError(t, Timeline(&buf, p, opt.Result{Algorithm: "genetic"}, sched.ModePresence))
	assert.Contains(t, buf.String(), "No valid schedule found.")

	res.Schedule = sched.Schedule{{JobID: 1, ResourceID: 2}, {JobID: 2, ResourceID: 2}, {JobID: 3, ResourceID: 2}}
	assert.Error(t, Timeline(&buf, p, res, sched.ModePresence))
}

func TestBatch(t *testing.T) {
	rep := bench.BatchReport{
		Comparisons: []bench.Comparison{
			{Instance: 0, Winner: bench.WinnerGenetic, Genetic: opt.Result{Feasible: true, Makespan: 5}},
			{Instance: 1, Winner: bench.WinnerTie},
		},
		GeneticWins:     1,
		Ties:            1,
		AvgBacktracking: 2 * time.Millisecond,
		AvgGenetic:      time.Millisecond,
		Verdict:         bench.WinnerGenetic,
	}
	var buf bytes.Buffer
	Batch(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "Instance 1: ")
	assert.Contains(t, out, "Genetic found the better schedule")
	assert.Contains(t, out, "Both found equivalent schedules")
	assert.Contains(t, out, "Overall winner: Genetic")
	assert.Contains(t, out, "Genetic wins: 1")
	assert.Contains(t, out, "makespan 5")
}
