package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jobSched/internal/bench"
	"jobSched/internal/opt"
	"jobSched/internal/sched"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	winStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	tieStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false)
)

// Problem prints jobs and resources of an instance.
func Problem(w io.Writer, title string, p *sched.Problem) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for _, j := range p.Jobs() {
		dep := "none"
		if d, ok := j.Dependency(); ok {
			dep = fmt.Sprintf("Job %d", d)
		}
		fmt.Fprintf(w, "  Job %d: processing time %d, dependency %s\n", j.ID(), j.ProcessingTime(), dep)
	}
	for _, r := range p.Resources() {
		fmt.Fprintf(w, "  Resource %d: capacity %d\n", r.ID(), r.Capacity())
	}
}

// Timeline prints the simulated timeline of a solver result.
func Timeline(w io.Writer, p *sched.Problem, res opt.Result, mode sched.Mode) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Schedule (%s)", res.Algorithm)))
	if !res.Feasible {
		fmt.Fprintln(w, failStyle.Render("  No valid schedule found."))
		return nil
	}
	tl, err := sched.SimulateMode(p, res.Schedule, mode)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Algorithm, err)
	}
	for _, e := range tl.Entries {
		fmt.Fprintf(w, "  Job %d on Resource %d  start %d  end %d  %s\n",
			e.JobID, e.ResourceID, e.Start, e.End, dimStyle.Render(bar(e.Start, e.End)))
	}
	fmt.Fprintf(w, "  Makespan: %d\n", tl.Makespan)
	return nil
}

func bar(start, end int) string {
	return strings.Repeat(" ", start) + strings.Repeat("#", end-start)
}

func winnerText(win bench.Winner) string {
	switch win {
	case bench.WinnerBacktracking:
		return winStyle.Render("Backtracking found the better schedule")
	case bench.WinnerGenetic:
		return winStyle.Render("Genetic found the better schedule")
	default:
		return tieStyle.Render("Both found equivalent schedules")
	}
}

// Comparison prints one instance outcome.
func Comparison(w io.Writer, c bench.Comparison) {
	fmt.Fprintf(w, "Instance %d: %s\n", c.Instance+1, winnerText(c.Winner))
	fmt.Fprintf(w, "  backtracking: %s in %s\n", outcome(c.Backtracking), c.BacktrackingDuration)
	fmt.Fprintf(w, "  genetic:      %s in %s\n", outcome(c.Genetic), c.GeneticDuration)
}

func outcome(r opt.Result) string {
	if !r.Feasible {
		return failStyle.Render("infeasible")
	}
	s := fmt.Sprintf("makespan %d", r.Makespan)
	if stopped, ok := r.Meta["stopped"]; ok {
		s += fmt.Sprintf(" (stopped: %v)", stopped)
	}
	return s
}

// Batch prints the aggregate of a batch comparison.
func Batch(w io.Writer, rep bench.BatchReport) {
	for _, c := range rep.Comparisons {
		Comparison(w, c)
	}
	fmt.Fprintln(w, sectionStyle.Render("FINAL RESULTS"))
	switch rep.Verdict {
	case bench.WinnerBacktracking:
		fmt.Fprintln(w, winStyle.Render("Overall winner: Backtracking"))
	case bench.WinnerGenetic:
		fmt.Fprintln(w, winStyle.Render("Overall winner: Genetic"))
	default:
		fmt.Fprintln(w, tieStyle.Render("Overall result: tie"))
	}
	fmt.Fprintf(w, "Backtracking wins: %d\n", rep.BacktrackingWins)
	fmt.Fprintf(w, "Genetic wins: %d\n", rep.GeneticWins)
	fmt.Fprintf(w, "Ties: %d\n", rep.Ties)
	fmt.Fprintf(w, "Avg backtracking time: %s (std %.3fms)\n", rep.AvgBacktracking, rep.BacktrackingTime.Std)
	fmt.Fprintf(w, "Avg genetic time: %s (std %.3fms)\n", rep.AvgGenetic, rep.GeneticTime.Std)
}
