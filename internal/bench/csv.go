package bench

import (
	"encoding/csv"
	"os"
)

// WriteCSV сохраняет построчное сравнение экземпляров.
func WriteCSV(path string, rep BatchReport) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{
		"id", "instance", "jobs", "resources", "winner",
		"bt_feasible", "bt_makespan", "bt_time_ms", "bt_nodes",
		"ga_feasible", "ga_makespan", "ga_time_ms", "ga_evaluations",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, c := range rep.Comparisons {
		row := []string{
			c.ID,
			itoa(c.Instance),
			itoa(c.Jobs),
			itoa(c.Resources),
			string(c.Winner),

			btoa(c.Backtracking.Feasible),
			itoa(c.Backtracking.Makespan),
			ftoa(ms(c.BacktrackingDuration)),
			itoa(c.Backtracking.Iterations),

			btoa(c.Genetic.Feasible),
			itoa(c.Genetic.Makespan),
			ftoa(ms(c.GeneticDuration)),
			itoa(c.Genetic.Evaluations),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
