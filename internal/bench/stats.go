package bench

import "math"

type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcStats считает минимум, среднее и выборочное стандартное отклонение.
func CalcStats[T int | float64](values []T) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := float64(values[0])
	sum := 0.0
	for _, v := range values {
		if float64(v) < best {
			best = float64(v)
		}
		sum += float64(v)
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range values {
			d := float64(v) - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	s.Best = best
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
