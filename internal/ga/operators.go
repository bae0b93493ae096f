package ga

import (
	"math"
	"math/rand"
)

// randomAssignment назначает каждой работе равновероятный ресурс.
func randomAssignment(g []int, resources int, rng *rand.Rand) {
	for i := range g {
		g[i] = rng.Intn(resources)
	}
}

// parentCount — число особей, сохраняемых усечённым отбором.
func parentCount(population int, fraction float64) int {
	n := int(math.Ceil(fraction * float64(population)))
	return min(max(n, 1), population)
}

// pickParents выбирает двух различных родителей из первых n
// отсортированных особей. Если родитель один, он используется дважды.
func pickParents(n int, rng *rand.Rand) (int, int) {
	if n < 2 {
		return 0, 0
	}
	a := rng.Intn(n)
	b := rng.Intn(n - 1)
	if b >= a {
		b++
	}
	return a, b
}

// onePointCrossover реализует одноточечный кроссовер с точкой разреза k в [1, len-1].
// c1 = p1[:k] + p2[k:], c2 = p2[:k] + p1[k:].
func onePointCrossover(p1, p2, c1, c2 []int, rng *rand.Rand) {
	n := len(p1)
	k := 1
	if n > 1 {
		k = 1 + rng.Intn(n-1)
	}
	k = min(k, n)
	copy(c1[:k], p1[:k])
	copy(c1[k:], p2[k:])
	copy(c2[:k], p2[:k])
	copy(c2[k:], p1[k:])
}

// mutateReassign переназначает одну случайную работу на случайный ресурс.
func mutateReassign(g []int, resources int, rng *rand.Rand) {
	if len(g) == 0 {
		return
	}
	i := rng.Intn(len(g))
	g[i] = rng.Intn(resources)
}
