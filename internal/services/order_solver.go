package services

import (
	"fmt"
	"math"
)

// MaxExactPlaces bounds the input of SolveOrder, base included.
const MaxExactPlaces = 16

// OrderSolution is a closed tour starting and ending at the base.
type OrderSolution struct {
	// Order holds indices into the input places, base first and last.
	Order []int
	// Route is Order mapped to place names.
	Route    []string
	Distance float64
}

// SolveOrder finds the shortest closed tour over places, starting at
// places[0], using Held-Karp dynamic programming. matrix[i][j] is the distance
// from place i to place j; math.Inf(1) marks an unreachable pair.
// Opening hours are not considered.
//
// dp[mask][j] is the cheapest path that starts at the base, visits exactly the
// places in mask (which always contains the base) and ends at j.
func SolveOrder(places []string, matrix [][]float64) (OrderSolution, error) {
	n := len(places)
	if n == 0 {
		return OrderSolution{}, fmt.Errorf("solve order: no places: %w", ErrInvalidInput)
	}
	if n > MaxExactPlaces {
		return OrderSolution{}, fmt.Errorf("solve order: %d places, limit %d: %w", n, MaxExactPlaces, ErrTooManyPlaces)
	}
	if len(matrix) != n {
		return OrderSolution{}, fmt.Errorf("solve order: matrix has %d rows, want %d: %w", len(matrix), n, ErrInvalidInput)
	}
	for i, row := range matrix {
		if len(row) != n {
			return OrderSolution{}, fmt.Errorf("solve order: row %d has %d columns, want %d: %w", i, len(row), n, ErrInvalidInput)
		}
	}

	if n == 1 {
		return OrderSolution{Order: []int{0, 0}, Route: []string{places[0], places[0]}}, nil
	}

	full := 1<<n - 1
	dp := make([][]float64, 1<<n)
	parent := make([][]int, 1<<n)
	for mask := range dp {
		if mask&1 == 0 {
			continue
		}
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := range dp[mask] {
			dp[mask][j] = math.Inf(1)
			parent[mask][j] = -1
		}
	}
	dp[1][0] = 0

	for mask := 1; mask <= full; mask += 2 {
		for j := 1; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			prev := mask ^ (1 << j)
			for k := 0; k < n; k++ {
				if prev&(1<<k) == 0 || math.IsInf(dp[prev][k], 1) {
					continue
				}
				c := matrix[k][j]
				if math.IsInf(c, 1) {
					continue
				}
				if cand := dp[prev][k] + c; cand < dp[mask][j] {
					dp[mask][j] = cand
					parent[mask][j] = k
				}
			}
		}
	}

	best := math.Inf(1)
	last := -1
	for j := 1; j < n; j++ {
		c := matrix[j][0]
		if math.IsInf(c, 1) || math.IsInf(dp[full][j], 1) {
			continue
		}
		if total := dp[full][j] + c; total < best {
			best = total
			last = j
		}
	}
	if last < 0 {
		return OrderSolution{}, fmt.Errorf("solve order: %w", ErrIncompleteMatrix)
	}

	order := make([]int, n+1)
	mask, j := full, last
	for i := n - 1; i >= 1; i-- {
		order[i] = j
		p := parent[mask][j]
		mask ^= 1 << j
		j = p
	}

	route := make([]string, len(order))
	for i, idx := range order {
		route[i] = places[idx]
	}

	return OrderSolution{Order: order, Route: route, Distance: best}, nil
}
