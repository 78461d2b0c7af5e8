// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tideman

import "strconv"

// Ballot is one participant's ordering of nominee ids, most preferred first.
type Ballot []string

// Matrix holds pairwise preference counts: m[i][j] is the number of ballots
// ranking i strictly above j.
type Matrix [][]int

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) Matrix {
	if n < 0 {
		n = 0
	}
	m := make(Matrix, n)
	cells := make([]int, n*n)
	for i := range m {
		m[i], cells = cells[:n:n], cells[n:]
	}
	return m
}

// Size returns the number of nominees the matrix covers.
func (m Matrix) Size() int {
	return len(m)
}

// Tally builds the preference matrix for n nominees from a set of ballots.
// The result does not depend on the order ballots are processed in.
func Tally(ballots []Ballot, n int) Matrix {
	m := NewMatrix(n)
	seen := make([]bool, m.Size())

	for _, ballot := range ballots {
		ranked := ballotIndices(ballot, m.Size(), seen)
		for a := 0; a < len(ranked); a++ {
			for b := a + 1; b < len(ranked); b++ {
				m[ranked[a]][ranked[b]]++
			}
		}
	}

	return m
}

// ballotIndices parses a ballot into distinct in-range indices, keeping order.
// seen is scratch space of length n and is cleared before returning.
func ballotIndices(ballot Ballot, n int, seen []bool) []int {
	ranked := make([]int, 0, len(ballot))
	for _, entry := range ballot {
		idx, err := strconv.Atoi(entry)
		if err != nil || idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		ranked = append(ranked, idx)
	}
	for _, idx := range ranked {
		seen[idx] = false
	}
	return ranked
}
