// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tideman

// Result carries every intermediate stage of a resolution.
type Result struct {
	Winner   int
	Nominees int
	Ballots  int
	Matrix   Matrix
	Pairs    []Pair
	Locked   Graph
}

// HasWinner reports whether the election produced a winner.
func (r Result) HasWinner() bool {
	return r.Winner != NoWinner
}

// Resolve runs Tally → RankPairs → Lock → Winner for n nominees.
// It is a deterministic function of its input.
func Resolve(ballots []Ballot, n int) Result {
	if n < 0 {
		n = 0
	}
	m := Tally(ballots, n)
	pairs := RankPairs(m)
	g := Lock(pairs, n)

	return Result{
		Winner:   Winner(g),
		Nominees: n,
		Ballots:  len(ballots),
		Matrix:   m,
		Pairs:    pairs,
		Locked:   g,
	}
}
