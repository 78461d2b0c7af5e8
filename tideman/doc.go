// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tideman resolves a ranked-pairs (Tideman) election.

# Pipeline

Resolution runs in four pure stages:

	m := tideman.Tally(ballots, n)   // pairwise preference counts
	pairs := tideman.RankPairs(m)    // every unordered pair, strongest margin first
	g := tideman.Lock(pairs, n)      // acyclic locked graph
	winner := tideman.Winner(g)      // the undefeated nominee

Or all at once:

	result := tideman.Resolve(ballots, n)

# Ballots

A ballot lists nominee ids ("0", "1", ...) from most to least preferred.
Ballots may be partial. Entries that are not integers, or fall outside
[0, n), are ignored. A repeated id only counts at its first position.

# Tie-breaking

Pairs with equal counts are emitted with the lower index as winner and a
zero margin. Pairs sharing a margin keep enumeration order (i ascending,
then j ascending), so resolution is deterministic for a given input.

# No Winner

With zero nominees there is nothing to resolve and Winner returns NoWinner.
None of the stages return errors.
*/
package tideman
