// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tideman

import "sort"

// Pair is a pairwise comparison between two nominees.
// Margin is never negative.
type Pair struct {
	Winner int `json:"winner"`
	Loser  int `json:"loser"`
	Margin int `json:"margin"`
}

// RankPairs derives one Pair per unordered nominee pair, n·(n−1)/2 in total,
// sorted by descending margin. Equal margins keep enumeration order.
func RankPairs(m Matrix) []Pair {
	n := m.Size()
	pairs := make([]Pair, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ij, ji := m[i][j], m[j][i]
			switch {
			case ij > ji:
				pairs = append(pairs, Pair{Winner: i, Loser: j, Margin: ij - ji})
			case ji > ij:
				pairs = append(pairs, Pair{Winner: j, Loser: i, Margin: ji - ij})
			default:
				// Lower index takes the tie.
				pairs = append(pairs, Pair{Winner: i, Loser: j, Margin: 0})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Margin > pairs[b].Margin
	})

	return pairs
}
