// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tideman

// NoWinner is returned when a graph has no undefeated nominee.
const NoWinner = -1

// Winner returns the lowest nominee id with no incoming locked edge,
// or NoWinner if there is none.
func Winner(g Graph) int {
	n := g.Size()
	for candidate := 0; candidate < n; candidate++ {
		if g.InDegree(candidate) == 0 {
			return candidate
		}
	}
	return NoWinner
}

// InDegree counts the locked edges pointing at node.
func (g Graph) InDegree(node int) int {
	if !g.contains(node) {
		return 0
	}
	count := 0
	for i := range g {
		if g[i][node] {
			count++
		}
	}
	return count
}
