// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tideman

// Graph is the locked preference graph: g[i][j] means i is locked ahead of j.
type Graph [][]bool

// NewGraph allocates an n×n graph with no edges.
func NewGraph(n int) Graph {
	if n < 0 {
		n = 0
	}
	g := make(Graph, n)
	cells := make([]bool, n*n)
	for i := range g {
		g[i], cells = cells[:n:n], cells[n:]
	}
	return g
}

// Size returns the number of nominees the graph covers.
func (g Graph) Size() int {
	return len(g)
}

// Lock walks pairs in order and locks each winner→loser edge unless the
// loser already reaches the winner, which would close a cycle.
// The returned graph is always acyclic.
func Lock(pairs []Pair, n int) Graph {
	g := NewGraph(n)
	visited := make([]bool, g.Size())
	queue := make([]int, 0, g.Size())

	for _, p := range pairs {
		if !g.contains(p.Winner) || !g.contains(p.Loser) || p.Winner == p.Loser {
			continue
		}
		if g.reaches(p.Loser, p.Winner, visited, queue) {
			continue
		}
		g[p.Winner][p.Loser] = true
	}

	return g
}

// HasCycle reports whether any directed cycle exists in g.
func (g Graph) HasCycle() bool {
	n := g.Size()
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g[i][j] {
				indegree[j]++
			}
		}
	}

	// Kahn's algorithm: every node is removed iff the graph is acyclic.
	queue := make([]int, 0, n)
	for i, d := range indegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	removed := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		removed++
		for j := 0; j < n; j++ {
			if !g[node][j] {
				continue
			}
			indegree[j]--
			if indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	return removed != n
}

func (g Graph) contains(node int) bool {
	return node >= 0 && node < g.Size()
}

// reaches runs a breadth-first search from `from` to `to` over locked edges.
// Each node is enqueued at most once so the search is bounded by n.
// visited and queue are caller-owned scratch buffers.
func (g Graph) reaches(from, to int, visited []bool, queue []int) bool {
	for i := range visited {
		visited[i] = false
	}
	queue = append(queue[:0], from)
	visited[from] = true

	for head := 0; head < len(queue); head++ {
		node := queue[head]
		if node == to {
			return true
		}
		for next, locked := range g[node] {
			if locked && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return false
}
