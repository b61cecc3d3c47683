package sokoban

import "math"

// Contract: boxes and goals are both dense integer ranges [0, len); an
// edge (i, j) exists iff adjacency[i] contains j, with adjacency built
// in ascending j order so results are deterministic regardless of map
// iteration (grounded on katalvlaran-lvlath/builder/impl_bipartite.go's
// "explicit partitions, deterministic edge emission order" convention —
// no pack example ships Hopcroft-Karp or the Hungarian algorithm, so both
// are hand-written here; see DESIGN.md).
//
// Complexity: HopcroftKarp is O(E*sqrt(V)); HungarianAssignment is
// O(V^3).
//
// Determinism: both return the same matching/assignment for the same
// adjacency/cost input, independent of map iteration order, since
// neither touches a Go map internally.

const noMatch = -1

// HopcroftKarp finds a maximum matching between the left and right
// partitions given adjacency (left index -> sorted right indices) and
// reports whether it is perfect (covers every left and right vertex,
// which requires len(adjacency) == numRight). Used as a cheap existence
// check before the more expensive cost-minimizing Hungarian pass (§4.6).
func HopcroftKarp(adjacency [][]int, numRight int) (matchLeft []int, perfect bool) {
	numLeft := len(adjacency)
	matchLeft = make([]int, numLeft)
	matchRight := make([]int, numRight)
	for i := range matchLeft {
		matchLeft[i] = noMatch
	}
	for i := range matchRight {
		matchRight[i] = noMatch
	}

	dist := make([]int, numLeft)
	const infDist = math.MaxInt32

	bfs := func() bool {
		queue := make([]int, 0, numLeft)
		for u := 0; u < numLeft; u++ {
			if matchLeft[u] == noMatch {
				dist[u] = 0
				queue = append(queue, u)
			} else {
				dist[u] = infDist
			}
		}
		found := false
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			for _, v := range adjacency[u] {
				w := matchRight[v]
				if w == noMatch {
					found = true
					continue
				}
				if dist[w] == infDist {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
			}
		}
		return found
	}

	var dfs func(u int) bool
	dfs = func(u int) bool {
		for _, v := range adjacency[u] {
			w := matchRight[v]
			if w == noMatch || (dist[w] == dist[u]+1 && dfs(w)) {
				matchLeft[u] = v
				matchRight[v] = u
				return true
			}
		}
		dist[u] = infDist
		return false
	}

	matched := 0
	for bfs() {
		for u := 0; u < numLeft; u++ {
			if matchLeft[u] == noMatch && dfs(u) {
				matched++
			}
		}
	}
	perfect = matched == numLeft && numLeft == numRight
	return matchLeft, perfect
}

// unreachableCost marks an absent edge in a cost matrix passed to
// HungarianAssignment.
const unreachableCost = math.MaxInt32 / 4

// HungarianAssignment solves the minimum-cost perfect assignment on a
// square cost matrix (rows = boxes, cols = goals), returning
// assignment[row] = col and the total cost. ok is false when no perfect
// assignment exists (some row has every entry at unreachableCost or
// above). Implements the O(n^3) Jonker-Volgenant-style potential method.
func HungarianAssignment(cost [][]int32) (assignment []int, total int64, ok bool) {
	n := len(cost)
	if n == 0 {
		return nil, 0, true
	}
	const inf = int64(1) << 40

	u := make([]int64, n+1)
	v := make([]int64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				c := int64(cost[i0-1][j-1]) - u[i0] - v[j]
				if c < minv[j] {
					minv[j] = c
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment = make([]int, n)
	total = 0
	for j := 1; j <= n; j++ {
		if p[j] == 0 {
			return nil, 0, false
		}
		row := p[j] - 1
		col := j - 1
		assignment[row] = col
		c := cost[row][col]
		if int64(c) >= unreachableCost {
			return nil, 0, false
		}
		total += int64(c)
	}
	return assignment, total, true
}
