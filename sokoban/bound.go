package sokoban

// LowerBound computes h(S), the minimum-cost perfect bipartite matching
// of boxes to goals with edge cost PushDist[box][goal] (§4.6). It
// returns (bound, true) when a perfect matching exists, or (0, false)
// when it does not — the caller treats the latter as both a deadlock
// verdict (overlapping C5.bipartite) and h = +∞.
//
// Admissible by construction: PushDist ignores other boxes (so each
// edge cost already under-estimates the true cost of moving that one
// box in the presence of the others) and the matching assigns each box
// to a distinct goal, so the sum never overstates the true minimum
// pushes-to-goal.
func LowerBound(b *Board, boxes BoxSet) (bound int, ok bool) {
	if !HasPerfectMatching(b, boxes) {
		return 0, false
	}
	cells := boxes.Cells()
	n := len(cells)
	cost := make([][]int32, n)
	for i, cellv := range cells {
		fi := b.floorIndex[cellv]
		row := make([]int32, n)
		for j, goal := range b.GoalCells {
			gi := b.floorIndex[goal]
			d := b.PushDist[fi][gi]
			if d == unreachable {
				row[j] = unreachableCost
			} else {
				row[j] = d
			}
		}
		cost[i] = row
	}
	_, total, feasible := HungarianAssignment(cost)
	if !feasible {
		return 0, false
	}
	return int(total), true
}

// HasPerfectMatching is the cheap existence-only check (§4.6's "use
// Hopcroft-Karp first"), shared by C5.bipartite and as a fast
// short-circuit before the more expensive Hungarian pass in LowerBound.
func HasPerfectMatching(b *Board, boxes BoxSet) bool {
	cells := boxes.Cells()
	n := len(cells)
	adjacency := make([][]int, n)
	for i, cellv := range cells {
		fi := b.floorIndex[cellv]
		for j, goal := range b.GoalCells {
			gi := b.floorIndex[goal]
			if b.PushDist[fi][gi] != unreachable {
				adjacency[i] = append(adjacency[i], j)
			}
		}
	}
	_, perfect := HopcroftKarp(adjacency, len(b.GoalCells))
	return perfect
}
