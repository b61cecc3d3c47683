package sokoban

import "time"

// DeadlockVerdict is C5's per-subtest and overall result.
type DeadlockVerdict int

const (
	MaybeLive DeadlockVerdict = iota
	Deadlock
)

// WhichTest names the subtest that produced a DEADLOCK verdict, used in
// ProvenUnsolvable{reason} (§6).
type WhichTest int

const (
	TestNone WhichTest = iota
	TestSimple
	TestFreeze
	TestClosedDiagonal
	TestBipartite
	TestCorral
)

func (w WhichTest) String() string {
	switch w {
	case TestSimple:
		return "simple"
	case TestFreeze:
		return "freeze"
	case TestClosedDiagonal:
		return "closed_diagonal"
	case TestBipartite:
		return "bipartite"
	case TestCorral:
		return "corral"
	}
	return "none"
}

// subtest is the plug-in interface each deadlock test implements,
// generalizing the teacher's Constraint/iconstraint split
// (solve/constraints.go) from "mutate search" to "veto a candidate
// state" (SPEC_FULL.md §4.5).
type subtest interface {
	name() WhichTest
	check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict
}

// DeadlockConfig toggles which subtests run; disabling one weakens
// completeness only, never correctness (§4.5).
type DeadlockConfig struct {
	DetectSimple         bool
	DetectFreeze         bool
	DetectClosedDiagonal bool
	DetectBipartite      bool
	DetectCorral         bool
}

// DefaultDeadlockConfig enables every subtest.
func DefaultDeadlockConfig() DeadlockConfig {
	return DeadlockConfig{true, true, true, true, true}
}

// CheckDeadlock runs the enabled subtests in the §4.5 order, short
// circuiting on the first DEADLOCK. forward selects the simple-deadlock
// table variant (forward vs backward search).
func CheckDeadlock(b *Board, cfg DeadlockConfig, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) (DeadlockVerdict, WhichTest) {
	tests := []struct {
		enabled bool
		t       subtest
	}{
		{cfg.DetectSimple, simpleSubtest{}},
		{cfg.DetectFreeze, freezeSubtest{}},
		{cfg.DetectClosedDiagonal, closedDiagonalSubtest{}},
		{cfg.DetectBipartite, bipartiteSubtest{}},
		{cfg.DetectCorral, corralSubtest{}},
	}
	for _, e := range tests {
		if !e.enabled {
			continue
		}
		if time.Now().After(deadline) {
			return MaybeLive, TestNone
		}
		if e.t.check(b, boxes, region, pushedTo, forward, deadline) == Deadlock {
			return Deadlock, e.t.name()
		}
	}
	return MaybeLive, TestNone
}

// --- 1. Simple ---

type simpleSubtest struct{}

func (simpleSubtest) name() WhichTest { return TestSimple }

func (simpleSubtest) check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict {
	table := b.SimpleDeadlockForward
	if !forward {
		table = b.SimpleDeadlockBackward
	}
	if table[pushedTo] {
		return Deadlock
	}
	return MaybeLive
}

// --- 2. Freeze ---

type freezeSubtest struct{}

func (freezeSubtest) name() WhichTest { return TestFreeze }

func (freezeSubtest) check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict {
	if b.IsGoal(pushedTo) {
		// Landing on a goal: a full sweep is required since a goal-box
		// can legally freeze, but may also freeze a neighbour off-goal
		// (§4.5.2).
		for _, cell := range boxes.Cells() {
			if !b.IsGoal(int(cell)) && isFrozen(b, boxes, int(cell), make(map[int]int8)) {
				return Deadlock
			}
		}
		return MaybeLive
	}
	if isFrozen(b, boxes, pushedTo, make(map[int]int8)) {
		return Deadlock
	}
	return MaybeLive
}

// axis bit flags for the visited-during-this-call memo, so a box being
// re-examined on the same axis within one recursive check doesn't loop.
const (
	axisHorizontal int8 = 1 << iota
	axisVertical
)

// isFrozen implements §4.5.2's recursive freeze definition: a box is
// frozen on an axis if that axis is blocked by a wall, a frozen-axis
// neighbour, or a box neighbour that is itself frozen on that axis. memo
// guards against infinite mutual recursion between two boxes.
func isFrozen(b *Board, boxes BoxSet, cell int, memo map[int]int8) bool {
	return axisBlocked(b, boxes, cell, Up, Down, memo) && axisBlocked(b, boxes, cell, Left, Right, memo)
}

func axisBlocked(b *Board, boxes BoxSet, cell int, neg, pos Direction, memo map[int]int8) bool {
	bit := axisVertical
	if neg == Left {
		bit = axisHorizontal
	}
	if memo[cell]&bit != 0 {
		return true // assume blocked to break the recursion; caller re-derives truth via the other axis
	}
	memo[cell] |= bit

	return sideBlocked(b, boxes, cell, neg, memo) || sideBlocked(b, boxes, cell, pos, memo)
}

func sideBlocked(b *Board, boxes BoxSet, cell int, dir Direction, memo map[int]int8) bool {
	n := b.Neighbour(cell, dir)
	if n == outside || b.wall[n] {
		return true
	}
	if !boxes.HasBox(n) {
		return false
	}
	return isFrozen(b, boxes, n, memo)
}

// --- 3. Closed diagonal ---

type closedDiagonalSubtest struct{}

func (closedDiagonalSubtest) name() WhichTest { return TestClosedDiagonal }

// check detects a 2x2-blocked diamond (two boxes, two walls, diagonally
// arranged) outside the goal region: the pushed-to cell and one
// diagonal neighbour are boxes, and the two cells completing the square
// are walls (§4.5.3).
func (closedDiagonalSubtest) check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict {
	if b.IsGoal(pushedTo) {
		return MaybeLive
	}
	corners := [4][2]Direction{
		{Up, Left}, {Up, Right}, {Down, Left}, {Down, Right},
	}
	for _, c := range corners {
		v := b.Neighbour(pushedTo, c[0])
		h := b.Neighbour(pushedTo, c[1])
		if v == outside || h == outside {
			continue
		}
		diag := b.Neighbour(v, c[1])
		if diag == outside {
			continue
		}
		vIsWall, hIsWall := b.wall[v], b.wall[h]
		diagIsBox := boxes.HasBox(diag) && !b.IsGoal(diag)
		if vIsWall && hIsWall && diagIsBox {
			return Deadlock
		}
	}
	return MaybeLive
}

// --- 4. Bipartite ---

type bipartiteSubtest struct{}

func (bipartiteSubtest) name() WhichTest { return TestBipartite }

func (bipartiteSubtest) check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict {
	if !HasPerfectMatching(b, boxes) {
		return Deadlock
	}
	return MaybeLive
}

// --- 5. Corral ---

type corralSubtest struct{}

func (corralSubtest) name() WhichTest { return TestCorral }

// corralDiscoveryBudget bounds the discharge DFS's node count so a
// single call never dominates the deadline check (§5's "must themselves
// respect a passed-in deadline").
const corralDiscoveryBudget = 4096

func (corralSubtest) check(b *Board, boxes BoxSet, region BitSet, pushedTo int, forward bool, deadline time.Time) DeadlockVerdict {
	unreached := make([]int, 0)
	for cell := 0; cell < b.Size; cell++ {
		if !b.wall[cell] && !boxes.HasBox(cell) && !region.Test(cell) {
			unreached = append(unreached, cell)
		}
	}
	if len(unreached) == 0 {
		return MaybeLive
	}

	boundary := make(map[int]bool)
	for _, cell := range unreached {
		for _, dir := range allDirections {
			n := b.Neighbour(cell, dir)
			if n != outside && boxes.HasBox(n) && b.CorralForcer[n] {
				boundary[n] = true
			}
		}
	}
	if len(boundary) == 0 {
		return MaybeLive
	}

	nodes := 0
	exhausted := dischargeDFS(b, boxes, region, boundary, &nodes, deadline)
	if nodes >= corralDiscoveryBudget || time.Now().After(deadline) {
		return MaybeLive
	}
	if exhausted {
		return Deadlock
	}
	return MaybeLive
}

// dischargeDFS looks one push deep: it reports whether any boundary box
// has a legal push right now (pusher can reach the cell behind it, the
// destination is non-wall and box-free). It neither checks that such a
// push frees a corral cell nor tries longer push sequences. Returns true
// iff every boundary push was tried and none is legal — the signal the
// caller needs to distinguish "proven stuck" from "ran out of budget".
func dischargeDFS(b *Board, boxes BoxSet, region BitSet, boundary map[int]bool, nodes *int, deadline time.Time) bool {
	*nodes++
	if *nodes >= corralDiscoveryBudget || time.Now().After(deadline) {
		return false
	}
	for cell := range boundary {
		for _, dir := range allDirections {
			behind := b.Neighbour(cell, dir.Opposite())
			if behind == outside || b.wall[behind] || !region.Test(behind) {
				continue
			}
			to := b.Neighbour(cell, dir)
			if to == outside || b.wall[to] || boxes.HasBox(to) {
				continue
			}
			// A single successful discharge step is enough to call the
			// corral live: it shows the boundary is not permanently
			// sealed. Deeper verification is left to the main search.
			return false
		}
	}
	return true
}
