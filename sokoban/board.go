package sokoban

import "container/list"

// cellOffset maps a Direction to the signed cell delta it applies in a
// board of width w. Vertical moves step by ±w, horizontal by ±1.
func cellOffset(w int, dir Direction) int {
	switch dir {
	case Up:
		return -w
	case Down:
		return w
	case Left:
		return -1
	default:
		return 1
	}
}

// outside is the sentinel neighbour() returns when a move would leave the
// guarded grid; it is never a valid cell index, so callers can compare
// against it without a separate bounds branch on the hot path.
const outside = -1

// Board is the read-only, precomputed view of a Level (C1): wall map,
// neighbour table, simple-deadlock squares (forward and backward),
// push-distance table, influence table and corral-forcer set. It never
// changes after NewBoard returns and may be shared across concurrent
// solver runs (§5).
type Board struct {
	Width, Height int
	Size          int
	wall          []bool
	goal          []bool
	GoalCells     []int
	Floor         int // count of non-wall cells
	floorIndex    []int32 // cell -> dense floor index, or -1

	neighbour [][directionCount]int32 // [cell][dir] -> cell or outside

	SimpleDeadlockForward  []bool
	SimpleDeadlockBackward []bool

	PushDist  [][]int32 // dense floor-index square matrix; unreachable = -1
	Influence [][]int32

	CorralForcer []bool

	InitialBoxes []int
	Pusher       int
	Display      Transform

	zobrist []uint64 // per-cell random word, for BoxSet's incremental hash
}

// unreachable is PushDist's / Influence's sentinel for "no path exists".
const unreachable = -1

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

func (b *Board) xy(cell int) (x, y int) {
	return cell % b.Width, cell / b.Width
}

func (b *Board) cell(x, y int) int {
	return y*b.Width + x
}

// Neighbour returns the cell reached from cell moving dir, or outside if
// that would leave the grid. It is a lookup into the table NewBoard
// precomputes, so callers compare against outside instead of checking
// bounds themselves.
func (b *Board) Neighbour(cellIdx int, dir Direction) int {
	n := int(b.neighbour[cellIdx][dir])
	return n
}

func (b *Board) IsWall(cell int) bool {
	return b.wall[cell]
}

func (b *Board) IsGoal(cell int) bool {
	return b.goal[cell]
}

// FloorIndex returns the dense index PushDist/Influence use for cell, or
// -1 if cell is a wall.
func (b *Board) FloorIndex(cell int) int {
	return int(b.floorIndex[cell])
}

// NewBoard builds C1's precomputed tables from a validated Level. It
// never panics; malformed geometry is reported as an *Error with
// Kind == KindInvalidLevel.
func NewBoard(lvl *Level) (*Board, error) {
	w, h := lvl.Width, lvl.Height
	n := w * h
	b := &Board{
		Width: w, Height: h, Size: n,
		wall: lvl.Wall, goal: lvl.Goal,
		InitialBoxes: append([]int(nil), lvl.Box...),
		Pusher:       lvl.Pusher,
		Display:      lvl.Display,
	}

	b.floorIndex = make([]int32, n)
	for cell := 0; cell < n; cell++ {
		if b.wall[cell] {
			b.floorIndex[cell] = -1
			continue
		}
		b.floorIndex[cell] = int32(b.Floor)
		b.Floor++
		if b.goal[cell] {
			b.GoalCells = append(b.GoalCells, cell)
		}
	}

	b.neighbour = make([][directionCount]int32, n)
	for cell := 0; cell < n; cell++ {
		x, y := b.xy(cell)
		for _, dir := range allDirections {
			nx, ny := x, y
			switch dir {
			case Up:
				ny--
			case Down:
				ny++
			case Left:
				nx--
			case Right:
				nx++
			}
			if !b.inBounds(nx, ny) {
				b.neighbour[cell][dir] = outside
				continue
			}
			b.neighbour[cell][dir] = int32(b.cell(nx, ny))
		}
	}

	if len(b.InitialBoxes) == 0 {
		return nil, invalidLevel(ViolationBoxGoalCountMismatch, "level has no boxes")
	}
	if len(b.GoalCells) != len(b.InitialBoxes) {
		return nil, invalidLevel(ViolationBoxGoalCountMismatch, "boxes=%d goals=%d", len(b.InitialBoxes), len(b.GoalCells))
	}

	b.buildSimpleDeadlock()
	b.buildPushDistAndInfluence()
	b.buildCorralForcer()
	b.buildZobrist()

	return b, nil
}

// buildZobrist fills the per-cell random table used by BoxSet's
// incremental hash, grounded in the teacher pack's
// easychessanimations-zurichess engine/zobrist.go pattern of a
// precomputed random table XORed in/out on move/unmove. The generator is
// a fixed-seed splitmix64 so board construction stays deterministic
// (required by §5's "no global mutable state" and by reproducible tests)
// rather than reaching for crypto/rand or math/rand's global source.
func (b *Board) buildZobrist() {
	b.zobrist = make([]uint64, b.Size)
	state := uint64(0x9e3779b97f4a7c15)
	for i := range b.zobrist {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z = z ^ (z >> 31)
		b.zobrist[i] = z
	}
}

// buildSimpleDeadlock flood-fills single-box reachability from every
// goal. The forward table marks cells from which no sequence of pushes
// brings a lone box onto a goal; the backward table marks cells that no
// sequence of pulls brings a lone box to, starting from a goal.
func (b *Board) buildSimpleDeadlock() {
	b.SimpleDeadlockForward = b.floodPushReachable(b.GoalCells, false)
	b.SimpleDeadlockBackward = b.floodPushReachable(b.GoalCells, true)
}

// floodPushReachable computes, for every floor cell, whether a single box
// placed there could (ignoring other boxes) ever be pushed to one of the
// roots — or, when pull is true, ever be pulled there starting from a box
// already on a root. The result marks *dead* squares: true where no such
// path exists.
func (b *Board) floodPushReachable(roots []int, pull bool) []bool {
	reached := make([]bool, b.Size)
	queue := list.New()
	for _, r := range roots {
		if !reached[r] {
			reached[r] = true
			queue.PushBack(r)
		}
	}
	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(int)
		for _, dir := range allDirections {
			boxFrom, pusherCell, boxTo, ok := b.reverseStep(front, dir, pull)
			if !ok {
				continue
			}
			_ = pusherCell
			if !reached[boxTo] {
				reached[boxTo] = true
				queue.PushBack(boxTo)
			}
			_ = boxFrom
		}
	}
	dead := make([]bool, b.Size)
	for cell := 0; cell < b.Size; cell++ {
		if b.wall[cell] {
			continue
		}
		dead[cell] = !reached[cell]
	}
	return dead
}

// reverseStep computes, for a box currently at `at`, the cell a single
// push in direction dir could have come from (or, if pull, the cell a
// single pull in direction dir takes it to). Both floods start at the
// goals and need no actual board state: backwards through pushes,
// forwards through pulls.
//
// Forward push semantics: pusher at at-2*off pushes the box at at-off to
// at, stepping itself to at-off. Read backwards from `at`: the box could
// have come from at-off (pusher at at-2*off), provided at-off and
// at-2*off are both non-wall.
//
// Pull semantics (mirrors a backward search's generator): a pusher
// standing at at+off pulls the box at `at` to at+off while stepping on
// to at+2*off, so the pull needs both at+off and at+2*off non-wall.
func (b *Board) reverseStep(at int, dir Direction, pull bool) (from, pusher, to int, ok bool) {
	off := cellOffset(b.Width, dir)
	if pull {
		to = b.Neighbour(at, dir)
		if to == outside || b.wall[to] {
			return 0, 0, 0, false
		}
		if beyond := b.Neighbour(to, dir); beyond == outside || b.wall[beyond] {
			return 0, 0, 0, false
		}
		return at, at, to, true
	}
	behind := b.Neighbour(at, dir.Opposite())
	if behind == outside || b.wall[behind] {
		return 0, 0, 0, false
	}
	pusherCell := b.Neighbour(behind, dir.Opposite())
	if pusherCell == outside || b.wall[pusherCell] {
		return 0, 0, 0, false
	}
	_ = off
	return at, pusherCell, behind, true
}

// buildPushDistAndInfluence runs a 0-1 BFS over (box, pusher) pairs,
// multi-source from every goal, to compute PushDist[from][to] = minimum
// number of pushes to move a single box from `from` to `to` ignoring
// other boxes (§4.1). The graph has a 0-cost edge for the pusher
// repositioning around the box without touching it, and a 1-cost edge
// for a pull (equivalently, the time-reverse of a push). Running the
// search backwards from each goal amortizes it to one flood per goal
// instead of one per (box,pusher) pair.
func (b *Board) buildPushDistAndInfluence() {
	f := b.Floor
	b.PushDist = make([][]int32, f)
	for i := range b.PushDist {
		row := make([]int32, f)
		for j := range row {
			row[j] = unreachable
		}
		b.PushDist[i] = row
	}

	type node struct{ box, pusher int }

	for _, goal := range b.GoalCells {
		dist := make(map[node]int32)
		deque := list.New()

		seedWalk := b.floodWalk(goal, goal)
		for pusherCell := range seedWalk {
			key := node{goal, pusherCell}
			if _, ok := dist[key]; !ok {
				dist[key] = 0
				deque.PushBack(key)
			}
		}

		for deque.Len() > 0 {
			front := deque.Remove(deque.Front()).(node)
			d := dist[front]

			for _, dir := range allDirections {
				// front = (C, p) with p sitting where the pusher ends up
				// right after pulling the box from C-d to C in direction
				// d. The predecessor state is (box=C-d, pusher=C-2d); see
				// board.go's buildPushDistAndInfluence doc comment.
				behind := b.Neighbour(front.box, dir.Opposite())
				if behind == outside || b.wall[behind] || front.pusher != behind {
					continue
				}
				predPusher := b.Neighbour(behind, dir.Opposite())
				if predPusher == outside || b.wall[predPusher] {
					continue
				}
				key := node{behind, predPusher}
				if cur, ok := dist[key]; !ok || d+1 < cur {
					dist[key] = d + 1
					deque.PushBack(key)
				}
			}

			for walkTo := range b.floodWalk(front.box, front.pusher) {
				key := node{front.box, walkTo}
				if _, ok := dist[key]; !ok {
					dist[key] = d
					deque.PushFront(key)
				}
			}
		}

		gi := b.floorIndex[goal]
		for key, d := range dist {
			fi := b.floorIndex[key.box]
			if fi < 0 {
				continue
			}
			if b.PushDist[fi][gi] == unreachable || d < b.PushDist[fi][gi] {
				b.PushDist[fi][gi] = d
			}
		}
	}

	b.Influence = make([][]int32, f)
	for i := range b.Influence {
		b.Influence[i] = make([]int32, f)
		for j := range b.Influence[i] {
			d := b.PushDist[i][j]
			if d == unreachable {
				b.Influence[i][j] = unreachable
				continue
			}
			b.Influence[i][j] = d * d
		}
	}
}

// floodWalk returns the set of cells the pusher can reach from seed by
// walking (never pushing), treating boxCell as the only occupied cell on
// the board. Used only during precompute (single-box graphs), never on
// the search hot path.
func (b *Board) floodWalk(boxCell, seed int) map[int]bool {
	visited := map[int]bool{seed: true}
	queue := list.New()
	queue.PushBack(seed)
	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(int)
		for _, dir := range allDirections {
			nxt := b.Neighbour(front, dir)
			if nxt == outside || b.wall[nxt] || nxt == boxCell {
				continue
			}
			if !visited[nxt] {
				visited[nxt] = true
				queue.PushBack(nxt)
			}
		}
	}
	return visited
}

// buildCorralForcer finds, via Tarjan articulation points on the
// all-floor-cells graph with one additional obstacle cell removed in
// turn, which cells split the pusher's reachable area when occupied by a
// box (§4.1's "articulation-point analysis ... parameterized over a
// single added obstacle"). No pack example implements this; it is
// standard graph theory, hand-written (see DESIGN.md).
func (b *Board) buildCorralForcer() {
	b.CorralForcer = make([]bool, b.Size)
	for cell := 0; cell < b.Size; cell++ {
		if b.wall[cell] {
			continue
		}
		if b.splitsReachability(cell) {
			b.CorralForcer[cell] = true
		}
	}
}

// splitsReachability reports whether removing obstacle from the
// non-wall graph increases the number of connected components touching
// at least one of obstacle's former neighbours — i.e. obstacle is an
// articulation point of the floor graph.
func (b *Board) splitsReachability(obstacle int) bool {
	blocked := func(cell int) bool { return cell == obstacle || b.wall[cell] }

	var start int = -1
	for _, dir := range allDirections {
		n := b.Neighbour(obstacle, dir)
		if n != outside && !blocked(n) {
			start = n
			break
		}
	}
	if start == -1 {
		return false
	}

	disc := make(map[int]int)
	low := make(map[int]int)
	timer := 0
	isArticulation := false
	rootChildren := 0

	type frame struct {
		cell   int
		parent int
		dirIdx int
	}
	stack := []frame{{start, -1, 0}}
	disc[start] = 0
	low[start] = 0
	timer = 1

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		advanced := false
		for top.dirIdx < directionCount {
			dir := allDirections[top.dirIdx]
			top.dirIdx++
			n := b.Neighbour(top.cell, dir)
			if n == outside || blocked(n) || n == top.parent {
				continue
			}
			if _, seen := disc[n]; !seen {
				disc[n] = timer
				low[n] = timer
				timer++
				if top.cell == start {
					rootChildren++
				}
				stack = append(stack, frame{n, top.cell, 0})
				advanced = true
				break
			}
			if disc[n] < low[top.cell] {
				low[top.cell] = disc[n]
			}
		}
		if advanced {
			continue
		}
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parentFrame := &stack[len(stack)-1]
			if low[top.cell] < low[parentFrame.cell] {
				low[parentFrame.cell] = low[top.cell]
			}
			if parentFrame.cell != start && low[top.cell] >= disc[parentFrame.cell] {
				isArticulation = true
			}
		}
	}
	if rootChildren > 1 {
		isArticulation = true
	}
	if len(disc) < b.Floor-1 {
		return true
	}
	return isArticulation
}
