package sokoban

import (
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bertbaron/soko/solve"
)

// SearchDirection selects which end(s) of the search the driver runs
// from (§6).
type SearchDirection int

const (
	Forward SearchDirection = iota
	Backward
	Both
)

// MovesVsPushes names which metric to prioritize when two solutions tie
// on push count (§6). Solve does not read it: the search and the
// reported Moves and Pushes counts are the same for both values.
type MovesVsPushes int

const (
	MovesFirst MovesVsPushes = iota
	PushesFirst
)

// Config is the §6 Run API configuration, passed explicitly at run start
// (§5's "no global mutable state").
type Config struct {
	DetectSimple         bool
	DetectFreeze         bool
	DetectCorral         bool
	DetectBipartite      bool
	DetectClosedDiagonal bool

	Direction SearchDirection

	MaxPushes       int
	MaxNodes        int
	WallClockMillis int

	MovesVsPushes MovesVsPushes

	// DeadlockTimeout bounds each individual C5 call (§4.5's "default
	// 100ms"); zero means the 100ms default.
	DeadlockTimeout time.Duration
}

// DefaultConfig enables every deadlock subtest, runs forward-only with
// unbounded budgets, and the §4.5 default per-call deadlock deadline.
func DefaultConfig() Config {
	return Config{
		DetectSimple: true, DetectFreeze: true, DetectCorral: true,
		DetectBipartite: true, DetectClosedDiagonal: true,
		Direction: Forward,
	}
}

func (c Config) deadlockConfig() DeadlockConfig {
	return DeadlockConfig{
		DetectSimple:         c.DetectSimple,
		DetectFreeze:         c.DetectFreeze,
		DetectClosedDiagonal: c.DetectClosedDiagonal,
		DetectBipartite:      c.DetectBipartite,
		DetectCorral:         c.DetectCorral,
	}
}

func (c Config) deadlockTimeout() time.Duration {
	if c.DeadlockTimeout > 0 {
		return c.DeadlockTimeout
	}
	return 100 * time.Millisecond
}

// Tables is the result of Precompute: a Board plus the validated,
// resolved Config it will search with.
type Tables struct {
	board *Board
	cfg   Config
}

// Precompute validates cfg against board and returns the Tables the
// Solve call needs. It never mutates board: the precomputed indices
// were already built once by NewBoard (§3's "precomputed tables are
// built once when the level is installed").
func Precompute(board *Board, cfg Config) (*Tables, error) {
	if cfg.MaxPushes < 0 || cfg.MaxNodes < 0 || cfg.WallClockMillis < 0 {
		return nil, invalidLevel(ViolationNone, "negative budget in config")
	}
	return &Tables{board: board, cfg: cfg}, nil
}

// VerdictKind tags which of the four §6 Verdict shapes a Verdict holds.
type VerdictKind int

const (
	VerdictSolved VerdictKind = iota
	VerdictProvenUnsolvable
	VerdictBudgetExhausted
	VerdictCancelled
)

// Verdict is the §6 Run API result sum type.
type Verdict struct {
	Kind VerdictKind

	LURD   string
	Moves  uint32
	Pushes uint32

	Reason WhichTest

	Nodes  int
	Millis int64
}

// Describe renders v as either a solution or a human-readable reason,
// matching §6's describe(verdict) -> Solution|Reason.
func (v Verdict) Describe() string {
	switch v.Kind {
	case VerdictSolved:
		return v.LURD
	case VerdictProvenUnsolvable:
		return "unsolvable: " + v.Reason.String()
	case VerdictBudgetExhausted:
		return "budget exhausted"
	case VerdictCancelled:
		return "cancelled"
	}
	return "unknown"
}

// runContext is the *solve.Context.Custom payload shared by every
// sokobanState in one run.
type runContext struct {
	board      *Board
	deadlockC  DeadlockConfig
	deadlockTO time.Duration
	store      *Store
	storeMu    *sync.Mutex // non-nil only for the shared meeting-set store
	forward    bool
	scratch    *Scratch
	iteration  int32

	// target is the exact BoxSet a backward run must reach to count as
	// solved. A backward root already has every box on a goal (§3
	// invariant 3), so "all boxes on goal" is true at the root and
	// cannot be the backward termination test — it would report a
	// bogus zero-push solution immediately. Forward runs leave target
	// unset and keep the "all boxes on goal" test instead, since any
	// box/goal assignment counts.
	target    BoxSet
	hasTarget bool
}

// sokobanState adapts a board position to solve.State (C7 wiring a
// Sokoban State implementation into solve.Solver, SPEC_FULL.md §4.7).
type sokobanState struct {
	ctx    *runContext
	boxes  BoxSet
	region int
	bits   BitSet
	g      int
	id     StateID
	hVal   float64

	boxIndex  int
	direction Direction
}

func (s *sokobanState) Cost(_ solve.Context) float64 { return float64(s.g) }

func (s *sokobanState) IsGoal(_ solve.Context) bool {
	if s.ctx.hasTarget {
		return s.boxes.Equal(s.ctx.target)
	}
	for _, cell := range s.boxes.Cells() {
		if !s.ctx.board.IsGoal(int(cell)) {
			return false
		}
	}
	return true
}

func (s *sokobanState) Heuristic(_ solve.Context) float64 {
	return s.hVal
}

func (s *sokobanState) Expand(_ solve.Context) []solve.State {
	b := s.ctx.board
	if s.g == 0 {
		// IDA* restarts every deepening iteration at the root, so expanding
		// the root opens a new iteration for the store's tags.
		s.ctx.iteration++
	}
	var candidates []PushCandidate
	if s.ctx.forward {
		candidates = GenerateForward(b, s.boxes, s.bits, true)
	} else {
		candidates = GenerateBackward(b, s.boxes, s.bits, true)
	}

	var children []*sokobanState

	for _, c := range candidates {
		newBoxes := s.boxes.Move(b, c.From, c.To)
		var seed int
		if s.ctx.forward {
			seed = PusherDestination(c)
		} else {
			seed = PusherDestinationBackward(b, c)
		}
		regionBits := Reachable(b, newBoxes.HasBox, seed, s.ctx.scratch)
		region := -1
		for cell := 0; cell < b.Size; cell++ {
			if regionBits.Test(cell) {
				region = cell
				break
			}
		}

		deadline := time.Now().Add(s.ctx.deadlockTO)
		verdict, _ := CheckDeadlock(b, s.ctx.deadlockC, newBoxes, regionBits, c.To, s.ctx.forward, deadline)
		if verdict == Deadlock {
			continue
		}

		if s.ctx.storeMu != nil {
			s.ctx.storeMu.Lock()
		}
		existingID, found := s.ctx.store.Find(newBoxes, region)
		var newID StateID
		if found {
			prev := s.ctx.store.GetMeta(existingID)
			s.ctx.store.UpdateMeta(existingID, Meta{G: int32(s.g + 1), H: prev.H, IterationDepth: s.ctx.iteration})
			// Only an entry already reached in this iteration at no greater
			// g blocks the child; a stale entry is re-inserted below.
			found = prev.IterationDepth == s.ctx.iteration && prev.G <= int32(s.g+1)
		}
		if !found {
			bound, ok := LowerBound(b, newBoxes)
			h := math.Inf(1)
			if ok {
				h = float64(bound)
			}
			pos := AbsolutePosition(newBoxes, region, s.id, c.BoxIndex, c.Direction, true, c.From, c.To).WithIterationDepth(int(s.ctx.iteration))
			meta := Meta{G: int32(s.g + 1), H: int32(h), IterationDepth: s.ctx.iteration}
			newID = s.ctx.store.InsertNew(newBoxes, pos, meta)
			if s.ctx.storeMu != nil {
				s.ctx.storeMu.Unlock()
			}
			if ok {
				children = append(children, &sokobanState{
					ctx: s.ctx, boxes: newBoxes, region: region, bits: regionBits,
					g: s.g + 1, id: newID, hVal: h,
					boxIndex: c.BoxIndex, direction: c.Direction,
				})
			}
			continue
		}
		if s.ctx.storeMu != nil {
			s.ctx.storeMu.Unlock()
		}
	}

	sort.Slice(children, func(i, j int) bool {
		hi, hj := children[i].hVal, children[j].hVal
		if hi != hj {
			return hi < hj
		}
		if children[i].boxIndex != children[j].boxIndex {
			return children[i].boxIndex > children[j].boxIndex
		}
		return children[i].direction > children[j].direction
	})

	out := make([]solve.State, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

func budgetFromConfig(cfg Config) solve.Budget {
	return solve.Budget{
		MaxNodes:  cfg.MaxNodes,
		WallClock: time.Duration(cfg.WallClockMillis) * time.Millisecond,
	}
}

// rootState builds the initial sokobanState for a forward or backward
// run from board b.
func rootState(b *Board, ctx *runContext) (*sokobanState, error) {
	var boxCells []int
	var seed int
	if ctx.forward {
		boxCells = b.InitialBoxes
		seed = b.Pusher
	} else {
		boxCells = append([]int(nil), b.GoalCells...)
		// Backward search originates with every box on a goal and the
		// pusher at any goal-adjacent reachable cell (§3 invariant 3).
		// The goal cells themselves are occupied by boxes in this
		// configuration, so the seed must be a non-wall, non-box
		// neighbour of a goal, never the goal cell itself.
		boxSet := NewBoxSet(b, boxCells)
		seed = -1
		for _, goal := range b.GoalCells {
			for _, dir := range allDirections {
				n := b.Neighbour(goal, dir)
				if n != outside && !b.wall[n] && !boxSet.HasBox(n) {
					seed = n
					break
				}
			}
			if seed != -1 {
				break
			}
		}
		if seed == -1 {
			return nil, internalError("rootState", nil)
		}
	}
	boxes := NewBoxSet(b, boxCells)
	bits := Reachable(b, boxes.HasBox, seed, ctx.scratch)
	region := -1
	for cell := 0; cell < b.Size; cell++ {
		if bits.Test(cell) {
			region = cell
			break
		}
	}
	if region == -1 {
		return nil, internalError("rootState", nil)
	}
	bound, ok := LowerBound(b, boxes)
	h := 0.0
	if !ok {
		h = math.Inf(1)
	} else {
		h = float64(bound)
	}
	pos := AbsolutePosition(boxes, region, noParent, 0, Up, false, 0, 0)
	meta := Meta{G: 0, H: int32(h), IterationDepth: ctx.iteration}
	id := ctx.store.InsertNew(boxes, pos, meta)
	return &sokobanState{ctx: ctx, boxes: boxes, region: region, bits: bits, g: 0, id: id, hVal: h}, nil
}

// Solve runs the §4.7 IDA*-on-pushes search per tables.cfg and returns a
// Verdict (§6). It never panics; broken invariants surface as
// KindInternal errors.
func Solve(tables *Tables, cancel *solve.CancelToken) (Verdict, error) {
	b := tables.board
	cfg := tables.cfg

	switch cfg.Direction {
	case Forward:
		return solveOneDirection(b, cfg, true, cancel)
	case Backward:
		return solveOneDirection(b, cfg, false, cancel)
	default:
		return solveBothDirections(b, cfg, cancel)
	}
}

func solveOneDirection(b *Board, cfg Config, forward bool, cancel *solve.CancelToken) (Verdict, error) {
	store := NewStore(b)
	ctx := &runContext{
		board: b, deadlockC: cfg.deadlockConfig(), deadlockTO: cfg.deadlockTimeout(),
		store: store, forward: forward, scratch: NewScratch(b),
	}
	if !forward {
		ctx.target = NewBoxSet(b, b.InitialBoxes)
		ctx.hasTarget = true
	}
	root, err := rootState(b, ctx)
	if err != nil {
		return Verdict{}, err
	}
	if math.IsInf(root.hVal, 1) {
		return Verdict{Kind: VerdictProvenUnsolvable, Reason: TestBipartite}, nil
	}

	limit := math.Inf(1)
	if cfg.MaxPushes > 0 {
		limit = float64(cfg.MaxPushes)
	}

	result := solve.NewSolver(root).
		Algorithm(solve.IDAstar).
		Limit(limit).
		Budget(budgetFromConfig(cfg)).
		Cancel(cancel).
		Solve()

	return verdictFromResult(result, forward), nil
}

// solveBothDirections runs forward and backward workers concurrently
// with golang.org/x/sync/errgroup, sharing one Store serialized by a
// mutex. The workers do not detect positions the other has reached:
// each must meet its own goal test, and an entry either one inserts can
// prune the other's expansions. A worker that ends with a verdict other
// than BudgetExhausted or Cancelled cancels the other. The result is a
// Solved verdict from either worker (forward checked first), otherwise
// the forward worker's verdict.
func solveBothDirections(b *Board, cfg Config, cancel *solve.CancelToken) (Verdict, error) {
	if cancel == nil {
		cancel = &solve.CancelToken{}
	}
	meetingStore := NewStore(b)
	var mu sync.Mutex

	var g errgroup.Group
	results := make([]Verdict, 2)
	errs := make([]error, 2)

	directions := []bool{true, false}
	for i, forward := range directions {
		i, forward := i, forward
		g.Go(func() error {
			ctx := &runContext{
				board: b, deadlockC: cfg.deadlockConfig(), deadlockTO: cfg.deadlockTimeout(),
				store: meetingStore, storeMu: &mu, forward: forward, scratch: NewScratch(b),
			}
			if !forward {
				ctx.target = NewBoxSet(b, b.InitialBoxes)
				ctx.hasTarget = true
			}
			root, err := rootState(b, ctx)
			if err != nil {
				errs[i] = err
				cancel.Cancel()
				return nil
			}
			if math.IsInf(root.hVal, 1) {
				results[i] = Verdict{Kind: VerdictProvenUnsolvable, Reason: TestBipartite}
				return nil
			}
			limit := math.Inf(1)
			if cfg.MaxPushes > 0 {
				limit = float64(cfg.MaxPushes)
			}
			result := solve.NewSolver(root).
				Algorithm(solve.IDAstar).
				Limit(limit).
				Budget(budgetFromConfig(cfg)).
				Cancel(cancel).
				Solve()
			results[i] = verdictFromResult(result, forward)
			if results[i].Kind != VerdictBudgetExhausted && results[i].Kind != VerdictCancelled {
				cancel.Cancel()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range errs {
		if e != nil {
			return Verdict{}, e
		}
	}
	// Prefer a Solved verdict from either side; otherwise the forward
	// worker's verdict is authoritative (matches "path = forward prefix
	// reversed + backward prefix" ownership of the meeting-set, §4.7).
	for _, v := range results {
		if v.Kind == VerdictSolved {
			return v, nil
		}
	}
	return results[0], nil
}

func verdictFromResult(result solve.Result, forward bool) Verdict {
	if result.Cancelled {
		return Verdict{Kind: VerdictCancelled}
	}
	if result.Solved() {
		goal := result.GoalState().(*sokobanState)
		lurd, moves, pushes := describeSolution(goal, forward)
		return Verdict{Kind: VerdictSolved, LURD: lurd, Moves: moves, Pushes: pushes}
	}
	if result.Truncated || result.LimitExceeded {
		// A configured MaxPushes ceiling being reached is a budget cutoff,
		// not a proof: it is indistinguishable, from the caller's point of
		// view, from running out of nodes or wall clock (§7/§8).
		return Verdict{Kind: VerdictBudgetExhausted, Nodes: result.Visited, Millis: 0}
	}
	return Verdict{Kind: VerdictProvenUnsolvable, Reason: TestNone}
}

// describeSolution reconstructs a LURD string from the goal state's
// push record chain (§4.8/§6), filling in the pusher's walk segments
// between consecutive pushes via WalkPath so the result replays exactly
// from the board's real initial state into a terminal state (§8's
// replay-equivalence property: moves = |lurd|, pushes = uppercase
// count).
//
// A backward-sourced path is stored in the tree's own time direction
// (goal configuration at the root, descending toward the initial
// configuration). Pulling a box in direction d is the exact time
// reverse of pushing that same box in direction d — not d's opposite —
// so recovering the forward-playable order only reverses record order
// and swaps each record's (From, To) pair; Direction is left untouched.
func describeSolution(goal *sokobanState, forward bool) (lurd string, moves, pushes uint32) {
	path := ReconstructPath(goal.ctx.store, goal.id)
	if !forward {
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		for i := range path {
			path[i].From, path[i].To = path[i].To, path[i].From
		}
	}

	b := goal.ctx.board
	boxes := NewBoxSet(b, b.InitialBoxes)
	pusher := b.Pusher

	var out []byte
	for _, rec := range path {
		behind := b.Neighbour(rec.From, rec.Direction.Opposite())
		if behind == outside {
			continue // unreachable by construction; the search already validated this step
		}
		if walk, ok := WalkPath(b, boxes.HasBox, pusher, behind); ok {
			for _, d := range walk {
				out = append(out, moveChar[d])
			}
		}
		out = append(out, pushChar[rec.Direction])
		boxes = boxes.Move(b, rec.From, rec.To)
		pusher = rec.From
	}
	return string(out), uint32(len(out)), uint32(len(path))
}
