// Package solve provides algorithms like A*, IDA* and Depth-first for
// graph- and tree-shaped search problems.
package solve

import (
	"math"
	"sync/atomic"
	"time"
)

// Context can be used to interact with the solver and to maintain a custom
// context during the search.
type Context struct {
	Custom interface{}
}

// State represents a state in the search tree.
//
// An implementation of this interface represents the problem. It tells the
// algorithm how to get from one state to another, how much it costs to
// reach the state etc.
type State interface {
	// Cost to reach this state.
	Cost(ctx Context) float64

	// IsGoal reports whether this is a goal state.
	IsGoal(ctx Context) bool

	// Expand expands this state into zero or more child states.
	Expand(ctx Context) []State

	// Heuristic is the estimated cost to reach a goal from this state. Use
	// 0 for no heuristic. Most algorithms will find the optimal solution if
	// the heuristic is admissible, meaning it never over-estimates the
	// costs to reach a goal.
	Heuristic(ctx Context) float64
}

// Budget bounds a single Solve call independently of the cost Limit.
// Exhausting either MaxNodes or WallClock ends the search without
// proving anything about the states beyond the point reached; the
// caller distinguishes this from a proven-no-solution result via
// Result.Truncated. A zero value leaves the corresponding dimension
// unbounded.
type Budget struct {
	MaxNodes  int
	WallClock time.Duration
}

func (b Budget) exceeded(visited int, start time.Time) bool {
	if b.MaxNodes > 0 && visited >= b.MaxNodes {
		return true
	}
	if b.WallClock > 0 && time.Since(start) >= b.WallClock {
		return true
	}
	return false
}

// CancelToken is a cooperative cancellation flag, safe to set from a
// goroutine other than the one running Solve. Checked at node-expansion
// boundaries only; a set flag is observed at most one such boundary
// later.
type CancelToken struct {
	flag int32
}

// Cancel requests the search to stop at the next node boundary.
func (c *CancelToken) Cancel() {
	if c != nil {
		atomic.StoreInt32(&c.flag, 1)
	}
}

// Cancelled reports whether Cancel has been called. A nil token is never
// cancelled.
func (c *CancelToken) Cancelled() bool {
	return c != nil && atomic.LoadInt32(&c.flag) != 0
}

// ProgressSink receives periodic progress reports during a Solve call. It
// must return quickly; it is called on the same goroutine that runs the
// search. It receives the number of nodes visited so far, the depth of
// the node just dequeued (0 for the root) and the time since Solve began.
type ProgressSink func(visited, depth int, elapsed time.Duration)

// progressStride bounds how often a ProgressSink is invoked, so a sink
// doing real work (logging, repainting a progress bar) cannot dominate
// the cost of the search itself.
const progressStride = 1024

// Result of the search.
type Result struct {
	// Solution lists the states leading from the root state to the goal
	// state. Empty if no solution was found.
	Solution []State

	// Visited is the number of nodes dequeued by the algorithm.
	Visited int

	// Expanded is the number of nodes enqueued by the algorithm.
	Expanded int

	// Truncated is true when a Budget limit, not the configured cost
	// Limit, cut the search short: the absence of a solution is not
	// proof that none exists.
	Truncated bool

	// Cancelled is true when the search stopped because of a CancelToken.
	Cancelled bool

	// LimitExceeded is true when IDA*'s deepening stopped because the
	// next iteration's threshold would have exceeded the configured
	// cost Limit, as opposed to the state space being genuinely
	// exhausted at some threshold below it. Like Truncated, the absence
	// of a solution here is not proof that none exists — it is a
	// configured-limit cutoff, not a real one.
	LimitExceeded bool
}

// Solved reports whether a solution was found.
func (r Result) Solved() bool {
	return len(r.Solution) > 0
}

// GoalState returns the final state of the solution, or nil if none was
// found.
func (r Result) GoalState() State {
	if len(r.Solution) == 0 {
		return nil
	}
	return r.Solution[len(r.Solution)-1]
}

type node struct {
	parent *node
	state  State
	value  float64
}

type result struct {
	node          *node
	contour       float64
	visited       int
	expanded      int
	truncated     bool
	cancelled     bool
	limitExceeded bool

	next *func() result
}

// searchParams bundles the knobs threaded through every recursive call so
// that adding one (as this package does relative to the teacher's
// budget-less search) does not require touching every call site again.
type searchParams struct {
	context  Context
	budget   Budget
	cancel   *CancelToken
	progress ProgressSink
	start    time.Time
}

// ubound is an underbound for goal nodes. This is needed when IDA* is used
// to find multiple goal nodes to skip previously generated goal nodes.
// limit is the maximum cost limit (inclusive). contour should be set to
// math.Inf(1) on the first call; it is set to the lowest cost encountered
// above limit, and threaded back in on recursive resumption.
func generalSearch(queue strategy, visited int, expanded int, constr iconstraint, ubound float64, limit float64, contour float64, p searchParams) result {
	for {
		if p.cancel.Cancelled() {
			return result{node: nil, contour: contour, visited: visited, expanded: expanded, cancelled: true}
		}
		if p.budget.exceeded(visited, p.start) {
			return result{node: nil, contour: contour, visited: visited, expanded: expanded, truncated: true}
		}
		n := queue.Take()
		if n == nil {
			return result{node: nil, contour: contour, visited: visited, expanded: expanded}
		}
		visited++
		if p.progress != nil && visited%progressStride == 0 {
			depth := 0
			for a := n.parent; a != nil; a = a.parent {
				depth++
			}
			p.progress(visited, depth, time.Since(p.start))
		}
		if constr.onVisit(n) {
			continue
		}
		if n.state.IsGoal(p.context) && n.value > ubound {
			next := func() result {
				return generalSearch(queue, visited, expanded, constr, ubound, limit, contour, p)
			}
			return result{node: n, contour: contour, visited: visited, expanded: expanded, next: &next}
		}
		for _, child := range n.state.Expand(p.context) {
			childNode := &node{n, child, math.Max(n.value, child.Cost(p.context)+child.Heuristic(p.context))}
			if constr.onExpand(childNode) {
				continue
			}
			if childNode.value > limit {
				contour = math.Min(contour, childNode.value)
				continue
			}
			queue.Add(childNode)
			expanded++
		}
	}
}

func idaStar(rootState State, constraint iconstraint, contour float64, ubound float64, limit float64, p searchParams, nextfn *func() result) result {
	visited := 0
	expanded := 0
	for {
		var lastResult result
		if nextfn != nil {
			fn := *nextfn
			nextfn = nil
			lastResult = fn()
		} else {
			s := depthFirst()
			s.Add(&node{nil, rootState, rootState.Cost(p.context) + rootState.Heuristic(p.context)})
			constraint.reset()
			lastResult = generalSearch(s, visited, expanded, constraint, ubound, contour, math.Inf(1), p)
		}
		if lastResult.truncated || lastResult.cancelled {
			lastResult.next = nil
			return lastResult
		}
		if lastResult.node != nil {
			// Found a solution; remember how to resume past it.
			underlying := lastResult.next
			nextIdaStarFn := func() result {
				return idaStar(rootState, constraint, contour, ubound, limit, p, underlying)
			}
			lastResult.next = &nextIdaStarFn
			return lastResult
		}
		if math.IsInf(lastResult.contour, 1) || math.IsNaN(lastResult.contour) {
			// The iteration never found a child past its threshold: the
			// state space is genuinely exhausted, at any cost.
			lastResult.next = nil
			return lastResult
		}
		if lastResult.contour > limit {
			// The next deepening iteration would have to search past the
			// configured cost Limit. Distinguish this configured-budget
			// cutoff from the true exhaustion above: the absence of a
			// solution here is not proof that none exists.
			lastResult.next = nil
			lastResult.limitExceeded = true
			return lastResult
		}
		lastResult.next = nil
		ubound = contour
		visited = lastResult.visited
		expanded = lastResult.expanded
		contour = lastResult.contour
	}
}

func toSlice(n *node) []State {
	if n == nil {
		return make([]State, 0)
	}
	return append(toSlice(n.parent), n.state)
}

func toResult(r *result) Result {
	return Result{
		Solution:      toSlice(r.node),
		Visited:       r.visited,
		Expanded:      r.expanded,
		Truncated:     r.truncated,
		Cancelled:     r.cancelled,
		LimitExceeded: r.limitExceeded,
	}
}

type solver struct {
	rootState  State
	algorithm  Algorithm
	constraint Constraint
	limit      float64
	context    interface{}
	budget     Budget
	cancel     *CancelToken
	progress   ProgressSink

	started bool
	result  *result
}

func (ss *solver) params() searchParams {
	return searchParams{
		context:  Context{ss.context},
		budget:   ss.budget,
		cancel:   ss.cancel,
		progress: ss.progress,
		start:    time.Now(),
	}
}

func solve(ss *solver) Result {
	if ss.started {
		if ss.result.next == nil {
			return Result{Solution: []State{}, Visited: ss.result.visited, Expanded: ss.result.expanded, Truncated: ss.result.truncated, Cancelled: ss.result.cancelled, LimitExceeded: ss.result.limitExceeded}
		}
		nextResult := (*ss.result.next)()
		ss.result = &nextResult
		return toResult(ss.result)
	}
	ss.started = true
	p := ss.params()
	constraint := ss.constraint.(iconstraint)
	if ss.algorithm == IDAstar {
		nextResult := idaStar(ss.rootState, constraint, 0.0, -1.0, ss.limit, p, nil)
		ss.result = &nextResult
		return toResult(ss.result)
	}
	var s strategy
	switch ss.algorithm {
	case Astar:
		s = aStar()
	case DepthFirst:
		s = depthFirst()
	case BreadthFirst:
		s = breadthFirst()
	}
	s.Add(&node{nil, ss.rootState, ss.rootState.Cost(p.context) + ss.rootState.Heuristic(p.context)})

	constraint.reset()
	nextResult := generalSearch(s, 0, 0, constraint, -1.0, ss.limit, math.Inf(1), p)
	ss.result = &nextResult
	return toResult(ss.result)
}

// Solver solves the problem.
type Solver interface {
	// Algorithm sets the search strategy. Defaults to Astar.
	Algorithm(algorithm Algorithm) Solver

	// Constraint sets how repeated/dominated states are treated. Defaults
	// to NoConstraint.
	Constraint(constraint Constraint) Solver

	// Limit bounds the cost the problem will be expanded beyond. Defaults
	// to math.Inf(1).
	Limit(limit float64) Solver

	// Context sets a custom value passed to every State method call. Can
	// hold precomputed data that speeds up the search. Be careful putting
	// mutable state here: it is shared across the whole run.
	Context(context interface{}) Solver

	// Budget bounds a single Solve call by node count and wall clock,
	// independently of Limit. Exhausting it yields a Result with
	// Truncated set rather than proof of unsolvability.
	Budget(budget Budget) Solver

	// Cancel wires a cooperative cancellation token into the search.
	Cancel(token *CancelToken) Solver

	// Progress registers a sink notified periodically during the search.
	Progress(sink ProgressSink) Solver

	// Solve solves the problem, returning the result. Calling Solve again
	// after a solution was found resumes the search for the next one.
	Solve() Result
}

func (s *solver) Algorithm(algorithm Algorithm) Solver {
	s.algorithm = algorithm
	return s
}

func (s *solver) Constraint(constraint Constraint) Solver {
	s.constraint = constraint
	return s
}

func (s *solver) Limit(limit float64) Solver {
	s.limit = limit
	return s
}

func (s *solver) Context(context interface{}) Solver {
	s.context = context
	return s
}

func (s *solver) Budget(budget Budget) Solver {
	s.budget = budget
	return s
}

func (s *solver) Cancel(token *CancelToken) Solver {
	s.cancel = token
	return s
}

func (s *solver) Progress(sink ProgressSink) Solver {
	s.progress = sink
	return s
}

func (s *solver) Solve() Result {
	return solve(s)
}

// NewSolver creates a new solver for the given root state.
func NewSolver(rootState State) Solver {
	return &solver{rootState: rootState, algorithm: Astar, constraint: NoConstraint(), limit: math.Inf(1)}
}
