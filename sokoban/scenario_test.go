package sokoban_test

import (
	"testing"

	"github.com/bertbaron/soko/sokoban"
	"github.com/bertbaron/soko/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustSolve wires board+cfg through Precompute/Solve, the same three-call
// sequence cmd/sokosolve uses (§6's Run API).
func mustSolve(t *testing.T, text string, cfg sokoban.Config) sokoban.Verdict {
	t.Helper()
	b := mustBoard(t, text)
	tables, err := sokoban.Precompute(b, cfg)
	require.NoError(t, err)
	verdict, err := sokoban.Solve(tables, nil)
	require.NoError(t, err)
	return verdict
}

// TestScenario1_TrivialSingleBox covers §8 end-to-end scenario 1: a single
// push onto the only goal.
func TestScenario1_TrivialSingleBox(t *testing.T) {
	verdict := mustSolve(t, trivialLevel, sokoban.DefaultConfig())

	require.Equal(t, sokoban.VerdictSolved, verdict.Kind)
	assert.Equal(t, "R", verdict.LURD)
	assert.EqualValues(t, 1, verdict.Moves)
	assert.EqualValues(t, 1, verdict.Pushes)
}

// TestScenario2_SimpleAndFreezeDeadlock covers §8 scenario 2: pushing the
// box right drives it into a wall (never generated at all); pushing it
// down freezes it in the non-goal bottom-right corner.
func TestScenario2_SimpleAndFreezeDeadlock(t *testing.T) {
	level := "####\n# @#\n# $#\n#. #\n####"
	verdict := mustSolve(t, level, sokoban.DefaultConfig())

	require.Equal(t, sokoban.VerdictProvenUnsolvable, verdict.Kind)
}

// TestScenario3_BipartiteDeadlockBeforeDeepSearch covers §8 scenario 3: a
// bipartite matching failure must be reported before any node is expanded
// (Nodes stays at its zero value — the check runs against the root alone).
func TestScenario3_BipartiteDeadlockBeforeDeepSearch(t *testing.T) {
	level := "######\n#@$$.#\n#.   #\n######"
	verdict := mustSolve(t, level, sokoban.DefaultConfig())

	require.Equal(t, sokoban.VerdictProvenUnsolvable, verdict.Kind)
	assert.Equal(t, sokoban.TestBipartite, verdict.Reason)
	assert.Zero(t, verdict.Nodes, "bipartite infeasibility is a root-only check, it never reaches the search")
}

// TestScenario4_DirectionSelectionChangesReachableVerdicts covers §8
// scenario 4's contract on the Direction knob: Forward, Backward and Both
// must all agree a solvable level is Solved, and Both must not regress a
// level that every single direction already proves unsolvable. Constructing
// a level whose *only* literal first move is forward-dead yet solvable
// backward would require running the solver to confirm (which this task
// forbids), so this test instead pins down what can be asserted with
// confidence: that Backward and Both are wired all the way through
// Precompute/Solve, not just Forward.
func TestScenario4_DirectionSelectionChangesReachableVerdicts(t *testing.T) {
	for _, dir := range []sokoban.SearchDirection{sokoban.Forward, sokoban.Backward, sokoban.Both} {
		cfg := sokoban.DefaultConfig()
		cfg.Direction = dir
		verdict := mustSolve(t, trivialLevel, cfg)
		require.Equalf(t, sokoban.VerdictSolved, verdict.Kind, "direction %v failed to solve a trivial level", dir)
		assert.EqualValues(t, 1, verdict.Pushes)
	}

	deadLevel := "####\n# @#\n# $#\n#. #\n####"
	cfg := sokoban.DefaultConfig()
	cfg.Direction = sokoban.Both
	verdict := mustSolve(t, deadLevel, cfg)
	require.Equal(t, sokoban.VerdictProvenUnsolvable, verdict.Kind)
}

// TestScenario5_BudgetExhaustion covers §8 scenario 5: a node budget of 1
// deterministically truncates the search after the root is expanded, with
// partial stats (Nodes) non-zero. A wall-clock budget would cover the same
// contract but introduce timing flakiness a table-driven test should not
// depend on; MaxNodes exercises the identical budget.exceeded() code path
// (§solve.Budget) deterministically.
func TestScenario5_BudgetExhaustion(t *testing.T) {
	cfg := sokoban.DefaultConfig()
	cfg.MaxNodes = 1
	cfg.WallClockMillis = 50
	verdict := mustSolve(t, trivialLevel, cfg)

	require.Equal(t, sokoban.VerdictBudgetExhausted, verdict.Kind)
	assert.NotZero(t, verdict.Nodes)
}

// TestScenario6_TransformFixedPoint covers §8 scenario 6: rotating 90
// degrees four times returns every coordinate to its original value.
func TestScenario6_TransformFixedPoint(t *testing.T) {
	rot90 := sokoban.Transform{Rotation: sokoban.Rot90, Mirror: sokoban.MirrorNone}
	w, h := 5, 3

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cw, ch, cx, cy := w, h, x, y
			for turn := 0; turn < 4; turn++ {
				cx, cy = rot90.ToExternalXY(cw, ch, cx, cy)
				cw, ch = rot90.ExternalDims(cw, ch)
			}
			assert.Equal(t, w, cw)
			assert.Equal(t, h, ch)
			assert.Equal(t, x, cx, "x should return to its original value after four 90-degree turns")
			assert.Equal(t, y, cy, "y should return to its original value after four 90-degree turns")
		}
	}

	// Two 90-degree turns, twice more, compose to the same fixed point as
	// a single direct round trip through 180+180.
	rot180 := sokoban.Transform{Rotation: sokoban.Rot180, Mirror: sokoban.MirrorNone}
	x, y := 2, 1
	ex, ey := rot180.ToExternalXY(w, h, x, y)
	ex, ey = rot180.ToExternalXY(w, h, ex, ey)
	assert.Equal(t, x, ex)
	assert.Equal(t, y, ey)
}

// TestSolve_NilCancelTokenIsAccepted confirms Solve still solves given a
// nil cancel token, matching CancelToken's documented "nil is never cancelled"
// contract.
func TestSolve_NilCancelTokenIsAccepted(t *testing.T) {
	var cancel *solve.CancelToken
	b := mustBoard(t, trivialLevel)
	tables, err := sokoban.Precompute(b, sokoban.DefaultConfig())
	require.NoError(t, err)

	verdict, err := sokoban.Solve(tables, cancel)
	require.NoError(t, err)
	assert.Equal(t, sokoban.VerdictSolved, verdict.Kind)
}
