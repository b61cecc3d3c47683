package sokoban_test

import (
	"testing"

	"github.com/bertbaron/soko/sokoban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, text string) *sokoban.Board {
	t.Helper()
	lvl, err := sokoban.ParseLevel(text)
	require.NoError(t, err)
	b, err := sokoban.NewBoard(lvl)
	require.NoError(t, err)
	return b
}

const trivialLevel = "#####\n#@$.#\n#####"

func TestNewBoard_Trivial(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	assert.Equal(t, 5, b.Width)
	assert.Equal(t, 3, b.Height)
	assert.Equal(t, 15, b.Size)
	assert.Greater(t, b.Floor, 0)
	require.Len(t, b.GoalCells, 1)
}

func TestNeighbour_OutsideAtBoundary(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	assert.Equal(t, -1, b.Neighbour(0, sokoban.Up))
	assert.Equal(t, -1, b.Neighbour(0, sokoban.Left))
}

func TestSimpleDeadlockForward_GoalIsAlwaysLive(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	for _, g := range b.GoalCells {
		assert.False(t, b.SimpleDeadlockForward[g], "a goal cell must never be a forward dead square")
	}
}

func TestSimpleDeadlockForward_CornerIsDead(t *testing.T) {
	// (1,1) is walled on both its up and left sides: no pusher cell
	// exists from which a box there could ever be pushed, so it must be
	// a forward dead square regardless of the single goal at (3,1).
	b := mustBoard(t, "#####\n#@ .#\n# $ #\n#####")
	corner := 1*5 + 1
	assert.True(t, b.SimpleDeadlockForward[corner])
}

func TestPushDist_GoalToItselfIsZero(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	gi := b.FloorIndex(b.GoalCells[0])
	assert.Equal(t, int32(0), b.PushDist[gi][gi])
}

func TestPushDist_UnreachablePairIsMarked(t *testing.T) {
	// Two fully wall-separated rooms: a box in one room can never reach
	// the goal in the other.
	b := mustBoard(t, "#######\n#@$.###\n#######\n###$.##\n#######")
	foundUnreachable := false
	for i := range b.PushDist {
		for j := range b.PushDist[i] {
			if b.PushDist[i][j] == -1 {
				foundUnreachable = true
			}
		}
	}
	assert.True(t, foundUnreachable)
}

func TestCorralForcer_NoPanicOnSmallBoard(t *testing.T) {
	assert.NotPanics(t, func() {
		mustBoard(t, trivialLevel)
	})
}
