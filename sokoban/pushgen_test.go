package sokoban_test

import (
	"testing"

	"github.com/bertbaron/soko/sokoban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateForward_TrivialLevelHasOnePush(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	scratch := sokoban.NewScratch(b)
	region := sokoban.Reachable(b, boxes.HasBox, b.Pusher, scratch)

	candidates := sokoban.GenerateForward(b, boxes, region, true)
	require.Len(t, candidates, 1)
	assert.Equal(t, sokoban.Right, candidates[0].Direction)
}

// TestGenerateForward_DifferBySingleCellPair covers §8's "applying the
// push to the source state yields a state whose box set differs by
// exactly one cell pair".
func TestGenerateForward_DifferBySingleCellPair(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	scratch := sokoban.NewScratch(b)
	region := sokoban.Reachable(b, boxes.HasBox, b.Pusher, scratch)

	for _, c := range sokoban.GenerateForward(b, boxes, region, true) {
		next := boxes.Move(b, c.From, c.To)
		assert.Equal(t, boxes.Len(), next.Len())
		assert.True(t, boxes.HasBox(c.From))
		assert.False(t, next.HasBox(c.From))
		assert.False(t, boxes.HasBox(c.To))
		assert.True(t, next.HasBox(c.To))
	}
}

func TestGenerateForward_FiltersSimpleDeadlock(t *testing.T) {
	// In the classic simple-deadlock level, pushing the box right drives
	// it into a wall and is never generated at all; pushing down lands
	// it on a non-goal dead square and must be filtered when
	// filterDeadlock is true.
	b := mustBoard(t, "####\n# @#\n# $#\n#. #\n####")
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	scratch := sokoban.NewScratch(b)
	region := sokoban.Reachable(b, boxes.HasBox, b.Pusher, scratch)

	filtered := sokoban.GenerateForward(b, boxes, region, true)
	unfiltered := sokoban.GenerateForward(b, boxes, region, false)
	assert.LessOrEqual(t, len(filtered), len(unfiltered))
}

func TestGenerateBackward_SeedFromGoalConfiguration(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	goalBoxes := sokoban.NewBoxSet(b, b.GoalCells)
	scratch := sokoban.NewScratch(b)
	seed := b.Neighbour(b.GoalCells[0], sokoban.Left)
	region := sokoban.Reachable(b, goalBoxes.HasBox, seed, scratch)

	candidates := sokoban.GenerateBackward(b, goalBoxes, region, true)
	assert.NotEmpty(t, candidates)
}
