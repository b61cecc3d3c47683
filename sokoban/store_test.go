package sokoban_test

import (
	"testing"

	"github.com/bertbaron/soko/sokoban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FindMissingReturnsFalse(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	store := sokoban.NewStore(b)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	_, found := store.Find(boxes, b.Pusher)
	assert.False(t, found)
}

func TestStore_InsertThenFind(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	store := sokoban.NewStore(b)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	pos := sokoban.AbsolutePosition(boxes, b.Pusher, -1, 0, sokoban.Up, false, 0, 0)
	id := store.InsertNew(boxes, pos, sokoban.Meta{G: 0})

	found, ok := store.Find(boxes, b.Pusher)
	require.True(t, ok)
	assert.Equal(t, id, found)
}

func TestStore_UpdateMetaIsMonotoneInG(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	store := sokoban.NewStore(b)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	pos := sokoban.AbsolutePosition(boxes, b.Pusher, -1, 0, sokoban.Up, false, 0, 0)
	id := store.InsertNew(boxes, pos, sokoban.Meta{G: 5})

	store.UpdateMeta(id, sokoban.Meta{G: 9})
	assert.EqualValues(t, 5, store.GetMeta(id).G, "a higher g must not overwrite a lower one")

	store.UpdateMeta(id, sokoban.Meta{G: 2})
	assert.EqualValues(t, 2, store.GetMeta(id).G)
}

func TestStore_DifferentRegionsAreDifferentStates(t *testing.T) {
	b := mustBoard(t, trivialLevel)
	store := sokoban.NewStore(b)
	boxes := sokoban.NewBoxSet(b, b.InitialBoxes)
	pos := sokoban.AbsolutePosition(boxes, 0, -1, 0, sokoban.Up, false, 0, 0)
	store.InsertNew(boxes, pos, sokoban.Meta{})

	_, found := store.Find(boxes, 1)
	assert.False(t, found, "same box set but a different canonical region id is a different state")
}
