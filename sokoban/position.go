package sokoban

// StateID is a stable, arena-local identifier for a stored board
// position. Parent links are StateIDs, never pointers, so reconstruction
// walks ids only and the store can be an arena (§9's "cyclic ownership
// ... owned by the store, referenced by stable integer ids").
type StateID int32

// noParent marks a root position (no predecessor).
const noParent StateID = -1

// Position is the §9 tagged union replacing the source's
// AbsoluteBoardPosition / RelativeBoardPosition / *Iterative
// inheritance: a single struct whose Relative flag selects which payload
// is meaningful, plus an optional iteration-depth tag. It is immutable
// once constructed (§3 invariant 5).
type Position struct {
	Relative bool

	// Absolute payload.
	Boxes BoxSet

	// Relative payload: the single box delta from Parent's absolute
	// state, used for memory compactness in deep chains (§4.8).
	BoxIndex int
	From, To int

	Region int // canonical region id r, always present

	Parent    StateID
	Direction Direction
	Pushed    bool // true if Parent->this was a push/pull, false for the root

	// HasDepth/IterationDepth implement "iterative" positions (§4.8, §9):
	// presence of the field stands in for the source's separate
	// Iterative subclasses.
	HasDepth       bool
	IterationDepth int
}

// AbsolutePosition builds a root or absolute Position. boxIndex, from
// and to are ignored (and may be zero) when pushed is false, i.e. for
// the root. from/to are the pushed box's cell before/after the move,
// recorded so ReconstructPath can later synthesize an exact pusher walk
// between consecutive pushes (§4.8).
func AbsolutePosition(boxes BoxSet, region int, parent StateID, boxIndex int, dir Direction, pushed bool, from, to int) Position {
	return Position{
		Boxes:     boxes,
		Region:    region,
		Parent:    parent,
		BoxIndex:  boxIndex,
		From:      from,
		To:        to,
		Direction: dir,
		Pushed:    pushed,
	}
}

// RelativePosition builds a Position storing only the single box delta
// from its parent's absolute box set.
func RelativePosition(boxIndex, from, to, region int, parent StateID, dir Direction) Position {
	return Position{
		Relative: true,
		BoxIndex: boxIndex,
		From:     from,
		To:       to,
		Region:   region,
		Parent:   parent,
		Direction: dir,
		Pushed:    true,
	}
}

// WithIterationDepth returns p tagged with the iteration that spawned
// it.
func (p Position) WithIterationDepth(depth int) Position {
	p.HasDepth = true
	p.IterationDepth = depth
	return p
}

// Resolve walks the parent chain (via store) to produce the absolute
// BoxSet for a possibly-relative Position, in O(chain length) and
// without mutating the store (§4.8).
func Resolve(store *Store, id StateID) BoxSet {
	pos := store.Get(id)
	if !pos.Relative {
		return pos.Boxes
	}
	base := Resolve(store, pos.Parent)
	return base.Move(store.board, pos.From, pos.To)
}

// PushRecord is one reconstructed step of a solution path: which box
// moved, between which cells, in which direction. The pure pusher-side
// walk to reach the push is not stored here — it is re-derived by
// WalkPath when the path is rendered to LURD, since the store only
// tracks canonical pusher regions, not concrete pusher cells.
type PushRecord struct {
	BoxIndex  int
	From, To  int
	Direction Direction
}

// ReconstructPath walks parent links from id back to the root and
// returns the push sequence root→id, oldest first.
func ReconstructPath(store *Store, id StateID) []PushRecord {
	var reversed []PushRecord
	for cur := id; cur != noParent; {
		pos := store.Get(cur)
		if pos.Pushed {
			reversed = append(reversed, PushRecord{BoxIndex: pos.BoxIndex, From: pos.From, To: pos.To, Direction: pos.Direction})
		}
		cur = pos.Parent
	}
	path := make([]PushRecord, len(reversed))
	for i, r := range reversed {
		path[len(reversed)-1-i] = r
	}
	return path
}
