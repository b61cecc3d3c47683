package sokoban

// PushCandidate is one legal single-box push (or, in backward search, one
// legal single-box pull) generated from a position (§4.4).
type PushCandidate struct {
	BoxIndex  int // index into the sorted box list
	From, To  int
	Direction Direction
}

// GenerateForward enumerates legal pushes from (boxes, region): the cell
// behind the box (opposite dir) must be in the pusher's reachable
// region, the destination cell must be non-wall and box-free, and (when
// filterDeadlock is true) not a forward simple-deadlock square. Output
// order is box index ascending, then allDirections order — stable and
// byte-deterministic (§4.4).
func GenerateForward(b *Board, boxes BoxSet, region BitSet, filterDeadlock bool) []PushCandidate {
	var out []PushCandidate
	cells := boxes.Cells()
	for idx, cellv := range cells {
		cell := int(cellv)
		for _, dir := range allDirections {
			behind := b.Neighbour(cell, dir.Opposite())
			if behind == outside || b.wall[behind] || !region.Test(behind) {
				continue
			}
			to := b.Neighbour(cell, dir)
			if to == outside || b.wall[to] || boxes.HasBox(to) {
				continue
			}
			if filterDeadlock && b.SimpleDeadlockForward[to] {
				continue
			}
			out = append(out, PushCandidate{BoxIndex: idx, From: cell, To: to, Direction: dir})
		}
	}
	return out
}

// GenerateBackward enumerates legal pulls, the symmetric backward-search
// generator (§4.4). A pull in direction dir is the time-reverse of a
// forward push in direction dir: the box's destination `to :=
// b.Neighbour(cell, dir.Opposite())` is the exact cell the pusher must
// currently occupy to perform the pull (the pusher steps away from the
// box, in direction dir.Opposite(), and the box slides into the cell
// the pusher just vacated) — so `to` is both the box's post-pull
// position and the cell whose reachability gates the move. It must also
// be non-wall and box-free, filtered by the backward simple-deadlock
// table, and the cell the pusher steps back into (one further along
// dir.Opposite()) must be non-wall and box-free as well.
func GenerateBackward(b *Board, boxes BoxSet, region BitSet, filterDeadlock bool) []PushCandidate {
	var out []PushCandidate
	cells := boxes.Cells()
	for idx, cellv := range cells {
		cell := int(cellv)
		for _, dir := range allDirections {
			to := b.Neighbour(cell, dir.Opposite())
			if to == outside || b.wall[to] || boxes.HasBox(to) || !region.Test(to) {
				continue
			}
			if step := b.Neighbour(to, dir.Opposite()); step == outside || b.wall[step] || boxes.HasBox(step) {
				continue
			}
			if filterDeadlock && b.SimpleDeadlockBackward[to] {
				continue
			}
			out = append(out, PushCandidate{BoxIndex: idx, From: cell, To: to, Direction: dir})
		}
	}
	return out
}

// PusherDestination returns the cell the pusher occupies after applying
// forward push candidate c (the cell the box vacated).
func PusherDestination(c PushCandidate) int {
	return c.From
}

// PusherDestinationBackward returns the cell the pusher occupies after
// applying backward pull candidate c: the pusher stood at c.To before
// the pull (GenerateBackward's reachability check) and steps one cell
// further away from the box's new position, in the direction opposite
// c.Direction, as the box slides into the cell the pusher vacated.
func PusherDestinationBackward(b *Board, c PushCandidate) int {
	return b.Neighbour(c.To, c.Direction.Opposite())
}
