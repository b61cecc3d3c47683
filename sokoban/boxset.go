package sokoban

import "sort"

// boxSetBitThreshold is the fraction of floor cells above which BoxSet
// prefers the bit-vector representation for membership tests, per §3's
// "preferred when B is a non-trivial fraction of floor count". Below it,
// binary search over the sorted list is cheaper (fewer words touched,
// smaller cache footprint), matching the teacher's own sorted-list
// approach in examples/sokoban/main.go.
const boxSetBitThreshold = 4 // floor/B ratio at or below which bits win

// BoxSet is the dual representation of §3's box set S: a bit-vector and
// a sorted cell-index list maintained together so both always agree on
// hasBox and cardinality, plus an incrementally-maintained Zobrist-style
// hash used only as a fast pre-filter by the board-position store (C3) —
// never as the sole key.
type BoxSet struct {
	bits   BitSet
	sorted []int32
	hash   uint64
	useBit bool
}

// NewBoxSet builds a BoxSet from an initial, unsorted cell list.
func NewBoxSet(b *Board, cells []int) BoxSet {
	s := BoxSet{
		bits:   newBitSet(b.Size),
		sorted: make([]int32, len(cells)),
	}
	for i, c := range cells {
		s.sorted[i] = int32(c)
		s.bits.set(c)
		s.hash ^= b.zobrist[c]
	}
	sort.Slice(s.sorted, func(i, j int) bool { return s.sorted[i] < s.sorted[j] })
	s.useBit = b.Floor/max(1, len(cells)) <= boxSetBitThreshold
	return s
}

// Len returns |S|.
func (s BoxSet) Len() int {
	return len(s.sorted)
}

// Hash returns the incremental Zobrist-style hash, a pre-filter only.
func (s BoxSet) Hash() uint64 {
	return s.hash
}

// HasBox reports whether cell holds a box.
func (s BoxSet) HasBox(cell int) bool {
	if s.useBit {
		return s.bits.Test(cell)
	}
	lo, hi := 0, len(s.sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if int(s.sorted[mid]) < cell {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(s.sorted) && int(s.sorted[lo]) == cell
}

// Cells returns the sorted cell-index list. Callers must not mutate it.
func (s BoxSet) Cells() []int32 {
	return s.sorted
}

// Move returns a new BoxSet with the box at `from` relocated to `to`,
// leaving s untouched (board positions are immutable after insertion,
// §3 invariant 5).
func (s BoxSet) Move(b *Board, from, to int) BoxSet {
	next := BoxSet{
		bits:   s.bits.clone(),
		sorted: append([]int32(nil), s.sorted...),
		hash:   s.hash ^ b.zobrist[from] ^ b.zobrist[to],
		useBit: s.useBit,
	}
	next.bits.words[from/64] &^= 1 << uint(from%64)
	next.bits.set(to)
	for i, c := range next.sorted {
		if int(c) == from {
			next.sorted[i] = int32(to)
			break
		}
	}
	sort.Slice(next.sorted, func(i, j int) bool { return next.sorted[i] < next.sorted[j] })
	return next
}

// Equal reports whether two BoxSets contain exactly the same cells. The
// hash is checked first as a cheap reject; a full compare of the sorted
// lists follows since the hash is only a pre-filter (§3).
func (s BoxSet) Equal(other BoxSet) bool {
	if s.hash != other.hash || len(s.sorted) != len(other.sorted) {
		return false
	}
	for i := range s.sorted {
		if s.sorted[i] != other.sorted[i] {
			return false
		}
	}
	return true
}
