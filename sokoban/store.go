package sokoban

// Meta is the search metadata a Store keeps alongside each Position
// (§4.3): cost-so-far, heuristic estimate, and the iteration tag that
// lets a single store be reused across consecutive IDA* iterations
// without clearing (stale entries are detected by comparing tags rather
// than wiped out).
type Meta struct {
	G              int32
	H              int32
	IterationDepth int32
}

type storeKey struct {
	hash   uint64
	region int
}

type entry struct {
	pos  Position
	meta Meta
}

// Store is the board-position store (C3): a hash set keyed by (S, r)
// with a stable arena index as value, supporting find / insert_new /
// update_meta with monotone-g guarantees. It is run-private unless
// explicitly shared as a meeting set (§5), in which case the caller is
// responsible for serializing access (driver.go does this with a mutex).
type Store struct {
	board   *Board
	buckets map[storeKey][]StateID
	arena   []entry
}

// NewStore creates an empty store for board b.
func NewStore(b *Board) *Store {
	return &Store{
		board:   b,
		buckets: make(map[storeKey][]StateID),
		arena:   make([]entry, 0, 1024),
	}
}

// Get returns the Position stored at id. id must have come from this
// Store.
func (s *Store) Get(id StateID) Position {
	return s.arena[id].pos
}

// GetMeta returns the Meta stored at id.
func (s *Store) GetMeta(id StateID) Meta {
	return s.arena[id].meta
}

// Find looks up (boxes, region) and returns its StateID if present.
func (s *Store) Find(boxes BoxSet, region int) (StateID, bool) {
	key := storeKey{hash: boxes.Hash(), region: region}
	for _, id := range s.buckets[key] {
		if s.arena[id].pos.Relative {
			if Resolve(s, id).Equal(boxes) {
				return id, true
			}
			continue
		}
		if s.arena[id].pos.Boxes.Equal(boxes) {
			return id, true
		}
	}
	return 0, false
}

// InsertNew inserts pos/meta as a brand-new entry and returns its
// StateID. Callers must have already confirmed (via Find) that the
// (boxes, region) pair is absent; InsertNew does not re-check, matching
// the spec's "fails if already present" being the caller's
// responsibility in a hot loop that already did the lookup.
func (s *Store) InsertNew(boxes BoxSet, pos Position, meta Meta) StateID {
	id := StateID(len(s.arena))
	s.arena = append(s.arena, entry{pos: pos, meta: meta})
	key := storeKey{hash: boxes.Hash(), region: pos.Region}
	s.buckets[key] = append(s.buckets[key], id)
	return id
}

// UpdateMeta overwrites id's Meta, bounded to a monotone decrease of g
// (§4.3): a call that would increase g is a no-op.
func (s *Store) UpdateMeta(id StateID, meta Meta) {
	if meta.G < s.arena[id].meta.G {
		s.arena[id].meta = meta
	}
}

// Len returns the number of stored positions.
func (s *Store) Len() int {
	return len(s.arena)
}

// Reset clears the store for reuse across unrelated runs. Callers within
// a single run should prefer the IterationDepth tag over Reset: it lets
// deepening iterations skip the reallocation (§4.3).
func (s *Store) Reset() {
	s.buckets = make(map[storeKey][]StateID)
	s.arena = s.arena[:0]
}
