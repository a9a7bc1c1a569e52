package search

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/go-mephisto/engine/pkg/board"
	uatomic "go.uber.org/atomic"
)

// Bound qualifies a stored score: the search window it was found against may have cut the
// true value off, so a reader must know which side (if any) the stored value is inexact on.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// clusterSize is the number of entries sharing a bucket (spec.md §3.4's "small clusters for
// shallow collision handling"). A lookup or write only ever probes within one cluster, never
// chains or rehashes, so the cost of a collision is bounded by a handful of CAS attempts.
const clusterSize = 4

// Table is the transposition table (component C4): a position-keyed cache of prior search
// results, consulted at every node to skip already-solved subtrees and to seed move
// ordering with the previous best move. Must be safe under the engine's cooperative
// concurrency model, where a pondering search and a UI read may overlap.
//
// Entries are split into two parallel tables keyed by the parity of plyFromRoot (spec.md
// §3.4's "one per side-to-move parity"): a position reached at an even distance from the
// root and one reached at an odd distance never compete for the same cluster, even if their
// hashes collide, which keeps the much more common same-parity collisions cheaper to resolve.
type Table interface {
	// Read returns the bound, depth, score and best move stored for hash at plyFromRoot, if
	// present.
	Read(hash board.Hash, plyFromRoot int) (Bound, int, board.Score, board.Move, bool)
	// Write stores an entry, subject to the table's replacement policy.
	Write(hash board.Hash, plyFromRoot int, bound Bound, depth int, score board.Score, move board.Move)
	// NewGeneration marks every previously stored entry as one search older. Called once per
	// root search (spec.md §3.4's aging counter), not per iterative-deepening depth within a
	// search, so a deeper iteration can still refine its own earlier-iteration entries.
	NewGeneration()

	// Size returns the table's capacity in bytes.
	Size() uint64
	// Used returns the table's utilization as a fraction in [0;1].
	Used() float64
}

// metadata packs a node's precision and best move compactly (the bestmove is kept as a
// CompressedMove, exactly as the spec's on-disk/wire representations do).
type metadata struct {
	bound Bound
	best  board.CompressedMove
	ply   uint16 // plyFromRoot at the time of the write, for the ply-closeness tiebreak
	depth uint16
	gen   uint16 // the table's generation counter at the time of the write
}

type node struct {
	hash  board.Hash
	score board.Score
	md    metadata
}

// parityTable is a lock-free, fixed-size clustered hash table: readers and writers never
// block each other, at the cost of a write occasionally discarding a more valuable entry
// that happens to land in the same full cluster.
type parityTable struct {
	slots []unsafe.Pointer // *node, length = buckets*clusterSize
	mask  uint64           // buckets-1
	used  uatomic.Uint64
}

func newParityTable(buckets uint64) parityTable {
	return parityTable{
		slots: make([]unsafe.Pointer, buckets*clusterSize),
		mask:  buckets - 1,
	}
}

func (pt *parityTable) cluster(hash board.Hash) []unsafe.Pointer {
	base := (uint64(hash) & pt.mask) * clusterSize
	return pt.slots[base : base+clusterSize]
}

func (pt *parityTable) read(hash board.Hash) (*node, bool) {
	for _, slot := range pt.cluster(hash) {
		if n := (*node)(atomic.LoadPointer(&slot)); n != nil && n.hash == hash {
			return n, true
		}
	}
	return nil, false
}

func (pt *parityTable) write(fresh *node, currentGen uint16) {
	cluster := pt.cluster(fresh.hash)

	// Refining a position's own prior entry never counts as a collision: update it in place
	// rather than treating a cluster-mate as the victim.
	for i := range cluster {
		old := (*node)(atomic.LoadPointer(&cluster[i]))
		if old != nil && old.hash == fresh.hash {
			if atomic.CompareAndSwapPointer(&cluster[i], unsafe.Pointer(old), unsafe.Pointer(fresh)) {
				return
			}
		}
	}

	// Otherwise evict the weakest cluster member: an empty slot first, then whichever entry
	// scores lowest once stale-generation entries are penalized ahead of shallow ones.
	victim, victimValue, found := 0, int64(0), false
	for i := range cluster {
		old := (*node)(atomic.LoadPointer(&cluster[i]))
		if old == nil {
			victim = i
			break
		}
		if v := replacementValue(old, currentGen); !found || v < victimValue {
			victim, victimValue, found = i, v, true
		}
	}

	old := (*node)(atomic.LoadPointer(&cluster[victim]))
	if atomic.CompareAndSwapPointer(&cluster[victim], unsafe.Pointer(old), unsafe.Pointer(fresh)) {
		if old == nil {
			pt.used.Add(1)
		}
	}
}

// replacementValue favors entries from the current search generation over stale ones from a
// prior search (spec.md §3.4's aging), and among same-generation entries favors ones that are
// both deep (expensive to recompute) and close to the root (likely to be probed again soon).
func replacementValue(n *node, currentGen uint16) int64 {
	if n == nil {
		return -1
	}
	age := currentGen - n.md.gen
	if age > 0 {
		// A stale entry is always weaker than any current-generation entry: it describes a
		// position reachable from a root the engine has already moved on from.
		return -int64(age)
	}
	return int64(n.md.depth)<<1 + int64(n.md.ply)
}

// table is the top-level Table implementation: two clustered parityTables, selected by the
// parity of plyFromRoot, sharing one generation counter.
type table struct {
	parity [2]parityTable
	gen    uatomic.Uint32
}

// NewTable allocates a transposition table sized to approximately sizeBytes, split evenly
// across the two parity tables.
func NewTable(sizeBytes uint64) Table {
	entryBytes := uint64(32)
	totalEntries := sizeBytes / entryBytes
	buckets := uint64(1) << (63 - bits.LeadingZeros64(totalEntries/(2*clusterSize)+1))
	if buckets == 0 {
		buckets = 1
	}
	return &table{
		parity: [2]parityTable{newParityTable(buckets), newParityTable(buckets)},
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.parity[0].slots)+len(t.parity[1].slots)) * 32
}

func (t *table) Used() float64 {
	used := t.parity[0].used.Load() + t.parity[1].used.Load()
	slots := len(t.parity[0].slots) + len(t.parity[1].slots)
	return float64(used) / float64(slots)
}

func (t *table) Read(hash board.Hash, plyFromRoot int) (Bound, int, board.Score, board.Move, bool) {
	n, ok := t.parity[plyFromRoot&1].read(hash)
	if !ok {
		return 0, 0, 0, board.Move{}, false
	}
	return n.md.bound, int(n.md.depth), n.score, n.md.best.Decompress(), true
}

func (t *table) Write(hash board.Hash, plyFromRoot int, bound Bound, depth int, score board.Score, move board.Move) {
	gen := uint16(t.gen.Load())
	fresh := &node{
		hash:  hash,
		score: score,
		md: metadata{
			bound: bound,
			best:  move.Compress(),
			ply:   uint16(plyFromRoot),
			depth: uint16(depth),
			gen:   gen,
		},
	}
	t.parity[plyFromRoot&1].write(fresh, gen)
}

func (t *table) NewGeneration() {
	t.gen.Add(1)
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}

// NoTable is a Table that never stores anything, for comparison/validation searches that
// want to measure raw negascout performance without transposition cutoffs.
type NoTable struct{}

func (NoTable) Read(board.Hash, int) (Bound, int, board.Score, board.Move, bool) {
	return 0, 0, 0, board.Move{}, false
}
func (NoTable) Write(board.Hash, int, Bound, int, board.Score, board.Move) {}
func (NoTable) NewGeneration()                                            {}
func (NoTable) Size() uint64                                               { return 0 }
func (NoTable) Used() float64                                              { return 0 }
