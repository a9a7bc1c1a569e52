package search

import (
	"container/heap"
	"fmt"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/eval"
)

// Priority is the move-ordering priority: higher is searched first.
type Priority int32

// MoveList is a move priority queue used for move ordering at every search node. Move
// generation already produced the full legal list; this just imposes a good search order on
// it so that alpha-beta cuts off as early as possible.
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a move list ordered by descending fn(move).
func NewMoveList(moves []board.Move, fn func(board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the highest-priority remaining move.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.h.Len() == 0 {
		return board.Move{}, false
	}
	return heap.Pop(&ml.h).(elm).m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.h.Len() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.h.Len())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { panic("fixed size heap") }
func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}

// KillerTable remembers, per ply, the quiet moves that caused a beta cutoff recently --
// moves that are worth trying early in a sibling node even though they are not a capture,
// since the position at a given ply tends to recur across sibling branches.
type KillerTable struct {
	killers [MaxKillerPly][2]board.Move
}

const MaxKillerPly = 128

func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Record stores m as the newest killer at ply, evicting the older of the two slots.
func (k *KillerTable) Record(ply int, m board.Move) {
	if ply < 0 || ply >= MaxKillerPly || m.IsCapture() {
		return // captures are already ordered by MVV-LVA; no need to track them as killers
	}
	if k.killers[ply][0].Equals(m) {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = m
}

func (k *KillerTable) IsKiller(ply int, m board.Move) bool {
	if ply < 0 || ply >= MaxKillerPly {
		return false
	}
	return k.killers[ply][0].Equals(m) || k.killers[ply][1].Equals(m)
}

// HistoryTable scores quiet moves by how often they have caused a cutoff anywhere in the
// tree, indexed by moving piece and destination square -- the classic "history heuristic",
// used as a tiebreaker behind hash move, captures and killers.
type HistoryTable struct {
	score [board.NumColors][7][120]int32
}

func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

func (h *HistoryTable) Record(c board.Color, m board.Move, depth int) {
	if m.IsCapture() {
		return
	}
	h.score[c][m.Piece][m.To] += int32(depth * depth)
}

func (h *HistoryTable) Value(c board.Color, m board.Move) Priority {
	return Priority(h.score[c][m.Piece][m.To])
}

// OrderingFor returns the move priority function for one node: hash move first, then
// captures/promotions by MVV-LVA, then killers, then quiet moves by history score.
func OrderingFor(best board.Move, ply int, turn board.Color, sctx *Context) func(board.Move) Priority {
	return func(m board.Move) Priority {
		if best.Equals(m) {
			return 1 << 20
		}
		if gain := eval.NominalGain(m); gain > 0 {
			return Priority(1<<16) + Priority(gain)*100 - Priority(eval.NominalValue(m.Piece))
		}
		if sctx.Killers != nil && sctx.Killers.IsKiller(ply, m) {
			return 1 << 15
		}
		if sctx.History != nil {
			return sctx.History.Value(turn, m)
		}
		return 0
	}
}

// RootOrderingFor layers the root driver's pre-sort order (spec.md §4.5) on top of
// OrderingFor: a move's position in order outranks MVV-LVA/killers/history but still yields
// to an actual hash move, since the hash move reflects a deeper, more authoritative search
// than the depth-1-plus-quiescence pre-sort pass does.
func RootOrderingFor(best board.Move, order []board.Move, turn board.Color, sctx *Context) func(board.Move) Priority {
	rank := make(map[board.Move]int, len(order))
	for i, m := range order {
		rank[m] = i
	}
	fallback := OrderingFor(best, 0, turn, sctx)
	return func(m board.Move) Priority {
		if best.Equals(m) {
			return 1 << 20
		}
		if i, ok := rank[m]; ok {
			return Priority(1<<17) - Priority(i)
		}
		return fallback(m)
	}
}
