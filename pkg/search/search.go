// Package search contains the move search: transposition table (C4), quiescence search
// (C7) and the negascout/PVS driver with its pruning and reduction heuristics (C8).
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-mephisto/engine/pkg/board"
)

// ErrHalted indicates that a search was stopped externally before it completed.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation for some search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) BestMove() (board.Move, bool) {
	if len(p.Moves) == 0 {
		return board.Move{}, false
	}
	return p.Moves[0], true
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), board.PrintMoves(p.Moves))
}

// Context carries per-search state shared by every node of one fixed-depth search: the
// aspiration window the root is searching, the transposition table, and the move-ordering
// heuristics that accumulate across the whole search (killers and history are indexed by
// ply/move, not position, so they must outlive any single node).
type Context struct {
	Alpha, Beta board.Score
	TT          Table
	Killers     *KillerTable
	History     *HistoryTable

	// RootOrder, if set, is consulted only at the root node (ply 0): a preferred move order
	// computed by the root driver's pre-sort pass (spec.md §4.5, "before depth 2") -- a depth-1
	// plus quiescence score for every root move, most promising first. Earlier TT-backed
	// iterations make this redundant once a hash move exists, but it gives the very first
	// iterations a far better order than raw MVV-LVA alone.
	RootOrder []board.Move
}

// IsCancelled reports whether ctx has already been cancelled -- polled at every search node,
// per the engine's cooperative single-threaded concurrency model.
func IsCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
