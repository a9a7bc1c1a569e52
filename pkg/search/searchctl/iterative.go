package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const aspirationWindow board.Score = 50 // centipawns; widened geometrically on failure

// Iterative is the root search harness: it drives pkg/search's fixed-depth Searcher one
// ply deeper at a time, narrowing each iteration's window around the previous iteration's
// score (aspiration windows) so that most depths resolve with far fewer nodes than a full
// [-inf;+inf] search would need, re-searching with a wider window on the rare fail-high or
// fail-low.
type Iterative struct {
	Root    search.Searcher
	Killers *search.KillerTable
	History *search.HistoryTable
}

// rootPreSorter is implemented by Searcher implementations (search.Negascout) that can score
// every root move with a cheap depth-1-plus-quiescence pass before real iterative deepening
// starts (spec.md §4.5). Matched via an optional interface so Iterative stays usable with any
// Searcher, including test doubles that skip the pre-sort.
type rootPreSorter interface {
	PreSortRootMoves(ctx context.Context, b *board.Board) ([]board.Move, error)
}

func NewIterative(root search.Searcher) *Iterative {
	return &Iterative{Root: root, Killers: search.NewKillerTable(), History: search.NewHistoryTable()}
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt search.Table, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i, b, tt, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, it *Iterative, b *board.Board, tt search.Table, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	// One generation per root search, not per iterative-deepening depth: entries from this
	// move's own earlier, shallower iterations must stay fresh so they can be refined, while
	// entries left over from scoring a previous move age out first (spec.md §3.4).
	if tt != nil {
		tt.NewGeneration()
	}

	// Stop immediately on a forced move: no aspiration window or pre-sort can improve on a
	// position with exactly one legal reply (spec.md §4.5's "only one legal root move" halt).
	if legal := b.Position().GenerateAll(); len(legal) == 1 {
		start := time.Now()
		sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt, Killers: it.Killers, History: it.History}
		nodes, score, moves, err := it.Root.Search(wctx, sctx, b, 1)
		if err != nil && err != search.ErrHalted {
			logw.Errorf(ctx, "Search failed on %v at depth=1: %v", b, err)
		}
		if len(moves) == 0 {
			moves = []board.Move{legal[0]}
		}
		pv := search.PV{Depth: 1, Nodes: nodes, Score: score, Moves: moves, Time: time.Since(start)}
		if tt != nil {
			pv.Hash = tt.Used()
		}
		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()
		out <- pv
		h.init.Close()
		return
	}

	// Pre-sort pass (spec.md §4.5): score every root move with one ply plus quiescence before
	// the real iterative deepening below, so depths 2 and 3 already see a good move order
	// instead of raw MVV-LVA.
	var rootOrder []board.Move
	if ps, ok := it.Root.(rootPreSorter); ok {
		if order, err := ps.PreSortRootMoves(wctx, b); err == nil {
			rootOrder = order
		}
	}

	var prevScore board.Score
	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		score, moves, nodes, err := searchWithAspirationWindow(wctx, it, tt, b, depth, prevScore, rootOrder)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}
		prevScore = score

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if md, _, ok := score.MateDistance(); ok && md <= depth {
			return // halt: forced mate found within full-width search. Exact result either way.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

// searchWithAspirationWindow runs one iteration of depth, starting with a narrow window
// around guess and widening geometrically whenever the result falls outside it. Depth 1 and
// depth 2 always use a full window, since there is no established guess to aspirate around.
func searchWithAspirationWindow(ctx context.Context, it *Iterative, tt search.Table, b *board.Board, depth int, guess board.Score, rootOrder []board.Move) (board.Score, []board.Move, uint64, error) {
	if depth < 3 {
		sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt, Killers: it.Killers, History: it.History, RootOrder: rootOrder}
		nodes, score, moves, err := it.Root.Search(ctx, sctx, b, depth)
		return score, moves, nodes, err
	}

	window := aspirationWindow
	alpha, beta := guess-window, guess+window
	var totalNodes uint64

	for {
		sctx := &search.Context{Alpha: board.Max(alpha, board.MinScore), Beta: board.Min(beta, board.MaxScore), TT: tt, Killers: it.Killers, History: it.History, RootOrder: rootOrder}
		nodes, score, moves, err := it.Root.Search(ctx, sctx, b, depth)
		totalNodes += nodes
		if err != nil {
			return score, moves, totalNodes, err
		}

		switch {
		case score <= alpha:
			alpha -= 2 * window
			window *= 2
		case score >= beta:
			beta += 2 * window
			window *= 2
		default:
			return score, moves, totalNodes, nil
		}

		if alpha <= board.MinScore && beta >= board.MaxScore {
			sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt, Killers: it.Killers, History: it.History, RootOrder: rootOrder}
			nodes, score, moves, err := it.Root.Search(ctx, sctx, b, depth)
			totalNodes += nodes
			return score, moves, totalNodes, err
		}
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
