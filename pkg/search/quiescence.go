package search

import (
	"context"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/eval"
)

// Quiescence extends a leaf node with captures, promotions, and (when the side to move is in
// check) full check evasions, so that the static evaluator is never asked to score a position
// with a hanging piece or an unresolved check (component C7). It additionally applies delta
// pruning on the captures-only branch: a capture that cannot possibly raise alpha even in the
// best case is skipped without being searched.
type Quiescence struct {
	Eval       eval.Evaluator
	DeltaMargin board.Score // 0 disables delta pruning
	MaxPly      int         // 0 == unlimited
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, board.Score) {
	run := &runQuiescence{q: q, b: b}
	score := run.search(ctx, sctx.Alpha, sctx.Beta, 0)
	return run.nodes, score
}

type runQuiescence struct {
	q     Quiescence
	b     *board.Board
	nodes uint64
}

func (r *runQuiescence) search(ctx context.Context, alpha, beta board.Score, ply int) board.Score {
	if IsCancelled(ctx) {
		return 0
	}
	if r.b.Result().Outcome == board.Draw {
		return 0
	}

	r.nodes++

	inCheck := r.b.Position().IsChecked(r.b.Turn())

	// In check, the horizon effect bites hardest: a capture-only search can stand pat on a
	// position that is actually lost to a forced sequence starting with check, because no
	// capture looked good enough to search deeper. Generate full evasions instead of standing
	// pat, and keep doing so until the side to move is no longer in check.
	if inCheck {
		moves := r.b.Position().GenerateEvasions()
		if len(moves) == 0 {
			return board.Mate(0, true) // checkmated: no evasion exists
		}

		list := NewMoveList(moves, func(m board.Move) Priority {
			return Priority(100*eval.NominalGain(m)) - Priority(eval.NominalValue(m.Piece))
		})

		for {
			m, ok := list.Next()
			if !ok {
				break
			}

			r.b.Make(m)
			score := r.search(ctx, beta.Negate(), alpha.Negate(), ply+1).IncrementMateDistance().Negate()
			r.b.Unmake()

			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
		return alpha
	}

	turn := r.b.Turn()
	standPat := turn.Unit() * r.q.Eval.Evaluate(ctx, r.b)
	if standPat >= beta {
		return standPat
	}
	alpha = board.Max(alpha, standPat)

	if r.q.MaxPly > 0 && ply >= r.q.MaxPly {
		return alpha
	}

	moves := r.b.Position().GenerateCapturesAndPromotions()
	if len(moves) == 0 && len(r.b.Position().GenerateAll()) == 0 {
		return 0 // stalemate, not a capture desert: never score this as a win for either side
	}

	list := NewMoveList(moves, func(m board.Move) Priority {
		return Priority(100*eval.NominalGain(m)) - Priority(eval.NominalValue(m.Piece))
	})

	for {
		m, ok := list.Next()
		if !ok {
			break
		}

		if r.q.DeltaMargin > 0 && !m.IsPromotion() {
			if standPat+eval.NominalGain(m)+r.q.DeltaMargin < alpha {
				continue // even the best case can't raise alpha: skip without recursing
			}
		}

		r.b.Make(m)
		score := r.search(ctx, beta.Negate(), alpha.Negate(), ply+1).IncrementMateDistance().Negate()
		r.b.Unmake()

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	return alpha
}
