package search

import (
	"context"
	"sort"

	"github.com/go-mephisto/engine/pkg/board"
)

// Searcher performs one fixed-depth search, returning the score (from the mover's
// perspective) and principal variation found.
type Searcher interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (nodes uint64, score board.Score, moves []board.Move, err error)
}

const (
	nullMoveReduction = 3 // R in "null-move pruning with reduction R"
	nullMoveMinDepth  = 3 // below this depth, null-move pruning is more likely to mis-prune than help
	lmrMinDepth       = 3
	lmrMinMoveIndex   = 4 // first few moves at a node are always searched at full depth
	iidMinDepth       = 4
	futilityMaxDepth  = 2
)

var futilityMargin = [futilityMaxDepth + 1]board.Score{0, 150, 300}

// Negascout is the engine's principal search algorithm (component C8): negamax with
// principal variation search (null-window re-search), null-move pruning, reverse futility
// pruning at shallow depth, late move reductions, internal iterative deepening when no hash
// move is available, and mate-distance propagation -- all backed by the shared
// transposition table and killer/history move ordering.
type Negascout struct {
	Quiet Quiescence
}

// rootMaterialSetter is implemented by evaluators (eval.Standard) that snapshot the root
// position's material balance for the trade logic and lazy-eval short circuit (spec.md
// §4.3.2, §4.3 step 5). Matched via an optional interface rather than a concrete type so
// that Negascout stays usable with any Evaluator, including test doubles that skip it.
type rootMaterialSetter interface {
	SetRootMaterial(b *board.Board)
}

func (n Negascout) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	b.SetRoot()
	if rs, ok := n.Quiet.Eval.(rootMaterialSetter); ok {
		rs.SetRootMaterial(b)
	}
	r := &runNegascout{n: n, sctx: sctx, b: b}

	score, pv := r.search(ctx, depth, sctx.Alpha, sctx.Beta, true)
	if IsCancelled(ctx) {
		return r.nodes, 0, nil, ErrHalted
	}
	return r.nodes, score, pv, nil
}

// PreSortRootMoves implements spec.md §4.5's root-driver pre-sort pass: score every legal
// root move with one ply of search plus quiescence, and return the moves sorted by
// descending score (from the perspective of the side to move at b). Run once before real
// iterative deepening begins so that the first few real iterations already see a
// better-than-MVV-LVA order via Context.RootOrder, rather than discovering one from scratch.
func (n Negascout) PreSortRootMoves(ctx context.Context, b *board.Board) ([]board.Move, error) {
	b.SetRoot()
	moves := b.Position().GenerateAll()

	type scored struct {
		m     board.Move
		score board.Score
	}
	results := make([]scored, 0, len(moves))
	for _, m := range moves {
		if IsCancelled(ctx) {
			return nil, ErrHalted
		}
		b.Make(m)
		_, score := n.Quiet.QuietSearch(ctx, &Context{Alpha: board.MinScore, Beta: board.MaxScore}, b)
		b.Unmake()
		results = append(results, scored{m: m, score: score.Negate()})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	order := make([]board.Move, len(results))
	for i, r := range results {
		order[i] = r.m
	}
	return order, nil
}

type runNegascout struct {
	n     Negascout
	sctx  *Context
	b     *board.Board
	nodes uint64
}

// search returns the score from the perspective of the side to move at this node, and the
// principal variation below it. allowNull gates null-move pruning: it is disabled for one
// ply after a null move is tried, so the engine never plays two consecutive null moves.
func (r *runNegascout) search(ctx context.Context, depth int, alpha, beta board.Score, allowNull bool) (board.Score, []board.Move) {
	if IsCancelled(ctx) {
		return 0, nil
	}
	if r.b.Result().Outcome == board.Draw {
		return 0, nil
	}

	ply := r.b.Ply()
	pvNode := beta-alpha > 1

	var hashMove board.Move
	if bound, d, score, move, ok := r.sctx.TT.Read(r.b.Hash(), ply); ok {
		hashMove = move
		if d >= depth && !pvNode {
			score = score.AdjustForRetrieve(ply)
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				if score >= beta {
					return score, nil
				}
			case UpperBound:
				if score <= alpha {
					return score, nil
				}
			}
		}
	}

	inCheckAtEntry := r.b.Position().IsChecked(r.b.Turn())

	// Check extension: a position in check is never quiescent (a reply that escapes check
	// can upend a shallow-looking tactic), so it is searched one ply deeper instead of being
	// handed to quiescence search or cut off at the horizon. Bounded to MaxStackDepth by the
	// board's own history stack, so a check-evasion chain cannot recurse forever.
	if depth <= 0 && inCheckAtEntry {
		depth = 1
	}

	if depth <= 0 {
		nodes, score := r.n.Quiet.QuietSearch(ctx, &Context{Alpha: alpha, Beta: beta, TT: r.sctx.TT, Killers: r.sctx.Killers, History: r.sctx.History}, r.b)
		r.nodes += nodes
		r.sctx.TT.Write(r.b.Hash(), ply, ExactBound, 0, score.AdjustForStore(ply), board.Move{})
		return score, nil
	}

	r.nodes++
	inCheck := inCheckAtEntry

	// Reverse futility pruning: if we're already so far ahead that even a generous margin
	// added to alpha's opposite number cannot lose, skip the node entirely.
	if !pvNode && !inCheck && depth <= futilityMaxDepth && !beta.IsMateScore() {
		staticEval := r.n.Quiet.Eval.Evaluate(ctx, r.b) * r.b.Turn().Unit()
		if staticEval-futilityMargin[depth] >= beta {
			return staticEval, nil
		}
	}

	// Null-move pruning: if passing the move entirely still leaves the opponent unable to
	// improve to beta, the position is so good a real move will also cut off. Disabled in
	// check (a null move into check is meaningless) and in pawn/king-only endgames (zugzwang
	// risk, per the standard caveat on this technique).
	if allowNull && !pvNode && !inCheck && depth >= nullMoveMinDepth && !beta.IsMateScore() && hasNonPawnMaterial(r.b) {
		r.b.MakeNull()
		score, _ := r.search(ctx, depth-1-nullMoveReduction, beta.Negate(), beta.Negate()+1, false)
		score = score.Negate()
		r.b.UnmakeNull()
		if score >= beta {
			return beta, nil
		}
	}

	// Internal iterative deepening: without a hash move to try first, a shallower search
	// finds a reasonable one to order by, instead of falling back to raw MVV-LVA alone.
	if hashMove.Equals(board.Move{}) && depth >= iidMinDepth && pvNode {
		_, iidPV := r.search(ctx, depth-2, alpha, beta, true)
		if len(iidPV) > 0 {
			hashMove = iidPV[0]
		}
	}

	moves := r.b.Position().GenerateAll()
	if len(moves) == 0 {
		result := r.b.AdjudicateNoLegalMoves()
		if result.Reason == board.Checkmate {
			return board.Mate(0, true), nil
		}
		return 0, nil
	}

	var list *MoveList
	if ply == 0 && len(r.sctx.RootOrder) > 0 {
		list = NewMoveList(moves, RootOrderingFor(hashMove, r.sctx.RootOrder, r.b.Turn(), r.sctx))
	} else {
		list = NewMoveList(moves, OrderingFor(hashMove, ply, r.b.Turn(), r.sctx))
	}

	bound := UpperBound
	var pv []board.Move
	var best board.Move
	idx := 0

	for {
		m, ok := list.Next()
		if !ok {
			break
		}

		r.b.Make(m)

		var score board.Score
		var rem []board.Move

		reduction := 0
		if idx >= lmrMinMoveIndex && depth >= lmrMinDepth && !m.IsCapture() && !m.IsPromotion() && !inCheck {
			reduction = 1
		}

		switch {
		case idx == 0:
			score, rem = r.search(ctx, depth-1, beta.Negate(), alpha.Negate(), true)
			score = score.IncrementMateDistance().Negate()
		default:
			score, rem = r.search(ctx, depth-1-reduction, alpha.Negate()-1, alpha.Negate(), true)
			score = score.IncrementMateDistance().Negate()
			if score > alpha && (reduction > 0 || score < beta) {
				score, rem = r.search(ctx, depth-1, beta.Negate(), alpha.Negate(), true)
				score = score.IncrementMateDistance().Negate()
			}
		}

		r.b.Unmake()
		idx++

		if score > alpha {
			alpha = score
			best = m
			pv = append([]board.Move{m}, rem...)
			bound = ExactBound
		}

		if alpha >= beta {
			bound = LowerBound
			if r.sctx.Killers != nil {
				r.sctx.Killers.Record(ply, m)
			}
			if r.sctx.History != nil {
				r.sctx.History.Record(r.b.Turn(), m, depth)
			}
			break
		}
	}

	r.sctx.TT.Write(r.b.Hash(), ply, bound, depth, alpha.AdjustForStore(ply), best)
	return alpha, pv
}

func hasNonPawnMaterial(b *board.Board) bool {
	has := false
	b.Position().Pieces(b.Turn(), func(_ board.Square, p board.Piece) {
		if p != board.Pawn && p != board.King {
			has = true
		}
	})
	return has
}
