// Package mate implements the forced-mate solver (component C9): a fixed-depth search that
// iteratively widens a "checks-only" horizon for the side trying to mate, so that puzzles
// many plies deep remain tractable without the full evaluation and pruning machinery of the
// main search.
package mate

import (
	"context"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/search"
)

// PV is a solution to a mate search: the forcing line from the root to checkmate.
type PV struct {
	Moves []board.Move
	Nodes uint64
}

// Solve looks for a forced mate in at most maxDepthPlies plies, not starting the root move
// with any move in forbidden (so a caller can re-invoke with a prior solution's first move
// appended to find alternative mates, per solve_mate_all's "blocked roots" bookkeeping).
//
// Every pass searches the full maxDepthPlies, with a checks-only horizon that starts at
// maxDepthPlies and shrinks by 2 per pass down to 1: the attacker (the side to move at the
// root) may only play checking moves at its plies below checkDepth, counted from the root,
// while the defender always sees its full move list. If a pass finds no mate, the next one
// retries with the smaller horizon, which admits more quiet attacker moves. The first mate
// found is returned; it is not necessarily the shortest one.
func Solve(ctx context.Context, b *board.Board, maxDepthPlies int, forbidden []board.Move) (PV, bool) {
	for checkDepth := maxDepthPlies; checkDepth >= 1; checkDepth -= 2 {
		r := &runMate{b: b, maxDepth: maxDepthPlies, checkDepth: checkDepth, forbidden: forbidden}
		if pv, ok := r.search(ctx, maxDepthPlies, 0); ok {
			return PV{Moves: pv, Nodes: r.nodes}, true
		}
	}
	return PV{}, false
}

type runMate struct {
	b         *board.Board
	maxDepth  int
	checkDepth int
	forbidden []board.Move
	nodes     uint64
}

func (r *runMate) search(ctx context.Context, depthLeft, ply int) ([]board.Move, bool) {
	if search.IsCancelled(ctx) {
		return nil, false
	}
	r.nodes++

	inCheck := r.b.Position().IsChecked(r.b.Turn())

	if depthLeft == 0 {
		moves := r.b.Position().GenerateAll()
		if len(moves) > 0 {
			return nil, false // side to move escapes: no mate down this line
		}
		if inCheck {
			return nil, ply%2 == 1 // mated: a full solution if the defender is the side mated
		}
		return nil, false // stalemate is not a mate
	}

	moves := r.b.Position().GenerateAll()
	if len(moves) == 0 {
		if inCheck {
			return nil, ply%2 == 1
		}
		return nil, false
	}

	attacking := ply%2 == 0 // root side to move attacks on even plies (0, 2, 4, ...)
	if attacking && ply < r.checkDepth {
		moves = onlyChecking(r.b, moves)
	}

	// The attacker needs one mating move; the defender is only mated if every move it has
	// runs into mate.
	var line []board.Move
	for _, m := range moves {
		if ply == 0 && isForbidden(m, r.forbidden) {
			continue
		}

		r.b.Make(m)
		rest, ok := r.search(ctx, depthLeft-1, ply+1)
		r.b.Unmake()

		if attacking && ok {
			return append([]board.Move{m}, rest...), true
		}
		if !attacking {
			if !ok {
				return nil, false
			}
			if line == nil {
				line = append([]board.Move{m}, rest...)
			}
		}
	}
	if !attacking {
		return line, true
	}
	return nil, false
}

func onlyChecking(b *board.Board, moves []board.Move) []board.Move {
	var out []board.Move
	for _, m := range moves {
		b.Make(m)
		gives := b.Position().IsChecked(b.Turn())
		b.Unmake()
		if gives {
			out = append(out, m)
		}
	}
	return out
}

func isForbidden(m board.Move, forbidden []board.Move) bool {
	for _, f := range forbidden {
		if f.Equals(m) {
			return true
		}
	}
	return false
}

// SolveAll returns successive mate solutions up to limit, each one excluding the first move
// of every solution already found -- the caller-facing solve_mate_all iteration.
func SolveAll(ctx context.Context, b *board.Board, maxDepthPlies, limit int) []PV {
	var found []PV
	var forbidden []board.Move
	for len(found) < limit {
		pv, ok := Solve(ctx, b, maxDepthPlies, forbidden)
		if !ok {
			break
		}
		found = append(found, pv)
		if len(pv.Moves) == 0 {
			break
		}
		forbidden = append(forbidden, pv.Moves[0])
	}
	return found
}
