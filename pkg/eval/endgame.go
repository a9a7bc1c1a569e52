package eval

import (
	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/kpk"
)

// endgameRefinement applies spec.md §4.3 step 10's endgame-phase terms: king
// centralization (the attacking king wants the center; the defending lone king in a basic
// mate wants the opposite), a knight-pair penalty, and the specialized few-piece endings
// this evaluator covers directly -- K+P vs K via the external KPK bitbase (spec.md §6.5),
// and K+R vs K / K+Q vs K by rewarding driving the lone defending king to the edge.
func endgameRefinement(pos *board.Position, t kpk.Table) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		score += c.Unit() * centralizationBonus(pos, c)
	}
	score += knightPairPenalty(pos)
	score += basicMatingTables(pos, t)
	score += wrongBishopCorrection(pos)
	return score
}

func centralizationBonus(pos *board.Position, c board.Color) board.Score {
	return board.Score(centerDistanceBonus(pos.KingSquare(c)))
}

// centerDistanceBonus scores a square by Chebyshev-ish distance from the center, larger for
// central squares. Used both to reward the attacking king's centralization and, inverted, to
// reward driving a lone defending king toward the edge.
func centerDistanceBonus(sq board.Square) int {
	df := sq.File() - 4
	if df < 0 {
		df = -df + 1
	}
	dr := sq.Rank() - 4
	if dr < 0 {
		dr = -dr + 1
	}
	dist := df + dr
	return (7 - dist) * 2
}

// knightPairPenalty reflects that two knights coordinate worse than a bishop pair or
// bishop+knight in an open endgame, with no long-range control between them.
func knightPairPenalty(pos *board.Position) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.MaterialCount(c, board.Knight) >= 2 {
			score += c.Unit() * -15
		}
	}
	return score
}

// isLoneKing reports whether c has no piece left besides its king.
func isLoneKing(pos *board.Position, c board.Color) bool {
	n := 0
	pos.Pieces(c, func(_ board.Square, _ board.Piece) { n++ })
	return n == 1
}

// hasOnly reports whether c's only non-king, non-pawn piece kind present is exactly kind,
// isolating K+R-K / K+Q-K from positions carrying other material (where the PSTs already
// account for piece placement and this bonus would double-count it).
func hasOnly(pos *board.Position, c board.Color, kind board.Piece) bool {
	ok := true
	pos.Pieces(c, func(_ board.Square, p board.Piece) {
		if p != board.King && p != board.Pawn && p != kind {
			ok = false
		}
	})
	return ok
}

// basicMatingTables covers "drive the lone king to the edge" for K+R-K and K+Q-K, and
// delegates K+P-K to the external KPK bitbase.
func basicMatingTables(pos *board.Position, t kpk.Table) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		opp := c.Opponent()
		if !isLoneKing(pos, opp) {
			continue
		}
		if pos.MaterialCount(c, board.Rook) == 1 && hasOnly(pos, c, board.Rook) {
			score += c.Unit() * driveToEdge(pos, opp)
		}
		if pos.MaterialCount(c, board.Queen) == 1 && hasOnly(pos, c, board.Queen) {
			score += c.Unit() * driveToEdge(pos, opp)
		}
	}
	score += kpkScore(pos, t)
	return score
}

// driveToEdge rewards pushing the defending lone king toward the board's edge and corner,
// and bringing the attacking king close, the two ingredients of every basic mate.
func driveToEdge(pos *board.Position, defender board.Color) board.Score {
	sq := pos.KingSquare(defender)
	edgeBonus := board.Score(14-centerDistanceBonus(sq)) * 5

	attacker := defender.Opponent()
	aSq := pos.KingSquare(attacker)
	kingDist := abs(sq.File()-aSq.File()) + abs(sq.Rank()-aSq.Rank())
	closeness := board.Score(14-kingDist) * 4

	return edgeBonus + closeness
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// onlyRookFilePawns reports whether c has at least one pawn and every one of them sits on
// the same rook file (A or H), returning that file. A bishop's pawns spread across other
// files always include one the bishop's own color can escort home, so the fortress pattern
// below only applies to a pure rook-pawn majority.
func onlyRookFilePawns(pos *board.Position, c board.Color) (int, bool) {
	file, n := 0, 0
	ok := true
	pos.Pieces(c, func(sq board.Square, p board.Piece) {
		if p != board.Pawn {
			return
		}
		n++
		f := sq.File()
		if f != 1 && f != 8 {
			ok = false
			return
		}
		if file != 0 && f != file {
			ok = false
			return
		}
		file = f
	})
	return file, ok && n > 0
}

// wrongBishopCorrection implements spec.md §4.3 step 10's K+B+(rook pawn)-vs-K "wrong bishop"
// pattern: when a side's entire extra pawn majority is confined to a single rook file and its
// only minor piece is a bishop that cannot control that file's queening square (a bishop on
// the opposite square color from the corner), the position is a fortress draw as long as the
// defending king can reach that corner. The correction fades out the farther the defending
// king is from the corner, since a king already driven away no longer holds the fortress.
func wrongBishopCorrection(pos *board.Position) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.MaterialCount(c, board.Bishop) != 1 || !hasOnly(pos, c, board.Bishop) {
			continue
		}
		rookFile, ok := onlyRookFilePawns(pos, c)
		if !ok {
			continue
		}

		var bishopSq board.Square
		pos.Pieces(c, func(sq board.Square, p board.Piece) {
			if p == board.Bishop {
				bishopSq = sq
			}
		})

		queenRank := 8
		if c == board.Black {
			queenRank = 1
		}
		corner := board.NewSquare(rookFile, queenRank)
		if bishopSq.IsLight() == corner.IsLight() {
			continue // right-colored bishop: it controls the queening square, no fortress
		}

		defender := c.Opponent()
		dSq := pos.KingSquare(defender)
		dist := abs(dSq.File()-corner.File()) + abs(dSq.Rank()-corner.Rank())
		if dist > 3 {
			continue // defending king is too far to have reached the fortress yet
		}

		extra := NominalValue(board.Bishop)
		var fade board.Score
		switch {
		case dist <= 1:
			fade = extra // king already holds the fortress corner: cancel the deficit outright
		case dist == 2:
			fade = extra * 2 / 3
		default:
			fade = extra / 3
		}
		score += c.Unit() * -fade
	}
	return score
}

// kpkScore probes the external KPK bitbase (spec.md §6.5) when the position is exactly K+P
// vs K. The table is addressed with the pawn-holder as White; when Black holds the pawn, the
// position is mirrored vertically with colors swapped before probing.
func kpkScore(pos *board.Position, t kpk.Table) board.Score {
	for _, c := range [2]board.Color{board.White, board.Black} {
		opp := c.Opponent()
		if !isLoneKing(pos, opp) || pos.MaterialCount(c, board.Pawn) != 1 || !hasOnly(pos, c, board.Pawn) {
			continue
		}

		var pawnSq board.Square
		pos.Pieces(c, func(sq board.Square, p board.Piece) {
			if p == board.Pawn {
				pawnSq = sq
			}
		})

		wk, wp, bk := pos.KingSquare(c), pawnSq, pos.KingSquare(opp)
		side := pos.Turn()
		if c == board.Black {
			wk, wp, bk = wk.Mirror(), wp.Mirror(), bk.Mirror()
			side = side.Opponent()
		}

		if kpk.Probe(t, side, wk, wp, bk) {
			return c.Unit() * 500
		}
		return 0
	}
	return 0
}
