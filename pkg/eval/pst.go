package eval

import "github.com/go-mephisto/engine/pkg/board"

// GamePhase classifies a position along the opening-to-endgame continuum, used to taper
// piece-square tables and enable endgame-only evaluation terms (component C6: "endgame
// specializations").
type GamePhase int

const (
	Opening GamePhase = iota
	Middlegame
	Endgame
)

// Phase classifies the position by total non-pawn, non-king material remaining, matching
// the original engine's coarse three-way phase split rather than a continuously tapered
// blend -- simpler to reason about and to keep bit-exact across re-evaluation.
func Phase(pos *board.Position) GamePhase {
	material := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		pos.Pieces(c, func(_ board.Square, p board.Piece) {
			if p == board.Pawn || p == board.King {
				return
			}
			material += int(NominalValue(p))
		})
	}
	switch {
	case material > 5600:
		return Opening
	case material > 2400:
		return Middlegame
	default:
		return Endgame
	}
}

// pst holds one piece's square-value table from White's perspective, rank 1 (index 0) to
// rank 8 (index 7), file A (index 0) to file H (index 7). Black's value is read from the
// vertically mirrored square.
type pst [8][8]board.Score

var (
	pawnPST = pst{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, -15, -15, 10, 10, 5},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	knightPST = pst{
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	}
	bishopPST = pst{
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	}
	rookPST = pst{
		{0, 0, 0, 5, 5, 0, 0, 0},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	queenPST = pst{
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	}
	kingMidgamePST = pst{
		{20, 30, 10, 0, 0, 10, 30, 20},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
	}
	kingEndgamePST = pst{
		{-50, -30, -30, -30, -30, -30, -30, -50},
		{-30, -30, 0, 0, 0, 0, -30, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -20, -10, 0, 0, -10, -20, -30},
		{-50, -40, -30, -20, -20, -30, -40, -50},
	}
)

func pstValue(piece board.Piece, c board.Color, sq board.Square, phase GamePhase) board.Score {
	file, rank := sq.File()-1, sq.Rank()-1
	if c == board.Black {
		rank = 7 - rank
	}

	switch piece {
	case board.Pawn:
		return pawnPST[rank][file]
	case board.Knight:
		return knightPST[rank][file]
	case board.Bishop:
		return bishopPST[rank][file]
	case board.Rook:
		return rookPST[rank][file]
	case board.Queen:
		return queenPST[rank][file]
	case board.King:
		if phase == Endgame {
			return kingEndgamePST[rank][file]
		}
		return kingMidgamePST[rank][file]
	default:
		return 0
	}
}
