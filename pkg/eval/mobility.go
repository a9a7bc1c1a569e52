package eval

import "github.com/go-mephisto/engine/pkg/board"

// mobilityUnit converts a raw destination count into centipawns before the phase weighting
// below is applied.
const mobilityUnit board.Score = 4

// mobilityWeights returns the minor/major mobility weight as a (numerator, denominator)
// pair for the given move number, per spec.md §4.3 step 2: below move 10, minor-piece
// mobility counts double and major-piece mobility is divided by 3; moves 10-17 use
// intermediate weights; move 18 on, raw (1:1) weights.
func mobilityWeights(fullmoves int) (minorNum, minorDen, majorNum, majorDen int) {
	switch {
	case fullmoves < 10:
		return 2, 1, 1, 3
	case fullmoves < 18:
		return 3, 2, 2, 3
	default:
		return 1, 1, 1, 1
	}
}

// mobilityScore sums each side's minor- and major-piece mobility (destination-square
// counts, a cheap activity proxy computed on demand rather than threaded through Make -- see
// board.Position.MobilityOf), weighted by the game's move number.
func mobilityScore(pos *board.Position, fullmoves int, phase GamePhase) board.Score {
	minorNum, minorDen, majorNum, majorDen := mobilityWeights(fullmoves)

	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		unit := c.Unit()
		pos.Pieces(c, func(sq board.Square, p board.Piece) {
			switch p {
			case board.Knight, board.Bishop:
				m := pos.MobilityOf(sq)
				score += unit * mobilityUnit * board.Score(m*minorNum/minorDen)
			case board.Rook, board.Queen:
				m := pos.MobilityOf(sq)
				score += unit * mobilityUnit * board.Score(m*majorNum/majorDen)
			}
		})
	}
	return score
}
