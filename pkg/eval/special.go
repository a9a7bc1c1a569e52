package eval

import "github.com/go-mephisto/engine/pkg/board"

// bishopPairBonus rewards holding both bishops (spec.md §4.3 step 6), scaled down as pawns
// pile up on the board: the pair's long-diagonal advantage matters most in open positions.
func bishopPairBonus(pos *board.Position) board.Score {
	var score board.Score
	totalPawns := board.Score(pos.MaterialCount(board.White, board.Pawn) + pos.MaterialCount(board.Black, board.Pawn))
	for _, c := range [2]board.Color{board.White, board.Black} {
		if pos.MaterialCount(c, board.Bishop) < 2 {
			continue
		}
		bonus := board.Score(50) - totalPawns
		if bonus < 10 {
			bonus = 10
		}
		score += c.Unit() * bonus
	}
	return score
}

// twoMinorsVsRookBalance implements spec.md §4.3 step 7: when a side has two (or more) more
// minor pieces than the opponent but one fewer rook, the minors are worth slightly more than
// their raw material total in anything but a very closed position.
func twoMinorsVsRookBalance(pos *board.Position) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		opp := c.Opponent()
		minors := pos.MaterialCount(c, board.Knight) + pos.MaterialCount(c, board.Bishop)
		oppMinors := pos.MaterialCount(opp, board.Knight) + pos.MaterialCount(opp, board.Bishop)
		rooks := pos.MaterialCount(c, board.Rook)
		oppRooks := pos.MaterialCount(opp, board.Rook)
		if minors-oppMinors >= 2 && oppRooks-rooks >= 1 {
			score += c.Unit() * 15
		}
	}
	return score
}

// trapped detects the classic trapped-bishop pattern on a2/a7/h2/h7 blockaded by the
// adjacent enemy pawn (spec.md §4.3 step 3): the bishop has no square to move to and will
// likely be won for a pawn.
func trapped(pos *board.Position) board.Score {
	var score board.Score
	check := func(side board.Color, bishopSq, blockSq board.Square) {
		if c, p, ok := pos.PieceAt(bishopSq); ok && c == side && p == board.Bishop {
			if c2, p2, ok := pos.PieceAt(blockSq); ok && c2 == side.Opponent() && p2 == board.Pawn {
				score += side.Unit() * -150
			}
		}
	}
	check(board.White, board.NewSquare(1, 2), board.NewSquare(2, 3)) // Ba2 blocked by ...b3
	check(board.White, board.NewSquare(8, 2), board.NewSquare(7, 3)) // Bh2 blocked by ...g3
	check(board.Black, board.NewSquare(1, 7), board.NewSquare(2, 6)) // Ba7 blocked by b6
	check(board.Black, board.NewSquare(8, 7), board.NewSquare(7, 6)) // Bh7 blocked by ...g6
	return score
}

// developmentPenalty (opening/middlegame only) penalizes a bishop still on its home square
// behind its own central pawn pushed one step (e3/d3 for White, e6/d6 for Black), and a fianchetto bishop whose f-pawn still sits on its home square
// blocking the long diagonal's far end (spec.md §4.3 step 12).
func developmentPenalty(pos *board.Position, phase GamePhase) board.Score {
	if phase == Endgame {
		return 0
	}
	var score board.Score

	blockedCentral := func(c board.Color, bishopHome, pawnSq board.Square) {
		if bc, bp, ok := pos.PieceAt(bishopHome); ok && bc == c && bp == board.Bishop {
			if pc, pp, ok := pos.PieceAt(pawnSq); ok && pc == c && pp == board.Pawn {
				score += c.Unit() * -15
			}
		}
	}
	blockedCentral(board.White, board.NewSquare(6, 1), board.NewSquare(5, 3)) // Bf1 boxed by e3
	blockedCentral(board.White, board.NewSquare(3, 1), board.NewSquare(4, 3)) // Bc1 boxed by d3
	blockedCentral(board.Black, board.NewSquare(6, 8), board.NewSquare(5, 6)) // Bf8 boxed by e6
	blockedCentral(board.Black, board.NewSquare(3, 8), board.NewSquare(4, 6)) // Bc8 boxed by d6

	fianchettoBoxed := func(c board.Color, bishopSq, fPawnHome board.Square) {
		if bc, bp, ok := pos.PieceAt(bishopSq); ok && bc == c && bp == board.Bishop {
			if pc, pp, ok := pos.PieceAt(fPawnHome); ok && pc == c && pp == board.Pawn {
				score += c.Unit() * -10
			}
		}
	}
	fianchettoBoxed(board.White, board.NewSquare(7, 2), board.NewSquare(6, 2)) // Bg2 behind f2
	fianchettoBoxed(board.Black, board.NewSquare(7, 7), board.NewSquare(6, 7)) // Bg7 behind f7

	return score
}

// oppositeBishopDiscount implements spec.md §4.3 step 11: positions with opposite-colored
// bishops and otherwise thin material trend drawish even with a material edge, discounted
// 15%/25%/40% of the current evaluation depending on how much other material remains.
func oppositeBishopDiscount(pos *board.Position, score board.Score) board.Score {
	var wBishopSq, bBishopSq board.Square
	wBishops, bBishops := 0, 0
	pos.Pieces(board.White, func(sq board.Square, p board.Piece) {
		if p == board.Bishop {
			wBishops++
			wBishopSq = sq
		}
	})
	pos.Pieces(board.Black, func(sq board.Square, p board.Piece) {
		if p == board.Bishop {
			bBishops++
			bBishopSq = sq
		}
	})
	if wBishops != 1 || bBishops != 1 || wBishopSq.IsLight() == bBishopSq.IsLight() {
		return 0
	}

	other := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		pos.Pieces(c, func(_ board.Square, p board.Piece) {
			if p == board.Rook || p == board.Queen || p == board.Knight {
				other++
			}
		})
	}

	var discountPercent board.Score
	switch {
	case other == 0:
		discountPercent = 40
	case other <= 2:
		discountPercent = 25
	default:
		discountPercent = 15
	}
	return -score * discountPercent / 100
}

// openingMicroAdjustment implements spec.md §4.3 step 12's side-to-move bonus, damping
// evaluation oscillation early in the game and fading to zero as the opening ends.
func openingMicroAdjustment(pos *board.Position, fullmoves int) board.Score {
	var bonus board.Score
	switch {
	case fullmoves < 10:
		bonus = 10
	case fullmoves < 18:
		bonus = 5
	default:
		bonus = 0
	}
	return pos.Turn().Unit() * bonus
}
