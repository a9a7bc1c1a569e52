package eval

import "github.com/go-mephisto/engine/pkg/board"

// kingSafety scores each side's king safety in the opening/middlegame (spec.md §4.3 step 10,
// middle-game refinement): whether the king has castled, the integrity of its pawn shield
// (a fianchettoed bishop counts as covering its file), a penalty for sitting uncastled while
// the opponent still has a queen, and a cornered-rook penalty for a rook trapped behind its
// own king.
func kingSafety(pos *board.Position, phase GamePhase) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		score += c.Unit() * kingSafetyFor(pos, c)
	}
	return score
}

func kingSafetyFor(pos *board.Position, c board.Color) board.Score {
	kingSq := pos.KingSquare(c)
	homeRank := 1
	if c == board.Black {
		homeRank = 8
	}

	var score board.Score

	castled := kingSq.File() >= 7 || kingSq.File() <= 2
	switch {
	case castled:
		score += 20
		score += pawnShield(pos, c, kingSq)
	case kingSq == board.NewSquare(5, homeRank):
		score -= 5 // still home: uncommitted, neither penalized as exposed nor rewarded as safe
	default:
		score -= 15 // king wandered off both the home square and a castled position
	}

	if !castled && pos.MaterialCount(c.Opponent(), board.Queen) > 0 {
		score -= 15
	}

	score += corneredRookPenalty(pos, c, kingSq, homeRank)

	return score
}

// pawnShield scores the three pawns in front of a castled king: present and unmoved scores
// well, a fianchetto bishop substitutes for the file's own pawn, and an open file in front
// of the king is penalized.
func pawnShield(pos *board.Position, c board.Color, kingSq board.Square) board.Score {
	forwardRank := kingSq.Rank() + 1
	fianchettoRank := kingSq.Rank() + 2
	if c == board.Black {
		forwardRank = kingSq.Rank() - 1
		fianchettoRank = kingSq.Rank() - 2
	}
	if forwardRank < 1 || forwardRank > 8 {
		return 0
	}

	var score board.Score
	for df := -1; df <= 1; df++ {
		f := kingSq.File() + df
		if f < 1 || f > 8 {
			continue
		}
		if col, p, ok := pos.PieceAt(board.NewSquare(f, forwardRank)); ok && col == c && p == board.Pawn {
			score += 10
			continue
		}
		if df != 0 && fianchettoRank >= 1 && fianchettoRank <= 8 {
			if col, p, ok := pos.PieceAt(board.NewSquare(f, fianchettoRank)); ok && col == c && p == board.Bishop {
				score += 5
				continue
			}
		}
		score -= 10
	}
	return score
}

// corneredRookPenalty flags the classic "rook trapped in the corner by its own castled
// king" pattern (e.g. White Kg1/Rh1 with nowhere for the rook to go).
func corneredRookPenalty(pos *board.Position, c board.Color, kingSq board.Square, homeRank int) board.Score {
	switch {
	case kingSq.File() >= 7:
		if col, p, ok := pos.PieceAt(board.NewSquare(8, homeRank)); ok && col == c && p == board.Rook {
			return -25
		}
	case kingSq.File() <= 2:
		if col, p, ok := pos.PieceAt(board.NewSquare(1, homeRank)); ok && col == c && p == board.Rook {
			return -25
		}
	}
	return 0
}
