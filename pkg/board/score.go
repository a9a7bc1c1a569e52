package board

import "fmt"

// Score is a signed evaluation or search score in centipawns, positive favors White. Mate
// scores are encoded as values close to +/-Infinity, offset by the distance (in plies) to
// the mating move, so that shorter mates compare as strictly better than longer ones.
//
// If all pawns become queens and the opponent has only the king left, the standard material
// advantage is 9*8(p) + 9(q) + 2*5(r) + 2*3(n) + 2*3(b) = 103 pawns, i.e. about 10300cp, so
// an int16 comfortably covers every reachable material evaluation plus the mate encoding.
type Score int16

const (
	Infinity  Score = 32000
	MateValue Score = 30000 // score of "mate on the current move" (distance 0)
	MinScore  Score = -Infinity
	MaxScore  Score = Infinity

	mateThreshold = MateValue - 1000 // scores beyond this magnitude are mate scores
)

// Mate returns the score for being mated (or mating) in the given number of plies from the
// current node. A negative score favors the side to move being mated.
func Mate(pliesToMate int, sideIsMated bool) Score {
	s := MateValue - Score(pliesToMate)
	if sideIsMated {
		return -s
	}
	return s
}

// IsMateScore reports whether s encodes a forced mate rather than a material evaluation.
func (s Score) IsMateScore() bool {
	return s > mateThreshold || s < -mateThreshold
}

// MateDistance returns the number of plies to mate, whether the side to move is the one
// delivering it (mates=true) or the one getting mated (mates=false), and whether s is a mate
// score at all. Direction is reported as its own bool rather than folded into the sign of the
// distance: a "mate in 0" is reachable from both directions (the move just delivered
// checkmate, or the side to move has just been checkmated), and int arithmetic has no signed
// zero to tell those two cases apart if direction is squeezed back out of the magnitude.
func (s Score) MateDistance() (plies int, mates bool, ok bool) {
	switch {
	case s > mateThreshold:
		return int(MateValue - s), true, true
	case s < -mateThreshold:
		return int(MateValue + s), false, true
	default:
		return 0, false, false
	}
}

// AdjustForStore normalizes a mate score to be relative to the node it is stored at (distance
// from that node), so that it is independent of how far the node is from the search root.
// This is what makes transposition-table mate scores reusable across different root distances.
func (s Score) AdjustForStore(plyFromRoot int) Score {
	if d, mates, ok := s.MateDistance(); ok {
		return Mate(d+plyFromRoot, !mates)
	}
	return s
}

// AdjustForRetrieve is the inverse of AdjustForStore: it re-expresses a stored mate score
// relative to the current node's distance from the root.
func (s Score) AdjustForRetrieve(plyFromRoot int) Score {
	if d, mates, ok := s.MateDistance(); ok {
		return Mate(d-plyFromRoot, !mates)
	}
	return s
}

func (s Score) Negate() Score {
	return -s
}

// IncrementMateDistance is applied once per ply as a mate score propagates back up the
// search tree, so that "mate in N" at a child becomes "mate in N+1" at the parent.
func (s Score) IncrementMateDistance() Score {
	if d, mates, ok := s.MateDistance(); ok {
		return Mate(d+1, !mates)
	}
	return s
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// Crop clamps s into [MinScore;MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

func (s Score) String() string {
	if d, mates, ok := s.MateDistance(); ok {
		if mates {
			return fmt.Sprintf("#%d", d)
		}
		return fmt.Sprintf("#-%d", d)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}
