package eval

import "github.com/go-mephisto/engine/pkg/board"

const (
	doubledPenalty   board.Score = -10
	isolatedPenalty  board.Score = -15
	backwardPenalty  board.Score = -8
	passedBonus      board.Score = 20 // per rank advanced beyond the third rank
	outsidePassedCP  board.Score = 15
	devaluedMajority board.Score = 10
)

// PawnCache is the dedicated pawn hash table (component C5): pawn structure changes far
// less often than the full position, so caching its evaluation by PawnHash alone lets the
// same pawn skeleton be scored once no matter how the pieces around it shuffle.
type PawnCache struct {
	entries []pawnEntry
}

type pawnEntry struct {
	key   board.PawnHash
	score board.Score
	valid bool
}

func NewPawnCache(size int) *PawnCache {
	return &PawnCache{entries: make([]pawnEntry, size)}
}

func (c *PawnCache) Evaluate(pos *board.Position, phase GamePhase) board.Score {
	key := pos.PawnHash()
	idx := uint64(key) % uint64(len(c.entries))
	if e := c.entries[idx]; e.valid && e.key == key {
		return e.score
	}

	score := evaluatePawnStructure(pos, phase)
	c.entries[idx] = pawnEntry{key: key, score: score, valid: true}
	return score
}

// pawnFiles summarizes the pawn skeleton: per side, per file, pawn count and the rank range
// occupied on that file. Shared by every structural test below (spec.md §4.3.1's "scans both
// piece lists once").
type pawnFiles struct {
	count        [2][8]int
	minRank      [2][8]int // most advanced toward own back rank
	maxRank      [2][8]int // most advanced toward the enemy
	passedOnFile [2][8]bool
}

func scanPawnFiles(pos *board.Position) pawnFiles {
	var pf pawnFiles
	for _, c := range [2]board.Color{board.White, board.Black} {
		for f := 0; f < 8; f++ {
			pf.minRank[c][f] = 9
		}
	}
	for _, c := range [2]board.Color{board.White, board.Black} {
		pos.Pieces(c, func(sq board.Square, p board.Piece) {
			if p != board.Pawn {
				return
			}
			f := sq.File() - 1
			pf.count[c][f]++
			if sq.Rank() < pf.minRank[c][f] {
				pf.minRank[c][f] = sq.Rank()
			}
			if sq.Rank() > pf.maxRank[c][f] {
				pf.maxRank[c][f] = sq.Rank()
			}
		})
	}
	for _, c := range [2]board.Color{board.White, board.Black} {
		for f := 0; f < 8; f++ {
			if pf.count[c][f] == 0 {
				continue
			}
			v := vanguardRank(c, pf.minRank[c][f], pf.maxRank[c][f])
			pf.passedOnFile[c][f] = isPassed(pf, c, f, v)
		}
	}
	return pf
}

func evaluatePawnStructure(pos *board.Position, phase GamePhase) board.Score {
	pf := scanPawnFiles(pos)

	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		unit := c.Unit()
		for f := 0; f < 8; f++ {
			n := pf.count[c][f]
			if n == 0 {
				continue
			}
			if n > 1 {
				score += unit * doubledPenalty * board.Score(n-1)
			}
			if !hasNeighborPawns(pf.count[c], f) {
				score += unit * isolatedPenalty
			}

			v := vanguardRank(c, pf.minRank[c][f], pf.maxRank[c][f])
			if pf.passedOnFile[c][f] {
				bonus := passedBonus * board.Score(advancement(c, v))
				if hasSupporter(pf, c, f, v) {
					bonus += bonus / 4
				}
				score += unit * bonus
				if isOutsideFile(f) && !enemyHasPawnsOnSide(pf, c, f) && !enemyHasPasserOnOppositeSide(pf, c, f) {
					score += unit * outsidePassedCP
				}
			} else if isBackward(pf, c, f, v) {
				penalty := backwardPenalty
				if isCentralFile(f) {
					penalty *= 2
				}
				score += unit * penalty
			}
		}
	}

	score += devaluedMajorityBonus(pf)
	return score
}

func hasNeighborPawns(fileCounts [8]int, f int) bool {
	if f > 0 && fileCounts[f-1] > 0 {
		return true
	}
	if f < 7 && fileCounts[f+1] > 0 {
		return true
	}
	return false
}

// vanguardRank returns the rank of the pawn closest to promotion on that file, for the
// given color (White advances toward rank 8, Black toward rank 1).
func vanguardRank(c board.Color, minRank, maxRank int) int {
	if c == board.White {
		return maxRank
	}
	return minRank
}

func advancement(c board.Color, rank int) int {
	if c == board.White {
		return rank - 3
	}
	return 6 - rank
}

// isPassed reports whether the color's most advanced pawn on file f has no opposing pawn
// on its rank or ahead of it on the same or adjacent files -- a simplified passed-pawn test
// adequate for an evaluation term (not a rules-accurate "no legal blocker" proof).
func isPassed(pf pawnFiles, c board.Color, f, vanguard int) bool {
	opp := c.Opponent()
	for df := -1; df <= 1; df++ {
		nf := f + df
		if nf < 0 || nf > 7 || pf.count[opp][nf] == 0 {
			continue
		}
		if (c == board.White && pf.maxRank[opp][nf] >= vanguard) || (c == board.Black && pf.minRank[opp][nf] <= vanguard) {
			return false
		}
	}
	return advancement(c, vanguard) > 0
}

// hasSupporter reports whether a friendly pawn sits diagonally behind the passer, able to
// defend its advance (spec.md §4.3.1: "bonus scales ... with having a friendly pawn
// supporter diagonally behind").
func hasSupporter(pf pawnFiles, c board.Color, f, vanguard int) bool {
	behindRank := vanguard - 1
	if c == board.Black {
		behindRank = vanguard + 1
	}
	for _, df := range []int{-1, 1} {
		nf := f + df
		if nf < 0 || nf > 7 || pf.count[c][nf] == 0 {
			continue
		}
		// Any pawn on the adjacent file at or behind the supporting rank counts: a supporter
		// only needs to be able to reach the square, not sit on it right now.
		rearmost := pf.maxRank[c][nf]
		if c == board.White {
			rearmost = pf.minRank[c][nf]
		}
		if (c == board.White && rearmost <= behindRank) || (c == board.Black && rearmost >= behindRank) {
			return true
		}
	}
	return false
}

// isBackward reports whether the color's pawn on file f is backward: it sits on a half-open
// file (an enemy pawn contests the same file), and neither adjacent friendly pawn is
// advanced enough to have covered its stop square on the way up (spec.md §4.3.1).
func isBackward(pf pawnFiles, c board.Color, f, vanguard int) bool {
	opp := c.Opponent()
	if pf.count[opp][f] == 0 {
		return false
	}
	for _, df := range []int{-1, 1} {
		nf := f + df
		if nf < 0 || nf > 7 || pf.count[c][nf] == 0 {
			continue
		}
		adjVanguard := vanguardRank(c, pf.minRank[c][nf], pf.maxRank[c][nf])
		if advancement(c, adjVanguard) > advancement(c, vanguard) {
			return false // an adjacent pawn is already ahead and could have covered the push
		}
	}
	return true
}

func isCentralFile(f int) bool {
	return f >= 2 && f <= 5 // c,d,e,f
}

func isOutsideFile(f int) bool {
	return f == 0 || f == 1 || f == 6 || f == 7 // a,b,g,h
}

// enemyHasPawnsOnSide reports whether the opponent still has any pawn on the same wing as
// file f (queenside: a-d, kingside: e-h) -- spec.md's "no enemy pawns on that side" guard
// for the outside-passed-pawn bonus.
func enemyHasPawnsOnSide(pf pawnFiles, c board.Color, f int) bool {
	opp := c.Opponent()
	lo, hi := wingBounds(f)
	for wf := lo; wf <= hi; wf++ {
		if pf.count[opp][wf] > 0 {
			return true
		}
	}
	return false
}

// enemyHasPasserOnOppositeSide reports whether the opponent has a passed pawn on the wing
// opposite file f, which would race the outside passer and cancel its advantage.
func enemyHasPasserOnOppositeSide(pf pawnFiles, c board.Color, f int) bool {
	opp := c.Opponent()
	oppositeLo, oppositeHi := wingBounds(oppositeWingFile(f))
	for wf := oppositeLo; wf <= oppositeHi; wf++ {
		if pf.passedOnFile[opp][wf] {
			return true
		}
	}
	return false
}

func wingBounds(f int) (int, int) {
	if f <= 3 {
		return 0, 3
	}
	return 4, 7
}

func oppositeWingFile(f int) int {
	if f <= 3 {
		return 4
	}
	return 0
}

// devaluedMajorityBonus implements spec.md §4.3.1's "devalued majority": a side with more
// pawns on one wing than the opponent, but no passed pawn of either color there, has a
// majority that cannot convert to a passer -- a small bonus to the opponent reflects that
// the majority's long-term potential is illusory.
func devaluedMajorityBonus(pf pawnFiles) board.Score {
	var score board.Score
	for _, wing := range [2][2]int{{0, 3}, {4, 7}} {
		lo, hi := wing[0], wing[1]
		var count [2]int
		anyPasser := false
		for f := lo; f <= hi; f++ {
			count[board.White] += pf.count[board.White][f]
			count[board.Black] += pf.count[board.Black][f]
			if pf.passedOnFile[board.White][f] || pf.passedOnFile[board.Black][f] {
				anyPasser = true
			}
		}
		if anyPasser || count[board.White] == count[board.Black] {
			continue
		}
		majority := board.White
		if count[board.Black] > count[board.White] {
			majority = board.Black
		}
		score += majority.Opponent().Unit() * devaluedMajority
	}
	return score
}
