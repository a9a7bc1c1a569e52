// Package eval contains the static position evaluator (component C6): material and
// piece-square tables, mobility, pawn structure (backed by a dedicated pawn hash table,
// component C5), king safety, phase-scaled endgame adjustments, fifty-move flattening and
// evaluation noise.
package eval

import (
	"context"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/kpk"
)

// Evaluator is a static position evaluator, scored from White's perspective in centipawns.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) board.Score
}

// Config bounds the tunable parts of the standard evaluator: how much randomness to inject
// (spec's "engine personality" noise) and which external collaborators back the endgame
// specializations (component C6 step 10's KPK probe, spec.md §6.5).
type Config struct {
	NoiseMillipawns int   // if >0, adds uniform noise in [-NoiseMillipawns/2;+NoiseMillipawns/2] cp/10
	NoiseSeed       int64
	KPK             kpk.Table // nil defaults to kpk.None{} (every KPK position scored as a draw)

	// ComputerSide, if HasComputerSide is set, biases a near-level evaluation by a small
	// contempt shift in the engine's favor (spec.md §4.3 step 12), fading to zero as the
	// opening ends. Left unset (the zero value) outside of engine play -- e.g. by tests and
	// by the mate solver's evaluator, neither of which has an engine side to favor.
	ComputerSide    board.Color
	HasComputerSide bool
}

// Standard is the engine's default evaluator, combining material, piece-square tables,
// mobility, pawn structure, king safety and phase-dependent endgame knowledge.
type Standard struct {
	pawns *PawnCache
	noise Random
	kpk   kpk.Table

	computerSide     board.Color
	haveComputerSide bool

	// rootMaterial snapshots the material balance at the start of search (spec.md §4.3.2's
	// trade logic): set by SetRootMaterial before each root search, compared against the
	// current position's material at every node to bias toward trading when ahead.
	rootMaterial materialSnapshot
	haveRoot     bool
}

func NewStandard(cfg Config) *Standard {
	tbl := cfg.KPK
	if tbl == nil {
		tbl = kpk.None{}
	}
	return &Standard{
		pawns:            NewPawnCache(16384),
		noise:            NewRandom(cfg.NoiseMillipawns, cfg.NoiseSeed),
		kpk:              tbl,
		computerSide:     cfg.ComputerSide,
		haveComputerSide: cfg.HasComputerSide,
	}
}

// contempt implements spec.md §4.3 step 12's draw-score contempt shift: a small bonus
// toward the configured computer side, largest in the opening and fading to zero by move
// 18, so the engine mildly avoids steering an equal position toward a draw early on.
func (e *Standard) contempt(fullmoves int) board.Score {
	if !e.haveComputerSide {
		return 0
	}
	var shift board.Score
	switch {
	case fullmoves < 10:
		shift = 35
	case fullmoves < 18:
		shift = 20
	default:
		shift = 0
	}
	return e.computerSide.Unit() * shift
}

// SetRootMaterial snapshots the root position's material balance and raw evaluation,
// consulted by the trade logic (spec.md §4.3.2) and the lazy-eval short circuit (spec.md
// §4.3 step 5) for the remainder of the search rooted at b.
func (e *Standard) SetRootMaterial(b *board.Board) {
	pos := b.Position()
	e.rootMaterial = snapshotMaterial(pos)
	e.rootMaterial.lastConfirmedEval = materialAndPST(pos, Phase(pos))
	e.haveRoot = true
}

func (e *Standard) Evaluate(ctx context.Context, b *board.Board) board.Score {
	pos := b.Position()

	// Phase 1: material draw detection (spec.md §4.3 step 1). Trial make/unmake already
	// adjudicates this at the board level (makeunmake.go), so a position reaching the
	// evaluator with insufficient material is scored flat zero rather than walked through
	// piece-square tables that would otherwise report a spurious imbalance.
	if pos.HasInsufficientMaterial() {
		return 0
	}

	phase := Phase(pos)
	mat := materialAndPST(pos, phase)
	score := mat

	score += mobilityScore(pos, b.FullMoves(), phase)
	score += trapped(pos)

	// Phase 5: lazy-eval short circuit (spec.md §4.3 step 5). Only applies in the
	// middlegame, and only once a root snapshot exists to compare against -- without one
	// (e.g. evaluating outside of a search, as in tests) the refinement is never skipped.
	if phase == Middlegame && e.haveRoot {
		if diff := score - e.rootMaterial.lastConfirmedEval; diff > 250 || diff < -250 {
			return board.Crop(score + e.noise.Evaluate(pos))
		}
	}

	score += bishopPairBonus(pos)
	score += twoMinorsVsRookBalance(pos)
	score += e.pawns.Evaluate(pos, phase)
	score += developmentPenalty(pos, phase)

	if e.haveRoot {
		score += tradeBonus(pos, e.rootMaterial, score)
	} else {
		score += tradeBonus(pos, snapshotMaterial(pos), score)
	}

	switch phase {
	case Middlegame, Opening:
		score += kingSafety(pos, phase)
	case Endgame:
		score += endgameRefinement(pos, e.kpk)
	}

	score += oppositeBishopDiscount(pos, score)
	score += openingMicroAdjustment(pos, b.FullMoves())
	score += e.contempt(b.FullMoves())

	score = flattenTowardDraw(score, b.NoProgress())
	score += e.noise.Evaluate(pos)

	return board.Crop(score)
}

// NominalValue is the textbook material value of a piece, in centipawns. The king's value
// is never consulted during material counting (kings are never captured) but a finite value
// keeps move-ordering heuristics that index by piece kind simple to write.
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 10000
	default:
		return 0
	}
}

// NominalGain is the nominal material gain from playing m, used by MVV/LVA ordering and by
// quiescence delta pruning -- never by the final evaluation, which uses the full PST.
func NominalGain(m board.Move) board.Score {
	gain := board.Score(0)
	if m.IsCapture() {
		gain += NominalValue(m.Capture)
	}
	if m.IsPromotion() {
		gain += NominalValue(m.Promotion) - NominalValue(board.Pawn)
	}
	return gain
}

func materialAndPST(pos *board.Position, phase GamePhase) board.Score {
	var score board.Score
	for _, c := range [2]board.Color{board.White, board.Black} {
		unit := c.Unit()
		pos.Pieces(c, func(sq board.Square, piece board.Piece) {
			score += unit * (NominalValue(piece) + pstValue(piece, c, sq, phase))
		})
	}
	return score
}

// materialSnapshot records the root-level piece counts the trade logic (spec.md §4.3.2)
// compares the current position against.
type materialSnapshot struct {
	queens, rooks, minors, pawns [2]int
	lastConfirmedEval            board.Score
}

func snapshotMaterial(pos *board.Position) materialSnapshot {
	var s materialSnapshot
	for _, c := range [2]board.Color{board.White, board.Black} {
		pos.Pieces(c, func(_ board.Square, p board.Piece) {
			switch p {
			case board.Queen:
				s.queens[c]++
			case board.Rook:
				s.rooks[c]++
			case board.Knight, board.Bishop:
				s.minors[c]++
			case board.Pawn:
				s.pawns[c]++
			}
		})
	}
	return s
}

func (s materialSnapshot) pieceCount(c board.Color) int {
	return s.queens[c] + s.rooks[c] + s.minors[c]
}

// tradeBonus implements spec.md §4.3.2: reward the side ahead in pieces for trading pieces
// (not pawns), bias "up in material: trade pieces; down: trade pawns" when the root started
// level but an imbalance has since appeared, and discourage unmotivated 1-for-1 trades (and
// refuse to credit imbalanced 2-for-1 trades) when piece counts are still level.
func tradeBonus(pos *board.Position, root materialSnapshot, materialScore board.Score) board.Score {
	now := snapshotMaterial(pos)

	piecesRemoved := func(c board.Color) int { return root.pieceCount(c) - now.pieceCount(c) }
	pawnsRemoved := func(c board.Color) int { return root.pawns[c] - now.pawns[c] }

	const perPiece board.Score = 8
	const perPawn board.Score = -8

	rootEven := root.pieceCount(board.White) == root.pieceCount(board.Black)
	nowEven := now.pieceCount(board.White) == now.pieceCount(board.Black)

	if materialScore == 0 && rootEven && nowEven {
		// Level on both counts: discourage trades that accomplish nothing, scaled by pairs
		// actually removed from the board since the root.
		removedPairs := board.Score(min(piecesRemoved(board.White), piecesRemoved(board.Black)))
		return perPiece * -removedPairs
	}

	leader := board.White
	if materialScore < 0 || (materialScore == 0 && now.pieceCount(board.Black) < now.pieceCount(board.White)) {
		leader = board.Black
	}
	trailer := leader.Opponent()

	bonus := perPiece*board.Score(piecesRemoved(leader)) + perPawn*board.Score(pawnsRemoved(trailer))
	if leader == board.Black {
		return -bonus
	}
	return bonus
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// flattenTowardDraw scales the evaluation down as the fifty-move counter climbs toward 100
// plies without progress, reflecting that a material edge which cannot be converted in the
// remaining half-moves is worth progressively less (spec.md §4.3.3): full weight through 40
// plies, linearly down to 10% at 100 plies, and exactly zero from 100 on.
func flattenTowardDraw(score board.Score, noProgress int) board.Score {
	const flattenStart = 40
	const flattenEnd = 100
	if noProgress <= flattenStart {
		return score
	}
	if noProgress >= flattenEnd {
		return 0
	}
	// Linear interpolation from 100% at flattenStart down to 10% at flattenEnd.
	span := flattenEnd - flattenStart
	remaining := flattenEnd - noProgress
	weightPercent := 10 + 90*remaining/span
	return score * board.Score(weightPercent) / 100
}
