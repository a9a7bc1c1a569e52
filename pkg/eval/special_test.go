package eval_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestStandardEvaluateRewardsBishopPair(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White has two bishops in one position and a bishop traded for a knight in the
	// other; Black's material is identical in both.
	pair := mustDecode(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	noPair := mustDecode(t, "4k3/8/8/8/8/8/8/2B1KN2 w - - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), pair), e.Evaluate(context.Background(), noPair))
}

func TestStandardEvaluatePenalizesTrappedBishop(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White's bishop sits on a2 in both positions; only where Black's b-pawn stands
	// differs: on b3 it blocks the bishop's diagonal, on b2 it does not.
	free := mustDecode(t, "4k3/8/8/8/8/8/Bp6/4K3 w - - 0 1")
	trapped := mustDecode(t, "4k3/8/8/8/8/1p6/B7/4K3 w - - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), free), e.Evaluate(context.Background(), trapped))
}

func TestStandardEvaluateDiscountsOppositeBishopEnding(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White is up a clear pawn with opposite-colored bishops and nothing else on the
	// board; the discount should keep the edge well below the raw pawn value.
	b := mustDecode(t, "4k3/8/2b5/8/8/2B5/4P3/4K3 w - - 0 1")

	score := e.Evaluate(context.Background(), b)
	assert.Greater(t, score, board.Score(0))
	assert.Less(t, score, eval.NominalValue(board.Pawn)+60) // well under a full uncontested pawn's worth
}

func TestStandardEvaluateFavorsTwoMinorsOverRook(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White holds a knight and a bishop against Black's rook and pawn: equal raw material,
	// which the imbalance term should tip toward the two minors.
	b := mustDecode(t, "1r2k3/p7/8/8/8/8/8/NB2K3 w - - 0 1")

	score := e.Evaluate(context.Background(), b)
	assert.Greater(t, score, board.Score(0))
}
