package eval_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestStandardEvaluateRewardsCastledKing(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// Same material and pawn skeleton; only whether White's king and rook have castled
	// kingside differs.
	castled := mustDecode(t, "rn1qkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1RK1 w kq - 0 1")
	uncastled := mustDecode(t, "rn1qkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKR2 w kq - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), castled), e.Evaluate(context.Background(), uncastled))
}

func TestStandardEvaluateRewardsPawnShield(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White has castled kingside in both; only whether the f/g/h pawns are still home
	// (shielding the king) differs.
	shielded := mustDecode(t, "4k3/8/8/8/8/8/PPPPPPPP/RNBQ1RK1 w - - 0 1")
	exposed := mustDecode(t, "4k3/8/8/8/8/5PPP/PPPPP3/RNBQ1RK1 w - - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), shielded), e.Evaluate(context.Background(), exposed))
}

func TestStandardEvaluatePenalizesCorneredRook(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// White king has run to g1 in both; only whether the h1 rook is still stuck in the
	// corner or has already found an active square differs.
	cornered := mustDecode(t, "4k3/8/8/8/8/8/PPPPPPPP/RNBQ2KR w - - 0 1")
	freed := mustDecode(t, "4k3/8/8/8/8/7R/PPPPPPPP/RNBQ3K w - - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), freed), e.Evaluate(context.Background(), cornered))
}
