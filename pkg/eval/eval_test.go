package eval_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, f string) *board.Board {
	t.Helper()
	zk := board.NewZobristKeys(1)
	b, err := fen.Decode(zk, f)
	require.NoError(t, err)
	return b
}

func TestStandardEvaluateSymmetricStartPosition(t *testing.T) {
	e := eval.NewStandard(eval.Config{})
	b := mustDecode(t, fen.Initial)

	// Every material/positional term is symmetric at the initial position, but the
	// side-to-move micro-adjustment (spec.md §4.3 step 12) is not: White to move earns a
	// small damping bonus, so the position is not perfectly 0.
	score := e.Evaluate(context.Background(), b)
	assert.Equal(t, board.Score(10), score)
}

func TestStandardEvaluateFavorsExtraMaterial(t *testing.T) {
	e := eval.NewStandard(eval.Config{})
	b := mustDecode(t, "4k3/8/8/8/8/8/4P3/4K2R w K - 0 1")

	score := e.Evaluate(context.Background(), b)
	assert.Greater(t, score, board.Score(0))
}

func TestNominalGain(t *testing.T) {
	m := board.Move{Type: board.CapturePromotion, Capture: board.Rook, Promotion: board.Queen}
	assert.Equal(t, eval.NominalValue(board.Rook)+eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn), eval.NominalGain(m))
}

func TestPhaseClassification(t *testing.T) {
	start := mustDecode(t, fen.Initial)
	assert.Equal(t, eval.Opening, eval.Phase(start.Position()))

	endgame := mustDecode(t, "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1")
	assert.Equal(t, eval.Endgame, eval.Phase(endgame.Position()))
}
