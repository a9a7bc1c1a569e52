package search_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchContext(tt search.Table) *search.Context {
	return &search.Context{
		Alpha:   board.MinScore,
		Beta:    board.MaxScore,
		TT:      tt,
		Killers: search.NewKillerTable(),
		History: search.NewHistoryTable(),
	}
}

func TestNegascoutFindsMateInOne(t *testing.T) {
	n := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	// White to move: Qa8 is checkmate (the back-rank pawns block every escape square).
	b := mustDecode(t, "6k1/5ppp/8/8/8/8/8/Q5K1 w - - 0 1")

	tt := search.NewTable(1 << 16)
	_, score, moves, err := n.Search(context.Background(), newSearchContext(tt), b, 2)
	require.NoError(t, err)
	require.NotEmpty(t, moves)

	d, mates, ok := score.MateDistance()
	require.True(t, ok)
	assert.True(t, mates) // the side to move delivers the mate, not the other way around
	assert.Equal(t, 1, d)

	best := moves[0]
	assert.Equal(t, board.NewSquare(1, 1), best.From)
	assert.Equal(t, board.NewSquare(1, 8), best.To)
}

func TestNegascoutCapturesHangingMaterial(t *testing.T) {
	n := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	// The h-pawn keeps the position after Bxa5 from being a bare K+B vs K draw, which scores 0.
	b := mustDecode(t, "4k3/8/8/r7/8/2B5/7P/4K3 w - - 0 1")

	tt := search.NewTable(1 << 16)
	_, score, moves, err := n.Search(context.Background(), newSearchContext(tt), b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	assert.Greater(t, score, board.Score(0))
	assert.Equal(t, board.NewSquare(1, 5), moves[0].To) // Bxa5
}

func TestPreSortRootMovesRanksHangingCaptureFirst(t *testing.T) {
	n := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	b := mustDecode(t, "4k3/8/8/r7/8/2B5/8/4K3 w - - 0 1")

	order, err := n.PreSortRootMoves(context.Background(), b)
	require.NoError(t, err)
	require.NotEmpty(t, order)
	assert.Equal(t, board.NewSquare(1, 5), order[0].To) // Bxa5 scores highest even before real search
}

func TestNegascoutHaltsOnCancellation(t *testing.T) {
	n := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	b := mustDecode(t, fen.Initial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tt := search.NewTable(1 << 16)
	_, _, _, err := n.Search(ctx, newSearchContext(tt), b, 4)
	assert.ErrorIs(t, err, search.ErrHalted)
}
