package engine_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/engine"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/go-mephisto/engine/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher returns a fixed reply after a single depth, so tests can drive Engine.Analyze
// deterministically without running the real negascout driver.
type fakeSearcher struct{ move board.Move }

func (f fakeSearcher) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	return 1, 0, []board.Move{f.move}, nil
}

// fakeBook always returns the configured move, or nothing if none is set.
type fakeBook struct {
	move board.Move
	has  bool
}

func (f fakeBook) Probe(*board.Position) (board.Move, bool) { return f.move, f.has }

func e2e4() board.Move {
	return board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 4), Type: board.Jump, Piece: board.Pawn}
}

func TestNewResetsToInitialPosition(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	assert.Equal(t, fen.Initial, e.Position())
}

func TestMoveAppliesALegalMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	require.NoError(t, e.Move(context.Background(), "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())
}

func TestMoveRejectsAnIllegalMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	err := e.Move(context.Background(), "e2e5")
	assert.Error(t, err)
}

func TestTakeBackUndoesTheLastMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	require.NoError(t, e.Move(context.Background(), "e2e4"))
	require.NoError(t, e.TakeBack(context.Background()))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestTakeBackWithNoMovesFails(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	assert.Error(t, e.TakeBack(context.Background()))
}

func TestAnalyzeReturnsBookMoveWithoutSearching(t *testing.T) {
	book := fakeBook{move: e2e4(), has: true}
	e := engine.New(context.Background(), "test", "author", fakeSearcher{}, engine.WithBook(book))

	out, err := e.Analyze(context.Background(), searchctl.Options{})
	require.NoError(t, err)

	pv, ok := <-out
	require.True(t, ok)
	assert.Equal(t, 0, pv.Depth)
	best, ok := pv.BestMove()
	require.True(t, ok)
	assert.True(t, best.Equals(e2e4()))

	_, ok = <-out
	assert.False(t, ok) // channel closed after the one-shot book reply
}

func TestAnalyzeFallsBackToSearchWhenBookEmpty(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{move: e2e4()})

	out, err := e.Analyze(context.Background(), searchctl.Options{DepthLimit: lang.Some(uint(1))})
	require.NoError(t, err)

	var last search.PV
	for pv := range out {
		last = pv
	}
	best, ok := last.BestMove()
	require.True(t, ok)
	assert.True(t, best.Equals(e2e4()))
}

func TestAnalyzeRejectsConcurrentSearch(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{move: e2e4()})

	_, err := e.Analyze(context.Background(), searchctl.Options{})
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), searchctl.Options{})
	assert.Error(t, err)

	_, _ = e.Halt(context.Background())
}

func TestResetRejectsInvalidFEN(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	assert.Error(t, e.Reset(context.Background(), "not a fen"))
}

func TestSetHashRebuildsTheTable(t *testing.T) {
	e := engine.New(context.Background(), "test", "author", fakeSearcher{})
	e.SetHash(1)
	assert.EqualValues(t, 1, e.Options().Hash)
}
