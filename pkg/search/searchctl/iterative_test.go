package searchctl_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/go-mephisto/engine/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	zk := board.NewZobristKeys(1)
	b, err := fen.Decode(zk, f)
	require.NoError(t, err)
	return b
}

func TestIterativeDeepensToDepthLimit(t *testing.T) {
	root := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	it := searchctl.NewIterative(root)

	b := newTestBoard(t, fen.Initial)
	tt := search.NewTable(1 << 16)

	handle, out := it.Launch(context.Background(), b, tt, searchctl.Options{DepthLimit: lang.Some(uint(3))})

	var depths []int
	for pv := range out {
		depths = append(depths, pv.Depth)
	}
	assert.Equal(t, []int{1, 2, 3}, depths)

	final := handle.Halt()
	assert.Equal(t, 3, final.Depth)
}

func TestIterativeStopsEarlyOnForcedMate(t *testing.T) {
	root := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	it := searchctl.NewIterative(root)

	b := newTestBoard(t, "6k1/5ppp/8/8/8/8/8/Q5K1 w - - 0 1")
	tt := search.NewTable(1 << 16)

	_, out := it.Launch(context.Background(), b, tt, searchctl.Options{DepthLimit: lang.Some(uint(10))})

	var last search.PV
	for pv := range out {
		last = pv
	}
	_, mates, ok := last.Score.MateDistance()
	assert.True(t, ok)
	assert.True(t, mates) // White (to move in the PV root) is the one delivering mate
	assert.Less(t, last.Depth, 10) // stopped once the mate was proven, not at the full depth limit
}

func TestIterativeHaltStopsAnInFlightSearch(t *testing.T) {
	root := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{})}}
	it := searchctl.NewIterative(root)

	b := newTestBoard(t, fen.Initial)
	tt := search.NewTable(1 << 16)

	handle, out := it.Launch(context.Background(), b, tt, searchctl.Options{})
	pv := handle.Halt()
	assert.GreaterOrEqual(t, pv.Depth, 1)

	for range out {
		// drain until closed
	}
}
