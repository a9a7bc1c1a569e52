package search_test

import (
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestMoveListOrdersByDescendingPriority(t *testing.T) {
	a := board.Move{From: board.NewSquare(1, 2), To: board.NewSquare(1, 3)}
	b := board.Move{From: board.NewSquare(2, 2), To: board.NewSquare(2, 3)}
	c := board.Move{From: board.NewSquare(3, 2), To: board.NewSquare(3, 3)}

	priority := map[board.Move]search.Priority{a: 1, b: 10, c: 5}
	ml := search.NewMoveList([]board.Move{a, b, c}, func(m board.Move) search.Priority { return priority[m] })

	var order []board.Move
	for {
		m, ok := ml.Next()
		if !ok {
			break
		}
		order = append(order, m)
	}
	assert.Equal(t, []board.Move{b, c, a}, order)
}

func TestMoveListExhausts(t *testing.T) {
	ml := search.NewMoveList(nil, func(board.Move) search.Priority { return 0 })
	_, ok := ml.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, ml.Size())
}

func TestKillerTableRecordsTwoMostRecentNonCaptures(t *testing.T) {
	k := search.NewKillerTable()
	m1 := board.Move{From: board.NewSquare(1, 2), To: board.NewSquare(1, 3)}
	m2 := board.Move{From: board.NewSquare(2, 2), To: board.NewSquare(2, 3)}
	m3 := board.Move{From: board.NewSquare(3, 2), To: board.NewSquare(3, 3)}

	k.Record(4, m1)
	k.Record(4, m2)
	assert.True(t, k.IsKiller(4, m1))
	assert.True(t, k.IsKiller(4, m2))
	assert.False(t, k.IsKiller(4, m3))

	k.Record(4, m3)
	assert.False(t, k.IsKiller(4, m1)) // oldest slot evicted
	assert.True(t, k.IsKiller(4, m2))
	assert.True(t, k.IsKiller(4, m3))
}

func TestKillerTableIgnoresCaptures(t *testing.T) {
	k := search.NewKillerTable()
	capture := board.Move{From: board.NewSquare(1, 2), To: board.NewSquare(1, 3), Type: board.Capture, Capture: board.Pawn}
	k.Record(0, capture)
	assert.False(t, k.IsKiller(0, capture))
}

func TestHistoryTableAccumulatesByDepthSquared(t *testing.T) {
	h := search.NewHistoryTable()
	m := board.Move{From: board.NewSquare(1, 2), To: board.NewSquare(1, 4), Piece: board.Pawn}

	h.Record(board.White, m, 3)
	assert.Equal(t, search.Priority(9), h.Value(board.White, m))

	h.Record(board.White, m, 4)
	assert.Equal(t, search.Priority(9+16), h.Value(board.White, m))
}

func TestOrderingForPrefersHashMove(t *testing.T) {
	best := board.Move{From: board.NewSquare(1, 2), To: board.NewSquare(1, 3)}
	other := board.Move{From: board.NewSquare(2, 2), To: board.NewSquare(2, 3)}

	sctx := &search.Context{Killers: search.NewKillerTable(), History: search.NewHistoryTable()}
	fn := search.OrderingFor(best, 0, board.White, sctx)

	assert.Greater(t, fn(best), fn(other))
}
