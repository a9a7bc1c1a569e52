package board_test

import (
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestMateDistanceDirection(t *testing.T) {
	d, mates, ok := board.Mate(0, false).MateDistance() // delivering mate right now
	assert.True(t, ok)
	assert.True(t, mates)
	assert.Equal(t, 0, d)

	d, mates, ok = board.Mate(0, true).MateDistance() // getting mated right now
	assert.True(t, ok)
	assert.False(t, mates)
	assert.Equal(t, 0, d)

	d, mates, ok = board.Mate(3, false).MateDistance()
	assert.True(t, ok)
	assert.True(t, mates)
	assert.Equal(t, 3, d)

	d, mates, ok = board.Mate(3, true).MateDistance()
	assert.True(t, ok)
	assert.False(t, mates)
	assert.Equal(t, 3, d)

	_, _, ok = board.Score(150).MateDistance()
	assert.False(t, ok)
}

// TestIncrementMateDistancePreservesSignAtTheLeaf exercises the bug a reviewer found: a child
// node that just delivered checkmate (Mate(0, false), the leaf's mate scored for the side that
// made the mating move) must propagate to its parent as a mate FOR the side that made the
// move, i.e. a loss for the parent node-to-move, not a win for it. Before MateDistance carried
// an explicit direction bool, both "mated" and "mating" at distance 0 decoded identically, and
// IncrementMateDistance always treated the result as if the side to move were mating.
func TestIncrementMateDistancePreservesSignAtTheLeaf(t *testing.T) {
	delivered := board.Mate(0, false) // the side that just moved has delivered mate
	parent := delivered.Negate().IncrementMateDistance()

	d, mates, ok := parent.MateDistance()
	assert.True(t, ok)
	assert.False(t, mates, "the parent node-to-move is the one getting mated, not delivering it")
	assert.Equal(t, 1, d)
	assert.Less(t, parent, board.Score(0), "a forced mate against the side to move must be a losing score")
}

func TestAdjustForStoreAndRetrieveRoundTrip(t *testing.T) {
	s := board.Mate(2, false)
	stored := s.AdjustForStore(5)
	back := stored.AdjustForRetrieve(5)
	assert.Equal(t, s, back)

	s = board.Mate(2, true)
	stored = s.AdjustForStore(5)
	back = stored.AdjustForRetrieve(5)
	assert.Equal(t, s, back)
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "#3", board.Mate(3, false).String())
	assert.Equal(t, "#-3", board.Mate(3, true).String())
	assert.Equal(t, "1.50", board.Score(150).String())
}
