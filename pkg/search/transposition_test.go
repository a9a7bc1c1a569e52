package search_test

import (
	"testing"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableWriteRead(t *testing.T) {
	tt := search.NewTable(1 << 16)

	m := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 4)}
	tt.Write(12345, 2, search.ExactBound, 8, 37, m)

	bound, depth, score, move, ok := tt.Read(12345, 2)
	require.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 8, depth)
	assert.Equal(t, board.Score(37), score)
	assert.True(t, m.Equals(move))
}

func TestTableMissOnUnknownHash(t *testing.T) {
	tt := search.NewTable(1 << 16)
	_, _, _, _, ok := tt.Read(999, 0)
	assert.False(t, ok)
}

func TestTableParitySplitKeepsSameParityPositionsIsolated(t *testing.T) {
	tt := search.NewTable(1 << 16)

	// Same hash, opposite ply parity: these must land in different parity tables, so writing
	// one never evicts or shadows the other.
	even := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 3)}
	odd := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 4)}

	const hash = board.Hash(42)
	tt.Write(hash, 0, search.ExactBound, 4, 10, even)
	tt.Write(hash, 1, search.ExactBound, 4, -10, odd)

	_, _, scoreEven, moveEven, ok := tt.Read(hash, 0)
	require.True(t, ok)
	assert.True(t, even.Equals(moveEven))
	assert.Equal(t, board.Score(10), scoreEven)

	_, _, scoreOdd, moveOdd, ok := tt.Read(hash, 1)
	require.True(t, ok)
	assert.True(t, odd.Equals(moveOdd))
	assert.Equal(t, board.Score(-10), scoreOdd)
}

func TestTableReplacementPolicyKeepsDeeperEntry(t *testing.T) {
	tt := search.NewTable(1 << 10) // small, force a collision within the same bucket

	shallow := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 3)}
	deep := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 4)}

	// Fill the whole 4-way cluster, the deep entry among them, then force one more write into
	// the same bucket: the weakest (shallowest) member is evicted, never the deep one.
	hashes := []board.Hash{7, 7 + 1<<20, 7 + 2<<20, 7 + 3<<20, 7 + 4<<20}
	tt.Write(hashes[0], 0, search.ExactBound, 10, 50, deep)
	for i := 1; i < len(hashes); i++ {
		tt.Write(hashes[i], 0, search.ExactBound, 1, 10, shallow)
	}

	_, depth, _, move, ok := tt.Read(hashes[0], 0)
	require.True(t, ok)
	assert.Equal(t, 10, depth)
	assert.True(t, deep.Equals(move))
}

func TestTableClusterAbsorbsCollisionsWithoutEvictingEachOther(t *testing.T) {
	tt := search.NewTable(1 << 10)

	m := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 3)}

	// A handful of distinct hashes landing in the same bucket should all coexist within the
	// cluster rather than immediately evicting one another.
	hashes := []board.Hash{7, 7 + 1<<20, 7 + 2<<20}
	for i, h := range hashes {
		tt.Write(h, 0, search.ExactBound, i+1, board.Score(i), m)
	}
	for i, h := range hashes {
		_, depth, score, _, ok := tt.Read(h, 0)
		require.True(t, ok)
		assert.Equal(t, i+1, depth)
		assert.Equal(t, board.Score(i), score)
	}
}

func TestTableNewGenerationAgesOutStaleEntries(t *testing.T) {
	tt := search.NewTable(1 << 10)

	m := board.Move{From: board.NewSquare(5, 2), To: board.NewSquare(5, 3)}
	const hashA, hashB = board.Hash(7), board.Hash(7 + 1<<20)

	// A deep entry written in an earlier generation...
	tt.Write(hashA, 0, search.ExactBound, 12, 1, m)

	tt.NewGeneration()

	// ...should still be evicted ahead of current-generation entries once the cluster is full
	// and a shallow same-bucket write arrives, since aging out a previous move's leftovers
	// takes priority over depth.
	for _, h := range []board.Hash{7 + 2<<20, 7 + 3<<20, 7 + 4<<20} {
		tt.Write(h, 0, search.ExactBound, 5, 3, m)
	}
	tt.Write(hashB, 0, search.ExactBound, 1, 2, m)

	_, _, _, _, okA := tt.Read(hashA, 0)
	_, depth, _, _, okB := tt.Read(hashB, 0)
	require.True(t, okB)
	assert.Equal(t, 1, depth)
	assert.False(t, okA)
}

func TestTableUsedTracksDistinctSlots(t *testing.T) {
	tt := search.NewTable(1 << 16)
	assert.Equal(t, float64(0), tt.Used())

	tt.Write(1, 0, search.ExactBound, 1, 0, board.Move{})
	assert.Greater(t, tt.Used(), float64(0))
}

func TestNoTableNeverStores(t *testing.T) {
	var tt search.NoTable
	tt.Write(1, 0, search.ExactBound, 5, 10, board.Move{})

	_, _, _, _, ok := tt.Read(1, 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tt.Size())
}
