package eval

import (
	"math/rand"

	"github.com/go-mephisto/engine/pkg/board"
)

// Random injects a small amount of noise into the evaluation, so that the engine's choice
// among near-equal moves varies from game to game (an engine "personality" knob) instead of
// always breaking ties the same deterministic way.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limitMillipawns int, seed int64) Random {
	return Random{limit: limitMillipawns, rand: rand.New(rand.NewSource(seed))}
}

func (n Random) Evaluate(pos *board.Position) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit)-n.limit/2) / 10
}
