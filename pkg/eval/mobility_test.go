package eval_test

import (
	"context"
	"testing"

	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestStandardEvaluateRewardsBishopMobility(t *testing.T) {
	e := eval.NewStandard(eval.Config{})

	// Same material and pawns (a lone White bishop, White pawns on b2 and g2, plus kings);
	// only the bishop's square differs: centralized on d5, or on a1 boxed in by the b2 pawn.
	open := mustDecode(t, "4k3/8/8/3B4/8/8/1P4P1/4K3 w - - 0 1")
	boxed := mustDecode(t, "4k3/8/8/8/8/8/1P4P1/B3K3 w - - 0 1")

	assert.Greater(t, e.Evaluate(context.Background(), open), e.Evaluate(context.Background(), boxed))
}
