package config_test

import (
	"testing"

	"github.com/go-mephisto/engine/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	w := config.Default()
	w.Book = config.BookOn
	w.Computer = config.ComputerSideBlack
	w.MateInDepth = 3
	w.NoiseStep = 7

	got, ok := config.Unpack(w.Pack())
	require.True(t, ok)
	assert.Equal(t, w, got)
}

func TestUnpackRejectsIncompatibleVersion(t *testing.T) {
	w := config.Default()
	w.Version = config.CurrentVersion + 1

	_, ok := config.Unpack(w.Pack())
	assert.False(t, ok)
}

func TestDefaultIsCurrentVersion(t *testing.T) {
	assert.Equal(t, config.CurrentVersion, config.Default().Version)
}

func TestTimePerMoveSeconds(t *testing.T) {
	assert.Equal(t, 1, config.TimePerMove1s.Seconds())
	assert.Equal(t, 180, config.TimePerMove180s.Seconds())
}

func TestMateInDepthMovesIsOneBased(t *testing.T) {
	var m config.MateInDepth
	assert.Equal(t, 1, m.Moves())
	assert.Equal(t, 8, config.MateInDepth(7).Moves())
}

func TestClockPercentDefaultIsNominal(t *testing.T) {
	assert.Equal(t, 100, config.Clock100.Percent())
}
