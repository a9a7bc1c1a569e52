// Package searchctl contains the root search driver: iterative deepening, aspiration
// windows and time-control enforcement, layered on top of pkg/search's per-depth search.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options. The caller may vary these per search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher is a Search generator: the engine's top-level entry point for starting a move
// search on a position.
type Launcher interface {
	// Launch starts a new iterative-deepening search from b, which the caller must not
	// mutate concurrently (fork it first if needed). Returns a PV stream carrying the PV of
	// completed depths, closed when the search stops; a PV the reader has not yet taken is
	// replaced by the next one, so a slow reader sees only the latest.
	Launch(ctx context.Context, b *board.Board, tt search.Table, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller stop an in-flight search and retrieve its best result so far.
type Handle interface {
	// Halt stops the search, if running, and returns the last completed PV. Idempotent.
	Halt() search.PV
}
