// Package hmi defines the narrow interfaces the core collaborates with outside its own
// scope (spec 6.7): a TimeKeeper reporting elapsed time and housekeeping dialogues, and a
// Display the search pushes progress updates to. Neither interface is
// ever called back into the core -- the collaboration is one-directional.
package hmi

import (
	"context"
	"time"

	"github.com/go-mephisto/engine/pkg/search"
)

// TimeKeeper is the external timer: a low-rate interrupt updates a monotonic clock and may
// set a timeout or user-cancel flag the search polls cooperatively. TimePassed reports
// elapsed search time; TimeCheck additionally reports whether a housekeeping dialogue (e.g.
// a battery-status screen) was shown and should extend the deadline.
type TimeKeeper interface {
	TimePassed() time.Duration
	TimeCheck() (housekeepingShown bool)
}

// Display receives progress updates from an in-flight search. It must not block or call
// back into the search.
type Display interface {
	UpdateAlternateScreen(pv search.PV)
	UpdateAnalysisScreen(pv search.PV)
}

// NullDisplay discards every update, for headless use.
type NullDisplay struct{}

func (NullDisplay) UpdateAlternateScreen(search.PV) {}
func (NullDisplay) UpdateAnalysisScreen(search.PV)  {}

// Feed relays PVs from a running search to d until out closes or ctx is cancelled, using
// UpdateAlternateScreen for normal play and UpdateAnalysisScreen when analysis is true.
func Feed(ctx context.Context, out <-chan search.PV, d Display, analysis bool) {
	for {
		select {
		case pv, ok := <-out:
			if !ok {
				return
			}
			if analysis {
				d.UpdateAnalysisScreen(pv)
			} else {
				d.UpdateAlternateScreen(pv)
			}
		case <-ctx.Done():
			return
		}
	}
}

// WithTimeKeeper derives a cancellable context.Context from ctx and, until that context is
// done, calls tk.TimeCheck every pollEvery. The TimeCheck result is discarded and the
// TimeKeeper never cancels the context: only ctx or the returned cancel do. The returned
// cancel must be called once the caller is done to release the poll goroutine.
func WithTimeKeeper(ctx context.Context, tk TimeKeeper, pollEvery time.Duration) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(pollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-cctx.Done():
				return
			case <-ticker.C:
				tk.TimeCheck()
			}
		}
	}()
	return cctx, cancel
}
