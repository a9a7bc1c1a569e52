// mephisto is a minimal command-line driver for the engine: it sets up a position, searches
// it for a fixed time budget, and prints the best move found. It is a demonstration harness,
// not a UCI/XBoard client -- protocol adapters are outside this engine's scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/engine"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/go-mephisto/engine/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	position = flag.String("fen", "", "Start position (default to standard)")
	moveTime = flag.Duration("movetime", 2*time.Second, "Time to spend on the search")
	depth    = flag.Uint("depth", 0, "Depth limit (zero for no limit)")
	hashMB   = flag.Uint("hash", 32, "Transposition table size in MB")
	noise    = flag.Uint("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: mephisto [options]

mephisto searches one position and prints the move it finds.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	root := search.Negascout{Quiet: search.Quiescence{Eval: eval.NewStandard(eval.Config{}), DeltaMargin: 200, MaxPly: 32}}
	e := engine.New(ctx, "mephisto", "go-mephisto", root, engine.WithOptions(engine.Options{Depth: *depth, Hash: *hashMB, Noise: *noise}))

	if *position == "" {
		*position = fen.Initial
	}
	if err := e.Reset(ctx, *position); err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", *position, err)
	}

	opt := searchctl.Options{TimeControl: lang.Some(searchctl.TimeControl{White: *moveTime, Black: *moveTime})}
	out, err := e.Analyze(ctx, opt)
	if err != nil {
		logw.Exitf(ctx, "Analyze failed: %v", err)
	}

	var last search.PV
	for pv := range out {
		logw.Infof(ctx, "%v", pv)
		last = pv
	}

	if m, ok := last.BestMove(); ok {
		fmt.Println(m)
	} else {
		fmt.Println("(no move)")
	}
}
