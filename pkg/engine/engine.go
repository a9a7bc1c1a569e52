// Package engine wires the board, search and evaluation packages into the single entry
// point a host application (UI, protocol adapter, CLI) drives: reset the position, feed it
// moves, start and halt searches for the best reply (spec's search_best_move, component
// C8's root caller).
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-mephisto/engine/pkg/board"
	"github.com/go-mephisto/engine/pkg/board/fen"
	"github.com/go-mephisto/engine/pkg/book"
	"github.com/go-mephisto/engine/pkg/eval"
	"github.com/go-mephisto/engine/pkg/search"
	"github.com/go-mephisto/engine/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use
	// a transposition table.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations (engine personality).
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// Engine encapsulates game-playing logic, search, evaluation and opening book lookup.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	book     book.Book
	zk       *board.ZobristKeys
	seed     int64
	opts     Options

	b      *board.Board
	tt     search.Table
	eval   *eval.Standard
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithBook configures the engine to probe an opening book before searching.
func WithBook(b book.Book) Option {
	return func(e *Engine) {
		e.book = b
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the
// default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine around root, the fixed-depth searcher the iterative deepening
// harness drives one ply at a time.
func New(ctx context.Context, name, author string, root search.Searcher, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: searchctl.NewIterative(root),
		book:     book.None{},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zk = board.NewZobristKeys(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	e.tt = e.newTable()
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
	e.eval = e.newEvaluator()
}

func (e *Engine) newTable() search.Table {
	if e.opts.Hash == 0 {
		return search.NoTable{}
	}
	return search.NewTable(uint64(e.opts.Hash) << 20)
}

func (e *Engine) newEvaluator() *eval.Standard {
	return eval.NewStandard(eval.Config{NoiseMillipawns: int(e.opts.Noise), NoiseSeed: e.seed})
}

// Board returns a forked board, safe for the caller to inspect or search without
// synchronizing against further engine mutation.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b)
}

// Reset resets the engine to a new position given in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	_, _ = e.haltSearchIfActive(ctx)

	b, err := fen.Decode(e.zk, position)
	if err != nil {
		return err
	}
	e.b = b
	e.tt = e.newTable()
	e.eval = e.newEvaluator()

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move applies move, given in pure algebraic coordinate notation (e.g. "e2e4", "a7a8q"),
// usually an opponent's reply received from the host application.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	for _, m := range e.b.Position().GenerateAll() {
		if !candidate.Equals(m) {
			continue
		}
		e.b.Make(m)
		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	m, ok := e.b.LastMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}
	e.b.Unmake()

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze starts a search on the current position, probing the opening book first. If the
// book holds a reply, it is returned as an immediate one-shot PV and no tree search runs.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if m, ok := e.book.Probe(e.b.Position()); ok {
		out := make(chan search.PV, 1)
		out <- search.PV{Depth: 0, Moves: []board.Move{m}}
		close(out)
		logw.Infof(ctx, "Book move %v", m)
		return out, nil
	}

	handle, out := e.launcher.Launch(ctx, e.b.Fork(), e.tt, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}

// Evaluator exposes the engine's configured static evaluator, e.g. for UCI "eval" commands.
func (e *Engine) Evaluator() eval.Evaluator {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.eval
}
