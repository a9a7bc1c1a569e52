// Package kpk exposes the narrow interface to the King+Pawn vs King endgame bitbase: the
// bitbase's 24 KiB table is a pre-generated external resource (out of scope here), but the
// addressing convention -- which side to move, and the pawn-file mirroring that halves the
// table by folding files E-H onto A-D -- belongs to the core and lives in this package.
package kpk

import "github.com/go-mephisto/engine/pkg/board"

// Table is the pre-generated bitbase: one bit per {side, wk, wp, bk} address, set if the
// position is a win for the side to move. Supplying it is outside this package's scope.
type Table interface {
	Probe(side board.Color, wk, wp, bk board.Square) bool
}

// Probe normalizes a position to the bitbase's addressing convention and queries t. Pawn
// files E-H are mirrored to D-A at the call site (the table only stores the queenside
// half), since a KPK position is symmetric under horizontal mirroring of every square at
// once.
func Probe(t Table, side board.Color, wk, wp, bk board.Square) bool {
	if wp.File() > 4 {
		wk, wp, bk = mirrorFile(wk), mirrorFile(wp), mirrorFile(bk)
	}
	return t.Probe(side, wk, wp, bk)
}

func mirrorFile(sq board.Square) board.Square {
	return board.NewSquare(9-sq.File(), sq.Rank())
}

// None is a Table that reports every position as a draw -- used when no bitbase is loaded.
type None struct{}

func (None) Probe(board.Color, board.Square, board.Square, board.Square) bool { return false }
