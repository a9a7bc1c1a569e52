// Package book implements the opening book probe (component C10): position checksums,
// mirror lookup and legal-move validation sit in scope; the book's storage and format are
// a narrow external interface the caller supplies (see Store).
package book

import (
	"hash/crc32"
	"math/rand"

	"github.com/go-mephisto/engine/pkg/board"
)

// Snapshot is the book's own 8x8 position encoding: one byte per square (0 for empty, else
// 1-6 for White Pawn..King, 11-16 for Black Pawn..King) plus a status byte carrying castling
// rights in its low 4 bits and the side to move in bit 4. It never changes shape, so it can
// be hashed by value.
type Snapshot struct {
	Pieces [64]byte
	Status byte
}

const (
	statusBlackToMove byte = 1 << 4
	statusCastleMask  byte = 0x0F
)

// Candidate is one book move in the book's native 8x8 (from,to) encoding.
type Candidate struct {
	From, To int // 0-63, per board.Square.Index64
}

// Store is the external collaborator: given the two checksums of a Snapshot, it returns the
// candidate moves recorded for that position, if any. A concrete Store backed by the file
// layout in the book file format is outside this package's scope -- this interface is the
// whole of the core's dependency on it.
type Store interface {
	Lookup(crc32 uint32, crc8 uint8) ([]Candidate, bool)
}

// Book looks up a reply to the current position from an opening book, if one is available.
type Book interface {
	Probe(pos *board.Position) (board.Move, bool)
}

// StoreBook probes an opening book for a reply to the current position, per the core's book
// probe algorithm: compute both checksums of the position snapshot, query the store, and on
// a miss retry with the vertically mirrored, color-swapped position (mirror probe). Every
// candidate returned by the store is validated against the position's actual legal moves
// before being offered; one surviving candidate is then picked uniformly at random.
type StoreBook struct {
	store Store
	rand  *rand.Rand
}

func New(store Store, seed int64) *StoreBook {
	return &StoreBook{store: store, rand: rand.New(rand.NewSource(seed))}
}

// Probe returns a legal move for pos, if the book (directly or via its mirror) has one.
func (b *StoreBook) Probe(pos *board.Position) (board.Move, bool) {
	if cands, ok := b.lookup(snapshotOf(pos)); ok {
		if m, ok := b.pick(pos, cands); ok {
			return m, true
		}
	}

	mirror, flip := mirrorOf(snapshotOf(pos))
	if cands, ok := b.lookup(mirror); ok {
		for i := range cands {
			cands[i] = flip(cands[i])
		}
		if m, ok := b.pick(pos, cands); ok {
			return m, true
		}
	}
	return board.Move{}, false
}

func (b *StoreBook) lookup(s Snapshot) ([]Candidate, bool) {
	return b.store.Lookup(crc32Of(s), crc8Of(s))
}

// pick validates every candidate against the position's current legal moves -- EP target
// collisions and the book's promotion-suffix-less encoding are resolved here, by matching
// on from/to squares and inferring an implicit queen promotion the same way the move
// generator would -- and returns one surviving legal match, chosen uniformly at random.
func (b *StoreBook) pick(pos *board.Position, cands []Candidate) (board.Move, bool) {
	var legal []board.Move
	for _, c := range cands {
		want := board.SquareFromIndex64(c.From)
		to := board.SquareFromIndex64(c.To)
		for _, m := range pos.GenerateAll() {
			if m.IsPromotion() && m.Promotion != board.Queen {
				continue
			}
			if m.From == want && m.To == to {
				legal = append(legal, m)
			}
		}
	}
	if len(legal) == 0 {
		return board.Move{}, false
	}
	return legal[b.rand.Intn(len(legal))], true
}

func snapshotOf(pos *board.Position) Snapshot {
	var s Snapshot
	for i := 0; i < 64; i++ {
		sq := board.SquareFromIndex64(i)
		if c, p, ok := pos.PieceAt(sq); ok {
			s.Pieces[i] = pieceByte(c, p)
		}
	}
	if c := pos.Castling(); c.IsAllowed(board.WhiteKingSideCastle) {
		s.Status |= 1
	}
	if pos.Castling().IsAllowed(board.WhiteQueenSideCastle) {
		s.Status |= 2
	}
	if pos.Castling().IsAllowed(board.BlackKingSideCastle) {
		s.Status |= 4
	}
	if pos.Castling().IsAllowed(board.BlackQueenSideCastle) {
		s.Status |= 8
	}
	if pos.Turn() == board.Black {
		s.Status |= statusBlackToMove
	}
	return s
}

func pieceByte(c board.Color, p board.Piece) byte {
	v := byte(p)
	if c == board.Black {
		v += 10
	}
	return v
}

// mirrorOf builds the vertically flipped, color-swapped snapshot used by the mirror probe,
// and returns a function that maps a candidate found against that mirrored snapshot back
// into the real, unmirrored board.
func mirrorOf(s Snapshot) (Snapshot, func(Candidate) Candidate) {
	var m Snapshot
	for i := 0; i < 64; i++ {
		sq := board.SquareFromIndex64(i).Mirror()
		piece := s.Pieces[sq.Index64()]
		if piece != 0 {
			if piece <= 6 {
				piece += 10
			} else {
				piece -= 10
			}
		}
		m.Pieces[i] = piece
	}

	castling := s.Status & statusCastleMask
	m.Status = (castling >> 2) | ((castling & 0x3) << 2)
	if s.Status&statusBlackToMove == 0 {
		m.Status |= statusBlackToMove
	}

	flip := func(c Candidate) Candidate {
		return Candidate{
			From: board.SquareFromIndex64(c.From).Mirror().Index64(),
			To:   board.SquareFromIndex64(c.To).Mirror().Index64(),
		}
	}
	return m, flip
}

func crc32Of(s Snapshot) uint32 {
	buf := append(append([]byte{}, s.Pieces[:]...), s.Status)
	return crc32.ChecksumIEEE(buf)
}

// crc8Of is an independent, narrower checksum over the same snapshot, checked in addition
// to the 32-bit CRC before a book hit is trusted -- the polynomial is CRC-8/SMBUS (x^8 + x^2
// + x + 1), chosen only for cheap table generation, since the exact polynomial is an
// external book-format detail this package does not own.
func crc8Of(s Snapshot) uint8 {
	var crc uint8
	for _, b := range s.Pieces {
		crc = crc8Table[crc^b]
	}
	crc = crc8Table[crc^s.Status]
	return crc
}

var crc8Table = func() [256]uint8 {
	const poly = 0x07
	var t [256]uint8
	for i := 0; i < 256; i++ {
		c := uint8(i)
		for b := 0; b < 8; b++ {
			if c&0x80 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// None is a Book that never finds a move -- used when the book is disabled in configuration.
type None struct{}

func (None) Probe(*board.Position) (board.Move, bool) { return board.Move{}, false }
