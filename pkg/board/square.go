package board

import "fmt"

// Square identifies a cell on the 12x10 mailbox board: 10 files by 12 ranks. The two outer
// files and two outer ranks are permanent off-board sentinels, so sliding move generation
// never needs an explicit bounds check -- a ray simply stops when it steps onto a sentinel.
// Real board cells occupy files 1-8 and ranks 2-9 of the mailbox (board files A-H, ranks
// 1-8). Square zero is reserved to mean "no square": a captured piece's stashed square, or
// "no en passant target".
type Square uint8

const NoSquare Square = 0

const (
	mailboxFiles = 10
	mailboxRanks = 12
)

// NumSquares is the number of cells in the mailbox, sentinel border included.
const NumSquares = mailboxFiles * mailboxRanks

// NewSquare builds a mailbox square from a 1-8 file and 1-8 rank (1-indexed, matching
// algebraic notation: file 1 = A, rank 1 = White's first rank).
func NewSquare(file, rank int) Square {
	return Square((rank+1)*mailboxFiles + file)
}

// IsOnBoard reports whether the square is one of the 64 real board cells, as opposed to
// the mailbox sentinel border.
func (s Square) IsOnBoard() bool {
	f, r := int(s)%mailboxFiles, int(s)/mailboxFiles
	return f >= 1 && f <= 8 && r >= 2 && r <= 9
}

// File returns the 1-8 file (A=1..H=8) of an on-board square.
func (s Square) File() int {
	return int(s) % mailboxFiles
}

// Rank returns the 1-8 rank of an on-board square.
func (s Square) Rank() int {
	return int(s)/mailboxFiles - 1
}

// IsLight reports whether the square is a light square.
func (s Square) IsLight() bool {
	return (s.File()+s.Rank())%2 == 1
}

// Index64 returns the 0-63 index used by the opening book and KPK bitbase interfaces:
// A1=0 .. H8=63, rank-major.
func (s Square) Index64() int {
	return (s.Rank()-1)*8 + (s.File() - 1)
}

// SquareFromIndex64 is the inverse of Index64.
func SquareFromIndex64(i int) Square {
	return NewSquare(i%8+1, i/8+1)
}

// Mirror reflects the square across the board's horizontal midline (rank 1 <-> rank 8),
// used by the mirrored book probe and by the KPK probe's colour swap when Black holds the
// pawn. (The KPK file mirroring itself is done by pkg/kpk.)
func (s Square) Mirror() Square {
	return NewSquare(s.File(), 9-s.Rank())
}

func ParseSquare(f, r rune) (Square, error) {
	if f < 'a' || f > 'h' {
		return 0, fmt.Errorf("invalid file: %q", f)
	}
	if r < '1' || r > '8' {
		return 0, fmt.Errorf("invalid rank: %q", r)
	}
	return NewSquare(int(f-'a')+1, int(r-'1')+1), nil
}

func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %v", str)
	}
	return ParseSquare(runes[0], runes[1])
}

func (s Square) String() string {
	if !s.IsOnBoard() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+rune(s.File()-1), '1'+rune(s.Rank()-1))
}

// ray deltas in mailbox index space. Off-board detection is a property of the sentinel
// border, not of these deltas: a walk is terminated by consulting IsOnBoard, never by
// range-checking the delta itself.
const (
	dirN  = mailboxFiles
	dirS  = -mailboxFiles
	dirE  = 1
	dirW  = -1
	dirNE = mailboxFiles + 1
	dirNW = mailboxFiles - 1
	dirSE = -mailboxFiles + 1
	dirSW = -mailboxFiles - 1
)

var (
	bishopDirs = [4]int{dirNE, dirNW, dirSE, dirSW}
	rookDirs   = [4]int{dirN, dirS, dirE, dirW}
	queenDirs  = [8]int{dirN, dirS, dirE, dirW, dirNE, dirNW, dirSE, dirSW}
	knightDirs = [8]int{
		2*mailboxFiles + 1, 2*mailboxFiles - 1, -2*mailboxFiles + 1, -2*mailboxFiles - 1,
		mailboxFiles + 2, mailboxFiles - 2, -mailboxFiles + 2, -mailboxFiles - 2,
	}
	kingDirs = queenDirs
)
