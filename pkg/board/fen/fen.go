// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-mephisto/engine/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN record into a ready-to-use Board, keyed against the given Zobrist
// table (callers share one table across every board in a process).
//
// Example: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(zk *board.ZobristKeys, fen string) (*board.Board, error) {
	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: %q", fen)
	}

	pieces, err := decodePlacement(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid placement in FEN %q: %v", fen, err)
	}

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", fen)
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling in FEN: %q", fen)
	}

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: %q", fen)
		}
		ep = sq
	}

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", fen)
	}

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", fen)
	}

	pos, err := board.NewPosition(zk, pieces, active, castling, ep)
	if err != nil {
		return nil, fmt.Errorf("invalid position in FEN %q: %v", fen, err)
	}
	return board.NewBoard(pos, np, fm), nil
}

func decodePlacement(field string) ([]board.Placement, error) {
	var pieces []board.Placement

	rank := 8
	file := 1
	for _, r := range field {
		switch {
		case r == '/':
			rank--
			file = 1
		case unicode.IsDigit(r):
			file += int(r - '0')
		case unicode.IsLetter(r):
			color, piece, ok := parsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q", r)
			}
			if file < 1 || file > 8 || rank < 1 || rank > 8 {
				return nil, fmt.Errorf("piece %q outside the board", r)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++
		default:
			return nil, fmt.Errorf("invalid character %q", r)
		}
	}
	if rank != 1 || file != 9 {
		return nil, fmt.Errorf("invalid number of squares")
	}
	return pieces, nil
}

// Encode renders the board as a FEN record.
func Encode(b *board.Board) string {
	pos := b.Position()

	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		blanks := 0
		for file := 1; file <= 8; file++ {
			color, piece, ok := pos.PieceAt(board.NewSquare(file, rank))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank > 1 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), printColor(pos.Turn()), printCastling(pos.Castling()), ep, b.NoProgress(), b.FullMoves())
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	if c == 0 {
		return "-"
	}
	ret := ""
	if c.IsAllowed(board.WhiteKingSideCastle) {
		ret += "K"
	}
	if c.IsAllowed(board.WhiteQueenSideCastle) {
		ret += "Q"
	}
	if c.IsAllowed(board.BlackKingSideCastle) {
		ret += "k"
	}
	if c.IsAllowed(board.BlackQueenSideCastle) {
		ret += "q"
	}
	return ret
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	color := board.White
	if unicode.IsLower(r) {
		color = board.Black
	}
	switch unicode.ToUpper(r) {
	case 'P':
		return color, board.Pawn, true
	case 'B':
		return color, board.Bishop, true
	case 'N':
		return color, board.Knight, true
	case 'R':
		return color, board.Rook, true
	case 'Q':
		return color, board.Queen, true
	case 'K':
		return color, board.King, true
	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	var r rune
	switch p {
	case board.Pawn:
		r = 'p'
	case board.Bishop:
		r = 'b'
	case board.Knight:
		r = 'n'
	case board.Rook:
		r = 'r'
	case board.Queen:
		r = 'q'
	case board.King:
		r = 'k'
	default:
		r = '?'
	}
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
