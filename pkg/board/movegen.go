package board

// MaxMoves bounds the largest pseudo-legal move list reachable from any legal chess
// position, with headroom; move lists are stack-allocated slices built against this cap.
const MaxMoves = 218

// CheckInfo reports whether a side's king is in check and, if so, which square(s) give
// check -- two in the case of a discovered double check, per spec component C2.
type CheckInfo struct {
	InCheck   bool
	Attackers []Square // length 0, 1 or 2
}

// KingInCheckInfo reports full check details for the side to move, for use by the search
// driver deciding whether to extend.
func (p *Position) KingInCheckInfo() CheckInfo {
	kingSq := p.kingSquare(p.turn)
	n := p.attackersOf(p.turn.Opponent(), kingSq, p.checkAttackers[:0])
	return CheckInfo{InCheck: n > 0, Attackers: append([]Square(nil), p.checkAttackers[:n]...)}
}

func (p *Position) isAttacked(c Color, sq Square) bool {
	return p.attackersOf(c.Opponent(), sq, nil) > 0
}

// attackersOf fills buf (if non-nil, capacity >= 2) with up to two squares from which
// attacker gives check to sq, and returns the count found. Stops scanning once 2 are found,
// since a legal position never has more than two simultaneous checkers.
func (p *Position) attackersOf(attacker Color, sq Square, buf []Square) int {
	n := 0
	add := func(from Square) bool {
		if buf != nil && n < cap(buf) {
			buf = append(buf, from)
		}
		n++
		return n >= 2
	}

	pawnOffsets := pawnAttackOffsets(attacker)
	for _, off := range pawnOffsets {
		from := Square(int(sq) - off)
		if c, piece, ok := p.PieceAt(from); ok && c == attacker && piece == Pawn {
			if add(from) {
				return n
			}
		}
	}

	for _, d := range knightDirs {
		from := Square(int(sq) + d)
		if !from.IsOnBoard() {
			continue
		}
		if c, piece, ok := p.PieceAt(from); ok && c == attacker && piece == Knight {
			if add(from) {
				return n
			}
		}
	}

	for _, d := range kingDirs {
		from := Square(int(sq) + d)
		if !from.IsOnBoard() {
			continue
		}
		if c, piece, ok := p.PieceAt(from); ok && c == attacker && piece == King {
			if add(from) {
				return n
			}
		}
	}

	for _, d := range bishopDirs {
		if from, ok := p.firstOnRay(sq, d); ok {
			if c, piece, _ := p.PieceAt(from); c == attacker && (piece == Bishop || piece == Queen) {
				if add(from) {
					return n
				}
			}
		}
	}
	for _, d := range rookDirs {
		if from, ok := p.firstOnRay(sq, d); ok {
			if c, piece, _ := p.PieceAt(from); c == attacker && (piece == Rook || piece == Queen) {
				if add(from) {
					return n
				}
			}
		}
	}

	return n
}

// firstOnRay walks from sq in direction d until it hits an occupied square or steps off the
// board, returning the first occupied square found.
func (p *Position) firstOnRay(sq Square, d int) (Square, bool) {
	cur := Square(int(sq) + d)
	for cur.IsOnBoard() {
		if p.cells[cur] != 0 {
			return cur, true
		}
		cur = Square(int(cur) + d)
	}
	return NoSquare, false
}

func pawnAttackOffsets(attacker Color) [2]int {
	if attacker == White {
		return [2]int{dirNE, dirNW}
	}
	return [2]int{dirSE, dirSW}
}

// GenerateAll returns every legal move for the side to move (component C2). Pseudo-legal
// candidates are produced first, then filtered by making and immediately unmaking each one
// and testing whether the mover's own king is left in check.
func (p *Position) GenerateAll() []Move {
	pseudo := make([]Move, 0, MaxMoves)
	p.generatePseudoLegal(&pseudo, false)
	return p.filterLegal(pseudo)
}

// GenerateCapturesAndPromotions returns only captures, en passant and promotions, for
// quiescence search (component C7).
func (p *Position) GenerateCapturesAndPromotions() []Move {
	pseudo := make([]Move, 0, MaxMoves)
	p.generatePseudoLegal(&pseudo, true)
	return p.filterLegal(pseudo)
}

// GenerateEvasions returns every legal move when the side to move is in check. It is
// equivalent to GenerateAll when in check, exposed separately so callers (quiescence, mate
// search) can special-case "we are in check" without re-deriving CheckInfo.
func (p *Position) GenerateEvasions() []Move {
	return p.GenerateAll()
}

func (p *Position) filterLegal(pseudo []Move) []Move {
	legal := make([]Move, 0, len(pseudo))
	mover := p.turn
	for _, m := range pseudo {
		e := p.applyMove(m)
		if !p.isAttacked(mover, p.kingSquare(mover)) {
			legal = append(legal, m)
		}
		p.unapplyMove(e)
	}
	return legal
}

func (p *Position) generatePseudoLegal(out *[]Move, capturesOnly bool) {
	c := p.turn
	p.Pieces(c, func(from Square, piece Piece) {
		switch piece {
		case Pawn:
			p.generatePawnMoves(out, from, c, capturesOnly)
		case Knight:
			p.generateStepMoves(out, from, c, knightDirs[:], capturesOnly)
		case Bishop:
			p.generateSlideMoves(out, from, c, bishopDirs[:], capturesOnly)
		case Rook:
			p.generateSlideMoves(out, from, c, rookDirs[:], capturesOnly)
		case Queen:
			p.generateSlideMoves(out, from, c, queenDirs[:], capturesOnly)
		case King:
			p.generateStepMoves(out, from, c, kingDirs[:], capturesOnly)
			if !capturesOnly {
				p.generateCastles(out, from, c)
			}
		}
	})
}

var promotionPieces = [4]Piece{Queen, Rook, Bishop, Knight}

func (p *Position) generatePawnMoves(out *[]Move, from Square, c Color, capturesOnly bool) {
	fwd := pawnForwardDelta(c)
	startRank, promoRank := 2, 8
	if c == Black {
		startRank, promoRank = 7, 1
	}

	to := Square(int(from) + fwd)
	if !capturesOnly && to.IsOnBoard() && p.cells[to] == 0 {
		if to.Rank() == promoRank {
			p.appendPromotions(out, from, to, NoPiece)
		} else {
			*out = append(*out, Move{Type: Push, From: from, To: to, Piece: Pawn})
			if from.Rank() == startRank {
				jump := Square(int(from) + 2*fwd)
				if p.cells[jump] == 0 {
					*out = append(*out, Move{Type: Jump, From: from, To: jump, Piece: Pawn})
				}
			}
		}
	}

	for _, off := range []int{fwd + dirE, fwd + dirW} {
		capSq := Square(int(from) + off)
		if !capSq.IsOnBoard() {
			continue
		}
		if col, piece, ok := p.PieceAt(capSq); ok {
			if col == c.Opponent() {
				if capSq.Rank() == promoRank {
					p.appendPromotions(out, from, capSq, piece)
				} else {
					*out = append(*out, Move{Type: Capture, From: from, To: capSq, Piece: Pawn, Capture: piece})
				}
			}
			continue
		}
		if ep, ok := p.EnPassant(); ok && capSq == ep {
			*out = append(*out, Move{Type: EnPassant, From: from, To: capSq, Piece: Pawn, Capture: Pawn})
		}
	}
}

func (p *Position) appendPromotions(out *[]Move, from, to Square, captured Piece) {
	t := Promotion
	if captured != NoPiece {
		t = CapturePromotion
	}
	for _, promo := range promotionPieces {
		*out = append(*out, Move{Type: t, From: from, To: to, Piece: Pawn, Promotion: promo, Capture: captured})
	}
}

func (p *Position) generateStepMoves(out *[]Move, from Square, c Color, dirs []int, capturesOnly bool) {
	_, piece, _ := p.PieceAt(from)
	for _, d := range dirs {
		to := Square(int(from) + d)
		if !to.IsOnBoard() {
			continue
		}
		if col, captured, ok := p.PieceAt(to); ok {
			if col != c {
				*out = append(*out, Move{Type: Capture, From: from, To: to, Piece: piece, Capture: captured})
			}
			continue
		}
		if !capturesOnly {
			*out = append(*out, Move{Type: Normal, From: from, To: to, Piece: piece})
		}
	}
}

func (p *Position) generateSlideMoves(out *[]Move, from Square, c Color, dirs []int, capturesOnly bool) {
	_, piece, _ := p.PieceAt(from)
	for _, d := range dirs {
		for to := Square(int(from) + d); to.IsOnBoard(); to = Square(int(to) + d) {
			if col, captured, ok := p.PieceAt(to); ok {
				if col != c {
					*out = append(*out, Move{Type: Capture, From: from, To: to, Piece: piece, Capture: captured})
				}
				break
			}
			if !capturesOnly {
				*out = append(*out, Move{Type: Normal, From: from, To: to, Piece: piece})
			}
		}
	}
}

func (p *Position) generateCastles(out *[]Move, kingSq Square, c Color) {
	rank := 1
	ks, qs := WhiteKingSideCastle, WhiteQueenSideCastle
	if c == Black {
		rank = 8
		ks, qs = BlackKingSideCastle, BlackQueenSideCastle
	}
	if kingSq != NewSquare(5, rank) {
		return
	}
	opp := c.Opponent()

	if p.castling.IsAllowed(ks) &&
		p.cells[NewSquare(6, rank)] == 0 && p.cells[NewSquare(7, rank)] == 0 &&
		!p.isAttacked(c, NewSquare(5, rank)) && !p.isAttacked(c, NewSquare(6, rank)) && !p.isAttacked(c, NewSquare(7, rank)) {
		_ = opp
		*out = append(*out, Move{Type: KingSideCastle, From: kingSq, To: NewSquare(7, rank), Piece: King})
	}
	if p.castling.IsAllowed(qs) &&
		p.cells[NewSquare(4, rank)] == 0 && p.cells[NewSquare(3, rank)] == 0 && p.cells[NewSquare(2, rank)] == 0 &&
		!p.isAttacked(c, NewSquare(5, rank)) && !p.isAttacked(c, NewSquare(4, rank)) && !p.isAttacked(c, NewSquare(3, rank)) {
		*out = append(*out, Move{Type: QueenSideCastle, From: kingSq, To: NewSquare(3, rank), Piece: King})
	}
}

// MobilityOf counts the pseudo-legal destinations available to the piece on sq (the
// mobility scalar of spec component C1's piece record), without filtering for leaving the
// mover's own king in check: the static evaluator only needs a cheap activity proxy, not a
// legality proof, and re-deriving it on demand here avoids threading a mutable mobility
// field through Make/Unmake.
func (p *Position) MobilityOf(sq Square) int {
	col, piece, ok := p.PieceAt(sq)
	if !ok {
		return 0
	}
	moves := make([]Move, 0, 28)
	switch piece {
	case Pawn:
		p.generatePawnMoves(&moves, sq, col, false)
	case Knight:
		p.generateStepMoves(&moves, sq, col, knightDirs[:], false)
	case Bishop:
		p.generateSlideMoves(&moves, sq, col, bishopDirs[:], false)
	case Rook:
		p.generateSlideMoves(&moves, sq, col, rookDirs[:], false)
	case Queen:
		p.generateSlideMoves(&moves, sq, col, queenDirs[:], false)
	case King:
		p.generateStepMoves(&moves, sq, col, kingDirs[:], false)
	}
	return len(moves)
}

// HasInsufficientMaterial reports whether neither side has enough material to deliver
// checkmate by any sequence of legal moves (K vs K, K+B vs K, K+N vs K, K+B vs K+B with
// same-colored bishops).
func (p *Position) HasInsufficientMaterial() bool {
	var knights, bishops [2]int
	var bishopSq [2]Square

	for _, c := range [2]Color{White, Black} {
		sufficient := false
		p.Pieces(c, func(sq Square, piece Piece) {
			switch piece {
			case Pawn, Rook, Queen:
				sufficient = true
			case Knight:
				knights[c]++
			case Bishop:
				bishops[c]++
				bishopSq[c] = sq
			}
		})
		if sufficient || knights[c]+bishops[c] >= 2 {
			return false
		}
	}

	if bishops[White] == 1 && bishops[Black] == 1 {
		return bishopSq[White].IsLight() == bishopSq[Black].IsLight()
	}
	return true
}
