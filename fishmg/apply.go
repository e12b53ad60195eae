package fishmg

import "fmt"

// Play applies m and then advances the turn and castling rights. It is the usual way to
// move from one position to the next.
func (p Position) Play(m Move) (Position, error) {
	next, err := p.ApplyMove(m)
	if err != nil {
		return Position{}, err
	}
	return next.Advance(m), nil
}

// ApplyMove returns the position after the board mutation for m. The side to move and
// the castling rights are left as they were; see Advance. The move is assumed legal:
// no check, castling or ownership rules are enforced.
func (p Position) ApplyMove(m Move) (Position, error) {
	next := p
	var err error
	switch m.Kind() {
	case KindQuiet:
		err = next.quiet(m)
	case KindCastleShort:
		next.castleShort()
	case KindCastleLong:
		next.castleLong()
	case KindCapture:
		err = next.capture(m)
	case KindEnPassant:
		err = next.enPassant(m)
	case KindPromotion:
		err = next.promotion(m, false)
	case KindPromotionCapture:
		err = next.promotion(m, true)
	default:
		err = fmt.Errorf("%w: flags %04b", ErrInvalidMoveKind, uint8(m.Flags()))
	}
	if err != nil {
		return Position{}, fmt.Errorf("apply %v (%v): %w", m, m.Kind(), err)
	}
	next.refresh()
	if err := next.Validate(); err != nil {
		return Position{}, fmt.Errorf("apply %v (%v): %w", m, m.Kind(), err)
	}
	return next, nil
}

// castlingMasks holds the rights that survive a move touching each square.
var castlingMasks = func() (masks [64]CastlingRights) {
	for i := range masks {
		masks[i] = AllCastling
	}
	masks[A1] &^= WhiteQueenSide
	masks[E1] &^= WhiteKingSide | WhiteQueenSide
	masks[H1] &^= WhiteKingSide
	masks[A8] &^= BlackQueenSide
	masks[E8] &^= BlackKingSide | BlackQueenSide
	masks[H8] &^= BlackKingSide
	return masks
}()

// Advance is the bookkeeping that follows every successful ApplyMove: the turn passes
// to the other side and castling rights are dropped for a king or rook that moved or a
// rook that was captured on its home square. Castling moves drop both of the mover's
// rights without looking at the move's squares.
func (p Position) Advance(m Move) Position {
	switch m.Kind() {
	case KindCastleShort, KindCastleLong:
		if p.white {
			p.rights &^= WhiteKingSide | WhiteQueenSide
		} else {
			p.rights &^= BlackKingSide | BlackQueenSide
		}
	default:
		p.rights &= castlingMasks[m.From()] & castlingMasks[m.To()]
	}
	p.white = !p.white
	return p
}

func (p *Position) takeSource(m Move) (Piece, error) {
	pc, ok := p.PieceAt(m.From())
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrEmptySource, m.From())
	}
	p.masks[pc] &^= SquareMask(m.From())
	return pc, nil
}

func (p *Position) quiet(m Move) error {
	pc, err := p.takeSource(m)
	if err != nil {
		return err
	}
	p.masks[pc] |= SquareMask(m.To())
	return nil
}

func (p *Position) capture(m Move) error {
	pc, err := p.takeSource(m)
	if err != nil {
		return err
	}
	p.clearAll(SquareMask(m.To()))
	p.masks[pc] |= SquareMask(m.To())
	return nil
}

// backRank returns the mover's first rank.
func (p *Position) backRank() Bitboard {
	if p.white {
		return Rank1
	}
	return Rank8
}

// Castling ignores the move's squares: the king and rook land on fixed files of the
// mover's back rank, and the span they came from is cleared in every mask.
func (p *Position) castleShort() {
	rank := p.backRank()
	c := p.SideToMove()
	p.clearAll(rank & spanEH)
	p.masks[NewPiece(c, Rook)] |= rank & fileMask(F1)
	p.masks[NewPiece(c, King)] |= rank & fileMask(G1)
}

func (p *Position) castleLong() {
	rank := p.backRank()
	c := p.SideToMove()
	p.clearAll(rank & spanAE)
	p.masks[NewPiece(c, King)] |= rank & fileMask(C1)
	p.masks[NewPiece(c, Rook)] |= rank & fileMask(D1)
}

// Files e-h and a-e on every rank.
const (
	spanEH Bitboard = 0xF0F0F0F0F0F0F0F0
	spanAE Bitboard = 0x1F1F1F1F1F1F1F1F
)

// fileMask returns every square on the file of sq.
func fileMask(sq Square) Bitboard { return 0x0101010101010101 << uint(sq.File()) }

// enPassant removes the pawn one rank behind the destination from the mover's side.
func (p *Position) enPassant(m Move) error {
	if _, err := p.takeSource(m); err != nil {
		return err
	}
	victim := m.To() - 8
	if !p.white {
		victim = m.To() + 8
	}
	if err := checkSquare(victim); err != nil {
		return err
	}
	p.clearAll(SquareMask(victim))
	p.masks[NewPiece(p.SideToMove(), Pawn)] |= SquareMask(m.To())
	return nil
}

func (p *Position) promotion(m Move, capture bool) error {
	if _, err := p.takeSource(m); err != nil {
		return err
	}
	if capture {
		p.clearAll(SquareMask(m.To()))
	}
	p.masks[NewPiece(p.SideToMove(), m.PromotionType())] |= SquareMask(m.To())
	return nil
}
