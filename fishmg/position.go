// Package fishmg is a packed bitboard chess position and the move applicator that
// derives one position from the next.
package fishmg

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// CastlingRights is a 4-bit set. Bit 3 is white king-side, bit 0 black queen-side,
// matching the KQkq order of the FEN field read as a binary number.
type CastlingRights uint8

const (
	BlackQueenSide CastlingRights = 1 << iota
	BlackKingSide
	WhiteQueenSide
	WhiteKingSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// castlingOrder pairs each right with its FEN letter in field order.
var castlingOrder = [4]struct {
	right  CastlingRights
	letter byte
}{
	{WhiteKingSide, 'K'},
	{WhiteQueenSide, 'Q'},
	{BlackKingSide, 'k'},
	{BlackQueenSide, 'q'},
}

// Has reports whether every right in r2 is present.
func (r CastlingRights) Has(r2 CastlingRights) bool { return r&r2 == r2 }

func (r CastlingRights) String() string {
	if r&AllCastling == 0 {
		return "-"
	}
	var sb strings.Builder
	for _, c := range castlingOrder {
		if r&c.right != 0 {
			sb.WriteByte(c.letter)
		}
	}
	return sb.String()
}

// Position is a board as one mask per piece code plus the aggregate masks, the side to
// move and the castling rights. A Position is a value: every transformation returns a new
// one and the receiver is never modified, so positions can be shared between goroutines.
type Position struct {
	masks  [NumSlots]Bitboard
	white  bool
	rights CastlingRights
}

// NewPosition builds a position from explicit masks. Only the twelve piece slots are read;
// the aggregate slots are recomputed. Overlapping piece masks are rejected.
func NewPosition(masks [NumSlots]Bitboard, whiteToMove bool, rights CastlingRights) (Position, error) {
	p := Position{white: whiteToMove, rights: rights & AllCastling}
	for _, pc := range pieces {
		p.masks[pc] = masks[pc]
	}
	p.refresh()
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Mask returns the mask stored in slot pc, aggregate slots included.
func (p Position) Mask(pc Piece) Bitboard {
	if pc >= NumSlots {
		return 0
	}
	return p.masks[pc]
}

// Masks returns a copy of all sixteen slots.
func (p Position) Masks() [NumSlots]Bitboard { return p.masks }

// WhiteToMove reports whose turn it is.
func (p Position) WhiteToMove() bool { return p.white }

// SideToMove returns the color of the side to move.
func (p Position) SideToMove() Color {
	if p.white {
		return White
	}
	return Black
}

func (p Position) CastlingRights() CastlingRights { return p.rights }

// WithTurn returns a copy with the side to move replaced.
func (p Position) WithTurn(whiteToMove bool) Position {
	p.white = whiteToMove
	return p
}

// WithCastlingRights returns a copy with the castling rights replaced.
func (p Position) WithCastlingRights(r CastlingRights) Position {
	p.rights = r & AllCastling
	return p
}

// PieceAt returns the piece on sq, if any.
func (p Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return 0, false
	}
	bit := SquareMask(sq)
	if p.masks[Occupied]&bit == 0 {
		return 0, false
	}
	for _, pc := range pieces {
		if p.masks[pc]&bit != 0 {
			return pc, true
		}
	}
	return 0, false
}

// Validate checks that no square is claimed by two piece masks and that the aggregate
// slots agree with the piece masks.
func (p Position) Validate() error {
	var seen Bitboard
	for _, pc := range pieces {
		if both := seen & p.masks[pc]; both != 0 {
			return fmt.Errorf("%w: %v overlaps another piece on %v", ErrCorrupt, pc, both.Squares())
		}
		seen |= p.masks[pc]
	}
	want := p
	want.refresh()
	if want.masks != p.masks {
		return fmt.Errorf("%w: aggregate masks out of date", ErrCorrupt)
	}
	return nil
}

// refresh recomputes the aggregate slots from the piece masks.
func (p *Position) refresh() {
	var w, b Bitboard
	for t := King; t <= Pawn; t++ {
		w |= p.masks[NewPiece(White, t)]
		b |= p.masks[NewPiece(Black, t)]
	}
	p.masks[AllWhite] = w
	p.masks[AllBlack] = b
	p.masks[Occupied] = w | b
	p.masks[Empty] = ^(w | b)
}

// clearAll removes every piece from the squares in mask.
func (p *Position) clearAll(mask Bitboard) {
	for _, pc := range pieces {
		p.masks[pc] &^= mask
	}
}

// binarySize is the length of the MarshalBinary encoding.
const binarySize = len(pieces)*8 + 2

// MarshalBinary encodes the twelve piece masks little-endian followed by the turn
// and castling bytes.
func (p Position) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, binarySize))
}

// AppendBinary appends the MarshalBinary encoding to dst.
func (p Position) AppendBinary(dst []byte) ([]byte, error) {
	for _, pc := range pieces {
		dst = binary.LittleEndian.AppendUint64(dst, uint64(p.masks[pc]))
	}
	var turn byte
	if p.white {
		turn = 1
	}
	return append(dst, turn, byte(p.rights)), nil
}

// UnmarshalBinary decodes the MarshalBinary encoding into p.
func (p *Position) UnmarshalBinary(data []byte) error {
	if len(data) != binarySize {
		return fmt.Errorf("%w: encoded position is %d bytes, want %d", ErrOutOfRange, len(data), binarySize)
	}
	var masks [NumSlots]Bitboard
	for i, pc := range pieces {
		masks[pc] = Bitboard(binary.LittleEndian.Uint64(data[i*8:]))
	}
	turn, rights := data[binarySize-2], data[binarySize-1]
	if turn > 1 || rights > byte(AllCastling) {
		return fmt.Errorf("%w: turn %d rights %d", ErrOutOfRange, turn, rights)
	}
	next, err := NewPosition(masks, turn == 1, CastlingRights(rights))
	if err != nil {
		return err
	}
	*p = next
	return nil
}
