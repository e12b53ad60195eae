package fishmg

import "fmt"

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	King PieceType = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Color selects the side. It is stored pre-shifted so that Color|PieceType is a Piece.
type Color uint8

const (
	White Color = 0
	Black Color = 8
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ Black }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Piece is a 4-bit code: bit 3 is the color, bits 0-2 the type.
//
// The codes double as slot indices into a Position's mask array. Types 6 and 7 are not
// pieces, so those slots hold the aggregate masks instead:
//
//	0-5   white K Q R B N P     8-13  black k q r b n p
//	6     all white             14    all black
//	7     occupied              15    empty
type Piece uint8

const (
	WhiteKing   = Piece(White) | Piece(King)
	WhiteQueen  = Piece(White) | Piece(Queen)
	WhiteRook   = Piece(White) | Piece(Rook)
	WhiteBishop = Piece(White) | Piece(Bishop)
	WhiteKnight = Piece(White) | Piece(Knight)
	WhitePawn   = Piece(White) | Piece(Pawn)

	BlackKing   = Piece(Black) | Piece(King)
	BlackQueen  = Piece(Black) | Piece(Queen)
	BlackRook   = Piece(Black) | Piece(Rook)
	BlackBishop = Piece(Black) | Piece(Bishop)
	BlackKnight = Piece(Black) | Piece(Knight)
	BlackPawn   = Piece(Black) | Piece(Pawn)
)

// Aggregate slots.
const (
	AllWhite Piece = 6
	Occupied Piece = 7
	AllBlack Piece = 14
	Empty    Piece = 15
)

// NumSlots is the length of a Position's mask array.
const NumSlots = 16

// NewPiece combines a side and a type.
func NewPiece(c Color, t PieceType) Piece { return Piece(c) | Piece(t) }

// Type returns the colorless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side owning the piece.
func (p Piece) Color() Color { return Color(p & 8) }

// Valid reports whether p is one of the twelve piece codes (and not an aggregate slot).
func (p Piece) Valid() bool { return p < NumSlots && p&7 <= Piece(Pawn) }

func (p Piece) String() string {
	s, err := DecodePiece(p)
	if err != nil {
		return "?"
	}
	return string(s)
}

const symbols = "KQRBNP"

// EncodePiece maps a FEN letter to its piece code.
func EncodePiece(symbol rune) (Piece, error) {
	for i, s := range symbols {
		switch symbol {
		case s:
			return NewPiece(White, PieceType(i)), nil
		case s + ('a' - 'A'):
			return NewPiece(Black, PieceType(i)), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
}

// DecodePiece maps a piece code back to its FEN letter.
func DecodePiece(p Piece) (rune, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("%w: piece code %d", ErrUnknownSymbol, p)
	}
	s := rune(symbols[p.Type()])
	if p.Color() == Black {
		s += 'a' - 'A'
	}
	return s, nil
}

// pieces lists the twelve piece codes in slot order.
var pieces = [12]Piece{
	WhiteKing, WhiteQueen, WhiteRook, WhiteBishop, WhiteKnight, WhitePawn,
	BlackKing, BlackQueen, BlackRook, BlackBishop, BlackKnight, BlackPawn,
}

// promotionTypes is indexed by the low two bits of a promotion flag.
var promotionTypes = [4]PieceType{Knight, Bishop, Rook, Queen}
