package fishmg

import "fmt"

// Square is a board index in little-endian rank-file order: a1 = 0, h1 = 7, a8 = 56, h8 = 63.
type Square int

const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NewSquare returns the square on the given 0-based file and rank.
func NewSquare(file, rank int) Square { return Square(file + rank*8) }

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool { return sq >= A1 && sq <= H8 }

func (sq Square) File() int { return int(sq) & 7 }

func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare parses algebraic coordinates such as "e2".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: square %q", ErrOutOfRange, s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// ParseEnPassant parses the en passant field of a FEN record. "-" yields NoSquare.
func ParseEnPassant(field string) (Square, error) {
	if field == "-" {
		return NoSquare, nil
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return NoSquare, fmt.Errorf("%w: en passant target %q", ErrMalformedFEN, field)
	}
	if r := sq.Rank(); r != 2 && r != 5 {
		return NoSquare, fmt.Errorf("%w: en passant target %q not on rank 3 or 6", ErrMalformedFEN, field)
	}
	return sq, nil
}

func checkSquare(sq Square) error {
	if !sq.Valid() {
		return fmt.Errorf("%w: square %d", ErrOutOfRange, sq)
	}
	return nil
}
