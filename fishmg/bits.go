package fishmg

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit occupancy mask, one bit per Square.
type Bitboard uint64

// Back rank masks.
const (
	Rank1 Bitboard = 0xFF
	Rank8 Bitboard = 0xFF << 56
)

// SquareMask returns a mask with only sq set. sq must be valid.
func SquareMask(sq Square) Bitboard { return 1 << uint(sq) }

// Test reports whether sq is set in b.
func (b Bitboard) Test(sq Square) (bool, error) {
	if err := checkSquare(sq); err != nil {
		return false, err
	}
	return b&SquareMask(sq) != 0, nil
}

// Set returns b with sq set.
func (b Bitboard) Set(sq Square) (Bitboard, error) {
	if err := checkSquare(sq); err != nil {
		return b, err
	}
	return b | SquareMask(sq), nil
}

// Clear returns b with sq cleared.
func (b Bitboard) Clear(sq Square) (Bitboard, error) {
	if err := checkSquare(sq); err != nil {
		return b, err
	}
	return b &^ SquareMask(sq), nil
}

// ShiftVertical moves every bit by ranks*8 positions, toward rank 1 when downward is
// set and toward rank 8 otherwise. Bits pushed off the board are dropped. A negative
// rank count shifts the other way.
func (b Bitboard) ShiftVertical(ranks int, downward bool) Bitboard {
	if ranks < 0 {
		ranks, downward = -ranks, !downward
	}
	if ranks >= 8 {
		return 0
	}
	if downward {
		return b >> uint(8*ranks)
	}
	return b << uint(8*ranks)
}

// Count returns the number of set squares.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// Squares returns the set squares in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for x := uint64(b); x != 0; x &= x - 1 {
		out = append(out, Square(bits.TrailingZeros64(x)))
	}
	return out
}

// String draws the mask as an 8x8 grid, rank 8 at the top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b&SquareMask(NewSquare(file, rank)) != 0 {
				sb.WriteString("1 ")
			} else {
				sb.WriteString("0 ")
			}
		}
		sb.WriteString("| ")
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte('\n')
	}
	sb.WriteString("----------------+\n")
	sb.WriteString("a b c d e f g h\n")
	return sb.String()
}
