package fishmg

import (
	"fmt"
	"strings"
)

// Move packs a move into 16 bits: flags in bits 12-15, source square in bits 6-11 and
// destination square in bits 0-5. A Move does not refer to any position.
type Move uint16

// MoveFlags is the 4-bit move kind.
type MoveFlags uint8

const (
	FlagQuiet          MoveFlags = 0b0000
	FlagDoublePawnPush MoveFlags = 0b0001
	FlagCastleShort    MoveFlags = 0b0010
	FlagCastleLong     MoveFlags = 0b0011
	FlagCapture        MoveFlags = 0b0100
	FlagEnPassant      MoveFlags = 0b0101

	FlagKnightPromotion MoveFlags = 0b1000
	FlagBishopPromotion MoveFlags = 0b1001
	FlagRookPromotion   MoveFlags = 0b1010
	FlagQueenPromotion  MoveFlags = 0b1011

	FlagKnightPromotionCapture MoveFlags = 0b1100
	FlagBishopPromotionCapture MoveFlags = 0b1101
	FlagRookPromotionCapture   MoveFlags = 0b1110
	FlagQueenPromotionCapture  MoveFlags = 0b1111
)

const (
	flagsShift = 12
	fromShift  = 6

	captureBit   MoveFlags = 0b0100
	promotionBit MoveFlags = 0b1000
)

// NewMove packs flags and squares. Values wider than their field fail with ErrOutOfRange.
func NewMove(flags MoveFlags, from, to Square) (Move, error) {
	if flags > 0xF {
		return 0, fmt.Errorf("%w: flags %#x", ErrOutOfRange, uint8(flags))
	}
	if from < 0 || from > 0x3F {
		return 0, fmt.Errorf("%w: source square %d", ErrOutOfRange, from)
	}
	if to < 0 || to > 0x3F {
		return 0, fmt.Errorf("%w: destination square %d", ErrOutOfRange, to)
	}
	return Move(uint16(flags)<<flagsShift | uint16(from)<<fromShift | uint16(to)), nil
}

// MustMove is NewMove for constant arguments. It panics on error.
func MustMove(flags MoveFlags, from, to Square) Move {
	m, err := NewMove(flags, from, to)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Move) Flags() MoveFlags { return MoveFlags(m >> flagsShift) }

func (m Move) From() Square { return Square(m>>fromShift) & 0x3F }

func (m Move) To() Square { return Square(m) & 0x3F }

func (m Move) IsQuiet() bool { return m.Flags() == FlagQuiet }

func (m Move) IsDoublePawnPush() bool { return m.Flags() == FlagDoublePawnPush }

func (m Move) IsCastleShort() bool { return m.Flags() == FlagCastleShort }

func (m Move) IsCastleLong() bool { return m.Flags() == FlagCastleLong }

// IsCapture reports whether the capture bit is set. This includes en passant and
// promotion captures.
func (m Move) IsCapture() bool { return m.Flags()&captureBit != 0 }

func (m Move) IsEnPassant() bool { return m.Flags() == FlagEnPassant }

func (m Move) IsPromotion() bool { return m.Flags()&promotionBit != 0 }

func (m Move) IsPromotionCapture() bool { return m.IsPromotion() && m.IsCapture() }

// PromotionType returns the piece a promotion turns into. It is only meaningful when
// IsPromotion is true.
func (m Move) PromotionType() PieceType { return promotionTypes[m.Flags()&3] }

// MoveKind names the mutation procedure a move is routed to.
type MoveKind uint8

const (
	KindInvalid MoveKind = iota
	KindQuiet
	KindCastleShort
	KindCastleLong
	KindCapture
	KindEnPassant
	KindPromotion
	KindPromotionCapture
)

var kindNames = [...]string{
	KindInvalid:          "invalid",
	KindQuiet:            "quiet",
	KindCastleShort:      "castle-short",
	KindCastleLong:       "castle-long",
	KindCapture:          "capture",
	KindEnPassant:        "en-passant",
	KindPromotion:        "promotion",
	KindPromotionCapture: "promotion-capture",
}

func (k MoveKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Kind classifies the move. Double pawn pushes are quiet moves. The unassigned flag
// values 0110 and 0111 carry the capture bit and classify as captures.
func (m Move) Kind() MoveKind {
	switch {
	case m.IsQuiet(), m.IsDoublePawnPush():
		return KindQuiet
	case m.IsCastleShort():
		return KindCastleShort
	case m.IsCastleLong():
		return KindCastleLong
	case m.IsEnPassant():
		return KindEnPassant
	case m.IsPromotionCapture():
		return KindPromotionCapture
	case m.IsPromotion():
		return KindPromotion
	case m.IsCapture():
		return KindCapture
	}
	return KindInvalid
}

// EnPassantTarget returns the square a double pawn push skipped over, or NoSquare for
// any other move.
func EnPassantTarget(m Move) Square {
	if !m.IsDoublePawnPush() {
		return NoSquare
	}
	return (m.From() + m.To()) / 2
}

// String renders UCI coordinates, with the promotion letter appended for promotions.
func (m Move) String() string {
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += strings.ToLower(NewPiece(White, m.PromotionType()).String())
	}
	return s
}

// ParseMove combines explicit flags with UCI coordinates such as "e2e4". A trailing
// promotion letter is accepted and must agree with the flags.
func ParseMove(flags MoveFlags, uci string) (Move, error) {
	uci = strings.TrimSpace(strings.ToLower(uci))
	if len(uci) != 4 && len(uci) != 5 {
		return 0, fmt.Errorf("%w: move %q", ErrOutOfRange, uci)
	}
	from, err := ParseSquare(uci[0:2])
	if err != nil {
		return 0, err
	}
	to, err := ParseSquare(uci[2:4])
	if err != nil {
		return 0, err
	}
	m, err := NewMove(flags, from, to)
	if err != nil {
		return 0, err
	}
	if len(uci) == 5 && (!m.IsPromotion() || m.String() != uci) {
		return 0, fmt.Errorf("%w: promotion suffix of %q does not match flags %04b", ErrInvalidMoveKind, uci, uint8(flags))
	}
	return m, nil
}
