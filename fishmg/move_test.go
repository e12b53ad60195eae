package fishmg_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitfish/fishmg"
)

func TestNewMoveFields(t *testing.T) {
	m, err := fishmg.NewMove(fishmg.FlagQueenPromotionCapture, fishmg.F7, fishmg.F8)
	require.NoError(t, err)
	assert.Equal(t, fishmg.Move(0b1111_110101_111101), m)
	assert.Equal(t, fishmg.FlagQueenPromotionCapture, m.Flags())
	assert.Equal(t, fishmg.F7, m.From())
	assert.Equal(t, fishmg.F8, m.To())
	assert.Equal(t, "f7f8q", m.String())

	m, err = fishmg.NewMove(fishmg.FlagQuiet, fishmg.E2, fishmg.E4)
	require.NoError(t, err)
	assert.Equal(t, fishmg.Move(12<<6|28), m)
	assert.Equal(t, "e2e4", m.String())
}

func TestNewMoveOutOfRange(t *testing.T) {
	cases := []struct {
		flags    fishmg.MoveFlags
		from, to fishmg.Square
	}{
		{0x10, fishmg.E2, fishmg.E4},
		{0, 64, fishmg.E4},
		{0, fishmg.E2, 64},
		{0, -1, fishmg.E4},
		{0, fishmg.E2, fishmg.NoSquare},
	}
	for _, tc := range cases {
		_, err := fishmg.NewMove(tc.flags, tc.from, tc.to)
		assert.ErrorIs(t, err, fishmg.ErrOutOfRange, "flags %#x from %d to %d", tc.flags, tc.from, tc.to)
	}
}

func TestMoveKinds(t *testing.T) {
	cases := []struct {
		flags         fishmg.MoveFlags
		kind          fishmg.MoveKind
		capture       bool
		promotion     bool
		promotionType fishmg.PieceType
	}{
		{fishmg.FlagQuiet, fishmg.KindQuiet, false, false, 0},
		{fishmg.FlagDoublePawnPush, fishmg.KindQuiet, false, false, 0},
		{fishmg.FlagCastleShort, fishmg.KindCastleShort, false, false, 0},
		{fishmg.FlagCastleLong, fishmg.KindCastleLong, false, false, 0},
		{fishmg.FlagCapture, fishmg.KindCapture, true, false, 0},
		{fishmg.FlagEnPassant, fishmg.KindEnPassant, true, false, 0},
		{0b0110, fishmg.KindCapture, true, false, 0},
		{0b0111, fishmg.KindCapture, true, false, 0},
		{fishmg.FlagKnightPromotion, fishmg.KindPromotion, false, true, fishmg.Knight},
		{fishmg.FlagBishopPromotion, fishmg.KindPromotion, false, true, fishmg.Bishop},
		{fishmg.FlagRookPromotion, fishmg.KindPromotion, false, true, fishmg.Rook},
		{fishmg.FlagQueenPromotion, fishmg.KindPromotion, false, true, fishmg.Queen},
		{fishmg.FlagKnightPromotionCapture, fishmg.KindPromotionCapture, true, true, fishmg.Knight},
		{fishmg.FlagBishopPromotionCapture, fishmg.KindPromotionCapture, true, true, fishmg.Bishop},
		{fishmg.FlagRookPromotionCapture, fishmg.KindPromotionCapture, true, true, fishmg.Rook},
		{fishmg.FlagQueenPromotionCapture, fishmg.KindPromotionCapture, true, true, fishmg.Queen},
	}
	for _, tc := range cases {
		m := fishmg.MustMove(tc.flags, fishmg.B7, fishmg.B8)
		assert.Equal(t, tc.kind, m.Kind(), "flags %04b", tc.flags)
		assert.Equal(t, tc.capture, m.IsCapture(), "flags %04b", tc.flags)
		assert.Equal(t, tc.promotion, m.IsPromotion(), "flags %04b", tc.flags)
		assert.Equal(t, tc.promotion && tc.capture, m.IsPromotionCapture(), "flags %04b", tc.flags)
		if tc.promotion {
			assert.Equal(t, tc.promotionType, m.PromotionType(), "flags %04b", tc.flags)
		}
	}
}

func TestEnPassantTarget(t *testing.T) {
	assert.Equal(t, fishmg.E3, fishmg.EnPassantTarget(fishmg.MustMove(fishmg.FlagDoublePawnPush, fishmg.E2, fishmg.E4)))
	assert.Equal(t, fishmg.D6, fishmg.EnPassantTarget(fishmg.MustMove(fishmg.FlagDoublePawnPush, fishmg.D7, fishmg.D5)))
	assert.Equal(t, fishmg.NoSquare, fishmg.EnPassantTarget(fishmg.MustMove(fishmg.FlagQuiet, fishmg.E2, fishmg.E4)))
}

func TestParseMove(t *testing.T) {
	m, err := fishmg.ParseMove(fishmg.FlagQuiet, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, fishmg.MustMove(fishmg.FlagQuiet, fishmg.E2, fishmg.E4), m)

	m, err = fishmg.ParseMove(fishmg.FlagRookPromotion, "A7A8R")
	require.NoError(t, err)
	assert.Equal(t, fishmg.MustMove(fishmg.FlagRookPromotion, fishmg.A7, fishmg.A8), m)

	_, err = fishmg.ParseMove(fishmg.FlagQueenPromotion, "a7a8n")
	assert.ErrorIs(t, err, fishmg.ErrInvalidMoveKind)
	_, err = fishmg.ParseMove(fishmg.FlagQuiet, "a7a8q")
	assert.ErrorIs(t, err, fishmg.ErrInvalidMoveKind)

	for _, bad := range []string{"", "e2", "e2e9", "i2e4", "e2e4qq"} {
		_, err := fishmg.ParseMove(fishmg.FlagQuiet, bad)
		assert.True(t, errors.Is(err, fishmg.ErrOutOfRange), "ParseMove(%q) err = %v", bad, err)
	}
	_, err = fishmg.ParseMove(0x10, "e2e4")
	assert.ErrorIs(t, err, fishmg.ErrOutOfRange)
}

func TestSquares(t *testing.T) {
	sq, err := fishmg.ParseSquare("e2")
	require.NoError(t, err)
	assert.Equal(t, fishmg.E2, sq)
	assert.Equal(t, 4, sq.File())
	assert.Equal(t, 1, sq.Rank())
	assert.Equal(t, "h8", fishmg.H8.String())
	assert.Equal(t, "-", fishmg.NoSquare.String())

	ep, err := fishmg.ParseEnPassant("d6")
	require.NoError(t, err)
	assert.Equal(t, fishmg.D6, ep)
	ep, err = fishmg.ParseEnPassant("-")
	require.NoError(t, err)
	assert.Equal(t, fishmg.NoSquare, ep)
	_, err = fishmg.ParseEnPassant("d5")
	assert.ErrorIs(t, err, fishmg.ErrMalformedFEN)
}
