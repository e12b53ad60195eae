// Package movegen supplies candidate moves for a fishmg.Position by running the
// dragontoothmg legal move generator and translating its moves into the 16-bit
// flag encoding used by fishmg.
package movegen

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"

	"bitfish/fishmg"
)

// Board builds the dragontoothmg board for pos. ep is the en passant target square
// or fishmg.NoSquare; positions do not record it, so callers carry it themselves.
func Board(pos fishmg.Position, ep fishmg.Square) dragontoothmg.Board {
	return dragontoothmg.ParseFen(fmt.Sprintf("%s %v 0 1", pos.ToFEN(), ep))
}

// Legal returns the legal moves of the side to move in pos.
func Legal(pos fishmg.Position, ep fishmg.Square) ([]fishmg.Move, error) {
	b := Board(pos, ep)
	dms := b.GenerateLegalMoves()
	out := make([]fishmg.Move, 0, len(dms))
	for _, dm := range dms {
		m, err := Encode(pos, dm)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// promotionFlags maps a dragontoothmg promotion piece onto the non-capturing
// promotion flag. Moves that do not promote report a piece missing from the map.
var promotionFlags = map[dragontoothmg.Piece]fishmg.MoveFlags{
	dragontoothmg.Knight: fishmg.FlagKnightPromotion,
	dragontoothmg.Bishop: fishmg.FlagBishopPromotion,
	dragontoothmg.Rook:   fishmg.FlagRookPromotion,
	dragontoothmg.Queen:  fishmg.FlagQueenPromotion,
}

// Encode classifies dm by looking at the pieces of pos it touches.
func Encode(pos fishmg.Position, dm dragontoothmg.Move) (fishmg.Move, error) {
	from, to := fishmg.Square(dm.From()), fishmg.Square(dm.To())
	moving, ok := pos.PieceAt(from)
	if !ok {
		return 0, fmt.Errorf("encode %v: %w: %v", &dm, fishmg.ErrEmptySource, from)
	}
	_, captures := pos.PieceAt(to)

	promo, promotes := promotionFlags[dm.Promote()]

	var flags fishmg.MoveFlags
	switch {
	case promotes:
		flags = promo
		if captures {
			flags |= fishmg.FlagCapture
		}
	case moving.Type() == fishmg.King && to-from == 2:
		flags = fishmg.FlagCastleShort
	case moving.Type() == fishmg.King && from-to == 2:
		flags = fishmg.FlagCastleLong
	case captures:
		flags = fishmg.FlagCapture
	case moving.Type() == fishmg.Pawn && from.File() != to.File():
		flags = fishmg.FlagEnPassant
	case moving.Type() == fishmg.Pawn && (to-from == 16 || from-to == 16):
		flags = fishmg.FlagDoublePawnPush
	default:
		flags = fishmg.FlagQuiet
	}
	return fishmg.NewMove(flags, from, to)
}
