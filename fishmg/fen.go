package fishmg

import (
	"fmt"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads the board, side to move and castling fields of a FEN record.
// The castling field may be omitted; en passant and the move counters are accepted
// and ignored (see FENEnPassant).
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return Position{}, fmt.Errorf("%w: want at least 2 fields, got %d", ErrMalformedFEN, len(fields))
	}

	var p Position
	if err := parseBoard(fields[0], &p.masks); err != nil {
		return Position{}, err
	}

	switch fields[1] {
	case "w":
		p.white = true
	case "b":
		p.white = false
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrMalformedFEN, fields[1])
	}

	if len(fields) > 2 {
		r, err := parseCastling(fields[2])
		if err != nil {
			return Position{}, err
		}
		p.rights = r
	}

	p.refresh()
	return p, nil
}

// FENEnPassant returns the en passant target named by the fourth field of a FEN
// record, or NoSquare when the field is "-" or missing.
func FENEnPassant(fen string) (Square, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return NoSquare, nil
	}
	return ParseEnPassant(fields[3])
}

// MustParseFEN is ParseFEN for inputs known to be valid. It panics on error.
func MustParseFEN(fen string) Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

func parseBoard(field string, masks *[NumSlots]Bitboard) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrMalformedFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				if file > 8 {
					return fmt.Errorf("%w: rank %d has more than 8 files", ErrMalformedFEN, rank+1)
				}
				continue
			}
			pc, err := EncodePiece(ch)
			if err != nil {
				return fmt.Errorf("%w: rank %d: %w", ErrMalformedFEN, rank+1, err)
			}
			if file >= 8 {
				return fmt.Errorf("%w: rank %d has more than 8 files", ErrMalformedFEN, rank+1)
			}
			masks[pc] |= SquareMask(NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrMalformedFEN, rank+1, file)
		}
	}
	return nil
}

// parseCastling accepts "-", the usual ordered subset of "KQkq", or the positional
// four-character form where '-' stands in for a missing right ("K-kq").
func parseCastling(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}
	if len(field) == len(castlingOrder) {
		r, ok := NoCastling, true
		for i, c := range castlingOrder {
			switch field[i] {
			case c.letter:
				r |= c.right
			case '-':
			default:
				ok = false
			}
		}
		if ok {
			return r, nil
		}
	}
	r, next := NoCastling, 0
	for i := 0; i < len(field); i++ {
		for next < len(castlingOrder) && castlingOrder[next].letter != field[i] {
			next++
		}
		if next == len(castlingOrder) {
			return NoCastling, fmt.Errorf("%w: castling rights %q", ErrMalformedFEN, field)
		}
		r |= castlingOrder[next].right
		next++
	}
	return r, nil
}

// ToFEN writes the board, side to move and castling fields.
func (p Position) ToFEN() string {
	var sb strings.Builder
	sb.WriteString(p.boardField())
	sb.WriteByte(' ')
	if p.white {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.rights.String())
	return sb.String()
}

func (p Position) boardField() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			pc, ok := p.PieceAt(NewSquare(file, rank))
			if !ok {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte('0' + byte(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(pc.String())
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
