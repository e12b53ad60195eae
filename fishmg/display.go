package fishmg

import "strings"

// String draws the board with rank 8 at the top, the way the interactive shell shows it.
func (p Position) String() string {
	var sb strings.Builder
	line := "+" + strings.Repeat("---+", 8) + "\n"
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(line)
		sb.WriteString("| ")
		for file := 0; file < 8; file++ {
			if pc, ok := p.PieceAt(NewSquare(file, rank)); ok {
				sb.WriteString(pc.String())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteString(" | ")
		}
		sb.WriteByte(' ')
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte('\n')
	}
	sb.WriteString(line)
	sb.WriteString("  " + strings.Join(strings.Split("abcdefgh", ""), "   ") + "\n")
	if p.white {
		sb.WriteString("white to move, castling ")
	} else {
		sb.WriteString("black to move, castling ")
	}
	sb.WriteString(p.rights.String())
	sb.WriteByte('\n')
	return sb.String()
}
