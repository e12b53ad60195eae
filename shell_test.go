package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"bitfish/fishmg"
	"bitfish/internal/config"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"perft 3 -divide true",
			&shellcmd{"perft", []string{"3"}, map[string]string{"divide": "true"}},
			nil},
		{"move e7e8q 0b1011",
			&shellcmd{"move", []string{"e7e8q", "0b1011"}, map[string]string{}},
			nil},
		{`fen "4k3/8/8/8/8/8/8/4K3 w - -"`,
			&shellcmd{"fen", []string{"4k3/8/8/8/8/8/8/4K3 w - -"}, map[string]string{}},
			nil},
		{"moves -kind", nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load([]string{"--workers", "2"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	sh, err := NewShell(cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	return sh, &out
}

func run(t *testing.T, sh *Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	if err := sh.Execute(context.Background(), line); err != nil {
		t.Fatalf("%q: %v", line, err)
	}
	return out.String()
}

func TestMoveAndUndo(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	start := sh.cur

	got := run(t, sh, out, "move e2e4")
	is.True(strings.Contains(got, "black to move"))
	is.Equal(sh.cur.ep, fishmg.E3)
	is.Equal(len(sh.history), 1)

	got = run(t, sh, out, "fen")
	is.Equal(got, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3\n")

	run(t, sh, out, "undo")
	is.Equal(sh.cur, start)
	got = run(t, sh, out, "undo")
	is.True(strings.Contains(got, "nothing to undo"))
}

func TestMoveWithExplicitFlags(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	run(t, sh, out, `fen "5r1k/5P2/8/8/8/8/8/4K3 w - - 0 1"`)
	run(t, sh, out, "move f7f8q 0b1111")
	pc, ok := sh.cur.pos.PieceAt(fishmg.F8)
	is.True(ok)
	is.Equal(pc, fishmg.WhiteQueen)

	got := run(t, sh, out, "move f7f8 12")
	is.True(strings.Contains(got, "Error"))
}

func TestIllegalMoveReported(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	got := run(t, sh, out, "move e2e5")
	is.True(strings.Contains(got, "not a legal move"))
	is.Equal(len(sh.history), 0)
}

func TestMovesFilter(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	got := run(t, sh, out, "moves")
	is.True(strings.HasSuffix(got, "20 moves\n"))

	run(t, sh, out, `fen "r3k2r/8/8/8/8/8/8/R3K2R w KQkq -"`)
	got = run(t, sh, out, "moves -kind castle-short")
	is.Equal(got, "e1g1\n1 moves\n")
}

func TestBitboardCommand(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	got := run(t, sh, out, "bb P")
	is.Equal(got, fishmg.Bitboard(0xFF00).String())
	got = run(t, sh, out, "bb occupied")
	is.Equal(got, fishmg.Bitboard(0xFFFF00000000FFFF).String())
	got = run(t, sh, out, "bb x")
	is.True(strings.Contains(got, "Error"))
}

func TestPerftCommand(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	is.Equal(run(t, sh, out, "perft 2"), "perft(2) = 400\n")
	got := run(t, sh, out, "perft 1 -divide true")
	is.True(strings.HasPrefix(got, "a2a3: 1\n"))
	is.True(strings.HasSuffix(got, "Total: 20\n"))
}

func TestRandomKeepsPositionsValid(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	run(t, sh, out, "random 30")
	is.NoErr(sh.cur.pos.Validate())
	for _, st := range sh.history {
		is.NoErr(st.pos.Validate())
	}
}

func TestQuitAndUnknown(t *testing.T) {
	is := is.New(t)
	sh, out := newTestShell(t)
	is.Equal(sh.Execute(context.Background(), "quit"), errQuit)
	got := run(t, sh, out, "castle")
	is.True(strings.Contains(got, "unknown command"))
	got = run(t, sh, out, "help")
	is.True(strings.HasPrefix(got, "commands:"))
}
