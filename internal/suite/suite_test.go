package suite_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"bitfish/fishmg"
	"bitfish/internal/suite"
)

const sample = `
positions:
  - name: initial
    fen: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
    nodes: {3: 8902, 1: 20, 2: 400}
  - fen: "k7/8/8/3pP3/8/8/8/7K w - d6 0 2"
    nodes:
      1: 5
`

func TestLoad(t *testing.T) {
	is := is.New(t)
	s, err := suite.Load(strings.NewReader(sample))
	is.NoErr(err)
	is.Equal(len(s.Cases), 2)

	first := s.Cases[0]
	is.Equal(first.Name, "initial")
	is.Equal(first.Depths(), []int{1, 2, 3})
	is.Equal(first.Nodes[3], uint64(8902))

	second := s.Cases[1]
	is.Equal(second.Name, "case-2")
	pos, ep, err := second.Position()
	is.NoErr(err)
	is.Equal(ep, fishmg.D6)
	is.True(pos.WhiteToMove())
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"not yaml":  "positions: [",
		"no fen":    "positions:\n  - name: x\n    nodes: {1: 1}\n",
		"no nodes":  "positions:\n  - fen: \"8/8/8/8/8/8/8/8 w -\"\n",
		"bad depth": "positions:\n  - fen: \"8/8/8/8/8/8/8/8 w -\"\n    nodes: {0: 1}\n",
	}
	for name, body := range cases {
		if _, err := suite.Load(strings.NewReader(body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "suite.yaml")
	is.NoErr(os.WriteFile(path, []byte(sample), 0o644))
	s, err := suite.LoadFile(path)
	is.NoErr(err)
	is.Equal(len(s.Cases), 2)

	_, err = suite.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}

func TestCasePositionBadFEN(t *testing.T) {
	is := is.New(t)
	_, _, err := suite.Case{FEN: "8/8/8 w"}.Position()
	is.True(err != nil)
	_, _, err = suite.Case{FEN: "8/8/8/8/8/8/8/8 w - e4"}.Position()
	is.True(err != nil)
}
