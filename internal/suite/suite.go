// Package suite reads perft suites: lists of positions with their known node
// counts per depth.
package suite

import (
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"bitfish/fishmg"
)

// Case is one position of a suite.
type Case struct {
	Name string `yaml:"name"`
	FEN  string `yaml:"fen"`
	// Nodes maps a depth to the expected perft number.
	Nodes map[int]uint64 `yaml:"nodes"`
}

type Suite struct {
	Cases []Case `yaml:"positions"`
}

// Depths returns the depths of c in increasing order.
func (c Case) Depths() []int {
	ds := maps.Keys(c.Nodes)
	slices.Sort(ds)
	return ds
}

// Position parses the FEN of c and its en passant field.
func (c Case) Position() (fishmg.Position, fishmg.Square, error) {
	pos, err := fishmg.ParseFEN(c.FEN)
	if err != nil {
		return fishmg.Position{}, fishmg.NoSquare, err
	}
	ep, err := fishmg.FENEnPassant(c.FEN)
	if err != nil {
		return fishmg.Position{}, fishmg.NoSquare, err
	}
	return pos, ep, nil
}

// Load decodes a suite and checks that every case has a FEN and positive depths.
func Load(r io.Reader) (*Suite, error) {
	var s Suite
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("suite: %w", err)
	}
	for i, c := range s.Cases {
		if c.FEN == "" {
			return nil, fmt.Errorf("suite: case %d (%s) has no fen", i, c.Name)
		}
		if len(c.Nodes) == 0 {
			return nil, fmt.Errorf("suite: case %d (%s) has no node counts", i, c.Name)
		}
		for d := range c.Nodes {
			if d < 1 {
				return nil, fmt.Errorf("suite: case %d (%s) has depth %d", i, c.Name, d)
			}
		}
		if c.Name == "" {
			s.Cases[i].Name = fmt.Sprintf("case-%d", i+1)
		}
	}
	return &s, nil
}

func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
