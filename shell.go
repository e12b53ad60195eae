package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"lukechampine.com/frand"

	"bitfish/fishmg"
	"bitfish/internal/config"
	"bitfish/movegen"
	"bitfish/perft"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, its positional arguments and
// "-name value" options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// state is one entry of the undo stack. Positions are values, so keeping the old
// one around is all undo needs.
type state struct {
	pos fishmg.Position
	ep  fishmg.Square
}

// Shell holds the current position and executes one command line at a time.
type Shell struct {
	out     io.Writer
	cfg     *config.Config
	cur     state
	history []state
}

func NewShell(cfg *config.Config, out io.Writer) (*Shell, error) {
	sh := &Shell{out: out, cfg: cfg}
	if err := sh.load(cfg.FEN); err != nil {
		return nil, err
	}
	return sh, nil
}

func (sh *Shell) showMessage(msg string) {
	io.WriteString(sh.out, msg)
	io.WriteString(sh.out, "\n")
}

func (sh *Shell) showError(err error) {
	sh.showMessage("Error: " + err.Error())
}

func (sh *Shell) load(fen string) error {
	pos, err := fishmg.ParseFEN(fen)
	if err != nil {
		return err
	}
	ep, err := fishmg.FENEnPassant(fen)
	if err != nil {
		return err
	}
	sh.cur = state{pos: pos, ep: ep}
	sh.history = sh.history[:0]
	return nil
}

// Execute runs one command line. It returns errQuit when the session should end;
// command failures are reported on the output and do not end the session.
func (sh *Shell) Execute(ctx context.Context, line string) error {
	cmd, err := extractFields(line)
	if err == errNoData {
		return nil
	} else if err != nil {
		sh.showError(err)
		return nil
	}
	log.Debug().Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("shell-command")

	switch cmd.cmd {
	case "quit", "exit", "bye":
		return errQuit
	case "help":
		usage(sh.out)
	case "fen":
		err = sh.fen(cmd)
	case "show":
		sh.show()
	case "bb":
		err = sh.bitboard(cmd)
	case "moves":
		err = sh.moves(cmd)
	case "move":
		err = sh.move(cmd)
	case "undo":
		err = sh.undo()
	case "perft":
		err = sh.perft(ctx, cmd)
	case "random":
		err = sh.random(cmd)
	default:
		err = fmt.Errorf("unknown command %q, try help", cmd.cmd)
	}
	if err != nil {
		sh.showError(err)
	}
	return nil
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "fen [fen] - show the current FEN, or load a new position\n")
	io.WriteString(w, "show - draw the board\n")
	io.WriteString(w, "bb <piece> - draw one mask: a piece letter (P, n, ...) or white, black, occupied, empty\n")
	io.WriteString(w, "moves [-kind k] - list legal moves, optionally only one kind (capture, quiet, ...)\n")
	io.WriteString(w, "move <uci> [flags] - play a legal move, or apply uci with explicit 4-bit flags (e.g. 0b0100)\n")
	io.WriteString(w, "undo - take back the last move\n")
	io.WriteString(w, "perft <depth> [-divide true] - count leaf nodes from the current position\n")
	io.WriteString(w, "random [n] - play n random legal moves; n defaults to 1\n")
	io.WriteString(w, "quit - leave the shell\n")
}

// currentFEN is the FEN of the current position including the en passant field.
func (sh *Shell) currentFEN() string {
	return fmt.Sprintf("%s %v", sh.cur.pos.ToFEN(), sh.cur.ep)
}

func (sh *Shell) fen(cmd *shellcmd) error {
	if len(cmd.args) == 0 {
		sh.showMessage(sh.currentFEN())
		return nil
	}
	if err := sh.load(strings.Join(cmd.args, " ")); err != nil {
		return err
	}
	sh.show()
	return nil
}

func (sh *Shell) show() {
	io.WriteString(sh.out, sh.cur.pos.String())
	if sh.cur.ep != fishmg.NoSquare {
		sh.showMessage("en passant " + sh.cur.ep.String())
	}
}

var aggregateNames = map[string]fishmg.Piece{
	"white":    fishmg.AllWhite,
	"black":    fishmg.AllBlack,
	"occupied": fishmg.Occupied,
	"empty":    fishmg.Empty,
}

func (sh *Shell) bitboard(cmd *shellcmd) error {
	if len(cmd.args) != 1 {
		return errors.New("bb takes exactly one piece")
	}
	name := cmd.args[0]
	pc, ok := aggregateNames[strings.ToLower(name)]
	if !ok {
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) {
			return fmt.Errorf("%w: %q", fishmg.ErrUnknownSymbol, name)
		}
		var err error
		if pc, err = fishmg.EncodePiece(r); err != nil {
			return err
		}
	}
	io.WriteString(sh.out, sh.cur.pos.Mask(pc).String())
	return nil
}

func (sh *Shell) legal() ([]fishmg.Move, error) {
	moves, err := movegen.Legal(sh.cur.pos, sh.cur.ep)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(moves, func(a, b fishmg.Move) int { return strings.Compare(a.String(), b.String()) })
	return moves, nil
}

func (sh *Shell) moves(cmd *shellcmd) error {
	moves, err := sh.legal()
	if err != nil {
		return err
	}
	if kind, ok := cmd.options["kind"]; ok {
		moves = lo.Filter(moves, func(m fishmg.Move, _ int) bool { return m.Kind().String() == kind })
	}
	names := lo.Map(moves, func(m fishmg.Move, _ int) string { return m.String() })
	sh.showMessage(strings.Join(names, " "))
	sh.showMessage(fmt.Sprintf("%d moves", len(moves)))
	return nil
}

// play makes m the current position and records the previous one for undo.
func (sh *Shell) play(m fishmg.Move) error {
	next, err := sh.cur.pos.Play(m)
	if err != nil {
		return err
	}
	sh.history = append(sh.history, sh.cur)
	sh.cur = state{pos: next, ep: fishmg.EnPassantTarget(m)}
	log.Debug().Str("move", m.String()).Str("kind", m.Kind().String()).Msg("played")
	return nil
}

func (sh *Shell) move(cmd *shellcmd) error {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return errors.New("usage: move <uci> [flags]")
	}
	uci := strings.ToLower(cmd.args[0])
	var m fishmg.Move
	if len(cmd.args) == 2 {
		flags, err := strconv.ParseUint(cmd.args[1], 0, 8)
		if err != nil {
			return fmt.Errorf("bad flags %q: %w", cmd.args[1], err)
		}
		if m, err = fishmg.ParseMove(fishmg.MoveFlags(flags), uci); err != nil {
			return err
		}
	} else {
		moves, err := sh.legal()
		if err != nil {
			return err
		}
		found, ok := lo.Find(moves, func(m fishmg.Move) bool { return m.String() == uci })
		if !ok {
			return fmt.Errorf("%s is not a legal move here", uci)
		}
		m = found
	}
	if err := sh.play(m); err != nil {
		return err
	}
	sh.show()
	return nil
}

func (sh *Shell) undo() error {
	if len(sh.history) == 0 {
		return errors.New("nothing to undo")
	}
	sh.cur = sh.history[len(sh.history)-1]
	sh.history = sh.history[:len(sh.history)-1]
	sh.show()
	return nil
}

func (sh *Shell) perft(ctx context.Context, cmd *shellcmd) error {
	if len(cmd.args) != 1 {
		return errors.New("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return err
	}
	counter := perft.NewCounter(sh.cfg.CacheSize)
	if d, _ := strconv.ParseBool(cmd.options["divide"]); d {
		div, err := counter.Divide(ctx, sh.cur.pos, sh.cur.ep, depth, sh.cfg.Workers)
		if err != nil {
			return err
		}
		moves := maps.Keys(div)
		slices.SortFunc(moves, func(a, b fishmg.Move) int { return strings.Compare(a.String(), b.String()) })
		for _, m := range moves {
			sh.showMessage(fmt.Sprintf("%s: %d", m, div[m]))
		}
		sh.showMessage(fmt.Sprintf("Total: %d", perft.Sum(div)))
		return nil
	}
	n, err := counter.Count(sh.cur.pos, sh.cur.ep, depth)
	if err != nil {
		return err
	}
	sh.showMessage(fmt.Sprintf("perft(%d) = %d", depth, n))
	return nil
}

func (sh *Shell) random(cmd *shellcmd) error {
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return err
		}
	}
	played := make([]string, 0, n)
	for i := 0; i < n; i++ {
		moves, err := movegen.Legal(sh.cur.pos, sh.cur.ep)
		if err != nil {
			return err
		}
		if len(moves) == 0 {
			sh.showMessage("no legal moves")
			break
		}
		m := moves[frand.Intn(len(moves))]
		if err := sh.play(m); err != nil {
			return err
		}
		played = append(played, m.String())
	}
	sh.showMessage(strings.Join(played, " "))
	sh.show()
	return nil
}
