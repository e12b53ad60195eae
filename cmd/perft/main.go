package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"

	"bitfish/fishmg"
	"bitfish/internal/config"
	"bitfish/internal/suite"
	"bitfish/perft"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one invocation and returns the process exit code. Returning instead
// of exiting lets the deferred profile writers finish.
func run(args []string, stdout io.Writer) int {
	fs := config.NewFlagSet("perft")
	depth := fs.Int("depth", 0, "perft depth (required unless --suite is given)")
	divide := fs.Bool("divide", false, "print per-move node counts at the root")
	suitePath := fs.String("suite", "", "run every case of a YAML perft suite")
	repeat := fs.Int("repeat", 1, "repeat perft N times and report the aggregate")
	label := fs.String("label", "", "optional label prefix for one-line output")
	cpuProf := fs.String("cpuprofile", "", "write a CPU profile to this file")
	memProf := fs.String("memprofile", "", "write a heap profile to this file after the run")

	cfg, err := config.LoadFlags(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg.SetupLogging(os.Stderr)

	if *suitePath == "" && *depth <= 0 {
		fmt.Fprintln(os.Stderr, "--depth must be > 0")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Error().Err(err).Msg("creating cpuprofile")
			return 2
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			log.Error().Err(err).Msg("start cpu profile")
			return 2
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	switch {
	case *suitePath != "":
		err = runSuite(stdout, cfg, *suitePath)
	case *divide:
		err = runDivide(ctx, stdout, cfg, *depth)
	default:
		err = runCount(stdout, cfg, *depth, *repeat, *label)
	}
	if err != nil {
		log.Error().Err(err).Msg("perft failed")
		return 1
	}

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.Error().Err(err).Msg("creating memprofile")
			return 2
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Error().Err(err).Msg("write heap profile")
			return 2
		}
	}
	return 0
}

func start(cfg *config.Config) (fishmg.Position, fishmg.Square, error) {
	pos, err := fishmg.ParseFEN(cfg.FEN)
	if err != nil {
		return fishmg.Position{}, fishmg.NoSquare, err
	}
	ep, err := fishmg.FENEnPassant(cfg.FEN)
	return pos, ep, err
}

func runCount(w io.Writer, cfg *config.Config, depth, repeat int, label string) error {
	pos, ep, err := start(cfg)
	if err != nil {
		return err
	}
	var totalNodes uint64
	begin := time.Now()
	for i := 0; i < repeat; i++ {
		n, err := perft.NewCounter(cfg.CacheSize).Count(pos, ep, depth)
		if err != nil {
			return err
		}
		totalNodes += n
	}
	elapsed := time.Since(begin)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Fprintf(w, "%s \t%d \t\t%d \t\t%s \t%.0f\n", label, depth, totalNodes, elapsed, nps)
	return nil
}

func runDivide(ctx context.Context, w io.Writer, cfg *config.Config, depth int) error {
	pos, ep, err := start(cfg)
	if err != nil {
		return err
	}
	div, err := perft.NewCounter(cfg.CacheSize).Divide(ctx, pos, ep, depth, cfg.Workers)
	if err != nil {
		return err
	}
	moves := maps.Keys(div)
	slices.SortFunc(moves, func(a, b fishmg.Move) int { return strings.Compare(a.String(), b.String()) })
	for _, m := range moves {
		fmt.Fprintf(w, "%s: %d\n", m, div[m])
	}
	fmt.Fprintf(w, "Total: %d\n", perft.Sum(div))
	return nil
}

func runSuite(w io.Writer, cfg *config.Config, path string) error {
	s, err := suite.LoadFile(path)
	if err != nil {
		return err
	}
	failed := 0
	for _, c := range s.Cases {
		pos, ep, err := c.Position()
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		counter := perft.NewCounter(cfg.CacheSize)
		for _, d := range c.Depths() {
			begin := time.Now()
			got, err := counter.Count(pos, ep, d)
			if err != nil {
				return fmt.Errorf("%s depth %d: %w", c.Name, d, err)
			}
			status := "ok"
			if got != c.Nodes[d] {
				status = "FAIL"
				failed++
			}
			fmt.Fprintf(w, "%-12s depth %d \t%d \t(want %d) \t%s \t%s\n", c.Name, d, got, c.Nodes[d], time.Since(begin), status)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d suite checks failed", failed)
	}
	return nil
}
