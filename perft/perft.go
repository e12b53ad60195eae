// Package perft counts the leaf nodes of the legal move tree below a position.
// Every interior node is reached through fishmg.Play, so the counts double as a
// correctness check of the move applicator against published perft numbers.
package perft

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bitfish/fishmg"
	"bitfish/movegen"
)

// Counter runs perft searches. The zero value counts without a cache.
type Counter struct {
	cache *cache
	nodes atomic.Uint64
}

// NewCounter returns a Counter whose cache holds up to entriesPerShard results
// in each shard. entriesPerShard <= 0 disables caching.
func NewCounter(entriesPerShard int) *Counter {
	c := &Counter{}
	if entriesPerShard > 0 {
		c.cache = newCache(entriesPerShard)
	}
	return c
}

// Count returns the perft number of pos at depth using a fresh uncached Counter.
func Count(pos fishmg.Position, ep fishmg.Square, depth int) (uint64, error) {
	return (&Counter{}).Count(pos, ep, depth)
}

// Divide is Counter.Divide on a fresh uncached Counter.
func Divide(ctx context.Context, pos fishmg.Position, ep fishmg.Square, depth, workers int) (map[fishmg.Move]uint64, error) {
	return (&Counter{}).Divide(ctx, pos, ep, depth, workers)
}

// Nodes reports how many positions the counter has expanded so far.
func (c *Counter) Nodes() uint64 { return c.nodes.Load() }

// Count returns the number of leaf nodes depth plies below pos. ep is the en
// passant target of pos or fishmg.NoSquare.
func (c *Counter) Count(pos fishmg.Position, ep fishmg.Square, depth int) (uint64, error) {
	if depth < 0 {
		return 0, fmt.Errorf("perft: negative depth %d", depth)
	}
	return c.count(context.Background(), pos, ep, depth)
}

func (c *Counter) count(ctx context.Context, pos fishmg.Position, ep fishmg.Square, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if n, ok := c.cache.get(pos, ep, depth); ok {
		return n, nil
	}
	c.nodes.Add(1)

	moves, err := movegen.Legal(pos, ep)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return uint64(len(moves)), nil
	}
	var total uint64
	for _, m := range moves {
		next, err := pos.Play(m)
		if err != nil {
			return 0, fmt.Errorf("perft at %q: %w", pos.ToFEN(), err)
		}
		n, err := c.count(ctx, next, fishmg.EnPassantTarget(m), depth-1)
		if err != nil {
			return 0, err
		}
		total += n
	}
	c.cache.put(pos, ep, depth, total)
	return total, nil
}

// Divide returns the perft number below each legal root move. Root moves are
// shared out over at most workers goroutines; workers <= 0 means one per move.
// Cancelling ctx stops the remaining subtrees and returns ctx.Err().
func (c *Counter) Divide(ctx context.Context, pos fishmg.Position, ep fishmg.Square, depth, workers int) (map[fishmg.Move]uint64, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft: divide needs depth >= 1, got %d", depth)
	}
	moves, err := movegen.Legal(pos, ep)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("depth", depth).Int("moves", len(moves)).Int("workers", workers).Msg("perft-divide")

	var mu sync.Mutex
	result := make(map[fishmg.Move]uint64, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, m := range moves {
		m := m
		g.Go(func() error {
			next, err := pos.Play(m)
			if err != nil {
				return fmt.Errorf("perft at %q: %w", pos.ToFEN(), err)
			}
			n, err := c.count(ctx, next, fishmg.EnPassantTarget(m), depth-1)
			if err != nil {
				return err
			}
			log.Debug().Str("move", m.String()).Uint64("nodes", n).Msg("perft-subtree")
			mu.Lock()
			result[m] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Sum adds up the subtree counts of a Divide result.
func Sum(div map[fishmg.Move]uint64) uint64 {
	var total uint64
	for _, n := range div {
		total += n
	}
	return total
}
