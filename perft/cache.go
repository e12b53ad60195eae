package perft

import (
	"sync"

	"github.com/cespare/xxhash"

	"bitfish/fishmg"
)

const numShards = 64

// cache maps (position, en passant target, depth) to a perft count. Keys are the
// binary form of the position, so a hash collision can never return a wrong count.
type cache struct {
	limit  int
	shards [numShards]shard
}

type shard struct {
	mu      sync.Mutex
	entries map[uint64]entry
}

type entry struct {
	key   string
	nodes uint64
}

func newCache(limit int) *cache {
	c := &cache{limit: limit}
	for i := range c.shards {
		c.shards[i].entries = make(map[uint64]entry)
	}
	return c
}

func cacheKey(pos fishmg.Position, ep fishmg.Square, depth int) []byte {
	buf := make([]byte, 0, 100)
	buf, _ = pos.AppendBinary(buf)
	return append(buf, byte(int8(ep)), byte(depth))
}

func (c *cache) get(pos fishmg.Position, ep fishmg.Square, depth int) (uint64, bool) {
	if c == nil {
		return 0, false
	}
	key := cacheKey(pos, ep, depth)
	h := xxhash.Sum64(key)
	s := &c.shards[h%numShards]
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok || e.key != string(key) {
		return 0, false
	}
	return e.nodes, true
}

func (c *cache) put(pos fishmg.Position, ep fishmg.Square, depth int, nodes uint64) {
	if c == nil {
		return
	}
	key := cacheKey(pos, ep, depth)
	h := xxhash.Sum64(key)
	s := &c.shards[h%numShards]
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= c.limit {
		// Full shards start over rather than tracking recency.
		clear(s.entries)
	}
	s.entries[h] = entry{key: string(key), nodes: nodes}
}

// size reports the number of cached entries across all shards.
func (c *cache) size() int {
	if c == nil {
		return 0
	}
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}
