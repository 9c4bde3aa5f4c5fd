package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sig-0/fxvol/cache"
	"github.com/sig-0/fxvol/surface/types"
)

// Cache is the in-memory latest-surface store
type Cache struct {
	data map[string]*types.Surface

	mu sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*types.Surface),
	}
}

func (c *Cache) SaveSurface(_ context.Context, s *types.Surface) error {
	pair := strings.ToUpper(s.Pair)

	c.mu.Lock()
	c.data[pair] = s // latest build wins
	c.mu.Unlock()

	return nil
}

func (c *Cache) LatestSurface(_ context.Context, pair string) (*types.Surface, error) {
	c.mu.RLock()
	s, ok := c.data[strings.ToUpper(pair)]
	c.mu.RUnlock()

	if !ok {
		return nil, cache.ErrSurfaceNotFound
	}

	return s, nil
}

func (c *Cache) ListPairs(_ context.Context) ([]string, error) {
	c.mu.RLock()

	pairs := make([]string, 0, len(c.data))

	for pair := range c.data {
		pairs = append(pairs, pair)
	}

	c.mu.RUnlock()

	sort.Strings(pairs)

	return pairs, nil
}
