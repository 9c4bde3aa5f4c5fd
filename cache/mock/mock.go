package mock

import (
	"context"

	"github.com/sig-0/fxvol/surface/types"
)

type (
	saveSurfaceDelegate   func(context.Context, *types.Surface) error
	latestSurfaceDelegate func(context.Context, string) (*types.Surface, error)
	listPairsDelegate     func(context.Context) ([]string, error)
)

// Cache is a callback-driven cache mock
type Cache struct {
	SaveSurfaceFn   saveSurfaceDelegate
	LatestSurfaceFn latestSurfaceDelegate
	ListPairsFn     listPairsDelegate
}

func (c *Cache) SaveSurface(ctx context.Context, s *types.Surface) error {
	if c.SaveSurfaceFn != nil {
		return c.SaveSurfaceFn(ctx, s)
	}

	return nil
}

func (c *Cache) LatestSurface(ctx context.Context, pair string) (*types.Surface, error) {
	if c.LatestSurfaceFn != nil {
		return c.LatestSurfaceFn(ctx, pair)
	}

	return nil, nil
}

func (c *Cache) ListPairs(ctx context.Context) ([]string, error) {
	if c.ListPairsFn != nil {
		return c.ListPairsFn(ctx)
	}

	return nil, nil
}
