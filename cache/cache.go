package cache

import (
	"context"
	"errors"

	"github.com/sig-0/fxvol/surface/types"
)

// ErrSurfaceNotFound marks a pair with no cached surface
var ErrSurfaceNotFound = errors.New("surface not found")

// Cache is an abstraction over built surface data.
// Only the latest surface per pair is kept; there is no history
type Cache interface {
	// SaveSurface stores the given surface as the latest for its pair
	SaveSurface(context.Context, *types.Surface) error

	// LatestSurface fetches the latest surface for the given pair,
	// returning ErrSurfaceNotFound when none was built yet
	LatestSurface(ctx context.Context, pair string) (*types.Surface, error)

	// ListPairs lists all pairs with a cached surface
	ListPairs(context.Context) ([]string, error)
}
