package pathfinding

import (
	"context"
	"fmt"

	"voxelpath/internal/world"
)

// BlockNavigator runs block-level searches over a world region. Every call
// allocates its own oracle and search, so one navigator may be shared by
// concurrent callers.
type BlockNavigator struct {
	region world.ServerRegion
	world  *world.Manager
	cfg    Config
	opts   []Option
}

func NewBlockNavigator(region world.ServerRegion, manager *world.Manager, cfg Config, opts ...Option) (*BlockNavigator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BlockNavigator{region: region, world: manager, cfg: cfg, opts: opts}, nil
}

func (n *BlockNavigator) Config() Config { return n.cfg }

func (n *BlockNavigator) search() (*Search, error) {
	return NewSearch(NewWorldOracle(n.world), n.cfg, n.opts...)
}

func (n *BlockNavigator) contains(coords ...world.BlockCoord) bool {
	if n.world == nil {
		return false
	}
	for _, coord := range coords {
		if _, ok := n.region.LocateBlock(coord); !ok {
			return false
		}
	}
	return true
}

// FindRoute returns the block path from start to goal, or nil when no route
// exists within the configured limits.
func (n *BlockNavigator) FindRoute(ctx context.Context, start, goal world.BlockCoord) []world.BlockCoord {
	return n.FindRouteWithStats(ctx, start, goal).Path
}

// FindRouteWithStats is FindRoute with the search result and counters.
func (n *BlockNavigator) FindRouteWithStats(ctx context.Context, start, goal world.BlockCoord) Result {
	if !n.contains(start, goal) {
		return Result{}
	}
	s, err := n.search()
	if err != nil {
		return Result{}
	}
	return s.FindPath(ctx, start, goal)
}

// Distance returns the number of steps between start and goal, or -1.
func (n *BlockNavigator) Distance(ctx context.Context, start, goal world.BlockCoord) int {
	if !n.contains(start, goal) {
		return -1
	}
	s, err := n.search()
	if err != nil {
		return -1
	}
	return s.Distance(ctx, start, goal)
}

// Reachable flood-fills the standable cells around origin.
func (n *BlockNavigator) Reachable(ctx context.Context, origin world.BlockCoord) (Reachability, error) {
	if !n.contains(origin) {
		return Reachability{}, fmt.Errorf("reachable from %v: %w", origin, world.ErrOutsideRegion)
	}
	s, err := n.search()
	if err != nil {
		return Reachability{}, err
	}
	return s.Reachable(ctx, origin), nil
}

// Interior flood-fills the void space around seed within bounds.
func (n *BlockNavigator) Interior(ctx context.Context, seed world.BlockCoord, bounds world.Bounds) (Interior, error) {
	if !n.contains(seed) {
		return Interior{}, fmt.Errorf("interior at %v: %w", seed, world.ErrOutsideRegion)
	}
	s, err := n.search()
	if err != nil {
		return Interior{}, err
	}
	return s.Interior(ctx, seed, bounds)
}
