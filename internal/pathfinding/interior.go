package pathfinding

import (
	"context"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"voxelpath/internal/world"
)

// Interior is the void space connected to a seed inside a bounding box.
type Interior struct {
	Seed    world.BlockCoord
	Bounds  world.Bounds
	Cells   mapset.Set[world.BlockCoord]
	Blocked mapset.Set[world.BlockCoord]
	// Leaked is set when a passable cell outside Bounds touches the interior,
	// meaning the space is not sealed by the box.
	Leaked bool
}

// Enclosed reports whether the interior is sealed within its bounds.
func (in Interior) Enclosed() bool {
	return !in.Leaked
}

func (in Interior) Sorted() []world.BlockCoord {
	return sortedCoords(in.Cells)
}

func (in Interior) SortedBlocked() []world.BlockCoord {
	return sortedCoords(in.Blocked)
}

var (
	upFirst    = [...]int{1, 0, -1}
	downFirst  = [...]int{-1, 0, 1}
	levelFirst = [...]int{0, 1, -1}
)

// Interior collects every passable cell reachable from seed through the 26
// neighbouring offsets without leaving bounds. Unlike Reachable, cells do
// not need a surface to stand on. Cells above the seed explore upward first
// and cells below explore downward first, and an opaque cell prunes the rest
// of its column in that order.
func (s *Search) Interior(ctx context.Context, seed world.BlockCoord, bounds world.Bounds) (Interior, error) {
	if !bounds.Contains(seed) {
		return Interior{}, fmt.Errorf("%w: interior seed %v outside bounds", ErrInvalidConfig, seed)
	}
	result := Interior{
		Seed:    seed,
		Bounds:  bounds,
		Cells:   mapset.New[world.BlockCoord](),
		Blocked: mapset.New[world.BlockCoord](),
	}
	if !s.passable(ctx, seed) {
		result.Blocked.Put(seed)
		return result, nil
	}

	result.Cells.Put(seed)
	stack := []world.BlockCoord{seed}
	for len(stack) > 0 {
		if ctx.Err() != nil {
			break
		}
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = s.fillInterior(ctx, current, &result, stack)
	}
	return result, nil
}

func (s *Search) fillInterior(ctx context.Context, current world.BlockCoord, result *Interior, stack []world.BlockCoord) []world.BlockCoord {
	order := levelFirst[:]
	switch {
	case current.Y > result.Seed.Y:
		order = upFirst[:]
	case current.Y < result.Seed.Y:
		order = downFirst[:]
	}

	var mask columns
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			for _, dy := range order {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if mask.pruned(dx, dz) {
					continue
				}
				coord := current.Add(dx, dy, dz)
				if result.Cells.Has(coord) || result.Blocked.Has(coord) {
					continue
				}
				if !result.Bounds.Contains(coord) {
					if s.passable(ctx, coord) {
						result.Leaked = true
					}
					continue
				}
				if s.passable(ctx, coord) {
					result.Cells.Put(coord)
					stack = append(stack, coord)
					continue
				}
				result.Blocked.Put(coord)
				if !s.oracle.Transparent(ctx, coord) {
					mask.prune(dx, dz)
				}
			}
		}
	}
	return stack
}

func (s *Search) passable(ctx context.Context, coord world.BlockCoord) bool {
	block, ok := s.oracle.Block(ctx, coord)
	if !ok {
		return false
	}
	return s.cfg.Doors.Passable(block)
}
