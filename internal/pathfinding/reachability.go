package pathfinding

import (
	"context"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"voxelpath/internal/world"
)

// Reachability is the outcome of a bounded flood fill from Origin. Cells holds
// every standable coordinate found (Origin included); Rejected holds the
// coordinates probed and found unstandable.
type Reachability struct {
	Origin   world.BlockCoord
	Cells    mapset.Set[world.BlockCoord]
	Rejected mapset.Set[world.BlockCoord]
}

// Sorted returns Cells in a stable Y, X, Z order.
func (r Reachability) Sorted() []world.BlockCoord {
	return sortedCoords(r.Cells)
}

// SortedRejected returns Rejected in a stable Y, X, Z order.
func (r Reachability) SortedRejected() []world.BlockCoord {
	return sortedCoords(r.Rejected)
}

// Reachable flood-fills every standable cell connected to origin within the
// configured range, using the same neighbourhood, corner and pruning rules as
// path expansion. When MaxTravelDistance is set, each discovered cell is then
// checked with a path search from origin and dropped if no route exists or the
// route is longer than the limit.
func (s *Search) Reachable(ctx context.Context, origin world.BlockCoord) Reachability {
	result := Reachability{
		Origin:   origin,
		Cells:    mapset.New[world.BlockCoord](),
		Rejected: mapset.New[world.BlockCoord](),
	}

	result.Cells.Put(origin)
	stack := []world.BlockCoord{origin}
	for len(stack) > 0 {
		if ctx.Err() != nil {
			break
		}
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = s.flood(ctx, origin, current, result, stack)
	}

	if s.cfg.MaxTravelDistance > 0 {
		result.Cells = s.filterByTravel(ctx, origin, result.Cells)
	}
	return result
}

func (s *Search) flood(ctx context.Context, origin, current world.BlockCoord, result Reachability, stack []world.BlockCoord) []world.BlockCoord {
	neighbourhood(s.cfg, current, func(dx, dy, dz int, coord world.BlockCoord) bool {
		if result.Cells.Has(coord) {
			return false
		}
		if !s.cfg.inRange(origin, coord) {
			return false
		}
		switch checkCorner(ctx, s.oracle, s.cfg, current, dx, dy, dz) {
		case cornerPrune:
			return true
		case cornerReject:
			return false
		}
		terrain, valid := probe(ctx, s.oracle, s.cfg, coord)
		if !valid {
			result.Rejected.Put(coord)
			return terrain.blocks(s.cfg.Doors)
		}
		result.Cells.Put(coord)
		stack = append(stack, coord)
		return false
	})
	return stack
}

// filterByTravel keeps the cells whose path distance from origin is within
// MaxTravelDistance. The path searches reuse this instance and do not cap
// their closed set, since a route of N steps may close far more than N nodes.
func (s *Search) filterByTravel(ctx context.Context, origin world.BlockCoord, cells mapset.Set[world.BlockCoord]) mapset.Set[world.BlockCoord] {
	kept := mapset.New[world.BlockCoord]()
	for _, coord := range sortedCoords(cells) {
		distance := s.distance(ctx, origin, coord, 0)
		if distance < 0 || distance > s.cfg.MaxTravelDistance {
			continue
		}
		kept.Put(coord)
	}
	return kept
}

func sortedCoords(set mapset.Set[world.BlockCoord]) []world.BlockCoord {
	coords := make([]world.BlockCoord, 0, set.Size())
	set.Each(func(coord world.BlockCoord) {
		coords = append(coords, coord)
	})
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return coords
}
