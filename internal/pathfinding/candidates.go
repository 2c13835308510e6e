package pathfinding

import (
	"context"

	"voxelpath/internal/world"
)

// columns tracks which (dx, dz) columns around a cell are known to be
// blocked during one expansion.
type columns [3][3]bool

func (c *columns) pruned(dx, dz int) bool { return c[dx+1][dz+1] }
func (c *columns) prune(dx, dz int)       { c[dx+1][dz+1] = true }

// neighbourhood enumerates the candidate cells around origin: the 3x3
// horizontal columns, each walked from MaxClimb down to -MaxDrop. visit
// returns true to prune the rest of the column.
func neighbourhood(cfg Config, origin world.BlockCoord, visit func(dx, dy, dz int, coord world.BlockCoord) bool) {
	var mask columns
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			for dy := cfg.MaxClimb; dy >= -cfg.MaxDrop; dy-- {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if mask.pruned(dx, dz) {
					continue
				}
				if visit(dx, dy, dz, origin.Add(dx, dy, dz)) {
					mask.prune(dx, dz)
				}
			}
		}
	}
}

// cornerVerdict applies the diagonal corner rule. A horizontal diagonal move
// that does not descend needs headroom on both straight neighbours: none
// means solid corner (prune), one means a point obstruction (reject only).
type cornerVerdict int

const (
	cornerClear cornerVerdict = iota
	cornerReject
	cornerPrune
)

func checkCorner(ctx context.Context, oracle Oracle, cfg Config, origin world.BlockCoord, dx, dy, dz int) cornerVerdict {
	if dx == 0 || dz == 0 || dy < 0 {
		return cornerClear
	}
	alongX := oracle.Headroom(ctx, origin.Add(dx, dy, 0), cfg.EntityHeight, cfg.Doors)
	alongZ := oracle.Headroom(ctx, origin.Add(0, dy, dz), cfg.EntityHeight, cfg.Doors)
	switch {
	case alongX && alongZ:
		return cornerClear
	case !alongX && !alongZ:
		return cornerPrune
	default:
		return cornerReject
	}
}

// expand generates, validates and scores the neighbours of an open node that
// has just been closed.
func (s *Search) expand(ctx context.Context, id NodeID) {
	origin := s.nodes.node(id).Coord
	generated := 0
	neighbourhood(s.cfg, origin, func(dx, dy, dz int, coord world.BlockCoord) bool {
		if _, closed := s.closed[coord]; closed {
			return false
		}
		if !s.cfg.inRange(s.start, coord) {
			return false
		}
		switch checkCorner(ctx, s.oracle, s.cfg, origin, dx, dy, dz) {
		case cornerPrune:
			s.recordPrune()
			return true
		case cornerReject:
			return false
		}
		terrain, valid := probe(ctx, s.oracle, s.cfg, coord)
		if !valid {
			if terrain.blocks(s.cfg.Doors) {
				s.recordPrune()
				return true
			}
			return false
		}
		s.offer(id, coord, terrain)
		generated++
		return false
	})
	if s.profiler != nil {
		s.profiler.RecordNeighborGeneration(generated)
	}
}

func (s *Search) recordPrune() {
	if s.profiler != nil {
		s.profiler.RecordColumnPruned()
	}
}
