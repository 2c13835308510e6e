package terrain

import "voxelpath/internal/world"

const (
	hutSize   = 5 // exterior footprint, walls included
	hutHeight = 5 // floor to roof, inclusive
)

// Hut describes a hollow wooden hut placed in a chunk. The door is two blocks
// tall in the wall facing -Z; Door is its lower block.
type Hut struct {
	Bounds   world.Bounds
	Interior world.Bounds
	Door     world.BlockCoord
}

// Hut reports where the generator places a hut inside the chunk, if any.
// Placement depends only on the chunk coordinate and the terrain seed.
func (g *NoiseGenerator) Hut(coord world.ChunkCoord, bounds world.Bounds, dim world.Dimensions) (Hut, bool) {
	if g.cfg.HutChance <= 0 || dim.Width < hutSize+2 || dim.Depth < hutSize+2 {
		return Hut{}, false
	}
	if g.cfg.HutChance < 1 && float64(hash3(coord.X, coord.Z, int(g.seed)^0x7f4a)&0xFFFF)/0xFFFF >= g.cfg.HutChance {
		return Hut{}, false
	}

	minX := bounds.Min.X + (dim.Width-hutSize)/2
	minZ := bounds.Min.Z + (dim.Depth-hutSize)/2
	floor := 0
	for x := minX; x < minX+hutSize; x++ {
		for z := minZ; z < minZ+hutSize; z++ {
			if h := g.SurfaceHeight(x, z, dim); h > floor {
				floor = h
			}
		}
	}
	if floor+hutHeight > dim.Height {
		return Hut{}, false
	}

	min := world.BlockCoord{X: minX, Y: floor, Z: minZ}
	max := min.Add(hutSize-1, hutHeight-1, hutSize-1)
	return Hut{
		Bounds:   world.Bounds{Min: min, Max: max},
		Interior: world.Bounds{Min: min.Add(1, 1, 1), Max: max.Add(-1, -1, -1)},
		Door:     min.Add(hutSize/2, 1, 0),
	}, true
}

// placeHut writes hut into chunk. Columns under the floor are filled with
// dirt and a two block doorstep outside the door is cleared.
func (g *NoiseGenerator) placeHut(chunk *world.Chunk, hut Hut) {
	wood := world.Block{Type: world.BlockSolid, Material: world.MaterialWood}
	set := func(c world.BlockCoord, block world.Block) {
		if x, y, z, ok := chunk.GlobalToLocal(c); ok {
			chunk.SetLocalBlock(x, y, z, block)
		}
	}

	b := hut.Bounds
	for x := b.Min.X; x <= b.Max.X; x++ {
		for z := b.Min.Z; z <= b.Max.Z; z++ {
			localX, _, localZ, _ := chunk.GlobalToLocal(world.BlockCoord{X: x, Y: b.Min.Y, Z: z})
			for y := chunk.SurfaceHeight(localX, localZ) + 1; y < b.Min.Y; y++ {
				set(world.BlockCoord{X: x, Y: y, Z: z}, g.dirt)
			}
			for y := b.Min.Y; y <= b.Max.Y; y++ {
				c := world.BlockCoord{X: x, Y: y, Z: z}
				if hut.Interior.Contains(c) {
					set(c, world.Air)
				} else {
					set(c, wood)
				}
			}
		}
	}

	for dy := 0; dy < 2; dy++ {
		set(hut.Door.Add(0, dy, 0), world.Door(false))
		set(hut.Door.Add(0, dy, -1), world.Air)
	}
}
