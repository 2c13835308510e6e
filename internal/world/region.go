package world

import (
	"fmt"

	"voxelpath/internal/config"
)

// ChunkCoord identifies a chunk column in global chunk space. Chunks span the
// full world height, so only the horizontal axes are indexed.
type ChunkCoord struct {
	X int
	Z int
}

// BlockCoord describes a block position in global block space. Y is vertical.
type BlockCoord struct {
	X int
	Y int
	Z int
}

// Add returns the coordinate shifted by the given deltas.
func (c BlockCoord) Add(dx, dy, dz int) BlockCoord {
	return BlockCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

func (c BlockCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Dimensions defines the size of a chunk in blocks.
type Dimensions struct {
	Width  int // X
	Depth  int // Z
	Height int // Y
}

// Bounds is an axis-aligned bounding box represented by inclusive min/max corners in block space.
type Bounds struct {
	Min BlockCoord
	Max BlockCoord
}

// Contains reports whether coord lies inside the box, edges included.
func (b Bounds) Contains(coord BlockCoord) bool {
	return coord.X >= b.Min.X && coord.X <= b.Max.X &&
		coord.Y >= b.Min.Y && coord.Y <= b.Max.Y &&
		coord.Z >= b.Min.Z && coord.Z <= b.Max.Z
}

// BoundsAround returns the box of the given horizontal and vertical radius centred on coord.
func BoundsAround(coord BlockCoord, horizontal, vertical int) Bounds {
	return Bounds{
		Min: BlockCoord{X: coord.X - horizontal, Y: coord.Y - vertical, Z: coord.Z - horizontal},
		Max: BlockCoord{X: coord.X + horizontal, Y: coord.Y + vertical, Z: coord.Z + horizontal},
	}
}

// ServerRegion delineates the contiguous square grid of chunks that make up a world.
type ServerRegion struct {
	Origin         ChunkCoord
	ChunksPerAxis  int
	ChunkDimension Dimensions
}

func NewServerRegion(cfg *config.Config) ServerRegion {
	return ServerRegion{
		Origin: ChunkCoord{
			X: cfg.World.ChunkOrigin.X,
			Z: cfg.World.ChunkOrigin.Z,
		},
		ChunksPerAxis: cfg.World.ChunksPerAxis,
		ChunkDimension: Dimensions{
			Width:  cfg.World.ChunkWidth,
			Depth:  cfg.World.ChunkDepth,
			Height: cfg.World.ChunkHeight,
		},
	}
}

func (r ServerRegion) ContainsChunk(coord ChunkCoord) bool {
	return coord.X >= r.Origin.X &&
		coord.Z >= r.Origin.Z &&
		coord.X < r.Origin.X+r.ChunksPerAxis &&
		coord.Z < r.Origin.Z+r.ChunksPerAxis
}

func (r ServerRegion) ChunkBounds(coord ChunkCoord) (Bounds, error) {
	if !r.ContainsChunk(coord) {
		return Bounds{}, fmt.Errorf("chunk %v outside region", coord)
	}

	min := BlockCoord{
		X: coord.X * r.ChunkDimension.Width,
		Y: 0,
		Z: coord.Z * r.ChunkDimension.Depth,
	}
	max := BlockCoord{
		X: min.X + r.ChunkDimension.Width - 1,
		Y: r.ChunkDimension.Height - 1,
		Z: min.Z + r.ChunkDimension.Depth - 1,
	}
	return Bounds{Min: min, Max: max}, nil
}

// BlockBounds returns the block-space box covered by the whole region.
func (r ServerRegion) BlockBounds() Bounds {
	return Bounds{
		Min: BlockCoord{
			X: r.Origin.X * r.ChunkDimension.Width,
			Y: 0,
			Z: r.Origin.Z * r.ChunkDimension.Depth,
		},
		Max: BlockCoord{
			X: (r.Origin.X+r.ChunksPerAxis)*r.ChunkDimension.Width - 1,
			Y: r.ChunkDimension.Height - 1,
			Z: (r.Origin.Z+r.ChunksPerAxis)*r.ChunkDimension.Depth - 1,
		},
	}
}

func (r ServerRegion) LocateBlock(block BlockCoord) (ChunkCoord, bool) {
	if block.Y < 0 || block.Y >= r.ChunkDimension.Height {
		return ChunkCoord{}, false
	}
	chunk := ChunkCoord{
		X: floorDiv(block.X, r.ChunkDimension.Width),
		Z: floorDiv(block.Z, r.ChunkDimension.Depth),
	}
	return chunk, r.ContainsChunk(chunk)
}

func floorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}
