package pathfinding

import (
	"context"
	"time"

	"voxelpath/internal/world"
)

// Oracle answers terrain questions for the search. Implementations must be
// stable for the duration of one search; the engine never writes.
//
// A false second result from Block means the coordinate could not be
// answered (unloaded or outside the world). Searches treat such coordinates
// as invalid and opaque.
type Oracle interface {
	Block(ctx context.Context, coord world.BlockCoord) (world.Block, bool)
	Surface(ctx context.Context, coord world.BlockCoord) bool
	Transparent(ctx context.Context, coord world.BlockCoord) bool
	Headroom(ctx context.Context, coord world.BlockCoord, height int, doors DoorMode) bool
}

// BlockReader is the single primitive the bundled oracles derive from.
type BlockReader interface {
	Block(ctx context.Context, coord world.BlockCoord) (world.Block, bool)
}

// BlockReaderFunc adapts a function to BlockReader.
type BlockReaderFunc func(ctx context.Context, coord world.BlockCoord) (world.Block, bool)

func (f BlockReaderFunc) Block(ctx context.Context, coord world.BlockCoord) (world.Block, bool) {
	return f(ctx, coord)
}

// Classify builds a full Oracle from a block reader using the block
// classification rules of the world package.
func Classify(reader BlockReader) Oracle {
	return classifier{reader: reader}
}

type classifier struct {
	reader BlockReader
}

func (c classifier) Block(ctx context.Context, coord world.BlockCoord) (world.Block, bool) {
	return c.reader.Block(ctx, coord)
}

func (c classifier) Surface(ctx context.Context, coord world.BlockCoord) bool {
	block, ok := c.reader.Block(ctx, coord)
	return ok && block.Solid()
}

func (c classifier) Transparent(ctx context.Context, coord world.BlockCoord) bool {
	block, ok := c.reader.Block(ctx, coord)
	return ok && block.Transparent()
}

// Headroom checks the height cells directly above coord.
func (c classifier) Headroom(ctx context.Context, coord world.BlockCoord, height int, doors DoorMode) bool {
	for i := 1; i <= height; i++ {
		block, ok := c.reader.Block(ctx, coord.Add(0, i, 0))
		if !ok || !doors.Passable(block) {
			return false
		}
	}
	return true
}

// NewWorldOracle returns an oracle over the manager's chunks. Each oracle keeps
// a private chunk cache, so create one per search rather than sharing it
// between goroutines.
func NewWorldOracle(manager *world.Manager) Oracle {
	return Classify(&chunkReader{
		world: manager,
		cache: make(map[world.ChunkCoord]*world.Chunk),
	})
}

type chunkReader struct {
	world *world.Manager
	cache map[world.ChunkCoord]*world.Chunk
}

func (r *chunkReader) Block(ctx context.Context, coord world.BlockCoord) (world.Block, bool) {
	if r.world == nil {
		return world.Block{}, false
	}
	chunkCoord, ok := r.world.Region().LocateBlock(coord)
	if !ok {
		return world.Block{}, false
	}
	profiler := profilerFromContext(ctx)
	chunk, ok := r.cache[chunkCoord]
	if !ok {
		if profiler != nil {
			profiler.RecordCacheMiss()
		}
		start := time.Now()
		ch, err := r.world.Chunk(ctx, chunkCoord)
		if err != nil {
			return world.Block{}, false
		}
		if profiler != nil {
			profiler.RecordChunkLoad(time.Since(start))
		}
		chunk = ch
		r.cache[chunkCoord] = chunk
	} else if profiler != nil {
		profiler.RecordCacheHit()
	}
	localX, localY, localZ, ok := chunk.GlobalToLocal(coord)
	if !ok {
		return world.Block{}, false
	}
	return chunk.LocalBlock(localX, localY, localZ)
}

// Terrain is the classification of a cell captured when it was validated.
type Terrain struct {
	Block       world.Block
	Surface     bool
	Transparent bool
}

// blocks reports whether an invalid cell hides the rest of its column. Doors
// the entity may pass through count as open space.
func (t Terrain) blocks(doors DoorMode) bool {
	if t.Transparent {
		return false
	}
	return !(t.Block.IsDoor() && doors.Passable(t.Block))
}

// probe classifies coord and reports whether an entity of the configured
// height can stand on it.
func probe(ctx context.Context, oracle Oracle, cfg Config, coord world.BlockCoord) (Terrain, bool) {
	block, ok := oracle.Block(ctx, coord)
	if !ok {
		if profiler := profilerFromContext(ctx); profiler != nil {
			profiler.RecordOracleFailure()
		}
		return Terrain{}, false
	}
	terrain := Terrain{
		Block:       block,
		Surface:     oracle.Surface(ctx, coord),
		Transparent: oracle.Transparent(ctx, coord),
	}
	if !terrain.Surface {
		return terrain, false
	}
	return terrain, oracle.Headroom(ctx, coord, cfg.EntityHeight, cfg.Doors)
}
