package pathfinding

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"voxelpath/internal/world"
)

// testWorld is an unbounded block reader: explicit blocks override a base
// layout. It records every coordinate it is asked about.
type testWorld struct {
	base   func(world.BlockCoord) world.Block
	blocks map[world.BlockCoord]world.Block

	mu      sync.Mutex
	queried map[world.BlockCoord]int
}

func newFlatWorld() *testWorld {
	return &testWorld{
		base: func(c world.BlockCoord) world.Block {
			if c.Y <= 0 {
				return world.Stone
			}
			return world.Air
		},
		blocks:  make(map[world.BlockCoord]world.Block),
		queried: make(map[world.BlockCoord]int),
	}
}

func newAirWorld() *testWorld {
	w := newFlatWorld()
	w.base = func(world.BlockCoord) world.Block { return world.Air }
	return w
}

func (w *testWorld) Block(_ context.Context, c world.BlockCoord) (world.Block, bool) {
	w.mu.Lock()
	w.queried[c]++
	w.mu.Unlock()
	if block, ok := w.blocks[c]; ok {
		return block, true
	}
	return w.base(c), true
}

func (w *testWorld) set(c world.BlockCoord, block world.Block) {
	w.blocks[c] = block
}

func (w *testWorld) fill(box world.Bounds, block world.Block) {
	for x := box.Min.X; x <= box.Max.X; x++ {
		for y := box.Min.Y; y <= box.Max.Y; y++ {
			for z := box.Min.Z; z <= box.Max.Z; z++ {
				w.blocks[world.BlockCoord{X: x, Y: y, Z: z}] = block
			}
		}
	}
}

func (w *testWorld) wasQueried(c world.BlockCoord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queried[c] > 0
}

func (w *testWorld) resetQueries() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.queried)
}

func newTestSearch(t *testing.T, w *testWorld, cfg Config) *Search {
	t.Helper()
	s, err := NewSearch(Classify(w), cfg)
	require.NoError(t, err)
	return s
}

// expandOnce closes origin and expands it without running the search loop.
func expandOnce(t *testing.T, s *Search, origin world.BlockCoord) {
	t.Helper()
	s.start, s.goal = origin, origin.Add(100, 0, 100)
	s.Reset()
	root := s.nodes.add(origin, noParent, Terrain{})
	s.score(root)
	s.closed[origin] = root
	s.expand(context.Background(), root)
}

func coord(x, y, z int) world.BlockCoord {
	return world.BlockCoord{X: x, Y: y, Z: z}
}

func box(minX, minY, minZ, maxX, maxY, maxZ int) world.Bounds {
	return world.Bounds{Min: coord(minX, minY, minZ), Max: coord(maxX, maxY, maxZ)}
}

type stubGenerator struct {
	mu     sync.Mutex
	chunks map[world.ChunkCoord]*world.Chunk
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{chunks: make(map[world.ChunkCoord]*world.Chunk)}
}

func (g *stubGenerator) Generate(_ context.Context, coord world.ChunkCoord, bounds world.Bounds, dim world.Dimensions) (*world.Chunk, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if chunk, ok := g.chunks[coord]; ok {
		return chunk, nil
	}
	chunk := world.NewChunk(coord, bounds, dim)
	g.chunks[coord] = chunk
	return chunk, nil
}

// newFloorNavigator returns a navigator over a single chunk whose bottom
// layer is stone.
func newFloorNavigator(t *testing.T, dims world.Dimensions, cfg Config) (*BlockNavigator, *world.Manager) {
	t.Helper()

	region := world.ServerRegion{
		Origin:         world.ChunkCoord{X: 0, Z: 0},
		ChunksPerAxis:  1,
		ChunkDimension: dims,
	}
	manager := world.NewManager(region, newStubGenerator())
	floor := box(0, 0, 0, dims.Width-1, 0, dims.Depth-1)
	require.NoError(t, manager.Fill(context.Background(), floor, world.Stone))

	navigator, err := NewBlockNavigator(region, manager, cfg)
	require.NoError(t, err)
	return navigator, manager
}
