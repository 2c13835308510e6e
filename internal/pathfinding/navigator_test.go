package pathfinding

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelpath/internal/config"
	"voxelpath/internal/terrain"
	"voxelpath/internal/world"
)

var testDims = world.Dimensions{Width: 16, Depth: 16, Height: 16}

func TestBlockNavigatorFindRoute(t *testing.T) {
	navigator, _ := newFloorNavigator(t, testDims, DefaultConfig())
	ctx := context.Background()

	path := navigator.FindRoute(ctx, coord(1, 0, 1), coord(6, 0, 6))
	require.Len(t, path, 6)
	assert.Equal(t, coord(1, 0, 1), path[0])
	assert.Equal(t, coord(6, 0, 6), path[5])
	assert.Equal(t, 5, navigator.Distance(ctx, coord(1, 0, 1), coord(6, 0, 6)))

	res := navigator.FindRouteWithStats(ctx, coord(1, 0, 1), coord(6, 0, 6))
	assert.True(t, res.Found)
	assert.Equal(t, path, res.Path)
	assert.InDelta(t, 5*PlanarDiagonalCost, res.Cost, 1e-9)
}

func TestBlockNavigatorRegionEdges(t *testing.T) {
	navigator, _ := newFloorNavigator(t, testDims, DefaultConfig())
	ctx := context.Background()

	assert.Nil(t, navigator.FindRoute(ctx, coord(-1, 0, 0), coord(3, 0, 3)))
	assert.Nil(t, navigator.FindRoute(ctx, coord(0, 0, 0), coord(3, 16, 3)))
	assert.Equal(t, -1, navigator.Distance(ctx, coord(0, 0, 0), coord(16, 0, 0)))

	// Routes along the border never step outside the chunk.
	path := navigator.FindRoute(ctx, coord(0, 0, 0), coord(0, 0, 10))
	require.NotEmpty(t, path)
	for _, step := range path {
		assert.Zero(t, step.X)
	}

	_, err := navigator.Reachable(ctx, coord(-5, 0, 0))
	assert.ErrorIs(t, err, world.ErrOutsideRegion)
	_, err = navigator.Interior(ctx, coord(0, 40, 0), box(0, 0, 0, 4, 4, 4))
	assert.ErrorIs(t, err, world.ErrOutsideRegion)
}

func TestBlockNavigatorWall(t *testing.T) {
	navigator, manager := newFloorNavigator(t, testDims, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, manager.Fill(ctx, box(5, 1, 0, 5, 3, 15), world.Stone))

	assert.Nil(t, navigator.FindRoute(ctx, coord(2, 0, 2), coord(8, 0, 2)))
	assert.Equal(t, -1, navigator.Distance(ctx, coord(2, 0, 2), coord(8, 0, 2)))

	require.NoError(t, manager.SetBlock(ctx, coord(5, 1, 9), world.Door(false)))
	require.NoError(t, manager.SetBlock(ctx, coord(5, 2, 9), world.Door(false)))
	path := navigator.FindRoute(ctx, coord(2, 0, 2), coord(8, 0, 2))
	require.NotEmpty(t, path)
	assert.Contains(t, path, coord(5, 0, 9))

	closedDoors := DefaultConfig()
	closedDoors.Doors = DoorsIgnoreClosed
	strict, err := NewBlockNavigator(manager.Region(), manager, closedDoors)
	require.NoError(t, err)
	assert.Nil(t, strict.FindRoute(ctx, coord(2, 0, 2), coord(8, 0, 2)))
}

func TestBlockNavigatorReachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRange = 3
	navigator, _ := newFloorNavigator(t, testDims, cfg)

	reach, err := navigator.Reachable(context.Background(), coord(5, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 49, reach.Cells.Size())

	corner, err := navigator.Reachable(context.Background(), coord(0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 16, corner.Cells.Size())
}

func TestBlockNavigatorInterior(t *testing.T) {
	navigator, manager := newFloorNavigator(t, testDims, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, manager.Fill(ctx, box(2, 1, 2, 6, 5, 6), world.Stone))
	require.NoError(t, manager.Fill(ctx, box(3, 2, 3, 5, 4, 5), world.Air))

	in, err := navigator.Interior(ctx, coord(4, 3, 4), box(2, 1, 2, 6, 5, 6))
	require.NoError(t, err)
	assert.True(t, in.Enclosed())
	assert.Equal(t, 27, in.Cells.Size())
}

func TestBlockNavigatorConcurrentCallers(t *testing.T) {
	navigator, manager := newFloorNavigator(t, testDims, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, manager.Fill(ctx, box(7, 1, 0, 7, 3, 12), world.Stone))

	want := navigator.FindRoute(ctx, coord(1, 0, 1), coord(12, 0, 3))
	require.NotEmpty(t, want)

	var wg sync.WaitGroup
	results := make([][]world.BlockCoord, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = navigator.FindRoute(ctx, coord(1, 0, 1), coord(12, 0, 3))
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestBlockNavigatorProfiler(t *testing.T) {
	navigator, _ := newFloorNavigator(t, testDims, DefaultConfig())
	var metrics NavigatorMetrics
	ctx := ContextWithProfiler(context.Background(), metrics.Profiler())

	res := navigator.FindRouteWithStats(ctx, coord(1, 0, 1), coord(6, 0, 6))
	require.True(t, res.Found)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.CacheMisses)
	assert.Equal(t, int64(1), snap.ChunkLoads)
	assert.Positive(t, snap.CacheHits)
	assert.Equal(t, int64(res.Stats.Closed), snap.NodesExpanded)

	before := metrics.Snapshot()
	navigator.FindRoute(ctx, coord(1, 0, 1), coord(2, 0, 2))
	delta := metrics.Snapshot().Sub(before)
	assert.Equal(t, int64(1), delta.CacheMisses)
	assert.Equal(t, int64(2), delta.NodesExpanded)
}

func TestNewBlockNavigatorValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRange = 0
	_, err := NewBlockNavigator(world.ServerRegion{}, nil, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	navigator, err := NewBlockNavigator(world.ServerRegion{}, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, navigator.FindRoute(context.Background(), coord(0, 0, 0), coord(1, 0, 1)))
}

func TestBlockNavigatorGeneratedHut(t *testing.T) {
	settings := config.Default().Terrain
	settings.HutChance = 1
	settings.WallChance = 0
	dims := world.Dimensions{Width: 16, Depth: 16, Height: 40}
	region := world.ServerRegion{ChunksPerAxis: 1, ChunkDimension: dims}
	generator := terrain.NewNoiseGenerator(settings)
	manager := world.NewManager(region, generator)

	bounds, err := region.ChunkBounds(world.ChunkCoord{})
	require.NoError(t, err)
	hut, ok := generator.Hut(world.ChunkCoord{}, bounds, dims)
	require.True(t, ok)
	seed := hut.Interior.Min.Add(1, 1, 1)
	upperDoor := hut.Door.Add(0, 1, 0)

	tests := []struct {
		doors  DoorMode
		sealed bool
	}{
		{DoorsOpen, false},
		{DoorsIgnoreClosed, true},
		{DoorsIgnoreOpen, true},
	}
	for _, tt := range tests {
		t.Run(tt.doors.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Doors = tt.doors
			navigator, err := NewBlockNavigator(region, manager, cfg)
			require.NoError(t, err)

			in, err := navigator.Interior(context.Background(), seed, hut.Bounds)
			require.NoError(t, err)
			assert.Equal(t, tt.sealed, in.Enclosed())
			assert.Equal(t, !tt.sealed, in.Cells.Has(upperDoor))
			if tt.sealed {
				assert.Equal(t, 27, in.Cells.Size())
				assert.True(t, in.Blocked.Has(upperDoor))
			}
		})
	}
}
