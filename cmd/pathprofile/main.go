package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"voxelpath/internal/config"
	"voxelpath/internal/pathfinding"
	"voxelpath/internal/terrain"
	"voxelpath/internal/world"
)

type countingGenerator struct {
	base  world.Generator
	loads atomic.Int64
}

func newCountingGenerator(base world.Generator) *countingGenerator {
	return &countingGenerator{base: base}
}

func (g *countingGenerator) Generate(ctx context.Context, coord world.ChunkCoord, bounds world.Bounds, dim world.Dimensions) (*world.Chunk, error) {
	chunk, err := g.base.Generate(ctx, coord, bounds, dim)
	if err == nil {
		g.loads.Add(1)
	}
	return chunk, err
}

func (g *countingGenerator) LoadCount() int64 {
	return g.loads.Load()
}

type pathJob struct {
	start world.BlockCoord
	goal  world.BlockCoord
}

type columnKey struct{ x, z int }

// surfaceIndex maps every column of the region to its standable surface.
type surfaceIndex struct {
	coords []world.BlockCoord
	byXZ   map[columnKey]world.BlockCoord
}

func main() {
	var (
		cfgPath     = flag.String("config", "", "optional JSON or YAML configuration file")
		requests    = flag.Int("requests", 0, "number of pathfinding requests to issue (overrides config)")
		concurrency = flag.Int("concurrency", 0, "number of concurrent workers (overrides config)")
		timeout     = flag.Duration("timeout", 0, "per-request timeout (overrides config)")
		seed        = flag.Int64("seed", 0, "random seed for start/goal selection (overrides config)")
		doors       = flag.String("doors", "", "door mode: open, ignore-closed, ignore-open")
		reach       = flag.Int("reach", 0, "number of reachability floods to run after routing")
		dumpPath    = flag.String("dump-config", "", "write the effective configuration as JSON and continue")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	} else if injected, ok, err := config.FromEnvironment(os.Getenv); err != nil {
		log.Fatalf("load config from environment: %v", err)
	} else if ok {
		cfg = injected
	}
	if *requests > 0 {
		cfg.Profile.Requests = *requests
	}
	if *concurrency > 0 {
		cfg.Profile.Concurrency = *concurrency
	}
	if *timeout > 0 {
		cfg.Profile.RequestTimeout = config.Duration(*timeout)
	}
	if *seed != 0 {
		cfg.Profile.Seed = *seed
	}
	if *doors != "" {
		cfg.Pathfinding.Doors = *doors
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.Profile.Requests == 0 || cfg.Profile.Concurrency == 0 {
		log.Fatalf("profile requests and concurrency must be positive")
	}
	if *dumpPath != "" {
		if err := config.WriteFile(*dumpPath, cfg); err != nil {
			log.Fatalf("dump config: %v", err)
		}
	}

	region := world.NewServerRegion(cfg)
	generator := newCountingGenerator(terrain.NewNoiseGenerator(cfg.Terrain))
	manager := world.NewManager(region, generator)
	searchCfg, err := pathfinding.ConfigFromSettings(cfg.Pathfinding)
	if err != nil {
		log.Fatalf("pathfinding config: %v", err)
	}
	navigator, err := pathfinding.NewBlockNavigator(region, manager, searchCfg)
	if err != nil {
		log.Fatalf("initialise navigator: %v", err)
	}

	ctx := context.Background()
	surfaces, err := collectSurfaces(ctx, manager, region)
	if err != nil {
		log.Fatalf("collect candidates: %v", err)
	}
	if len(surfaces.coords) < 2 {
		log.Fatalf("not enough standable coordinates to profile")
	}
	log.Printf("profiling %d requests over %d candidate cells", cfg.Profile.Requests, len(surfaces.coords))

	rng := rand.New(rand.NewSource(cfg.Profile.Seed))
	jobs := make(chan pathJob)
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Profile.Requests; i++ {
			job, err := surfaces.pick(rng, searchCfg.MaxRange)
			if err != nil {
				log.Fatalf("pick request: %v", err)
			}
			jobs <- job
		}
	}()

	var (
		metrics            pathfinding.NavigatorMetrics
		wg                 sync.WaitGroup
		totalSuccessLength atomic.Int64
		totalRouteDuration atomic.Int64
		successes          atomic.Int64
		failures           atomic.Int64
		timeouts           atomic.Int64
	)
	profiled := pathfinding.ContextWithProfiler(ctx, metrics.Profiler())
	requestTimeout := cfg.Profile.RequestTimeout.Duration()

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			routeCtx, cancel := context.WithTimeout(profiled, requestTimeout)
			startTime := time.Now()
			res := navigator.FindRouteWithStats(routeCtx, job.start, job.goal)
			totalRouteDuration.Add(int64(time.Since(startTime)))
			expired := routeCtx.Err() == context.DeadlineExceeded
			cancel()

			switch {
			case res.Found:
				successes.Add(1)
				totalSuccessLength.Add(int64(len(res.Path) - 1))
			case expired:
				timeouts.Add(1)
			default:
				failures.Add(1)
			}
		}
	}

	wg.Add(cfg.Profile.Concurrency)
	startWall := time.Now()
	for i := 0; i < cfg.Profile.Concurrency; i++ {
		go worker()
	}
	wg.Wait()
	wallDuration := time.Since(startWall)
	snap := metrics.Snapshot()

	total := int64(cfg.Profile.Requests)
	avgPathLength := 0.0
	if succ := successes.Load(); succ > 0 {
		avgPathLength = float64(totalSuccessLength.Load()) / float64(succ)
	}
	hitRatio := 0.0
	if lookups := snap.CacheHits + snap.CacheMisses; lookups > 0 {
		hitRatio = float64(snap.CacheHits) / float64(lookups) * 100
	}

	dims := region.ChunkDimension
	fmt.Println("== Block Pathfinding Profile ==")
	fmt.Printf("Chunks per axis: %d\n", region.ChunksPerAxis)
	fmt.Printf("Chunk dimensions: %dx%dx%d\n", dims.Width, dims.Depth, dims.Height)
	fmt.Printf("Range: %d horizontal, %d vertical, climb %d, drop %d\n", searchCfg.MaxRange, searchCfg.MaxVerticalRange, searchCfg.MaxClimb, searchCfg.MaxDrop)
	fmt.Printf("Doors: %s\n", searchCfg.Doors)
	fmt.Printf("Requests: %d\n", total)
	fmt.Printf("Concurrency: %d\n", cfg.Profile.Concurrency)
	fmt.Printf("Successes: %d, Failures: %d, Timeouts: %d\n", successes.Load(), failures.Load(), timeouts.Load())
	fmt.Printf("Average path length (steps): %.2f\n", avgPathLength)
	fmt.Printf("Average per-route duration: %s\n", time.Duration(totalRouteDuration.Load()/total))
	fmt.Printf("Wall clock duration: %s\n", wallDuration)
	fmt.Printf("Average nodes expanded: %.2f\n", float64(snap.NodesExpanded)/float64(total))
	fmt.Printf("Average heuristic evaluations: %.2f\n", float64(snap.HeuristicEvaluations)/float64(total))
	fmt.Printf("Columns pruned: %d\n", snap.ColumnsPruned)
	fmt.Printf("Cache hit ratio: %.2f%% (%d hits, %d misses)\n", hitRatio, snap.CacheHits, snap.CacheMisses)
	fmt.Printf("Chunks generated: %d\n", generator.LoadCount())

	if *reach > 0 {
		profileReachability(ctx, navigator, surfaces, rng, *reach)
	}
}

// Interior floods are seeded one block above a flood origin and confined to
// this box around it.
const (
	interiorRadius   = 4
	interiorVertical = 3
)

// maxPickAttempts bounds the search for a start/goal pair on sparse regions.
const maxPickAttempts = 10000

type floodStats struct {
	floods        int
	cells         int
	rejected      int
	interiors     int
	enclosed      int
	interiorCells int
}

func runFloods(ctx context.Context, navigator *pathfinding.BlockNavigator, surfaces surfaceIndex, rng *rand.Rand, floods int) floodStats {
	var stats floodStats
	for i := 0; i < floods; i++ {
		origin := surfaces.coords[rng.Intn(len(surfaces.coords))]
		result, err := navigator.Reachable(ctx, origin)
		if err != nil {
			log.Printf("reachable from %v: %v", origin, err)
			continue
		}
		stats.floods++
		stats.cells += result.Cells.Size()
		stats.rejected += result.Rejected.Size()

		seed := origin.Add(0, 1, 0)
		in, err := navigator.Interior(ctx, seed, world.BoundsAround(seed, interiorRadius, interiorVertical))
		if err != nil {
			log.Printf("interior at %v: %v", seed, err)
			continue
		}
		stats.interiors++
		stats.interiorCells += in.Cells.Size()
		if in.Enclosed() {
			stats.enclosed++
		}
	}
	return stats
}

func profileReachability(ctx context.Context, navigator *pathfinding.BlockNavigator, surfaces surfaceIndex, rng *rand.Rand, floods int) {
	start := time.Now()
	stats := runFloods(ctx, navigator, surfaces, rng, floods)
	elapsed := time.Since(start)
	if stats.floods == 0 {
		fmt.Println("== Reachability ==\nNo floods completed")
		return
	}
	fmt.Println("== Reachability ==")
	fmt.Printf("Floods: %d\n", stats.floods)
	fmt.Printf("Average cells: %.2f, average rejected: %.2f\n", float64(stats.cells)/float64(stats.floods), float64(stats.rejected)/float64(stats.floods))
	fmt.Printf("Average flood duration: %s\n", elapsed/time.Duration(floods))
	if stats.interiors > 0 {
		fmt.Printf("Interiors: %d enclosed of %d, average cells %.2f\n", stats.enclosed, stats.interiors, float64(stats.interiorCells)/float64(stats.interiors))
	}
}

// pick chooses a start cell and a goal cell whose column lies within maxRange
// of it, so most requests reach the search loop.
func (s surfaceIndex) pick(rng *rand.Rand, maxRange int) (pathJob, error) {
	if len(s.coords) == 0 {
		return pathJob{}, errors.New("no surface cells to pick from")
	}
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		start := s.coords[rng.Intn(len(s.coords))]
		dx := rng.Intn(2*maxRange+1) - maxRange
		dz := rng.Intn(2*maxRange+1) - maxRange
		goal, ok := s.byXZ[columnKey{start.X + dx, start.Z + dz}]
		if ok && goal != start {
			return pathJob{start: start, goal: goal}, nil
		}
	}
	return pathJob{}, fmt.Errorf("no start/goal pair within range %d after %d attempts", maxRange, maxPickAttempts)
}

func collectSurfaces(ctx context.Context, manager *world.Manager, region world.ServerRegion) (surfaceIndex, error) {
	dims := region.ChunkDimension
	index := surfaceIndex{byXZ: make(map[columnKey]world.BlockCoord)}
	for x := 0; x < region.ChunksPerAxis; x++ {
		for z := 0; z < region.ChunksPerAxis; z++ {
			chunkCoord := world.ChunkCoord{X: region.Origin.X + x, Z: region.Origin.Z + z}
			chunk, err := manager.Chunk(ctx, chunkCoord)
			if err != nil {
				return surfaceIndex{}, err
			}
			bounds := chunk.Bounds
			for localX := 0; localX < dims.Width; localX++ {
				for localZ := 0; localZ < dims.Depth; localZ++ {
					surface := chunk.SurfaceHeight(localX, localZ)
					if surface < 0 || surface+1 >= dims.Height {
						continue
					}
					coord := world.BlockCoord{X: bounds.Min.X + localX, Y: surface, Z: bounds.Min.Z + localZ}
					index.coords = append(index.coords, coord)
					index.byXZ[columnKey{coord.X, coord.Z}] = coord
				}
			}
		}
	}
	return index, nil
}
