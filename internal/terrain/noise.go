package terrain

import (
	"context"
	"math"

	"voxelpath/internal/config"
	"voxelpath/internal/world"
)

// NoiseGenerator creates repeatable heightmap terrain using hashed value
// noise. Columns are stone topped with a grass surface; a hashed subset of
// columns is raised into walls so searches have obstacles to route around,
// and some chunks get a hollow hut with a closed door.
type NoiseGenerator struct {
	cfg  config.TerrainConfig
	seed int64

	grass world.Block
	dirt  world.Block
	stone world.Block
}

func NewNoiseGenerator(cfg config.TerrainConfig) *NoiseGenerator {
	return &NoiseGenerator{
		cfg:   cfg,
		seed:  cfg.Seed,
		grass: world.Block{Type: world.BlockSolid, Material: world.MaterialGrass},
		dirt:  world.Block{Type: world.BlockSolid, Material: world.MaterialDirt},
		stone: world.Stone,
	}
}

func (g *NoiseGenerator) Generate(ctx context.Context, coord world.ChunkCoord, bounds world.Bounds, dim world.Dimensions) (*world.Chunk, error) {
	chunk := world.NewChunk(coord, bounds, dim)

	for localX := 0; localX < dim.Width; localX++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for localZ := 0; localZ < dim.Depth; localZ++ {
			globalX := bounds.Min.X + localX
			globalZ := bounds.Min.Z + localZ
			height := g.SurfaceHeight(globalX, globalZ, dim)
			chunk.SetColumnBlocks(localX, localZ, g.column(globalX, globalZ, height, dim))
		}
	}
	if hut, ok := g.Hut(coord, bounds, dim); ok {
		g.placeHut(chunk, hut)
	}
	return chunk, nil
}

// SurfaceHeight returns the Y of the top solid block for the column before
// walls are applied.
func (g *NoiseGenerator) SurfaceHeight(x, z int, dim world.Dimensions) int {
	noise := g.fractalNoise(float64(x), float64(z))
	height := g.cfg.BaseHeight + int(math.Round(noise*g.cfg.Amplitude))
	return clampInt(height, 0, dim.Height-1)
}

func (g *NoiseGenerator) column(x, z, height int, dim world.Dimensions) []world.Block {
	top := height
	if g.isWall(x, z) {
		top = clampInt(height+3, 0, dim.Height-1)
	}
	column := make([]world.Block, top+1)
	for y := 0; y <= top; y++ {
		switch {
		case y == top:
			column[y] = g.grass
		case y >= top-2:
			column[y] = g.dirt
		default:
			column[y] = g.stone
		}
	}
	return column
}

func (g *NoiseGenerator) isWall(x, z int) bool {
	if g.cfg.WallChance <= 0 {
		return false
	}
	return float64(hash3(x, z, int(g.seed)^0x5bd1)&0xFFFF)/0xFFFF < g.cfg.WallChance
}

func (g *NoiseGenerator) fractalNoise(x, z float64) float64 {
	frequency := g.cfg.Frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < g.cfg.Octaves; i++ {
		noiseSum += g.valueNoise(x*frequency, z*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= g.cfg.Persistence
		frequency *= g.cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

func (g *NoiseGenerator) valueNoise(x, z float64) float64 {
	x0 := int(math.Floor(x))
	z0 := int(math.Floor(z))

	sx := smooth(x - float64(x0))
	sz := smooth(z - float64(z0))

	ix0 := lerp(random2D(x0, z0, g.seed), random2D(x0+1, z0, g.seed), sx)
	ix1 := lerp(random2D(x0, z0+1, g.seed), random2D(x0+1, z0+1, g.seed), sx)
	return lerp(ix0, ix1, sz)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, z int, seed int64) float64 {
	return float64(hash3(x, z, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
