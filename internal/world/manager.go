package world

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrOutsideRegion is returned for coordinates the region does not own.
var ErrOutsideRegion = errors.New("outside world region")

// Generator describes terrain population for chunks.
type Generator interface {
	Generate(ctx context.Context, coord ChunkCoord, bounds Bounds, dim Dimensions) (*Chunk, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, coord ChunkCoord, bounds Bounds, dim Dimensions) (*Chunk, error)

func (f GeneratorFunc) Generate(ctx context.Context, coord ChunkCoord, bounds Bounds, dim Dimensions) (*Chunk, error) {
	return f(ctx, coord, bounds, dim)
}

// EmptyGenerator produces chunks containing only air.
var EmptyGenerator = GeneratorFunc(func(_ context.Context, coord ChunkCoord, bounds Bounds, dim Dimensions) (*Chunk, error) {
	return NewChunk(coord, bounds, dim), nil
})

// Manager keeps the authoritative chunk state for a region and generates
// chunks lazily on first access.
type Manager struct {
	region    ServerRegion
	generator Generator

	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

func NewManager(region ServerRegion, generator Generator) *Manager {
	if generator == nil {
		generator = EmptyGenerator
	}
	return &Manager{
		region:    region,
		generator: generator,
		chunks:    make(map[ChunkCoord]*Chunk),
	}
}

func (m *Manager) Region() ServerRegion {
	return m.region
}

func (m *Manager) Chunk(ctx context.Context, coord ChunkCoord) (*Chunk, error) {
	if !m.region.ContainsChunk(coord) {
		return nil, fmt.Errorf("chunk %v: %w", coord, ErrOutsideRegion)
	}

	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if ok {
		return ch, nil
	}

	bounds, err := m.region.ChunkBounds(coord)
	if err != nil {
		return nil, err
	}

	ch, err = m.generator.Generate(ctx, coord, bounds, m.region.ChunkDimension)
	if err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", coord, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.chunks[coord]; ok {
		return existing, nil
	}
	m.chunks[coord] = ch
	return ch, nil
}

// Loaded returns the chunk only if it has already been generated.
func (m *Manager) Loaded(coord ChunkCoord) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.chunks[coord]
	return ch, ok
}

func (m *Manager) ChunkForBlock(ctx context.Context, block BlockCoord) (*Chunk, error) {
	chunkCoord, ok := m.region.LocateBlock(block)
	if !ok {
		return nil, fmt.Errorf("block %v: %w", block, ErrOutsideRegion)
	}
	return m.Chunk(ctx, chunkCoord)
}

// Block returns the block stored at coord, generating its chunk if needed.
func (m *Manager) Block(ctx context.Context, coord BlockCoord) (Block, error) {
	chunk, err := m.ChunkForBlock(ctx, coord)
	if err != nil {
		return Block{}, err
	}
	x, y, z, ok := chunk.GlobalToLocal(coord)
	if !ok {
		return Block{}, fmt.Errorf("block %v: %w", coord, ErrOutsideRegion)
	}
	block, ok := chunk.LocalBlock(x, y, z)
	if !ok {
		return Block{}, fmt.Errorf("block %v unavailable", coord)
	}
	return block, nil
}

// SetBlock writes a single block. It is meant for world construction; the
// search packages only ever read.
func (m *Manager) SetBlock(ctx context.Context, coord BlockCoord, block Block) error {
	chunk, err := m.ChunkForBlock(ctx, coord)
	if err != nil {
		return err
	}
	x, y, z, ok := chunk.GlobalToLocal(coord)
	if !ok || !chunk.SetLocalBlock(x, y, z, block) {
		return fmt.Errorf("set block %v failed", coord)
	}
	return nil
}

// Fill writes block into every coordinate of the box.
func (m *Manager) Fill(ctx context.Context, box Bounds, block Block) error {
	for x := box.Min.X; x <= box.Max.X; x++ {
		for z := box.Min.Z; z <= box.Max.Z; z++ {
			for y := box.Min.Y; y <= box.Max.Y; y++ {
				if err := m.SetBlock(ctx, BlockCoord{X: x, Y: y, Z: z}, block); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
