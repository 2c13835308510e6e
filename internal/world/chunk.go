package world

import (
	"log"
	"sync"
)

// Chunk stores block columns for one horizontal slice of the world. Each
// column runs bottom to top along Y and is trimmed of trailing air.
type Chunk struct {
	Key       ChunkCoord
	Bounds    Bounds
	mu        sync.RWMutex
	store     BlockStorage
	dimension Dimensions
}

func NewChunk(key ChunkCoord, bounds Bounds, dim Dimensions) *Chunk {
	store, err := getStorageProvider().NewStorage(key, dim)
	if err != nil {
		log.Printf("chunk storage unavailable for %v: %v", key, err)
		store, _ = newMemoryStorageProvider().NewStorage(key, dim)
	}
	return &Chunk{
		Key:       key,
		Bounds:    bounds,
		store:     store,
		dimension: dim,
	}
}

func (c *Chunk) columnIndex(localX, localZ int) int {
	return localZ*c.dimension.Width + localX
}

func (c *Chunk) inside(localX, localY, localZ int) bool {
	return localX >= 0 && localY >= 0 && localZ >= 0 &&
		localX < c.dimension.Width && localY < c.dimension.Height && localZ < c.dimension.Depth
}

func trimColumn(column []Block) []Block {
	end := len(column)
	for end > 0 && blockIsAir(column[end-1]) {
		end--
	}
	return column[:end]
}

func (c *Chunk) GlobalToLocal(coord BlockCoord) (int, int, int, bool) {
	if !c.Bounds.Contains(coord) {
		return 0, 0, 0, false
	}
	return coord.X - c.Bounds.Min.X,
		coord.Y - c.Bounds.Min.Y,
		coord.Z - c.Bounds.Min.Z, true
}

func (c *Chunk) LocalBlock(localX, localY, localZ int) (Block, bool) {
	if !c.inside(localX, localY, localZ) {
		return Block{}, false
	}
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	if store == nil {
		return Block{}, false
	}
	column, ok, err := store.LoadColumn(c.columnIndex(localX, localZ))
	if err != nil {
		log.Printf("chunk %v load column (%d,%d): %v", c.Key, localX, localZ, err)
		return Block{}, false
	}
	if !ok || localY >= len(column) || blockIsAir(column[localY]) {
		return Air, true
	}
	return column[localY], true
}

func (c *Chunk) SetLocalBlock(localX, localY, localZ int, block Block) bool {
	if !c.inside(localX, localY, localZ) {
		return false
	}
	idx := c.columnIndex(localX, localZ)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false
	}
	column, ok, err := c.store.LoadColumn(idx)
	if err != nil {
		log.Printf("chunk %v load column (%d,%d): %v", c.Key, localX, localZ, err)
		return false
	}
	if !ok {
		column = make([]Block, localY+1)
	} else if localY >= len(column) {
		expanded := make([]Block, localY+1)
		copy(expanded, column)
		column = expanded
	}
	if blockIsAir(block) {
		column[localY] = Block{}
	} else {
		column[localY] = block
	}
	return c.persist(idx, trimColumn(column))
}

func (c *Chunk) ClearLocalBlock(localX, localY, localZ int) bool {
	return c.SetLocalBlock(localX, localY, localZ, Air)
}

// SetColumnBlocks replaces the entire vertical column at the given local coordinates.
func (c *Chunk) SetColumnBlocks(localX, localZ int, blocks []Block) bool {
	if localX < 0 || localZ < 0 || localX >= c.dimension.Width || localZ >= c.dimension.Depth {
		return false
	}
	if len(blocks) > c.dimension.Height {
		blocks = blocks[:c.dimension.Height]
	}
	column := make([]Block, len(blocks))
	copy(column, blocks)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false
	}
	return c.persist(c.columnIndex(localX, localZ), trimColumn(column))
}

// persist must be called with c.mu held.
func (c *Chunk) persist(idx int, column []Block) bool {
	var err error
	if len(column) == 0 {
		err = c.store.Delete(idx)
	} else {
		err = c.store.SaveColumn(idx, column)
	}
	if err != nil {
		log.Printf("chunk %v persist column %d: %v", c.Key, idx, err)
		return false
	}
	return true
}

// SurfaceHeight returns the local Y of the highest solid block in the column, or -1.
func (c *Chunk) SurfaceHeight(localX, localZ int) int {
	if localX < 0 || localZ < 0 || localX >= c.dimension.Width || localZ >= c.dimension.Depth {
		return -1
	}
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	if store == nil {
		return -1
	}
	column, ok, err := store.LoadColumn(c.columnIndex(localX, localZ))
	if err != nil || !ok {
		return -1
	}
	for y := len(column) - 1; y >= 0; y-- {
		if column[y].Solid() {
			return y
		}
	}
	return -1
}

func (c *Chunk) Dimensions() Dimensions {
	return c.dimension
}

// HasStoredBlocks reports whether the chunk already has any non-air block data.
func (c *Chunk) HasStoredBlocks() bool {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	if store == nil {
		return false
	}

	hasBlocks := false
	if err := store.ForEach(func(_ int, column []Block) bool {
		for _, block := range column {
			if !blockIsAir(block) {
				hasBlocks = true
				return false
			}
		}
		return true
	}); err != nil {
		log.Printf("chunk %v check stored blocks: %v", c.Key, err)
	}
	return hasBlocks
}

// Close releases any resources held by the chunk's underlying storage.
func (c *Chunk) Close() error {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	if store == nil {
		return nil
	}
	return store.Close()
}
