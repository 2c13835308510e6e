package world

import "sync"

// BlockStorage holds the block columns of one chunk.
type BlockStorage interface {
	LoadColumn(index int) ([]Block, bool, error)
	SaveColumn(index int, blocks []Block) error
	Delete(index int) error
	ForEach(fn func(index int, blocks []Block) bool) error
	Close() error
}

// StorageProvider creates block storage instances for chunks.
type StorageProvider interface {
	NewStorage(key ChunkCoord, dim Dimensions) (BlockStorage, error)
}

var (
	storageProvider StorageProvider = newMemoryStorageProvider()
	storageMu       sync.RWMutex
)

// SetStorageProvider overrides the global storage provider used for new chunks.
func SetStorageProvider(provider StorageProvider) {
	storageMu.Lock()
	storageProvider = provider
	storageMu.Unlock()
}

func getStorageProvider() StorageProvider {
	storageMu.RLock()
	provider := storageProvider
	storageMu.RUnlock()
	return provider
}

type memoryStorageProvider struct{}

func newMemoryStorageProvider() StorageProvider {
	return memoryStorageProvider{}
}

func (memoryStorageProvider) NewStorage(_ ChunkCoord, dim Dimensions) (BlockStorage, error) {
	return &memoryBlockStorage{
		columns: make(map[int][]Block, dim.Width*dim.Depth/4),
	}, nil
}

// memoryBlockStorage copies columns on the way in and out so callers never
// alias stored slices.
type memoryBlockStorage struct {
	mu      sync.RWMutex
	columns map[int][]Block
}

func (m *memoryBlockStorage) LoadColumn(index int) ([]Block, bool, error) {
	m.mu.RLock()
	column, ok := m.columns[index]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return append([]Block(nil), column...), true, nil
}

func (m *memoryBlockStorage) SaveColumn(index int, blocks []Block) error {
	m.mu.Lock()
	m.columns[index] = append([]Block(nil), blocks...)
	m.mu.Unlock()
	return nil
}

func (m *memoryBlockStorage) Delete(index int) error {
	m.mu.Lock()
	delete(m.columns, index)
	m.mu.Unlock()
	return nil
}

func (m *memoryBlockStorage) ForEach(fn func(index int, blocks []Block) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for idx, column := range m.columns {
		if !fn(idx, append([]Block(nil), column...)) {
			break
		}
	}
	return nil
}

func (m *memoryBlockStorage) Close() error {
	return nil
}
