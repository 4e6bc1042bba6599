package repository

import "sync"

// MemoryKVRepository is a process-local store for tests and STORAGE_DRIVER=memory.
type MemoryKVRepository struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{data: make(map[string]string)}
}

func (r *MemoryKVRepository) Get(key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *MemoryKVRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

func (r *MemoryKVRepository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

var _ KVRepositoryInterface = (*MemoryKVRepository)(nil)
