package store

import (
	"context"
	"strings"
	"sync"
)

type memoryKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

// NewMemory returns a backend that forgets everything on exit. Used by tests
// and by storage.backend=memory.
func NewMemory() *Set {
	return newKVSet("memory", &memoryKV{m: map[string][]byte{}})
}

func (k *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (k *memoryKV) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	next, err := fn(k.m[key])
	if err != nil {
		return err
	}
	k.m[key] = next
	return nil
}

func (k *memoryKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}

func (k *memoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []string
	for key := range k.m {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out, nil
}

func (k *memoryKV) Close() error { return nil }
