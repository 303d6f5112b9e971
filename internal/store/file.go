package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 25 * time.Millisecond

// fileKV stores one JSON document per key in a directory. Every operation
// holds a lock on dir/.lock, so two engine processes (or a CLI command
// running next to the server) never interleave a read-modify-write. A
// flock.Flock tracks its own held state, so goroutines in this process are
// serialized by mu before touching it.
type fileKV struct {
	dir  string
	mu   sync.Mutex
	lock *flock.Flock
}

func OpenFile(dir string) (*Set, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	kv := &fileKV{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}
	return newKVSet("file", kv), nil
}

func (k *fileKV) path(key string) string {
	return filepath.Join(k.dir, key+".json")
}

func (k *fileKV) withLock(ctx context.Context, shared bool, fn func() error) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var (
		ok  bool
		err error
	)
	if shared {
		ok, err = k.lock.TryRLockContext(ctx, lockRetry)
	} else {
		ok, err = k.lock.TryLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("lock state dir: %w", err)
	}
	if !ok {
		return errors.New("lock state dir: not acquired")
	}
	defer func() { _ = k.lock.Unlock() }()
	return fn()
}

func (k *fileKV) read(key string) ([]byte, error) {
	b, err := os.ReadFile(k.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

func (k *fileKV) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := k.withLock(ctx, true, func() error {
		b, err := k.read(key)
		out = b
		return err
	})
	return out, err
}

func (k *fileKV) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	return k.withLock(ctx, false, func() error {
		cur, err := k.read(key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		tmp := k.path(key) + ".tmp"
		if err := os.WriteFile(tmp, next, 0o644); err != nil {
			return err
		}
		return os.Rename(tmp, k.path(key))
	})
}

func (k *fileKV) Delete(ctx context.Context, key string) error {
	return k.withLock(ctx, false, func() error {
		err := os.Remove(k.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}

func (k *fileKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := k.withLock(ctx, true, func() error {
		entries, err := os.ReadDir(k.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			if strings.HasPrefix(key, prefix) {
				out = append(out, key)
			}
		}
		return nil
	})
	return out, err
}

func (k *fileKV) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lock.Close()
}
