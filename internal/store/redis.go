package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic retries when another writer touches a key
// between WATCH and EXEC.
const maxTxRetries = 5

type redisKV struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedis connects to redisURL and namespaces every key under prefix.
func OpenRedis(ctx context.Context, redisURL, prefix string) (*Set, error) {
	rdb, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	return newRedisSet(rdb, prefix), nil
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func newRedisSet(rdb *redis.Client, prefix string) *Set {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return newKVSet("redis", &redisKV{rdb: rdb, prefix: prefix})
}

func (k *redisKV) key(key string) string { return k.prefix + key }

func (k *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.rdb.Get(ctx, k.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (k *redisKV) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	full := k.key(key)
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, full).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := k.rdb.Watch(ctx, txf, full)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis update %s: too much contention", key)
}

func (k *redisKV) Delete(ctx context.Context, key string) error {
	return k.rdb.Del(ctx, k.key(key)).Err()
}

func (k *redisKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := k.rdb.Scan(ctx, 0, k.key(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), k.prefix))
	}
	return out, iter.Err()
}

func (k *redisKV) Close() error { return k.rdb.Close() }
