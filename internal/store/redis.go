package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by the Redis store.
const DefaultRedisPrefix = "lastik:"

// Redis stores collections as string keys and blobs as hashes.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a store using client. An empty prefix selects DefaultRedisPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) collectionKey(name string) string { return r.prefix + "collection:" + name }

func (r *Redis) blobKey(key string) string { return r.prefix + "blob:" + key }

// Load returns the stored collection.
func (r *Redis) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.collectionKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading collection %s: %w", collection, err)
	}
	return data, nil
}

// Save writes every document inside one MULTI/EXEC block.
func (r *Redis) Save(ctx context.Context, docs ...Document) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range docs {
			pipe.Set(ctx, r.collectionKey(d.Collection), d.Data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving collections: %w", err)
	}
	return nil
}

// PutBlob stores a blob, replacing any previous one under key.
func (r *Redis) PutBlob(ctx context.Context, key string, data []byte, mime string) error {
	k := r.blobKey(key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "data", data, "mime", mime)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storing blob %s: %w", key, err)
	}
	return nil
}

// GetBlob returns a blob and its MIME type.
func (r *Redis) GetBlob(ctx context.Context, key string) ([]byte, string, error) {
	fields, err := r.client.HGetAll(ctx, r.blobKey(key)).Result()
	if err != nil {
		return nil, "", fmt.Errorf("getting blob %s: %w", key, err)
	}
	data, ok := fields["data"]
	if !ok {
		return nil, "", nil
	}
	return []byte(data), fields["mime"], nil
}

// DeleteBlob removes a blob.
func (r *Redis) DeleteBlob(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.blobKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
