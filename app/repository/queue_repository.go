package repository

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WeOneApp/wardsponsor/internal/pkg/cache"
)

// queueRepository reads the background queue's Redis keys for the admin
// endpoints. It operates on Redis directly, it has no GORM handle.
type queueRepository struct {
	client *redis.Client
}

// NewQueueRepository creates a new queue repository instance
func NewQueueRepository() QueueRepository {
	return &queueRepository{client: cache.GetClient()}
}

// GetValue returns the raw value stored under a key
func (r *queueRepository) GetValue(key string) (string, error) {
	return r.client.Get(context.Background(), key).Result()
}

// GetTTL returns the remaining time-to-live of a key
func (r *queueRepository) GetTTL(key string) (time.Duration, error) {
	return r.client.TTL(context.Background(), key).Result()
}

// GetListLength returns the length of a Redis list
func (r *queueRepository) GetListLength(key string) (int64, error) {
	return r.client.LLen(context.Background(), key).Result()
}

// FindKeysByPatterns scans for keys matching the given patterns. SCAN keeps
// the lookup incremental, no blocking KEYS call.
func (r *queueRepository) FindKeysByPatterns(patterns []string) ([]string, error) {
	ctx := context.Background()
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		var cursor uint64
		for {
			batch, next, err := r.client.Scan(ctx, cursor, pattern, 500).Result()
			if err != nil {
				return nil, err
			}
			for _, key := range batch {
				unique[key] = struct{}{}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}

	keys := make([]string, 0, len(unique))
	for key := range unique {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteKeys deletes keys in batches and returns how many were removed
func (r *queueRepository) DeleteKeys(keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	ctx := context.Background()
	const batchSize = 500
	var deleted int64

	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		n, err := r.client.Del(ctx, keys[i:end]...).Result()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, nil
}
