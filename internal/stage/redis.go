package stage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps stages as JSON under "stage:<uuid>" with a TTL. A batch
// that aborts abnormally leaves its stages behind with no owning reference;
// the TTL is the out-of-band garbage collection for those orphans.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed stage store. Prefix may be empty.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "stage:"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(uuid string) string {
	return r.prefix + uuid
}

func (r *RedisStore) Save(ctx context.Context, s *Stage) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(s.UUID), b, r.ttl).Err()
}

func (r *RedisStore) Discard(ctx context.Context, uuid string) error {
	return r.client.Del(ctx, r.key(uuid)).Err()
}

// Get fetches a staged record; nil when absent or already expired.
func (r *RedisStore) Get(ctx context.Context, uuid string) (*Stage, error) {
	b, err := r.client.Get(ctx, r.key(uuid)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s Stage
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
