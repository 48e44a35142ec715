package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/mindengage-rewards/internal/course"
)

// Redis keeps the document under "<prefix>:courses" without a TTL; progress
// must outlive any session.
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	key := DocumentKey
	if prefix != "" {
		key = fmt.Sprintf("%s:%s", prefix, DocumentKey)
	}
	return &Redis{rdb: rdb, key: key}
}

// Ping helper
func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

func (r *Redis) Get(ctx context.Context) ([]course.Course, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	cs, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return cs, true, nil
}

func (r *Redis) Put(ctx context.Context, cs []course.Course) error {
	b, err := encode(cs)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, b, 0).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}
