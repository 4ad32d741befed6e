package identity

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	userIDKey = "userId"
	tenantKey = "app"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores the identifiers in Redis under a per-client prefix, for
// deployments where several guard instances share one restored session. The
// TTL bounds how long an idle identifier can be used to restore; zero means
// no expiry.
type RedisRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRepo(client *redis.Client, prefix string, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepo) SetUserID(ctx context.Context, id string) error {
	return r.set(ctx, userIDKey, id)
}

func (r *RedisRepo) UserID(ctx context.Context) (string, error) {
	return r.get(ctx, userIDKey)
}

func (r *RedisRepo) ClearUserID(ctx context.Context) error {
	return r.clear(ctx, userIDKey)
}

func (r *RedisRepo) SetTenant(ctx context.Context, tenant string) error {
	return r.set(ctx, tenantKey, tenant)
}

func (r *RedisRepo) Tenant(ctx context.Context) (string, error) {
	return r.get(ctx, tenantKey)
}

func (r *RedisRepo) ClearTenant(ctx context.Context) error {
	return r.clear(ctx, tenantKey)
}

func (r *RedisRepo) set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+":"+key, value, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "[RedisRepo.set] %s", key)
	}
	return nil
}

func (r *RedisRepo) get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.prefix+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "[RedisRepo.get] %s", key)
	}
	return value, nil
}

func (r *RedisRepo) clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+":"+key).Err(); err != nil {
		return errors.Wrapf(err, "[RedisRepo.clear] %s", key)
	}
	return nil
}
