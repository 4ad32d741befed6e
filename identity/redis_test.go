package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/finbackoffice/sessionkit/identity"
)

func newRedisRepo(t *testing.T) *identity.RedisRepo {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return identity.NewRedisRepo(client, "backoffice:test", time.Minute)
}

func TestRedisRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRedisRepo(t)

	require.NoError(t, repo.SetUserID(ctx, "7"))
	require.NoError(t, repo.SetTenant(ctx, "tenantA"))

	id, err := repo.UserID(ctx)
	require.NoError(t, err)
	require.Equal(t, "7", id)

	tenant, err := repo.Tenant(ctx)
	require.NoError(t, err)
	require.Equal(t, "tenantA", tenant)
}

func TestRedisRepoAbsentKeysReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newRedisRepo(t)

	id, err := repo.UserID(ctx)
	require.NoError(t, err)
	require.Empty(t, id)

	tenant, err := repo.Tenant(ctx)
	require.NoError(t, err)
	require.Empty(t, tenant)
}

func TestRedisRepoClear(t *testing.T) {
	ctx := context.Background()
	repo := newRedisRepo(t)

	require.NoError(t, repo.SetUserID(ctx, "7"))
	require.NoError(t, repo.ClearUserID(ctx))
	// Clearing an absent key is not an error
	require.NoError(t, repo.ClearUserID(ctx))

	id, err := repo.UserID(ctx)
	require.NoError(t, err)
	require.Empty(t, id)
}
