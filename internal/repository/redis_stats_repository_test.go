package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepository(t *testing.T) (*StatsRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStatsRepository(client), mr
}

func TestStatsRepositoryRoundTrip(t *testing.T) {
	repo, mr := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordAttempt(ctx, "stripe", false, 50))
	require.NoError(t, repo.RecordAttempt(ctx, "stripe", true, 19.5))
	require.NoError(t, repo.RecordAttempt(ctx, "paypal", true, 50))
	require.NoError(t, repo.RecordAttempt(ctx, "paypal", true, 0.25))

	stats, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "paypal", stats[0].Gateway)
	assert.Equal(t, int64(2), stats[0].Successes)
	assert.Equal(t, int64(0), stats[0].Failures)
	assert.True(t, decimal.RequireFromString("50.25").Equal(stats[0].TotalAmount), stats[0].TotalAmount.String())

	assert.Equal(t, "stripe", stats[1].Gateway)
	assert.Equal(t, int64(1), stats[1].Successes)
	assert.Equal(t, int64(1), stats[1].Failures)
	assert.True(t, decimal.RequireFromString("19.5").Equal(stats[1].TotalAmount), stats[1].TotalAmount.String())

	members, err := mr.SMembers(statsIndexKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stripe", "paypal"}, members)
	assert.Equal(t, "1", mr.HGet(statsKeyPrefix+"stripe", "failures"))
}

func TestStatsRepositoryFailureOnlyGateway(t *testing.T) {
	repo, mr := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordAttempt(ctx, "stripe", false, 50))

	stats, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Failures)
	assert.True(t, stats[0].TotalAmount.IsZero())
	assert.False(t, mr.Exists(statsKeyPrefix+"paypal"))
}

func TestStatsRepositoryEmptySnapshot(t *testing.T) {
	repo, _ := newRedisRepository(t)

	stats, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestStatsRepositoryReportsUnavailableRedis(t *testing.T) {
	repo, mr := newRedisRepository(t)
	mr.Close()

	err := repo.RecordAttempt(context.Background(), "stripe", true, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record attempt for stripe")

	_, err = repo.Snapshot(context.Background())
	assert.Error(t, err)
}
