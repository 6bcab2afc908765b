package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsRepositoryAggregates(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	require.NoError(t, repo.RecordAttempt(ctx, "stripe", false, 50))
	require.NoError(t, repo.RecordAttempt(ctx, "paypal", true, 50))
	require.NoError(t, repo.RecordAttempt(ctx, "paypal", true, 0.1))
	require.NoError(t, repo.RecordAttempt(ctx, "paypal", true, 0.2))

	stats, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "paypal", stats[0].Gateway)
	assert.Equal(t, int64(3), stats[0].Successes)
	assert.Equal(t, int64(0), stats[0].Failures)
	assert.True(t, decimal.RequireFromString("50.3").Equal(stats[0].TotalAmount), stats[0].TotalAmount.String())

	assert.Equal(t, "stripe", stats[1].Gateway)
	assert.Equal(t, int64(1), stats[1].Failures)
	assert.True(t, stats[1].TotalAmount.IsZero())
}

func TestMemoryStatsRepositoryConcurrentWrites(t *testing.T) {
	repo := NewMemoryStatsRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.RecordAttempt(ctx, "stripe", true, 1)
		}()
	}
	wg.Wait()

	stats, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(50), stats[0].Successes)
	assert.True(t, decimal.NewFromInt(50).Equal(stats[0].TotalAmount))
}

func TestParseStats(t *testing.T) {
	s, err := parseStats("paypal", map[string]string{
		"successes":    "4",
		"failures":     "1",
		"total_amount": "200.5",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.Successes)
	assert.Equal(t, int64(1), s.Failures)
	assert.Equal(t, "200.5", s.TotalAmount.String())

	_, err = parseStats("paypal", map[string]string{"successes": "many"})
	assert.Error(t, err)
}
