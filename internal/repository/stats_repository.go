package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

const (
	statsKeyPrefix = "gateway_stats:"
	statsIndexKey  = "gateway_stats:index"
)

// StatsRepository keeps per-gateway attempt counters in Redis hashes.
type StatsRepository struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) RecordAttempt(ctx context.Context, gateway string, success bool, amount float64) error {
	key := statsKeyPrefix + gateway

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, statsIndexKey, gateway)
		if success {
			pipe.HIncrBy(ctx, key, "successes", 1)
			pipe.HIncrByFloat(ctx, key, "total_amount", amount)
		} else {
			pipe.HIncrBy(ctx, key, "failures", 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record attempt for %s: %w", gateway, err)
	}
	return nil
}

func (r *StatsRepository) Snapshot(ctx context.Context) ([]models.GatewayStats, error) {
	gateways, err := r.client.SMembers(ctx, statsIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list gateways: %w", err)
	}
	sort.Strings(gateways)

	stats := make([]models.GatewayStats, 0, len(gateways))
	for _, gateway := range gateways {
		fields, err := r.client.HGetAll(ctx, statsKeyPrefix+gateway).Result()
		if err != nil {
			return nil, fmt.Errorf("read stats for %s: %w", gateway, err)
		}

		s, err := parseStats(gateway, fields)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, nil
}

func parseStats(gateway string, fields map[string]string) (models.GatewayStats, error) {
	s := models.GatewayStats{Gateway: gateway, TotalAmount: decimal.Zero}

	var err error
	if v, ok := fields["successes"]; ok {
		if s.Successes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("parse successes for %s: %w", gateway, err)
		}
	}
	if v, ok := fields["failures"]; ok {
		if s.Failures, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("parse failures for %s: %w", gateway, err)
		}
	}
	if v, ok := fields["total_amount"]; ok {
		if s.TotalAmount, err = decimal.NewFromString(strings.TrimSpace(v)); err != nil {
			return s, fmt.Errorf("parse total amount for %s: %w", gateway, err)
		}
	}

	return s, nil
}
