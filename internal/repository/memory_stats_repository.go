package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// MemoryStatsRepository is the in-process counterpart used when Redis is not configured.
type MemoryStatsRepository struct {
	mu    sync.RWMutex
	stats map[string]*models.GatewayStats
}

func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{stats: make(map[string]*models.GatewayStats)}
}

func (r *MemoryStatsRepository) RecordAttempt(_ context.Context, gateway string, success bool, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[gateway]
	if !ok {
		s = &models.GatewayStats{Gateway: gateway, TotalAmount: decimal.Zero}
		r.stats[gateway] = s
	}

	if success {
		s.Successes++
		s.TotalAmount = s.TotalAmount.Add(decimal.NewFromFloat(amount))
	} else {
		s.Failures++
	}

	return nil
}

func (r *MemoryStatsRepository) Snapshot(_ context.Context) ([]models.GatewayStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GatewayStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gateway < out[j].Gateway })

	return out, nil
}
