package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// StatsRepository defines the contract for per-gateway attempt counters
type StatsRepository interface {
	RecordAttempt(ctx context.Context, gateway string, success bool, amount float64) error
	Snapshot(ctx context.Context) ([]models.GatewayStats, error)
}
