package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// Gateway is a payment processor that can be charged once per attempt.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, amount float64, currency string) (*models.PaymentResult, error)
}
