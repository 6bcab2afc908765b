package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// Charger runs a payment through the gateway fallback list.
type Charger interface {
	Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error)
}
