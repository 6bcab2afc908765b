package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// EventReporter delivers failover events to an analytics sink.
type EventReporter interface {
	Report(ctx context.Context, event models.FailoverEvent) error
}
