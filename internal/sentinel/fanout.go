package sentinel

import (
	"context"
	"errors"

	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// Fanout delivers each event to every sink; one failing sink does not stop the others.
type Fanout []interfaces.EventReporter

func (f Fanout) Report(ctx context.Context, event models.FailoverEvent) error {
	var errs []error
	for _, r := range f {
		if err := r.Report(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
