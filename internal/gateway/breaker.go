package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

type BreakerSettings struct {
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

// Breaker short-circuits a gateway after repeated failures so requests fail over without paying its latency.
type Breaker struct {
	next interfaces.Gateway
	cb   *gobreaker.CircuitBreaker
}

func NewBreaker(next interfaces.Gateway, settings BreakerSettings) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// a cancelled client is not the gateway's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Logger.Warn("Gateway circuit state changed",
				zap.String("gateway", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Name() string {
	return b.next.Name()
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Charge(ctx context.Context, amount float64, currency string) (*models.PaymentResult, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Charge(ctx, amount, currency)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &GatewayError{Gateway: b.next.Name(), Kind: KindCircuitOpen, Message: "circuit open", Err: err}
	}
	if err != nil {
		return nil, err
	}
	return res.(*models.PaymentResult), nil
}
