package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

// SimulatorConfig describes a fake remote processor.
type SimulatorConfig struct {
	Name        string
	Latency     time.Duration
	FailureRate float64
	FailureKind ErrorKind
	FailureMsg  string
}

// Simulator models a remote charge call with fixed latency and a fixed failure probability.
type Simulator struct {
	cfg  SimulatorConfig
	roll func() float64
	now  func() time.Time
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.FailureKind == "" {
		cfg.FailureKind = KindProcessing
	}
	if cfg.FailureMsg == "" {
		cfg.FailureMsg = fmt.Sprintf("%s %s", cfg.Name, cfg.FailureKind)
	}
	return &Simulator{
		cfg:  cfg,
		roll: rand.Float64,
		now:  time.Now,
	}
}

// NewPrimary builds the stripe-like primary: slow-ish and flaky, failing with timeouts.
func NewPrimary(name string, latency time.Duration, failureRate float64, failureMsg string) *Simulator {
	return NewSimulator(SimulatorConfig{
		Name:        name,
		Latency:     latency,
		FailureRate: failureRate,
		FailureKind: KindTimeout,
		FailureMsg:  failureMsg,
	})
}

// NewSecondary builds the fallback processor, failing with processing errors.
func NewSecondary(name string, latency time.Duration, failureRate float64, failureMsg string) *Simulator {
	return NewSimulator(SimulatorConfig{
		Name:        name,
		Latency:     latency,
		FailureRate: failureRate,
		FailureKind: KindProcessing,
		FailureMsg:  failureMsg,
	})
}

func (s *Simulator) Name() string {
	return s.cfg.Name
}

func (s *Simulator) Charge(ctx context.Context, amount float64, currency string) (*models.PaymentResult, error) {
	timer := time.NewTimer(s.cfg.Latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		kind := KindProcessing
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &GatewayError{Gateway: s.cfg.Name, Kind: kind, Message: "request aborted", Err: ctx.Err()}
	case <-timer.C:
	}

	if s.roll() < s.cfg.FailureRate {
		return nil, &GatewayError{Gateway: s.cfg.Name, Kind: s.cfg.FailureKind, Message: s.cfg.FailureMsg}
	}

	return &models.PaymentResult{
		TransactionID: fmt.Sprintf("%s_txn_%d", s.cfg.Name, s.now().UnixMilli()),
		Amount:        amount,
		Currency:      currency,
		Gateway:       s.cfg.Name,
	}, nil
}
