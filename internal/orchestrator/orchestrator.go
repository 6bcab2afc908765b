package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/gateway"
	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

var ErrAllGatewaysFailed = errors.New("all payment gateways failed")

// Orchestrator charges through an ordered list of gateways, falling back to the
// next one on failure. Each gateway is attempted at most once per request.
type Orchestrator struct {
	gateways []interfaces.Gateway
	reporter interfaces.EventReporter
	stats    interfaces.StatsRepository
	now      func() time.Time

	reportTimeout time.Duration
}

type Option func(*Orchestrator)

// WithReportTimeout bounds each call to the event reporter. Zero means unbounded.
func WithReportTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.reportTimeout = d
	}
}

func New(gateways []interfaces.Gateway, reporter interfaces.EventReporter, stats interfaces.StatsRepository, opts ...Option) (*Orchestrator, error) {
	if len(gateways) == 0 {
		return nil, errors.New("at least one gateway is required")
	}
	o := &Orchestrator{
		gateways: gateways,
		reporter: reporter,
		stats:    stats,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) Primary() string {
	return o.gateways[0].Name()
}

func (o *Orchestrator) Charge(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if req.Currency == "" {
		req.Currency = models.DefaultCurrency
	}

	start := o.now()
	primary := o.gateways[0].Name()
	var primaryErr error

	for i, gw := range o.gateways {
		result, err := o.attempt(ctx, gw, req)
		if err != nil {
			// the caller went away; no gateway is to blame and nothing is reported
			if errors.Is(ctx.Err(), context.Canceled) {
				telemetry.Logger.Info("Payment abandoned by client",
					zap.String("gateway", gw.Name()),
					zap.Float64("amount", req.Amount),
				)
				return nil, ctx.Err()
			}
			if i == 0 {
				primaryErr = err
			}
			continue
		}

		if i == 0 {
			return &models.PaymentResponse{
				Success:       true,
				Gateway:       result.Gateway,
				TransactionID: result.TransactionID,
				Amount:        req.Amount,
			}, nil
		}

		recovery := o.now().Sub(start)
		recoveryMs := recovery.Milliseconds()
		telemetry.Logger.Info("Failover succeeded",
			zap.String("gateway", gw.Name()),
			zap.String("failed_gateway", primary),
			zap.String("transaction_id", result.TransactionID),
			zap.Int64("recovery_time_ms", recoveryMs),
		)

		errType := gateway.Classify(primaryErr)
		telemetry.Failovers.WithLabelValues(string(errType), "true").Inc()
		telemetry.RecoveryTime.Observe(recovery.Seconds())
		o.report(ctx, o.event(req, primary, gw.Name(), errType, true, recoveryMs))

		return &models.PaymentResponse{
			Success:        true,
			Gateway:        result.Gateway,
			TransactionID:  result.TransactionID,
			Amount:         req.Amount,
			FailedGateway:  primary,
			RecoveryTimeMs: &recoveryMs,
		}, nil
	}

	elapsedMs := o.now().Sub(start).Milliseconds()
	last := o.gateways[len(o.gateways)-1].Name()
	telemetry.Logger.Error("All payment gateways failed",
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.Int64("elapsed_ms", elapsedMs),
	)

	telemetry.Failovers.WithLabelValues(string(models.ErrorTypeCompleteFailure), "false").Inc()
	o.report(ctx, o.event(req, primary, last, models.ErrorTypeCompleteFailure, false, elapsedMs))

	return nil, ErrAllGatewaysFailed
}

func (o *Orchestrator) attempt(ctx context.Context, gw interfaces.Gateway, req models.PaymentRequest) (*models.PaymentResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "gateway.charge", trace.WithAttributes(
		attribute.String("payment.gateway", gw.Name()),
		attribute.Float64("payment.amount", req.Amount),
		attribute.String("payment.currency", req.Currency),
	))
	defer span.End()

	started := time.Now()
	result, err := gw.Charge(ctx, req.Amount, req.Currency)
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		span.SetStatus(codes.Error, "client cancelled")
		return nil, err
	}
	telemetry.GatewayLatency.WithLabelValues(gw.Name()).Observe(time.Since(started).Seconds())

	success := err == nil
	telemetry.GatewayAttempts.WithLabelValues(gw.Name(), outcome(success)).Inc()
	if statsErr := o.stats.RecordAttempt(ctx, gw.Name(), success, req.Amount); statsErr != nil {
		telemetry.Logger.Warn("Failed to record gateway stats", zap.String("gateway", gw.Name()), zap.Error(statsErr))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		telemetry.Logger.Warn("Gateway charge failed",
			zap.String("gateway", gw.Name()),
			zap.String("error_type", string(gateway.Classify(err))),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("payment.transaction_id", result.TransactionID))
	telemetry.Logger.Info("Gateway charge successful",
		zap.String("gateway", gw.Name()),
		zap.String("transaction_id", result.TransactionID),
	)
	return result, nil
}

func (o *Orchestrator) event(req models.PaymentRequest, primary, secondary string, errType models.ErrorType, success bool, recoveryMs int64) models.FailoverEvent {
	return models.FailoverEvent{
		EventID:          uuid.New().String(),
		Timestamp:        o.now().UTC(),
		PrimaryGateway:   primary,
		SecondaryGateway: secondary,
		ErrorType:        errType,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Success:          success,
		RecoveryTimeMs:   recoveryMs,
		CustomerID:       req.CustomerID,
	}
}

// report is best effort: failures are logged and never change the charge outcome.
// Delivery is detached from the caller's cancellation but still bounded by reportTimeout.
func (o *Orchestrator) report(ctx context.Context, event models.FailoverEvent) {
	ctx = context.WithoutCancel(ctx)
	if o.reportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.reportTimeout)
		defer cancel()
	}

	if err := o.reporter.Report(ctx, event); err != nil {
		telemetry.Logger.Warn("Failed to report to API Sentinel",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
