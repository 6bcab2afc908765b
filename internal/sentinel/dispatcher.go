package sentinel

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

var ErrQueueFull = errors.New("sentinel dispatch queue is full")
var ErrDispatcherClosed = errors.New("sentinel dispatcher is closed")

// Dispatcher hands failover events to a pool of background workers so reporting
// never sits on the request path. Events that cannot be queued are dropped.
type Dispatcher struct {
	reporter interfaces.EventReporter
	queue    chan models.FailoverEvent
	timeout  time.Duration
	workers  int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(reporter interfaces.EventReporter, workers, queueSize int, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		reporter: reporter,
		queue:    make(chan models.FailoverEvent, queueSize),
		timeout:  timeout,
		workers:  workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.deliver()
	}
	telemetry.Logger.Info("Sentinel dispatcher started", zap.Int("workers", d.workers))
}

// Report enqueues the event without blocking. The context is not used for
// delivery, which outlives the request that produced the event.
func (d *Dispatcher) Report(_ context.Context, event models.FailoverEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		telemetry.SentinelDropped.Inc()
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- event:
		return nil
	default:
		telemetry.SentinelDropped.Inc()
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be delivered or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		telemetry.Logger.Warn("Sentinel dispatcher closed with events pending", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver() {
	defer d.wg.Done()

	for event := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.reporter.Report(ctx, event)
		cancel()

		if err != nil {
			telemetry.Logger.Warn("Failed to report to API Sentinel",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			continue
		}
		telemetry.Logger.Info("Failover event reported", zap.String("event_id", event.EventID))
	}
}
