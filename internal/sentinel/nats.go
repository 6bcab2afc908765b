package sentinel

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

// NATSPublisher broadcasts failover events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("payment-failover"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

func (p *NATSPublisher) Report(ctx context.Context, event models.FailoverEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal failover event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		telemetry.SentinelReports.WithLabelValues("nats", "error").Inc()
		return fmt.Errorf("publish failover event to nats: %w", err)
	}

	telemetry.SentinelReports.WithLabelValues("nats", "ok").Inc()
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
