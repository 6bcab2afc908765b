package sentinel

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

// batchTimeout caps how long a single event waits for its batch to fill.
// kafka-go defaults to one second, which stalls every synchronous report.
const batchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher mirrors failover events onto a Kafka topic, keyed by event id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: batchTimeout,
		},
	}
}

func (p *KafkaPublisher) Report(ctx context.Context, event models.FailoverEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal failover event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EventID),
		Value: value,
	}); err != nil {
		telemetry.SentinelReports.WithLabelValues("kafka", "error").Inc()
		return fmt.Errorf("publish failover event to kafka: %w", err)
	}

	telemetry.SentinelReports.WithLabelValues("kafka", "ok").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
