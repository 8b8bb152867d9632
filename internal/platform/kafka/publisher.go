// Package kafka provides a thin producer used to stream audit events to
// downstream compliance consumers. Publishing is best-effort: the primary
// audit record lives in the audit store, and a failed produce is logged,
// never surfaced to request handling.
package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher produces messages to a single topic.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects to the given brokers. Returns nil when no brokers
// are configured (Kafka disabled).
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces asynchronously. Delivery failures are logged in the
// produce callback; callers never block on broker availability.
func (p *Publisher) Publish(ctx context.Context, key string, payload []byte) {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: payload}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit stream produce failed",
				"topic", p.topic,
				"key", key,
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and closes the client.
func (p *Publisher) Close() {
	p.client.Close()
}
