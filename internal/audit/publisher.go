package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
)

// Publisher accepts events from domain services and hands them to the async
// worker through a bounded inbox. Emit never blocks: when the inbox is full
// the event is dropped and counted, because no audit failure may delay a
// disclosure decision.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewPublisher(buffer int, logger *slog.Logger, m *metrics.Metrics) *Publisher {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Publisher{
		inbox:   make(chan Event, buffer),
		logger:  logger,
		metrics: m,
	}
}

// Emit stamps the event with time and request correlation, then enqueues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = middleware.GetRequestID(ctx)
	}

	select {
	case p.inbox <- event:
	default:
		p.metrics.AuditDroppedTotal.Inc()
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"action", event.Action,
			"subject_id", event.SubjectID,
		)
	}
}

// Events exposes the inbox for the worker.
func (p *Publisher) Events() <-chan Event { return p.inbox }
