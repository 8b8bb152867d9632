package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
	"github.com/binarygaragedev/RouteWise-sub000/pkg/platform/circuit"
)

// Stream is the optional downstream event feed (Kafka in production).
type Stream interface {
	Publish(ctx context.Context, key string, payload []byte)
}

// Worker drains the publisher inbox into the store and the optional stream.
// Store failures trip a circuit breaker; while it is open events are dropped
// and counted instead of retried, so an audit outage degrades to lost ops
// visibility rather than backpressure on request handling.
type Worker struct {
	store   Store
	stream  Stream // nil when Kafka is not configured
	inbox   <-chan Event
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewWorker(store Store, stream Stream, inbox <-chan Event, logger *slog.Logger, m *metrics.Metrics) *Worker {
	return &Worker{
		store:   store,
		stream:  stream,
		inbox:   inbox,
		breaker: circuit.New("audit-store", circuit.WithFailureThreshold(5)),
		logger:  logger,
		metrics: m,
	}
}

// Run processes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.process(ctx, event)
		}
	}
}

func (w *Worker) process(ctx context.Context, event Event) {
	if w.breaker.IsOpen() {
		// Probe with the current event; most will be dropped until the
		// store recovers.
		if err := w.store.Append(ctx, event); err != nil {
			w.metrics.AuditDroppedTotal.Inc()
			w.breaker.RecordFailure()
			return
		}
		if _, change := w.breaker.RecordSuccess(); change.Closed {
			w.logger.Info("audit store recovered, circuit closed")
		}
		w.forward(ctx, event)
		return
	}

	if err := w.store.Append(ctx, event); err != nil {
		w.metrics.AuditDroppedTotal.Inc()
		if _, change := w.breaker.RecordFailure(); change.Opened {
			w.logger.Error("audit store failing, circuit opened", "error", err)
		} else {
			w.logger.Warn("audit append failed",
				"action", event.Action,
				"subject_id", event.SubjectID,
				"error", err,
			)
		}
		return
	}
	w.breaker.RecordSuccess()
	w.forward(ctx, event)
}

// forward publishes to the downstream stream, best-effort.
func (w *Worker) forward(ctx context.Context, event Event) {
	if w.stream == nil {
		return
	}
	payload, err := json.Marshal(streamPayload(event))
	if err != nil {
		w.logger.Warn("audit stream encode failed", "error", err)
		return
	}
	w.stream.Publish(ctx, event.SubjectID, payload)
}

// streamPayload is the JSON shape published to the audit topic.
func streamPayload(event Event) map[string]any {
	return map[string]any{
		"category":             string(event.Action.Category()),
		"action":               string(event.Action),
		"actor_id":             event.ActorID,
		"actor_type":           string(event.ActorType),
		"subject_id":           event.SubjectID,
		"categories_disclosed": event.CategoriesDisclosed,
		"reason":               event.Reason,
		"decision":             event.Decision,
		"request_id":           event.RequestID,
		"timestamp":            event.Timestamp,
	}
}
