package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/metrics"
)

// flakyStore fails Append while broken is set.
type flakyStore struct {
	InMemoryStore
	broken bool
}

func (s *flakyStore) Append(ctx context.Context, event Event) error {
	if s.broken {
		return errors.New("connection refused")
	}
	return s.InMemoryStore.Append(ctx, event)
}

type recordingStream struct {
	keys     []string
	payloads [][]byte
}

func (s *recordingStream) Publish(_ context.Context, key string, payload []byte) {
	s.keys = append(s.keys, key)
	s.payloads = append(s.payloads, payload)
}

type WorkerSuite struct {
	suite.Suite
	store   *flakyStore
	stream  *recordingStream
	inbox   chan Event
	worker  *Worker
	metrics *metrics.Metrics
}

func (s *WorkerSuite) SetupTest() {
	s.store = &flakyStore{}
	s.stream = &recordingStream{}
	s.inbox = make(chan Event, 16)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.worker = NewWorker(s.store, s.stream, s.inbox, slog.New(slog.DiscardHandler), s.metrics)
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) event(subjectID string) Event {
	return Event{
		Action:    ActionDisclosureRendered,
		ActorID:   "driver-1",
		ActorType: ActorDriver,
		SubjectID: subjectID,
		Timestamp: time.Now(),
	}
}

func (s *WorkerSuite) TestProcessStoresAndForwards() {
	s.worker.process(s.T().Context(), s.event("passenger-1"))

	events := s.store.All()
	s.Require().Len(events, 1)
	s.Equal("passenger-1", events[0].SubjectID)

	s.Require().Len(s.stream.keys, 1)
	s.Equal("passenger-1", s.stream.keys[0])

	var payload map[string]any
	s.Require().NoError(json.Unmarshal(s.stream.payloads[0], &payload))
	s.Equal("compliance", payload["category"])
	s.Equal("disclosure_rendered", payload["action"])
}

func (s *WorkerSuite) TestNilStreamIsSkipped() {
	worker := NewWorker(s.store, nil, s.inbox, slog.New(slog.DiscardHandler), s.metrics)
	worker.process(s.T().Context(), s.event("passenger-1"))
	s.Len(s.store.All(), 1)
}

func (s *WorkerSuite) TestBreakerOpensAfterConsecutiveFailures() {
	s.store.broken = true

	for range 5 {
		s.worker.process(s.T().Context(), s.event("passenger-1"))
	}

	s.True(s.worker.breaker.IsOpen())
	s.InDelta(5.0, promtestutil.ToFloat64(s.metrics.AuditDroppedTotal), 1e-9)
	s.Empty(s.stream.keys)
}

func (s *WorkerSuite) TestBreakerClosesOnRecovery() {
	s.store.broken = true
	for range 5 {
		s.worker.process(s.T().Context(), s.event("lost"))
	}
	s.Require().True(s.worker.breaker.IsOpen())

	s.store.broken = false
	s.worker.process(s.T().Context(), s.event("probe"))

	s.False(s.worker.breaker.IsOpen())
	events := s.store.All()
	s.Require().Len(events, 1)
	s.Equal("probe", events[0].SubjectID)
	s.Equal([]string{"probe"}, s.stream.keys)
}

func (s *WorkerSuite) TestRunDrainsUntilCancelled() {
	ctx, cancel := context.WithCancel(s.T().Context())

	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()

	s.inbox <- s.event("passenger-1")
	s.Eventually(func() bool { return len(s.store.All()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop after cancellation")
	}
}
