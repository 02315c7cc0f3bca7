package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphboard/internal/domain"
)

// Compile-time check: *EventWorker can stand in for any publisher.
var _ domain.EventPublisher = (*EventWorker)(nil)

// EventJob is a change event waiting to be published.
type EventJob struct {
	Type string
	Data any
}

// EventWorker queues change events and hands them to a slower publisher
// (pg_notify) from a single goroutine, so events keep mutation order and
// requests never wait on the notification round-trip.
type EventWorker struct {
	publisher domain.EventPublisher
	log       *logrus.Logger
	jobs      chan *EventJob
}

// NewEventWorker creates an EventWorker with the given queue capacity.
func NewEventWorker(publisher domain.EventPublisher, log *logrus.Logger, queueSize int) *EventWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &EventWorker{
		publisher: publisher,
		log:       log,
		jobs:      make(chan *EventJob, queueSize),
	}
}

// Publish enqueues an event. Non-blocking; drops the event if the queue is full.
func (w *EventWorker) Publish(_ context.Context, eventType string, data any) {
	select {
	case w.jobs <- &EventJob{Type: eventType, Data: data}:
	default:
		w.log.WithField("type", eventType).Warn("event queue full, dropping event")
	}
}

// Run publishes events until the context is cancelled, then drains what is left.
func (w *EventWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *EventWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *EventWorker) process(job *EventJob) {
	w.publisher.Publish(context.Background(), job.Type, job.Data)
}
