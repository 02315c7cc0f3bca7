package service

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestEventWorker_PublishesInOrder(t *testing.T) {
	pub := &mockPublisher{}
	w := NewEventWorker(pub, testLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	for i := range 3 {
		w.Publish(context.Background(), fmt.Sprintf("e%d", i), i)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	events := pub.getEvents()
	if len(events) != 3 {
		t.Fatalf("published %d events, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Type != fmt.Sprintf("e%d", i) {
			t.Errorf("event %d = %q", i, ev.Type)
		}
	}
}

func TestEventWorker_DropsWhenFull(t *testing.T) {
	pub := &mockPublisher{}
	w := NewEventWorker(pub, testLogger(), 2)

	w.Publish(context.Background(), "a", nil)
	w.Publish(context.Background(), "b", nil)

	done := make(chan struct{})
	go func() {
		w.Publish(context.Background(), "c", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked when queue was full")
	}

	if len(w.jobs) != 2 {
		t.Errorf("queue len = %d, want 2", len(w.jobs))
	}
}

func TestEventWorker_DrainsOnCancel(t *testing.T) {
	pub := &mockPublisher{}
	w := NewEventWorker(pub, testLogger(), 10)

	for i := range 5 {
		w.Publish(context.Background(), "drain", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	if got := len(pub.getEvents()); got != 5 {
		t.Errorf("drained %d events, want 5", got)
	}
}
