package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/wuclock/internal/logic"
)

func TestQueuePublishDoesNotTouchBackend(t *testing.T) {
	f := NewFakePublisher()
	q := NewQueue(f, 8)

	q.Publish(ringEvent())
	q.PublishSystem(SystemEvent{Event: "HEARTBEAT"})

	if q.Len() != 2 {
		t.Errorf("expected 2 queued, got %d", q.Len())
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("nothing should be published before the worker runs")
	}
}

func TestQueueFlushPreservesOrder(t *testing.T) {
	f := NewFakePublisher()
	q := NewQueue(f, 8)

	types := []logic.EventType{logic.EventAlarmRing, logic.EventAlarmSnooze, logic.EventAlarmStop}
	for _, typ := range types {
		e := ringEvent()
		e.Type = typ
		q.Publish(e)
	}
	q.Flush()

	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
	if len(f.Events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(f.Events))
	}
	for i, typ := range types {
		if f.Events[i].Type != typ {
			t.Errorf("event %d: expected %s, got %s", i, typ, f.Events[i].Type)
		}
	}
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	f := NewFakePublisher()
	q := NewQueue(f, 2)

	for _, ev := range []string{"A", "B", "C"} {
		q.PublishSystem(SystemEvent{Event: ev})
	}
	q.Flush()

	if len(f.SystemEvents) != 2 {
		t.Fatalf("expected 2 events, got %d", len(f.SystemEvents))
	}
	if f.SystemEvents[0].Event != "B" || f.SystemEvents[1].Event != "C" {
		t.Errorf("expected B, C; got %s, %s", f.SystemEvents[0].Event, f.SystemEvents[1].Event)
	}
}

func TestQueueRunPublishesAndFlushesOnCancel(t *testing.T) {
	f := NewFakePublisher()
	q := NewQueue(f, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	q.Publish(ringEvent())
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	q.PublishSystem(SystemEvent{Event: "SHUTDOWN"})
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if len(f.Events) != 1 {
		t.Errorf("expected 1 event, got %d", len(f.Events))
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN flushed on cancel, got %+v", f.SystemEvents)
	}
}

func TestQueueSurvivesBackendErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("down")
	q := NewQueue(f, 8)

	q.Publish(ringEvent())
	q.PublishSystem(SystemEvent{Event: "HEARTBEAT"})
	q.Flush()

	if len(f.SystemEvents) != 1 {
		t.Error("a failed publish should not stop the rest")
	}
}

func TestQueueCloseFlushesAndCloses(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true
	q := NewQueue(f, 8)

	if !q.IsConnected() {
		t.Error("expected connection state from backend")
	}

	q.PublishSystem(SystemEvent{Event: "SHUTDOWN"})
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("backend should be closed")
	}
	if len(f.SystemEvents) != 1 {
		t.Error("pending events should be flushed before close")
	}
}
