package logic

import (
	"testing"
	"time"
)

func TestHeartbeatInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)

	if hb := h.Check(start.Add(59*time.Second), time.Minute); hb != nil {
		t.Fatal("heartbeat before interval")
	}

	hb := h.Check(start.Add(time.Minute), time.Minute)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if hb.Uptime != time.Minute {
		t.Errorf("expected uptime 1m, got %v", hb.Uptime)
	}

	if hb := h.Check(start.Add(90*time.Second), time.Minute); hb != nil {
		t.Error("heartbeat interval should restart from last heartbeat")
	}
	if hb := h.Check(start.Add(2*time.Minute), time.Minute); hb == nil {
		t.Error("expected second heartbeat")
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)
	if hb := h.Check(start.Add(time.Hour), 0); hb != nil {
		t.Error("zero interval should disable heartbeats")
	}
}

func TestHeartbeatCounts(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)

	for _, e := range []EventType{
		EventAlarmRing, EventAlarmSnooze, EventAlarmRing, EventAlarmStop,
		EventSnoozeCancel, EventTimeSet, EventAlarmSet, EventModeChange,
	} {
		h.Count(e)
	}

	want := EventCounts{Rings: 2, Snoozes: 1, Stops: 2, Settings: 2}
	if got := h.Counts(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	hb := h.Check(start.Add(time.Hour), time.Minute)
	if hb == nil || hb.Counts != want {
		t.Errorf("heartbeat should carry counts, got %+v", hb)
	}
}
