package logic

import "time"

// Heartbeat counts published events and decides when a heartbeat is due.
type Heartbeat struct {
	startTime     time.Time
	lastHeartbeat time.Time
	counts        EventCounts
}

// NewHeartbeat creates a Heartbeat. The startTime is used for calculating
// uptime in heartbeat events.
func NewHeartbeat(startTime time.Time) *Heartbeat {
	return &Heartbeat{startTime: startTime, lastHeartbeat: startTime}
}

// Count records a published event.
func (h *Heartbeat) Count(t EventType) {
	switch t {
	case EventAlarmRing:
		h.counts.Rings++
	case EventAlarmSnooze:
		h.counts.Snoozes++
	case EventAlarmStop, EventSnoozeCancel:
		h.counts.Stops++
	case EventTimeSet, EventAlarmSet:
		h.counts.Settings++
	}
}

// Counts returns the events counted so far.
func (h *Heartbeat) Counts() EventCounts {
	return h.counts
}

// Check returns heartbeat data if the interval has elapsed since the last
// heartbeat (or startup). Returns nil if the interval has not elapsed, or if
// interval is <= 0 (disabled).
func (h *Heartbeat) Check(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(h.lastHeartbeat) < interval {
		return nil
	}

	h.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(h.startTime),
		Counts:    h.counts,
	}
}
