// Package timebase provides a rearmable deadline check against a monotonic
// microsecond counter. Every driver in wuclock uses it to detect periodic and
// one-shot events without blocking.
//
// A TimeBase never fires on its own. Callers poll Check and decide what to do:
// periodic users call Next after a positive Check, one-shot users call Disable.
package timebase

import "time"

// Source is a free-running monotonic microsecond counter. It is never reset
// during the lifetime of the process; wraparound is not handled.
type Source interface {
	Micros() uint64
}

// TimeBase is a deadline that is either enabled or disabled.
type TimeBase struct {
	src     Source
	next    uint64 // absolute deadline in µs
	period  uint64 // µs
	enabled bool
}

// New creates a TimeBase whose first deadline is one period from now.
func New(src Source, periodUS uint64, enabled bool) TimeBase {
	return TimeBase{
		src:     src,
		next:    src.Micros() + periodUS,
		period:  periodUS,
		enabled: enabled,
	}
}

// Check reports whether the time base is enabled and its deadline has passed.
// It has no side effects.
func (t *TimeBase) Check() bool {
	return t.enabled && t.src.Micros() >= t.next
}

// Update rearms the deadline one period from now.
func (t *TimeBase) Update() {
	t.next = t.src.Micros() + t.period
}

// Next moves the deadline one period past the previous deadline. Used after a
// positive Check it keeps a periodic cadence free of polling jitter.
func (t *TimeBase) Next() {
	t.next += t.period
}

// Enable lets Check report expiry.
func (t *TimeBase) Enable() { t.enabled = true }

// Disable makes Check report false until Enable is called.
func (t *TimeBase) Disable() { t.enabled = false }

// Enabled reports whether the time base is enabled.
func (t *TimeBase) Enabled() bool { return t.enabled }

// SetPeriod changes the period used by the next Update or Next call. The
// current deadline is left alone.
func (t *TimeBase) SetPeriod(us uint64) { t.period = us }

// Period returns the period in microseconds.
func (t *TimeBase) Period() uint64 { return t.period }

// Deadline returns the absolute deadline in microseconds.
func (t *TimeBase) Deadline() uint64 { return t.next }

// PeriodFromHz converts a frequency to a period in microseconds.
// hz must be non-zero.
func PeriodFromHz(hz uint32) uint64 {
	return 1_000_000 / uint64(hz)
}

// PeriodFromDuration converts a duration to whole microseconds.
func PeriodFromDuration(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Microsecond)
}

// MonotonicSource counts microseconds since it was created using the Go
// runtime's monotonic clock.
type MonotonicSource struct {
	start time.Time
}

// NewMonotonicSource starts a counter at zero.
func NewMonotonicSource() *MonotonicSource {
	return &MonotonicSource{start: time.Now()}
}

// Micros returns microseconds elapsed since the source was created.
func (m *MonotonicSource) Micros() uint64 {
	return uint64(time.Since(m.start) / time.Microsecond)
}
