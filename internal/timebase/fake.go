package timebase

import "time"

// FakeSource is a test double whose counter only moves when told to.
type FakeSource struct {
	// Now is the current counter value in microseconds.
	Now uint64
}

// NewFakeSource creates a FakeSource starting at start microseconds.
func NewFakeSource(start uint64) *FakeSource {
	return &FakeSource{Now: start}
}

// Micros returns the scripted counter value.
func (f *FakeSource) Micros() uint64 {
	return f.Now
}

// Advance moves the counter forward by d.
func (f *FakeSource) Advance(d time.Duration) {
	f.Now += uint64(d / time.Microsecond)
}

// AdvanceMicros moves the counter forward by us microseconds.
func (f *FakeSource) AdvanceMicros(us uint64) {
	f.Now += us
}
