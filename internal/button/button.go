package button

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

// MaxPresses is the largest press count a Button keeps. Further presses in
// the same window are not counted.
const MaxPresses = 7

// Default timing.
const (
	DefaultDebounce    = 20 * time.Millisecond
	DefaultEventWindow = 1000 * time.Millisecond
)

// ErrPeriod is returned when a debounce or window period is not positive.
var ErrPeriod = errors.New("button: period must be positive")

// Button debounces one input pin and counts presses per event window.
type Button struct {
	port gpio.Port
	pin  int

	state     State
	count     int
	pressed   bool // debounce sequence in progress
	lastLevel bool

	debounce timebase.TimeBase
	window   timebase.TimeBase
}

// New binds a Button to pin with the default debounce and window periods.
func New(port gpio.Port, src timebase.Source, pin int) (*Button, error) {
	if !gpio.ValidPin(pin) {
		return nil, fmt.Errorf("button: pin %d out of range", pin)
	}
	return &Button{
		port:     port,
		pin:      pin,
		debounce: timebase.New(src, timebase.PeriodFromDuration(DefaultDebounce), false),
		window:   timebase.New(src, timebase.PeriodFromDuration(DefaultEventWindow), false),
	}, nil
}

// Process samples the pin once and advances the state machine. Call it on
// every loop iteration; it never blocks.
func (b *Button) Process() {
	level := b.port.Get(b.pin)
	rise := b.port.AckRise(b.pin)

	in := Input{
		Level:        level,
		Edge:         rise || level != b.lastLevel,
		DebounceDone: b.debounce.Check(),
		WindowDone:   b.window.Check(),
	}
	b.lastLevel = level

	next, act := Step(b.state, in)
	b.apply(act)
	b.state = next
}

func (b *Button) apply(act Action) {
	if act.Has(RearmDebounce) {
		b.debounce.Update()
		b.debounce.Enable()
	}
	if act.Has(OpenWindow) {
		b.window.Update()
		b.window.Enable()
	}
	if act.Has(Count) {
		b.pressed = true
		if b.count < MaxPresses {
			b.count++
		}
	}
	if act.Has(Release) {
		b.pressed = false
		b.debounce.Disable()
	}
	if act.Has(CloseWindow) {
		b.window.Disable()
	}
}

// Event classifies the current press count. It does not reset the count.
func (b *Button) Event() Event {
	return Classify(b.count)
}

// ClearEvent resets the press count.
func (b *Button) ClearEvent() {
	b.count = 0
}

// Count returns the raw press count.
func (b *Button) Count() int { return b.count }

// Pressed reports whether a press is still being debounced.
func (b *Button) Pressed() bool { return b.pressed }

// State returns the current debouncer state.
func (b *Button) State() State { return b.state }

// Pin returns the input pin.
func (b *Button) Pin() int { return b.pin }

// Finished reports whether the last event window has closed with at least
// one press counted.
func (b *Button) Finished() bool {
	return b.state == Idle && b.count > 0
}

// SetDebouncePeriod sets how long a level must hold to be accepted.
func (b *Button) SetDebouncePeriod(d time.Duration) error {
	if d <= 0 {
		return ErrPeriod
	}
	b.debounce.SetPeriod(timebase.PeriodFromDuration(d))
	return nil
}

// SetEventPeriod sets the window during which presses are coalesced.
func (b *Button) SetEventPeriod(d time.Duration) error {
	if d <= 0 {
		return ErrPeriod
	}
	b.window.SetPeriod(timebase.PeriodFromDuration(d))
	return nil
}
