// Package button implements a polled push-button debouncer that classifies
// presses inside an event window as none, once, twice or many.
//
// The state machine itself (Step) is pure: it takes one sample of inputs and
// returns the next state plus the timer actions to perform. Button binds it
// to a GPIO pin and two time bases.
package button

// State is a debouncer state.
type State uint8

const (
	// Idle waits for the pin to go high.
	Idle State = iota
	// ConfirmHigh waits for the high level to hold for a debounce period.
	ConfirmHigh
	// ConfirmFalling waits for the pin to go low.
	ConfirmFalling
	// ConfirmLow waits for the low level to hold for a debounce period.
	ConfirmLow
	// WindowOpen waits for the event window to close or for another press.
	WindowOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case ConfirmHigh:
		return "CONFIRM_HIGH"
	case ConfirmFalling:
		return "CONFIRM_FALLING"
	case ConfirmLow:
		return "CONFIRM_LOW"
	case WindowOpen:
		return "WINDOW_OPEN"
	}
	return "UNKNOWN"
}

// Input is one poll's worth of observations.
type Input struct {
	Level        bool // current pin level, true = pressed
	Edge         bool // the pin changed, or a rising edge was latched, since the last poll
	DebounceDone bool // debounce time base expired
	WindowDone   bool // event window time base expired
}

// Action is a set of side effects requested by Step.
type Action uint8

const (
	// RearmDebounce restarts the debounce timer from now.
	RearmDebounce Action = 1 << iota
	// OpenWindow starts the event window from now.
	OpenWindow
	// Count registers one more press and marks the press active.
	Count
	// Release clears the press-active flag.
	Release
	// CloseWindow stops the event window.
	CloseWindow
)

// Has reports whether all bits of b are set in a.
func (a Action) Has(b Action) bool {
	return a&b == b
}

// Event classifies the number of presses seen in one event window.
type Event uint8

const (
	None Event = iota
	Once
	Twice
	Many
)

func (e Event) String() string {
	switch e {
	case None:
		return "NONE"
	case Once:
		return "ONCE"
	case Twice:
		return "TWICE"
	case Many:
		return "MANY"
	}
	return "UNKNOWN"
}

// Classify maps a press count to an Event.
func Classify(count int) Event {
	switch {
	case count <= 0:
		return None
	case count == 1:
		return Once
	case count == 2:
		return Twice
	default:
		return Many
	}
}
