// Package logic contains the pure decision logic of the clock user interface.
// This package has NO hardware dependencies (no GPIO, RTC, MQTT or OS).
// Button events and timer expiries arrive as plain values.
package logic

import (
	"time"

	"github.com/sweeney/wuclock/internal/button"
)

// State is a top-level mode of the clock.
type State string

const (
	StateNormal   State = "NORMAL"
	StateSetTime  State = "SET_TIME"
	StateSetAlarm State = "SET_ALARM"
	StateSnooze   State = "SNOOZE"
	StateAlarm    State = "ALARM"
	StateShowDate State = "SHOW_DATE"
)

// Button identifies one of the front-panel buttons.
type Button int

const (
	ButtonSetTime Button = iota
	ButtonSetAlarm
	ButtonPlus
	ButtonMinus
	ButtonSnooze
	ButtonShowDate
	NumButtons
)

func (b Button) String() string {
	switch b {
	case ButtonSetTime:
		return "set-time"
	case ButtonSetAlarm:
		return "set-alarm"
	case ButtonPlus:
		return "plus"
	case ButtonMinus:
		return "minus"
	case ButtonSnooze:
		return "snooze"
	case ButtonShowDate:
		return "show-date"
	default:
		return "unknown"
	}
}

// Inputs is everything Next looks at for one tick.
type Inputs struct {
	// Presses holds the finished event of every button drained this tick.
	// Buttons not drained in the current state read as None.
	Presses [NumButtons]button.Event

	AlarmReady    bool // model reports a matched alarm
	SnoozeExpired bool // snooze window has elapsed
	DateTimeout   bool // show-date display time has elapsed
}

// Effect is a set of side effects the caller must apply for a transition.
type Effect uint16

const (
	CommitTime  Effect = 1 << iota // write the edited time to the RTC
	CommitAlarm                    // write the edited alarm to the RTC and arm it
	ToggleAlarm                    // arm a disarmed alarm or disarm an armed one
	CycleKind                      // switch between daily and weekly alarms
	StartSnooze
	StopSnooze
	Acknowledge // dismiss a ringing alarm
	NextWeekday // step the weekly alarm day
)

// Has reports whether e includes all of f.
func (e Effect) Has(f Effect) bool { return e&f == f }

// EventType names a published user interface event.
type EventType string

const (
	EventModeChange   EventType = "MODE_CHANGE"
	EventTimeSet      EventType = "TIME_SET"
	EventAlarmSet     EventType = "ALARM_SET"
	EventAlarmToggled EventType = "ALARM_TOGGLED"
	EventAlarmKind    EventType = "ALARM_KIND"
	EventAlarmDay     EventType = "ALARM_DAY"
	EventAlarmRing    EventType = "ALARM_RING"
	EventAlarmSnooze  EventType = "ALARM_SNOOZE"
	EventAlarmStop    EventType = "ALARM_STOP"
	EventSnoozeCancel EventType = "SNOOZE_CANCEL"
)

// Event is a transition to be published.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	From       State
	To         State
	Clock      string // wall time after the transition
	Alarm      string // alarm time, HH:MM
	AlarmKind  string
	AlarmState string
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Rings    int
	Snoozes  int
	Stops    int
	Settings int // time and alarm commits
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
