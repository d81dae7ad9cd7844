package wallclock

// AlarmKind selects which fields of the alarm must match the wall time.
type AlarmKind int

const (
	Daily  AlarmKind = iota // hour and minute
	Weekly                  // plus weekday
	Date                    // plus day, month and year; disarms after use
)

func (k AlarmKind) String() string {
	switch k {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Date:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// AlarmState is the alarm lifecycle.
type AlarmState int

const (
	Ready     AlarmState = iota // matched, waiting to be acknowledged
	On                          // armed
	Off                         // disarmed
	Suspended                   // snoozing
)

func (s AlarmState) String() string {
	switch s {
	case Ready:
		return "READY"
	case On:
		return "ON"
	case Off:
		return "OFF"
	case Suspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// Matches reports whether now satisfies an alarm at for kind. Seconds are
// ignored.
func Matches(kind AlarmKind, at, now DateTime) bool {
	if at.Hour != now.Hour || at.Min != now.Min {
		return false
	}
	switch kind {
	case Weekly:
		return at.Weekday == now.Weekday
	case Date:
		return at.Day == now.Day && at.Month == now.Month && at.Year == now.Year
	default:
		return true
	}
}
