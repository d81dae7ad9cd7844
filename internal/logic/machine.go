package logic

import "github.com/sweeney/wuclock/internal/button"

// drained lists the buttons whose events each state consumes. Presses on
// other buttons stay counted in the button until a state that drains it.
var drained = map[State][]Button{
	StateNormal:   {ButtonSetTime, ButtonSetAlarm, ButtonShowDate},
	StateSetTime:  {ButtonSetTime, ButtonPlus, ButtonMinus},
	StateSetAlarm: {ButtonSetAlarm, ButtonPlus, ButtonMinus, ButtonSnooze, ButtonShowDate},
	StateAlarm:    {ButtonSetAlarm, ButtonSnooze},
	StateSnooze:   {ButtonSetAlarm},
	StateShowDate: {ButtonShowDate},
}

// Drained returns the buttons whose events s consumes.
func Drained(s State) []Button {
	return drained[s]
}

// Next returns the state that follows s for in, and the effects to apply.
func Next(s State, in Inputs) (State, Effect) {
	p := in.Presses
	switch s {
	case StateNormal:
		switch {
		case in.AlarmReady:
			return StateAlarm, 0
		case p[ButtonSetTime] == button.Once:
			return StateSetTime, 0
		case p[ButtonSetAlarm] == button.Once:
			return StateSetAlarm, 0
		case p[ButtonSetAlarm] == button.Twice:
			return StateNormal, ToggleAlarm
		case p[ButtonShowDate] == button.Once:
			return StateShowDate, 0
		}

	case StateSetTime:
		if p[ButtonSetTime] == button.Once {
			return StateNormal, CommitTime
		}

	case StateSetAlarm:
		switch {
		case p[ButtonSetAlarm] == button.Once:
			return StateNormal, CommitAlarm
		case p[ButtonSnooze] == button.Once:
			return StateSetAlarm, CycleKind
		case p[ButtonShowDate] == button.Once:
			return StateSetAlarm, NextWeekday
		}

	case StateAlarm:
		switch {
		case p[ButtonSnooze] != button.None:
			return StateSnooze, StartSnooze
		case p[ButtonSetAlarm] != button.None:
			return StateNormal, Acknowledge
		}

	case StateSnooze:
		switch {
		case p[ButtonSetAlarm] != button.None:
			return StateNormal, StopSnooze
		case in.SnoozeExpired:
			return StateAlarm, StopSnooze
		}

	case StateShowDate:
		switch {
		case in.AlarmReady:
			return StateAlarm, 0
		case p[ButtonShowDate] == button.Once, in.DateTimeout:
			return StateNormal, 0
		}
	}
	return s, 0
}

// Adjustment returns the minutes to add for plus and minus presses: one
// press is a minute, two are ten and more are an hour.
func Adjustment(plus, minus button.Event) int {
	return step(plus) - step(minus)
}

func step(e button.Event) int {
	switch e {
	case button.Once:
		return 1
	case button.Twice:
		return 10
	case button.Many:
		return 60
	default:
		return 0
	}
}

// Classify names the event published for a transition. It returns false when
// nothing observable happened.
func Classify(from, to State, eff Effect) (EventType, bool) {
	if from == to && eff == 0 {
		return "", false
	}
	switch {
	case eff.Has(CommitTime):
		return EventTimeSet, true
	case eff.Has(CommitAlarm):
		return EventAlarmSet, true
	case eff.Has(ToggleAlarm):
		return EventAlarmToggled, true
	case eff.Has(CycleKind):
		return EventAlarmKind, true
	case eff.Has(NextWeekday):
		return EventAlarmDay, true
	case to == StateAlarm && from != StateAlarm:
		return EventAlarmRing, true
	case to == StateSnooze:
		return EventAlarmSnooze, true
	case from == StateAlarm:
		return EventAlarmStop, true
	case from == StateSnooze:
		return EventSnoozeCancel, true
	case from != to:
		return EventModeChange, true
	}
	return "", false
}
