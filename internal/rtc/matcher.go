// Package rtc provides real-time clock peripherals for the wall clock model:
// a DS3231 on an I²C bus and a software clock on the host time. Both match
// alarms in software when the time is read.
package rtc

import "github.com/sweeney/wuclock/internal/wallclock"

// alarmMatcher latches an alarm match at most once per matching minute.
type alarmMatcher struct {
	at      wallclock.DateTime
	kind    wallclock.AlarmKind
	enabled bool
	fired   bool
	last    int64 // minute of the last latched match, -1 for none
}

func newAlarmMatcher() alarmMatcher {
	return alarmMatcher{last: -1}
}

func (m *alarmMatcher) SetAlarm(at wallclock.DateTime, kind wallclock.AlarmKind) error {
	if err := at.Validate(); err != nil {
		return err
	}
	m.at, m.kind = at, kind
	m.last = -1
	return nil
}

func (m *alarmMatcher) EnableAlarm() error {
	m.enabled = true
	return nil
}

func (m *alarmMatcher) DisableAlarm() error {
	m.enabled = false
	m.fired = false
	return nil
}

// AlarmFired reports and clears the latched match.
func (m *alarmMatcher) AlarmFired() bool {
	fired := m.fired
	m.fired = false
	return fired
}

// observe checks now against the alarm.
func (m *alarmMatcher) observe(now wallclock.DateTime) {
	if !m.enabled || !wallclock.Matches(m.kind, m.at, now) {
		return
	}
	minute := now.Time().Unix() / 60
	if minute == m.last {
		return
	}
	m.last = minute
	m.fired = true
}
