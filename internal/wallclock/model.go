// Package wallclock holds the clock and alarm settings of the appliance and
// runs the alarm lifecycle. The RTC peripheral is the source of truth for the
// current time; the model polls it on its own cadence.
package wallclock

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/wuclock/internal/timebase"
)

// Default timing.
const (
	DefaultRefresh = time.Second
	DefaultSnooze  = 5 * time.Minute
)

// ErrPeriod is returned when a refresh or snooze period is not positive.
var ErrPeriod = errors.New("wallclock: period must be positive")

// RTC is a real-time clock peripheral.
type RTC interface {
	SetDateTime(DateTime) error
	DateTime() (DateTime, error)
	SetAlarm(at DateTime, kind AlarmKind) error
	EnableAlarm() error
	DisableAlarm() error
	// AlarmFired reports and clears the latched alarm match.
	AlarmFired() bool
}

// Model is the clock and alarm state.
type Model struct {
	rtc RTC

	current DateTime
	alarm   DateTime
	kind    AlarmKind
	state   AlarmState

	refreshPeriod time.Duration
	snoozePeriod  time.Duration
	refreshTB     timebase.TimeBase
	snoozeTB      timebase.TimeBase
}

// New creates a Model at the 2025-01-01 epoch with the alarm off. The refresh
// timer starts running immediately.
func New(rtc RTC, src timebase.Source) *Model {
	epoch := DateTime{Year: 2025, Month: 1, Day: 1, Weekday: 3}
	m := &Model{
		rtc:           rtc,
		current:       epoch,
		alarm:         epoch,
		kind:          Daily,
		state:         Off,
		refreshPeriod: DefaultRefresh,
		snoozePeriod:  DefaultSnooze,
		refreshTB:     timebase.New(src, timebase.PeriodFromDuration(DefaultRefresh), false),
		snoozeTB:      timebase.New(src, timebase.PeriodFromDuration(DefaultSnooze), false),
	}
	m.refreshTB.Update()
	m.refreshTB.Enable()
	return m
}

// SetDate sets the current date. The RTC is untouched until SyncRTC.
func (m *Model) SetDate(day, month, year int) error {
	if err := checkDate(day, month, year); err != nil {
		return err
	}
	m.current.Day, m.current.Month, m.current.Year = day, month, year
	return nil
}

// SetTime sets the current hour and minute and zeroes the seconds.
func (m *Model) SetTime(hour, min int) error {
	if err := checkClock(hour, min); err != nil {
		return err
	}
	m.current.Hour, m.current.Min, m.current.Sec = hour, min, 0
	return nil
}

// SetWeekday sets the current day of the week, 0 is Sunday.
func (m *Model) SetWeekday(wd int) error {
	if err := checkWeekday(wd); err != nil {
		return err
	}
	m.current.Weekday = wd
	return nil
}

// SetAlarmDate sets the date a Date alarm fires on.
func (m *Model) SetAlarmDate(day, month, year int) error {
	if err := checkDate(day, month, year); err != nil {
		return err
	}
	m.alarm.Day, m.alarm.Month, m.alarm.Year = day, month, year
	return nil
}

// SetAlarmTime sets the alarm hour and minute.
func (m *Model) SetAlarmTime(hour, min int) error {
	if err := checkClock(hour, min); err != nil {
		return err
	}
	m.alarm.Hour, m.alarm.Min, m.alarm.Sec = hour, min, 0
	return nil
}

// SetAlarmWeekday sets the day a Weekly alarm fires on.
func (m *Model) SetAlarmWeekday(wd int) error {
	if err := checkWeekday(wd); err != nil {
		return err
	}
	m.alarm.Weekday = wd
	return nil
}

// SetAlarmKind sets which fields of the alarm must match.
func (m *Model) SetAlarmKind(kind AlarmKind) error {
	if kind < Daily || kind > Date {
		return fmt.Errorf("%w: alarm kind %d", ErrRange, kind)
	}
	m.kind = kind
	return nil
}

// AdjustTime moves the current hour and minute by delta minutes, wrapping
// within the day. The date is not changed.
func (m *Model) AdjustTime(delta int) {
	m.current.Hour, m.current.Min = addMinutes(m.current.Hour, m.current.Min, delta)
	m.current.Sec = 0
}

// AdjustAlarm moves the alarm hour and minute by delta minutes, wrapping
// within the day.
func (m *Model) AdjustAlarm(delta int) {
	m.alarm.Hour, m.alarm.Min = addMinutes(m.alarm.Hour, m.alarm.Min, delta)
}

func addMinutes(hour, min, delta int) (int, int) {
	const day = 24 * 60
	t := ((hour*60+min+delta)%day + day) % day
	return t / 60, t % 60
}

// SyncRTC writes the current date and time to the RTC.
func (m *Model) SyncRTC() error {
	if err := m.rtc.SetDateTime(m.current); err != nil {
		return fmt.Errorf("wallclock: set rtc time: %w", err)
	}
	return nil
}

// SyncAlarm writes the alarm and its kind to the RTC.
func (m *Model) SyncAlarm() error {
	if err := m.rtc.SetAlarm(m.alarm, m.kind); err != nil {
		return fmt.Errorf("wallclock: set rtc alarm: %w", err)
	}
	return nil
}

// EnableAlarm arms the alarm from any state.
func (m *Model) EnableAlarm() {
	if err := m.rtc.EnableAlarm(); err != nil {
		log.Warn().Err(err).Msg("wallclock: enable rtc alarm")
	}
	m.setState(On)
}

// DisableAlarm disarms the alarm from any state.
func (m *Model) DisableAlarm() {
	if err := m.rtc.DisableAlarm(); err != nil {
		log.Warn().Err(err).Msg("wallclock: disable rtc alarm")
	}
	m.snoozeTB.Disable()
	m.setState(Off)
}

// Refresh polls the RTC when the refresh period has elapsed. It reloads the
// current time and moves an armed alarm to Ready if the RTC reports a match.
// It returns whether a poll happened.
func (m *Model) Refresh() bool {
	if !m.refreshTB.Check() {
		return false
	}
	m.refreshTB.Next()

	dt, err := m.rtc.DateTime()
	if err != nil {
		log.Warn().Err(err).Msg("wallclock: read rtc")
	} else {
		m.current = dt
	}

	if m.rtc.AlarmFired() && m.state == On {
		m.setState(Ready)
	}
	return true
}

// Load reads the RTC immediately, outside the refresh cadence.
func (m *Model) Load() error {
	dt, err := m.rtc.DateTime()
	if err != nil {
		return fmt.Errorf("read rtc: %w", err)
	}
	m.current = dt
	return nil
}

// StartSnooze suspends the alarm for the snooze period.
func (m *Model) StartSnooze() {
	m.snoozeTB.Update()
	m.snoozeTB.Enable()
	m.setState(Suspended)
}

// SnoozeExpired reports whether a running snooze period has elapsed.
func (m *Model) SnoozeExpired() bool {
	return m.state == Suspended && m.snoozeTB.Check()
}

// StopSnooze ends a snooze. A Date alarm disarms; the others rearm.
// Outside Suspended it does nothing.
func (m *Model) StopSnooze() {
	if m.state != Suspended {
		return
	}
	m.snoozeTB.Disable()
	m.rearm()
}

// Acknowledge dismisses a Ready alarm the same way StopSnooze ends a snooze.
// Outside Ready it does nothing.
func (m *Model) Acknowledge() {
	if m.state != Ready {
		return
	}
	m.rearm()
}

func (m *Model) rearm() {
	if m.kind == Date {
		m.DisableAlarm()
		return
	}
	m.EnableAlarm()
}

func (m *Model) setState(s AlarmState) {
	if s == m.state {
		return
	}
	log.Info().Msgf("wallclock: alarm %s -> %s", m.state, s)
	m.state = s
}

// SetSnoozePeriod sets how long StartSnooze suspends the alarm.
func (m *Model) SetSnoozePeriod(d time.Duration) error {
	if d <= 0 {
		return ErrPeriod
	}
	m.snoozePeriod = d
	m.snoozeTB.SetPeriod(timebase.PeriodFromDuration(d))
	return nil
}

// SetRefreshPeriod sets how often Refresh polls the RTC.
func (m *Model) SetRefreshPeriod(d time.Duration) error {
	if d <= 0 {
		return ErrPeriod
	}
	m.refreshPeriod = d
	m.refreshTB.SetPeriod(timebase.PeriodFromDuration(d))
	return nil
}

// Now returns the last known current time.
func (m *Model) Now() DateTime { return m.current }

// Alarm returns the alarm setting.
func (m *Model) Alarm() DateTime { return m.alarm }

// AlarmKind returns the alarm kind.
func (m *Model) AlarmKind() AlarmKind { return m.kind }

// AlarmState returns the alarm lifecycle state.
func (m *Model) AlarmState() AlarmState { return m.state }

// SnoozePeriod returns the snooze length.
func (m *Model) SnoozePeriod() time.Duration { return m.snoozePeriod }

// RefreshPeriod returns the RTC poll interval.
func (m *Model) RefreshPeriod() time.Duration { return m.refreshPeriod }
