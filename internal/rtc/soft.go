package rtc

import (
	"time"

	"github.com/sweeney/wuclock/internal/wallclock"
)

// SoftRTC keeps wall time as an offset from the host clock. It is used when
// no hardware RTC is fitted.
type SoftRTC struct {
	alarmMatcher
	now    func() time.Time
	offset time.Duration
}

// NewSoftRTC creates a SoftRTC reading the host clock through now. A nil now
// uses time.Now.
func NewSoftRTC(now func() time.Time) *SoftRTC {
	if now == nil {
		now = time.Now
	}
	return &SoftRTC{alarmMatcher: newAlarmMatcher(), now: now}
}

// wall returns the host local wall time with the location stripped.
func (s *SoftRTC) wall() time.Time {
	return wallclock.FromTime(s.now()).Time()
}

// SetDateTime moves the clock to dt.
func (s *SoftRTC) SetDateTime(dt wallclock.DateTime) error {
	if err := dt.Validate(); err != nil {
		return err
	}
	s.offset = dt.Time().Sub(s.wall())
	return nil
}

// DateTime returns the current time and checks it against the alarm.
func (s *SoftRTC) DateTime() (wallclock.DateTime, error) {
	dt := wallclock.FromTime(s.wall().Add(s.offset))
	s.observe(dt)
	return dt, nil
}

// Offset returns the difference from host time set by SetDateTime.
func (s *SoftRTC) Offset() time.Duration { return s.offset }
