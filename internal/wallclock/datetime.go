package wallclock

import (
	"errors"
	"fmt"
	"time"
)

// ErrRange is returned when a date or time field is out of range.
var ErrRange = errors.New("wallclock: value out of range")

// DateTime is a broken-down wall time as an RTC keeps it. It carries no
// location; Time and FromTime treat it as UTC.
type DateTime struct {
	Year    int
	Month   int // 1..12
	Day     int // 1..days in month
	Weekday int // 0..6, 0 is Sunday
	Hour    int
	Min     int
	Sec     int
}

// FromTime breaks t down in its own location.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Weekday: int(t.Weekday()),
		Hour:    t.Hour(),
		Min:     t.Minute(),
		Sec:     t.Second(),
	}
}

// Time returns dt as a UTC time. Weekday is ignored.
func (dt DateTime) Time() time.Time {
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day, dt.Hour, dt.Min, dt.Sec, 0, time.UTC)
}

// Validate checks every field against its calendar range.
func (dt DateTime) Validate() error {
	if err := checkDate(dt.Day, dt.Month, dt.Year); err != nil {
		return err
	}
	if err := checkWeekday(dt.Weekday); err != nil {
		return err
	}
	if err := checkClock(dt.Hour, dt.Min); err != nil {
		return err
	}
	if dt.Sec < 0 || dt.Sec > 59 {
		return fmt.Errorf("%w: second %d", ErrRange, dt.Sec)
	}
	return nil
}

// String formats dt as "2006-01-02 15:04:05".
func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Min, dt.Sec)
}

// DaysIn returns the number of days in month of year.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func checkDate(day, month, year int) error {
	if year < 0 || year > 4095 {
		return fmt.Errorf("%w: year %d", ErrRange, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrRange, month)
	}
	if day < 1 || day > DaysIn(month, year) {
		return fmt.Errorf("%w: day %d of %04d-%02d", ErrRange, day, year, month)
	}
	return nil
}

func checkClock(hour, min int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrRange, hour)
	}
	if min < 0 || min > 59 {
		return fmt.Errorf("%w: minute %d", ErrRange, min)
	}
	return nil
}

func checkWeekday(wd int) error {
	if wd < 0 || wd > 6 {
		return fmt.Errorf("%w: weekday %d", ErrRange, wd)
	}
	return nil
}
