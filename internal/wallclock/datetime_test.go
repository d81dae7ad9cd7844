package wallclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromTime(t *testing.T) {
	tm := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	dt := FromTime(tm)

	assert.Equal(t, DateTime{Year: 2025, Month: 3, Day: 14, Weekday: 5, Hour: 15, Min: 9, Sec: 26}, dt)
	assert.True(t, dt.Time().Equal(tm))
	assert.Equal(t, "2025-03-14 15:09:26", dt.String())
	assert.NoError(t, dt.Validate())
}

func TestValidate(t *testing.T) {
	ok := DateTime{Year: 2024, Month: 2, Day: 29, Weekday: 4, Hour: 12}
	assert.NoError(t, ok.Validate())

	bad := []DateTime{
		{Year: 2023, Month: 2, Day: 29},
		{Year: 2025, Month: 0, Day: 1},
		{Year: 2025, Month: 1, Day: 1, Weekday: 7},
		{Year: 2025, Month: 1, Day: 1, Hour: 24},
		{Year: 2025, Month: 1, Day: 1, Sec: 60},
		{Year: 5000, Month: 1, Day: 1},
	}
	for _, dt := range bad {
		assert.ErrorIs(t, dt.Validate(), ErrRange, dt.String())
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(1, 2025))
	assert.Equal(t, 28, DaysIn(2, 2025))
	assert.Equal(t, 29, DaysIn(2, 2000))
	assert.Equal(t, 30, DaysIn(11, 2025))
}

func TestMatches(t *testing.T) {
	alarm := DateTime{Year: 2025, Month: 6, Day: 16, Weekday: 1, Hour: 6, Min: 30}
	sameTime := DateTime{Year: 2025, Month: 6, Day: 17, Weekday: 2, Hour: 6, Min: 30, Sec: 12}
	sameDay := DateTime{Year: 2025, Month: 6, Day: 23, Weekday: 1, Hour: 6, Min: 30}

	assert.True(t, Matches(Daily, alarm, sameTime))
	assert.False(t, Matches(Weekly, alarm, sameTime))
	assert.True(t, Matches(Weekly, alarm, sameDay))
	assert.False(t, Matches(Date, alarm, sameDay))
	assert.True(t, Matches(Date, alarm, alarm))

	later := sameTime
	later.Min = 31
	assert.False(t, Matches(Daily, alarm, later))
}

func TestKindAndStateStrings(t *testing.T) {
	assert.Equal(t, "WEEKLY", Weekly.String())
	assert.Equal(t, "SUSPENDED", Suspended.String())
	assert.Equal(t, "UNKNOWN", AlarmState(-1).String())
}
