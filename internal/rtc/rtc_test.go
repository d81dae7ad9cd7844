package rtc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"github.com/sweeney/wuclock/internal/wallclock"
)

// regBus emulates an I²C device with a flat register file: the first written
// byte sets the register pointer, further bytes are stored, and reads return
// bytes from the pointer onwards.
type regBus struct {
	regs [256]byte
	txs  int
}

var _ drivers.I2C = (*regBus)(nil)

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	b.txs++
	if len(w) == 0 {
		return nil
	}
	ptr := int(w[0])
	for i, v := range w[1:] {
		b.regs[(ptr+i)%len(b.regs)] = v
	}
	for i := range r {
		r[i] = b.regs[(ptr+i)%len(b.regs)]
	}
	return nil
}

// clock is a settable host time for SoftRTC.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSoftRTCFollowsHostTime(t *testing.T) {
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSoftRTC(c.now)

	dt, err := s.DateTime()
	require.NoError(t, err)
	assert.Equal(t, wallclock.DateTime{Year: 2025, Month: 6, Day: 1, Weekday: 0, Hour: 12}, dt)

	c.t = c.t.Add(90 * time.Second)
	dt, _ = s.DateTime()
	assert.Equal(t, 1, dt.Min)
	assert.Equal(t, 30, dt.Sec)
}

func TestSoftRTCSetDateTimeKeepsTicking(t *testing.T) {
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSoftRTC(c.now)

	want := wallclock.DateTime{Year: 2030, Month: 12, Day: 31, Weekday: 2, Hour: 23, Min: 59}
	require.NoError(t, s.SetDateTime(want))

	dt, _ := s.DateTime()
	assert.Equal(t, want, dt)

	c.t = c.t.Add(time.Minute)
	dt, _ = s.DateTime()
	assert.Equal(t, wallclock.DateTime{Year: 2031, Month: 1, Day: 1, Weekday: 3}, dt)

	assert.ErrorIs(t, s.SetDateTime(wallclock.DateTime{Year: 2025, Month: 2, Day: 30}), wallclock.ErrRange)
}

func TestSoftRTCHonoursHostLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	c := &clock{t: time.Date(2025, 6, 1, 8, 15, 0, 0, loc)}
	s := NewSoftRTC(c.now)

	dt, _ := s.DateTime()
	assert.Equal(t, 8, dt.Hour, "wall time in the host zone")
}

func TestAlarmLatchesOncePerMinute(t *testing.T) {
	c := &clock{t: time.Date(2025, 6, 2, 6, 59, 50, 0, time.UTC)}
	s := NewSoftRTC(c.now)
	require.NoError(t, s.SetAlarm(wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Hour: 7}, wallclock.Daily))
	require.NoError(t, s.EnableAlarm())

	s.DateTime()
	assert.False(t, s.AlarmFired())

	c.t = c.t.Add(10 * time.Second)
	s.DateTime()
	assert.True(t, s.AlarmFired())
	assert.False(t, s.AlarmFired(), "read clears")

	c.t = c.t.Add(30 * time.Second)
	s.DateTime()
	assert.False(t, s.AlarmFired(), "same minute does not latch again")

	c.t = c.t.Add(24 * time.Hour)
	s.DateTime()
	assert.True(t, s.AlarmFired(), "daily alarm fires next day")
}

func TestAlarmKinds(t *testing.T) {
	monday := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		kind wallclock.AlarmKind
		at   wallclock.DateTime
		want bool
	}{
		{"daily", wallclock.Daily, wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Hour: 7}, true},
		{"weekly match", wallclock.Weekly, wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Weekday: 1, Hour: 7}, true},
		{"weekly other day", wallclock.Weekly, wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Weekday: 3, Hour: 7}, false},
		{"date match", wallclock.Date, wallclock.DateTime{Year: 2025, Month: 6, Day: 2, Hour: 7}, true},
		{"date other day", wallclock.Date, wallclock.DateTime{Year: 2025, Month: 6, Day: 3, Hour: 7}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSoftRTC(func() time.Time { return monday })
			require.NoError(t, s.SetAlarm(tt.at, tt.kind))
			require.NoError(t, s.EnableAlarm())
			s.DateTime()
			assert.Equal(t, tt.want, s.AlarmFired())
		})
	}
}

func TestDisabledAlarmNeverFires(t *testing.T) {
	s := NewSoftRTC(func() time.Time { return time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC) })
	require.NoError(t, s.SetAlarm(wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Hour: 7}, wallclock.Daily))

	s.DateTime()
	assert.False(t, s.AlarmFired())

	require.NoError(t, s.EnableAlarm())
	s.DateTime()
	require.NoError(t, s.DisableAlarm())
	assert.False(t, s.AlarmFired(), "disable drops a pending match")
}

var (
	_ wallclock.RTC = (*SoftRTC)(nil)
	_ wallclock.RTC = (*DS3231)(nil)
)

func TestDS3231RoundTrip(t *testing.T) {
	bus := &regBus{}
	d, err := NewDS3231(bus)
	require.NoError(t, err)

	want := wallclock.DateTime{Year: 2025, Month: 11, Day: 23, Weekday: 0, Hour: 21, Min: 7, Sec: 45}
	require.NoError(t, d.SetDateTime(want))

	got, err := d.DateTime()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, d.TimeValid())
	assert.NotZero(t, bus.txs)
}

func TestDS3231RejectsUnrepresentableYear(t *testing.T) {
	d, err := NewDS3231(&regBus{})
	require.NoError(t, err)

	err = d.SetDateTime(wallclock.DateTime{Year: 1999, Month: 1, Day: 1})
	assert.ErrorIs(t, err, wallclock.ErrRange)
}

func TestDS3231MatchesAlarmOnRead(t *testing.T) {
	d, err := NewDS3231(&regBus{})
	require.NoError(t, err)
	require.NoError(t, d.SetDateTime(wallclock.DateTime{Year: 2025, Month: 3, Day: 3, Weekday: 1, Hour: 6, Min: 30}))
	require.NoError(t, d.SetAlarm(wallclock.DateTime{Year: 2025, Month: 1, Day: 1, Hour: 6, Min: 30}, wallclock.Daily))
	require.NoError(t, d.EnableAlarm())

	assert.False(t, d.AlarmFired(), "nothing read yet")
	_, err = d.DateTime()
	require.NoError(t, err)
	assert.True(t, d.AlarmFired())
}

func TestDS3231CloseWithoutOwnedBus(t *testing.T) {
	d, err := NewDS3231(&regBus{})
	require.NoError(t, err)
	assert.NoError(t, d.Close())
}
