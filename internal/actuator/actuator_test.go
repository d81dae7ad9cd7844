package actuator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

const ledPin = gpio.DefaultPinLEDAlarm

func newTestLED(t *testing.T) (*Actuator, *gpio.FakePort, *timebase.FakeSource) {
	t.Helper()
	port := gpio.NewFakePort()
	src := timebase.NewFakeSource(0)
	led, err := NewLED(port, src, ledPin)
	require.NoError(t, err)
	return led, port, src
}

// run polls a every step until d has elapsed and returns how many times the
// output level changed.
func run(a *Actuator, src *timebase.FakeSource, d, step time.Duration) int {
	changes := 0
	last := a.Level()
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		src.Advance(step)
		a.Process()
		if a.Level() != last {
			changes++
			last = a.Level()
		}
	}
	return changes
}

func TestNewLEDStartsOff(t *testing.T) {
	port := gpio.NewFakePort()
	port.Levels = gpio.Bit(ledPin)

	led, err := NewLED(port, timebase.NewFakeSource(0), ledPin)
	require.NoError(t, err)

	assert.False(t, led.Level())
	assert.False(t, led.Blinking())
	assert.False(t, led.Pulsing())
	assert.Equal(t, DefaultPulse, led.PulsePeriod())
	assert.Equal(t, uint32(DefaultBlinkHz), led.BlinkHz())
}

func TestNewRejectsBadPin(t *testing.T) {
	_, err := NewLED(gpio.NewFakePort(), timebase.NewFakeSource(0), 32)
	assert.Error(t, err)
	_, err = NewBuzzer(gpio.NewFakePort(), timebase.NewFakeSource(0), -1)
	assert.Error(t, err)
}

func TestOnOffToggle(t *testing.T) {
	led, _, _ := newTestLED(t)

	led.On()
	assert.True(t, led.Level())
	led.Toggle()
	assert.False(t, led.Level())
	led.Toggle()
	assert.True(t, led.Level())
	led.Off()
	assert.False(t, led.Level())
}

func TestPulseRevertsOnceAndStops(t *testing.T) {
	led, _, src := newTestLED(t)
	require.NoError(t, led.SetPulsePeriod(100*time.Millisecond))

	led.Pulse()
	assert.True(t, led.Level())
	assert.True(t, led.Pulsing())

	assert.Zero(t, run(led, src, 99*time.Millisecond, time.Millisecond))
	assert.True(t, led.Level())

	assert.Equal(t, 1, run(led, src, time.Millisecond, time.Millisecond))
	assert.False(t, led.Level())
	assert.False(t, led.Pulsing())

	assert.Zero(t, run(led, src, time.Second, time.Millisecond), "timer must self-disable")
}

func TestPulseFromOnFlipsOff(t *testing.T) {
	led, _, src := newTestLED(t)
	require.NoError(t, led.SetPulsePeriod(10*time.Millisecond))
	led.On()

	led.Pulse()
	assert.False(t, led.Level())
	run(led, src, 20*time.Millisecond, time.Millisecond)
	assert.True(t, led.Level())
}

func TestBlinkCadence(t *testing.T) {
	led, _, src := newTestLED(t)
	require.NoError(t, led.SetBlinkFreq(2))

	led.StartBlink()
	// 2 Hz is four level changes per second.
	assert.Equal(t, 4, run(led, src, time.Second, time.Millisecond))
	assert.Equal(t, 40, run(led, src, 10*time.Second, time.Millisecond))
}

func TestBlinkDoesNotDriftWithLatePolls(t *testing.T) {
	led, _, src := newTestLED(t)
	require.NoError(t, led.SetBlinkFreq(5))
	led.StartBlink()

	// Polling every 7ms is late for almost every 100ms edge, but the deadline
	// advances by whole periods so the count over 7s stays exact.
	assert.Equal(t, 70, run(led, src, 7*time.Second, 7*time.Millisecond))
}

func TestStopBlinkSetsFinalLevel(t *testing.T) {
	led, _, src := newTestLED(t)
	led.StartBlink()
	run(led, src, 500*time.Millisecond, time.Millisecond)
	require.True(t, led.Level())

	led.StopBlink(false)
	assert.False(t, led.Level())
	assert.False(t, led.Blinking())
	assert.Zero(t, run(led, src, 5*time.Second, time.Millisecond))

	led.StartBlink()
	led.StopBlink(true)
	assert.True(t, led.Level())
}

func TestPulseAndBlinkCompose(t *testing.T) {
	led, _, src := newTestLED(t)
	require.NoError(t, led.SetPulsePeriod(250*time.Millisecond))
	require.NoError(t, led.SetBlinkFreq(1))

	led.StartBlink()
	led.Pulse()
	assert.True(t, led.Level())

	// Pulse flips back at 250ms, blink flips at 500ms.
	assert.Equal(t, 2, run(led, src, 500*time.Millisecond, time.Millisecond))
	assert.True(t, led.Level())
	assert.True(t, led.Blinking())
	assert.False(t, led.Pulsing())
}

func TestSettersRejectZero(t *testing.T) {
	led, _, _ := newTestLED(t)
	assert.ErrorIs(t, led.SetPulsePeriod(0), ErrPeriod)
	assert.ErrorIs(t, led.SetBlinkFreq(0), ErrFrequency)
}

func TestBuzzerRingAndBeep(t *testing.T) {
	port := gpio.NewFakePort()
	src := timebase.NewFakeSource(0)
	bz, err := NewBuzzer(port, src, gpio.DefaultPinBuzzer)
	require.NoError(t, err)
	require.NoError(t, bz.SetPulsePeriod(50*time.Millisecond))

	bz.Beep()
	assert.True(t, bz.Level())
	src.Advance(50 * time.Millisecond)
	bz.ProcessBeep()
	assert.False(t, bz.Level())

	bz.StartRing()
	assert.True(t, bz.Ringing())
	src.Advance(500 * time.Millisecond)
	bz.ProcessRing()
	assert.True(t, bz.Level())

	bz.StopRing()
	assert.False(t, bz.Ringing())
	assert.False(t, bz.Level())
	assert.False(t, port.Get(gpio.DefaultPinBuzzer))
}
