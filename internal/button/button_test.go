package button

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

const (
	testPin  = 4
	pollStep = 100 * time.Microsecond
)

// rig drives a Button from a fake port and a fake clock, polling every
// pollStep like a busy main loop would.
type rig struct {
	t    *testing.T
	port *gpio.FakePort
	src  *timebase.FakeSource
	b    *Button
}

func newRig(t *testing.T) *rig {
	t.Helper()
	port := gpio.NewFakePort()
	src := timebase.NewFakeSource(0)
	b, err := New(port, src, testPin)
	require.NoError(t, err)
	return &rig{t: t, port: port, src: src, b: b}
}

func (r *rig) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += pollStep {
		r.src.Advance(pollStep)
		r.b.Process()
	}
}

func (r *rig) level(high bool, hold time.Duration) {
	r.port.SetInput(testPin, high)
	r.run(hold)
}

// press holds the button for hold then releases it and waits gap.
func (r *rig) press(hold, gap time.Duration) {
	r.level(true, hold)
	r.level(false, gap)
}

func TestSinglePressIsOnce(t *testing.T) {
	r := newRig(t)

	r.press(50*time.Millisecond, 1200*time.Millisecond)

	assert.Equal(t, Once, r.b.Event())
	assert.Equal(t, Idle, r.b.State())
	assert.True(t, r.b.Finished())
	assert.False(t, r.b.Pressed())
}

func TestTwoPressesInWindowIsTwice(t *testing.T) {
	r := newRig(t)

	r.press(50*time.Millisecond, 200*time.Millisecond)
	r.press(50*time.Millisecond, 1200*time.Millisecond)

	assert.Equal(t, Twice, r.b.Event())
	assert.Equal(t, 2, r.b.Count())
}

func TestFourPressesIsMany(t *testing.T) {
	r := newRig(t)

	for i := 0; i < 3; i++ {
		r.press(50*time.Millisecond, 100*time.Millisecond)
	}
	r.press(50*time.Millisecond, 1200*time.Millisecond)

	assert.Equal(t, Many, r.b.Event())
	assert.Equal(t, 4, r.b.Count())
}

func TestPressesInSeparateWindowsAccumulateUntilCleared(t *testing.T) {
	r := newRig(t)

	r.press(50*time.Millisecond, 1200*time.Millisecond)
	require.Equal(t, Once, r.b.Event())

	// Not cleared: the next window adds to the same count.
	r.press(50*time.Millisecond, 1200*time.Millisecond)
	assert.Equal(t, Twice, r.b.Event())

	r.b.ClearEvent()
	assert.Equal(t, None, r.b.Event())
	assert.False(t, r.b.Finished())
}

func TestEventDoesNotClearCount(t *testing.T) {
	r := newRig(t)
	r.press(50*time.Millisecond, 1200*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Once, r.b.Event())
	}
	assert.Equal(t, 1, r.b.Count())
}

func TestCountVisibleWhileWindowOpen(t *testing.T) {
	r := newRig(t)

	r.press(50*time.Millisecond, 100*time.Millisecond)

	assert.Equal(t, WindowOpen, r.b.State())
	assert.Equal(t, Once, r.b.Event())
	assert.False(t, r.b.Finished(), "window still open")
}

func TestBounceInsideDebounceWindowDoesNotChangeClassification(t *testing.T) {
	clean := newRig(t)
	clean.press(50*time.Millisecond, 1200*time.Millisecond)

	noisy := newRig(t)
	// Contact bounce on press, every phase shorter than the 20ms debounce.
	noisy.level(true, 2*time.Millisecond)
	noisy.level(false, 1*time.Millisecond)
	noisy.level(true, 3*time.Millisecond)
	noisy.level(false, 1*time.Millisecond)
	noisy.level(true, 43*time.Millisecond)
	// Contact bounce on release.
	noisy.level(false, 1*time.Millisecond)
	noisy.level(true, 2*time.Millisecond)
	noisy.level(false, 1200*time.Millisecond)

	assert.Equal(t, clean.b.Event(), noisy.b.Event())
	assert.Equal(t, Once, noisy.b.Event())
}

func TestLatchedGlitchRestartsDebounceOnly(t *testing.T) {
	r := newRig(t)

	r.level(true, 10*time.Millisecond)
	require.Equal(t, ConfirmHigh, r.b.State())
	windowDeadline := r.b.window.Deadline()
	debounceDeadline := r.b.debounce.Deadline()

	// A pulse too short for polling to see is still caught by the edge latch.
	r.port.Glitch(testPin)
	r.run(pollStep)

	assert.Equal(t, ConfirmHigh, r.b.State())
	assert.Greater(t, r.b.debounce.Deadline(), debounceDeadline)
	assert.Equal(t, windowDeadline, r.b.window.Deadline())
	assert.Equal(t, 1, r.b.Count())
}

func TestHeldButtonCountsOnce(t *testing.T) {
	r := newRig(t)

	r.level(true, 3*time.Second)
	assert.Equal(t, ConfirmFalling, r.b.State())
	assert.True(t, r.b.Pressed())

	r.level(false, 50*time.Millisecond)
	assert.Equal(t, Idle, r.b.State(), "window expired while held")
	assert.Equal(t, Once, r.b.Event())
}

func TestCountSaturates(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.b.SetEventPeriod(5*time.Second))

	for i := 0; i < MaxPresses+3; i++ {
		r.press(40*time.Millisecond, 40*time.Millisecond)
	}
	r.run(6 * time.Second)

	assert.Equal(t, MaxPresses, r.b.Count())
	assert.Equal(t, Many, r.b.Event())
}

func TestShortWindowSplitsPresses(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.b.SetEventPeriod(100*time.Millisecond))

	r.press(30*time.Millisecond, 200*time.Millisecond)
	require.Equal(t, Idle, r.b.State())
	require.Equal(t, Once, r.b.Event())
	r.b.ClearEvent()

	r.press(30*time.Millisecond, 200*time.Millisecond)
	assert.Equal(t, Once, r.b.Event())
}

func TestSetPeriodsRejectNonPositive(t *testing.T) {
	r := newRig(t)
	assert.ErrorIs(t, r.b.SetDebouncePeriod(0), ErrPeriod)
	assert.ErrorIs(t, r.b.SetEventPeriod(-time.Second), ErrPeriod)
	assert.NoError(t, r.b.SetDebouncePeriod(5*time.Millisecond))
}

func TestNewRejectsBadPin(t *testing.T) {
	_, err := New(gpio.NewFakePort(), timebase.NewFakeSource(0), 40)
	assert.Error(t, err)
}
