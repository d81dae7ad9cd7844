// Package actuator drives single-pin outputs such as LEDs and a buzzer. Each
// output supports a one-shot pulse and a periodic blink, both advanced by
// polling.
package actuator

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

// Defaults applied by NewLED and NewBuzzer.
const (
	DefaultPulse   = time.Second
	DefaultBlinkHz = 1
)

// Errors returned by the setters.
var (
	ErrPeriod    = errors.New("actuator: pulse period must be positive")
	ErrFrequency = errors.New("actuator: blink frequency must be positive")
)

// Actuator is one output pin with pulse and blink behaviour. Pulse and blink
// may run together; each toggles the current level when its timer fires.
type Actuator struct {
	port gpio.Port
	pin  int

	pulsePeriod time.Duration
	blinkHz     uint32

	pulse timebase.TimeBase
	blink timebase.TimeBase
}

func newActuator(port gpio.Port, src timebase.Source, pin int) (*Actuator, error) {
	if !gpio.ValidPin(pin) {
		return nil, fmt.Errorf("actuator: pin %d out of range", pin)
	}
	a := &Actuator{
		port:        port,
		pin:         pin,
		pulsePeriod: DefaultPulse,
		blinkHz:     DefaultBlinkHz,
		pulse:       timebase.New(src, timebase.PeriodFromDuration(DefaultPulse), false),
		blink:       timebase.New(src, blinkPeriod(DefaultBlinkHz), false),
	}
	a.Off()
	return a, nil
}

// NewLED creates an LED on pin, initially off.
func NewLED(port gpio.Port, src timebase.Source, pin int) (*Actuator, error) {
	return newActuator(port, src, pin)
}

// blinkPeriod is half a cycle: the level flips twice per period of hz.
func blinkPeriod(hz uint32) uint64 {
	return 1_000_000 / (2 * uint64(hz))
}

// On drives the output high. Running timers are left alone.
func (a *Actuator) On() { a.port.Put(a.pin, true) }

// Off drives the output low. Running timers are left alone.
func (a *Actuator) Off() { a.port.Put(a.pin, false) }

// Toggle inverts the output.
func (a *Actuator) Toggle() { a.port.XorMasked(gpio.Bit(a.pin)) }

// Level returns the current output level.
func (a *Actuator) Level() bool { return a.port.Get(a.pin) }

// Pulse flips the output now and arms the pulse timer to flip it back.
func (a *Actuator) Pulse() {
	a.pulse.Update()
	a.pulse.Enable()
	a.Toggle()
}

// ProcessPulse ends a pulse whose period has elapsed.
func (a *Actuator) ProcessPulse() {
	if !a.pulse.Check() {
		return
	}
	a.Toggle()
	a.pulse.Disable()
}

// StartBlink starts toggling the output at the blink frequency.
func (a *Actuator) StartBlink() {
	a.blink.Update()
	a.blink.Enable()
}

// StopBlink stops blinking and leaves the output at level.
func (a *Actuator) StopBlink(level bool) {
	a.blink.Disable()
	a.port.Put(a.pin, level)
}

// ProcessBlink toggles the output on each blink period.
func (a *Actuator) ProcessBlink() {
	if !a.blink.Check() {
		return
	}
	a.Toggle()
	a.blink.Next()
}

// Process runs both ProcessPulse and ProcessBlink.
func (a *Actuator) Process() {
	a.ProcessPulse()
	a.ProcessBlink()
}

// SetPulsePeriod sets how long a pulse lasts.
func (a *Actuator) SetPulsePeriod(d time.Duration) error {
	if d <= 0 {
		return ErrPeriod
	}
	a.pulsePeriod = d
	a.pulse.SetPeriod(timebase.PeriodFromDuration(d))
	return nil
}

// SetBlinkFreq sets the number of full on/off cycles per second.
func (a *Actuator) SetBlinkFreq(hz uint32) error {
	if hz == 0 {
		return ErrFrequency
	}
	a.blinkHz = hz
	a.blink.SetPeriod(blinkPeriod(hz))
	return nil
}

// Blinking reports whether the blink timer is running.
func (a *Actuator) Blinking() bool { return a.blink.Enabled() }

// Pulsing reports whether a pulse is in progress.
func (a *Actuator) Pulsing() bool { return a.pulse.Enabled() }

// Pin returns the output pin.
func (a *Actuator) Pin() int { return a.pin }

// PulsePeriod returns the configured pulse length.
func (a *Actuator) PulsePeriod() time.Duration { return a.pulsePeriod }

// BlinkHz returns the configured blink frequency.
func (a *Actuator) BlinkHz() uint32 { return a.blinkHz }
