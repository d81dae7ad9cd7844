package actuator

import (
	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

// Buzzer is an Actuator with alarm vocabulary: a beep is a pulse and ringing
// is a blink.
type Buzzer struct {
	*Actuator
}

// NewBuzzer creates a silent buzzer on pin.
func NewBuzzer(port gpio.Port, src timebase.Source, pin int) (*Buzzer, error) {
	a, err := newActuator(port, src, pin)
	if err != nil {
		return nil, err
	}
	return &Buzzer{Actuator: a}, nil
}

// Beep sounds once for the pulse period.
func (b *Buzzer) Beep() { b.Pulse() }

// ProcessBeep ends a finished beep.
func (b *Buzzer) ProcessBeep() { b.ProcessPulse() }

// StartRing sounds on and off at the blink frequency until StopRing.
func (b *Buzzer) StartRing() { b.StartBlink() }

// StopRing silences the buzzer.
func (b *Buzzer) StopRing() { b.StopBlink(false) }

// ProcessRing advances ringing.
func (b *Buzzer) ProcessRing() { b.ProcessBlink() }

// Ringing reports whether the buzzer is ringing.
func (b *Buzzer) Ringing() bool { return b.Blinking() }
