//go:build linux

package gpio

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/atomic"
)

// RealPort drives actual hardware through the Linux GPIO character device.
// Inputs latch rising edges from the kernel event stream; outputs keep a
// shadow register so masked writes never read back from the chip.
type RealPort struct {
	chip    *gpiocdev.Chip
	lines   [MaxPins]*gpiocdev.Line
	inputs  uint32
	outputs uint32
	shadow  uint32
	rises   atomic.Uint32
}

// NewRealPort opens chipName and requests the given input and output pins.
// Inputs get a pull-down and rising-edge detection, matching buttons wired
// to the supply rail. Outputs start low.
func NewRealPort(chipName string, inputs, outputs []int) (*RealPort, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	p := &RealPort{chip: chip}

	for _, pin := range inputs {
		if err := p.claim(pin); err != nil {
			p.Close()
			return nil, err
		}
		line, err := chip.RequestLine(pin,
			gpiocdev.AsInput,
			gpiocdev.WithPullDown,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(p.handleEdge))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request input pin %d: %w", pin, err)
		}
		p.lines[pin] = line
		p.inputs |= Bit(pin)
	}

	for _, pin := range outputs {
		if err := p.claim(pin); err != nil {
			p.Close()
			return nil, err
		}
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request output pin %d: %w", pin, err)
		}
		p.lines[pin] = line
		p.outputs |= Bit(pin)
	}

	return p, nil
}

func (p *RealPort) claim(pin int) error {
	if !ValidPin(pin) {
		return fmt.Errorf("pin %d out of range 0..%d", pin, MaxPins-1)
	}
	if p.lines[pin] != nil {
		return fmt.Errorf("pin %d requested twice", pin)
	}
	return nil
}

// handleEdge runs on the gpiocdev event goroutine.
func (p *RealPort) handleEdge(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventRisingEdge || !ValidPin(evt.Offset) {
		return
	}
	b := Bit(evt.Offset)
	for {
		old := p.rises.Load()
		if p.rises.CompareAndSwap(old, old|b) {
			return
		}
	}
}

// Get returns the level of pin. Outputs report the shadow register.
func (p *RealPort) Get(pin int) bool {
	if !ValidPin(pin) {
		return false
	}
	b := Bit(pin)
	if p.outputs&b != 0 {
		return p.shadow&b != 0
	}
	line := p.lines[pin]
	if line == nil {
		return false
	}
	v, err := line.Value()
	if err != nil {
		log.Warn().Err(err).Msgf("gpio: read pin %d", pin)
		return false
	}
	return v != 0
}

// Put drives a single output pin.
func (p *RealPort) Put(pin int, level bool) {
	if !ValidPin(pin) {
		return
	}
	var v uint32
	if level {
		v = Bit(pin)
	}
	p.PutMasked(Bit(pin), v)
}

// PutMasked drives the output pins in mask. Pins that did not change are not
// written.
func (p *RealPort) PutMasked(mask, value uint32) {
	mask &= p.outputs
	next := (p.shadow &^ mask) | (value & mask)
	p.apply(mask & (next ^ p.shadow))
	p.shadow = next
}

// XorMasked inverts the output pins in mask.
func (p *RealPort) XorMasked(mask uint32) {
	mask &= p.outputs
	p.shadow ^= mask
	p.apply(mask)
}

// AckRise reports and clears a latched rising edge.
func (p *RealPort) AckRise(pin int) bool {
	if !ValidPin(pin) {
		return false
	}
	b := Bit(pin)
	for {
		old := p.rises.Load()
		if p.rises.CompareAndSwap(old, old&^b) {
			return old&b != 0
		}
	}
}

func (p *RealPort) apply(changed uint32) {
	for _, pin := range Pins(changed) {
		v := 0
		if p.shadow&Bit(pin) != 0 {
			v = 1
		}
		if err := p.lines[pin].SetValue(v); err != nil {
			log.Warn().Err(err).Msgf("gpio: write pin %d", pin)
		}
	}
}

// Close releases GPIO resources.
// Every line is reconfigured to input with pull-down (matching Pi boot
// defaults) before closing so the display and buzzer are left unpowered.
func (p *RealPort) Close() error {
	var errs []error
	for pin, line := range p.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
		p.lines[pin] = nil
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
