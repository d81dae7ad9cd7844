// Package display multiplexes a row of seven-segment digits that share eight
// segment lines. One digit is lit per refresh tick; cycling fast enough makes
// every enabled digit appear lit at once. Digits can also blink on a second,
// independent cadence.
package display

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/timebase"
)

// MaxDigits is the largest number of digits a Display drives.
const MaxDigits = 18

// Default cadence.
const (
	RefreshPerDigitHz = 60
	DefaultBlinkHz    = 1
)

// Polarity selects the display wiring.
type Polarity uint8

const (
	CommonCathode Polarity = iota
	CommonAnode
)

func (p Polarity) String() string {
	if p == CommonAnode {
		return "common-anode"
	}
	return "common-cathode"
}

// Configuration errors.
var (
	ErrConfig      = errors.New("display: invalid configuration")
	ErrDigitRange  = errors.New("display: digit out of range")
	ErrSymbolRange = errors.New("display: symbol out of range")
	ErrMaskRange   = errors.New("display: mask has bits beyond configured digits")
	ErrFrequency   = errors.New("display: frequency must be positive")
)

// Config describes the wiring of a Display.
type Config struct {
	Digits      int
	Polarity    Polarity
	SegmentMask uint32 // exactly 8 pins, bit order as in Lookup
	DigitMask   uint32 // exactly Digits pins, digit 0 on the lowest
}

// Display is a time-division multiplexer for seven-segment digits.
type Display struct {
	port gpio.Port
	cfg  Config

	offPattern uint32
	lookup     [NumSymbols]uint32 // symbol -> physical segment levels
	selects    [MaxDigits]uint32  // digit -> one-hot physical select line

	codes   [MaxDigits]uint32
	symbols [MaxDigits]uint8

	active    int
	enabled   uint32
	blinking  uint32
	blinkOn   bool
	refreshHz uint32
	blinkHz   uint32
	refreshTB timebase.TimeBase
	blinkTB   timebase.TimeBase
	allDigits uint32
}

// New validates cfg, builds the physical lookup tables and drives every
// output off. Refresh does nothing until StartRefresh or On is called.
func New(port gpio.Port, src timebase.Source, cfg Config) (*Display, error) {
	if cfg.Digits < 1 || cfg.Digits > MaxDigits {
		return nil, fmt.Errorf("%w: %d digits, want 1..%d", ErrConfig, cfg.Digits, MaxDigits)
	}
	if cfg.SegmentMask&cfg.DigitMask != 0 {
		return nil, fmt.Errorf("%w: segment and digit pins overlap (%#x)", ErrConfig, cfg.SegmentMask&cfg.DigitMask)
	}
	if n := bits.OnesCount32(cfg.SegmentMask); n != 8 {
		return nil, fmt.Errorf("%w: segment mask has %d pins, want 8", ErrConfig, n)
	}
	if n := bits.OnesCount32(cfg.DigitMask); n != cfg.Digits {
		return nil, fmt.Errorf("%w: digit mask has %d pins, want %d", ErrConfig, n, cfg.Digits)
	}

	d := &Display{
		port:      port,
		cfg:       cfg,
		allDigits: uint32(1)<<uint(cfg.Digits) - 1,
		refreshHz: uint32(RefreshPerDigitHz * cfg.Digits),
		blinkHz:   DefaultBlinkHz,
	}
	if cfg.Polarity == CommonAnode {
		d.offPattern = cfg.SegmentMask
	}

	segPins := gpio.Pins(cfg.SegmentMask)
	table := Codes(cfg.Polarity)
	for sym, code := range table {
		var phys uint32
		for j, pin := range segPins {
			if code>>uint(j)&1 != 0 {
				phys |= gpio.Bit(pin)
			}
		}
		d.lookup[sym] = phys
	}
	for i, pin := range gpio.Pins(cfg.DigitMask) {
		d.selects[i] = gpio.Bit(pin)
	}

	for i := 0; i < cfg.Digits; i++ {
		d.codes[i] = d.lookup[0]
	}
	d.enabled = d.allDigits

	d.refreshTB = timebase.New(src, timebase.PeriodFromHz(d.refreshHz), false)
	d.blinkTB = timebase.New(src, timebase.PeriodFromHz(d.blinkHz), false)

	d.blank()
	return d, nil
}

// Refresh lights the next digit when the refresh period has elapsed. Call it
// on every loop iteration.
func (d *Display) Refresh() {
	if !d.refreshTB.Check() {
		return
	}
	d.refreshTB.Next()

	if d.blinkTB.Check() {
		d.blinkOn = !d.blinkOn
		d.blinkTB.Next()
	}

	show := d.ShowMask()
	if show == 0 {
		d.blank()
		return
	}

	// show is non-empty, so the search terminates.
	next := (d.active + 1) % d.cfg.Digits
	for show&(1<<uint(next)) == 0 {
		next = (next + 1) % d.cfg.Digits
	}

	d.port.PutMasked(d.cfg.SegmentMask, d.offPattern)
	d.port.PutMasked(d.cfg.DigitMask, d.selects[next])
	d.port.PutMasked(d.cfg.SegmentMask, d.codes[next])
	d.active = next
}

func (d *Display) blank() {
	d.port.PutMasked(d.cfg.DigitMask, 0)
	d.port.PutMasked(d.cfg.SegmentMask, d.offPattern)
}

// ShowMask returns the digits that are currently eligible to be lit.
func (d *Display) ShowMask() uint32 {
	show := d.enabled
	if !d.blinkOn {
		show &^= d.blinking
	}
	return show
}

// SetDigit stores the code for symbol on digit.
func (d *Display) SetDigit(digit, symbol int) error {
	if err := d.checkDigit(digit); err != nil {
		return err
	}
	if symbol < 0 || symbol >= NumSymbols {
		return fmt.Errorf("%w: %d", ErrSymbolRange, symbol)
	}
	d.codes[digit] = d.lookup[symbol]
	d.symbols[digit] = uint8(symbol)
	return nil
}

// Code returns the physical segment levels stored for digit.
func (d *Display) Code(digit int) (uint32, error) {
	if err := d.checkDigit(digit); err != nil {
		return 0, err
	}
	return d.codes[digit], nil
}

// Symbol returns the symbol last written to digit.
func (d *Display) Symbol(digit int) (int, error) {
	if err := d.checkDigit(digit); err != nil {
		return 0, err
	}
	return int(d.symbols[digit]), nil
}

// Text spells the stored symbols, most significant digit first.
func (d *Display) Text() string {
	out := make([]byte, d.cfg.Digits)
	for i := range out {
		out[i] = symbolChars[d.symbols[d.cfg.Digits-1-i]]
	}
	return string(out)
}

// Lookup returns the physical segment levels for symbol under the configured
// polarity and segment wiring. Canonical bit j (p=0 ... a=7) drives the j-th
// lowest pin of the segment mask.
func (d *Display) Lookup(symbol int) (uint32, error) {
	if symbol < 0 || symbol >= NumSymbols {
		return 0, fmt.Errorf("%w: %d", ErrSymbolRange, symbol)
	}
	return d.lookup[symbol], nil
}

// ShowNumber writes two two-digit fields, hi on digits 3-2 and lo on 1-0,
// as used for HH MM and DD MM. Digits beyond the configured count are skipped.
func (d *Display) ShowNumber(hi, lo int) error {
	vals := [4]int{lo % 10, lo / 10 % 10, hi % 10, hi / 10 % 10}
	for i, v := range vals {
		if i >= d.cfg.Digits {
			break
		}
		if err := d.SetDigit(i, v); err != nil {
			return err
		}
	}
	return nil
}

// SetBlink makes digit blink.
func (d *Display) SetBlink(digit int) error {
	if err := d.checkDigit(digit); err != nil {
		return err
	}
	d.blinking |= 1 << uint(digit)
	return nil
}

// ClearBlink stops digit from blinking.
func (d *Display) ClearBlink(digit int) error {
	if err := d.checkDigit(digit); err != nil {
		return err
	}
	d.blinking &^= 1 << uint(digit)
	return nil
}

// SetBlinkMask replaces the set of blinking digits.
func (d *Display) SetBlinkMask(mask uint32) error {
	if err := d.checkMask(mask); err != nil {
		return err
	}
	d.blinking = mask
	return nil
}

// EnableDigit adds digit to the multiplex cycle.
func (d *Display) EnableDigit(digit int) error {
	if err := d.checkDigit(digit); err != nil {
		return err
	}
	d.enabled |= 1 << uint(digit)
	return nil
}

// DisableDigit removes digit from the multiplex cycle.
func (d *Display) DisableDigit(digit int) error {
	if err := d.checkDigit(digit); err != nil {
		return err
	}
	d.enabled &^= 1 << uint(digit)
	return nil
}

// SetEnableMask replaces the set of enabled digits.
func (d *Display) SetEnableMask(mask uint32) error {
	if err := d.checkMask(mask); err != nil {
		return err
	}
	d.enabled = mask
	return nil
}

// SetRefreshFreq sets the multiplex rate in Hz (one digit per tick).
func (d *Display) SetRefreshFreq(hz uint32) error {
	if hz == 0 {
		return ErrFrequency
	}
	d.refreshHz = hz
	d.refreshTB.SetPeriod(timebase.PeriodFromHz(hz))
	return nil
}

// SetBlinkFreq sets how often blinking digits toggle, in Hz.
func (d *Display) SetBlinkFreq(hz uint32) error {
	if hz == 0 {
		return ErrFrequency
	}
	d.blinkHz = hz
	d.blinkTB.SetPeriod(timebase.PeriodFromHz(hz))
	return nil
}

// StartRefresh arms the refresh and blink time bases from now.
func (d *Display) StartRefresh() {
	d.refreshTB.Update()
	d.refreshTB.Enable()
	d.blinkTB.Update()
	d.blinkTB.Enable()
}

// StopRefresh stops multiplexing and turns every output off.
func (d *Display) StopRefresh() {
	d.refreshTB.Disable()
	d.blinkTB.Disable()
	d.blank()
}

// On enables every digit, stops them blinking and starts refreshing.
func (d *Display) On() {
	d.enabled = d.allDigits
	d.blinking &^= d.allDigits
	d.StartRefresh()
}

// Off stops refreshing and blanks the display.
func (d *Display) Off() {
	d.StopRefresh()
}

// Refreshing reports whether the refresh time base is running.
func (d *Display) Refreshing() bool { return d.refreshTB.Enabled() }

// Active returns the digit lit by the last refresh.
func (d *Display) Active() int { return d.active }

// BlinkOn reports the blink phase; false hides blinking digits.
func (d *Display) BlinkOn() bool { return d.blinkOn }

// EnableMask returns the enabled digits.
func (d *Display) EnableMask() uint32 { return d.enabled }

// BlinkMask returns the blinking digits.
func (d *Display) BlinkMask() uint32 { return d.blinking }

// Digits returns the configured digit count.
func (d *Display) Digits() int { return d.cfg.Digits }

// OffPattern returns the segment levels that light nothing.
func (d *Display) OffPattern() uint32 { return d.offPattern }

// SelectMask returns the physical select line for digit.
func (d *Display) SelectMask(digit int) (uint32, error) {
	if err := d.checkDigit(digit); err != nil {
		return 0, err
	}
	return d.selects[digit], nil
}

// RefreshHz returns the multiplex rate.
func (d *Display) RefreshHz() uint32 { return d.refreshHz }

// BlinkHz returns the blink rate.
func (d *Display) BlinkHz() uint32 { return d.blinkHz }

func (d *Display) checkDigit(digit int) error {
	if digit < 0 || digit >= d.cfg.Digits {
		return fmt.Errorf("%w: %d (have %d)", ErrDigitRange, digit, d.cfg.Digits)
	}
	return nil
}

func (d *Display) checkMask(mask uint32) error {
	if mask&^d.allDigits != 0 {
		return fmt.Errorf("%w: %#x", ErrMaskRange, mask)
	}
	return nil
}
