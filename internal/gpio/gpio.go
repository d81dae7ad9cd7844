// Package gpio provides masked GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
//
// Pins are numbered 0..31 so that a set of pins fits in a uint32 mask.
package gpio

import "math/bits"

// MaxPins is the number of pins addressable through a mask.
const MaxPins = 32

// Port is the narrow GPIO contract the drivers depend on.
// None of its methods block or fail; implementations log peripheral errors.
type Port interface {
	// Get returns the level of a pin. For outputs it is the last driven level.
	Get(pin int) bool

	// Put drives a single output pin.
	Put(pin int, level bool)

	// PutMasked drives every pin in mask to the matching bit of value.
	PutMasked(mask, value uint32)

	// XorMasked inverts every output pin in mask.
	XorMasked(mask uint32)

	// AckRise reports whether a rising edge was latched on pin since the
	// previous call, and clears the latch.
	AckRise(pin int) bool
}

// Pin definitions (BCM numbering) for the reference board. BCM 0-3 carry
// the HAT EEPROM and the I2C-1 bus of the DS3231, and BCM 14-15 the serial
// console, so none of them is used here.
const (
	DefaultPinSetTime  = 4
	DefaultPinSetAlarm = 5
	DefaultPinPlus     = 6
	DefaultPinMinus    = 7
	DefaultPinSnooze   = 12
	DefaultPinShowDate = 13

	DefaultPinBuzzer      = 20
	DefaultPinLEDAlarm    = 21
	DefaultPinLEDHourUp   = 26
	DefaultPinLEDHourDown = 27

	DefaultSegmentMask uint32 = 0x000F0F00 // BCM 8-11, 16-19
	DefaultDigitMask   uint32 = 0x03C00000 // BCM 22-25
)

// reservedMask covers the pins the defaults must stay clear of.
const reservedMask uint32 = 0x0000C00F

// Bit returns the one-hot mask for pin.
func Bit(pin int) uint32 {
	return 1 << uint(pin)
}

// Pins lists the pin numbers set in mask, lowest first.
func Pins(mask uint32) []int {
	pins := make([]int, 0, bits.OnesCount32(mask))
	for mask != 0 {
		p := bits.TrailingZeros32(mask)
		pins = append(pins, p)
		mask &^= 1 << uint(p)
	}
	return pins
}

// ValidPin reports whether pin fits in a mask.
func ValidPin(pin int) bool {
	return pin >= 0 && pin < MaxPins
}
