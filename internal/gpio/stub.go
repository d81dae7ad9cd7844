//go:build !linux

package gpio

import "errors"

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort(chipName string, inputs, outputs []int) (*RealPort, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Get is not implemented on non-Linux platforms.
func (p *RealPort) Get(pin int) bool { return false }

// Put is not implemented on non-Linux platforms.
func (p *RealPort) Put(pin int, level bool) {}

// PutMasked is not implemented on non-Linux platforms.
func (p *RealPort) PutMasked(mask, value uint32) {}

// XorMasked is not implemented on non-Linux platforms.
func (p *RealPort) XorMasked(mask uint32) {}

// AckRise is not implemented on non-Linux platforms.
func (p *RealPort) AckRise(pin int) bool { return false }

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error { return nil }
