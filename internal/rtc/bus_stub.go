//go:build !linux

package rtc

import "errors"

// Bus is unavailable off Linux.
type Bus struct{}

// OpenBus always fails off Linux.
func OpenBus(path string) (*Bus, error) {
	return nil, errors.New("rtc: i2c-dev requires linux")
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return errors.New("rtc: i2c-dev requires linux")
}

func (b *Bus) Close() error { return nil }
