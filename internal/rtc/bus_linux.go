//go:build linux

package rtc

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// i2cSlave is I2C_SLAVE from linux/i2c-dev.h.
const i2cSlave = 0x0703

// Bus is a Linux i2c-dev character device.
type Bus struct {
	mu   sync.Mutex
	fd   int
	addr uint16
	path string
}

// OpenBus opens an i2c-dev device such as /dev/i2c-1.
func OpenBus(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("rtc: open %s: %w", path, err)
	}
	return &Bus{fd: fd, addr: 0xFFFF, path: path}, nil
}

// Tx writes w then reads into r from the device at addr.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if addr != b.addr {
		if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
			return fmt.Errorf("rtc: %s select %#x: %w", b.path, addr, err)
		}
		b.addr = addr
	}
	if len(w) > 0 {
		if _, err := unix.Write(b.fd, w); err != nil {
			return fmt.Errorf("rtc: %s write: %w", b.path, err)
		}
	}
	if len(r) > 0 {
		if _, err := unix.Read(b.fd, r); err != nil {
			return fmt.Errorf("rtc: %s read: %w", b.path, err)
		}
	}
	return nil
}

// Close closes the device.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return unix.Close(b.fd)
}
