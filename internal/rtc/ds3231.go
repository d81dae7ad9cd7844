package rtc

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"

	"github.com/sweeney/wuclock/internal/wallclock"
)

// ErrNotFound is returned when the DS3231 does not answer.
var ErrNotFound = errors.New("rtc: ds3231 not found")

// DS3231 is a DS3231 real-time clock.
type DS3231 struct {
	alarmMatcher
	dev     ds3231.Device
	closer  io.Closer
	invalid bool // oscillator-stop already reported
}

// NewDS3231 attaches to a DS3231 on bus.
func NewDS3231(bus drivers.I2C) (*DS3231, error) {
	dev := ds3231.New(bus)
	if !dev.Configure() {
		return nil, ErrNotFound
	}
	d := &DS3231{alarmMatcher: newAlarmMatcher(), dev: dev}
	if c, ok := bus.(io.Closer); ok {
		d.closer = c
	}
	return d, nil
}

// Open opens an I²C bus device such as /dev/i2c-1 and attaches to the DS3231
// on it.
func Open(path string) (*DS3231, error) {
	bus, err := OpenBus(path)
	if err != nil {
		return nil, err
	}
	d, err := NewDS3231(bus)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return d, nil
}

// SetDateTime writes dt to the chip. The chip covers years 2000 to 2199.
func (d *DS3231) SetDateTime(dt wallclock.DateTime) error {
	if err := dt.Validate(); err != nil {
		return err
	}
	if dt.Year < 2000 || dt.Year > 2199 {
		return fmt.Errorf("%w: year %d not representable", wallclock.ErrRange, dt.Year)
	}
	if err := d.dev.SetTime(dt.Time()); err != nil {
		return fmt.Errorf("rtc: write time: %w", err)
	}
	d.invalid = false
	return nil
}

// DateTime reads the chip time and checks it against the alarm.
func (d *DS3231) DateTime() (wallclock.DateTime, error) {
	t, err := d.dev.ReadTime()
	if err != nil {
		return wallclock.DateTime{}, fmt.Errorf("rtc: read time: %w", err)
	}
	if !d.invalid && !d.dev.IsTimeValid() {
		d.invalid = true
		log.Warn().Msg("rtc: oscillator stopped, time needs setting")
	}
	dt := wallclock.FromTime(t)
	d.observe(dt)
	return dt, nil
}

// TimeValid reports whether the chip has kept time since it was last set.
func (d *DS3231) TimeValid() bool {
	return d.dev.IsTimeValid()
}

// Temperature returns the die temperature in degrees Celsius.
func (d *DS3231) Temperature() (float64, error) {
	milli, err := d.dev.ReadTemperature()
	if err != nil {
		return 0, fmt.Errorf("rtc: read temperature: %w", err)
	}
	return float64(milli) / 1000, nil
}

// Close releases the bus if Open created it.
func (d *DS3231) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
