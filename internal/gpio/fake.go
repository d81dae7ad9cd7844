package gpio

// Write records one PutMasked or XorMasked call on a FakePort.
type Write struct {
	Mask  uint32
	Value uint32 // resulting levels of the pins in Mask
}

// FakePort is a test double holding pin levels in memory.
type FakePort struct {
	// Levels holds the current level of every pin.
	Levels uint32

	// Writes logs every masked write in call order.
	Writes []Write

	// rises holds latched rising edges not yet acknowledged.
	rises uint32
}

// NewFakePort creates a FakePort with every pin low.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// Get returns the stored level of pin.
func (f *FakePort) Get(pin int) bool {
	return f.Levels&Bit(pin) != 0
}

// Put drives a single pin.
func (f *FakePort) Put(pin int, level bool) {
	var v uint32
	if level {
		v = Bit(pin)
	}
	f.PutMasked(Bit(pin), v)
}

// PutMasked drives the pins in mask.
func (f *FakePort) PutMasked(mask, value uint32) {
	f.Levels = (f.Levels &^ mask) | (value & mask)
	f.Writes = append(f.Writes, Write{Mask: mask, Value: f.Levels & mask})
}

// XorMasked inverts the pins in mask.
func (f *FakePort) XorMasked(mask uint32) {
	f.Levels ^= mask
	f.Writes = append(f.Writes, Write{Mask: mask, Value: f.Levels & mask})
}

// AckRise reports and clears a latched rising edge.
func (f *FakePort) AckRise(pin int) bool {
	b := Bit(pin)
	hit := f.rises&b != 0
	f.rises &^= b
	return hit
}

// SetInput simulates an external signal on pin. A low to high change latches
// a rising edge, as the hardware edge detector would.
func (f *FakePort) SetInput(pin int, level bool) {
	b := Bit(pin)
	if level && f.Levels&b == 0 {
		f.rises |= b
	}
	if level {
		f.Levels |= b
	} else {
		f.Levels &^= b
	}
}

// Glitch simulates a pulse too short to be seen by polling: the level ends
// where it started but the rising edge stays latched.
func (f *FakePort) Glitch(pin int) {
	f.rises |= Bit(pin)
}

// Masked returns the current levels of the pins in mask.
func (f *FakePort) Masked(mask uint32) uint32 {
	return f.Levels & mask
}

// ResetWrites clears the write log.
func (f *FakePort) ResetWrites() {
	f.Writes = nil
}
