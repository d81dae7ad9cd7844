package wallclock

// FakeRTC is an in-memory RTC for tests.
type FakeRTC struct {
	Now          DateTime
	Alarm        DateTime
	Kind         AlarmKind
	AlarmEnabled bool

	// Fired is the latched match flag returned once by AlarmFired.
	Fired bool

	// Err, when set, is returned by every method that can fail.
	Err error

	// Reads counts DateTime calls.
	Reads int
}

func (f *FakeRTC) SetDateTime(dt DateTime) error {
	if f.Err != nil {
		return f.Err
	}
	f.Now = dt
	return nil
}

func (f *FakeRTC) DateTime() (DateTime, error) {
	f.Reads++
	if f.Err != nil {
		return DateTime{}, f.Err
	}
	return f.Now, nil
}

func (f *FakeRTC) SetAlarm(at DateTime, kind AlarmKind) error {
	if f.Err != nil {
		return f.Err
	}
	f.Alarm, f.Kind = at, kind
	return nil
}

func (f *FakeRTC) EnableAlarm() error {
	if f.Err != nil {
		return f.Err
	}
	f.AlarmEnabled = true
	return nil
}

func (f *FakeRTC) DisableAlarm() error {
	if f.Err != nil {
		return f.Err
	}
	f.AlarmEnabled = false
	return nil
}

func (f *FakeRTC) AlarmFired() bool {
	fired := f.Fired
	f.Fired = false
	return fired
}
