// Package ui runs the clock front panel: it polls the buttons, display,
// actuators and clock model once per loop iteration and moves between the
// top-level modes decided by package logic.
package ui

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/wuclock/internal/actuator"
	"github.com/sweeney/wuclock/internal/button"
	"github.com/sweeney/wuclock/internal/display"
	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/logic"
	"github.com/sweeney/wuclock/internal/timebase"
	"github.com/sweeney/wuclock/internal/wallclock"
)

// DefaultShowDate is how long the date stays on screen.
const DefaultShowDate = 3 * time.Second

// Config holds the front panel wiring and timing.
type Config struct {
	Buttons     [logic.NumButtons]int
	LEDAlarm    int
	LEDHourUp   int
	LEDHourDown int
	Buzzer      int
	Display     display.Config

	Debounce    time.Duration // zero keeps the button default
	EventWindow time.Duration // zero keeps the button default
	ShowDate    time.Duration // zero means DefaultShowDate
}

// DefaultConfig returns the stock board wiring.
func DefaultConfig() Config {
	return Config{
		Buttons: [logic.NumButtons]int{
			logic.ButtonSetTime:  gpio.DefaultPinSetTime,
			logic.ButtonSetAlarm: gpio.DefaultPinSetAlarm,
			logic.ButtonPlus:     gpio.DefaultPinPlus,
			logic.ButtonMinus:    gpio.DefaultPinMinus,
			logic.ButtonSnooze:   gpio.DefaultPinSnooze,
			logic.ButtonShowDate: gpio.DefaultPinShowDate,
		},
		LEDAlarm:    gpio.DefaultPinLEDAlarm,
		LEDHourUp:   gpio.DefaultPinLEDHourUp,
		LEDHourDown: gpio.DefaultPinLEDHourDown,
		Buzzer:      gpio.DefaultPinBuzzer,
		Display: display.Config{
			Digits:      4,
			Polarity:    display.CommonAnode,
			SegmentMask: gpio.DefaultSegmentMask,
			DigitMask:   gpio.DefaultDigitMask,
		},
		ShowDate: DefaultShowDate,
	}
}

// InputPins returns every input pin in cfg.
func (c Config) InputPins() []int {
	return append([]int(nil), c.Buttons[:]...)
}

// OutputPins returns every output pin in cfg.
func (c Config) OutputPins() []int {
	pins := []int{c.LEDAlarm, c.LEDHourUp, c.LEDHourDown, c.Buzzer}
	pins = append(pins, gpio.Pins(c.Display.SegmentMask)...)
	return append(pins, gpio.Pins(c.Display.DigitMask)...)
}

// Watch is the clock front panel.
type Watch struct {
	buttons  [logic.NumButtons]*button.Button
	ledAlarm *actuator.Actuator
	ledUp    *actuator.Actuator
	ledDown  *actuator.Actuator
	buzzer   *actuator.Buzzer
	disp     *display.Display
	model    *wallclock.Model

	state  logic.State
	dateTB timebase.TimeBase
	hooks  []func(logic.Event)
}

// New builds every driver on port and src. Configuration errors are returned
// unchanged so callers can match them.
func New(port gpio.Port, src timebase.Source, model *wallclock.Model, cfg Config) (*Watch, error) {
	w := &Watch{model: model, state: logic.StateNormal}

	for i, pin := range cfg.Buttons {
		b, err := button.New(port, src, pin)
		if err != nil {
			return nil, fmt.Errorf("ui: %s button: %w", logic.Button(i), err)
		}
		if cfg.Debounce > 0 {
			if err := b.SetDebouncePeriod(cfg.Debounce); err != nil {
				return nil, err
			}
		}
		if cfg.EventWindow > 0 {
			if err := b.SetEventPeriod(cfg.EventWindow); err != nil {
				return nil, err
			}
		}
		w.buttons[i] = b
	}

	var err error
	if w.ledAlarm, err = actuator.NewLED(port, src, cfg.LEDAlarm); err != nil {
		return nil, fmt.Errorf("ui: alarm led: %w", err)
	}
	if w.ledUp, err = actuator.NewLED(port, src, cfg.LEDHourUp); err != nil {
		return nil, fmt.Errorf("ui: hour-up led: %w", err)
	}
	if w.ledDown, err = actuator.NewLED(port, src, cfg.LEDHourDown); err != nil {
		return nil, fmt.Errorf("ui: hour-down led: %w", err)
	}
	if w.buzzer, err = actuator.NewBuzzer(port, src, cfg.Buzzer); err != nil {
		return nil, fmt.Errorf("ui: buzzer: %w", err)
	}
	for _, a := range []*actuator.Actuator{w.ledUp, w.ledDown} {
		if err := a.SetPulsePeriod(200 * time.Millisecond); err != nil {
			return nil, err
		}
	}
	if err := w.ledAlarm.SetBlinkFreq(2); err != nil {
		return nil, err
	}
	if err := w.buzzer.SetBlinkFreq(2); err != nil {
		return nil, err
	}

	if w.disp, err = display.New(port, src, cfg.Display); err != nil {
		return nil, err
	}

	showDate := cfg.ShowDate
	if showDate <= 0 {
		showDate = DefaultShowDate
	}
	w.dateTB = timebase.New(src, timebase.PeriodFromDuration(showDate), false)
	return w, nil
}

// OnTransition registers fn to be called for every published event.
func (w *Watch) OnTransition(fn func(logic.Event)) {
	w.hooks = append(w.hooks, fn)
}

// Start lights the display in Normal mode.
func (w *Watch) Start() {
	w.enter(logic.StateNormal)
	w.disp.On()
	w.render()
}

// Stop turns every output off.
func (w *Watch) Stop() {
	w.disp.Off()
	w.buzzer.StopRing()
	w.ledAlarm.StopBlink(false)
	w.ledUp.Off()
	w.ledDown.Off()
}

// Process runs one loop iteration. It never blocks.
func (w *Watch) Process() {
	w.disp.Refresh()
	for _, b := range w.buttons {
		b.Process()
	}

	var in logic.Inputs
	for _, id := range logic.Drained(w.state) {
		b := w.buttons[id]
		if b.Finished() {
			in.Presses[id] = b.Event()
			b.ClearEvent()
		}
	}

	w.ledAlarm.Process()
	w.ledUp.Process()
	w.ledDown.Process()
	w.buzzer.Process()

	// Polling the RTC while editing would overwrite the edit.
	if w.state != logic.StateSetTime {
		w.model.Refresh()
	}
	in.AlarmReady = w.model.AlarmState() == wallclock.Ready
	in.SnoozeExpired = w.model.SnoozeExpired()
	in.DateTimeout = w.state == logic.StateShowDate && w.dateTB.Check()

	w.adjust(in.Presses[logic.ButtonPlus], in.Presses[logic.ButtonMinus])

	next, eff := logic.Next(w.state, in)
	w.apply(eff)
	from := w.state
	if next != from {
		w.enter(next)
	}
	if typ, ok := logic.Classify(from, next, eff); ok {
		w.emit(typ, from, next)
	}
	w.render()
}

func (w *Watch) adjust(plus, minus button.Event) {
	delta := logic.Adjustment(plus, minus)
	if delta == 0 {
		return
	}
	switch w.state {
	case logic.StateSetTime:
		w.model.AdjustTime(delta)
	case logic.StateSetAlarm:
		w.model.AdjustAlarm(delta)
	default:
		return
	}
	if delta > 0 {
		w.ledUp.Pulse()
	} else {
		w.ledDown.Pulse()
	}
}

func (w *Watch) apply(eff logic.Effect) {
	if eff.Has(logic.CommitTime) {
		if err := w.model.SyncRTC(); err != nil {
			log.Error().Err(err).Msg("ui: commit time")
		}
	}
	if eff.Has(logic.CommitAlarm) {
		if err := w.model.SyncAlarm(); err != nil {
			log.Error().Err(err).Msg("ui: commit alarm")
		}
		w.model.EnableAlarm()
	}
	if eff.Has(logic.ToggleAlarm) {
		if w.model.AlarmState() == wallclock.Off {
			w.model.EnableAlarm()
		} else {
			w.model.DisableAlarm()
		}
		w.ledAlarm.StopBlink(w.model.AlarmState() != wallclock.Off)
	}
	if eff.Has(logic.CycleKind) {
		// The panel has no way to enter an alarm date, so it only offers
		// the daily and weekly kinds.
		kind := wallclock.Weekly
		if w.model.AlarmKind() == wallclock.Weekly {
			kind = wallclock.Daily
		}
		if err := w.model.SetAlarmKind(kind); err != nil {
			log.Error().Err(err).Msg("ui: cycle alarm kind")
		}
	}
	if eff.Has(logic.NextWeekday) {
		wd := (w.model.Alarm().Weekday + 1) % 7
		if err := w.model.SetAlarmWeekday(wd); err != nil {
			log.Error().Err(err).Msg("ui: alarm weekday")
		}
	}
	if eff.Has(logic.StartSnooze) {
		w.model.StartSnooze()
	}
	if eff.Has(logic.StopSnooze) {
		w.model.StopSnooze()
	}
	if eff.Has(logic.Acknowledge) {
		w.model.Acknowledge()
	}
}

// enter runs the entry actions of s.
func (w *Watch) enter(s logic.State) {
	if w.state != s {
		log.Info().Msgf("ui: state %s -> %s", w.state, s)
	}
	if w.state == logic.StateShowDate {
		w.dateTB.Disable()
	}
	w.state = s

	all := uint32(1)<<uint(w.disp.Digits()) - 1
	blink := uint32(0)

	switch s {
	case logic.StateNormal:
		w.buzzer.StopRing()
		w.ledAlarm.StopBlink(w.model.AlarmState() != wallclock.Off)
	case logic.StateSetTime, logic.StateSetAlarm:
		blink = all
	case logic.StateAlarm:
		w.buzzer.StartRing()
		w.ledAlarm.StartBlink()
	case logic.StateSnooze:
		w.buzzer.StopRing()
	case logic.StateShowDate:
		w.dateTB.Update()
		w.dateTB.Enable()
	}
	if err := w.disp.SetBlinkMask(blink); err != nil {
		log.Error().Err(err).Msg("ui: blink mask")
	}
}

// render writes the digits for the current state.
func (w *Watch) render() {
	var hi, lo int
	switch w.state {
	case logic.StateSetAlarm:
		a := w.model.Alarm()
		hi, lo = a.Hour, a.Min
	case logic.StateShowDate:
		now := w.model.Now()
		hi, lo = now.Day, now.Month
	default:
		now := w.model.Now()
		hi, lo = now.Hour, now.Min
	}
	if err := w.disp.ShowNumber(hi, lo); err != nil {
		log.Error().Err(err).Msg("ui: render")
	}
}

func (w *Watch) emit(typ logic.EventType, from, to logic.State) {
	now := w.model.Now()
	alarm := w.model.Alarm()
	e := logic.Event{
		Timestamp:  now.Time(),
		Type:       typ,
		From:       from,
		To:         to,
		Clock:      now.String(),
		Alarm:      fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Min),
		AlarmKind:  w.model.AlarmKind().String(),
		AlarmState: w.model.AlarmState().String(),
	}
	for _, fn := range w.hooks {
		fn(e)
	}
}

// State returns the current mode.
func (w *Watch) State() logic.State { return w.state }

// Model returns the clock model.
func (w *Watch) Model() *wallclock.Model { return w.model }

// Display returns the display driver.
func (w *Watch) Display() *display.Display { return w.disp }

// Button returns the driver for id.
func (w *Watch) Button(id logic.Button) *button.Button { return w.buttons[id] }

// Buzzer returns the buzzer.
func (w *Watch) Buzzer() *actuator.Buzzer { return w.buzzer }

// AlarmLED returns the alarm LED.
func (w *Watch) AlarmLED() *actuator.Actuator { return w.ledAlarm }
