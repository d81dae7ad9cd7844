package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/wuclock/internal/logic"
	"github.com/sweeney/wuclock/internal/mqtt"
	"github.com/sweeney/wuclock/internal/status"
	"github.com/sweeney/wuclock/internal/ui"
)

// statusInterval bounds how stale the tracker gets between transitions.
const statusInterval = 250 * time.Millisecond

// thermometer is implemented by RTCs with a temperature sensor.
type thermometer interface {
	Temperature() (float64, error)
}

// loop owns the front panel and everything it reports to. All of its
// methods run on the polling goroutine.
type loop struct {
	watch     *ui.Watch
	pub       mqtt.Publisher
	conn      mqtt.ConnectionStatus
	tracker   *status.Tracker
	hb        *logic.Heartbeat
	heartbeat time.Duration
	envFile   string
	now       func() time.Time
	thermo    thermometer

	temp       *float64
	lastStatus time.Time
	dirty      bool
}

func newLoop(watch *ui.Watch, pub mqtt.Publisher, conn mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, envFile string, now func() time.Time) *loop {
	l := &loop{
		watch:     watch,
		pub:       pub,
		conn:      conn,
		tracker:   tracker,
		hb:        logic.NewHeartbeat(now()),
		heartbeat: heartbeat,
		envFile:   envFile,
		now:       now,
	}
	watch.OnTransition(l.onEvent)
	return l
}

func (l *loop) onEvent(e logic.Event) {
	log.Info().Msgf("event: %s (%s -> %s) clock=%s alarm=%s %s %s",
		e.Type, e.From, e.To, e.Clock, e.Alarm, e.AlarmKind, e.AlarmState)
	if err := l.pub.Publish(e); err != nil {
		// Don't stop the clock on publish failure
		log.Warn().Err(err).Msg("publish error")
	}
	l.hb.Count(e.Type)
	l.dirty = true
}

// run polls the front panel on every tick until a signal arrives or ctx is
// done, then publishes SHUTDOWN.
func (l *loop) run(ctx context.Context, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Info().Msgf("received %v, shutting down", s)
			l.shutdown(signalName(s))
			return nil
		case <-ctx.Done():
			l.shutdown("STOPPED")
			return nil
		case <-tick:
			l.tick()
		}
	}
}

func (l *loop) tick() {
	l.watch.Process()

	t := l.now()
	if hb := l.hb.Check(t, l.heartbeat); hb != nil {
		log.Info().Msgf("heartbeat: uptime=%v rings=%d snoozes=%d stops=%d settings=%d",
			hb.Uptime, hb.Counts.Rings, hb.Counts.Snoozes, hb.Counts.Stops, hb.Counts.Settings)
		l.readTemperature()
		if net := readNetworkInfo(l.envFile); net != nil {
			l.tracker.SetNetwork(net)
		}
		l.refreshStatus(t)
		l.publishSystem(mqtt.SystemEvent{Timestamp: hb.Timestamp, Event: "HEARTBEAT"})
		return
	}

	if l.dirty || t.Sub(l.lastStatus) >= statusInterval {
		l.refreshStatus(t)
	}
}

func (l *loop) startup() {
	t := l.now()
	l.readTemperature()
	if net := readNetworkInfo(l.envFile); net != nil {
		l.tracker.SetNetwork(net)
	}
	l.refreshStatus(t)
	l.publishSystem(mqtt.SystemEvent{Timestamp: t, Event: "STARTUP", Retained: true})
}

func (l *loop) shutdown(reason string) {
	t := l.now()
	l.refreshStatus(t)
	l.publishSystem(mqtt.SystemEvent{Timestamp: t, Event: "SHUTDOWN", Reason: reason, Retained: true})
}

func (l *loop) publishSystem(event mqtt.SystemEvent) {
	event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), event.Event, event.Reason)
	if err := l.pub.PublishSystem(event); err != nil {
		log.Warn().Err(err).Msgf("failed to publish %s event", event.Event)
		return
	}
	log.Info().Msgf("published %s event", event.Event)
}

func (l *loop) refreshStatus(t time.Time) {
	l.lastStatus = t
	l.dirty = false
	l.tracker.Update(l.clock(), l.hb.Counts())
	if l.conn != nil {
		l.tracker.SetMQTTConnected(l.conn.IsConnected())
	}
}

func (l *loop) clock() status.Clock {
	m := l.watch.Model()
	alarm := m.Alarm()
	return status.Clock{
		Mode:        l.watch.State(),
		Time:        m.Now().String(),
		Alarm:       fmt.Sprintf("%02d:%02d", alarm.Hour, alarm.Min),
		AlarmKind:   m.AlarmKind().String(),
		AlarmState:  m.AlarmState().String(),
		Display:     l.watch.Display().Text(),
		Temperature: l.temp,
	}
}

func (l *loop) readTemperature() {
	if l.thermo == nil {
		return
	}
	c, err := l.thermo.Temperature()
	if err != nil {
		log.Debug().Err(err).Msg("rtc: temperature")
		return
	}
	l.temp = &c
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
