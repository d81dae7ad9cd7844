// Package status provides a thread-safe status tracker for the wuclock daemon.
// It is written by the polling loop and read by HTTP handlers and MQTT
// system events.
package status

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/sweeney/wuclock/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickUs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	RTC         string // "ds3231:/dev/i2c-1" or "soft"
	Digits      int
}

// Clock is the front-panel state published by the polling loop.
type Clock struct {
	Mode        logic.State
	Time        string // wall time, "2006-01-02 15:04:05"
	Alarm       string // HH:MM
	AlarmKind   string
	AlarmState  string
	Display     string // what the digits currently spell
	Temperature *float64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Clock         Clock
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex. The MQTT flag is
// kept outside the lock since the broker client sets it from its own
// goroutine.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	mqtt atomic.Bool
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update sets the clock state and event counts.
func (t *Tracker) Update(c Clock, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Clock = c
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mqtt.Store(connected)
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.MQTTConnected = t.mqtt.Load()
	s.Now = t.now()
	return s
}
