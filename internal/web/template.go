package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/wuclock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"celsius": func(c *float64) string {
		return fmt.Sprintf("%.2f", *c)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Wake-up Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.digits { font-size: 3em; letter-spacing: 0.2em; background: #111; color: #f33; padding: 0.2em 0.4em; display: inline-block; }
.ringing { color: red; font-weight: bold; }
.armed { color: green; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Wake-up Clock</h1>

<p class="digits" id="digits">{{if .Clock.Display}}{{.Clock.Display}}{{else}}----{{end}}</p>

<h2>Clock</h2>
<table>
<tr><th>Mode</th><td id="mode">{{orUnknown (printf "%s" .Clock.Mode)}}</td></tr>
<tr><th>Time</th><td>{{.Clock.Time}}</td></tr>
{{if .Clock.Temperature}}<tr><th>Temperature</th><td>{{celsius .Clock.Temperature}} &deg;C</td></tr>{{end}}
</table>

<h2>Alarm</h2>
<table>
<tr><th>Time</th><td>{{.Clock.Alarm}}</td></tr>
<tr><th>Kind</th><td>{{orUnknown .Clock.AlarmKind}}</td></tr>
<tr><th>State</th><td class="{{if eq .Clock.AlarmState "READY"}}ringing{{else if eq .Clock.AlarmState "ON"}}armed{{else}}off{{end}}">{{orUnknown .Clock.AlarmState}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Rings</th><td>{{.Counts.Rings}}</td></tr>
<tr><th>Snoozes</th><td>{{.Counts.Snoozes}}</td></tr>
<tr><th>Stops</th><td>{{.Counts.Stops}}</td></tr>
<tr><th>Settings</th><td>{{.Counts.Settings}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickUs}}&micro;s</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>RTC</th><td>{{.Config.RTC}}</td></tr>
<tr><th>Digits</th><td>{{.Config.Digits}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
