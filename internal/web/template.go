package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/enclosure-monitor/internal/monitor"
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
	"verdict": func(v *bool) string {
		switch {
		case v == nil:
			return "UNKNOWN"
		case *v:
			return "ALERT"
		default:
			return "clear"
		}
	},
	"verdictClass": func(v *bool) string {
		switch {
		case v == nil:
			return "unknown"
		case *v:
			return "alert"
		default:
			return "ok"
		}
	},
	"durationOrDisabled": func(d time.Duration) string {
		if d == 0 {
			return "disabled"
		}
		return d.String()
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>LVM Enclosure Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; }
.alert { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>LVM Enclosure Monitor</h1>

{{if .Summary}}
<h2>Alerts</h2>
<table>
<tr><th>Wind</th><td class="{{verdictClass .Summary.WindAlert}}">{{verdict .Summary.WindAlert}}</td></tr>
<tr><th>Humidity</th><td class="{{verdictClass .Summary.HumidityAlert}}">{{verdict .Summary.HumidityAlert}}</td></tr>
<tr><th>Dew point</th><td class="{{verdictClass .Summary.DewPointAlert}}">{{verdict .Summary.DewPointAlert}}</td></tr>
<tr><th>Rain</th><td class="{{verdictClass .Summary.Rain}}">{{verdict .Summary.Rain}}</td></tr>
<tr><th>Door</th><td class="{{verdictClass .Summary.DoorAlert}}">{{verdict .Summary.DoorAlert}}</td></tr>
<tr><th>O2</th><td class="{{verdictClass .Summary.O2Alert}}">{{verdict .Summary.O2Alert}}</td></tr>
<tr><th>Camera temperature</th><td class="{{verdictClass .Summary.CameraTemperatureAlert}}">{{verdict .Summary.CameraTemperatureAlert}}</td></tr>
{{range $channel, $up := .Summary.CameraAlerts}}{{if $up}}<tr><th></th><td class="alert">{{$channel}}</td></tr>
{{end}}{{end}}{{range $room, $up := .Summary.O2RoomAlerts}}{{if $up}}<tr><th></th><td class="alert">{{$room}}</td></tr>
{{end}}{{end}}<tr><th>Engineering override</th><td>{{if .Summary.EngineeringOverride}}active{{else}}no{{end}}</td></tr>
{{if .Summary.OverwatcherAlerts}}<tr><th>Overwatcher idle</th><td>{{if .Summary.OverwatcherAlerts.Idle}}yes{{else}}no{{end}}</td></tr>{{end}}
</table>
<p>As of {{.SummaryTime.UTC.Format "2006-01-02T15:04:05Z"}}</p>
{{else}}
<p>No summary yet.</p>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{range $host, $up := .Connectivity}}<tr><th>{{$host}}</th><td class="{{if $up}}connected{{else}}disconnected{{end}}">{{if $up}}reachable{{else}}unreachable{{end}}</td></tr>
{{end}}</table>

<h2>Transitions</h2>
<table>
<tr><th>Raised</th><td>{{.Counts.Raised}}</td></tr>
<tr><th>Cleared</th><td>{{.Counts.Cleared}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Station</th><td>{{.Config.Station}}</td></tr>
<tr><th>Interval</th><td>{{.Config.Interval}}</td></tr>
<tr><th>Heartbeat</th><td>{{durationOrDisabled .Config.Heartbeat}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.Listen}}</td></tr>
</table>

<p><a href="/alerts">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap monitor.Snapshot, connectivity map[string]bool) {
	// Snapshot has an Uptime() method but the template wants plain fields.
	data := struct {
		monitor.Snapshot
		Uptime       time.Duration
		Connectivity map[string]bool
	}{
		Snapshot:     snap,
		Uptime:       snap.Uptime(),
		Connectivity: connectivity,
	}
	indexTmpl.Execute(w, data)
}
