package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/msx-joypad/internal/logic"
	"github.com/sweeney/msx-joypad/internal/status"
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
	"stateClass": func(s logic.ConnState) string {
		switch s.(type) {
		case logic.ConnectedConnected:
			return "connected"
		case logic.ConnectedUnconnectedMaybe, logic.UnconnectedUnconnectedMaybe:
			return "unknown"
		default:
			return "disconnected"
		}
	},
	"lit": func(sig logic.Signals, name string) bool {
		for _, n := range sig.Names() {
			if n == name {
				return true
			}
		}
		return false
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>MSX Joypad</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>MSX Joypad</h1>

<h2>Joystick</h2>
<table>
<tr><th>State</th><td class="{{stateClass .State}}">{{.StateName}}</td></tr>
<tr><th>Device</th><td>{{if .Device.Name}}{{.Device.Name}} ({{.Device.NumAxes}} axes, {{.Device.NumButtons}} buttons){{else}}none{{end}}</td></tr>
<tr><th>Axes</th><td>lx={{.LX}} ly={{.LY}}</td></tr>
<tr><th>Buttons</th><td>{{printf "0x%08x" .Buttons}}</td></tr>
{{if .Restarting}}<tr><th>Restart</th><td class="unknown">in progress</td></tr>{{end}}
</table>

<h2>Port</h2>
<table>
{{range .Lines}}<tr><th>{{.}}</th><td class="{{if lit $.Signals .}}on{{else}}off{{end}}">{{if lit $.Signals .}}active{{else}}idle{{end}}</td></tr>
{{end}}<tr><th>Mode</th><td>{{.Config.Mode}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Disconnect suspected</th><td>{{.Counts.DisconnectSuspected}}</td></tr>
<tr><th>Disconnect confirmed</th><td>{{.Counts.DisconnectConfirmed}}</td></tr>
<tr><th>Absent suspected</th><td>{{.Counts.AbsentSuspected}}</td></tr>
<tr><th>Absent confirmed</th><td>{{.Counts.AbsentConfirmed}}</td></tr>
<tr><th>Connected</th><td>{{.Counts.Connected}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Cycles</th><td>{{.Cycles}} ({{.UpdateErrors}} errors)</td></tr>
<tr><th>Input</th><td>{{.Config.Device}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Dead time</th><td>{{.Config.DeadTimeMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Reset</th><td>{{.Config.Reset}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

var portLines = []string{"UP", "DOWN", "LEFT", "RIGHT", "TRIGGER1", "TRIGGER2"}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Lines  []string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Lines:    portLines,
	}
	return indexTmpl.Execute(w, data)
}
