package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/msx-joypad/internal/input"
	"github.com/sweeney/msx-joypad/internal/logic"
	"github.com/sweeney/msx-joypad/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Device:      "js:/dev/input/js0",
		PollMs:      10,
		DeadTimeMs:  2000,
		HeartbeatMs: 900000,
		Mode:        "buffered",
		Reset:       "watchdog",
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func getBody(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(status.Reading{
		State:   logic.ConnectedConnected{},
		Signals: logic.SignalRight,
		LX:      900,
		LY:      511,
		Counts:  logic.EventCounts{DisconnectSuspected: 1, Connected: 1},
	})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.State != "CONNECTED_CONNECTED" {
		t.Errorf("State: got %q, want CONNECTED_CONNECTED", sj.Status.State)
	}
	if len(sj.Status.Signals) != 1 || sj.Status.Signals[0] != "RIGHT" {
		t.Errorf("Signals: got %v, want [RIGHT]", sj.Status.Signals)
	}
	if sj.Status.Axes.LX != 900 {
		t.Errorf("Axes.LX: got %d, want 900", sj.Status.Axes.LX)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.Connected != 1 {
		t.Errorf("Counts.Connected: got %d, want 1", sj.Status.Counts.Connected)
	}
	if sj.Status.Config.PollMs != 10 || sj.Status.Config.Reset != "watchdog" {
		t.Errorf("Config: got %+v", sj.Status.Config)
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetDevice(input.Description{Name: "Retro Pad", NumAxes: 2, NumButtons: 8})
	tr.Update(status.Reading{State: logic.ConnectedConnected{}, Signals: logic.SignalUp | logic.SignalTrigger2})

	resp, body := getBody(t, ts.URL+"/")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
	for _, want := range []string{
		"CONNECTED_CONNECTED",
		"Retro Pad (2 axes, 8 buttons)",
		`<tr><th>UP</th><td class="on">active</td></tr>`,
		`<tr><th>DOWN</th><td class="off">idle</td></tr>`,
		`<tr><th>TRIGGER2</th><td class="on">active</td></tr>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLShowsConfirmedDisconnect(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(status.Reading{State: logic.ConnectedUnconnectedConfirmed{}})

	_, body := getBody(t, ts.URL+"/index.html")
	if !strings.Contains(body, `<td class="disconnected">CONNECTED_UNCONNECTED_CONFIRMED</td>`) {
		t.Errorf("expected disconnected state row, got:\n%s", body)
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := getBody(t, ts.URL+"/index.html")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := getBody(t, ts.URL+"/nonexistent")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL+"/index.json")
	if !sj1.Status.Connected {
		t.Error("expected connected initially")
	}

	tr.Update(status.Reading{
		State:  logic.UnconnectedUnconnectedMaybe{Since: 10},
		Counts: logic.EventCounts{AbsentSuspected: 1},
	})

	sj2 := getJSON(t, ts.URL+"/index.json")
	if sj2.Status.Connected {
		t.Error("expected connected=false after update")
	}
	if sj2.Status.State != "UNCONNECTED_UNCONNECTED_MAYBE" {
		t.Errorf("State: got %q", sj2.Status.State)
	}
	if sj2.Status.Counts.AbsentSuspected != 1 {
		t.Errorf("Counts.AbsentSuspected: got %d, want 1", sj2.Status.Counts.AbsentSuspected)
	}
}

func TestHealthz(t *testing.T) {
	ts, tr := newTestServer(t)

	resp, body := getBody(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Errorf("healthy: got %d %q", resp.StatusCode, body)
	}

	tr.SetRestarting()
	resp, body = getBody(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusServiceUnavailable || body != "restarting\n" {
		t.Errorf("restarting: got %d %q", resp.StatusCode, body)
	}
}

func TestJSONIsNotCached(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := getBody(t, ts.URL+"/index.json")
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control: got %q, want no-store", cc)
	}
}
