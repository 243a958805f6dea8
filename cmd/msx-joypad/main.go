// Command msx-joypad drives an MSX joystick port from a USB gamepad and
// publishes connection changes to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/msx-joypad/internal/adapter"
	"github.com/sweeney/msx-joypad/internal/gpio"
	"github.com/sweeney/msx-joypad/internal/input"
	"github.com/sweeney/msx-joypad/internal/logic"
	"github.com/sweeney/msx-joypad/internal/mqtt"
	"github.com/sweeney/msx-joypad/internal/reset"
	"github.com/sweeney/msx-joypad/internal/status"
	"github.com/sweeney/msx-joypad/internal/web"
)

const (
	restartReason = "joystick reconnected"

	// restartFlushTimeout bounds the wait for the RESTART event to reach
	// the broker before the process is replaced.
	restartFlushTimeout = 2 * time.Second
)

// errRestart is returned by runLoop when the resetter returns control,
// which only fakes do.
var errRestart = errors.New("restart requested")

type config struct {
	device     string
	poll       time.Duration
	deadTime   time.Duration
	chip       string
	pins       string
	led        int
	mode       string
	reset      string
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	diag       bool
	printState bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.device, "device", "js:/dev/input/js0", `Input device as backend:target ("js:/dev/input/js0", "sdl:0")`)
	flag.DurationVar(&cfg.poll, "poll", 10*time.Millisecond, "Gamepad polling interval")
	flag.DurationVar(&cfg.deadTime, "dead-time", 2*time.Second, "How long a disconnect must persist before it is confirmed")
	flag.StringVar(&cfg.chip, "chip", "gpiochip0", "GPIO chip driving the joystick port")
	flag.StringVar(&cfg.pins, "pins", "17,27,22,23,24,25", "BCM pins for Up,Down,Left,Right,Trigger1,Trigger2")
	flag.IntVar(&cfg.led, "led", gpio.DefaultPinLED, "BCM pin for the status LED (-1 to disable)")
	flag.StringVar(&cfg.mode, "mode", "buffered", "Port wiring: buffered or direct")
	flag.StringVar(&cfg.reset, "reset", reset.StrategyWatchdog, "Restart strategy: watchdog, reboot or exec")
	flag.StringVar(&cfg.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.BoolVar(&cfg.diag, "diag", false, "Log every gamepad snapshot")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print one gamepad reading and exit")

	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	pins, err := gpio.ParsePins(cfg.pins)
	if err != nil {
		return err
	}
	mode, err := gpio.ParseMode(cfg.mode)
	if err != nil {
		return err
	}
	resetter, err := reset.New(cfg.reset)
	if err != nil {
		return err
	}
	deadTime, err := deadTimeMillis(cfg.deadTime)
	if err != nil {
		return err
	}

	dev, err := input.Open(cfg.device)
	if err != nil {
		return err
	}
	if c, ok := dev.(io.Closer); ok {
		defer c.Close()
	}

	if cfg.printState {
		return printState(os.Stdout, dev)
	}

	port, err := gpio.NewRealPort(cfg.chip, pins, mode)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer port.Close()

	var led gpio.Indicator = gpio.NopIndicator{}
	if cfg.led >= 0 {
		ind, err := gpio.NewRealIndicator(cfg.chip, cfg.led)
		if err != nil {
			return fmt.Errorf("init led: %w", err)
		}
		defer ind.Close()
		led = ind
	}

	start := time.Now()
	opts := []adapter.Option{adapter.WithDeadTime(deadTime)}
	if cfg.diag {
		opts = append(opts, adapter.WithDiagnostics())
	}
	ad := adapter.New(port, led, mode, adapter.MillisClock(start, time.Now), opts...)
	if err := ad.Init(dev); err != nil {
		return fmt.Errorf("init adapter: %w", err)
	}

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.NopPublisher{}
	if cfg.broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.broker, "msx-joypad")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	tracker := status.NewTracker(start, status.Config{
		Device:      cfg.device,
		PollMs:      cfg.poll.Milliseconds(),
		DeadTimeMs:  cfg.deadTime.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Mode:        mode.String(),
		Reset:       cfg.reset,
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
	})
	tracker.SetDevice(ad.Description())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	publishSystem(publisher, tracker, time.Now(), "STARTUP", "")

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: device=%s poll=%v mode=%s reset=%s broker=%q heartbeat=%v",
		cfg.device, cfg.poll, mode, cfg.reset, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ad, publisher, mqttStatus, tracker, resetter, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(ad *adapter.Adapter, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, resetter reset.Resetter, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
			publishSystem(publisher, tracker, now(), "SHUTDOWN", signalName)
			return nil

		case <-tick:
			t := now()
			rep, err := ad.Update()
			if err != nil {
				log.Printf("update error: %v", err)
				tracker.RecordError()
				continue
			}

			for _, e := range rep.Events {
				log.Printf("event: %s (%s -> %s)", e.Type, e.From, e.To)
				if err := publisher.Publish(mqtt.NewEvent(t, e)); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			tracker.Update(status.Reading{
				State:   rep.State,
				Signals: rep.Signals,
				LX:      rep.LX,
				LY:      rep.LY,
				Buttons: rep.Buttons,
				Device:  rep.Device,
				Counts:  ad.Counts(),
			})
			tracker.SetMQTTConnected(mqttStatus.IsConnected())

			if rep.Outcome == logic.OutcomeRestart {
				tracker.SetRestarting()
				publishSystem(publisher, tracker, t, "RESTART", restartReason)
				if !publisher.Flush(restartFlushTimeout) {
					log.Printf("RESTART event not confirmed by broker within %v", restartFlushTimeout)
				}
				resetter.Reset(restartReason)
				return errRestart
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v state=%s cycles=%d errors=%d",
					snap.Uptime().Truncate(time.Second), snap.StateName(), snap.Cycles, snap.UpdateErrors)
				publishSystem(publisher, tracker, t, "HEARTBEAT", "")
			}
		}
	}
}

// deadTimeMillis converts the -dead-time flag to the state machine's
// wrapping millisecond counter.
func deadTimeMillis(d time.Duration) (logic.Millis, error) {
	ms := d.Milliseconds()
	if ms <= 0 || ms > math.MaxUint32 {
		return 0, fmt.Errorf("invalid dead time %v: must be between 1ms and %v", d, time.Duration(math.MaxUint32)*time.Millisecond)
	}
	return logic.Millis(ms), nil
}

// publishSystem sends a lifecycle event carrying a full status snapshot.
func publishSystem(publisher mqtt.Publisher, tracker *status.Tracker, ts time.Time, event, reason string) {
	snap := tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  ts,
		Event:      event,
		Reason:     reason,
		Retained:   event != "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := publisher.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}

// printState reads the gamepad once and prints what the port would show.
func printState(w io.Writer, dev input.Device) error {
	if err := dev.Init(); err != nil {
		return fmt.Errorf("init device: %w", err)
	}
	if err := dev.Update(); err != nil {
		return fmt.Errorf("update device: %w", err)
	}

	desc := dev.Description()
	s := dev.State()
	lx, ly := logic.DeriveAxes(s.Axes, desc.NumAxes)
	fmt.Fprintf(w, "%s: lx=%d ly=%d buttons=%d signals=%s\n",
		desc.Name, lx, ly, s.Buttons, logic.DeriveSignals(lx, ly, s.Buttons))
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
