// Command wuclock runs the wake-up clock front panel: buttons, display, LEDs
// and buzzer on GPIO, time from an RTC, and state changes published to MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/wuclock/internal/gpio"
	"github.com/sweeney/wuclock/internal/mqtt"
	"github.com/sweeney/wuclock/internal/rtc"
	"github.com/sweeney/wuclock/internal/status"
	"github.com/sweeney/wuclock/internal/timebase"
	"github.com/sweeney/wuclock/internal/ui"
	"github.com/sweeney/wuclock/internal/wallclock"
	"github.com/sweeney/wuclock/internal/web"
)

// RTC sources accepted by --rtc.
const (
	rtcAuto   = "auto"
	rtcDS3231 = "ds3231"
	rtcSoft   = "soft"
)

type options struct {
	broker      string
	httpAddr    string
	tick        time.Duration
	heartbeat   time.Duration
	snooze      time.Duration
	eventWindow time.Duration
	rtc         string
	i2cBus      string
	gpioChip    string
	envFile     string
	logLevel    string
	printTime   bool
	dryRun      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "wuclock",
		Short: "Wake-up clock daemon",
		Long: `wuclock drives a four digit seven-segment clock with a snoozable ` +
			`alarm and publishes its state changes to MQTT.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(opts.logLevel); err != nil {
				return err
			}
			if err := run(cmd.Context(), opts); err != nil {
				log.Error().Err(err).Msg("fatal")
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	f.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	f.DurationVar(&opts.tick, "tick", 200*time.Microsecond, "polling loop interval")
	f.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "heartbeat interval (0 to disable)")
	f.DurationVar(&opts.snooze, "snooze", wallclock.DefaultSnooze, "snooze period")
	f.DurationVar(&opts.eventWindow, "event-window", 0, "button multi-press window (0 keeps the default)")
	f.StringVar(&opts.rtc, "rtc", rtcAuto, `time source: "ds3231", "soft", or "auto" (ds3231 if present)`)
	f.StringVar(&opts.i2cBus, "i2c", "/dev/i2c-1", "I2C bus device for the DS3231")
	f.StringVar(&opts.gpioChip, "gpio-chip", "gpiochip0", "GPIO character device")
	f.StringVar(&opts.envFile, "env-file", "/run/pi-helper.env", "pi-helper environment file for network info")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.printTime, "print-time", false, "print the RTC time and exit")
	f.BoolVar(&opts.dryRun, "dry-run", false, "run without GPIO hardware")
	return cmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

// panelPort is a gpio.Port the daemon must release on exit.
type panelPort interface {
	gpio.Port
	Close() error
}

type fakePanel struct{ *gpio.FakePort }

func (fakePanel) Close() error { return nil }

func openPort(opts options, cfg ui.Config) (panelPort, error) {
	if opts.dryRun {
		log.Warn().Msg("gpio: dry run, no hardware outputs")
		return fakePanel{gpio.NewFakePort()}, nil
	}
	port, err := gpio.NewRealPort(opts.gpioChip, cfg.InputPins(), cfg.OutputPins())
	if err != nil {
		return nil, fmt.Errorf("init gpio: %w", err)
	}
	return port, nil
}

// openRTC returns the time source named by kind, a closer for it (nil when
// there is nothing to release) and a label for the status page.
func openRTC(kind, bus string) (wallclock.RTC, io.Closer, string, error) {
	switch kind {
	case rtcSoft:
		return rtc.NewSoftRTC(time.Now), nil, rtcSoft, nil
	case rtcDS3231, rtcAuto:
		d, err := rtc.Open(bus)
		if err == nil {
			return d, d, rtcDS3231 + ":" + bus, nil
		}
		if kind == rtcDS3231 {
			return nil, nil, "", fmt.Errorf("open rtc: %w", err)
		}
		log.Warn().Err(err).Msg("rtc: no ds3231, using system clock")
		return rtc.NewSoftRTC(time.Now), nil, rtcSoft, nil
	default:
		return nil, nil, "", fmt.Errorf("unknown rtc %q", kind)
	}
}

func run(ctx context.Context, opts options) error {
	clock, closer, rtcLabel, err := openRTC(opts.rtc, opts.i2cBus)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	if opts.printTime {
		dt, err := clock.DateTime()
		if err != nil {
			return fmt.Errorf("read rtc: %w", err)
		}
		fmt.Printf("%s (%s)\n", dt, rtcLabel)
		return nil
	}

	cfg := ui.DefaultConfig()
	cfg.EventWindow = opts.eventWindow

	port, err := openPort(opts, cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	src := timebase.NewMonotonicSource()
	model := wallclock.New(clock, src)
	if err := model.SetSnoozePeriod(opts.snooze); err != nil {
		return fmt.Errorf("snooze: %w", err)
	}
	if err := model.Load(); err != nil {
		log.Warn().Err(err).Msg("wallclock: initial read")
	}

	watch, err := ui.New(port, src, model, cfg)
	if err != nil {
		return fmt.Errorf("init ui: %w", err)
	}

	publisher, err := mqtt.NewRealPublisher(opts.broker, "wuclock-"+xid.New().String())
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	queue := mqtt.NewQueue(publisher, mqtt.DefaultQueueSize)
	defer queue.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickUs:      opts.tick.Microseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPPort:    opts.httpAddr,
		RTC:         rtcLabel,
		Digits:      cfg.Display.Digits,
	})

	l := newLoop(watch, queue, queue, tracker, opts.heartbeat, opts.envFile, time.Now)
	if t, ok := clock.(thermometer); ok {
		l.thermo = t
	}

	watch.Start()
	defer watch.Stop()
	l.startup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return queue.Run(gctx) })

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutCtx)
		})
		log.Info().Msgf("http status server listening on %s", opts.httpAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(opts.tick)
	defer ticker.Stop()

	log.Info().Msgf("started: tick=%v broker=%s heartbeat=%v rtc=%s", opts.tick, opts.broker, opts.heartbeat, rtcLabel)

	g.Go(func() error {
		defer cancel()
		return l.run(gctx, ticker.C, sigCh)
	})
	return g.Wait()
}
