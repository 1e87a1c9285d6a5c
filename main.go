package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"motor-control-panel/config"
	"motor-control-panel/devices"
	"motor-control-panel/logging"
	"motor-control-panel/session"
	"motor-control-panel/tui"
	"motor-control-panel/types"
	"motor-control-panel/utils"
	"motor-control-panel/web"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "motor-panel:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "motor-panel.toml", "settings file (TOML), optional")
	ui := flag.String("ui", "", "control surface: web or tui")
	port := flag.String("port", "", "serial device, empty to pick the first USB port")
	driver := flag.String("driver", "", "serial driver: bugst, jacobsa or tarm")
	listen := flag.String("listen", "", "web panel listen address")
	logLevel := flag.String("log-level", "", "diagnostic log level")
	flag.Parse()

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ui":
			settings.UI = *ui
		case "port":
			settings.Port = *port
		case "driver":
			settings.Driver = *driver
		case "listen":
			settings.Listen = *listen
		case "log-level":
			settings.LogLevel = *logLevel
		}
	})
	if err := settings.Validate(); err != nil {
		return err
	}

	if settings.UI == "tui" {
		// The terminal belongs to the panel; diagnostics go to a file.
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logging.Init(settings.LogLevel, f)
	} else {
		logging.Init(settings.LogLevel, os.Stderr)
	}

	if !config.Exists(*configPath) {
		log.Debug().Str("path", *configPath).Msg("no settings file, using defaults")
	}

	drv, err := devices.DriverByName(settings.Driver)
	if err != nil {
		return err
	}

	sess := session.New(drv, logging.NewSink(config.LOG_CAPACITY))
	if err := sess.SetDriveLevel(settings.DriveLevel); err != nil {
		return err
	}

	var sel devices.Selector = devices.AutoSelector{}
	if settings.Port != "" {
		sel = devices.FixedPort(settings.Port)
	}

	desktop := utils.HostDesktop{}

	if settings.UI == "tui" {
		return tui.Run(sess, sel, desktop)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.Port != "" {
		if err := sess.Connect(ctx, sel); err != nil {
			log.Warn().Err(err).Msg("initial connect failed, use the web panel to retry")
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- web.StartServer(settings.Listen, sess, desktop) }()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	// Leave no actuator running behind us.
	if sess.State() != types.Disconnected {
		sess.Disconnect()
	}
	return err
}
