//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"ember/app"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/internal/logging"
	"ember/term"
)

func main() {
	var (
		headless = flag.Bool("headless", false, "Run without a window, console output on stdout.")
		hz       = flag.Int("hz", 60, "Tick rate in headless mode.")
		ticks    = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
		tty      = flag.String("tty", "", "Bridge the console to a serial device (implies -headless).")
		baud     = flag.Int("baud", 115200, "Baud rate for -tty.")
		verbose  = flag.Bool("v", false, "Verbose logging.")
	)
	flag.Parse()
	if *verbose {
		logging.SetLevel(slog.LevelDebug)
	}

	if err := run(*headless, *hz, *ticks, *tty, *baud); err != nil {
		if err == context.Canceled {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(headless bool, hz int, ticks uint64, tty string, baud int) error {
	if tty != "" {
		f, err := hal.OpenTTY(tty, baud)
		if err != nil {
			return err
		}
		defer f.Close()
		s := app.New(func(p hal.Poster) hal.Uart {
			return hal.NewHostUart(p, f, f)
		})
		if err := spawn(s); err != nil {
			return err
		}
		return runHeadless(s, hz, ticks)
	}

	var loop *hal.LoopUart
	s := app.New(func(p hal.Poster) hal.Uart {
		loop = hal.NewLoopUart(p)
		return loop
	})
	if err := spawn(s); err != nil {
		return err
	}

	if headless {
		loop.SetSink(func(b []byte) { os.Stdout.Write(b) })
		return runHeadless(s, hz, ticks)
	}

	display := term.NewDisplay(480, 320)
	terminal := term.NewTerminal(display)
	loop.SetSink(func(b []byte) { terminal.Write(b) })
	title := fmt.Sprintf("ember %s", buildinfo.Short())
	return term.RunWindow(display, title, func() error {
		s.Step()
		return nil
	}, loop.Feed)
}

func spawn(s *app.System) error {
	if err := s.SpawnGreeter("greeter", 300); err != nil {
		return err
	}
	if err := s.SpawnStatus("status", 120); err != nil {
		return err
	}
	return s.SpawnEcho("echo", 240)
}

func runHeadless(s *app.System, hz int, ticks uint64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Step()
			if ticks > 0 && s.Tick() >= ticks {
				return nil
			}
		}
	}
}
