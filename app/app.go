// Package app assembles a runnable system: a kernel, the console driver
// bound to a serial transport, and a set of simulated processes that
// exercise the driver the way real workloads would.
package app

import (
	"fmt"
	"log/slog"

	"ember/drivers/console"
	"ember/hal"
	"ember/internal/logging"
	"ember/kernel"
)

// process is a cooperatively scheduled unit of work. Step runs once per
// system tick and must not block.
type process interface {
	Step(tick uint64)
}

// System owns the kernel and the processes attached to it.
type System struct {
	Kernel *kernel.Kernel
	Uart   hal.Uart

	procs []process
	tick  uint64
	log   *slog.Logger
}

// New wires a kernel and console driver over the transport that mk builds.
// The factory receives the kernel as a Poster so the transport's completions
// land on the same loop as Step.
func New(mk func(hal.Poster) hal.Uart) *System {
	k := kernel.New()
	u := mk(k)
	c := console.New(u, k.Processes(),
		make([]byte, console.DefaultSlotSize),
		make([]byte, console.DefaultSlotSize))
	if !k.RegisterDriver(console.DriverNum, c) {
		panic("app: console driver slot taken")
	}
	return &System{
		Kernel: k,
		Uart:   u,
		log:    logging.For(logging.ComponentApp),
	}
}

// Step advances the system one tick: drain pending completions, run every
// process once, then drain whatever the processes queued.
func (s *System) Step() {
	s.Kernel.Drain()
	s.tick++
	for _, p := range s.procs {
		p.Step(s.tick)
	}
	s.Kernel.Drain()
}

// Tick reports how many steps have run.
func (s *System) Tick() uint64 { return s.tick }

func (s *System) attach(name string) (kernel.ProcessID, error) {
	id, ok := s.Kernel.Processes().Attach(name)
	if !ok {
		return 0, fmt.Errorf("app: process table full, cannot attach %q", name)
	}
	s.log.Info("process attached", "name", name, "pid", id)
	return id, nil
}

// SpawnGreeter attaches a process that periodically writes a banner longer
// than the transmit slot, forcing the driver to chunk it.
func (s *System) SpawnGreeter(name string, period uint64) error {
	id, err := s.attach(name)
	if err != nil {
		return err
	}
	g := newGreeter(s, id, period)
	s.procs = append(s.procs, g)
	return nil
}

// SpawnStatus attaches a process that writes short status lines. Run next
// to a greeter it keeps the transmit path contended, so pending writes get
// arbitrated across completions.
func (s *System) SpawnStatus(name string, period uint64) error {
	id, err := s.attach(name)
	if err != nil {
		return err
	}
	st := newStatus(s, id, period)
	s.procs = append(s.procs, st)
	return nil
}

// SpawnEcho attaches a process that keeps a receive armed, echoes whatever
// arrives, and aborts a stalled receive to flush partial input.
func (s *System) SpawnEcho(name string, stallTicks uint64) error {
	id, err := s.attach(name)
	if err != nil {
		return err
	}
	e := newEcho(s, id, stallTicks)
	s.procs = append(s.procs, e)
	return nil
}
