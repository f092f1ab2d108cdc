package app

import (
	"fmt"

	"ember/drivers/console"
	"ember/kernel"
)

const banner = "ember console up. cooperative kernel, one uart, many writers.\r\n" +
	"type at the prompt and the echo task will repeat it back.\r\n"

// greeter writes a banner longer than one transmit slot on a fixed period.
type greeter struct {
	sys    *System
	id     kernel.ProcessID
	period uint64

	buf   []byte
	busy  bool
	count int
}

func newGreeter(s *System, id kernel.ProcessID, period uint64) *greeter {
	g := &greeter{sys: s, id: id, period: period}
	rc := s.Kernel.Subscribe(id, console.DriverNum, console.SubscribeWriteDone, g.writeDone)
	if !rc.Ok() {
		s.log.Warn("greeter subscribe refused", "pid", id, "rc", rc)
	}
	return g
}

func (g *greeter) Step(tick uint64) {
	if g.busy || tick%g.period != 1 {
		return
	}
	g.count++
	g.buf = []byte(fmt.Sprintf("[%d] %s", g.count, banner))
	if rc := g.sys.Kernel.Allow(g.id, console.DriverNum, console.AllowWriteBuffer, g.buf); !rc.Ok() {
		g.sys.log.Warn("greeter allow refused", "pid", g.id, "rc", rc)
		return
	}
	if rc := g.sys.Kernel.Command(g.id, console.DriverNum, console.CommandWrite, len(g.buf)); !rc.Ok() {
		g.sys.log.Warn("greeter write refused", "pid", g.id, "rc", rc)
		return
	}
	g.busy = true
}

func (g *greeter) writeDone(arg0, _, _ int) {
	g.busy = false
	if arg0 < 0 {
		g.sys.log.Warn("greeter write failed", "pid", g.id, "rc", kernel.ReturnCode(arg0))
	}
}
