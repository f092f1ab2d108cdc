package app

import (
	"fmt"

	"ember/drivers/console"
	"ember/kernel"
)

// status writes one short line per period. Short writes interleave with the
// greeter's chunked banners, which is what keeps the arbitration path warm.
type status struct {
	sys    *System
	id     kernel.ProcessID
	period uint64

	buf  []byte
	busy bool
}

func newStatus(s *System, id kernel.ProcessID, period uint64) *status {
	st := &status{sys: s, id: id, period: period}
	rc := s.Kernel.Subscribe(id, console.DriverNum, console.SubscribeWriteDone, st.writeDone)
	if !rc.Ok() {
		s.log.Warn("status subscribe refused", "pid", id, "rc", rc)
	}
	return st
}

func (st *status) Step(tick uint64) {
	if st.busy || tick%st.period != 0 {
		return
	}
	st.buf = []byte(fmt.Sprintf("status: tick=%d\r\n", tick))
	if rc := st.sys.Kernel.Allow(st.id, console.DriverNum, console.AllowWriteBuffer, st.buf); !rc.Ok() {
		return
	}
	if rc := st.sys.Kernel.Command(st.id, console.DriverNum, console.CommandWrite, len(st.buf)); !rc.Ok() {
		return
	}
	st.busy = true
}

func (st *status) writeDone(arg0, _, _ int) {
	st.busy = false
	if arg0 < 0 {
		st.sys.log.Warn("status write failed", "pid", st.id, "rc", kernel.ReturnCode(arg0))
	}
}
