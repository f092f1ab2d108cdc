package app

import (
	"ember/drivers/console"
	"ember/kernel"
)

const echoChunk = 8

// echo keeps a receive armed and writes back whatever arrives. A receive
// that sits unfinished for stallTicks gets aborted so partial input still
// comes through.
type echo struct {
	sys   *System
	id    kernel.ProcessID
	stall uint64

	readBuf  []byte
	reading  bool
	armedAt  uint64
	writeBuf []byte
	writing  bool
	backlog  []byte
}

func newEcho(s *System, id kernel.ProcessID, stallTicks uint64) *echo {
	e := &echo{
		sys:     s,
		id:      id,
		stall:   stallTicks,
		readBuf: make([]byte, echoChunk),
	}
	if rc := s.Kernel.Subscribe(id, console.DriverNum, console.SubscribeReadDone, e.readDone); !rc.Ok() {
		s.log.Warn("echo read subscribe refused", "pid", id, "rc", rc)
	}
	if rc := s.Kernel.Subscribe(id, console.DriverNum, console.SubscribeWriteDone, e.writeDone); !rc.Ok() {
		s.log.Warn("echo write subscribe refused", "pid", id, "rc", rc)
	}
	if rc := s.Kernel.Allow(id, console.DriverNum, console.AllowReadBuffer, e.readBuf); !rc.Ok() {
		s.log.Warn("echo read allow refused", "pid", id, "rc", rc)
	}
	return e
}

func (e *echo) Step(tick uint64) {
	if !e.reading {
		if rc := e.sys.Kernel.Command(e.id, console.DriverNum, console.CommandRead, echoChunk); rc.Ok() {
			e.reading = true
			e.armedAt = tick
		}
	} else if e.stall > 0 && tick-e.armedAt >= e.stall {
		e.sys.Kernel.Command(e.id, console.DriverNum, console.CommandAbortRead, 0)
		e.armedAt = tick
	}
	e.flush()
}

func (e *echo) readDone(arg0, arg1, _ int) {
	e.reading = false
	rc := kernel.ReturnCode(arg0)
	if rc != kernel.Success && rc != kernel.ErrCancel {
		e.sys.log.Warn("echo read failed", "pid", e.id, "rc", rc)
		return
	}
	if arg1 > 0 {
		e.backlog = append(e.backlog, e.readBuf[:arg1]...)
	}
	e.flush()
}

func (e *echo) writeDone(arg0, _, _ int) {
	e.writing = false
	if arg0 < 0 {
		e.sys.log.Warn("echo write failed", "pid", e.id, "rc", kernel.ReturnCode(arg0))
	}
	e.flush()
}

// flush starts one write for whatever input has accumulated.
func (e *echo) flush() {
	if e.writing || len(e.backlog) == 0 {
		return
	}
	e.writeBuf = e.backlog
	e.backlog = nil
	if rc := e.sys.Kernel.Allow(e.id, console.DriverNum, console.AllowWriteBuffer, e.writeBuf); !rc.Ok() {
		e.backlog = e.writeBuf
		return
	}
	if rc := e.sys.Kernel.Command(e.id, console.DriverNum, console.CommandWrite, len(e.writeBuf)); !rc.Ok() {
		e.backlog = e.writeBuf
		return
	}
	e.writing = true
}
