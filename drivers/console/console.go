// Package console exposes the serial line to multiple untrusted processes.
//
// The driver owns one transmit and one receive hardware buffer. Write
// requests larger than the transmit buffer are chunked across successive
// hardware transmissions; writes arriving while another process's
// transmission is in flight are parked and started later in attachment
// order, one per completion. Reads are single-shot: a request must fit the
// receive buffer whole, and only one receive may be outstanding
// system-wide. Every accepted request yields exactly one upcall.
//
// A process performs three steps to write:
//
//	Subscribe(console.DriverNum, console.SubscribeWriteDone, cb) // optional
//	Allow(console.DriverNum, console.AllowWriteBuffer, buf)
//	Command(console.DriverNum, console.CommandWrite, len(buf))
//
// A successful write consumes the allowed buffer; successive writes must
// allow a buffer each time.
package console

import (
	"ember/hal"
	"ember/kernel"
)

// DriverNum is the console's stable driver identifier.
const DriverNum = 0

// Allow selectors.
const (
	AllowWriteBuffer = 1
	AllowReadBuffer  = 2
)

// Subscribe selectors.
const (
	SubscribeWriteDone = 1
	SubscribeReadDone  = 2
)

// Command selectors.
const (
	CommandProbe     = 0
	CommandWrite     = 1
	CommandRead      = 2
	CommandAbortRead = 3
)

// DefaultSlotSize is the conventional size for the shared hardware buffers.
const DefaultSlotSize = 64

// app is the per-process console state, allocated in the driver's grant
// region on first use.
type app struct {
	writeUpcall    kernel.Upcall
	writeBuffer    []byte // nil once consumed into the transmit slot or fully sent
	writeLen       int    // total bytes of the current logical write
	writeRemaining int    // bytes not yet handed to hardware
	writeOffset    int    // bytes already consumed from writeBuffer
	pendingWrite   bool   // asked to write while the slot was claimed

	readUpcall kernel.Upcall
	readBuffer []byte
	readLen    int
}

// Console multiplexes one Uart across all attached processes.
type Console struct {
	uart hal.Uart
	apps *kernel.Grant[app]

	txInProgress kernel.OptionalCell[kernel.ProcessID]
	txBuffer     kernel.TakeCell[[]byte]
	rxInProgress kernel.OptionalCell[kernel.ProcessID]
	rxBuffer     kernel.TakeCell[[]byte]
}

// New creates the console driver. txBuf and rxBuf become the shared
// transaction slots; they are owned by the driver and the hardware for the
// lifetime of the system and are never reallocated.
func New(uart hal.Uart, procs *kernel.ProcessTable, txBuf, rxBuf []byte) *Console {
	c := &Console{
		uart: uart,
		apps: kernel.NewGrant[app](procs),
	}
	c.txBuffer.Replace(txBuf)
	c.rxBuffer.Replace(rxBuf)
	uart.SetTransmitClient(c)
	uart.SetReceiveClient(c)
	return c
}

// Allow registers a process-owned byte range.
//
//   - AllowWriteBuffer: buffer for subsequent writes
//   - AllowReadBuffer: buffer for subsequent reads
//
// A replacement does not disturb an in-flight operation: a range already
// copied into a slot continues on the wire. Swapping the write buffer while
// a write transaction still holds unsent data is rejected with ErrBusy;
// resizing a transaction midway is not supported.
func (c *Console) Allow(id kernel.ProcessID, num int, slice []byte) kernel.ReturnCode {
	switch num {
	case AllowWriteBuffer:
		rc := kernel.Success
		if ec := c.apps.Enter(id, func(a *app) {
			if a.writeRemaining > 0 || a.pendingWrite {
				rc = kernel.ErrBusy
				return
			}
			a.writeBuffer = slice
		}); !ec.Ok() {
			return ec
		}
		return rc
	case AllowReadBuffer:
		return c.apps.Enter(id, func(a *app) {
			a.readBuffer = slice
		})
	default:
		return kernel.ErrNoSupport
	}
}

// Subscribe registers a completion notifier.
//
//   - SubscribeWriteDone: write completed
//   - SubscribeReadDone: read completed
func (c *Console) Subscribe(id kernel.ProcessID, num int, upcall kernel.Upcall) kernel.ReturnCode {
	switch num {
	case SubscribeWriteDone:
		return c.apps.Enter(id, func(a *app) {
			a.writeUpcall = upcall
		})
	case SubscribeReadDone:
		return c.apps.Enter(id, func(a *app) {
			a.readUpcall = upcall
		})
	default:
		return kernel.ErrNoSupport
	}
}

// Command starts serial transfers.
//
//   - CommandProbe: capability probe, always succeeds
//   - CommandWrite: transmit up to arg bytes of the allowed write buffer
//   - CommandRead: receive up to arg bytes into the allowed read buffer
//   - CommandAbortRead: abort the in-flight receive; reports success
//     synchronously, the real outcome follows via the read upcall
func (c *Console) Command(id kernel.ProcessID, cmd int, arg int) kernel.ReturnCode {
	switch cmd {
	case CommandProbe:
		return kernel.Success
	case CommandWrite:
		rc := kernel.ErrFail
		if ec := c.apps.Enter(id, func(a *app) {
			rc = c.sendNew(id, a, arg)
		}); !ec.Ok() {
			return ec
		}
		return rc
	case CommandRead:
		rc := kernel.ErrFail
		if ec := c.apps.Enter(id, func(a *app) {
			rc = c.receiveNew(id, a, arg)
		}); !ec.Ok() {
			return ec
		}
		return rc
	case CommandAbortRead:
		c.uart.AbortReceive()
		return kernel.Success
	default:
		return kernel.ErrNoSupport
	}
}

// sendNew sets up a new write transaction. The allowed buffer is consumed:
// ErrBusy until the process allows a fresh one. A process has at most one
// write transaction outstanding; starting another before the completion
// upcall is ErrBusy as well.
func (c *Console) sendNew(id kernel.ProcessID, a *app, n int) kernel.ReturnCode {
	if a.writeLen > 0 || a.pendingWrite {
		return kernel.ErrBusy
	}
	if owner, ok := c.txInProgress.Get(); ok && owner == id {
		return kernel.ErrBusy
	}
	buf := a.writeBuffer
	if buf == nil {
		return kernel.ErrBusy
	}
	a.writeBuffer = nil
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}
	a.writeLen = n
	a.writeRemaining = n
	a.writeOffset = 0
	c.send(id, a, buf)
	return kernel.Success
}

// sendContinue carries a transaction forward after a chunk completes. It
// reports whether the transaction still has data in flight; ErrReserve means
// the retained buffer is unexpectedly absent, a broken invariant the caller
// surfaces to the process as a failed transaction.
func (c *Console) sendContinue(id kernel.ProcessID, a *app) (bool, kernel.ReturnCode) {
	if a.writeRemaining == 0 {
		return false, kernel.Success
	}
	buf := a.writeBuffer
	if buf == nil {
		return false, kernel.ErrReserve
	}
	a.writeBuffer = nil
	c.send(id, a, buf)
	return true, kernel.Success
}

// send copies the next chunk into the transmit slot and starts the hardware,
// or parks the request as pending when the slot is claimed by another
// process. Cannot fail: a request that cannot start now starts later via
// arbitration.
func (c *Console) send(id kernel.ProcessID, a *app, buf []byte) {
	if c.txInProgress.Present() {
		a.pendingWrite = true
		a.writeBuffer = buf
		return
	}

	slot, ok := c.txBuffer.Take()
	if !ok {
		// Owner cell idle but the slot is gone: the hand-off invariant is
		// broken. Park the request; the reserve fault surfaces when the slot
		// comes back.
		a.pendingWrite = true
		a.writeBuffer = buf
		return
	}
	c.txInProgress.Set(id)

	n := copy(slot, buf[a.writeOffset:a.writeOffset+a.writeRemaining])
	a.writeOffset += n
	a.writeRemaining -= n
	if a.writeRemaining > 0 {
		a.writeBuffer = buf // more chunks to come
	}

	if err := c.uart.Transmit(slot, n); err != nil {
		// The hardware refused, so no completion will arrive. Reclaim the
		// slot and fail the transaction now rather than stall it forever.
		c.txBuffer.Replace(slot)
		c.txInProgress.Clear()
		c.clearWrite(a)
		a.writeUpcall.Schedule(int(kernel.ErrFail), 0, 0)
	}
}

// receiveNew sets up a single-shot read. The request must fit the receive
// slot whole; incremental reads are deliberately unsupported.
func (c *Console) receiveNew(id kernel.ProcessID, a *app, n int) kernel.ReturnCode {
	slot, ok := c.rxBuffer.Take()
	if !ok {
		// Another process's receive is in flight.
		return kernel.ErrBusy
	}
	if a.readBuffer == nil {
		c.rxBuffer.Replace(slot)
		return kernel.ErrInvalid
	}
	if n < 0 {
		n = 0
	}
	if n > len(a.readBuffer) {
		n = len(a.readBuffer)
	}
	if n > len(slot) {
		c.rxBuffer.Replace(slot)
		return kernel.ErrSize
	}
	a.readLen = n
	c.rxInProgress.Set(id)
	if err := c.uart.Receive(slot, n); err != nil {
		c.rxInProgress.Clear()
		c.rxBuffer.Replace(slot)
		return kernel.ErrFail
	}
	return kernel.Success
}

func (c *Console) clearWrite(a *app) {
	a.writeBuffer = nil
	a.writeLen = 0
	a.writeRemaining = 0
	a.writeOffset = 0
	a.pendingWrite = false
}

// TransmitComplete consumes a transmit completion from the hardware: the
// slot is returned first, unconditionally; then the owning transaction
// either continues with its next chunk or finishes and notifies its process;
// finally, if the slot is idle, arbitration starts at most one pending
// writer, scanning in attachment order.
func (c *Console) TransmitComplete(buf []byte, _ int, _ hal.Status) {
	c.txBuffer.Replace(buf)

	if id, ok := c.txInProgress.Take(); ok {
		// A torn-down owner makes Enter fail; the transaction dies with it
		// and the slot stays with the driver.
		_ = c.apps.Enter(id, func(a *app) {
			more, rc := c.sendContinue(id, a)
			if !rc.Ok() {
				c.clearWrite(a)
				a.writeUpcall.Schedule(int(rc), 0, 0)
				return
			}
			if !more {
				written := a.writeLen
				a.writeLen = 0
				a.writeUpcall.Schedule(written, 0, 0)
			}
		})
	}

	if c.txInProgress.Present() {
		// A continuation chunk is on the wire.
		return
	}

	c.apps.Each(func(id kernel.ProcessID, a *app) bool {
		if !a.pendingWrite {
			return true
		}
		a.pendingWrite = false
		more, rc := c.sendContinue(id, a)
		if !rc.Ok() {
			c.clearWrite(a)
			a.writeUpcall.Schedule(int(rc), 0, 0)
			return true
		}
		if !more {
			// Zero-length request: nothing to put on the wire, but the
			// process still gets its one completion.
			written := a.writeLen
			a.writeLen = 0
			a.writeUpcall.Schedule(written, 0, 0)
			return true
		}
		// One new transaction per completion bounds the work done here.
		return false
	})
}

// ReceiveComplete consumes a receive completion from the hardware. The slot
// is always returned to the driver and the owner is cleared unconditionally;
// the owner, if still alive, gets exactly one upcall describing the outcome.
func (c *Console) ReceiveComplete(buf []byte, n int, status hal.Status) {
	if id, ok := c.rxInProgress.Take(); ok {
		_ = c.apps.Enter(id, func(a *app) {
			defer func() { a.readLen = 0 }()
			switch status {
			case hal.StatusNone, hal.StatusAborted:
				if a.readBuffer == nil {
					// Registration vanished mid-flight; nowhere to copy.
					a.readUpcall.Schedule(int(kernel.ErrInvalid), 0, 0)
					return
				}
				copied := copy(a.readBuffer, buf[:n])
				if status == hal.StatusAborted {
					a.readUpcall.Schedule(int(kernel.ErrCancel), copied, 0)
					return
				}
				a.readUpcall.Schedule(int(kernel.Success), copied, 0)
			default:
				a.readUpcall.Schedule(int(kernel.ErrFail), 0, 0)
			}
		})
	}
	c.rxBuffer.Replace(buf)
}
