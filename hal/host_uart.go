//go:build !tinygo

package hal

import (
	"io"
	"log/slog"
	"sync"

	"ember/internal/logging"
)

const hostBacklogLimit = 4096

// HostUart adapts a byte stream (a tty, a pty, or stdio) to the asynchronous
// Uart contract. A single reader goroutine pulls bytes off the stream into
// the receive assembler; transmits run on short-lived writer goroutines. All
// completions are posted to the kernel loop.
type HostUart struct {
	poster Poster
	w      io.Writer
	log    *slog.Logger

	mu     sync.Mutex
	tx     TxClient
	txBusy bool
	closed bool

	rx rxAssembler
}

// NewHostUart creates a host transport over w and, when r is non-nil, starts
// the reader goroutine.
func NewHostUart(p Poster, w io.Writer, r io.Reader) *HostUart {
	u := &HostUart{
		poster: p,
		w:      w,
		log:    logging.For(logging.ComponentHAL),
		rx:     rxAssembler{poster: p, limit: hostBacklogLimit},
	}
	if r != nil {
		go u.readLoop(r)
	}
	return u
}

func (u *HostUart) SetTransmitClient(c TxClient) {
	u.mu.Lock()
	u.tx = c
	u.mu.Unlock()
}

func (u *HostUart) SetReceiveClient(c RxClient) { u.rx.setClient(c) }

// Close stops accepting transfers. In-flight completions still run.
func (u *HostUart) Close() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
}

// Transmit writes buf[:n] to the underlying stream off-loop and posts one
// completion. A write error surfaces as StatusError; the buffer is returned
// either way.
func (u *HostUart) Transmit(buf []byte, n int) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return ErrClosed
	}
	if u.txBusy {
		u.mu.Unlock()
		return ErrBusy
	}
	u.txBusy = true
	u.mu.Unlock()
	if n > len(buf) {
		n = len(buf)
	}

	go func() {
		sent, err := u.w.Write(buf[:n])
		status := StatusNone
		if err != nil {
			u.log.Warn("uart write failed", "err", err, "sent", sent)
			status = StatusError
		}
		u.poster.Post(func() {
			u.mu.Lock()
			u.txBusy = false
			c := u.tx
			u.mu.Unlock()
			if c != nil {
				c.TransmitComplete(buf, sent, status)
			}
		})
	}()
	return nil
}

// Receive arms a read of up to n bytes into buf.
func (u *HostUart) Receive(buf []byte, n int) error {
	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return u.rx.arm(buf, n)
}

// AbortReceive completes an in-flight receive early with StatusAborted.
func (u *HostUart) AbortReceive() { u.rx.abort() }

func (u *HostUart) readLoop(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			u.rx.feed(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				u.log.Warn("uart read failed", "err", err)
			}
			return
		}
	}
}
