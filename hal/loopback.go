package hal

import "sync"

// LoopUart is an in-memory serial transport used by the host simulator and
// by tests. Transmitted bytes go to an optional sink (and, with echo on,
// back into the receive side); received bytes are injected with Feed.
// Completions are posted to the kernel loop, never delivered from inside
// Transmit or Receive, so the transport behaves like real asynchronous
// hardware.
type LoopUart struct {
	poster Poster

	mu     sync.Mutex
	tx     TxClient
	sink   func([]byte)
	echo   bool
	txBusy bool

	rx rxAssembler
}

// NewLoopUart creates a loop transport posting completions to p.
func NewLoopUart(p Poster) *LoopUart {
	return &LoopUart{poster: p, rx: rxAssembler{poster: p}}
}

func (u *LoopUart) SetTransmitClient(c TxClient) {
	u.mu.Lock()
	u.tx = c
	u.mu.Unlock()
}

func (u *LoopUart) SetReceiveClient(c RxClient) { u.rx.setClient(c) }

// SetSink installs a consumer for transmitted bytes. The sink runs on the
// kernel loop and must not call back into the transport.
func (u *LoopUart) SetSink(f func([]byte)) {
	u.mu.Lock()
	u.sink = f
	u.mu.Unlock()
}

// SetEcho controls whether transmitted bytes are fed back into the receive
// side.
func (u *LoopUart) SetEcho(on bool) {
	u.mu.Lock()
	u.echo = on
	u.mu.Unlock()
}

// Transmit sends buf[:n] to the sink and posts one completion.
func (u *LoopUart) Transmit(buf []byte, n int) error {
	u.mu.Lock()
	if u.txBusy {
		u.mu.Unlock()
		return ErrBusy
	}
	u.txBusy = true
	if n > len(buf) {
		n = len(buf)
	}
	data := make([]byte, n)
	copy(data, buf[:n])
	sink, echo := u.sink, u.echo
	u.mu.Unlock()

	u.poster.Post(func() {
		u.mu.Lock()
		u.txBusy = false
		c := u.tx
		u.mu.Unlock()
		if sink != nil {
			sink(data)
		}
		if echo {
			u.Feed(data)
		}
		if c != nil {
			c.TransmitComplete(buf, n, StatusNone)
		}
	})
	return nil
}

// Receive arms a read of up to n bytes into buf. Bytes already fed are
// consumed first; the completion fires once n bytes have arrived or the
// receive is aborted.
func (u *LoopUart) Receive(buf []byte, n int) error { return u.rx.arm(buf, n) }

// Feed injects received bytes, as a wire would.
func (u *LoopUart) Feed(b []byte) { u.rx.feed(b) }

// AbortReceive completes an in-flight receive with whatever has arrived so
// far and StatusAborted. A no-op when no receive is armed.
func (u *LoopUart) AbortReceive() { u.rx.abort() }
