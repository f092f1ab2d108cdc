package hal

import "sync"

// rxAssembler accumulates incoming wire bytes and satisfies one armed
// receive at a time. Transport back ends feed bytes from whatever context
// delivers them (reader goroutine, poll loop, test); the assembler posts the
// single completion to the kernel loop once the armed length is reached or
// the receive is aborted.
type rxAssembler struct {
	poster Poster
	limit  int // backlog cap, 0 = unbounded

	mu     sync.Mutex
	client RxClient

	pending []byte
	busy    bool
	filled  bool
	buf     []byte
	want    int
	got     int
}

func (a *rxAssembler) setClient(c RxClient) {
	a.mu.Lock()
	a.client = c
	a.mu.Unlock()
}

// arm starts a receive of up to n bytes into buf, consuming backlog first.
func (a *rxAssembler) arm(buf []byte, n int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return ErrBusy
	}
	if n > len(buf) {
		n = len(buf)
	}
	a.busy = true
	a.filled = false
	a.buf = buf
	a.want = n
	a.got = 0
	a.fillLocked()
	return nil
}

// feed injects received bytes. Beyond the backlog cap the oldest bytes are
// dropped; this layer has no flow control.
func (a *rxAssembler) feed(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mu.Lock()
	a.pending = append(a.pending, b...)
	if a.limit > 0 {
		if over := len(a.pending) - a.limit; over > 0 {
			a.pending = a.pending[over:]
		}
	}
	a.fillLocked()
	a.mu.Unlock()
}

// abort completes an in-flight receive with what has arrived so far.
func (a *rxAssembler) abort() {
	a.mu.Lock()
	if a.busy && !a.filled {
		a.completeLocked(StatusAborted)
	}
	a.mu.Unlock()
}

func (a *rxAssembler) fillLocked() {
	if !a.busy || a.filled {
		return
	}
	n := copy(a.buf[a.got:a.want], a.pending)
	a.pending = a.pending[n:]
	a.got += n
	if a.got == a.want {
		a.completeLocked(StatusNone)
	}
}

func (a *rxAssembler) completeLocked(status Status) {
	a.filled = true
	buf, got := a.buf, a.got
	a.poster.Post(func() {
		a.mu.Lock()
		a.busy = false
		a.filled = false
		a.buf = nil
		c := a.client
		a.mu.Unlock()
		if c != nil {
			c.ReceiveComplete(buf, got, status)
		}
	})
}
