//go:build tinygo && baremetal

package hal

import (
	"machine"
	"sync"
	"time"
)

// DeviceUart drives the board's primary UART.
//
// UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Transmits run on a goroutine
// pushing through the machine driver; a poll loop feeds received bytes into
// the assembler. Completions are posted to the kernel loop.
type DeviceUart struct {
	poster Poster
	uart   *machine.UART

	mu     sync.Mutex
	tx     TxClient
	txBusy bool

	rx rxAssembler
}

// NewDeviceUart configures the hardware UART and starts the receive poll
// loop.
func NewDeviceUart(p Poster) *DeviceUart {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	u := &DeviceUart{
		poster: p,
		uart:   uart,
		rx:     rxAssembler{poster: p, limit: 1024},
	}
	go u.pollLoop()
	return u
}

func (u *DeviceUart) SetTransmitClient(c TxClient) {
	u.mu.Lock()
	u.tx = c
	u.mu.Unlock()
}

func (u *DeviceUart) SetReceiveClient(c RxClient) { u.rx.setClient(c) }

// Transmit pushes buf[:n] through the machine driver and posts one
// completion.
func (u *DeviceUart) Transmit(buf []byte, n int) error {
	u.mu.Lock()
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
		sent := 0
		for sent < n {
			w, err := u.uart.Write(buf[sent:n])
			sent += w
			if err != nil {
				time.Sleep(time.Millisecond)
			}
		}
		u.poster.Post(func() {
			u.mu.Lock()
			u.txBusy = false
			c := u.tx
			u.mu.Unlock()
			if c != nil {
				c.TransmitComplete(buf, sent, StatusNone)
			}
		})
	}()
	return nil
}

// Receive arms a read of up to n bytes into buf.
func (u *DeviceUart) Receive(buf []byte, n int) error { return u.rx.arm(buf, n) }

// AbortReceive completes an in-flight receive early with StatusAborted.
func (u *DeviceUart) AbortReceive() { u.rx.abort() }

func (u *DeviceUart) pollLoop() {
	var tmp [64]byte
	for {
		n := 0
		for n < len(tmp) && u.uart.Buffered() > 0 {
			b, err := u.uart.ReadByte()
			if err != nil {
				break
			}
			tmp[n] = b
			n++
		}
		if n > 0 {
			u.rx.feed(tmp[:n])
			continue
		}
		time.Sleep(time.Millisecond)
	}
}
