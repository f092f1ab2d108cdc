// Package hal defines the hardware boundary consumed by the driver layer and
// provides per-platform transport implementations behind build tags.
package hal

import "errors"

var (
	// ErrBusy reports a transfer started while one is already in flight.
	ErrBusy = errors.New("transfer already in flight")
	// ErrClosed reports an operation on a shut-down transport.
	ErrClosed = errors.New("transport closed")
)

// Status is the outcome reported by the transport on completion.
type Status uint8

const (
	// StatusNone means the transfer completed without error.
	StatusNone Status = iota
	// StatusAborted means the transfer was cut short by an abort request.
	StatusAborted
	// StatusError means the hardware reported a failure.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusAborted:
		return "aborted"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// TxClient consumes transmit completions. The buffer handed to Transmit is
// returned to the client exactly once, regardless of outcome.
type TxClient interface {
	TransmitComplete(buf []byte, sent int, status Status)
}

// RxClient consumes receive completions. The buffer handed to Receive is
// returned to the client exactly once, regardless of outcome.
type RxClient interface {
	ReceiveComplete(buf []byte, n int, status Status)
}

// Uart is an asynchronous serial transport. Transmit and Receive are
// non-blocking: they either refuse the transfer synchronously or accept it
// and later deliver exactly one completion to the registered client. The
// transport owns the buffer from acceptance until the completion returns it.
// At most one transmit and one receive may be in flight at a time; the two
// directions are independent.
type Uart interface {
	SetTransmitClient(c TxClient)
	SetReceiveClient(c RxClient)

	// Transmit starts sending buf[:n].
	Transmit(buf []byte, n int) error
	// Receive starts reading up to n bytes into buf.
	Receive(buf []byte, n int) error
	// AbortReceive asks the hardware to terminate an in-flight receive.
	// Fire-and-forget: confirmation arrives through the normal receive
	// completion with StatusAborted. A no-op when nothing is in flight.
	AbortReceive()
}

// Poster schedules work onto the kernel event loop. Transport back ends that
// complete transfers on their own goroutines post completions instead of
// invoking clients directly, so all driver state mutation stays on one
// thread of control.
type Poster interface {
	Post(fn func())
}
