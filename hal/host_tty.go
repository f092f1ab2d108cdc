//go:build !tinygo && linux

package hal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var ttyBauds = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// OpenTTY opens a serial device in raw 8N1 mode with no echo and no flow
// control, so the host transport sees the same opaque byte stream a real
// UART would.
func OpenTTY(path string, baud int) (*os.File, error) {
	rate, ok := ttyBauds[baud]
	if !ok {
		return nil, fmt.Errorf("unsupported baud rate %d", baud)
	}

	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0o666)
	if err != nil {
		return nil, err
	}

	t := unix.Termios{
		Iflag:  unix.IGNPAR,
		Cflag:  unix.CREAD | unix.CLOCAL | unix.CS8 | rate,
		Ispeed: rate,
		Ospeed: rate,
	}
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	fd := int(f.Fd())
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
		f.Close()
		return nil, fmt.Errorf("configure %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, false); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
