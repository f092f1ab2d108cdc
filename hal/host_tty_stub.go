//go:build !tinygo && !linux

package hal

import (
	"errors"
	"os"
)

// OpenTTY is only implemented for linux hosts.
func OpenTTY(path string, baud int) (*os.File, error) {
	return nil, errors.New("hal: serial tty bridging requires linux")
}
