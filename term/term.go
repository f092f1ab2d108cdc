package term

import (
	"sync"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// Terminal renders a byte stream into a Display. It is the host-side sink
// for everything the console driver puts on the wire.
type Terminal struct {
	mu sync.Mutex
	t  *tinyterm.Terminal
}

// NewTerminal creates a terminal over the display.
func NewTerminal(d *Display) *Terminal {
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
	return &Terminal{t: t}
}

// Write implements io.Writer.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.t.Write(p)
}
