// Package term renders the console's byte stream on the host: a tinyterm
// terminal drawing into an in-memory framebuffer, presented either in a
// desktop window or not at all (headless).
package term

import (
	"image"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Display)(nil)

// Display is an RGBA framebuffer implementing the display contract tinyterm
// draws against. Rendering happens on the kernel loop; the window goroutine
// reads frames through Snapshot, so pixel access is locked.
type Display struct {
	mu   sync.Mutex
	img  *image.RGBA
	w, h int
}

// NewDisplay creates a w-by-h framebuffer.
func NewDisplay(w, h int) *Display {
	return &Display{img: image.NewRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

// Bounds returns the framebuffer dimensions.
func (d *Display) Bounds() (int, int) { return d.w, d.h }

func (d *Display) Size() (int16, int16) { return int16(d.w), int16(d.h) }

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || int(x) >= d.w || y < 0 || int(y) >= d.h {
		return
	}
	d.mu.Lock()
	d.img.SetRGBA(int(x), int(y), c)
	d.mu.Unlock()
}

func (d *Display) Display() error { return nil }

// Snapshot copies the current frame into dst as RGBA, 4 bytes per pixel.
func (d *Display) Snapshot(dst []byte) {
	d.mu.Lock()
	copy(dst, d.img.Pix)
	d.mu.Unlock()
}
