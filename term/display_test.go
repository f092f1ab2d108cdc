package term

import (
	"image/color"
	"testing"
)

func TestDisplayPixelBounds(t *testing.T) {
	d := NewDisplay(4, 3)

	w, h := d.Size()
	if w != 4 || h != 3 {
		t.Fatalf("size %dx%d", w, h)
	}

	red := color.RGBA{R: 0xFF, A: 0xFF}
	d.SetPixel(1, 2, red)
	// Out-of-range writes are dropped, not wrapped.
	d.SetPixel(-1, 0, red)
	d.SetPixel(4, 0, red)
	d.SetPixel(0, 3, red)

	pix := make([]byte, 4*3*4)
	d.Snapshot(pix)

	set := 0
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 0 {
			set++
		}
	}
	if set != 1 {
		t.Fatalf("expected exactly one red pixel, found %d", set)
	}
	off := (2*4 + 1) * 4
	if pix[off] != 0xFF {
		t.Fatal("pixel landed at the wrong offset")
	}
}
