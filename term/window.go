//go:build !tinygo

package term

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Window presents a Display in a desktop window and forwards keystrokes to
// an input sink as raw serial bytes.
type Window struct {
	d     *Display
	step  func() error
	input func([]byte)

	img *ebiten.Image
	pix []byte
}

// RunWindow opens the window and blocks until it closes or step returns an
// error. step runs once per frame on the window goroutine.
func RunWindow(d *Display, title string, step func() error, input func([]byte)) error {
	w, h := d.Bounds()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(&Window{d: d, step: step, input: input})
}

func (g *Window) Update() error {
	if g.input != nil {
		if b := collectInput(); len(b) > 0 {
			g.input(b)
		}
	}
	if g.step != nil {
		return g.step()
	}
	return nil
}

// collectInput turns this frame's keystrokes into wire bytes.
func collectInput() []byte {
	var b []byte
	for _, r := range ebiten.AppendInputChars(nil) {
		if r < 0x80 {
			b = append(b, byte(r))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		b = append(b, '\r')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		b = append(b, 0x7f)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		b = append(b, 0x1b)
	}
	return b
}

func (g *Window) Draw(screen *ebiten.Image) {
	w, h := g.d.Bounds()
	if g.img == nil {
		g.img = ebiten.NewImage(w, h)
		g.pix = make([]byte, w*h*4)
	}
	g.d.Snapshot(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *Window) Layout(_, _ int) (int, int) { return g.d.Bounds() }
