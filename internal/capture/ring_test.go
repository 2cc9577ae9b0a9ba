package capture

import (
	"image/color"
	"testing"

	"github.com/aizikovskyi/bullet/internal/core"
)

func newTestRing(buffers int) *Ring {
	return NewRing(Options{Buffers: buffers, Width: 100, Height: 130, Scale: 0.5, BlendWeight: 0.4})
}

func capture(r *Ring, x, y float64, c core.Color) {
	r.Begin()
	r.DrawCircle(x, y, 4, c)
	r.End()
}

func TestNewRingSize(t *testing.T) {
	r := newTestRing(5)
	b := r.Composite().Bounds()
	if b.Dx() != 50 || b.Dy() != 65 {
		t.Errorf("composite size = %dx%d, expected 50x65", b.Dx(), b.Dy())
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, expected 5", r.Len())
	}
	if r.Filled() {
		t.Error("new ring should not be filled")
	}
}

func TestFilledAfterAllBuffers(t *testing.T) {
	r := newTestRing(5)
	for i := range 4 {
		capture(r, 50, 50, core.ColorWhite)
		if r.Filled() {
			t.Fatalf("ring filled after %d captures, expected 5", i+1)
		}
	}
	capture(r, 50, 50, core.ColorWhite)
	if !r.Filled() {
		t.Error("ring should be filled after 5 captures")
	}
	if r.Captures() != 5 {
		t.Errorf("Captures() = %d, expected 5", r.Captures())
	}
}

func TestCompositeBeforeFilledHoldsNewestOnly(t *testing.T) {
	r := newTestRing(3)
	capture(r, 20, 20, core.ColorRed)
	capture(r, 80, 100, core.ColorWhite)

	img := r.Composite()
	if got := img.RGBAAt(40, 50); got != core.ColorWhite.RGBA() {
		t.Errorf("newest pixel = %v, expected white", got)
	}
	if got := img.RGBAAt(10, 10); got != Background {
		t.Errorf("older pixel = %v, expected background before ring is filled", got)
	}
}

func TestCompositeBlendsGhostFrame(t *testing.T) {
	r := newTestRing(3)
	capture(r, 20, 20, core.ColorRed)    // ghost of the third capture
	capture(r, 50, 60, core.ColorBlue)   // skipped
	capture(r, 80, 100, core.ColorWhite) // newest

	img := r.Composite()
	if got := img.RGBAAt(40, 50); got != core.ColorWhite.RGBA() {
		t.Errorf("newest pixel = %v, expected white", got)
	}
	if got := img.RGBAAt(25, 30); got != Background {
		t.Errorf("middle capture pixel = %v, expected background", got)
	}

	ghost := img.RGBAAt(10, 10)
	if ghost.R < 90 || ghost.R > 115 {
		t.Errorf("ghost red = %d, expected about 40%% of 255", ghost.R)
	}
	if ghost.G == 0 || ghost.G >= Background.G {
		t.Errorf("ghost green = %d, expected background partly covered", ghost.G)
	}
}

func TestReset(t *testing.T) {
	r := newTestRing(2)
	capture(r, 50, 50, core.ColorWhite)
	capture(r, 50, 50, core.ColorWhite)
	r.Reset()

	if r.Filled() || r.Captures() != 0 {
		t.Error("Reset() should clear fill state and counters")
	}
	if got := r.Composite().RGBAAt(25, 25); got != (color.RGBA{}) {
		t.Errorf("composite after Reset = %v, expected cleared", got)
	}
}

func TestFillCircleClipsToBounds(t *testing.T) {
	r := newTestRing(2)
	r.Begin()
	r.DrawCircle(-2, -2, 6, core.ColorWhite)
	r.DrawCircle(200, 300, 6, core.ColorWhite)
	r.DrawCircle(50, 50, 0, core.ColorWhite)
	r.End()

	if got := r.Composite().RGBAAt(0, 0); got != core.ColorWhite.RGBA() {
		t.Errorf("corner pixel = %v, expected clipped circle", got)
	}
	if got := r.Composite().RGBAAt(25, 25); got != Background {
		t.Errorf("zero-radius circle drew %v", got)
	}
}
