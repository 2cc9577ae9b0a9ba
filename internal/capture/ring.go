// Package capture rasterises simulation frames into a ring of small RGBA
// buffers and blends the newest frame with an older one, giving an
// autonomous controller a single image that also encodes motion.
package capture

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/aizikovskyi/bullet/internal/core"
)

// Background fills the composite where nothing was drawn.
var Background = color.RGBA{R: 0, G: 128, B: 0, A: 255}

// Options configures a Ring.
type Options struct {
	Buffers     int     // Ring length; the ghost frame is Buffers-1 captures old
	Width       float64 // Field width in field units
	Height      float64 // Captured field height in field units
	Scale       float64 // Pixels per field unit
	BlendWeight float64 // Opacity of the ghost frame
}

// Ring is a fixed ring of frame buffers plus the composite built from them.
// It implements the simulation's frame sink, so a capture is a normal draw
// with zero extrapolation. Score text is ignored.
type Ring struct {
	opts      Options
	buffers   []*image.RGBA
	composite *image.RGBA
	ghost     *image.Uniform
	cur       int
	filled    bool
	captures  int
}

// NewRing allocates the buffers. Buffers below 2 are raised to 2.
func NewRing(opts Options) *Ring {
	opts.Buffers = max(opts.Buffers, 2)
	w := int(math.Round(opts.Width * opts.Scale))
	h := int(math.Round(opts.Height * opts.Scale))
	bounds := image.Rect(0, 0, max(w, 1), max(h, 1))

	r := &Ring{
		opts:      opts,
		buffers:   make([]*image.RGBA, opts.Buffers),
		composite: image.NewRGBA(bounds),
		ghost:     image.NewUniform(color.Alpha{A: uint8(math.Round(core.ClampF(opts.BlendWeight, 0, 1) * 255))}),
	}
	for i := range r.buffers {
		r.buffers[i] = image.NewRGBA(bounds)
	}
	return r
}

// Reset forgets all captures, as at the start of a run.
func (r *Ring) Reset() {
	r.cur = 0
	r.filled = false
	r.captures = 0
	for _, b := range r.buffers {
		clear(b.Pix)
	}
	clear(r.composite.Pix)
}

// Begin clears the buffer the next capture draws into.
func (r *Ring) Begin() {
	clear(r.buffers[r.cur].Pix)
}

// DrawCircle fills a circle given in field coordinates into the current buffer.
func (r *Ring) DrawCircle(x, y, radius float64, c core.Color) {
	fillCircle(r.buffers[r.cur], x*r.opts.Scale, y*r.opts.Scale, radius*r.opts.Scale, c.RGBA())
}

// ShowScore is a no-op; the observation carries no text.
func (r *Ring) ShowScore(string) {}

// ShowHighScore is a no-op.
func (r *Ring) ShowHighScore(string) {}

// End composites the newest buffer with the ghost frame and advances the ring.
func (r *Ring) End() {
	n := len(r.buffers)
	if !r.filled && r.cur == n-1 {
		r.filled = true
	}

	bounds := r.composite.Bounds()
	draw.Draw(r.composite, bounds, image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(r.composite, bounds, r.buffers[r.cur], image.Point{}, draw.Over)
	if r.filled {
		past := r.buffers[(r.cur+1)%n]
		draw.DrawMask(r.composite, bounds, past, image.Point{}, r.ghost, image.Point{}, draw.Over)
	}

	r.cur = (r.cur + 1) % n
	r.captures++
}

// Composite returns the most recent composite. It is overwritten by the next capture.
func (r *Ring) Composite() *image.RGBA {
	return r.composite
}

// Filled reports whether every buffer has been written at least once.
func (r *Ring) Filled() bool {
	return r.filled
}

// Captures returns the number of captures since the last Reset.
func (r *Ring) Captures() int {
	return r.captures
}

// Len returns the number of buffers in the ring.
func (r *Ring) Len() int {
	return len(r.buffers)
}

// fillCircle sets every pixel whose center lies inside the circle.
func fillCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	x0 := max(int(math.Floor(cx-radius)), b.Min.X)
	x1 := min(int(math.Ceil(cx+radius)), b.Max.X-1)
	y0 := max(int(math.Floor(cy-radius)), b.Min.Y)
	y1 := min(int(math.Ceil(cy+radius)), b.Max.Y-1)

	r2 := radius * radius
	for py := y0; py <= y1; py++ {
		dy := float64(py) + 0.5 - cy
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(px, py, c)
			}
		}
	}
}
