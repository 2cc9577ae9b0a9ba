package tui

import (
	"math"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2.0

// hudRows are reserved above the field for the score line.
const hudRows = 1

// Viewport projects field coordinates onto screen cells.
// The whole field is fitted into the screen, centered, keeping its aspect ratio.
type Viewport struct {
	field   bullet.Field
	scale   float64 // Columns per field unit
	originX float64 // Column of field x = 0
	originY float64 // Row of field y = 0
	bounds  core.Rect
}

// NewViewport fits field into a screen of cols×rows cells.
func NewViewport(cols, rows int, field bullet.Field) Viewport {
	fieldRows := max(rows-hudRows, 1)
	cols = max(cols, 1)

	scale := math.Min(float64(cols)/field.Width, float64(fieldRows)*cellAspect/field.Height)
	w := field.Width * scale
	h := field.Height * scale / cellAspect

	originX := (float64(cols) - w) / 2
	originY := float64(hudRows) + (float64(fieldRows)-h)/2
	return Viewport{
		field:   field,
		scale:   scale,
		originX: originX,
		originY: originY,
		bounds: core.NewRect(
			int(math.Floor(originX)), int(math.Floor(originY)),
			int(math.Ceil(w)), int(math.Ceil(h)),
		),
	}
}

// Bounds returns the cells covered by the field.
func (v Viewport) Bounds() core.Rect {
	return v.bounds
}

// ToCell returns the column and row containing field point (x, y).
func (v Viewport) ToCell(x, y float64) (col, row int) {
	col = int(math.Floor(v.originX + x*v.scale))
	row = int(math.Floor(v.originY + y*v.scale/cellAspect))
	return col, row
}

// ToField returns the field point at the center of a cell, clamped to the field.
func (v Viewport) ToField(col, row int) core.Vec {
	x := (float64(col) + 0.5 - v.originX) / v.scale
	y := (float64(row) + 0.5 - v.originY) * cellAspect / v.scale
	return core.V(core.ClampF(x, 0, v.field.Width), core.ClampF(y, 0, v.field.Height))
}

// ScreenSink draws frames into a core.Screen through a Viewport.
type ScreenSink struct {
	screen *core.Screen
	view   Viewport
}

// NewScreenSink creates a sink drawing into screen.
func NewScreenSink(screen *core.Screen, field bullet.Field) *ScreenSink {
	return &ScreenSink{
		screen: screen,
		view:   NewViewport(screen.Width(), screen.Height(), field),
	}
}

// Resize refits the viewport after the screen changed size.
func (k *ScreenSink) Resize(field bullet.Field) {
	k.view = NewViewport(k.screen.Width(), k.screen.Height(), field)
}

// Viewport returns the current projection.
func (k *ScreenSink) Viewport() Viewport {
	return k.view
}

// Begin clears the screen and frames the field.
func (k *ScreenSink) Begin() {
	k.screen.Clear()
	b := k.view.bounds
	for y := b.Y; y < b.Bottom(); y++ {
		k.screen.SetCell(b.X-1, y, '│', core.ColorGray)
		k.screen.SetCell(b.Right(), y, '│', core.ColorGray)
	}
}

// End is a no-op; the model renders the screen on its own schedule.
func (k *ScreenSink) End() {}

// DrawCircle fills every cell whose center lies inside the circle.
// A circle smaller than a cell still marks the cell holding its center.
func (k *ScreenSink) DrawCircle(x, y, r float64, c core.Color) {
	v := k.view
	col0, row0 := v.ToCell(x-r, y-r)
	col1, row1 := v.ToCell(x+r, y+r)

	filled := false
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			p := v.ToField(col, row)
			if p.DistanceSquaredTo(core.V(x, y)) <= r*r && v.bounds.Contains(col, row) {
				k.screen.SetCell(col, row, '█', c)
				filled = true
			}
		}
	}
	if filled {
		return
	}
	col, row := v.ToCell(x, y)
	if v.bounds.Contains(col, row) {
		k.screen.SetCell(col, row, '●', c)
	}
}

// ShowScore writes the score at the top-left of the field.
func (k *ScreenSink) ShowScore(text string) {
	b := k.view.bounds
	k.screen.DrawText(b.X, b.Y-hudRows, text, core.ColorYellow)
}

// ShowHighScore writes the high score at the top-right of the field.
func (k *ScreenSink) ShowHighScore(text string) {
	b := k.view.bounds
	k.screen.DrawTextRight(b.Right()-1, b.Y-hudRows, text, core.ColorYellow)
}
