package core

import "image/color"

// Color identifies the paint of a drawn object.
// Terminal renderers map it to ANSI codes, the capture canvas to RGBA.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorWhite
	ColorGray
	ColorBlack
)

var palette = map[Color]color.RGBA{
	ColorDefault: {0xff, 0xff, 0xff, 0xff},
	ColorRed:     {0xff, 0x00, 0x00, 0xff},
	ColorGreen:   {0x00, 0x80, 0x00, 0xff},
	ColorYellow:  {0xff, 0xff, 0x00, 0xff},
	ColorBlue:    {0x00, 0x00, 0xff, 0xff},
	ColorWhite:   {0xff, 0xff, 0xff, 0xff},
	ColorGray:    {0x77, 0x77, 0x77, 0xff},
	ColorBlack:   {0x00, 0x00, 0x00, 0xff},
}

// RGBA returns the opaque pixel value for c.
func (c Color) RGBA() color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return palette[ColorDefault]
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorBlue:
		return "blue"
	case ColorWhite:
		return "white"
	case ColorGray:
		return "gray"
	case ColorBlack:
		return "black"
	default:
		return "default"
	}
}
