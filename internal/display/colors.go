package display

import (
	"fmt"
	"image/color"
)

// Palette holds the colors of one display theme.
type Palette struct {
	Background color.RGBA
	Land       color.RGBA
	Shore      color.RGBA
	Highlight  color.RGBA
	Hazard     color.RGBA
	Ownship    color.RGBA
	Vessel     color.RGBA
	Text       color.RGBA
	Ocean      []color.RGBA
}

var lightPalette = Palette{
	Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
	Land:       color.RGBA{0x8f, 0xbc, 0x8f, 0xff},
	Shore:      color.RGBA{0xee, 0xe8, 0xaa, 0xff},
	Highlight:  color.RGBA{0xff, 0xa5, 0x00, 0xff},
	Hazard:     color.RGBA{0xcd, 0x5c, 0x5c, 0xb4},
	Ownship:    color.RGBA{0xff, 0x45, 0x00, 0xff},
	Vessel:     color.RGBA{0x22, 0x8b, 0x22, 0xff},
	Text:       color.RGBA{0x10, 0x10, 0x10, 0xff},
	Ocean: []color.RGBA{
		{0xcc, 0xe5, 0xff, 0xff},
		{0xb3, 0xd9, 0xff, 0xff},
		{0x99, 0xcc, 0xff, 0xff},
		{0x80, 0xbf, 0xff, 0xff},
		{0x66, 0xb3, 0xff, 0xff},
		{0x4d, 0xa6, 0xff, 0xff},
		{0x33, 0x99, 0xff, 0xff},
		{0x1a, 0x8c, 0xff, 0xff},
		{0x00, 0x80, 0xff, 0xff},
	},
}

var darkPalette = Palette{
	Background: color.RGBA{0x14, 0x2c, 0x38, 0xff},
	Land:       color.RGBA{0x2e, 0x4d, 0x3a, 0xff},
	Shore:      color.RGBA{0x4a, 0x5d, 0x3a, 0xff},
	Highlight:  color.RGBA{0xff, 0xa5, 0x00, 0xff},
	Hazard:     color.RGBA{0x8b, 0x22, 0x22, 0xb4},
	Ownship:    color.RGBA{0xff, 0x63, 0x47, 0xff},
	Vessel:     color.RGBA{0x3c, 0xb3, 0x71, 0xff},
	Text:       color.RGBA{0xe0, 0xe0, 0xe0, 0xff},
	Ocean: []color.RGBA{
		{0x10, 0x26, 0x37, 0xff},
		{0x0f, 0x2b, 0x41, 0xff},
		{0x0e, 0x30, 0x4b, 0xff},
		{0x0d, 0x35, 0x55, 0xff},
		{0x0c, 0x3a, 0x5f, 0xff},
		{0x0b, 0x3f, 0x69, 0xff},
		{0x0a, 0x44, 0x73, 0xff},
		{0x09, 0x49, 0x7d, 0xff},
		{0x08, 0x4e, 0x87, 0xff},
	},
}

// OceanColor returns the bin color for a seabed depth, given the ordered
// depth bins in use. Depths beyond the last bin reuse the deepest color.
func (p Palette) OceanColor(depth int, depths []int) color.RGBA {
	if len(p.Ocean) == 0 {
		return p.Background
	}
	idx := 0
	for i, d := range depths {
		if depth >= d {
			idx = i
		}
	}
	scaled := idx
	if len(depths) > 1 {
		scaled = idx * (len(p.Ocean) - 1) / (len(depths) - 1)
	}
	return p.Ocean[scaled]
}

// NamedColor resolves the color names accepted by the drawing services.
func NamedColor(name string) (color.RGBA, error) {
	c, ok := namedColors[name]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

var namedColors = map[string]color.RGBA{
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"pink":    {0xff, 0xc0, 0xcb, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"black":   {0x00, 0x00, 0x00, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
}
