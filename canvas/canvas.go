/*
Package canvas implements a small in-memory raster that sprites are drawn on.

Every cell holds one non-premultiplied RGBA value and starts out fully
transparent. Drawing uses painter's algorithm semantics; later operations
overwrite earlier ones and anything outside the raster is silently dropped.
*/
package canvas

import (
	"image"
	"image/color"
)

// Transparent is the value of a cell that has never been written.
var Transparent = color.NRGBA{}

// Canvas is a width by height grid of pixels.
type Canvas struct {
	width  int
	height int
	pix    []color.NRGBA
}

// New returns a transparent canvas of the given dimensions. Negative
// dimensions are treated as zero.
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]color.NRGBA, width*height),
	}
}

// Width returns the width of the canvas.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the height of the canvas.
func (c *Canvas) Height() int {
	return c.height
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set overwrites a single pixel.
func (c *Canvas) Set(x, y int, col color.NRGBA) {
	if !c.inside(x, y) {
		return
	}
	c.pix[y*c.width+x] = col
}

// FillRect fills the w by h rectangle whose top-left corner is at (x, y).
func (c *Canvas) FillRect(x, y, w, h int, col color.NRGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.Set(x+dx, y+dy, col)
		}
	}
}

// FillDisk fills every pixel whose squared distance from (cx, cy) is no more
// than r squared. There is no anti-aliasing.
func (c *Canvas) FillDisk(cx, cy, r int, col color.NRGBA) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

// NRGBAAt returns the pixel at (x, y), or Transparent if it lies outside the
// canvas.
func (c *Canvas) NRGBAAt(x, y int) color.NRGBA {
	if !c.inside(x, y) {
		return Transparent
	}
	return c.pix[y*c.width+x]
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color {
	return c.NRGBAAt(x, y)
}
