// Package preview prints sprites on a terminal.
//
// Kitty, iTerm2/WezTerm and sixel capable terminals get a real image;
// anything else gets two character cells per pixel colored with escape
// sequences.
package preview

import (
	"bufio"
	"fmt"
	"image"
	ic "image/color"
	"image/draw"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/gookit/color"
	"github.com/nfnt/resize"
)

// Mode selects how the image is printed.
type Mode int

const (
	// Auto prints a real image if the terminal supports one, else falls
	// back to TrueColor.
	Auto Mode = iota
	// TrueColor always uses 24-bit escape sequences.
	TrueColor
	// Color256 lets gookit/color pick the escape sequence, which falls
	// back to the 256 color palette on terminals without true color.
	Color256
	NoColor
)

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "truecolor", "24bit":
		return TrueColor, nil
	case "256":
		return Color256, nil
	case "none":
		return NoColor, nil
	}
	return Auto, fmt.Errorf("unknown preview mode %q", s)
}

const sixelColors = 64

// Scale enlarges m by an integer factor without smoothing, so each sprite
// pixel stays a crisp block.
func Scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}
	b := m.Bounds()
	return resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), m, resize.NearestNeighbor)
}

func shade(w io.Writer, col ic.Color, mode Mode) {
	c := ic.NRGBAModel.Convert(col).(ic.NRGBA)
	if c.A == 0 {
		fmt.Fprint(w, "  ")
		return
	}
	switch mode {
	case NoColor:
		a := (int(c.R) + int(c.G) + int(c.B)) / 3
		switch {
		case a < 64:
			fmt.Fprint(w, "..")
		case a < 128:
			fmt.Fprint(w, "--")
		case a < 192:
			fmt.Fprint(w, "==")
		default:
			fmt.Fprint(w, "##")
		}
	case Color256:
		fmt.Fprint(w, color.RGB(c.R, c.G, c.B, true).Sprint("  "))
	default:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
	}
}

// Cells writes m as colored character cells.
func Cells(w io.Writer, m image.Image, mode Mode) error {
	bw := bufio.NewWriter(w)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(bw, m.At(x, y), mode)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func paletted(m image.Image) *image.Paletted {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(ic.Palette, 0, sixelColors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Print writes m to w using the requested mode.
func Print(w io.Writer, m image.Image, mode Mode) error {
	if mode != Auto {
		return Cells(w, m, mode)
	}

	switch {
	case rasterm.IsTermKitty():
		rasterm.Settings{}.KittyWriteImage(w, m)
	case rasterm.IsTermItermWez():
		rasterm.Settings{}.ItermWriteImage(w, m)
	default:
		if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
			rasterm.Settings{}.SixelWriteImage(w, paletted(m))
		} else {
			return Cells(w, m, TrueColor)
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
