package sprite

import "image/color"

// Color is an opaque 8-bit RGB triple. The alpha is supplied separately when
// the color is drawn.
type Color struct {
	R, G, B uint8
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}

func (c Color) add(d int) Color {
	return Color{clamp(int(c.R) + d), clamp(int(c.G) + d), clamp(int(c.B) + d)}
}

// Lighten adds d to every channel, saturating at 255.
func (c Color) Lighten(d int) Color {
	return c.add(d)
}

// Darken subtracts d from every channel, saturating at 0.
func (c Color) Darken(d int) Color {
	return c.add(-d)
}

// NRGBA pairs the color with alpha a.
func (c Color) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// ShadeDelta is the per-channel offset between a base color and its
// highlight or shadow.
const ShadeDelta = 40

// Palette is the set of colors a recipe draws with.
type Palette struct {
	Base      Color
	Highlight Color
	Shadow    Color
}

func newPalette(base Color) Palette {
	return Palette{
		Base:      base,
		Highlight: base.Lighten(ShadeDelta),
		Shadow:    base.Darken(ShadeDelta),
	}
}

// Tier maps a minimum level to a base color.
type Tier struct {
	MinLevel int
	Color    Color
}

// NotableColor is the base color of every notable entity.
var NotableColor = Color{0x8b, 0x1a, 0xa8}

// DefaultColor is used for anything below the lowest tier.
var DefaultColor = Color{0x9a, 0x9a, 0x8c}

// Tiers is ordered from the highest threshold down.
var Tiers = []Tier{
	{100, Color{0xff, 0xc8, 0x1e}},
	{75, Color{0xd2, 0x46, 0x32}},
	{50, Color{0x9b, 0x5a, 0xd7}},
	{25, Color{0x3c, 0x82, 0xdc}},
	{10, Color{0x50, 0xb4, 0x5a}},
}

// BaseColor returns the base color for an entity.
func BaseColor(level int, notable bool) Color {
	if notable {
		return NotableColor
	}
	for _, t := range Tiers {
		if level >= t.MinLevel {
			return t.Color
		}
	}
	return DefaultColor
}

// Fixed accent colors shared by the recipes.
var (
	black    = Color{0x14, 0x14, 0x14}
	white    = Color{0xf5, 0xf5, 0xf5}
	red      = Color{0xff, 0x00, 0x00}
	yellow   = Color{0xff, 0xe6, 0x00}
	gold     = Color{0xff, 0xd7, 0x00}
	bone     = Color{0xe6, 0xe1, 0xc8}
	crimson  = Color{0xb4, 0x00, 0x28}
	darkness = Color{0x00, 0x00, 0x00}
)
