package sprite

import (
	"image/color"

	"github.com/bodgit/spritegen/canvas"
)

// Recipes are laid out on a grid of this size and scaled to the requested
// sprite size.
const gridSize = 32

type role int

const (
	roleBase role = iota
	roleHighlight
	roleShadow
	roleFixed
)

type paint struct {
	role  role
	fixed Color
	alpha uint8
}

func (p paint) resolve(pal Palette) color.NRGBA {
	switch p.role {
	case roleHighlight:
		return pal.Highlight.NRGBA(p.alpha)
	case roleShadow:
		return pal.Shadow.NRGBA(p.alpha)
	case roleFixed:
		return p.fixed.NRGBA(p.alpha)
	default:
		return pal.Base.NRGBA(p.alpha)
	}
}

var (
	base      = paint{role: roleBase, alpha: 0xff}
	highlight = paint{role: roleHighlight, alpha: 0xff}
	shadow    = paint{role: roleShadow, alpha: 0xff}
	aura      = paint{role: roleShadow, alpha: 0x60}
)

func fixed(c Color) paint {
	return paint{role: roleFixed, fixed: c, alpha: 0xff}
}

type shape int

const (
	shapeRect shape = iota
	shapeDisk
)

// op is a single drawing operation. For disks x, y is the center and w the
// radius.
type op struct {
	shape      shape
	x, y, w, h int
	paint      paint
}

func rect(x, y, w, h int, p paint) op { return op{shapeRect, x, y, w, h, p} }

func disk(cx, cy, r int, p paint) op { return op{shapeDisk, cx, cy, r, 0, p} }

func dot(x, y int, p paint) op { return rect(x, y, 1, 1, p) }

type scaler int

func (s scaler) pos(v int) int {
	return v * int(s) / gridSize
}

func (s scaler) extent(v int) int {
	if n := s.pos(v); n > 0 || v <= 0 {
		return n
	}
	return 1
}

func (o op) draw(c *canvas.Canvas, s scaler, pal Palette) {
	col := o.paint.resolve(pal)
	switch o.shape {
	case shapeDisk:
		c.FillDisk(s.pos(o.x), s.pos(o.y), s.pos(o.w), col)
	default:
		c.FillRect(s.pos(o.x), s.pos(o.y), s.extent(o.w), s.extent(o.h), col)
	}
}

var recipes = map[Variant][]op{
	Notable: {
		disk(16, 16, 15, aura),
		rect(9, 12, 14, 14, base),
		rect(9, 22, 14, 4, shadow),
		rect(5, 12, 5, 6, highlight),
		rect(22, 12, 5, 6, highlight),
		rect(5, 18, 3, 7, base),
		rect(24, 18, 3, 7, base),
		rect(11, 26, 4, 5, shadow),
		rect(17, 26, 4, 5, shadow),
		disk(16, 8, 6, base),
		disk(14, 6, 2, highlight),
		rect(11, 0, 2, 3, fixed(gold)),
		rect(15, 0, 2, 4, fixed(gold)),
		rect(19, 0, 2, 3, fixed(gold)),
		rect(11, 2, 10, 2, fixed(gold)),
		rect(13, 7, 2, 2, fixed(red)),
		rect(18, 7, 2, 2, fixed(red)),
		rect(14, 11, 4, 1, fixed(darkness)),
	},
	Humanoid: {
		rect(11, 13, 10, 10, base),
		rect(11, 20, 10, 3, shadow),
		rect(7, 13, 4, 9, shadow),
		rect(21, 13, 4, 9, shadow),
		rect(12, 23, 3, 7, shadow),
		rect(17, 23, 3, 7, shadow),
		rect(11, 30, 4, 2, fixed(black)),
		rect(17, 30, 4, 2, fixed(black)),
		disk(16, 8, 5, base),
		disk(14, 6, 1, highlight),
		dot(14, 8, fixed(white)),
		dot(18, 8, fixed(white)),
	},
	Beast: {
		rect(2, 14, 5, 2, shadow),
		rect(6, 14, 18, 9, base),
		rect(8, 14, 14, 2, highlight),
		rect(8, 23, 3, 6, shadow),
		rect(13, 23, 3, 6, shadow),
		rect(17, 23, 3, 6, shadow),
		rect(21, 23, 3, 6, shadow),
		disk(24, 13, 5, base),
		rect(27, 15, 4, 3, base),
		rect(22, 6, 2, 3, shadow),
		rect(26, 6, 2, 3, shadow),
		dot(26, 12, fixed(black)),
		dot(30, 15, fixed(black)),
	},
	Flying: {
		rect(2, 10, 10, 6, shadow),
		rect(20, 10, 10, 6, shadow),
		rect(4, 10, 6, 2, highlight),
		rect(22, 10, 6, 2, highlight),
		rect(2, 16, 4, 3, shadow),
		rect(26, 16, 4, 3, shadow),
		rect(15, 21, 3, 6, shadow),
		disk(16, 16, 6, base),
		disk(16, 9, 4, base),
		rect(15, 11, 3, 2, fixed(gold)),
		dot(14, 8, fixed(yellow)),
		dot(18, 8, fixed(yellow)),
	},
	Blob: {
		disk(16, 19, 11, base),
		rect(5, 26, 23, 4, shadow),
		disk(11, 14, 3, highlight),
		rect(11, 17, 2, 3, fixed(black)),
		rect(20, 17, 2, 3, fixed(black)),
		dot(11, 17, fixed(white)),
		dot(20, 17, fixed(white)),
		rect(14, 23, 5, 1, shadow),
	},
	Undead: {
		rect(12, 16, 9, 9, shadow),
		rect(12, 17, 9, 1, fixed(bone)),
		rect(12, 20, 9, 1, fixed(bone)),
		rect(12, 23, 9, 1, fixed(bone)),
		rect(16, 14, 1, 14, base),
		rect(8, 16, 3, 10, shadow),
		rect(22, 16, 3, 10, shadow),
		rect(13, 25, 2, 6, shadow),
		rect(18, 25, 2, 6, shadow),
		disk(16, 9, 6, fixed(bone)),
		rect(12, 13, 9, 2, highlight),
		rect(12, 8, 3, 3, fixed(darkness)),
		rect(18, 8, 3, 3, fixed(darkness)),
		dot(13, 9, fixed(crimson)),
		dot(19, 9, fixed(crimson)),
		rect(14, 13, 5, 1, fixed(black)),
	},
}
