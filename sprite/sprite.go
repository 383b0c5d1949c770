/*
Package sprite implements a deterministic procedural sprite generator.

An entity's level and notable flag select a base color, from which a
highlight and shadow are derived. A hash of the entity's name picks one of
five shape variants (notable entities always get their own), and the variant
is drawn onto a transparent canvas from a fixed table of rectangles and disks.

The same attributes always produce the same pixels. Only the name, level and
notable flag are consulted by default, so two entities sharing all three
look identical; KeyByIdentity hashes the identity instead.
*/
package sprite

import "github.com/bodgit/spritegen/canvas"

// DefaultSize is the width and height of a generated sprite.
const DefaultSize = 32

// Attributes are the inputs to Generate.
type Attributes struct {
	Identity string
	Name     string
	Level    int
	Notable  bool
}

// KeyMode chooses which attribute drives variant selection.
type KeyMode int

const (
	// KeyByName hashes the display name.
	KeyByName KeyMode = iota
	// KeyByIdentity hashes the identity, so entities sharing a name can
	// still differ.
	KeyByIdentity
)

type options struct {
	size int
	mode KeyMode
}

// Option configures Generate.
type Option func(*options)

// WithSize sets the width and height of the sprite. Values below one are
// ignored.
func WithSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.size = n
		}
	}
}

// WithKeyMode sets the attribute hashed for variant selection.
func WithKeyMode(m KeyMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

func (a Attributes) key(m KeyMode) string {
	if m == KeyByIdentity {
		return a.Identity
	}
	return a.Name
}

func (a Attributes) level() int {
	if a.Level < 0 {
		return 0
	}
	return a.Level
}

func newOptions(opts []Option) options {
	o := options{size: DefaultSize}
	for _, f := range opts {
		f(&o)
	}
	return o
}

func describe(a Attributes, o options) (Palette, Variant) {
	return newPalette(BaseColor(a.level(), a.Notable)), SelectVariant(a.key(o.mode), a.Notable)
}

// Describe returns the palette and variant Generate would use.
func Describe(a Attributes, opts ...Option) (Palette, Variant) {
	return describe(a, newOptions(opts))
}

// Generate draws the sprite for a.
func Generate(a Attributes, opts ...Option) *canvas.Canvas {
	o := newOptions(opts)
	pal, v := describe(a, o)

	c := canvas.New(o.size, o.size)
	for _, op := range recipes[v] {
		op.draw(c, scaler(o.size), pal)
	}

	return c
}
