/*
Package spritegen renders procedural sprites for game-entity records.

Entities are loaded into a sqlite catalogue from JSON, and each is turned
into a small PNG image whose shape and colors depend only on its name, level
and notable flag. Sprites can be rendered on demand, through a bounded cache,
or written out in bulk to a directory.
*/
package spritegen

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/bodgit/spritegen/canvas"
	"github.com/bodgit/spritegen/png"
	"github.com/bodgit/spritegen/sprite"
	"github.com/vincent-petithory/dataurl"
)

// DefaultWorkers is the number of sprites encoded and written concurrently
// by Generate.
const DefaultWorkers = 10

// Generator renders entity sprites.
type Generator struct {
	db     *EntityDB
	logger *log.Logger

	size       int
	mode       sprite.KeyMode
	compressor png.Compressor
	workers    int
	cache      *Cache
}

// Option configures a Generator.
type Option func(*Generator)

// WithSize sets the width and height of every sprite.
func WithSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.size = n
		}
	}
}

// WithKeyMode chooses whether the name or the identity selects the shape.
func WithKeyMode(m sprite.KeyMode) Option {
	return func(g *Generator) {
		g.mode = m
	}
}

// WithCompressor replaces the default zlib compressor.
func WithCompressor(c png.Compressor) Option {
	return func(g *Generator) {
		g.compressor = c
	}
}

// WithWorkers sets the concurrency of Generate.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithCacheSize bounds the number of sprites kept by Sprite. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(g *Generator) {
		g.cache = NewCache(n)
	}
}

// New returns a Generator reading entities from db. The logger may be nil.
func New(db *EntityDB, logger *log.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	g := &Generator{
		db:         db,
		logger:     logger,
		size:       sprite.DefaultSize,
		mode:       sprite.KeyByName,
		compressor: png.DefaultCompressor,
		workers:    DefaultWorkers,
	}
	for _, o := range opts {
		o(g)
	}
	if g.cache == nil {
		g.cache = NewCache(DefaultCacheSize)
	}
	return g
}

func (g *Generator) options() []sprite.Option {
	return []sprite.Option{sprite.WithSize(g.size), sprite.WithKeyMode(g.mode)}
}

// Describe returns the palette and shape variant of e's sprite.
func (g *Generator) Describe(e Entity) (sprite.Palette, sprite.Variant) {
	return sprite.Describe(e.Attributes(), g.options()...)
}

// Image draws the sprite for e without encoding it.
func (g *Generator) Image(e Entity) *canvas.Canvas {
	return sprite.Generate(e.Attributes(), g.options()...)
}

// Render draws and encodes the sprite for e. It does not consult the cache.
func (g *Generator) Render(e Entity) ([]byte, error) {
	c := g.Image(e)

	b := new(bytes.Buffer)
	if err := png.EncodeSource(b, c.Width(), c.Height(), c, g.compressor); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (g *Generator) fingerprint(e Entity) string {
	return fmt.Sprintf("%q/%d/%t/%d/%d", e.Name, e.Level, e.Notable, g.size, g.mode)
}

// Sprite returns the encoded sprite for e, from the cache if possible.
func (g *Generator) Sprite(e Entity) ([]byte, error) {
	return g.cache.GetOrCreate(e.Key(), g.fingerprint(e), func() ([]byte, error) {
		return g.Render(e)
	})
}

// Invalidate drops any cached sprite for e.
func (g *Generator) Invalidate(e Entity) {
	g.cache.Invalidate(e.Key())
}

// DataURL returns the sprite for e as a data: URL suitable for embedding
// directly in a page.
func (g *Generator) DataURL(e Entity) (string, error) {
	b, err := g.Sprite(e)
	if err != nil {
		return "", err
	}
	return dataurl.New(b, "image/png").String(), nil
}

// Lookup returns the entity of the given kind with the given identity, or
// failing that, name.
func (g *Generator) Lookup(kind Kind, key string) (*Entity, error) {
	e, err := g.db.FindEntity(kind, key)
	if err != nil || e != nil {
		return e, err
	}
	return g.db.FindEntityByName(kind, key)
}
