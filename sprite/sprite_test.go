package sprite

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bodgit/spritegen/canvas"
	"github.com/bodgit/spritegen/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opaque(c *canvas.Canvas) (n int) {
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if c.NRGBAAt(x, y).A != 0 {
				n++
			}
		}
	}
	return
}

func encode(t *testing.T, c *canvas.Canvas) []byte {
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, c))
	return b.Bytes()
}

func TestColor(t *testing.T) {
	c := Color{0xf0, 0x80, 0x10}
	assert.Equal(t, Color{0xff, 0xa8, 0x38}, c.Lighten(ShadeDelta))
	assert.Equal(t, Color{0xc8, 0x58, 0x00}, c.Darken(ShadeDelta))
	assert.Equal(t, Color{0xff, 0xff, 0xff}, Color{0xff, 0xff, 0xff}.Lighten(ShadeDelta))
	assert.Equal(t, Color{}, Color{}.Darken(ShadeDelta))
}

func TestBaseColor(t *testing.T) {
	tables := []struct {
		level int
		color Color
	}{
		{0, DefaultColor},
		{9, DefaultColor},
		{10, Tiers[4].Color},
		{24, Tiers[4].Color},
		{25, Tiers[3].Color},
		{49, Tiers[3].Color},
		{50, Tiers[2].Color},
		{74, Tiers[2].Color},
		{75, Tiers[1].Color},
		{99, Tiers[1].Color},
		{100, Tiers[0].Color},
		{1000, Tiers[0].Color},
	}

	for _, table := range tables {
		assert.Equal(t, table.color, BaseColor(table.level, false), "level %d", table.level)
		assert.Equal(t, NotableColor, BaseColor(table.level, true), "notable level %d", table.level)
	}
}

func TestTierBoundaries(t *testing.T) {
	// Crossing a threshold moves to exactly the next tier up
	colors := append([]Color{DefaultColor}, make([]Color, len(Tiers))...)
	for i, tier := range Tiers {
		colors[len(Tiers)-i] = tier.Color
	}
	for i := len(Tiers) - 1; i >= 0; i-- {
		below := BaseColor(Tiers[i].MinLevel-1, false)
		at := BaseColor(Tiers[i].MinLevel, false)
		j := len(Tiers) - i
		assert.Equal(t, colors[j-1], below)
		assert.Equal(t, colors[j], at)
	}
}

func TestStableHash(t *testing.T) {
	assert.Equal(t, uint32(0xe3b0c442), StableHash(""))
	assert.Equal(t, uint32(0xba7816bf), StableHash("abc"))
}

func TestSelectVariant(t *testing.T) {
	seen := make(map[Variant]int)
	for i := 0; i < 500; i++ {
		name := fmt.Sprintf("creature %d", i)
		v := SelectVariant(name, false)
		assert.NotEqual(t, Notable, v)
		assert.Equal(t, v, SelectVariant(name, false))
		assert.Equal(t, Notable, SelectVariant(name, true))
		seen[v]++
	}
	for _, v := range hashedVariants {
		assert.NotZero(t, seen[v], "variant %s never selected", v)
	}

	assert.Equal(t, hashedVariants[StableHash("")%5], SelectVariant("", false))
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "notable", Notable.String())
	assert.Equal(t, "undead", Undead.String())
	assert.Equal(t, "unknown", Variant(42).String())
}

func TestRecipes(t *testing.T) {
	pal := newPalette(DefaultColor)
	for _, v := range []Variant{Notable, Humanoid, Beast, Flying, Blob, Undead} {
		ops, ok := recipes[v]
		require.True(t, ok, "no recipe for %s", v)

		c := canvas.New(DefaultSize, DefaultSize)
		for _, op := range ops {
			op.draw(c, scaler(DefaultSize), pal)
		}
		assert.True(t, opaque(c) > 50, "%s draws %d pixels", v, opaque(c))
		assert.True(t, opaque(c) < DefaultSize*DefaultSize, "%s fills the canvas", v)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, a := range []Attributes{
		{Name: "Goblin Scout", Level: 5},
		{Name: "Dragon Lord", Level: 120, Notable: true},
		{Name: "Rat"},
		{},
	} {
		c1, c2 := Generate(a), Generate(a)
		assert.Equal(t, encode(t, c1), encode(t, c2), "%+v", a)
	}
}

func TestGenerateIgnoresIdentity(t *testing.T) {
	a := Attributes{Identity: "1", Name: "Wolf", Level: 12}
	b := Attributes{Identity: "2", Name: "Wolf", Level: 12}
	assert.Equal(t, encode(t, Generate(a)), encode(t, Generate(b)))
}

func TestGenerateKeyByIdentity(t *testing.T) {
	a := Attributes{Identity: "wolf-1", Name: "Wolf", Level: 12}

	_, v := Describe(a, WithKeyMode(KeyByIdentity))
	assert.Equal(t, SelectVariant("wolf-1", false), v)

	_, v = Describe(a)
	assert.Equal(t, SelectVariant("Wolf", false), v)

	// Find two identities that land on different variants
	var other Attributes
	for i := 0; ; i++ {
		other = Attributes{Identity: fmt.Sprintf("wolf-%d", i), Name: "Wolf", Level: 12}
		if SelectVariant(other.Identity, false) != SelectVariant(a.Identity, false) {
			break
		}
	}
	assert.NotEqual(t, encode(t, Generate(a, WithKeyMode(KeyByIdentity))), encode(t, Generate(other, WithKeyMode(KeyByIdentity))))
}

func TestGoblinScout(t *testing.T) {
	scout := Attributes{Name: "Goblin Scout", Level: 5}
	want := hashedVariants[StableHash("Goblin Scout")%5]

	pal, v := Describe(scout)
	assert.Equal(t, DefaultColor, pal.Base)
	assert.Equal(t, want, v)

	scout.Level = 30
	pal, v = Describe(scout)
	assert.Equal(t, Tiers[3].Color, pal.Base)
	assert.Equal(t, 25, Tiers[3].MinLevel)
	assert.Equal(t, want, v)

	scout.Notable = true
	pal, v = Describe(scout)
	assert.Equal(t, NotableColor, pal.Base)
	assert.Equal(t, Notable, v)
}

func TestGenerateLevelOnlyChangesColor(t *testing.T) {
	low := Generate(Attributes{Name: "Goblin Scout", Level: 5})
	high := Generate(Attributes{Name: "Goblin Scout", Level: 30})

	// Same silhouette
	for y := 0; y < DefaultSize; y++ {
		for x := 0; x < DefaultSize; x++ {
			assert.Equal(t, low.NRGBAAt(x, y).A == 0, high.NRGBAAt(x, y).A == 0, "(%d, %d)", x, y)
		}
	}
	assert.NotEqual(t, encode(t, low), encode(t, high))
}

func TestGenerateBoundary(t *testing.T) {
	for _, a := range []Attributes{{}, {Level: -5}, {Name: "\xff\xfe"}} {
		c := Generate(a)
		assert.Equal(t, DefaultSize, c.Width())
		assert.True(t, opaque(c) > 0)

		_, err := png.ReadChunks(bytes.NewReader(encode(t, c)))
		assert.NoError(t, err)
	}

	pal, _ := Describe(Attributes{Level: -5})
	assert.Equal(t, DefaultColor, pal.Base)
}

func TestGenerateSize(t *testing.T) {
	a := Attributes{Name: "Bat", Level: 3}

	c := Generate(a, WithSize(64))
	assert.Equal(t, 64, c.Width())
	assert.Equal(t, 64, c.Height())
	assert.True(t, opaque(c) > opaque(Generate(a)))

	c = Generate(a, WithSize(8))
	assert.Equal(t, 8, c.Width())
	assert.True(t, opaque(c) > 0)

	c = Generate(a, WithSize(0))
	assert.Equal(t, DefaultSize, c.Width())
}

func TestGenerateNotablePalette(t *testing.T) {
	c := Generate(Attributes{Name: "Goblin Scout", Level: 5, Notable: true})
	// Red eyes
	assert.Equal(t, red.NRGBA(0xff), c.NRGBAAt(13, 7))
	// Gold crown
	assert.Equal(t, gold.NRGBA(0xff), c.NRGBAAt(15, 0))
}
