package preview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	m.SetNRGBA(0, 0, color.NRGBA{0x10, 0x10, 0x10, 0xff})
	m.SetNRGBA(1, 0, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	m.SetNRGBA(2, 1, color.NRGBA{0x90, 0x90, 0x90, 0x80})
	return m
}

func TestParseMode(t *testing.T) {
	tables := []struct {
		in   string
		mode Mode
	}{
		{"", Auto},
		{"auto", Auto},
		{"24bit", TrueColor},
		{"truecolor", TrueColor},
		{"256", Color256},
		{"none", NoColor},
	}
	for _, table := range tables {
		m, err := ParseMode(table.in)
		require.NoError(t, err)
		assert.Equal(t, table.mode, m)
	}

	_, err := ParseMode("sepia")
	assert.Error(t, err)
}

func TestCellsNoColor(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Cells(b, testImage(), NoColor))
	assert.Equal(t, "..##  \n    ==\n", b.String())
}

func TestCellsTrueColor(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Cells(b, testImage(), TrueColor))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[48;2;16;16;16m  \x1b[0m"))
	assert.True(t, strings.HasSuffix(lines[0], "\x1b[48;2;255;255;255m  \x1b[0m  "))
}

func TestScale(t *testing.T) {
	m := testImage()
	assert.Equal(t, m, Scale(m, 1))

	s := Scale(m, 4)
	assert.Equal(t, 12, s.Bounds().Dx())
	assert.Equal(t, 8, s.Bounds().Dy())
}

func TestPaletted(t *testing.T) {
	pm := paletted(testImage())
	assert.Equal(t, image.Rect(0, 0, 3, 2), pm.Bounds())
	assert.True(t, len(pm.Palette) <= sixelColors)
}
