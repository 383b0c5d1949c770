package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/spritegen/crc32"
)

// PixelSource supplies the color of each pixel. Both *image.NRGBA and
// *canvas.Canvas satisfy it.
type PixelSource interface {
	NRGBAAt(x, y int) color.NRGBA
}

type encoder struct {
	b             *bytes.Buffer
	width, height int
	src           PixelSource
	c             Compressor
}

func (e *encoder) writeChunk(typ string, data []byte) {
	var tmp [4]byte

	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	e.b.Write(tmp[:])

	crc := crc32.Update(0xffffffff, []byte(typ))
	crc = ^crc32.Update(crc, data)

	e.b.WriteString(typ)
	e.b.Write(data)

	binary.BigEndian.PutUint32(tmp[:], crc)
	e.b.Write(tmp[:])
}

// raster builds the uncompressed, filter byte prefixed scanlines
func (e *encoder) raster() []byte {
	stride := 1 + e.width*bytesPerPixel
	raw := make([]byte, stride*e.height)
	for y := 0; y < e.height; y++ {
		row := raw[y*stride : (y+1)*stride]
		row[0] = filterNone
		for x := 0; x < e.width; x++ {
			c := e.src.NRGBAAt(x, y)
			i := 1 + x*bytesPerPixel
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
	return raw
}

func (e *encoder) encode() error {
	data, err := e.c.Compress(e.raster())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompression, err)
	}

	e.b.WriteString(Signature)
	e.writeChunk(TypeIHDR, Header{
		Width:             uint32(e.width),
		Height:            uint32(e.height),
		BitDepth:          bitDepth,
		ColorType:         colorTypeRGBA,
		CompressionMethod: compressionMethod,
		FilterMethod:      filterMethod,
		Interlace:         interlaceNone,
	}.marshal())
	e.writeChunk(TypeIDAT, data)
	e.writeChunk(TypeIEND, nil)

	return nil
}

// EncodeSource writes a width by height PNG to w, reading pixels from src in
// row-major order and compressing the raster with c. If c is nil the
// DefaultCompressor is used.
//
// The file is assembled in memory first; nothing is written to w unless every
// step succeeded.
func EncodeSource(w io.Writer, width, height int, src PixelSource, c Compressor) error {
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return ErrDimensions
	}
	if c == nil {
		c = DefaultCompressor
	}

	e := encoder{
		b:      new(bytes.Buffer),
		width:  width,
		height: height,
		src:    src,
		c:      c,
	}
	if err := e.encode(); err != nil {
		return err
	}

	_, err := w.Write(e.b.Bytes())
	return err
}

type imageSource struct {
	m image.Image
	o image.Point
}

func (s imageSource) NRGBAAt(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(s.m.At(s.o.X+x, s.o.Y+y)).(color.NRGBA)
}

// Encode writes the Image m to w in PNG format using the DefaultCompressor.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()

	var src PixelSource
	if ps, ok := m.(PixelSource); ok && b.Min == (image.Point{}) {
		src = ps
	} else {
		src = imageSource{m: m, o: b.Min}
	}

	return EncodeSource(w, b.Dx(), b.Dy(), src, nil)
}
