/*
Package png implements a minimal encoder for 8-bit RGBA PNG images together
with a chunk reader for verifying them.

A file is written as the 8 byte signature followed by three chunks; IHDR
describing the dimensions, a single IDAT holding the compressed raster and an
empty IEND. Each chunk is a big-endian 32-bit length, the 4 byte chunk type,
the data and a CRC-32 computed over the type and data. The raster is stored
one row at a time, each row prefixed with filter type 0 and followed by four
bytes (red, green, blue and alpha) per pixel. There is no interlacing.
*/
package png

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Signature is the fixed 8 byte prefix of every PNG file.
const Signature = "\x89PNG\r\n\x1a\n"

// Chunk types written by the encoder.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeIEND = "IEND"
)

const (
	headerLength = 13

	bitDepth          = 8
	colorTypeRGBA     = 6
	compressionMethod = 0
	filterMethod      = 0
	interlaceNone     = 0

	filterNone    = 0
	bytesPerPixel = 4

	// Not a limit of the format, just a sanity bound on what gets
	// allocated for a raster.
	maxDimension = 1 << 16
)

var (
	// ErrDimensions is returned when asked to encode an image with a
	// zero, negative or unreasonably large width or height.
	ErrDimensions = errors.New("png: invalid dimensions")
	// ErrCompression wraps any failure of the Compressor.
	ErrCompression = errors.New("png: compression failed")
	// ErrSignature is returned when the input does not start with the
	// PNG signature.
	ErrSignature = errors.New("png: invalid signature")
	// ErrChecksum is returned when a chunk CRC does not match.
	ErrChecksum = errors.New("png: chunk checksum mismatch")
	// ErrTruncated is returned when the input ends before IEND.
	ErrTruncated = errors.New("png: truncated chunk")
)

// Chunk is one length-prefixed, checksummed unit of a PNG file.
type Chunk struct {
	Type [4]byte
	Data []byte
	CRC  uint32
}

// Name returns the chunk type as a string.
func (c Chunk) Name() string {
	return string(c.Type[:])
}

// Header is the decoded content of an IHDR chunk.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	Interlace         uint8
}

func (h Header) marshal() []byte {
	b := make([]byte, headerLength)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = h.ColorType
	b[10] = h.CompressionMethod
	b[11] = h.FilterMethod
	b[12] = h.Interlace
	return b
}

// DecodeHeader decodes the given IHDR chunk.
func DecodeHeader(c Chunk) (Header, error) {
	if c.Name() != TypeIHDR {
		return Header{}, fmt.Errorf("png: expected %s chunk, got %q", TypeIHDR, c.Name())
	}
	if len(c.Data) != headerLength {
		return Header{}, fmt.Errorf("png: %s chunk is %d bytes, want %d", TypeIHDR, len(c.Data), headerLength)
	}
	return Header{
		Width:             binary.BigEndian.Uint32(c.Data[0:4]),
		Height:            binary.BigEndian.Uint32(c.Data[4:8]),
		BitDepth:          c.Data[8],
		ColorType:         c.Data[9],
		CompressionMethod: c.Data[10],
		FilterMethod:      c.Data[11],
		Interlace:         c.Data[12],
	}, nil
}
