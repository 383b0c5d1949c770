package png

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// Compressor turns the raster stream into the payload of the IDAT chunk. The
// output must be a zlib stream for the result to be a valid PNG.
type Compressor interface {
	Compress(p []byte) ([]byte, error)
}

// CompressorFunc adapts an ordinary function to the Compressor interface.
type CompressorFunc func(p []byte) ([]byte, error)

// Compress calls f(p).
func (f CompressorFunc) Compress(p []byte) ([]byte, error) {
	return f(p)
}

// ZlibCompressor compresses using zlib at the given level.
type ZlibCompressor struct {
	Level int
}

// DefaultCompressor asks for maximum compression.
var DefaultCompressor Compressor = ZlibCompressor{Level: zlib.BestCompression}

// Compress implements Compressor.
func (z ZlibCompressor) Compress(p []byte) ([]byte, error) {
	b := new(bytes.Buffer)
	w, err := zlib.NewWriterLevel(b, z.Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(p); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
