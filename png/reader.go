package png

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/spritegen/crc32"
)

// Chunks larger than this are rejected rather than allocated.
const maxChunkLength = 1 << 24

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r   io.Reader
	tmp [8]byte
}

func (d *decoder) checkSignature() error {
	if err := readFull(d.r, d.tmp[:len(Signature)]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return ErrSignature
		}
		return err
	}
	if string(d.tmp[:len(Signature)]) != Signature {
		return ErrSignature
	}
	return nil
}

func (d *decoder) readChunk() (Chunk, error) {
	var c Chunk

	if err := readFull(d.r, d.tmp[:8]); err != nil {
		return c, err
	}
	length := binary.BigEndian.Uint32(d.tmp[:4])
	copy(c.Type[:], d.tmp[4:8])

	if length > maxChunkLength {
		return c, fmt.Errorf("png: %s chunk too large; got %d bytes", c.Name(), length)
	}

	c.Data = make([]byte, length)
	if err := readFull(d.r, c.Data); err != nil {
		return c, err
	}

	if err := readFull(d.r, d.tmp[:4]); err != nil {
		return c, err
	}
	c.CRC = binary.BigEndian.Uint32(d.tmp[:4])

	crc := crc32.Update(0xffffffff, c.Type[:])
	if crc = ^crc32.Update(crc, c.Data); crc != c.CRC {
		return c, fmt.Errorf("%w: %s chunk has %08x, computed %08x", ErrChecksum, c.Name(), c.CRC, crc)
	}

	return c, nil
}

// ReadChunks reads a PNG file from r, verifying the signature and the CRC of
// every chunk, and returns the chunks up to and including IEND.
func ReadChunks(r io.Reader) ([]Chunk, error) {
	d := decoder{r: r}

	if err := d.checkSignature(); err != nil {
		return nil, err
	}

	var chunks []Chunk
	for {
		c, err := d.readChunk()
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return chunks, ErrTruncated
			}
			return chunks, err
		}
		chunks = append(chunks, c)
		if c.Name() == TypeIEND {
			return chunks, nil
		}
	}
}
