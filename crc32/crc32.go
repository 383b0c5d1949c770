/*
Package crc32 implements the 32-bit cyclic redundancy check, or CRC-32,
checksum used to protect each chunk of a PNG file.

It is the reflected form of the standard polynomial; the register starts at
0xffffffff and the final value is inverted.
*/
package crc32

import "hash"

// Size is the size of a CRC-32 checksum in bytes.
const Size = 4

const polynomial = 0xedb88320

// Table is a 256-word table representing the polynomial for efficient
// processing.
type Table [256]uint32

func makeTable(poly uint32) *Table {
	t := new(Table)
	for i := 0; i < 256; i++ {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 == 1 {
				crc = crc>>1 ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

var table = makeTable(polynomial)

type digest struct {
	crc uint32
	tab *Table
}

// New creates a new hash.Hash32 computing the CRC-32 checksum. Its Sum
// method will lay the value out in big-endian byte order.
func New() hash.Hash32 {
	return &digest{0, table}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.crc = 0 }

func update(crc uint32, tab *Table, p []byte) uint32 {
	for _, v := range p {
		crc = tab[byte(crc)^v] ^ crc>>8
	}
	return crc
}

// Update returns the result of adding the bytes in p to the raw register crc.
// The register is neither preset nor inverted, so a running checksum starts
// from 0xffffffff and must be inverted once all of the data has been added.
func Update(crc uint32, p []byte) uint32 {
	return update(crc, table, p)
}

func (d *digest) Write(p []byte) (n int, err error) {
	d.crc = ^update(^d.crc, d.tab, p)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Checksum returns the CRC-32 checksum of data.
func Checksum(data []byte) uint32 { return ^Update(0xffffffff, data) }
