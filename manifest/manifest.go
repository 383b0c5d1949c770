/*
Package manifest implements the small index written alongside a directory
of generated sprites.

It records the CRC-32 of every sprite file so a later run can tell which
files are already up to date. The file starts with the 4 byte magic "SIDX"
and a little-endian 32-bit entry count. Each entry, sorted by key, is a
little-endian 16-bit key length, the key and the little-endian 32-bit
checksum. The file ends with the CRC-32 of everything before it.
*/
package manifest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/bodgit/spritegen/crc32"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename = "sprites.idx"

	magic = "SIDX"
)

var (
	errMagic    = errors.New("manifest: invalid magic")
	errChecksum = errors.New("manifest: checksum mismatch")
	errShort    = errors.New("manifest: insufficient data")
)

// DB is the manifest object. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type DB struct {
	checksums map[string]uint32
}

// New returns an empty manifest
func New() *DB {
	return &DB{
		checksums: make(map[string]uint32),
	}
}

// Length returns the number of entries in the manifest
func (db *DB) Length() int {
	return len(db.checksums)
}

// Set records the checksum of the file for key
func (db *DB) Set(key string, crc uint32) error {
	if len(key) == 0 || len(key) > math.MaxUint16 {
		return fmt.Errorf("manifest: invalid key length %d", len(key))
	}
	db.checksums[key] = crc
	return nil
}

// Get returns the checksum recorded for key
func (db *DB) Get(key string) (uint32, bool) {
	crc, ok := db.checksums[key]
	return crc, ok
}

// Keys returns every key in sorted order
func (db *DB) Keys() []string {
	keys := make([]string, 0, len(db.checksums))
	for k := range db.checksums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalBinary encodes the manifest into binary form and returns the result
func (db *DB) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	b.WriteString(magic)

	if err := binary.Write(b, binary.LittleEndian, uint32(len(db.checksums))); err != nil {
		return nil, err
	}

	for _, k := range db.Keys() {
		if err := binary.Write(b, binary.LittleEndian, uint16(len(k))); err != nil {
			return nil, err
		}
		b.WriteString(k)
		if err := binary.Write(b, binary.LittleEndian, db.checksums[k]); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(b, binary.LittleEndian, crc32.Checksum(b.Bytes())); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return errShort
	}
	return nil
}

// UnmarshalBinary decodes the manifest from binary form
func (db *DB) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic)+8 {
		return errShort
	}
	if string(b[:len(magic)]) != magic {
		return errMagic
	}

	body, trailer := b[:len(b)-4], b[len(b)-4:]
	if crc32.Checksum(body) != binary.LittleEndian.Uint32(trailer) {
		return errChecksum
	}

	r := bytes.NewReader(body[len(magic):])

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return errShort
	}

	checksums := make(map[string]uint32)
	for i := uint32(0); i < count; i++ {
		var length uint16
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return errShort
		}
		key := make([]byte, length)
		if err := readFull(r, key); err != nil {
			return err
		}
		var crc uint32
		if err := binary.Read(r, binary.LittleEndian, &crc); err != nil {
			return errShort
		}
		checksums[string(key)] = crc
	}

	if r.Len() != 0 {
		return errors.New("manifest: trailing data")
	}

	db.checksums = checksums
	return nil
}
