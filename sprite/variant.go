package sprite

import (
	"crypto/sha256"
	"encoding/binary"
)

// Variant is the shape archetype of a sprite.
type Variant int

const (
	Notable Variant = iota
	Humanoid
	Beast
	Flying
	Blob
	Undead
)

var variantNames = [...]string{
	Notable:  "notable",
	Humanoid: "humanoid",
	Beast:    "beast",
	Flying:   "flying",
	Blob:     "blob",
	Undead:   "undead",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// Order matters, the hash indexes into it.
var hashedVariants = [...]Variant{Humanoid, Beast, Flying, Blob, Undead}

// StableHash returns the first four bytes of the SHA-256 digest of s as a
// big-endian integer.
//
// Every existing entity's appearance depends on this function; changing it
// re-skins all of them.
func StableHash(s string) uint32 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint32(sum[:4])
}

// SelectVariant picks the variant for key, unless notable overrides it.
func SelectVariant(key string, notable bool) Variant {
	if notable {
		return Notable
	}
	return hashedVariants[StableHash(key)%uint32(len(hashedVariants))]
}
