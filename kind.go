package spritegen

import "fmt"

// Kind is the category of an entity record.
type Kind int

const (
	KindCreature Kind = iota + 1
	KindItem
	KindZone
)

var kindNames = map[Kind]string{
	KindCreature: "creature",
	KindItem:     "item",
	KindZone:     "zone",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
