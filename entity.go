package spritegen

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/bodgit/spritegen/sprite"
	"github.com/pkg/errors"
)

// Extension is appended to an entity's identity to name its sprite file.
const Extension = ".png"

// ErrInvalidIdentity is returned for identities that cannot safely name a
// file.
var ErrInvalidIdentity = errors.New("invalid identity")

// Entity is a single creature, item or zone record.
type Entity struct {
	ID      string
	Kind    Kind
	Name    string
	Level   int
	Notable bool
}

// Key uniquely identifies the entity across kinds.
func (e Entity) Key() string {
	return e.Kind.String() + "/" + e.ID
}

// Path returns the location of the entity's sprite relative to the output
// directory.
func (e Entity) Path() string {
	return filepath.Join(e.Kind.String(), e.ID+Extension)
}

// Attributes returns the subset of the entity that drives sprite generation.
func (e Entity) Attributes() sprite.Attributes {
	return sprite.Attributes{
		Identity: e.Key(),
		Name:     e.Name,
		Level:    e.Level,
		Notable:  e.Notable,
	}
}

func validIdentity(id string) error {
	switch {
	case id == "", id == ".", id == "..":
	case strings.ContainsAny(id, "/\\\x00"):
	default:
		return nil
	}
	return errors.Wrapf(ErrInvalidIdentity, "%q", id)
}

// identity accepts either a JSON string or number.
type identity string

func (i *identity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = identity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = identity(n.String())
	return nil
}

type jsonEntity struct {
	ID      identity `json:"id"`
	Name    *string  `json:"name"`
	Level   int      `json:"level"`
	Boss    bool     `json:"boss"`
	IsBoss  bool     `json:"isBoss"`
	Notable bool     `json:"notable"`
}

func (j jsonEntity) entity(kind Kind) Entity {
	e := Entity{
		ID:      string(j.ID),
		Kind:    kind,
		Level:   j.Level,
		Notable: j.Boss || j.IsBoss || j.Notable,
	}
	// A missing or null name renders as the empty name
	if j.Name != nil {
		e.Name = *j.Name
	}
	if e.Level < 0 {
		e.Level = 0
	}
	return e
}
