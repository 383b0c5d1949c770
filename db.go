package spritegen

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// EntityDB is the sqlite-backed catalogue of entity records.
type EntityDB struct {
	db *sql.DB
}

// NewEntityDB opens, creating if necessary, the catalogue in file.
func NewEntityDB(file string) (*EntityDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS entity (kind INTEGER NOT NULL, id TEXT NOT NULL, name TEXT NOT NULL, level INTEGER NOT NULL DEFAULT 0, notable INTEGER NOT NULL DEFAULT 0, PRIMARY KEY (kind, id))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS entity_name ON entity (name)"); err != nil {
		db.Close()
		return nil, err
	}

	return &EntityDB{
		db: db,
	}, nil
}

// Close closes the catalogue.
func (db *EntityDB) Close() error {
	return db.db.Close()
}

// ImportJSON replaces all entities of the given kind with the records in
// file, which must hold a JSON array of objects.
func (db *EntityDB) ImportJSON(file string, kind Kind) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := db.Import(f, kind)
	if err != nil {
		return 0, errors.Wrapf(err, "importing %s", file)
	}
	return n, nil
}

// Import is ImportJSON reading from r.
func (db *EntityDB) Import(r io.Reader, kind Kind) (int, error) {
	if _, ok := kindNames[kind]; !ok {
		return 0, fmt.Errorf("unknown kind %d", int(kind))
	}

	var records []jsonEntity
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, errors.Wrap(err, "decoding records")
	}

	entities := make([]Entity, 0, len(records))
	for i, j := range records {
		e := j.entity(kind)
		if err := validIdentity(e.ID); err != nil {
			return 0, errors.Wrapf(err, "record %d", i)
		}
		entities = append(entities, e)
	}

	tx, err := db.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM entity WHERE kind = ?", kind); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO entity (kind, id, name, level, notable) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, e := range entities {
		if _, err = stmt.Exec(e.Kind, e.ID, e.Name, e.Level, e.Notable); err != nil {
			return 0, errors.Wrapf(err, "inserting %s", e.Key())
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(entities), nil
}

// Put adds or replaces a single entity.
func (db *EntityDB) Put(e Entity) error {
	if _, ok := kindNames[e.Kind]; !ok {
		return fmt.Errorf("unknown kind %d", int(e.Kind))
	}
	if err := validIdentity(e.ID); err != nil {
		return err
	}
	_, err := db.db.Exec("INSERT OR REPLACE INTO entity (kind, id, name, level, notable) VALUES (?, ?, ?, ?, ?)", e.Kind, e.ID, e.Name, e.Level, e.Notable)
	return err
}

// FindEntity returns the entity, or nil if there is no such entity.
func (db *EntityDB) FindEntity(kind Kind, id string) (*Entity, error) {
	e := Entity{Kind: kind, ID: id}
	switch err := db.db.QueryRow("SELECT name, level, notable FROM entity WHERE kind = ? AND id = ?", kind, id).Scan(&e.Name, &e.Level, &e.Notable); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// FindEntityByName returns the first entity of the given kind with the given
// name, or nil if there is none.
func (db *EntityDB) FindEntityByName(kind Kind, name string) (*Entity, error) {
	e := Entity{Kind: kind, Name: name}
	switch err := db.db.QueryRow("SELECT id, level, notable FROM entity WHERE kind = ? AND name = ? ORDER BY id LIMIT 1", kind, name).Scan(&e.ID, &e.Level, &e.Notable); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// Count returns the number of entities of the given kind, or of every kind
// if kind is zero.
func (db *EntityDB) Count(kind Kind) (n int, err error) {
	if kind == 0 {
		err = db.db.QueryRow("SELECT COUNT(*) FROM entity").Scan(&n)
	} else {
		err = db.db.QueryRow("SELECT COUNT(*) FROM entity WHERE kind = ?", kind).Scan(&n)
	}
	return
}

// Each calls fn for every entity of the given kind, or of every kind if kind
// is zero, stopping at the first error.
func (db *EntityDB) Each(ctx context.Context, kind Kind, fn func(Entity) error) error {
	var (
		rows *sql.Rows
		err  error
	)
	if kind == 0 {
		rows, err = db.db.QueryContext(ctx, "SELECT kind, id, name, level, notable FROM entity ORDER BY kind, id")
	} else {
		rows, err = db.db.QueryContext(ctx, "SELECT kind, id, name, level, notable FROM entity WHERE kind = ? ORDER BY id", kind)
	}
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.Kind, &e.ID, &e.Name, &e.Level, &e.Notable); err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}

	return rows.Err()
}
