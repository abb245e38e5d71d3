package storage

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/apidiff/internal/model"
)

// sqliteMagic is the fixed 16-byte header of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// IsSnapshot reports whether path is a saved snapshot file.
func IsSnapshot(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, len(sqliteMagic))
	if _, err := f.Read(header); err != nil {
		return false
	}
	return bytes.Equal(header, sqliteMagic)
}

// Load reads a snapshot back into an entity collection, restoring the
// original extraction order.
func Load(path string) (*model.Collection, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", path, err)
	}
	defer db.Close()

	var version string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("storage: %s is not a snapshot file: %w", path, err)
	}
	if version != SchemaVersion {
		return nil, fmt.Errorf("storage: snapshot %s has schema version %s, want %s; regenerate it with the same tool version",
			path, version, SchemaVersion)
	}

	entities, seqs, err := readEntities(db)
	if err != nil {
		return nil, err
	}
	if err := readItems(db, entities, seqs); err != nil {
		return nil, err
	}
	if err := readRelations(db, entities, seqs); err != nil {
		return nil, err
	}
	return model.NewCollection(entities), nil
}

func readEntities(db *sql.DB) ([]*model.Entity, map[int]*model.Entity, error) {
	rows, err := db.Query(`
		SELECT seq, id, kind, name, file, line, descr, title, type, return_type, value
		FROM entities ORDER BY seq`)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: reading entities: %w", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	bySeq := make(map[int]*model.Entity)
	for rows.Next() {
		var seq int
		var kind string
		e := &model.Entity{}
		if err := rows.Scan(&seq, &e.ID, &kind, &e.Name, &e.File, &e.Line,
			&e.Desc, &e.Title, &e.Type, &e.ReturnType, &e.Value); err != nil {
			return nil, nil, err
		}
		e.Kind = model.Kind(kind)
		entities = append(entities, e)
		bySeq[seq] = e
	}
	return entities, bySeq, rows.Err()
}

func readItems(db *sql.DB, entities []*model.Entity, bySeq map[int]*model.Entity) error {
	rows, err := db.Query(`
		SELECT entity_seq, slot, idx, name, type, value, descr
		FROM items ORDER BY entity_seq, slot, idx`)
	if err != nil {
		return fmt.Errorf("storage: reading items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seq int
		var slot string
		var item model.Item
		if err := rows.Scan(&seq, &slot, &item.Index, &item.Name,
			&item.Type, &item.Value, &item.Desc); err != nil {
			return err
		}
		e, ok := bySeq[seq]
		if !ok {
			continue
		}
		switch slot {
		case slotParam:
			e.Params = append(e.Params, item)
		case slotValue:
			e.Values = append(e.Values, item)
		case slotField:
			e.Fields = append(e.Fields, item)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Restore declaration order; idx is authoritative.
	for _, e := range entities {
		sortItems(e.Params)
		sortItems(e.Values)
		sortItems(e.Fields)
	}
	return nil
}

func sortItems(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Index < items[j].Index })
}

func readRelations(db *sql.DB, entities []*model.Entity, bySeq map[int]*model.Entity) error {
	rows, err := db.Query(`SELECT entity_seq, role, other_id FROM relations ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("storage: reading relations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seq int
		var role, otherID string
		if err := rows.Scan(&seq, &role, &otherID); err != nil {
			return err
		}
		e, ok := bySeq[seq]
		if !ok {
			continue
		}
		switch role {
		case roleParent:
			e.AddParent(otherID)
		case roleChild:
			e.AddChild(otherID)
		}
	}
	return rows.Err()
}
