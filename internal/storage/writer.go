// Package storage persists entity collections as single-file SQLite
// snapshots, the pre-parsed form accepted wherever a raw extraction
// source is. A snapshot round-trips exactly: loading one and diffing it
// against the collection it was saved from yields no changes.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/apidiff/internal/model"
)

// Save writes the collection to path, replacing any existing file.
func Save(path string, c *model.Collection) (err error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: replacing %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("storage: creating %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("storage: creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("storage: starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = writeMeta(tx); err != nil {
		return err
	}
	if err = writeEntities(tx, c); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: committing snapshot: %w", err)
	}
	return nil
}

func writeMeta(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, kv := range [][2]string{
		{"schema_version", SchemaVersion},
		{"saved_at", time.Now().UTC().Format(time.RFC3339)},
	} {
		if _, err := stmt.Exec(kv[0], kv[1]); err != nil {
			return fmt.Errorf("storage: writing meta: %w", err)
		}
	}
	return nil
}

func writeEntities(tx *sql.Tx, c *model.Collection) error {
	insertEntity, err := tx.Prepare(`
		INSERT INTO entities (seq, id, kind, name, file, line, descr, title, type, return_type, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertEntity.Close()

	insertItem, err := tx.Prepare(`
		INSERT INTO items (entity_seq, slot, idx, name, type, value, descr)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertItem.Close()

	insertRelation, err := tx.Prepare(`
		INSERT INTO relations (entity_seq, role, other_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertRelation.Close()

	for seq, e := range c.Entities {
		if _, err := insertEntity.Exec(seq, e.ID, string(e.Kind), e.Name, e.File, e.Line,
			e.Desc, e.Title, e.Type, e.ReturnType, e.Value); err != nil {
			return fmt.Errorf("storage: writing entity %s: %w", e.Name, err)
		}
		for slot, items := range map[string][]model.Item{
			slotParam: e.Params,
			slotValue: e.Values,
			slotField: e.Fields,
		} {
			for _, item := range items {
				if _, err := insertItem.Exec(seq, slot, item.Index, item.Name,
					item.Type, item.Value, item.Desc); err != nil {
					return fmt.Errorf("storage: writing items of %s: %w", e.Name, err)
				}
			}
		}
		for _, id := range e.ParentIDs {
			if _, err := insertRelation.Exec(seq, roleParent, id); err != nil {
				return err
			}
		}
		for _, id := range e.ChildIDs {
			if _, err := insertRelation.Exec(seq, roleChild, id); err != nil {
				return err
			}
		}
	}
	return nil
}
