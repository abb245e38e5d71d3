package storage

// SchemaVersion is bumped on any incompatible snapshot layout change.
// Snapshots are a working format, not an archival one: a version mismatch
// is an error and the snapshot should be regenerated.
const SchemaVersion = "1"

const schema = `
CREATE TABLE meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE entities (
    seq         INTEGER PRIMARY KEY,
    id          TEXT NOT NULL,
    kind        TEXT NOT NULL,
    name        TEXT NOT NULL,
    file        TEXT NOT NULL DEFAULT '',
    line        INTEGER NOT NULL DEFAULT 0,
    descr       TEXT NOT NULL DEFAULT '',
    title       TEXT NOT NULL DEFAULT '',
    type        TEXT NOT NULL DEFAULT '',
    return_type TEXT NOT NULL DEFAULT '',
    value       TEXT NOT NULL DEFAULT ''
);

-- Sub-items: parameters (slot 'param'), enum values (slot 'value') and
-- struct fields (slot 'field'), in declaration order per entity.
CREATE TABLE items (
    entity_seq INTEGER NOT NULL REFERENCES entities(seq),
    slot       TEXT NOT NULL,
    idx        INTEGER NOT NULL,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL DEFAULT '',
    value      TEXT NOT NULL DEFAULT '',
    descr      TEXT NOT NULL DEFAULT ''
);

-- Parent/child links by extractor ID, for graph navigation only.
CREATE TABLE relations (
    entity_seq INTEGER NOT NULL REFERENCES entities(seq),
    role       TEXT NOT NULL,
    other_id   TEXT NOT NULL
);

CREATE INDEX idx_items_entity ON items(entity_seq);
CREATE INDEX idx_relations_entity ON relations(entity_seq);
`

const (
	slotParam = "param"
	slotValue = "value"
	slotField = "field"

	roleParent = "parent"
	roleChild  = "child"
)
