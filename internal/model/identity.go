package model

import "strconv"

// ShortID returns the cross-version matching key for the entity:
// "kind:name". Extractor-assigned IDs are per-run artifacts, so two
// independently extracted snapshots can only be correlated by this key.
// Short identities are not guaranteed unique within one snapshot;
// Collection keeps all entities sharing one.
func (e *Entity) ShortID() string {
	return string(e.Kind) + ":" + e.Name
}

// DisambigKey tells apart entities that share a short identity. It is
// derived from the declaring location (file plus line) so that it stays
// comparable between two snapshots; the per-run ID is used only when no
// location is known at all.
func (e *Entity) DisambigKey() string {
	if e.Line > 0 {
		return e.File + ">" + strconv.Itoa(e.Line)
	}
	if e.File != "" {
		return e.File + ">" + e.ID
	}
	return ">" + e.ID
}
