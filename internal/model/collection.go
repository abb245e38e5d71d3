package model

// Collection is the full entity model of one API snapshot: the extracted
// entities in extraction order plus two derived indexes, by extractor ID
// and by short identity. It is built once per extraction pass and must not
// be mutated afterwards; diffing consumes two collections read-only.
type Collection struct {
	Entities []*Entity

	byID    map[string]*Entity
	byShort map[string][]*Entity
}

// NewCollection builds a collection and its indexes. If two entities carry
// the same extractor ID the first one wins in the by-ID index; entities
// sharing a short identity are all retained under that identity, in input
// order.
func NewCollection(entities []*Entity) *Collection {
	c := &Collection{
		Entities: entities,
		byID:     make(map[string]*Entity, len(entities)),
		byShort:  make(map[string][]*Entity, len(entities)),
	}
	for _, e := range entities {
		if _, ok := c.byID[e.ID]; !ok {
			c.byID[e.ID] = e
		}
		sid := e.ShortID()
		c.byShort[sid] = append(c.byShort[sid], e)
	}
	return c
}

// ByID looks up an entity by its extractor-assigned ID.
func (c *Collection) ByID(id string) *Entity {
	return c.byID[id]
}

// ByShortID returns every entity carrying the given short identity, in
// input order. A single-element result is a plain entry; more elements
// mean the name collides within this snapshot and matching has to fall
// back to disambiguating keys.
func (c *Collection) ByShortID(sid string) []*Entity {
	return c.byShort[sid]
}

// Len returns the number of entities in the collection.
func (c *Collection) Len() int {
	return len(c.Entities)
}
