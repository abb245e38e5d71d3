package model

// Test Plan for Identity and Collection:
// - ShortID combines kind and name and collides across files by design
// - DisambigKey prefers file+line, falls back to file+ID, then ID only
// - NewCollection indexes by extractor ID (first wins on duplicates)
// - ByShortID retains every entity sharing a short identity, in input order
// - AddParam/AddValue/AddField assign consecutive indexes
// - AddParent/AddChild ignore duplicate references

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortID(t *testing.T) {
	t.Parallel()

	a := &Entity{ID: "x1", Kind: KindFunc, Name: "api_init", File: "a.h"}
	b := &Entity{ID: "x2", Kind: KindFunc, Name: "api_init", File: "b.h"}
	c := &Entity{ID: "x3", Kind: KindDef, Name: "api_init"}

	assert.Equal(t, "func:api_init", a.ShortID())
	assert.Equal(t, a.ShortID(), b.ShortID(), "same kind and name collide regardless of file")
	assert.NotEqual(t, a.ShortID(), c.ShortID(), "kind is part of the identity")
}

func TestDisambigKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entity   Entity
		expected string
	}{
		{
			name:     "file and line",
			entity:   Entity{ID: "e1", File: "include/api.h", Line: 42},
			expected: "include/api.h>42",
		},
		{
			name:     "file without line",
			entity:   Entity{ID: "e2", File: "include/api.h"},
			expected: "include/api.h>e2",
		},
		{
			name:     "no location at all",
			entity:   Entity{ID: "e3"},
			expected: ">e3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.entity.DisambigKey())
		})
	}
}

func TestDisambigKeyStableAcrossRuns(t *testing.T) {
	t.Parallel()

	// The same declaration extracted twice gets different extractor IDs
	// but must produce the same key.
	first := &Entity{ID: "run1-000", Kind: KindDef, Name: "FOO", File: "a.h", Line: 10}
	second := &Entity{ID: "run2-937", Kind: KindDef, Name: "FOO", File: "a.h", Line: 10}
	assert.Equal(t, first.DisambigKey(), second.DisambigKey())
}

func TestNewCollectionIndexes(t *testing.T) {
	t.Parallel()

	a := &Entity{ID: "id-a", Kind: KindDef, Name: "FOO", File: "a.h", Line: 1}
	b := &Entity{ID: "id-b", Kind: KindDef, Name: "FOO", File: "b.h", Line: 2}
	c := &Entity{ID: "id-c", Kind: KindFunc, Name: "bar"}
	dup := &Entity{ID: "id-a", Kind: KindVar, Name: "shadowed"}

	col := NewCollection([]*Entity{a, b, c, dup})

	require.Equal(t, 4, col.Len())
	assert.Same(t, a, col.ByID("id-a"), "first entity wins a duplicated ID")
	assert.Same(t, c, col.ByID("id-c"))
	assert.Nil(t, col.ByID("missing"))

	foos := col.ByShortID("def:FOO")
	require.Len(t, foos, 2)
	assert.Same(t, a, foos[0])
	assert.Same(t, b, foos[1])

	assert.Len(t, col.ByShortID("func:bar"), 1)
	assert.Empty(t, col.ByShortID("func:missing"))
}

func TestAddItemsAssignIndexes(t *testing.T) {
	t.Parallel()

	fn := &Entity{Kind: KindFunc, Name: "f"}
	p0 := fn.AddParam()
	p0.Name = "a"
	p1 := fn.AddParam()
	p1.Name = "b"

	require.Len(t, fn.Params, 2)
	assert.Equal(t, 0, fn.Params[0].Index)
	assert.Equal(t, 1, fn.Params[1].Index)
	assert.Equal(t, "a", fn.Params[0].Name)

	en := &Entity{Kind: KindEnum, Name: "e"}
	en.AddValue().Name = "V0"
	en.AddValue().Name = "V1"
	assert.Equal(t, 1, en.Values[1].Index)

	st := &Entity{Kind: KindStruct, Name: "s"}
	st.AddField().Name = "x"
	assert.Equal(t, 0, st.Fields[0].Index)
}

func TestAddParentChildDeduplicate(t *testing.T) {
	t.Parallel()

	e := &Entity{ID: "e"}
	e.AddParent("g1")
	e.AddParent("g1")
	e.AddParent("g2")
	assert.Equal(t, []string{"g1", "g2"}, e.ParentIDs)

	e.AddChild("c1")
	e.AddChild("c1")
	assert.Equal(t, []string{"c1"}, e.ChildIDs)
}
