package storage

// Test Plan for Snapshot Persistence:
// - Save then Load restores entities in extraction order
// - sub-items come back in declaration order per slot
// - parent/child links round-trip
// - a loaded snapshot diffs empty against the collection it came from
// - IsSnapshot recognizes snapshot files and rejects other files
// - Load rejects files that are not snapshots
// - Save replaces an existing snapshot file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidiff/internal/diff"
	"github.com/mvp-joe/apidiff/internal/model"
)

func sampleCollection() *model.Collection {
	fn := &model.Entity{
		ID: "fn-1", Kind: model.KindFunc, Name: "api_init",
		File: "api.h", Line: 42, Desc: "Initialize the API.", ReturnType: "int",
	}
	p := fn.AddParam()
	p.Name = "flags"
	p.Type = "uint32_t"
	p.Desc = "Init flags."
	p = fn.AddParam()
	p.Name = "timeout"
	p.Type = "int"

	en := &model.Entity{ID: "en-1", Kind: model.KindEnum, Name: "api_state", File: "api.h", Line: 60}
	v := en.AddValue()
	v.Name = "API_IDLE"
	v = en.AddValue()
	v.Name = "API_READY"
	v.Value = "= 4"

	st := &model.Entity{ID: "st-1", Kind: model.KindStruct, Name: "api_config", File: "api.h", Line: 80}
	f := st.AddField()
	f.Name = "timeout"
	f.Type = "int"

	grp := &model.Entity{ID: "grp-1", Kind: model.KindGroup, Name: "core", Title: "Core API"}
	grp.AddChild("fn-1")
	grp.AddChild("en-1")
	fn.AddParent("grp-1")
	en.AddParent("grp-1")

	return model.NewCollection([]*model.Entity{fn, en, st, grp})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "api.snapshot")
	original := sampleCollection()
	require.NoError(t, Save(path, original))

	assert.True(t, IsSnapshot(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, original.Len(), loaded.Len())

	for i, want := range original.Entities {
		got := loaded.Entities[i]
		assert.Equal(t, want.ID, got.ID, "extraction order preserved")
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Line, got.Line)
		assert.Equal(t, want.Params, got.Params)
		assert.Equal(t, want.Values, got.Values)
		assert.Equal(t, want.Fields, got.Fields)
		assert.Equal(t, want.ParentIDs, got.ParentIDs)
		assert.Equal(t, want.ChildIDs, got.ChildIDs)
	}

	// The round-trip contract: no observable difference.
	result, err := diff.Compare(loaded, original)
	require.NoError(t, err)
	assert.Empty(t, result.Changes)
}

func TestSaveReplacesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "api.snapshot")
	require.NoError(t, Save(path, sampleCollection()))

	smaller := model.NewCollection([]*model.Entity{
		{ID: "only", Kind: model.KindVar, Name: "api_debug", File: "api.h", Line: 1},
	})
	require.NoError(t, Save(path, smaller))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, "api_debug", loaded.Entities[0].Name)
}

func TestIsSnapshotRejectsOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "header.h")
	require.NoError(t, os.WriteFile(plain, []byte("#define FOO 1\n"), 0o644))

	assert.False(t, IsSnapshot(plain))
	assert.False(t, IsSnapshot(filepath.Join(dir, "missing")))
}

func TestLoadRejectsNonSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-snapshot")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
