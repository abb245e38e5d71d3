package diff

// Test Plan for Classification:
// - equal pairs of every kind classify to nil (record suppressed)
// - typedef/var report type changes, func reports return type, def value
// - file and desc changes are reported for every comparable kind
// - enum/struct/func recurse into their sub-items
// - a kind mismatch yields a single "kind" record with no field diffs
// - file and group pairs are never diffed
// - an unknown entity kind is an error

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidiff/internal/model"
)

func TestClassifyEqualPairs(t *testing.T) {
	t.Parallel()

	kinds := []model.Kind{
		model.KindTypedef, model.KindVar, model.KindEnum,
		model.KindStruct, model.KindUnion, model.KindFunc, model.KindDef,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			n := entity("n1", kind, "thing", "api.h", 5)
			o := entity("o1", kind, "thing", "api.h", 5)
			c, err := Classify(n, o)
			require.NoError(t, err)
			assert.Nil(t, c, "no observable difference, record suppressed")
		})
	}
}

func TestClassifyScalarFields(t *testing.T) {
	t.Parallel()

	t.Run("typedef type", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindTypedef, "api_id_t", "api.h", 1)
		n.Type = "uint64_t"
		o := entity("o", model.KindTypedef, "api_id_t", "api.h", 1)
		o.Type = "uint32_t"
		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, KindTypedef, c.Kind)
		assert.True(t, c.Type)
		assert.False(t, c.File)
	})

	t.Run("func return type", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindFunc, "api_init", "api.h", 1)
		n.ReturnType = "int"
		o := entity("o", model.KindFunc, "api_init", "api.h", 1)
		o.ReturnType = "void"
		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, KindFunc, c.Kind)
		assert.True(t, c.ReturnType)
		assert.Empty(t, c.Params)
	})

	t.Run("def value", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindDef, "API_MAX", "api.h", 1)
		n.Value = "64"
		o := entity("o", model.KindDef, "API_MAX", "api.h", 1)
		o.Value = "32"
		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, KindDef, c.Kind)
		assert.True(t, c.Value)
	})

	t.Run("file move and desc", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindVar, "api_debug", "core/api.h", 9)
		n.Desc = "Debug toggle."
		o := entity("o", model.KindVar, "api_debug", "api.h", 3)
		o.Desc = "Debug flag."
		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.True(t, c.File)
		assert.True(t, c.Desc)
		assert.False(t, c.Type)
	})
}

func TestClassifyRecursesIntoSubItems(t *testing.T) {
	t.Parallel()

	t.Run("struct field deleted", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindStruct, "api_config", "api.h", 10)
		f := n.AddField()
		f.Name = "timeout"
		f.Type = "int"
		o := entity("o", model.KindStruct, "api_config", "api.h", 10)
		f = o.AddField()
		f.Name = "timeout"
		f.Type = "int"
		f = o.AddField()
		f.Name = "retries"
		f.Type = "int"

		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		require.Len(t, c.Fields, 1)
		assert.Equal(t, ActionDeleted, c.Fields[0].Action)
		assert.Equal(t, "retries", c.Fields[0].Old.Name)
		assert.Same(t, c.Fields[0], c.SubChanges()[0])
	})

	t.Run("enum value changed", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindEnum, "api_state", "api.h", 30)
		v := n.AddValue()
		v.Name = "API_READY"
		v.Value = "= 2"
		o := entity("o", model.KindEnum, "api_state", "api.h", 30)
		v = o.AddValue()
		v.Name = "API_READY"
		v.Value = "= 1"

		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		require.Len(t, c.Values, 1)
		assert.Equal(t, KindEnumValue, c.Values[0].Kind)
		assert.True(t, c.Values[0].Value)
	})

	t.Run("union uses struct record", func(t *testing.T) {
		t.Parallel()
		n := entity("n", model.KindUnion, "api_payload", "api.h", 40)
		n.AddField().Name = "raw"
		o := entity("o", model.KindUnion, "api_payload", "api.h", 40)

		c, err := Classify(n, o)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, KindStruct, c.Kind)
		require.Len(t, c.Fields, 1)
		assert.Equal(t, ActionAdded, c.Fields[0].Action)
	})
}

func TestClassifyFunctionSignatureChange(t *testing.T) {
	t.Parallel()

	n := entity("n", model.KindFunc, "api_init", "api.h", 10)
	n.ReturnType = "void"
	p := n.AddParam()
	p.Name = "cfg"
	p.Type = "int"
	p = n.AddParam()
	p.Name = "flags"
	p.Type = "int"

	o := entity("o", model.KindFunc, "api_init", "api.h", 10)
	o.ReturnType = "int"
	p = o.AddParam()
	p.Name = "cfg"
	p.Type = "int"

	c, err := Classify(n, o)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, KindFunc, c.Kind)
	assert.True(t, c.ReturnType)
	require.Len(t, c.Params, 1, "the unchanged cfg parameter produces no record")
	assert.Equal(t, ActionAdded, c.Params[0].Action)
	assert.Equal(t, "flags", c.Params[0].New.Name)
}

func TestClassifyKindMismatch(t *testing.T) {
	t.Parallel()

	n := entity("n", model.KindFunc, "api_max", "api.h", 5)
	o := entity("o", model.KindDef, "api_max", "api.h", 5)
	o.Value = "32"

	c, err := Classify(n, o)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, KindKind, c.Kind)
	assert.Equal(t, ActionModified, c.Action)
	assert.False(t, c.Value, "no field-level diffing across kinds")
}

func TestClassifyContainersSkipped(t *testing.T) {
	t.Parallel()

	for _, kind := range []model.Kind{model.KindFile, model.KindGroup} {
		n := entity("n", kind, "api_group", "api.h", 0)
		n.Desc = "changed"
		o := entity("o", kind, "api_group", "api.h", 0)
		c, err := Classify(n, o)
		require.NoError(t, err)
		assert.Nil(t, c)
	}
}

func TestClassifyUnknownKind(t *testing.T) {
	t.Parallel()

	n := entity("n", model.Kind("interface"), "weird", "api.h", 5)
	o := entity("o", model.Kind("interface"), "weird", "api.h", 5)
	_, err := Classify(n, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interface")
}
