package headers

// Test Plan for the Header Scanner:
// - discovery matches headers recursively and skips ignored directories
// - scanning the sample header yields the expected entity set
// - include guards do not surface as definitions
// - macros carry their parameters, functions their typed parameters
// - struct fields include function pointers with rendered signatures
// - enum values keep their own initializer text
// - leading doc comments become descriptions
// - every member links back to its file entity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/apidiff/internal/model"
)

func TestDiscovery(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("#pragma once\n"), 0o644))
	}
	write("api.h")
	write("include/sub/deep.h")
	write("readme.txt")
	write("build/generated.h")
	write("src/build/other.h")

	d, err := NewDiscovery(dir, nil, nil)
	require.NoError(t, err)
	files, err := d.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{"api.h", "include/sub/deep.h"}, files)
}

func TestDiscoveryCustomPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, rel := range []string{"include/api.h", "internal/impl.h"} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("#pragma once\n"), 0o644))
	}

	d, err := NewDiscovery(dir, []string{"include/**.h"}, nil)
	require.NoError(t, err)
	files, err := d.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"include/api.h"}, files)
}

func scanSample(t *testing.T) *model.Collection {
	t.Helper()
	c, err := Scan(context.Background(), filepath.Join("testdata", "sample"), Options{})
	require.NoError(t, err)
	return c
}

func findByShort(t *testing.T, c *model.Collection, kind model.Kind, name string) *model.Entity {
	t.Helper()
	matches := c.ByShortID(string(kind) + ":" + name)
	require.Len(t, matches, 1, "%s:%s", kind, name)
	return matches[0]
}

func TestScanSampleHeader(t *testing.T) {
	t.Parallel()

	c := scanSample(t)

	file := findByShort(t, c, model.KindFile, "api.h")
	require.NotEmpty(t, file.ChildIDs)

	def := findByShort(t, c, model.KindDef, "API_MAX_SESSIONS")
	assert.Equal(t, "16", def.Value)
	assert.Equal(t, "Maximum number of concurrent sessions.", def.Desc)
	assert.Empty(t, def.Params)

	assert.Empty(t, c.ByShortID("def:SAMPLE_API_H_"), "include guard is not API")

	macro := findByShort(t, c, model.KindDef, "API_VERSION")
	require.Len(t, macro.Params, 2)
	assert.Equal(t, "major", macro.Params[0].Name)
	assert.Equal(t, "minor", macro.Params[1].Name)
	assert.NotEmpty(t, macro.Value)

	td := findByShort(t, c, model.KindTypedef, "api_session_id_t")
	assert.Equal(t, "uint32_t", td.Type)
}

func TestScanSampleEnum(t *testing.T) {
	t.Parallel()

	c := scanSample(t)
	enum := findByShort(t, c, model.KindEnum, "api_state")
	require.Len(t, enum.Values, 3)

	assert.Equal(t, "API_STATE_IDLE", enum.Values[0].Name)
	assert.Empty(t, enum.Values[0].Value)
	assert.Equal(t, "API_STATE_READY", enum.Values[1].Name)
	assert.Equal(t, "2", enum.Values[1].Value)
	assert.Equal(t, "Ready to transfer.", enum.Values[1].Desc)
	assert.Equal(t, 1, enum.Values[1].Index)
	assert.Equal(t, "API_STATE_CLOSED", enum.Values[2].Name)
}

func TestScanSampleStruct(t *testing.T) {
	t.Parallel()

	c := scanSample(t)
	st := findByShort(t, c, model.KindStruct, "api_config")
	require.Len(t, st.Fields, 3)

	assert.Equal(t, "timeout_ms", st.Fields[0].Name)
	assert.Equal(t, "int", st.Fields[0].Type)
	assert.Equal(t, "Timeout in milliseconds.", st.Fields[0].Desc)

	assert.Equal(t, "retries", st.Fields[1].Name)
	assert.Equal(t, "uint8_t", st.Fields[1].Type)

	fp := st.Fields[2]
	assert.Equal(t, "on_done", fp.Name)
	assert.Contains(t, fp.Type, "void")
	assert.Contains(t, fp.Type, "int status")

	// The typedef over the struct body collapses to the tag.
	td := findByShort(t, c, model.KindTypedef, "api_config_t")
	assert.Equal(t, "struct api_config", td.Type)
}

func TestScanSampleFunctionsAndVars(t *testing.T) {
	t.Parallel()

	c := scanSample(t)

	open := findByShort(t, c, model.KindFunc, "api_open")
	assert.Equal(t, "int", open.ReturnType)
	assert.Equal(t, "Open a session.", open.Desc)
	require.Len(t, open.Params, 2)
	assert.Equal(t, "config", open.Params[0].Name)
	assert.Contains(t, open.Params[0].Type, "struct api_config")
	assert.Contains(t, open.Params[0].Type, "*")
	assert.Equal(t, "id", open.Params[1].Name)
	assert.Contains(t, open.Params[1].Type, "api_session_id_t")

	cl := findByShort(t, c, model.KindFunc, "api_close")
	assert.Equal(t, "void", cl.ReturnType)
	require.Len(t, cl.Params, 1)
	assert.Equal(t, "id", cl.Params[0].Name)

	v := findByShort(t, c, model.KindVar, "api_debug")
	assert.Equal(t, "int", v.Type)

	file := findByShort(t, c, model.KindFile, "api.h")
	assert.Contains(t, open.ParentIDs, file.ID)
	assert.Contains(t, file.ChildIDs, open.ID)
}

func TestScanStableAcrossRuns(t *testing.T) {
	t.Parallel()

	// Two independent scans of the same tree must diff empty even though
	// every extractor ID differs.
	first := scanSample(t)
	second := scanSample(t)

	require.Equal(t, first.Len(), second.Len())
	for i := range first.Entities {
		assert.Equal(t, first.Entities[i].ShortID(), second.Entities[i].ShortID())
		assert.NotEqual(t, first.Entities[i].ID, second.Entities[i].ID)
	}
}
