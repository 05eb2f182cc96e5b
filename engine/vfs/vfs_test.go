package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/core"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestFilesystem_ReadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shaders/basic.vert", []byte("vertex"))

	fs := New().AddRoot(dir)

	data, err := fs.Read("shaders/basic.vert")
	require.NoError(t, err)
	assert.Equal(t, []byte("vertex"), data)
	assert.True(t, fs.Exists("shaders/basic.vert"))
	assert.False(t, fs.Exists("shaders/basic.frag"))
}

func TestFilesystem_Missing(t *testing.T) {
	fs := New().AddRoot(t.TempDir())

	_, err := fs.Read("nope.obj")
	assert.ErrorIs(t, err, core.ErrSourceNotFound)
}

func TestFilesystem_FirstRootWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "common.txt", []byte("first"))
	writeFile(t, second, "common.txt", []byte("second"))
	writeFile(t, second, "only-second.txt", []byte("fallthrough"))

	fs := New().AddRoot(first).AddRoot(second)

	data, err := fs.Read("common.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	data, err = fs.Read("only-second.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("fallthrough"), data)
}

func TestFilesystem_DirShadowsPak(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.txt", []byte("loose"))

	pak := buildTestPak(t, map[string][]byte{
		"common.txt":  []byte("packed"),
		"pak-only.md": []byte("archived"),
	})

	fs := New().AddRoot(dir).Mount(pak)

	data, err := fs.Read("common.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("loose"), data)

	data, err = fs.Read("pak-only.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("archived"), data)
}

func TestFilesystem_AddPakFromDisk(t *testing.T) {
	pakPath := filepath.Join(t.TempDir(), "base.pak")
	builder := NewBuilder(Header{Author: "tests", Version: 1})
	require.NoError(t, builder.Add("a/b.txt", []byte("hello")))
	out, err := os.Create(pakPath)
	require.NoError(t, err)
	_, err = builder.WriteTo(out)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	fs := New()
	require.NoError(t, fs.AddPak(pakPath))

	data, err := fs.Read("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestFilesystem_ReadDirMergesRoots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "maps/town.map", []byte("t"))
	writeFile(t, dir, "maps/cave.map", []byte("c"))

	pak := buildTestPak(t, map[string][]byte{
		"maps/town.map":  []byte("shadowed"),
		"maps/ruins.map": []byte("r"),
	})

	fs := New().AddRoot(dir).Mount(pak)

	assert.Equal(t, []string{"maps/cave.map", "maps/ruins.map", "maps/town.map"}, fs.ReadDir("maps"))
}

func TestFilesystem_NormalizesSeparators(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b/c.txt", []byte("x"))

	fs := New().AddRoot(dir)

	data, err := fs.Read(`a\b\c.txt`)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
