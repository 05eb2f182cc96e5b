package vfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestPak(t *testing.T, files map[string][]byte) *Pak {
	t.Helper()
	builder := NewBuilder(Header{Author: "tests", Version: 1})
	for name, data := range files {
		require.NoError(t, builder.Add(name, data))
	}
	var buf bytes.Buffer
	_, err := builder.WriteTo(&buf)
	require.NoError(t, err)

	pak, err := OpenPak(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return pak
}

func TestPak_RoundTrip(t *testing.T) {
	files := map[string][]byte{
		"textures/stone.png": bytes.Repeat([]byte{0xAB, 0xCD}, 512),
		"meshes/cube.obj":    []byte("v 0 0 0\n"),
		"empty.bin":          {},
	}
	pak := buildTestPak(t, files)

	assert.ElementsMatch(t, []string{"empty.bin", "meshes/cube.obj", "textures/stone.png"}, pak.Names())
	for name, want := range files {
		assert.True(t, pak.Contains(name))
		got, err := pak.ReadAll(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestPak_BuildID(t *testing.T) {
	a := buildTestPak(t, map[string][]byte{"a": []byte("a")})
	b := buildTestPak(t, map[string][]byte{"a": []byte("a")})

	assert.NotEmpty(t, a.BuildID())
	assert.NotEqual(t, a.BuildID(), b.BuildID(), "every build gets its own id")
}

func TestPak_MissingFile(t *testing.T) {
	pak := buildTestPak(t, map[string][]byte{"present": []byte("x")})

	_, err := pak.ReadAll("absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenPak_BadMagic(t *testing.T) {
	_, err := OpenPak(bytes.NewReader([]byte("this is not a pak archive at all")))
	assert.ErrorIs(t, err, ErrPakFormat)
}

func TestOpenPak_Truncated(t *testing.T) {
	_, err := OpenPak(bytes.NewReader([]byte(pakMagic)))
	assert.Error(t, err)
}
