package project

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/aidl/aidl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), p)
	assert.Equal(t, "java", p.Lang)
	assert.Equal(t, 200*time.Millisecond, p.LSP.Debounce)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
sources: [src]
import_paths: [imports]
preprocessed: [framework.aidl]
structured: true
lang: cpp
lsp:
  watch: false
  debounce: 1s
`)
	p, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, p.Sources)
	assert.Equal(t, []string{"imports"}, p.ImportPaths)
	assert.Equal(t, []string{"framework.aidl"}, p.Preprocessed)
	assert.True(t, p.Structured)
	assert.Equal(t, "cpp", p.Lang)
	assert.Equal(t, "out", p.Output, "unset keys keep their defaults")
	assert.False(t, p.LSP.Watch)
	assert.Equal(t, time.Second, p.LSP.Debounce)
	assert.Equal(t, filepath.Join(dir, "src"), p.Path("src"))
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "sources: [unterminated")
	_, err := LoadFile(filepath.Join(dir, "bad.yaml"))
	assert.Error(t, err)

	writeFile(t, filepath.Join(dir, "nolang.yaml"), `lang: ""`)
	_, err = LoadFile(filepath.Join(dir, "nolang.yaml"))
	assert.ErrorContains(t, err, "lang must not be empty")
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := Default(dir)
	p.ImportPaths = []string{"a", "b"}

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))
	assert.Contains(t, buf.String(), "debounce: 200ms")

	writeFile(t, filepath.Join(dir, FileName), buf.String())
	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	p.ConfigFile = filepath.Join(dir, FileName)
	assert.Equal(t, p, loaded)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"src/a/IFoo.aidl",
		"src/a/b/Data.aidl",
		"src/.hidden/IGone.aidl",
		"src/notes.txt",
		"out/a/IFoo.aidl",
	} {
		writeFile(t, filepath.Join(dir, name), "")
	}
	p := Default(dir)
	p.Sources = []string{"src", "."}

	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "src/a/IFoo.aidl"),
		filepath.Join(dir, "src/a/b/Data.aidl"),
	}, files)
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src/a/IFoo.aidl"), "package a; import b.Data; import c.Opaque; interface IFoo { void f(in Data d, in Opaque o); }")
	writeFile(t, filepath.Join(dir, "imports/b/Data.aidl"), "package b; parcelable Data { int x; }")
	writeFile(t, filepath.Join(dir, "framework.aidl"), "parcelable c.Opaque;\n")

	p := Default(dir)
	p.Sources = []string{"src"}
	p.ImportPaths = []string{"imports"}
	p.Preprocessed = []string{"framework.aidl"}

	result, err := aidl.LoadAndValidate(aidl.OSDelegate{}, filepath.Join(dir, "src/a/IFoo.aidl"), p.LoadOptions()...)
	require.NoError(t, err)
	args := result.Type.(*aidl.Interface).Methods[0].Arguments
	assert.Equal(t, "b.Data", args[0].Type.Name())
	assert.Equal(t, "c.Opaque", args[1].Type.Name())

	p.Structured = true
	_, err = aidl.LoadAndValidate(aidl.OSDelegate{}, filepath.Join(dir, "src/a/IFoo.aidl"), p.LoadOptions()...)
	assert.ErrorContains(t, err, "c.Opaque is not structured")
}
