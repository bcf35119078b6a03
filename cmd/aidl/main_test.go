package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/aidl/aidl/apicheck"
	"github.com/dhamidi/aidl/aidl/backend"
	"github.com/dhamidi/aidl/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "a", "b", "Data.aidl")
	writeFile(t, src, "package a.b; parcelable Data { long n = 5; }")
	out := filepath.Join(dir, "out")

	b := backend.Java{}
	err := compileFile(backend.IRGenerator{Backend: b}, b, src, out, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "a", "b", "Data.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"canonicalName": "a.b.Data"`)
	assert.Contains(t, string(data), `"rendered": "5L"`)

	bad := filepath.Join(dir, "src", "a", "b", "IBad.aidl")
	writeFile(t, bad, "package a.b; interface IBad { void f(in Nope n); }")
	assert.Error(t, compileFile(backend.IRGenerator{Backend: b}, b, bad, out, nil))
	assert.NoFileExists(t, filepath.Join(out, "a", "b", "IBad.json"))
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, runInit(dir, false))

	p, err := project.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, project.FileName), p.ConfigFile)
	assert.Equal(t, "java", p.Lang)

	path := filepath.Join(dir, project.FileName)
	writeFile(t, path, "lang: cpp\n")
	require.NoError(t, runInit(dir, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lang: cpp\n", string(data))

	require.NoError(t, runInit(dir, true))
	p, err = project.LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "java", p.Lang)
}

func TestLoadAPI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "v1", "p", "IFoo.aidl"), "package p; import p.Data; interface IFoo { void a(in Data d); }")
	writeFile(t, filepath.Join(dir, "v1", "p", "Data.aidl"), "package p; parcelable Data { int x; }")
	writeFile(t, filepath.Join(dir, "v2", "p", "IFoo.aidl"), "package p; import p.Data; interface IFoo { void a(in Data d); void b(); }")
	writeFile(t, filepath.Join(dir, "v2", "p", "Data.aidl"), "package p; parcelable Data { int x; int y; }")

	older, err := loadAPI(filepath.Join(dir, "v1"))
	require.NoError(t, err)
	require.Len(t, older, 2)
	newer, err := loadAPI(filepath.Join(dir, "v2"))
	require.NoError(t, err)

	assert.NoError(t, apicheck.Check(older, newer))
	assert.Error(t, apicheck.Check(newer, older))
}

func TestCheckGrammarFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.ebnf")
	writeFile(t, good, `A = "a" B . B = "b" .`)
	assert.NoError(t, checkGrammarFile(good, "A"))

	bad := filepath.Join(dir, "bad.ebnf")
	writeFile(t, bad, `A = B . C = "c" .`)
	err := checkGrammarFile(bad, "A")
	assert.ErrorContains(t, err, "bad.ebnf")
	assert.ErrorContains(t, err, "(and 1 more errors)")

	assert.ErrorContains(t, checkGrammarFile(filepath.Join(dir, "missing.ebnf"), "A"), "open file")
}
