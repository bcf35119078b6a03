package aidl

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadError(t *testing.T, err error) *LoadError {
	t.Helper()
	require.Error(t, err)
	var le *LoadError
	require.True(t, errors.As(err, &le), "error %v is not a *LoadError", err)
	return le
}

func messages(err error) []string {
	var result []string
	for _, d := range Diagnostics(err) {
		result = append(result, d.Message)
	}
	return result
}

type testLanguage struct{}

func (testLanguage) Name() string                 { return "test" }
func (testLanguage) ValidPackage(pkg string) bool { return pkg != "" && !strings.Contains(pkg, "class") }

func (testLanguage) TypeName(t *TypeSpecifier, _ *Typenames) (string, error) {
	if t.Name() == "FileDescriptor" {
		return "", errorf(t.Location, "'%s' is not supported by the test backend", t.Name())
	}
	return "T<" + t.String() + ">", nil
}

func (testLanguage) DefinedTypeName(t DefinedType) string { return "T<" + t.CanonicalName() + ">" }

func TestLoadAndValidateEndToEnd(t *testing.T) {
	io := memFS(map[string]string{
		"a/b/IFoo.aidl": "package a.b; interface IFoo { int bar(in String s); }",
	})
	result, err := LoadAndValidate(io, "a/b/IFoo.aidl")
	require.NoError(t, err)

	iface, ok := result.Type.(*Interface)
	require.True(t, ok)
	assert.Equal(t, "IFoo", iface.Name())
	assert.Equal(t, "a.b", iface.Package())
	require.Len(t, iface.Methods, 1)

	bar := iface.Methods[0]
	assert.Equal(t, "bar", bar.Name)
	assert.True(t, bar.HasID())
	assert.Equal(t, 0, bar.ID())
	require.Len(t, bar.InArguments(), 1)
	assert.True(t, bar.Arguments[0].Type.IsResolved())
	assert.Equal(t, "String", bar.Arguments[0].Type.Name())
}

func TestLoadAndValidateImports(t *testing.T) {
	io := memFS(map[string]string{
		"src/a/b/IFoo.aidl": `package a.b;
import a.b.Data;
import c.ICallback;
interface IFoo {
    void send(in Data d, ICallback cb);
}`,
		"imports/a/b/Data.aidl":    "package a.b; parcelable Data { int x; }",
		"imports/c/ICallback.aidl": "package c; interface ICallback { void done(); }",
	})

	result, err := LoadAndValidate(io, "src/a/b/IFoo.aidl", WithImportPaths("imports"))
	require.NoError(t, err)

	require.Len(t, result.Imports(), 2)
	assert.Equal(t, "imports/a/b/Data.aidl", result.Imports()[0].Filename)
	require.NotNil(t, result.Imports()[0].Document)

	send := result.Type.(*Interface).Methods[0]
	assert.Equal(t, "a.b.Data", send.Arguments[0].Type.Name())
	assert.Equal(t, "c.ICallback", send.Arguments[1].Type.Name())

	_, ok := result.Typenames.TryGetDefinedType("c.ICallback")
	assert.True(t, ok)
}

func TestLoadAndValidateErrorCodes(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		file  string
		opts  []LoadOption
		code  ErrorCode
		want  []string
	}{
		{
			name:  "bad preprocessed file",
			files: map[string]string{"p.txt": "garbage", "a/I.aidl": "package a; interface I {}"},
			file:  "a/I.aidl",
			opts:  []LoadOption{WithPreprocessed("p.txt")},
			code:  ErrorCodeBadPreprocessedFile,
			want:  []string{"malformed preprocessed file line: 'garbage'"},
		},
		{
			name:  "parse error",
			files: map[string]string{"a/I.aidl": "package a; interface I { void }"},
			file:  "a/I.aidl",
			code:  ErrorCodeParseError,
		},
		{
			name:  "no definitions",
			files: map[string]string{"a/I.aidl": "package a;"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadType,
			want:  []string{"Cannot generate file without any definitions."},
		},
		{
			name:  "only unstructured parcelables",
			files: map[string]string{"a/P.aidl": "package a; parcelable P;"},
			file:  "a/P.aidl",
			code:  ErrorCodeFoundParcelable,
			want:  []string{"Refusing to generate code with unstructured parcelables."},
		},
		{
			name:  "two types",
			files: map[string]string{"a/I.aidl": "package a; interface I {} parcelable P;"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadType,
			want:  []string{"Exactly one structured type is required to be defined."},
		},
		{
			name:  "wrong file name",
			files: map[string]string{"a/J.aidl": "package a; interface I {}"},
			file:  "a/J.aidl",
			code:  ErrorCodeBadPackage,
			want:  []string{"a.I should be declared in a file called a/I.aidl"},
		},
		{
			name:  "invalid package",
			files: map[string]string{"class/I.aidl": "package class; interface I {}"},
			file:  "class/I.aidl",
			opts:  []LoadOption{WithLanguage(testLanguage{})},
			code:  ErrorCodeBadPackage,
			want:  []string{"Invalid package declaration 'class'"},
		},
		{
			name: "missing import",
			files: map[string]string{
				"a/I.aidl":       "package a; import b.Gone; import b.Bad; interface I {}",
				"inc/b/Bad.aidl": "package b; interface Bad { void }",
			},
			file: "a/I.aidl",
			opts: []LoadOption{WithImportPaths("inc")},
			code: ErrorCodeBadImport,
			want: []string{
				"couldn't find import for class b.Gone",
				"expected method name, got '}'",
				"error while parsing import for class b.Bad",
			},
		},
		{
			name: "import in the wrong file",
			files: map[string]string{
				"a/I.aidl":        "package a; import b.Data; interface I {}",
				"inc/b/Data.aidl": "package c; parcelable Data { int x; }",
			},
			file: "a/I.aidl",
			opts: []LoadOption{WithImportPaths("inc")},
			code: ErrorCodeBadImport,
			want: []string{"c.Data should be declared in a file called c/Data.aidl"},
		},
		{
			name:  "unresolved type",
			files: map[string]string{"a/I.aidl": "package a; interface I { void f(in Nope n); }"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadType,
			want:  []string{"Failed to resolve 'Nope'"},
		},
		{
			name:  "structural error",
			files: map[string]string{"a/I.aidl": "package a; interface I { oneway int f(); }"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadType,
			want:  []string{"oneway method 'f' cannot return a value"},
		},
		{
			name:  "unsupported by language",
			files: map[string]string{"a/I.aidl": "package a; interface I { void f(in FileDescriptor fd); }"},
			file:  "a/I.aidl",
			opts:  []LoadOption{WithLanguage(testLanguage{})},
			code:  ErrorCodeBadType,
			want:  []string{"'FileDescriptor' is not supported by the test backend"},
		},
		{
			name: "structured mode",
			files: map[string]string{
				"prep.txt": "parcelable z.Opaque;",
				"a/P.aidl": "package a; parcelable P { int x; }",
			},
			file: "a/P.aidl",
			opts: []LoadOption{WithPreprocessed("prep.txt"), WithStructured(true)},
			code: ErrorCodeBadType,
			want: []string{"z.Opaque is not structured, but this is a structured interface."},
		},
		{
			name:  "method ids",
			files: map[string]string{"a/I.aidl": "package a; interface I { void f() = 1; void g(); }"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadMethodID,
			want:  []string{"You must either assign id's to all methods or to none of them."},
		},
		{
			name:  "constants",
			files: map[string]string{"a/I.aidl": "package a; interface I { const int A = 1; const int A = 2; }"},
			file:  "a/I.aidl",
			code:  ErrorCodeBadConstants,
			want:  []string{"Found duplicate constant name 'A'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAndValidate(memFS(tt.files), tt.file, tt.opts...)
			le := loadError(t, err)
			assert.Equal(t, tt.code, le.Code, "code %s, error %v", le.Code, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, messages(err))
			}
		})
	}
}

func TestLoadAndValidateLanguageTypes(t *testing.T) {
	io := memFS(map[string]string{
		"a/I.aidl": "package a; interface I { List<String> f(in int[] x); const int N = 1; }",
	})
	result, err := LoadAndValidate(io, "a/I.aidl", WithLanguage(testLanguage{}))
	require.NoError(t, err)

	name, ok := result.Type.LanguageType("test")
	require.True(t, ok)
	assert.Equal(t, "T<a.I>", name)

	f := result.Type.(*Interface).Methods[0]
	ret, _ := f.ReturnType.LanguageType("test")
	assert.Equal(t, "T<List<String>>", ret)
	arg, _ := f.Arguments[0].Type.LanguageType("test")
	assert.Equal(t, "T<int[]>", arg)
}
