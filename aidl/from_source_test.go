package aidl

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func memFS(files map[string]string) IODelegate {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return FSDelegate{FS: fsys}
}

func parseSource(t *testing.T, filename, src string) (*Parser, *Document) {
	t.Helper()
	p := NewParser(memFS(map[string]string{filename: src}), NewTypenames())
	if err := p.ParseFile(filename); err != nil {
		t.Fatalf("ParseFile() = %v", err)
	}
	return p, p.Document()
}

func TestParseFileInterface(t *testing.T) {
	p, doc := parseSource(t, "a/b/IFoo.aidl", `package a.b;

import a.b.Data;

/** Does foo things. */
@utf8InCpp
interface IFoo {
    const int VERSION = 3;
    const String NAME = "foo";

    // Returns the bar.
    int bar(in String s);
    oneway void notify(in Data d, int flags) = 7;
    @nullable List<String> names(out int[] counts, inout Map m);
}
`)

	if diff := cmp.Diff([]string{"a", "b"}, doc.Package); diff != "" {
		t.Errorf("package mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Imports) != 1 || doc.Imports[0].NeededClass != "a.b.Data" || doc.Imports[0].FileFrom != "a/b/IFoo.aidl" {
		t.Errorf("imports = %+v", doc.Imports)
	}
	if len(doc.DefinedTypes) != 1 {
		t.Fatalf("types = %d, want 1", len(doc.DefinedTypes))
	}

	iface, ok := doc.DefinedTypes[0].(*Interface)
	if !ok {
		t.Fatalf("type = %T, want *Interface", doc.DefinedTypes[0])
	}
	if iface.CanonicalName() != "a.b.IFoo" {
		t.Errorf("CanonicalName() = %q", iface.CanonicalName())
	}
	if !iface.IsUtf8InCpp() {
		t.Error("interface should be @utf8InCpp")
	}
	if !strings.Contains(iface.Comments(), "Does foo things.") {
		t.Errorf("Comments() = %q", iface.Comments())
	}
	if _, ok := p.Typenames().TryGetDefinedType("a.b.IFoo"); !ok {
		t.Error("parsed type not registered")
	}

	var methods []string
	for _, m := range iface.Methods {
		methods = append(methods, m.String())
	}
	want := []string{
		"int bar(in String s)",
		"void notify(in Data d, int flags)",
		"@nullable List<String> names(out int[] counts, inout Map m)",
	}
	if diff := cmp.Diff(want, methods); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(iface.Methods[0].Comments, "Returns the bar.") {
		t.Errorf("method comments = %q", iface.Methods[0].Comments)
	}
	if m := iface.Methods[1]; !m.HasID() || m.ID() != 7 || !m.IsUserDefined() {
		t.Errorf("notify id = %d (has %v, user %v), want user-defined 7", m.ID(), m.HasID(), m.IsUserDefined())
	}
	if m := iface.Methods[0]; m.HasID() {
		t.Errorf("bar has id %d before assignment", m.ID())
	}

	names := iface.Methods[2]
	if got := len(names.InArguments()); got != 1 {
		t.Errorf("InArguments() = %d, want 1", got)
	}
	if got := len(names.OutArguments()); got != 2 {
		t.Errorf("OutArguments() = %d, want 2", got)
	}
	if got := names.Signature(); got != "names(int[], Map)" {
		t.Errorf("Signature() = %q", got)
	}

	if len(iface.Constants) != 2 || iface.Constants[1].Value.String() != `"foo"` {
		t.Errorf("constants = %+v", iface.Constants)
	}
}

func TestParseFileResolve(t *testing.T) {
	p, doc := parseSource(t, "a/b/IFoo.aidl", `package a.b;
interface IFoo {
    IFoo self();
    java.util.List<Strin> broken(in Mapp m);
}
`)
	err := p.Resolve()
	if err == nil {
		t.Fatal("Resolve() = nil, want errors")
	}
	diags := Diagnostics(err)
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %d, want 2: %v", len(diags), err)
	}
	if got := diags[0].Message; got != "Failed to resolve 'Strin'. Did you mean 'String'?" {
		t.Errorf("first diagnostic = %q", got)
	}
	if got := diags[1].Message; got != "Failed to resolve 'Mapp'. Did you mean 'Map'?" {
		t.Errorf("second diagnostic = %q", got)
	}

	iface := doc.DefinedTypes[0].(*Interface)
	if got := iface.Methods[0].ReturnType.Name(); got != "a.b.IFoo" {
		t.Errorf("self() returns %q, want a.b.IFoo", got)
	}
	if got := iface.Methods[1].ReturnType.Name(); got != "List" {
		t.Errorf("broken() returns %q, want List", got)
	}
}

func TestParseFileParcelables(t *testing.T) {
	_, doc := parseSource(t, "p/Types.aidl", `package p;
parcelable Foo.Bar cpp_header "foo/bar.h";
parcelable Point {
    int x;
    int y = 5;
    char c = 'c';
    String[] names = {"a", "b",};
}
`)
	if len(doc.DefinedTypes) != 2 {
		t.Fatalf("types = %d, want 2", len(doc.DefinedTypes))
	}
	foo := doc.DefinedTypes[0].(*Parcelable)
	if foo.Name() != "Foo.Bar" || foo.CppName() != "Foo::Bar" || foo.CppHeader != "foo/bar.h" {
		t.Errorf("parcelable = %q %q %q", foo.Name(), foo.CppName(), foo.CppHeader)
	}

	point := doc.DefinedTypes[1].(*StructuredParcelable)
	var fields []string
	for _, f := range point.Fields {
		fields = append(fields, f.String())
	}
	want := []string{"int x", "int y = 5", "char c = 'c'", `String[] names = {"a", "b"}`}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"syntax error",
			"package a;\ninterface IFoo { void foo(int a int b); }",
			[]string{"expected ',' or ')' in argument list, got 'int'"},
		},
		{
			"unknown annotation",
			"package a;\n@Nullable interface IFoo {}",
			[]string{"'Nullable' is not a recognized annotation. It must be one of: nullable utf8 utf8InCpp."},
		},
		{
			"bad char literal",
			"package a;\nparcelable P { char c = 'ab'; }",
			nil,
		},
		{
			"duplicate type",
			"package a;\nparcelable P;\nparcelable P;",
			[]string{"redefinition of type a.P"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(memFS(map[string]string{"a/P.aidl": tt.src}), NewTypenames())
			err := p.ParseFile("a/P.aidl")
			if tt.want == nil {
				// reported by validation, not by the parser
				if err != nil {
					t.Errorf("ParseFile() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ParseFile() = nil, want error")
			}
			if p.Document() != nil {
				t.Error("Document() is kept after a failed parse")
			}
			var got []string
			for _, d := range Diagnostics(err) {
				got = append(got, d.Message)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFileRedefinitionRegistersNothing(t *testing.T) {
	typenames := NewTypenames()
	typenames.AddDefinedType(NewParcelable(Location{}, "Taken", []string{"a"}, "", ""))

	io := memFS(map[string]string{"a/P.aidl": "package a;\nparcelable Fresh;\nparcelable Taken;"})
	err := NewParser(io, typenames).ParseFile("a/P.aidl")
	if err == nil || !strings.HasSuffix(err.Error(), "redefinition of type a.Taken") {
		t.Fatalf("ParseFile() = %v", err)
	}
	if _, ok := typenames.TryGetDefinedType("a.Fresh"); ok {
		t.Error("a.Fresh was registered by a failed parse")
	}
}

func TestParseFileMissing(t *testing.T) {
	p := NewParser(memFS(nil), NewTypenames())
	err := p.ParseFile("nope.aidl")
	if err == nil || !strings.Contains(err.Error(), "Error while opening file for parsing") {
		t.Errorf("ParseFile() = %v", err)
	}
}

func TestParseFileRequireSingleType(t *testing.T) {
	io := memFS(map[string]string{
		"empty.aidl": "package a;",
		"two.aidl":   "package a; parcelable A; parcelable B;",
	})
	for file, want := range map[string]string{
		"empty.aidl": "Cannot generate file without any definitions.",
		"two.aidl":   "Exactly one structured type is required to be defined.",
	} {
		err := NewParser(io, NewTypenames(), RequireSingleType()).ParseFile(file)
		if err == nil || !strings.HasSuffix(err.Error(), want) {
			t.Errorf("ParseFile(%s) = %v, want %q", file, err, want)
		}
	}
}
