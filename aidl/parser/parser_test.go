package parser

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Node {
	t.Helper()
	p := ParseDocument(strings.NewReader(src), WithFile("test.aidl"))
	node := p.Finish()
	if node == nil {
		t.Fatalf("Finish() = nil, err = %v", p.Err())
	}
	return node
}

func TestParseInterface(t *testing.T) {
	node := parse(t, `package a.b;
import a.b.Data;
import android.os.Bundle;

@utf8InCpp
oneway interface IFoo {
    const int VERSION = 1;
    int bar(in String s, out int[] values) = 3;
    @nullable List<Map<String, Data>> baz();
}
`)
	if errs := node.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", node.String())
	}

	pkg := node.FirstChildOfKind(KindPackageDecl)
	if pkg == nil {
		t.Fatal("missing package declaration")
	}
	if got := pkg.FirstChildOfKind(KindQualifiedName).TokenLiteral(); got != "a.b" {
		t.Errorf("package = %q, want %q", got, "a.b")
	}

	imports := node.ChildrenOfKind(KindImportDecl)
	if len(imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(imports))
	}
	if got := imports[1].FirstChildOfKind(KindQualifiedName).TokenLiteral(); got != "android.os.Bundle" {
		t.Errorf("import = %q, want %q", got, "android.os.Bundle")
	}

	iface := node.FirstChildOfKind(KindInterfaceDecl)
	if iface == nil {
		t.Fatal("missing interface")
	}
	if iface.TokenLiteral() != "IFoo" {
		t.Errorf("name = %q, want IFoo", iface.TokenLiteral())
	}
	if iface.FirstChildOfKind(KindOneway) == nil {
		t.Error("interface should be oneway")
	}
	if a := iface.FirstChildOfKind(KindAnnotation); a == nil || a.TokenLiteral() != "@utf8InCpp" {
		t.Errorf("annotation = %v, want @utf8InCpp", a)
	}
	if got := len(iface.ChildrenOfKind(KindConstantDecl)); got != 1 {
		t.Errorf("constants = %d, want 1", got)
	}

	methods := iface.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(methods))
	}
	bar := methods[0]
	if id := bar.FirstChildOfKind(KindMethodID); id == nil || id.TokenLiteral() != "3" {
		t.Errorf("bar id = %v, want 3", id)
	}
	args := bar.FirstChildOfKind(KindArguments).ChildrenOfKind(KindArgument)
	if len(args) != 2 {
		t.Fatalf("bar args = %d, want 2", len(args))
	}
	if dir := args[1].FirstChildOfKind(KindDirection); dir == nil || dir.TokenLiteral() != "out" {
		t.Errorf("direction = %v, want out", dir)
	}
	if args[1].FirstChildOfKind(KindType).FirstChildOfKind(KindArrayDims) == nil {
		t.Error("values should be an array")
	}

	ret := methods[1].FirstChildOfKind(KindType)
	if ret.FirstChildOfKind(KindAnnotation) == nil {
		t.Error("baz return type should carry @nullable")
	}
	params := ret.FirstChildOfKind(KindTypeArguments).ChildrenOfKind(KindType)
	if len(params) != 1 {
		t.Fatalf("List params = %d, want 1", len(params))
	}
	inner := params[0].FirstChildOfKind(KindTypeArguments).ChildrenOfKind(KindType)
	if len(inner) != 2 {
		t.Errorf("Map params = %d, want 2", len(inner))
	}
}

func TestParseParcelables(t *testing.T) {
	node := parse(t, `package p;
parcelable Foo.Bar cpp_header "foo/bar.h";
parcelable Point {
    int x;
    int y = 5;
    String[] names = {"a", "b"};
}
`)
	if errs := node.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", node.String())
	}
	unstructured := node.FirstChildOfKind(KindParcelableDecl)
	if got := unstructured.FirstChildOfKind(KindQualifiedName).TokenLiteral(); got != "Foo.Bar" {
		t.Errorf("name = %q, want Foo.Bar", got)
	}
	if h := unstructured.FirstChildOfKind(KindCppHeader); h == nil || h.TokenLiteral() != `"foo/bar.h"` {
		t.Errorf("cpp header = %v", h)
	}

	structured := node.FirstChildOfKind(KindStructuredParcelableDecl)
	fields := structured.ChildrenOfKind(KindFieldDecl)
	if len(fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(fields))
	}
	if v := fields[1].FirstChildOfKind(KindLiteral); v == nil || v.TokenLiteral() != "5" {
		t.Errorf("default = %v, want 5", v)
	}
	arr := fields[2].FirstChildOfKind(KindArrayLiteral)
	if arr == nil || len(arr.Children) != 2 {
		t.Errorf("array literal = %v", arr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errors int
	}{
		{"missing semicolon after package", "package a.b interface IFoo {}", 1},
		{"garbage at top level", "package a; class Foo {}", 1},
		{"bad method", "interface IFoo { void (); void ok(); }", 1},
		{"bad argument list", "interface IFoo { void foo(int a int b); }", 1},
		{"missing id", "interface IFoo { void foo() = ; }", 1},
		{"unterminated interface", "interface IFoo { void foo();", 1},
		{"two bad members recover", "interface IFoo { int; void ok(); String; }", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := parse(t, tt.input)
			if got := len(node.Errors()); got != tt.errors {
				t.Errorf("errors = %d, want %d\n%s", got, tt.errors, node.String())
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	node := parse(t, "interface IFoo { void (); void ok(); }")
	iface := node.FirstChildOfKind(KindInterfaceDecl)
	methods := iface.ChildrenOfKind(KindMethodDecl)
	var names []string
	for _, m := range methods {
		names = append(names, m.TokenLiteral())
	}
	if len(names) != 2 || names[1] != "ok" {
		t.Errorf("methods = %v, want [<error> ok]", names)
	}
}

func TestParseComments(t *testing.T) {
	p := ParseDocument(strings.NewReader("/** doc */\ninterface IFoo {}\n// trailing"), WithComments())
	if p.Finish() == nil {
		t.Fatal("Finish() = nil")
	}
	if got := len(p.Comments()); got != 2 {
		t.Errorf("comments = %d, want 2", got)
	}
}
