package aidl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkSource parses and resolves src and returns the messages reported by
// CheckTypes for its first type.
func checkSource(t *testing.T, src string) []string {
	t.Helper()
	p, doc := parseSource(t, "p/T.aidl", src)
	if err := p.Resolve(); err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	var got []string
	for _, d := range Diagnostics(CheckTypes(doc.DefinedTypes[0], p.Typenames())) {
		got = append(got, d.Message)
	}
	return got
}

func TestCheckTypesInterface(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"valid",
			"package p; interface I { void a(in int[] x, out List l, inout Map m, int y); int b(); }",
			nil,
		},
		{
			"oneway returning a value",
			"package p; interface I { oneway int a(); }",
			[]string{"oneway method 'a' cannot return a value"},
		},
		{
			"oneway interface returning a value",
			"package p; oneway interface I { int a(); }",
			[]string{"oneway method 'a' cannot return a value"},
		},
		{
			"oneway with out and inout arguments",
			"package p; oneway interface I { void a(out int[] x, inout List y); }",
			[]string{
				"oneway method 'a' cannot have out parameters",
				"oneway method 'a' cannot have out parameters",
			},
		},
		{
			"non-oneway with the same shapes",
			"package p; interface I { int a(out int[] x); }",
			nil,
		},
		{
			"missing direction",
			"package p; interface I { void a(int[] x); }",
			[]string{"'int[]' can be an out type, so you must declare it as in, out, or inout."},
		},
		{
			"out primitive",
			"package p; interface I { void a(out int x); }",
			[]string{"'out int x' can only be an in parameter."},
		},
		{
			"void argument",
			"package p; interface I { void a(in void x); }",
			[]string{"argument 'x' of method 'a' cannot be of type void"},
		},
		{
			"bad generic arity",
			"package p; interface I { List<String, String> a(); }",
			[]string{"List cannot have type parameters more than one, but got 'List<String,String>'"},
		},
		{
			"conflicting annotations",
			"package p; @utf8 @utf8InCpp interface I { }",
			[]string{"Interface cannot be marked as both @utf8 and @utf8InCpp"},
		},
		{
			"duplicate method",
			"package p; interface I { void a(); void b(); void a(in int x); }",
			[]string{"attempt to redefine method a:", "previously defined here."},
		},
		{
			"every defect is reported",
			"package p; oneway interface I { int a(out int x); Map<int> b(); }",
			[]string{
				"oneway method 'a' cannot return a value",
				"'out int x' can only be an in parameter.",
				"oneway method 'a' cannot have out parameters",
				"Map must have 0 or 2 type parameters, but got 'Map<int>'",
				"oneway method 'b' cannot return a value",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkSource(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckTypesStructuredParcelable(t *testing.T) {
	got := checkSource(t, `package p; parcelable P {
    int a = 3;
    byte b = 300;
    void c;
    String s = 1;
    List<String, int> l;
}`)
	want := []string{
		"Could not parse 300 as byte",
		"field 'c' cannot be of type void",
		"Expecting type String but constant is an integral literal",
		"List cannot have type parameters more than one, but got 'List<String,int>'",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateConstants(t *testing.T) {
	_, doc := parseSource(t, "p/I.aidl", `package p; interface I {
    const int A = 1;
    const int A = 2;
    const long B = 3;
    const String C = 4;
    const int D = 0xFFFFFFFF;
}`)
	var got []string
	for _, d := range Diagnostics(ValidateConstants(doc.DefinedTypes[0].(*Interface))) {
		got = append(got, d.Message)
	}
	want := []string{
		"Found duplicate constant name 'A'",
		"Constant of type long is not supported.",
		"Expecting type String but constant is an integral literal",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignMethodIDs(t *testing.T) {
	method := func(name string, id int) *Method {
		ret := typeSpec("void", false)
		if id < 0 {
			return NewMethod(Location{File: "I.aidl"}, false, ret, name, nil, "")
		}
		return NewMethodWithID(Location{File: "I.aidl"}, false, ret, name, nil, "", id)
	}

	t.Run("automatic", func(t *testing.T) {
		methods := []*Method{method("a", -1), method("b", -1), method("c", -1)}
		if err := AssignMethodIDs("I.aidl", methods); err != nil {
			t.Fatal(err)
		}
		for i, m := range methods {
			if !m.HasID() || m.ID() != i || m.IsUserDefined() {
				t.Errorf("%s: id = %d, has %v, user %v; want automatic %d", m.Name, m.ID(), m.HasID(), m.IsUserDefined(), i)
			}
		}
	})

	tests := []struct {
		name    string
		methods []*Method
		want    string
	}{
		{"explicit", []*Method{method("a", 5), method("b", 0), method("c", MaxUserSetMethodID)}, ""},
		{"mixed", []*Method{method("a", 1), method("b", -1)}, "You must either assign id's to all methods or to none of them."},
		{"mixed unassigned first", []*Method{method("a", -1), method("b", -1), method("c", 9)}, "You must either assign id's to all methods or to none of them."},
		{"duplicate", []*Method{method("a", 1), method("b", 1)}, "Found duplicate method id (1) for method b"},
		{"too large", []*Method{method("a", MaxUserSetMethodID + 1)},
			"Found out of bounds id (16777215) for method a. Value for id must be between 0 and 16777214 inclusive."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssignMethodIDs("I.aidl", tt.methods)
			if tt.want == "" {
				if err != nil {
					t.Errorf("AssignMethodIDs() = %v, want nil", err)
				}
				return
			}
			diags := Diagnostics(err)
			if len(diags) != 1 || diags[0].Message != tt.want {
				t.Errorf("AssignMethodIDs() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestAssignMethodIDsMixedLeavesMethodsUnnumbered(t *testing.T) {
	ret := typeSpec("void", false)
	methods := []*Method{
		NewMethod(Location{File: "I.aidl"}, false, ret, "a", nil, ""),
		NewMethod(Location{File: "I.aidl"}, false, ret, "b", nil, ""),
		NewMethodWithID(Location{File: "I.aidl"}, false, ret, "c", nil, "", 9),
	}
	if err := AssignMethodIDs("I.aidl", methods); err == nil {
		t.Fatal("AssignMethodIDs() = nil, want error")
	}
	for _, m := range methods[:2] {
		if m.HasID() {
			t.Errorf("%s: got id %d after failed assignment", m.Name, m.ID())
		}
	}
	if methods[2].ID() != 9 {
		t.Errorf("c: id = %d, want 9", methods[2].ID())
	}
}

func TestAssignMethodIDsNegative(t *testing.T) {
	m := NewMethodWithID(Location{File: "I.aidl"}, false, typeSpec("void", false), "a", nil, "", -1)
	err := AssignMethodIDs("I.aidl", []*Method{m})
	want := "Found out of bounds id (-1) for method a. Value for id must be between 0 and 16777214 inclusive."
	if diags := Diagnostics(err); len(diags) != 1 || diags[0].Message != want {
		t.Errorf("AssignMethodIDs() = %v, want %q", err, want)
	}
}
