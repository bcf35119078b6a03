package aidl

import (
	"strings"
	"testing"
)

func resolvedType(t *testing.T, name string, isArray bool) *TypeSpecifier {
	t.Helper()
	spec := NewTypeSpecifier(Location{File: "test.aidl"}, name, isArray, nil, "")
	if !spec.Resolve(NewTypenames()) {
		t.Fatalf("cannot resolve %s", name)
	}
	return spec
}

func TestConstantAs(t *testing.T) {
	loc := Location{File: "test.aidl", Begin: Point{1, 1}, End: Point{1, 5}}
	tests := []struct {
		name    string
		value   *ConstantValue
		typ     string
		isArray bool
		want    string
	}{
		{"boolean", BooleanConstant(loc, true), "boolean", false, "true"},
		{"char", CharacterConstant(loc, 'a'), "char", false, "'a'"},
		{"int", IntegralConstant(loc, "42"), "int", false, "42"},
		{"negative int", IntegralConstant(loc, "-7"), "int", false, "-7"},
		{"byte", IntegralConstant(loc, "127"), "byte", false, "127"},
		{"long", IntegralConstant(loc, "9223372036854775807"), "long", false, "9223372036854775807"},
		{"hex int wraps", HexConstant(loc, "0xFFFFFFFF"), "int", false, "-1"},
		{"hex byte wraps", HexConstant(loc, "0xFF"), "byte", false, "-1"},
		{"hex long wraps", HexConstant(loc, "0xFFFFFFFFFFFFFFFF"), "long", false, "-1"},
		{"hex positive", HexConstant(loc, "0x10"), "int", false, "16"},
		{"double", FloatingConstant(loc, "1.5"), "double", false, "1.500000"},
		{"double from float literal", FloatingConstant(loc, "2.5f"), "double", false, "2.500000"},
		{"float", FloatingConstant(loc, "2.5f"), "float", false, "2.500000f"},
		{"string", StringConstant(loc, `"hello"`), "String", false, `"hello"`},
		{"array", ArrayConstant(loc, []*ConstantValue{IntegralConstant(loc, "1"), HexConstant(loc, "0xFF")}), "byte", true, "{1, -1}"},
		{"empty array", ArrayConstant(loc, nil), "int", true, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.As(resolvedType(t, tt.typ, tt.isArray), IdentityDecorator)
			if err != nil {
				t.Fatalf("As() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("As() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstantAsErrors(t *testing.T) {
	loc := Location{File: "test.aidl", Begin: Point{3, 10}, End: Point{3, 14}}
	tests := []struct {
		name    string
		value   *ConstantValue
		typ     string
		isArray bool
		want    string
	}{
		{"byte overflow", IntegralConstant(loc, "128"), "byte", false, "Could not parse 128 as byte"},
		{"int overflow", IntegralConstant(loc, "4294967296"), "int", false, "Could not parse 4294967296 as int"},
		{"hex overflow", HexConstant(loc, "0x100"), "byte", false, "Could not parse 0x100 as byte"},
		{"float without suffix", FloatingConstant(loc, "1.5"), "float", false, "Expecting type float but constant is a floating-point literal"},
		{"string as int", StringConstant(loc, `"1"`), "int", false, "Expecting type int but constant is a literal string"},
		{"bool as String", BooleanConstant(loc, false), "String", false, "Expecting type String but constant is a literal boolean"},
		{"array for scalar", ArrayConstant(loc, nil), "int", false, "Expecting type int but constant is a literal array"},
		{"scalar for array", IntegralConstant(loc, "1"), "int", true, "Expecting type int but constant is an integral literal"},
		{"bad element", ArrayConstant(loc, []*ConstantValue{StringConstant(loc, `"x"`)}), "int", true, "Default value must be a literal array of int."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.As(resolvedType(t, tt.typ, tt.isArray), IdentityDecorator)
			if err == nil {
				t.Fatalf("As() = %q, want error", got)
			}
			if got != "" {
				t.Errorf("As() = %q, want empty result on error", got)
			}
			if !strings.HasSuffix(err.Error(), tt.want) {
				t.Errorf("error = %q, want suffix %q", err.Error(), tt.want)
			}
		})
	}
}

func TestConstantAsGeneric(t *testing.T) {
	spec := NewTypeSpecifier(Location{File: "test.aidl"}, "List", false, []*TypeSpecifier{}, "")
	_, err := IntegralConstant(Location{}, "1").As(spec, IdentityDecorator)
	if err == nil || !strings.Contains(err.Error(), "Generic type cannot be specified with a constant literal.") {
		t.Errorf("error = %v, want generic type error", err)
	}
}

func TestConstantDecorator(t *testing.T) {
	calls := 0
	suffix := func(t *TypeSpecifier, raw string) string {
		calls++
		if t.Name() == "long" && !t.IsArray() {
			return raw + "L"
		}
		return raw
	}
	loc := Location{File: "test.aidl"}
	value := ArrayConstant(loc, []*ConstantValue{IntegralConstant(loc, "1"), IntegralConstant(loc, "2")})
	got, err := value.As(resolvedType(t, "long", true), suffix)
	if err != nil {
		t.Fatal(err)
	}
	if want := "{1LL, 2LL}"; got != want {
		t.Errorf("As() = %q, want %q", got, want)
	}
	if calls != 5 {
		t.Errorf("decorator calls = %d, want 5", calls)
	}
}

func TestConstantValidity(t *testing.T) {
	loc := Location{File: "test.aidl", Begin: Point{1, 1}, End: Point{1, 2}}
	tests := []struct {
		name  string
		value *ConstantValue
		err   string
	}{
		{"valid char", CharacterConstant(loc, 'x'), ""},
		{"control char", CharacterConstant(loc, '\t'), "Invalid character literal"},
		{"backslash", CharacterConstant(loc, '\\'), "Invalid character literal"},
		{"del", CharacterConstant(loc, 0x7f), "Invalid character literal"},
		{"valid string", StringConstant(loc, `"abc"`), ""},
		{"string with backslash", StringConstant(loc, `"a\n"`), "Found invalid character at index 2 in string constant"},
		{"array with bad element", ArrayConstant(loc, []*ConstantValue{CharacterConstant(loc, '\\')}), "Invalid character literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.CheckValid()
			if tt.err == "" {
				if err != nil {
					t.Errorf("CheckValid() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.err) {
				t.Errorf("CheckValid() = %v, want %q", err, tt.err)
			}
		})
	}
}
