package aidl

import (
	"fmt"
	"strconv"
	"strings"
)

type ConstantKind int

const (
	ConstantError ConstantKind = iota
	ConstantBoolean
	ConstantCharacter
	ConstantFloating
	ConstantHexadecimal
	ConstantIntegral
	ConstantString
	ConstantArray
)

// Description is the phrase used in type mismatch diagnostics.
func (k ConstantKind) Description() string {
	switch k {
	case ConstantArray:
		return "a literal array"
	case ConstantBoolean:
		return "a literal boolean"
	case ConstantCharacter:
		return "a literal char"
	case ConstantFloating:
		return "a floating-point literal"
	case ConstantHexadecimal:
		return "a hexidecimal literal"
	case ConstantIntegral:
		return "an integral literal"
	case ConstantString:
		return "a literal string"
	}
	panic(fmt.Sprintf("aidl: no description for constant kind %d", k))
}

// ConstantValueDecorator adapts a rendered literal to a backend, e.g. by
// wrapping strings or suffixing longs.
type ConstantValueDecorator func(t *TypeSpecifier, raw string) string

func IdentityDecorator(_ *TypeSpecifier, raw string) string {
	return raw
}

// ConstantValue is a literal as written in the source. Values that were
// malformed when constructed have kind ConstantError and keep their
// diagnostic until CheckValid reports it.
type ConstantValue struct {
	Location Location

	kind   ConstantKind
	value  string
	values []*ConstantValue
	err    error
}

func invalidConstant(loc Location, err error) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantError, err: err}
}

func BooleanConstant(loc Location, b bool) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantBoolean, value: strconv.FormatBool(b)}
}

func isValidLiteralChar(c byte) bool {
	return c > 0x1f && c < 0x7f && c != '\\'
}

func CharacterConstant(loc Location, c byte) *ConstantValue {
	if !isValidLiteralChar(c) {
		return invalidConstant(loc, errorf(loc, "Invalid character literal %c", c))
	}
	return &ConstantValue{Location: loc, kind: ConstantCharacter, value: "'" + string(c) + "'"}
}

func FloatingConstant(loc Location, value string) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantFloating, value: value}
}

func HexConstant(loc Location, value string) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantHexadecimal, value: value}
}

func IntegralConstant(loc Location, value string) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantIntegral, value: value}
}

// StringConstant takes the literal including its quotes.
func StringConstant(loc Location, value string) *ConstantValue {
	for i := 0; i < len(value); i++ {
		if !isValidLiteralChar(value[i]) {
			return invalidConstant(loc, errorf(loc, "Found invalid character at index %d in string constant '%s'", i, value))
		}
	}
	return &ConstantValue{Location: loc, kind: ConstantString, value: value}
}

func ArrayConstant(loc Location, values []*ConstantValue) *ConstantValue {
	return &ConstantValue{Location: loc, kind: ConstantArray, values: values}
}

func (v *ConstantValue) Kind() ConstantKind        { return v.kind }
func (v *ConstantValue) Values() []*ConstantValue { return v.values }

// Value is the literal text. Arrays have none.
func (v *ConstantValue) Value() string {
	if v.kind == ConstantError {
		panic("aidl: value of an invalid constant requested")
	}
	return v.value
}

// CheckValid reports the construction error of an invalid value, or of the
// first invalid array element.
func (v *ConstantValue) CheckValid() error {
	switch v.kind {
	case ConstantError:
		return v.err
	case ConstantArray:
		for _, element := range v.values {
			if err := element.CheckValid(); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the literal as written; arrays render as "{a, b}".
func (v *ConstantValue) String() string {
	switch v.kind {
	case ConstantError:
		return "<invalid>"
	case ConstantArray:
		parts := make([]string, 0, len(v.values))
		for _, element := range v.values {
			parts = append(parts, element.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return v.value
}

// As renders the value as a literal of type t.
func (v *ConstantValue) As(t *TypeSpecifier, decorate ConstantValueDecorator) (string, error) {
	if t.IsGeneric() {
		return "", errorf(t.Location, "Generic type cannot be specified with a constant literal.")
	}

	typeName := t.Name()
	if (v.kind == ConstantArray) != t.IsArray() {
		return "", v.mismatch(typeName)
	}

	switch v.kind {
	case ConstantArray:
		base := t.ArrayBase()
		raw := make([]string, 0, len(v.values))
		for _, element := range v.values {
			rendered, err := element.As(base, decorate)
			if err != nil {
				return "", errorf(v.Location, "Default value must be a literal array of %s.", typeName)
			}
			raw = append(raw, decorate(base, rendered))
		}
		return decorate(t, "{"+strings.Join(raw, ", ")+"}"), nil

	case ConstantBoolean:
		if typeName == "boolean" {
			return decorate(t, v.value), nil
		}

	case ConstantCharacter:
		if typeName == "char" {
			return decorate(t, v.value), nil
		}

	case ConstantFloating:
		isFloat := strings.HasSuffix(v.value, "f")
		raw := v.value
		if isFloat && len(raw) > 1 {
			raw = raw[:len(raw)-1]
		}
		switch {
		case typeName == "double":
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return "", v.parseError(typeName)
			}
			return decorate(t, fmt.Sprintf("%f", f)), nil
		case typeName == "float" && isFloat:
			f, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return "", v.parseError(typeName)
			}
			return decorate(t, fmt.Sprintf("%f", f)+"f"), nil
		}

	case ConstantHexadecimal:
		// The unsigned bit pattern is reinterpreted as signed, so 0xFF is
		// -1 as a byte.
		var bits int
		switch typeName {
		case "byte":
			bits = 8
		case "int":
			bits = 32
		case "long":
			bits = 64
		}
		if bits > 0 {
			u, err := strconv.ParseUint(v.value, 0, bits)
			if err != nil {
				return "", v.parseError(typeName)
			}
			var signed int64
			switch bits {
			case 8:
				signed = int64(int8(u))
			case 32:
				signed = int64(int32(u))
			default:
				signed = int64(u)
			}
			return decorate(t, strconv.FormatInt(signed, 10)), nil
		}

	case ConstantIntegral:
		var bits int
		switch typeName {
		case "byte":
			bits = 8
		case "int":
			bits = 32
		case "long":
			bits = 64
		}
		if bits > 0 {
			if _, err := strconv.ParseInt(v.value, 0, bits); err != nil {
				return "", v.parseError(typeName)
			}
			return decorate(t, v.value), nil
		}

	case ConstantString:
		if typeName == "String" {
			return decorate(t, v.value), nil
		}

	default:
		panic("aidl: unrecognized constant value type")
	}

	return "", v.mismatch(typeName)
}

func (v *ConstantValue) mismatch(typeName string) error {
	return errorf(v.Location, "Expecting type %s but constant is %s", typeName, v.kind.Description())
}

func (v *ConstantValue) parseError(typeName string) error {
	return errorf(v.Location, "Could not parse %s as %s", v.value, typeName)
}
