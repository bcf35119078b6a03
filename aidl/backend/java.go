package backend

import (
	"fmt"
	"strings"

	"github.com/dhamidi/aidl/aidl"
)

var javaTypes = map[string]string{
	"void":           "void",
	"boolean":        "boolean",
	"byte":           "byte",
	"char":           "char",
	"int":            "int",
	"long":           "long",
	"float":          "float",
	"double":         "double",
	"String":         "java.lang.String",
	"CharSequence":   "java.lang.CharSequence",
	"IBinder":        "android.os.IBinder",
	"FileDescriptor": "java.io.FileDescriptor",
	"List":           "java.util.List",
	"Map":            "java.util.Map",
}

// boxed is the type used for a primitive inside a generic container.
var boxed = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// Java generates code for android.os.Binder.
type Java struct{}

func (Java) Name() string { return "java" }

func (Java) ValidPackage(string) bool { return true }

func (b Java) TypeName(t *aidl.TypeSpecifier, typenames *aidl.Typenames) (string, error) {
	name, ok := javaTypes[t.Name()]
	if !ok {
		defined, found := definedType(t, typenames)
		if !found {
			return "", unsupported(b, t)
		}
		name = b.DefinedTypeName(defined)
	}

	if t.IsGeneric() && len(t.TypeParameters()) > 0 {
		params := make([]string, 0, len(t.TypeParameters()))
		for _, p := range t.TypeParameters() {
			param, err := b.TypeName(p, typenames)
			if err != nil {
				return "", err
			}
			if box, ok := boxed[param]; ok {
				param = box
			}
			params = append(params, param)
		}
		name += "<" + strings.Join(params, ",") + ">"
	}
	if t.IsArray() {
		name += "[]"
	}
	return name, nil
}

func (Java) DefinedTypeName(t aidl.DefinedType) string {
	return t.CanonicalName()
}

// Decorate marks long literals. It leaves literals it already marked alone.
func (Java) Decorate(t *aidl.TypeSpecifier, raw string) string {
	if t.Name() == "long" && !t.IsArray() && !strings.HasSuffix(raw, "L") {
		return raw + "L"
	}
	return raw
}

func (Java) TransactionCode(m *aidl.Method) string {
	return fmt.Sprintf("android.os.IBinder.FIRST_CALL_TRANSACTION + %d", m.ID())
}
