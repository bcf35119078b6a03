package backend

import (
	"fmt"

	"github.com/dhamidi/aidl/aidl"
)

// Only what the NDK generator can marshal; strings, containers and arrays
// are not there yet.
var ndkTypes = map[string]string{
	"void":    "void",
	"boolean": "bool",
	"byte":    "int8_t",
	"char":    "char16_t",
	"int":     "int32_t",
	"long":    "int64_t",
	"float":   "float",
	"double":  "double",
	"IBinder": "::android::AutoAIBinder",
}

// NDK generates code against the stable binder C API.
type NDK struct{}

func (NDK) Name() string { return "ndk" }

func (NDK) ValidPackage(pkg string) bool {
	return validCppPackage(pkg)
}

func (b NDK) TypeName(t *aidl.TypeSpecifier, typenames *aidl.Typenames) (string, error) {
	if t.IsGeneric() || t.IsArray() {
		return "", unsupported(b, t)
	}
	if aidl.IsBuiltinTypename(t.Name()) {
		name, ok := ndkTypes[t.Name()]
		if !ok {
			return "", unsupported(b, t)
		}
		return name, nil
	}
	defined, ok := definedType(t, typenames)
	if !ok {
		return "", unsupported(b, t)
	}
	return b.DefinedTypeName(defined), nil
}

func (NDK) DefinedTypeName(t aidl.DefinedType) string {
	return "::aidl" + cppQualified(t.Package(), t.Name())
}

func (NDK) Decorate(_ *aidl.TypeSpecifier, raw string) string {
	return raw
}

func (NDK) TransactionCode(m *aidl.Method) string {
	return fmt.Sprintf("FIRST_CALL_TRANSACTION + %d /* %s */", m.ID(), m.Name)
}
