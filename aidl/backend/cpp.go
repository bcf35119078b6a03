package backend

import (
	"fmt"
	"strings"

	"github.com/dhamidi/aidl/aidl"
)

var cppTypes = map[string]string{
	"void":           "void",
	"boolean":        "bool",
	"byte":           "int8_t",
	"char":           "char16_t",
	"int":            "int32_t",
	"long":           "int64_t",
	"float":          "float",
	"double":         "double",
	"String":         "::android::String16",
	"IBinder":        "::android::sp<::android::IBinder>",
	"FileDescriptor": "::android::base::unique_fd",
}

var cppKeywords = map[string]bool{}

func init() {
	for _, kw := range strings.Fields(`alignas alignof and and_eq asm auto bitand bitor bool break
		case catch char char16_t char32_t class compl concept const const_cast constexpr continue
		decltype default delete do double dynamic_cast else enum explicit export extern false float
		for friend goto if inline int long mutable namespace new noexcept not not_eq nullptr operator
		or or_eq private protected public register reinterpret_cast requires return short signed
		sizeof static static_assert static_cast struct switch template this thread_local throw true
		try typedef typeid typename union unsigned using virtual void volatile wchar_t while xor
		xor_eq`) {
		cppKeywords[kw] = true
	}
}

// CPP generates code against libbinder.
type CPP struct{}

func (CPP) Name() string { return "cpp" }

// ValidPackage rejects packages that cannot be C++ namespaces.
func (CPP) ValidPackage(pkg string) bool {
	return validCppPackage(pkg)
}

func validCppPackage(pkg string) bool {
	if pkg == "" {
		return false
	}
	for _, segment := range strings.Split(pkg, ".") {
		if segment == "" || cppKeywords[segment] {
			return false
		}
	}
	return true
}

func (b CPP) TypeName(t *aidl.TypeSpecifier, typenames *aidl.Typenames) (string, error) {
	name, err := b.baseName(t, typenames)
	if err != nil {
		return "", err
	}
	if t.IsArray() {
		name = "::std::vector<" + name + ">"
	}
	if t.IsNullable() && (t.IsArray() || t.Name() == "String" || t.Name() == "List") {
		name = "::std::unique_ptr<" + name + ">"
	}
	return name, nil
}

func (b CPP) baseName(t *aidl.TypeSpecifier, typenames *aidl.Typenames) (string, error) {
	switch t.Name() {
	case "List":
		params := t.TypeParameters()
		if len(params) != 1 {
			return "", unsupported(b, t)
		}
		inner, err := b.TypeName(params[0], typenames)
		if err != nil {
			return "", err
		}
		return "::std::vector<" + inner + ">", nil
	case "String":
		if t.IsUtf8InCpp() {
			return "::std::string", nil
		}
	}
	if name, ok := cppTypes[t.Name()]; ok {
		return name, nil
	}

	defined, ok := definedType(t, typenames)
	if !ok {
		return "", unsupported(b, t)
	}
	if _, ok := defined.(*aidl.Interface); ok {
		return "::android::sp<" + b.DefinedTypeName(defined) + ">", nil
	}
	return b.DefinedTypeName(defined), nil
}

func (CPP) DefinedTypeName(t aidl.DefinedType) string {
	return cppQualified(t.Package(), t.Name())
}

// Decorate wraps string literals in String16 unless they are kept as UTF-8.
// It leaves literals it already wrapped alone.
func (CPP) Decorate(t *aidl.TypeSpecifier, raw string) string {
	const wrapper = "::android::String16("
	if t.Name() == "String" && !t.IsArray() && !t.IsUtf8InCpp() && !strings.HasPrefix(raw, wrapper) {
		return wrapper + raw + ")"
	}
	return raw
}

func (CPP) TransactionCode(m *aidl.Method) string {
	var code strings.Builder
	if m.IsUserDefined() {
		code.WriteString("::android::IBinder::FIRST_CALL_TRANSACTION + ")
	}
	fmt.Fprintf(&code, "%d /* %s */", m.ID(), m.Name)
	return code.String()
}
