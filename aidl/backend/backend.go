// Package backend holds the code generation targets and the boundary
// between the front end and the generators.
package backend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/aidl/aidl"
)

// Backend is a target language. As an aidl.Language it names every type
// reference of a validated file; the names are attached to the AST under the
// backend's Name.
type Backend interface {
	aidl.Language
	// Decorate renders a literal for a constant or default value.
	Decorate(t *aidl.TypeSpecifier, raw string) string
	// TransactionCode is the expression for a method's transaction code.
	TransactionCode(m *aidl.Method) string
}

var backends = map[string]Backend{
	"cpp":  CPP{},
	"ndk":  NDK{},
	"java": Java{},
}

// Names lists the known backends, sorted.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Lookup(name string) (Backend, error) {
	if b, ok := backends[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("unknown language %q, must be one of: %s", name, strings.Join(Names(), ", "))
}

func unsupported(b Backend, t *aidl.TypeSpecifier) error {
	return &aidl.Diagnostic{
		Location: t.Location,
		Message:  fmt.Sprintf("'%s' is not supported by the %s backend", t.String(), b.Name()),
	}
}

// definedType looks up the declaration a resolved reference points at.
func definedType(t *aidl.TypeSpecifier, typenames *aidl.Typenames) (aidl.DefinedType, bool) {
	if aidl.IsBuiltinTypename(t.Name()) {
		return nil, false
	}
	return typenames.TryGetDefinedType(t.Name())
}

func cppQualified(parts ...string) string {
	var result strings.Builder
	for _, part := range parts {
		for _, segment := range strings.Split(part, ".") {
			if segment == "" {
				continue
			}
			result.WriteString("::" + segment)
		}
	}
	return result.String()
}
