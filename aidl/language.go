package aidl

import (
	"go.uber.org/multierr"
)

// Language is the part of a code generation backend the loader needs: which
// packages it accepts and how it names types.
type Language interface {
	Name() string
	ValidPackage(pkg string) bool
	// TypeName returns the backend's spelling of a resolved type reference.
	TypeName(t *TypeSpecifier, typenames *Typenames) (string, error)
	DefinedTypeName(t DefinedType) string
}

// tagLanguageTypes attaches the language's type names to t and every type
// reference inside it.
func tagLanguageTypes(lang Language, t DefinedType, typenames *Typenames) error {
	var errs error
	tag := func(spec *TypeSpecifier) {
		name, err := lang.TypeName(spec, typenames)
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		spec.SetLanguageType(lang.Name(), name)
	}

	t.SetLanguageType(lang.Name(), lang.DefinedTypeName(t))
	switch t := t.(type) {
	case *Interface:
		for _, m := range t.Methods {
			tag(m.ReturnType)
			for _, a := range m.Arguments {
				tag(a.Type)
			}
		}
		for _, c := range t.Constants {
			tag(c.Type)
		}
	case *StructuredParcelable:
		for _, f := range t.Fields {
			tag(f.Type)
		}
	}
	return errs
}
