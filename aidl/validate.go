package aidl

import (
	"fmt"

	"go.uber.org/multierr"
)

// CheckTypes runs the structural checks on a parsed and resolved type. All
// defects are collected before returning.
func CheckTypes(t DefinedType, typenames *Typenames) error {
	switch t := t.(type) {
	case *Interface:
		return checkInterface(t, typenames)
	case *StructuredParcelable:
		return checkStructuredParcelable(t, typenames)
	case *Parcelable:
		return nil
	}
	panic(fmt.Sprintf("aidl: unexpected defined type %T", t))
}

// checkKnown reports references that do not name a builtin or registered
// type, including generic parameters.
func checkKnown(t *TypeSpecifier, typenames *Typenames) error {
	var errs error
	if _, ok := typenames.ResolveTypename(t.Name()); !ok {
		errs = multierr.Append(errs, errorf(t.Location, "Failed to resolve '%s'", t.Name()))
	}
	for _, param := range t.TypeParameters() {
		errs = multierr.Append(errs, checkKnown(param, typenames))
	}
	return errs
}

func checkStructuredParcelable(p *StructuredParcelable, typenames *Typenames) error {
	var errs error
	for _, field := range p.Fields {
		if field.Type.Name() == "void" {
			errs = multierr.Append(errs, errorf(field.Location, "field '%s' cannot be of type void", field.Name))
			continue
		}
		errs = multierr.Append(errs, field.CheckValid())
		errs = multierr.Append(errs, checkKnown(field.Type, typenames))
	}
	return errs
}

func checkInterface(iface *Interface, typenames *Typenames) error {
	var errs error
	if iface.IsUtf8() && iface.IsUtf8InCpp() {
		errs = multierr.Append(errs, errorf(iface.Location(), "Interface cannot be marked as both @utf8 and @utf8InCpp"))
	}

	seen := map[string]*Method{}
	for _, m := range iface.Methods {
		errs = multierr.Append(errs, checkMethod(iface, m, typenames))

		if previous, ok := seen[m.Name]; ok {
			errs = multierr.Append(errs, errorf(m.Location, "attempt to redefine method %s:", m.Name))
			errs = multierr.Append(errs, errorf(previous.Location, "previously defined here."))
			continue
		}
		seen[m.Name] = m
	}
	return errs
}

func checkMethod(iface *Interface, m *Method, typenames *Typenames) error {
	var errs error
	oneway := m.IsOneway(iface)

	errs = multierr.Append(errs, m.ReturnType.CheckValid())
	errs = multierr.Append(errs, checkKnown(m.ReturnType, typenames))
	if oneway && m.ReturnType.Name() != "void" {
		errs = multierr.Append(errs, errorf(m.Location, "oneway method '%s' cannot return a value", m.Name))
	}

	for _, a := range m.Arguments {
		if a.Type.Name() == "void" {
			errs = multierr.Append(errs, errorf(a.Location, "argument '%s' of method '%s' cannot be of type void", a.Name, m.Name))
			continue
		}
		errs = multierr.Append(errs, a.Type.CheckValid())
		errs = multierr.Append(errs, checkKnown(a.Type, typenames))
		errs = multierr.Append(errs, checkDirection(a, typenames))
		if oneway && a.IsOut() {
			errs = multierr.Append(errs, errorf(a.Location, "oneway method '%s' cannot have out parameters", m.Name))
		}
	}
	return errs
}

// checkDirection requires a written direction for types that can be passed
// out, and forbids out for types that cannot.
func checkDirection(a *Argument, typenames *Typenames) error {
	canBeOut := typenames.CanBeOutParameter(a.Type)
	if !a.DirectionSpecified && canBeOut {
		return errorf(a.Location, "'%s' can be an out type, so you must declare it as in, out, or inout.", a.Type.String())
	}
	if a.Direction != DirectionIn && !canBeOut {
		return errorf(a.Location, "'%s' can only be an in parameter.", a.String())
	}
	return nil
}

// ValidateConstants checks the constants of an interface for duplicate names
// and values that do not match their declared type.
func ValidateConstants(iface *Interface) error {
	var errs error
	seen := map[string]bool{}
	for _, c := range iface.Constants {
		if seen[c.Name] {
			errs = multierr.Append(errs, errorf(c.Location, "Found duplicate constant name '%s'", c.Name))
		}
		seen[c.Name] = true
		errs = multierr.Append(errs, c.CheckValid())
	}
	return errs
}
