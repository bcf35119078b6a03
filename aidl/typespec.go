package aidl

import (
	"strings"
)

// languageTypes holds the per-backend type names attached after validation.
type languageTypes struct {
	byBackend map[string]any
}

func (l *languageTypes) SetLanguageType(backend string, v any) {
	if l.byBackend == nil {
		l.byBackend = map[string]any{}
	}
	l.byBackend[backend] = v
}

func (l *languageTypes) LanguageType(backend string) (any, bool) {
	v, ok := l.byBackend[backend]
	return v, ok
}

// TypeSpecifier is a reference to a type as written in the source. It starts
// out unresolved and is resolved once against a Typenames registry.
type TypeSpecifier struct {
	Annotatable
	languageTypes

	Location Location
	Comments string

	unresolvedName     string
	fullyQualifiedName string
	isArray            bool
	typeParams         []*TypeSpecifier
}

// NewTypeSpecifier creates an unresolved type reference. A nil typeParams
// means the type is not generic; an empty non-nil slice is a generic type
// without parameters.
func NewTypeSpecifier(loc Location, name string, isArray bool, typeParams []*TypeSpecifier, comments string) *TypeSpecifier {
	return &TypeSpecifier{
		Location:       loc,
		Comments:       comments,
		unresolvedName: name,
		isArray:        isArray,
		typeParams:     typeParams,
	}
}

// Name is the resolved name, or the name as written before resolution.
func (t *TypeSpecifier) Name() string {
	if t.IsResolved() {
		return t.fullyQualifiedName
	}
	return t.unresolvedName
}

func (t *TypeSpecifier) UnresolvedName() string { return t.unresolvedName }
func (t *TypeSpecifier) IsResolved() bool      { return t.fullyQualifiedName != "" }
func (t *TypeSpecifier) IsArray() bool         { return t.isArray }
func (t *TypeSpecifier) IsGeneric() bool       { return t.typeParams != nil }

func (t *TypeSpecifier) TypeParameters() []*TypeSpecifier {
	return t.typeParams
}

// ArrayBase returns a copy of the type with the array marker removed. It is
// only meaningful for array types.
func (t *TypeSpecifier) ArrayBase() *TypeSpecifier {
	base := &TypeSpecifier{
		Location:           t.Location,
		Comments:           t.Comments,
		unresolvedName:     t.unresolvedName,
		fullyQualifiedName: t.fullyQualifiedName,
		typeParams:         t.typeParams,
	}
	base.annotations = t.annotations
	return base
}

// Resolve looks the name up in typenames. It may succeed only once.
func (t *TypeSpecifier) Resolve(typenames *Typenames) bool {
	if t.IsResolved() {
		panic("aidl: type " + t.fullyQualifiedName + " resolved twice")
	}
	name, ok := typenames.ResolveTypename(t.unresolvedName)
	if ok {
		t.fullyQualifiedName = name
	}
	return ok
}

// String renders the type without annotations, e.g. "List<String>[]".
func (t *TypeSpecifier) String() string {
	var b strings.Builder
	b.WriteString(t.Name())
	if t.IsGeneric() {
		params := make([]string, 0, len(t.typeParams))
		for _, param := range t.typeParams {
			params = append(params, param.String())
		}
		b.WriteString("<" + strings.Join(params, ",") + ">")
	}
	if t.isArray {
		b.WriteString("[]")
	}
	return b.String()
}

// Signature is String prefixed with the sorted annotations.
func (t *TypeSpecifier) Signature() string {
	annotations := t.AnnotationString()
	if annotations == "" {
		return t.String()
	}
	return annotations + " " + t.String()
}

// CheckValid enforces the structural rules on generic types.
func (t *TypeSpecifier) CheckValid() error {
	if !t.IsGeneric() {
		return nil
	}
	switch t.Name() {
	case "List":
		if len(t.typeParams) > 1 {
			return errorf(t.Location, "List cannot have type parameters more than one, but got '%s'", t.String())
		}
	case "Map":
		if len(t.typeParams) != 0 && len(t.typeParams) != 2 {
			return errorf(t.Location, "Map must have 0 or 2 type parameters, but got '%s'", t.String())
		}
	}
	return nil
}
