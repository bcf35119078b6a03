package aidl

import (
	"fmt"
	"strings"
)

// VariableDeclaration is a parcelable field, optionally with a default value.
type VariableDeclaration struct {
	Location     Location
	Type         *TypeSpecifier
	Name         string
	DefaultValue *ConstantValue
}

func NewVariableDeclaration(loc Location, t *TypeSpecifier, name string, defaultValue *ConstantValue) *VariableDeclaration {
	return &VariableDeclaration{Location: loc, Type: t, Name: name, DefaultValue: defaultValue}
}

func (v *VariableDeclaration) CheckValid() error {
	if err := v.Type.CheckValid(); err != nil {
		return err
	}
	if v.DefaultValue == nil {
		return nil
	}
	if err := v.DefaultValue.CheckValid(); err != nil {
		return err
	}
	_, err := v.DefaultValue.As(v.Type, IdentityDecorator)
	return err
}

// ValueString renders the default value for a backend.
func (v *VariableDeclaration) ValueString(decorate ConstantValueDecorator) (string, error) {
	if v.DefaultValue == nil {
		return "", nil
	}
	return v.DefaultValue.As(v.Type, decorate)
}

func (v *VariableDeclaration) String() string {
	s := v.Type.String() + " " + v.Name
	if v.DefaultValue != nil {
		s += " = " + v.DefaultValue.String()
	}
	return s
}

func (v *VariableDeclaration) Signature() string {
	return v.Type.Signature() + " " + v.Name
}

type Direction int

const (
	DirectionIn    Direction = 1
	DirectionOut   Direction = 2
	DirectionInOut Direction = DirectionIn | DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionInOut:
		return "inout"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

type Argument struct {
	Location           Location
	Type               *TypeSpecifier
	Name               string
	Direction          Direction
	DirectionSpecified bool
}

// NewArgument creates an argument; a zero direction means none was written
// and the argument defaults to in.
func NewArgument(loc Location, direction Direction, t *TypeSpecifier, name string) *Argument {
	a := &Argument{Location: loc, Type: t, Name: name, Direction: direction, DirectionSpecified: direction != 0}
	if !a.DirectionSpecified {
		a.Direction = DirectionIn
	}
	return a
}

func (a *Argument) IsIn() bool  { return a.Direction&DirectionIn != 0 }
func (a *Argument) IsOut() bool { return a.Direction&DirectionOut != 0 }

func (a *Argument) directionPrefix() string {
	if !a.DirectionSpecified {
		return ""
	}
	return a.Direction.String() + " "
}

func (a *Argument) String() string {
	return a.directionPrefix() + a.Type.String() + " " + a.Name
}

func (a *Argument) Signature() string {
	return a.directionPrefix() + a.Type.Signature() + " " + a.Name
}

type Method struct {
	Location   Location
	Comments   string
	Oneway     bool
	ReturnType *TypeSpecifier
	Name       string
	Arguments  []*Argument

	id          int
	hasID       bool
	userDefined bool
}

func NewMethod(loc Location, oneway bool, returnType *TypeSpecifier, name string, args []*Argument, comments string) *Method {
	return &Method{
		Location:   loc,
		Comments:   comments,
		Oneway:     oneway,
		ReturnType: returnType,
		Name:       name,
		Arguments:  args,
	}
}

// NewMethodWithID creates a method whose transaction id was written in the
// source.
func NewMethodWithID(loc Location, oneway bool, returnType *TypeSpecifier, name string, args []*Argument, comments string, id int) *Method {
	m := NewMethod(loc, oneway, returnType, name, args, comments)
	m.id = id
	m.hasID = true
	m.userDefined = true
	return m
}

// ID is the transaction id. It is only meaningful once HasID is true.
func (m *Method) ID() int             { return m.id }
func (m *Method) HasID() bool         { return m.hasID }
func (m *Method) IsUserDefined() bool { return m.userDefined }
func (m *Method) assignID(id int)     { m.id, m.hasID = id, true }

// IsOneway reports whether the method is oneway itself or through iface.
func (m *Method) IsOneway(iface *Interface) bool {
	return m.Oneway || (iface != nil && iface.Oneway)
}

// InArguments returns the in and inout arguments.
func (m *Method) InArguments() []*Argument {
	var result []*Argument
	for _, a := range m.Arguments {
		if a.IsIn() {
			result = append(result, a)
		}
	}
	return result
}

// OutArguments returns the out and inout arguments.
func (m *Method) OutArguments() []*Argument {
	var result []*Argument
	for _, a := range m.Arguments {
		if a.IsOut() {
			result = append(result, a)
		}
	}
	return result
}

// Signature identifies a method within its interface, e.g. "foo(int, String)".
func (m *Method) Signature() string {
	types := make([]string, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		types = append(types, a.Type.String())
	}
	return m.Name + "(" + strings.Join(types, ", ") + ")"
}

func (m *Method) String() string {
	args := make([]string, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		args = append(args, a.Signature())
	}
	return m.ReturnType.Signature() + " " + m.Name + "(" + strings.Join(args, ", ") + ")"
}

type ConstantDeclaration struct {
	Location Location
	Type     *TypeSpecifier
	Name     string
	Value    *ConstantValue
}

func NewConstantDeclaration(loc Location, t *TypeSpecifier, name string, value *ConstantValue) *ConstantDeclaration {
	return &ConstantDeclaration{Location: loc, Type: t, Name: name, Value: value}
}

var supportedConstantTypes = []string{"String", "int"}

func (c *ConstantDeclaration) CheckValid() error {
	if err := c.Value.CheckValid(); err != nil {
		return err
	}
	supported := false
	for _, name := range supportedConstantTypes {
		if c.Type.String() == name {
			supported = true
		}
	}
	if !supported {
		return errorf(c.Type.Location, "Constant of type %s is not supported.", c.Type.String())
	}
	_, err := c.Value.As(c.Type, IdentityDecorator)
	return err
}

func (c *ConstantDeclaration) ValueString(decorate ConstantValueDecorator) (string, error) {
	return c.Value.As(c.Type, decorate)
}

// DefinedType is one of *Interface, *Parcelable or *StructuredParcelable.
type DefinedType interface {
	Name() string
	Package() string
	SplitPackage() []string
	CanonicalName() string
	Location() Location
	Comments() string
	Annotations() []*Annotation
	AnnotationString() string
	IsNullable() bool
	IsUtf8() bool
	IsUtf8InCpp() bool
	// PreprocessDeclarationName is the keyword used for the type in
	// preprocessed files.
	PreprocessDeclarationName() string
	SetLanguageType(backend string, v any)
	LanguageType(backend string) (any, bool)

	definedType() *typeBase
}

type typeBase struct {
	Annotatable
	languageTypes

	name     string
	location Location
	comments string
	pkg      []string
}

func (t *typeBase) definedType() *typeBase { return t }

func (t *typeBase) Name() string           { return t.name }
func (t *typeBase) Location() Location     { return t.location }
func (t *typeBase) Comments() string       { return t.comments }
func (t *typeBase) SplitPackage() []string { return t.pkg }
func (t *typeBase) Package() string        { return strings.Join(t.pkg, ".") }

func (t *typeBase) CanonicalName() string {
	if len(t.pkg) == 0 {
		return t.name
	}
	return t.Package() + "." + t.name
}

type Interface struct {
	typeBase

	Oneway    bool
	Methods   []*Method
	Constants []*ConstantDeclaration
}

func NewInterface(loc Location, name, comments string, oneway bool, methods []*Method, constants []*ConstantDeclaration, pkg []string) *Interface {
	return &Interface{
		typeBase:  typeBase{name: name, location: loc, comments: comments, pkg: pkg},
		Oneway:    oneway,
		Methods:   methods,
		Constants: constants,
	}
}

func (*Interface) PreprocessDeclarationName() string { return "interface" }

// Parcelable is declared without fields; its layout lives in native code.
// Its name may be nested, e.g. "Foo.Bar".
type Parcelable struct {
	typeBase

	CppHeader string
}

func NewParcelable(loc Location, name string, pkg []string, cppHeader, comments string) *Parcelable {
	return &Parcelable{
		typeBase:  typeBase{name: name, location: loc, comments: comments, pkg: pkg},
		CppHeader: cppHeader,
	}
}

func (*Parcelable) PreprocessDeclarationName() string { return "parcelable" }

// CppName is the name with nested classes separated by "::".
func (p *Parcelable) CppName() string {
	return strings.ReplaceAll(p.name, ".", "::")
}

type StructuredParcelable struct {
	typeBase

	Fields []*VariableDeclaration
}

func NewStructuredParcelable(loc Location, name string, pkg []string, comments string, fields []*VariableDeclaration) *StructuredParcelable {
	return &StructuredParcelable{
		typeBase: typeBase{name: name, location: loc, comments: comments, pkg: pkg},
		Fields:   fields,
	}
}

func (*StructuredParcelable) PreprocessDeclarationName() string { return "structured_parcelable" }

// IsParcelable reports whether t can be marshalled into a parcel as data.
func IsParcelable(t DefinedType) bool {
	switch t.(type) {
	case *Parcelable, *StructuredParcelable:
		return true
	}
	return false
}

// Kind names the variant of t as used in diagnostics.
func Kind(t DefinedType) string {
	switch t.(type) {
	case *Interface:
		return "interface"
	case *Parcelable:
		return "parcelable"
	case *StructuredParcelable:
		return "structured parcelable"
	}
	panic(fmt.Sprintf("aidl: unexpected defined type %T", t))
}

// Document is the result of parsing one file.
type Document struct {
	Package      []string
	Imports      []*Import
	DefinedTypes []DefinedType
}

func (d *Document) PackageName() string {
	return strings.Join(d.Package, ".")
}

// Import is an import statement. Filename and Document are filled in once
// the imported class has been found and parsed.
type Import struct {
	Location    Location
	FileFrom    string
	NeededClass string
	Filename    string
	Document    *Document
}
