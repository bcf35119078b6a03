package backend

import (
	"io"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/format"
)

// Input is everything a generator receives from the front end. Generators
// must not change the AST.
type Input struct {
	Type      aidl.DefinedType
	Typenames *aidl.Typenames
	Decorate  aidl.ConstantValueDecorator
}

type Generator interface {
	Generate(w io.Writer, in Input) error
}

// Load runs the front end on filename for b.
func Load(io aidl.IODelegate, filename string, b Backend, opts ...aidl.LoadOption) (Input, error) {
	loadOpts := append([]aidl.LoadOption{}, opts...)
	loadOpts = append(loadOpts, aidl.WithLanguage(b))
	result, err := aidl.LoadAndValidate(io, filename, loadOpts...)
	if err != nil {
		return Input{}, err
	}
	return Input{Type: result.Type, Typenames: result.Typenames, Decorate: b.Decorate}, nil
}

// IRGenerator writes the JSON intermediate representation of a type, with
// the backend's type names, literals and transaction codes filled in.
// Template based emitters consume it.
type IRGenerator struct {
	Backend Backend
}

func (g IRGenerator) Generate(w io.Writer, in Input) error {
	target := irTarget{Backend: g.Backend, decorate: in.Decorate}
	return format.NewJSONEncoder(w, format.WithTarget(target)).Encode([]aidl.DefinedType{in.Type})
}

type irTarget struct {
	Backend
	decorate aidl.ConstantValueDecorator
}

func (t irTarget) Decorate(spec *aidl.TypeSpecifier, raw string) string {
	if t.decorate == nil {
		return t.Backend.Decorate(spec, raw)
	}
	return t.decorate(spec, raw)
}
