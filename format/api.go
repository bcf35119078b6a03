package format

import (
	"io"
	"slices"
	"sort"

	"github.com/dhamidi/aidl/aidl"
)

// APIEncoder writes the API dump of a set of types, grouped into one block
// per package. Packages and the types inside them are sorted by name.
type APIEncoder struct {
	w     io.Writer
	types []aidl.DefinedType
}

func NewAPIEncoder(w io.Writer) *APIEncoder {
	return &APIEncoder{w: w}
}

func (e *APIEncoder) Encode(types []aidl.DefinedType) error {
	e.types = types
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *APIEncoder) MarshalText() ([]byte, error) {
	byPackage := map[string][]aidl.DefinedType{}
	var packages []string
	for _, t := range e.types {
		pkg := t.Package()
		if _, ok := byPackage[pkg]; !ok {
			packages = append(packages, pkg)
		}
		byPackage[pkg] = append(byPackage[pkg], t)
	}
	slices.Sort(packages)

	cw := newCodeWriter()
	for _, pkg := range packages {
		types := byPackage[pkg]
		sort.SliceStable(types, func(i, j int) bool {
			return types[i].Name() < types[j].Name()
		})

		cw.Printf("package %s {\n", pkg)
		cw.Indent()
		for _, t := range types {
			writeAPIType(cw, t)
			cw.Printf("\n")
		}
		cw.Dedent()
		cw.Printf("}\n")
	}
	return cw.Bytes(), nil
}

func writeAPIType(cw *codeWriter, t aidl.DefinedType) {
	switch t := t.(type) {
	case *aidl.Interface:
		cw.Printf("interface %s {\n", t.Name())
		cw.Indent()
		for _, m := range t.Methods {
			cw.Printf("%s;\n", m.String())
		}
		cw.Dedent()
		cw.Printf("}\n")
	case *aidl.StructuredParcelable:
		cw.Printf("parcelable %s {\n", t.Name())
		cw.Indent()
		for _, f := range t.Fields {
			cw.Printf("%s;\n", f.Signature())
		}
		cw.Dedent()
		cw.Printf("}\n")
	case *aidl.Parcelable:
		cw.Printf("parcelable %s ;\n", t.Name())
	}
}
