package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dhamidi/aidl/aidl"
)

type JSONOption func(*JSONEncoder)

// WithTarget adds the target's type names, rendered values and transaction
// codes to the output.
func WithTarget(target Target) JSONOption {
	return func(e *JSONEncoder) {
		e.target = target
	}
}

// JSONEncoder writes types as JSON. With a target this is the intermediate
// representation handed to template based code emitters.
type JSONEncoder struct {
	w      io.Writer
	target Target
	types  []aidl.DefinedType
}

func NewJSONEncoder(w io.Writer, opts ...JSONOption) *JSONEncoder {
	e := &JSONEncoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *JSONEncoder) Encode(types []aidl.DefinedType) error {
	e.types = types
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonDocument{Types: make([]jsonType, 0, len(e.types))}
	if e.target != nil {
		data.Target = e.target.Name()
	}
	for _, t := range e.types {
		data.Types = append(data.Types, e.buildType(t))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonDocument struct {
	Target string     `json:"target,omitempty"`
	Types  []jsonType `json:"types"`
}

type jsonType struct {
	Kind          string         `json:"kind"`
	Name          string         `json:"name"`
	Package       string         `json:"package,omitempty"`
	CanonicalName string         `json:"canonicalName"`
	LanguageType  string         `json:"languageType,omitempty"`
	Location      string         `json:"location,omitempty"`
	Comments      string         `json:"comments,omitempty"`
	Annotations   []string       `json:"annotations,omitempty"`
	Oneway        bool           `json:"oneway,omitempty"`
	CppHeader     string         `json:"cppHeader,omitempty"`
	Methods       []jsonMethod   `json:"methods,omitempty"`
	Constants     []jsonConstant `json:"constants,omitempty"`
	Fields        []jsonField    `json:"fields,omitempty"`
}

type jsonTypeSpec struct {
	Name         string         `json:"name"`
	Text         string         `json:"text"`
	Array        bool           `json:"array,omitempty"`
	Parameters   []jsonTypeSpec `json:"parameters,omitempty"`
	Annotations  []string       `json:"annotations,omitempty"`
	LanguageType string         `json:"languageType,omitempty"`
}

type jsonMethod struct {
	Name            string         `json:"name"`
	ID              *int           `json:"id,omitempty"`
	UserDefinedID   bool           `json:"userDefinedId,omitempty"`
	TransactionCode string         `json:"transactionCode,omitempty"`
	Oneway          bool           `json:"oneway,omitempty"`
	Comments        string         `json:"comments,omitempty"`
	Signature       string         `json:"signature"`
	ReturnType      jsonTypeSpec   `json:"returnType"`
	Arguments       []jsonArgument `json:"arguments,omitempty"`
}

type jsonArgument struct {
	Name      string       `json:"name"`
	Direction string       `json:"direction"`
	Type      jsonTypeSpec `json:"type"`
}

type jsonConstant struct {
	Name     string       `json:"name"`
	Type     jsonTypeSpec `json:"type"`
	Value    string       `json:"value"`
	Rendered string       `json:"rendered,omitempty"`
}

type jsonField struct {
	Name     string       `json:"name"`
	Type     jsonTypeSpec `json:"type"`
	Default  string       `json:"default,omitempty"`
	Rendered string       `json:"rendered,omitempty"`
}

func annotationNames(list []*aidl.Annotation) []string {
	var result []string
	for _, a := range list {
		result = append(result, a.String())
	}
	return result
}

type languageTyped interface {
	LanguageType(backend string) (any, bool)
}

func (e *JSONEncoder) languageType(v languageTyped) string {
	if e.target == nil {
		return ""
	}
	if name, ok := v.LanguageType(e.target.Name()); ok {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return ""
}

func (e *JSONEncoder) buildType(t aidl.DefinedType) jsonType {
	data := jsonType{
		Kind:          t.PreprocessDeclarationName(),
		Name:          t.Name(),
		Package:       t.Package(),
		CanonicalName: t.CanonicalName(),
		LanguageType:  e.languageType(t),
		Comments:      t.Comments(),
		Annotations:   annotationNames(t.Annotations()),
	}
	if loc := t.Location(); loc.File != "" {
		data.Location = loc.String()
	}

	switch t := t.(type) {
	case *aidl.Interface:
		data.Oneway = t.Oneway
		for _, m := range t.Methods {
			data.Methods = append(data.Methods, e.buildMethod(t, m))
		}
		for _, c := range t.Constants {
			data.Constants = append(data.Constants, e.buildConstant(c))
		}
	case *aidl.Parcelable:
		data.CppHeader = t.CppHeader
	case *aidl.StructuredParcelable:
		for _, f := range t.Fields {
			data.Fields = append(data.Fields, e.buildField(f))
		}
	}
	return data
}

func (e *JSONEncoder) buildTypeSpec(t *aidl.TypeSpecifier) jsonTypeSpec {
	data := jsonTypeSpec{
		Name:         t.Name(),
		Text:         t.String(),
		Array:        t.IsArray(),
		Annotations:  annotationNames(t.Annotations()),
		LanguageType: e.languageType(t),
	}
	for _, p := range t.TypeParameters() {
		data.Parameters = append(data.Parameters, e.buildTypeSpec(p))
	}
	return data
}

func (e *JSONEncoder) buildMethod(iface *aidl.Interface, m *aidl.Method) jsonMethod {
	data := jsonMethod{
		Name:          m.Name,
		UserDefinedID: m.IsUserDefined(),
		Oneway:        m.IsOneway(iface),
		Comments:      m.Comments,
		Signature:     m.Signature(),
		ReturnType:    e.buildTypeSpec(m.ReturnType),
	}
	if m.HasID() {
		id := m.ID()
		data.ID = &id
		if e.target != nil {
			data.TransactionCode = e.target.TransactionCode(m)
		}
	}
	for _, a := range m.Arguments {
		data.Arguments = append(data.Arguments, jsonArgument{
			Name:      a.Name,
			Direction: a.Direction.String(),
			Type:      e.buildTypeSpec(a.Type),
		})
	}
	return data
}

func (e *JSONEncoder) buildConstant(c *aidl.ConstantDeclaration) jsonConstant {
	data := jsonConstant{
		Name:  c.Name,
		Type:  e.buildTypeSpec(c.Type),
		Value: c.Value.String(),
	}
	if e.target != nil {
		if rendered, err := c.ValueString(e.target.Decorate); err == nil {
			data.Rendered = rendered
		}
	}
	return data
}

func (e *JSONEncoder) buildField(f *aidl.VariableDeclaration) jsonField {
	data := jsonField{
		Name: f.Name,
		Type: e.buildTypeSpec(f.Type),
	}
	if f.DefaultValue != nil {
		data.Default = f.DefaultValue.String()
		if e.target != nil {
			if rendered, err := f.ValueString(e.target.Decorate); err == nil {
				data.Rendered = rendered
			}
		}
	}
	return data
}
