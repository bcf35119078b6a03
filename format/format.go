package format

import (
	"encoding"

	"github.com/dhamidi/aidl/aidl"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(types []aidl.DefinedType) error
}

// Target is the code generation backend whose spelling of types and values
// the JSON encoder includes.
type Target interface {
	Name() string
	Decorate(t *aidl.TypeSpecifier, raw string) string
	TransactionCode(m *aidl.Method) string
}

var (
	_ Encoder = (*APIEncoder)(nil)
	_ Encoder = (*PreprocessedEncoder)(nil)
	_ Encoder = (*JSONEncoder)(nil)
	_ Encoder = (*PrettyEncoder)(nil)
)
