package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/aidl/aidl"
)

// PreprocessedEncoder writes one "<kind> <canonical name>;" line per type,
// the format read back by aidl.ParsePreprocessedFile.
type PreprocessedEncoder struct {
	w     io.Writer
	types []aidl.DefinedType
}

func NewPreprocessedEncoder(w io.Writer) *PreprocessedEncoder {
	return &PreprocessedEncoder{w: w}
}

func (e *PreprocessedEncoder) Encode(types []aidl.DefinedType) error {
	e.types = types
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *PreprocessedEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, t := range e.types {
		fmt.Fprintf(&sb, "%s %s;\n", t.PreprocessDeclarationName(), t.CanonicalName())
	}
	return []byte(sb.String()), nil
}
