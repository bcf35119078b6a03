package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/aidl/aidl"
	"github.com/kr/pretty"
)

// PrettyEncoder dumps the Go values of the AST, for debugging the parser.
type PrettyEncoder struct {
	w     io.Writer
	types []aidl.DefinedType
}

func NewPrettyEncoder(w io.Writer) *PrettyEncoder {
	return &PrettyEncoder{w: w}
}

func (e *PrettyEncoder) Encode(types []aidl.DefinedType) error {
	e.types = types
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *PrettyEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, t := range e.types {
		fmt.Fprintf(&sb, "%# v\n", pretty.Formatter(t))
	}
	return []byte(sb.String()), nil
}
