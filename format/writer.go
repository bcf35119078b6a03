package format

import (
	"fmt"
	"strings"
)

// codeWriter indents every line by two spaces per level. Empty lines are
// written without indentation.
type codeWriter struct {
	sb          strings.Builder
	indent      int
	startOfLine bool
}

func newCodeWriter() *codeWriter {
	return &codeWriter{startOfLine: true}
}

func (w *codeWriter) Indent() { w.indent++ }

func (w *codeWriter) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *codeWriter) Printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	for text != "" {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line = text[:i+1]
		}
		text = text[len(line):]

		if w.startOfLine && line != "\n" {
			w.sb.WriteString(strings.Repeat("  ", w.indent))
		}
		w.sb.WriteString(line)
		w.startOfLine = strings.HasSuffix(line, "\n")
	}
}

func (w *codeWriter) Bytes() []byte {
	return []byte(w.sb.String())
}
