package aidl

import (
	"strings"

	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
)

var preprocessedLog = commonlog.GetLogger("aidl.preprocessed")

// ParsePreprocessedLine splits a line of the form "parcelable a.b.Foo;" into
// its declaration keyword, package and class name.
func ParsePreprocessedLine(line string) (decl string, pkg []string, class string, ok bool) {
	line = strings.TrimRight(line, " ;\t")
	if strings.Contains(line, ";") {
		return "", nil, "", false
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", nil, "", false
	}
	decl = fields[0]
	name := fields[1]
	if i := strings.LastIndex(name, "."); i >= 0 {
		pkg = strings.Split(name[:i], ".")
		class = name[i+1:]
	} else {
		class = name
	}
	return decl, pkg, class, true
}

// ParsePreprocessedFile reads the declarations in filename into the
// preprocessed tier of typenames.
func ParsePreprocessedFile(io IODelegate, filename string, typenames *Typenames) error {
	content, err := io.ReadFile(filename)
	if err != nil {
		return errorf(FileLocation(filename), "cannot open preprocessed file: %s", filename)
	}

	var errs error
	count := 0
	for i, line := range strings.Split(string(content), "\n") {
		lineno := i + 1
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		loc := Location{File: filename, Begin: Point{Line: lineno, Column: 1}, End: Point{Line: lineno, Column: len(line) + 1}}
		malformed := errorf(loc, "malformed preprocessed file line: '%s'", line)
		decl, pkg, class, ok := ParsePreprocessedLine(line)
		if !ok {
			errs = multierr.Append(errs, malformed)
			continue
		}

		var t DefinedType
		switch decl {
		case "parcelable":
			t = NewParcelable(loc, class, pkg, "", "")
		case "structured_parcelable":
			t = NewStructuredParcelable(loc, class, pkg, "", nil)
		case "interface":
			t = NewInterface(loc, class, "", false, nil, nil, pkg)
		default:
			errs = multierr.Append(errs, malformed)
			continue
		}
		if !typenames.AddPreprocessedType(t) {
			preprocessedLog.Warningf("%s:%d: %s is already known, ignoring", filename, lineno, t.CanonicalName())
			continue
		}
		count++
	}
	preprocessedLog.Debugf("loaded %d types from %s", count, filename)
	return errs
}
