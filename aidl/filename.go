package aidl

import (
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/multierr"
)

// CheckFilename verifies that filename ends in the path implied by the
// package and name of t, e.g. a/b/IFoo.aidl for a.b.IFoo. Nested
// parcelables live in the file of their outermost class.
func CheckFilename(io IODelegate, filename string, t DefinedType) error {
	name := t.Name()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	expected := name + ".aidl"
	if pkg := t.SplitPackage(); len(pkg) > 0 {
		expected = filepath.Join(append(append([]string{}, pkg...), expected)...)
	}

	abs, err := io.AbsPath(filename)
	if err != nil {
		return errorf(t.Location(), "cannot determine the absolute path of %s: %v", filename, err)
	}
	abs = filepath.FromSlash(abs)
	expected = string(filepath.Separator) + expected

	matches := strings.HasSuffix(abs, expected)
	if runtime.GOOS != "linux" && !matches && len(abs) >= len(expected) {
		matches = strings.EqualFold(abs[len(abs)-len(expected):], expected)
	}
	if !matches {
		return errorf(t.Location(), "%s should be declared in a file called %s", t.CanonicalName(), strings.TrimPrefix(expected, string(filepath.Separator)))
	}
	return nil
}

// CheckFilenames runs CheckFilename for every type in doc.
func CheckFilenames(io IODelegate, filename string, doc *Document) error {
	var errs error
	for _, t := range doc.DefinedTypes {
		errs = multierr.Append(errs, CheckFilename(io, filename, t))
	}
	return errs
}
