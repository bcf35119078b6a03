package aidl

import (
	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
)

var loaderLog = commonlog.GetLogger("aidl.loader")

type LoadOption func(*loadOptions)

type loadOptions struct {
	importPaths  []string
	preprocessed []string
	inputFiles   []string
	structured   bool
	language     Language
}

// WithImportPaths adds directories searched for imported classes.
func WithImportPaths(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.importPaths = append(o.importPaths, dirs...)
	}
}

// WithPreprocessed adds preprocessed files loaded before parsing.
func WithPreprocessed(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.preprocessed = append(o.preprocessed, files...)
	}
}

// WithInputFiles names the other files of the invocation, which may satisfy
// imports.
func WithInputFiles(files ...string) LoadOption {
	return func(o *loadOptions) {
		o.inputFiles = append(o.inputFiles, files...)
	}
}

// WithStructured rejects unstructured parcelables anywhere among the known
// types.
func WithStructured(structured bool) LoadOption {
	return func(o *loadOptions) {
		o.structured = structured
	}
}

// WithLanguage selects the backend whose package rules apply and whose type
// names are attached to the result.
func WithLanguage(lang Language) LoadOption {
	return func(o *loadOptions) {
		o.language = lang
	}
}

// Result is a loaded and validated file.
type Result struct {
	Type      DefinedType
	Document  *Document
	Typenames *Typenames
}

func (r *Result) Imports() []*Import {
	return r.Document.Imports
}

// LoadAndValidate parses filename together with everything it imports and
// runs every check on it. On failure the returned *LoadError names the phase
// that failed and holds all of its diagnostics.
func LoadAndValidate(io IODelegate, filename string, opts ...LoadOption) (*Result, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	fail := func(code ErrorCode, err error) (*Result, error) {
		return nil, &LoadError{Code: code, File: filename, Err: err}
	}

	typenames := NewTypenames()
	var errs error
	for _, file := range o.preprocessed {
		errs = multierr.Append(errs, ParsePreprocessedFile(io, file, typenames))
	}
	if errs != nil {
		return fail(ErrorCodeBadPreprocessedFile, errs)
	}

	p := NewParser(io, typenames)
	loaderLog.Infof("loading %s", filename)
	if err := p.ParseFile(filename); err != nil {
		return fail(ErrorCodeParseError, err)
	}
	doc := p.Document()

	if len(doc.DefinedTypes) == 0 {
		return fail(ErrorCodeBadType, errorf(FileLocation(filename), "Cannot generate file without any definitions."))
	}
	unstructured := 0
	for _, t := range doc.DefinedTypes {
		if _, ok := t.(*Parcelable); ok {
			unstructured++
		}
	}
	if unstructured == len(doc.DefinedTypes) {
		return fail(ErrorCodeFoundParcelable, errorf(FileLocation(filename), "Refusing to generate code with unstructured parcelables."))
	}
	if len(doc.DefinedTypes) != 1 {
		return fail(ErrorCodeBadType, errorf(FileLocation(filename), "Exactly one structured type is required to be defined."))
	}
	t := doc.DefinedTypes[0]

	if err := CheckFilename(io, filename, t); err != nil {
		errs = multierr.Append(errs, err)
	}
	if o.language != nil && !o.language.ValidPackage(doc.PackageName()) {
		errs = multierr.Append(errs, errorf(t.Location(), "Invalid package declaration '%s'", doc.PackageName()))
	}
	if errs != nil {
		return fail(ErrorCodeBadPackage, errs)
	}

	if err := loadImports(io, doc, typenames, &o); err != nil {
		return fail(ErrorCodeBadImport, err)
	}

	if err := p.Resolve(); err != nil {
		return fail(ErrorCodeBadType, err)
	}

	errs = CheckTypes(t, typenames)
	if errs == nil && o.language != nil {
		errs = tagLanguageTypes(o.language, t, typenames)
	}
	if errs != nil {
		return fail(ErrorCodeBadType, errs)
	}

	if o.structured {
		typenames.IterateTypes(func(known DefinedType) {
			if _, ok := known.(*Parcelable); ok {
				errs = multierr.Append(errs, errorf(known.Location(),
					"%s is not structured, but this is a structured interface.", known.CanonicalName()))
			}
		})
		if errs != nil {
			return fail(ErrorCodeBadType, errs)
		}
	}

	if iface, ok := t.(*Interface); ok {
		if err := AssignMethodIDs(filename, iface.Methods); err != nil {
			return fail(ErrorCodeBadMethodID, err)
		}
		if err := ValidateConstants(iface); err != nil {
			return fail(ErrorCodeBadConstants, err)
		}
	}

	return &Result{Type: t, Document: doc, Typenames: typenames}, nil
}

// loadImports parses every import that is not already known, each with a
// registry of its own, and merges the types it defines into typenames. It
// keeps going after a failing import so that all of them are reported.
func loadImports(io IODelegate, doc *Document, typenames *Typenames, o *loadOptions) error {
	resolver := NewImportResolver(io, o.importPaths, o.inputFiles)
	var errs error
	for _, imp := range doc.Imports {
		if _, ok := typenames.TryGetDefinedType(imp.NeededClass); ok {
			loaderLog.Debugf("%s is already known, skipping import", imp.NeededClass)
			continue
		}

		path, err := resolver.FindImportFile(imp.NeededClass)
		if err != nil {
			errs = multierr.Append(errs, errorf(imp.Location, "%s", err.Error()))
			continue
		}
		if path == "" {
			errs = multierr.Append(errs, errorf(imp.Location, "couldn't find import for class %s", imp.NeededClass))
			continue
		}
		imp.Filename = path
		loaderLog.Debugf("importing %s from %s", imp.NeededClass, path)

		ip := NewParser(io, NewTypenames())
		if err := ip.ParseFile(path); err != nil {
			errs = multierr.Append(errs, err)
			errs = multierr.Append(errs, errorf(imp.Location, "error while parsing import for class %s", imp.NeededClass))
			continue
		}
		if err := CheckFilenames(io, path, ip.Document()); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		imp.Document = ip.Document()
		for _, imported := range imp.Document.DefinedTypes {
			if !typenames.AddDefinedType(imported) {
				errs = multierr.Append(errs, errorf(imp.Location, "%s is defined more than once", imported.CanonicalName()))
			}
		}
	}
	return errs
}
