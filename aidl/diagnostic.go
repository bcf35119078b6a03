package aidl

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Diagnostic is a single defect in the input, attached to where it was found.
type Diagnostic struct {
	Location Location
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Location.File == "" {
		return d.Message
	}
	return d.Location.String() + ": " + d.Message
}

func errorf(loc Location, format string, args ...any) error {
	return &Diagnostic{Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Diagnostics flattens err into its individual diagnostics, looking inside
// every *LoadError. Errors that are not diagnostics are wrapped in one
// without a location.
func Diagnostics(err error) []*Diagnostic {
	var result []*Diagnostic
	for _, e := range multierr.Errors(err) {
		var le *LoadError
		if errors.As(e, &le) {
			result = append(result, Diagnostics(le.Err)...)
			continue
		}
		var d *Diagnostic
		if errors.As(e, &d) {
			result = append(result, d)
		} else {
			result = append(result, &Diagnostic{Message: e.Error()})
		}
	}
	return result
}

type ErrorCode int

const (
	ErrorCodeOK ErrorCode = iota
	ErrorCodeBadPreprocessedFile
	ErrorCodeParseError
	ErrorCodeBadType
	ErrorCodeFoundParcelable
	ErrorCodeBadPackage
	ErrorCodeBadImport
	ErrorCodeBadMethodID
	ErrorCodeBadConstants
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCodeOK:                  "ok",
	ErrorCodeBadPreprocessedFile: "bad preprocessed file",
	ErrorCodeParseError:          "parse error",
	ErrorCodeBadType:             "bad type",
	ErrorCodeFoundParcelable:     "found parcelable",
	ErrorCodeBadPackage:          "bad package",
	ErrorCodeBadImport:           "bad import",
	ErrorCodeBadMethodID:         "bad method id",
	ErrorCodeBadConstants:        "bad constants",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// LoadError is returned by LoadAndValidate. Err holds every diagnostic of the
// phase that failed.
type LoadError struct {
	Code ErrorCode
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Code, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
