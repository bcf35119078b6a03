package apicheck

import (
	"bytes"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/format"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns the unified diff between the API dumps of older and newer, or
// "" when they are the same.
func Diff(older, newer []aidl.DefinedType, olderName, newerName string) (string, error) {
	var a, b bytes.Buffer
	if err := format.NewAPIEncoder(&a).Encode(older); err != nil {
		return "", err
	}
	if err := format.NewAPIEncoder(&b).Encode(newer); err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.String()),
		B:        difflib.SplitLines(b.String()),
		FromFile: olderName,
		ToFile:   newerName,
		Context:  3,
	})
}
