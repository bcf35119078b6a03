// Package apicheck decides whether a new version of an API can replace an
// old one without breaking clients built against the old version.
package apicheck

import (
	"fmt"
	"sort"

	"github.com/dhamidi/aidl/aidl"
	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
)

var log = commonlog.GetLogger("aidl.apicheck")

func incompatible(loc aidl.Location, format string, args ...any) error {
	return &aidl.Diagnostic{Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Check compares every type of older with the type of the same canonical
// name in newer. It returns nil when newer is compatible, otherwise one
// *aidl.Diagnostic per incompatibility, combined with multierr. Types only
// present in newer are always compatible.
func Check(older, newer []aidl.DefinedType) error {
	newTypes := make(map[string]aidl.DefinedType, len(newer))
	for _, t := range newer {
		newTypes[t.CanonicalName()] = t
	}

	older = sortedByName(older)
	var errs error
	for _, oldType := range older {
		newType, ok := newTypes[oldType.CanonicalName()]
		if !ok {
			errs = multierr.Append(errs, incompatible(oldType.Location(), "Removed type: %s", oldType.CanonicalName()))
			continue
		}
		if oldType.PreprocessDeclarationName() != newType.PreprocessDeclarationName() {
			errs = multierr.Append(errs, incompatible(newType.Location(), "Type mismatch: %s is changed from %s to %s",
				oldType.CanonicalName(), oldType.PreprocessDeclarationName(), newType.PreprocessDeclarationName()))
			continue
		}

		log.Debugf("checking %s", oldType.CanonicalName())
		switch oldType := oldType.(type) {
		case *aidl.Interface:
			errs = multierr.Append(errs, checkInterface(oldType, newType.(*aidl.Interface)))
		case *aidl.StructuredParcelable:
			errs = multierr.Append(errs, checkStructuredParcelable(oldType, newType.(*aidl.StructuredParcelable)))
		case *aidl.Parcelable:
			// Opaque: nothing but the name can be compared.
		}
	}
	return errs
}

func sortedByName(types []aidl.DefinedType) []aidl.DefinedType {
	sorted := append([]aidl.DefinedType(nil), types...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CanonicalName() < sorted[j].CanonicalName()
	})
	return sorted
}

func orEmpty(annotations string) string {
	if annotations == "" {
		return "(empty)"
	}
	return annotations
}

func checkAnnotations(loc aidl.Location, older, newer []*aidl.Annotation) error {
	if aidl.SameAnnotations(older, newer) {
		return nil
	}
	return incompatible(loc, "Changed annotations: %s to %s",
		orEmpty(aidl.JoinAnnotations(older)), orEmpty(aidl.JoinAnnotations(newer)))
}

func checkType(older, newer *aidl.TypeSpecifier) error {
	var errs error
	if older.String() != newer.String() {
		errs = multierr.Append(errs, incompatible(newer.Location, "Type changed: %s to %s.", older.String(), newer.String()))
	}
	return multierr.Append(errs, checkAnnotations(newer.Location, older.Annotations(), newer.Annotations()))
}

func checkInterface(older, newer *aidl.Interface) error {
	errs := checkAnnotations(newer.Location(), older.Annotations(), newer.Annotations())

	newMethods := make(map[string]*aidl.Method, len(newer.Methods))
	for _, m := range newer.Methods {
		newMethods[m.Signature()] = m
	}

	for _, oldMethod := range older.Methods {
		newMethod, ok := newMethods[oldMethod.Signature()]
		if !ok {
			errs = multierr.Append(errs, incompatible(oldMethod.Location, "Removed method: %s.%s",
				older.CanonicalName(), oldMethod.Signature()))
			continue
		}

		// IDs follow declaration order unless assigned, so a changed ID
		// means the methods were reordered or renumbered.
		if oldMethod.ID() != newMethod.ID() {
			errs = multierr.Append(errs, incompatible(newMethod.Location, "Transaction ID changed: %s.%s is changed from %d to %d.",
				older.CanonicalName(), oldMethod.Signature(), oldMethod.ID(), newMethod.ID()))
		}

		errs = multierr.Append(errs, checkType(oldMethod.ReturnType, newMethod.ReturnType))

		// equal signatures have the same number of arguments
		for i, oldArg := range oldMethod.Arguments {
			newArg := newMethod.Arguments[i]
			errs = multierr.Append(errs, checkType(oldArg.Type, newArg.Type))
			if oldArg.Direction != newArg.Direction {
				errs = multierr.Append(errs, incompatible(newMethod.Location, "Direction changed: %s to %s.",
					oldArg.Direction, newArg.Direction))
			}
		}
	}
	return errs
}

// Fields may only be appended, and existing fields keep their names.
func checkStructuredParcelable(older, newer *aidl.StructuredParcelable) error {
	if len(older.Fields) > len(newer.Fields) {
		return incompatible(newer.Location(), "Number of fields in %s is reduced from %d to %d.",
			older.CanonicalName(), len(older.Fields), len(newer.Fields))
	}

	var errs error
	for i, oldField := range older.Fields {
		newField := newer.Fields[i]
		errs = multierr.Append(errs, checkType(oldField.Type, newField.Type))
		if oldField.Name != newField.Name {
			errs = multierr.Append(errs, incompatible(newer.Location(), "Renamed field: %s to %s.", oldField.Name, newField.Name))
		}
	}
	return errs
}
