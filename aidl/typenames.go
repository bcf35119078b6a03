package aidl

import (
	"maps"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

var builtinTypenames = map[string]bool{
	"boolean":        true,
	"byte":           true,
	"char":           true,
	"CharSequence":   true,
	"double":         true,
	"FileDescriptor": true,
	"float":          true,
	"IBinder":        true,
	"int":            true,
	"List":           true,
	"long":           true,
	"Map":            true,
	"String":         true,
	"void":           true,
}

// Fully qualified names that are accepted for builtin types.
var builtinAliases = map[string]string{
	"java.util.List": "List",
	"java.util.Map":  "Map",
}

func IsBuiltinTypename(name string) bool {
	_, aliased := builtinAliases[name]
	return builtinTypenames[name] || aliased
}

// BuiltinTypenames returns the builtin type names, sorted.
func BuiltinTypenames() []string {
	return slices.Sorted(maps.Keys(builtinTypenames))
}

// Typenames is the registry of every type known to a compilation: types
// defined by parsed sources and types read from preprocessed files. Defined
// types are looked up before preprocessed ones.
type Typenames struct {
	defined      map[string]DefinedType
	preprocessed map[string]DefinedType
}

func NewTypenames() *Typenames {
	return &Typenames{
		defined:      map[string]DefinedType{},
		preprocessed: map[string]DefinedType{},
	}
}

func (tn *Typenames) add(tier map[string]DefinedType, t DefinedType) bool {
	name := t.CanonicalName()
	if _, found := tier[name]; found {
		return false
	}
	tier[name] = t
	return true
}

// addDefinedTypes registers all of types, or none of them when any name is
// taken or repeated. It returns the rejected types.
func (tn *Typenames) addDefinedTypes(types []DefinedType) []DefinedType {
	var rejected []DefinedType
	seen := map[string]bool{}
	for _, t := range types {
		name := t.CanonicalName()
		if _, found := tn.defined[name]; found || seen[name] {
			rejected = append(rejected, t)
		}
		seen[name] = true
	}
	if len(rejected) > 0 {
		return rejected
	}
	for _, t := range types {
		tn.defined[t.CanonicalName()] = t
	}
	return nil
}

// AddDefinedType registers t and reports false when its canonical name is
// already taken by another defined type.
func (tn *Typenames) AddDefinedType(t DefinedType) bool {
	return tn.add(tn.defined, t)
}

func (tn *Typenames) AddPreprocessedType(t DefinedType) bool {
	return tn.add(tn.preprocessed, t)
}

// TryGetDefinedType looks name up by canonical name first and then, in
// sorted order, by simple name.
func (tn *Typenames) TryGetDefinedType(name string) (DefinedType, bool) {
	for _, tier := range []map[string]DefinedType{tn.defined, tn.preprocessed} {
		if t, ok := tier[name]; ok {
			return t, true
		}
	}
	for _, tier := range []map[string]DefinedType{tn.defined, tn.preprocessed} {
		for _, key := range slices.Sorted(maps.Keys(tier)) {
			if tier[key].Name() == name {
				return tier[key], true
			}
		}
	}
	return nil, false
}

// ResolveTypename maps a name as written to its canonical name.
func (tn *Typenames) ResolveTypename(name string) (string, bool) {
	if alias, ok := builtinAliases[name]; ok {
		return alias, true
	}
	if IsBuiltinTypename(name) {
		return name, true
	}
	if t, ok := tn.TryGetDefinedType(name); ok {
		return t.CanonicalName(), true
	}
	return "", false
}

// CanBeOutParameter reports whether t may be used as an out or inout
// argument: arrays, List, Map and parcelables.
func (tn *Typenames) CanBeOutParameter(t *TypeSpecifier) bool {
	if t.IsArray() {
		return true
	}
	name := t.Name()
	if name == "List" || name == "Map" {
		return true
	}
	if defined, ok := tn.TryGetDefinedType(name); ok {
		return IsParcelable(defined)
	}
	return false
}

// IterateTypes calls fn for every registered type, defined types first,
// each tier in canonical name order.
func (tn *Typenames) IterateTypes(fn func(DefinedType)) {
	for _, tier := range []map[string]DefinedType{tn.defined, tn.preprocessed} {
		for _, key := range slices.Sorted(maps.Keys(tier)) {
			fn(tier[key])
		}
	}
}

func (tn *Typenames) DefinedTypes() []DefinedType {
	return collectSorted(tn.defined)
}

func (tn *Typenames) PreprocessedTypes() []DefinedType {
	return collectSorted(tn.preprocessed)
}

func collectSorted(tier map[string]DefinedType) []DefinedType {
	result := make([]DefinedType, 0, len(tier))
	for _, key := range slices.Sorted(maps.Keys(tier)) {
		result = append(result, tier[key])
	}
	return result
}

// Suggest returns the known name closest to name, if any is close enough to
// be a plausible typo.
func (tn *Typenames) Suggest(name string) (string, bool) {
	candidates := BuiltinTypenames()
	tn.IterateTypes(func(t DefinedType) {
		candidates = append(candidates, t.Name(), t.CanonicalName())
	})

	best, bestDistance := "", -1
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	limit := max(1, len(name)/3)
	if bestDistance < 0 || bestDistance > limit {
		return "", false
	}
	return best, true
}
