package aidl

import (
	"slices"
	"strings"
)

const (
	AnnotationNullable  = "nullable"
	AnnotationUtf8      = "utf8"
	AnnotationUtf8InCpp = "utf8InCpp"
)

// AnnotationNames is the closed set of annotations, sorted.
var AnnotationNames = []string{AnnotationNullable, AnnotationUtf8, AnnotationUtf8InCpp}

type Annotation struct {
	Location Location
	Name     string
}

// ParseAnnotation checks name against the known annotations.
func ParseAnnotation(loc Location, name string) (*Annotation, error) {
	if !slices.Contains(AnnotationNames, name) {
		return nil, errorf(loc, "'%s' is not a recognized annotation. It must be one of: %s.",
			name, strings.Join(AnnotationNames, " "))
	}
	return &Annotation{Location: loc, Name: name}, nil
}

func (a *Annotation) String() string {
	return "@" + a.Name
}

// Annotatable is embedded by every node that can carry annotations.
type Annotatable struct {
	annotations []*Annotation
}

func (a *Annotatable) Annotate(annotations ...*Annotation) {
	for _, annotation := range annotations {
		if !a.HasAnnotation(annotation.Name) {
			a.annotations = append(a.annotations, annotation)
		}
	}
}

func (a *Annotatable) Annotations() []*Annotation {
	return a.annotations
}

func (a *Annotatable) HasAnnotation(name string) bool {
	for _, annotation := range a.annotations {
		if annotation.Name == name {
			return true
		}
	}
	return false
}

func (a *Annotatable) IsNullable() bool  { return a.HasAnnotation(AnnotationNullable) }
func (a *Annotatable) IsUtf8() bool      { return a.HasAnnotation(AnnotationUtf8) }
func (a *Annotatable) IsUtf8InCpp() bool { return a.HasAnnotation(AnnotationUtf8InCpp) }

// AnnotationString joins the sorted annotations with spaces, e.g.
// "@nullable @utf8InCpp".
func (a *Annotatable) AnnotationString() string {
	return JoinAnnotations(a.annotations)
}

func JoinAnnotations(list []*Annotation) string {
	names := make([]string, 0, len(list))
	for _, annotation := range list {
		names = append(names, annotation.String())
	}
	slices.Sort(names)
	return strings.Join(names, " ")
}

// SameAnnotations compares two annotation lists as sets.
func SameAnnotations(a, b []*Annotation) bool {
	names := func(list []*Annotation) []string {
		var result []string
		for _, annotation := range list {
			result = append(result, annotation.Name)
		}
		slices.Sort(result)
		return slices.Compact(result)
	}
	return slices.Equal(names(a), names(b))
}
