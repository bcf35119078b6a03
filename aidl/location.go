package aidl

import (
	"fmt"

	"github.com/dhamidi/aidl/aidl/parser"
)

type Point struct {
	Line   int
	Column int
}

// Location is the source range a node was parsed from.
type Location struct {
	File  string
	Begin Point
	End   Point
}

func locationOf(file string, span parser.Span) Location {
	return Location{
		File:  file,
		Begin: Point{Line: span.Start.Line, Column: span.Start.Column},
		End:   Point{Line: span.End.Line, Column: span.End.Column},
	}
}

// FileLocation is a location that only names a file.
func FileLocation(file string) Location {
	return Location{File: file}
}

// HasPosition reports whether the location carries a line number.
func (l Location) HasPosition() bool {
	return l.Begin.Line > 0
}

// String renders the location as file:line.col-[endline.]endcol.
func (l Location) String() string {
	if !l.HasPosition() {
		return l.File
	}
	s := fmt.Sprintf("%s:%d.%d-", l.File, l.Begin.Line, l.Begin.Column)
	if l.Begin.Line != l.End.Line {
		s += fmt.Sprintf("%d.", l.End.Line)
	}
	return s + fmt.Sprintf("%d", l.End.Column)
}
