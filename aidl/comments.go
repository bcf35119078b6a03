package aidl

import (
	"sort"
	"strings"

	"github.com/dhamidi/aidl/aidl/parser"
)

// commentFinder attaches the comments written directly above a declaration
// to it. Every comment is attached at most once.
type commentFinder struct {
	comments []parser.Token
	used     map[int]bool
}

func newCommentFinder(comments []parser.Token) *commentFinder {
	sorted := append([]parser.Token(nil), comments...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset < sorted[j].Span.Start.Offset
	})
	return &commentFinder{comments: sorted, used: map[int]bool{}}
}

// precedes reports whether comment c ends right before pos: on the line above
// or earlier on the same line.
func precedes(c parser.Token, pos parser.Position) bool {
	end := c.Span.End
	if c.Kind == parser.TokenLineComment {
		// line comments run to the end of their line
		return end.Line == pos.Line-1
	}
	if end.Line == pos.Line {
		return end.Column <= pos.Column
	}
	return end.Line == pos.Line-1
}

func (cf *commentFinder) FindForNode(node *parser.Node) string {
	if cf == nil || len(cf.comments) == 0 {
		return ""
	}
	pos := node.Span.Start

	last := -1
	for i, c := range cf.comments {
		if c.Span.Start.Offset >= pos.Offset {
			break
		}
		if !cf.used[i] && precedes(c, pos) {
			last = i
		}
	}
	if last < 0 {
		return ""
	}

	first := last
	for first > 0 && !cf.used[first-1] && precedes(cf.comments[first-1], cf.comments[first].Span.Start) {
		first--
	}

	var parts []string
	for i := first; i <= last; i++ {
		cf.used[i] = true
		parts = append(parts, cf.comments[i].Literal)
	}
	return strings.Join(parts, "\n")
}
