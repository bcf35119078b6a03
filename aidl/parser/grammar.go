package parser

import (
	_ "embed"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

//go:embed aidl.ebnf
var grammarSource string

// GrammarStart is the production a whole file is derived from.
const GrammarStart = "Document"

// GrammarSource returns the EBNF grammar of the language accepted by Parser.
func GrammarSource() string {
	return grammarSource
}

// Grammar parses and verifies GrammarSource.
func Grammar() (ebnf.Grammar, error) {
	return ParseGrammar("aidl.ebnf", grammarSource, GrammarStart)
}

// ParseGrammar parses an EBNF grammar and, when start is not empty, verifies
// that every production is defined and reachable from start.
func ParseGrammar(filename, src, start string) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	if start == "" {
		return grammar, nil
	}
	if err := ebnf.Verify(grammar, start); err != nil {
		return nil, err
	}
	return grammar, nil
}

// GrammarTokens returns the literal tokens used by the non-lexical
// productions of g, i.e. the keywords and punctuation of the language.
func GrammarTokens(g ebnf.Grammar) map[string]bool {
	tokens := map[string]bool{}
	var walk func(ebnf.Expression)
	walk = func(x ebnf.Expression) {
		switch x := x.(type) {
		case ebnf.Alternative:
			for _, e := range x {
				walk(e)
			}
		case ebnf.Sequence:
			for _, e := range x {
				walk(e)
			}
		case *ebnf.Group:
			walk(x.Body)
		case *ebnf.Option:
			walk(x.Body)
		case *ebnf.Repetition:
			walk(x.Body)
		case *ebnf.Token:
			tokens[x.String] = true
		}
	}
	for name, prod := range g {
		if r, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(r) {
			continue
		}
		walk(prod.Expr)
	}
	return tokens
}
