package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/aidl/parser"
)

// ASTJSONEncoder writes the syntax tree of one .aidl file. Declarations
// carry their name and canonical name, type references are rendered the way
// they are written, and error nodes keep the parser's message.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	b := &astBuilder{}
	if pkg := node.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		b.pkg = qualifiedName(pkg)
	}
	return json.MarshalIndent(b.node(node), "", "  ")
}

type astJSONNode struct {
	Kind          string         `json:"kind"`
	Location      string         `json:"location,omitempty"`
	Decl          string         `json:"decl,omitempty"`
	Name          string         `json:"name,omitempty"`
	CanonicalName string         `json:"canonicalName,omitempty"`
	Type          string         `json:"type,omitempty"`
	Value         string         `json:"value,omitempty"`
	Error         *astJSONError  `json:"error,omitempty"`
	Children      []*astJSONNode `json:"children,omitempty"`
}

type astJSONError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

// Keywords written in preprocessed files, per declaration node.
var declKeywords = map[parser.NodeKind]string{
	parser.KindInterfaceDecl:            "interface",
	parser.KindParcelableDecl:           "parcelable",
	parser.KindStructuredParcelableDecl: "structured_parcelable",
}

type astBuilder struct {
	pkg string
}

func (b *astBuilder) node(n *parser.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:     n.Kind.String(),
		Location: spanLocation(n.Span),
	}

	switch n.Kind {
	case parser.KindInterfaceDecl, parser.KindStructuredParcelableDecl:
		b.declare(jn, n, n.TokenLiteral())
	case parser.KindParcelableDecl:
		b.declare(jn, n, qualifiedName(n))
	case parser.KindMethodDecl, parser.KindConstantDecl, parser.KindFieldDecl, parser.KindArgument:
		jn.Name = n.TokenLiteral()
	case parser.KindType:
		jn.Type = typeString(n)
	case parser.KindError:
		if n.Error == nil {
			break
		}
		jn.Error = &astJSONError{Message: n.Error.Message}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	default:
		jn.Value = n.TokenLiteral()
	}

	for _, child := range n.Children {
		jn.Children = append(jn.Children, b.node(child))
	}
	return jn
}

func (b *astBuilder) declare(jn *astJSONNode, n *parser.Node, name string) {
	jn.Decl = declKeywords[n.Kind]
	jn.Name = name
	if name == "" {
		return
	}
	jn.CanonicalName = name
	if b.pkg != "" {
		jn.CanonicalName = b.pkg + "." + name
	}
}

func qualifiedName(n *parser.Node) string {
	if q := n.FirstChildOfKind(parser.KindQualifiedName); q != nil {
		return q.TokenLiteral()
	}
	return ""
}

// typeString renders a type node as written, e.g. "@nullable List<String>[]".
func typeString(n *parser.Node) string {
	var sb strings.Builder
	for _, a := range n.ChildrenOfKind(parser.KindAnnotation) {
		sb.WriteString(a.TokenLiteral() + " ")
	}
	sb.WriteString(qualifiedName(n))
	if args := n.FirstChildOfKind(parser.KindTypeArguments); args != nil {
		var params []string
		for _, param := range args.ChildrenOfKind(parser.KindType) {
			params = append(params, typeString(param))
		}
		sb.WriteString("<" + strings.Join(params, ",") + ">")
	}
	if n.FirstChildOfKind(parser.KindArrayDims) != nil {
		sb.WriteString("[]")
	}
	return sb.String()
}

func spanLocation(span parser.Span) string {
	loc := aidl.Location{
		File:  span.Start.File,
		Begin: aidl.Point{Line: span.Start.Line, Column: span.Start.Column},
		End:   aidl.Point{Line: span.End.Line, Column: span.End.Column},
	}
	if !loc.HasPosition() {
		return ""
	}
	return loc.String()
}
