package aidl

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/aidl/aidl/parser"
	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
)

var parserLog = commonlog.GetLogger("aidl.parser")

type ParserOption func(*Parser)

// RequireSingleType makes ParseFile fail unless the file defines exactly one
// type.
func RequireSingleType() ParserOption {
	return func(p *Parser) {
		p.requireSingle = true
	}
}

// Parser turns one source file into a Document and registers its types with
// a Typenames registry. Type references are collected while parsing and
// resolved together by Resolve, once every type they may refer to is known.
type Parser struct {
	io            IODelegate
	typenames     *Typenames
	requireSingle bool

	filename   string
	document   *Document
	unresolved []*TypeSpecifier
}

func NewParser(io IODelegate, typenames *Typenames, opts ...ParserOption) *Parser {
	p := &Parser{io: io, typenames: typenames}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) FileName() string      { return p.filename }
func (p *Parser) Typenames() *Typenames { return p.typenames }
func (p *Parser) Document() *Document   { return p.document }

func (p *Parser) Package() []string {
	if p.document == nil {
		return nil
	}
	return p.document.Package
}

func (p *Parser) Imports() []*Import {
	if p.document == nil {
		return nil
	}
	return p.document.Imports
}

// DeferResolution queues t for the next call to Resolve.
func (p *Parser) DeferResolution(t *TypeSpecifier) {
	p.unresolved = append(p.unresolved, t)
}

// ParseFile parses filename, discarding the result of any previous call. On
// failure no document is kept and every syntax error is returned.
func (p *Parser) ParseFile(filename string) error {
	p.filename = filename
	p.document = nil
	p.unresolved = nil
	defer func() {
		if p.document == nil {
			p.unresolved = nil
		}
	}()

	content, err := p.io.ReadFile(filename)
	if err != nil {
		return errorf(FileLocation(filename), "Error while opening file for parsing: %v", err)
	}
	parserLog.Debugf("parsing %s (%d bytes)", filename, len(content))

	cst := parser.ParseDocument(bytes.NewReader(content), parser.WithFile(filename), parser.WithComments())
	root := cst.Finish()
	if root == nil {
		return errorf(FileLocation(filename), "Error while reading file: %v", cst.Err())
	}

	var errs error
	for _, bad := range root.Errors() {
		errs = multierr.Append(errs, errorf(locationOf(filename, bad.Span), "%s", bad.Error.Message))
	}
	if errs != nil {
		return errs
	}

	b := &builder{parser: p, file: filename, comments: newCommentFinder(cst.Comments())}
	doc := b.document(root)
	if b.errs != nil {
		return b.errs
	}

	if p.requireSingle {
		switch n := len(doc.DefinedTypes); {
		case n == 0:
			return errorf(FileLocation(filename), "Cannot generate file without any definitions.")
		case n > 1:
			return errorf(FileLocation(filename), "Exactly one structured type is required to be defined.")
		}
	}

	for _, t := range p.typenames.addDefinedTypes(doc.DefinedTypes) {
		errs = multierr.Append(errs, errorf(t.Location(), "redefinition of type %s", t.CanonicalName()))
	}
	if errs != nil {
		return errs
	}

	p.document = doc
	return nil
}

// Resolve resolves every deferred type reference. Unresolvable names are
// reported together, each with a suggestion when a similar name is known.
func (p *Parser) Resolve() error {
	var errs error
	for _, t := range p.unresolved {
		if t.IsResolved() {
			continue
		}
		if t.Resolve(p.typenames) {
			continue
		}
		msg := fmt.Sprintf("Failed to resolve '%s'", t.UnresolvedName())
		if suggestion, ok := p.typenames.Suggest(t.UnresolvedName()); ok {
			msg += fmt.Sprintf(". Did you mean '%s'?", suggestion)
		}
		errs = multierr.Append(errs, &Diagnostic{Location: t.Location, Message: msg})
	}
	return errs
}

// builder converts a syntax tree without error nodes into a Document.
type builder struct {
	parser   *Parser
	file     string
	comments *commentFinder
	pkg      []string
	errs     error
}

func (b *builder) loc(n *parser.Node) Location {
	return locationOf(b.file, n.Span)
}

func (b *builder) fail(err error) {
	b.errs = multierr.Append(b.errs, err)
}

func (b *builder) document(root *parser.Node) *Document {
	doc := &Document{}
	if pkg := root.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		b.pkg = strings.Split(pkg.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral(), ".")
		doc.Package = b.pkg
	}

	for _, n := range root.ChildrenOfKind(parser.KindImportDecl) {
		doc.Imports = append(doc.Imports, &Import{
			Location:    b.loc(n),
			FileFrom:    b.file,
			NeededClass: n.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral(),
		})
	}

	for _, n := range root.Children {
		var t DefinedType
		switch n.Kind {
		case parser.KindInterfaceDecl:
			t = b.interfaceDecl(n)
		case parser.KindParcelableDecl:
			t = b.parcelableDecl(n)
		case parser.KindStructuredParcelableDecl:
			t = b.structuredParcelableDecl(n)
		default:
			continue
		}
		doc.DefinedTypes = append(doc.DefinedTypes, t)
	}
	return doc
}

func (b *builder) annotations(n *parser.Node) []*Annotation {
	var result []*Annotation
	for _, a := range n.ChildrenOfKind(parser.KindAnnotation) {
		annotation, err := ParseAnnotation(b.loc(a), strings.TrimPrefix(a.TokenLiteral(), "@"))
		if err != nil {
			b.fail(err)
			continue
		}
		result = append(result, annotation)
	}
	return result
}

func (b *builder) interfaceDecl(n *parser.Node) *Interface {
	comments := b.comments.FindForNode(n)
	var methods []*Method
	var constants []*ConstantDeclaration
	for _, member := range n.Children {
		switch member.Kind {
		case parser.KindMethodDecl:
			methods = append(methods, b.methodDecl(member))
		case parser.KindConstantDecl:
			constants = append(constants, b.constantDecl(member))
		}
	}
	oneway := n.FirstChildOfKind(parser.KindOneway) != nil
	iface := NewInterface(b.loc(n), n.TokenLiteral(), comments, oneway, methods, constants, b.pkg)
	iface.Annotate(b.annotations(n)...)
	return iface
}

func (b *builder) parcelableDecl(n *parser.Node) *Parcelable {
	comments := b.comments.FindForNode(n)
	name := n.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral()
	header := ""
	if h := n.FirstChildOfKind(parser.KindCppHeader); h != nil {
		header = strings.Trim(h.TokenLiteral(), `"`)
	}
	p := NewParcelable(b.loc(n), name, b.pkg, header, comments)
	p.Annotate(b.annotations(n)...)
	return p
}

func (b *builder) structuredParcelableDecl(n *parser.Node) *StructuredParcelable {
	comments := b.comments.FindForNode(n)
	var fields []*VariableDeclaration
	for _, f := range n.ChildrenOfKind(parser.KindFieldDecl) {
		t := b.typeSpec(f.FirstChildOfKind(parser.KindType))
		var value *ConstantValue
		if v := constantValueNode(f); v != nil {
			value = b.constantValue(v)
		}
		fields = append(fields, NewVariableDeclaration(b.loc(f), t, f.TokenLiteral(), value))
	}
	p := NewStructuredParcelable(b.loc(n), n.TokenLiteral(), b.pkg, comments, fields)
	p.Annotate(b.annotations(n)...)
	return p
}

func constantValueNode(n *parser.Node) *parser.Node {
	if v := n.FirstChildOfKind(parser.KindLiteral); v != nil {
		return v
	}
	return n.FirstChildOfKind(parser.KindArrayLiteral)
}

func (b *builder) methodDecl(n *parser.Node) *Method {
	comments := b.comments.FindForNode(n)
	oneway := n.FirstChildOfKind(parser.KindOneway) != nil
	ret := b.typeSpec(n.FirstChildOfKind(parser.KindType))
	ret.Comments = comments

	var args []*Argument
	for _, a := range n.FirstChildOfKind(parser.KindArguments).ChildrenOfKind(parser.KindArgument) {
		var direction Direction
		if d := a.FirstChildOfKind(parser.KindDirection); d != nil {
			switch d.TokenLiteral() {
			case "in":
				direction = DirectionIn
			case "out":
				direction = DirectionOut
			case "inout":
				direction = DirectionInOut
			}
		}
		t := b.typeSpec(a.FirstChildOfKind(parser.KindType))
		args = append(args, NewArgument(b.loc(a), direction, t, a.TokenLiteral()))
	}

	if idNode := n.FirstChildOfKind(parser.KindMethodID); idNode != nil {
		id, err := strconv.Atoi(idNode.TokenLiteral())
		if err != nil {
			b.fail(errorf(b.loc(idNode), "Invalid method id '%s'", idNode.TokenLiteral()))
		}
		return NewMethodWithID(b.loc(n), oneway, ret, n.TokenLiteral(), args, comments, id)
	}
	return NewMethod(b.loc(n), oneway, ret, n.TokenLiteral(), args, comments)
}

func (b *builder) constantDecl(n *parser.Node) *ConstantDeclaration {
	t := b.typeSpec(n.FirstChildOfKind(parser.KindType))
	return NewConstantDeclaration(b.loc(n), t, n.TokenLiteral(), b.constantValue(constantValueNode(n)))
}

// typeSpec builds a type reference and queues it, and its parameters, for
// resolution.
func (b *builder) typeSpec(n *parser.Node) *TypeSpecifier {
	var params []*TypeSpecifier
	if args := n.FirstChildOfKind(parser.KindTypeArguments); args != nil {
		params = []*TypeSpecifier{}
		for _, param := range args.ChildrenOfKind(parser.KindType) {
			params = append(params, b.typeSpec(param))
		}
	}
	name := n.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral()
	isArray := n.FirstChildOfKind(parser.KindArrayDims) != nil
	t := NewTypeSpecifier(b.loc(n), name, isArray, params, "")
	t.Annotate(b.annotations(n)...)
	b.parser.DeferResolution(t)
	return t
}

func (b *builder) constantValue(n *parser.Node) *ConstantValue {
	loc := b.loc(n)
	if n.Kind == parser.KindArrayLiteral {
		var values []*ConstantValue
		for _, element := range n.Children {
			values = append(values, b.constantValue(element))
		}
		return ArrayConstant(loc, values)
	}

	literal := n.TokenLiteral()
	switch n.Token.Kind {
	case parser.TokenTrue:
		return BooleanConstant(loc, true)
	case parser.TokenFalse:
		return BooleanConstant(loc, false)
	case parser.TokenIntLiteral:
		return IntegralConstant(loc, literal)
	case parser.TokenHexLiteral:
		return HexConstant(loc, literal)
	case parser.TokenFloatLiteral:
		return FloatingConstant(loc, literal)
	case parser.TokenStringLiteral:
		return StringConstant(loc, literal)
	case parser.TokenCharLiteral:
		inner := strings.TrimSuffix(strings.TrimPrefix(literal, "'"), "'")
		if len(inner) != 1 {
			return invalidConstant(loc, errorf(loc, "Invalid character literal %s", inner))
		}
		return CharacterConstant(loc, inner[0])
	}
	panic(fmt.Sprintf("aidl: unexpected literal token %s", n.Token.Kind))
}
