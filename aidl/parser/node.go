package parser

type NodeKind int

const (
	KindError NodeKind = iota

	// Document level
	KindDocument
	KindPackageDecl
	KindImportDecl
	KindQualifiedName

	// Type declarations
	KindParcelableDecl
	KindStructuredParcelableDecl
	KindInterfaceDecl
	KindCppHeader

	// Members
	KindMethodDecl
	KindConstantDecl
	KindFieldDecl
	KindMethodID

	// Types and modifiers
	KindType
	KindTypeArguments
	KindArrayDims
	KindAnnotation
	KindOneway
	KindDirection

	// Method components
	KindArguments
	KindArgument

	// Values
	KindLiteral
	KindArrayLiteral
)

var nodeKindNames = map[NodeKind]string{
	KindError:                    "Error",
	KindDocument:                 "Document",
	KindPackageDecl:              "PackageDecl",
	KindImportDecl:               "ImportDecl",
	KindQualifiedName:            "QualifiedName",
	KindParcelableDecl:           "ParcelableDecl",
	KindStructuredParcelableDecl: "StructuredParcelableDecl",
	KindInterfaceDecl:            "InterfaceDecl",
	KindCppHeader:                "CppHeader",
	KindMethodDecl:               "MethodDecl",
	KindConstantDecl:             "ConstantDecl",
	KindFieldDecl:                "FieldDecl",
	KindMethodID:                 "MethodID",
	KindType:                     "Type",
	KindTypeArguments:            "TypeArguments",
	KindArrayDims:                "ArrayDims",
	KindAnnotation:               "Annotation",
	KindOneway:                   "Oneway",
	KindDirection:                "Direction",
	KindArguments:                "Arguments",
	KindArgument:                 "Argument",
	KindLiteral:                  "Literal",
	KindArrayLiteral:             "ArrayLiteral",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Errors returns every error node in the subtree, in source order.
func (n *Node) Errors() []*Node {
	var result []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.IsError() {
			result = append(result, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	result := prefix + n.Kind.String()
	if showPositions {
		result += " [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]"
	}
	if n.Token != nil {
		result += " " + n.Token.Literal
	}
	if n.Error != nil {
		result += " ERROR: " + n.Error.Message
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}
