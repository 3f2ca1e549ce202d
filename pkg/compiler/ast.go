package compiler

import (
	"fmt"
	"strings"
)

// NodeID addresses a node inside an Arena.
type NodeID int32

// NoNode is the absent node, used for optional children and back-references.
const NoNode NodeID = -1

// NodeKind identifies the variant of a node payload.
type NodeKind int

const (
	NodeExpression NodeKind = iota
	NodeParenthesizedExpression
	NodeNumber
	NodeIdentifier
	NodeString
	NodeVariable
	NodeVariableList
	NodeFunction
	NodeBody
	NodeReturn
	NodeIf
	NodeElse
	NodeWhile
	NodeDoWhile
	NodeFor
	NodeBreak
	NodeContinue
	NodeSwitch
	NodeCase
	NodeDefault
	NodeGoto
	NodeUnary
	NodeTernary
	NodeLabel
	NodeStruct
	NodeUnion
	NodeBracket
	NodeCast
	NodeBlank
	NodeArgumentList
)

var nodeKindNames = [...]string{
	NodeExpression:              "Expression",
	NodeParenthesizedExpression: "ParenthesizedExpression",
	NodeNumber:                  "Number",
	NodeIdentifier:              "Identifier",
	NodeString:                  "String",
	NodeVariable:                "Variable",
	NodeVariableList:            "VariableList",
	NodeFunction:                "Function",
	NodeBody:                    "Body",
	NodeReturn:                  "Return",
	NodeIf:                      "If",
	NodeElse:                    "Else",
	NodeWhile:                   "While",
	NodeDoWhile:                 "DoWhile",
	NodeFor:                     "For",
	NodeBreak:                   "Break",
	NodeContinue:                "Continue",
	NodeSwitch:                  "Switch",
	NodeCase:                    "Case",
	NodeDefault:                 "Default",
	NodeGoto:                    "Goto",
	NodeUnary:                   "Unary",
	NodeTernary:                 "Ternary",
	NodeLabel:                   "Label",
	NodeStruct:                  "Struct",
	NodeUnion:                   "Union",
	NodeBracket:                 "Bracket",
	NodeCast:                    "Cast",
	NodeBlank:                   "Blank",
	NodeArgumentList:            "ArgumentList",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// NodeFlags is a bitset of per-node markers.
type NodeFlags uint32

const (
	// NodeFlagPostfix marks a Unary ++ or -- written after its operand.
	NodeFlagPostfix NodeFlags = 1 << iota
)

// Payload is the kind-specific content of a node. The set of payloads is
// closed; every implementation lives in this file.
type Payload interface {
	Kind() NodeKind
	payload()
}

// Expression is a binary operation. Postfix forms reuse it with the
// operators "()", "[]", "." and "->".
//
//	a + b
//	^ ^ ^
//	| | Right
//	| Op
//	Left
type ExprPayload struct {
	Left  NodeID
	Right NodeID
	Op    string
}

// ParenPayload is an expression written inside parentheses.
type ParenPayload struct {
	Inner NodeID
}

// NumberPayload is a numeric or character literal.
type NumberPayload struct {
	Value uint64
	Type  NumberType
	Float float64
	Text  string // literal text when it had a fractional part
}

type IdentifierPayload struct {
	Name string
}

type StringPayload struct {
	Value string
}

// VariablePayload is a declaration such as `const int x = 5`.
type VariablePayload struct {
	Type     *Datatype
	Name     string
	Init     NodeID   // NoNode when there is no initializer
	Brackets []NodeID // array dimensions, one Bracket node each
}

// VariableListPayload groups declarators sharing one datatype: int a, b;
type VariableListPayload struct {
	Vars []NodeID
}

type FunctionPayload struct {
	Return *Datatype
	Name   string
	Params []NodeID
	Body   NodeID
}

// UnaryPayload is a prefix operator, or a postfix ++/-- when the node carries
// NodeFlagPostfix.
type UnaryPayload struct {
	Op      string
	Operand NodeID
}

// TernaryPayload holds both branches of `cond ? a : b`. The condition is the
// left side of the enclosing "?" Expression.
type TernaryPayload struct {
	True  NodeID
	False NodeID
}

// StructPayload is a struct or union reference or forward declaration.
type StructPayload struct {
	Type *Datatype
	Name string
	Body NodeID
}

type UnionPayload StructPayload

// BracketPayload is the subscript of a[i] or an array dimension.
type BracketPayload struct {
	Inner NodeID
}

type CastPayload struct {
	Type    *Datatype
	Operand NodeID
}

// ArgumentListPayload is the argument list of a call, in source order.
type ArgumentListPayload struct {
	Items []NodeID
}

type BlankPayload struct{}

func (*ExprPayload) Kind() NodeKind         { return NodeExpression }
func (*ParenPayload) Kind() NodeKind        { return NodeParenthesizedExpression }
func (*NumberPayload) Kind() NodeKind       { return NodeNumber }
func (*IdentifierPayload) Kind() NodeKind   { return NodeIdentifier }
func (*StringPayload) Kind() NodeKind       { return NodeString }
func (*VariablePayload) Kind() NodeKind     { return NodeVariable }
func (*VariableListPayload) Kind() NodeKind { return NodeVariableList }
func (*FunctionPayload) Kind() NodeKind     { return NodeFunction }
func (*UnaryPayload) Kind() NodeKind        { return NodeUnary }
func (*TernaryPayload) Kind() NodeKind      { return NodeTernary }
func (*StructPayload) Kind() NodeKind       { return NodeStruct }
func (*UnionPayload) Kind() NodeKind        { return NodeUnion }
func (*BracketPayload) Kind() NodeKind      { return NodeBracket }
func (*CastPayload) Kind() NodeKind         { return NodeCast }
func (*ArgumentListPayload) Kind() NodeKind { return NodeArgumentList }
func (*BlankPayload) Kind() NodeKind        { return NodeBlank }

func (*ExprPayload) payload()         {}
func (*ParenPayload) payload()        {}
func (*NumberPayload) payload()       {}
func (*IdentifierPayload) payload()   {}
func (*StringPayload) payload()       {}
func (*VariablePayload) payload()     {}
func (*VariableListPayload) payload() {}
func (*FunctionPayload) payload()     {}
func (*UnaryPayload) payload()        {}
func (*TernaryPayload) payload()      {}
func (*StructPayload) payload()       {}
func (*UnionPayload) payload()        {}
func (*BracketPayload) payload()      {}
func (*CastPayload) payload()         {}
func (*ArgumentListPayload) payload() {}
func (*BlankPayload) payload()        {}

// Node is one element of the tree. Owner and Function point back to the
// enclosing body and function; they never own the nodes they reference.
// Bodies and functions are not parsed yet, so both are always NoNode.
type Node struct {
	Flags    NodeFlags
	Pos      Position
	Owner    NodeID
	Function NodeID
	Payload  Payload
}

func (n *Node) Kind() NodeKind { return n.Payload.Kind() }

// Arena owns every node built during a parse.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena {
	return &Arena{}
}

// New stores a node and returns its ID.
func (a *Arena) New(pos Position, p Payload) NodeID {
	a.nodes = append(a.nodes, Node{Pos: pos, Owner: NoNode, Function: NoNode, Payload: p})
	return NodeID(len(a.nodes) - 1)
}

// Node returns the node for id, or nil for NoNode and out of range IDs.
func (a *Arena) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[id]
}

func (a *Arena) Len() int { return len(a.nodes) }

// Children returns the IDs directly owned by id, skipping absent ones.
func (a *Arena) Children(id NodeID) []NodeID {
	n := a.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c != NoNode {
				out = append(out, c)
			}
		}
	}
	switch p := n.Payload.(type) {
	case *ExprPayload:
		add(p.Left, p.Right)
	case *ParenPayload:
		add(p.Inner)
	case *VariablePayload:
		add(p.Brackets...)
		add(p.Init)
	case *VariableListPayload:
		add(p.Vars...)
	case *FunctionPayload:
		add(p.Params...)
		add(p.Body)
	case *UnaryPayload:
		add(p.Operand)
	case *TernaryPayload:
		add(p.True, p.False)
	case *StructPayload:
		add(p.Body)
	case *UnionPayload:
		add(p.Body)
	case *BracketPayload:
		add(p.Inner)
	case *CastPayload:
		add(p.Operand)
	case *ArgumentListPayload:
		add(p.Items...)
	}
	return out
}

// Format renders the subtree at id as fully parenthesised source.
func (a *Arena) Format(id NodeID) string {
	n := a.Node(id)
	if n == nil {
		return "<nil>"
	}
	switch p := n.Payload.(type) {
	case *ExprPayload:
		switch p.Op {
		case "()":
			return fmt.Sprintf("%s(%s)", a.Format(p.Left), a.Format(p.Right))
		case "[]":
			return a.Format(p.Left) + a.Format(p.Right)
		case ".", "->":
			return a.Format(p.Left) + p.Op + a.Format(p.Right)
		case "?":
			if r := a.Node(p.Right); r != nil {
				if t, ok := r.Payload.(*TernaryPayload); ok {
					return fmt.Sprintf("(%s ? %s : %s)", a.Format(p.Left), a.Format(t.True), a.Format(t.False))
				}
			}
		}
		return fmt.Sprintf("(%s %s %s)", a.Format(p.Left), p.Op, a.Format(p.Right))
	case *ParenPayload:
		return fmt.Sprintf("(%s)", a.Format(p.Inner))
	case *NumberPayload:
		if p.Text != "" {
			return p.Text
		}
		return fmt.Sprintf("%d", p.Value)
	case *IdentifierPayload:
		return p.Name
	case *StringPayload:
		return fmt.Sprintf("%q", p.Value)
	case *VariablePayload:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %s", p.Type, p.Name)
		for _, b := range p.Brackets {
			sb.WriteString(a.Format(b))
		}
		if p.Init != NoNode {
			fmt.Fprintf(&sb, " = %s", a.Format(p.Init))
		}
		return sb.String()
	case *VariableListPayload:
		return a.formatList(p.Vars, "; ")
	case *FunctionPayload:
		return fmt.Sprintf("%s %s(%s)", p.Return, p.Name, a.formatList(p.Params, ", "))
	case *UnaryPayload:
		if n.Flags&NodeFlagPostfix != 0 {
			return fmt.Sprintf("(%s%s)", a.Format(p.Operand), p.Op)
		}
		return fmt.Sprintf("(%s%s)", p.Op, a.Format(p.Operand))
	case *TernaryPayload:
		return fmt.Sprintf("%s : %s", a.Format(p.True), a.Format(p.False))
	case *StructPayload:
		return "struct " + p.Name
	case *UnionPayload:
		return "union " + p.Name
	case *BracketPayload:
		return fmt.Sprintf("[%s]", a.Format(p.Inner))
	case *CastPayload:
		return fmt.Sprintf("((%s) %s)", p.Type, a.Format(p.Operand))
	case *ArgumentListPayload:
		return a.formatList(p.Items, ", ")
	case *BlankPayload:
		return ""
	}
	return "<" + n.Kind().String() + ">"
}

func (a *Arena) formatList(ids []NodeID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = a.Format(id)
	}
	return strings.Join(parts, sep)
}

// AST is the result of a parse: the arena and its top-level nodes in source
// order.
type AST struct {
	Arena *Arena
	Roots []NodeID
}

func (t *AST) String() string {
	var sb strings.Builder
	for _, id := range t.Roots {
		sb.WriteString(t.Arena.Format(id))
		sb.WriteByte('\n')
	}
	return sb.String()
}
