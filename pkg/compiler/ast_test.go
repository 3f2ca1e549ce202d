package compiler

import (
	"reflect"
	"testing"
)

func TestArena(t *testing.T) {
	a := NewArena()
	pos := Position{Line: 1, Col: 1, Filename: "t.c"}
	one := a.New(pos, &NumberPayload{Value: 1})
	two := a.New(pos, &NumberPayload{Value: 2})
	sum := a.New(pos, &ExprPayload{Left: one, Op: "+", Right: two})

	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
	if got := a.Children(sum); !reflect.DeepEqual(got, []NodeID{one, two}) {
		t.Errorf("Children = %v", got)
	}
	if a.Node(NoNode) != nil || a.Node(99) != nil {
		t.Error("Node returned a node for an invalid id")
	}
	n := a.Node(sum)
	if n.Owner != NoNode || n.Function != NoNode {
		t.Errorf("new node back-references = %d, %d; want NoNode", n.Owner, n.Function)
	}
	if got := a.Format(sum); got != "(1 + 2)" {
		t.Errorf("Format = %q", got)
	}
}

func TestChildrenSkipsAbsentNodes(t *testing.T) {
	a := NewArena()
	dt := &Datatype{Kind: TypeInt, TypeName: "int", Flags: DatatypeSigned}
	v := a.New(Position{}, &VariablePayload{Type: dt, Name: "x", Init: NoNode})
	if got := a.Children(v); len(got) != 0 {
		t.Errorf("Children = %v, want none", got)
	}
	s := a.New(Position{}, &StructPayload{Name: "p", Body: NoNode})
	if got := a.Children(s); len(got) != 0 {
		t.Errorf("Children = %v, want none", got)
	}
}

func TestASTString(t *testing.T) {
	ast := mustParse(t, "int x = 1; x = x * 2 + 1;")
	want := "int x = 1\n(x = ((x * 2) + 1))\n"
	if got := ast.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNodeKindString(t *testing.T) {
	if NodeArgumentList.String() != "ArgumentList" {
		t.Errorf("NodeArgumentList = %q", NodeArgumentList)
	}
	if got := NodeKind(100).String(); got != "NodeKind(100)" {
		t.Errorf("unknown kind = %q", got)
	}
}
