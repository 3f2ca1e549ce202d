package compiler

import (
	"strings"
	"testing"
)

func TestSymbolTableRegister(t *testing.T) {
	st := NewSymbolTable()
	first, ok := st.Register("x", SymbolNode, 1, nil)
	if !ok {
		t.Fatal("first Register failed")
	}
	again, ok := st.Register("x", SymbolNode, 2, nil)
	if ok {
		t.Fatal("Register succeeded for a name already in scope")
	}
	if again != first || again.Node != 1 {
		t.Errorf("duplicate Register returned %+v, want the existing symbol", again)
	}
}

func TestSymbolTableScopes(t *testing.T) {
	st := NewSymbolTable()
	global, _ := st.Register("x", SymbolNode, 1, nil)
	st.Register("y", SymbolNode, 2, nil)

	st.EnterScope()
	if st.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", st.Depth())
	}
	inner, ok := st.Register("x", SymbolNode, 3, nil)
	if !ok {
		t.Fatal("shadowing x in an inner scope failed")
	}
	if sym, _ := st.Lookup("x"); sym != inner {
		t.Errorf("Lookup(x) = %+v, want the inner symbol", sym)
	}
	if _, ok := st.Lookup("y"); ok {
		t.Error("Lookup(y) found a symbol from the global scope")
	}

	st.ExitScope()
	if sym, _ := st.Lookup("x"); sym != global {
		t.Errorf("Lookup(x) after ExitScope = %+v, want the global symbol", sym)
	}

	st.ExitScope()
	st.ExitScope()
	if st.Depth() != 0 {
		t.Errorf("Depth() = %d after exiting the global scope", st.Depth())
	}
	if _, ok := st.Lookup("y"); !ok {
		t.Error("global scope lost its symbols")
	}
}

func TestLookupNativeFunction(t *testing.T) {
	st := NewSymbolTable()
	st.Register("print", SymbolNativeFunction, NoNode, "native print")
	st.Register("x", SymbolNode, 4, nil)

	sym, ok := st.LookupNativeFunction("print")
	if !ok || sym.Data != "native print" {
		t.Errorf("LookupNativeFunction(print) = %+v, %v", sym, ok)
	}
	if _, ok := st.LookupNativeFunction("x"); ok {
		t.Error("LookupNativeFunction(x) found a node symbol")
	}
	if _, ok := st.LookupNativeFunction("missing"); ok {
		t.Error("LookupNativeFunction(missing) succeeded")
	}
}

func TestSymbolTableString(t *testing.T) {
	st := NewSymbolTable()
	st.Register("zeta", SymbolNode, 7, nil)
	st.Register("alpha", SymbolUnknown, NoNode, nil)
	st.EnterScope()
	st.Register("inner", SymbolNativeFunction, NoNode, nil)

	out := st.String()
	for _, want := range []string{"global:\n", "scope 1:\n", "node #7", "unknown", "native-function"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("names are not sorted:\n%s", out)
	}
}

func TestResolveSymbols(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2; f(x);", ""},
		{"int x;", "variables"},
		{"int a, b;", "variables"},
		{"struct point;", "structures"},
		{"union value;", "unions"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ResolveSymbols(mustParse(t, tt.input), NewSymbolTable())
			if tt.want == "" {
				if err != nil {
					t.Errorf("ResolveSymbols error: %v", err)
				}
				return
			}
			if !IsKind(err, ErrUnsupported) {
				t.Fatalf("error = %v, want Unsupported", err)
			}
			if !strings.HasPrefix(err.Error(), tt.want+" are not supported yet") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestResolveSymbolsFunction(t *testing.T) {
	a := NewArena()
	ret := &Datatype{Kind: TypeInt, TypeName: "int", Flags: DatatypeSigned, Size: 4}
	fn := a.New(Position{Line: 3, Col: 1, Filename: "f.c"}, &FunctionPayload{Return: ret, Name: "main", Body: NoNode})

	err := ResolveSymbols(&AST{Arena: a, Roots: []NodeID{fn}}, NewSymbolTable())
	want := "functions are not supported yet on line 3, col 1 in file f.c"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}
