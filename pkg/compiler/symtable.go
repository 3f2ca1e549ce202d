package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind says what a Symbol's payload refers to.
type SymbolKind int

const (
	SymbolNode SymbolKind = iota
	SymbolNativeFunction
	SymbolUnknown
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNode:
		return "node"
	case SymbolNativeFunction:
		return "native-function"
	default:
		return "unknown"
	}
}

type Symbol struct {
	Name string
	Kind SymbolKind
	Node NodeID // for SymbolNode
	Data any    // for native functions and unknown symbols
}

// SymbolTable is a stack of scopes. Lookups only search the innermost scope;
// names in outer scopes are not visible and do not conflict.
type SymbolTable struct {
	// scopes[0] is the global scope and is never popped.
	scopes []map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]*Symbol{make(map[string]*Symbol)}}
}

func (s *SymbolTable) EnterScope() {
	s.scopes = append(s.scopes, make(map[string]*Symbol))
}

// ExitScope discards the innermost scope. Exiting the global scope is a no-op.
func (s *SymbolTable) ExitScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Depth returns the number of scopes entered above the global scope.
func (s *SymbolTable) Depth() int { return len(s.scopes) - 1 }

func (s *SymbolTable) current() map[string]*Symbol {
	return s.scopes[len(s.scopes)-1]
}

// Register adds name to the current scope. It returns false, and the
// existing symbol, when name is already defined there.
func (s *SymbolTable) Register(name string, kind SymbolKind, node NodeID, data any) (*Symbol, bool) {
	if sym, ok := s.current()[name]; ok {
		return sym, false
	}
	sym := &Symbol{Name: name, Kind: kind, Node: node, Data: data}
	s.current()[name] = sym
	return sym, true
}

// Lookup finds name in the current scope only.
func (s *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.current()[name]
	return sym, ok
}

// LookupNativeFunction finds name in the current scope if it is a native
// function.
func (s *SymbolTable) LookupNativeFunction(name string) (*Symbol, bool) {
	sym, ok := s.Lookup(name)
	if !ok || sym.Kind != SymbolNativeFunction {
		return nil, false
	}
	return sym, true
}

func (s *SymbolTable) String() string {
	var sb strings.Builder
	for depth, scope := range s.scopes {
		label := "global"
		if depth > 0 {
			label = fmt.Sprintf("scope %d", depth)
		}
		fmt.Fprintf(&sb, "%s:\n", label)

		names := make([]string, 0, len(scope))
		for name := range scope {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sym := scope[name]
			fmt.Fprintf(&sb, "  %-20s %s", name, sym.Kind)
			if sym.Kind == SymbolNode {
				fmt.Fprintf(&sb, " #%d", sym.Node)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
