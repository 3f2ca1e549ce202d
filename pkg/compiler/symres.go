package compiler

// ResolveSymbols walks the top level nodes of ast and builds symbols for
// declarations. Declarations are not supported yet, so any variable, function,
// struct or union stops resolution with ErrUnsupported. Other nodes are
// ignored.
func ResolveSymbols(ast *AST, st *SymbolTable) error {
	for _, id := range ast.Roots {
		if err := resolveNode(ast.Arena, id, st); err != nil {
			return err
		}
	}
	return nil
}

func resolveNode(a *Arena, id NodeID, st *SymbolTable) error {
	n := a.Node(id)
	if n == nil {
		return nil
	}
	switch p := n.Payload.(type) {
	case *VariablePayload:
		return unsupported(n.Pos, "variables")
	case *VariableListPayload:
		for _, v := range p.Vars {
			if err := resolveNode(a, v, st); err != nil {
				return err
			}
		}
	case *FunctionPayload:
		return unsupported(n.Pos, "functions")
	case *StructPayload:
		return unsupported(n.Pos, "structures")
	case *UnionPayload:
		return unsupported(n.Pos, "unions")
	}
	return nil
}
