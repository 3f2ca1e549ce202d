package compiler

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DumpTokens writes one token per line.
func DumpTokens(w io.Writer, tokens []Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%4d  %s\n", i, tok); err != nil {
			return err
		}
	}
	return nil
}

type tokenDoc struct {
	Kind            string `yaml:"kind"`
	Value           string `yaml:"value"`
	NumberType      string `yaml:"number_type,omitempty"`
	Line            int    `yaml:"line"`
	Col             int    `yaml:"col"`
	Whitespace      bool   `yaml:"whitespace,omitempty"`
	BetweenBrackets string `yaml:"between_brackets,omitempty"`
}

// DumpTokensYAML writes tokens as a YAML sequence.
func DumpTokensYAML(w io.Writer, tokens []Token) error {
	docs := make([]tokenDoc, len(tokens))
	for i, tok := range tokens {
		docs[i] = tokenDoc{
			Kind:            tok.Kind.String(),
			Value:           tok.Value(),
			Line:            tok.Pos.Line,
			Col:             tok.Pos.Col,
			Whitespace:      tok.Whitespace,
			BetweenBrackets: tok.BetweenBrackets,
		}
		if tok.Kind == TokenNumber {
			docs[i].NumberType = tok.NumberType.String()
		}
	}
	return encodeYAML(w, docs)
}

// DumpAST writes the tree as an indented outline, one node per line.
func DumpAST(w io.Writer, ast *AST) error {
	var sb strings.Builder
	for _, id := range ast.Roots {
		dumpNode(&sb, ast.Arena, id, 0)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpNode(sb *strings.Builder, a *Arena, id NodeID, depth int) {
	n := a.Node(id)
	if n == nil {
		return
	}
	fmt.Fprintf(sb, "%s%s", strings.Repeat("  ", depth), n.Kind())
	if label := nodeLabel(n); label != "" {
		fmt.Fprintf(sb, " %s", label)
	}
	fmt.Fprintf(sb, " (line %d)\n", n.Pos.Line)
	for _, c := range a.Children(id) {
		dumpNode(sb, a, c, depth+1)
	}
}

// nodeLabel is the scalar part of a node: its operator, name or value.
func nodeLabel(n *Node) string {
	switch p := n.Payload.(type) {
	case *ExprPayload:
		return p.Op
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
		return fmt.Sprintf("%s %s", p.Type, p.Name)
	case *FunctionPayload:
		return fmt.Sprintf("%s %s", p.Return, p.Name)
	case *UnaryPayload:
		if n.Flags&NodeFlagPostfix != 0 {
			return "postfix " + p.Op
		}
		return p.Op
	case *CastPayload:
		return p.Type.String()
	case *StructPayload:
		return p.Name
	case *UnionPayload:
		return p.Name
	}
	return ""
}

type nodeDoc struct {
	Kind     string    `yaml:"kind"`
	Label    string    `yaml:"label,omitempty"`
	Line     int       `yaml:"line"`
	Col      int       `yaml:"col"`
	Children []nodeDoc `yaml:"children,omitempty"`
}

func buildNodeDoc(a *Arena, id NodeID) nodeDoc {
	n := a.Node(id)
	doc := nodeDoc{Kind: n.Kind().String(), Label: nodeLabel(n), Line: n.Pos.Line, Col: n.Pos.Col}
	for _, c := range a.Children(id) {
		doc.Children = append(doc.Children, buildNodeDoc(a, c))
	}
	return doc
}

// DumpASTYAML writes the tree as nested YAML documents.
func DumpASTYAML(w io.Writer, ast *AST) error {
	docs := make([]nodeDoc, 0, len(ast.Roots))
	for _, id := range ast.Roots {
		docs = append(docs, buildNodeDoc(ast.Arena, id))
	}
	return encodeYAML(w, docs)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
