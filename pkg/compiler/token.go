package compiler

import "fmt"

// Position is a location in a source file. Line and Col are 1-based.
type Position struct {
	Line     int
	Col      int
	Filename string
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d in file %s", p.Line, p.Col, p.Filename)
}

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenKeyword
	TokenOperator
	TokenSymbol
	TokenNumber
	TokenString
	TokenComment
	TokenNewline
)

var tokenKindNames = [...]string{
	TokenIdentifier: "IDENTIFIER",
	TokenKeyword:    "KEYWORD",
	TokenOperator:   "OPERATOR",
	TokenSymbol:     "SYMBOL",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenComment:    "COMMENT",
	TokenNewline:    "NEWLINE",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// NumberType is the width class of a Number token, picked by its suffix.
type NumberType int

const (
	NumberNormal NumberType = iota
	NumberLong              // 100L
	NumberFloat             // 2.5f
	NumberDouble            // 2.5
)

func (n NumberType) String() string {
	switch n {
	case NumberNormal:
		return "normal"
	case NumberLong:
		return "long"
	case NumberFloat:
		return "float"
	case NumberDouble:
		return "double"
	default:
		return fmt.Sprintf("NumberType(%d)", int(n))
	}
}

// Token is a single lexical unit produced by the Lexer.
//
// Which value field is meaningful depends on Kind:
//
//	TokenSymbol                          Char
//	TokenIdentifier, Keyword, Operator,
//	TokenString, TokenComment            Text
//	TokenNumber                          Number, NumberType (Text, Float for fractions)
type Token struct {
	Kind       TokenKind
	Flags      int
	Pos        Position
	Char       rune
	Text       string
	Number     uint64
	NumberType NumberType
	Float      float64

	// Whitespace is true when whitespace directly follows this token.
	Whitespace bool

	// BetweenBrackets is the text consumed since the outermost open '('
	// up to and including this token. Empty outside parentheses, and for
	// the ')' that closes the outermost one.
	BetweenBrackets string
}

// Value returns the token's value rendered as source-like text.
func (t Token) Value() string {
	switch t.Kind {
	case TokenSymbol:
		return string(t.Char)
	case TokenNumber:
		if t.Text != "" {
			return t.Text
		}
		return fmt.Sprintf("%d", t.Number)
	case TokenNewline:
		return "\\n"
	default:
		return t.Text
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d col %d", t.Kind, t.Value(), t.Pos.Line, t.Pos.Col)
}

// IsKeyword reports whether t is the keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenKeyword && t.Text == kw
}

// IsSymbol reports whether t is the structural symbol c.
func (t Token) IsSymbol(c rune) bool {
	return t.Kind == TokenSymbol && t.Char == c
}

// IsOperator reports whether t is the operator op.
func (t Token) IsOperator(op string) bool {
	return t.Kind == TokenOperator && t.Text == op
}

// isSkippable reports tokens the parser never sees: newlines, comments and
// the line-continuation symbol.
func (t Token) isSkippable() bool {
	return t.Kind == TokenNewline || t.Kind == TokenComment || t.IsSymbol('\\')
}

var keywords = map[string]bool{
	"unsigned":           true,
	"signed":             true,
	"char":               true,
	"short":              true,
	"int":                true,
	"long":               true,
	"float":              true,
	"double":             true,
	"void":               true,
	"struct":             true,
	"union":              true,
	"static":             true,
	"__ignore_typecheck": true,
	"return":             true,
	"include":            true,
	"sizeof":             true,
	"if":                 true,
	"else":               true,
	"while":              true,
	"for":                true,
	"do":                 true,
	"break":              true,
	"continue":           true,
	"switch":             true,
	"case":               true,
	"default":            true,
	"goto":               true,
	"typedef":            true,
	"const":              true,
	"extern":             true,
	"restrict":           true,
}

// primitiveTypes is the subset of keywords naming a primitive datatype.
var primitiveTypes = [...]string{"void", "char", "short", "int", "long", "float", "double"}

// IsKeyword reports whether word is a reserved keyword.
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsPrimitiveKeyword reports whether t is a keyword naming a primitive type.
func IsPrimitiveKeyword(t Token) bool {
	if t.Kind != TokenKeyword {
		return false
	}
	for _, p := range primitiveTypes {
		if p == t.Text {
			return true
		}
	}
	return false
}
