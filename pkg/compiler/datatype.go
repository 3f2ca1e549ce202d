package compiler

import (
	"fmt"
	"strings"
)

// DatatypeKind is the base type of a Datatype.
type DatatypeKind int

const (
	TypeVoid DatatypeKind = iota
	TypeChar
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeStruct
	TypeUnion
)

var datatypeKindNames = [...]string{
	TypeVoid:   "void",
	TypeChar:   "char",
	TypeShort:  "short",
	TypeInt:    "int",
	TypeLong:   "long",
	TypeFloat:  "float",
	TypeDouble: "double",
	TypeStruct: "struct",
	TypeUnion:  "union",
}

func (k DatatypeKind) String() string {
	if int(k) >= 0 && int(k) < len(datatypeKindNames) {
		return datatypeKindNames[k]
	}
	return fmt.Sprintf("DatatypeKind(%d)", int(k))
}

var primitiveKinds = map[string]DatatypeKind{
	"void":   TypeVoid,
	"char":   TypeChar,
	"short":  TypeShort,
	"int":    TypeInt,
	"long":   TypeLong,
	"float":  TypeFloat,
	"double": TypeDouble,
}

// DatatypeFlags is a bitset of type modifiers.
type DatatypeFlags uint32

const (
	DatatypeSigned DatatypeFlags = 1 << iota
	DatatypeStatic
	DatatypeConst
	DatatypePointer
	DatatypeArray
	DatatypeExtern
	DatatypeRestrict
	DatatypeIgnoreTypecheck
	DatatypeSecondary
	DatatypeAnonymous // struct or union declared without a name
	DatatypeLiteral
)

// modifierFlags maps modifier keywords to the flag they set. unsigned is
// handled separately because it clears DatatypeSigned.
var modifierFlags = map[string]DatatypeFlags{
	"signed":             DatatypeSigned,
	"static":             DatatypeStatic,
	"const":              DatatypeConst,
	"extern":             DatatypeExtern,
	"restrict":           DatatypeRestrict,
	"__ignore_typecheck": DatatypeIgnoreTypecheck,
}

func isModifierKeyword(t Token) bool {
	if t.Kind != TokenKeyword {
		return false
	}
	_, ok := modifierFlags[t.Text]
	return ok || t.Text == "unsigned"
}

// isDatatypeStart reports whether t can begin a datatype.
func isDatatypeStart(t Token) bool {
	return isModifierKeyword(t) || IsPrimitiveKeyword(t) || t.IsKeyword("struct") || t.IsKeyword("union")
}

// Datatype describes a parsed type such as `static const unsigned long int*`.
type Datatype struct {
	Flags        DatatypeFlags
	Kind         DatatypeKind
	Secondary    *Datatype // width modifier type: the int of `long int`
	TypeName     string
	Size         int
	PointerDepth int
}

func (d *Datatype) Has(f DatatypeFlags) bool { return d.Flags&f != 0 }

func (d *Datatype) IsStructOrUnion() bool {
	return d.Kind == TypeStruct || d.Kind == TypeUnion
}

func (d *Datatype) String() string {
	var parts []string
	for _, m := range []struct {
		flag DatatypeFlags
		word string
	}{
		{DatatypeStatic, "static"},
		{DatatypeExtern, "extern"},
		{DatatypeConst, "const"},
		{DatatypeRestrict, "restrict"},
	} {
		if d.Has(m.flag) {
			parts = append(parts, m.word)
		}
	}
	if !d.Has(DatatypeSigned) {
		parts = append(parts, "unsigned")
	}
	if d.IsStructOrUnion() {
		parts = append(parts, d.Kind.String())
	}
	parts = append(parts, d.TypeName)
	if d.Secondary != nil {
		parts = append(parts, d.Secondary.TypeName)
	}
	return strings.Join(parts, " ") + strings.Repeat("*", d.PointerDepth)
}

// primitiveSize returns the size in bytes of a base type. long, float and
// double are all 4 bytes wide.
func primitiveSize(k DatatypeKind) int {
	switch k {
	case TypeVoid, TypeStruct, TypeUnion:
		return 0
	case TypeChar:
		return 1
	case TypeShort:
		return 2
	}
	return 4
}

// acceptsSecondary reports base types that may be followed by a second
// primitive type, as in `long int` or `short int`.
func acceptsSecondary(k DatatypeKind) bool {
	return k == TypeLong || k == TypeShort || k == TypeDouble || k == TypeFloat
}

// ParseDatatype parses a single datatype from the start of tokens.
func ParseDatatype(tokens []Token, r *Reporter) (*Datatype, error) {
	return NewParser(tokens, r).parseDatatype()
}

// parseDatatype reads modifiers, the base type, an optional secondary type,
// then any mix of pointer stars and trailing modifiers.
func (p *Parser) parseDatatype() (*Datatype, error) {
	dt := &Datatype{Flags: DatatypeSigned}
	p.parseDatatypeModifiers(dt)

	tok, ok := p.next()
	if !ok {
		return nil, p.errEOF("expected a datatype")
	}
	switch {
	case tok.IsKeyword("struct") || tok.IsKeyword("union"):
		dt.Kind = TypeStruct
		if tok.Text == "union" {
			dt.Kind = TypeUnion
		}
		if name, ok := p.peek(); ok && name.Kind == TokenIdentifier {
			p.next()
			dt.TypeName = name.Text
		} else {
			dt.TypeName = fmt.Sprintf("customtypename_%d", p.anonTypes)
			p.anonTypes++
			dt.Flags |= DatatypeAnonymous
		}
	case IsPrimitiveKeyword(tok):
		dt.Kind = primitiveKinds[tok.Text]
		dt.TypeName = tok.Text
		if err := p.parseSecondaryType(dt); err != nil {
			return nil, err
		}
	default:
		return nil, newError(ErrUnexpectedToken, tok.Pos, "expected a datatype, got %s `%s'", tok.Kind, tok.Value())
	}

	dt.Size = primitiveSize(dt.Kind)
	if dt.Secondary != nil {
		if dt.Kind == TypeLong && dt.Secondary.Kind == TypeLong {
			p.reporter.Warnf(tok.Pos, "our compiler does not support 64-bit long long, it will be treated as a 32-bit type")
		} else {
			dt.Size += dt.Secondary.Size
		}
	}

	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.IsOperator("*") {
			p.next()
			dt.PointerDepth++
			dt.Flags |= DatatypePointer
			continue
		}
		if !isModifierKeyword(t) {
			break
		}
		p.parseDatatypeModifiers(dt)
	}
	return dt, nil
}

func (p *Parser) parseDatatypeModifiers(dt *Datatype) {
	for {
		t, ok := p.peek()
		if !ok || !isModifierKeyword(t) {
			return
		}
		p.next()
		if t.Text == "unsigned" {
			dt.Flags &^= DatatypeSigned
			continue
		}
		dt.Flags |= modifierFlags[t.Text]
	}
}

func (p *Parser) parseSecondaryType(dt *Datatype) error {
	t, ok := p.peek()
	if !ok || !IsPrimitiveKeyword(t) {
		return nil
	}
	if !acceptsSecondary(dt.Kind) {
		return newError(ErrInvalidSecondaryType, t.Pos, "`%s' cannot be followed by the type `%s'", dt.TypeName, t.Text)
	}
	p.next()
	kind := primitiveKinds[t.Text]
	dt.Secondary = &Datatype{
		Flags:    dt.Flags & DatatypeSigned,
		Kind:     kind,
		TypeName: t.Text,
		Size:     primitiveSize(kind),
	}
	dt.Flags |= DatatypeSecondary
	return nil
}
