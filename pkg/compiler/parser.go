package compiler

// Parser consumes the token slice produced by the Lexer and builds an AST in
// an Arena.
//
// Expressions are built greedily to the right and then re-associated:
//
//	expression = operand (binop expression | "?" expression ":" expression)?
//	operand    = prefix operand | "(" datatype ")" operand | primary postfix*
//	primary    = NUMBER | IDENTIFIER | STRING | "(" expression ")"
//	postfix    = "(" args ")" | "[" expression "]" | ("." | "->") IDENTIFIER | "++" | "--"
//	prefix     = "-" | "+" | "!" | "~" | "*" | "&" | "++" | "--"
//
// Building `10 - 5 - 2` this way first yields (10 - (5 - 2)); reorder rotates
// it into ((10 - 5) - 2) using the precedence table.
//
// Top level statements are declarations (datatype name [= expr] {, name [= expr]} ;)
// and expression statements. Every other statement form is recognised and
// rejected with ErrUnsupported.
type Parser struct {
	tokens   []Token
	pos      int
	arena    *Arena
	stack    NodeStack
	reporter *Reporter

	anonTypes int // counter for customtypename_<n>
}

// NewParser returns a Parser over tokens. Warnings go to r; a nil r discards
// them.
func NewParser(tokens []Token, r *Reporter) *Parser {
	if r == nil {
		r = NewReporter(nil, false)
	}
	return &Parser{tokens: tokens, arena: NewArena(), reporter: r}
}

// Parse builds an AST from tokens.
func Parse(tokens []Token, r *Reporter) (*AST, error) {
	return NewParser(tokens, r).Parse()
}

// ParseExpression parses tokens as a single expression.
func ParseExpression(tokens []Token) (*AST, error) {
	p := NewParser(tokens, nil)
	id, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.unexpected(tok, "after expression")
	}
	return &AST{Arena: p.arena, Roots: []NodeID{id}}, nil
}

// Parse parses every top level statement. The first error stops the parse.
func (p *Parser) Parse() (*AST, error) {
	ast := &AST{Arena: p.arena}
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		var (
			id  NodeID
			err error
		)
		switch {
		case tok.IsSymbol(';'):
			p.next()
			continue
		case tok.IsSymbol('{'):
			return nil, unsupported(tok.Pos, "bodies")
		case tok.IsSymbol('#'):
			return nil, unsupported(tok.Pos, "preprocessor directives")
		case tok.Kind == TokenSymbol:
			return nil, p.unexpected(tok, "at the start of a statement")
		case tok.Kind == TokenKeyword:
			id, err = p.parseKeyword()
		default:
			id, err = p.parseExpression()
			if err == nil {
				if t, ok := p.peek(); ok && t.IsSymbol(';') {
					p.next()
				}
			}
		}
		if err != nil {
			return nil, err
		}
		ast.Roots = append(ast.Roots, id)
	}
	return ast, nil
}

// Arena returns the arena nodes are allocated in.
func (p *Parser) Arena() *Arena { return p.arena }

// skip moves past tokens the grammar ignores.
func (p *Parser) skip() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].isSkippable() {
		p.pos++
	}
}

// peek returns the next significant token without consuming it.
func (p *Parser) peek() (Token, bool) {
	p.skip()
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// peekAt returns the significant token offset places after the next one.
func (p *Parser) peekAt(offset int) (Token, bool) {
	p.skip()
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].isSkippable() {
			continue
		}
		if offset == 0 {
			return p.tokens[i], true
		}
		offset--
	}
	return Token{}, false
}

// next consumes and returns the next significant token.
func (p *Parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *Parser) expectSymbol(c rune, context string) (Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, p.errEOF("expected `" + string(c) + "' " + context)
	}
	if !tok.IsSymbol(c) {
		return tok, newError(ErrUnexpectedToken, tok.Pos, "expected `%c' %s but got %s `%s'", c, context, tok.Kind, tok.Value())
	}
	return tok, nil
}

func (p *Parser) unexpected(tok Token, context string) error {
	return newError(ErrUnexpectedToken, tok.Pos, "unexpected %s `%s' %s", tok.Kind, tok.Value(), context)
}

func (p *Parser) errEOF(msg string) error {
	var pos Position
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Pos
	}
	return newError(ErrUnexpectedToken, pos, "unexpected end of input, %s", msg)
}

// statementKeywords names the construct each statement keyword starts.
var statementKeywords = map[string]string{
	"if":       "if statements",
	"else":     "else statements",
	"while":    "while loops",
	"do":       "do-while loops",
	"for":      "for loops",
	"switch":   "switch statements",
	"case":     "case labels",
	"default":  "default labels",
	"goto":     "goto statements",
	"return":   "return statements",
	"break":    "break statements",
	"continue": "continue statements",
	"typedef":  "typedefs",
	"sizeof":   "sizeof expressions",
	"include":  "include directives",
}

func (p *Parser) parseKeyword() (NodeID, error) {
	tok, _ := p.peek()
	if isDatatypeStart(tok) {
		return p.parseDeclaration()
	}
	if construct, ok := statementKeywords[tok.Text]; ok {
		return NoNode, unsupported(tok.Pos, construct)
	}
	return NoNode, p.unexpected(tok, "at the start of a statement")
}

// parseDeclaration parses a datatype followed by one or more declarators.
func (p *Parser) parseDeclaration() (NodeID, error) {
	start, _ := p.peek()
	dt, err := p.parseDatatype()
	if err != nil {
		return NoNode, err
	}

	tok, ok := p.peek()
	if !ok {
		return NoNode, p.errEOF("expected a name after the datatype")
	}
	if dt.IsStructOrUnion() {
		switch {
		case tok.IsSymbol('{'):
			if dt.Kind == TypeUnion {
				return NoNode, unsupported(tok.Pos, "unions")
			}
			return NoNode, unsupported(tok.Pos, "structs")
		case tok.IsSymbol(';'):
			p.next()
			if dt.Kind == TypeUnion {
				return p.arena.New(start.Pos, &UnionPayload{Type: dt, Name: dt.TypeName, Body: NoNode}), nil
			}
			return p.arena.New(start.Pos, &StructPayload{Type: dt, Name: dt.TypeName, Body: NoNode}), nil
		}
	}

	var vars []NodeID
	for {
		id, err := p.parseDeclarator(dt)
		if err != nil {
			return NoNode, err
		}
		vars = append(vars, id)

		tok, ok := p.peek()
		if !ok || !tok.IsOperator(",") {
			break
		}
		p.next()
	}
	if _, err := p.expectSymbol(';', "after variable declaration"); err != nil {
		return NoNode, err
	}

	if len(vars) == 1 {
		return vars[0], nil
	}
	return p.arena.New(start.Pos, &VariableListPayload{Vars: vars}), nil
}

func (p *Parser) parseDeclarator(dt *Datatype) (NodeID, error) {
	name, ok := p.next()
	if !ok {
		return NoNode, p.errEOF("expected a variable name")
	}
	if name.Kind != TokenIdentifier {
		return NoNode, newError(ErrUnexpectedToken, name.Pos, "expected a variable name but got %s `%s'", name.Kind, name.Value())
	}

	if tok, ok := p.peek(); ok && tok.IsOperator("(") {
		return NoNode, unsupported(tok.Pos, "functions")
	}

	// Each declarator gets its own copy so `int a[3], b;` leaves b scalar.
	typ := *dt
	v := &VariablePayload{Type: &typ, Name: name.Text, Init: NoNode}
	for {
		tok, ok := p.peek()
		if !ok || !tok.IsOperator("[") {
			break
		}
		p.next()
		dim, err := p.parseExpression()
		if err != nil {
			return NoNode, err
		}
		if _, err := p.expectSymbol(']', "to close the array size"); err != nil {
			return NoNode, err
		}
		v.Brackets = append(v.Brackets, p.arena.New(tok.Pos, &BracketPayload{Inner: dim}))
	}
	if len(v.Brackets) > 0 {
		typ.Flags |= DatatypeArray
	}

	if tok, ok := p.peek(); ok && tok.IsOperator("=") {
		p.next()
		init, err := p.parseExpressionList(true)
		if err != nil {
			return NoNode, err
		}
		v.Init = init
	}
	return p.arena.New(name.Pos, v), nil
}

// parseExpression parses a full expression, commas included.
func (p *Parser) parseExpression() (NodeID, error) {
	return p.parseExpressionList(false)
}

// parseExpressionList parses an expression. When stopAtComma is set a
// top level comma ends it, as between call arguments or declarators.
func (p *Parser) parseExpressionList(stopAtComma bool) (NodeID, error) {
	left, err := p.parseOperand()
	if err != nil {
		return NoNode, err
	}
	return p.parseBinaryTail(left, stopAtComma)
}

// parseBinaryTail extends left with a binary operator and its right hand
// side, if one follows.
func (p *Parser) parseBinaryTail(left NodeID, stopAtComma bool) (NodeID, error) {
	tok, ok := p.peek()
	if !ok || tok.Kind != TokenOperator {
		return left, nil
	}
	if stopAtComma && tok.IsOperator(",") {
		return left, nil
	}

	if tok.IsOperator("?") {
		p.next()
		ifTrue, err := p.parseExpression()
		if err != nil {
			return NoNode, err
		}
		if _, err := p.expectSymbol(':', "in conditional expression"); err != nil {
			return NoNode, err
		}
		ifFalse, err := p.parseExpressionList(true)
		if err != nil {
			return NoNode, err
		}
		tern := p.arena.New(tok.Pos, &TernaryPayload{True: ifTrue, False: ifFalse})
		cond := p.newExpr(tok.Pos, left, "?", tern)
		return p.parseBinaryTail(cond, stopAtComma)
	}

	if rank, _, ok := LookupOperator(tok.Text); !ok || rank == 0 {
		return NoNode, newError(ErrUnexpectedToken, tok.Pos, "`%s' is not a binary operator", tok.Text)
	}
	p.next()
	right, err := p.parseExpressionList(stopAtComma)
	if err != nil {
		return NoNode, err
	}
	id := p.newExpr(tok.Pos, left, tok.Text, right)
	p.reorder(id)
	return id, nil
}

func (p *Parser) newExpr(pos Position, left NodeID, op string, right NodeID) NodeID {
	return p.arena.New(pos, &ExprPayload{Left: left, Op: op, Right: right})
}

// reorder re-associates the expression at id in place. When the right child
// is an expression whose operator must bind after ours,
//
//	(a op1 (b op2 c))  becomes  ((a op1 b) op2 c)
//
// and both new children are reordered in turn.
func (p *Parser) reorder(id NodeID) {
	n := p.arena.Node(id)
	e, ok := n.Payload.(*ExprPayload)
	if !ok {
		return
	}
	r := p.arena.Node(e.Right)
	if r == nil {
		return
	}
	re, ok := r.Payload.(*ExprPayload)
	if !ok || !shouldRotate(e.Op, re.Op) {
		return
	}

	leftPos, rightPos := n.Pos, r.Pos
	newLeft := p.newExpr(leftPos, e.Left, e.Op, re.Left)

	// New may have grown the arena, so n is fetched again. The old right
	// child stays in the arena unreferenced.
	n = p.arena.Node(id)
	n.Pos = rightPos
	n.Payload = &ExprPayload{Left: newLeft, Op: re.Op, Right: re.Right}

	p.reorder(newLeft)
	p.reorder(re.Right)
}

var prefixOperators = map[string]bool{
	"-": true, "+": true, "!": true, "~": true, "*": true, "&": true, "++": true, "--": true,
}

// parseOperand parses a primary with its prefix and postfix operators.
func (p *Parser) parseOperand() (NodeID, error) {
	tok, ok := p.next()
	if !ok {
		return NoNode, p.errEOF("expected an expression")
	}

	var id NodeID
	switch {
	case tok.Kind == TokenNumber:
		id = p.arena.New(tok.Pos, &NumberPayload{Value: tok.Number, Type: tok.NumberType, Float: tok.Float, Text: tok.Text})
	case tok.Kind == TokenIdentifier:
		id = p.arena.New(tok.Pos, &IdentifierPayload{Name: tok.Text})
	case tok.Kind == TokenString:
		id = p.arena.New(tok.Pos, &StringPayload{Value: tok.Text})

	case tok.IsOperator("("):
		if t, ok := p.peek(); ok && isDatatypeStart(t) {
			return p.parseCast(tok)
		}
		inner, err := p.parseExpression()
		if err != nil {
			return NoNode, err
		}
		if _, err := p.expectSymbol(')', "to close the expression"); err != nil {
			return NoNode, err
		}
		id = p.arena.New(tok.Pos, &ParenPayload{Inner: inner})

	case tok.Kind == TokenOperator && prefixOperators[tok.Text]:
		operand, err := p.parseOperand()
		if err != nil {
			return NoNode, err
		}
		return p.arena.New(tok.Pos, &UnaryPayload{Op: tok.Text, Operand: operand}), nil

	case tok.IsKeyword("sizeof"):
		return NoNode, unsupported(tok.Pos, "sizeof expressions")

	default:
		return NoNode, p.unexpected(tok, "in expression")
	}
	return p.parsePostfix(id)
}

func (p *Parser) parseCast(open Token) (NodeID, error) {
	dt, err := p.parseDatatype()
	if err != nil {
		return NoNode, err
	}
	if _, err := p.expectSymbol(')', "after cast type"); err != nil {
		return NoNode, err
	}
	operand, err := p.parseOperand()
	if err != nil {
		return NoNode, err
	}
	return p.arena.New(open.Pos, &CastPayload{Type: dt, Operand: operand}), nil
}

// parsePostfix applies calls, subscripts, member access and postfix
// increments to id, left to right.
func (p *Parser) parsePostfix(id NodeID) (NodeID, error) {
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenOperator {
			return id, nil
		}
		switch tok.Text {
		case "(":
			p.next()
			args, err := p.parseArguments(tok)
			if err != nil {
				return NoNode, err
			}
			id = p.newExpr(tok.Pos, id, "()", args)

		case "[":
			p.next()
			index, err := p.parseExpression()
			if err != nil {
				return NoNode, err
			}
			if _, err := p.expectSymbol(']', "to close the subscript"); err != nil {
				return NoNode, err
			}
			id = p.newExpr(tok.Pos, id, "[]", p.arena.New(tok.Pos, &BracketPayload{Inner: index}))

		case ".", "->":
			p.next()
			member, ok := p.next()
			if !ok {
				return NoNode, p.errEOF("expected a member name")
			}
			if member.Kind != TokenIdentifier {
				return NoNode, newError(ErrUnexpectedToken, member.Pos, "expected a member name after `%s' but got %s `%s'", tok.Text, member.Kind, member.Value())
			}
			id = p.newExpr(tok.Pos, id, tok.Text, p.arena.New(member.Pos, &IdentifierPayload{Name: member.Text}))

		case "++", "--":
			p.next()
			id = p.arena.New(tok.Pos, &UnaryPayload{Op: tok.Text, Operand: id})
			p.arena.Node(id).Flags |= NodeFlagPostfix

		default:
			return id, nil
		}
	}
}

// parseArguments parses a call's arguments after the opening parenthesis.
// Arguments wait on the node stack until the closing parenthesis.
func (p *Parser) parseArguments(open Token) (NodeID, error) {
	mark := p.stack.Len()
	if tok, ok := p.peek(); ok && tok.IsSymbol(')') {
		p.next()
		return p.arena.New(open.Pos, &ArgumentListPayload{}), nil
	}
	for {
		arg, err := p.parseExpressionList(true)
		if err != nil {
			p.stack.PopTo(mark)
			return NoNode, err
		}
		p.stack.Push(arg)

		tok, ok := p.next()
		if !ok {
			p.stack.PopTo(mark)
			return NoNode, p.errEOF("expected `)' to close the argument list")
		}
		if tok.IsSymbol(')') {
			break
		}
		if !tok.IsOperator(",") {
			p.stack.PopTo(mark)
			return NoNode, newError(ErrUnexpectedToken, tok.Pos, "expected `,' or `)' in argument list but got %s `%s'", tok.Kind, tok.Value())
		}
	}
	return p.arena.New(open.Pos, &ArgumentListPayload{Items: p.stack.PopTo(mark)}), nil
}
