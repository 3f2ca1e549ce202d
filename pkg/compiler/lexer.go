package compiler

import (
	"fmt"
	"strconv"
)

// validOperators is every operator text the lexer accepts.
var validOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"!": true, "^": true, "~": true, "?": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "^=": true, "|=": true, "<<=": true, ">>=": true,
	">>": true, "<<": true, ">=": true, "<=": true, ">": true, "<": true,
	"||": true, "&&": true, "|": true, "&": true,
	"++": true, "--": true,
	"=": true, "!=": true, "==": true,
	"->": true, "(": true, "[": true, ",": true, ".": true,
}

// IsValidOperator reports whether op is an operator the lexer can produce.
func IsValidOperator(op string) bool {
	return validOperators[op]
}

// opTreatedAsOne lists operators that never start a two character operator.
// '*' is left out so that `*=` lexes as a single operator.
func opTreatedAsOne(c rune) bool {
	return c == '(' || c == '[' || c == ',' || c == '.' || c == '?'
}

// isOperatorChar reports characters that may appear in an operator.
func isOperatorChar(c rune) bool {
	switch c {
	case '+', '-', '/', '*', '=', '>', '<', '|', '&', '^', '%', '!', '(', '[', ',', '.', '~', '?':
		return true
	}
	return false
}

func isSymbolChar(c rune) bool {
	switch c {
	case '{', '}', ':', ';', '#', '\\', ')', ']':
		return true
	}
	return false
}

func isDigit(c rune) bool  { return c >= '0' && c <= '9' }
func isLetter(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentPart(c rune) bool { return isLetter(c) || isDigit(c) || c == '_' }

// escapedChar maps the character after a backslash in a character literal.
// Unknown escapes map to 0.
func escapedChar(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case '\\':
		return '\\'
	case 't':
		return '\t'
	case '\'':
		return '\''
	}
	return 0
}

// Lexer holds all mutable state for a single scanning pass. A Lexer is not
// safe for concurrent use; independent passes use independent Lexers.
type Lexer struct {
	src    CharSource
	pos    Position
	tokens []Token

	parenDepth int
	parenBuf   []rune // text consumed since the outermost open '('
}

// NewLexer returns a Lexer reading from src. filename is used in positions.
func NewLexer(src CharSource, filename string) *Lexer {
	return &Lexer{src: src, pos: Position{Line: 1, Col: 1, Filename: filename}}
}

// Lex tokenises src. It is shorthand for LexString(src, "<buffer>").
func Lex(src string) ([]Token, error) {
	return LexString(src, "<buffer>")
}

// LexString tokenises an in-memory string.
func LexString(src, filename string) ([]Token, error) {
	return NewLexer(NewBufferSource(src), filename).Lex()
}

// Lex reads tokens until the source is exhausted. On a fatal error it returns
// the tokens produced so far together with the error.
func (l *Lexer) Lex() ([]Token, error) {
	for {
		tok, ok, err := l.readNextToken()
		if err != nil {
			return l.tokens, err
		}
		if !ok {
			break
		}
		l.tokens = append(l.tokens, tok)
	}
	if err := l.src.Err(); err != nil {
		return l.tokens, &Error{Kind: ErrInput, Pos: l.pos, Msg: fmt.Sprintf("failed to read input: %v", err), Err: err}
	}
	return l.tokens, nil
}

// Tokens returns the tokens produced so far.
func (l *Lexer) Tokens() []Token { return l.tokens }

// ParenDepth returns the current parenthesis nesting depth.
func (l *Lexer) ParenDepth() int { return l.parenDepth }

// nextc consumes one character, recording it in the bracket buffer and
// advancing the position.
func (l *Lexer) nextc() rune {
	c := l.src.Next()
	if c == EOF {
		return EOF
	}
	if l.inExpression() {
		l.parenBuf = append(l.parenBuf, c)
	}
	l.pos.Col++
	if c == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	}
	return c
}

// pushc returns c to the source, undoing nextc.
func (l *Lexer) pushc(c rune) {
	l.src.Pushback(c)
	if l.inExpression() && len(l.parenBuf) > 0 {
		l.parenBuf = l.parenBuf[:len(l.parenBuf)-1]
	}
	if c != '\n' && l.pos.Col > 1 {
		l.pos.Col--
	}
}

func (l *Lexer) peekc() rune { return l.src.Peek() }

// readWhile consumes characters while accept holds.
func (l *Lexer) readWhile(accept func(rune) bool) string {
	var buf []rune
	for c := l.peekc(); c != EOF && accept(c); c = l.peekc() {
		buf = append(buf, l.nextc())
	}
	return string(buf)
}

func (l *Lexer) lastToken() (Token, bool) {
	if len(l.tokens) == 0 {
		return Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

func (l *Lexer) inExpression() bool { return l.parenDepth > 0 }

func (l *Lexer) newExpression() {
	l.parenDepth++
	if l.parenDepth == 1 {
		l.parenBuf = l.parenBuf[:0]
	}
}

func (l *Lexer) finishExpression(pos Position) error {
	l.parenDepth--
	if l.parenDepth < 0 {
		return newError(ErrUnbalancedParens, pos, "you closed an expression that was never opened")
	}
	return nil
}

// makeToken stamps the bracket text onto t.
func (l *Lexer) makeToken(t Token) Token {
	if l.inExpression() {
		t.BetweenBrackets = string(l.parenBuf)
	}
	return t
}

// readNextToken dispatches on the class of the next character. ok is false
// once the input is exhausted.
func (l *Lexer) readNextToken() (tok Token, ok bool, err error) {
	for {
		start := l.pos
		c := l.peekc()
		switch {
		case c == EOF:
			return Token{}, false, nil

		case c == ' ' || c == '\t' || c == '\r':
			if n := len(l.tokens); n > 0 {
				l.tokens[n-1].Whitespace = true
			}
			l.nextc()
			continue

		case c == '\n':
			l.nextc()
			return l.makeToken(Token{Kind: TokenNewline, Pos: start}), true, nil

		case c == '/':
			tok, err = l.readCommentOrDivision(start)

		case isDigit(c):
			tok, err = l.readNumber(start)

		case (c == 'x' || c == 'b') && l.followsZero():
			tok, err = l.readSpecialNumber(c)

		case c == '"':
			tok, err = l.readString(start, '"', '"')

		case c == '\'':
			tok, err = l.readQuote(start)

		case isOperatorChar(c):
			tok, err = l.readOperatorOrString(start)

		case isSymbolChar(c):
			tok, err = l.readSymbol(start)

		case isLetter(c) || c == '_':
			tok = l.readIdentifierOrKeyword(start)

		default:
			return Token{}, false, newError(ErrUnexpectedToken, start, "unexpected character %q", c)
		}
		if err != nil {
			return Token{}, false, err
		}
		return tok, true, nil
	}
}

// followsZero reports whether the previous token is a bare 0 literal directly
// adjacent to the current character, i.e. the prefix of 0x.. or 0b...
func (l *Lexer) followsZero() bool {
	last, ok := l.lastToken()
	return ok && last.Kind == TokenNumber && last.Number == 0 &&
		last.NumberType == NumberNormal && last.Text == "" && !last.Whitespace
}

func (l *Lexer) readCommentOrDivision(start Position) (Token, error) {
	l.nextc() // '/'
	switch l.peekc() {
	case '/':
		l.nextc()
		text := l.readWhile(func(c rune) bool { return c != '\n' })
		return l.makeToken(Token{Kind: TokenComment, Pos: start, Text: text}), nil
	case '*':
		l.nextc()
		return l.readBlockComment(start)
	}
	l.pushc('/')
	return l.readOperatorOrString(start)
}

func (l *Lexer) readBlockComment(start Position) (Token, error) {
	var buf []rune
	for {
		c := l.nextc()
		if c == EOF {
			return Token{}, newError(ErrUnterminatedComment, start, "you didn't close a multiline comment")
		}
		if c == '*' && l.peekc() == '/' {
			l.nextc()
			break
		}
		buf = append(buf, c)
	}
	return l.makeToken(Token{Kind: TokenComment, Pos: start, Text: string(buf)}), nil
}

func (l *Lexer) readNumber(start Position) (Token, error) {
	digits := l.readWhile(isDigit)
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Token{}, newError(ErrInvalidNumber, start, "number %s does not fit in 64 bits", digits)
	}
	tok := Token{Kind: TokenNumber, Pos: start, Number: n}

	if l.peekc() == '.' {
		l.nextc()
		if isDigit(l.peekc()) {
			frac := l.readWhile(isDigit)
			tok.Text = digits + "." + frac
			tok.Float, _ = strconv.ParseFloat(tok.Text, 64)
			tok.NumberType = NumberDouble
		} else {
			l.pushc('.')
		}
	}
	l.readNumberSuffix(&tok)
	return l.makeToken(tok), nil
}

func (l *Lexer) readNumberSuffix(tok *Token) {
	switch l.peekc() {
	case 'L':
		tok.NumberType = NumberLong
		l.nextc()
	case 'f':
		tok.NumberType = NumberFloat
		l.nextc()
	}
}

// readSpecialNumber replaces the 0 token just emitted with a hex or binary
// literal. prefix is 'x' or 'b'.
func (l *Lexer) readSpecialNumber(prefix rune) (Token, error) {
	zero := l.tokens[len(l.tokens)-1]
	l.tokens = l.tokens[:len(l.tokens)-1]
	l.nextc() // prefix

	var (
		n   uint64
		err error
	)
	if prefix == 'x' {
		digits := l.readWhile(isHexDigit)
		if digits != "" {
			n, err = strconv.ParseUint(digits, 16, 64)
		}
		if err != nil {
			return Token{}, newError(ErrInvalidNumber, zero.Pos, "hex number 0x%s does not fit in 64 bits", digits)
		}
	} else {
		digits := l.readWhile(isDigit)
		for _, d := range digits {
			if d != '0' && d != '1' {
				return Token{}, newError(ErrInvalidBinaryLiteral, zero.Pos, "0b%s is not a valid binary number", digits)
			}
		}
		if digits != "" {
			n, err = strconv.ParseUint(digits, 2, 64)
		}
		if err != nil {
			return Token{}, newError(ErrInvalidNumber, zero.Pos, "binary number 0b%s does not fit in 64 bits", digits)
		}
	}

	tok := Token{Kind: TokenNumber, Pos: zero.Pos, Number: n}
	l.readNumberSuffix(&tok)
	return l.makeToken(tok), nil
}

// readString reads a literal between open and close. A backslash is consumed
// and the character after it is kept as written; escapes are not translated.
func (l *Lexer) readString(start Position, open, close rune) (Token, error) {
	l.nextc() // open
	var buf []rune
	for {
		c := l.nextc()
		if c == EOF {
			return Token{}, newError(ErrUnterminatedString, start, "you didn't close the string started with `%c'", open)
		}
		if c == close {
			break
		}
		if c == '\\' {
			if c = l.nextc(); c == EOF {
				return Token{}, newError(ErrUnterminatedString, start, "you didn't close the string started with `%c'", open)
			}
		}
		buf = append(buf, c)
	}
	return l.makeToken(Token{Kind: TokenString, Pos: start, Text: string(buf)}), nil
}

// readQuote reads a character literal into a Number token holding its code.
func (l *Lexer) readQuote(start Position) (Token, error) {
	l.nextc() // '
	c := l.nextc()
	if c == '\\' {
		c = escapedChar(l.nextc())
	}
	if c == EOF || l.nextc() != '\'' {
		return Token{}, newError(ErrUnterminatedCharLiteral, start, "you opened a quote `'' but didn't close it with a `'' character")
	}
	return l.makeToken(Token{Kind: TokenNumber, Pos: start, Number: uint64(c)}), nil
}

func (l *Lexer) readOperatorOrString(start Position) (Token, error) {
	c := l.peekc()
	if c == '<' {
		if last, ok := l.lastToken(); ok && last.IsKeyword("include") {
			return l.readString(start, '<', '>')
		}
	}

	op, err := l.readOp(start)
	if err != nil {
		return Token{}, err
	}
	tok := l.makeToken(Token{Kind: TokenOperator, Pos: start, Text: op})
	if c == '(' {
		l.newExpression()
	}
	return tok, nil
}

// readOp reads an operator with up to one character of lookahead. When the
// two character combination is not an operator the second character is
// pushed back and only the first is kept.
func (l *Lexer) readOp(start Position) (string, error) {
	first := l.nextc()
	op := string(first)

	if !opTreatedAsOne(first) {
		if second := l.peekc(); isOperatorChar(second) {
			l.nextc()
			if validOperators[op+string(second)] {
				op += string(second)
				if (op == "<<" || op == ">>") && l.peekc() == '=' {
					op += string(l.nextc())
				}
			} else {
				l.pushc(second)
			}
		}
	}

	if !validOperators[op] {
		return "", newError(ErrInvalidOperator, start, "the operator `%s' is not valid", op)
	}
	return op, nil
}

func (l *Lexer) readSymbol(start Position) (Token, error) {
	c := l.nextc()
	if c == ')' {
		if err := l.finishExpression(start); err != nil {
			return Token{}, err
		}
	}
	return l.makeToken(Token{Kind: TokenSymbol, Pos: start, Char: c}), nil
}

func (l *Lexer) readIdentifierOrKeyword(start Position) Token {
	word := l.readWhile(isIdentPart)
	kind := TokenIdentifier
	if keywords[word] {
		kind = TokenKeyword
	}
	return l.makeToken(Token{Kind: kind, Pos: start, Text: word})
}
