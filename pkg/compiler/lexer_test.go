package compiler

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"
	"testing/iotest"
)

// tok is the part of a Token most tests care about.
type tok struct {
	Kind  TokenKind
	Value string
}

func summarize(tokens []Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{t.Kind, t.Value()}
	}
	return out
}

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}
	return tokens
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tok
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []tok{},
		},
		{
			name:  "Assignment",
			input: "a += 1;",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenOperator, "+="},
				{TokenNumber, "1"},
				{TokenSymbol, ";"},
			},
		},
		{
			name:  "Keywords and Identifiers",
			input: "unsigned long counter_1 _x",
			expected: []tok{
				{TokenKeyword, "unsigned"},
				{TokenKeyword, "long"},
				{TokenIdentifier, "counter_1"},
				{TokenIdentifier, "_x"},
			},
		},
		{
			name:  "Symbols",
			input: "{ } : ; # \\ ]",
			expected: []tok{
				{TokenSymbol, "{"},
				{TokenSymbol, "}"},
				{TokenSymbol, ":"},
				{TokenSymbol, ";"},
				{TokenSymbol, "#"},
				{TokenSymbol, "\\"},
				{TokenSymbol, "]"},
			},
		},
		{
			name:  "Flush Back Keeps First Character",
			input: "a<-1",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenOperator, "<"},
				{TokenOperator, "-"},
				{TokenNumber, "1"},
			},
		},
		{
			name:  "Not Before Paren",
			input: "!(x)",
			expected: []tok{
				{TokenOperator, "!"},
				{TokenOperator, "("},
				{TokenIdentifier, "x"},
				{TokenSymbol, ")"},
			},
		},
		{
			name:  "Always Single",
			input: "a.b,c?d",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenOperator, "."},
				{TokenIdentifier, "b"},
				{TokenOperator, ","},
				{TokenIdentifier, "c"},
				{TokenOperator, "?"},
				{TokenIdentifier, "d"},
			},
		},
		{
			name:  "Shift Assign",
			input: "x <<= 2 >>= 1",
			expected: []tok{
				{TokenIdentifier, "x"},
				{TokenOperator, "<<="},
				{TokenNumber, "2"},
				{TokenOperator, ">>="},
				{TokenNumber, "1"},
			},
		},
		{
			name:  "Pointer Stars",
			input: "int **p",
			expected: []tok{
				{TokenKeyword, "int"},
				{TokenOperator, "*"},
				{TokenOperator, "*"},
				{TokenIdentifier, "p"},
			},
		},
		{
			name:  "Include Angle Brackets",
			input: "#include <stdio.h>",
			expected: []tok{
				{TokenSymbol, "#"},
				{TokenKeyword, "include"},
				{TokenString, "stdio.h"},
			},
		},
		{
			name:  "Comments",
			input: "a // line\n/* block */ b",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenComment, " line"},
				{TokenNewline, "\\n"},
				{TokenComment, " block "},
				{TokenIdentifier, "b"},
			},
		},
		{
			name:  "Division",
			input: "a / b /= c",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenOperator, "/"},
				{TokenIdentifier, "b"},
				{TokenOperator, "/="},
				{TokenIdentifier, "c"},
			},
		},
		{
			name:  "Strings",
			input: `"hi there" "a\"b" "c\nd"`,
			expected: []tok{
				{TokenString, "hi there"},
				{TokenString, `a"b`},
				{TokenString, "cnd"},
			},
		},
		{
			name:  "Carriage Return",
			input: "a\r\nb",
			expected: []tok{
				{TokenIdentifier, "a"},
				{TokenNewline, "\\n"},
				{TokenIdentifier, "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(mustLex(t, tt.input))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex(%q)\n got: %v\nwant: %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLexEveryValidOperator(t *testing.T) {
	ops := make([]string, 0, len(validOperators))
	for op := range validOperators {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			tokens := mustLex(t, op)
			if len(tokens) != 1 {
				t.Fatalf("Lex(%q) produced %d tokens: %v", op, len(tokens), summarize(tokens))
			}
			if tokens[0].Kind != TokenOperator || tokens[0].Text != op {
				t.Errorf("Lex(%q) = %v, want one operator", op, summarize(tokens))
			}
		})
	}
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		input string
		value uint64
		typ   NumberType
		float float64
	}{
		{"42", 42, NumberNormal, 0},
		{"0", 0, NumberNormal, 0},
		{"0x1A", 26, NumberNormal, 0},
		{"0xff", 255, NumberNormal, 0},
		{"0x", 0, NumberNormal, 0},
		{"0b101", 5, NumberNormal, 0},
		{"0b0", 0, NumberNormal, 0},
		{"100L", 100, NumberLong, 0},
		{"0x10L", 16, NumberLong, 0},
		{"7f", 7, NumberFloat, 0},
		{"2.5f", 2, NumberFloat, 2.5},
		{"2.5", 2, NumberDouble, 2.5},
		{"'a'", 'a', NumberNormal, 0},
		{`'\n'`, '\n', NumberNormal, 0},
		{`'\\'`, '\\', NumberNormal, 0},
		{`'\t'`, '\t', NumberNormal, 0},
		{`'\''`, '\'', NumberNormal, 0},
		{`'\q'`, 0, NumberNormal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustLex(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("Lex(%q) produced %d tokens: %v", tt.input, len(tokens), summarize(tokens))
			}
			got := tokens[0]
			if got.Kind != TokenNumber || got.Number != tt.value || got.NumberType != tt.typ || got.Float != tt.float {
				t.Errorf("Lex(%q) = {%v %d %v %v}, want {NUMBER %d %v %v}",
					tt.input, got.Kind, got.Number, got.NumberType, got.Float, tt.value, tt.typ, tt.float)
			}
			if got.Pos.Col != 1 {
				t.Errorf("Lex(%q) starts at col %d, want 1", tt.input, got.Pos.Col)
			}
		})
	}
}

func TestLexZeroFollowedBySpace(t *testing.T) {
	got := summarize(mustLex(t, "0 x"))
	want := []tok{{TokenNumber, "0"}, {TokenIdentifier, "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLexMemberAfterNumber(t *testing.T) {
	got := summarize(mustLex(t, "a[0].x 3.y"))
	want := []tok{
		{TokenIdentifier, "a"},
		{TokenOperator, "["},
		{TokenNumber, "0"},
		{TokenSymbol, "]"},
		{TokenOperator, "."},
		{TokenIdentifier, "x"},
		{TokenNumber, "3"},
		{TokenOperator, "."},
		{TokenIdentifier, "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"Invalid Binary", "0b102", ErrInvalidBinaryLiteral},
		{"Unterminated Comment", "a /* never closed", ErrUnterminatedComment},
		{"Unterminated Char", "'a", ErrUnterminatedCharLiteral},
		{"Char Too Long", "'ab'", ErrUnterminatedCharLiteral},
		{"Unterminated String", `"abc`, ErrUnterminatedString},
		{"Unbalanced Paren", "a)", ErrUnbalancedParens},
		{"Unknown Character", "a @ b", ErrUnexpectedToken},
		{"Decimal Overflow", "99999999999999999999", ErrInvalidNumber},
		{"Hex Overflow", "0x1ffffffffffffffff", ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("Lex(%q) succeeded, want %v", tt.input, tt.kind)
			}
			if !IsKind(err, tt.kind) {
				t.Errorf("Lex(%q) error = %v, want kind %v", tt.input, err, tt.kind)
			}
		})
	}
}

func TestLexErrorMessage(t *testing.T) {
	_, err := LexString("x = 1;\ny = 0b12;", "main.c")
	want := "0b12 is not a valid binary number on line 2, col 5 in file main.c"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestLexPositions(t *testing.T) {
	tokens, err := LexString("a\n  bc+1", "pos.c")
	if err != nil {
		t.Fatal(err)
	}
	want := []Position{
		{Line: 1, Col: 1, Filename: "pos.c"},
		{Line: 1, Col: 2, Filename: "pos.c"},
		{Line: 2, Col: 3, Filename: "pos.c"},
		{Line: 2, Col: 5, Filename: "pos.c"},
		{Line: 2, Col: 6, Filename: "pos.c"},
	}
	var got []Position
	for _, tk := range tokens {
		got = append(got, tk.Pos)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions\n got: %v\nwant: %v", got, want)
	}
}

func TestLexWhitespaceMarksPreviousToken(t *testing.T) {
	tokens := mustLex(t, "a b+c")
	want := []bool{true, false, false, false}
	for i, tk := range tokens {
		if tk.Whitespace != want[i] {
			t.Errorf("token %d (%s) Whitespace = %v, want %v", i, tk.Value(), tk.Whitespace, want[i])
		}
	}
}

func TestLexParenDepth(t *testing.T) {
	l := NewLexer(NewBufferSource("((a)"), "<buffer>")
	if _, err := l.Lex(); err != nil {
		t.Fatal(err)
	}
	if l.ParenDepth() != 1 {
		t.Errorf("ParenDepth() = %d, want 1", l.ParenDepth())
	}
}

func TestLexBetweenBrackets(t *testing.T) {
	tokens := mustLex(t, "x = (5+10+20);")

	var inner []Token
	for _, tk := range tokens {
		if tk.BetweenBrackets != "" && !tk.IsSymbol(')') {
			inner = append(inner, tk)
		}
	}
	if len(inner) != 5 {
		t.Fatalf("got %d tokens inside brackets, want 5", len(inner))
	}
	last := inner[len(inner)-1]
	if last.BetweenBrackets != "5+10+20" {
		t.Fatalf("BetweenBrackets = %q, want %q", last.BetweenBrackets, "5+10+20")
	}

	relexed := summarize(mustLex(t, last.BetweenBrackets))
	if want := summarize(inner); !reflect.DeepEqual(relexed, want) {
		t.Errorf("re-lexed brackets\n got: %v\nwant: %v", relexed, want)
	}
	for _, tk := range inner {
		if !strings.HasPrefix(last.BetweenBrackets, tk.BetweenBrackets) {
			t.Errorf("%q is not a prefix of %q", tk.BetweenBrackets, last.BetweenBrackets)
		}
	}
}

func TestLexBetweenBracketsNested(t *testing.T) {
	tokens := mustLex(t, "(a*(b+c)) + (d)")
	var got []string
	for _, tk := range tokens {
		got = append(got, tk.BetweenBrackets)
	}
	want := []string{
		"",         // (
		"a",        // a
		"a*",       // *
		"a*(",      // (
		"a*(b",     // b
		"a*(b+",    // +
		"a*(b+c",   // c
		"a*(b+c)",  // )
		"",         // ) closes the outermost
		"",         // +
		"",         // (
		"d",        // d
		"",         // )
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BetweenBrackets\n got: %q\nwant: %q", got, want)
	}
}

func TestLexFileSource(t *testing.T) {
	src := "int x = 0x1F; // done\n"
	want, err := Lex(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := NewLexer(NewFileSource(strings.NewReader(src)), "<buffer>").Lex()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("file source tokens differ\n got: %v\nwant: %v", got, want)
	}
}

func TestLexReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewLexer(NewFileSource(iotest.ErrReader(boom)), "bad.c").Lex()
	if !IsKind(err, ErrInput) {
		t.Fatalf("error = %v, want kind Input", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the read error", err)
	}
}
