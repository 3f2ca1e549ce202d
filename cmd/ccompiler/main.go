// Command ccompiler runs the front end on one file, or on a built-in sample,
// and prints every intermediate stage. It is a debugging aid; use kcc for
// normal work.
package main

import (
	"fmt"
	"os"

	"kcc/pkg/compiler"
)

const testSource = `x = 10 - 5 - 2;
y = (a + b) * c[1] ? f(1, 2) : -z++;
`

func main() {
	src := testSource
	filename := "<sample>"
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
		filename = os.Args[1]
	}
	fmt.Printf("Source:\n%s\n", src)

	rep := compiler.NewReporter(os.Stderr, true)

	// Lex
	tokens, err := compiler.LexString(src, filename)
	if err != nil {
		rep.Error(err)
		os.Exit(1)
	}
	fmt.Printf("Tokens (%d)\n", len(tokens))
	compiler.DumpTokens(os.Stdout, tokens)
	fmt.Println()

	// Parse
	ast, err := compiler.Parse(tokens, rep)
	if err != nil {
		rep.Error(err)
		os.Exit(1)
	}
	fmt.Println("AST")
	fmt.Print(ast)
	fmt.Println()
	compiler.DumpAST(os.Stdout, ast)
	fmt.Println()

	// Symbols
	syms := compiler.NewSymbolTable()
	if err := compiler.ResolveSymbols(ast, syms); err != nil {
		rep.Error(err)
		os.Exit(1)
	}
	fmt.Print(syms)
}
