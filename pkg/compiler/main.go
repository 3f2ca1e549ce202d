// Package compiler is the front end of kcc, a compiler for a C-family
// language: a lexer, an expression and datatype parser and a symbol table.
//
// Pipeline: source → Lex → []Token → Parse → AST (Arena + roots) → ResolveSymbols
//
// Code generation is not implemented; CompileFile creates the output file
// but writes nothing to it.
package compiler
