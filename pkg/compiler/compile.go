package compiler

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Flags is reserved for compile options. No bit is defined yet.
type Flags uint32

// Status is the overall result of CompileFile.
type Status int

const (
	StatusOK Status = iota
	StatusFailedWithErrors
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "failed with errors"
}

// Options configures where a Process reports to.
type Options struct {
	Reporter *Reporter   // diagnostics; discarded when nil
	Logger   *slog.Logger // operational logging; slog.Default() when nil
}

// Process is one compilation of one source file. Processes share nothing,
// so several may run at once.
type Process struct {
	ID         uuid.UUID
	Flags      Flags
	SourcePath string
	OutputPath string

	Tokens  []Token
	AST     *AST
	Symbols *SymbolTable

	source   *os.File
	output   *os.File
	reporter *Reporter
	log      *slog.Logger
}

// NewProcess opens sourcePath for reading and, when outputPath is not empty,
// creates or truncates outputPath. Either failure is an ErrInput error.
func NewProcess(sourcePath, outputPath string, flags Flags, opts Options) (*Process, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, &Error{Kind: ErrInput, Msg: fmt.Sprintf("cannot open source file: %v", err), Err: err}
	}

	var out *os.File
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			f.Close()
			return nil, &Error{Kind: ErrInput, Msg: fmt.Sprintf("cannot open output file: %v", err), Err: err}
		}
	}

	if opts.Reporter == nil {
		opts.Reporter = NewReporter(nil, false)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	id := uuid.New()
	return &Process{
		ID:         id,
		Flags:      flags,
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Symbols:    NewSymbolTable(),
		source:     f,
		output:     out,
		reporter:   opts.Reporter,
		log:        opts.Logger.With("session", id.String(), "file", sourcePath),
	}, nil
}

// Lex tokenises the source file.
func (p *Process) Lex() error {
	start := time.Now()
	tokens, err := NewLexer(NewFileSource(p.source), p.SourcePath).Lex()
	p.Tokens = tokens
	if err != nil {
		return err
	}
	p.log.Debug("lexed", "tokens", len(tokens), "elapsed", time.Since(start))
	return nil
}

// Parse builds the AST from the tokens produced by Lex.
func (p *Process) Parse() error {
	start := time.Now()
	ast, err := Parse(p.Tokens, p.reporter)
	if err != nil {
		return err
	}
	p.AST = ast
	p.log.Debug("parsed", "roots", len(ast.Roots), "nodes", ast.Arena.Len(), "elapsed", time.Since(start))
	return nil
}

// Resolve builds the symbol table from the parsed AST.
func (p *Process) Resolve() error {
	if p.AST == nil {
		return nil
	}
	return ResolveSymbols(p.AST, p.Symbols)
}

// Run lexes, parses and resolves, stopping at the first error.
func (p *Process) Run() error {
	for _, phase := range []func() error{p.Lex, p.Parse, p.Resolve} {
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the source and output files.
func (p *Process) Close() error {
	err := p.source.Close()
	if p.output != nil {
		if cerr := p.output.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// CompileFile compiles sourcePath. The output file, when named, is created
// before anything is read even though no code is written to it yet. Errors
// are reported through opts.Reporter and also returned.
func CompileFile(sourcePath, outputPath string, flags Flags, opts Options) (Status, error) {
	if opts.Reporter == nil {
		opts.Reporter = NewReporter(nil, false)
	}
	proc, err := NewProcess(sourcePath, outputPath, flags, opts)
	if err != nil {
		opts.Reporter.Error(err)
		return StatusFailedWithErrors, err
	}
	defer proc.Close()

	if err := proc.Run(); err != nil {
		opts.Reporter.Error(err)
		proc.log.Error("compilation failed", "error", err)
		return StatusFailedWithErrors, err
	}
	proc.log.Info("compiled", "warnings", proc.reporter.Warnings())
	return StatusOK, nil
}
