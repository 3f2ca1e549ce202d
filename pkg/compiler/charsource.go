package compiler

import (
	"bufio"
	"errors"
	"io"
)

// EOF is returned by a CharSource once its input is exhausted.
const EOF rune = -1

// CharSource is a bidirectional character cursor the Lexer reads from.
type CharSource interface {
	// Next consumes and returns the next character, or EOF.
	Next() rune
	// Peek returns the next character without consuming it, or EOF.
	Peek() rune
	// Pushback makes c the next character returned by Next and Peek.
	Pushback(c rune)
	// Err returns the first read error other than io.EOF.
	Err() error
}

// FileSource reads characters from a buffered reader, usually an open
// source file.
type FileSource struct {
	r       *bufio.Reader
	pending []rune // pushed back characters, last in first out
	err     error
}

func NewFileSource(r io.Reader) *FileSource {
	return &FileSource{r: bufio.NewReader(r)}
}

func (s *FileSource) Next() rune {
	if n := len(s.pending); n > 0 {
		c := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return c
	}
	return s.read()
}

func (s *FileSource) Peek() rune {
	if n := len(s.pending); n > 0 {
		return s.pending[n-1]
	}
	c := s.read()
	if c != EOF {
		s.pending = append(s.pending, c)
	}
	return c
}

func (s *FileSource) Pushback(c rune) {
	s.pending = append(s.pending, c)
}

func (s *FileSource) Err() error { return s.err }

func (s *FileSource) read() rune {
	if s.err != nil {
		return EOF
	}
	c, _, err := s.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return EOF
	}
	return c
}

// BufferSource reads characters from an in-memory string. It is used to lex
// synthetic text such as a captured bracket expression.
type BufferSource struct {
	src     []rune
	pos     int
	pending []rune
}

func NewBufferSource(src string) *BufferSource {
	return &BufferSource{src: []rune(src)}
}

func (s *BufferSource) Next() rune {
	if n := len(s.pending); n > 0 {
		c := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return c
	}
	if s.pos >= len(s.src) {
		return EOF
	}
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *BufferSource) Peek() rune {
	if n := len(s.pending); n > 0 {
		return s.pending[n-1]
	}
	if s.pos >= len(s.src) {
		return EOF
	}
	return s.src[s.pos]
}

func (s *BufferSource) Pushback(c rune) {
	s.pending = append(s.pending, c)
}

func (s *BufferSource) Err() error { return nil }
