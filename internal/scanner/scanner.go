// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the context-sensitive marktex lexer.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/marktex/marktex/internal/token"
)

// LexError reports a malformed character sequence with its 1-based line.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// state is one frame of the lexer's sub-state stack. A flat enum is not
// enough: quoted strings, lists, and objects nest recursively inside each
// other and inside call arguments, and popping must restore the exact
// enclosing state.
type state int

const (
	stateNormal  state = iota // document text (stack bottom)
	stateClosure              // closure body: document text one level deeper
	stateCallArgs
	stateList
	stateObject
	stateString
)

func (st state) String() string {
	switch st {
	case stateNormal:
		return "document text"
	case stateClosure:
		return "closure"
	case stateCallArgs:
		return "call arguments"
	case stateList:
		return "list"
	case stateObject:
		return "object"
	case stateString:
		return "quoted string"
	}
	return "unknown"
}

// frame is one entry of the sub-state stack, remembering the line its
// structure was opened on for end-of-input errors.
type frame struct {
	st   state
	line int
}

// Scanner tokenizes marktex input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	toks   []token.Token
	states []frame

	line       int  // current line number (1-based)
	bufLine    int  // line the buffered word started on
	prevDollar bool // previous rune was an unescaped '$'
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		states: []frame{{st: stateNormal, line: 1}},
		line:   1,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Scan lexes a reader into its full token sequence.
func Scan(r io.Reader) ([]token.Token, error) {
	return New(r).Scan()
}

// top returns the current sub-state.
func (s *Scanner) top() state {
	return s.states[len(s.states)-1].st
}

func (s *Scanner) push(st state) {
	s.states = append(s.states, frame{st: st, line: s.line})
}

func (s *Scanner) pop() {
	s.states = s.states[:len(s.states)-1]
}

// emit appends a token to the output sequence.
func (s *Scanner) emit(t token.Token) {
	s.toks = append(s.toks, t)
}

// last returns the most recently emitted token, or nil.
func (s *Scanner) last() *token.Token {
	if len(s.toks) == 0 {
		return nil
	}
	return &s.toks[len(s.toks)-1]
}

// buffer appends a rune to the word accumulator, recording its start line.
func (s *Scanner) buffer(r rune) {
	if s.buf.Len() == 0 {
		s.bufLine = s.line
	}
	s.buf.WriteRune(r)
}

// flush emits the accumulated word, if any, as the given kind.
func (s *Scanner) flush(kind token.Kind) {
	if s.buf.Len() == 0 {
		return
	}
	s.emit(token.Token{Kind: kind, Text: s.buf.String(), Line: s.bufLine})
	s.buf.Reset()
}

// inLiteral returns true when ',' and '[' are structural for the
// current sub-state.
func (s *Scanner) inLiteral() bool {
	switch s.top() {
	case stateCallArgs, stateList, stateObject:
		return true
	}
	return false
}

func (s *Scanner) errf(format string, args ...any) error {
	return &LexError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

// Scan consumes the whole input and returns the token sequence.
func (s *Scanner) Scan() ([]token.Token, error) {
	for {
		r, _, err := s.reader.ReadRune()
		if err == io.EOF {
			return s.finish()
		}
		if err != nil {
			return nil, err
		}

		if s.top() == stateString {
			if err := s.scanStringRune(r); err != nil {
				return nil, err
			}
			continue
		}

		wasDollar := s.prevDollar
		s.prevDollar = false

		switch r {
		case '\\':
			if err := s.scanEscape(); err != nil {
				return nil, err
			}

		case '%':
			s.flush(token.Word)
			if err := s.scanComment(); err != nil {
				return nil, err
			}

		case '"':
			s.flush(token.Word)
			s.push(stateString)
			s.bufLine = s.line

		case '$':
			s.flush(token.Word)
			if wasDollar {
				if t := s.last(); t != nil && t.Kind == token.MathDelim && !t.Double {
					t.Double = true
					continue
				}
			}
			s.emit(token.Token{Kind: token.MathDelim, Line: s.line})
			s.prevDollar = true

		case '\n':
			s.flush(token.Word)
			suppress := true
			if t := s.last(); t != nil {
				suppress = t.Kind.EndsLine()
			}
			s.emit(token.Token{Kind: token.NewLine, Line: s.line, SuppressBreak: suppress})
			s.line++

		case ' ', '\t', '\r':
			s.flush(token.Word)

		case '(':
			if s.buf.Len() > 0 {
				// Name( opens a call; Name ( is a literal paren.
				s.flush(token.FuncName)
				s.emit(token.Token{Kind: token.StartCall, Line: s.line})
				s.push(stateCallArgs)
			} else {
				s.buffer(r)
			}

		case ')':
			if s.top() == stateCallArgs {
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.EndCall, Line: s.line})
				s.pop()
			} else {
				s.buffer(r)
			}

		case '{':
			if err := s.scanOpenBrace(); err != nil {
				return nil, err
			}

		case '}':
			s.flush(token.Word)
			switch s.top() {
			case stateClosure:
				s.emit(token.Token{Kind: token.EndClosure, Line: s.line})
				s.pop()
			case stateObject:
				s.emit(token.Token{Kind: token.EndObject, Line: s.line})
				s.pop()
			case stateNormal:
				return nil, s.errf("unmatched '}'")
			default:
				return nil, s.errf("'}' is not valid inside %s", s.top())
			}

		case ',':
			if s.inLiteral() {
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.ArgDelim, Line: s.line})
			} else {
				s.buffer(r)
			}

		case '=':
			switch s.top() {
			case stateCallArgs:
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.KeywordAssign, Line: s.line})
			case stateList, stateObject:
				return nil, s.errf("'=' is not valid inside %s (use ':' for object keys)", s.top())
			default:
				s.buffer(r)
			}

		case ':':
			switch s.top() {
			case stateObject:
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.KeyValueDelim, Line: s.line})
			case stateCallArgs, stateList:
				return nil, s.errf("':' is not valid inside %s (use '=' for keyword arguments)", s.top())
			default:
				s.buffer(r)
			}

		case '[':
			if s.inLiteral() {
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.StartList, Line: s.line})
				s.push(stateList)
			} else {
				s.buffer(r)
			}

		case ']':
			switch s.top() {
			case stateList:
				s.flush(token.Word)
				s.emit(token.Token{Kind: token.EndList, Line: s.line})
				s.pop()
			case stateCallArgs, stateObject:
				return nil, s.errf("unmatched ']' inside %s", s.top())
			default:
				s.buffer(r)
			}

		default:
			s.buffer(r)
		}
	}
}

// scanEscape handles the character after a backslash. Recognized escapes
// become literal characters; everything else is kept verbatim so LaTeX
// control sequences pass through untouched.
func (s *Scanner) scanEscape() error {
	c, _, err := s.reader.ReadRune()
	if err == io.EOF {
		return s.errf("dangling '\\' at end of input")
	}
	if err != nil {
		return err
	}
	switch c {
	case '\\':
		s.flush(token.Word)
		s.emit(token.Token{Kind: token.LineJoin, Line: s.line})
	case '%', '$', '{', '}':
		s.buffer(c)
	default:
		s.buffer('\\')
		s.buffer(c)
		if c == '\n' {
			s.line++
		}
	}
	return nil
}

// scanComment consumes characters up to (not including) the next newline
// and emits the Comment followed by its suppressed NewLine.
func (s *Scanner) scanComment() error {
	var text strings.Builder
	for {
		c, _, err := s.reader.ReadRune()
		if err == io.EOF {
			s.emit(token.Token{Kind: token.Comment, Text: text.String(), Line: s.line})
			return nil
		}
		if err != nil {
			return err
		}
		if c == '\n' {
			s.emit(token.Token{Kind: token.Comment, Text: text.String(), Line: s.line})
			s.emit(token.Token{Kind: token.NewLine, Line: s.line, SuppressBreak: true})
			s.line++
			return nil
		}
		text.WriteRune(c)
	}
}

// scanStringRune handles one rune inside a quoted string.
func (s *Scanner) scanStringRune(r rune) error {
	switch r {
	case '\\':
		c, _, err := s.reader.ReadRune()
		if err == io.EOF {
			return s.errf("unterminated quoted string")
		}
		if err != nil {
			return err
		}
		if c == '\n' {
			s.line++
		}
		s.buf.WriteRune(c)
	case '"':
		s.emit(token.Token{Kind: token.QuotedString, Text: s.buf.String(), Line: s.bufLine})
		s.buf.Reset()
		s.pop()
	case '\n':
		s.buf.WriteRune(r)
		s.line++
	default:
		s.buf.WriteRune(r)
	}
	return nil
}

// scanOpenBrace disambiguates '{': a closure when it follows a call or a
// bare word (the word becomes an implicit zero-argument call), an object
// literal otherwise.
func (s *Scanner) scanOpenBrace() error {
	if s.buf.Len() > 0 {
		// Name{ ... }: promote the buffered word to a zero-argument call.
		s.flush(token.FuncName)
		s.emit(token.Token{Kind: token.StartCall, Line: s.line})
		s.emit(token.Token{Kind: token.EndCall, Line: s.line})
		s.emit(token.Token{Kind: token.StartClosure, Line: s.line})
		s.push(stateClosure)
		return nil
	}

	t := s.last()
	if t == nil {
		return s.errf("cannot start document with closure")
	}

	switch t.Kind {
	case token.EndCall:
		s.emit(token.Token{Kind: token.StartClosure, Line: s.line})
		s.push(stateClosure)
	case token.Word:
		// Name { ... }: the word was already flushed; rewrite it into the
		// uniform call form so the builder sees one grammar.
		name := *t
		s.toks[len(s.toks)-1] = token.Token{Kind: token.FuncName, Text: name.Text, Line: name.Line}
		s.emit(token.Token{Kind: token.StartCall, Line: s.line})
		s.emit(token.Token{Kind: token.EndCall, Line: s.line})
		s.emit(token.Token{Kind: token.StartClosure, Line: s.line})
		s.push(stateClosure)
	default:
		s.emit(token.Token{Kind: token.StartObject, Line: s.line})
		s.push(stateObject)
	}
	return nil
}

// finish runs end-of-input checks and returns the token sequence.
func (s *Scanner) finish() ([]token.Token, error) {
	if len(s.states) > 1 {
		open := s.states[len(s.states)-1]
		return nil, &LexError{Line: open.line, Msg: fmt.Sprintf("unterminated %s at end of input", open.st)}
	}
	s.flush(token.Word)
	return s.toks, nil
}
