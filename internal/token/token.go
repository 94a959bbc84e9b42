// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the marktex token vocabulary.
package token

// Kind identifies a token type.
type Kind int

const (
	EOF Kind = iota
	Word
	QuotedString
	Comment
	NewLine
	MathDelim
	FuncName // call name candidate, resolved by the call-tree builder

	// Structural markers
	StartCall
	EndCall
	StartClosure
	EndClosure
	StartObject
	EndObject
	StartList
	EndList
	ArgDelim
	KeywordAssign
	KeyValueDelim
	LineJoin
)

// Token is an immutable lexed token with its 1-based source line.
type Token struct {
	Kind Kind
	Text string // word/string/comment content, or the call name for FuncName
	Line int

	// Double is set on MathDelim when the source had $$.
	Double bool

	// SuppressBreak is set on NewLine when the preceding token already
	// ends the line (comments, closures, line joins), so the translator
	// must not emit a forced break.
	SuppressBreak bool
}

// String returns the kind name, for diagnostics and debug dumps.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Word:
		return "WORD"
	case QuotedString:
		return "QUOTED_STRING"
	case Comment:
		return "COMMENT"
	case NewLine:
		return "NEWLINE"
	case MathDelim:
		return "MATH_DELIM"
	case FuncName:
		return "FUNC_NAME"
	case StartCall:
		return "START_CALL"
	case EndCall:
		return "END_CALL"
	case StartClosure:
		return "START_CLOSURE"
	case EndClosure:
		return "END_CLOSURE"
	case StartObject:
		return "START_OBJECT"
	case EndObject:
		return "END_OBJECT"
	case StartList:
		return "START_LIST"
	case EndList:
		return "END_LIST"
	case ArgDelim:
		return "ARG_DELIM"
	case KeywordAssign:
		return "KEYWORD_ASSIGN"
	case KeyValueDelim:
		return "KEY_VALUE_DELIM"
	case LineJoin:
		return "LINE_JOIN"
	}
	return "UNKNOWN"
}

// EndsLine returns true for tokens after which a newline carries no
// forced break.
func (k Kind) EndsLine() bool {
	switch k {
	case Comment, LineJoin, StartClosure, EndClosure:
		return true
	}
	return false
}
