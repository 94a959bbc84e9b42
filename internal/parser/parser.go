// Package parser folds the flat token sequence into a refined node
// sequence where every function call is one structured node.
package parser

import (
	"fmt"

	"github.com/marktex/marktex/internal/token"
	"github.com/marktex/marktex/internal/value"
)

// ParseError reports a grammar violation during call-tree building.
type ParseError struct {
	Line int
	Call string // offending call name, when known
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Call != "" {
		return fmt.Sprintf("line %d: in call %q: %s", e.Line, e.Call, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Node is one element of the refined sequence: either a pass-through
// token or a folded call.
type Node struct {
	Tok  token.Token // valid when Call is nil
	Call *value.Call
}

// Line returns the node's 1-based source line.
func (n Node) Line() int {
	if n.Call != nil {
		return n.Call.Line
	}
	return n.Tok.Line
}

// Option configures the builder.
type Option func(*builder)

// WithStrictKeys makes duplicate keyword and object keys a ParseError
// instead of last-write-wins.
func WithStrictKeys() Option {
	return func(b *builder) { b.strict = true }
}

type builder struct {
	toks   []token.Token
	pos    int
	strict bool
}

// Build walks the token sequence once and replaces each function-name
// candidate plus its bracketed argument run with a single call node,
// recursively.
func Build(toks []token.Token, opts ...Option) ([]Node, error) {
	b := &builder{toks: toks}
	for _, opt := range opts {
		opt(b)
	}

	var nodes []Node
	for {
		t, ok := b.next()
		if !ok {
			return nodes, nil
		}
		if t.Kind == token.FuncName {
			call, err := b.parseCall(t)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{Call: call})
			continue
		}
		nodes = append(nodes, Node{Tok: t})
	}
}

// next returns the next token, or false at end of input.
func (b *builder) next() (token.Token, bool) {
	if b.pos >= len(b.toks) {
		return token.Token{}, false
	}
	t := b.toks[b.pos]
	b.pos++
	return t, true
}

// nextValue returns the next token significant inside an argument list,
// skipping comments and newlines.
func (b *builder) nextValue() (token.Token, bool) {
	for {
		t, ok := b.next()
		if !ok {
			return token.Token{}, false
		}
		if t.Kind == token.Comment || t.Kind == token.NewLine {
			continue
		}
		return t, true
	}
}

// peekValue is nextValue without consuming.
func (b *builder) peekValue() (token.Token, bool) {
	pos := b.pos
	t, ok := b.nextValue()
	b.pos = pos
	return t, ok
}

func (b *builder) eof(call string, line int) error {
	return &ParseError{Line: line, Call: call, Msg: fmt.Sprintf("no tokens following call %q", call)}
}

// parseCall consumes one call's argument run, starting just after its
// FuncName token.
func (b *builder) parseCall(name token.Token) (*value.Call, error) {
	open, ok := b.next()
	if !ok || open.Kind != token.StartCall {
		return nil, &ParseError{Line: name.Line, Call: name.Text, Msg: "missing '(' after function name"}
	}

	call := &value.Call{
		Name:   name.Text,
		Line:   name.Line,
		Kwargs: map[string]value.Value{},
	}

	for {
		t, ok := b.peekValue()
		if !ok {
			return nil, b.eof(call.Name, name.Line)
		}
		if t.Kind == token.EndCall {
			b.nextValue()
			return call, nil
		}

		v, err := b.parseValue(call.Name, name.Line)
		if err != nil {
			return nil, err
		}

		d, ok := b.nextValue()
		if !ok {
			return nil, b.eof(call.Name, name.Line)
		}
		switch d.Kind {
		case token.ArgDelim:
			call.Args = append(call.Args, v)

		case token.EndCall:
			call.Args = append(call.Args, v)
			return call, nil

		case token.KeywordAssign:
			key, err := keyText(v, d.Line, call.Name)
			if err != nil {
				return nil, err
			}
			nt, ok := b.peekValue()
			if !ok {
				return nil, b.eof(call.Name, name.Line)
			}
			switch nt.Kind {
			case token.ArgDelim, token.EndCall, token.KeywordAssign:
				return nil, &ParseError{Line: d.Line, Call: call.Name, Msg: fmt.Sprintf("missing value after %q=", key)}
			}
			vv, err := b.parseValue(call.Name, name.Line)
			if err != nil {
				return nil, err
			}
			if _, dup := call.Kwargs[key]; dup && b.strict {
				return nil, &ParseError{Line: d.Line, Call: call.Name, Msg: fmt.Sprintf("duplicate keyword %q", key)}
			}
			call.Kwargs[key] = vv

			d2, ok := b.nextValue()
			if !ok {
				return nil, b.eof(call.Name, name.Line)
			}
			switch d2.Kind {
			case token.ArgDelim:
			case token.EndCall:
				return call, nil
			default:
				return nil, &ParseError{Line: d2.Line, Call: call.Name, Msg: fmt.Sprintf("unexpected %s after keyword argument", d2.Kind)}
			}

		default:
			return nil, &ParseError{Line: d.Line, Call: call.Name, Msg: fmt.Sprintf("unexpected %s in argument list", d.Kind)}
		}
	}
}

// parseValue parses one value: a word, a string, a nested call, or a
// list/object literal. The line is the enclosing structure's, used when
// input ends before a value appears.
func (b *builder) parseValue(call string, line int) (value.Value, error) {
	t, ok := b.nextValue()
	if !ok {
		return nil, b.eof(call, line)
	}
	switch t.Kind {
	case token.Word:
		return value.Word(t.Text), nil
	case token.QuotedString:
		return value.Quoted(t.Text), nil
	case token.FuncName:
		return b.parseCall(t)
	case token.StartList:
		return b.parseList(call, t)
	case token.StartObject:
		return b.parseObject(call, t)
	default:
		return nil, &ParseError{Line: t.Line, Call: call, Msg: fmt.Sprintf("unexpected %s where a value is expected", t.Kind)}
	}
}

// parseList parses a list literal, starting just after its '['.
func (b *builder) parseList(call string, open token.Token) (value.Value, error) {
	list := value.List{}
	for {
		t, ok := b.peekValue()
		if !ok {
			return nil, &ParseError{Line: open.Line, Call: call, Msg: "unterminated list literal"}
		}
		if t.Kind == token.EndList {
			b.nextValue()
			return list, nil
		}

		v, err := b.parseValue(call, open.Line)
		if err != nil {
			return nil, err
		}
		list = append(list, v)

		d, ok := b.nextValue()
		if !ok {
			return nil, &ParseError{Line: open.Line, Call: call, Msg: "unterminated list literal"}
		}
		switch d.Kind {
		case token.ArgDelim:
		case token.EndList:
			return list, nil
		default:
			return nil, &ParseError{Line: d.Line, Call: call, Msg: fmt.Sprintf("unexpected %s in list literal", d.Kind)}
		}
	}
}

// parseObject parses an object literal, starting just after its '{'.
func (b *builder) parseObject(call string, open token.Token) (value.Value, error) {
	obj := value.Object{}
	for {
		t, ok := b.nextValue()
		if !ok {
			return nil, &ParseError{Line: open.Line, Call: call, Msg: "unterminated object literal"}
		}
		if t.Kind == token.EndObject {
			return obj, nil
		}

		if t.Kind != token.Word && t.Kind != token.QuotedString {
			return nil, &ParseError{Line: t.Line, Call: call, Msg: "keys must be strings"}
		}
		key := t.Text

		d, ok := b.nextValue()
		if !ok {
			return nil, &ParseError{Line: open.Line, Call: call, Msg: "unterminated object literal"}
		}
		if d.Kind != token.KeyValueDelim {
			return nil, &ParseError{Line: d.Line, Call: call, Msg: fmt.Sprintf("expected ':' after object key %q, got %s", key, d.Kind)}
		}

		v, err := b.parseValue(call, open.Line)
		if err != nil {
			return nil, err
		}
		if _, dup := obj[key]; dup && b.strict {
			return nil, &ParseError{Line: d.Line, Call: call, Msg: fmt.Sprintf("duplicate object key %q", key)}
		}
		obj[key] = v

		d, ok = b.nextValue()
		if !ok {
			return nil, &ParseError{Line: open.Line, Call: call, Msg: "unterminated object literal"}
		}
		switch d.Kind {
		case token.ArgDelim:
		case token.EndObject:
			return obj, nil
		default:
			return nil, &ParseError{Line: d.Line, Call: call, Msg: fmt.Sprintf("unexpected %s in object literal", d.Kind)}
		}
	}
}

// keyText extracts a keyword-argument key from a just-parsed value.
// Only words and quoted strings are legal keys.
func keyText(v value.Value, line int, call string) (string, error) {
	switch k := v.(type) {
	case value.Word:
		return string(k), nil
	case value.Quoted:
		return string(k), nil
	default:
		return "", &ParseError{Line: line, Call: call, Msg: "keys must be strings"}
	}
}
