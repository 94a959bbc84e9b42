// Package translate walks the refined node sequence and emits LaTeX.
package translate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/marktex/marktex/internal/config"
	"github.com/marktex/marktex/internal/handler"
	"github.com/marktex/marktex/internal/parser"
	"github.com/marktex/marktex/internal/token"
)

// Error reports a structural violation found during translation.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Warning is a non-fatal style issue. Warnings never abort translation.
type Warning struct {
	Line int
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
}

// Translator converts refined node sequences into LaTeX text. Each
// Translate call is an independent run: numbering state is rebuilt so
// counters restart at 1. A Translator is not safe for concurrent use.
type Translator struct {
	registry *handler.Registry
	header   config.Header
	warn     func(Warning)
}

// Option configures a Translator.
type Option func(*Translator)

// WithRegistry replaces the default handler registry.
func WithRegistry(r *handler.Registry) Option {
	return func(t *Translator) { t.registry = r }
}

// WithHeader sets the document header fields consumed by the Header call.
func WithHeader(h config.Header) Option {
	return func(t *Translator) { t.header = h }
}

// WithWarningHandler sets the side channel for non-fatal warnings.
func WithWarningHandler(fn func(Warning)) Option {
	return func(t *Translator) { t.warn = fn }
}

// New creates a Translator with the given options.
func New(opts ...Option) *Translator {
	t := &Translator{
		registry: handler.NewRegistry(),
		warn:     func(Warning) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// walk carries the per-run translation state: the two coupled LIFO
// stacks and the output being built.
type walk struct {
	out      strings.Builder
	contexts []handler.Context // bottom is always Normal
	scopes   []scope           // one frame per open closure

	pending     handler.Handler // most recent call with no closure seen yet
	pendingName string
	pendingLine int

	literal  bool // last emitted fragment was literal text
	mathLine int  // line of the innermost open math delimiter
}

// scope is one open-closure frame: the bound handler and the context
// stack depth its body established, so mismatched math toggles inside
// the closure are caught when it ends.
type scope struct {
	h     handler.Handler
	depth int
}

func (w *walk) context() handler.Context {
	return w.contexts[len(w.contexts)-1]
}

// space separates adjacent literal fragments with a single space.
func (w *walk) space() {
	if w.literal {
		w.out.WriteByte(' ')
	}
}

// Translate walks the node sequence once, left to right, and returns
// the output text.
func (t *Translator) Translate(nodes []parser.Node) (string, error) {
	st := handler.NewState(t.header)
	w := &walk{contexts: []handler.Context{handler.Normal}}

	for _, n := range nodes {
		// A call's handler binds to the closure that immediately follows
		// it. Anything else discharges the pending call, with a warning
		// when the handler expected a body.
		if w.pending != nil && (n.Call != nil || n.Tok.Kind != token.StartClosure) {
			if w.pending.WantsBody() {
				t.warn(Warning{Line: w.pendingLine, Msg: fmt.Sprintf("call %q expects a closure body", w.pendingName)})
			}
			w.pending = nil
		}

		if n.Call != nil {
			if r, _ := utf8.DecodeRuneInString(n.Call.Name); unicode.IsLower(r) {
				t.warn(Warning{Line: n.Call.Line, Msg: fmt.Sprintf("call name %q should be capitalized", n.Call.Name)})
			}
			h := t.registry.Resolve(n.Call, st)
			w.space()
			w.out.WriteString(h.Begin())
			w.pending = h
			w.pendingName = n.Call.Name
			w.pendingLine = n.Call.Line
			w.literal = true
			continue
		}

		tok := n.Tok
		switch tok.Kind {
		case token.StartClosure:
			h := w.pending
			if h == nil {
				return "", &Error{Line: tok.Line, Msg: "closure without a preceding call"}
			}
			bc := h.BodyContext()
			if bc == handler.InheritParent {
				bc = w.context()
			}
			w.contexts = append(w.contexts, bc)
			w.scopes = append(w.scopes, scope{h: h, depth: len(w.contexts)})
			w.pending = nil
			w.literal = false

		case token.EndClosure:
			if len(w.scopes) == 0 {
				return "", &Error{Line: tok.Line, Msg: "unbalanced closing brace"}
			}
			sc := w.scopes[len(w.scopes)-1]
			if len(w.contexts) != sc.depth {
				return "", &Error{Line: w.mathLine, Msg: "unterminated math mode inside closure"}
			}
			w.scopes = w.scopes[:len(w.scopes)-1]
			w.contexts = w.contexts[:len(w.contexts)-1]
			w.out.WriteString(sc.h.End())
			w.literal = true

		case token.Word, token.QuotedString:
			// Identity rendering in this core, in substituting and
			// verbatim contexts alike; handlers own anything fancier.
			w.space()
			w.out.WriteString(tok.Text)
			w.literal = true

		case token.Comment:
			w.space()
			w.out.WriteString("%")
			w.out.WriteString(tok.Text)
			w.literal = false

		case token.MathDelim:
			delim := "$"
			if tok.Double {
				delim = "$$"
			}
			if !w.context().Substitutes() {
				// Verbatim bodies keep dollar signs as plain text.
				w.space()
				w.out.WriteString(delim)
				w.literal = true
				continue
			}
			if w.context() == handler.Math {
				w.contexts = w.contexts[:len(w.contexts)-1]
				w.out.WriteString(delim)
				w.literal = true
			} else {
				w.space()
				w.contexts = append(w.contexts, handler.Math)
				w.mathLine = tok.Line
				w.out.WriteString(delim)
				w.literal = false
			}

		case token.NewLine:
			if tok.SuppressBreak {
				w.out.WriteString("\n")
			} else {
				w.out.WriteString("\\\\\n")
			}
			w.literal = false

		case token.LineJoin:
			// The break is eaten by the suppressed NewLine that follows.

		default:
			return "", &Error{Line: tok.Line, Msg: fmt.Sprintf("unexpected %s in document text", tok.Kind)}
		}
	}

	if w.pending != nil && w.pending.WantsBody() {
		t.warn(Warning{Line: w.pendingLine, Msg: fmt.Sprintf("call %q expects a closure body", w.pendingName)})
	}
	if len(w.contexts) > 1 {
		if w.context() == handler.Math {
			return "", &Error{Line: w.mathLine, Msg: "unterminated math mode at end of input"}
		}
		return "", &Error{Line: 0, Msg: "unbalanced context at end of input"}
	}
	return w.out.String(), nil
}
