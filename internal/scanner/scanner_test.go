package scanner

import (
	"errors"
	"strings"
	"testing"

	"github.com/marktex/marktex/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(a []token.Kind, b ...token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestWordsAndNewlines(t *testing.T) {
	toks, err := Scan(strings.NewReader("hello world\ngoodbye\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.Word, token.Word, token.NewLine, token.Word, token.NewLine) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[0].Text != "hello" || toks[1].Text != "world" || toks[3].Text != "goodbye" {
		t.Errorf("unexpected words: %q %q %q", toks[0].Text, toks[1].Text, toks[3].Text)
	}
	if toks[2].SuppressBreak {
		t.Error("newline after a word must carry a forced break")
	}
	if toks[3].Line != 2 {
		t.Errorf("expected line 2 for goodbye, got %d", toks[3].Line)
	}
}

func TestDoubleMathDelimiter(t *testing.T) {
	toks, err := Scan(strings.NewReader("$$x$$"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.MathDelim, token.Word, token.MathDelim) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if !toks[0].Double || !toks[2].Double {
		t.Error("$$ must lex to one double delimiter, never two singles")
	}
}

func TestSeparatedDollarsStaySingle(t *testing.T) {
	toks, err := Scan(strings.NewReader("$ $"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.MathDelim, token.MathDelim) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[0].Double || toks[1].Double {
		t.Error("separated dollars must stay single")
	}
}

func TestEscapedBracesAreLiteral(t *testing.T) {
	toks, err := Scan(strings.NewReader(`a\{b\}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.Word || toks[0].Text != "a{b}" {
		t.Fatalf("expected one word \"a{b}\", got %+v", toks)
	}
}

func TestEscapePreservesControlSequences(t *testing.T) {
	toks, err := Scan(strings.NewReader(`\alpha`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Text != `\alpha` {
		t.Fatalf("expected literal \\alpha, got %+v", toks)
	}
}

func TestLineJoin(t *testing.T) {
	toks, err := Scan(strings.NewReader("a \\\\\nb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.Word, token.LineJoin, token.NewLine, token.Word) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if !toks[2].SuppressBreak {
		t.Error("newline after a line join must be suppressed")
	}
}

func TestComment(t *testing.T) {
	toks, err := Scan(strings.NewReader("x % note\ny"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.Word, token.Comment, token.NewLine, token.Word) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[1].Text != " note" {
		t.Errorf("unexpected comment text %q", toks[1].Text)
	}
	if !toks[2].SuppressBreak {
		t.Error("newline after a comment must be suppressed")
	}
	if toks[3].Line != 2 {
		t.Errorf("expected line 2, got %d", toks[3].Line)
	}
}

func TestCallWithArguments(t *testing.T) {
	toks, err := Scan(strings.NewReader(`Foo(a, b="c")`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.FuncName, token.StartCall, token.Word, token.ArgDelim,
		token.Word, token.KeywordAssign, token.QuotedString, token.EndCall,
	}
	if !equalKinds(kinds(toks), want...) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[0].Text != "Foo" || toks[6].Text != "c" {
		t.Errorf("unexpected texts: %q %q", toks[0].Text, toks[6].Text)
	}
}

func TestParenAfterSpaceIsLiteral(t *testing.T) {
	toks, err := Scan(strings.NewReader("a (b)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.Word, token.Word) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[1].Text != "(b)" {
		t.Errorf("expected literal \"(b)\", got %q", toks[1].Text)
	}
}

func TestClosurePromotion(t *testing.T) {
	for _, src := range []string{"Box {x}", "Box{x}"} {
		t.Run(src, func(t *testing.T) {
			toks, err := Scan(strings.NewReader(src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := []token.Kind{
				token.FuncName, token.StartCall, token.EndCall,
				token.StartClosure, token.Word, token.EndClosure,
			}
			if !equalKinds(kinds(toks), want...) {
				t.Fatalf("unexpected kinds: %v", kinds(toks))
			}
			if toks[0].Text != "Box" {
				t.Errorf("expected promoted call name Box, got %q", toks[0].Text)
			}
		})
	}
}

func TestClosureAfterCall(t *testing.T) {
	toks, err := Scan(strings.NewReader("Foo(a) {x}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.FuncName, token.StartCall, token.Word, token.EndCall,
		token.StartClosure, token.Word, token.EndClosure,
	}
	if !equalKinds(kinds(toks), want...) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
}

func TestObjectLiteralInCall(t *testing.T) {
	toks, err := Scan(strings.NewReader(`Foo(o={a:"x"})`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.FuncName, token.StartCall, token.Word, token.KeywordAssign,
		token.StartObject, token.Word, token.KeyValueDelim, token.QuotedString,
		token.EndObject, token.EndCall,
	}
	if !equalKinds(kinds(toks), want...) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
}

func TestNestedList(t *testing.T) {
	toks, err := Scan(strings.NewReader("Foo([a, [b]])"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.FuncName, token.StartCall, token.StartList, token.Word,
		token.ArgDelim, token.StartList, token.Word, token.EndList,
		token.EndList, token.EndCall,
	}
	if !equalKinds(kinds(toks), want...) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
}

func TestBracketsLiteralInText(t *testing.T) {
	toks, err := Scan(strings.NewReader("interval [0,1] closed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalKinds(kinds(toks), token.Word, token.Word, token.Word) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
	if toks[1].Text != "[0,1]" {
		t.Errorf("expected literal \"[0,1]\", got %q", toks[1].Text)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		want  string
	}{
		{"closure at start", "{x}", 1, "cannot start document with closure"},
		{"unterminated string", `"abc`, 1, "unterminated quoted string"},
		{"unterminated call", "Foo(a", 1, "unterminated call arguments"},
		{"unterminated list", "Foo([a", 1, "unterminated list"},
		{"unterminated closure", "Box {\nx", 1, "unterminated closure"},
		{"colon in call args", "Foo(a:b)", 1, "':' is not valid"},
		{"equals in object", "Foo(o={a=b})", 1, "'=' is not valid"},
		{"unmatched close brace", "a }", 1, "unmatched '}'"},
		{"dangling escape", `a\`, 1, "dangling"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected a lex error")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T", err)
			}
			if lexErr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, lexErr.Line)
			}
			if !strings.Contains(lexErr.Msg, tt.want) {
				t.Errorf("expected message containing %q, got %q", tt.want, lexErr.Msg)
			}
		})
	}
}

func TestMultilineCallSkipsNothing(t *testing.T) {
	toks, err := Scan(strings.NewReader("Foo(a,\n  b)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{
		token.FuncName, token.StartCall, token.Word, token.ArgDelim,
		token.NewLine, token.Word, token.EndCall,
	}
	if !equalKinds(kinds(toks), want...) {
		t.Fatalf("unexpected kinds: %v", kinds(toks))
	}
}
