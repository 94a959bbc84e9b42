package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marktex/marktex/internal/scanner"
	"github.com/marktex/marktex/internal/token"
	"github.com/marktex/marktex/internal/value"
)

func build(t *testing.T, src string, opts ...Option) []Node {
	t.Helper()
	toks, err := scanner.Scan(strings.NewReader(src))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	nodes, err := Build(toks, opts...)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return nodes
}

func buildErr(t *testing.T, src string, opts ...Option) *ParseError {
	t.Helper()
	toks, err := scanner.Scan(strings.NewReader(src))
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	_, err = Build(toks, opts...)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	return parseErr
}

func TestBuildFoldsCalls(t *testing.T) {
	nodes := build(t, `Header(a="1", b=["c", "d"], obj={a: "a", b: "b"})`)
	if len(nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(nodes))
	}
	want := &value.Call{
		Name: "Header",
		Line: 1,
		Kwargs: map[string]value.Value{
			"a": value.Quoted("1"),
			"b": value.List{value.Quoted("c"), value.Quoted("d")},
			"obj": value.Object{
				"a": value.Quoted("a"),
				"b": value.Quoted("b"),
			},
		},
	}
	if diff := cmp.Diff(want, nodes[0].Call); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPositionalArguments(t *testing.T) {
	nodes := build(t, "Foo(a, b, c)")
	want := &value.Call{
		Name:   "Foo",
		Line:   1,
		Args:   []value.Value{value.Word("a"), value.Word("b"), value.Word("c")},
		Kwargs: map[string]value.Value{},
	}
	if diff := cmp.Diff(want, nodes[0].Call); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNestedCall(t *testing.T) {
	nodes := build(t, "Foo(Bar(x), y)")
	want := &value.Call{
		Name: "Foo",
		Line: 1,
		Args: []value.Value{
			&value.Call{
				Name:   "Bar",
				Line:   1,
				Args:   []value.Value{value.Word("x")},
				Kwargs: map[string]value.Value{},
			},
			value.Word("y"),
		},
		Kwargs: map[string]value.Value{},
	}
	if diff := cmp.Diff(want, nodes[0].Call); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPassesTextThrough(t *testing.T) {
	nodes := build(t, "hello Foo() world")
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Tok.Kind != token.Word || nodes[0].Tok.Text != "hello" {
		t.Errorf("unexpected first node: %+v", nodes[0].Tok)
	}
	if nodes[1].Call == nil || nodes[1].Call.Name != "Foo" {
		t.Errorf("expected folded call, got %+v", nodes[1])
	}
	if nodes[2].Tok.Text != "world" {
		t.Errorf("unexpected last node: %+v", nodes[2].Tok)
	}
}

func TestBuildSkipsCommentsInArguments(t *testing.T) {
	nodes := build(t, "Foo(a, % trailing\nb)")
	want := &value.Call{
		Name:   "Foo",
		Line:   1,
		Args:   []value.Value{value.Word("a"), value.Word("b")},
		Kwargs: map[string]value.Value{},
	}
	if diff := cmp.Diff(want, nodes[0].Call); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildClosureTokensSurviveCall(t *testing.T) {
	nodes := build(t, "Box {inside}")
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}
	if nodes[0].Call == nil || nodes[0].Call.Name != "Box" {
		t.Fatalf("expected folded Box call, got %+v", nodes[0])
	}
	kinds := []token.Kind{nodes[1].Tok.Kind, nodes[2].Tok.Kind, nodes[3].Tok.Kind}
	want := []token.Kind{token.StartClosure, token.Word, token.EndClosure}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingValueAfterKeyword(t *testing.T) {
	perr := buildErr(t, "Foo(a=)")
	if perr.Line != 1 {
		t.Errorf("expected line 1, got %d", perr.Line)
	}
	if perr.Call != "Foo" {
		t.Errorf("expected offending call Foo, got %q", perr.Call)
	}
	if !strings.Contains(perr.Msg, "missing value") {
		t.Errorf("expected a missing-value message, got %q", perr.Msg)
	}
}

func TestDuplicateKeysLastWriteWins(t *testing.T) {
	nodes := build(t, "Foo(a=x, a=y)")
	got := nodes[0].Call.Kwargs["a"]
	if diff := cmp.Diff(value.Value(value.Word("y")), got); diff != "" {
		t.Errorf("kwarg mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateKeysStrict(t *testing.T) {
	perr := buildErr(t, "Foo(a=x, a=y)", WithStrictKeys())
	if !strings.Contains(perr.Msg, `duplicate keyword "a"`) {
		t.Errorf("unexpected message %q", perr.Msg)
	}

	perr = buildErr(t, `Foo(o={k: "1", k: "2"})`, WithStrictKeys())
	if !strings.Contains(perr.Msg, `duplicate object key "k"`) {
		t.Errorf("unexpected message %q", perr.Msg)
	}
}

func TestMissingOpenParen(t *testing.T) {
	toks := []token.Token{{Kind: token.FuncName, Text: "Foo", Line: 3}}
	_, err := Build(toks)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Line != 3 || !strings.Contains(parseErr.Msg, "missing '('") {
		t.Errorf("unexpected error %v", parseErr)
	}
}

func TestUnterminatedListLiteral(t *testing.T) {
	toks := []token.Token{
		{Kind: token.FuncName, Text: "Foo", Line: 1},
		{Kind: token.StartCall, Line: 1},
		{Kind: token.StartList, Line: 1},
		{Kind: token.Word, Text: "a", Line: 1},
	}
	_, err := Build(toks)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Msg, "unterminated list literal") {
		t.Errorf("unexpected message %q", parseErr.Msg)
	}
}

func TestObjectKeysMustBeStrings(t *testing.T) {
	perr := buildErr(t, `Foo(o={[a]: "x"})`)
	if !strings.Contains(perr.Msg, "keys must be strings") {
		t.Errorf("unexpected message %q", perr.Msg)
	}
}

func TestTrailingListComma(t *testing.T) {
	nodes := build(t, `Foo(b=["c", "d",])`)
	want := value.Value(value.List{value.Quoted("c"), value.Quoted("d")})
	if diff := cmp.Diff(want, nodes[0].Call.Kwargs["b"]); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestQuotedKeywordKey(t *testing.T) {
	nodes := build(t, `Foo("a key"=v)`)
	if diff := cmp.Diff(value.Value(value.Word("v")), nodes[0].Call.Kwargs["a key"]); diff != "" {
		t.Errorf("kwarg mismatch (-want +got):\n%s", diff)
	}
}
