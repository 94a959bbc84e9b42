package marktex

import (
	"fmt"
	"strings"

	"github.com/marktex/marktex/internal/parser"
	"github.com/marktex/marktex/internal/token"
)

// dumpTokens renders the lexed token sequence, one token per line.
func dumpTokens(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&sb, "%4d %s", t.Line, t.Kind)
		if t.Text != "" {
			fmt.Fprintf(&sb, " %q", t.Text)
		}
		if t.Kind == token.MathDelim && t.Double {
			sb.WriteString(" double")
		}
		if t.Kind == token.NewLine && t.SuppressBreak {
			sb.WriteString(" suppress")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// dumpNodes renders the refined node sequence, folded calls in their
// source-like form.
func dumpNodes(nodes []parser.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if n.Call != nil {
			fmt.Fprintf(&sb, "%4d CALL %s\n", n.Call.Line, n.Call)
			continue
		}
		fmt.Fprintf(&sb, "%4d %s", n.Tok.Line, n.Tok.Kind)
		if n.Tok.Text != "" {
			fmt.Fprintf(&sb, " %q", n.Tok.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
