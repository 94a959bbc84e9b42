package marktex

import (
	"io"
	"os"
	"strings"

	"github.com/marktex/marktex/internal/config"
	"github.com/marktex/marktex/internal/handler"
	"github.com/marktex/marktex/internal/parser"
	"github.com/marktex/marktex/internal/scanner"
	"github.com/marktex/marktex/internal/store"
	"github.com/marktex/marktex/internal/translate"
)

// Compiler is the marktex-to-LaTeX compiler. It is a deterministic,
// single-pass batch transform; one Compiler must not be used from
// multiple goroutines at once.
type Compiler struct {
	translator *translate.Translator
	registry   *handler.Registry
	header     config.Header
	warn       func(translate.Warning)
	dumps      store.Store
	preamble   string
	noPreamble bool
	strict     bool
}

// New creates a new Compiler with the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		registry: handler.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	topts := []translate.Option{
		translate.WithRegistry(c.registry),
		translate.WithHeader(c.header),
	}
	if c.warn != nil {
		topts = append(topts, translate.WithWarningHandler(c.warn))
	}
	c.translator = translate.New(topts...)

	return c
}

// Compile translates a marktex string into LaTeX source.
func (c *Compiler) Compile(input string) (string, error) {
	return c.compile("input", strings.NewReader(input))
}

// CompileReader translates marktex from a reader.
func (c *Compiler) CompileReader(r io.Reader) (string, error) {
	return c.compile("input", r)
}

// CompileFile translates a marktex file.
func (c *Compiler) CompileFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return c.compile(path, f)
}

// compile runs the three-stage pipeline, recording a dump after each
// stage when a dump store is configured.
func (c *Compiler) compile(doc string, r io.Reader) (string, error) {
	toks, err := scanner.Scan(r)
	if err != nil {
		return "", err
	}
	c.dump(doc, "tokens", dumpTokens(toks))

	var popts []parser.Option
	if c.strict {
		popts = append(popts, parser.WithStrictKeys())
	}
	nodes, err := parser.Build(toks, popts...)
	if err != nil {
		return "", err
	}
	c.dump(doc, "calltree", dumpNodes(nodes))

	body, err := c.translator.Translate(nodes)
	if err != nil {
		return "", err
	}

	out := c.wrap(body)
	c.dump(doc, "output", out)
	return out, nil
}

// wrap surrounds the translated body with the document preamble unless
// preamble emission is disabled.
func (c *Compiler) wrap(body string) string {
	if c.noPreamble {
		return body
	}
	preamble := c.preamble
	if preamble == "" {
		preamble = DefaultPreamble
	}
	var sb strings.Builder
	sb.WriteString(preamble)
	if !strings.HasSuffix(preamble, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("\\begin{document}\n")
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("\\end{document}\n")
	return sb.String()
}

// dump records a stage snapshot; dump failures never abort compilation.
func (c *Compiler) dump(doc, stage, content string) {
	if c.dumps == nil {
		return
	}
	c.dumps.Put(doc, stage, content)
}

// Close releases resources.
func (c *Compiler) Close() error {
	if c.dumps != nil {
		return c.dumps.Close()
	}
	return nil
}
