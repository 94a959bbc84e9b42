// Package marktex provides the public API for the marktex compiler.
package marktex

import (
	"github.com/marktex/marktex/internal/config"
	"github.com/marktex/marktex/internal/store"
	"github.com/marktex/marktex/internal/translate"
)

// Option configures a Compiler.
type Option func(*Compiler)

// Header holds the document header fields consumed by the Header call.
type Header = config.Header

// Warning is a non-fatal style issue surfaced during translation.
type Warning = translate.Warning

// DumpStore is the interface for debug dump persistence.
type DumpStore = store.Store

// LoadHeader reads document header fields from a YAML file.
func LoadHeader(path string) (Header, error) {
	return config.Load(path)
}

// WithHeader sets the document header fields.
func WithHeader(h Header) Option {
	return func(c *Compiler) { c.header = h }
}

// WithHeaderFile loads the document header fields from a YAML file.
func WithHeaderFile(path string) Option {
	return func(c *Compiler) {
		h, err := config.Load(path)
		if err == nil {
			c.header = h
		}
	}
}

// WithStrictKeys makes duplicate keyword and object keys a hard error
// instead of last-write-wins.
func WithStrictKeys() Option {
	return func(c *Compiler) { c.strict = true }
}

// WithWarningHandler sets the side channel for non-fatal warnings.
func WithWarningHandler(fn func(Warning)) Option {
	return func(c *Compiler) { c.warn = fn }
}

// WithDumpStore sets a custom debug dump store.
func WithDumpStore(s DumpStore) Option {
	return func(c *Compiler) { c.dumps = s }
}

// WithSQLiteDumps persists stage dumps to a SQLite database at the
// given path.
func WithSQLiteDumps(path string) Option {
	return func(c *Compiler) {
		s, err := store.NewSQLite(path)
		if err == nil {
			c.dumps = s
		}
	}
}

// WithMemoryDumps records stage dumps in memory (for testing).
func WithMemoryDumps() Option {
	return func(c *Compiler) { c.dumps = store.NewMemory() }
}

// WithPreamble sets a custom document preamble. If not set,
// DefaultPreamble is used.
func WithPreamble(preamble string) Option {
	return func(c *Compiler) { c.preamble = preamble }
}

// WithNoPreamble emits only the translated body, without the preamble
// and document environment.
func WithNoPreamble() Option {
	return func(c *Compiler) { c.noPreamble = true }
}
