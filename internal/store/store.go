// Package store persists per-document compiler stage dumps for
// debugging failed or surprising translations.
package store

// Dump is one persisted stage snapshot.
type Dump struct {
	Doc     string // document identifier (usually the input path)
	Stage   string // "tokens", "calltree", or "output"
	Content string
}

// Store is the interface for dump persistence.
type Store interface {
	// Put stores a stage dump, overwriting any previous dump for the
	// same document and stage.
	Put(doc, stage, content string) error
	// Get retrieves a stage dump. Returns "" if not found.
	Get(doc, stage string) (string, error)
	// Stages returns the stages recorded for a document, in insertion
	// order.
	Stages(doc string) ([]string, error)
	// Close releases resources.
	Close() error
}
