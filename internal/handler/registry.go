// Package handler maps call names to the objects that produce their
// LaTeX begin/end text.
package handler

import (
	"strings"

	"github.com/marktex/marktex/internal/value"
)

// Handler is bound to one resolved call and produces its opening and
// closing output text.
type Handler interface {
	// Begin returns the opening text. Called exactly once per call,
	// immediately; may mutate run state (e.g. numbering).
	Begin() string
	// End returns the closing text. Called only when the call had a
	// closure body.
	End() string
	// WantsBody reports whether the call expects a closure body.
	WantsBody() bool
	// BodyContext is the context pushed for the closure body, or
	// InheritParent to keep the enclosing one.
	BodyContext() Context
}

// Constructor builds a handler bound to one call.
type Constructor func(call *value.Call, st *State) Handler

// Registry is an immutable mapping from call name to handler
// constructor, with a default fallback for unregistered names.
type Registry struct {
	ctors    map[string]Constructor
	aliases  map[string]string
	commands map[string]struct{}
}

// envAliases maps markup names to the LaTeX environments they stand for.
var envAliases = map[string]string{
	"Box": "mdframed",
	"Eq":  "align*",
}

// commandNames are calls rendered as \name{arg}{arg} instead of a
// begin/end block.
var commandNames = []string{
	"Section", "Subsection", "Textbf", "Textit", "Underline",
}

// NewRegistry builds the default registry.
func NewRegistry() *Registry {
	r := &Registry{
		ctors:    make(map[string]Constructor),
		aliases:  envAliases,
		commands: make(map[string]struct{}),
	}
	for _, name := range commandNames {
		r.commands[name] = struct{}{}
	}

	r.ctors["Header"] = newHeader
	r.ctors["Problem"] = newProblem
	r.ctors["Math"] = newMath
	r.ctors["Code"] = newCode
	r.ctors["Image"] = newImage
	r.ctors["Item"] = newItem
	return r
}

// Register adds or replaces a constructor. Must happen before
// translation begins, never during a walk.
func (r *Registry) Register(name string, c Constructor) {
	r.ctors[name] = c
}

// Resolve returns the handler for a call: a registered constructor, the
// command form for the fixed command set, or the generic block fallback.
func (r *Registry) Resolve(call *value.Call, st *State) Handler {
	if ctor, ok := r.ctors[call.Name]; ok {
		return ctor(call, st)
	}
	if _, ok := r.commands[call.Name]; ok {
		return &command{name: strings.ToLower(call.Name), call: call}
	}
	env := call.Name
	if alias, ok := r.aliases[env]; ok {
		env = alias
	} else {
		env = strings.ToLower(env)
	}
	return &block{env: env}
}
