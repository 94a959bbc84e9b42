// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines the argument data model produced by the
// call-tree builder.
package value

import (
	"fmt"
	"sort"
	"strings"
)

// Value is one call argument or literal payload: a bare word, a quoted
// string, a list, an object, or a nested call.
type Value interface {
	// String returns a source-like rendering, used for debug dumps.
	String() string
	// Text returns the literal text of word and string values, and ""
	// for composites.
	Text() string
}

// Word is a bare word argument.
type Word string

func (w Word) String() string { return string(w) }
func (w Word) Text() string   { return string(w) }

// Quoted is a quoted string argument.
type Quoted string

func (q Quoted) String() string { return fmt.Sprintf("%q", string(q)) }
func (q Quoted) Text() string   { return string(q) }

// List is an ordered list literal.
type List []Value

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l List) Text() string { return "" }

// Object is an object literal. Keys are unique within one literal;
// duplicates overwrite unless the parser runs in strict mode.
type Object map[string]Value

func (o Object) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + o[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o Object) Text() string { return "" }

// Call is a resolved function call with positional and keyword arguments.
// Positional order is preserved from the source; keyword order is not
// significant.
type Call struct {
	Name   string
	Line   int
	Args   []Value
	Kwargs map[string]Value
}

func (c *Call) String() string {
	var parts []string
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	keys := make([]string, 0, len(c.Kwargs))
	for k := range c.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+c.Kwargs[k].String())
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Call) Text() string { return "" }

// Kwarg returns the named keyword argument's literal text, or the
// fallback when absent or non-literal.
func (c *Call) Kwarg(name, fallback string) string {
	if v, ok := c.Kwargs[name]; ok {
		if t := v.Text(); t != "" {
			return t
		}
	}
	return fallback
}

// Arg returns the i-th positional argument's literal text, or "".
func (c *Call) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i].Text()
}
