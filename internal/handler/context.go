package handler

// Context is a lexical emission context. The translator keeps a stack of
// these; the top decides how literal text is rendered.
type Context int

const (
	Normal Context = iota
	Math
	FnArg // verbatim: literal text passes through unmodified
	// InheritParent is used by handlers whose body keeps the enclosing
	// context; it never appears on the context stack itself.
	InheritParent
)

// Substitutes reports whether literal text in this context undergoes
// substitution.
func (c Context) Substitutes() bool {
	return c != FnArg
}

func (c Context) String() string {
	switch c {
	case Normal:
		return "NORMAL"
	case Math:
		return "MATH"
	case FnArg:
		return "FN_ARG"
	case InheritParent:
		return "INHERIT_PARENT"
	}
	return "UNKNOWN"
}
