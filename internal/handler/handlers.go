package handler

import (
	"fmt"
	"strings"

	"github.com/marktex/marktex/internal/value"
)

// block is the generic fallback: a \begin{env} ... \end{env} pair.
type block struct {
	env string
}

func (b *block) Begin() string        { return "\\begin{" + b.env + "}" }
func (b *block) End() string          { return "\\end{" + b.env + "}" }
func (b *block) WantsBody() bool      { return true }
func (b *block) BodyContext() Context { return InheritParent }

// command renders \name{arg}{arg}: one brace group per positional
// argument, no body.
type command struct {
	name string
	call *value.Call
}

func (c *command) Begin() string {
	var sb strings.Builder
	sb.WriteByte('\\')
	sb.WriteString(c.name)
	for _, a := range c.call.Args {
		sb.WriteByte('{')
		sb.WriteString(a.Text())
		sb.WriteByte('}')
	}
	return sb.String()
}

func (c *command) End() string          { return "" }
func (c *command) WantsBody() bool      { return false }
func (c *command) BodyContext() Context { return InheritParent }

// header emits the assignment title block from the configured header
// fields, each overridable by a keyword argument of the same name.
type header struct {
	call *value.Call
	st   *State
}

func newHeader(call *value.Call, st *State) Handler {
	return &header{call: call, st: st}
}

func (h *header) Begin() string {
	cfg := h.st.Header

	var lines []string
	if title := h.call.Kwarg("title", cfg.Title); title != "" {
		lines = append(lines, "{\\LARGE "+title+"}")
	}
	if name := h.call.Kwarg("name", cfg.Name); name != "" {
		lines = append(lines, name)
	}
	if id := h.call.Kwarg("id", cfg.ID); id != "" {
		lines = append(lines, id)
	}
	course := h.call.Kwarg("course", cfg.Course)
	semester := h.call.Kwarg("semester", cfg.Semester)
	switch {
	case course != "" && semester != "":
		lines = append(lines, course+" --- "+semester)
	case course != "":
		lines = append(lines, course)
	case semester != "":
		lines = append(lines, semester)
	}
	if ins := h.call.Kwarg("instructor", cfg.Instructor); ins != "" {
		lines = append(lines, ins)
	}
	return "\\begin{center}\n" + strings.Join(lines, "\\\\\n") + "\n\\end{center}"
}

func (h *header) End() string          { return "" }
func (h *header) WantsBody() bool      { return false }
func (h *header) BodyContext() Context { return InheritParent }

// problem is the auto-numbered problem heading. The counter lives on the
// run state, starts at 1, and is monotonic within one translation.
type problem struct {
	call *value.Call
	st   *State
}

func newProblem(call *value.Call, st *State) Handler {
	return &problem{call: call, st: st}
}

func (p *problem) Begin() string {
	n := p.st.NextProblem()
	if title := p.call.Arg(0); title != "" {
		return fmt.Sprintf("\\section*{Problem %d: %s}", n, title)
	}
	return fmt.Sprintf("\\section*{Problem %d}", n)
}

func (p *problem) End() string          { return "" }
func (p *problem) WantsBody() bool      { return true }
func (p *problem) BodyContext() Context { return InheritParent }

// math is a display math block.
type math struct{}

func newMath(*value.Call, *State) Handler { return math{} }

func (math) Begin() string        { return "\\[" }
func (math) End() string          { return "\\]" }
func (math) WantsBody() bool      { return true }
func (math) BodyContext() Context { return Math }

// code is a verbatim block: body text passes through unmodified.
type code struct{}

func newCode(*value.Call, *State) Handler { return code{} }

func (code) Begin() string        { return "\\begin{verbatim}" }
func (code) End() string          { return "\\end{verbatim}" }
func (code) WantsBody() bool      { return true }
func (code) BodyContext() Context { return FnArg }

// image is an inline \includegraphics call; it never takes a body, so
// its End is never invoked.
type image struct {
	call *value.Call
}

func newImage(call *value.Call, _ *State) Handler {
	return &image{call: call}
}

func (i *image) Begin() string {
	var opts []string
	if w := i.call.Kwarg("width", ""); w != "" {
		opts = append(opts, "width="+w)
	}
	if h := i.call.Kwarg("height", ""); h != "" {
		opts = append(opts, "height="+h)
	}
	if s := i.call.Kwarg("scale", ""); s != "" {
		opts = append(opts, "scale="+s)
	}
	if len(opts) > 0 {
		return fmt.Sprintf("\\includegraphics[%s]{%s}", strings.Join(opts, ","), i.call.Arg(0))
	}
	return fmt.Sprintf("\\includegraphics{%s}", i.call.Arg(0))
}

func (i *image) End() string          { return "" }
func (i *image) WantsBody() bool      { return false }
func (i *image) BodyContext() Context { return InheritParent }

// item is the inline list-item marker.
type item struct{}

func newItem(*value.Call, *State) Handler { return item{} }

func (item) Begin() string        { return "\\item " }
func (item) End() string          { return "" }
func (item) WantsBody() bool      { return false }
func (item) BodyContext() Context { return InheritParent }
