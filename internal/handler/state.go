package handler

import "github.com/marktex/marktex/internal/config"

// State is the mutable per-run translation state shared by handler
// instances. A fresh State must be constructed for every independent
// translation so numbering restarts at 1.
type State struct {
	Header   config.Header
	problems int
}

// NewState creates run state for one translation pass.
func NewState(h config.Header) *State {
	return &State{Header: h}
}

// NextProblem increments and returns the problem counter.
func (s *State) NextProblem() int {
	s.problems++
	return s.problems
}
