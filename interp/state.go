package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/wln-lang/wln/vm"
)

// DefaultMaxDepth bounds the nesting of '!', '#' and '?' evaluations.
const DefaultMaxDepth = 10000

// State is the operand stack shared by an evaluation and every evaluation it
// nests. States are independent of each other.
type State struct {
	Stack []vm.Value

	// Out receives the output of 'Z'; os.Stdout unless WithOutput is given.
	Out io.Writer

	// MaxDepth of nested evaluations; 0 disables the limit.
	MaxDepth int

	// OnStep, if set, runs after every completed token.
	OnStep StepHook

	depth   int
	maxSeen int
	steps   int
}

type StateOption func(*State)

func WithOutput(w io.Writer) StateOption {
	return func(s *State) { s.Out = w }
}

func WithMaxDepth(n int) StateOption {
	return func(s *State) { s.MaxDepth = n }
}

func WithStepHook(h StepHook) StateOption {
	return func(s *State) { s.OnStep = h }
}

func WithStack(values ...vm.Value) StateOption {
	return func(s *State) { s.Stack = append(s.Stack, values...) }
}

func NewState(opts ...StateOption) *State {
	s := &State{
		Out:      os.Stdout,
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *State) Len() int {
	return len(s.Stack)
}

func (s *State) Push(v vm.Value) {
	s.Stack = append(s.Stack, v)
}

// Pop panics on an empty stack; operators check arity before popping.
func (s *State) Pop() vm.Value {
	if len(s.Stack) == 0 {
		panic("Stack underrun")
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack[len(s.Stack)-1] = nil
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v
}

func (s *State) Clear() {
	s.Stack = nil
}

// Snapshot returns a deep copy of the stack.
func (s *State) Snapshot() []vm.Value {
	out := make([]vm.Value, len(s.Stack))
	for i, v := range s.Stack {
		out[i] = v.Clone()
	}
	return out
}

// Depth is the current nesting level, 0 outside any '!', '#' or '?'.
func (s *State) Depth() int {
	return s.depth
}

// MaxDepthReached is the deepest nesting seen so far.
func (s *State) MaxDepthReached() int {
	return s.maxSeen
}

// Steps counts completed tokens across all nesting levels.
func (s *State) Steps() int {
	return s.steps
}

// String is the canonical stack form.
func (s *State) String() string {
	return vm.FormatStack(s.Stack)
}

// Print writes the canonical stack form followed by a newline.
func (s *State) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, s.String())
	return err
}
