package interp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures. Every kind is fatal to the
// evaluation that raised it and to every evaluation enclosing it.
type ErrorKind int

const (
	ArityError ErrorKind = iota
	TypeError
	UnexpectedCharError
	DivisionError
	IndexError
	DepthError
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case ArityError:
		return "ArityError"
	case TypeError:
		return "TypeError"
	case UnexpectedCharError:
		return "UnexpectedCharError"
	case DivisionError:
		return "DivisionError"
	case IndexError:
		return "IndexError"
	case DepthError:
		return "DepthError"
	case IOError:
		return "IOError"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error is the single error type returned by the evaluator.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an evaluator error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

var arityWords = [...]string{"zero", "one", "two", "three"}

func arityErr(op rune, n int) *Error {
	word := fmt.Sprint(n)
	if n < len(arityWords) {
		word = arityWords[n]
	}
	noun := "values"
	if n == 1 {
		noun = "value"
	}
	return newError(ArityError, "Operator '%c' expected %s %s on the stack", op, word, noun)
}

func typeErr(message string) *Error {
	return &Error{Kind: TypeError, Message: message}
}

// StepHook is notified after every token the evaluator completes. depth is
// the nesting level of the evaluation that ran the token, 0 for top level.
type StepHook func(token rune, depth int, st *State) error
