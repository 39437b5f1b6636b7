package test

import (
	"errors"
	"testing"

	"github.com/wln-lang/wln/interp"
)

// TestErrorsKeepPartialStack runs failing programs and checks the message
// and what remains on the stack
func TestErrorsKeepPartialStack(t *testing.T) {
	tests := []struct {
		code    string
		kind    interp.ErrorKind
		message string
		stack   string
	}{
		{"5 &", interp.UnexpectedCharError, "Unexpected character &", "stack: 5"},
		{"1 +", interp.ArityError, "Operator '+' expected two values on the stack", "stack: 1"},
		{"1 0 /", interp.DivisionError, "Division error: division by zero", "stack:"},
		{`1 "a" -`, interp.TypeError, "Subtraction error", "stack:"},
		{"3 { 2 x } !", interp.UnexpectedCharError, "Unexpected character x", "stack: 3 2"},
	}
	for _, tt := range tests {
		state := interp.NewState()
		err := interp.EvalString(tt.code, state)
		if err == nil {
			t.Fatalf("%q: expected an error", tt.code)
		}
		var ierr *interp.Error
		if !errors.As(err, &ierr) {
			t.Fatalf("%q: expected *interp.Error, got %T", tt.code, err)
		}
		if ierr.Kind != tt.kind {
			t.Errorf("%q: expected kind %v, got %v", tt.code, tt.kind, ierr.Kind)
		}
		if err.Error() != tt.message {
			t.Errorf("%q: expected message %q, got %q", tt.code, tt.message, err.Error())
		}
		if state.String() != tt.stack {
			t.Errorf("%q: expected %s, got %s", tt.code, tt.stack, state)
		}
	}
}

// TestStringRepetitionIsNotApplied pins the behavior of string * integer,
// which returns the string unchanged
func TestStringRepetitionIsNotApplied(t *testing.T) {
	state := eval(t, `"ab" 3 *`)
	if state.String() != `stack: "ab"` {
		t.Errorf("expected the string back unchanged, got %s", state)
	}
}
