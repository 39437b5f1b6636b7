package interp

import (
	"errors"
	"io"

	"github.com/rs/zerolog/log"
)

// Eval reads tokens from buf and executes them against st until the buffer
// is exhausted or a token fails. The first failure is returned unchanged.
func Eval(buf *Buffer, st *State) error {
	for {
		c, err := buf.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &Error{Kind: IOError, Message: "Read error: " + err.Error(), Err: err}
		}
		if isSpace(c) {
			continue
		}
		if err := Step(c, buf, st); err != nil {
			log.Trace().Str("token", string(c)).Int("depth", st.depth).Err(err).Msg("Eval: step error")
			return err
		}
		st.steps++
		if st.OnStep != nil {
			if err := st.OnStep(c, st.depth, st); err != nil {
				return err
			}
		}
	}
}

// EvalString evaluates code at the current nesting level of st.
func EvalString(code string, st *State) error {
	return Eval(NewStringBuffer(code), st)
}

// nested evaluates quoted code one level deeper, sharing the stack.
func nested(code string, st *State) error {
	if st.MaxDepth > 0 && st.depth >= st.MaxDepth {
		return newError(DepthError, "Recursion depth limit %d exceeded", st.MaxDepth)
	}
	st.depth++
	if st.depth > st.maxSeen {
		st.maxSeen = st.depth
	}
	defer func() { st.depth-- }()
	log.Trace().Int("depth", st.depth).Str("code", code).Msg("Eval: enter nested")
	err := EvalString(code, st)
	log.Trace().Int("depth", st.depth).Bool("ok", err == nil).Msg("Eval: leave nested")
	return err
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
