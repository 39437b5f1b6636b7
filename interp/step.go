package interp

import (
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wln-lang/wln/vm"
)

type traceValue struct{ v vm.Value }

func (t traceValue) String() string { return vm.Format(t.v) }

// Step executes the single token c. Literal tokens read the rest of their
// text from buf.
func Step(c rune, buf *Buffer, st *State) error {
	log.Trace().
		Str("token", string(c)).
		Int("depth", st.depth).
		Int("stack_depth", len(st.Stack)).
		Msg("Step: executing token")

	switch {
	case c == '"':
		s, err := readQuoted(buf)
		if err != nil {
			return err
		}
		st.Push(s)
		log.Trace().Stringer("value", traceValue{s}).Msg("  STRING")
		return nil
	case c == '{':
		s, err := readBraced(buf)
		if err != nil {
			return err
		}
		st.Push(s)
		log.Trace().Stringer("value", traceValue{s}).Msg("  BRACED")
		return nil
	case c >= '0' && c <= '9':
		n, err := readInteger(c, buf)
		if err != nil {
			return err
		}
		st.Push(n)
		log.Trace().Stringer("value", n).Msg("  INTEGER")
		return nil
	}

	switch c {
	case '+':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		b := st.Pop()
		a := st.Pop()
		v, err := add(a, b)
		if err != nil {
			return err
		}
		st.Push(v)
		log.Trace().Stringer("a", traceValue{a}).Stringer("b", traceValue{b}).Stringer("result", traceValue{v}).Msg("  ADD")
	case '-', '*', '/':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		b := st.Pop()
		a := st.Pop()
		v, err := arith(c, a, b)
		if err != nil {
			return err
		}
		st.Push(v)
		log.Trace().Str("op", string(c)).Stringer("a", traceValue{a}).Stringer("b", traceValue{b}).Stringer("result", traceValue{v}).Msg("  NUMERIC_OP")
	case '!':
		if len(st.Stack) < 1 {
			return arityErr(c, 1)
		}
		code, ok := st.Pop().(vm.StrValue)
		if !ok {
			return typeErr("Only strings can be evaluated")
		}
		log.Trace().Str("code", string(code)).Stringer("stack", st).Msg("  EVAL")
		return nested(string(code), st)
	case '@':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		i := st.Pop()
		coll := st.Pop()
		rest, item, err := removeAt(coll, i)
		if err != nil {
			return err
		}
		st.Push(rest)
		st.Push(item)
		log.Trace().Stringer("index", traceValue{i}).Stringer("item", traceValue{item}).Msg("  REMOVE")
	case '#':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		nv := st.Pop()
		cv := st.Pop()
		code, okc := cv.(vm.StrValue)
		n, okn := nv.(vm.IntValue)
		if !okc || !okn {
			return typeErr("Operator '#' expected a string and an integer")
		}
		log.Trace().Str("code", string(code)).Stringer("count", n).Stringer("stack", st).Msg("  LOOP")
		return loop(string(code), n, st)
	case '$':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		b := st.Pop()
		a := st.Pop()
		st.Push(b)
		st.Push(a)
		log.Trace().Stringer("a", traceValue{a}).Stringer("b", traceValue{b}).Msg("  SWAP")
	case '%':
		if len(st.Stack) < 1 {
			return arityErr(c, 1)
		}
		a := st.Pop()
		st.Push(a)
		st.Push(a.Clone())
		log.Trace().Stringer("value", traceValue{a}).Msg("  DUP")
	case '[':
		st.Push(vm.ArrayValue{})
		log.Trace().Msg("  ARRAY")
	case '?':
		if len(st.Stack) < 3 {
			return arityErr(c, 3)
		}
		cv := st.Pop()
		fv := st.Pop()
		tv := st.Pop()
		t, okt := tv.(vm.StrValue)
		f, okf := fv.(vm.StrValue)
		cond, okc := cv.(vm.IntValue)
		if !okt || !okf || !okc {
			return typeErr("Operator '?' expected two strings and an integer")
		}
		log.Trace().Stringer("cond", cond).Stringer("stack", st).Msg("  BRANCH")
		if !cond.IsZero() {
			return nested(string(t), st)
		}
		return nested(string(f), st)
	case ';':
		if len(st.Stack) < 1 {
			return arityErr(c, 1)
		}
		v := st.Pop()
		log.Trace().Stringer("value", traceValue{v}).Msg("  POP")
	case ':':
		if len(st.Stack) < 1 {
			return arityErr(c, 1)
		}
		v := st.Pop()
		var n int
		switch val := v.(type) {
		case vm.ArrayValue:
			n = len(val)
		case vm.StrValue:
			n = val.Len()
		default:
			return typeErr("Operator ':' cannot be applied to integers")
		}
		st.Push(v)
		st.Push(vm.NewInt(int64(n)))
		log.Trace().Int("length", n).Msg("  LENGTH")
	case '=':
		if len(st.Stack) < 2 {
			return arityErr(c, 2)
		}
		b := st.Pop()
		a := st.Pop()
		result := vm.Bool(vm.Equal(a, b))
		st.Push(result)
		log.Trace().Stringer("a", traceValue{a}).Stringer("b", traceValue{b}).Stringer("result", result).Msg("  EQ")
	case 'Z':
		if err := st.Print(st.Out); err != nil {
			return &Error{Kind: IOError, Message: "Write error: " + err.Error(), Err: err}
		}
		log.Trace().Stringer("stack", st).Msg("  PRINT")
	default:
		return newError(UnexpectedCharError, "Unexpected character %c", c)
	}
	return nil
}

// readQuoted reads the body of a "..." literal. An unterminated literal
// yields whatever was read.
func readQuoted(buf *Buffer) (vm.StrValue, error) {
	var sb strings.Builder
	for {
		c, err := buf.Next()
		if err != nil {
			return vm.StrValue(sb.String()), eofOK(err)
		}
		switch c {
		case '"':
			return vm.StrValue(sb.String()), nil
		case '\\':
			e, err := buf.Next()
			if err != nil {
				return vm.StrValue(sb.String()), eofOK(err)
			}
			switch e {
			case 'n':
				e = '\n'
			case 'r':
				e = '\r'
			case 't':
				e = '\t'
			}
			sb.WriteRune(e)
		default:
			sb.WriteRune(c)
		}
	}
}

// readBraced reads the body of a {...} literal, keeping nested brace pairs.
func readBraced(buf *Buffer) (vm.StrValue, error) {
	var sb strings.Builder
	depth := 1
	for {
		c, err := buf.Next()
		if err != nil {
			return vm.StrValue(sb.String()), eofOK(err)
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return vm.StrValue(sb.String()), nil
			}
		}
		sb.WriteRune(c)
	}
}

func readInteger(first rune, buf *Buffer) (vm.IntValue, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		c, err := buf.Next()
		if err != nil {
			if err = eofOK(err); err != nil {
				return vm.IntValue{}, err
			}
			break
		}
		if c < '0' || c > '9' {
			buf.Back(c)
			break
		}
		sb.WriteRune(c)
	}
	n, _ := vm.ParseInt(sb.String())
	return n, nil
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return &Error{Kind: IOError, Message: "Read error: " + err.Error(), Err: err}
}
