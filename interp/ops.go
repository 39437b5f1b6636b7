package interp

import (
	"github.com/wln-lang/wln/vm"
)

func add(a, b vm.Value) (vm.Value, error) {
	switch av := a.(type) {
	case vm.ArrayValue:
		if bv, ok := b.(vm.ArrayValue); ok {
			out := make(vm.ArrayValue, 0, len(av)+len(bv))
			out = append(out, av...)
			return append(out, bv...), nil
		}
		if b == nil {
			break
		}
		return append(av, b), nil
	case vm.StrValue:
		switch bv := b.(type) {
		case vm.StrValue:
			return av + bv, nil
		case vm.IntValue:
			return av + vm.StrValue(bv.String()), nil
		}
	case vm.IntValue:
		switch bv := b.(type) {
		case vm.StrValue:
			return vm.StrValue(av.String()) + bv, nil
		case vm.IntValue:
			return av.Add(bv), nil
		}
	}
	if bv, ok := b.(vm.ArrayValue); ok && a != nil {
		out := make(vm.ArrayValue, 0, len(bv)+1)
		out = append(out, a)
		return append(out, bv...), nil
	}
	return nil, typeErr("Addition error")
}

func arith(op rune, a, b vm.Value) (vm.Value, error) {
	switch op {
	case '-':
		av, oka := a.(vm.IntValue)
		bv, okb := b.(vm.IntValue)
		if !oka || !okb {
			return nil, typeErr("Subtraction error")
		}
		return av.Sub(bv), nil
	case '*':
		bv, okb := b.(vm.IntValue)
		if !okb {
			return nil, typeErr("Multiplication error")
		}
		switch av := a.(type) {
		case vm.IntValue:
			return av.Mul(bv), nil
		case vm.StrValue:
			// Repetition is not applied: the string comes back unchanged.
			return av, nil
		}
		return nil, typeErr("Multiplication error")
	case '/':
		av, oka := a.(vm.IntValue)
		bv, okb := b.(vm.IntValue)
		if !oka || !okb {
			return nil, typeErr("Division error")
		}
		if bv.IsZero() {
			return nil, newError(DivisionError, "Division error: division by zero")
		}
		return av.Quo(bv), nil
	}
	return nil, newError(UnexpectedCharError, "Unexpected character %c", op)
}

// removeAt removes element i from an Array or String. Negative indices count
// from the end.
func removeAt(coll, iv vm.Value) (vm.Value, vm.Value, error) {
	idx, ok := iv.(vm.IntValue)
	if !ok {
		return nil, nil, typeErr("Indexing can only be done with an array/string and an integer")
	}
	switch c := coll.(type) {
	case vm.ArrayValue:
		i, err := normalizeIndex(idx, len(c))
		if err != nil {
			return nil, nil, err
		}
		item := c[i]
		rest := make(vm.ArrayValue, 0, len(c)-1)
		rest = append(rest, c[:i]...)
		rest = append(rest, c[i+1:]...)
		return rest, item, nil
	case vm.StrValue:
		runes := []rune(string(c))
		i, err := normalizeIndex(idx, len(runes))
		if err != nil {
			return nil, nil, err
		}
		item := vm.StrValue(string(runes[i]))
		rest := string(runes[:i]) + string(runes[i+1:])
		return vm.StrValue(rest), item, nil
	}
	return nil, nil, typeErr("Indexing can only be done with an array/string and an integer")
}

func normalizeIndex(idx vm.IntValue, length int) (int, error) {
	if idx.Sign() < 0 {
		idx = idx.Add(vm.NewInt(int64(length)))
	}
	i, ok := idx.Int64()
	if !ok || i < 0 || i >= int64(length) {
		return 0, newError(IndexError, "Index %s out of range for length %d", idx, length)
	}
	return int(i), nil
}

// loop pushes each counter 0..n-1 and evaluates code after each push.
func loop(code string, n vm.IntValue, st *State) error {
	one := vm.NewInt(1)
	for i := vm.NewInt(0); i.Cmp(n) < 0; i = i.Add(one) {
		st.Push(i)
		if err := nested(code, st); err != nil {
			return err
		}
	}
	return nil
}
