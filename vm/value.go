package vm

import (
	"math/big"
)

// Value is one entry on the operand stack. The set of implementations is
// closed: StrValue, IntValue and ArrayValue.
type Value interface {
	isValue()
	Kind() Kind
	Clone() Value
}

type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindArray:
		return "Array"
	default:
		return "Unknown"
	}
}

type StrValue string

func (StrValue) isValue()       {}
func (StrValue) Kind() Kind     { return KindString }
func (s StrValue) Clone() Value { return s }

// Len is the length in runes.
func (s StrValue) Len() int {
	return len([]rune(string(s)))
}

// IntValue is an arbitrary-precision integer. The wrapped big.Int is never
// mutated after construction, so copies may share it.
type IntValue struct {
	n *big.Int
}

func (IntValue) isValue()       {}
func (IntValue) Kind() Kind     { return KindInteger }
func (i IntValue) Clone() Value { return i }

func NewInt(n int64) IntValue {
	return IntValue{n: big.NewInt(n)}
}

// ParseInt parses a base 10 integer literal with an optional leading sign.
func ParseInt(s string) (IntValue, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return IntValue{}, false
	}
	return IntValue{n: n}, true
}

// Big returns a copy of the integer.
func (i IntValue) Big() *big.Int {
	return new(big.Int).Set(i.big())
}

func (i IntValue) big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return i.n
}

func (i IntValue) Sign() int {
	return i.big().Sign()
}

func (i IntValue) IsZero() bool {
	return i.Sign() == 0
}

// Int64 reports the value as an int64 if it fits.
func (i IntValue) Int64() (int64, bool) {
	b := i.big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

func (i IntValue) Cmp(o IntValue) int {
	return i.big().Cmp(o.big())
}

func (i IntValue) Add(o IntValue) IntValue {
	return IntValue{n: new(big.Int).Add(i.big(), o.big())}
}

func (i IntValue) Sub(o IntValue) IntValue {
	return IntValue{n: new(big.Int).Sub(i.big(), o.big())}
}

func (i IntValue) Mul(o IntValue) IntValue {
	return IntValue{n: new(big.Int).Mul(i.big(), o.big())}
}

// Quo divides truncating toward zero. The caller must rule out a zero divisor.
func (i IntValue) Quo(o IntValue) IntValue {
	return IntValue{n: new(big.Int).Quo(i.big(), o.big())}
}

func (i IntValue) String() string {
	return i.big().String()
}

type ArrayValue []Value

func (ArrayValue) isValue()   {}
func (ArrayValue) Kind() Kind { return KindArray }

func (a ArrayValue) Clone() Value {
	out := make(ArrayValue, len(a))
	for i, v := range a {
		out[i] = v.Clone()
	}
	return out
}

// Equal reports structural equality. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av.Cmp(bv) == 0
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Bool converts a truth value to the Integer 1 or 0.
func Bool(b bool) IntValue {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}
