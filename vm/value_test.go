package vm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same ints", NewInt(5), NewInt(5), true},
		{"different ints", NewInt(5), NewInt(6), false},
		{"int vs digit string", NewInt(5), StrValue("5"), false},
		{"strings", StrValue("ab"), StrValue("ab"), true},
		{"empty arrays", ArrayValue{}, ArrayValue{}, true},
		{"nested arrays", ArrayValue{NewInt(1), ArrayValue{StrValue("x")}}, ArrayValue{NewInt(1), ArrayValue{StrValue("x")}}, true},
		{"array length differs", ArrayValue{NewInt(1)}, ArrayValue{NewInt(1), NewInt(2)}, false},
		{"array vs string", ArrayValue{}, StrValue(""), false},
		{"zero value int", IntValue{}, NewInt(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
			assert.Equal(t, tt.equal, Equal(tt.b, tt.a))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, `"a b"`, Format(StrValue("a b")))
	assert.Equal(t, "-12", Format(NewInt(-12)))
	assert.Equal(t, "[]", Format(ArrayValue{}))
	assert.Equal(t, `[1 "x" [2]]`, Format(ArrayValue{NewInt(1), StrValue("x"), ArrayValue{NewInt(2)}}))
	assert.Equal(t, "stack:", FormatStack(nil))
	assert.Equal(t, `stack: 1 "q"`, FormatStack([]Value{NewInt(1), StrValue("q")}))
}

func TestCloneIsDeep(t *testing.T) {
	orig := ArrayValue{NewInt(1), ArrayValue{NewInt(2)}}
	clone := orig.Clone().(ArrayValue)
	clone[1].(ArrayValue)[0] = NewInt(99)
	assert.Equal(t, "[1 [2]]", Format(orig))
	assert.Equal(t, "[1 [99]]", Format(clone))
}

func TestIntArithmeticDoesNotMutate(t *testing.T) {
	a := NewInt(7)
	b := NewInt(2)
	assert.Equal(t, "9", a.Add(b).String())
	assert.Equal(t, "5", a.Sub(b).String())
	assert.Equal(t, "14", a.Mul(b).String())
	assert.Equal(t, "3", a.Quo(b).String())
	assert.Equal(t, "-3", NewInt(-7).Quo(b).String())
	assert.Equal(t, "7", a.String())

	copied := a.Big()
	copied.SetInt64(100)
	assert.Equal(t, "7", a.String())
}

func TestParseInt(t *testing.T) {
	n, ok := ParseInt("340282366920938463463374607431768211456")
	require.True(t, ok)
	want, _ := new(big.Int).SetString("340282366920938463463374607431768211456", 10)
	assert.Equal(t, 0, n.Big().Cmp(want))
	_, fits := n.Int64()
	assert.False(t, fits)

	_, ok = ParseInt("12x")
	assert.False(t, ok)
}

func TestStrLenCountsRunes(t *testing.T) {
	assert.Equal(t, 3, StrValue("añb").Len())
	assert.Equal(t, KindString, StrValue("").Kind())
	assert.Equal(t, "Array", KindArray.String())
}
