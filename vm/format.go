package vm

import (
	"strings"
)

// Format renders a value in its canonical text form. Strings are quoted
// without re-escaping their contents.
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// FormatStack renders a whole stack bottom to top, e.g. `stack: 1 "a" [2 3]`.
func FormatStack(stack []Value) string {
	var b strings.Builder
	b.WriteString("stack:")
	for _, v := range stack {
		b.WriteByte(' ')
		writeValue(&b, v)
	}
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case StrValue:
		b.WriteByte('"')
		b.WriteString(string(val))
		b.WriteByte('"')
	case IntValue:
		b.WriteString(val.String())
	case ArrayValue:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, elem)
		}
		b.WriteByte(']')
	case nil:
		b.WriteString("<nil>")
	}
}
