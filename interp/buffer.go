package interp

import (
	"bufio"
	"io"
	"strings"
)

// Buffer gives the evaluator lookahead over a rune source. Runes handed back
// with Back are returned again, most recent first, before reading resumes.
type Buffer struct {
	src  io.RuneReader
	back []rune
}

// NewBuffer reads from r, wrapping it in a bufio.Reader unless it can already
// read runes.
func NewBuffer(r io.Reader) *Buffer {
	if rr, ok := r.(io.RuneReader); ok {
		return &Buffer{src: rr}
	}
	return &Buffer{src: bufio.NewReader(r)}
}

func NewStringBuffer(s string) *Buffer {
	return &Buffer{src: strings.NewReader(s)}
}

// Next returns io.EOF once both the pushback and the source are exhausted.
func (b *Buffer) Next() (rune, error) {
	if n := len(b.back); n > 0 {
		r := b.back[n-1]
		b.back = b.back[:n-1]
		return r, nil
	}
	r, _, err := b.src.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, nil
}

func (b *Buffer) Back(r rune) {
	b.back = append(b.back, r)
}
