package cas

import (
	"io"

	"github.com/shamaton/msgpack/v2"
)

const (
	scalarString uint8 = iota
	scalarInteger
)

// ScalarEntry stores a String or an Integer. Integers are kept as decimal
// text since msgpack has no arbitrary-precision type.
type ScalarEntry struct {
	Kind uint8
	Text string
}

func (s *ScalarEntry) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *ScalarEntry) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

// ArrayValueRef is the CAS representation of vm.ArrayValue: one hash per
// element, so equal sub-arrays are shared between snapshots.
type ArrayValueRef struct {
	ElementHashes []Hash
}

func (a *ArrayValueRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, a)
}

func (a *ArrayValueRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, a)
}

// SnapshotRef is the CAS representation of a Snapshot, bottom of stack first.
type SnapshotRef struct {
	StackHashes []Hash
}

func (s *SnapshotRef) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *SnapshotRef) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}
