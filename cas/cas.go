package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wln-lang/wln/vm"
)

// CAS is a content-addressed store: identical items always land on the
// same Hash.
type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type directStore interface {
	getValue(h Hash) (bool, []byte, error)
}

// valueCache is implemented by stores that keep rebuilt stack values.
type valueCache interface {
	value(h Hash) (vm.Value, bool)
	keepValue(h Hash, v vm.Value)
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

func Retrieve[T Hashable](c CAS, hash Hash) (T, error) {
	var t T
	v, ok := c.(directStore)
	if !ok {
		return t, errors.New("CAS does not support direct retrieval")
	}

	// Snapshots are stored decomposed and have to be rebuilt
	if _, isSnapshot := any(t).(*Snapshot); isSnapshot {
		snap, err := recomposeSnapshot(v, hash)
		if err != nil {
			return t, fmt.Errorf("recomposing Snapshot: %w", err)
		}
		return any(snap).(T), nil
	}
	return getDirect[T](v, hash)
}

// getDirect fetches and decodes one stored entry without snapshot handling.
func getDirect[T Hashable](c directStore, hash Hash) (T, error) {
	var t T
	has, data, err := c.getValue(hash)
	if err != nil {
		return t, err
	}
	if !has {
		return t, fmt.Errorf("hash not found in CAS: %s", hash)
	}
	entry := &TypedEntry{}
	if err := entry.Deserialize(bytes.NewReader(data)); err != nil {
		return t, fmt.Errorf("deserializing TypedEntry: %w", err)
	}
	instance, err := createInstance(entry.TypeTag)
	if err != nil {
		return t, err
	}
	if err := instance.Deserialize(bytes.NewReader(entry.Data)); err != nil {
		return t, fmt.Errorf("deserializing %s: %w", entry.TypeTag, err)
	}
	result, ok := instance.(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: expected %T, got %T", t, instance)
	}
	return result, nil
}
