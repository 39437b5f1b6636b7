package cas

import (
	"fmt"
	"io"

	"github.com/shamaton/msgpack/v2"
	"github.com/wln-lang/wln/vm"
)

// Snapshot is a point-in-time copy of an operand stack.
type Snapshot struct {
	Stack []vm.Value
}

// valueRecord is the self-contained encoding used by Serialize, where the
// whole stack travels in one message instead of being split into entries.
type valueRecord struct {
	Kind  uint8
	Text  string
	Elems []valueRecord
}

const recordArray uint8 = 2

func (s *Snapshot) Serialize(w io.Writer) error {
	recs := make([]valueRecord, len(s.Stack))
	for i, v := range s.Stack {
		rec, err := toRecord(v)
		if err != nil {
			return err
		}
		recs[i] = rec
	}
	return msgpack.MarshalWrite(w, recs)
}

func (s *Snapshot) Deserialize(r io.Reader) error {
	var recs []valueRecord
	if err := msgpack.UnmarshalRead(r, &recs); err != nil {
		return err
	}
	s.Stack = make([]vm.Value, len(recs))
	for i, rec := range recs {
		v, err := fromRecord(rec)
		if err != nil {
			return fmt.Errorf("stack value %d: %w", i, err)
		}
		s.Stack[i] = v
	}
	return nil
}

func (s *Snapshot) String() string {
	return vm.FormatStack(s.Stack)
}

func toRecord(v vm.Value) (valueRecord, error) {
	switch val := v.(type) {
	case vm.StrValue:
		return valueRecord{Kind: scalarString, Text: string(val)}, nil
	case vm.IntValue:
		return valueRecord{Kind: scalarInteger, Text: val.String()}, nil
	case vm.ArrayValue:
		rec := valueRecord{Kind: recordArray, Elems: make([]valueRecord, len(val))}
		for i, elem := range val {
			er, err := toRecord(elem)
			if err != nil {
				return rec, err
			}
			rec.Elems[i] = er
		}
		return rec, nil
	}
	return valueRecord{}, fmt.Errorf("unknown value type: %T", v)
}

func fromRecord(rec valueRecord) (vm.Value, error) {
	switch rec.Kind {
	case scalarString, scalarInteger:
		return scalarValue(ScalarEntry{Kind: rec.Kind, Text: rec.Text})
	case recordArray:
		out := make(vm.ArrayValue, len(rec.Elems))
		for i, er := range rec.Elems {
			v, err := fromRecord(er)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown record kind %d", rec.Kind)
}

func scalarValue(e ScalarEntry) (vm.Value, error) {
	switch e.Kind {
	case scalarString:
		return vm.StrValue(e.Text), nil
	case scalarInteger:
		n, ok := vm.ParseInt(e.Text)
		if !ok {
			return nil, fmt.Errorf("malformed integer %q", e.Text)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unknown scalar kind %d", e.Kind)
}

// decomposeSnapshot stores every stack value as its own entry and returns
// the hash of the SnapshotRef tying them together.
func decomposeSnapshot(c *MemoryCAS, s *Snapshot) (Hash, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot decompose nil Snapshot")
	}
	ref := &SnapshotRef{StackHashes: make([]Hash, len(s.Stack))}
	for i, v := range s.Stack {
		h, err := decomposeValue(c, v)
		if err != nil {
			return 0, fmt.Errorf("decomposing stack value %d: %w", i, err)
		}
		ref.StackHashes[i] = h
	}
	return putDirect(c, ref)
}

func decomposeValue(c *MemoryCAS, v vm.Value) (Hash, error) {
	switch val := v.(type) {
	case vm.StrValue:
		return putDirect(c, &ScalarEntry{Kind: scalarString, Text: string(val)})
	case vm.IntValue:
		return putDirect(c, &ScalarEntry{Kind: scalarInteger, Text: val.String()})
	case vm.ArrayValue:
		ref := &ArrayValueRef{ElementHashes: make([]Hash, len(val))}
		for i, elem := range val {
			h, err := decomposeValue(c, elem)
			if err != nil {
				return 0, fmt.Errorf("decomposing array element %d: %w", i, err)
			}
			ref.ElementHashes[i] = h
		}
		return putDirect(c, ref)
	}
	return 0, fmt.Errorf("unknown value type: %T", v)
}

func recomposeSnapshot(c directStore, hash Hash) (*Snapshot, error) {
	ref, err := getDirect[*SnapshotRef](c, hash)
	if err != nil {
		return nil, fmt.Errorf("retrieving SnapshotRef: %w", err)
	}
	snap := &Snapshot{Stack: make([]vm.Value, len(ref.StackHashes))}
	for i, h := range ref.StackHashes {
		v, err := recomposeValue(c, h)
		if err != nil {
			return nil, fmt.Errorf("recomposing stack value %d: %w", i, err)
		}
		snap.Stack[i] = v
	}
	return snap, nil
}

func recomposeValue(c directStore, hash Hash) (vm.Value, error) {
	vc, caching := c.(valueCache)
	if caching {
		if v, ok := vc.value(hash); ok {
			return v, nil
		}
	}
	item, err := getDirect[Hashable](c, hash)
	if err != nil {
		return nil, err
	}
	var out vm.Value
	switch entry := item.(type) {
	case *ScalarEntry:
		out, err = scalarValue(*entry)
		if err != nil {
			return nil, err
		}
	case *ArrayValueRef:
		arr := make(vm.ArrayValue, len(entry.ElementHashes))
		for i, h := range entry.ElementHashes {
			v, err := recomposeValue(c, h)
			if err != nil {
				return nil, fmt.Errorf("recomposing array element %d: %w", i, err)
			}
			arr[i] = v
		}
		out = arr
	default:
		return nil, fmt.Errorf("unexpected entry %T for value", item)
	}
	if caching {
		vc.keepValue(hash, out)
	}
	return out, nil
}
