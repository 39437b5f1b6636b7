package program

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wln-lang/wln/cas"
	"github.com/wln-lang/wln/vm"
)

// DefaultCacheSize is the number of snapshot entries a Tracer keeps decoded.
const DefaultCacheSize = 1000

// TraceStep is one completed token together with the stack it left behind.
type TraceStep struct {
	Index     int
	Token     rune
	Depth     int
	StackSize int
	Hash      cas.Hash
	New       bool // first time this stack was seen during the run
}

// Tracer stores a snapshot of the stack after every step in a CAS, so
// repeated stack states share storage and any step can be replayed.
type Tracer struct {
	CAS   cas.CAS
	Steps []TraceStep
	seen  map[cas.Hash]bool
}

func NewTracer(cacheSize int) *Tracer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Tracer{
		CAS:  cas.NewLRUCache(cas.NewMemoryCAS(), cacheSize),
		seen: make(map[cas.Hash]bool),
	}
}

// Record snapshots stack and appends a step. The stack is serialized
// immediately, so the caller may keep mutating it.
func (t *Tracer) Record(token rune, depth int, stack []vm.Value) (TraceStep, error) {
	h, err := t.CAS.Put(&cas.Snapshot{Stack: stack})
	if err != nil {
		return TraceStep{}, fmt.Errorf("recording step %d: %w", len(t.Steps)+1, err)
	}
	step := TraceStep{
		Index:     len(t.Steps) + 1,
		Token:     token,
		Depth:     depth,
		StackSize: len(stack),
		Hash:      h,
		New:       !t.seen[h],
	}
	t.seen[h] = true
	t.Steps = append(t.Steps, step)
	log.Trace().
		Int("index", step.Index).
		Str("token", string(token)).
		Stringer("hash", h).
		Bool("new", step.New).
		Msg("Tracer: recorded step")
	return step, nil
}

// Unique is the number of distinct stack states recorded.
func (t *Tracer) Unique() int {
	return len(t.seen)
}

// Replay rebuilds the stack as it was after step i (1-based).
func (t *Tracer) Replay(i int) ([]vm.Value, error) {
	if i < 1 || i > len(t.Steps) {
		return nil, fmt.Errorf("no step %d in trace of %d steps", i, len(t.Steps))
	}
	snap, err := cas.Retrieve[*cas.Snapshot](t.CAS, t.Steps[i-1].Hash)
	if err != nil {
		return nil, err
	}
	return snap.Stack, nil
}
