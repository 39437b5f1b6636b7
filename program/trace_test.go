package program

import (
	"bytes"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wln-lang/wln/cas"
	"github.com/wln-lang/wln/vm"
)

func TestTracerReplay(t *testing.T) {
	tr := NewTracer(2)
	stack := []vm.Value{vm.NewInt(1)}
	_, err := tr.Record('1', 0, stack)
	require.NoError(t, err)

	stack = append(stack, vm.ArrayValue{vm.StrValue("a")})
	step, err := tr.Record('[', 1, stack)
	require.NoError(t, err)
	assert.Equal(t, 2, step.Index)
	assert.Equal(t, 2, step.StackSize)
	assert.True(t, step.New)

	// Mutating the live stack must not change what was recorded.
	stack[0] = vm.NewInt(99)

	got, err := tr.Replay(2)
	require.NoError(t, err)
	assert.Equal(t, `stack: 1 ["a"]`, vm.FormatStack(got))

	got, err = tr.Replay(1)
	require.NoError(t, err)
	assert.Equal(t, "stack: 1", vm.FormatStack(got))

	_, err = tr.Replay(3)
	assert.Error(t, err)
	_, err = tr.Replay(0)
	assert.Error(t, err)
	assert.Equal(t, 2, tr.Unique())
}

func TestTracerReplayReusesRebuiltValues(t *testing.T) {
	tr := NewTracer(8)
	stack := []vm.Value{vm.ArrayValue{vm.NewInt(1), vm.NewInt(2)}, vm.StrValue("s")}
	_, err := tr.Record('s', 0, stack)
	require.NoError(t, err)

	lru, ok := tr.CAS.(*cas.LRUCache)
	require.True(t, ok)

	first, err := tr.Replay(1)
	require.NoError(t, err)
	cold := lru.Stats()
	assert.Equal(t, 0, cold.Hits)
	assert.Equal(t, 4, cold.Misses)

	second, err := tr.Replay(1)
	require.NoError(t, err)
	warm := lru.Stats()
	assert.Equal(t, cold.Misses, warm.Misses)
	assert.Equal(t, 2, warm.Hits)
	assert.Equal(t, vm.FormatStack(first), vm.FormatStack(second))
	assert.Equal(t, `stack: [1 2] "s"`, vm.FormatStack(second))
}

func TestFormatTrace(t *testing.T) {
	assert.Contains(t, FormatTrace(nil), "no steps executed")

	tr := NewTracer(0)
	_, err := tr.Record('5', 0, []vm.Value{vm.NewInt(5)})
	require.NoError(t, err)
	out := FormatTrace(tr.Steps)
	assert.Contains(t, out, "1. 5")
	assert.Contains(t, out, tr.Steps[0].Hash.String())
}

func TestFormatStatistics(t *testing.T) {
	out := FormatStatistics(Statistics{Steps: 12, MaxDepth: 3, UniqueStates: 7, ViolationCount: 0})
	assert.Contains(t, out, "Steps executed: ")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Unique stack states: ")
}

func TestColorReporter(t *testing.T) {
	color.Disable()
	var out bytes.Buffer
	r := &ColorReporter{Writer: &out}
	r.Printf("step %d\n", 3)
	assert.Equal(t, "step 3\n", out.String())
}
