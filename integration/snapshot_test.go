package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wln-lang/wln/cas"
	"github.com/wln-lang/wln/program"
	"github.com/wln-lang/wln/vm"
)

func traced(t *testing.T, src string) (*program.Executor, *program.Result) {
	t.Helper()
	exec, err := program.NewExecutor(&program.Manifest{}, src)
	require.NoError(t, err)
	exec.Tracer = program.NewTracer(4)
	res, err := exec.Run()
	require.NoError(t, err)
	return exec, res
}

// TestSnapshots_StateEvolution replays every recorded step of a run.
func TestSnapshots_StateEvolution(t *testing.T) {
	exec, res := traced(t, `2 3 + [ $ + "x" +`)
	want := []string{
		"stack: 2",
		"stack: 2 3",
		"stack: 5",
		"stack: 5 []",
		"stack: [] 5",
		"stack: [5]",
		`stack: [5] "x"`,
		`stack: [5 "x"]`,
	}
	require.Len(t, res.Trace, len(want))
	for i, w := range want {
		stack, err := exec.Tracer.Replay(i + 1)
		require.NoError(t, err)
		assert.Equal(t, w, vm.FormatStack(stack), "step %d", i+1)
	}
}

// TestSnapshots_NestedSteps records steps inside evaluated code too.
func TestSnapshots_NestedSteps(t *testing.T) {
	_, res := traced(t, "{1 {2} !} !")
	var depths []int
	for _, s := range res.Trace {
		depths = append(depths, s.Depth)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 1, 0}, depths)
	assert.Equal(t, 2, res.Statistics.MaxDepth)
}

// TestSnapshots_IdenticalStates checks that equal stacks from separate
// runs land on the same hash.
func TestSnapshots_IdenticalStates(t *testing.T) {
	_, a := traced(t, "1 2 +")
	_, b := traced(t, "3")
	assert.Equal(t, a.Trace[len(a.Trace)-1].Hash, b.Trace[0].Hash)
	assert.Equal(t, 3, a.Statistics.UniqueStates)
}

// TestSnapshots_LargeState stores a big stack and reads it back through a
// small cache.
func TestSnapshots_LargeState(t *testing.T) {
	exec, res := traced(t, "[ {% * +} 200 #")
	last := res.Trace[len(res.Trace)-1]
	stack, err := exec.Tracer.Replay(last.Index)
	require.NoError(t, err)
	require.Len(t, stack, 1)
	arr, ok := stack[0].(vm.ArrayValue)
	require.True(t, ok)
	require.Len(t, arr, 200)
	assert.Equal(t, "39601", vm.Format(arr[199]))

	snap, err := cas.Retrieve[*cas.Snapshot](exec.Tracer.CAS, last.Hash)
	require.NoError(t, err)
	assert.True(t, vm.Equal(arr, snap.Stack[0]))
}
