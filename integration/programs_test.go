package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wln-lang/wln/program"
)

// walkManifests runs fn as a subtest for every manifest under dir.
func walkManifests(t *testing.T, dir string, fn func(t *testing.T, res *program.Result)) {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == "failing" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".toml") {
			return nil
		}

		relPath, _ := filepath.Rel(dir, path)
		testName := strings.TrimSuffix(relPath, ".toml")
		testName = strings.ReplaceAll(testName, string(filepath.Separator), "/")

		t.Run(testName, func(t *testing.T) {
			m, err := program.LoadManifestFromFile(path)
			require.NoError(t, err, "Failed to load manifest")

			exec, err := m.BuildExecutor()
			require.NoError(t, err, "Failed to build executor")
			exec.Tracer = program.NewTracer(10000)

			res, err := exec.Run()
			require.NoError(t, err, "Error during run")
			require.NotNil(t, res, "Result should not be nil")

			t.Logf("Stats: %d steps, %d unique stacks, max depth %d",
				res.Statistics.Steps,
				res.Statistics.UniqueStates,
				res.Statistics.MaxDepth)
			fn(t, res)
		})
		return nil
	})
	require.NoError(t, err, "Error walking testdata directory")
}

// TestPrograms runs every manifest in testdata; all of them must pass.
func TestPrograms(t *testing.T) {
	walkManifests(t, filepath.Join("..", "testdata"), func(t *testing.T, res *program.Result) {
		require.NoError(t, res.Err)
		require.Empty(t, res.Violations)
		require.True(t, res.Success)
		require.Len(t, res.Trace, res.Statistics.Steps)
	})
}

// TestFailingPrograms runs the manifests in testdata/failing, each of
// which either stops with an error or breaks a property.
func TestFailingPrograms(t *testing.T) {
	walkManifests(t, filepath.Join("..", "testdata", "failing"), func(t *testing.T, res *program.Result) {
		require.False(t, res.Success)
		require.True(t, res.Err != nil || len(res.Violations) > 0)
	})
}
