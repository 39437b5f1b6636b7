package program

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wln-lang/wln/interp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fact.toml", `
[program]
max_depth = 40

[properties.single]
final = "len(stack) == 1"

[properties.bounded]
always = "len(stack) < 10"
`)
	m, err := LoadManifestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fact.wln"), m.Program.File)
	require.NotNil(t, m.Program.MaxDepth)
	assert.Equal(t, 40, *m.Program.MaxDepth)
	assert.Equal(t, []string{"bounded", "single"}, m.PropertyNames())
	assert.Equal(t, "len(stack) == 1", m.Properties["single"].Final)
	assert.Equal(t, "len(stack) < 10", m.Properties["bounded"].Always)
}

func TestLoadManifestExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.toml", "[program]\nfile = \"src/main.wln\"\n")
	m, err := LoadManifestFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "main.wln"), m.Program.File)
	assert.Nil(t, m.Program.MaxDepth)
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadManifestFromFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.toml", "[program\n")
	_, err = LoadManifestFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest")
}

func TestManifestMaxDepthZeroDisablesLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deep.wln", "{{{1} !} !} !")
	path := writeFile(t, dir, "deep.toml", "[program]\nmax_depth = 0\n")

	m, err := LoadManifestFromFile(path)
	require.NoError(t, err)
	require.NotNil(t, m.Program.MaxDepth)
	assert.Equal(t, 0, *m.Program.MaxDepth)

	e, err := m.BuildExecutor()
	require.NoError(t, err)
	assert.Equal(t, 0, e.MaxDepth)

	res, err := e.Run()
	require.NoError(t, err)
	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.Statistics.MaxDepth)
}

func TestManifestWithoutMaxDepthUsesDefault(t *testing.T) {
	e, err := NewExecutor(&Manifest{}, "1")
	require.NoError(t, err)
	assert.Equal(t, interp.DefaultMaxDepth, e.MaxDepth)
	assert.Equal(t, os.Stdout, e.Out)
}

func TestLoadBareSource(t *testing.T) {
	m, err := Load("prog.wln")
	require.NoError(t, err)
	assert.Equal(t, "prog.wln", m.Program.File)
	assert.Empty(t, m.Properties)
}

func TestBuildExecutor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sum.wln", "0 {+} 5 #")
	path := writeFile(t, dir, "sum.toml", "[properties.ten]\nfinal = \"stack == [10]\"\n")

	m, err := Load(path)
	require.NoError(t, err)
	e, err := m.BuildExecutor()
	require.NoError(t, err)
	assert.Equal(t, "0 {+} 5 #", e.Source)

	res, err := e.Run()
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Violations)
}

func TestBuildExecutorMissingSource(t *testing.T) {
	m := &Manifest{Program: ProgramDetails{File: filepath.Join(t.TempDir(), "nope.wln")}}
	_, err := m.BuildExecutor()
	assert.Error(t, err)
}
