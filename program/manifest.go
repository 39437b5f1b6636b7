package program

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceExt is the extension of program source files.
const SourceExt = ".wln"

// Manifest describes a program run: which source to evaluate, the limits to
// evaluate it under, and the properties its stack must satisfy.
type Manifest struct {
	Program    ProgramDetails          `toml:"program"`
	Properties map[string]PropertySpec `toml:"properties,omitempty"`
}

type ProgramDetails struct {
	File     string `toml:"file,omitempty"`
	MaxDepth *int   `toml:"max_depth,omitempty"`
}

// PropertySpec holds Starlark expressions over the globals `stack`, `depth`
// and `steps`. Final is checked once after the run, Always after every
// top-level token.
type PropertySpec struct {
	Always string `toml:"always,omitempty"`
	Final  string `toml:"final,omitempty"`
}

func parseManifest(f io.Reader) (*Manifest, error) {
	var out Manifest
	_, err := toml.NewDecoder(f).Decode(&out)
	return &out, err
}

func LoadManifestFromFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	m, err := parseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Program.File == "" {
		m.Program.File = strings.TrimSuffix(fi.Name(), filepath.Ext(fi.Name())) + SourceExt
	}
	if !filepath.IsAbs(m.Program.File) {
		m.Program.File = filepath.Join(filepath.Dir(path), m.Program.File)
	}
	m.Program.File = filepath.Clean(m.Program.File)
	return m, nil
}

// Load accepts either a TOML manifest or a bare source file, which runs
// with default settings and no properties.
func Load(path string) (*Manifest, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadManifestFromFile(path)
	}
	return &Manifest{Program: ProgramDetails{File: path}}, nil
}

// PropertyNames returns the declared property names in sorted order.
func (m *Manifest) PropertyNames() []string {
	names := make([]string, 0, len(m.Properties))
	for k := range m.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) BuildExecutor() (*Executor, error) {
	src, err := os.ReadFile(m.Program.File)
	if err != nil {
		return nil, err
	}
	return NewExecutor(m, string(src))
}
