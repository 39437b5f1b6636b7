package program

import (
	"fmt"

	"github.com/wln-lang/wln/vm"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

type PropertyKind string

const (
	Always PropertyKind = "always"
	Final  PropertyKind = "final"
)

type PropertyResult struct {
	Success bool
	Message string
	Name    string
	Kind    PropertyKind
	// Step is the number of tokens completed when the property was checked.
	Step int
}

// Property is a Starlark boolean expression over the operand stack.
type Property struct {
	Name       string
	Kind       PropertyKind
	ExprString string
}

// PropertyError reports a property that could not be evaluated, as opposed
// to one that evaluated to False.
type PropertyError struct {
	Name string
	Err  error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %s: %v", e.Name, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

var fileOptions = &syntax.FileOptions{}

// NewProperty syntax-checks expr so that mistakes surface before the run.
func NewProperty(name string, kind PropertyKind, expr string) (*Property, error) {
	if _, err := fileOptions.ParseExpr(name, expr, 0); err != nil {
		return nil, &PropertyError{Name: name, Err: err}
	}
	return &Property{Name: name, Kind: kind, ExprString: expr}, nil
}

// Check evaluates the property against stack. depth is the nesting level and
// steps the number of tokens executed so far.
func (p *Property) Check(stack []vm.Value, depth, steps int) (PropertyResult, error) {
	list, err := toStarlarkList(stack)
	if err != nil {
		return PropertyResult{}, &PropertyError{Name: p.Name, Err: err}
	}
	env := starlark.StringDict{
		"stack": list,
		"depth": starlark.MakeInt(depth),
		"steps": starlark.MakeInt(steps),
	}
	thread := &starlark.Thread{Name: "property " + p.Name}
	val, err := starlark.EvalOptions(fileOptions, thread, p.Name, p.ExprString, env)
	if err != nil {
		return PropertyResult{}, &PropertyError{Name: p.Name, Err: err}
	}
	b, ok := val.(starlark.Bool)
	if !ok {
		return PropertyResult{}, &PropertyError{Name: p.Name, Err: fmt.Errorf("check returned %s, want bool", val.Type())}
	}
	if b {
		return PropertyResult{
			Success: true,
			Name:    p.Name,
			Kind:    p.Kind,
			Step:    steps,
			Message: fmt.Sprintf("Property %s satisfied", p.Name),
		}, nil
	}
	return PropertyResult{
		Success: false,
		Name:    p.Name,
		Kind:    p.Kind,
		Step:    steps,
		Message: fmt.Sprintf("Property %s violated: %s is False", p.Name, p.ExprString),
	}, nil
}

func toStarlarkList(values []vm.Value) (*starlark.List, error) {
	elems := make([]starlark.Value, len(values))
	for i, v := range values {
		sv, err := toStarlark(v)
		if err != nil {
			return nil, err
		}
		elems[i] = sv
	}
	return starlark.NewList(elems), nil
}

func toStarlark(v vm.Value) (starlark.Value, error) {
	switch val := v.(type) {
	case vm.StrValue:
		return starlark.String(val), nil
	case vm.IntValue:
		return starlark.MakeBigInt(val.Big()), nil
	case vm.ArrayValue:
		return toStarlarkList(val)
	}
	return nil, fmt.Errorf("unknown value type: %T", v)
}

// BuildProperties compiles every property of the manifest, ordered by name
// with the always-check of a property before its final-check.
func BuildProperties(m *Manifest) ([]*Property, error) {
	var out []*Property
	for _, name := range m.PropertyNames() {
		spec := m.Properties[name]
		if spec.Always == "" && spec.Final == "" {
			return nil, &PropertyError{Name: name, Err: fmt.Errorf("neither always nor final is set")}
		}
		if spec.Always != "" {
			p, err := NewProperty(name, Always, spec.Always)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		if spec.Final != "" {
			p, err := NewProperty(name, Final, spec.Final)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}
