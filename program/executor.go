package program

import (
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wln-lang/wln/cas"
	"github.com/wln-lang/wln/interp"
	"github.com/wln-lang/wln/vm"
)

// An Executor is the context and entrypoint for running a program
type Executor struct {
	Manifest   *Manifest
	Source     string
	Properties []*Property
	MaxDepth   int

	// Out receives the output of 'Z'.
	Out io.Writer

	// Tracer, if set, records a snapshot of the stack after every step.
	Tracer *Tracer

	Reporter    Reporter
	ShowDetails bool
}

// PropertyViolation is a failed property together with the context needed
// to explain it.
type PropertyViolation struct {
	PropertyResult
	Depth       int
	Stack       []vm.Value
	StateHash   cas.Hash
	Trace       []TraceStep
	ShowDetails bool
	CAS         cas.CAS
}

type Statistics struct {
	Steps          int
	MaxDepth       int
	UniqueStates   int
	ViolationCount int
}

type Result struct {
	RunID uuid.UUID
	Stack []vm.Value

	// Err is the evaluation error, if the program failed. The stack is
	// whatever was left at the point of failure.
	Err error

	Violations []PropertyViolation
	Statistics Statistics
	Trace      []TraceStep
	Success    bool
}

func NewExecutor(m *Manifest, src string) (*Executor, error) {
	props, err := BuildProperties(m)
	if err != nil {
		return nil, err
	}
	e := &Executor{
		Manifest:   m,
		Source:     src,
		Properties: props,
		MaxDepth:   interp.DefaultMaxDepth,
		Out:        os.Stdout,
		Reporter:   &SilentReporter{},
	}
	if m.Program.MaxDepth != nil {
		e.MaxDepth = *m.Program.MaxDepth
	}
	return e, nil
}

func (e *Executor) propertiesOf(kind PropertyKind) []*Property {
	var out []*Property
	for _, p := range e.Properties {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

type run struct {
	exec       *Executor
	always     []*Property
	failed     map[string]bool
	violations []PropertyViolation
}

// Run evaluates the source once. Evaluation errors are reported in the
// Result; the returned error is reserved for failures of the run itself,
// such as a property that cannot be evaluated.
func (e *Executor) Run() (*Result, error) {
	id := uuid.New()
	log.Debug().Stringer("run_id", id).Int("max_depth", e.MaxDepth).Int("properties", len(e.Properties)).Msg("Executor: starting run")

	r := &run{
		exec:   e,
		always: e.propertiesOf(Always),
		failed: make(map[string]bool),
	}
	st := interp.NewState(
		interp.WithOutput(e.Out),
		interp.WithMaxDepth(e.MaxDepth),
		interp.WithStepHook(r.afterStep),
	)

	if err := r.checkAlways(st); err != nil {
		return nil, err
	}

	evalErr := interp.EvalString(e.Source, st)
	var ierr *interp.Error
	if evalErr != nil && !errors.As(evalErr, &ierr) {
		// Raised by the step hook, not by the program.
		return nil, evalErr
	}
	if evalErr != nil {
		e.Reporter.Printf("Evaluation stopped after %d steps: %s\n", st.Steps(), evalErr)
	}

	for _, p := range e.propertiesOf(Final) {
		res, err := p.Check(st.Stack, st.Depth(), st.Steps())
		if err != nil {
			return nil, err
		}
		if !res.Success {
			r.violate(res, st)
		}
	}

	result := &Result{
		RunID:      id,
		Stack:      st.Stack,
		Err:        evalErr,
		Violations: r.violations,
		Statistics: Statistics{
			Steps:          st.Steps(),
			MaxDepth:       st.MaxDepthReached(),
			ViolationCount: len(r.violations),
		},
		Success: evalErr == nil && len(r.violations) == 0,
	}
	if e.Tracer != nil {
		result.Trace = e.Tracer.Steps
		result.Statistics.UniqueStates = e.Tracer.Unique()
	}
	log.Debug().Stringer("run_id", id).Bool("success", result.Success).Int("steps", result.Statistics.Steps).Msg("Executor: run finished")
	return result, nil
}

func (r *run) afterStep(token rune, depth int, st *interp.State) error {
	if r.exec.Tracer != nil {
		if _, err := r.exec.Tracer.Record(token, depth, st.Stack); err != nil {
			return err
		}
	}
	if depth != 0 {
		return nil
	}
	return r.checkAlways(st)
}

// checkAlways reports each always-property at most once: the first step
// that breaks it.
func (r *run) checkAlways(st *interp.State) error {
	for _, p := range r.always {
		if r.failed[p.Name] {
			continue
		}
		res, err := p.Check(st.Stack, st.Depth(), st.Steps())
		if err != nil {
			return err
		}
		if !res.Success {
			r.failed[p.Name] = true
			r.violate(res, st)
		}
	}
	return nil
}

func (r *run) violate(res PropertyResult, st *interp.State) {
	e := r.exec
	v := PropertyViolation{
		PropertyResult: res,
		Depth:          st.Depth(),
		Stack:          st.Snapshot(),
		ShowDetails:    e.ShowDetails,
	}
	if e.Tracer != nil {
		v.CAS = e.Tracer.CAS
		v.Trace = append([]TraceStep(nil), e.Tracer.Steps...)
		if h, err := e.Tracer.CAS.Put(&cas.Snapshot{Stack: st.Stack}); err == nil {
			v.StateHash = h
		}
	}
	e.Reporter.Printf("Property %s violated at step %d\n", res.Name, res.Step)
	r.violations = append(r.violations, v)
}
