package program

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/wln-lang/wln/cas"
	"github.com/wln-lang/wln/vm"
)

const (
	heavyRule = "================================================================================"
	lightRule = "--------------------------------------------------------------------------------"
)

func writeHeading(b *strings.Builder, rule string, heading string) {
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
}

// FormatRunError is the "Error: <message>" line printed ahead of the final
// stack. It shares stdout with the stack line and stays uncolored.
func FormatRunError(err error) string {
	return "Error: " + err.Error()
}

// FormatPropertyViolation formats a single property violation for display
func FormatPropertyViolation(v PropertyViolation) string {
	var b strings.Builder
	b.WriteString("\n")
	writeHeading(&b, heavyRule, color.Red.Sprint("PROPERTY VIOLATION"))
	b.WriteString(color.Bold.Sprint("Property: "))
	b.WriteString(color.Yellow.Sprintf("%s\n", v.Name))
	b.WriteString(color.Bold.Sprint("Type:     "))
	b.WriteString(fmt.Sprintf("%s\n", v.Kind))
	b.WriteString(color.Bold.Sprint("Message:  "))
	b.WriteString(color.Red.Sprintf("%s\n", v.Message))
	b.WriteString(color.Bold.Sprint("Step:     "))
	b.WriteString(fmt.Sprintf("#%d\n", v.Step))
	b.WriteString(color.Bold.Sprint("Depth:    "))
	b.WriteString(fmt.Sprintf("%d\n", v.Depth))
	if v.CAS != nil {
		b.WriteString(color.Bold.Sprint("Hash:     "))
		b.WriteString(fmt.Sprintf("0x%s\n", v.StateHash))
	}
	b.WriteString("\n")

	if v.ShowDetails && v.CAS != nil && len(v.Trace) > 0 {
		writeHeading(&b, lightRule, color.Cyan.Sprint("Execution Trace:"))
		reconstructTrace(&b, v)
		b.WriteString("\n")
	} else if len(v.Trace) > 0 {
		writeHeading(&b, lightRule, color.Cyan.Sprint("Execution Trace:"))
		for _, step := range v.Trace {
			b.WriteString(formatStepLine(step))
		}
		b.WriteString("\n")
	}

	writeHeading(&b, lightRule, color.Cyan.Sprint("Stack:"))
	b.WriteString("  ")
	b.WriteString(vm.FormatStack(v.Stack))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	return b.String()
}

// reconstructTrace rebuilds every recorded stack from the CAS, writing
// directly to w
func reconstructTrace(w io.Writer, v PropertyViolation) {
	for _, step := range v.Trace {
		snap, err := cas.Retrieve[*cas.Snapshot](v.CAS, step.Hash)
		if err != nil {
			fmt.Fprintf(w, "  %3d. %c → State 0x%s (unavailable)\n", step.Index, step.Token, step.Hash)
			continue
		}
		fmt.Fprintf(w, "  %3d. %c  depth %d\n", step.Index, step.Token, step.Depth)
		fmt.Fprintf(w, "       └─ %s\n", snap.String())
	}
}

func formatStepLine(step TraceStep) string {
	marker := ""
	if step.New {
		marker = color.Green.Sprint(" new")
	}
	indent := strings.Repeat("  ", step.Depth)
	return fmt.Sprintf("  %3d. %s%c  size %d → State 0x%s%s\n",
		step.Index, indent, step.Token, step.StackSize, step.Hash, marker)
}

// FormatTrace lists every recorded step, indented by nesting depth.
func FormatTrace(steps []TraceStep) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Execution trace ==="))
	b.WriteString("\n")
	if len(steps) == 0 {
		b.WriteString("  (no steps executed)\n")
	}
	for _, step := range steps {
		b.WriteString(formatStepLine(step))
	}
	return b.String()
}

// FormatAllViolations formats all property violations for display
func FormatAllViolations(violations []PropertyViolation) string {
	if len(violations) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	writeHeading(&b, heavyRule, color.Red.Sprintf("PROPERTY VIOLATIONS FOUND: %d", len(violations)))

	for i, v := range violations {
		b.WriteString(color.Yellow.Sprintf("\nViolation #%d:\n", i+1))
		b.WriteString(FormatPropertyViolation(v))
	}

	return b.String()
}

// FormatStatistics formats run statistics
func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Run statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Steps executed: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Steps))
	b.WriteString(color.Bold.Sprint("Maximum nesting depth: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.MaxDepth))
	if stats.UniqueStates > 0 {
		b.WriteString(color.Bold.Sprint("Unique stack states: "))
		b.WriteString(fmt.Sprintf("%d\n", stats.UniqueStates))
	}

	b.WriteString(color.Bold.Sprint("Property violations found: "))
	if stats.ViolationCount > 0 {
		b.WriteString(color.Red.Sprintf("%d\n", stats.ViolationCount))
	} else {
		b.WriteString(color.Green.Sprintf("%d\n", stats.ViolationCount))
	}
	return b.String()
}
