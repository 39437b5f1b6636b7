package program

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Reporter receives progress lines while a program runs.
type Reporter interface {
	Printf(format string, args ...interface{})
}

// SilentReporter drops everything.
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...interface{}) {}

// ColorReporter writes dimmed progress lines to Writer, usually stderr, so
// they stand apart from the output of 'Z' on stdout.
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Printf(format string, args ...interface{}) {
	fmt.Fprint(r.Writer, color.Gray.Sprintf(format, args...))
}
