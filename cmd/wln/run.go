package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wln-lang/wln/program"
	"github.com/wln-lang/wln/vm"
)

var (
	debugFlag   bool
	traceFlag   bool
	detailsFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program (a .wln source file or a .toml manifest)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(execute(args[0], os.Stdout, os.Stderr))
	},
}

func init() {
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Report progress of the run on stderr")
	runCmd.Flags().BoolVar(&traceFlag, "trace", false, "Record and print every execution step")
	runCmd.Flags().BoolVar(&detailsFlag, "details", false, "Show the stack after each step when property violations occur")
}

// execute runs the program at path and returns the process exit code. The
// final stack always goes to stdout; reports go to stderr.
func execute(path string, stdout, stderr io.Writer) int {
	m, err := program.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load program")
	}
	exec, err := m.BuildExecutor()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build executor for program")
	}
	exec.Out = stdout
	if maxDepth >= 0 {
		exec.MaxDepth = maxDepth
	}
	if debugFlag {
		exec.Reporter = &program.ColorReporter{Writer: stderr}
	}
	if traceFlag || detailsFlag {
		exec.Tracer = program.NewTracer(program.DefaultCacheSize)
	}
	exec.ShowDetails = detailsFlag

	result, err := exec.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Error during run")
	}

	if result.Err != nil {
		fmt.Fprintln(stdout, program.FormatRunError(result.Err))
	}
	fmt.Fprintln(stdout, vm.FormatStack(result.Stack))

	if traceFlag {
		fmt.Fprint(stderr, program.FormatTrace(result.Trace))
	}
	if len(result.Violations) > 0 {
		fmt.Fprint(stderr, program.FormatAllViolations(result.Violations))
	}
	if traceFlag || len(exec.Properties) > 0 {
		fmt.Fprint(stderr, program.FormatStatistics(result.Statistics))
		if result.Success {
			fmt.Fprintln(stderr)
			fmt.Fprintln(stderr, color.Green.Sprint("✓ Run completed successfully - all properties satisfied!"))
		}
	}
	if !result.Success {
		return 1
	}
	return 0
}
