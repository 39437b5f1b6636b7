package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wln-lang/wln/interp"
	"github.com/wln-lang/wln/program"
	"golang.org/x/term"
)

const replPrompt = "wln> "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate lines interactively against one persistent stack",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runREPL(); err != nil {
			log.Fatal().Err(err).Msg("REPL failed")
		}
	},
}

func runREPL() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		scanner := bufio.NewScanner(os.Stdin)
		readLine := func() (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		}
		return replLoop(newREPLState(os.Stdout), readLine, os.Stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, replPrompt)
	return replLoop(newREPLState(t), t.ReadLine, t)
}

func newREPLState(out io.Writer) *interp.State {
	opts := []interp.StateOption{interp.WithOutput(out)}
	if maxDepth >= 0 {
		opts = append(opts, interp.WithMaxDepth(maxDepth))
	}
	return interp.NewState(opts...)
}

// replLoop evaluates each line against st and prints the stack afterwards.
// The stack survives errors.
func replLoop(st *interp.State, readLine func() (string, error), w io.Writer) error {
	for {
		line, err := readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case ":quit":
			return nil
		case ":clear":
			st.Clear()
		default:
			if err := interp.EvalString(line, st); err != nil {
				fmt.Fprintln(w, program.FormatRunError(err))
			}
		}
		fmt.Fprintln(w, st.String())
	}
}
