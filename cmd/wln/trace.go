package main

import (
	"os"

	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace FILE",
	Short: "Run a program and print every step with the hash of the stack it produced",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		traceFlag = true
		os.Exit(execute(args[0], os.Stdout, os.Stderr))
	},
}
