package main

import (
	"fmt"
	"os"

	"pdfpipe/internal/runner"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// propagate the failing tool's exit status where we have one
		if code := runner.ExitCode(err); code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
