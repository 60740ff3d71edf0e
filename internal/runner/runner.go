// Package runner abstracts external command execution so the extraction and
// ingestion tools can be replaced by test doubles.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs an external command and returns its captured stdout.
// A non-zero exit produces an error that wraps the underlying exec error and
// includes the tool's stderr output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Compile-time check that ExecRunner implements CommandRunner.
var _ CommandRunner = (*ExecRunner)(nil)

// ExecRunner executes real processes with os/exec.
type ExecRunner struct {
	// Dir is the working directory for spawned commands; empty means inherit.
	Dir string
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.Bytes(), fmt.Errorf("%s: %w", name, ctxErr)
		}
		if stderr.Len() > 0 {
			return stdout.Bytes(), fmt.Errorf("%s: %s: %w", name, strings.TrimSpace(stderr.String()), err)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// ExitCode digs the external tool's exit status out of an error chain.
// Returns -1 when the error carries no exit status.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
